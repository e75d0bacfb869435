package bridge

import (
	"testing"
	"time"
)

func TestBridge_PublishFanOut(t *testing.T) {
	b := New()
	s1 := NewSubscriber(4)
	s2 := NewSubscriber(4)
	b.Subscribe(s1)
	b.Subscribe(s2)

	b.Publish([]byte{0x2A})

	for _, s := range []*Subscriber{s1, s2} {
		select {
		case got := <-s.Out:
			if len(got) != 1 || got[0] != 0x2A {
				t.Fatalf("got %v want [0x2A]", got)
			}
		case <-time.After(time.Second):
			t.Fatal("timed out waiting for fan-out delivery")
		}
	}
}

func TestBridge_DropPolicyDiscardsWhenFull(t *testing.T) {
	b := New()
	s := NewSubscriber(1)
	b.Subscribe(s)

	b.Publish([]byte{1})
	b.Publish([]byte{2}) // channel already full, dropped under PolicyDrop

	select {
	case <-s.Closed:
		t.Fatal("subscriber should not be closed under PolicyDrop")
	default:
	}
	got := <-s.Out
	if got[0] != 1 {
		t.Fatalf("got %v want first published payload", got)
	}
}

func TestBridge_KickPolicyClosesSlowSubscriber(t *testing.T) {
	b := New()
	b.Policy = PolicyKick
	s := NewSubscriber(1)
	b.Subscribe(s)

	b.Publish([]byte{1})
	b.Publish([]byte{2}) // channel full, PolicyKick closes the subscriber

	select {
	case <-s.Closed:
	case <-time.After(time.Second):
		t.Fatal("expected subscriber to be closed under PolicyKick")
	}
}

func TestBridge_UnsubscribeStopsDelivery(t *testing.T) {
	b := New()
	s := NewSubscriber(1)
	b.Subscribe(s)
	b.Unsubscribe(s)

	if b.Count() != 0 {
		t.Fatalf("count: got %d want 0", b.Count())
	}
	b.Publish([]byte{1})
	select {
	case v := <-s.Out:
		t.Fatalf("unsubscribed subscriber should not receive, got %v", v)
	default:
	}
}
