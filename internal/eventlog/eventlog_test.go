package eventlog

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLog_AppendAndReplay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.log")
	l, err := Open(path, 0)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	want := []Record{
		{UnixNanoTime: 1, Payload: []byte{0x2A}},
		{UnixNanoTime: 2, Payload: []byte{1, 2, 3, 4, 5}},
	}
	for _, r := range want {
		if err := l.Append(r); err != nil {
			t.Fatalf("Append: %v", err)
		}
	}
	if err := l.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	var got []Record
	if err := Replay(path, func(r Record) error {
		got = append(got, r)
		return nil
	}); err != nil {
		t.Fatalf("Replay: %v", err)
	}

	if len(got) != len(want) {
		t.Fatalf("got %d records, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i].UnixNanoTime != want[i].UnixNanoTime {
			t.Fatalf("record %d: time got %d want %d", i, got[i].UnixNanoTime, want[i].UnixNanoTime)
		}
		if string(got[i].Payload) != string(want[i].Payload) {
			t.Fatalf("record %d: payload got %v want %v", i, got[i].Payload, want[i].Payload)
		}
	}
}

func TestLog_RotatesWhenOverMaxBytes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.log")
	l, err := Open(path, 32)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer l.Close()

	for i := 0; i < 10; i++ {
		if err := l.Append(Record{UnixNanoTime: int64(i), Payload: []byte{0x01, 0x02, 0x03}}); err != nil {
			t.Fatalf("Append %d: %v", i, err)
		}
	}

	rotated := path + ".1"
	if _, err := os.Stat(rotated); err != nil {
		t.Fatalf("expected rotated file %s to exist: %v", rotated, err)
	}
}
