package supervisor

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/Sun-Lab-NBB/ataraxis-transport-layer-pc-sub000/internal/crc"
	"github.com/Sun-Lab-NBB/ataraxis-transport-layer-pc-sub000/internal/device"
	"github.com/Sun-Lab-NBB/ataraxis-transport-layer-pc-sub000/internal/serialize"
	"github.com/Sun-Lab-NBB/ataraxis-transport-layer-pc-sub000/internal/transport"
)

func testConfig() transport.Config {
	return transport.Config{
		Start:            0x81,
		Delimiter:        0x00,
		CRCWidth:         crc.Width16,
		Polynomial:       0x1021,
		InitialValue:     0xFFFF,
		FinalXor:         0x0000,
		MaxTxPayload:     254,
		MinRxPayload:     1,
		InterByteTimeout: 20 * time.Millisecond,
	}
}

func TestSupervisor_SendDeliversToReceiveLoop(t *testing.T) {
	loop := device.NewMock()
	loop.EnableLoopback()

	senderTr, err := transport.New(testConfig(), loop)
	if err != nil {
		t.Fatalf("transport.New sender: %v", err)
	}
	sender := New(senderTr, nil, WithQueueDepth(1))

	var mu sync.Mutex
	var gotLen int
	var gotByte byte
	recvCh := make(chan struct{}, 1)

	receiverTr, err := transport.New(testConfig(), loop)
	if err != nil {
		t.Fatalf("transport.New receiver: %v", err)
	}
	receiver := New(receiverTr, func(tr *transport.Transport, payloadLen int) {
		mu.Lock()
		gotLen = payloadLen
		gotByte = tr.ReceptionBufferCopy()[0]
		mu.Unlock()
		select {
		case recvCh <- struct{}{}:
		default:
		}
	}, WithPollInterval(time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sender.Start(ctx)
	receiver.Start(ctx)
	defer sender.Stop()
	defer receiver.Stop()

	if err := sender.Send(ctx, &serialize.U8{V: 0x2A}); err != nil {
		t.Fatalf("Send: %v", err)
	}

	select {
	case <-recvCh:
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for supervisor to deliver payload")
	}

	mu.Lock()
	defer mu.Unlock()
	if gotLen != 1 || gotByte != 0x2A {
		t.Fatalf("got len=%d byte=0x%02X want len=1 byte=0x2A", gotLen, gotByte)
	}
}
