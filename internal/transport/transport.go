// Package transport implements the core host-side runtime described by the
// protocol: the staged encode/decode pipeline (C3), the framer (C4), and
// the resumable packet parser (C5), composed around an instance-owned CRC
// table (C2) and COBS codec (C1).
//
// A Transport is single-threaded and cooperative: it holds no internal
// lock because it shares nothing across goroutines. Callers that need to
// run it on a background worker should use internal/supervisor, which
// guarantees exactly one owning goroutine.
package transport

import (
	"github.com/Sun-Lab-NBB/ataraxis-transport-layer-pc-sub000/internal/crc"
	"github.com/Sun-Lab-NBB/ataraxis-transport-layer-pc-sub000/internal/device"
	"github.com/Sun-Lab-NBB/ataraxis-transport-layer-pc-sub000/internal/serialize"
)

// Transport owns the transmission/reception buffers, the serial device,
// and the CRC table for one configured link.
type Transport struct {
	cfg       Config
	dev       device.Device
	crcEngine *crc.Engine

	txBuf  []byte // staged outbound payload, txBuf[0:txUsed]
	txUsed int

	rxBuf  []byte // decoded inbound payload after a successful ReceiveData
	rxUsed int

	leftover []byte // bytes read from the device but not yet consumed by the parser
	scratch  []byte // reusable read scratch buffer, avoids per-call allocation
	frame    []byte // reusable send-side scratch buffer (zero-copy framing)
}

// New validates cfg, builds the CRC table, and wraps dev. It does not open
// or close dev; callers are expected to pass an already-open device.Device
// (device.OpenSerial performs the open-close-reopen dance to defeat stale
// OS-level port locks before handing back a ready adapter).
func New(cfg Config, dev device.Device) (*Transport, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	engine, err := crc.New(cfg.CRCWidth, cfg.Polynomial, cfg.InitialValue, cfg.FinalXor)
	if err != nil {
		return nil, err
	}
	rxCap := cfg.MaxTxPayload + 2 + cfg.CRCByteLen()
	return &Transport{
		cfg:       cfg,
		dev:       dev,
		crcEngine: engine,
		txBuf:     make([]byte, cfg.MaxTxPayload),
		rxBuf:     make([]byte, rxCap),
		scratch:   make([]byte, rxCap),
		frame:     make([]byte, 2+rxCap),
	}, nil
}

// WriteData serializes value into the transmission buffer at off (or at
// the current tx_used cursor if off is negative) and advances tx_used to
// the high-water mark of bytes written.
func (t *Transport) WriteData(value serialize.Serializable, off int) (int, error) {
	if off < 0 {
		off = t.txUsed
	}
	newOff, err := serialize.Write(t.txBuf, value, off)
	if err != nil {
		return off, err
	}
	if newOff > t.txUsed {
		t.txUsed = newOff
	}
	return newOff, nil
}

// ReadData deserializes prototype out of the reception buffer at off.
// It never modifies rx_used.
func (t *Transport) ReadData(prototype serialize.Serializable, off int) (int, error) {
	return serialize.Read(t.rxBuf, prototype, off, t.rxUsed)
}

// ResetTransmissionBuffer zeroes the tx_used cursor without clearing the
// buffer's contents (they will be overwritten before being read again).
func (t *Transport) ResetTransmissionBuffer() { t.txUsed = 0 }

// ResetReceptionBuffer zeroes the rx_used cursor.
func (t *Transport) ResetReceptionBuffer() { t.rxUsed = 0 }

// TxUsed returns the number of bytes currently staged for transmission.
func (t *Transport) TxUsed() int { return t.txUsed }

// RxUsed returns the number of decoded payload bytes currently available.
func (t *Transport) RxUsed() int { return t.rxUsed }

// TransmissionBufferCopy returns a copy of the staged payload; buffers are
// never exposed as mutable aliases.
func (t *Transport) TransmissionBufferCopy() []byte {
	out := make([]byte, t.txUsed)
	copy(out, t.txBuf[:t.txUsed])
	return out
}

// ReceptionBufferCopy returns a copy of the decoded payload.
func (t *Transport) ReceptionBufferCopy() []byte {
	out := make([]byte, t.rxUsed)
	copy(out, t.rxBuf[:t.rxUsed])
	return out
}

// Available reports whether the device currently has bytes that might
// start a new packet (best-effort; does not guarantee a full packet).
func (t *Transport) Available() bool {
	if len(t.leftover) > 0 {
		return true
	}
	n, err := t.dev.Available()
	return err == nil && n > 0
}

// Close releases the underlying device.
func (t *Transport) Close() error { return t.dev.Close() }
