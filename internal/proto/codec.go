package proto

import (
	"errors"
	"fmt"

	"github.com/Sun-Lab-NBB/ataraxis-transport-layer-pc-sub000/internal/serialize"
	"github.com/Sun-Lab-NBB/ataraxis-transport-layer-pc-sub000/internal/transport"
)

// ErrNoPacket is returned by Receive when the transport reported NoPacket
// (nil error, Received == false): there was nothing to dispatch on.
var ErrNoPacket = errors.New("proto: no packet available")

// Transport is the subset of *transport.Transport the codec needs. Defining
// it here (rather than depending on the concrete type everywhere) keeps
// proto honest about never touching transport internals.
type Transport interface {
	WriteData(value serialize.Serializable, off int) (int, error)
	ReadData(prototype serialize.Serializable, off int) (int, error)
	SendData() (bool, error)
	ReceiveData() (transport.ReceiveResult, error)
}

// Codec stages and interprets Kind-tagged payloads through a Transport. It
// holds no state of its own beyond the Transport it wraps.
type Codec struct {
	T Transport
}

// New wraps an already-constructed transport.
func New(t Transport) *Codec { return &Codec{T: t} }

// Send stages kind as the first byte of the payload, followed by fields in
// order, and immediately frames and writes the packet.
func (c *Codec) Send(kind Kind, fields ...serialize.Serializable) error {
	if _, err := c.T.WriteData(&serialize.U8{V: byte(kind)}, -1); err != nil {
		return fmt.Errorf("proto: stage kind: %w", err)
	}
	for i, f := range fields {
		if _, err := c.T.WriteData(f, -1); err != nil {
			return fmt.Errorf("proto: stage field %d: %w", i, err)
		}
	}
	ok, err := c.T.SendData()
	if err != nil {
		return fmt.Errorf("proto: send: %w", err)
	}
	if !ok {
		return fmt.Errorf("proto: send: transport reported failure with no error")
	}
	return nil
}

// Receive pulls one packet and returns its Kind, leaving the remaining
// payload bytes (after the kind byte) available via ReadField at offset 1.
func (c *Codec) Receive() (Kind, error) {
	res, err := c.T.ReceiveData()
	if err != nil {
		return 0, fmt.Errorf("proto: receive: %w", err)
	}
	if !res.Received {
		return 0, ErrNoPacket
	}
	kind := &serialize.U8{}
	if _, err := c.T.ReadData(kind, 0); err != nil {
		return 0, fmt.Errorf("proto: read kind: %w", err)
	}
	return Kind(kind.V), nil
}

// ReadField deserializes prototype out of the most recently received
// payload at the given offset (1 skips the leading kind byte).
func (c *Codec) ReadField(prototype serialize.Serializable, off int) (int, error) {
	n, err := c.T.ReadData(prototype, off)
	if err != nil {
		return n, fmt.Errorf("proto: read field: %w", err)
	}
	return n, nil
}
