package transport

import (
	"fmt"
	"time"

	"github.com/Sun-Lab-NBB/ataraxis-transport-layer-pc-sub000/internal/crc"
)

// Config holds the immutable-after-construction parameters of a Transport.
type Config struct {
	// Start and Delimiter frame the packet on the wire; they must differ.
	Start     byte
	Delimiter byte

	// CRC configuration; see internal/crc for the exact algorithm.
	CRCWidth     crc.Width
	Polynomial   uint64
	InitialValue uint64
	FinalXor     uint64

	// MaxTxPayload bounds what WriteData/SendData will stage and is also
	// used, symmetrically, as the receive side's declared-size upper
	// bound (the two ends of a link are assumed to share one configured
	// maximum payload).
	MaxTxPayload int
	// MinRxPayload is the receive side's declared-size lower bound.
	MinRxPayload int

	// InterByteTimeout bounds the gap between two consecutive bytes of
	// the same in-flight packet.
	InterByteTimeout time.Duration

	// AllowStartByteErrors turns a missing start byte into an error
	// instead of a silent NoPacket result.
	AllowStartByteErrors bool
}

// CRCByteLen returns the configured CRC width in bytes.
func (c Config) CRCByteLen() int { return int(c.CRCWidth) }

// MinPacketSize is the smallest possible on-wire packet for this config:
// START + SIZE + COBS overhead byte + trailing delimiter + MinRxPayload
// payload bytes + CRC.
func (c Config) MinPacketSize() int {
	return c.MinRxPayload + 4 + c.CRCByteLen()
}

func (c Config) validate() error {
	if c.Start == c.Delimiter {
		return ErrStartEqualsDelimiter
	}
	switch c.CRCWidth {
	case crc.Width8, crc.Width16, crc.Width32:
	default:
		return fmt.Errorf("%w: %d", ErrUnsupportedCRCWidth, c.CRCWidth)
	}
	if c.MaxTxPayload < 1 || c.MaxTxPayload > 254 {
		return fmt.Errorf("%w: max_tx_payload=%d", ErrBadPayloadBounds, c.MaxTxPayload)
	}
	if c.MinRxPayload < 1 || c.MinRxPayload > 254 {
		return fmt.Errorf("%w: min_rx_payload=%d", ErrBadPayloadBounds, c.MinRxPayload)
	}
	if c.InterByteTimeout <= 0 {
		return fmt.Errorf("%w: inter_byte_timeout must be positive", ErrBadPayloadBounds)
	}
	return nil
}
