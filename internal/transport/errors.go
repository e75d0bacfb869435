package transport

import "errors"

// Configuration errors: raised at construction, fatal to the instance.
var (
	ErrStartEqualsDelimiter = errors.New("transport: start byte equals delimiter byte")
	ErrBadPayloadBounds     = errors.New("transport: payload bound out of range")
	ErrUnsupportedCRCWidth  = errors.New("transport: unsupported crc width")
	ErrWidthMismatch        = errors.New("transport: crc parameter does not fit configured width")
)

// Framing errors: raised by C4 on the send path.
var ErrFramingFailed = errors.New("transport: framing failed")

// Reception timing errors: raised by C5, reset the transport to AwaitStart.
var (
	ErrSizeTimeout = errors.New("transport: timed out waiting for size byte")
	ErrBodyTimeout = errors.New("transport: timed out waiting for packet body")
	ErrCrcTimeout  = errors.New("transport: timed out waiting for crc bytes")
)

// Integrity / framing-on-receive errors: raised by C5.
var (
	ErrBadSize           = errors.New("transport: declared size out of bounds")
	ErrCrcMismatch       = errors.New("transport: crc mismatch")
	ErrStartMissingError = errors.New("transport: start byte missing from noise")
	ErrDeviceRead        = errors.New("transport: device read error")
	ErrDeviceWrite       = errors.New("transport: device write error")
)

// CrcMismatchError carries both the received and recomputed checksum so
// callers can log or report the discrepancy.
type CrcMismatchError struct {
	Received uint64
	Expected uint64
}

func (e *CrcMismatchError) Error() string {
	return "transport: crc mismatch: received != recomputed"
}

func (e *CrcMismatchError) Unwrap() error { return ErrCrcMismatch }
