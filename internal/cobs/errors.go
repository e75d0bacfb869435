package cobs

import "errors"

// Sentinel errors for wrapping so callers can classify via errors.Is.
var (
	ErrPayloadEmpty     = errors.New("cobs: payload empty")
	ErrPayloadTooLarge  = errors.New("cobs: payload too large")
	ErrPacketTooSmall   = errors.New("cobs: packet too small")
	ErrPacketTooLarge   = errors.New("cobs: packet too large")
	ErrDelimiterEarly   = errors.New("cobs: delimiter encountered early")
	ErrDelimiterMissing = errors.New("cobs: delimiter chain never terminates")
)
