package crc

import "errors"

var (
	ErrUnsupportedWidth   = errors.New("crc: unsupported width")
	ErrWidthMismatch      = errors.New("crc: value does not fit in configured width")
	ErrBufferSizeMismatch = errors.New("crc: buffer size mismatch")
)
