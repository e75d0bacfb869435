package serialize

import "errors"

var (
	ErrInsufficientSpace     = errors.New("serialize: insufficient space in buffer")
	ErrInsufficientData      = errors.New("serialize: insufficient data available")
	ErrMultidimensionalArray = errors.New("serialize: multidimensional arrays are not supported")
	ErrEmptyArray            = errors.New("serialize: array must be non-empty")
	ErrUnsupportedKind       = errors.New("serialize: unsupported value kind")
)
