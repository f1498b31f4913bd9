package gatt

import "errors"

const (
	Unrecognised = "Unrecognised"
)

var (
	// ErrUnknownSchema reports a service or characteristic missing from the catalog.
	ErrUnknownSchema = errors.New("unrecognised characteristic")
	ErrUnknownField  = errors.New("unknown field")
	ErrConversion    = errors.New("value conversion failed")
	ErrTruncated     = errors.New("payload too short")
)
