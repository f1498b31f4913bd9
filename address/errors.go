package address

import "errors"

var (
	// ErrMalformed reports address text that cannot be parsed.
	ErrMalformed = errors.New("malformed address")

	// ErrDepthExceeded reports an attempt to go below characteristic level.
	ErrDepthExceeded = errors.New("address depth exceeded")
)
