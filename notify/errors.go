package notify

import "errors"

var (
	ErrUnsupported = errors.New("notifications are not supported for this object")
	ErrClosed      = errors.New("notification registry is closed")
)
