package console

import "errors"

var (
	ErrUnknownVerb = errors.New("unknown command")
	ErrUnavailable = errors.New("command is not available")
	ErrUsage       = errors.New("wrong arguments")
	ErrNoHistory   = errors.New("notification journal is not enabled")
	ErrRejected    = errors.New("write was not acknowledged")
)
