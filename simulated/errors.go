package simulated

import "errors"

var (
	// ErrNoGovernor is returned for addresses that have no governor of their own: root and services.
	ErrNoGovernor  = errors.New("no governor at this address")
	ErrUnsupported = errors.New("operation not supported by characteristic flags")
)
