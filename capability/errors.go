package capability

import (
	"errors"
	"fmt"
)

var (
	ErrIntrospection    = errors.New("no capability table for handle kind")
	ErrUnknownAttribute = errors.New("unknown attribute")
	ErrConversion       = errors.New("value conversion failed")
	ErrApply            = errors.New("applying value failed")
)

// Fault reports a failed attribute operation. Reason is one of the
// package sentinels, Err the underlying cause if any.
type Fault struct {
	Label  string
	Op     string
	Reason error
	Err    error
}

func (it *Fault) Error() string {
	if it.Err == nil {
		return fmt.Sprintf("%s %q: %v", it.Op, it.Label, it.Reason)
	}
	return fmt.Sprintf("%s %q: %v: %v", it.Op, it.Label, it.Reason, it.Err)
}

func (it *Fault) Unwrap() []error {
	if it.Err == nil {
		return []error{it.Reason}
	}
	return []error{it.Reason, it.Err}
}

func fault(op, label string, reason, err error) error {
	return &Fault{Label: label, Op: op, Reason: reason, Err: err}
}
