package fail

import "fmt"

type delegated struct {
	err error
}

func (it delegated) Error() string {
	return it.err.Error()
}

func (it delegated) Unwrap() error {
	return it.err
}

// On panics with formatted error when condition holds. Pair it with a
// deferred Around in the same function.
func On(condition bool, form string, details ...interface{}) {
	if condition {
		panic(delegated{fmt.Errorf(form, details...)})
	}
}

// Fast panics with err when it is not nil.
func Fast(err error) {
	if err != nil {
		panic(delegated{err})
	}
}

// Around converts panics raised by On and Fast back into a returned error.
// Other panics pass through untouched.
func Around(err *error) {
	original := recover()
	if original == nil {
		return
	}
	catch, ok := original.(delegated)
	if !ok {
		panic(original)
	}
	*err = catch.err
}
