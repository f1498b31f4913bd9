// Package hamlet is a tiny specification helper for tests: to be, or not
// to be. Specifications returns a positive and a negative asserter bound to
// the same test.
package hamlet

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"testing"
)

type Hamlet struct {
	t        testing.TB
	positive bool
}

func Specifications(t testing.TB) (*Hamlet, *Hamlet) {
	return &Hamlet{t: t, positive: true}, &Hamlet{t: t, positive: false}
}

func (it *Hamlet) verdict(outcome bool, form string, details ...interface{}) {
	it.t.Helper()
	if outcome == it.positive {
		return
	}
	prefix := "must be"
	if !it.positive {
		prefix = "wont be"
	}
	it.t.Fatalf("%s %s", prefix, fmt.Sprintf(form, details...))
}

func isNil(value interface{}) bool {
	if value == nil {
		return true
	}
	kind := reflect.ValueOf(value)
	switch kind.Kind() {
	case reflect.Chan, reflect.Func, reflect.Interface, reflect.Map, reflect.Pointer, reflect.Slice:
		return kind.IsNil()
	}
	return false
}

func (it *Hamlet) Equal(expected, actual interface{}) {
	it.t.Helper()
	it.verdict(reflect.DeepEqual(expected, actual), "equal: expected %#v, actual %#v", expected, actual)
}

func (it *Hamlet) Nil(value interface{}) {
	it.t.Helper()
	it.verdict(isNil(value), "nil: %#v", value)
}

func (it *Hamlet) True(value bool) {
	it.t.Helper()
	it.verdict(value, "true")
}

func (it *Hamlet) Contains(text, fragment string) {
	it.t.Helper()
	it.verdict(strings.Contains(text, fragment), "containing %q in:\n%s", fragment, text)
}

func (it *Hamlet) ErrorIs(err, target error) {
	it.t.Helper()
	it.verdict(errors.Is(err, target), "error %v matching %v", err, target)
}

func (it *Hamlet) Panic(todo func()) {
	it.t.Helper()
	panicked := func() (result bool) {
		defer func() {
			if recover() != nil {
				result = true
			}
		}()
		todo()
		return false
	}()
	it.verdict(panicked, "panicking")
}
