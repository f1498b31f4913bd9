package common

import "sync/atomic"

const (
	Silently Verbosity = iota
	Normal
	Debugging
	Tracing
)

type Verbosity int32

var (
	verbosity      atomic.Int32
	LogLinenumbers bool
	LogHides       []string
)

func init() {
	verbosity.Store(int32(Normal))
}

func DefineVerbosity(silent, debug, trace bool) {
	level := Normal
	switch {
	case trace:
		level = Tracing
	case debug:
		level = Debugging
	case silent:
		level = Silently
	}
	verbosity.Store(int32(level))
}

func CurrentVerbosity() Verbosity {
	return Verbosity(verbosity.Load())
}

func Silent() bool {
	return CurrentVerbosity() == Silently
}

func DebugFlag() bool {
	return CurrentVerbosity() >= Debugging
}

func TraceFlag() bool {
	return CurrentVerbosity() >= Tracing
}
