// Package logbuf is the scrollback of the interactive shell: a bounded,
// thread-safe list of tagged lines. Command output, notifications and
// intercepted log lines all end up here.
package logbuf

import (
	"strings"
	"sync"
	"time"
)

// Iconic controls whether to use Unicode icons or ASCII fallbacks
var Iconic = true

type Kind int

const (
	KindCommand Kind = iota
	KindOutput
	KindNotification
	KindLog
	KindWarning
	KindError
)

func (it Kind) String() string {
	switch it {
	case KindCommand:
		return "COMMAND"
	case KindOutput:
		return "OUTPUT"
	case KindNotification:
		return "NOTIFY"
	case KindLog:
		return "LOG"
	case KindWarning:
		return "WARN"
	case KindError:
		return "ERROR"
	default:
		return "???"
	}
}

func (it Kind) Icon() string {
	if !Iconic {
		return it.String()[:1]
	}
	switch it {
	case KindCommand:
		return "›"
	case KindOutput:
		return " "
	case KindNotification:
		return "●"
	case KindLog:
		return "·"
	case KindWarning:
		return "▲"
	case KindError:
		return "✗"
	default:
		return "?"
	}
}

type Entry struct {
	Time    time.Time
	Kind    Kind
	Message string
}

// Buffer drops the oldest entries once full.
type Buffer struct {
	entries  []Entry
	maxSize  int
	mu       sync.RWMutex
	onChange func()
	clock    func() time.Time
}

func NewBuffer(maxSize int) *Buffer {
	if maxSize < 10 {
		maxSize = 10
	}
	return &Buffer{
		entries: make([]Entry, 0, maxSize),
		maxSize: maxSize,
		clock:   time.Now,
	}
}

// SetOnChange sets a callback to be called when entries change
func (it *Buffer) SetOnChange(fn func()) {
	it.mu.Lock()
	defer it.mu.Unlock()
	it.onChange = fn
}

// Add stores every line of a multi line message as its own entry.
func (it *Buffer) Add(kind Kind, message string) {
	it.mu.Lock()
	now := it.clock()
	for _, line := range strings.Split(strings.TrimRight(message, "\n"), "\n") {
		it.entries = append(it.entries, Entry{Time: now, Kind: kind, Message: strings.TrimRight(line, " \r")})
	}
	if len(it.entries) > it.maxSize {
		it.entries = it.entries[len(it.entries)-it.maxSize:]
	}
	callback := it.onChange
	it.mu.Unlock()

	if callback != nil {
		callback()
	}
}

// AddLog classifies a line produced by the common logger from its prefix.
func (it *Buffer) AddLog(line string) {
	line = strings.TrimSpace(line)
	if line == "" {
		return
	}
	for _, prefix := range []string{"[N] ", "[D] ", "[T] "} {
		line = strings.TrimPrefix(line, prefix)
	}
	kind := KindLog
	switch {
	case strings.HasPrefix(line, "Error ["), strings.HasPrefix(line, "Fatal ["):
		kind = KindError
	case strings.HasPrefix(line, "Warning ["):
		kind = KindWarning
	}
	it.Add(kind, line)
}

// Recent returns the N most recent entries
func (it *Buffer) Recent(n int) []Entry {
	it.mu.RLock()
	defer it.mu.RUnlock()

	if n <= 0 || len(it.entries) == 0 {
		return nil
	}
	if n > len(it.entries) {
		n = len(it.entries)
	}
	result := make([]Entry, n)
	copy(result, it.entries[len(it.entries)-n:])
	return result
}

func (it *Buffer) All() []Entry {
	it.mu.RLock()
	defer it.mu.RUnlock()

	result := make([]Entry, len(it.entries))
	copy(result, it.entries)
	return result
}

func (it *Buffer) Len() int {
	it.mu.RLock()
	defer it.mu.RUnlock()
	return len(it.entries)
}

func (it *Buffer) Clear() {
	it.mu.Lock()
	defer it.mu.Unlock()
	it.entries = it.entries[:0]
}

type Stats struct {
	Total         int
	Errors        int
	Warnings      int
	Notifications int
}

func (it *Buffer) Stats() Stats {
	it.mu.RLock()
	defer it.mu.RUnlock()

	stats := Stats{Total: len(it.entries)}
	for _, entry := range it.entries {
		switch entry.Kind {
		case KindError:
			stats.Errors++
		case KindWarning:
			stats.Warnings++
		case KindNotification:
			stats.Notifications++
		case KindCommand, KindOutput, KindLog:
		}
	}
	return stats
}
