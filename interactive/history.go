package interactive

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
)

const (
	maxHistoryEntries = 200
)

// CommandHistory keeps typed command lines, newest first, and walks them
// with up and down keys.
type CommandHistory struct {
	Entries []string `json:"entries"`
	path    string
	cursor  int
	mu      sync.RWMutex
}

// NewCommandHistory creates a history stored in path. Empty path keeps the
// history in memory only.
func NewCommandHistory(path string) *CommandHistory {
	return &CommandHistory{
		Entries: make([]string, 0),
		path:    path,
		cursor:  -1,
	}
}

// Load loads history from disk
func (h *CommandHistory) Load() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if len(h.path) == 0 {
		return nil
	}
	data, err := os.ReadFile(h.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil // No history file yet
		}
		return err
	}
	err = json.Unmarshal(data, h)
	if len(h.Entries) > maxHistoryEntries {
		h.Entries = h.Entries[:maxHistoryEntries]
	}
	return err
}

// Save persists history to disk
func (h *CommandHistory) Save() error {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if len(h.path) == 0 {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(h.path), 0755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(h, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(h.path, data, 0644)
}

// Add records a line and resets browsing. Repeating the latest line does
// not add it twice.
func (h *CommandHistory) Add(line string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.cursor = -1
	if len(line) == 0 {
		return
	}
	if len(h.Entries) > 0 && h.Entries[0] == line {
		return
	}
	h.Entries = append([]string{line}, h.Entries...)
	if len(h.Entries) > maxHistoryEntries {
		h.Entries = h.Entries[:maxHistoryEntries]
	}
}

// Previous moves towards older lines. At the oldest line it stays there.
func (h *CommandHistory) Previous() (string, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if len(h.Entries) == 0 {
		return "", false
	}
	if h.cursor < len(h.Entries)-1 {
		h.cursor++
	}
	return h.Entries[h.cursor], true
}

// Next moves towards newer lines; past the newest it gives an empty line.
func (h *CommandHistory) Next() (string, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.cursor < 0 {
		return "", false
	}
	h.cursor--
	if h.cursor < 0 {
		return "", true
	}
	return h.Entries[h.cursor], true
}

// Latest returns the most recent entries
func (h *CommandHistory) Latest(n int) []string {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if n > len(h.Entries) {
		n = len(h.Entries)
	}
	result := make([]string, n)
	copy(result, h.Entries[:n])
	return result
}
