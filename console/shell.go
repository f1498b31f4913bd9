package console

import (
	"context"
	"fmt"
	"strconv"
	"strings"
)

func (it *Console) hasHistory() bool {
	return it.history != nil
}

func (it *Console) historyVerb(_ context.Context, args []string) (string, error) {
	if it.history == nil {
		return "", ErrNoHistory
	}
	limit := DefaultHistory
	if len(args) > 0 {
		count, err := strconv.Atoi(args[0])
		if err != nil || count < 1 {
			return "", fmt.Errorf("%w: count must be a positive number, not %q", ErrUsage, args[0])
		}
		limit = count
	}
	entries, err := it.history.Recent(limit)
	if err != nil {
		return "", err
	}
	if len(entries) == 0 {
		return "No notifications yet", nil
	}
	result := make([]string, 0, len(entries))
	for at := len(entries) - 1; at >= 0; at-- {
		result = append(result, entries[at].String())
	}
	return strings.Join(result, "\n"), nil
}

func (it *Console) helpVerb(_ context.Context, args []string) (string, error) {
	if len(args) > 0 {
		entry, ok := lookup(strings.ToLower(args[0]))
		if !ok {
			return "", fmt.Errorf("%w: %q", ErrUnknownVerb, args[0])
		}
		return fmt.Sprintf("%s\n  %s", entry.usage, entry.help), nil
	}
	output := &strings.Builder{}
	for _, entry := range verbs {
		marker := ""
		if !entry.available(it) {
			marker = " (not available)"
		}
		fmt.Fprintf(output, "%-30s%s%s\n", entry.usage, entry.help, marker)
	}
	return strings.TrimRight(output.String(), "\n"), nil
}

func (it *Console) exit(_ context.Context, _ []string) (string, error) {
	it.finished = true
	return "", nil
}
