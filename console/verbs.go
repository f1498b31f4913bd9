package console

import (
	"context"
	"sort"
)

type verb struct {
	name      string
	aliases   []string
	usage     string
	help      string
	minimum   int
	maximum   int
	available func(*Console) bool
	run       func(*Console, context.Context, []string) (string, error)
	complete  func(*Console, int, string) []string
}

var (
	verbs  []*verb
	byName = make(map[string]*verb)
)

func always(*Console) bool {
	return true
}

func register(entry *verb) {
	verbs = append(verbs, entry)
	byName[entry.name] = entry
	for _, alias := range entry.aliases {
		byName[alias] = entry
	}
}

func lookup(name string) (*verb, bool) {
	entry, ok := byName[name]
	return entry, ok
}

// Verbs lists command names in help order.
func Verbs() []string {
	result := make([]string, 0, len(verbs))
	for _, entry := range verbs {
		result = append(result, entry.name)
	}
	return result
}

func names() []string {
	result := make([]string, 0, len(byName))
	for name := range byName {
		result = append(result, name)
	}
	sort.Strings(result)
	return result
}

func init() {
	register(&verb{
		name:      "ls",
		usage:     "ls",
		help:      "Print available bluetooth objects (dependants)",
		maximum:   0,
		available: always,
		run:       (*Console).ls,
	})
	register(&verb{
		name:      "cd",
		usage:     "cd <address>",
		help:      "Change device (adapter, device or characteristic)",
		minimum:   1,
		maximum:   1,
		available: always,
		run:       (*Console).cd,
		complete:  (*Console).completeAddress,
	})
	register(&verb{
		name:      "info",
		usage:     "info [address]",
		help:      "Print details about bluetooth object",
		maximum:   1,
		available: always,
		run:       (*Console).infoVerb,
		complete:  (*Console).completeAddress,
	})
	register(&verb{
		name:      "pwd",
		usage:     "pwd",
		help:      "Print details about selected bluetooth object",
		maximum:   0,
		available: (*Console).hasSelection,
		run:       (*Console).pwd,
	})
	register(&verb{
		name:      "read",
		usage:     "read",
		help:      "Reads from selected characteristic",
		maximum:   0,
		available: (*Console).canRead,
		run:       (*Console).read,
	})
	register(&verb{
		name:      "write",
		usage:     "write <field> <value>",
		help:      "Writes to selected characteristic",
		minimum:   2,
		maximum:   2,
		available: (*Console).canWrite,
		run:       (*Console).write,
		complete:  (*Console).completeField,
	})
	register(&verb{
		name:      "set",
		usage:     "set <attribute> <value>",
		help:      "Modifies an attribute of a bluetooth object",
		minimum:   2,
		maximum:   2,
		available: (*Console).hasSelection,
		run:       (*Console).set,
		complete:  (*Console).completeAttribute,
	})
	register(&verb{
		name:      "notification",
		usage:     "notification <on|off>",
		help:      "Enable/Disable notifications",
		minimum:   1,
		maximum:   1,
		available: (*Console).canNotify,
		run:       (*Console).notification,
		complete:  (*Console).completeSwitch,
	})
	register(&verb{
		name:      "history",
		usage:     "history [count]",
		help:      "Print recently delivered notifications",
		maximum:   1,
		available: (*Console).hasHistory,
		run:       (*Console).historyVerb,
	})
	register(&verb{
		name:      "help",
		usage:     "help [command]",
		help:      "Print available commands",
		maximum:   1,
		available: always,
		run:       (*Console).helpVerb,
		complete:  (*Console).completeVerb,
	})
	register(&verb{
		name:      "exit",
		aliases:   []string{"quit"},
		usage:     "exit",
		help:      "Leave the console",
		maximum:   0,
		available: always,
		run:       (*Console).exit,
	})
}
