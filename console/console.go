// Package console is the command surface of the bluetooth manager. It owns
// the selection, resolves addresses, and turns verbs into text. Commands
// run one at a time; only notifications arrive from other goroutines and
// they go through the notify registry, never through the console.
package console

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/shlex"

	"github.com/joshyorko/btmgr/address"
	"github.com/joshyorko/btmgr/capability"
	"github.com/joshyorko/btmgr/common"
	"github.com/joshyorko/btmgr/gatt"
	"github.com/joshyorko/btmgr/governor"
	"github.com/joshyorko/btmgr/journal"
	"github.com/joshyorko/btmgr/notify"
	"github.com/joshyorko/btmgr/resolver"
	"github.com/joshyorko/btmgr/selection"
)

const (
	RootPrompt     = "bt-mgr>"
	DefaultTimeout = 10 * time.Second
	DefaultHistory = 20
	selectHint     = "Select a bluetooth object (see 'cd' command) or specify an address"
)

// Runtime is the part of the device runtime the console drives.
type Runtime interface {
	Governor(addr address.Address) (governor.Handle, error)
	DeviceGovernor(addr address.Address) (governor.Device, error)
	Adapters() ([]governor.Adapter, error)
}

// History gives access to past notifications.
type History interface {
	Recent(limit int) ([]journal.Entry, error)
}

type Options struct {
	Catalog  gatt.Catalog
	Registry *notify.Registry
	History  History
	Timeout  time.Duration
}

type Console struct {
	runtime  Runtime
	state    *selection.State
	resolver *resolver.Resolver
	catalog  gatt.Catalog
	renderer capability.Renderer
	registry *notify.Registry
	history  History
	timeout  time.Duration
	finished bool
}

func New(runtime Runtime, options Options) *Console {
	state := selection.New(runtime)
	timeout := options.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	registry := options.Registry
	if registry == nil {
		registry = notify.NewRegistry(runtime, notify.LogSink, notify.WithCatalog(options.Catalog))
	}
	return &Console{
		runtime:  runtime,
		state:    state,
		resolver: resolver.New(state, runtime),
		catalog:  options.Catalog,
		renderer: capability.Renderer{Catalog: options.Catalog},
		registry: registry,
		history:  options.History,
		timeout:  timeout,
	}
}

func (it *Console) State() *selection.State {
	return it.state
}

func (it *Console) Registry() *notify.Registry {
	return it.registry
}

// Finished tells that exit or quit was given.
func (it *Console) Finished() bool {
	return it.finished
}

func (it *Console) Prompt() string {
	handle, ok := it.state.Selected()
	if !ok {
		return RootPrompt
	}
	return handle.String() + ">"
}

// Split breaks a command line into words, honoring shell quoting.
func Split(line string) ([]string, error) {
	words, err := shlex.Split(line)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUsage, err)
	}
	return words, nil
}

// Execute runs one command line. Empty lines give empty output.
func (it *Console) Execute(ctx context.Context, line string) (string, error) {
	words, err := Split(line)
	if err != nil {
		return "", err
	}
	if len(words) == 0 {
		return "", nil
	}
	name, args := strings.ToLower(words[0]), words[1:]
	verb, ok := lookup(name)
	if !ok {
		return "", fmt.Errorf("%w: %q, try 'help'", ErrUnknownVerb, words[0])
	}
	if !verb.available(it) {
		return "", fmt.Errorf("%w: %s", ErrUnavailable, verb.name)
	}
	if len(args) < verb.minimum || (verb.maximum >= 0 && len(args) > verb.maximum) {
		return "", fmt.Errorf("%w: usage: %s", ErrUsage, verb.usage)
	}
	common.Trace("Running %q with %q.", verb.name, args)
	return verb.run(it, ctx, args)
}

// Available tells if the named verb can run with the current selection.
func (it *Console) Available(name string) bool {
	verb, ok := lookup(strings.ToLower(name))
	return ok && verb.available(it)
}

// Close drops every notification subscription.
func (it *Console) Close() error {
	return it.registry.Close()
}

func (it *Console) deadline(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, it.timeout)
}

func (it *Console) selectedCharacteristic() (governor.Characteristic, bool) {
	handle, ok := it.state.Selected()
	if !ok || handle.Kind() != governor.KindCharacteristic || !handle.IsReady() {
		return nil, false
	}
	return handle.(governor.Characteristic), true
}

func (it *Console) info(addr address.Address) (string, error) {
	if addr.IsRoot() {
		if !it.state.IsSelected() {
			return selectHint, nil
		}
		addr = it.state.Current()
	}
	handle, err := it.runtime.Governor(addr)
	if err != nil {
		return "", err
	}
	return it.renderer.RenderInfo(handle), nil
}

func lines(handles []governor.Handle) string {
	result := make([]string, 0, len(handles))
	for _, handle := range handles {
		result = append(result, handle.String())
	}
	return strings.Join(result, "\n")
}
