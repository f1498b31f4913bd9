// Package resolver turns typed text into addresses, relative to the
// current selection, and offers completion candidates for it.
package resolver

import (
	"strings"

	"github.com/joshyorko/btmgr/address"
	"github.com/joshyorko/btmgr/common"
	"github.com/joshyorko/btmgr/governor"
	"github.com/joshyorko/btmgr/selection"
)

const (
	ParentToken = "../"
)

// Lister is the part of the runtime the completer needs.
type Lister interface {
	Adapters() ([]governor.Adapter, error)
}

type Resolver struct {
	state   *selection.State
	runtime Lister
}

func New(state *selection.State, runtime Lister) *Resolver {
	return &Resolver{
		state:   state,
		runtime: runtime,
	}
}

func isParentToken(text string) bool {
	return text == ParentToken || text == ".."
}

// Resolve handles the parent token specially. Going up from a
// characteristic skips its service, since services are never selected on
// their own. Everything else is an absolute address.
func (it *Resolver) Resolve(text string) (address.Address, error) {
	trimmed := strings.TrimSpace(text)
	current := it.state.Current()
	if isParentToken(trimmed) && !current.IsRoot() {
		if current.IsAdapter() {
			return address.Root, nil
		}
		if current.IsCharacteristic() {
			return current.ServiceAddress().Parent(), nil
		}
		return current.Parent(), nil
	}
	return address.Parse(trimmed)
}

// Complete lists canonical addresses of what is currently known below the
// selection, filtered by prefix. Nothing is cached.
func (it *Resolver) Complete(partial string) []string {
	candidates := it.candidates()
	prefix := strings.ToLower(strings.TrimSpace(partial))
	result := make([]string, 0, len(candidates))
	for _, candidate := range candidates {
		if strings.HasPrefix(strings.ToLower(candidate), prefix) {
			result = append(result, candidate)
		}
	}
	return result
}

func (it *Resolver) candidates() []string {
	result := []string{}
	if !it.state.IsSelected() {
		adapters, err := it.runtime.Adapters()
		if err != nil {
			common.Debug("Listing adapters failed, reason: %v", err)
			return result
		}
		for _, adapter := range adapters {
			result = append(result, adapter.Address().String())
		}
		return result
	}
	handle, ok := it.state.Selected()
	if !ok || !handle.IsReady() {
		return result
	}
	switch handle.Kind() {
	case governor.KindAdapter, governor.KindDevice:
		for _, child := range it.state.Descendants() {
			result = append(result, child.Address().String())
		}
	case governor.KindCharacteristic:
	}
	return result
}
