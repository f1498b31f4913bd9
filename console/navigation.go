package console

import (
	"context"

	"github.com/joshyorko/btmgr/common"
	"github.com/joshyorko/btmgr/governor"
)

func (it *Console) hasSelection() bool {
	return it.state.IsSelected()
}

func (it *Console) ls(_ context.Context, _ []string) (string, error) {
	if it.state.IsSelected() {
		return lines(it.state.Descendants()), nil
	}
	adapters, err := it.runtime.Adapters()
	if err != nil {
		return "", err
	}
	handles := make([]governor.Handle, 0, len(adapters))
	for _, adapter := range adapters {
		handles = append(handles, adapter)
	}
	return lines(handles), nil
}

// cd selects without checking readiness; the info that follows shows what
// is known.
func (it *Console) cd(_ context.Context, args []string) (string, error) {
	target, err := it.resolver.Resolve(args[0])
	if err != nil {
		return "", err
	}
	if target.IsRoot() {
		it.state.Reset()
	} else {
		_, err = it.runtime.Governor(target)
		if err != nil {
			return "", err
		}
		it.state.Select(target)
	}
	common.Debug("Selected %q.", target)
	return it.info(target)
}
