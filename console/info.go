package console

import (
	"context"

	"github.com/joshyorko/btmgr/address"
)

func (it *Console) infoVerb(_ context.Context, args []string) (string, error) {
	target := address.Root
	if len(args) > 0 {
		resolved, err := it.resolver.Resolve(args[0])
		if err != nil {
			return "", err
		}
		target = resolved
	}
	return it.info(target)
}

func (it *Console) pwd(_ context.Context, _ []string) (string, error) {
	return it.info(it.state.Current())
}
