package console

import (
	"context"

	"github.com/joshyorko/btmgr/capability"
)

func (it *Console) set(_ context.Context, args []string) (string, error) {
	handle, ok := it.state.Selected()
	if !ok {
		return "", ErrUnavailable
	}
	err := capability.Invoke(handle, args[0], args[1])
	if err != nil {
		return "", err
	}
	return it.renderer.RenderInfo(handle), nil
}
