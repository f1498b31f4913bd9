package console

import (
	"context"
	"fmt"
	"strings"

	"github.com/joshyorko/btmgr/governor"
	"github.com/joshyorko/btmgr/notify"
)

// canNotify also lets an active subscription through, so it can be turned
// off after its handle stopped being ready.
func (it *Console) canNotify() bool {
	if it.hasSelection() && it.registry.Active(it.state.Current()) {
		return true
	}
	handle, ok := it.state.Selected()
	if !ok || !handle.IsReady() {
		return false
	}
	switch handle.Kind() {
	case governor.KindDevice:
		return true
	case governor.KindCharacteristic:
		notifiable, err := handle.(governor.Characteristic).Notifiable()
		return err == nil && notifiable
	case governor.KindAdapter:
	}
	return false
}

func (it *Console) notification(_ context.Context, args []string) (string, error) {
	handle, ok := it.state.Selected()
	if !ok {
		return "", ErrUnavailable
	}
	var outcome notify.Outcome
	var err error
	switch strings.ToLower(args[0]) {
	case "on":
		outcome, err = it.registry.On(handle)
	case "off":
		outcome, err = it.registry.Off(handle.Address())
	default:
		return "", fmt.Errorf("%w: usage: notification <on|off>", ErrUsage)
	}
	if err != nil {
		return "", err
	}
	if len(outcome.Note) > 0 {
		return outcome.Text + "\n" + outcome.Note, nil
	}
	return outcome.Text, nil
}
