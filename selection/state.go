// Package selection holds the console's current object, the way a shell
// holds its current directory. State is owned by the command loop and
// passed by reference to whoever needs the default target; it is never
// touched from notification callbacks, so it carries no lock.
package selection

import (
	"github.com/joshyorko/btmgr/address"
	"github.com/joshyorko/btmgr/common"
	"github.com/joshyorko/btmgr/governor"
)

// Locator is the part of the runtime that selection needs.
type Locator interface {
	Governor(addr address.Address) (governor.Handle, error)
}

type State struct {
	runtime Locator
	current address.Address
}

func New(runtime Locator) *State {
	return &State{
		runtime: runtime,
		current: address.Root,
	}
}

func (it *State) Current() address.Address {
	return it.current
}

// Select does not check that anything lives at addr.
func (it *State) Select(addr address.Address) {
	it.current = addr
}

func (it *State) Reset() {
	it.current = address.Root
}

func (it *State) IsSelected() bool {
	return !it.current.IsRoot()
}

// Selected resolves the current address on every call.
func (it *State) Selected() (governor.Handle, bool) {
	if it.current.IsRoot() {
		return nil, false
	}
	handle, err := it.runtime.Governor(it.current)
	if err != nil {
		common.Debug("No governor for %v, reason: %v", it.current, err)
		return nil, false
	}
	return handle, true
}

// Descendants lists devices of a selected adapter or characteristics of a
// selected device, across all of its services. Anything else, or a handle
// that is not ready, has no descendants.
func (it *State) Descendants() []governor.Handle {
	result := []governor.Handle{}
	handle, ok := it.Selected()
	if !ok || !handle.IsReady() {
		return result
	}
	switch handle.Kind() {
	case governor.KindAdapter:
		devices, err := handle.(governor.Adapter).Devices()
		if err != nil {
			common.Debug("Listing devices of %v failed, reason: %v", handle, err)
			return result
		}
		for _, device := range devices {
			result = append(result, device)
		}
	case governor.KindDevice:
		characteristics, err := handle.(governor.Device).Characteristics()
		if err != nil {
			common.Debug("Listing characteristics of %v failed, reason: %v", handle, err)
			return result
		}
		for _, characteristic := range characteristics {
			result = append(result, characteristic)
		}
	case governor.KindCharacteristic:
	}
	return result
}
