package governor_test

import (
	"testing"

	"github.com/joshyorko/btmgr/address"
	"github.com/joshyorko/btmgr/governor"
	"github.com/joshyorko/btmgr/hamlet"
)

func TestKindNames(t *testing.T) {
	must_be, _ := hamlet.Specifications(t)

	must_be.Equal("Adapter", governor.KindAdapter.String())
	must_be.Equal("Device", governor.KindDevice.String())
	must_be.Equal("Characteristic", governor.KindCharacteristic.String())
	must_be.Equal("Unknown", governor.Kind(0).String())
}

func TestFlags(t *testing.T) {
	must_be, wont_be := hamlet.Specifications(t)

	flag, ok := governor.ParseFlag(" notify ")
	must_be.True(ok)
	must_be.Equal(governor.FlagNotify, flag)

	_, ok = governor.ParseFlag("teleport")
	wont_be.True(ok)

	flags := []governor.Flag{governor.FlagRead, governor.FlagNotify}
	must_be.True(governor.HasFlag(flags, governor.FlagWrite, governor.FlagNotify))
	wont_be.True(governor.HasFlag(flags, governor.FlagWrite))
	wont_be.True(governor.HasFlag(nil, governor.FlagRead))
	must_be.Equal("READ, NOTIFY", governor.JoinFlags(flags))
	must_be.Equal("", governor.JoinFlags(nil))
}

func TestDisplayForm(t *testing.T) {
	must_be, _ := hamlet.Specifications(t)

	device := address.MustParse("/00:1a:7d:da:71:13/11:22:33:44:55:66")
	must_be.Equal("[Device] /00:1A:7D:DA:71:13/11:22:33:44:55:66 [Fitness band]", governor.Display(governor.KindDevice, device, "Fitness band"))
	must_be.Equal("[Device] /00:1A:7D:DA:71:13/11:22:33:44:55:66", governor.Display(governor.KindDevice, device, ""))
}
