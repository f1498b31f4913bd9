package resolver_test

import (
	"testing"

	"github.com/joshyorko/btmgr/address"
	"github.com/joshyorko/btmgr/hamlet"
	"github.com/joshyorko/btmgr/resolver"
	"github.com/joshyorko/btmgr/selection"
	"github.com/joshyorko/btmgr/simulated"
)

var (
	workbench  = address.MustParse("/00:1A:7D:DA:71:13")
	spare      = address.MustParse("/5C:F3:70:7E:91:0C")
	batteryTag = address.MustParse("/00:1A:7D:DA:71:13/11:22:33:44:55:66")
	heartStrap = address.MustParse("/00:1A:7D:DA:71:13/F0:98:9D:12:04:AB")
	battery    = address.MustParse("/00:1A:7D:DA:71:13/11:22:33:44:55:66/180f/2a19")
)

func setup(t *testing.T) (*selection.State, *resolver.Resolver) {
	runtime, err := simulated.Default(simulated.Options{})
	if err != nil {
		t.Fatalf("demo runtime: %v", err)
	}
	state := selection.New(runtime)
	return state, resolver.New(state, runtime)
}

func TestParentOfAnyAdapterIsRoot(t *testing.T) {
	must_be, _ := hamlet.Specifications(t)

	state, sut := setup(t)
	for _, adapter := range []address.Address{workbench, spare, address.MustParse("/AA:BB:CC:DD:EE:FF")} {
		state.Select(adapter)
		resolved, err := sut.Resolve("../")
		must_be.Nil(err)
		must_be.Equal(address.Root, resolved)
	}
}

func TestParentSkipsServices(t *testing.T) {
	must_be, _ := hamlet.Specifications(t)

	state, sut := setup(t)
	state.Select(battery)
	resolved, err := sut.Resolve("../")
	must_be.Nil(err)
	must_be.Equal(batteryTag, resolved)

	state.Select(batteryTag)
	resolved, err = sut.Resolve("..")
	must_be.Nil(err)
	must_be.Equal(workbench, resolved)
}

func TestParentOnRootParsesAsAddress(t *testing.T) {
	must_be, _ := hamlet.Specifications(t)

	_, sut := setup(t)
	_, err := sut.Resolve("../")
	must_be.ErrorIs(err, address.ErrMalformed)
}

func TestAbsoluteAddresses(t *testing.T) {
	must_be, _ := hamlet.Specifications(t)

	state, sut := setup(t)
	state.Select(battery)
	resolved, err := sut.Resolve(" /00:1a:7d:da:71:13/11:22:33:44:55:66 ")
	must_be.Nil(err)
	must_be.Equal(batteryTag, resolved)

	resolved, err = sut.Resolve("/")
	must_be.Nil(err)
	must_be.Equal(address.Root, resolved)

	_, err = sut.Resolve("/00:1A:7D:DA:71:13//180f")
	must_be.ErrorIs(err, address.ErrMalformed)
}

func TestCompletion(t *testing.T) {
	must_be, _ := hamlet.Specifications(t)

	state, sut := setup(t)
	must_be.Equal([]string{workbench.String(), spare.String()}, sut.Complete(""))
	must_be.Equal([]string{spare.String()}, sut.Complete("/5c"))

	state.Select(workbench)
	devices := sut.Complete("")
	must_be.Equal(3, len(devices))
	must_be.Equal(batteryTag.String(), devices[0])
	must_be.Equal([]string{heartStrap.String()}, sut.Complete(workbench.String()+"/f0"))

	state.Select(batteryTag)
	characteristics := sut.Complete("")
	must_be.Equal(3, len(characteristics))
	must_be.Equal(battery.String(), characteristics[1])

	state.Select(battery)
	must_be.Equal([]string{}, sut.Complete(""))

	state.Select(heartStrap)
	must_be.Equal([]string{}, sut.Complete(""))

	state.Select(spare)
	must_be.Equal([]string{}, sut.Complete(""))
}
