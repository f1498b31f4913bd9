package address_test

import (
	"testing"

	"github.com/joshyorko/btmgr/address"
	"github.com/joshyorko/btmgr/hamlet"
)

const (
	batteryLevel = "/AA:BB:CC:DD:EE:FF/11:22:33:44:55:66/0000180f-0000-1000-8000-00805f9b34fb/00002a19-0000-1000-8000-00805f9b34fb"
)

func TestRootParsing(t *testing.T) {
	must_be, _ := hamlet.Specifications(t)

	for _, text := range []string{"", "/", "  /  ", " "} {
		root, err := address.Parse(text)
		must_be.Nil(err)
		must_be.True(root.IsRoot())
		must_be.Equal(address.Root, root)
		must_be.Equal("/", root.String())
	}
}

func TestFullAddressParsing(t *testing.T) {
	must_be, wont_be := hamlet.Specifications(t)

	sut, err := address.Parse(batteryLevel)
	must_be.Nil(err)
	must_be.Equal(4, sut.Depth())
	must_be.True(sut.IsCharacteristic())
	wont_be.True(sut.IsService())
	must_be.Equal("AA:BB:CC:DD:EE:FF", sut.AdapterID())
	must_be.Equal("11:22:33:44:55:66", sut.DeviceID())
	must_be.Equal("0000180f-0000-1000-8000-00805f9b34fb", sut.ServiceID())
	must_be.Equal("00002a19-0000-1000-8000-00805f9b34fb", sut.CharacteristicID())
	must_be.Equal(batteryLevel, sut.String())

	parent := sut.Parent()
	must_be.Equal(3, parent.Depth())
	must_be.True(parent.IsService())
	must_be.Equal("0000180f-0000-1000-8000-00805f9b34fb", parent.Last())
}

func TestNormalizationIsIdempotent(t *testing.T) {
	must_be, _ := hamlet.Specifications(t)

	samples := []string{
		"aa:bb:cc:dd:ee:ff",
		"/aa:bb:cc:dd:ee:ff/",
		"/00:1a:7d:da:71:13/11:22:33:44:55:66/180F",
		"/00:1a:7d:da:71:13/11:22:33:44:55:66/180f/2A19",
		"/00:1A:7D:DA:71:13/11:22:33:44:55:66/0000180F-0000-1000-8000-00805F9B34FB/00002a19",
		batteryLevel,
	}
	for _, text := range samples {
		first, err := address.Parse(text)
		must_be.Nil(err)
		second, err := address.Parse(first.String())
		must_be.Nil(err)
		must_be.Equal(first, second)
		must_be.Equal(first.String(), second.String())
	}

	short := address.MustParse("/00:1a:7d:da:71:13/11:22:33:44:55:66/180f/2a19")
	must_be.Equal("/00:1A:7D:DA:71:13/11:22:33:44:55:66/0000180f-0000-1000-8000-00805f9b34fb/00002a19-0000-1000-8000-00805f9b34fb", short.String())
}

func TestParentAndComposeAreInverse(t *testing.T) {
	must_be, _ := hamlet.Specifications(t)

	full := address.MustParse(batteryLevel)
	for current := full; !current.IsRoot(); current = current.Parent() {
		parent := current.Parent()
		must_be.Equal(current.Depth()-1, parent.Depth())
		again, err := parent.Compose(current.Last())
		must_be.Nil(err)
		must_be.Equal(current, again)
	}
}

func TestParentOfAdapterIsRoot(t *testing.T) {
	must_be, _ := hamlet.Specifications(t)

	adapter := address.MustParse("/00:1A:7D:DA:71:13")
	must_be.True(adapter.IsAdapter())
	must_be.Equal(address.Root, adapter.Parent())
	must_be.Panic(func() { address.Root.Parent() })
}

func TestComposeBeyondCharacteristicFails(t *testing.T) {
	must_be, _ := hamlet.Specifications(t)

	full := address.MustParse(batteryLevel)
	_, err := full.Compose("2a19")
	must_be.ErrorIs(err, address.ErrDepthExceeded)

	_, err = address.New("AA:BB:CC:DD:EE:FF", "11:22:33:44:55:66", "180f", "2a19", "2a19")
	must_be.ErrorIs(err, address.ErrDepthExceeded)
}

func TestMalformedAddresses(t *testing.T) {
	must_be, _ := hamlet.Specifications(t)

	samples := []string{
		"/AA:BB:CC:DD:EE:FF//0000180f-0000-1000-8000-00805f9b34fb",
		"/AA:BB:CC:DD:EE",
		"/AA:BB:CC:DD:EE:GG",
		"/AA:BB:CC:DD:EE:FF/11:22:33:44:55:66/not-a-uuid",
		"/AA:BB:CC:DD:EE:FF/11:22:33:44:55:66/180f/2a19/extra",
		"/0000180f-0000-1000-8000-00805f9b34fb",
		"../",
	}
	for _, text := range samples {
		result, err := address.Parse(text)
		must_be.ErrorIs(err, address.ErrMalformed)
		must_be.Equal(address.Root, result)
	}
}

func TestStructuralEqualityAndOrdering(t *testing.T) {
	must_be, wont_be := hamlet.Specifications(t)

	one := address.MustParse("/AA:BB:CC:DD:EE:FF/11:22:33:44:55:66")
	two := address.MustParse("aa:bb:cc:dd:ee:ff/11:22:33:44:55:66/")
	must_be.True(one == two)

	index := map[address.Address]int{one: 1}
	must_be.Equal(1, index[two])

	adapter := one.AdapterAddress()
	must_be.True(adapter.Less(one))
	wont_be.True(one.Less(two))

	other := address.MustParse("/AA:BB:CC:DD:EE:00")
	list := []address.Address{one, other, address.Root, adapter}
	address.Sort(list)
	must_be.Equal([]address.Address{address.Root, other, adapter, one}, list)
}

func TestTruncation(t *testing.T) {
	must_be, _ := hamlet.Specifications(t)

	full := address.MustParse(batteryLevel)
	must_be.Equal("/AA:BB:CC:DD:EE:FF/11:22:33:44:55:66", full.DeviceAddress().String())
	must_be.Equal("/AA:BB:CC:DD:EE:FF", full.AdapterAddress().String())
	must_be.Equal(full, full.Truncate(9))
	must_be.Equal(address.Root, full.Truncate(-1))
	must_be.Equal([]string{"AA:BB:CC:DD:EE:FF", "11:22:33:44:55:66"}, full.DeviceAddress().Segments())
}
