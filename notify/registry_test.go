package notify_test

import (
	"sync"
	"testing"
	"time"

	"github.com/joshyorko/btmgr/address"
	"github.com/joshyorko/btmgr/gatt"
	"github.com/joshyorko/btmgr/governor"
	"github.com/joshyorko/btmgr/hamlet"
	"github.com/joshyorko/btmgr/notify"
	"github.com/joshyorko/btmgr/simulated"
)

var (
	workbench  = address.MustParse("/00:1A:7D:DA:71:13")
	batteryTag = address.MustParse("/00:1A:7D:DA:71:13/11:22:33:44:55:66")
	flowerCare = address.MustParse("/00:1A:7D:DA:71:13/C4:7C:8D:66:D5:8A")
	battery    = address.MustParse("/00:1A:7D:DA:71:13/11:22:33:44:55:66/180f/2a19")
	vendorData = address.MustParse("/00:1A:7D:DA:71:13/C4:7C:8D:66:D5:8A/00001204-0000-1000-8000-00805f9b34fb/00001a01-0000-1000-8000-00805f9b34fb")
	lostLevel  = address.MustParse("/AA:BB:CC:DD:EE:FF/11:22:33:44:55:66/180f/2a19")
)

type fakeClock struct {
	sync.Mutex
	now time.Time
}

func (it *fakeClock) Now() time.Time {
	it.Lock()
	defer it.Unlock()
	return it.now
}

func (it *fakeClock) Advance(step time.Duration) {
	it.Lock()
	defer it.Unlock()
	it.now = it.now.Add(step)
}

type collector struct {
	sync.Mutex
	received []notify.Notification
}

func (it *collector) Deliver(notification notify.Notification) {
	it.Lock()
	defer it.Unlock()
	it.received = append(it.received, notification)
}

func (it *collector) all() []notify.Notification {
	it.Lock()
	defer it.Unlock()
	return append([]notify.Notification(nil), it.received...)
}

func setup(t *testing.T) (*simulated.Runtime, *fakeClock, *collector, *notify.Registry) {
	runtime, err := simulated.Default(simulated.Options{})
	if err != nil {
		t.Fatalf("demo runtime: %v", err)
	}
	clock := &fakeClock{now: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)}
	sink := &collector{}
	registry := notify.NewRegistry(runtime, sink,
		notify.WithClock(clock.Now),
		notify.WithBuffer(256),
		notify.WithCatalog(gatt.Builtin()))
	return runtime, clock, sink, registry
}

func handleAt(t *testing.T, runtime *simulated.Runtime, addr address.Address) governor.Handle {
	handle, err := runtime.Governor(addr)
	if err != nil {
		t.Fatalf("governor at %v: %v", addr, err)
	}
	return handle
}

func TestThrottle(t *testing.T) {
	must_be, wont_be := hamlet.Specifications(t)

	start := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	sut := notify.NewThrottle(time.Minute)
	must_be.True(sut.Allow(start))
	wont_be.True(sut.Allow(start.Add(59 * time.Second)))
	must_be.True(sut.Allow(start.Add(60 * time.Second)))
	wont_be.True(sut.Allow(start.Add(61 * time.Second)))
}

func TestSecondOnIsNoop(t *testing.T) {
	must_be, _ := hamlet.Specifications(t)

	runtime, _, sink, sut := setup(t)
	device := handleAt(t, runtime, batteryTag)

	outcome, err := sut.On(device)
	must_be.Nil(err)
	must_be.Equal("Notifications enabled: ONLINE, BLOCKED, RSSI, CONNECTED, SERVICES RESOLVED", outcome.Text)

	outcome, err = sut.On(device)
	must_be.Nil(err)
	must_be.Equal("Notifications already enabled: ONLINE, BLOCKED, RSSI, CONNECTED, SERVICES RESOLVED", outcome.Text)
	must_be.Equal(1, sut.Len())

	must_be.Nil(runtime.EmitState(batteryTag, simulated.SignalOffline))
	outcome, err = sut.Off(batteryTag)
	must_be.Nil(err)
	must_be.Equal("Notifications disabled: ONLINE, BLOCKED, RSSI, CONNECTED, SERVICES RESOLVED", outcome.Text)

	received := sink.all()
	must_be.Equal(1, len(received))
	must_be.Equal(notify.EventOffline, received[0].Kind)
	must_be.Equal("[Device] "+batteryTag.String()+" [Battery Tag]: OFFLINE", received[0].String())
}

func TestOffWhenNotSubscribed(t *testing.T) {
	must_be, wont_be := hamlet.Specifications(t)

	runtime, _, sink, sut := setup(t)
	outcome, err := sut.Off(batteryTag)
	must_be.Nil(err)
	must_be.Equal("Nothing to disable", outcome.Text)

	_, err = sut.On(handleAt(t, runtime, batteryTag))
	must_be.Nil(err)
	_, err = sut.Off(batteryTag)
	must_be.Nil(err)
	wont_be.True(sut.Active(batteryTag))

	must_be.Nil(runtime.EmitRSSI(batteryTag, -40))
	must_be.Equal(0, len(sink.all()))
}

func TestRSSIThrottledToOncePerMinute(t *testing.T) {
	must_be, _ := hamlet.Specifications(t)

	runtime, clock, sink, sut := setup(t)
	_, err := sut.On(handleAt(t, runtime, batteryTag))
	must_be.Nil(err)

	for second := 0; second < 70; second++ {
		must_be.Nil(runtime.EmitRSSI(batteryTag, int16(-50-second%10)))
		clock.Advance(time.Second)
	}
	_, err = sut.Off(batteryTag)
	must_be.Nil(err)

	received := sink.all()
	must_be.Equal(2, len(received))
	must_be.Equal(int16(-50), received[0].RSSI)
	must_be.Equal(60*time.Second, received[1].At.Sub(received[0].At))
	must_be.Equal("RSSI -50", received[0].Text)
}

func TestValueThrottledToOncePerSecond(t *testing.T) {
	must_be, _ := hamlet.Specifications(t)

	runtime, clock, sink, sut := setup(t)
	outcome, err := sut.On(handleAt(t, runtime, battery))
	must_be.Nil(err)
	must_be.Equal("Notifications enabled: VALUE CHANGED", outcome.Text)
	must_be.Equal("", outcome.Note)

	for step := 0; step < 5; step++ {
		must_be.Nil(runtime.EmitValue(battery, []byte{byte(90 - step)}))
		clock.Advance(500 * time.Millisecond)
	}
	outcome, err = sut.Off(battery)
	must_be.Nil(err)
	must_be.Equal("Notifications disabled: VALUE CHANGED", outcome.Text)

	received := sink.all()
	must_be.Equal(3, len(received))
	must_be.Equal("Level: 90 %", received[0].Rendered)
	must_be.Equal("VALUE CHANGED: Level: 88 %", received[1].Text)
	must_be.Equal("Level: 86 %", received[2].Rendered)
}

func TestUnknownValuesRenderAsHex(t *testing.T) {
	must_be, _ := hamlet.Specifications(t)

	runtime, _, sink, sut := setup(t)
	must_be.Nil(runtime.SetConnected(flowerCare, true))
	_, err := sut.On(handleAt(t, runtime, vendorData))
	must_be.Nil(err)
	must_be.Nil(runtime.EmitValue(vendorData, []byte{0xf5, 0x00, 0x1a}))
	_, err = sut.Off(vendorData)
	must_be.Nil(err)

	received := sink.all()
	must_be.Equal(1, len(received))
	must_be.Equal("[f5, 00, 1a]", received[0].Rendered)
}

func TestReadinessNotes(t *testing.T) {
	must_be, _ := hamlet.Specifications(t)

	runtime, _, _, sut := setup(t)
	outcome, err := sut.On(handleAt(t, runtime, vendorData))
	must_be.Nil(err)
	must_be.Equal("Device is not connected. Notification is enabled, but will not fire until the device gets connected.", outcome.Note)

	outcome, err = sut.On(handleAt(t, runtime, lostLevel))
	must_be.Nil(err)
	must_be.Equal("Device is not ready!", outcome.Note)
	must_be.Equal(2, sut.Len())

	must_be.Nil(sut.Close())
	must_be.Equal(0, sut.Len())
	_, err = sut.On(handleAt(t, runtime, battery))
	must_be.ErrorIs(err, notify.ErrClosed)
}

func TestAdaptersCannotBeSubscribed(t *testing.T) {
	must_be, _ := hamlet.Specifications(t)

	runtime, _, _, sut := setup(t)
	_, err := sut.On(handleAt(t, runtime, workbench))
	must_be.ErrorIs(err, notify.ErrUnsupported)
	must_be.Equal(0, sut.Len())
}

func TestFanoutSkipsNilSinks(t *testing.T) {
	must_be, _ := hamlet.Specifications(t)

	first, second := &collector{}, &collector{}
	sut := notify.Fanout(first, nil, second)
	sut.Deliver(notify.Notification{Text: "ONLINE"})
	must_be.Equal(1, len(first.all()))
	must_be.Equal(1, len(second.all()))
}

func TestEventNames(t *testing.T) {
	must_be, _ := hamlet.Specifications(t)

	must_be.Equal("SERVICES RESOLVED", notify.EventServicesResolved.String())
	must_be.Equal("VALUE CHANGED", notify.EventValueChanged.String())
	must_be.Equal("EVENT(99)", notify.EventKind(99).String())
}

func TestDiscoveryNotifications(t *testing.T) {
	must_be, _ := hamlet.Specifications(t)

	runtime, clock, sink, _ := setup(t)
	heartStrap := address.MustParse("/00:1A:7D:DA:71:13/F0:98:9D:12:04:AB")
	sut := notify.NewDiscovery(sink, clock.Now)
	runtime.AddDiscoveryListener(sut)
	must_be.Equal(4, len(sink.all()))

	must_be.Nil(runtime.SetReady(heartStrap, true))
	must_be.Nil(runtime.SetReady(batteryTag, false))
	runtime.RemoveDiscoveryListener(sut)
	must_be.Nil(runtime.SetReady(workbench, false))

	received := sink.all()
	must_be.Equal(6, len(received))
	must_be.Equal(notify.EventAdapterDiscovered, received[0].Kind)
	must_be.Equal(workbench, received[0].Address)
	must_be.Equal("[Adapter] /00:1A:7D:DA:71:13 [workbench]: ADAPTER DISCOVERED", received[0].String())
	must_be.Equal(notify.EventDeviceDiscovered, received[4].Kind)
	must_be.Equal("[Device] /00:1A:7D:DA:71:13/F0:98:9D:12:04:AB [Heart Strap]: DEVICE DISCOVERED", received[4].String())
	must_be.Equal("DEVICE LOST", received[5].Text)
	must_be.Equal(batteryTag, received[5].Address)
	must_be.Equal(clock.Now(), received[5].At)
}
