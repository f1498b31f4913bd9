package notify

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/joshyorko/btmgr/address"
	"github.com/joshyorko/btmgr/common"
	"github.com/joshyorko/btmgr/gatt"
	"github.com/joshyorko/btmgr/governor"
)

const (
	DefaultRSSIWindow  = time.Minute
	DefaultValueWindow = time.Second
	DefaultBuffer      = 64
)

var (
	deviceNotifications         = []string{"ONLINE", "BLOCKED", "RSSI", "CONNECTED", "SERVICES RESOLVED"}
	characteristicNotifications = []string{"VALUE CHANGED"}
)

// DeviceLocator is what the registry needs from the runtime to check the
// owning device of a characteristic.
type DeviceLocator interface {
	DeviceGovernor(addr address.Address) (governor.Device, error)
}

type Clock func() time.Time

// Outcome is what on and off report back to the user. Note carries the
// readiness remark of characteristic subscriptions.
type Outcome struct {
	Text string
	Note string
}

type Option func(*Registry)

func WithClock(clock Clock) Option {
	return func(it *Registry) {
		it.clock = clock
	}
}

func WithRSSIWindow(window time.Duration) Option {
	return func(it *Registry) {
		it.rssiWindow = window
	}
}

func WithValueWindow(window time.Duration) Option {
	return func(it *Registry) {
		it.valueWindow = window
	}
}

func WithBuffer(size int) Option {
	return func(it *Registry) {
		if size > 0 {
			it.buffer = size
		}
	}
}

func WithCatalog(catalog gatt.Catalog) Option {
	return func(it *Registry) {
		it.catalog = catalog
	}
}

// Registry maps addresses to active subscriptions. The map is guarded by
// the embedded mutex because runtime callbacks race with on/off commands.
type Registry struct {
	sync.Mutex
	runtime       DeviceLocator
	sink          Sink
	catalog       gatt.Catalog
	clock         Clock
	rssiWindow    time.Duration
	valueWindow   time.Duration
	buffer        int
	closed        bool
	subscriptions map[address.Address]*subscription
}

func NewRegistry(runtime DeviceLocator, sink Sink, options ...Option) *Registry {
	result := &Registry{
		runtime:       runtime,
		sink:          sink,
		clock:         time.Now,
		rssiWindow:    DefaultRSSIWindow,
		valueWindow:   DefaultValueWindow,
		buffer:        DefaultBuffer,
		subscriptions: make(map[address.Address]*subscription),
	}
	for _, option := range options {
		option(result)
	}
	if result.sink == nil {
		result.sink = LogSink
	}
	return result
}

func enabledText(kind governor.Kind) string {
	return "Notifications enabled: " + notificationNames(kind)
}

func notificationNames(kind governor.Kind) string {
	if kind == governor.KindDevice {
		return strings.Join(deviceNotifications, ", ")
	}
	return strings.Join(characteristicNotifications, ", ")
}

// On subscribes to the handle. Subscribing twice is a no-op reporting the
// existing subscription.
func (it *Registry) On(handle governor.Handle) (Outcome, error) {
	it.Lock()
	defer it.Unlock()

	if it.closed {
		return Outcome{}, ErrClosed
	}
	addr := handle.Address()
	if existing, ok := it.subscriptions[addr]; ok {
		return Outcome{Text: "Notifications already enabled: " + notificationNames(existing.handle.Kind())}, nil
	}

	var outcome Outcome
	bridge := newBridge(addr, it.buffer, it.clock)
	switch handle.Kind() {
	case governor.KindDevice:
		device := handle.(governor.Device)
		device.AddStateListener(bridge)
		device.AddRSSIListener(bridge)
		outcome.Text = enabledText(governor.KindDevice)
	case governor.KindCharacteristic:
		handle.(governor.Characteristic).AddValueListener(bridge)
		outcome.Text = enabledText(governor.KindCharacteristic)
		outcome.Note = it.readinessNote(addr.DeviceAddress())
	case governor.KindAdapter:
		return Outcome{}, fmt.Errorf("%w: %v", ErrUnsupported, handle)
	default:
		return Outcome{}, fmt.Errorf("%w: %v", ErrUnsupported, handle.Kind())
	}

	active := &subscription{
		handle:   handle,
		bridge:   bridge,
		sink:     it.sink,
		catalog:  it.catalog,
		rssi:     NewThrottle(it.rssiWindow),
		value:    NewThrottle(it.valueWindow),
		finished: make(chan struct{}),
	}
	it.subscriptions[addr] = active
	go active.deliver()
	common.Debug("Subscribed to %v.", handle)
	return outcome, nil
}

// readinessNote only asks the device governor for cached state.
func (it *Registry) readinessNote(deviceAddress address.Address) string {
	if it.runtime == nil {
		return ""
	}
	device, err := it.runtime.DeviceGovernor(deviceAddress)
	if err != nil || !device.IsReady() {
		return "Device is not ready!"
	}
	connected, err := device.Connected()
	if err != nil || !connected {
		return "Device is not connected. Notification is enabled, but will not fire until the device gets connected."
	}
	return ""
}

// Off detaches the listeners of addr and waits until already queued events
// are delivered.
func (it *Registry) Off(addr address.Address) (Outcome, error) {
	it.Lock()
	active, ok := it.subscriptions[addr]
	if !ok {
		it.Unlock()
		return Outcome{Text: "Nothing to disable"}, nil
	}
	delete(it.subscriptions, addr)
	active.detach()
	it.Unlock()

	<-active.finished
	common.Debug("Unsubscribed from %v.", addr)
	return Outcome{Text: "Notifications disabled: " + notificationNames(active.handle.Kind())}, nil
}

func (it *Registry) Active(addr address.Address) bool {
	it.Lock()
	defer it.Unlock()
	_, ok := it.subscriptions[addr]
	return ok
}

func (it *Registry) Len() int {
	it.Lock()
	defer it.Unlock()
	return len(it.subscriptions)
}

func (it *Registry) Addresses() []address.Address {
	it.Lock()
	defer it.Unlock()
	result := make([]address.Address, 0, len(it.subscriptions))
	for addr := range it.subscriptions {
		result = append(result, addr)
	}
	sort.Slice(result, func(left, right int) bool {
		return result[left].Less(result[right])
	})
	return result
}

// Close unsubscribes everything. Later On calls fail with ErrClosed.
func (it *Registry) Close() error {
	it.Lock()
	it.closed = true
	it.Unlock()
	for _, addr := range it.Addresses() {
		_, err := it.Off(addr)
		if err != nil {
			return err
		}
	}
	return nil
}

type subscription struct {
	handle   governor.Handle
	bridge   *bridge
	sink     Sink
	catalog  gatt.Catalog
	rssi     *Throttle
	value    *Throttle
	finished chan struct{}
}

func (it *subscription) detach() {
	switch it.handle.Kind() {
	case governor.KindDevice:
		device := it.handle.(governor.Device)
		device.RemoveStateListener(it.bridge)
		device.RemoveRSSIListener(it.bridge)
	case governor.KindCharacteristic:
		it.handle.(governor.Characteristic).RemoveValueListener(it.bridge)
	case governor.KindAdapter:
	}
	close(it.bridge.done)
}

func (it *subscription) deliver() {
	defer close(it.finished)
	for {
		select {
		case event := <-it.bridge.events:
			it.forward(event)
		case <-it.bridge.done:
			for {
				select {
				case event := <-it.bridge.events:
					it.forward(event)
				default:
					return
				}
			}
		}
	}
}

func (it *subscription) forward(event Event) {
	rendered := ""
	switch event.Kind {
	case EventRSSI:
		if !it.rssi.Allow(event.At) {
			return
		}
	case EventValueChanged:
		if !it.value.Allow(event.At) {
			return
		}
		rendered = gatt.Render(it.catalog, event.Address.CharacteristicID(), event.Value)
	}
	it.sink.Deliver(Notification{
		Event:    event,
		Source:   it.handle.String(),
		Rendered: rendered,
		Text:     describe(event, rendered),
	})
}

// bridge implements every listener shape of the runtime and queues what it
// hears. It never blocks the caller; a full queue drops the event.
type bridge struct {
	addr   address.Address
	clock  Clock
	events chan Event
	done   chan struct{}
}

func newBridge(addr address.Address, buffer int, clock Clock) *bridge {
	return &bridge{
		addr:   addr,
		clock:  clock,
		events: make(chan Event, buffer),
		done:   make(chan struct{}),
	}
}

func (it *bridge) push(event Event) {
	event.Address = it.addr
	event.At = it.clock()
	select {
	case <-it.done:
		return
	default:
	}
	select {
	case it.events <- event:
	default:
		common.Trace("Notification queue of %v is full, dropping %v.", it.addr, event.Kind)
	}
}

func (it *bridge) Online() {
	it.push(Event{Kind: EventOnline})
}

func (it *bridge) Offline() {
	it.push(Event{Kind: EventOffline})
}

func (it *bridge) Blocked(blocked bool) {
	if blocked {
		it.push(Event{Kind: EventBlocked})
	} else {
		it.push(Event{Kind: EventUnblocked})
	}
}

func (it *bridge) Connected() {
	it.push(Event{Kind: EventConnected})
}

func (it *bridge) Disconnected() {
	it.push(Event{Kind: EventDisconnected})
}

func (it *bridge) ServicesResolved(count int) {
	it.push(Event{Kind: EventServicesResolved, Services: count})
}

func (it *bridge) ServicesUnresolved() {
	it.push(Event{Kind: EventServicesUnresolved})
}

func (it *bridge) RSSIChanged(rssi int16) {
	it.push(Event{Kind: EventRSSI, RSSI: rssi})
}

func (it *bridge) ValueChanged(value []byte) {
	it.push(Event{Kind: EventValueChanged, Value: append([]byte(nil), value...)})
}
