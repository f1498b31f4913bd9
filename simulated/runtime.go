// Package simulated is a fixture driven device management runtime. It keeps
// the whole adapter / device / characteristic tree in memory, hands out
// governors for any valid address (not ready ones for addresses nothing was
// discovered at) and can produce a stream of RSSI and value events from its
// own goroutine.
package simulated

import (
	"context"
	"fmt"
	"math/rand"
	"sort"
	"sync"
	"time"

	"github.com/joshyorko/btmgr/address"
	"github.com/joshyorko/btmgr/common"
	"github.com/joshyorko/btmgr/governor"
)

type Options struct {
	Events  bool
	Tick    time.Duration
	Latency time.Duration
}

type Signal int

const (
	SignalOnline Signal = iota + 1
	SignalOffline
	SignalBlocked
	SignalUnblocked
	SignalConnected
	SignalDisconnected
	SignalServicesResolved
	SignalServicesUnresolved
)

type pending []func()

func (it *pending) add(todo func()) {
	*it = append(*it, todo)
}

func (it pending) fire() {
	for _, todo := range it {
		todo()
	}
}

var _ governor.Runtime = (*Runtime)(nil)

type Runtime struct {
	sync.RWMutex
	options         Options
	discovery       []governor.DiscoveryListener
	adapters        []*adapterNode
	adapterIndex    map[address.Address]*adapterNode
	deviceIndex     map[address.Address]*deviceNode
	characteristics map[address.Address]*characteristicNode
	random          *rand.Rand
	cancel          context.CancelFunc
	done            chan struct{}
}

func New(fixture *Fixture, options Options) (*Runtime, error) {
	result := &Runtime{
		options:         options,
		adapterIndex:    make(map[address.Address]*adapterNode),
		deviceIndex:     make(map[address.Address]*deviceNode),
		characteristics: make(map[address.Address]*characteristicNode),
		random:          rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	if fixture != nil {
		err := fixture.build(result)
		if err != nil {
			return nil, err
		}
	}
	for _, adapter := range result.adapterIndex {
		if adapter.listed {
			result.adapters = append(result.adapters, adapter)
		}
	}
	sortAdapters(result.adapters)
	return result, nil
}

// Default builds a runtime over the embedded demo tree.
func Default(options Options) (*Runtime, error) {
	fixture, err := DefaultFixture()
	if err != nil {
		return nil, err
	}
	return New(fixture, options)
}

func sortAdapters(adapters []*adapterNode) {
	sort.SliceStable(adapters, func(left, right int) bool {
		return adapters[left].addr.Less(adapters[right].addr)
	})
}

func (it *Runtime) adapterAt(addr address.Address) *adapterNode {
	node, ok := it.adapterIndex[addr]
	if !ok {
		node = &adapterNode{runtime: it, addr: addr, exponent: 2.0}
		it.adapterIndex[addr] = node
	}
	return node
}

func (it *Runtime) deviceAt(addr address.Address) *deviceNode {
	node, ok := it.deviceIndex[addr]
	if !ok {
		node = &deviceNode{
			runtime:           it,
			addr:              addr,
			adapter:           it.adapterAt(addr.AdapterAddress()),
			onlineTimeout:     20,
			rssiReportingRate: 1000,
		}
		it.deviceIndex[addr] = node
	}
	return node
}

func (it *Runtime) characteristicAt(addr address.Address) *characteristicNode {
	node, ok := it.characteristics[addr]
	if !ok {
		node = &characteristicNode{
			runtime: it,
			addr:    addr,
			device:  it.deviceAt(addr.DeviceAddress()),
		}
		it.characteristics[addr] = node
	}
	return node
}

func (it *Runtime) Start(ctx context.Context) error {
	it.Lock()
	defer it.Unlock()
	if it.cancel != nil {
		return nil
	}
	if !it.options.Events || it.options.Tick <= 0 {
		common.Debug("Simulated runtime started without event generation.")
		it.cancel = func() {}
		return nil
	}
	ctx, it.cancel = context.WithCancel(ctx)
	it.done = make(chan struct{})
	go it.generate(ctx, it.done)
	common.Debug("Simulated runtime started, generating events every %v.", it.options.Tick)
	return nil
}

// Dispose stops event generation and detaches every listener.
func (it *Runtime) Dispose() error {
	it.Lock()
	cancel, done := it.cancel, it.done
	it.cancel, it.done = nil, nil
	it.Unlock()
	if cancel != nil {
		cancel()
	}
	if done != nil {
		<-done
	}
	it.Lock()
	defer it.Unlock()
	for _, device := range it.deviceIndex {
		device.stateListeners = nil
		device.rssiListeners = nil
	}
	for _, characteristic := range it.characteristics {
		characteristic.listeners = nil
	}
	it.discovery = nil
	return nil
}

// AddDiscoveryListener registers listener and tells it about every adapter
// and device that is already discovered, adapters first.
func (it *Runtime) AddDiscoveryListener(listener governor.DiscoveryListener) {
	var todo pending
	it.Lock()
	it.discovery = append(it.discovery, listener)
	for _, adapter := range it.adapters {
		if adapter.ready {
			found := adapter
			todo.add(func() { listener.AdapterDiscovered(found) })
		}
	}
	for _, device := range it.discoveredDevices() {
		found := device
		todo.add(func() { listener.DeviceDiscovered(found) })
	}
	it.Unlock()
	todo.fire()
}

func (it *Runtime) RemoveDiscoveryListener(listener governor.DiscoveryListener) {
	it.Lock()
	defer it.Unlock()
	for at, known := range it.discovery {
		if known == listener {
			it.discovery = append(it.discovery[:at:at], it.discovery[at+1:]...)
			return
		}
	}
}

func (it *Runtime) discoveredDevices() []*deviceNode {
	result := []*deviceNode{}
	for _, device := range it.deviceIndex {
		if device.listed && device.ready {
			result = append(result, device)
		}
	}
	sort.SliceStable(result, func(left, right int) bool {
		return result[left].addr.Less(result[right].addr)
	})
	return result
}

func (it *Runtime) announceAdapter(todo *pending, adapter *adapterNode, found bool) {
	for _, listener := range it.discovery {
		listener := listener
		if found {
			todo.add(func() { listener.AdapterDiscovered(adapter) })
		} else {
			todo.add(func() { listener.AdapterLost(adapter) })
		}
	}
}

func (it *Runtime) announceDevice(todo *pending, device *deviceNode, found bool) {
	for _, listener := range it.discovery {
		listener := listener
		if found {
			todo.add(func() { listener.DeviceDiscovered(device) })
		} else {
			todo.add(func() { listener.DeviceLost(device) })
		}
	}
}

func (it *Runtime) Governor(addr address.Address) (governor.Handle, error) {
	it.Lock()
	defer it.Unlock()
	switch addr.Depth() {
	case address.DepthAdapter:
		return it.adapterAt(addr), nil
	case address.DepthDevice:
		return it.deviceAt(addr), nil
	case address.DepthCharacteristic:
		return it.characteristicAt(addr), nil
	}
	return nil, fmt.Errorf("%w: %v", ErrNoGovernor, addr)
}

func (it *Runtime) DeviceGovernor(addr address.Address) (governor.Device, error) {
	if !addr.IsDevice() {
		return nil, fmt.Errorf("%w: %v is not a device address", ErrNoGovernor, addr)
	}
	it.Lock()
	defer it.Unlock()
	return it.deviceAt(addr), nil
}

func (it *Runtime) Adapters() ([]governor.Adapter, error) {
	it.RLock()
	defer it.RUnlock()
	result := make([]governor.Adapter, 0, len(it.adapters))
	for _, adapter := range it.adapters {
		result = append(result, adapter)
	}
	return result, nil
}

// SetReady flips readiness of the governor at addr. Listed adapters and
// devices turning ready are announced as discovered, and as lost when they
// stop being ready.
func (it *Runtime) SetReady(addr address.Address, ready bool) error {
	var todo pending
	it.Lock()
	switch addr.Depth() {
	case address.DepthAdapter:
		node := it.adapterAt(addr)
		if node.listed && node.ready != ready {
			it.announceAdapter(&todo, node, ready)
		}
		node.ready = ready
	case address.DepthDevice:
		node := it.deviceAt(addr)
		if node.listed && node.ready != ready {
			it.announceDevice(&todo, node, ready)
		}
		node.ready = ready
	case address.DepthCharacteristic:
		it.characteristicAt(addr).ready = ready
	default:
		it.Unlock()
		return fmt.Errorf("%w: %v", ErrNoGovernor, addr)
	}
	it.Unlock()
	todo.fire()
	return nil
}

func (it *Runtime) SetConnected(addr address.Address, connected bool) error {
	if connected {
		return it.EmitState(addr, SignalConnected)
	}
	return it.EmitState(addr, SignalDisconnected)
}

// EmitState applies a state change to the device at addr and tells its
// state listeners about it.
func (it *Runtime) EmitState(addr address.Address, signal Signal) error {
	device, err := it.DeviceGovernor(addr)
	if err != nil {
		return err
	}
	node := device.(*deviceNode)
	var todo pending
	it.Lock()
	switch signal {
	case SignalOnline:
		node.online = true
	case SignalOffline:
		node.online = false
	case SignalBlocked:
		node.blocked = true
	case SignalUnblocked:
		node.blocked = false
	case SignalConnected:
		node.connected = true
		node.servicesResolved = len(node.services) > 0
	case SignalDisconnected:
		node.connected = false
		node.servicesResolved = false
	case SignalServicesResolved:
		node.servicesResolved = true
	case SignalServicesUnresolved:
		node.servicesResolved = false
	default:
		it.Unlock()
		return fmt.Errorf("unknown signal %d", signal)
	}
	node.announce(&todo, signal)
	if signal == SignalConnected && node.servicesResolved {
		node.announce(&todo, SignalServicesResolved)
	}
	it.Unlock()
	todo.fire()
	return nil
}

func (it *Runtime) EmitRSSI(addr address.Address, rssi int16) error {
	device, err := it.DeviceGovernor(addr)
	if err != nil {
		return err
	}
	node := device.(*deviceNode)
	var todo pending
	it.Lock()
	node.rssi = rssi
	node.announceRSSI(&todo)
	it.Unlock()
	todo.fire()
	return nil
}

func (it *Runtime) EmitValue(addr address.Address, value []byte) error {
	if !addr.IsCharacteristic() {
		return fmt.Errorf("%w: %v is not a characteristic address", ErrNoGovernor, addr)
	}
	var todo pending
	it.Lock()
	node := it.characteristicAt(addr)
	node.value = append([]byte(nil), value...)
	node.announce(&todo)
	it.Unlock()
	todo.fire()
	return nil
}

// Value returns the stored bytes of a characteristic regardless of its
// readiness.
func (it *Runtime) Value(addr address.Address) ([]byte, error) {
	if !addr.IsCharacteristic() {
		return nil, fmt.Errorf("%w: %v is not a characteristic address", ErrNoGovernor, addr)
	}
	it.RLock()
	defer it.RUnlock()
	node, ok := it.characteristics[addr]
	if !ok {
		return nil, nil
	}
	return append([]byte(nil), node.value...), nil
}

func (it *Runtime) generate(ctx context.Context, done chan struct{}) {
	defer close(done)
	ticker := time.NewTicker(it.options.Tick)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			it.tick().fire()
		}
	}
}

func (it *Runtime) tick() pending {
	it.Lock()
	defer it.Unlock()
	var todo pending
	for _, device := range it.deviceIndex {
		if !device.listed || !device.ready || !device.online {
			continue
		}
		next := int(device.rssi) + it.random.Intn(7) - 3
		if next > -30 {
			next = -30
		}
		if next < -100 {
			next = -100
		}
		device.rssi = int16(next)
		device.announceRSSI(&todo)
	}
	for _, characteristic := range it.characteristics {
		if len(characteristic.listeners) == 0 || len(characteristic.value) == 0 || !characteristic.isReady() {
			continue
		}
		characteristic.value[len(characteristic.value)-1]++
		characteristic.announce(&todo)
	}
	return todo
}

func wait(ctx context.Context, latency time.Duration) error {
	if latency <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(latency)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
