package simulated

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/joshyorko/btmgr/address"
	"github.com/joshyorko/btmgr/governor"
)

const fallbackMeasuredTxPower = -59

type adapterNode struct {
	runtime            *Runtime
	addr               address.Address
	listed             bool
	ready              bool
	name               string
	alias              string
	discovering        bool
	discoveringControl bool
	powered            bool
	poweredControl     bool
	exponent           float64
	devices            []*deviceNode
}

func (it *adapterNode) Kind() governor.Kind {
	return governor.KindAdapter
}

func (it *adapterNode) Address() address.Address {
	return it.addr
}

func (it *adapterNode) IsReady() bool {
	it.runtime.RLock()
	defer it.runtime.RUnlock()
	return it.ready
}

func (it *adapterNode) String() string {
	it.runtime.RLock()
	defer it.runtime.RUnlock()
	name := ""
	if it.ready {
		name = firstOf(it.alias, it.name)
	}
	return governor.Display(governor.KindAdapter, it.addr, name)
}

func (it *adapterNode) Name() (string, error) {
	it.runtime.RLock()
	defer it.runtime.RUnlock()
	if !it.ready {
		return "", governor.ErrNotReady
	}
	return it.name, nil
}

func (it *adapterNode) Alias() (string, error) {
	it.runtime.RLock()
	defer it.runtime.RUnlock()
	if !it.ready {
		return "", governor.ErrNotReady
	}
	return it.alias, nil
}

func (it *adapterNode) SetAlias(alias string) error {
	it.runtime.Lock()
	defer it.runtime.Unlock()
	if !it.ready {
		return governor.ErrNotReady
	}
	it.alias = alias
	return nil
}

func (it *adapterNode) Discovering() (bool, error) {
	it.runtime.RLock()
	defer it.runtime.RUnlock()
	if !it.ready {
		return false, governor.ErrNotReady
	}
	return it.discovering, nil
}

func (it *adapterNode) DiscoveringControl() bool {
	it.runtime.RLock()
	defer it.runtime.RUnlock()
	return it.discoveringControl
}

func (it *adapterNode) SetDiscoveringControl(discovering bool) error {
	it.runtime.Lock()
	defer it.runtime.Unlock()
	it.discoveringControl = discovering
	if it.ready && it.powered {
		it.discovering = discovering
	}
	return nil
}

func (it *adapterNode) Powered() (bool, error) {
	it.runtime.RLock()
	defer it.runtime.RUnlock()
	if !it.ready {
		return false, governor.ErrNotReady
	}
	return it.powered, nil
}

func (it *adapterNode) PoweredControl() bool {
	it.runtime.RLock()
	defer it.runtime.RUnlock()
	return it.poweredControl
}

func (it *adapterNode) SetPoweredControl(powered bool) error {
	it.runtime.Lock()
	defer it.runtime.Unlock()
	it.poweredControl = powered
	if it.ready {
		it.powered = powered
		it.discovering = powered && it.discoveringControl
	}
	return nil
}

func (it *adapterNode) SignalPropagationExponent() float64 {
	it.runtime.RLock()
	defer it.runtime.RUnlock()
	return it.exponent
}

func (it *adapterNode) SetSignalPropagationExponent(exponent float64) error {
	if exponent <= 0 || math.IsNaN(exponent) || math.IsInf(exponent, 0) {
		return fmt.Errorf("signal propagation exponent must be positive, got %v", exponent)
	}
	it.runtime.Lock()
	defer it.runtime.Unlock()
	it.exponent = exponent
	return nil
}

func (it *adapterNode) Devices() ([]governor.Device, error) {
	it.runtime.RLock()
	defer it.runtime.RUnlock()
	if !it.ready {
		return nil, governor.ErrNotReady
	}
	result := make([]governor.Device, 0, len(it.devices))
	for _, device := range it.devices {
		result = append(result, device)
	}
	return result, nil
}

type serviceNode struct {
	addr            address.Address
	characteristics []*characteristicNode
}

type deviceNode struct {
	runtime           *Runtime
	adapter           *adapterNode
	addr              address.Address
	listed            bool
	ready             bool
	name              string
	alias             string
	class             int
	ble               bool
	blocked           bool
	blockedControl    bool
	online            bool
	onlineTimeout     int
	connected         bool
	connectionControl bool
	rssi              int16
	rssiFiltering     bool
	rssiReportingRate int64
	txPower           int16
	measuredTxPower   int16
	servicesResolved  bool
	services          []*serviceNode
	stateListeners    []governor.StateListener
	rssiListeners     []governor.RSSIListener
}

func (it *deviceNode) Kind() governor.Kind {
	return governor.KindDevice
}

func (it *deviceNode) Address() address.Address {
	return it.addr
}

func (it *deviceNode) IsReady() bool {
	it.runtime.RLock()
	defer it.runtime.RUnlock()
	return it.ready
}

func (it *deviceNode) String() string {
	it.runtime.RLock()
	defer it.runtime.RUnlock()
	name := ""
	if it.ready {
		name = firstOf(it.alias, it.name)
	}
	return governor.Display(governor.KindDevice, it.addr, name)
}

func (it *deviceNode) readable(todo func()) error {
	it.runtime.RLock()
	defer it.runtime.RUnlock()
	if !it.ready {
		return governor.ErrNotReady
	}
	todo()
	return nil
}

func (it *deviceNode) Name() (result string, err error) {
	err = it.readable(func() { result = it.name })
	return result, err
}

func (it *deviceNode) Alias() (result string, err error) {
	err = it.readable(func() { result = it.alias })
	return result, err
}

func (it *deviceNode) SetAlias(alias string) error {
	it.runtime.Lock()
	defer it.runtime.Unlock()
	if !it.ready {
		return governor.ErrNotReady
	}
	it.alias = alias
	return nil
}

func (it *deviceNode) DisplayName() (result string, err error) {
	err = it.readable(func() { result = firstOf(it.alias, it.name) })
	return result, err
}

func (it *deviceNode) BluetoothClass() (result int, err error) {
	err = it.readable(func() { result = it.class })
	return result, err
}

func (it *deviceNode) BleEnabled() (result bool, err error) {
	err = it.readable(func() { result = it.ble })
	return result, err
}

func (it *deviceNode) Blocked() (result bool, err error) {
	err = it.readable(func() { result = it.blocked })
	return result, err
}

func (it *deviceNode) BlockedControl() bool {
	it.runtime.RLock()
	defer it.runtime.RUnlock()
	return it.blockedControl
}

func (it *deviceNode) SetBlockedControl(blocked bool) error {
	var todo pending
	it.runtime.Lock()
	it.blockedControl = blocked
	if it.ready && it.blocked != blocked {
		it.blocked = blocked
		if blocked {
			it.announce(&todo, SignalBlocked)
			if it.connected {
				it.connected = false
				it.servicesResolved = false
				it.announce(&todo, SignalDisconnected)
			}
		} else {
			it.announce(&todo, SignalUnblocked)
		}
	}
	it.runtime.Unlock()
	todo.fire()
	return nil
}

func (it *deviceNode) Connected() (result bool, err error) {
	err = it.readable(func() { result = it.connected })
	return result, err
}

func (it *deviceNode) ConnectionControl() bool {
	it.runtime.RLock()
	defer it.runtime.RUnlock()
	return it.connectionControl
}

func (it *deviceNode) SetConnectionControl(connected bool) error {
	var todo pending
	it.runtime.Lock()
	it.connectionControl = connected
	if it.ready && it.online && !it.blocked && it.connected != connected {
		it.connected = connected
		if connected {
			it.announce(&todo, SignalConnected)
			if len(it.services) > 0 {
				it.servicesResolved = true
				it.announce(&todo, SignalServicesResolved)
			}
		} else {
			if it.servicesResolved {
				it.servicesResolved = false
				it.announce(&todo, SignalServicesUnresolved)
			}
			it.announce(&todo, SignalDisconnected)
		}
	}
	it.runtime.Unlock()
	todo.fire()
	return nil
}

func (it *deviceNode) Online() bool {
	it.runtime.RLock()
	defer it.runtime.RUnlock()
	return it.online
}

func (it *deviceNode) OnlineTimeout() int {
	it.runtime.RLock()
	defer it.runtime.RUnlock()
	return it.onlineTimeout
}

func (it *deviceNode) SetOnlineTimeout(seconds int) error {
	if seconds < 0 {
		return fmt.Errorf("online timeout cannot be negative, got %d", seconds)
	}
	it.runtime.Lock()
	defer it.runtime.Unlock()
	it.onlineTimeout = seconds
	return nil
}

func (it *deviceNode) RSSI() (result int16, err error) {
	err = it.readable(func() { result = it.rssi })
	return result, err
}

func (it *deviceNode) RSSIFilteringEnabled() bool {
	it.runtime.RLock()
	defer it.runtime.RUnlock()
	return it.rssiFiltering
}

func (it *deviceNode) SetRSSIFilteringEnabled(enabled bool) error {
	it.runtime.Lock()
	defer it.runtime.Unlock()
	it.rssiFiltering = enabled
	return nil
}

func (it *deviceNode) RSSIReportingRate() int64 {
	it.runtime.RLock()
	defer it.runtime.RUnlock()
	return it.rssiReportingRate
}

func (it *deviceNode) SetRSSIReportingRate(rate int64) error {
	if rate < 0 {
		return fmt.Errorf("rssi reporting rate cannot be negative, got %d", rate)
	}
	it.runtime.Lock()
	defer it.runtime.Unlock()
	it.rssiReportingRate = rate
	return nil
}

func (it *deviceNode) TxPower() (result int16, err error) {
	err = it.readable(func() { result = it.txPower })
	return result, err
}

func (it *deviceNode) MeasuredTxPower() int16 {
	it.runtime.RLock()
	defer it.runtime.RUnlock()
	return it.measuredTxPower
}

func (it *deviceNode) SetMeasuredTxPower(power int16) error {
	it.runtime.Lock()
	defer it.runtime.Unlock()
	it.measuredTxPower = power
	return nil
}

// EstimatedDistance uses the log-distance path loss model over the current
// RSSI reading.
func (it *deviceNode) EstimatedDistance() (result float64, err error) {
	var missing error
	err = it.readable(func() {
		if it.rssi == 0 {
			missing = errors.New("no rssi reading")
			return
		}
		measured := it.measuredTxPower
		if measured == 0 {
			measured = fallbackMeasuredTxPower
		}
		exponent := it.adapter.exponent
		if exponent <= 0 {
			exponent = 2.0
		}
		result = math.Pow(10, float64(measured-it.rssi)/(10*exponent))
	})
	if err == nil {
		err = missing
	}
	return result, err
}

func (it *deviceNode) ServicesResolved() (result bool, err error) {
	err = it.readable(func() { result = it.servicesResolved })
	return result, err
}

func (it *deviceNode) Services() ([]governor.Service, error) {
	it.runtime.RLock()
	defer it.runtime.RUnlock()
	if !it.ready {
		return nil, governor.ErrNotReady
	}
	result := make([]governor.Service, 0, len(it.services))
	for _, service := range it.services {
		characteristics := make([]governor.Characteristic, 0, len(service.characteristics))
		for _, characteristic := range service.characteristics {
			characteristics = append(characteristics, characteristic)
		}
		result = append(result, governor.Service{Address: service.addr, Characteristics: characteristics})
	}
	return result, nil
}

func (it *deviceNode) Characteristics() ([]governor.Characteristic, error) {
	services, err := it.Services()
	if err != nil {
		return nil, err
	}
	result := make([]governor.Characteristic, 0, len(services)*2)
	for _, service := range services {
		result = append(result, service.Characteristics...)
	}
	return result, nil
}

func (it *deviceNode) AddStateListener(listener governor.StateListener) {
	it.runtime.Lock()
	defer it.runtime.Unlock()
	it.stateListeners = append(it.stateListeners, listener)
}

func (it *deviceNode) RemoveStateListener(listener governor.StateListener) {
	it.runtime.Lock()
	defer it.runtime.Unlock()
	it.stateListeners = without(it.stateListeners, listener)
}

func (it *deviceNode) AddRSSIListener(listener governor.RSSIListener) {
	it.runtime.Lock()
	defer it.runtime.Unlock()
	it.rssiListeners = append(it.rssiListeners, listener)
}

func (it *deviceNode) RemoveRSSIListener(listener governor.RSSIListener) {
	it.runtime.Lock()
	defer it.runtime.Unlock()
	it.rssiListeners = without(it.rssiListeners, listener)
}

// announce queues state listener calls, runtime lock must be held.
func (it *deviceNode) announce(todo *pending, signal Signal) {
	services := 0
	if it.servicesResolved {
		services = len(it.services)
	}
	for _, listener := range it.stateListeners {
		listener := listener
		switch signal {
		case SignalOnline:
			todo.add(listener.Online)
		case SignalOffline:
			todo.add(listener.Offline)
		case SignalBlocked:
			todo.add(func() { listener.Blocked(true) })
		case SignalUnblocked:
			todo.add(func() { listener.Blocked(false) })
		case SignalConnected:
			todo.add(listener.Connected)
		case SignalDisconnected:
			todo.add(listener.Disconnected)
		case SignalServicesResolved:
			todo.add(func() { listener.ServicesResolved(services) })
		case SignalServicesUnresolved:
			todo.add(listener.ServicesUnresolved)
		}
	}
}

func (it *deviceNode) announceRSSI(todo *pending) {
	rssi := it.rssi
	for _, listener := range it.rssiListeners {
		listener := listener
		todo.add(func() { listener.RSSIChanged(rssi) })
	}
}

type characteristicNode struct {
	runtime   *Runtime
	device    *deviceNode
	addr      address.Address
	listed    bool
	ready     bool
	flags     []governor.Flag
	value     []byte
	listeners []governor.ValueListener
}

func (it *characteristicNode) Kind() governor.Kind {
	return governor.KindCharacteristic
}

func (it *characteristicNode) Address() address.Address {
	return it.addr
}

// isReady expects the runtime lock to be held.
func (it *characteristicNode) isReady() bool {
	return it.ready && it.device.ready && it.device.servicesResolved
}

func (it *characteristicNode) IsReady() bool {
	it.runtime.RLock()
	defer it.runtime.RUnlock()
	return it.isReady()
}

func (it *characteristicNode) String() string {
	return governor.Display(governor.KindCharacteristic, it.addr, "")
}

func (it *characteristicNode) Flags() ([]governor.Flag, error) {
	it.runtime.RLock()
	defer it.runtime.RUnlock()
	if !it.isReady() {
		return nil, governor.ErrNotReady
	}
	return append([]governor.Flag(nil), it.flags...), nil
}

func (it *characteristicNode) flagged(wanted ...governor.Flag) (bool, error) {
	flags, err := it.Flags()
	if err != nil {
		return false, err
	}
	return governor.HasFlag(flags, wanted...), nil
}

func (it *characteristicNode) Readable() (bool, error) {
	return it.flagged(governor.FlagRead)
}

func (it *characteristicNode) Writable() (bool, error) {
	return it.flagged(governor.FlagWrite, governor.FlagWriteWithoutResponse)
}

func (it *characteristicNode) Notifiable() (bool, error) {
	return it.flagged(governor.FlagNotify, governor.FlagIndicate)
}

func (it *characteristicNode) Notifying() (bool, error) {
	it.runtime.RLock()
	defer it.runtime.RUnlock()
	if !it.isReady() {
		return false, governor.ErrNotReady
	}
	return len(it.listeners) > 0, nil
}

func (it *characteristicNode) Read(ctx context.Context) ([]byte, error) {
	readable, err := it.Readable()
	if err != nil {
		return nil, err
	}
	if !readable {
		return nil, fmt.Errorf("%w: %v is not readable", ErrUnsupported, it.addr)
	}
	err = wait(ctx, it.runtime.options.Latency)
	if err != nil {
		return nil, err
	}
	it.runtime.RLock()
	defer it.runtime.RUnlock()
	return append([]byte(nil), it.value...), nil
}

func (it *characteristicNode) Write(ctx context.Context, data []byte) (bool, error) {
	writable, err := it.Writable()
	if err != nil {
		return false, err
	}
	if !writable {
		return false, fmt.Errorf("%w: %v is not writable", ErrUnsupported, it.addr)
	}
	err = wait(ctx, it.runtime.options.Latency)
	if err != nil {
		return false, err
	}
	var todo pending
	it.runtime.Lock()
	it.value = append([]byte(nil), data...)
	it.announce(&todo)
	it.runtime.Unlock()
	todo.fire()
	return true, nil
}

func (it *characteristicNode) AddValueListener(listener governor.ValueListener) {
	it.runtime.Lock()
	defer it.runtime.Unlock()
	it.listeners = append(it.listeners, listener)
}

func (it *characteristicNode) RemoveValueListener(listener governor.ValueListener) {
	it.runtime.Lock()
	defer it.runtime.Unlock()
	it.listeners = without(it.listeners, listener)
}

func (it *characteristicNode) announce(todo *pending) {
	value := append([]byte(nil), it.value...)
	for _, listener := range it.listeners {
		listener := listener
		todo.add(func() { listener.ValueChanged(value) })
	}
}

func without[T comparable](listeners []T, unwanted T) []T {
	result := make([]T, 0, len(listeners))
	for _, listener := range listeners {
		if listener != unwanted {
			result = append(result, listener)
		}
	}
	return result
}

func firstOf(candidates ...string) string {
	for _, candidate := range candidates {
		if len(candidate) > 0 {
			return candidate
		}
	}
	return ""
}
