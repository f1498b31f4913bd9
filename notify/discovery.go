package notify

import (
	"time"

	"github.com/joshyorko/btmgr/governor"
)

// Discovery turns adapter and device discovery of the runtime into
// notifications. It needs no subscription and is never throttled.
type Discovery struct {
	sink  Sink
	clock Clock
}

func NewDiscovery(sink Sink, clock Clock) *Discovery {
	if sink == nil {
		sink = LogSink
	}
	if clock == nil {
		clock = time.Now
	}
	return &Discovery{sink: sink, clock: clock}
}

func (it *Discovery) deliver(kind EventKind, handle governor.Handle) {
	event := Event{Kind: kind, Address: handle.Address(), At: it.clock()}
	it.sink.Deliver(Notification{
		Event:  event,
		Source: handle.String(),
		Text:   describe(event, ""),
	})
}

func (it *Discovery) AdapterDiscovered(adapter governor.Adapter) {
	it.deliver(EventAdapterDiscovered, adapter)
}

func (it *Discovery) AdapterLost(adapter governor.Adapter) {
	it.deliver(EventAdapterLost, adapter)
}

func (it *Discovery) DeviceDiscovered(device governor.Device) {
	it.deliver(EventDeviceDiscovered, device)
}

func (it *Discovery) DeviceLost(device governor.Device) {
	it.deliver(EventDeviceLost, device)
}
