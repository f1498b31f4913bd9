// Package notify keeps notification subscriptions of the console. Each
// subscribed address owns one listener bridge that turns runtime callbacks
// into Events on a channel, and one goroutine that throttles, renders and
// hands them to a Sink.
package notify

import (
	"fmt"
	"time"

	"github.com/joshyorko/btmgr/address"
)

type EventKind int

const (
	EventOnline EventKind = iota + 1
	EventOffline
	EventBlocked
	EventUnblocked
	EventConnected
	EventDisconnected
	EventServicesResolved
	EventServicesUnresolved
	EventRSSI
	EventValueChanged
	EventAdapterDiscovered
	EventAdapterLost
	EventDeviceDiscovered
	EventDeviceLost
)

var eventNames = map[EventKind]string{
	EventOnline:             "ONLINE",
	EventOffline:            "OFFLINE",
	EventBlocked:            "BLOCKED",
	EventUnblocked:          "UNBLOCKED",
	EventConnected:          "CONNECTED",
	EventDisconnected:       "DISCONNECTED",
	EventServicesResolved:   "SERVICES RESOLVED",
	EventServicesUnresolved: "SERVICES UNRESOLVED",
	EventRSSI:               "RSSI",
	EventValueChanged:       "VALUE CHANGED",
	EventAdapterDiscovered:  "ADAPTER DISCOVERED",
	EventAdapterLost:        "ADAPTER LOST",
	EventDeviceDiscovered:   "DEVICE DISCOVERED",
	EventDeviceLost:         "DEVICE LOST",
}

func (it EventKind) String() string {
	if name, ok := eventNames[it]; ok {
		return name
	}
	return fmt.Sprintf("EVENT(%d)", int(it))
}

type Event struct {
	Kind     EventKind
	Address  address.Address
	At       time.Time
	RSSI     int16
	Services int
	Value    []byte
}

// Notification is a forwarded event, with the display form of its source
// and the human text of the event.
type Notification struct {
	Event
	Source   string
	Rendered string
	Text     string
}

func (it Notification) String() string {
	return it.Source + ": " + it.Text
}

func describe(event Event, rendered string) string {
	switch event.Kind {
	case EventRSSI:
		return fmt.Sprintf("%s %d", event.Kind, event.RSSI)
	case EventServicesResolved:
		return fmt.Sprintf("%s: %d", event.Kind, event.Services)
	case EventValueChanged:
		return fmt.Sprintf("%s: %s", event.Kind, rendered)
	}
	return event.Kind.String()
}
