package mqttbridge_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/joshyorko/btmgr/address"
	"github.com/joshyorko/btmgr/hamlet"
	"github.com/joshyorko/btmgr/mqttbridge"
	"github.com/joshyorko/btmgr/notify"
)

func notification(kind notify.EventKind, text string) notify.Notification {
	return notify.Notification{
		Event: notify.Event{
			Kind:    kind,
			Address: address.MustParse(text),
			At:      time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
		},
		Source: "[Device] " + text,
		Text:   kind.String(),
	}
}

func TestTopics(t *testing.T) {
	must_be, _ := hamlet.Specifications(t)

	device := notification(notify.EventServicesResolved, "/00:1A:7D:DA:71:13/11:22:33:44:55:66")
	must_be.Equal("btmgr/00:1A:7D:DA:71:13/11:22:33:44:55:66/services_resolved", mqttbridge.Topics{}.Event(device))
	must_be.Equal("home/ble/status", mqttbridge.Topics{Prefix: "/home/ble/"}.Status())

	value := notification(notify.EventValueChanged, "/00:1A:7D:DA:71:13/11:22:33:44:55:66/180f/2a19")
	must_be.Equal("home/00:1A:7D:DA:71:13/11:22:33:44:55:66/0000180f-0000-1000-8000-00805f9b34fb/00002a19-0000-1000-8000-00805f9b34fb/value_changed", mqttbridge.Topics{Prefix: "home"}.Event(value))
	must_be.Equal("rssi", mqttbridge.KindSegment(notify.EventRSSI))
}

func TestPayloads(t *testing.T) {
	must_be, wont_be := hamlet.Specifications(t)

	value := notification(notify.EventValueChanged, "/00:1A:7D:DA:71:13/11:22:33:44:55:66/180f/2a19")
	value.Value = []byte{0x5a, 0xff}
	value.Rendered = "Level: 90 %"
	body, err := mqttbridge.Payload(value)
	must_be.Nil(err)

	document := map[string]interface{}{}
	must_be.Nil(json.Unmarshal(body, &document))
	must_be.Equal("5aff", document["value"])
	must_be.Equal("Level: 90 %", document["rendered"])
	must_be.Equal("VALUE CHANGED", document["kind"])
	must_be.Equal("2024-05-01T12:00:00Z", document["timestamp"])
	_, ok := document["rssi"]
	wont_be.True(ok)

	rssi := notification(notify.EventRSSI, "/00:1A:7D:DA:71:13/11:22:33:44:55:66")
	rssi.RSSI = -70
	body, err = mqttbridge.Payload(rssi)
	must_be.Nil(err)
	must_be.Contains(string(body), `"rssi":-70`)
}

func TestDisabledBridgeDoesNotConnect(t *testing.T) {
	must_be, _ := hamlet.Specifications(t)

	_, err := mqttbridge.Connect(mqttbridge.Config{})
	must_be.ErrorIs(err, mqttbridge.ErrDisabled)
	_, err = mqttbridge.Connect(mqttbridge.Config{Enabled: true, QoS: 3})
	must_be.ErrorIs(err, mqttbridge.ErrInvalidQoS)
}
