package mqttbridge

import (
	"encoding/hex"
	"encoding/json"
	"strings"
	"time"

	"github.com/joshyorko/btmgr/notify"
)

const DefaultPrefix = "btmgr"

// Topics builds topic names under one prefix.
type Topics struct {
	Prefix string
}

func (it Topics) prefix() string {
	trimmed := strings.Trim(it.Prefix, "/")
	if len(trimmed) == 0 {
		return DefaultPrefix
	}
	return trimmed
}

// Status is where the bridge announces itself; the broker publishes the
// offline will there too.
func (it Topics) Status() string {
	return it.prefix() + "/status"
}

// Event returns <prefix>/<adapter>/<device>[/<service>/<characteristic>]/<kind>.
func (it Topics) Event(notification notify.Notification) string {
	parts := append([]string{it.prefix()}, notification.Address.Segments()...)
	parts = append(parts, KindSegment(notification.Kind))
	return strings.Join(parts, "/")
}

// KindSegment is the topic form of an event kind, "VALUE CHANGED" becomes
// "value_changed".
func KindSegment(kind notify.EventKind) string {
	return strings.ReplaceAll(strings.ToLower(kind.String()), " ", "_")
}

type payload struct {
	Address   string `json:"address"`
	Source    string `json:"source"`
	Kind      string `json:"kind"`
	Text      string `json:"text"`
	Timestamp string `json:"timestamp"`
	RSSI      *int16 `json:"rssi,omitempty"`
	Services  *int   `json:"services,omitempty"`
	Value     string `json:"value,omitempty"`
	Rendered  string `json:"rendered,omitempty"`
}

// Payload is the JSON document published for a notification.
func Payload(notification notify.Notification) ([]byte, error) {
	document := payload{
		Address:   notification.Address.String(),
		Source:    notification.Source,
		Kind:      notification.Kind.String(),
		Text:      notification.Text,
		Timestamp: notification.At.UTC().Format(time.RFC3339Nano),
		Rendered:  notification.Rendered,
	}
	switch notification.Kind {
	case notify.EventRSSI:
		rssi := notification.RSSI
		document.RSSI = &rssi
	case notify.EventServicesResolved:
		services := notification.Services
		document.Services = &services
	case notify.EventValueChanged:
		document.Value = hex.EncodeToString(notification.Value)
	}
	return json.Marshal(document)
}

func statusPayload(status, clientID, reason string) string {
	document := map[string]string{
		"status":    status,
		"client_id": clientID,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	}
	if len(reason) > 0 {
		document["reason"] = reason
	}
	body, _ := json.Marshal(document)
	return string(body)
}
