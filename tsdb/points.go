package tsdb

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/influxdata/influxdb-client-go/v2/api/write"

	"github.com/joshyorko/btmgr/gatt"
	"github.com/joshyorko/btmgr/notify"
)

const (
	MeasurementRSSI  = "ble_rssi"
	MeasurementValue = "ble_value"
)

// Point converts a notification into a measurement point. Only RSSI
// readings and characteristic values with numeric fields become points.
func Point(catalog gatt.Catalog, notification notify.Notification) (*write.Point, bool) {
	addr := notification.Address
	switch notification.Kind {
	case notify.EventRSSI:
		return write.NewPoint(
			MeasurementRSSI,
			map[string]string{
				"adapter": addr.AdapterID(),
				"device":  addr.DeviceID(),
			},
			map[string]interface{}{
				"rssi": int64(notification.RSSI),
			},
			notification.At), true
	case notify.EventValueChanged:
		fields := NumericFields(catalog, addr.CharacteristicID(), notification.Value)
		if len(fields) == 0 {
			return nil, false
		}
		return write.NewPoint(
			MeasurementValue,
			map[string]string{
				"adapter":        addr.AdapterID(),
				"device":         addr.DeviceID(),
				"service":        addr.ServiceID(),
				"characteristic": addr.CharacteristicID(),
			},
			fields,
			notification.At), true
	}
	return nil, false
}

// NumericFields parses the value with the catalog and keeps the fields
// whose presented value starts with a number.
func NumericFields(catalog gatt.Catalog, id string, raw []byte) map[string]interface{} {
	result := make(map[string]interface{})
	if catalog == nil || !catalog.IsKnownCharacteristic(id) {
		return result
	}
	values, err := catalog.Parse(id, raw)
	if err != nil {
		return result
	}
	for _, value := range values {
		words := strings.Fields(value.Value)
		if len(words) == 0 {
			continue
		}
		number, err := strconv.ParseFloat(words[0], 64)
		if err != nil {
			continue
		}
		result[FieldKey(value.Field.Name)] = number
	}
	return result
}

// FieldKey turns a field name into a lower snake case key.
func FieldKey(name string) string {
	var builder strings.Builder
	pending := false
	for _, letter := range strings.TrimSpace(name) {
		if unicode.IsLetter(letter) || unicode.IsDigit(letter) {
			if pending && builder.Len() > 0 {
				builder.WriteRune('_')
			}
			pending = false
			builder.WriteRune(unicode.ToLower(letter))
			continue
		}
		pending = true
	}
	return builder.String()
}
