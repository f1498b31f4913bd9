package gatt

import (
	"fmt"
	"strings"
)

// Render turns a raw characteristic value into text: named fields when the
// characteristic is known and parses, otherwise a hex byte list.
func Render(catalog Catalog, id string, raw []byte) string {
	if catalog != nil && catalog.IsKnownCharacteristic(id) {
		fields, err := catalog.Parse(id, raw)
		if err == nil {
			return Pairs(fields)
		}
	}
	return Hex(raw)
}

func Pairs(fields []FieldValue) string {
	parts := make([]string, 0, len(fields))
	for _, field := range fields {
		parts = append(parts, field.Field.Name+": "+field.Value)
	}
	return strings.Join(parts, ", ")
}

// Hex renders bytes as [xx, xx, ...].
func Hex(raw []byte) string {
	parts := make([]string, 0, len(raw))
	for _, octet := range raw {
		parts = append(parts, fmt.Sprintf("%02x", octet))
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
