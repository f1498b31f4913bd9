package capability

import (
	"fmt"

	"github.com/joshyorko/btmgr/governor"
)

func tableOf(kind governor.Kind) (table, error) {
	switch kind {
	case governor.KindAdapter, governor.KindDevice, governor.KindCharacteristic:
		return tables[kind], nil
	}
	return nil, fmt.Errorf("%w: %v", ErrIntrospection, kind)
}

// Describe lists attribute descriptors of a handle kind in display order.
// With writableOnly only settable attributes are listed, and they are
// reported as write only.
func Describe(kind governor.Kind, writableOnly bool) ([]Descriptor, error) {
	entries, err := tableOf(kind)
	if err != nil {
		return nil, err
	}
	result := make([]Descriptor, 0, len(entries))
	for _, entry := range entries {
		if !writableOnly {
			result = append(result, entry.Descriptor)
			continue
		}
		if entry.Access.CanWrite() {
			descriptor := entry.Descriptor
			descriptor.Access = Writable
			result = append(result, descriptor)
		}
	}
	return result, nil
}

// Labels returns display labels of a kind, handy for completion.
func Labels(kind governor.Kind, writableOnly bool) []string {
	descriptors, err := Describe(kind, writableOnly)
	if err != nil {
		return []string{}
	}
	result := make([]string, 0, len(descriptors))
	for _, descriptor := range descriptors {
		result = append(result, descriptor.Label)
	}
	return result
}

// Lookup finds a descriptor by label or programmatic name. Case and white
// space are ignored, so "rssi filtering enabled", "RSSIFilteringEnabled"
// and "Rssi filtering enabled" all match.
func Lookup(kind governor.Kind, text string) (Descriptor, bool) {
	entry, ok := find(kind, text)
	return entry.Descriptor, ok
}

func find(kind governor.Kind, text string) (attribute, bool) {
	entries, err := tableOf(kind)
	if err != nil {
		return attribute{}, false
	}
	wanted := folded(text)
	if len(wanted) == 0 {
		return attribute{}, false
	}
	for _, entry := range entries {
		if folded(entry.Label) == wanted || folded(entry.Name) == wanted {
			return entry, true
		}
	}
	return attribute{}, false
}

// Value reads one attribute of a handle as text.
func Value(handle governor.Handle, label string) (string, error) {
	entry, ok := find(handle.Kind(), label)
	if !ok || entry.get == nil {
		return "", fault("get", label, ErrUnknownAttribute, nil)
	}
	return entry.get(handle)
}

// Invoke converts raw into the attribute type and applies it. Nothing is
// applied when conversion fails.
func Invoke(handle governor.Handle, label, raw string) error {
	entry, ok := find(handle.Kind(), label)
	if !ok || entry.convert == nil {
		return fault("set", label, ErrUnknownAttribute, nil)
	}
	value, err := entry.convert(raw)
	if err != nil {
		return fault("set", entry.Label, ErrConversion, err)
	}
	err = entry.apply(handle, value)
	if err != nil {
		return fault("set", entry.Label, ErrApply, err)
	}
	return nil
}
