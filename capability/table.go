// Package capability exposes the editable and printable attributes of
// governor handles through statically declared tables, one per handle
// kind. Every entry is a typed accessor pair; labels are derived from the
// programmatic attribute names and the table order is the display order.
package capability

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/joshyorko/btmgr/governor"
)

type ValueType int

const (
	Bool ValueType = iota + 1
	Number
	String
)

func (it ValueType) String() string {
	switch it {
	case Bool:
		return "bool"
	case Number:
		return "number"
	case String:
		return "string"
	}
	return "unknown"
}

type Access int

const (
	Readable Access = iota + 1
	Writable
	ReadWritable
)

func (it Access) String() string {
	switch it {
	case Readable:
		return "r"
	case Writable:
		return "w"
	case ReadWritable:
		return "rw"
	}
	return "-"
}

func (it Access) CanRead() bool {
	return it == Readable || it == ReadWritable
}

func (it Access) CanWrite() bool {
	return it == Writable || it == ReadWritable
}

type Descriptor struct {
	Label  string
	Name   string
	Access Access
	Type   ValueType
}

type numeric interface {
	~int | ~int16 | ~int64 | ~float64
}

type attribute struct {
	Descriptor
	get     func(governor.Handle) (string, error)
	convert func(string) (interface{}, error)
	apply   func(governor.Handle, interface{}) error
}

type table []attribute

var tables = map[governor.Kind]table{
	governor.KindAdapter: {
		reading("name", governor.Adapter.Name),
		textual("alias", governor.Adapter.Alias, governor.Adapter.SetAlias),
		flag("discovering", governor.Adapter.Discovering, nil),
		flag("discoveringControl", always(governor.Adapter.DiscoveringControl), governor.Adapter.SetDiscoveringControl),
		flag("powered", governor.Adapter.Powered, nil),
		flag("poweredControl", always(governor.Adapter.PoweredControl), governor.Adapter.SetPoweredControl),
		number("signalPropagationExponent", always(governor.Adapter.SignalPropagationExponent), governor.Adapter.SetSignalPropagationExponent),
	},
	governor.KindDevice: {
		reading("name", governor.Device.Name),
		textual("alias", governor.Device.Alias, governor.Device.SetAlias),
		reading("displayName", governor.Device.DisplayName),
		number("bluetoothClass", governor.Device.BluetoothClass, nil),
		flag("bleEnabled", governor.Device.BleEnabled, nil),
		flag("blocked", governor.Device.Blocked, nil),
		flag("blockedControl", always(governor.Device.BlockedControl), governor.Device.SetBlockedControl),
		flag("connected", governor.Device.Connected, nil),
		flag("connectionControl", always(governor.Device.ConnectionControl), governor.Device.SetConnectionControl),
		flag("online", always(governor.Device.Online), nil),
		number("onlineTimeout", always(governor.Device.OnlineTimeout), governor.Device.SetOnlineTimeout),
		number("rssi", governor.Device.RSSI, nil),
		flag("rssiFilteringEnabled", always(governor.Device.RSSIFilteringEnabled), governor.Device.SetRSSIFilteringEnabled),
		number("rssiReportingRate", always(governor.Device.RSSIReportingRate), governor.Device.SetRSSIReportingRate),
		number("txPower", governor.Device.TxPower, nil),
		number("measuredTxPower", always(governor.Device.MeasuredTxPower), governor.Device.SetMeasuredTxPower),
		number("estimatedDistance", governor.Device.EstimatedDistance, nil),
		flag("servicesResolved", governor.Device.ServicesResolved, nil),
	},
	governor.KindCharacteristic: {
		flag("readable", governor.Characteristic.Readable, nil),
		flag("writable", governor.Characteristic.Writable, nil),
		flag("notifiable", governor.Characteristic.Notifiable, nil),
		flag("notifying", governor.Characteristic.Notifying, nil),
	},
}

// always lifts an infallible getter into the common getter shape.
func always[H any, T any](getter func(H) T) func(H) (T, error) {
	return func(handle H) (T, error) {
		return getter(handle), nil
	}
}

func access(readable, writable bool) Access {
	switch {
	case readable && writable:
		return ReadWritable
	case writable:
		return Writable
	}
	return Readable
}

func cast[H governor.Handle](handle governor.Handle) (H, error) {
	typed, ok := handle.(H)
	if !ok {
		return typed, fmt.Errorf("%w: %T", ErrIntrospection, handle)
	}
	return typed, nil
}

func build[H governor.Handle, T any](name string, kind ValueType, getter func(H) (T, error), setter func(H, T) error, render func(T) string, parse func(string) (T, error)) attribute {
	result := attribute{
		Descriptor: Descriptor{
			Label:  Label(name),
			Name:   name,
			Access: access(getter != nil, setter != nil),
			Type:   kind,
		},
	}
	if getter != nil {
		result.get = func(handle governor.Handle) (string, error) {
			typed, err := cast[H](handle)
			if err != nil {
				return "", err
			}
			value, err := getter(typed)
			if err != nil {
				return "", err
			}
			return render(value), nil
		}
	}
	if setter != nil {
		result.convert = func(raw string) (interface{}, error) {
			return parse(raw)
		}
		result.apply = func(handle governor.Handle, value interface{}) error {
			typed, err := cast[H](handle)
			if err != nil {
				return err
			}
			return setter(typed, value.(T))
		}
	}
	return result
}

func reading[H governor.Handle](name string, getter func(H) (string, error)) attribute {
	return textual(name, getter, nil)
}

func textual[H governor.Handle](name string, getter func(H) (string, error), setter func(H, string) error) attribute {
	return build(name, String, getter, setter, identity, parseText)
}

func flag[H governor.Handle](name string, getter func(H) (bool, error), setter func(H, bool) error) attribute {
	return build(name, Bool, getter, setter, strconv.FormatBool, parseBool)
}

func number[H governor.Handle, N numeric](name string, getter func(H) (N, error), setter func(H, N) error) attribute {
	return build(name, Number, getter, setter, formatNumber[N], parseNumber[N])
}

func identity(text string) string {
	return text
}

func parseText(text string) (string, error) {
	return text, nil
}

// parseBool accepts only true and false, in any case.
func parseBool(text string) (bool, error) {
	trimmed := strings.TrimSpace(text)
	switch {
	case strings.EqualFold(trimmed, "true"):
		return true, nil
	case strings.EqualFold(trimmed, "false"):
		return false, nil
	}
	return false, fmt.Errorf("%q is not true or false", text)
}

func formatNumber[N numeric](value N) string {
	switch typed := any(value).(type) {
	case float64:
		return strconv.FormatFloat(typed, 'f', -1, 64)
	}
	return fmt.Sprint(value)
}

// parseNumber is locale invariant: plain decimal digits, optional sign and
// for floating point a dot as decimal separator.
func parseNumber[N numeric](text string) (N, error) {
	var zero N
	trimmed := strings.TrimSpace(text)
	switch any(zero).(type) {
	case float64:
		parsed, err := strconv.ParseFloat(trimmed, 64)
		if err != nil {
			return zero, fmt.Errorf("%q is not a number", text)
		}
		return N(parsed), nil
	case int16:
		parsed, err := strconv.ParseInt(trimmed, 10, 16)
		if err != nil {
			return zero, fmt.Errorf("%q is not a 16 bit integer", text)
		}
		return N(parsed), nil
	case int:
		parsed, err := strconv.ParseInt(trimmed, 10, strconv.IntSize)
		if err != nil {
			return zero, fmt.Errorf("%q is not an integer", text)
		}
		return N(parsed), nil
	}
	parsed, err := strconv.ParseInt(trimmed, 10, 64)
	if err != nil {
		return zero, fmt.Errorf("%q is not an integer", text)
	}
	return N(parsed), nil
}
