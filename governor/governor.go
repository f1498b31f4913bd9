// Package governor declares the contract of the device management runtime
// that the console drives: live handles over adapters, devices and
// characteristics, the listener shapes they accept, and the runtime that
// hands them out.
//
// A handle exists independently of the remote object being reachable. Its
// metadata (names, flags, children) is only available when the handle
// reports ready; accessors on a not ready handle fail with ErrNotReady.
package governor

import (
	"context"
	"errors"
	"strings"

	"github.com/joshyorko/btmgr/address"
)

var (
	ErrNotReady = errors.New("not ready")
)

type Kind int

const (
	KindAdapter Kind = iota + 1
	KindDevice
	KindCharacteristic
)

var kindNames = map[Kind]string{
	KindAdapter:        "Adapter",
	KindDevice:         "Device",
	KindCharacteristic: "Characteristic",
}

func (it Kind) String() string {
	if name, ok := kindNames[it]; ok {
		return name
	}
	return "Unknown"
}

type Handle interface {
	Kind() Kind
	Address() address.Address
	IsReady() bool
	String() string
}

type Adapter interface {
	Handle

	Name() (string, error)
	Alias() (string, error)
	SetAlias(string) error
	Discovering() (bool, error)
	DiscoveringControl() bool
	SetDiscoveringControl(bool) error
	Powered() (bool, error)
	PoweredControl() bool
	SetPoweredControl(bool) error
	SignalPropagationExponent() float64
	SetSignalPropagationExponent(float64) error

	Devices() ([]Device, error)
}

type Device interface {
	Handle

	Name() (string, error)
	Alias() (string, error)
	SetAlias(string) error
	DisplayName() (string, error)
	BluetoothClass() (int, error)
	BleEnabled() (bool, error)
	Blocked() (bool, error)
	BlockedControl() bool
	SetBlockedControl(bool) error
	Connected() (bool, error)
	ConnectionControl() bool
	SetConnectionControl(bool) error
	Online() bool
	OnlineTimeout() int
	SetOnlineTimeout(int) error
	RSSI() (int16, error)
	RSSIFilteringEnabled() bool
	SetRSSIFilteringEnabled(bool) error
	RSSIReportingRate() int64
	SetRSSIReportingRate(int64) error
	TxPower() (int16, error)
	MeasuredTxPower() int16
	SetMeasuredTxPower(int16) error
	EstimatedDistance() (float64, error)
	ServicesResolved() (bool, error)

	Services() ([]Service, error)
	Characteristics() ([]Characteristic, error)

	AddStateListener(StateListener)
	RemoveStateListener(StateListener)
	AddRSSIListener(RSSIListener)
	RemoveRSSIListener(RSSIListener)
}

type Characteristic interface {
	Handle

	Flags() ([]Flag, error)
	Readable() (bool, error)
	Writable() (bool, error)
	Notifiable() (bool, error)
	Notifying() (bool, error)

	Read(ctx context.Context) ([]byte, error)
	Write(ctx context.Context, data []byte) (bool, error)

	AddValueListener(ValueListener)
	RemoveValueListener(ValueListener)
}

// Service groups characteristics of one device service, in discovery order.
type Service struct {
	Address         address.Address
	Characteristics []Characteristic
}

// Runtime is the device management runtime. Governor always hands out a
// handle for a valid address, even when nothing is discovered there yet.
type Runtime interface {
	Start(ctx context.Context) error
	Dispose() error
	Governor(addr address.Address) (Handle, error)
	DeviceGovernor(addr address.Address) (Device, error)
	Adapters() ([]Adapter, error)
	AddDiscoveryListener(DiscoveryListener)
	RemoveDiscoveryListener(DiscoveryListener)
}

// DiscoveryListener hears adapters and devices come and go.
type DiscoveryListener interface {
	AdapterDiscovered(adapter Adapter)
	AdapterLost(adapter Adapter)
	DeviceDiscovered(device Device)
	DeviceLost(device Device)
}

// StateListener receives generic device state changes.
type StateListener interface {
	Online()
	Offline()
	Blocked(blocked bool)
	Connected()
	Disconnected()
	ServicesResolved(count int)
	ServicesUnresolved()
}

type RSSIListener interface {
	RSSIChanged(rssi int16)
}

type ValueListener interface {
	ValueChanged(value []byte)
}

type Flag string

const (
	FlagBroadcast                 Flag = "BROADCAST"
	FlagRead                      Flag = "READ"
	FlagWriteWithoutResponse      Flag = "WRITE_WITHOUT_RESPONSE"
	FlagWrite                     Flag = "WRITE"
	FlagNotify                    Flag = "NOTIFY"
	FlagIndicate                  Flag = "INDICATE"
	FlagAuthenticatedSignedWrites Flag = "AUTHENTICATED_SIGNED_WRITES"
	FlagReliableWrite             Flag = "RELIABLE_WRITE"
	FlagWritableAuxiliaries       Flag = "WRITABLE_AUXILIARIES"
	FlagEncryptRead               Flag = "ENCRYPT_READ"
	FlagEncryptWrite              Flag = "ENCRYPT_WRITE"
)

var knownFlags = map[Flag]bool{
	FlagBroadcast:                 true,
	FlagRead:                      true,
	FlagWriteWithoutResponse:      true,
	FlagWrite:                     true,
	FlagNotify:                    true,
	FlagIndicate:                  true,
	FlagAuthenticatedSignedWrites: true,
	FlagReliableWrite:             true,
	FlagWritableAuxiliaries:       true,
	FlagEncryptRead:               true,
	FlagEncryptWrite:              true,
}

func ParseFlag(text string) (Flag, bool) {
	flag := Flag(strings.ToUpper(strings.TrimSpace(text)))
	return flag, knownFlags[flag]
}

func HasFlag(flags []Flag, wanted ...Flag) bool {
	for _, flag := range flags {
		for _, candidate := range wanted {
			if flag == candidate {
				return true
			}
		}
	}
	return false
}

func JoinFlags(flags []Flag) string {
	names := make([]string, 0, len(flags))
	for _, flag := range flags {
		names = append(names, string(flag))
	}
	return strings.Join(names, ", ")
}

// Display renders the common textual form of a handle.
func Display(kind Kind, addr address.Address, name string) string {
	if len(name) == 0 {
		return "[" + kind.String() + "] " + addr.String()
	}
	return "[" + kind.String() + "] " + addr.String() + " [" + name + "]"
}
