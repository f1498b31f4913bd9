// Package address implements the hierarchical identifier of the bluetooth
// object tree: /adapter/device/service/characteristic.
//
// An Address is an immutable comparable value. Segments are present left to
// right without gaps, so depth alone tells which level an address points to.
// Adapter and device segments are MAC addresses, service and characteristic
// segments are UUIDs; both are normalized so that formatting a parsed address
// always yields the same canonical text.
package address

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

const (
	Delimiter = "/"

	DepthRoot           = 0
	DepthAdapter        = 1
	DepthDevice         = 2
	DepthService        = 3
	DepthCharacteristic = 4

	// bluetooth base uuid, short 16 and 32 bit forms are expanded onto it
	baseUUIDSuffix = "-0000-1000-8000-00805f9b34fb"
)

type Address struct {
	segments [DepthCharacteristic]string
	depth    int
}

// Root is the empty address, nothing selected.
var Root = Address{}

func Parse(text string) (Address, error) {
	trimmed := strings.TrimSpace(text)
	trimmed = strings.TrimPrefix(trimmed, Delimiter)
	trimmed = strings.TrimSuffix(trimmed, Delimiter)
	if len(trimmed) == 0 {
		return Root, nil
	}
	parts := strings.Split(trimmed, Delimiter)
	if len(parts) > DepthCharacteristic {
		return Root, fmt.Errorf("%w: %q has %d segments, at most %d allowed", ErrMalformed, text, len(parts), DepthCharacteristic)
	}
	result := Root
	for _, part := range parts {
		if len(part) == 0 {
			return Root, fmt.Errorf("%w: %q has an empty segment", ErrMalformed, text)
		}
		next, err := result.Compose(part)
		if err != nil {
			return Root, err
		}
		result = next
	}
	return result, nil
}

func MustParse(text string) Address {
	result, err := Parse(text)
	if err != nil {
		panic(err)
	}
	return result
}

func New(segments ...string) (Address, error) {
	if len(segments) > DepthCharacteristic {
		return Root, fmt.Errorf("%w: %d segments", ErrDepthExceeded, len(segments))
	}
	result := Root
	for _, segment := range segments {
		next, err := result.Compose(segment)
		if err != nil {
			return Root, err
		}
		result = next
	}
	return result, nil
}

// Compose appends one child segment.
func (it Address) Compose(segment string) (Address, error) {
	if it.depth >= DepthCharacteristic {
		return it, fmt.Errorf("%w: cannot add %q below %v", ErrDepthExceeded, segment, it)
	}
	normalized, err := normalize(it.depth+1, strings.TrimSpace(segment))
	if err != nil {
		return it, err
	}
	result := it
	result.segments[it.depth] = normalized
	result.depth = it.depth + 1
	return result, nil
}

// Parent drops the last segment. Calling it on Root is a programming error.
func (it Address) Parent() Address {
	if it.IsRoot() {
		panic("address: parent of root requested")
	}
	return it.Truncate(it.depth - 1)
}

// Truncate keeps at most depth leading segments.
func (it Address) Truncate(depth int) Address {
	if depth < 0 {
		depth = 0
	}
	if depth >= it.depth {
		return it
	}
	result := Root
	copy(result.segments[:depth], it.segments[:depth])
	result.depth = depth
	return result
}

func (it Address) AdapterAddress() Address {
	return it.Truncate(DepthAdapter)
}

func (it Address) DeviceAddress() Address {
	return it.Truncate(DepthDevice)
}

func (it Address) ServiceAddress() Address {
	return it.Truncate(DepthService)
}

func (it Address) Depth() int {
	return it.depth
}

func (it Address) IsRoot() bool {
	return it.depth == DepthRoot
}

func (it Address) IsAdapter() bool {
	return it.depth == DepthAdapter
}

func (it Address) IsDevice() bool {
	return it.depth == DepthDevice
}

func (it Address) IsService() bool {
	return it.depth == DepthService
}

func (it Address) IsCharacteristic() bool {
	return it.depth == DepthCharacteristic
}

func (it Address) segment(depth int) string {
	if it.depth < depth {
		return ""
	}
	return it.segments[depth-1]
}

func (it Address) AdapterID() string {
	return it.segment(DepthAdapter)
}

func (it Address) DeviceID() string {
	return it.segment(DepthDevice)
}

func (it Address) ServiceID() string {
	return it.segment(DepthService)
}

func (it Address) CharacteristicID() string {
	return it.segment(DepthCharacteristic)
}

// Last returns the deepest segment, empty for Root.
func (it Address) Last() string {
	if it.IsRoot() {
		return ""
	}
	return it.segments[it.depth-1]
}

func (it Address) Segments() []string {
	result := make([]string, it.depth)
	copy(result, it.segments[:it.depth])
	return result
}

func (it Address) String() string {
	if it.IsRoot() {
		return Delimiter
	}
	return Delimiter + strings.Join(it.segments[:it.depth], Delimiter)
}

func (it Address) Compare(other Address) int {
	for index := 0; index < DepthCharacteristic; index++ {
		if index >= it.depth || index >= other.depth {
			break
		}
		if cmp := strings.Compare(it.segments[index], other.segments[index]); cmp != 0 {
			return cmp
		}
	}
	switch {
	case it.depth < other.depth:
		return -1
	case it.depth > other.depth:
		return 1
	}
	return 0
}

func (it Address) Less(other Address) bool {
	return it.Compare(other) < 0
}

func normalize(depth int, segment string) (string, error) {
	switch depth {
	case DepthAdapter, DepthDevice:
		return normalizeMAC(segment)
	case DepthService, DepthCharacteristic:
		return normalizeUUID(segment)
	}
	return "", fmt.Errorf("%w: depth %d", ErrDepthExceeded, depth)
}

func normalizeMAC(segment string) (string, error) {
	octets := strings.Split(segment, ":")
	if len(octets) != 6 {
		return "", fmt.Errorf("%w: %q is not a MAC address", ErrMalformed, segment)
	}
	for index, octet := range octets {
		if len(octet) != 2 || !isHex(octet) {
			return "", fmt.Errorf("%w: %q is not a MAC address", ErrMalformed, segment)
		}
		octets[index] = strings.ToUpper(octet)
	}
	return strings.Join(octets, ":"), nil
}

// NormalizeUUID expands short bluetooth UUIDs and returns the canonical
// lowercase form used in addresses.
func NormalizeUUID(segment string) (string, error) {
	return normalizeUUID(strings.TrimSpace(segment))
}

func normalizeUUID(segment string) (string, error) {
	switch {
	case len(segment) == 4 && isHex(segment):
		segment = "0000" + segment + baseUUIDSuffix
	case len(segment) == 8 && isHex(segment):
		segment = segment + baseUUIDSuffix
	}
	parsed, err := uuid.Parse(segment)
	if err != nil || len(segment) != 36 {
		return "", fmt.Errorf("%w: %q is not a UUID", ErrMalformed, segment)
	}
	return parsed.String(), nil
}

func isHex(text string) bool {
	for _, char := range text {
		switch {
		case char >= '0' && char <= '9':
		case char >= 'a' && char <= 'f':
		case char >= 'A' && char <= 'F':
		default:
			return false
		}
	}
	return true
}
