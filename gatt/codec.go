package gatt

import (
	"encoding/binary"
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"
)

type Format string

const (
	FormatBoolean Format = "boolean"
	FormatUint8   Format = "uint8"
	FormatUint16  Format = "uint16"
	FormatUint24  Format = "uint24"
	FormatUint32  Format = "uint32"
	FormatSint8   Format = "sint8"
	FormatSint16  Format = "sint16"
	FormatSint32  Format = "sint32"
	FormatFloat32 Format = "float32"
	FormatUtf8s   Format = "utf8s"
)

type layout struct {
	size   int
	signed bool
}

var integers = map[Format]layout{
	FormatUint8:  {1, false},
	FormatUint16: {2, false},
	FormatUint24: {3, false},
	FormatUint32: {4, false},
	FormatSint8:  {1, true},
	FormatSint16: {2, true},
	FormatSint32: {4, true},
}

func (it Format) Known() bool {
	switch it {
	case FormatBoolean, FormatFloat32, FormatUtf8s:
		return true
	}
	_, ok := integers[it]
	return ok
}

func (it Format) Name() string {
	return string(it)
}

func (it Format) bounds() (int64, int64) {
	shape := integers[it]
	bits := uint(shape.size * 8)
	if shape.signed {
		return -(1 << (bits - 1)), (1 << (bits - 1)) - 1
	}
	return 0, (1 << bits) - 1
}

func (it Format) decode(data []byte) (interface{}, int, error) {
	switch it {
	case FormatBoolean:
		if len(data) < 1 {
			return nil, 0, ErrTruncated
		}
		return data[0]&1 == 1, 1, nil
	case FormatFloat32:
		if len(data) < 4 {
			return nil, 0, ErrTruncated
		}
		return float64(math.Float32frombits(binary.LittleEndian.Uint32(data))), 4, nil
	case FormatUtf8s:
		if !utf8.Valid(data) {
			return nil, 0, fmt.Errorf("invalid utf8 payload")
		}
		return strings.TrimRight(string(data), "\x00"), len(data), nil
	}
	shape, ok := integers[it]
	if !ok {
		return nil, 0, fmt.Errorf("unknown format %q", it)
	}
	if len(data) < shape.size {
		return nil, 0, ErrTruncated
	}
	var unsigned uint64
	for index := shape.size - 1; index >= 0; index-- {
		unsigned = unsigned<<8 | uint64(data[index])
	}
	if shape.signed {
		shift := uint(64 - shape.size*8)
		return int64(unsigned<<shift) >> shift, shape.size, nil
	}
	return int64(unsigned), shape.size, nil
}

func (it Format) encode(value interface{}) ([]byte, error) {
	switch it {
	case FormatBoolean:
		if value.(bool) {
			return []byte{1}, nil
		}
		return []byte{0}, nil
	case FormatFloat32:
		result := make([]byte, 4)
		binary.LittleEndian.PutUint32(result, math.Float32bits(float32(value.(float64))))
		return result, nil
	case FormatUtf8s:
		return []byte(value.(string)), nil
	}
	shape, ok := integers[it]
	if !ok {
		return nil, fmt.Errorf("unknown format %q", it)
	}
	number := uint64(value.(int64))
	result := make([]byte, shape.size)
	for index := 0; index < shape.size; index++ {
		result[index] = byte(number >> (8 * uint(index)))
	}
	return result, nil
}

func (it Format) zero() interface{} {
	switch it {
	case FormatBoolean:
		return false
	case FormatFloat32:
		return float64(0)
	case FormatUtf8s:
		return ""
	}
	return int64(0)
}

func scale(exponent int) float64 {
	return math.Pow10(exponent)
}

// present renders a decoded value the way humans read it: exponent applied,
// unit appended.
func (it Field) present(value interface{}) string {
	var text string
	switch typed := value.(type) {
	case bool:
		text = strconv.FormatBool(typed)
	case string:
		text = typed
	case float64:
		text = strconv.FormatFloat(typed, 'f', -1, 32)
	case int64:
		if it.Exponent == 0 {
			text = strconv.FormatInt(typed, 10)
		} else {
			decimals := -1
			if it.Exponent < 0 {
				decimals = -it.Exponent
			}
			text = strconv.FormatFloat(float64(typed)*scale(it.Exponent), 'f', decimals, 64)
		}
	default:
		text = fmt.Sprint(value)
	}
	if len(it.Unit) > 0 {
		return text + " " + it.Unit
	}
	return text
}

// convert turns user text into a value of the field format. Numbers are
// parsed locale invariant, booleans accept only true/false in any case.
func (it Field) convert(text string) (interface{}, error) {
	trimmed := strings.TrimSpace(text)
	switch it.Format {
	case FormatBoolean:
		switch {
		case strings.EqualFold(trimmed, "true"):
			return true, nil
		case strings.EqualFold(trimmed, "false"):
			return false, nil
		}
		return nil, fmt.Errorf("%w: %q is not true or false", ErrConversion, text)
	case FormatUtf8s:
		return text, nil
	case FormatFloat32:
		number, err := strconv.ParseFloat(trimmed, 32)
		if err != nil {
			return nil, fmt.Errorf("%w: %q is not a number", ErrConversion, text)
		}
		return number, nil
	}
	if _, ok := integers[it.Format]; !ok {
		return nil, fmt.Errorf("%w: unknown format %q", ErrConversion, it.Format)
	}
	var number int64
	if it.Exponent == 0 {
		parsed, err := strconv.ParseInt(trimmed, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %q is not an integer", ErrConversion, text)
		}
		number = parsed
	} else {
		parsed, err := strconv.ParseFloat(trimmed, 64)
		if err != nil || math.IsNaN(parsed) || math.IsInf(parsed, 0) {
			return nil, fmt.Errorf("%w: %q is not a number", ErrConversion, text)
		}
		scaled := math.Round(parsed / scale(it.Exponent))
		if scaled > math.MaxInt64 || scaled < math.MinInt64 {
			return nil, fmt.Errorf("%w: %q is out of range", ErrConversion, text)
		}
		number = int64(scaled)
	}
	low, high := it.Format.bounds()
	if number < low || number > high {
		return nil, fmt.Errorf("%w: %q does not fit %s", ErrConversion, text, it.Format)
	}
	return number, nil
}
