package gatt

import (
	"fmt"
	"strings"
)

// Request is a mutable field set of one characteristic, prepared for
// writing. Every field starts from its zero value.
type Request struct {
	definition Definition
	values     []interface{}
}

func newRequest(definition Definition) *Request {
	values := make([]interface{}, len(definition.Fields))
	for index, field := range definition.Fields {
		values[index] = field.Format.zero()
	}
	return &Request{
		definition: definition,
		values:     values,
	}
}

func (it *Request) Definition() Definition {
	return it.definition
}

func (it *Request) FieldNames() []string {
	result := make([]string, 0, len(it.definition.Fields))
	for _, field := range it.definition.Fields {
		result = append(result, field.Name)
	}
	return result
}

func (it *Request) index(name string) int {
	wanted := strings.TrimSpace(name)
	for index, field := range it.definition.Fields {
		if strings.EqualFold(field.Name, wanted) {
			return index
		}
	}
	return -1
}

func (it *Request) HasField(name string) bool {
	return it.index(name) >= 0
}

// SetField converts text to the field format. On failure the request is
// left unchanged.
func (it *Request) SetField(name, text string) error {
	index := it.index(name)
	if index < 0 {
		return fmt.Errorf("%w: %q in %s", ErrUnknownField, name, it.definition.Name)
	}
	value, err := it.definition.Fields[index].convert(text)
	if err != nil {
		return fmt.Errorf("field %q: %w", it.definition.Fields[index].Name, err)
	}
	it.values[index] = value
	return nil
}

func (it *Request) serialize() ([]byte, error) {
	result := make([]byte, 0, 8)
	for index, field := range it.definition.Fields {
		chunk, err := field.Format.encode(it.values[index])
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", field.Name, err)
		}
		result = append(result, chunk...)
	}
	return result, nil
}
