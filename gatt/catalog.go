// Package gatt knows the GATT specification catalog: human names of
// services and characteristics and the field layout of characteristic
// values, so that raw payloads can be parsed into named fields and write
// requests serialized back into bytes.
//
// Definitions come from an embedded builtin set and may be extended or
// overridden by YAML files in an extension folder.
package gatt

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/joshyorko/btmgr/address"
	"github.com/joshyorko/btmgr/common"
	"github.com/joshyorko/btmgr/fail"
	"gopkg.in/yaml.v2"
)

//go:embed builtin.yaml
var builtinDefinitions []byte

// Catalog is what the console consumes from the field parser.
type Catalog interface {
	IsKnownService(id string) bool
	IsKnownCharacteristic(id string) bool
	Service(id string) (Definition, error)
	Characteristic(id string) (Definition, error)
	Parse(id string, raw []byte) ([]FieldValue, error)
	Prepare(id string) (*Request, error)
	Serialize(request *Request) ([]byte, error)
}

type Field struct {
	Name     string `yaml:"name"`
	Format   Format `yaml:"format"`
	Exponent int    `yaml:"exponent,omitempty"`
	Unit     string `yaml:"unit,omitempty"`
}

type Definition struct {
	ID     string  `yaml:"uuid"`
	Name   string  `yaml:"name"`
	Fields []Field `yaml:"fields,omitempty"`
}

type FieldValue struct {
	Field Field
	Value string
}

type document struct {
	Services        []Definition `yaml:"services"`
	Characteristics []Definition `yaml:"characteristics"`
}

type Schema struct {
	sync.RWMutex
	services        map[string]Definition
	characteristics map[string]Definition
}

func NewSchema() *Schema {
	return &Schema{
		services:        make(map[string]Definition),
		characteristics: make(map[string]Definition),
	}
}

// Builtin returns a schema with the embedded definitions only.
func Builtin() *Schema {
	schema := NewSchema()
	err := schema.Merge(builtinDefinitions)
	if err != nil {
		panic(fmt.Sprintf("builtin gatt definitions are broken: %v", err))
	}
	return schema
}

// Load returns builtin definitions extended from *.yaml and *.yml files in
// folder. Missing folder is not an error.
func Load(folder string) (*Schema, error) {
	schema := Builtin()
	if len(folder) == 0 {
		return schema, nil
	}
	return schema, schema.LoadFolder(common.ExpandPath(folder))
}

func (it *Schema) LoadFolder(folder string) (err error) {
	defer fail.Around(&err)

	stat, err := os.Stat(folder)
	if os.IsNotExist(err) {
		common.Debug("GATT extension folder %q does not exist, skipping.", folder)
		return nil
	}
	fail.On(err != nil, "Could not access GATT extension folder %q -> %v", folder, err)
	fail.On(!stat.IsDir(), "GATT extension location %q is not a folder", folder)

	entries, err := os.ReadDir(folder)
	fail.On(err != nil, "Could not list GATT extension folder %q -> %v", folder, err)
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		extension := strings.ToLower(filepath.Ext(entry.Name()))
		if entry.IsDir() || (extension != ".yaml" && extension != ".yml") {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)
	for _, name := range names {
		fullpath := filepath.Join(folder, name)
		content, err := os.ReadFile(fullpath)
		fail.On(err != nil, "Could not read %q -> %v", fullpath, err)
		err = it.Merge(content)
		fail.On(err != nil, "Broken GATT definitions in %q -> %v", fullpath, err)
		common.Debug("Loaded GATT extensions from %q.", fullpath)
	}
	return nil
}

// Merge adds definitions from YAML content, replacing existing ones with
// the same UUID.
func (it *Schema) Merge(content []byte) error {
	var incoming document
	err := yaml.Unmarshal(content, &incoming)
	if err != nil {
		return err
	}
	services, err := keyed(incoming.Services)
	if err != nil {
		return err
	}
	characteristics, err := keyed(incoming.Characteristics)
	if err != nil {
		return err
	}
	for _, definition := range characteristics {
		for _, field := range definition.Fields {
			if !field.Format.Known() {
				return fmt.Errorf("characteristic %q field %q has unknown format %q", definition.Name, field.Name, field.Format)
			}
		}
	}
	it.Lock()
	defer it.Unlock()
	for key, definition := range services {
		it.services[key] = definition
	}
	for key, definition := range characteristics {
		it.characteristics[key] = definition
	}
	return nil
}

func keyed(definitions []Definition) (map[string]Definition, error) {
	result := make(map[string]Definition, len(definitions))
	for _, definition := range definitions {
		key, err := address.NormalizeUUID(definition.ID)
		if err != nil {
			return nil, err
		}
		definition.ID = key
		result[key] = definition
	}
	return result, nil
}

func (it *Schema) lookup(table map[string]Definition, id string) (Definition, bool) {
	key, err := address.NormalizeUUID(id)
	if err != nil {
		return Definition{}, false
	}
	it.RLock()
	defer it.RUnlock()
	definition, ok := table[key]
	return definition, ok
}

func (it *Schema) IsKnownService(id string) bool {
	_, ok := it.lookup(it.services, id)
	return ok
}

func (it *Schema) IsKnownCharacteristic(id string) bool {
	_, ok := it.lookup(it.characteristics, id)
	return ok
}

func (it *Schema) Service(id string) (Definition, error) {
	definition, ok := it.lookup(it.services, id)
	if !ok {
		return Definition{}, fmt.Errorf("%w: service %s", ErrUnknownSchema, id)
	}
	return definition, nil
}

func (it *Schema) Characteristic(id string) (Definition, error) {
	definition, ok := it.lookup(it.characteristics, id)
	if !ok {
		return Definition{}, fmt.Errorf("%w: characteristic %s", ErrUnknownSchema, id)
	}
	return definition, nil
}

func (it *Schema) Parse(id string, raw []byte) ([]FieldValue, error) {
	definition, err := it.Characteristic(id)
	if err != nil {
		return nil, err
	}
	result := make([]FieldValue, 0, len(definition.Fields))
	rest := raw
	for _, field := range definition.Fields {
		value, used, err := field.Format.decode(rest)
		if err != nil {
			return nil, fmt.Errorf("%s field %q: %w", definition.Name, field.Name, err)
		}
		rest = rest[used:]
		result = append(result, FieldValue{Field: field, Value: field.present(value)})
	}
	return result, nil
}

func (it *Schema) Prepare(id string) (*Request, error) {
	definition, err := it.Characteristic(id)
	if err != nil {
		return nil, err
	}
	return newRequest(definition), nil
}

func (it *Schema) Serialize(request *Request) ([]byte, error) {
	if request == nil {
		return nil, fmt.Errorf("%w: no request", ErrUnknownSchema)
	}
	return request.serialize()
}

// ServiceName returns human name of a service, "Unrecognised" when unknown.
func ServiceName(catalog Catalog, id string) string {
	if catalog == nil || !catalog.IsKnownService(id) {
		return Unrecognised
	}
	definition, err := catalog.Service(id)
	if err != nil {
		return Unrecognised
	}
	return definition.Name
}

// CharacteristicName returns human name of a characteristic, "Unrecognised"
// when unknown.
func CharacteristicName(catalog Catalog, id string) string {
	if catalog == nil || !catalog.IsKnownCharacteristic(id) {
		return Unrecognised
	}
	definition, err := catalog.Characteristic(id)
	if err != nil {
		return Unrecognised
	}
	return definition.Name
}
