package simulated

import (
	_ "embed"
	"encoding/hex"
	"fmt"
	"os"
	"strings"

	"github.com/joshyorko/btmgr/address"
	"github.com/joshyorko/btmgr/common"
	"github.com/joshyorko/btmgr/governor"
	"gopkg.in/yaml.v2"
)

//go:embed default.yaml
var defaultFixture []byte

type Fixture struct {
	Adapters []AdapterFixture `yaml:"adapters"`
}

type AdapterFixture struct {
	Address     string          `yaml:"address"`
	Name        string          `yaml:"name"`
	Alias       string          `yaml:"alias,omitempty"`
	Ready       *bool           `yaml:"ready,omitempty"`
	Powered     bool            `yaml:"powered"`
	Discovering bool            `yaml:"discovering"`
	Exponent    float64         `yaml:"exponent,omitempty"`
	Devices     []DeviceFixture `yaml:"devices"`
}

type DeviceFixture struct {
	Address         string           `yaml:"address"`
	Name            string           `yaml:"name"`
	Alias           string           `yaml:"alias,omitempty"`
	Ready           *bool            `yaml:"ready,omitempty"`
	Class           int              `yaml:"class,omitempty"`
	BLE             bool             `yaml:"ble"`
	Blocked         bool             `yaml:"blocked"`
	Online          bool             `yaml:"online"`
	Connected       bool             `yaml:"connected"`
	RSSI            int16            `yaml:"rssi,omitempty"`
	TxPower         int16            `yaml:"tx_power,omitempty"`
	MeasuredTxPower int16            `yaml:"measured_tx_power,omitempty"`
	Services        []ServiceFixture `yaml:"services"`
}

type ServiceFixture struct {
	UUID            string                  `yaml:"uuid"`
	Characteristics []CharacteristicFixture `yaml:"characteristics"`
}

type CharacteristicFixture struct {
	UUID  string   `yaml:"uuid"`
	Flags []string `yaml:"flags"`
	Ready *bool    `yaml:"ready,omitempty"`
	Value string   `yaml:"value,omitempty"`
}

func enabled(flag *bool) bool {
	return flag == nil || *flag
}

// DefaultFixture returns the embedded demo tree.
func DefaultFixture() (*Fixture, error) {
	return ParseFixture(defaultFixture)
}

func LoadFixture(filename string) (*Fixture, error) {
	fullpath := common.ExpandPath(filename)
	content, err := os.ReadFile(fullpath)
	if err != nil {
		return nil, fmt.Errorf("Could not read fixture %q, reason: %w", fullpath, err)
	}
	fixture, err := ParseFixture(content)
	if err != nil {
		return nil, fmt.Errorf("Broken fixture %q, reason: %w", fullpath, err)
	}
	return fixture, nil
}

func ParseFixture(content []byte) (*Fixture, error) {
	result := &Fixture{}
	err := yaml.Unmarshal(content, result)
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (it *Fixture) build(runtime *Runtime) error {
	for _, adapterSpec := range it.Adapters {
		adapterAddress, err := address.New(adapterSpec.Address)
		if err != nil {
			return err
		}
		adapter := runtime.adapterAt(adapterAddress)
		adapter.listed = true
		adapter.ready = enabled(adapterSpec.Ready)
		adapter.name = adapterSpec.Name
		adapter.alias = adapterSpec.Alias
		adapter.powered = adapterSpec.Powered
		adapter.poweredControl = adapterSpec.Powered
		adapter.discovering = adapterSpec.Discovering
		adapter.discoveringControl = adapterSpec.Discovering
		if adapterSpec.Exponent != 0 {
			adapter.exponent = adapterSpec.Exponent
		}
		for _, deviceSpec := range adapterSpec.Devices {
			err = deviceSpec.build(runtime, adapter)
			if err != nil {
				return err
			}
		}
	}
	return nil
}

func (it DeviceFixture) build(runtime *Runtime, adapter *adapterNode) error {
	deviceAddress, err := adapter.addr.Compose(it.Address)
	if err != nil {
		return err
	}
	device := runtime.deviceAt(deviceAddress)
	device.listed = true
	device.ready = enabled(it.Ready)
	device.name = it.Name
	device.alias = it.Alias
	device.class = it.Class
	device.ble = it.BLE
	device.blocked = it.Blocked
	device.blockedControl = it.Blocked
	device.online = it.Online
	device.connected = it.Connected
	device.connectionControl = it.Connected
	device.rssi = it.RSSI
	device.txPower = it.TxPower
	device.measuredTxPower = it.MeasuredTxPower
	adapter.devices = append(adapter.devices, device)

	for _, serviceSpec := range it.Services {
		serviceAddress, err := deviceAddress.Compose(serviceSpec.UUID)
		if err != nil {
			return err
		}
		service := &serviceNode{addr: serviceAddress}
		for _, characteristicSpec := range serviceSpec.Characteristics {
			characteristicAddress, err := serviceAddress.Compose(characteristicSpec.UUID)
			if err != nil {
				return err
			}
			characteristic := runtime.characteristicAt(characteristicAddress)
			characteristic.listed = true
			characteristic.ready = enabled(characteristicSpec.Ready)
			for _, text := range characteristicSpec.Flags {
				flag, ok := governor.ParseFlag(text)
				if !ok {
					return fmt.Errorf("characteristic %v has unknown flag %q", characteristicAddress, text)
				}
				characteristic.flags = append(characteristic.flags, flag)
			}
			value, err := hex.DecodeString(strings.ReplaceAll(characteristicSpec.Value, " ", ""))
			if err != nil {
				return fmt.Errorf("characteristic %v has broken hex value %q: %w", characteristicAddress, characteristicSpec.Value, err)
			}
			characteristic.value = value
			service.characteristics = append(service.characteristics, characteristic)
		}
		device.services = append(device.services, service)
	}
	device.servicesResolved = device.connected && len(device.services) > 0
	return nil
}
