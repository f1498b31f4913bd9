package capability

import (
	"errors"
	"fmt"
	"strings"

	"github.com/joshyorko/btmgr/gatt"
	"github.com/joshyorko/btmgr/governor"
)

const (
	twoColumns   = "%-30s%-50s"
	threeColumns = "%-15s%-30s%-30s"

	NotReady = "Not ready"
)

type sheet struct {
	strings.Builder
}

func (it *sheet) row(first, second string) {
	it.WriteString(strings.TrimRight(fmt.Sprintf(twoColumns, first, second), " "))
	it.WriteString("\n")
}

func (it *sheet) wide(first, second, third string) {
	it.WriteString(strings.TrimRight(fmt.Sprintf(threeColumns, first, second, third), " "))
	it.WriteString("\n")
}

// Renderer produces the info block of handles. Catalog may be nil, then
// every service and characteristic is unrecognised.
type Renderer struct {
	Catalog gatt.Catalog
}

// RenderInfo is best effort: one failing attribute or child never hides
// the rest.
func (it Renderer) RenderInfo(handle governor.Handle) string {
	output := &sheet{}
	descriptors, _ := Describe(handle.Kind(), false)
	for _, descriptor := range descriptors {
		if !descriptor.Access.CanRead() {
			continue
		}
		output.row(descriptor.Label+":", show(Value(handle, descriptor.Label)))
	}
	children, err := it.children(handle)
	if err != nil {
		output.row("Siblings:", NotReady)
	} else {
		output.WriteString(children)
	}
	return output.String()
}

func show(value string, err error) string {
	switch {
	case err == nil:
		return value
	case errors.Is(err, governor.ErrNotReady):
		return NotReady
	}
	return fmt.Sprintf("Error: %v", err)
}

func (it Renderer) children(handle governor.Handle) (string, error) {
	output := &sheet{}
	var err error
	switch handle.Kind() {
	case governor.KindAdapter:
		err = it.devices(output, handle.(governor.Adapter))
	case governor.KindDevice:
		err = it.services(output, handle.(governor.Device))
	case governor.KindCharacteristic:
		it.characteristic(output, handle.(governor.Characteristic))
	default:
		err = fmt.Errorf("%w: %v", ErrIntrospection, handle.Kind())
	}
	return output.String(), err
}

func (it Renderer) devices(output *sheet, adapter governor.Adapter) error {
	devices, err := adapter.Devices()
	if err != nil {
		return err
	}
	output.row("Devices:", "")
	for _, device := range devices {
		output.row("", device.String())
	}
	return nil
}

func (it Renderer) services(output *sheet, device governor.Device) error {
	services, err := device.Services()
	if err != nil {
		return err
	}
	output.row("Services:", "")
	for _, service := range services {
		serviceID := service.Address.ServiceID()
		output.wide("", serviceID+" ["+gatt.ServiceName(it.Catalog, serviceID)+"]", "")
		output.row("", "Characteristics:")
		for _, characteristic := range service.Characteristics {
			characteristicID := characteristic.Address().CharacteristicID()
			output.wide("", "", characteristicID+" ["+gatt.CharacteristicName(it.Catalog, characteristicID)+"] ["+flags(characteristic)+"]")
		}
	}
	return nil
}

func flags(characteristic governor.Characteristic) string {
	found, err := characteristic.Flags()
	if err != nil {
		return show("", err)
	}
	return governor.JoinFlags(found)
}

func (it Renderer) characteristic(output *sheet, characteristic governor.Characteristic) {
	characteristicID := characteristic.Address().CharacteristicID()
	output.row("Name:", gatt.CharacteristicName(it.Catalog, characteristicID))
	if characteristic.IsReady() {
		output.row("Flags:", flags(characteristic))
	} else {
		output.row("Flags:", NotReady)
	}
	if it.Catalog == nil || !it.Catalog.IsKnownCharacteristic(characteristicID) {
		output.WriteString("Unrecognised characteristic\n")
		return
	}
	definition, err := it.Catalog.Characteristic(characteristicID)
	if err != nil {
		output.WriteString("Unrecognised characteristic\n")
		return
	}
	output.row("Fields:", "")
	for _, field := range definition.Fields {
		output.row("", field.Name+" ["+field.Format.Name()+"]")
	}
}
