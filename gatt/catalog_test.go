package gatt_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/joshyorko/btmgr/gatt"
	"github.com/joshyorko/btmgr/hamlet"
)

const (
	batteryService = "0000180f-0000-1000-8000-00805f9b34fb"
	batteryLevel   = "00002a19-0000-1000-8000-00805f9b34fb"
	temperature    = "2a6e"
	unknown        = "12345678-1234-5678-1234-56789abcdef0"
)

func TestBuiltinNames(t *testing.T) {
	must_be, wont_be := hamlet.Specifications(t)

	sut := gatt.Builtin()
	must_be.True(sut.IsKnownService(batteryService))
	must_be.True(sut.IsKnownService("180F"))
	must_be.True(sut.IsKnownCharacteristic(batteryLevel))
	wont_be.True(sut.IsKnownCharacteristic(unknown))
	wont_be.True(sut.IsKnownCharacteristic("garbage"))

	must_be.Equal("Battery Service", gatt.ServiceName(sut, batteryService))
	must_be.Equal("Battery Level", gatt.CharacteristicName(sut, batteryLevel))
	must_be.Equal(gatt.Unrecognised, gatt.CharacteristicName(sut, unknown))
	must_be.Equal(gatt.Unrecognised, gatt.ServiceName(nil, batteryService))

	_, err := sut.Characteristic(unknown)
	must_be.ErrorIs(err, gatt.ErrUnknownSchema)
}

func TestParsingAndRendering(t *testing.T) {
	must_be, wont_be := hamlet.Specifications(t)

	sut := gatt.Builtin()
	fields, err := sut.Parse(batteryLevel, []byte{0x5a})
	must_be.Nil(err)
	must_be.Equal(1, len(fields))
	must_be.Equal("Level", fields[0].Field.Name)
	must_be.Equal("90 %", fields[0].Value)
	must_be.Equal("Level: 90 %", gatt.Render(sut, batteryLevel, []byte{0x5a}))

	must_be.Equal("Temperature: -12.50 C", gatt.Render(sut, temperature, []byte{0x1e, 0xfb}))

	must_be.Equal("[01, ab, ff]", gatt.Render(sut, unknown, []byte{0x01, 0xab, 0xff}))
	must_be.Equal("[]", gatt.Render(sut, unknown, nil))

	_, err = sut.Parse(batteryLevel, nil)
	wont_be.Nil(err)
	must_be.Equal("[]", gatt.Render(sut, batteryLevel, nil))
}

func TestWriteRequests(t *testing.T) {
	must_be, wont_be := hamlet.Specifications(t)

	sut := gatt.Builtin()
	request, err := sut.Prepare("2a06")
	must_be.Nil(err)
	must_be.Equal([]string{"Alert Level"}, request.FieldNames())

	must_be.Nil(request.SetField("alert level", "2"))
	raw, err := sut.Serialize(request)
	must_be.Nil(err)
	must_be.Equal([]byte{2}, raw)

	err = request.SetField("Alert Level", "two")
	must_be.ErrorIs(err, gatt.ErrConversion)
	err = request.SetField("Alert Level", "256")
	must_be.ErrorIs(err, gatt.ErrConversion)
	raw, err = sut.Serialize(request)
	must_be.Nil(err)
	must_be.Equal([]byte{2}, raw)

	err = request.SetField("Volume", "1")
	must_be.ErrorIs(err, gatt.ErrUnknownField)

	scaled, err := sut.Prepare(temperature)
	must_be.Nil(err)
	must_be.Nil(scaled.SetField("Temperature", "-12.5"))
	raw, err = sut.Serialize(scaled)
	must_be.Nil(err)
	must_be.Equal([]byte{0x1e, 0xfb}, raw)

	_, err = sut.Prepare(unknown)
	must_be.ErrorIs(err, gatt.ErrUnknownSchema)
	wont_be.Nil(err)
}

func TestExtensionFolder(t *testing.T) {
	must_be, wont_be := hamlet.Specifications(t)

	folder := t.TempDir()
	extension := []byte(`
services:
  - uuid: "` + unknown + `"
    name: Vendor Service
characteristics:
  - uuid: "2a19"
    name: Battery Percentage
    fields:
      - name: Percent
        format: uint8
`)
	must_be.Nil(os.WriteFile(filepath.Join(folder, "vendor.yaml"), extension, 0o644))
	must_be.Nil(os.WriteFile(filepath.Join(folder, "notes.txt"), []byte("ignored"), 0o644))

	sut, err := gatt.Load(folder)
	must_be.Nil(err)
	must_be.Equal("Vendor Service", gatt.ServiceName(sut, unknown))
	must_be.Equal("Battery Percentage", gatt.CharacteristicName(sut, batteryLevel))
	must_be.Equal("Percent: 7", gatt.Render(sut, batteryLevel, []byte{7}))

	missing, err := gatt.Load(filepath.Join(folder, "missing"))
	must_be.Nil(err)
	must_be.True(missing.IsKnownCharacteristic(batteryLevel))

	broken := t.TempDir()
	must_be.Nil(os.WriteFile(filepath.Join(broken, "broken.yml"), []byte("characteristics:\n  - uuid: 2a19\n    fields:\n      - name: X\n        format: uint9\n"), 0o644))
	_, err = gatt.Load(broken)
	wont_be.Nil(err)
}
