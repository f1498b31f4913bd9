package console_test

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/joshyorko/btmgr/address"
	"github.com/joshyorko/btmgr/capability"
	"github.com/joshyorko/btmgr/console"
	"github.com/joshyorko/btmgr/gatt"
	"github.com/joshyorko/btmgr/hamlet"
	"github.com/joshyorko/btmgr/journal"
	"github.com/joshyorko/btmgr/notify"
	"github.com/joshyorko/btmgr/simulated"
)

const (
	workbench  = "/00:1A:7D:DA:71:13"
	batteryTag = "/00:1A:7D:DA:71:13/11:22:33:44:55:66"
	heartStrap = "/00:1A:7D:DA:71:13/F0:98:9D:12:04:AB"
	alertLevel = "/00:1A:7D:DA:71:13/11:22:33:44:55:66/1802/2a06"
	battery    = "/00:1A:7D:DA:71:13/11:22:33:44:55:66/180f/2a19"
	vendorData = "/00:1A:7D:DA:71:13/C4:7C:8D:66:D5:8A/00001204-0000-1000-8000-00805f9b34fb/00001a01-0000-1000-8000-00805f9b34fb"
	lostLevel  = "/AA:BB:CC:DD:EE:FF/11:22:33:44:55:66/0000180f-0000-1000-8000-00805f9b34fb/00002a19-0000-1000-8000-00805f9b34fb"
)

func row(label, value string) string {
	return fmt.Sprintf("%-30s%s\n", label, value)
}

func setup(t *testing.T, options console.Options) (*simulated.Runtime, *console.Console) {
	runtime, err := simulated.Default(simulated.Options{})
	if err != nil {
		t.Fatalf("demo runtime: %v", err)
	}
	if options.Catalog == nil {
		options.Catalog = gatt.Builtin()
	}
	sut := console.New(runtime, options)
	t.Cleanup(func() {
		sut.Close()
	})
	return runtime, sut
}

func run(t *testing.T, sut *console.Console, line string) string {
	t.Helper()
	output, err := sut.Execute(context.Background(), line)
	if err != nil {
		t.Fatalf("%q failed: %v", line, err)
	}
	return output
}

func TestNavigationRoundTrip(t *testing.T) {
	must_be, wont_be := hamlet.Specifications(t)

	_, sut := setup(t, console.Options{})
	must_be.Equal(console.RootPrompt, sut.Prompt())
	must_be.Equal("[Adapter] /00:1A:7D:DA:71:13 [workbench]\n[Adapter] /5C:F3:70:7E:91:0C [hci1]", run(t, sut, "ls"))

	output := run(t, sut, "cd "+workbench)
	must_be.Contains(output, row("Name:", "hci0"))
	must_be.Contains(output, "Devices:\n")
	must_be.Equal("[Adapter] /00:1A:7D:DA:71:13 [workbench]>", sut.Prompt())

	listing := strings.Split(run(t, sut, "ls"), "\n")
	must_be.Equal(3, len(listing))
	must_be.Equal("[Device] "+batteryTag+" [Battery Tag]", listing[0])

	run(t, sut, "cd "+battery)
	must_be.True(sut.Available("read"))
	run(t, sut, "cd ../")
	must_be.Equal("[Device] "+batteryTag+" [Battery Tag]>", sut.Prompt())
	run(t, sut, "cd ..")
	must_be.Equal("[Adapter] /00:1A:7D:DA:71:13 [workbench]>", sut.Prompt())

	must_be.Equal("Select a bluetooth object (see 'cd' command) or specify an address", run(t, sut, "cd ../"))
	must_be.Equal(console.RootPrompt, sut.Prompt())
	wont_be.True(sut.Available("pwd"))

	_, err := sut.Execute(context.Background(), "cd ../")
	must_be.ErrorIs(err, address.ErrMalformed)
}

func TestInfoOnUnknownBatteryLevel(t *testing.T) {
	must_be, _ := hamlet.Specifications(t)

	_, sut := setup(t, console.Options{})
	output := run(t, sut, "info "+lostLevel)
	must_be.Contains(output, row("Name:", "Battery Level"))
	must_be.Contains(output, row("Flags:", "Not ready"))
	must_be.Contains(output, "Level [uint8]")

	must_be.Equal("Select a bluetooth object (see 'cd' command) or specify an address", run(t, sut, "info"))
	run(t, sut, "cd "+batteryTag)
	must_be.Contains(run(t, sut, "info"), row("Name:", "Battery Tag"))
	must_be.Equal(run(t, sut, "info"), run(t, sut, "pwd"))
}

func TestNotReadyDeviceHasNothingToList(t *testing.T) {
	must_be, wont_be := hamlet.Specifications(t)

	_, sut := setup(t, console.Options{})
	output := run(t, sut, "cd "+heartStrap)
	must_be.Contains(output, row("Name:", "Not ready"))
	must_be.Contains(output, row("Siblings:", "Not ready"))
	must_be.Equal("", run(t, sut, "ls"))
	wont_be.True(sut.Available("notification"))
}

func TestReadRendersKnownFields(t *testing.T) {
	must_be, wont_be := hamlet.Specifications(t)

	_, sut := setup(t, console.Options{})
	wont_be.True(sut.Available("read"))
	_, err := sut.Execute(context.Background(), "read")
	must_be.ErrorIs(err, console.ErrUnavailable)

	run(t, sut, "cd "+battery)
	must_be.Equal("Level: 90 %", run(t, sut, "read"))
	wont_be.True(sut.Available("write"))
}

func TestWriteConversionFailureLeavesValueAlone(t *testing.T) {
	must_be, _ := hamlet.Specifications(t)

	runtime, sut := setup(t, console.Options{})
	target := address.MustParse(alertLevel)
	run(t, sut, "cd "+alertLevel)

	_, err := sut.Execute(context.Background(), `write "alert level" two`)
	must_be.ErrorIs(err, gatt.ErrConversion)
	value, err := runtime.Value(target)
	must_be.Nil(err)
	must_be.Equal([]byte{0x00}, value)

	_, err = sut.Execute(context.Background(), `write "no such field" 2`)
	must_be.ErrorIs(err, gatt.ErrUnknownField)

	must_be.Equal("OK", run(t, sut, `write "Alert Level" 2`))
	value, err = runtime.Value(target)
	must_be.Nil(err)
	must_be.Equal([]byte{0x02}, value)

	_, err = sut.Execute(context.Background(), "write level")
	must_be.ErrorIs(err, console.ErrUsage)
}

func TestSetAppliesAndShowsInfo(t *testing.T) {
	must_be, _ := hamlet.Specifications(t)

	_, sut := setup(t, console.Options{})
	run(t, sut, "cd "+batteryTag)
	output := run(t, sut, `set alias "Kitchen Tag"`)
	must_be.Contains(output, row("Alias:", "Kitchen Tag"))
	must_be.Equal("[Device] "+batteryTag+" [Kitchen Tag]>", sut.Prompt())

	_, err := sut.Execute(context.Background(), "set rssi -40")
	must_be.ErrorIs(err, capability.ErrUnknownAttribute)
	_, err = sut.Execute(context.Background(), "set 'online timeout' soon")
	must_be.True(err != nil)
	must_be.Contains(err.Error(), "Online timeout")
}

func TestNotificationVerb(t *testing.T) {
	must_be, wont_be := hamlet.Specifications(t)

	_, sut := setup(t, console.Options{})
	run(t, sut, "cd "+batteryTag)
	must_be.Equal("Notifications enabled: ONLINE, BLOCKED, RSSI, CONNECTED, SERVICES RESOLVED", run(t, sut, "notification on"))
	must_be.Equal("Notifications already enabled: ONLINE, BLOCKED, RSSI, CONNECTED, SERVICES RESOLVED", run(t, sut, "notification ON"))
	must_be.Equal("Notifications disabled: ONLINE, BLOCKED, RSSI, CONNECTED, SERVICES RESOLVED", run(t, sut, "notification off"))
	must_be.Equal("Nothing to disable", run(t, sut, "notification off"))

	run(t, sut, "cd "+vendorData)
	wont_be.True(sut.Available("notification"))
	run(t, sut, "cd "+battery)
	must_be.Equal("Notifications enabled: VALUE CHANGED", run(t, sut, "notification on"))
	must_be.Equal(1, sut.Registry().Len())

	_, err := sut.Execute(context.Background(), "notification maybe")
	must_be.ErrorIs(err, console.ErrUsage)
}

func TestNotificationOffAfterHandleStoppedBeingReady(t *testing.T) {
	must_be, wont_be := hamlet.Specifications(t)

	runtime, sut := setup(t, console.Options{})
	run(t, sut, "cd "+batteryTag)
	run(t, sut, "notification on")
	must_be.Nil(runtime.SetReady(address.MustParse(batteryTag), false))

	must_be.True(sut.Available("notification"))
	must_be.Equal("Notifications disabled: ONLINE, BLOCKED, RSSI, CONNECTED, SERVICES RESOLVED", run(t, sut, "notification off"))
	wont_be.True(sut.Registry().Active(address.MustParse(batteryTag)))
	wont_be.True(sut.Available("notification"))
}

func TestHistoryComesFromJournal(t *testing.T) {
	must_be, wont_be := hamlet.Specifications(t)

	_, plain := setup(t, console.Options{})
	wont_be.True(plain.Available("history"))

	store, err := journal.Open(filepath.Join(t.TempDir(), "journal.db"))
	must_be.Nil(err)
	defer store.Close()

	_, sut := setup(t, console.Options{History: store})
	must_be.Equal("No notifications yet", run(t, sut, "history"))

	start := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	for step, kind := range []notify.EventKind{notify.EventOnline, notify.EventConnected, notify.EventDisconnected} {
		store.Deliver(notify.Notification{
			Event:  notify.Event{Kind: kind, Address: address.MustParse(batteryTag), At: start.Add(time.Duration(step) * time.Second)},
			Source: "[Device] " + batteryTag,
			Text:   kind.String(),
		})
	}
	output := strings.Split(run(t, sut, "history 2"), "\n")
	must_be.Equal(2, len(output))
	must_be.Contains(output[0], "CONNECTED")
	must_be.Contains(output[1], "DISCONNECTED")

	_, err = sut.Execute(context.Background(), "history zero")
	must_be.ErrorIs(err, console.ErrUsage)
}

func TestHelpUnknownAndExit(t *testing.T) {
	must_be, wont_be := hamlet.Specifications(t)

	_, sut := setup(t, console.Options{})
	output := run(t, sut, "help")
	must_be.Contains(output, "cd <address>")
	must_be.Contains(output, "read")
	must_be.Contains(output, "(not available)")
	must_be.Equal("write <field> <value>\n  Writes to selected characteristic", run(t, sut, "help write"))

	_, err := sut.Execute(context.Background(), "teleport")
	must_be.ErrorIs(err, console.ErrUnknownVerb)
	_, err = sut.Execute(context.Background(), `cd "unterminated`)
	must_be.ErrorIs(err, console.ErrUsage)
	must_be.Equal("", run(t, sut, "   "))

	wont_be.True(sut.Finished())
	run(t, sut, "quit")
	must_be.True(sut.Finished())
}

func TestCompletion(t *testing.T) {
	must_be, _ := hamlet.Specifications(t)

	_, sut := setup(t, console.Options{})
	must_be.Equal([]string{"cd"}, sut.Complete("c"))
	must_be.Equal([]string{"/00:1A:7D:DA:71:13"}, sut.Complete("cd /00:1a"))
	must_be.Equal([]string{}, sut.Complete("read "))

	run(t, sut, "cd "+batteryTag)
	must_be.Equal([]string{"Alias"}, sut.Complete("set a"))
	must_be.Equal([]string{`"Online timeout"`}, sut.Complete("set onl"))
	must_be.Equal([]string{"../"}, sut.Complete("cd ."))

	run(t, sut, "cd "+alertLevel)
	must_be.Equal([]string{`"Alert Level"`}, sut.Complete("write al"))
	must_be.Equal([]string{}, sut.Complete("write \"Alert Level\" "))
}
