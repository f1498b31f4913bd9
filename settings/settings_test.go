package settings_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/joshyorko/btmgr/common"
	"github.com/joshyorko/btmgr/hamlet"
	"github.com/joshyorko/btmgr/settings"
)

func withHome(t *testing.T, content string) string {
	home := t.TempDir()
	common.Product.ForceHome(home)
	t.Cleanup(func() { common.Product.ForceHome("") })
	if len(content) > 0 {
		err := os.WriteFile(filepath.Join(home, common.SETTINGS_FILE_NAME), []byte(content), 0o600)
		if err != nil {
			t.Fatal(err)
		}
	}
	return home
}

func TestThatSomeDefaultValuesAreVisible(t *testing.T) {
	must_be, wont_be := hamlet.Specifications(t)

	home := withHome(t, "")
	sut, err := settings.SummonSettings()
	must_be.Nil(err)
	wont_be.Nil(sut)
	wont_be.Nil(settings.Global)

	must_be.Equal(10*time.Second, sut.Runtime.Timeout)
	must_be.Equal(time.Minute, sut.Notify.RSSIWindow)
	must_be.Equal(time.Second, sut.Notify.ValueWindow)
	must_be.True(sut.Journal.Enabled)
	wont_be.True(sut.Influx.Enabled)
	wont_be.True(sut.MQTT.Enabled)
	must_be.Equal("btmgr", sut.MQTT.Prefix)
	must_be.Equal(1, sut.MQTT.QoS)
	must_be.Equal(filepath.Join(home, "journal.db"), sut.JournalFile())
}

func TestSettingsFileOverridesDefaults(t *testing.T) {
	must_be, _ := hamlet.Specifications(t)

	withHome(t, "runtime:\n  timeout: 2s\n  simulate_events: true\njournal:\n  path: /tmp/elsewhere.db\nmqtt:\n  client_id: bench\n  password: hunter2\n")
	sut, err := settings.SummonSettings()
	must_be.Nil(err)
	must_be.Equal(2*time.Second, sut.Runtime.Timeout)
	must_be.True(sut.Runtime.SimulateEvents)
	must_be.Equal("/tmp/elsewhere.db", sut.JournalFile())
	must_be.Equal("bench", sut.MQTTClientID())

	described := strings.Join(settings.Describe(), "\n")
	must_be.Contains(described, "mqtt.password: ********")
	must_be.True(!strings.Contains(described, "hunter2"))
}

func TestBrokenDurationsAreRejected(t *testing.T) {
	must_be, _ := hamlet.Specifications(t)

	withHome(t, "notify:\n  value_window: 0s\n")
	_, err := settings.SummonSettings()
	must_be.True(err != nil)
}
