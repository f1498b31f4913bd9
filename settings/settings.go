package settings

import (
	"fmt"
	"time"

	"github.com/joshyorko/btmgr/common"
	"github.com/joshyorko/btmgr/mqttbridge"
	"github.com/joshyorko/btmgr/notify"
	"github.com/joshyorko/btmgr/tsdb"
	"github.com/joshyorko/btmgr/xviper"
)

var (
	Global *Settings
)

type Runtime struct {
	Fixture        string
	Timeout        time.Duration
	SimulateEvents bool
	Tick           time.Duration
}

type Notify struct {
	RSSIWindow  time.Duration
	ValueWindow time.Duration
	Buffer      int
}

type Journal struct {
	Enabled bool
	Path    string
}

type Log struct {
	File       string
	MaxSize    int
	MaxBackups int
}

// Settings is the typed view over the settings file and BTMGR_ variables.
type Settings struct {
	Runtime        Runtime
	GattExtensions string
	Notify         Notify
	Journal        Journal
	Influx         tsdb.Config
	MQTT           mqttbridge.Config
	Log            Log
}

func defaults() map[string]interface{} {
	return map[string]interface{}{
		"runtime.fixture":         "",
		"runtime.timeout":         "10s",
		"runtime.simulate_events": false,
		"runtime.tick":            "1s",
		"gatt.extensions":         common.SCHEMA_EXTENSION_DIR,
		"notify.rssi_window":      notify.DefaultRSSIWindow.String(),
		"notify.value_window":     notify.DefaultValueWindow.String(),
		"notify.buffer":           notify.DefaultBuffer,
		"journal.enabled":         true,
		"journal.path":            "",
		"influx.enabled":          false,
		"influx.url":              "http://localhost:8086",
		"influx.token":            "",
		"influx.org":              "",
		"influx.bucket":           "bluetooth",
		"influx.batch_size":       100,
		"influx.flush_interval":   1000,
		"mqtt.enabled":            false,
		"mqtt.broker":             "tcp://localhost:1883",
		"mqtt.client_id":          "",
		"mqtt.username":           "",
		"mqtt.password":           "",
		"mqtt.prefix":             mqttbridge.DefaultPrefix,
		"mqtt.qos":                1,
		"mqtt.retain":             false,
		"log.file":                "",
		"log.max_size":            10,
		"log.max_backups":         3,
	}
}

func registerDefaults() {
	for key, value := range defaults() {
		xviper.SetDefault(key, value)
	}
}

func positive(name string, value time.Duration) error {
	if value <= 0 {
		return fmt.Errorf("Setting %q must be a positive duration, got %v.", name, value)
	}
	return nil
}

// SummonSettings reads the settings file of the console home and refreshes
// Global.
func SummonSettings() (*Settings, error) {
	registerDefaults()
	if xviper.ConfigFileUsed() != common.Product.SettingsFile() {
		xviper.SetConfigFile(common.Product.SettingsFile())
	}
	result := &Settings{
		Runtime: Runtime{
			Fixture:        xviper.GetString("runtime.fixture"),
			Timeout:        xviper.GetDuration("runtime.timeout"),
			SimulateEvents: xviper.GetBool("runtime.simulate_events"),
			Tick:           xviper.GetDuration("runtime.tick"),
		},
		GattExtensions: xviper.GetString("gatt.extensions"),
		Notify: Notify{
			RSSIWindow:  xviper.GetDuration("notify.rssi_window"),
			ValueWindow: xviper.GetDuration("notify.value_window"),
			Buffer:      xviper.GetInt("notify.buffer"),
		},
		Journal: Journal{
			Enabled: xviper.GetBool("journal.enabled"),
			Path:    xviper.GetString("journal.path"),
		},
		Influx: tsdb.Config{
			Enabled:       xviper.GetBool("influx.enabled"),
			URL:           xviper.GetString("influx.url"),
			Token:         xviper.GetString("influx.token"),
			Org:           xviper.GetString("influx.org"),
			Bucket:        xviper.GetString("influx.bucket"),
			BatchSize:     xviper.GetInt("influx.batch_size"),
			FlushInterval: xviper.GetInt("influx.flush_interval"),
		},
		MQTT: mqttbridge.Config{
			Enabled:  xviper.GetBool("mqtt.enabled"),
			Broker:   xviper.GetString("mqtt.broker"),
			ClientID: xviper.GetString("mqtt.client_id"),
			Username: xviper.GetString("mqtt.username"),
			Password: xviper.GetString("mqtt.password"),
			Prefix:   xviper.GetString("mqtt.prefix"),
			QoS:      xviper.GetInt("mqtt.qos"),
			Retain:   xviper.GetBool("mqtt.retain"),
		},
		Log: Log{
			File:       xviper.GetString("log.file"),
			MaxSize:    xviper.GetInt("log.max_size"),
			MaxBackups: xviper.GetInt("log.max_backups"),
		},
	}
	for name, value := range map[string]time.Duration{
		"runtime.timeout":     result.Runtime.Timeout,
		"runtime.tick":        result.Runtime.Tick,
		"notify.rssi_window":  result.Notify.RSSIWindow,
		"notify.value_window": result.Notify.ValueWindow,
	} {
		if err := positive(name, value); err != nil {
			return nil, err
		}
	}
	Global = result
	return result, nil
}

// JournalFile is the configured journal location or the default under home.
func (it *Settings) JournalFile() string {
	if len(it.Journal.Path) > 0 {
		return common.ExpandPath(it.Journal.Path)
	}
	return common.Product.JournalFile()
}

// MQTTClientID falls back to the console identity when no id is configured.
func (it *Settings) MQTTClientID() string {
	if len(it.MQTT.ClientID) > 0 {
		return it.MQTT.ClientID
	}
	return fmt.Sprintf("%s-%s", common.Product.Name(), xviper.ConsoleIdentity()[:8])
}

// Describe lists effective settings for diagnostics. Secrets are masked.
func Describe() []string {
	result := xviper.Dump()
	for at, line := range result {
		for _, secret := range []string{"influx.token: ", "mqtt.password: "} {
			if len(line) > len(secret) && line[:len(secret)] == secret {
				result[at] = secret + "********"
			}
		}
	}
	return result
}
