package cmd

import (
	"context"
	"strconv"
	"time"

	"github.com/joshyorko/btmgr/common"
	"github.com/joshyorko/btmgr/console"
	"github.com/joshyorko/btmgr/fail"
	"github.com/joshyorko/btmgr/gatt"
	"github.com/joshyorko/btmgr/interactive"
	"github.com/joshyorko/btmgr/journal"
	"github.com/joshyorko/btmgr/mqttbridge"
	"github.com/joshyorko/btmgr/notify"
	"github.com/joshyorko/btmgr/settings"
	"github.com/joshyorko/btmgr/simulated"
	"github.com/joshyorko/btmgr/tsdb"
	"github.com/joshyorko/btmgr/xviper"
)

// environment is everything one console session needs, wired from the
// global settings.
type environment struct {
	runtime   *simulated.Runtime
	catalog   *gatt.Schema
	relay     *interactive.Relay
	journal   *journal.Journal
	influx    *tsdb.Writer
	mqtt      *mqttbridge.Bridge
	registry  *notify.Registry
	discovery *notify.Discovery
	console   *console.Console
}

type environmentOptions struct {
	events bool
	sinks  bool
}

func loadRuntime(config settings.Runtime, events bool) (*simulated.Runtime, error) {
	options := simulated.Options{
		Events: events || config.SimulateEvents,
		Tick:   config.Tick,
	}
	if len(config.Fixture) == 0 {
		return simulated.Default(options)
	}
	fixture, err := simulated.LoadFixture(config.Fixture)
	if err != nil {
		return nil, err
	}
	return simulated.New(fixture, options)
}

func summonEnvironment(ctx context.Context, options environmentOptions) (result *environment, err error) {
	defer fail.Around(&err)

	stopwatch := common.Stopwatch("Environment ready in")
	defer stopwatch.Debug()

	config := settings.Global
	result = &environment{
		relay: interactive.NewRelay(),
	}

	result.catalog, err = gatt.Load(config.GattExtensions)
	fail.On(err != nil, "Could not load GATT definitions: %v", err)

	result.runtime, err = loadRuntime(config.Runtime, options.events)
	fail.On(err != nil, "Could not build bluetooth runtime: %v", err)
	err = result.runtime.Start(ctx)
	fail.On(err != nil, "Could not start bluetooth runtime: %v", err)

	sinks := []notify.Sink{result.relay}
	if options.sinks {
		sinks = append(sinks, result.connectSinks(config)...)
	}
	result.registry = notify.NewRegistry(result.runtime, notify.Fanout(sinks...),
		notify.WithCatalog(result.catalog),
		notify.WithRSSIWindow(config.Notify.RSSIWindow),
		notify.WithValueWindow(config.Notify.ValueWindow),
		notify.WithBuffer(config.Notify.Buffer))

	// Discovery goes to the relay only, never to the journal or brokers.
	result.discovery = notify.NewDiscovery(result.relay, time.Now)
	result.runtime.AddDiscoveryListener(result.discovery)

	consoleOptions := console.Options{
		Catalog:  result.catalog,
		Registry: result.registry,
		Timeout:  config.Runtime.Timeout,
	}
	if result.journal != nil {
		consoleOptions.History = result.journal
	}
	result.console = console.New(result.runtime, consoleOptions)
	return result, nil
}

// connectSinks brings up the optional sinks. A sink which cannot start is
// reported and left out.
func (it *environment) connectSinks(config *settings.Settings) []notify.Sink {
	result := []notify.Sink{}
	if config.Journal.Enabled {
		opened, err := journal.Open(config.JournalFile())
		if err == nil {
			it.journal = opened
			result = append(result, opened)
		}
		common.Uncritical("journal", err)
	}
	if config.Influx.Enabled {
		writer, err := tsdb.Connect(config.Influx, it.catalog)
		if err == nil {
			it.influx = writer
			result = append(result, writer)
		}
		common.Uncritical("influxdb", err)
	}
	if config.MQTT.Enabled {
		mqtt := config.MQTT
		mqtt.ClientID = config.MQTTClientID()
		bridge, err := mqttbridge.Connect(mqtt)
		if err == nil {
			it.mqtt = bridge
			result = append(result, bridge)
		}
		common.Uncritical("mqtt", err)
	}
	return result
}

// Close tears down in reverse order of creation.
func (it *environment) Close() {
	stopwatch := common.Stopwatch("Environment closed in")
	defer stopwatch.Debug()
	if it.console != nil {
		common.Uncritical("notifications", it.console.Close())
	}
	if it.mqtt != nil {
		common.Uncritical("mqtt", it.mqtt.Close())
	}
	if it.influx != nil {
		common.Uncritical("influxdb", it.influx.Close())
	}
	if it.journal != nil {
		common.Uncritical("journal", it.journal.Close())
	}
	if it.runtime != nil {
		if it.discovery != nil {
			it.runtime.RemoveDiscoveryListener(it.discovery)
		}
		common.Uncritical("runtime", it.runtime.Dispose())
	}
}

func xviperString(key string) string {
	return xviper.GetString(key)
}

// storeSetting keeps booleans and numbers typed in the settings file.
func storeSetting(key, value string) {
	if value == "true" || value == "false" {
		xviper.Set(key, value == "true")
		return
	}
	if number, err := strconv.Atoi(value); err == nil {
		xviper.Set(key, number)
		return
	}
	xviper.Set(key, value)
}
