package xviper

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/joshyorko/btmgr/common"
)

// All access to the viper instance goes through one goroutine; viper
// itself is not safe for concurrent use.

type config struct {
	Viper     *viper.Viper
	Defaults  map[string]interface{}
	Filename  string
	Timestamp time.Time
	Loaded    bool
}

type command func(*config)

var (
	pipeline chan command
)

func newViper() *viper.Viper {
	result := viper.New()
	result.SetConfigType("yaml")
	result.SetEnvPrefix(strings.ToUpper(common.BTMGR_NAME))
	result.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	result.AutomaticEnv()
	return result
}

func (it *config) Reset(filename string) {
	it.Viper = newViper()
	for key, value := range it.Defaults {
		it.Viper.SetDefault(key, value)
	}
	it.Filename = filename
	it.Timestamp = time.Time{}
	it.Loaded = false
	it.Reload()
}

func (it *config) Reload() {
	if len(it.Filename) == 0 {
		return
	}
	stat, err := os.Stat(it.Filename)
	if err != nil {
		return
	}
	if it.Loaded && !stat.ModTime().After(it.Timestamp) {
		return
	}
	it.Viper.SetConfigFile(it.Filename)
	err = it.Viper.ReadInConfig()
	if err != nil {
		common.Uncritical("reading "+it.Filename, err)
		return
	}
	it.Timestamp = stat.ModTime()
	it.Loaded = true
	common.Trace("Loaded settings from %q.", it.Filename)
}

func (it *config) Save() {
	if len(it.Filename) == 0 {
		return
	}
	err := os.MkdirAll(filepath.Dir(it.Filename), 0o750)
	if err == nil {
		err = it.Viper.WriteConfigAs(it.Filename)
	}
	if err != nil {
		common.Uncritical("saving "+it.Filename, err)
		return
	}
	if stat, err := os.Stat(it.Filename); err == nil {
		it.Timestamp = stat.ModTime()
		it.Loaded = true
	}
}

func runner(todo <-chan command, core *config) {
	for job := range todo {
		job(core)
	}
}

func init() {
	pipeline = make(chan command)
	go runner(pipeline, &config{
		Viper:    newViper(),
		Defaults: make(map[string]interface{}),
	})
}

// SetConfigFile switches to filename and reloads it. Registered defaults
// survive the switch.
func SetConfigFile(filename string) {
	flow := make(chan bool)
	pipeline <- func(core *config) {
		core.Reset(filename)
		flow <- true
	}
	<-flow
}

func ConfigFileUsed() string {
	flow := make(chan string)
	pipeline <- func(core *config) {
		flow <- core.Filename
	}
	return <-flow
}

func SetDefault(key string, value interface{}) {
	pipeline <- func(core *config) {
		core.Defaults[key] = value
		core.Viper.SetDefault(key, value)
	}
}

// Set stores a value and writes the settings file.
func Set(key string, value interface{}) {
	flow := make(chan bool)
	pipeline <- func(core *config) {
		core.Reload()
		core.Viper.Set(key, value)
		core.Save()
		flow <- true
	}
	<-flow
}

func IsSet(key string) bool {
	flow := make(chan bool)
	pipeline <- func(core *config) {
		core.Reload()
		flow <- core.Viper.IsSet(key)
	}
	return <-flow
}

func Get(key string) interface{} {
	flow := make(chan interface{})
	pipeline <- func(core *config) {
		core.Reload()
		flow <- core.Viper.Get(key)
	}
	return <-flow
}

func GetBool(key string) bool {
	flow := make(chan bool)
	pipeline <- func(core *config) {
		core.Reload()
		flow <- core.Viper.GetBool(key)
	}
	return <-flow
}

func GetInt(key string) int {
	flow := make(chan int)
	pipeline <- func(core *config) {
		core.Reload()
		flow <- core.Viper.GetInt(key)
	}
	return <-flow
}

func GetString(key string) string {
	flow := make(chan string)
	pipeline <- func(core *config) {
		core.Reload()
		flow <- core.Viper.GetString(key)
	}
	return <-flow
}

func GetDuration(key string) time.Duration {
	flow := make(chan time.Duration)
	pipeline <- func(core *config) {
		core.Reload()
		flow <- core.Viper.GetDuration(key)
	}
	return <-flow
}

// Dump lists every effective setting as sorted "key: value" lines.
func Dump() []string {
	flow := make(chan []string)
	pipeline <- func(core *config) {
		core.Reload()
		keys := core.Viper.AllKeys()
		result := make([]string, 0, len(keys))
		for _, key := range keys {
			result = append(result, fmt.Sprintf("%s: %v", key, core.Viper.Get(key)))
		}
		flow <- result
	}
	result := <-flow
	sortStrings(result)
	return result
}
