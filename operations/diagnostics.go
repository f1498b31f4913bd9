package operations

import (
	"encoding/json"
	"fmt"
	"os"
	"runtime"
	"sort"
	"strings"
	"sync"

	"github.com/mitchellh/go-ps"

	"github.com/joshyorko/btmgr/anywork"
	"github.com/joshyorko/btmgr/common"
	"github.com/joshyorko/btmgr/gatt"
	"github.com/joshyorko/btmgr/logbuf"
	"github.com/joshyorko/btmgr/pretty"
	"github.com/joshyorko/btmgr/simulated"
)

const (
	statusOk          = `ok`
	statusWarning     = `warning`
	statusFail        = `fail`
	statusUnsupported = `unsupported`

	categoryTransport = `transport`
	categoryCatalog   = `catalog`
	categoryRuntime   = `runtime`
	categorySettings  = `settings`

	bluetoothDaemon = `bluetoothd`
)

type DiagnosticCheck struct {
	Type     string `json:"type"`
	Category string `json:"category"`
	Status   string `json:"status"`
	Message  string `json:"message"`
}

type DiagnosticStatus struct {
	sync.Mutex `json:"-"`
	Details    map[string]string  `json:"details"`
	Checks     []*DiagnosticCheck `json:"checks"`
}

// DiagnosticOptions names the inputs the probes load.
type DiagnosticOptions struct {
	Fixture    string
	Extensions string
}

type probe func(DiagnosticOptions) *DiagnosticCheck

// processLister is swapped in tests.
var processLister = ps.Processes

func (it *DiagnosticStatus) add(check *DiagnosticCheck) {
	it.Lock()
	defer it.Unlock()
	it.Checks = append(it.Checks, check)
}

func (it *DiagnosticStatus) Counts() (fail int, warning int) {
	for _, check := range it.Checks {
		switch check.Status {
		case statusFail:
			fail++
		case statusWarning:
			warning++
		}
	}
	return fail, warning
}

func (it *DiagnosticStatus) AsJson() (string, error) {
	body, err := json.MarshalIndent(it, "", "  ")
	if err != nil {
		return "", err
	}
	return string(body), nil
}

// Diagnose runs every probe on the anywork pool. Probes never fail the
// process; their findings are in the returned status.
func Diagnose(options DiagnosticOptions) *DiagnosticStatus {
	result := &DiagnosticStatus{
		Details: map[string]string{
			"product":       common.Product.Name(),
			"version":       common.Version,
			"home":          common.Product.Home(),
			"settings-file": common.Product.SettingsFile(),
			"os":            fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH),
			"go":            runtime.Version(),
			"cpus":          fmt.Sprintf("%d", runtime.NumCPU()),
		},
		Checks: []*DiagnosticCheck{},
	}
	for _, check := range []probe{daemonCheck, socketCheck, catalogCheck, fixtureCheck, settingsCheck} {
		todo := check
		anywork.Backlog(func() {
			result.add(todo(options))
		})
	}
	common.Uncritical("diagnostics", anywork.Sync())
	sort.SliceStable(result.Checks, func(left, right int) bool {
		first, second := result.Checks[left], result.Checks[right]
		if first.Category != second.Category {
			return first.Category < second.Category
		}
		return first.Type < second.Type
	})
	return result
}

func daemonCheck(DiagnosticOptions) *DiagnosticCheck {
	check := &DiagnosticCheck{
		Type:     "daemon",
		Category: categoryTransport,
	}
	processes, err := processLister()
	if err != nil {
		check.Status = statusWarning
		check.Message = fmt.Sprintf("Could not list processes: %v", err)
		return check
	}
	for _, process := range processes {
		if strings.EqualFold(process.Executable(), bluetoothDaemon) {
			check.Status = statusOk
			check.Message = fmt.Sprintf("%s is running as pid %d.", bluetoothDaemon, process.Pid())
			return check
		}
	}
	check.Status = statusWarning
	check.Message = fmt.Sprintf("%s is not running; only the simulated runtime is usable.", bluetoothDaemon)
	return check
}

func catalogCheck(options DiagnosticOptions) *DiagnosticCheck {
	check := &DiagnosticCheck{
		Type:     "gatt-definitions",
		Category: categoryCatalog,
		Status:   statusOk,
	}
	catalog, err := gatt.Load(options.Extensions)
	switch {
	case err != nil:
		check.Status = statusFail
		check.Message = err.Error()
	case !catalog.IsKnownCharacteristic("2a19"):
		check.Status = statusFail
		check.Message = "Builtin definitions do not know Battery Level."
	default:
		check.Message = fmt.Sprintf("Definitions loaded, extensions from %q.", options.Extensions)
	}
	return check
}

func fixtureCheck(options DiagnosticOptions) *DiagnosticCheck {
	check := &DiagnosticCheck{
		Type:     "fixture",
		Category: categoryRuntime,
		Status:   statusOk,
	}
	var fixture *simulated.Fixture
	var err error
	source := "embedded demo tree"
	if len(options.Fixture) > 0 {
		source = options.Fixture
		fixture, err = simulated.LoadFixture(options.Fixture)
	} else {
		fixture, err = simulated.DefaultFixture()
	}
	if err != nil {
		check.Status = statusFail
		check.Message = err.Error()
		return check
	}
	devices := 0
	for _, adapter := range fixture.Adapters {
		devices += len(adapter.Devices)
	}
	check.Message = fmt.Sprintf("%s has %d adapters and %d devices.", source, len(fixture.Adapters), devices)
	return check
}

func settingsCheck(DiagnosticOptions) *DiagnosticCheck {
	check := &DiagnosticCheck{
		Type:     "settings-file",
		Category: categorySettings,
		Status:   statusOk,
	}
	filename := common.Product.SettingsFile()
	_, err := os.Stat(filename)
	switch {
	case os.IsNotExist(err):
		check.Message = fmt.Sprintf("No %q, using defaults.", filename)
	case err != nil:
		check.Status = statusWarning
		check.Message = err.Error()
	default:
		check.Message = fmt.Sprintf("Using %q.", filename)
	}
	return check
}

func statusKind(status string) logbuf.Kind {
	switch status {
	case statusFail:
		return logbuf.KindError
	case statusWarning:
		return logbuf.KindWarning
	case statusUnsupported:
		return logbuf.KindLog
	}
	return logbuf.KindOutput
}

// PrintDiagnostics writes a human readable report to stdout.
func PrintDiagnostics(status *DiagnosticStatus) {
	pretty.Header("Diagnostic details:")
	keys := make([]string, 0, len(status.Details))
	for key := range status.Details {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		common.Stdout(" - %-15s...  %q\n", key, status.Details[key])
	}
	common.Stdout("\n")
	pretty.Header("Checks:")
	for _, check := range status.Checks {
		line := fmt.Sprintf(" - %-10s %-17s %-12s %s", check.Category, check.Type, strings.ToUpper(check.Status), check.Message)
		common.Stdout("%s\n", pretty.Colorize(statusKind(check.Status), line))
	}
	fail, warning := status.Counts()
	common.Stdout("\n%d checks, %d failures, %d warnings.\n", len(status.Checks), fail, warning)
}
