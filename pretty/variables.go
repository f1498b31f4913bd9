package pretty

import (
	"fmt"
	"os"
	"runtime"

	"github.com/mattn/go-isatty"

	"github.com/joshyorko/btmgr/common"
	"github.com/joshyorko/btmgr/logbuf"
)

var (
	Colorless   bool
	Iconic      bool
	Disabled    bool
	Interactive bool
	White       string
	Grey        string
	Red         string
	Green       string
	Blue        string
	Yellow      string
	Magenta     string
	Cyan        string
	Reset       string
	Sparkles    string
	Bold        string
	Faint       string
)

func csi(value string) string {
	return fmt.Sprintf("\x1b[%s", value)
}

func Setup() {
	stdin := isatty.IsTerminal(os.Stdin.Fd())
	stdout := isatty.IsTerminal(os.Stdout.Fd())
	stderr := isatty.IsTerminal(os.Stderr.Fd())

	if os.Getenv("NO_COLOR") != "" || os.Getenv("TERM") == "" {
		Colorless = true
	}

	// full screen shell needs all three; colors only need stdout
	Interactive = stdin && stdout && stderr
	Iconic = stdout && runtime.GOOS != "windows"
	logbuf.Iconic = Iconic

	visualOutput := stdout && !Colorless
	common.Trace("Interactive mode enabled: %v; colors enabled: %v; icons enabled: %v", Interactive, visualOutput && !Disabled, Iconic)
	if visualOutput && !Disabled {
		White = csi("97m")
		Grey = csi("90m")
		Red = csi("91m")
		Green = csi("92m")
		Yellow = csi("93m")
		Blue = csi("94m")
		Magenta = csi("95m")
		Cyan = csi("96m")
		Reset = csi("0m")
		Bold = csi("1m")
		Faint = csi("2m")
	}
	if Iconic && !Colorless {
		Sparkles = "✨ "
	}
}
