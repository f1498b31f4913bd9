package interactive

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/joshyorko/btmgr/console"
	"github.com/joshyorko/btmgr/logbuf"
	"github.com/joshyorko/btmgr/notify"
	"github.com/joshyorko/btmgr/pretty"
)

// lockedWriter serializes command output with notifications arriving
// from subscription goroutines.
type lockedWriter struct {
	sync.Mutex
	out io.Writer
}

func (w *lockedWriter) Printf(format string, details ...interface{}) {
	w.Lock()
	defer w.Unlock()
	fmt.Fprintf(w.out, format, details...)
}

// Plain reads commands line by line from in. With prompt set, the prompt
// is printed before each line. End of input ends the session.
func Plain(ctx context.Context, console *console.Console, in io.Reader, out io.Writer, relay *Relay, prompt bool) error {
	writer := &lockedWriter{out: out}
	if relay != nil {
		relay.Attach(notify.SinkFunc(func(notification notify.Notification) {
			writer.Printf("%s\n", pretty.Colorize(logbuf.KindNotification, notification.String()))
		}))
		defer relay.Detach()
	}

	scanner := bufio.NewScanner(in)
	for !console.Finished() {
		if ctx.Err() != nil {
			return nil
		}
		if prompt {
			writer.Printf("%s ", console.Prompt())
		}
		if !scanner.Scan() {
			if prompt {
				writer.Printf("\n")
			}
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		output, err := console.Execute(ctx, line)
		if len(output) > 0 {
			writer.Printf("%s\n", output)
		}
		if err != nil {
			writer.Printf("%s\n", pretty.Colorize(logbuf.KindError, fmt.Sprintf("Error: %v", err)))
		}
	}
	return nil
}
