package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/joshyorko/btmgr/common"
	"github.com/joshyorko/btmgr/interactive"
	"github.com/joshyorko/btmgr/operations"
	"github.com/joshyorko/btmgr/pretty"
	"github.com/joshyorko/btmgr/settings"
)

var (
	plainFlag  bool
	eventsFlag bool
	noSinks    bool
)

var shellCmd = &cobra.Command{
	Use:     "shell",
	Aliases: []string{"sh", "console"},
	Short:   "Start the interactive bluetooth console.",
	Long: `Start the interactive bluetooth console.

Full screen shell when attached to a terminal, plain line mode otherwise
or when --plain is given. Plain mode reads commands from stdin, which
makes it usable from scripts.`,
	Run: func(cmd *cobra.Command, args []string) {
		runShell(cmd)
	},
}

func shellFlags(command *cobra.Command) {
	command.Flags().BoolVar(&plainFlag, "plain", false, "Use plain line mode even on a terminal.")
	command.Flags().BoolVar(&eventsFlag, "events", false, "Let the simulated runtime generate RSSI and value events.")
	command.Flags().BoolVar(&noSinks, "no-sinks", false, "Do not start journal, influxdb or mqtt sinks.")
}

func runShell(cmd *cobra.Command) {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if common.DebugFlag() {
		status := operations.Diagnose(operations.DiagnosticOptions{
			Fixture:    settings.Global.Runtime.Fixture,
			Extensions: settings.Global.GattExtensions,
		})
		fail, warning := status.Counts()
		common.Debug("Startup diagnostics: %d checks, %d failures, %d warnings.", len(status.Checks), fail, warning)
		if fail > 0 {
			pretty.Warning("Startup diagnostics found %d failures, see 'btmgr diagnostics'.", fail)
		}
	}

	env, err := summonEnvironment(ctx, environmentOptions{events: eventsFlag, sinks: !noSinks})
	pretty.Guard(err == nil, 3, "%v", err)
	defer env.Close()

	if plainFlag || !pretty.Interactive {
		err = interactive.Plain(ctx, env.console, cmd.InOrStdin(), cmd.OutOrStdout(), env.relay, pretty.Interactive)
		pretty.Guard(err == nil, 4, "Console failed: %v", err)
		return
	}

	history := interactive.NewCommandHistory(common.Product.HistoryFile())
	common.Uncritical("loading command history", history.Load())
	err = interactive.Run(ctx, env.console, history, env.relay)
	common.Uncritical("saving command history", history.Save())
	pretty.Guard(err == nil, 4, "Console failed: %v", err)
}

func init() {
	rootCmd.AddCommand(shellCmd)
	shellFlags(shellCmd)
}
