package cmd

import (
	"github.com/spf13/cobra"

	"github.com/joshyorko/btmgr/common"
	"github.com/joshyorko/btmgr/pretty"
	"github.com/joshyorko/btmgr/settings"
)

var (
	debugFlag  bool
	traceFlag  bool
	silentFlag bool
	homeFlag   string
)

var rootCmd = &cobra.Command{
	Use:   "btmgr",
	Short: "Interactive console for bluetooth adapters, devices and GATT characteristics.",
	Long: `Interactive console for bluetooth adapters, devices and GATT characteristics.

Navigate the bluetooth object tree like a file system, read and write
characteristics, and follow notifications. Without a subcommand the
interactive shell is started.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		common.DefineVerbosity(silentFlag, debugFlag, traceFlag)
		if len(homeFlag) > 0 {
			common.Product.ForceHome(homeFlag)
		}
		_, err := settings.SummonSettings()
		pretty.Guard(err == nil, 2, "Broken settings: %v", err)
		logs := settings.Global.Log
		common.MirrorLogs(logs.File, logs.MaxSize, logs.MaxBackups)
		common.Trace("Using home %q and settings %q.", common.Product.Home(), common.Product.SettingsFile())
	},
	Run: func(cmd *cobra.Command, args []string) {
		runShell(cmd)
	},
}

// Execute runs the command line of the process.
func Execute() {
	defer common.WaitLogs()
	err := rootCmd.Execute()
	pretty.Guard(err == nil, 1, "Error: %v", err)
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&debugFlag, "debug", false, "Turn on debugging output.")
	rootCmd.PersistentFlags().BoolVar(&traceFlag, "trace", false, "Turn on tracing output.")
	rootCmd.PersistentFlags().BoolVar(&silentFlag, "silent", false, "Be less verbose on output.")
	rootCmd.PersistentFlags().StringVar(&homeFlag, "home", "", "Console home folder for settings, history and journal.")
	rootCmd.SilenceUsage = true
	rootCmd.SilenceErrors = true
	shellFlags(rootCmd)
}
