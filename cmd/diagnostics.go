package cmd

import (
	"github.com/spf13/cobra"

	"github.com/joshyorko/btmgr/common"
	"github.com/joshyorko/btmgr/operations"
	"github.com/joshyorko/btmgr/pretty"
	"github.com/joshyorko/btmgr/settings"
)

var jsonFlag bool

var diagnosticsCmd = &cobra.Command{
	Use:     "diagnostics",
	Aliases: []string{"diagnostic", "diag"},
	Short:   "Check bluetooth transport, definitions and settings.",
	Run: func(cmd *cobra.Command, args []string) {
		status := operations.Diagnose(operations.DiagnosticOptions{
			Fixture:    settings.Global.Runtime.Fixture,
			Extensions: settings.Global.GattExtensions,
		})
		if jsonFlag {
			body, err := status.AsJson()
			pretty.Guard(err == nil, 1, "Could not format diagnostics: %v", err)
			common.Stdout("%s\n", body)
			return
		}
		operations.PrintDiagnostics(status)
		fail, warning := status.Counts()
		if warning > 0 {
			pretty.Warning("Diagnostics found %d warnings.", warning)
		}
		pretty.Guard(fail == 0, 6, "Diagnostics found %d failures.", fail)
		pretty.Ok()
	},
}

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Show effective settings.",
	Run: func(cmd *cobra.Command, args []string) {
		pretty.Header(common.Product.SettingsFile())
		for _, line := range settings.Describe() {
			common.Stdout("%s\n", line)
		}
		common.Stdout("\nconsole identity: %s\n", settings.Global.MQTTClientID())
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version of this console.",
	Run: func(cmd *cobra.Command, args []string) {
		common.Stdout("%s\n", common.Version)
	},
}

func init() {
	rootCmd.AddCommand(diagnosticsCmd)
	rootCmd.AddCommand(settingsCmd)
	rootCmd.AddCommand(versionCmd)
	diagnosticsCmd.Flags().BoolVarP(&jsonFlag, "json", "j", false, "Output in JSON format.")
}
