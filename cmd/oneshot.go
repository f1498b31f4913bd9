package cmd

import (
	"context"
	"strings"

	"github.com/spf13/cobra"

	"github.com/joshyorko/btmgr/common"
	"github.com/joshyorko/btmgr/pretty"
)

// oneShot runs console lines against a fresh environment without sinks
// and prints what they output.
func oneShot(lines ...string) {
	ctx := context.Background()
	env, err := summonEnvironment(ctx, environmentOptions{})
	pretty.Guard(err == nil, 3, "%v", err)
	defer env.Close()

	for _, line := range lines {
		output, err := env.console.Execute(ctx, line)
		pretty.Guard(err == nil, 5, "%q failed: %v", line, err)
		if len(output) > 0 {
			common.Stdout("%s\n", output)
		}
	}
}

func quote(word string) string {
	return `"` + strings.ReplaceAll(word, `"`, `\"`) + `"`
}

var lsCmd = &cobra.Command{
	Use:   "ls [address]",
	Short: "List adapters, or the objects under an address.",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) == 0 {
			oneShot("ls")
			return
		}
		oneShot("cd "+quote(args[0]), "ls")
	},
}

var infoCmd = &cobra.Command{
	Use:   "info <address>",
	Short: "Show details of a bluetooth object.",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		oneShot("info " + quote(args[0]))
	},
}

var readCmd = &cobra.Command{
	Use:   "read <characteristic address>",
	Short: "Read and decode one characteristic value.",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		oneShot("cd "+quote(args[0]), "read")
	},
}

func init() {
	rootCmd.AddCommand(lsCmd)
	rootCmd.AddCommand(infoCmd)
	rootCmd.AddCommand(readCmd)
}
