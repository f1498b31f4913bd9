package cmd

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/joshyorko/btmgr/common"
	"github.com/joshyorko/btmgr/journal"
	"github.com/joshyorko/btmgr/pretty"
	"github.com/joshyorko/btmgr/settings"
	"github.com/joshyorko/btmgr/wizard"
)

var (
	journalLimit int
	purgeFlag    bool
	purgeOlder   time.Duration
	yesFlag      bool
)

var journalCmd = &cobra.Command{
	Use:   "journal",
	Short: "Show or purge journaled notifications.",
	Run: func(cmd *cobra.Command, args []string) {
		filename := settings.Global.JournalFile()
		book, err := journal.Open(filename)
		pretty.Guard(err == nil, 3, "%v", err)
		defer book.Close()

		if purgeFlag {
			question := "Remove every journaled notification from " + filename + "?"
			cutoff := time.Time{}
			if purgeOlder > 0 {
				cutoff = time.Now().Add(-purgeOlder)
				question = "Remove journaled notifications older than " + purgeOlder.String() + "?"
			}
			confirmed, err := wizard.ConfirmDangerous(question, yesFlag)
			pretty.Guard(err == nil, 7, "%v", err)
			if !confirmed {
				return
			}
			removed, err := book.Purge(cutoff)
			pretty.Guard(err == nil, 3, "%v", err)
			pretty.Highlight("Removed %d notifications.", removed)
			pretty.Ok()
			return
		}

		entries, err := book.Recent(journalLimit)
		pretty.Guard(err == nil, 3, "%v", err)
		if len(entries) == 0 {
			pretty.Note("Journal %q has no notifications yet.", book.Path())
		}
		for at := len(entries) - 1; at >= 0; at-- {
			common.Stdout("%s\n", entries[at])
		}
	},
}

var configureCmd = &cobra.Command{
	Use:       "configure <mqtt|influx>",
	Short:     "Set up a notification sink with a few questions.",
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"mqtt", "influx"},
	Run: func(cmd *cobra.Command, args []string) {
		pretty.Guard(pretty.Interactive, 7, "Configuring needs a terminal; edit %q instead.", common.Product.SettingsFile())
		questions, err := wizard.SinkQuestions(args[0], xviperString)
		pretty.Guard(err == nil, 1, "%v", err)
		answers, err := wizard.Ask(questions)
		pretty.Guard(err == nil, 7, "%v", err)
		for _, question := range questions {
			storeSetting(question.Key, answers[question.Key])
		}
		_, err = settings.SummonSettings()
		pretty.Guard(err == nil, 2, "Broken settings: %v", err)
		pretty.Ok()
	},
}

func init() {
	rootCmd.AddCommand(journalCmd)
	rootCmd.AddCommand(configureCmd)
	journalCmd.Flags().IntVarP(&journalLimit, "limit", "n", 20, "How many latest notifications to show.")
	journalCmd.Flags().BoolVar(&purgeFlag, "purge", false, "Remove journaled notifications.")
	journalCmd.Flags().DurationVar(&purgeOlder, "older", 0, "With --purge, only remove notifications older than this.")
	wizard.AddYesFlag(journalCmd, &yesFlag)
}
