package wizard

import (
	"errors"
	"strings"

	"github.com/spf13/cobra"

	"github.com/joshyorko/btmgr/common"
	"github.com/joshyorko/btmgr/pretty"
)

var (
	ErrConfirmationRequired = errors.New("confirmation required: use --yes flag in non-interactive mode")
)

// Confirm asks a y/n question. Force answers yes without asking; without
// a terminal the answer must come from force.
func Confirm(question string, force bool) (bool, error) {
	if force {
		return true, nil
	}
	if !pretty.Interactive {
		return false, ErrConfirmationRequired
	}
	validator := memberValidation([]string{"y", "Y", "n", "N"}, "Please answer 'y' or 'n'.")
	response, err := ask(question, "n", validator)
	if err != nil {
		return false, err
	}
	confirmed := response == "y" || response == "Y"
	if !confirmed {
		common.Stdout("%sOperation cancelled.%s\n", pretty.Grey, pretty.Reset)
	}
	return confirmed, nil
}

// ConfirmDangerous wants "yes" typed out. Empty answer cancels.
func ConfirmDangerous(question string, force bool) (bool, error) {
	if force {
		return true, nil
	}
	if !pretty.Interactive {
		return false, ErrConfirmationRequired
	}
	for {
		common.Stdout("%s? %s%s %s[type 'yes' to confirm]:%s ", pretty.Green, pretty.White, question, pretty.Grey, pretty.Reset)
		reply, err := source.ReadString(newline)
		common.Stdout("\n")
		reply = strings.TrimSpace(reply)
		if len(reply) == 0 {
			common.Stdout("%sOperation cancelled.%s\n", pretty.Grey, pretty.Reset)
			return false, nil
		}
		if strings.ToLower(reply) == "yes" {
			return true, nil
		}
		if err != nil {
			return false, err
		}
		common.Stdout("%sPlease type 'yes' to confirm or press Enter to cancel.%s\n\n", pretty.Red, pretty.Reset)
	}
}

// AddYesFlag adds a --yes/-y flag to the given command that can be used to skip confirmation prompts.
func AddYesFlag(cmd *cobra.Command, target *bool) {
	cmd.Flags().BoolVarP(target, "yes", "y", false, "Skip confirmation prompt")
}
