package cli

import (
	"github.com/spf13/cobra"
)

func NewConfigCmd(deps *Dependencies) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage stored configuration",
	}

	setKey := &cobra.Command{
		Use:   "set-key <provider> <key>",
		Short: "Store an API key (anthropic, openai, google, mistral)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := deps.App.Settings.SetCredential(args[0], args[1]); err != nil {
				return err
			}
			deps.App.Out.Success("Stored " + args[0] + " API key")
			return nil
		},
	}

	cmd.AddCommand(setKey)
	return cmd
}
