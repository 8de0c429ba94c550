package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/frankfika/AIHomee/internal/backup"
)

func NewBackupCmd(deps *Dependencies) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Export, import, or reset local data",
	}

	cmd.AddCommand(newBackupExportCmd(deps))
	cmd.AddCommand(newBackupImportCmd(deps))
	cmd.AddCommand(newBackupResetCmd(deps))

	return cmd
}

func newBackupExportCmd(deps *Dependencies) *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write all local data to a backup file",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := out
			if path == "" {
				path = backup.DefaultFilename(time.Now())
			}
			if err := deps.App.Backup.ExportToFile(path); err != nil {
				return err
			}
			deps.App.Out.Success("Exported to " + path)
			return nil
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "", "Output path (default: date-stamped file in the current directory)")
	return cmd
}

func newBackupImportCmd(deps *Dependencies) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Replace all local data with a backup file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("reading backup file: %w", err)
			}

			if !yes {
				ok, err := confirm("Importing replaces ALL current meetings, chats, and settings. Continue?")
				if err != nil {
					return err
				}
				if !ok {
					deps.App.Out.Info("Import canceled.")
					return nil
				}
			}

			if err := deps.App.Backup.Import(data); err != nil {
				return err
			}
			deps.App.Out.Success("Imported " + args[0])
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")
	return cmd
}

func newBackupResetCmd(deps *Dependencies) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Delete all local data and restore defaults",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				ok, err := confirm("This permanently deletes ALL meetings, chats, and settings. Continue?")
				if err != nil {
					return err
				}
				if !ok {
					deps.App.Out.Info("Reset canceled.")
					return nil
				}
			}

			if err := deps.App.Backup.Reset(); err != nil {
				return err
			}
			deps.App.Out.Success("All data reset to defaults.")
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")
	return cmd
}

func confirm(question string) (bool, error) {
	var confirmed bool
	err := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(question).
				Affirmative("Yes").
				Negative("No").
				Value(&confirmed),
		),
	).Run()
	if err != nil {
		return false, err
	}
	return confirmed, nil
}
