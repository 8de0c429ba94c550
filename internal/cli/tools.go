package cli

import (
	"fmt"
	"net/url"
	"os/exec"
	"runtime"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/frankfika/AIHomee/internal/domain/settings"
)

func NewToolsCmd(deps *Dependencies) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tools",
		Short: "Manage quick-access web tools",
	}

	cmd.AddCommand(newToolsListCmd(deps))
	cmd.AddCommand(newToolsAddCmd(deps))
	cmd.AddCommand(newToolsRemoveCmd(deps))
	cmd.AddCommand(newToolsOpenCmd(deps))

	return cmd
}

func newToolsListCmd(deps *Dependencies) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List web tools",
		RunE: func(cmd *cobra.Command, args []string) error {
			tools := deps.App.Settings.WebTools()
			if len(tools) == 0 {
				deps.App.Out.Info("No web tools configured.")
				return nil
			}
			for _, t := range tools {
				deps.App.Out.WebToolListItem(t)
			}
			return nil
		},
	}
}

func newToolsAddCmd(deps *Dependencies) *cobra.Command {
	var icon string

	cmd := &cobra.Command{
		Use:   "add <name> <url>",
		Short: "Add a web tool",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			u, err := url.Parse(args[1])
			if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
				return fmt.Errorf("invalid tool URL %q: must be http(s)", args[1])
			}
			tool := settings.WebTool{
				ID:   uuid.NewString(),
				Name: args[0],
				URL:  u.String(),
				Icon: icon,
			}
			deps.App.Settings.AddWebTool(tool)
			deps.App.Out.Success("Added tool " + tool.Name + " (" + tool.ID + ")")
			return nil
		},
	}

	cmd.Flags().StringVar(&icon, "icon", "🔗", "Display icon")
	return cmd
}

func newToolsRemoveCmd(deps *Dependencies) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <id>",
		Short: "Remove a web tool",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tool, err := resolveTool(deps, args[0])
			if err != nil {
				return err
			}
			if err := deps.App.Settings.RemoveWebTool(tool.ID); err != nil {
				return err
			}
			deps.App.Out.Success("Removed tool " + tool.Name)
			return nil
		},
	}
}

func newToolsOpenCmd(deps *Dependencies) *cobra.Command {
	return &cobra.Command{
		Use:   "open <id>",
		Short: "Open a web tool in the default browser",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tool, err := resolveTool(deps, args[0])
			if err != nil {
				return err
			}
			if err := openBrowser(tool.URL); err != nil {
				return err
			}
			deps.App.Out.Info("Opened " + tool.Name)
			return nil
		},
	}
}

func resolveTool(deps *Dependencies, ref string) (settings.WebTool, error) {
	if t, ok := deps.App.Settings.WebTool(ref); ok {
		return t, nil
	}
	for _, t := range deps.App.Settings.WebTools() {
		if strings.EqualFold(t.Name, ref) {
			return t, nil
		}
	}
	return settings.WebTool{}, fmt.Errorf("%w: %s", settings.ErrToolNotFound, ref)
}

func openBrowser(rawURL string) error {
	switch runtime.GOOS {
	case "darwin":
		return exec.Command("open", rawURL).Start()
	case "windows":
		return exec.Command("rundll32", "url.dll,FileProtocolHandler", rawURL).Start()
	default:
		return exec.Command("xdg-open", rawURL).Start()
	}
}
