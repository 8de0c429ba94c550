package cli

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/frankfika/AIHomee/internal/domain/settings"
)

func NewAgentsCmd(deps *Dependencies) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "agents",
		Short: "Manage agent personas",
	}

	cmd.AddCommand(newAgentsListCmd(deps))
	cmd.AddCommand(newAgentsAddCmd(deps))
	cmd.AddCommand(newAgentsEditCmd(deps))
	cmd.AddCommand(newAgentsRemoveCmd(deps))
	cmd.AddCommand(newAgentsUseCmd(deps))

	return cmd
}

func newAgentsListCmd(deps *Dependencies) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List agent personas",
		RunE: func(cmd *cobra.Command, args []string) error {
			active, _ := deps.App.Settings.ActiveAgent()
			for _, a := range deps.App.Settings.Agents() {
				deps.App.Out.AgentListItem(a, a.ID == active.ID)
			}
			return nil
		},
	}
}

func parseProvider(name string) (settings.Provider, error) {
	p := settings.Provider(name)
	switch p {
	case settings.ProviderAnthropic, settings.ProviderOpenAI, settings.ProviderGoogle:
		return p, nil
	}
	return "", fmt.Errorf("unknown provider %q (anthropic, openai, google)", name)
}

func newAgentsAddCmd(deps *Dependencies) *cobra.Command {
	var description, icon, system, provider, model string

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add an agent persona",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := parseProvider(provider)
			if err != nil {
				return err
			}
			agent := settings.Agent{
				ID:                uuid.NewString(),
				Name:              args[0],
				Description:       description,
				Icon:              icon,
				SystemInstruction: system,
				Provider:          p,
				ModelID:           model,
			}
			deps.App.Settings.AddAgent(agent)
			deps.App.Out.Success("Added agent " + agent.Name + " (" + agent.ID + ")")
			return nil
		},
	}

	cmd.Flags().StringVarP(&description, "description", "d", "", "One-line description")
	cmd.Flags().StringVar(&icon, "icon", "🤖", "Display icon")
	cmd.Flags().StringVarP(&system, "system", "s", "", "System instruction defining the persona")
	cmd.Flags().StringVarP(&provider, "provider", "p", string(settings.ProviderAnthropic), "AI provider (anthropic, openai, google)")
	cmd.Flags().StringVarP(&model, "model", "m", "claude-haiku-4-5", "Model id")

	return cmd
}

func newAgentsEditCmd(deps *Dependencies) *cobra.Command {
	var name, description, icon, system, provider, model string

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Edit an agent persona",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			agent, err := resolveAgent(deps, args[0])
			if err != nil {
				return err
			}

			if cmd.Flags().Changed("name") {
				agent.Name = name
			}
			if cmd.Flags().Changed("description") {
				agent.Description = description
			}
			if cmd.Flags().Changed("icon") {
				agent.Icon = icon
			}
			if cmd.Flags().Changed("system") {
				agent.SystemInstruction = system
			}
			if cmd.Flags().Changed("provider") {
				p, err := parseProvider(provider)
				if err != nil {
					return err
				}
				agent.Provider = p
			}
			if cmd.Flags().Changed("model") {
				agent.ModelID = model
			}

			if err := deps.App.Settings.UpdateAgent(agent); err != nil {
				return err
			}
			deps.App.Out.Success("Updated agent " + agent.Name)
			return nil
		},
	}

	cmd.Flags().StringVarP(&name, "name", "n", "", "Display name")
	cmd.Flags().StringVarP(&description, "description", "d", "", "One-line description")
	cmd.Flags().StringVar(&icon, "icon", "", "Display icon")
	cmd.Flags().StringVarP(&system, "system", "s", "", "System instruction defining the persona")
	cmd.Flags().StringVarP(&provider, "provider", "p", "", "AI provider (anthropic, openai, google)")
	cmd.Flags().StringVarP(&model, "model", "m", "", "Model id")

	return cmd
}

func newAgentsRemoveCmd(deps *Dependencies) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <id>",
		Short: "Remove an agent persona",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			agent, err := resolveAgent(deps, args[0])
			if err != nil {
				return err
			}
			if err := deps.App.Settings.RemoveAgent(agent.ID); err != nil {
				return err
			}
			deps.App.Out.Success("Removed agent " + agent.Name)
			return nil
		},
	}
}

func newAgentsUseCmd(deps *Dependencies) *cobra.Command {
	return &cobra.Command{
		Use:   "use <id>",
		Short: "Switch the active agent",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			agent, err := resolveAgent(deps, args[0])
			if err != nil {
				return err
			}
			if err := deps.App.Settings.SetActiveAgent(agent.ID); err != nil {
				return err
			}
			deps.App.Out.Success("Now talking to " + agent.Name)
			return nil
		},
	}
}
