package cli

import (
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"
)

func NewChatCmd(deps *Dependencies) *cobra.Command {
	var agentRef string

	sendMessage := func(cmd *cobra.Command, args []string) error {
		agent, err := resolveAgent(deps, agentRef)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		reply, err := deps.App.Chat.SendMessage(ctx, agent, strings.Join(args, " "))
		if err != nil {
			return err
		}
		deps.App.Out.ChatMessage(reply)
		return nil
	}

	cmd := &cobra.Command{
		Use:   "chat [message...]",
		Short: "Talk to an agent persona",
		Long:  "Send a message to the active agent: 'aihomee chat how are you'. Subcommands manage the transcript.",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return cmd.Help()
			}
			return sendMessage(cmd, args)
		},
	}
	cmd.PersistentFlags().StringVarP(&agentRef, "agent", "a", "", "Agent id or name (default: active agent)")

	send := &cobra.Command{
		Use:   "send <message...>",
		Short: "Send a message and print the reply",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return sendMessage(cmd, args)
		},
	}

	history := &cobra.Command{
		Use:   "history",
		Short: "Print the agent's transcript",
		RunE: func(cmd *cobra.Command, args []string) error {
			agent, err := resolveAgent(deps, agentRef)
			if err != nil {
				return err
			}
			msgs := deps.App.Chats.History(agent.ID)
			if len(msgs) == 0 {
				deps.App.Out.Info("No messages with " + agent.Name + " yet.")
				return nil
			}
			for _, m := range msgs {
				deps.App.Out.ChatMessage(m)
			}
			return nil
		},
	}

	clear := &cobra.Command{
		Use:   "clear",
		Short: "Delete the agent's transcript",
		RunE: func(cmd *cobra.Command, args []string) error {
			agent, err := resolveAgent(deps, agentRef)
			if err != nil {
				return err
			}
			deps.App.Chats.Clear(agent.ID)
			deps.App.Out.Success("Cleared chat with " + agent.Name)
			return nil
		},
	}

	cmd.AddCommand(send, history, clear)
	return cmd
}
