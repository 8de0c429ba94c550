package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/frankfika/AIHomee/config"
	"github.com/frankfika/AIHomee/internal/app"
	"github.com/frankfika/AIHomee/internal/domain/meeting"
	"github.com/frankfika/AIHomee/internal/domain/settings"
	"github.com/frankfika/AIHomee/internal/version"
)

type Dependencies struct {
	App    *app.App
	Config *config.Config
}

func NewRootCmd(deps *Dependencies) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "aihomee",
		Short: "Record, transcribe, and chat with AI agents",
		Long:  "A personal AI workspace: record audio and turn it into transcribed, summarized meeting records, chat with configurable agent personas, and keep quick-access web tools. Everything is stored locally.",
	}

	rootCmd.Version = version.Version
	rootCmd.SetVersionTemplate(version.Full() + "\n")

	rootCmd.AddCommand(NewRecordCmd(deps))
	rootCmd.AddCommand(NewMeetingsCmd(deps))
	rootCmd.AddCommand(NewChatCmd(deps))
	rootCmd.AddCommand(NewAgentsCmd(deps))
	rootCmd.AddCommand(NewToolsCmd(deps))
	rootCmd.AddCommand(NewBackupCmd(deps))
	rootCmd.AddCommand(NewConfigCmd(deps))
	rootCmd.AddCommand(NewDoctorCmd(deps))

	return rootCmd
}

// resolveAgent picks the agent named by ref (id or exact name), falling back
// to the active agent when ref is empty.
func resolveAgent(deps *Dependencies, ref string) (settings.Agent, error) {
	if ref == "" {
		agent, ok := deps.App.Settings.ActiveAgent()
		if !ok {
			return settings.Agent{}, fmt.Errorf("no active agent configured")
		}
		return agent, nil
	}
	if agent, ok := deps.App.Settings.Agent(ref); ok {
		return agent, nil
	}
	for _, a := range deps.App.Settings.Agents() {
		if strings.EqualFold(a.Name, ref) {
			return a, nil
		}
	}
	return settings.Agent{}, fmt.Errorf("%w: %s", settings.ErrAgentNotFound, ref)
}

// resolveMeeting maps ref to a record: a full id, a unique id prefix, or (if
// ref is empty) the current selection.
func resolveMeeting(deps *Dependencies, ref string) (meeting.Record, error) {
	if ref == "" {
		ref = deps.App.Meetings.Selected()
		if ref == "" {
			return meeting.Record{}, fmt.Errorf("no meeting selected; pass an id or run 'aihomee meetings select'")
		}
	}
	if rec, ok := deps.App.Meetings.Get(ref); ok {
		return rec, nil
	}

	var match meeting.Record
	matches := 0
	for _, r := range deps.App.Meetings.List() {
		if strings.HasPrefix(r.ID, ref) {
			match = r
			matches++
		}
	}
	switch matches {
	case 1:
		return match, nil
	case 0:
		return meeting.Record{}, fmt.Errorf("%w: %s", meeting.ErrNotFound, ref)
	default:
		return meeting.Record{}, fmt.Errorf("id prefix %q matches %d meetings", ref, matches)
	}
}
