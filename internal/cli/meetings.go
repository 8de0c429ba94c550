package cli

import (
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"
)

func NewMeetingsCmd(deps *Dependencies) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "meetings",
		Short: "Browse and edit meeting records",
	}

	cmd.AddCommand(newMeetingsListCmd(deps))
	cmd.AddCommand(newMeetingsShowCmd(deps))
	cmd.AddCommand(newMeetingsSelectCmd(deps))
	cmd.AddCommand(newMeetingsDeleteCmd(deps))
	cmd.AddCommand(newMeetingsTitleCmd(deps))
	cmd.AddCommand(newMeetingsReportCmd(deps))
	cmd.AddCommand(newMeetingsTagsCmd(deps))
	cmd.AddCommand(newMeetingsAcceptTagCmd(deps))
	cmd.AddCommand(newMeetingsRefineCmd(deps))

	return cmd
}

func newMeetingsListCmd(deps *Dependencies) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List meeting records, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			records := deps.App.Meetings.List()
			if len(records) == 0 {
				deps.App.Out.Info("No meetings yet. Run 'aihomee record' to create one.")
				return nil
			}
			selected := deps.App.Meetings.Selected()
			deps.App.Out.MeetingListHeader()
			for _, r := range records {
				deps.App.Out.MeetingListItem(r, r.ID == selected)
			}
			return nil
		},
	}
}

func newMeetingsShowCmd(deps *Dependencies) *cobra.Command {
	return &cobra.Command{
		Use:   "show [id]",
		Short: "Show a meeting record (defaults to the selected one)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ref := ""
			if len(args) > 0 {
				ref = args[0]
			}
			rec, err := resolveMeeting(deps, ref)
			if err != nil {
				return err
			}
			deps.App.Out.MeetingDetail(rec)
			return nil
		},
	}
}

func newMeetingsSelectCmd(deps *Dependencies) *cobra.Command {
	return &cobra.Command{
		Use:   "select <id>",
		Short: "Select a meeting record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rec, err := resolveMeeting(deps, args[0])
			if err != nil {
				return err
			}
			return deps.App.Meetings.Select(rec.ID)
		},
	}
}

func newMeetingsDeleteCmd(deps *Dependencies) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a meeting record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rec, err := resolveMeeting(deps, args[0])
			if err != nil {
				return err
			}
			if err := deps.App.Meetings.Delete(rec.ID); err != nil {
				return err
			}
			deps.App.Out.Success("Deleted " + rec.Title)
			return nil
		},
	}
}

func newMeetingsTitleCmd(deps *Dependencies) *cobra.Command {
	return &cobra.Command{
		Use:   "title <id> <title...>",
		Short: "Rename a meeting record",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			rec, err := resolveMeeting(deps, args[0])
			if err != nil {
				return err
			}
			return deps.App.Meetings.UpdateTitle(rec.ID, strings.Join(args[1:], " "))
		},
	}
}

func newMeetingsReportCmd(deps *Dependencies) *cobra.Command {
	return &cobra.Command{
		Use:   "report <id> <text...>",
		Short: "Replace a meeting's report text",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			rec, err := resolveMeeting(deps, args[0])
			if err != nil {
				return err
			}
			return deps.App.Meetings.UpdateReport(rec.ID, strings.Join(args[1:], " "))
		},
	}
}

func newMeetingsTagsCmd(deps *Dependencies) *cobra.Command {
	return &cobra.Command{
		Use:   "tags <id> [tag...]",
		Short: "Replace a meeting's tags (no tags clears them)",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rec, err := resolveMeeting(deps, args[0])
			if err != nil {
				return err
			}
			return deps.App.Meetings.UpdateTags(rec.ID, args[1:])
		},
	}
}

func newMeetingsAcceptTagCmd(deps *Dependencies) *cobra.Command {
	return &cobra.Command{
		Use:   "accept-tag <id> <tag>",
		Short: "Move a suggested tag into the meeting's tags",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			rec, err := resolveMeeting(deps, args[0])
			if err != nil {
				return err
			}
			return deps.App.Meetings.AcceptSuggestedTag(rec.ID, args[1])
		},
	}
}

func newMeetingsRefineCmd(deps *Dependencies) *cobra.Command {
	return &cobra.Command{
		Use:   "refine <id> <instruction...>",
		Short: "Rewrite a meeting's report per an instruction",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			rec, err := resolveMeeting(deps, args[0])
			if err != nil {
				return err
			}
			agent, err := resolveAgent(deps, "")
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			instruction := strings.Join(args[1:], " ")
			if err := deps.App.Recording.RefineReport(ctx, rec.ID, instruction, agent); err != nil {
				return err
			}

			updated, _ := deps.App.Meetings.Get(rec.ID)
			deps.App.Out.MeetingDetail(updated)
			return nil
		},
	}
}
