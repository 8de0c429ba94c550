package output

import (
	"fmt"
	"io"
	"time"

	"github.com/frankfika/AIHomee/internal/domain/chat"
	"github.com/frankfika/AIHomee/internal/domain/meeting"
	"github.com/frankfika/AIHomee/internal/domain/settings"
)

type Formatter struct {
	w io.Writer
}

func NewFormatter(w io.Writer) *Formatter {
	return &Formatter{w: w}
}

// Alert is the blocking user notice raised by the orchestrators.
func (f *Formatter) Alert(msg string) {
	fmt.Fprintf(f.w, "🚨 %s\n", msg)
}

func (f *Formatter) Error(msg string) {
	fmt.Fprintf(f.w, "❌ %s\n", msg)
}

func (f *Formatter) Info(msg string) {
	fmt.Fprintf(f.w, "ℹ️  %s\n", msg)
}

func (f *Formatter) Success(msg string) {
	fmt.Fprintf(f.w, "✅ %s\n", msg)
}

func (f *Formatter) Warning(msg string) {
	fmt.Fprintf(f.w, "⚠️  %s\n", msg)
}

func (f *Formatter) RecordingStarted() {
	fmt.Fprintf(f.w, "🎙️  Recording... press Ctrl+C to stop\n")
}

func (f *Formatter) RecordingStopped(duration time.Duration) {
	fmt.Fprintf(f.w, "⏹️  Recording stopped (%s)\n", formatDuration(duration))
}

func (f *Formatter) Processing() {
	fmt.Fprintf(f.w, "🤖 Processing recording...\n")
}

func (f *Formatter) MeetingListHeader() {
	fmt.Fprintf(f.w, "📁 Meetings:\n\n")
}

func (f *Formatter) MeetingListItem(rec meeting.Record, selected bool) {
	marker := "  "
	if selected {
		marker = "▶ "
	}
	status := ""
	switch rec.Status {
	case meeting.StatusProcessing:
		status = " ⏳"
	case meeting.StatusCompleted:
		status = " ✅"
	case meeting.StatusError:
		status = " ❌"
	}
	short := rec.ID
	if len(short) > 8 {
		short = short[:8]
	}
	fmt.Fprintf(f.w, "%s%s  %s  %s (%s)%s\n",
		marker,
		short,
		rec.CreatedAt.Local().Format("2006-01-02 15:04"),
		rec.Title,
		formatDuration(time.Duration(rec.DurationSeconds*float64(time.Second))),
		status,
	)
}

func (f *Formatter) MeetingDetail(rec meeting.Record) {
	fmt.Fprintf(f.w, "# %s\n\n", rec.Title)
	fmt.Fprintf(f.w, "ID:       %s\n", rec.ID)
	fmt.Fprintf(f.w, "Created:  %s\n", rec.CreatedAt.Local().Format(time.RFC1123))
	fmt.Fprintf(f.w, "Duration: %s\n", formatDuration(time.Duration(rec.DurationSeconds*float64(time.Second))))
	fmt.Fprintf(f.w, "Status:   %s\n", rec.Status)
	if rec.Language != "" {
		fmt.Fprintf(f.w, "Language: %s\n", rec.Language)
	}
	if len(rec.Tags) > 0 {
		fmt.Fprintf(f.w, "Tags:     %v\n", rec.Tags)
	}
	if len(rec.SuggestedTags) > 0 {
		fmt.Fprintf(f.w, "Suggested tags: %v\n", rec.SuggestedTags)
	}
	if rec.Report != "" {
		fmt.Fprintf(f.w, "\n%s\n", rec.Report)
	}
	if rec.PlayablePath == "" {
		fmt.Fprintf(f.w, "\n(no playback available for this record)\n")
	} else {
		fmt.Fprintf(f.w, "\nAudio: %s\n", rec.PlayablePath)
	}
}

func (f *Formatter) ChatMessage(msg chat.Message) {
	prefix := "🧑"
	if msg.Role == chat.RoleModel {
		prefix = "🤖"
	}
	fmt.Fprintf(f.w, "%s %s\n", prefix, msg.Content)
}

func (f *Formatter) AgentListItem(a settings.Agent, active bool) {
	marker := "  "
	if active {
		marker = "▶ "
	}
	protected := ""
	if a.IsDefault {
		protected = " (built-in)"
	}
	fmt.Fprintf(f.w, "%s%s %s - %s [%s/%s]%s\n", marker, a.Icon, a.Name, a.Description, a.Provider, a.ModelID, protected)
}

func (f *Formatter) WebToolListItem(t settings.WebTool) {
	fmt.Fprintf(f.w, "  %s %s - %s\n", t.Icon, t.Name, t.URL)
}

func (f *Formatter) SetupCheck(name string, ok bool, detail string) {
	if ok {
		fmt.Fprintf(f.w, "  ✅ %s: %s\n", name, detail)
	} else {
		fmt.Fprintf(f.w, "  ❌ %s: %s\n", name, detail)
	}
}

func formatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	h := d / time.Hour
	d -= h * time.Hour
	m := d / time.Minute
	d -= m * time.Minute
	s := d / time.Second

	if h > 0 {
		return fmt.Sprintf("%dh%02dm%02ds", h, m, s)
	}
	if m > 0 {
		return fmt.Sprintf("%dm%02ds", m, s)
	}
	return fmt.Sprintf("%ds", s)
}
