package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/frankfika/AIHomee/internal/audio"
	"github.com/frankfika/AIHomee/internal/orchestrate"
)

func NewRecordCmd(deps *Dependencies) *cobra.Command {
	var file string
	var language string

	cmd := &cobra.Command{
		Use:   "record",
		Short: "Record audio and turn it into a meeting record",
		Long:  "Record from the configured input device until Ctrl+C, then transcribe and summarize the audio into a new meeting record. Use --file to process an existing audio file instead of recording.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if file != "" {
				return ingestFile(deps, file, language)
			}
			return recordLive(deps, language)
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "Process an existing audio file instead of recording")
	cmd.Flags().StringVarP(&language, "language", "l", "", "Target language for the transcription (default: auto-detect)")

	return cmd
}

func recordLive(deps *Dependencies, language string) error {
	recordingsDir := filepath.Join(deps.Config.DataDir, "recordings")
	if err := os.MkdirAll(recordingsDir, 0o755); err != nil {
		return err
	}
	path := filepath.Join(recordingsDir, time.Now().Format("2006-01-02_15-04-05")+".wav")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	deps.App.Out.RecordingStarted()
	duration, err := deps.App.Recorder.Capture(ctx, path)
	stop()
	if err != nil {
		return err
	}
	deps.App.Out.RecordingStopped(duration)

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading recorded audio: %w", err)
	}

	return process(deps, orchestrate.StartInput{
		Audio:           data,
		Filename:        filepath.Base(path),
		PlayablePath:    path,
		DurationSeconds: duration.Seconds(),
		Language:        language,
	})
}

func ingestFile(deps *Dependencies, path, language string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading audio file: %w", err)
	}

	var seconds float64
	if d, ok := audio.WAVDuration(data); ok {
		seconds = d
	}

	return process(deps, orchestrate.StartInput{
		Audio:           data,
		Filename:        filepath.Base(path),
		PlayablePath:    path,
		DurationSeconds: seconds,
		Language:        language,
	})
}

func process(deps *Dependencies, in orchestrate.StartInput) error {
	agent, err := resolveAgent(deps, "")
	if err != nil {
		return err
	}

	// Fresh interrupt scope: Ctrl+C during processing abandons the AI call.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	deps.App.Out.Processing()
	id, done := deps.App.Recording.StartProcessing(ctx, in, agent)
	<-done

	rec, ok := deps.App.Meetings.Get(id)
	if !ok {
		return fmt.Errorf("%s: record disappeared during processing", id)
	}
	deps.App.Out.MeetingDetail(rec)
	return nil
}
