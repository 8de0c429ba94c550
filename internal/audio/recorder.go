package audio

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"time"
)

// Recorder manages ffmpeg-based mic recording.
type Recorder struct {
	Format string // ffmpeg input format, e.g. avfoundation, pulse, alsa
	Device string // input device for the chosen format
}

func NewRecorder(format, device string) *Recorder {
	return &Recorder{Format: format, Device: device}
}

func (r *Recorder) CheckFFmpeg() error {
	if _, err := exec.LookPath("ffmpeg"); err != nil {
		return fmt.Errorf("ffmpeg not found. Install with: brew install ffmpeg")
	}
	return nil
}

// Capture records 16kHz mono WAV from the configured input device until ctx
// is canceled, then stops ffmpeg gracefully so the WAV header is finalized.
// Returns the elapsed recording duration.
func (r *Recorder) Capture(ctx context.Context, outputPath string) (time.Duration, error) {
	if err := r.CheckFFmpeg(); err != nil {
		return 0, err
	}

	cmd := exec.Command("ffmpeg",
		"-f", r.Format,
		"-i", r.Device,
		"-ac", "1",
		"-ar", "16000",
		"-y",
		outputPath,
	)

	// Log stderr for diagnostics
	logPath := outputPath + ".ffmpeg.log"
	if logFile, err := os.Create(logPath); err == nil {
		cmd.Stderr = logFile
		defer logFile.Close()
	}

	start := time.Now()
	if err := cmd.Start(); err != nil {
		return 0, fmt.Errorf("starting ffmpeg: %w", err)
	}

	waitErr := make(chan error, 1)
	go func() { waitErr <- cmd.Wait() }()

	select {
	case err := <-waitErr:
		// ffmpeg exited on its own; before cancellation that means failure.
		if err != nil {
			return 0, fmt.Errorf("recording failed (see %s): %w", logPath, err)
		}
		return time.Since(start), nil
	case <-ctx.Done():
	}

	duration := time.Since(start)
	_ = cmd.Process.Signal(os.Interrupt)
	select {
	case <-waitErr:
	case <-time.After(5 * time.Second):
		_ = cmd.Process.Kill()
		<-waitErr
	}
	return duration, nil
}
