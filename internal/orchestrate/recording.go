// Package orchestrate coordinates the stores with the external AI
// collaborators. Failures never escape an orchestrator: they are converted
// into store-visible state (a status, a transcript entry) or returned to the
// direct caller for surfacing.
package orchestrate

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/frankfika/AIHomee/internal/ai"
	"github.com/frankfika/AIHomee/internal/domain/meeting"
	"github.com/frankfika/AIHomee/internal/domain/settings"
)

// ErrBusy reports that an AI call for the same record or agent is already in
// flight. Admission is enforced here, not by the caller.
var ErrBusy = errors.New("an AI call for this item is already in flight")

// Notifier delivers blocking user-visible notices.
type Notifier interface {
	Alert(msg string)
}

// maxRefineExcerptChars bounds how much of the transcription is sent along
// with a refine instruction.
const maxRefineExcerptChars = 8000

// Recording drives a captured recording through processing: insert a pending
// record, make exactly one external call, apply the outcome.
type Recording struct {
	store     *meeting.Store
	processor ai.RecordingProcessor
	refiner   ai.ReportRefiner
	notifier  Notifier

	mu       sync.Mutex
	inflight map[string]struct{}
}

func NewRecording(store *meeting.Store, processor ai.RecordingProcessor, refiner ai.ReportRefiner, notifier Notifier) *Recording {
	return &Recording{
		store:     store,
		processor: processor,
		refiner:   refiner,
		notifier:  notifier,
		inflight:  make(map[string]struct{}),
	}
}

// StartInput carries the capture result into processing.
type StartInput struct {
	Audio           []byte
	Filename        string
	PlayablePath    string
	DurationSeconds float64
	Language        string // target language selected by the user; empty = auto
}

// StartProcessing inserts a record in StatusProcessing, selects it, and
// kicks off the external call without blocking. The returned channel closes
// once the call has settled and its outcome is applied.
//
// On failure the record moves to StatusError and the user gets a blocking
// notice; if the record was deleted while the call was in flight, the late
// result is dropped silently.
func (o *Recording) StartProcessing(ctx context.Context, in StartInput, agent settings.Agent) (string, <-chan struct{}) {
	id := uuid.NewString()

	o.store.Insert(meeting.Record{
		ID:              id,
		Title:           meeting.PlaceholderTitle,
		CreatedAt:       time.Now().UTC(),
		DurationSeconds: in.DurationSeconds,
		Status:          meeting.StatusProcessing,
		Language:        in.Language,
		AudioPayload:    in.Audio,
		PlayablePath:    in.PlayablePath,
	})
	// Optimistic selection: the new record is what the user is looking at.
	if err := o.store.Select(id); err != nil {
		slog.Warn("selecting new record", "id", id, "error", err)
	}

	o.begin(id)

	done := make(chan struct{})
	go func() {
		defer close(done)
		defer o.end(id)

		res, err := o.processor.ProcessRecording(ctx, ai.ProcessRequest{
			Audio:    in.Audio,
			Filename: in.Filename,
			Persona:  agent.SystemInstruction,
			ModelID:  agent.ModelID,
			Language: in.Language,
		})
		if err != nil {
			if o.store.MarkError(id) {
				o.notifier.Alert(fmt.Sprintf("Processing failed: %v", err))
			} else {
				slog.Debug("dropping failure for deleted record", "id", id)
			}
			return
		}

		if !o.store.ApplyResult(id, meeting.Result{
			Title:         res.Title,
			Transcription: res.Transcription,
			Report:        res.Report,
			SuggestedTags: res.SuggestedTags,
			Language:      res.Language,
		}) {
			slog.Debug("dropping result for deleted record", "id", id)
		}
	}()

	return id, done
}

// RefineReport rewrites a completed record's report per the instruction,
// using the active agent's model. On any failure the stored report stays
// untouched and the error is returned for the caller to surface.
func (o *Recording) RefineReport(ctx context.Context, id, instruction string, agent settings.Agent) error {
	rec, ok := o.store.Get(id)
	if !ok {
		return meeting.ErrNotFound
	}
	if rec.Status != meeting.StatusCompleted {
		return fmt.Errorf("record %s has no report to refine (status %s)", id, rec.Status)
	}

	if !o.tryBegin(id) {
		return ErrBusy
	}
	defer o.end(id)

	excerpt := rec.Transcription
	if len(excerpt) > maxRefineExcerptChars {
		excerpt = excerpt[:maxRefineExcerptChars]
	}

	revised, err := o.refiner.Refine(ctx, agent.ModelID, rec.Report, excerpt, instruction)
	if err != nil {
		return err
	}
	return o.store.UpdateReport(id, revised)
}

func (o *Recording) begin(id string) {
	o.mu.Lock()
	o.inflight[id] = struct{}{}
	o.mu.Unlock()
}

func (o *Recording) tryBegin(id string) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	if _, busy := o.inflight[id]; busy {
		return false
	}
	o.inflight[id] = struct{}{}
	return true
}

func (o *Recording) end(id string) {
	o.mu.Lock()
	delete(o.inflight, id)
	o.mu.Unlock()
}
