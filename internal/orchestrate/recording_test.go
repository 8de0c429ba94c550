package orchestrate

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/frankfika/AIHomee/internal/ai"
	"github.com/frankfika/AIHomee/internal/domain/meeting"
	"github.com/frankfika/AIHomee/internal/domain/settings"
)

type fakeProcessor struct {
	res     *ai.ProcessResult
	err     error
	release chan struct{} // when non-nil, the call blocks until closed
	started chan struct{}

	mu    sync.Mutex
	calls int
}

func (f *fakeProcessor) ProcessRecording(ctx context.Context, req ai.ProcessRequest) (*ai.ProcessResult, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	if f.started != nil {
		close(f.started)
	}
	if f.release != nil {
		<-f.release
	}
	return f.res, f.err
}

type fakeRefiner struct {
	result  string
	err     error
	release chan struct{}
	started chan struct{}

	gotModel   string
	gotReport  string
	gotExcerpt string
}

func (f *fakeRefiner) Refine(ctx context.Context, modelID, report, excerpt, instruction string) (string, error) {
	f.gotModel = modelID
	f.gotReport = report
	f.gotExcerpt = excerpt
	if f.started != nil {
		close(f.started)
	}
	if f.release != nil {
		<-f.release
	}
	return f.result, f.err
}

type fakeNotifier struct {
	mu     sync.Mutex
	alerts []string
}

func (f *fakeNotifier) Alert(msg string) {
	f.mu.Lock()
	f.alerts = append(f.alerts, msg)
	f.mu.Unlock()
}

func (f *fakeNotifier) all() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.alerts...)
}

func testAgent() settings.Agent {
	return settings.Agent{
		ID:                "secretary",
		Name:              "Meeting Secretary",
		SystemInstruction: "You are a meeting secretary.",
		Provider:          settings.ProviderAnthropic,
		ModelID:           "claude-haiku-4-5",
	}
}

func waitDone(t *testing.T, done <-chan struct{}) {
	t.Helper()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("processing did not settle in time")
	}
}

func TestStartProcessingSuccess(t *testing.T) {
	store := meeting.NewStore()
	proc := &fakeProcessor{res: &ai.ProcessResult{
		Title:         "Budget planning",
		Transcription: "we planned the budget",
		Report:        "## Summary\nPlanned.",
		SuggestedTags: []string{"budget"},
		Language:      "English",
	}}
	notifier := &fakeNotifier{}
	o := NewRecording(store, proc, &fakeRefiner{}, notifier)

	id, done := o.StartProcessing(context.Background(), StartInput{
		Audio:           []byte("RIFF"),
		Filename:        "recording.wav",
		DurationSeconds: 12.5,
	}, testAgent())

	// The record is inserted and selected before the call settles.
	rec, ok := store.Get(id)
	require.True(t, ok)
	assert.Equal(t, meeting.PlaceholderTitle, rec.Title)
	assert.Equal(t, id, store.Selected())

	waitDone(t, done)

	rec, ok = store.Get(id)
	require.True(t, ok)
	assert.Equal(t, meeting.StatusCompleted, rec.Status)
	assert.Equal(t, "Budget planning", rec.Title)
	assert.NotEmpty(t, rec.Transcription)
	assert.NotEmpty(t, rec.Report)
	assert.Equal(t, 12.5, rec.DurationSeconds)
	assert.Empty(t, notifier.all())
}

func TestStartProcessingFailure(t *testing.T) {
	store := meeting.NewStore()
	proc := &fakeProcessor{err: errors.New("provider unreachable")}
	notifier := &fakeNotifier{}
	o := NewRecording(store, proc, &fakeRefiner{}, notifier)

	id, done := o.StartProcessing(context.Background(), StartInput{Audio: []byte("x"), Filename: "a.wav"}, testAgent())
	waitDone(t, done)

	rec, ok := store.Get(id)
	require.True(t, ok, "the record survives a failed attempt")
	assert.Equal(t, meeting.StatusError, rec.Status)
	assert.Equal(t, meeting.ErrorTitle, rec.Title)
	assert.Empty(t, rec.Transcription, "failure leaves pre-attempt fields untouched")
	assert.Empty(t, rec.Report)

	alerts := notifier.all()
	require.Len(t, alerts, 1, "failure must raise a notice as well as set the status")
	assert.Contains(t, alerts[0], "provider unreachable")
}

func TestStartProcessingWithoutCredential(t *testing.T) {
	// Real pipeline, no keys configured: the call fails before any network
	// traffic and the notice recommends configuring a credential.
	store := meeting.NewStore()
	notifier := &fakeNotifier{}
	proc := ai.NewProcessor(ai.NewMistral(""), ai.NewAnthropic(""))
	o := NewRecording(store, proc, &fakeRefiner{}, notifier)

	id, done := o.StartProcessing(context.Background(), StartInput{
		Audio:           []byte("RIFF"),
		Filename:        "recording.wav",
		DurationSeconds: 12.5,
	}, testAgent())
	waitDone(t, done)

	rec, ok := store.Get(id)
	require.True(t, ok)
	assert.Equal(t, meeting.StatusError, rec.Status)
	assert.Equal(t, meeting.ErrorTitle, rec.Title)

	alerts := notifier.all()
	require.Len(t, alerts, 1)
	assert.Contains(t, alerts[0], "API key not set")
}

func TestLateResultForDeletedRecordIsDropped(t *testing.T) {
	store := meeting.NewStore()
	proc := &fakeProcessor{
		res:     &ai.ProcessResult{Title: "late", Transcription: "t", Report: "r"},
		release: make(chan struct{}),
		started: make(chan struct{}),
	}
	notifier := &fakeNotifier{}
	o := NewRecording(store, proc, &fakeRefiner{}, notifier)

	id, done := o.StartProcessing(context.Background(), StartInput{Audio: []byte("x"), Filename: "a.wav"}, testAgent())
	<-proc.started

	require.NoError(t, store.Delete(id))
	close(proc.release)
	waitDone(t, done)

	assert.Zero(t, store.Len())
	assert.Empty(t, notifier.all())
}

func TestLateFailureForDeletedRecordRaisesNoNotice(t *testing.T) {
	store := meeting.NewStore()
	proc := &fakeProcessor{
		err:     errors.New("boom"),
		release: make(chan struct{}),
		started: make(chan struct{}),
	}
	notifier := &fakeNotifier{}
	o := NewRecording(store, proc, &fakeRefiner{}, notifier)

	id, done := o.StartProcessing(context.Background(), StartInput{Audio: []byte("x"), Filename: "a.wav"}, testAgent())
	<-proc.started
	require.NoError(t, store.Delete(id))
	close(proc.release)
	waitDone(t, done)

	assert.Empty(t, notifier.all())
}

func completedRecord(id string) meeting.Record {
	return meeting.Record{
		ID:            id,
		Title:         "Planning",
		Status:        meeting.StatusCompleted,
		Transcription: "the transcript",
		Report:        "## Old report",
	}
}

func TestRefineReportSuccess(t *testing.T) {
	store := meeting.NewStore()
	store.Insert(completedRecord("m1"))
	refiner := &fakeRefiner{result: "## Revised"}
	o := NewRecording(store, &fakeProcessor{}, refiner, &fakeNotifier{})

	require.NoError(t, o.RefineReport(context.Background(), "m1", "shorten it", testAgent()))

	rec, _ := store.Get("m1")
	assert.Equal(t, "## Revised", rec.Report)
	assert.Equal(t, "claude-haiku-4-5", refiner.gotModel)
	assert.Equal(t, "## Old report", refiner.gotReport)
}

func TestRefineReportFailureLeavesReportUntouched(t *testing.T) {
	store := meeting.NewStore()
	store.Insert(completedRecord("m1"))
	o := NewRecording(store, &fakeProcessor{}, &fakeRefiner{err: errors.New("nope")}, &fakeNotifier{})

	err := o.RefineReport(context.Background(), "m1", "shorten it", testAgent())
	require.Error(t, err)

	rec, _ := store.Get("m1")
	assert.Equal(t, "## Old report", rec.Report)
}

func TestRefineReportRequiresCompletedRecord(t *testing.T) {
	store := meeting.NewStore()
	store.Insert(meeting.Record{ID: "m1", Status: meeting.StatusProcessing})
	o := NewRecording(store, &fakeProcessor{}, &fakeRefiner{}, &fakeNotifier{})

	assert.Error(t, o.RefineReport(context.Background(), "m1", "x", testAgent()))
	assert.ErrorIs(t, o.RefineReport(context.Background(), "ghost", "x", testAgent()), meeting.ErrNotFound)
}

func TestRefineReportAdmissionControl(t *testing.T) {
	store := meeting.NewStore()
	store.Insert(completedRecord("m1"))
	refiner := &fakeRefiner{
		result:  "## Revised",
		release: make(chan struct{}),
		started: make(chan struct{}),
	}
	o := NewRecording(store, &fakeProcessor{}, refiner, &fakeNotifier{})

	first := make(chan error, 1)
	go func() {
		first <- o.RefineReport(context.Background(), "m1", "shorten", testAgent())
	}()
	<-refiner.started

	assert.ErrorIs(t, o.RefineReport(context.Background(), "m1", "again", testAgent()), ErrBusy)

	close(refiner.release)
	require.NoError(t, <-first)
}

func TestRefineExcerptIsBounded(t *testing.T) {
	store := meeting.NewStore()
	rec := completedRecord("m1")
	rec.Transcription = strings.Repeat("a", maxRefineExcerptChars+500)
	store.Insert(rec)
	refiner := &fakeRefiner{result: "## Revised"}
	o := NewRecording(store, &fakeProcessor{}, refiner, &fakeNotifier{})

	require.NoError(t, o.RefineReport(context.Background(), "m1", "shorten", testAgent()))
	assert.Len(t, refiner.gotExcerpt, maxRefineExcerptChars)
}
