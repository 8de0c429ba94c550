package ai

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProcessRecordingPipeline(t *testing.T) {
	transcriptionSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"text":"we discussed the quarterly budget","language":"en"}`)
	}))
	defer transcriptionSrv.Close()

	summarySrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, anthropicReply(`{"title":"Quarterly budget","report":"## Summary\nBudget talk.","suggestedTags":["budget"],"language":"English"}`))
	}))
	defer summarySrv.Close()

	p := NewProcessor(
		newTestMistral(transcriptionSrv.URL, "sk-mst"),
		newTestAnthropic(summarySrv.URL, "sk-ant"),
	)

	res, err := p.ProcessRecording(context.Background(), ProcessRequest{
		Audio:    []byte("RIFF"),
		Filename: "recording.wav",
		Persona:  "You are a secretary.",
		ModelID:  "claude-haiku-4-5",
	})
	require.NoError(t, err)
	assert.Equal(t, "Quarterly budget", res.Title)
	assert.Equal(t, "we discussed the quarterly budget", res.Transcription)
	assert.Equal(t, "## Summary\nBudget talk.", res.Report)
	assert.Equal(t, []string{"budget"}, res.SuggestedTags)
	assert.Equal(t, "English", res.Language)
}

func TestProcessRecordingFailsWhenTranscriptionFails(t *testing.T) {
	// The summarizer must never be reached when transcription errors out.
	summaryCalled := false
	summarySrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		summaryCalled = true
	}))
	defer summarySrv.Close()

	p := NewProcessor(NewMistral(""), newTestAnthropic(summarySrv.URL, "sk-ant"))

	_, err := p.ProcessRecording(context.Background(), ProcessRequest{Audio: []byte("x"), Filename: "a.wav"})
	require.Error(t, err)
	assert.False(t, summaryCalled)
}

func TestProcessRecordingLanguageFallback(t *testing.T) {
	transcriptionSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"text":"hallo zusammen","language":"de"}`)
	}))
	defer transcriptionSrv.Close()

	summarySrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, anthropicReply(`{"title":"T","report":"R","suggestedTags":[],"language":""}`))
	}))
	defer summarySrv.Close()

	p := NewProcessor(
		newTestMistral(transcriptionSrv.URL, "sk-mst"),
		newTestAnthropic(summarySrv.URL, "sk-ant"),
	)

	res, err := p.ProcessRecording(context.Background(), ProcessRequest{Audio: []byte("x"), Filename: "a.wav"})
	require.NoError(t, err)
	assert.Equal(t, "de", res.Language, "falls back to the transcription-detected language")
}
