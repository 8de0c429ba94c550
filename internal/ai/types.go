// Package ai holds the external AI collaborators: the Voxtral transcription
// client, the Anthropic messages client, and the recording pipeline that
// combines them behind a single call.
package ai

import "context"

// ProcessRequest carries everything needed to turn a captured recording into
// meeting artifacts.
type ProcessRequest struct {
	Audio    []byte
	Filename string // used for the upload's form filename, e.g. recording.wav
	Persona  string // system instruction of the active agent
	ModelID  string // generative model of the active agent
	Language string // target language hint; empty means auto-detect
}

// ProcessResult is the structured outcome of a successful processing run.
type ProcessResult struct {
	Title         string
	Transcription string
	Report        string
	SuggestedTags []string
	Language      string
}

// RecordingProcessor is the collaborator the recording orchestrator talks
// to: one call per record, returning either a full result or an error.
type RecordingProcessor interface {
	ProcessRecording(ctx context.Context, req ProcessRequest) (*ProcessResult, error)
}

// Turn is one prior exchange in a chat history.
type Turn struct {
	Role    string // "user" or "model"
	Content string
}

// ChatRequest carries a persona, the running history and the new user text.
type ChatRequest struct {
	ModelID string
	System  string
	History []Turn
	Text    string
}

// Chatter is the collaborator the chat orchestrator talks to.
type Chatter interface {
	Chat(ctx context.Context, req ChatRequest) (string, error)
}

// ReportRefiner rewrites an existing report according to a free-text
// instruction, grounded in an excerpt of the transcription.
type ReportRefiner interface {
	Refine(ctx context.Context, modelID, report, transcriptExcerpt, instruction string) (string, error)
}
