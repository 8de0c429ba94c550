package ai

import "context"

// Processor implements RecordingProcessor as a two-stage pipeline: Voxtral
// transcription followed by Anthropic summarization. The orchestrator sees a
// single call that yields all result fields or an error, so a failure in
// either stage leaves no partial success behind.
type Processor struct {
	Transcriber *Mistral
	Generative  *Anthropic
}

func NewProcessor(transcriber *Mistral, generative *Anthropic) *Processor {
	return &Processor{Transcriber: transcriber, Generative: generative}
}

func (p *Processor) ProcessRecording(ctx context.Context, req ProcessRequest) (*ProcessResult, error) {
	transcript, err := p.Transcriber.Transcribe(ctx, req.Audio, req.Filename)
	if err != nil {
		return nil, err
	}

	summary, err := p.Generative.Summarize(ctx, req.ModelID, req.Persona, transcript.Rendered(), req.Language)
	if err != nil {
		return nil, err
	}

	language := summary.Language
	if language == "" {
		language = req.Language
	}
	if language == "" {
		language = transcript.Language
	}

	return &ProcessResult{
		Title:         summary.Title,
		Transcription: transcript.Rendered(),
		Report:        summary.Report,
		SuggestedTags: summary.SuggestedTags,
		Language:      language,
	}, nil
}
