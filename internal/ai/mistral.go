package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"
)

const defaultMistralURL = "https://api.mistral.ai/v1/audio/transcriptions"

// Mistral transcribes audio via the Mistral Voxtral API.
type Mistral struct {
	apiKey string
	apiURL string
	client *http.Client
}

func NewMistral(apiKey string) *Mistral {
	return &Mistral{
		apiKey: apiKey,
		apiURL: defaultMistralURL,
		client: &http.Client{Timeout: 10 * time.Minute},
	}
}

// TranscriptSegment is a diarized span of the transcript.
type TranscriptSegment struct {
	Speaker string
	Text    string
}

// Transcript holds the transcription result.
type Transcript struct {
	Text     string
	Segments []TranscriptSegment
	Language string
}

// Transcribe uploads the audio bytes and returns the transcript.
func (m *Mistral) Transcribe(ctx context.Context, audio []byte, filename string) (*Transcript, error) {
	if m.apiKey == "" {
		return nil, fmt.Errorf("mistral API key not set: run 'aihomee config set-key mistral <key>' or set AIHOMEE_MISTRAL_API_KEY")
	}

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	if err := writer.WriteField("model", "voxtral-mini-latest"); err != nil {
		return nil, err
	}
	if err := writer.WriteField("diarize", "true"); err != nil {
		return nil, err
	}

	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return nil, err
	}
	if _, err := part.Write(audio); err != nil {
		return nil, err
	}
	if err := writer.Close(); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.apiURL, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+m.apiKey)

	resp, err := m.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling Mistral API: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("mistral API error (HTTP %d): %s", resp.StatusCode, string(respBody))
	}

	var apiResp transcriptionAPIResponse
	if err := json.Unmarshal(respBody, &apiResp); err != nil {
		return nil, fmt.Errorf("parsing Mistral response: %w", err)
	}

	result := &Transcript{
		Text:     apiResp.Text,
		Language: apiResp.Language,
	}
	for _, seg := range apiResp.Segments {
		result.Segments = append(result.Segments, TranscriptSegment{
			Speaker: seg.Speaker,
			Text:    seg.Text,
		})
	}
	return result, nil
}

// Rendered returns the transcript as readable text, grouped by speaker when
// diarization is available.
func (t *Transcript) Rendered() string {
	if len(t.Segments) == 0 {
		return strings.TrimSpace(t.Text)
	}

	var sb strings.Builder
	currentSpeaker := ""
	for _, seg := range t.Segments {
		if seg.Speaker != currentSpeaker {
			currentSpeaker = seg.Speaker
			speaker := currentSpeaker
			if speaker == "" {
				speaker = "Unknown"
			}
			if sb.Len() > 0 {
				sb.WriteString("\n")
			}
			sb.WriteString(fmt.Sprintf("%s: ", speaker))
		}
		sb.WriteString(seg.Text + " ")
	}
	return strings.TrimSpace(sb.String())
}

// transcriptionAPIResponse matches the Mistral transcription API response.
type transcriptionAPIResponse struct {
	Text     string `json:"text"`
	Language string `json:"language"`
	Segments []struct {
		Speaker string `json:"speaker"`
		Text    string `json:"text"`
	} `json:"segments"`
}
