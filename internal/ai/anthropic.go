package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	defaultAnthropicURL = "https://api.anthropic.com/v1/messages"
	anthropicVersion    = "2023-06-01"
	maxResponseTokens   = 4096
)

// Anthropic is a client for the Anthropic messages API. It backs chat,
// meeting summarization and report refinement.
type Anthropic struct {
	apiKey string
	apiURL string
	client *http.Client
}

func NewAnthropic(apiKey string) *Anthropic {
	return &Anthropic{
		apiKey: apiKey,
		apiURL: defaultAnthropicURL,
		client: &http.Client{Timeout: 5 * time.Minute},
	}
}

type anthropicRequest struct {
	Model     string             `json:"model"`
	MaxTokens int                `json:"max_tokens"`
	System    string             `json:"system,omitempty"`
	Messages  []anthropicMessage `json:"messages"`
}

type anthropicMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type anthropicResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
}

// complete sends one messages-API request and returns the concatenated text
// blocks of the reply.
func (a *Anthropic) complete(ctx context.Context, model, system string, messages []anthropicMessage) (string, error) {
	if a.apiKey == "" {
		return "", fmt.Errorf("anthropic API key not set: run 'aihomee config set-key anthropic <key>' or set AIHOMEE_ANTHROPIC_API_KEY")
	}
	if model == "" {
		model = "claude-haiku-4-5"
	}

	jsonBody, err := json.Marshal(anthropicRequest{
		Model:     model,
		MaxTokens: maxResponseTokens,
		System:    system,
		Messages:  messages,
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.apiURL, bytes.NewReader(jsonBody))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", a.apiKey)
	req.Header.Set("anthropic-version", anthropicVersion)

	resp, err := a.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("calling Anthropic API: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("anthropic API error (HTTP %d): %s", resp.StatusCode, string(respBody))
	}

	var apiResp anthropicResponse
	if err := json.Unmarshal(respBody, &apiResp); err != nil {
		return "", fmt.Errorf("parsing Anthropic response: %w", err)
	}

	var text string
	for _, block := range apiResp.Content {
		if block.Type == "text" {
			text += block.Text
		}
	}
	if text == "" {
		return "", fmt.Errorf("empty response from Anthropic API")
	}
	return text, nil
}

// Chat sends the persona, the running history and the new user text, and
// returns the model's reply.
func (a *Anthropic) Chat(ctx context.Context, req ChatRequest) (string, error) {
	messages := make([]anthropicMessage, 0, len(req.History)+1)
	for _, turn := range req.History {
		role := turn.Role
		if role == "model" {
			role = "assistant"
		}
		messages = append(messages, anthropicMessage{Role: role, Content: turn.Content})
	}
	messages = append(messages, anthropicMessage{Role: "user", Content: req.Text})

	return a.complete(ctx, req.ModelID, req.System, messages)
}

// Summary is the structured result the summarization prompt asks for.
type Summary struct {
	Title         string   `json:"title"`
	Report        string   `json:"report"`
	SuggestedTags []string `json:"suggestedTags"`
	Language      string   `json:"language"`
}

const summarySystemSuffix = `

Respond with a single JSON object and nothing else. The object must have
exactly these keys:
  "title": a short descriptive title for the meeting (max 8 words),
  "report": the full meeting report in markdown,
  "suggestedTags": an array of 3-6 short lowercase topic tags,
  "language": the name of the language the meeting was held in.`

// Summarize turns a transcript into a structured meeting summary using the
// given persona.
func (a *Anthropic) Summarize(ctx context.Context, modelID, persona, transcript, languageHint string) (*Summary, error) {
	prompt := "Here is the meeting transcript to process:\n\n" + transcript
	if languageHint != "" {
		prompt += "\n\nWrite the title and report in " + languageHint + "."
	}

	raw, err := a.complete(ctx, modelID, persona+summarySystemSuffix, []anthropicMessage{
		{Role: "user", Content: prompt},
	})
	if err != nil {
		return nil, err
	}

	var summary Summary
	if err := json.Unmarshal([]byte(stripCodeFence(raw)), &summary); err != nil {
		return nil, fmt.Errorf("parsing summary JSON: %w", err)
	}
	if summary.Title == "" || summary.Report == "" {
		return nil, fmt.Errorf("summary response is missing title or report")
	}
	return &summary, nil
}

// Refine rewrites an existing report per the user's instruction. The caller
// keeps the old report if this fails.
func (a *Anthropic) Refine(ctx context.Context, modelID, report, transcriptExcerpt, instruction string) (string, error) {
	system := "You revise meeting reports. Apply the user's instruction to the report, " +
		"using the transcript excerpt for factual grounding. Return only the revised report in markdown."

	prompt := fmt.Sprintf("Current report:\n\n%s\n\nTranscript excerpt:\n\n%s\n\nInstruction: %s",
		report, transcriptExcerpt, instruction)

	return a.complete(ctx, modelID, system, []anthropicMessage{
		{Role: "user", Content: prompt},
	})
}

// stripCodeFence removes a surrounding markdown code fence, which models
// sometimes add around JSON despite instructions.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
