package settings

// Provider names an AI backend an agent can be pointed at. Anthropic is the
// one backend this tool integrates; the others are recognized so the chat
// layer can explain the gap instead of failing.
type Provider string

const (
	ProviderAnthropic Provider = "anthropic"
	ProviderOpenAI    Provider = "openai"
	ProviderGoogle    Provider = "google"
)

// Supported reports whether a concrete backend exists for the provider.
func (p Provider) Supported() bool {
	return p == ProviderAnthropic
}

// Agent is a named persona: a system prompt paired with a provider and model.
type Agent struct {
	ID                string   `json:"id" yaml:"id"`
	Name              string   `json:"name" yaml:"name"`
	Description       string   `json:"description" yaml:"description"`
	Icon              string   `json:"icon" yaml:"icon"`
	SystemInstruction string   `json:"systemInstruction" yaml:"systemInstruction"`
	Provider          Provider `json:"provider" yaml:"provider"`
	ModelID           string   `json:"modelId" yaml:"modelId"`
	// IsDefault protects built-in agents from deletion.
	IsDefault bool `json:"isDefault" yaml:"isDefault"`
}

// WebTool is a bookmarked external tool rendered outside this process. The
// tool only owns this record, never the page behind the URL.
type WebTool struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	URL  string `json:"url"`
	Icon string `json:"icon"`
}

// Credentials holds the per-provider secret strings. Mistral is the
// transcription backend used by the recording pipeline.
type Credentials struct {
	Anthropic string `json:"anthropic,omitempty"`
	OpenAI    string `json:"openai,omitempty"`
	Google    string `json:"google,omitempty"`
	Mistral   string `json:"mistral,omitempty"`
}

// Settings is the single process-wide settings aggregate, persisted as one
// unit.
type Settings struct {
	Credentials   Credentials `json:"credentials"`
	Agents        []Agent     `json:"agents"`
	WebTools      []WebTool   `json:"webTools"`
	ActiveAgentID string      `json:"activeAgentId"`
}
