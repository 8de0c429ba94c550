package settings

import (
	"errors"
	"fmt"
	"sync"
)

var (
	ErrAgentNotFound = errors.New("agent not found")
	ErrToolNotFound  = errors.New("web tool not found")
)

// Store owns the settings aggregate. Like the other stores it fires a change
// hook after every mutation so the persistence adapter can mirror it.
type Store struct {
	mu       sync.Mutex
	settings Settings
	onChange func()
}

// NewStore creates a store seeded with the given settings.
func NewStore(initial Settings) *Store {
	return &Store{settings: initial}
}

func (s *Store) OnChange(fn func()) {
	s.mu.Lock()
	s.onChange = fn
	s.mu.Unlock()
}

func (s *Store) notify() {
	s.mu.Lock()
	fn := s.onChange
	s.mu.Unlock()
	if fn != nil {
		fn()
	}
}

// Snapshot returns a deep copy of the current settings.
func (s *Store) Snapshot() Settings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.copyLocked()
}

func (s *Store) copyLocked() Settings {
	cp := s.settings
	cp.Agents = append([]Agent(nil), s.settings.Agents...)
	cp.WebTools = append([]WebTool(nil), s.settings.WebTools...)
	return cp
}

// Replace swaps in a whole new settings aggregate (restore path). A dangling
// active agent id is cleared to the first available agent.
func (s *Store) Replace(next Settings) {
	s.mu.Lock()
	s.settings = next
	if _, ok := s.agentLocked(s.settings.ActiveAgentID); !ok {
		s.settings.ActiveAgentID = ""
		if len(s.settings.Agents) > 0 {
			s.settings.ActiveAgentID = s.settings.Agents[0].ID
		}
	}
	s.mu.Unlock()
	s.notify()
}

// Credential returns the stored secret for the provider.
func (s *Store) Credential(p Provider) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch p {
	case ProviderAnthropic:
		return s.settings.Credentials.Anthropic
	case ProviderOpenAI:
		return s.settings.Credentials.OpenAI
	case ProviderGoogle:
		return s.settings.Credentials.Google
	}
	return ""
}

// MistralCredential returns the transcription backend secret.
func (s *Store) MistralCredential() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.settings.Credentials.Mistral
}

// SetCredential stores the secret for a provider. The name "mistral" is
// accepted alongside the chat providers.
func (s *Store) SetCredential(name, secret string) error {
	s.mu.Lock()
	switch name {
	case string(ProviderAnthropic):
		s.settings.Credentials.Anthropic = secret
	case string(ProviderOpenAI):
		s.settings.Credentials.OpenAI = secret
	case string(ProviderGoogle):
		s.settings.Credentials.Google = secret
	case "mistral":
		s.settings.Credentials.Mistral = secret
	default:
		s.mu.Unlock()
		return fmt.Errorf("unknown provider %q", name)
	}
	s.mu.Unlock()
	s.notify()
	return nil
}

// Agents returns a copy of the agent collection.
func (s *Store) Agents() []Agent {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Agent(nil), s.settings.Agents...)
}

// Agent returns the agent with the given id.
func (s *Store) Agent(id string) (Agent, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.agentLocked(id)
}

func (s *Store) agentLocked(id string) (Agent, bool) {
	for _, a := range s.settings.Agents {
		if a.ID == id {
			return a, true
		}
	}
	return Agent{}, false
}

// ActiveAgent returns the currently active persona.
func (s *Store) ActiveAgent() (Agent, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.agentLocked(s.settings.ActiveAgentID)
}

// SetActiveAgent switches the active persona.
func (s *Store) SetActiveAgent(id string) error {
	s.mu.Lock()
	if _, ok := s.agentLocked(id); !ok {
		s.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrAgentNotFound, id)
	}
	s.settings.ActiveAgentID = id
	s.mu.Unlock()
	s.notify()
	return nil
}

// AddAgent inserts a new persona.
func (s *Store) AddAgent(a Agent) {
	s.mu.Lock()
	s.settings.Agents = append(s.settings.Agents, a)
	s.mu.Unlock()
	s.notify()
}

// UpdateAgent replaces the persona with the same id.
func (s *Store) UpdateAgent(a Agent) error {
	s.mu.Lock()
	for i := range s.settings.Agents {
		if s.settings.Agents[i].ID == a.ID {
			// The built-in flag is not editable.
			a.IsDefault = s.settings.Agents[i].IsDefault
			s.settings.Agents[i] = a
			s.mu.Unlock()
			s.notify()
			return nil
		}
	}
	s.mu.Unlock()
	return fmt.Errorf("%w: %s", ErrAgentNotFound, a.ID)
}

// RemoveAgent deletes a persona. Built-in agents cannot be removed. If the
// removed agent was active, the first remaining agent becomes active.
func (s *Store) RemoveAgent(id string) error {
	s.mu.Lock()
	idx := -1
	for i, a := range s.settings.Agents {
		if a.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		s.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrAgentNotFound, id)
	}
	if s.settings.Agents[idx].IsDefault {
		s.mu.Unlock()
		return fmt.Errorf("agent %q is built in and cannot be removed", id)
	}
	s.settings.Agents = append(s.settings.Agents[:idx], s.settings.Agents[idx+1:]...)
	if s.settings.ActiveAgentID == id {
		s.settings.ActiveAgentID = ""
		if len(s.settings.Agents) > 0 {
			s.settings.ActiveAgentID = s.settings.Agents[0].ID
		}
	}
	s.mu.Unlock()
	s.notify()
	return nil
}

// WebTools returns a copy of the web tool collection.
func (s *Store) WebTools() []WebTool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]WebTool(nil), s.settings.WebTools...)
}

// WebTool returns the tool with the given id.
func (s *Store) WebTool(id string) (WebTool, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range s.settings.WebTools {
		if t.ID == id {
			return t, true
		}
	}
	return WebTool{}, false
}

// AddWebTool inserts a tool record.
func (s *Store) AddWebTool(t WebTool) {
	s.mu.Lock()
	s.settings.WebTools = append(s.settings.WebTools, t)
	s.mu.Unlock()
	s.notify()
}

// RemoveWebTool deletes a tool record.
func (s *Store) RemoveWebTool(id string) error {
	s.mu.Lock()
	for i, t := range s.settings.WebTools {
		if t.ID == id {
			s.settings.WebTools = append(s.settings.WebTools[:i], s.settings.WebTools[i+1:]...)
			s.mu.Unlock()
			s.notify()
			return nil
		}
	}
	s.mu.Unlock()
	return fmt.Errorf("%w: %s", ErrToolNotFound, id)
}
