package chat

import "sync"

// Store keeps one ordered transcript per agent id. Switching the active
// agent switches the visible transcript; histories for inactive agents stay
// in the store untouched.
type Store struct {
	mu       sync.Mutex
	byAgent  map[string][]Message
	onChange func()
}

func NewStore() *Store {
	return &Store{byAgent: make(map[string][]Message)}
}

// OnChange registers a hook invoked after every mutation, outside the lock.
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

// Append adds a message to the agent's transcript.
func (s *Store) Append(agentID string, msg Message) {
	s.mu.Lock()
	s.byAgent[agentID] = append(s.byAgent[agentID], msg)
	s.mu.Unlock()
	s.notify()
}

// History returns a copy of the agent's transcript in order.
func (s *Store) History(agentID string) []Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	msgs := s.byAgent[agentID]
	out := make([]Message, len(msgs))
	copy(out, msgs)
	return out
}

// Clear drops the agent's transcript.
func (s *Store) Clear(agentID string) {
	s.mu.Lock()
	delete(s.byAgent, agentID)
	s.mu.Unlock()
	s.notify()
}

// Snapshot returns a copy of all transcripts keyed by agent id.
func (s *Store) Snapshot() map[string][]Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string][]Message, len(s.byAgent))
	for id, msgs := range s.byAgent {
		cp := make([]Message, len(msgs))
		copy(cp, msgs)
		out[id] = cp
	}
	return out
}

// ReplaceAll swaps in a whole new set of transcripts (restore path).
func (s *Store) ReplaceAll(histories map[string][]Message) {
	s.mu.Lock()
	s.byAgent = make(map[string][]Message, len(histories))
	for id, msgs := range histories {
		cp := make([]Message, len(msgs))
		copy(cp, msgs)
		s.byAgent[id] = cp
	}
	s.mu.Unlock()
	s.notify()
}
