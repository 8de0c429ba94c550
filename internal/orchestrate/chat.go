package orchestrate

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/frankfika/AIHomee/internal/ai"
	"github.com/frankfika/AIHomee/internal/domain/chat"
	"github.com/frankfika/AIHomee/internal/domain/settings"
)

// FallbackReply is appended to the transcript when the AI call fails. The
// transcript always ends in a response, never in a missing turn.
const FallbackReply = "Sorry, I couldn't get a response. Check your API key and connection, then try again."

// UnsupportedReply explains that an agent points at a provider this tool has
// no backend for. The check happens before any network call.
func UnsupportedReply(provider settings.Provider, modelID string) string {
	return fmt.Sprintf("The %s provider (model %s) isn't available yet. Only Anthropic models can chat right now; edit this agent to switch.", provider, modelID)
}

// Chat drives the per-agent conversation flow.
type Chat struct {
	store   *chat.Store
	chatter ai.Chatter

	mu       sync.Mutex
	inflight map[string]struct{}
}

func NewChat(store *chat.Store, chatter ai.Chatter) *Chat {
	return &Chat{
		store:    store,
		chatter:  chatter,
		inflight: make(map[string]struct{}),
	}
}

// SendMessage appends the user's message to the agent's transcript, invokes
// the AI collaborator, and appends the reply. AI failures are converted into
// a fallback transcript entry rather than returned; the only error this
// method reports is ErrBusy when a call for the same agent is in flight.
//
// The returned message is the model-role entry that ended the turn.
func (o *Chat) SendMessage(ctx context.Context, agent settings.Agent, text string) (chat.Message, error) {
	o.mu.Lock()
	if _, busy := o.inflight[agent.ID]; busy {
		o.mu.Unlock()
		return chat.Message{}, ErrBusy
	}
	o.inflight[agent.ID] = struct{}{}
	o.mu.Unlock()
	defer func() {
		o.mu.Lock()
		delete(o.inflight, agent.ID)
		o.mu.Unlock()
	}()

	history := o.store.History(agent.ID)

	o.store.Append(agent.ID, newMessage(chat.RoleUser, text))

	// Deliberate capability gap: agents on other providers get an
	// explanatory placeholder without any network call.
	if !agent.Provider.Supported() {
		reply := newMessage(chat.RoleModel, UnsupportedReply(agent.Provider, agent.ModelID))
		o.store.Append(agent.ID, reply)
		return reply, nil
	}

	turns := make([]ai.Turn, len(history))
	for i, m := range history {
		turns[i] = ai.Turn{Role: string(m.Role), Content: m.Content}
	}

	replyText, err := o.chatter.Chat(ctx, ai.ChatRequest{
		ModelID: agent.ModelID,
		System:  agent.SystemInstruction,
		History: turns,
		Text:    text,
	})
	if err != nil {
		reply := newMessage(chat.RoleModel, FallbackReply)
		o.store.Append(agent.ID, reply)
		return reply, nil
	}

	reply := newMessage(chat.RoleModel, replyText)
	o.store.Append(agent.ID, reply)
	return reply, nil
}

func newMessage(role chat.Role, content string) chat.Message {
	return chat.Message{
		ID:        uuid.NewString(),
		Role:      role,
		Content:   content,
		Timestamp: time.Now().UTC(),
	}
}
