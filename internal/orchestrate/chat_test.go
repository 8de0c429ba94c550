package orchestrate

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/frankfika/AIHomee/internal/ai"
	"github.com/frankfika/AIHomee/internal/domain/chat"
	"github.com/frankfika/AIHomee/internal/domain/settings"
)

type fakeChatter struct {
	reply   string
	err     error
	release chan struct{}
	started chan struct{}

	calls []ai.ChatRequest
}

func (f *fakeChatter) Chat(ctx context.Context, req ai.ChatRequest) (string, error) {
	f.calls = append(f.calls, req)
	if f.started != nil {
		close(f.started)
	}
	if f.release != nil {
		<-f.release
	}
	return f.reply, f.err
}

func anthropicAgent() settings.Agent {
	return settings.Agent{
		ID:                "homee",
		Name:              "Homee",
		SystemInstruction: "You are Homee.",
		Provider:          settings.ProviderAnthropic,
		ModelID:           "claude-haiku-4-5",
	}
}

func openAIAgent() settings.Agent {
	return settings.Agent{
		ID:       "gpt",
		Name:     "GPT",
		Provider: settings.ProviderOpenAI,
		ModelID:  "gpt-4o",
	}
}

func TestSendMessageSuccess(t *testing.T) {
	store := chat.NewStore()
	chatter := &fakeChatter{reply: "hi there"}
	o := NewChat(store, chatter)
	agent := anthropicAgent()

	store.Append(agent.ID, chat.Message{ID: "old1", Role: chat.RoleUser, Content: "earlier", Timestamp: time.Now()})
	store.Append(agent.ID, chat.Message{ID: "old2", Role: chat.RoleModel, Content: "earlier reply", Timestamp: time.Now()})

	reply, err := o.SendMessage(context.Background(), agent, "hello")
	require.NoError(t, err)
	assert.Equal(t, chat.RoleModel, reply.Role)
	assert.Equal(t, "hi there", reply.Content)

	history := store.History(agent.ID)
	require.Len(t, history, 4)
	assert.Equal(t, "hello", history[2].Content)
	assert.Equal(t, chat.RoleUser, history[2].Role)
	assert.Equal(t, "hi there", history[3].Content)

	// The collaborator gets the persona, the prior history and the new text.
	require.Len(t, chatter.calls, 1)
	call := chatter.calls[0]
	assert.Equal(t, "You are Homee.", call.System)
	assert.Equal(t, "claude-haiku-4-5", call.ModelID)
	require.Len(t, call.History, 2, "the new text is passed separately, not in the history")
	assert.Equal(t, "earlier", call.History[0].Content)
	assert.Equal(t, "hello", call.Text)
}

func TestSendMessageFailureAppendsFallback(t *testing.T) {
	store := chat.NewStore()
	o := NewChat(store, &fakeChatter{err: errors.New("network down")})
	agent := anthropicAgent()

	reply, err := o.SendMessage(context.Background(), agent, "hello")
	require.NoError(t, err, "AI failures never propagate to the caller")
	assert.Equal(t, FallbackReply, reply.Content)

	history := store.History(agent.ID)
	require.Len(t, history, 2)
	assert.Equal(t, chat.RoleUser, history[0].Role)
	assert.Equal(t, chat.RoleModel, history[1].Role)
	assert.Equal(t, FallbackReply, history[1].Content)
}

func TestSendMessageUnsupportedProvider(t *testing.T) {
	store := chat.NewStore()
	chatter := &fakeChatter{reply: "should never be used"}
	o := NewChat(store, chatter)
	agent := openAIAgent()

	reply, err := o.SendMessage(context.Background(), agent, "hello")
	require.NoError(t, err)

	assert.Empty(t, chatter.calls, "no network call for an unsupported provider")

	history := store.History(agent.ID)
	require.Len(t, history, 2)
	assert.Equal(t, chat.RoleModel, reply.Role)
	assert.Contains(t, reply.Content, "openai")
	assert.Contains(t, reply.Content, "gpt-4o")
	assert.Equal(t, reply.Content, history[1].Content)
}

func TestSendMessageAdmissionPerAgent(t *testing.T) {
	store := chat.NewStore()
	chatter := &fakeChatter{
		reply:   "slow reply",
		release: make(chan struct{}),
		started: make(chan struct{}),
	}
	o := NewChat(store, chatter)
	agent := anthropicAgent()

	first := make(chan error, 1)
	go func() {
		_, err := o.SendMessage(context.Background(), agent, "first")
		first <- err
	}()
	<-chatter.started

	// Same agent: rejected while in flight.
	_, err := o.SendMessage(context.Background(), agent, "second")
	assert.ErrorIs(t, err, ErrBusy)

	// A different agent is independent; unsupported providers don't even
	// need the collaborator.
	_, err = o.SendMessage(context.Background(), openAIAgent(), "other")
	assert.NoError(t, err)

	close(chatter.release)
	require.NoError(t, <-first)
}
