package settings

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultSettings(t *testing.T) {
	def := Default()
	require.NotEmpty(t, def.Agents, "embedded defaults must provide agents")
	assert.Equal(t, def.Agents[0].ID, def.ActiveAgentID)
	for _, a := range def.Agents {
		assert.True(t, a.IsDefault, "built-in agent %s must be protected", a.ID)
		assert.Equal(t, ProviderAnthropic, a.Provider)
		assert.NotEmpty(t, a.SystemInstruction)
		assert.NotEmpty(t, a.ModelID)
	}
}

func TestRemoveAgent(t *testing.T) {
	s := NewStore(Default())
	s.AddAgent(Agent{ID: "custom", Name: "Custom", Provider: ProviderOpenAI, ModelID: "gpt-4o"})

	err := s.RemoveAgent(s.Agents()[0].ID)
	require.Error(t, err, "built-in agents are not deletable")

	require.NoError(t, s.RemoveAgent("custom"))
	_, ok := s.Agent("custom")
	assert.False(t, ok)

	assert.ErrorIs(t, s.RemoveAgent("custom"), ErrAgentNotFound)
}

func TestRemoveActiveAgentFallsBack(t *testing.T) {
	s := NewStore(Default())
	s.AddAgent(Agent{ID: "custom", Name: "Custom", Provider: ProviderAnthropic, ModelID: "claude-haiku-4-5"})
	require.NoError(t, s.SetActiveAgent("custom"))

	require.NoError(t, s.RemoveAgent("custom"))
	active, ok := s.ActiveAgent()
	require.True(t, ok)
	assert.Equal(t, s.Agents()[0].ID, active.ID)
}

func TestSetActiveAgentUnknown(t *testing.T) {
	s := NewStore(Default())
	assert.ErrorIs(t, s.SetActiveAgent("ghost"), ErrAgentNotFound)
}

func TestCredentials(t *testing.T) {
	s := NewStore(Settings{})
	require.NoError(t, s.SetCredential("anthropic", "sk-ant"))
	require.NoError(t, s.SetCredential("mistral", "sk-mst"))
	require.Error(t, s.SetCredential("clippy", "x"))

	assert.Equal(t, "sk-ant", s.Credential(ProviderAnthropic))
	assert.Equal(t, "sk-mst", s.MistralCredential())
	assert.Empty(t, s.Credential(ProviderOpenAI))
}

func TestUpdateAgentKeepsBuiltInFlag(t *testing.T) {
	s := NewStore(Default())
	builtin := s.Agents()[0]

	edited := builtin
	edited.Name = "Renamed"
	edited.IsDefault = false
	require.NoError(t, s.UpdateAgent(edited))

	got, ok := s.Agent(builtin.ID)
	require.True(t, ok)
	assert.Equal(t, "Renamed", got.Name)
	assert.True(t, got.IsDefault, "editing must not strip deletion protection")
}

func TestReplaceClearsDanglingActiveAgent(t *testing.T) {
	s := NewStore(Default())

	s.Replace(Settings{
		Agents:        []Agent{{ID: "only", Name: "Only", Provider: ProviderAnthropic}},
		ActiveAgentID: "ghost",
	})

	active, ok := s.ActiveAgent()
	require.True(t, ok)
	assert.Equal(t, "only", active.ID)
}

func TestWebTools(t *testing.T) {
	s := NewStore(Settings{})
	s.AddWebTool(WebTool{ID: "t1", Name: "Calendar", URL: "https://calendar.example.com", Icon: "📅"})

	tool, ok := s.WebTool("t1")
	require.True(t, ok)
	assert.Equal(t, "Calendar", tool.Name)

	require.NoError(t, s.RemoveWebTool("t1"))
	assert.ErrorIs(t, s.RemoveWebTool("t1"), ErrToolNotFound)
}

func TestChangeHookFires(t *testing.T) {
	s := NewStore(Default())
	var calls int
	s.OnChange(func() { calls++ })

	require.NoError(t, s.SetCredential("anthropic", "sk"))
	s.AddWebTool(WebTool{ID: "t1"})
	require.NoError(t, s.RemoveWebTool("t1"))

	assert.Equal(t, 3, calls)
}
