package settings

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

type defaultsFile struct {
	Agents []Agent `yaml:"agents"`
}

// DefaultAgents returns the built-in agent personas.
func DefaultAgents() []Agent {
	var f defaultsFile
	if err := yaml.Unmarshal(defaultsYAML, &f); err != nil {
		// The file is embedded at build time; a parse failure is a bug.
		panic(fmt.Sprintf("parsing embedded default agents: %v", err))
	}
	return f.Agents
}

// Default returns the settings a fresh installation starts with.
func Default() Settings {
	agents := DefaultAgents()
	active := ""
	if len(agents) > 0 {
		active = agents[0].ID
	}
	return Settings{
		Agents: agents,
		WebTools: []WebTool{
			{ID: "calendar", Name: "Calendar", URL: "https://calendar.google.com", Icon: "📅"},
			{ID: "notes", Name: "Keep", URL: "https://keep.google.com", Icon: "🗒️"},
		},
		ActiveAgentID: active,
	}
}
