package app

import (
	"fmt"
	"os"

	"github.com/frankfika/AIHomee/config"
	"github.com/frankfika/AIHomee/internal/ai"
	"github.com/frankfika/AIHomee/internal/audio"
	"github.com/frankfika/AIHomee/internal/backup"
	"github.com/frankfika/AIHomee/internal/domain/chat"
	"github.com/frankfika/AIHomee/internal/domain/meeting"
	"github.com/frankfika/AIHomee/internal/domain/settings"
	"github.com/frankfika/AIHomee/internal/orchestrate"
	"github.com/frankfika/AIHomee/internal/output"
	"github.com/frankfika/AIHomee/internal/persist"
	"github.com/frankfika/AIHomee/internal/storage"
)

// App wires the stores, AI clients, and orchestrators together. One App is
// built per process; Close releases the database handle.
type App struct {
	Config *config.Config

	Meetings *meeting.Store
	Chats    *chat.Store
	Settings *settings.Store

	Recording *orchestrate.Recording
	Chat      *orchestrate.Chat
	Backup    *backup.Adapter

	Recorder *audio.Recorder
	Out      *output.Formatter

	db *storage.DB
}

func New(cfg *config.Config) (*App, error) {
	db, err := storage.Open(cfg.StateDBPath())
	if err != nil {
		return nil, err
	}

	meetings := meeting.NewStore()
	chats := chat.NewStore()
	st := settings.NewStore(settings.Default())

	adapter := persist.New(db, meetings, chats, st)
	if err := adapter.Load(); err != nil {
		db.Close()
		return nil, fmt.Errorf("loading state from %s: %w (delete the file to start over)", cfg.StateDBPath(), err)
	}
	adapter.Bind()

	// Keys saved via `config set-key` win over the config file and env.
	anthropicKey := st.Credential(settings.ProviderAnthropic)
	if anthropicKey == "" {
		anthropicKey = cfg.AnthropicKey
	}
	mistralKey := st.MistralCredential()
	if mistralKey == "" {
		mistralKey = cfg.MistralKey
	}

	transcriber := ai.NewMistral(mistralKey)
	generative := ai.NewAnthropic(anthropicKey)
	processor := ai.NewProcessor(transcriber, generative)

	out := output.NewFormatter(os.Stderr)

	return &App{
		Config:    cfg,
		Meetings:  meetings,
		Chats:     chats,
		Settings:  st,
		Recording: orchestrate.NewRecording(meetings, processor, generative, out),
		Chat:      orchestrate.NewChat(chats, generative),
		Backup:    backup.New(db, meetings, chats, st),
		Recorder:  audio.NewRecorder(cfg.CaptureFormat, cfg.CaptureDevice),
		Out:       out,
		db:        db,
	}, nil
}

func (a *App) Close() error {
	return a.db.Close()
}
