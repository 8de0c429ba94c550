// Package backup snapshots all three stores into one versioned document and
// restores them wholesale. The same blob-exclusion projection used by the
// persistence adapter applies here, so exported documents never carry audio.
package backup

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/santhosh-tekuri/jsonschema/v6"

	"github.com/frankfika/AIHomee/internal/domain/chat"
	"github.com/frankfika/AIHomee/internal/domain/meeting"
	"github.com/frankfika/AIHomee/internal/domain/settings"
	"github.com/frankfika/AIHomee/internal/storage"
)

// FormatVersion tags exported documents. Import rejects anything else.
const FormatVersion = 1

// ErrInvalidFormat reports a document that fails the shape check. Nothing is
// applied when it is returned.
var ErrInvalidFormat = errors.New("invalid backup document")

//go:embed schema.json
var schemaJSON string

var documentSchema *jsonschema.Schema

func init() {
	var schemaDoc any
	if err := json.Unmarshal([]byte(schemaJSON), &schemaDoc); err != nil {
		panic(fmt.Sprintf("parsing embedded backup schema: %v", err))
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("backup.schema.json", schemaDoc); err != nil {
		panic(fmt.Sprintf("adding backup schema resource: %v", err))
	}
	sch, err := compiler.Compile("backup.schema.json")
	if err != nil {
		panic(fmt.Sprintf("compiling backup schema: %v", err))
	}
	documentSchema = sch
}

// Document is the exportable snapshot of all three stores.
type Document struct {
	Version    int                       `json:"version"`
	ExportedAt time.Time                 `json:"exportedAt"`
	Settings   *settings.Settings        `json:"settings"`
	Meetings   []meeting.Record          `json:"meetings,omitempty"`
	Chats      map[string][]chat.Message `json:"chatHistories,omitempty"`
}

// Adapter snapshots and restores the three stores.
type Adapter struct {
	db       *storage.DB
	meetings *meeting.Store
	chats    *chat.Store
	settings *settings.Store
}

func New(db *storage.DB, meetings *meeting.Store, chats *chat.Store, st *settings.Store) *Adapter {
	return &Adapter{db: db, meetings: meetings, chats: chats, settings: st}
}

// Export serializes the current state of all three stores.
func (a *Adapter) Export() ([]byte, error) {
	st := a.settings.Snapshot()
	doc := Document{
		Version:    FormatVersion,
		ExportedAt: time.Now().UTC(),
		Settings:   &st,
		Meetings:   meeting.PersistableAll(a.meetings.List()),
		Chats:      a.chats.Snapshot(),
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("serializing backup: %w", err)
	}
	return data, nil
}

// ExportToFile writes the snapshot to path.
func (a *Adapter) ExportToFile(path string) error {
	data, err := a.Export()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("writing backup file: %w", err)
	}
	return nil
}

// DefaultFilename returns the date-stamped export name.
func DefaultFilename(t time.Time) string {
	return fmt.Sprintf("aihomee-backup-%s.json", t.Format("2006-01-02"))
}

// Import validates the document and, if valid, replaces the contents of all
// three stores. Validation happens up front; an invalid document mutates
// nothing. The caller is responsible for confirming the overwrite with the
// user beforehand.
func (a *Adapter) Import(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}
	if err := documentSchema.Validate(raw); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}
	if doc.Version != FormatVersion {
		return fmt.Errorf("%w: unsupported version %d", ErrInvalidFormat, doc.Version)
	}
	if doc.Settings == nil {
		return fmt.Errorf("%w: missing settings", ErrInvalidFormat)
	}

	// Whole-collection replacement, never a merge.
	a.settings.Replace(*doc.Settings)
	if doc.Meetings != nil {
		a.meetings.ReplaceAll(meeting.PersistableAll(doc.Meetings))
	}
	if doc.Chats != nil {
		a.chats.ReplaceAll(doc.Chats)
	}
	return nil
}

// Reset irreversibly clears all persisted state and reinitializes the stores
// from defaults. The caller confirms with the user first.
func (a *Adapter) Reset() error {
	if err := a.db.Clear(); err != nil {
		return err
	}
	a.meetings.ReplaceAll(nil)
	a.chats.ReplaceAll(nil)
	a.settings.Replace(settings.Default())
	return nil
}
