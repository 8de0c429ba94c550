// Package persist mirrors the in-memory stores to durable local storage.
// Each store gets one slot; the slot is rewritten after every mutation and
// read back once at startup, before anything else touches the stores.
package persist

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/frankfika/AIHomee/internal/domain/chat"
	"github.com/frankfika/AIHomee/internal/domain/meeting"
	"github.com/frankfika/AIHomee/internal/domain/settings"
	"github.com/frankfika/AIHomee/internal/storage"
)

// Slot names, one per store.
const (
	SlotMeetings = "meetings"
	SlotSettings = "settings"
	SlotChats    = "chats"
)

// Adapter binds the three stores to their storage slots.
type Adapter struct {
	db       *storage.DB
	meetings *meeting.Store
	chats    *chat.Store
	settings *settings.Store
}

func New(db *storage.DB, meetings *meeting.Store, chats *chat.Store, st *settings.Store) *Adapter {
	return &Adapter{db: db, meetings: meetings, chats: chats, settings: st}
}

// Load hydrates all three stores from their slots. A missing slot leaves the
// store at its initial state; it is not an error. Records loaded here carry
// no audio payload, so playback is unavailable for them by design.
func (a *Adapter) Load() error {
	if doc, ok, err := a.db.Get(SlotMeetings); err != nil {
		return err
	} else if ok {
		var records []meeting.Record
		if err := json.Unmarshal(doc, &records); err != nil {
			return fmt.Errorf("decoding meetings slot: %w", err)
		}
		a.meetings.ReplaceAll(records)
	}

	if doc, ok, err := a.db.Get(SlotChats); err != nil {
		return err
	} else if ok {
		var histories map[string][]chat.Message
		if err := json.Unmarshal(doc, &histories); err != nil {
			return fmt.Errorf("decoding chats slot: %w", err)
		}
		a.chats.ReplaceAll(histories)
	}

	if doc, ok, err := a.db.Get(SlotSettings); err != nil {
		return err
	} else if ok {
		var st settings.Settings
		if err := json.Unmarshal(doc, &st); err != nil {
			return fmt.Errorf("decoding settings slot: %w", err)
		}
		a.settings.Replace(st)
	}

	return nil
}

// Bind hooks the stores so every mutation is mirrored to storage as part of
// the same synchronous step. Write failures are logged, never surfaced to
// the mutating caller.
func (a *Adapter) Bind() {
	a.meetings.OnChange(func() { a.saveMeetings() })
	a.chats.OnChange(func() { a.saveChats() })
	a.settings.OnChange(func() { a.saveSettings() })
}

func (a *Adapter) saveMeetings() {
	doc, err := json.Marshal(meeting.PersistableAll(a.meetings.List()))
	if err != nil {
		slog.Error("serializing meetings", "error", err)
		return
	}
	if err := a.db.Put(SlotMeetings, doc); err != nil {
		slog.Error("persisting meetings", "error", err)
	}
}

func (a *Adapter) saveChats() {
	doc, err := json.Marshal(a.chats.Snapshot())
	if err != nil {
		slog.Error("serializing chat histories", "error", err)
		return
	}
	if err := a.db.Put(SlotChats, doc); err != nil {
		slog.Error("persisting chat histories", "error", err)
	}
}

func (a *Adapter) saveSettings() {
	doc, err := json.Marshal(a.settings.Snapshot())
	if err != nil {
		slog.Error("serializing settings", "error", err)
		return
	}
	if err := a.db.Put(SlotSettings, doc); err != nil {
		slog.Error("persisting settings", "error", err)
	}
}
