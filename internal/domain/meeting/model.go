package meeting

import "time"

// Status is the lifecycle state of a meeting record.
type Status string

const (
	StatusRecording  Status = "recording"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusError      Status = "error"
)

// PlaceholderTitle is assigned to a record while processing is in flight.
const PlaceholderTitle = "Processing..."

// ErrorTitle is the fixed title applied when processing fails.
const ErrorTitle = "Error Processing"

// Record represents one captured meeting and its derived artifacts.
type Record struct {
	ID              string    `json:"id"`
	Title           string    `json:"title"`
	CreatedAt       time.Time `json:"createdAt"`
	DurationSeconds float64   `json:"durationSeconds"`
	Status          Status    `json:"status"`
	Tags            []string  `json:"tags"`
	SuggestedTags   []string  `json:"suggestedTags,omitempty"`
	Transcription   string    `json:"transcription,omitempty"`
	Report          string    `json:"report,omitempty"`
	Language        string    `json:"language,omitempty"`

	// AudioPayload holds the raw recorded bytes. It exists only for the
	// lifetime of the process that captured them and never crosses the
	// persistence boundary.
	AudioPayload []byte `json:"-"`

	// PlayablePath is a transient handle to a playable copy of AudioPayload.
	// Records loaded from storage have none; an empty path means no playback
	// is available, not an error.
	PlayablePath string `json:"-"`
}

// Result holds the fields produced by a successful processing run. All five
// are applied to a record in a single step.
type Result struct {
	Title         string
	Transcription string
	Report        string
	SuggestedTags []string
	Language      string
}

// Persistable projects a record to the subset that may cross the persistence
// boundary. Every call site that serializes a record (durable storage, backup
// export) goes through this one function.
func Persistable(r Record) Record {
	r.AudioPayload = nil
	r.PlayablePath = ""
	return r
}

// PersistableAll applies Persistable to a slice of records.
func PersistableAll(records []Record) []Record {
	out := make([]Record, len(records))
	for i, r := range records {
		out[i] = Persistable(r)
	}
	return out
}
