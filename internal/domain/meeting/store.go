package meeting

import (
	"errors"
	"sync"
)

// ErrNotFound is returned by keyed store operations when no record matches.
var ErrNotFound = errors.New("meeting record not found")

// Store owns the collection of meeting records and the current selection.
// All mutations are synchronous and atomic with respect to each other; after
// each one the change hook fires so the persistence adapter can mirror the
// new state.
type Store struct {
	mu       sync.Mutex
	records  []Record
	selected string
	onChange func()
}

func NewStore() *Store {
	return &Store{}
}

// OnChange registers a hook invoked after every mutation. The hook runs
// synchronously on the mutating call, outside the store lock.
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

// Insert adds a record at the front of the collection (newest first).
func (s *Store) Insert(r Record) {
	s.mu.Lock()
	s.records = append([]Record{r}, s.records...)
	s.mu.Unlock()
	s.notify()
}

// cloneRecord detaches the tag slices so a returned copy cannot observe
// later in-place mutations of the store's backing arrays.
func cloneRecord(r Record) Record {
	r.Tags = append([]string(nil), r.Tags...)
	r.SuggestedTags = append([]string(nil), r.SuggestedTags...)
	return r
}

// Get returns a copy of the record with the given id.
func (s *Store) Get(id string) (Record, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.records {
		if r.ID == id {
			return cloneRecord(r), true
		}
	}
	return Record{}, false
}

// List returns copies of all records, newest first.
func (s *Store) List() []Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Record, len(s.records))
	for i, r := range s.records {
		out[i] = cloneRecord(r)
	}
	return out
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.records)
}

// ApplyResult applies all five fields of a successful processing result in a
// single step and moves the record to StatusCompleted. A late-arriving result
// for a record that no longer exists is dropped; the return value reports
// whether the record was found.
func (s *Store) ApplyResult(id string, res Result) bool {
	s.mu.Lock()
	found := false
	for i := range s.records {
		if s.records[i].ID == id {
			s.records[i].Title = res.Title
			s.records[i].Transcription = res.Transcription
			s.records[i].Report = res.Report
			s.records[i].SuggestedTags = res.SuggestedTags
			s.records[i].Language = res.Language
			s.records[i].Status = StatusCompleted
			found = true
			break
		}
	}
	s.mu.Unlock()
	if found {
		s.notify()
	}
	return found
}

// MarkError moves the record to StatusError with the fixed failure title.
// Transcription and report keep their pre-attempt values. Returns false if
// the record has been deleted in the meantime.
func (s *Store) MarkError(id string) bool {
	s.mu.Lock()
	found := false
	for i := range s.records {
		if s.records[i].ID == id {
			s.records[i].Status = StatusError
			s.records[i].Title = ErrorTitle
			found = true
			break
		}
	}
	s.mu.Unlock()
	if found {
		s.notify()
	}
	return found
}

// UpdateTitle sets a record's title.
func (s *Store) UpdateTitle(id, title string) error {
	return s.update(id, func(r *Record) {
		r.Title = title
	})
}

// UpdateReport replaces a record's report text.
func (s *Store) UpdateReport(id, report string) error {
	return s.update(id, func(r *Record) {
		r.Report = report
	})
}

// UpdateTags replaces a record's tag set.
func (s *Store) UpdateTags(id string, tags []string) error {
	return s.update(id, func(r *Record) {
		r.Tags = append([]string(nil), tags...)
	})
}

// AcceptSuggestedTag moves tag from the suggested set into the accepted set.
// Accepting a tag that is not currently suggested is a no-op, so a tag can
// never be accepted twice.
func (s *Store) AcceptSuggestedTag(id, tag string) error {
	return s.update(id, func(r *Record) {
		idx := -1
		for i, t := range r.SuggestedTags {
			if t == tag {
				idx = i
				break
			}
		}
		if idx < 0 {
			return
		}
		r.SuggestedTags = append(r.SuggestedTags[:idx], r.SuggestedTags[idx+1:]...)
		for _, t := range r.Tags {
			if t == tag {
				return
			}
		}
		r.Tags = append(r.Tags, tag)
	})
}

func (s *Store) update(id string, fn func(*Record)) error {
	s.mu.Lock()
	found := false
	for i := range s.records {
		if s.records[i].ID == id {
			fn(&s.records[i])
			found = true
			break
		}
	}
	s.mu.Unlock()
	if !found {
		return ErrNotFound
	}
	s.notify()
	return nil
}

// Delete removes the record. If it was the current selection, the selection
// is cleared so it never dangles.
func (s *Store) Delete(id string) error {
	s.mu.Lock()
	idx := -1
	for i := range s.records {
		if s.records[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		s.mu.Unlock()
		return ErrNotFound
	}
	s.records = append(s.records[:idx], s.records[idx+1:]...)
	if s.selected == id {
		s.selected = ""
	}
	s.mu.Unlock()
	s.notify()
	return nil
}

// Select marks the record as the currently viewed one.
func (s *Store) Select(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.records {
		if r.ID == id {
			s.selected = id
			return nil
		}
	}
	return ErrNotFound
}

// Selected returns the id of the currently selected record, or "" if none.
func (s *Store) Selected() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selected
}

// ReplaceAll swaps in a whole new collection (restore path). The selection is
// kept only if the selected record survives the replacement.
func (s *Store) ReplaceAll(records []Record) {
	s.mu.Lock()
	s.records = make([]Record, len(records))
	copy(s.records, records)
	if s.selected != "" {
		keep := false
		for _, r := range s.records {
			if r.ID == s.selected {
				keep = true
				break
			}
		}
		if !keep {
			s.selected = ""
		}
	}
	s.mu.Unlock()
	s.notify()
}
