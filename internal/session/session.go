// Package session keeps parsed documents and their section selections in
// memory so a client can refine a selection across requests.
package session

import (
	"sync"
	"time"

	"github.com/dgallion1/seismic2word/internal/document"
	"github.com/dgallion1/seismic2word/internal/outline"
)

// Session is one parsed document and its current selection. The document
// never changes; every selection change swaps in a new sections slice.
type Session struct {
	mu sync.Mutex

	ID        string
	CreatedAt time.Time
	UpdatedAt time.Time

	doc      document.Document
	sections []outline.Section
}

func newSession(doc document.Document) *Session {
	now := time.Now()
	return &Session{
		ID:        newID(),
		CreatedAt: now,
		UpdatedAt: now,
		doc:       doc,
		sections:  outline.Derive(doc),
	}
}

// Toggle flips section id with outline.Toggle semantics and returns the
// new selection.
func (s *Session) Toggle(id int) []outline.Section {
	return s.update(func(cur []outline.Section) []outline.Section { return outline.Toggle(cur, id) })
}

// SelectAll selects every section.
func (s *Session) SelectAll() []outline.Section {
	return s.update(outline.SelectAll)
}

// DeselectAll deselects every section.
func (s *Session) DeselectAll() []outline.Section {
	return s.update(outline.DeselectAll)
}

func (s *Session) update(fn func([]outline.Section) []outline.Section) []outline.Section {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sections = fn(s.sections)
	s.UpdatedAt = time.Now()
	return s.sections
}

// HasSection reports whether id names one of the session's sections.
func (s *Session) HasSection(id int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, sec := range s.sections {
		if sec.ID == id {
			return true
		}
	}
	return false
}

// Filtered returns the document restricted to the current selection.
func (s *Session) Filtered() document.Document {
	s.mu.Lock()
	doc, sections := s.doc, s.sections
	s.mu.Unlock()
	return outline.Filter(doc, sections)
}

func (s *Session) lastUsed() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.UpdatedAt
}

// Snapshot is a read-only, JSON-safe view of a session.
type Snapshot struct {
	ID        string            `json:"session_id"`
	Summary   document.Summary  `json:"summary"`
	Selected  int               `json:"selected"`
	Document  document.Document `json:"document"`
	Sections  []outline.Section `json:"sections"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}

// Snapshot returns the session's current state.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{
		ID:        s.ID,
		Summary:   s.doc.Summarize(),
		Selected:  outline.CountSelected(s.sections),
		Document:  s.doc,
		Sections:  s.sections,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
}
