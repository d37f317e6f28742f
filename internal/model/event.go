package model

import (
	"fmt"

	"github.com/sprite-ai/refmark/internal/marking"
)

// Event is the canonical record of one detected, possibly merged, refactoring.
type Event struct {
	Kind  Kind   `json:"type" yaml:"type"`
	Group Group  `json:"group" yaml:"group"`
	Name  string `json:"name,omitempty" yaml:"name,omitempty"` // display title, e.g. "Rename Attribute"
	Text  string `json:"text,omitempty" yaml:"text,omitempty"` // engine description

	NameBefore    string  `json:"nameBefore,omitempty" yaml:"nameBefore,omitempty"`
	NameAfter     string  `json:"nameAfter,omitempty" yaml:"nameAfter,omitempty"`
	DetailsBefore string  `json:"detailsBefore,omitempty" yaml:"detailsBefore,omitempty"`
	DetailsAfter  string  `json:"detailsAfter,omitempty" yaml:"detailsAfter,omitempty"`
	ElementBefore *string `json:"elementBefore,omitempty" yaml:"elementBefore,omitempty"`
	ElementAfter  *string `json:"elementAfter,omitempty" yaml:"elementAfter,omitempty"`
	PathBefore    string  `json:"beforePath,omitempty" yaml:"beforePath,omitempty"`
	PathAfter     string  `json:"afterPath,omitempty" yaml:"afterPath,omitempty"`

	Markings      marking.Sequence `json:"lineMarkings" yaml:"lineMarkings"`
	CorrelationID string           `json:"groupId,omitempty" yaml:"groupId,omitempty"`
	Hidden        bool             `json:"hidden,omitempty" yaml:"hidden,omitempty"`
	Sidedness     Sidedness        `json:"sidedness" yaml:"sidedness"`

	// Defects lists fields the extractor could not populate.
	Defects []string `json:"defects,omitempty" yaml:"defects,omitempty"`

	entry *Entry
}

// Element returns a pointer to s, or nil when s is empty. Absent elements
// are never stored as "".
func Element(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// Entry returns the commit entry owning the event, nil before it is built.
func (e *Event) Entry() *Entry {
	return e.entry
}

// CommitID returns the owning entry's commit id, or "".
func (e *Event) CommitID() string {
	if e.entry == nil {
		return ""
	}
	return e.entry.CommitID
}

// Timestamp returns the owning entry's commit time, or 0.
func (e *Event) Timestamp() int64 {
	if e.entry == nil {
		return 0
	}
	return e.entry.Time
}

// Incomplete reports whether extraction left required fields unpopulated.
func (e *Event) Incomplete() bool {
	return len(e.Defects) > 0
}

// Defect records a field the extractor could not populate.
func (e *Event) Defect(format string, args ...any) *Event {
	e.Defects = append(e.Defects, fmt.Sprintf(format, args...))
	return e
}

// AddMarking builds a marking from one-based spans and adds it to the
// event's sequence; see marking.Sequence.Add for isAddition. The paths of the
// non-nil spans become the event's paths. Range defects are recorded, never
// returned.
func (e *Event) AddMarking(before, after, intermediate *marking.Span, isAddition bool, opts ...marking.Option) *Event {
	m, err := marking.New(before, after, intermediate, opts...)
	if err != nil {
		e.Defect("marking %d: %v", len(e.Markings), err)
	}
	e.Markings.Add(m, isAddition)
	if before != nil && before.Path != "" {
		e.PathBefore = before.Path
	}
	if after != nil && after.Path != "" {
		e.PathAfter = after.Path
	}
	return e
}
