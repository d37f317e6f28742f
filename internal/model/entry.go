package model

// Entry holds the refactorings detected in a single commit. It exclusively
// owns its events.
type Entry struct {
	CommitID     string   `json:"commitId" yaml:"commitId"`
	Parents      []string `json:"parents" yaml:"parents"`
	Time         int64    `json:"time" yaml:"time"`
	Refactorings []*Event `json:"refactorings" yaml:"refactorings"`
}

// AttachEvents points every event's back-reference at e. Builders and
// decoders call it once, right after the entry is assembled.
func (e *Entry) AttachEvents() {
	for _, ev := range e.Refactorings {
		if ev != nil {
			ev.entry = e
		}
	}
}

// Visible returns the events that are not folded into another one, in order.
func (e *Entry) Visible() []*Event {
	var out []*Event
	for _, ev := range e.Refactorings {
		if ev != nil && !ev.Hidden {
			out = append(out, ev)
		}
	}
	return out
}

// Incomplete returns the events that carry extraction defects.
func (e *Entry) Incomplete() []*Event {
	var out []*Event
	for _, ev := range e.Refactorings {
		if ev != nil && ev.Incomplete() {
			out = append(out, ev)
		}
	}
	return out
}

// Lookup returns the visible events whose before or after name is name.
func (e *Entry) Lookup(name string) []*Event {
	var out []*Event
	for _, ev := range e.Visible() {
		if ev.NameBefore == name || ev.NameAfter == name {
			out = append(out, ev)
		}
	}
	return out
}
