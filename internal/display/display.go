// Package display renders the short human labels shown for refactoring
// events.
package display

import (
	"strings"

	"github.com/sprite-ai/refmark/internal/marking"
	"github.com/sprite-ai/refmark/internal/model"
)

// Arrow separates the before and after names.
const Arrow = " -> "

// Name returns the display label of ev using Arrow.
func Name(ev *model.Event) string {
	return NameWith(ev, Arrow)
}

// NameWith returns the display label of ev:
//
//   - PACKAGE keeps the fully qualified names.
//   - METHOD and VARIABLE keep the short name and the parameter list.
//   - ATTRIBUTE names are shown unmodified.
//   - every other group shows the last qualified segment.
//
// Equal sides collapse to a single name.
func NameWith(ev *model.Event, arrow string) string {
	before, after := ev.NameBefore, ev.NameAfter
	switch ev.Group {
	case model.GroupPackage, model.GroupAttribute:
	case model.GroupMethod, model.GroupVariable:
		before, after = shortSignature(before), shortSignature(after)
	default:
		before, after = lastSegment(before), lastSegment(after)
	}
	if before == after {
		return before
	}
	return before + arrow + after
}

// shortSignature turns "p.A.run(java.util.List)" into "run(java.util.List)".
// Names without a parameter list fall back to their last segment.
func shortSignature(sig string) string {
	i := strings.LastIndex(sig, "(")
	if i < 0 {
		return lastSegment(sig)
	}
	return lastSegment(sig[:i]) + sig[i:]
}

func lastSegment(name string) string {
	if i := strings.LastIndex(name, "."); i >= 0 {
		return name[i+1:]
	}
	return name
}

// Leaf returns the element detail line: "before -> after", the before element
// alone, or "" when there is none.
func Leaf(ev *model.Event) string {
	return LeafWith(ev, Arrow)
}

// LeafWith is Leaf with a custom arrow.
func LeafWith(ev *model.Event, arrow string) string {
	if ev.ElementBefore == nil {
		return ""
	}
	if ev.ElementAfter == nil {
		return *ev.ElementBefore
	}
	return *ev.ElementBefore + arrow + *ev.ElementAfter
}

// IndexOfDifference returns the offset of the first qualified segment in
// which a and b differ, i.e. the position just after the last "." they share
// before the first differing byte.
//
//	IndexOfDifference("a.b.C", "a.b.D") == 4
func IndexOfDifference(a, b string) int {
	n := min(len(a), len(b))
	last := 0
	for i := 0; i < n; i++ {
		if a[i] == '.' && b[i] == '.' {
			last = i + 1
		}
		if a[i] != b[i] {
			return last
		}
	}
	return last
}

// ClassNameFromPath returns the qualified class name implied by a source
// path: the first directory is dropped, the extension is stripped and the
// remaining separators become dots.
//
//	ClassNameFromPath("src/p/Foo.java") == "p.Foo"
func ClassNameFromPath(p string) string {
	p = strings.ReplaceAll(p, "\\", "/")
	start := strings.Index(p, "/") + 1
	end := strings.LastIndex(p, ".")
	if end < start {
		end = len(p)
	}
	return strings.ReplaceAll(p[start:end], "/", ".")
}

// Change returns the qualified rename of a class-like or package event with
// the shared package prefix factored out, "p.{A -> B}". It is "" for other
// groups and when the names are equal.
func Change(ev *model.Event, arrow string) string {
	switch ev.Group {
	case model.GroupClass, model.GroupAbstractClass, model.GroupInterface, model.GroupPackage:
	default:
		return ""
	}
	before, after := ev.NameBefore, ev.NameAfter
	if before == after {
		return ""
	}
	i := IndexOfDifference(before, after)
	if i == 0 {
		return before + arrow + after
	}
	return before[:i] + "{" + before[i:] + arrow + after[i:] + "}"
}

// Label is everything a renderer needs to draw one event.
type Label struct {
	Title     string                 `json:"title"`
	Name      string                 `json:"name"`
	Leaf      string                 `json:"leaf,omitempty"`
	Change    string                 `json:"change,omitempty"`
	Location  string                 `json:"location,omitempty"`
	Group     model.Group            `json:"group"`
	Sidedness model.Sidedness        `json:"sidedness"`
	Ranges    []marking.DisplayRange `json:"ranges"`
	Hidden    bool                   `json:"hidden,omitempty"`
}

// Bounder reports the file lengths ranges are clamped to; negative means
// unbounded. *diff.Patch is a Bounder.
type Bounder interface {
	Bounds(beforePath, afterPath string) (maxBefore, maxAfter int)
}

// Describe builds the labels of the visible events of e. Each event's ranges
// are clamped to the bounds of its own files; a nil b leaves them unbounded.
func Describe(e *model.Entry, arrow string, b Bounder) []Label {
	if e == nil {
		return nil
	}
	out := make([]Label, 0, len(e.Refactorings))
	for _, ev := range e.Visible() {
		maxBefore, maxAfter := -1, -1
		if b != nil {
			maxBefore, maxAfter = b.Bounds(ev.PathBefore, ev.PathAfter)
		}
		out = append(out, LabelFor(ev, arrow, maxBefore, maxAfter))
	}
	return out
}

// LabelFor builds the label of a single event. An empty arrow means Arrow.
func LabelFor(ev *model.Event, arrow string, maxBefore, maxAfter int) Label {
	if arrow == "" {
		arrow = Arrow
	}
	where := ev.PathAfter
	if where == "" {
		where = ev.PathBefore
	}
	l := Label{
		Title:     ev.Name,
		Name:      NameWith(ev, arrow),
		Leaf:      LeafWith(ev, arrow),
		Change:    Change(ev, arrow),
		Group:     ev.Group,
		Sidedness: ev.Sidedness,
		Ranges:    ev.Markings.Display(maxBefore, maxAfter),
		Hidden:    ev.Hidden,
	}
	if where != "" {
		l.Location = ClassNameFromPath(where)
	}
	return l
}
