// Package history tracks how methods evolve across commits. A Chain maps a
// method signature to the events that touched it, most recent first, and
// follows the method through renames of itself and of its enclosing class.
//
// Entries must be folded in chronological order. The chain does not sort or
// check its input; use SortEntries first when the order is not known.
package history

import (
	"sort"
	"strings"

	"github.com/sprite-ai/refmark/internal/model"
)

// Chain is the cross-commit history of method signatures. The zero value is
// not usable; call New.
type Chain struct {
	m map[string][]*model.Event
}

// New returns an empty chain.
func New() *Chain {
	return &Chain{m: make(map[string][]*model.Event)}
}

// FoldIn applies every visible event of e in order and returns the chain.
func (c *Chain) FoldIn(e *model.Entry) *Chain {
	if e == nil {
		return c
	}
	for _, ev := range e.Visible() {
		switch ev.Group {
		case model.GroupClass:
			if ev.NameBefore != "" && ev.NameAfter != "" {
				c.rekeyClass(ev.NameBefore, ev.NameAfter)
			}
		case model.GroupMethod:
			c.push(ev)
		}
	}
	return c
}

// FoldAll folds entries in the given order.
func (c *Chain) FoldAll(entries []*model.Entry) *Chain {
	for _, e := range entries {
		c.FoldIn(e)
	}
	return c
}

// push moves the list kept under the old signature to the new one and puts
// ev at its head.
func (c *Chain) push(ev *model.Event) {
	if ev.NameAfter == "" {
		return
	}
	list := c.m[ev.NameBefore]
	delete(c.m, ev.NameBefore)

	next := make([]*model.Event, 0, len(list)+1)
	next = append(next, ev)
	next = append(next, list...)
	c.m[ev.NameAfter] = next
}

// rekeyClass moves every signature owned by class before to class after.
// A key already present under the new name is overwritten.
func (c *Chain) rekeyClass(before, after string) {
	if before == after {
		return
	}
	type move struct{ from, to string }
	var moves []move
	for k := range c.m {
		if Scope(k) == before {
			moves = append(moves, move{k, after + k[len(before):]})
		}
	}
	// Apply in key order so collisions resolve the same way every run.
	sort.Slice(moves, func(i, j int) bool { return moves[i].from < moves[j].from })

	carried := make(map[string][]*model.Event, len(moves))
	for _, mv := range moves {
		carried[mv.to] = c.m[mv.from]
		delete(c.m, mv.from)
	}
	for _, mv := range moves {
		c.m[mv.to] = carried[mv.to]
	}
}

// Scope returns the owning scope of a signature: the part before the last
// "." that precedes the parameter list. "" means no scope.
//
//	Scope("a.B.run(java.util.List)") == "a.B"
func Scope(sig string) string {
	head := sig
	if i := strings.Index(head, "("); i >= 0 {
		head = head[:i]
	}
	i := strings.LastIndex(head, ".")
	if i < 0 {
		return ""
	}
	return sig[:i]
}

// Get returns the events recorded for sig, most recent first.
func (c *Chain) Get(sig string) []*model.Event {
	return c.m[sig]
}

// Keys returns the tracked signatures, sorted.
func (c *Chain) Keys() []string {
	keys := make([]string, 0, len(c.m))
	for k := range c.m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Len returns the number of tracked signatures.
func (c *Chain) Len() int {
	return len(c.m)
}

// Snapshot returns a copy of the chain's map. The event pointers are shared.
func (c *Chain) Snapshot() map[string][]*model.Event {
	out := make(map[string][]*model.Event, len(c.m))
	for k, v := range c.m {
		out[k] = append([]*model.Event(nil), v...)
	}
	return out
}

// SortEntries orders entries by commit time, oldest first, keeping the
// relative order of entries with equal times.
func SortEntries(entries []*model.Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Time < entries[j].Time
	})
}
