// Package marking models the before/after line-range pairings used to paint
// refactorings in a side-by-side diff.
package marking

import (
	"errors"
	"fmt"
)

// ErrInvertedSpan reports a span whose end line precedes its start line.
var ErrInvertedSpan = errors.New("span end precedes start")

// Span is a one-based, inclusive line span as reported by the mining engine.
type Span struct {
	Path  string
	Start int
	End   int
}

// Range is a zero-based, half-open line range. Start <= End always holds.
type Range struct {
	Path  string `json:"path,omitempty" yaml:"path,omitempty"`
	Start int    `json:"start" yaml:"start"`
	End   int    `json:"end" yaml:"end"`
}

// Len returns the number of lines covered by the range.
func (r Range) Len() int {
	return r.End - r.Start
}

// Contains reports whether the zero-based line lies inside the range.
func (r Range) Contains(line int) bool {
	return line >= r.Start && line < r.End
}

// Offset highlights a sub-range on one side of a marking. Start and End are
// absolute half-open bounds in the same coordinates as that side's Range.
type Offset struct {
	Side   Side   `json:"side" yaml:"side"`
	Start  int    `json:"start" yaml:"start"`
	End    int    `json:"end" yaml:"end"`
	Policy Policy `json:"policy" yaml:"policy"`
}

// Words are the label substitutions painted over collapsed or extracted blocks.
type Words struct {
	Before       string `json:"before,omitempty" yaml:"before,omitempty"`
	After        string `json:"after,omitempty" yaml:"after,omitempty"`
	Intermediate string `json:"intermediate,omitempty" yaml:"intermediate,omitempty"`
}

// Marking pairs a before range with an after range and, for three-sided
// refactorings, an intermediate range. Either of Before or After may be nil
// only for a pure addition or deletion.
type Marking struct {
	Before       *Range      `json:"before,omitempty" yaml:"before,omitempty"`
	After        *Range      `json:"after,omitempty" yaml:"after,omitempty"`
	Intermediate *Range      `json:"intermediate,omitempty" yaml:"intermediate,omitempty"`
	Offsets      []Offset    `json:"offsets,omitempty" yaml:"offsets,omitempty"`
	Policy       Policy      `json:"policy" yaml:"policy"`
	Orientation  Orientation `json:"orientation" yaml:"orientation"`
	Words        *Words      `json:"words,omitempty" yaml:"words,omitempty"`
}

// Option configures a marking under construction.
type Option func(*options)

type options struct {
	policy      Policy
	orientation Orientation
	words       *Words
	offsetFns   []func(*Marking)
}

// WithPolicy sets the visualization policy.
func WithPolicy(p Policy) Option {
	return func(o *options) { o.policy = p }
}

// WithOrientation sets which pane the intermediate range pairs with.
func WithOrientation(or Orientation) Option {
	return func(o *options) { o.orientation = or }
}

// WithWords sets the label substitutions for collapsed and extracted blocks.
func WithWords(before, after, intermediate string) Option {
	return func(o *options) {
		o.words = &Words{Before: before, After: after, Intermediate: intermediate}
	}
}

// WithOffsets registers fn to run on the constructed marking before it is
// returned. fn may append Offsets.
func WithOffsets(fn func(*Marking)) Option {
	return func(o *options) {
		if fn != nil {
			o.offsetFns = append(o.offsetFns, fn)
		}
	}
}

// New builds a marking from one-based inclusive spans. Each start line is
// decremented once; end lines pass through. An inverted span is normalised to
// an empty range and reported through the returned error; the marking is
// always usable.
func New(before, after, intermediate *Span, opts ...Option) (*Marking, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	var errs []error
	m := &Marking{
		Policy:      o.policy,
		Orientation: o.orientation,
		Words:       o.words,
	}
	m.Before = toRange(before, &errs)
	m.After = toRange(after, &errs)
	m.Intermediate = toRange(intermediate, &errs)

	for _, fn := range o.offsetFns {
		fn(m)
	}

	return m, errors.Join(errs...)
}

func toRange(s *Span, errs *[]error) *Range {
	if s == nil {
		return nil
	}
	r := &Range{Path: s.Path, Start: s.Start - 1, End: s.End}
	if r.Start < 0 {
		r.Start = 0
	}
	if r.End < r.Start {
		*errs = append(*errs, fmt.Errorf("%w: %s:%d-%d", ErrInvertedSpan, s.Path, s.Start, s.End))
		r.End = r.Start
	}
	return r
}

// Side returns the range for the given side, or nil.
func (m *Marking) Side(side Side) *Range {
	switch side {
	case SideBefore:
		return m.Before
	case SideAfter:
		return m.After
	case SideIntermediate:
		return m.Intermediate
	default:
		return nil
	}
}

// Highlight appends an Offset for a one-based inclusive span on side.
// It is meant to be called from a WithOffsets function.
func (m *Marking) Highlight(side Side, s Span, p Policy) {
	start := s.Start - 1
	if start < 0 {
		start = 0
	}
	end := s.End
	if end < start {
		end = start
	}
	m.Offsets = append(m.Offsets, Offset{Side: side, Start: start, End: end, Policy: p})
}

// DisplayRange is a clamped before/after line pair ready for a renderer.
type DisplayRange struct {
	StartBefore int `json:"start_before"`
	EndBefore   int `json:"end_before"`
	StartAfter  int `json:"start_after"`
	EndAfter    int `json:"end_after"`
}

// Display clamps the stored ranges to the given maxima. A negative maximum
// means unbounded. A nil side renders as the empty range [0,0). The marking is
// not modified.
func (m *Marking) Display(maxBefore, maxAfter int) DisplayRange {
	var d DisplayRange
	d.StartBefore, d.EndBefore = clamp(m.Before, maxBefore)
	d.StartAfter, d.EndAfter = clamp(m.After, maxAfter)
	return d
}

func clamp(r *Range, max int) (int, int) {
	if r == nil {
		return 0, 0
	}
	start, end := r.Start, r.End
	if max >= 0 {
		if start > max {
			start = max
		}
		if end > max {
			end = max
		}
	}
	if end < start {
		end = start
	}
	return start, end
}

// Sequence is an ordered list of markings; order is display order.
type Sequence []*Marking

// Add appends m when isAddition is set or the sequence is empty. Otherwise m
// is folded into the most recently added marking: each of its ranges becomes
// an Offset carrying m's policy, followed by m's own offsets.
func (s *Sequence) Add(m *Marking, isAddition bool) {
	if m == nil {
		return
	}
	if isAddition || len(*s) == 0 {
		*s = append(*s, m)
		return
	}

	last := (*s)[len(*s)-1]
	for _, side := range []Side{SideBefore, SideAfter, SideIntermediate} {
		r := m.Side(side)
		if r == nil {
			continue
		}
		last.Offsets = append(last.Offsets, Offset{Side: side, Start: r.Start, End: r.End, Policy: m.Policy})
	}
	last.Offsets = append(last.Offsets, m.Offsets...)
}

// Display clamps every marking in order.
func (s Sequence) Display(maxBefore, maxAfter int) []DisplayRange {
	out := make([]DisplayRange, 0, len(s))
	for _, m := range s {
		out = append(out, m.Display(maxBefore, maxAfter))
	}
	return out
}
