package extract

import (
	"sort"

	"github.com/sprite-ai/refmark/internal/marking"
	"github.com/sprite-ai/refmark/internal/model"
)

// Func populates ev from a detection of the kind it is registered for and
// returns it. Missing input is recorded with ev.Defect, never returned.
type Func func(d Detection, ev *model.Event) *model.Event

// Table maps every supported kind to its extraction function. It is built
// once and never modified afterwards.
type Table struct {
	funcs map[model.Kind]Func
}

// NewTable returns the table covering model.Kinds.
func NewTable() *Table {
	return &Table{funcs: map[model.Kind]Func{
		model.KindRenameMethod:            methodChange,
		model.KindMoveOperation:           methodChange,
		model.KindMoveAndRenameOperation:  methodChange,
		model.KindPullUpOperation:         methodChange,
		model.KindPushDownOperation:       methodChange,
		model.KindChangeReturnType:        methodChange,
		model.KindAddParameter:            methodChange,
		model.KindRemoveParameter:         methodChange,
		model.KindRenameParameter:         methodChange,
		model.KindChangeParameterType:     methodChange,
		model.KindInlineOperation:         inlineOperation,
		model.KindExtractOperation:        extractOperation,
		model.KindExtractAndMoveOperation: extractAndMoveOperation,
		model.KindAddMethodAnnotation:     addMethodAnnotation,
		model.KindRemoveMethodAnnotation:  removeMethodAnnotation,
		model.KindModifyMethodAnnotation:  modifyMethodAnnotation,

		model.KindRenameClass:       classChange,
		model.KindMoveClass:         classChange,
		model.KindMoveRenameClass:   classChange,
		model.KindExtractSuperclass: extractSuperclass,
		model.KindExtractInterface:  extractSuperclass,
		model.KindExtractClass:      extractClass,
		model.KindExtractSubclass:   extractClass,

		model.KindRenameAttribute:     attributeChange,
		model.KindChangeAttributeType: attributeChange,
		model.KindMoveRenameAttribute: attributeChange,
		model.KindMoveAttribute:       attributeMove,
		model.KindPullUpAttribute:     attributeMove,
		model.KindPushDownAttribute:   attributeMove,

		model.KindRenameVariable:     variableChange,
		model.KindChangeVariableType: variableChange,
		model.KindExtractVariable:    extractVariable,
		model.KindInlineVariable:     inlineVariable,
		model.KindSplitVariable:      splitVariable,
		model.KindMergeVariable:      mergeVariable,

		model.KindRenamePackage: packageChange,
		model.KindMovePackage:   packageChange,
	}}
}

// Lookup returns the function registered for k.
func (t *Table) Lookup(k model.Kind) (Func, bool) {
	fn, ok := t.funcs[k]
	return fn, ok
}

// Kinds returns the registered kinds, sorted.
func (t *Table) Kinds() []model.Kind {
	out := make([]model.Kind, 0, len(t.funcs))
	for k := range t.funcs {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Extract converts one detection. It always returns an event; an unknown
// kind or missing data shows up in Event.Defects.
func (t *Table) Extract(d Detection) *model.Event {
	ev := &model.Event{
		Kind:          model.Kind(d.Type),
		Text:          d.Description,
		CorrelationID: d.GroupID,
	}

	kind, err := model.ParseKind(d.Type)
	if err != nil {
		return ev.Defect("%v", err)
	}
	ev.Kind = kind
	ev.Name = kind.Title()

	fn, ok := t.Lookup(kind)
	if !ok {
		return ev.Defect("no extractor for %s", kind)
	}
	return fn(d, ev)
}

// ExtractAll converts detections in order.
func (t *Table) ExtractAll(ds []Detection) []*model.Event {
	out := make([]*model.Event, 0, len(ds))
	for _, d := range ds {
		out = append(out, t.Extract(d))
	}
	return out
}

// mark adds a marking between two code ranges, recording a defect when both
// are missing.
func mark(ev *model.Event, before, after, intermediate *CodeRange, isAddition bool, opts ...marking.Option) {
	if before == nil && after == nil {
		ev.Defect("marking %d: no code range on either side", len(ev.Markings))
		return
	}
	ev.AddMarking(before.Span(), after.Span(), intermediate.Span(), isAddition, opts...)
}

func operation(d Detection, ev *model.Event, role string) (Operation, bool) {
	op, ok := d.Operations[role]
	if !ok {
		ev.Defect("missing %s operation", role)
	}
	return op, ok
}

func class(d Detection, ev *model.Event, role string) (Class, bool) {
	c, ok := d.Classes[role]
	if !ok {
		ev.Defect("missing %s class", role)
	}
	return c, ok
}

func attribute(d Detection, ev *model.Event, role string) (Variable, bool) {
	v, ok := d.Attributes[role]
	if !ok {
		ev.Defect("missing %s attribute", role)
	}
	return v, ok
}

func variable(d Detection, ev *model.Event, role string) (Variable, bool) {
	v, ok := d.Variables[role]
	if !ok {
		ev.Defect("missing %s variable", role)
	}
	return v, ok
}

// classGroup picks the group from the declaration flags.
func classGroup(c Class) model.Group {
	switch {
	case c.Interface:
		return model.GroupInterface
	case c.Abstract:
		return model.GroupAbstractClass
	default:
		return model.GroupClass
	}
}
