package extract

import (
	"strings"

	"github.com/sprite-ai/refmark/internal/model"
)

// scope names the event after the enclosing operations. Parameters are
// reported as method changes.
func scope(d Detection, ev *model.Event, v Variable) bool {
	before, okB := operation(d, ev, RoleBefore)
	after, okA := operation(d, ev, RoleAfter)
	if !okB || !okA {
		return false
	}
	ev.NameBefore = before.Signature()
	ev.NameAfter = after.Signature()
	if v.Parameter {
		ev.Group = model.GroupMethod
		ev.DetailsBefore = before.Class
		ev.DetailsAfter = after.Class
	} else {
		ev.Group = model.GroupVariable
	}
	return true
}

func variableChange(d Detection, ev *model.Event) *model.Event {
	before, okB := variable(d, ev, RoleBefore)
	after, okA := variable(d, ev, RoleAfter)
	if !okB || !okA || !scope(d, ev, before) {
		return ev
	}
	ev.ElementBefore = model.Element(before.Declaration())
	ev.ElementAfter = model.Element(after.Declaration())
	mark(ev, before.Range, after.Range, nil, true)
	return ev
}

func extractVariable(d Detection, ev *model.Event) *model.Event {
	v, ok := variable(d, ev, RoleExtracted)
	if !ok || !scope(d, ev, v) {
		return ev
	}
	ev.ElementBefore = model.Element(v.Declaration())

	from := d.firstRange(RangeExtractedFrom)
	if from == nil {
		ev.Defect("missing %s range", RangeExtractedFrom)
	}
	mark(ev, from, v.Range, nil, true)
	return ev
}

func inlineVariable(d Detection, ev *model.Event) *model.Event {
	v, ok := variable(d, ev, RoleInlined)
	if !ok || !scope(d, ev, v) {
		return ev
	}
	ev.ElementBefore = model.Element(v.Declaration())

	to := d.firstRange(RangeInlinedTo)
	if to == nil {
		ev.Defect("missing %s range", RangeInlinedTo)
	}
	mark(ev, v.Range, to, nil, true)
	return ev
}

func splitVariable(d Detection, ev *model.Event) *model.Event {
	old, ok := variable(d, ev, RoleBefore)
	if !ok || !scope(d, ev, old) {
		return ev
	}
	if len(d.SplitVariables) == 0 {
		return ev.Defect("no split variables")
	}
	ev.ElementBefore = model.Element(old.Declaration())
	ev.ElementAfter = model.Element(joinNames(d.SplitVariables))
	if len(d.SplitVariables) > 1 {
		ev.Sidedness = model.MultiSided
	}
	for _, v := range d.SplitVariables {
		mark(ev, old.Range, v.Range, nil, true)
	}
	return ev
}

func mergeVariable(d Detection, ev *model.Event) *model.Event {
	merged, ok := variable(d, ev, RoleAfter)
	if !ok || !scope(d, ev, merged) {
		return ev
	}
	if len(d.MergedVariables) == 0 {
		return ev.Defect("no merged variables")
	}
	ev.ElementBefore = model.Element(joinNames(d.MergedVariables))
	ev.ElementAfter = model.Element(merged.Declaration())
	if len(d.MergedVariables) > 1 {
		ev.Sidedness = model.MultiSided
	}
	for _, v := range d.MergedVariables {
		mark(ev, v.Range, merged.Range, nil, true)
	}
	return ev
}

func joinNames(vs []Variable) string {
	names := make([]string, 0, len(vs))
	for _, v := range vs {
		names = append(names, v.Name)
	}
	return strings.Join(names, ", ")
}
