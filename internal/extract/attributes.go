package extract

import "github.com/sprite-ai/refmark/internal/model"

// attributeChange covers kinds where the declaration itself changes, so both
// elements are shown.
func attributeChange(d Detection, ev *model.Event) *model.Event {
	before, okB := attribute(d, ev, RoleBefore)
	after, okA := attribute(d, ev, RoleAfter)
	if !okB || !okA {
		return ev
	}
	attributeNames(ev, before, after)
	ev.ElementBefore = model.Element(before.Declaration())
	ev.ElementAfter = model.Element(after.Declaration())
	mark(ev, before.Range, after.Range, nil, true)
	return ev
}

// attributeMove covers kinds that relocate an unchanged declaration.
func attributeMove(d Detection, ev *model.Event) *model.Event {
	before, okB := attribute(d, ev, RoleBefore)
	after, okA := attribute(d, ev, RoleAfter)
	if !okB || !okA {
		return ev
	}
	attributeNames(ev, before, after)
	ev.ElementBefore = model.Element(before.Declaration())
	mark(ev, before.Range, after.Range, nil, true)
	return ev
}

func attributeNames(ev *model.Event, before, after Variable) {
	ev.Group = model.GroupAttribute
	ev.NameBefore = before.Class
	ev.NameAfter = after.Class
}
