package extract

import (
	"github.com/sprite-ai/refmark/internal/marking"
	"github.com/sprite-ai/refmark/internal/model"
)

// body returns the operation body range, falling back to the whole
// declaration.
func body(op Operation) *CodeRange {
	if op.Body != nil {
		return op.Body
	}
	return op.Range
}

func methodNames(ev *model.Event, before, after Operation) {
	ev.Group = model.GroupMethod
	ev.NameBefore = before.Signature()
	ev.NameAfter = after.Signature()
	ev.DetailsBefore = before.Class
	ev.DetailsAfter = after.Class
}

// methodChange covers the kinds that relate one operation to another with a
// single marking: renames, moves, pull-ups, push-downs and signature edits.
func methodChange(d Detection, ev *model.Event) *model.Event {
	before, okB := operation(d, ev, RoleBefore)
	after, okA := operation(d, ev, RoleAfter)
	if !okB || !okA {
		return ev
	}
	methodNames(ev, before, after)

	// Parameter kinds carry the parameter itself as the leaf detail.
	if v, ok := d.Variables[RoleBefore]; ok {
		ev.ElementBefore = model.Element(v.Declaration())
	}
	if v, ok := d.Variables[RoleAfter]; ok {
		ev.ElementAfter = model.Element(v.Declaration())
	}

	mark(ev, before.Range, after.Range, nil, true)
	return ev
}

func inlineOperation(d Detection, ev *model.Event) *model.Event {
	before, okB := operation(d, ev, RoleBefore)
	after, okA := operation(d, ev, RoleAfter)
	if !okB || !okA {
		return ev
	}
	methodNames(ev, before, after)
	if inlined, ok := operation(d, ev, RoleInlined); ok {
		ev.ElementBefore = model.Element(inlined.ShortSignature())
	}

	mark(ev, before.Range, after.Range, nil, true)
	for _, r := range d.Ranges[RangeInlinedToTarget] {
		mark(ev, nil, &r, nil, false, marking.WithPolicy(marking.PolicyAdd))
	}
	return ev
}

func extractOperation(d Detection, ev *model.Event) *model.Event {
	before, okB := operation(d, ev, RoleBefore)
	after, okA := operation(d, ev, RoleAfter)
	extracted, okE := operation(d, ev, RoleExtracted)
	if !okB || !okA || !okE {
		return ev
	}
	methodNames(ev, before, after)
	ev.ElementBefore = model.Element(extracted.ShortSignature())

	mark(ev, before.Range, after.Range, nil, false)

	from := d.firstRange(RangeExtractedFromSource)
	if from == nil {
		ev.Defect("missing %s range", RangeExtractedFromSource)
		return ev
	}
	mark(ev, from, body(extracted), nil, true)

	// One ADD marking per call site, from the extracted code to the call.
	for _, inv := range d.Ranges[RangeInvocations] {
		mark(ev, from, &inv, nil, true, marking.WithPolicy(marking.PolicyAdd))
	}
	return ev
}

func extractAndMoveOperation(d Detection, ev *model.Event) *model.Event {
	before, okB := operation(d, ev, RoleBefore)
	after, okA := operation(d, ev, RoleAfter)
	extracted, okE := operation(d, ev, RoleExtracted)
	if !okB || !okA || !okE {
		return ev
	}
	methodNames(ev, before, after)
	ev.DetailsAfter = extracted.Class
	ev.ElementBefore = model.Element(extracted.ShortSignature())
	ev.Sidedness = model.ThreeSided

	from := d.firstRange(RangeExtractedFromSource)
	if from == nil {
		ev.Defect("missing %s range", RangeExtractedFromSource)
		return ev
	}
	target := body(extracted)
	mark(ev, from, target, before.Range, true, marking.WithOrientation(marking.OrientationLeft))

	for _, inv := range d.Ranges[RangeInvocations] {
		mark(ev, before.Range, target, &inv, true,
			marking.WithPolicy(marking.PolicyExtract),
			marking.WithOrientation(marking.OrientationRight),
			marking.WithWords("", extracted.Name, ""),
		)
	}
	return ev
}

// annotated fills the shared fields of the annotation kinds. Both names are
// the signature of the operation before the change.
func annotated(d Detection, ev *model.Event) (Operation, Operation, bool) {
	before, okB := operation(d, ev, RoleBefore)
	after, okA := operation(d, ev, RoleAfter)
	if !okB || !okA {
		return before, after, false
	}
	methodNames(ev, before, after)
	ev.NameAfter = ev.NameBefore
	return before, after, true
}

func annotation(d Detection, ev *model.Event, role string) (Annotation, bool) {
	a, ok := d.Annotations[role]
	if !ok {
		ev.Defect("missing %s annotation", role)
	}
	return a, ok
}

// highlight returns an offset function emphasising r on side.
func highlight(side marking.Side, r *CodeRange) marking.Option {
	return marking.WithOffsets(func(m *marking.Marking) {
		if s := r.Span(); s != nil {
			m.Highlight(side, *s, marking.PolicyAdd)
		}
	})
}

func addMethodAnnotation(d Detection, ev *model.Event) *model.Event {
	before, _, ok := annotated(d, ev)
	if !ok {
		return ev
	}
	a, ok := annotation(d, ev, RoleAfter)
	if !ok {
		return ev
	}
	ev.ElementBefore = model.Element(a.Text)
	mark(ev, before.Range, a.Range, nil, false,
		marking.WithPolicy(marking.PolicyAdd),
		highlight(marking.SideAfter, a.Range),
	)
	return ev
}

func removeMethodAnnotation(d Detection, ev *model.Event) *model.Event {
	_, after, ok := annotated(d, ev)
	if !ok {
		return ev
	}
	a, ok := annotation(d, ev, RoleBefore)
	if !ok {
		return ev
	}
	ev.ElementBefore = model.Element(a.Text)
	mark(ev, a.Range, after.Range, nil, false,
		marking.WithPolicy(marking.PolicyAdd),
		highlight(marking.SideBefore, a.Range),
	)
	return ev
}

func modifyMethodAnnotation(d Detection, ev *model.Event) *model.Event {
	if _, _, ok := annotated(d, ev); !ok {
		return ev
	}
	old, okB := annotation(d, ev, RoleBefore)
	cur, okA := annotation(d, ev, RoleAfter)
	if !okB || !okA {
		return ev
	}
	ev.ElementBefore = model.Element(old.Text)
	ev.ElementAfter = model.Element(cur.Text)
	mark(ev, old.Range, cur.Range, nil, false,
		marking.WithPolicy(marking.PolicyAdd),
		highlight(marking.SideBefore, old.Range),
		highlight(marking.SideAfter, cur.Range),
	)
	return ev
}
