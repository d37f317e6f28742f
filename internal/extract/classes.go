package extract

import (
	"github.com/sprite-ai/refmark/internal/marking"
	"github.com/sprite-ai/refmark/internal/model"
)

func classChange(d Detection, ev *model.Event) *model.Event {
	before, okB := class(d, ev, RoleBefore)
	after, okA := class(d, ev, RoleAfter)
	if !okB || !okA {
		return ev
	}
	ev.Group = classGroup(after)
	ev.NameBefore = before.Name
	ev.NameAfter = after.Name
	ev.DetailsBefore = before.Package
	ev.DetailsAfter = after.Package
	mark(ev, before.Range, after.Range, nil, true)
	return ev
}

// extractSuperclass relates the new supertype to every class adopting it.
// Each subclass gets its own collapsed marking labelled with the supertype.
func extractSuperclass(d Detection, ev *model.Event) *model.Event {
	extracted, ok := class(d, ev, RoleExtracted)
	if !ok {
		return ev
	}
	ev.Group = classGroup(extracted)
	ev.NameBefore = extracted.Name
	ev.NameAfter = extracted.Name
	ev.DetailsBefore = extracted.Package
	ev.DetailsAfter = extracted.Package
	ev.Sidedness = model.MultiSided

	if len(d.Subclasses) == 0 {
		ev.Defect("no subclasses")
	}
	short := extracted.ShortName()
	for _, sub := range d.Subclasses {
		mark(ev, sub.Range, nil, nil, true,
			marking.WithPolicy(marking.PolicyCollapse),
			marking.WithWords(short, "", ""),
		)
	}

	if extracted.Range != nil {
		ev.PathAfter = extracted.Range.File
	}
	return ev
}

func extractClass(d Detection, ev *model.Event) *model.Event {
	original, okB := class(d, ev, RoleBefore)
	extracted, okE := class(d, ev, RoleExtracted)
	if !okB || !okE {
		return ev
	}
	ev.Group = classGroup(extracted)
	ev.NameBefore = original.Name
	ev.NameAfter = extracted.Name
	ev.DetailsBefore = original.Package
	ev.DetailsAfter = extracted.Package
	mark(ev, original.Range, extracted.Range, nil, true)
	return ev
}
