package extract

import "github.com/sprite-ai/refmark/internal/model"

// packageChange pairs Ranges["before"][i] with Ranges["after"][i], one
// marking per moved class.
func packageChange(d Detection, ev *model.Event) *model.Event {
	before, okB := d.Packages[RoleBefore]
	after, okA := d.Packages[RoleAfter]
	if !okB || !okA {
		return ev.Defect("missing package names")
	}
	ev.Group = model.GroupPackage
	ev.NameBefore = before
	ev.NameAfter = after
	ev.DetailsBefore = before
	ev.DetailsAfter = after

	from, to := d.Ranges[RoleBefore], d.Ranges[RoleAfter]
	if len(from) != len(to) {
		ev.Defect("unpaired class ranges: %d before, %d after", len(from), len(to))
	}
	n := min(len(from), len(to))
	for i := 0; i < n; i++ {
		mark(ev, &from[i], &to[i], nil, true)
	}
	return ev
}
