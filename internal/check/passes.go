package check

import (
	"fmt"

	"github.com/sprite-ai/refmark/internal/diff"
	"github.com/sprite-ai/refmark/internal/display"
	"github.com/sprite-ai/refmark/internal/marking"
	"github.com/sprite-ai/refmark/internal/model"
)

// IncompletePass reports events the extractor could not fully populate.
func IncompletePass(e *model.Entry, _ *diff.Patch) []Finding {
	var findings []Finding
	for i, ev := range e.Refactorings {
		for _, d := range ev.Defects {
			findings = append(findings, Finding{
				Pass:     "incomplete",
				Event:    i,
				Message:  fmt.Sprintf("%s: %s", ev.Kind, d),
				Severity: model.SeverityWarning,
				Risk:     model.RiskMedium,
			})
		}
	}
	return findings
}

// EmptyMarkingPass reports visible events that have nothing to highlight.
func EmptyMarkingPass(e *model.Entry, _ *diff.Patch) []Finding {
	var findings []Finding
	for i, ev := range e.Refactorings {
		if ev.Hidden || len(ev.Markings) > 0 {
			continue
		}
		findings = append(findings, Finding{
			Pass:     "empty",
			Event:    i,
			Message:  fmt.Sprintf("%s has no line markings", display.Name(ev)),
			Severity: model.SeverityWarning,
			Risk:     model.RiskLow,
		})
	}
	return findings
}

// BoundsPass reports ranges that reach past the end of their file. A range
// ending past the last line would be clamped; one starting past it cannot be
// shown at all. Files whose length is unknown are not checked.
func BoundsPass(e *model.Entry, p *diff.Patch) []Finding {
	if p == nil {
		return nil
	}
	var findings []Finding
	for i, ev := range e.Refactorings {
		for _, m := range ev.Markings {
			for _, side := range []marking.Side{marking.SideBefore, marking.SideAfter} {
				r := m.Side(side)
				if r == nil {
					continue
				}
				ds := diff.New
				if side == marking.SideBefore {
					ds = diff.Old
				}
				max := p.Length(r.Path, ds)
				if max < 0 {
					continue
				}
				switch {
				case r.Start >= max && r.Len() > 0:
					findings = append(findings, Finding{
						Pass: "bounds", Event: i, File: r.Path, Line: r.Start + 1,
						Message:  fmt.Sprintf("%s range [%d,%d) starts after line %d, the end of the file", side, r.Start, r.End, max),
						Severity: model.SeverityError,
						Risk:     model.RiskHigh,
					})
				case r.End > max:
					findings = append(findings, Finding{
						Pass: "bounds", Event: i, File: r.Path, Line: r.Start + 1,
						Message:  fmt.Sprintf("%s range [%d,%d) will be clamped to line %d", side, r.Start, r.End, max),
						Severity: model.SeverityWarning,
						Risk:     model.RiskLow,
					})
				}
			}
		}
	}
	return findings
}

// OffsetsPass reports highlighted offsets that fall outside the range of
// the side they belong to.
func OffsetsPass(e *model.Entry, _ *diff.Patch) []Finding {
	var findings []Finding
	for i, ev := range e.Refactorings {
		for _, m := range ev.Markings {
			for _, o := range m.Offsets {
				r := m.Side(o.Side)
				if r != nil && r.Contains(o.Start) && (o.End <= o.Start || r.Contains(o.End-1)) {
					continue
				}
				f := Finding{
					Pass: "offsets", Event: i, Line: o.Start + 1,
					Message:  fmt.Sprintf("%s offset [%d,%d) lies outside its marking", o.Side, o.Start, o.End),
					Severity: model.SeverityWarning,
					Risk:     model.RiskLow,
				}
				if r != nil {
					f.File = r.Path
				}
				findings = append(findings, f)
			}
		}
	}
	return findings
}

// PathPass reports event paths the patch does not touch.
func PathPass(e *model.Entry, p *diff.Patch) []Finding {
	if p == nil {
		return nil
	}
	var findings []Finding
	for i, ev := range e.Refactorings {
		if ev.Hidden {
			continue
		}
		for _, path := range []string{ev.PathBefore, ev.PathAfter} {
			if path == "" || p.File(path) != nil {
				continue
			}
			findings = append(findings, Finding{
				Pass: "paths", Event: i, File: path,
				Message:  "file is not part of the patch",
				Severity: model.SeverityInfo,
				Risk:     model.RiskInfo,
			})
		}
	}
	return findings
}

// UnmergedPass reports correlation groups that kept several visible members
// because no canonical event could be elected.
func UnmergedPass(e *model.Entry, _ *diff.Patch) []Finding {
	visible := make(map[string][]int)
	var order []string
	for i, ev := range e.Refactorings {
		if ev.Hidden || ev.CorrelationID == "" {
			continue
		}
		if _, ok := visible[ev.CorrelationID]; !ok {
			order = append(order, ev.CorrelationID)
		}
		visible[ev.CorrelationID] = append(visible[ev.CorrelationID], i)
	}

	var findings []Finding
	for _, id := range order {
		members := visible[id]
		if len(members) < 2 {
			continue
		}
		findings = append(findings, Finding{
			Pass:     "unmerged",
			Event:    members[0],
			Message:  fmt.Sprintf("group %s has %d visible members", id, len(members)),
			Severity: model.SeverityInfo,
			Risk:     model.RiskInfo,
		})
	}
	return findings
}
