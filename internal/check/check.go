// Package check runs consistency passes over a built entry, optionally
// against the patch of its commit.
package check

import (
	"fmt"
	"sort"
	"strings"

	"github.com/sprite-ai/refmark/internal/diff"
	"github.com/sprite-ai/refmark/internal/model"
)

// Finding is a single problem attached to an event of the entry.
type Finding struct {
	Pass     string // which pass produced this
	Event    int    // index into Entry.Refactorings
	File     string
	Line     int // one-based, 0 if not line specific
	Message  string
	Severity model.Severity
	Risk     model.RiskLevel
}

func (f Finding) String() string {
	loc := fmt.Sprintf("#%d", f.Event)
	if f.File != "" {
		loc = f.File
		if f.Line > 0 {
			loc = fmt.Sprintf("%s:%d", f.File, f.Line)
		}
	}
	return fmt.Sprintf("[%s] %s: %s", f.Pass, loc, f.Message)
}

// Results holds all findings from running passes.
type Results struct {
	Findings []Finding
}

// ByEvent returns findings grouped by event index.
func (r *Results) ByEvent() map[int][]Finding {
	m := make(map[int][]Finding)
	for _, f := range r.Findings {
		m[f.Event] = append(m[f.Event], f)
	}
	return m
}

// ByRisk returns findings at or above the given risk level.
func (r *Results) ByRisk(minRisk model.RiskLevel) []Finding {
	var out []Finding
	for _, f := range r.Findings {
		if f.Risk >= minRisk {
			out = append(out, f)
		}
	}
	return out
}

// MaxRisk returns the highest risk level among all findings.
func (r *Results) MaxRisk() model.RiskLevel {
	max := model.RiskInfo
	for _, f := range r.Findings {
		if f.Risk > max {
			max = f.Risk
		}
	}
	return max
}

// ExitCode maps the results to a process exit status: 0 clean, 1 warnings,
// 2 high risk.
func (r *Results) ExitCode() int {
	switch max := r.MaxRisk(); {
	case max >= model.RiskHigh:
		return 2
	case max >= model.RiskLow:
		return 1
	default:
		return 0
	}
}

// Summary returns a one-line summary of findings.
func (r *Results) Summary() string {
	if len(r.Findings) == 0 {
		return "No issues found"
	}

	counts := make(map[model.RiskLevel]int)
	for _, f := range r.Findings {
		counts[f.Risk]++
	}

	var parts []string
	for _, level := range []model.RiskLevel{model.RiskCritical, model.RiskHigh, model.RiskMedium, model.RiskLow, model.RiskInfo} {
		if c := counts[level]; c > 0 {
			parts = append(parts, fmt.Sprintf("%d %s", c, level))
		}
	}
	return strings.Join(parts, ", ")
}

// Pass checks an entry. p is nil when no patch is available.
type Pass func(e *model.Entry, p *diff.Patch) []Finding

// PassNames maps pass names (for --skip) to passes.
var PassNames = map[string]Pass{
	"incomplete": IncompletePass,
	"empty":      EmptyMarkingPass,
	"bounds":     BoundsPass,
	"offsets":    OffsetsPass,
	"paths":      PathPass,
	"unmerged":   UnmergedPass,
}

// Run executes every pass not named in skip, in name order.
func Run(e *model.Entry, p *diff.Patch, skip []string) *Results {
	skipSet := make(map[string]bool)
	for _, s := range skip {
		skipSet[s] = true
	}

	names := make([]string, 0, len(PassNames))
	for name := range PassNames {
		names = append(names, name)
	}
	sort.Strings(names)

	results := &Results{}
	if e == nil {
		return results
	}
	for _, name := range names {
		if skipSet[name] {
			continue
		}
		results.Findings = append(results.Findings, PassNames[name](e, p)...)
	}
	return results
}

// Report is the serialisable form of Results.
type Report struct {
	Summary  string          `json:"summary"`
	MaxRisk  string          `json:"max_risk"`
	Total    int             `json:"total"`
	Findings []ReportFinding `json:"findings"`
}

// ReportFinding is one finding of a Report.
type ReportFinding struct {
	Pass     string `json:"pass"`
	Event    int    `json:"event"`
	File     string `json:"file,omitempty"`
	Line     int    `json:"line,omitempty"`
	Message  string `json:"message"`
	Severity string `json:"severity"`
	Risk     string `json:"risk"`
}

// Report converts the results for JSON output.
func (r *Results) Report() Report {
	out := Report{
		Summary:  r.Summary(),
		MaxRisk:  r.MaxRisk().String(),
		Total:    len(r.Findings),
		Findings: make([]ReportFinding, 0, len(r.Findings)),
	}
	for _, f := range r.Findings {
		out.Findings = append(out.Findings, ReportFinding{
			Pass:     f.Pass,
			Event:    f.Event,
			File:     f.File,
			Line:     f.Line,
			Message:  f.Message,
			Severity: f.Severity.String(),
			Risk:     f.Risk.String(),
		})
	}
	return out
}
