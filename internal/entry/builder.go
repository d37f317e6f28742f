package entry

import (
	"github.com/charmbracelet/log"

	"github.com/sprite-ai/refmark/internal/extract"
	"github.com/sprite-ai/refmark/internal/ingest"
	"github.com/sprite-ai/refmark/internal/logging"
	"github.com/sprite-ai/refmark/internal/model"
)

// Builder turns ingested commits into entries.
type Builder struct {
	table  *extract.Table
	logger *log.Logger
}

// NewBuilder returns a builder using table, or a fresh table when nil.
func NewBuilder(table *extract.Table, logger *log.Logger) *Builder {
	if table == nil {
		table = extract.NewTable()
	}
	return &Builder{table: table, logger: logging.Or(logger)}
}

// FromDetections extracts every detection of c and builds the entry. Events
// with extraction defects are kept and logged.
func (b *Builder) FromDetections(c ingest.Commit) *model.Entry {
	events := b.table.ExtractAll(c.Detections)
	for i, ev := range events {
		for _, d := range ev.Defects {
			b.logger.Warn("incomplete refactoring",
				"commit", c.CommitID, "index", i, "type", ev.Kind, "defect", d)
		}
	}

	e := Build(events, c.CommitID, c.Parents, c.Time)
	b.logger.Debug("built entry",
		"commit", c.CommitID, "refactorings", len(e.Refactorings), "visible", len(e.Visible()))
	return e
}

// FromCommits builds one entry per commit, in order.
func (b *Builder) FromCommits(cs []ingest.Commit) []*model.Entry {
	out := make([]*model.Entry, 0, len(cs))
	for _, c := range cs {
		out = append(out, b.FromDetections(c))
	}
	return out
}
