package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sprite-ai/refmark/internal/diff"
	"github.com/sprite-ai/refmark/internal/display"
	"github.com/sprite-ai/refmark/internal/marking"
	"github.com/sprite-ai/refmark/internal/model"
)

type showOptions struct {
	commitID  string
	storePath string
	patchPath string
	repoDir   string
	arrow     string
	name      string
}

func newShowCmd(a *app) *cobra.Command {
	var opts showOptions
	cmd := &cobra.Command{
		Use:   "show [FILE]",
		Short: "Print the labels and line markings of an entry",
		Long: `Print every visible refactoring of an entry with its label, element
details and line markings. With a patch the marked lines it carries are
printed highlighted. With --repo the markings are also clamped to the
length of each file.

Examples:
  refmark show entries/c1.json
  refmark show --commit c1                    # from the configured store
  refmark show c1.json --patch c1.patch
  refmark show c1.json --repo .               # patch from git show`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := stdinOnce(args, opts.patchPath); err != nil {
				return err
			}
			e, err := a.loadEntry(cmd.InOrStdin(), args, opts.commitID, opts.storePath)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			if e == nil {
				fmt.Fprintln(w, "No entry.")
				return nil
			}

			p, err := a.loadPatch(cmd.InOrStdin(), opts.patchPath, opts.repoDir, e.CommitID)
			if err != nil {
				return err
			}

			arrow := opts.arrow
			if arrow == "" {
				arrow = a.cfg.Display.Arrow
			}
			events := e.Visible()
			if opts.name != "" {
				events = e.Lookup(opts.name)
			}
			renderEntry(w, e, events, p, arrow)
			return nil
		},
	}
	cmd.Flags().StringVar(&opts.commitID, "commit", "", "read the entry for this commit from the store")
	cmd.Flags().StringVar(&opts.storePath, "store", "", "SQLite database (default store.path)")
	cmd.Flags().StringVar(&opts.patchPath, "patch", "", "patch file of the commit, - for stdin")
	cmd.Flags().StringVar(&opts.repoDir, "repo", "", "git repository to take the commit patch from")
	cmd.Flags().StringVar(&opts.arrow, "arrow", "", "separator between before and after names")
	cmd.Flags().StringVar(&opts.name, "name", "", "only show refactorings of this element")
	return cmd
}

func renderEntry(w io.Writer, e *model.Entry, events []*model.Event, p *diff.Patch, arrow string) {
	fmt.Fprintln(w, headerStyle.Render("commit "+e.CommitID))
	if len(e.Parents) > 0 {
		fmt.Fprintln(w, dimStyle.Render("parents "+strings.Join(e.Parents, " ")))
	}
	if p != nil {
		files, added, deleted := p.Stats()
		fmt.Fprintln(w, dimStyle.Render(fmt.Sprintf("%d file(s) changed, +%d -%d", files, added, deleted)))
	}
	fmt.Fprintf(w, "%d refactoring(s), %d shown\n\n", len(e.Refactorings), len(events))

	for _, ev := range events {
		maxBefore, maxAfter := p.Bounds(ev.PathBefore, ev.PathAfter)
		l := display.LabelFor(ev, arrow, maxBefore, maxAfter)

		fmt.Fprintf(w, "%s  %s\n", titleStyle.Render(l.Title), nameStyle.Render(l.Name))
		if l.Change != "" {
			fmt.Fprintf(w, "    %s\n", nameStyle.Render(l.Change))
		}
		if l.Leaf != "" {
			fmt.Fprintf(w, "    %s\n", leafStyle.Render(l.Leaf))
		}
		if l.Location != "" {
			fmt.Fprintf(w, "    %s\n", dimStyle.Render("in "+l.Location))
		}
		if ev.Incomplete() {
			fmt.Fprintf(w, "    %s\n", warnStyle.Render("incomplete: "+strings.Join(ev.Defects, "; ")))
		}

		for i, r := range l.Ranges {
			fmt.Fprintln(w, dimStyle.Render(fmt.Sprintf("    [%d] %s", i, rangeText(ev.Markings[i], r))))
			if p == nil {
				continue
			}
			snippet(w, p, ev.PathBefore, diff.Old, r.StartBefore, r.EndBefore, beforeStyle.Render("-"))
			snippet(w, p, ev.PathAfter, diff.New, r.StartAfter, r.EndAfter, afterStyle.Render("+"))
		}
		fmt.Fprintln(w)
	}
}

// rangeText prints one-based inclusive lines for each side; an absent side
// is "-".
func rangeText(m *marking.Marking, r marking.DisplayRange) string {
	side := func(present bool, start, end int) string {
		switch {
		case !present:
			return "-"
		case end <= start:
			return fmt.Sprintf("%d (empty)", start+1)
		default:
			return fmt.Sprintf("%d-%d", start+1, end)
		}
	}
	return fmt.Sprintf("before %s  after %s",
		side(m.Before != nil, r.StartBefore, r.EndBefore),
		side(m.After != nil, r.StartAfter, r.EndAfter))
}

func snippet(w io.Writer, p *diff.Patch, path string, side diff.Side, start, end int, marker string) {
	if path == "" || end <= start {
		return
	}
	lines, first := p.Lines(path, side, start, end)
	if first < 0 {
		return
	}
	fmt.Fprintf(w, "    %s %s\n", marker, dimStyle.Render(path))
	fmt.Fprint(w, diff.Snippet(path, lines, first))
}
