package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"github.com/spf13/cobra"

	"github.com/sprite-ai/refmark/internal/check"
	"github.com/sprite-ai/refmark/internal/display"
	"github.com/sprite-ai/refmark/internal/model"
)

type checkOptions struct {
	commitID  string
	storePath string
	patchPath string
	repoDir   string
	format    string
	skip      []string
}

func newCheckCmd(a *app) *cobra.Command {
	var opts checkOptions
	cmd := &cobra.Command{
		Use:   "check [FILE]",
		Short: "Run consistency checks on an entry (non-interactive)",
		Long: `Run all check passes on an entry and output a report. With a patch the
event paths are checked against it; with --repo the line markings are also
checked against the length of each file.
Useful for CI and for piping into other tools.

Exit codes:
  0  clean, no issues found
  1  warnings found
  2  high risk items found`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runCheck(cmd, args, opts)
		},
	}
	cmd.Flags().StringVar(&opts.commitID, "commit", "", "check the entry for this commit from the store")
	cmd.Flags().StringVar(&opts.storePath, "store", "", "SQLite database (default store.path)")
	cmd.Flags().StringVar(&opts.patchPath, "patch", "", "patch file of the commit, - for stdin")
	cmd.Flags().StringVar(&opts.repoDir, "repo", "", "git repository to take the commit patch from")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "text", "output format: text, json, markdown")
	cmd.Flags().StringSliceVar(&opts.skip, "skip", nil, "check passes to skip")
	return cmd
}

func (a *app) runCheck(cmd *cobra.Command, args []string, opts checkOptions) error {
	if err := stdinOnce(args, opts.patchPath); err != nil {
		return err
	}
	w := cmd.OutOrStdout()
	e, err := a.loadEntry(cmd.InOrStdin(), args, opts.commitID, opts.storePath)
	if err != nil {
		return err
	}
	if e == nil {
		fmt.Fprintln(w, "No entry to check.")
		return nil
	}

	p, err := a.loadPatch(cmd.InOrStdin(), opts.patchPath, opts.repoDir, e.CommitID)
	if err != nil {
		return err
	}

	for _, s := range opts.skip {
		if _, ok := check.PassNames[s]; !ok {
			a.logger.Warn("unknown check pass", "pass", s)
		}
	}
	results := check.Run(e, p, opts.skip)

	switch opts.format {
	case "json":
		err = outputJSON(w, results)
	case "markdown":
		outputMarkdown(w, e, results)
	case "text":
		outputText(w, e, results)
	default:
		return fmt.Errorf("unknown format %q", opts.format)
	}
	if err != nil {
		return err
	}

	if code := results.ExitCode(); code != 0 {
		return &ExitError{Code: code}
	}
	return nil
}

func outputText(w io.Writer, e *model.Entry, results *check.Results) {
	fmt.Fprintf(w, "commit %s: %d refactoring(s), %d visible\n", e.CommitID, len(e.Refactorings), len(e.Visible()))
	fmt.Fprintf(w, "Check: %s\n\n", results.Summary())

	if len(results.Findings) == 0 {
		return
	}

	byEvent := results.ByEvent()
	idx := make([]int, 0, len(byEvent))
	for i := range byEvent {
		idx = append(idx, i)
	}
	sort.Ints(idx)

	for _, i := range idx {
		fmt.Fprintf(w, "  #%d %s\n", i, eventName(e, i))
		for _, f := range byEvent[i] {
			fmt.Fprintf(w, "    %s %s\n", riskIcon(f.Risk), f)
		}
		fmt.Fprintln(w)
	}
}

func outputJSON(w io.Writer, results *check.Results) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(results.Report())
}

func outputMarkdown(w io.Writer, e *model.Entry, results *check.Results) {
	fmt.Fprintf(w, "## Check Report\n\n")
	fmt.Fprintf(w, "Commit `%s`, **%d** refactoring(s)\n\n", e.CommitID, len(e.Refactorings))
	fmt.Fprintf(w, "**Risk:** %s | **Findings:** %d\n\n", results.MaxRisk(), len(results.Findings))

	if len(results.Findings) == 0 {
		fmt.Fprintln(w, "No issues found.")
		return
	}

	fmt.Fprintln(w, "| Risk | Pass | Refactoring | Location | Message |")
	fmt.Fprintln(w, "|------|------|-------------|----------|---------|")
	for _, f := range results.Findings {
		loc := f.File
		if f.Line > 0 {
			loc = fmt.Sprintf("%s:%d", f.File, f.Line)
		}
		fmt.Fprintf(w, "| %s | %s | %s | `%s` | %s |\n", f.Risk, f.Pass, eventName(e, f.Event), loc, f.Message)
	}
}

func eventName(e *model.Entry, i int) string {
	if i < 0 || i >= len(e.Refactorings) {
		return ""
	}
	return display.Name(e.Refactorings[i])
}
