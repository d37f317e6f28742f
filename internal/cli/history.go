package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/sprite-ai/refmark/internal/display"
	"github.com/sprite-ai/refmark/internal/history"
	"github.com/sprite-ai/refmark/internal/model"
)

func newHistoryCmd(a *app) *cobra.Command {
	var name, storePath string
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "history [FILE|DIR...]",
		Short: "Follow methods through renames and class moves",
		Long: `Fold entries in commit time order into history chains and print them,
most recent event first. Entries are read from files (a directory means every
.json/.yaml entry in it) or, without arguments, from the store.

Examples:
  refmark history entries/
  refmark history entries/ --name p.B.bar(int)
  refmark history entries/ --json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			entries, err := a.loadEntries(cmd.InOrStdin(), args, storePath)
			if err != nil {
				return err
			}
			history.SortEntries(entries)
			chain := history.New().FoldAll(entries)
			a.logger.Debug("folded history", "entries", len(entries), "signatures", chain.Len())

			if asJSON {
				return writeHistoryJSON(cmd.OutOrStdout(), chain, name)
			}
			printHistory(cmd.OutOrStdout(), chain, name)
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "only print the chain of this signature")
	cmd.Flags().StringVar(&storePath, "store", "", "SQLite database (default store.path)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the chains as a JSON object keyed by signature")
	return cmd
}

type historyItem struct {
	Commit string `json:"commit"`
	Time   int64  `json:"time,omitempty"`
	Kind   string `json:"kind"`
	Name   string `json:"name"`
}

func writeHistoryJSON(w io.Writer, chain *history.Chain, name string) error {
	snap := chain.Snapshot()
	out := make(map[string][]historyItem, len(snap))
	for key, events := range snap {
		if name != "" && key != name {
			continue
		}
		items := make([]historyItem, 0, len(events))
		for _, ev := range events {
			items = append(items, historyItem{
				Commit: ev.CommitID(),
				Time:   ev.Timestamp(),
				Kind:   ev.Name,
				Name:   display.Name(ev),
			})
		}
		out[key] = items
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func printHistory(w io.Writer, chain *history.Chain, name string) {
	keys := chain.Keys()
	if name != "" {
		keys = []string{name}
	}
	if len(keys) == 0 || (name != "" && len(chain.Get(name)) == 0) {
		fmt.Fprintln(w, "No history.")
		return
	}

	for _, key := range keys {
		events := chain.Get(key)
		fmt.Fprintf(w, "%s %s\n", headerStyle.Render(key), dimStyle.Render(fmt.Sprintf("(%d)", len(events))))
		for _, ev := range events {
			fmt.Fprintf(w, "  %s %s  %s  %s\n",
				dimStyle.Render(shortCommit(ev.CommitID())),
				dimStyle.Render(formatTime(ev)),
				titleStyle.Render(ev.Name),
				nameStyle.Render(display.Name(ev)))
		}
	}
}

func shortCommit(id string) string {
	if len(id) > 7 {
		return id[:7]
	}
	return id
}

func formatTime(ev *model.Event) string {
	ts := ev.Timestamp()
	if ts == 0 {
		return "-"
	}
	return time.Unix(ts, 0).UTC().Format("2006-01-02")
}
