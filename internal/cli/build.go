package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sprite-ai/refmark/internal/entry"
	"github.com/sprite-ai/refmark/internal/ingest"
	"github.com/sprite-ai/refmark/internal/model"
)

type buildOptions struct {
	format    string
	outDir    string
	storePath string
	save      bool
}

func newBuildCmd(a *app) *cobra.Command {
	var opts buildOptions
	cmd := &cobra.Command{
		Use:   "build FILE...",
		Short: "Build commit entries from detection files",
		Long: `Read commit detection documents and write one display entry per commit.
Inputs are JSON, YAML or JSONL (one commit per line), chosen by extension.

Examples:
  refmark build commits.jsonl                # entries as JSON on stdout
  refmark build -f yaml c1.yaml              # as YAML documents
  refmark build -o entries/ commits.jsonl    # one file per commit
  refmark build --save commits.jsonl         # also persist to store.path`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runBuild(cmd.OutOrStdout(), args, opts)
		},
	}
	cmd.Flags().StringVarP(&opts.format, "format", "f", "json", "output format: json, yaml")
	cmd.Flags().StringVarP(&opts.outDir, "output", "o", "", "write one file per entry into this directory")
	cmd.Flags().StringVar(&opts.storePath, "store", "", "save entries to this SQLite database")
	cmd.Flags().BoolVar(&opts.save, "save", false, "save entries to the configured store")
	return cmd
}

func (a *app) runBuild(w io.Writer, paths []string, opts buildOptions) error {
	if opts.format != "json" && opts.format != "yaml" {
		return fmt.Errorf("unknown format %q", opts.format)
	}

	commits, err := ingest.LoadAll(paths)
	if err != nil {
		return err
	}
	entries := entry.NewBuilder(nil, a.logger).FromCommits(commits)
	codec := entry.CodecFor(opts.format)

	for i, e := range entries {
		if opts.outDir != "" {
			if err := writeEntryFile(opts.outDir, e, codec); err != nil {
				return err
			}
			continue
		}
		if i > 0 && opts.format == "yaml" {
			fmt.Fprintln(w, "---")
		}
		if err := entry.Encode(w, e, codec); err != nil {
			return fmt.Errorf("encoding %s: %w", e.CommitID, err)
		}
	}

	if opts.storePath != "" || opts.save {
		st, err := a.openStore(opts.storePath)
		if err != nil {
			return err
		}
		defer st.Close()
		if err := st.PutAll(entries); err != nil {
			return err
		}
		n, err := st.Count()
		if err != nil {
			return err
		}
		a.logger.Info("saved entries", "saved", len(entries), "stored", n)
	}

	a.logger.Info("built entries", "commits", len(commits), "entries", len(entries))
	return nil
}

// writeEntryFile writes e to dir, named after its commit id. An id that
// would not name a plain file inside dir is rejected.
func writeEntryFile(dir string, e *model.Entry, codec entry.Codec) error {
	id := e.CommitID
	if id == "" || id == "." || id == ".." || strings.ContainsAny(id, `/\`) {
		return fmt.Errorf("commit id %q cannot be used as a file name", id)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", dir, err)
	}
	path := filepath.Join(dir, e.CommitID+codec.Extension())
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	if err := entry.Encode(f, e, codec); err != nil {
		return fmt.Errorf("encoding %s: %w", e.CommitID, err)
	}
	return f.Close()
}
