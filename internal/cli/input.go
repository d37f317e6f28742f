package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/sprite-ai/refmark/internal/diff"
	"github.com/sprite-ai/refmark/internal/entry"
	"github.com/sprite-ai/refmark/internal/model"
	"github.com/sprite-ai/refmark/internal/store"
)

// readInput reads path, or stdin when path is "-".
func readInput(stdin io.Reader, path string) ([]byte, error) {
	if path == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("reading stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return data, nil
}

// decodeEntryFile reads one serialized entry. A payload that does not decode
// is logged and treated as no entry.
func (a *app) decodeEntryFile(stdin io.Reader, path string) (*model.Entry, error) {
	data, err := readInput(stdin, path)
	if err != nil {
		return nil, err
	}
	e, err := entry.Decode(data, entry.CodecFor(filepath.Ext(path)))
	var decErr *entry.DecodeError
	if errors.As(err, &decErr) {
		a.logger.Warn("undecodable entry", "file", path, "err", decErr.Err)
		return nil, nil
	}
	return e, err
}

// loadEntry resolves the entry named by a FILE argument or by a commit id in
// the store. A nil entry without error means there is nothing to show.
func (a *app) loadEntry(stdin io.Reader, args []string, commitID, storePath string) (*model.Entry, error) {
	switch {
	case len(args) == 1:
		return a.decodeEntryFile(stdin, args[0])
	case commitID != "":
		st, err := a.openStore(storePath)
		if err != nil {
			return nil, err
		}
		defer st.Close()
		return st.Get(commitID)
	default:
		return nil, errors.New("an entry file or --commit is required")
	}
}

// loadEntries decodes every entry file, or lists the store when there are none.
func (a *app) loadEntries(stdin io.Reader, paths []string, storePath string) ([]*model.Entry, error) {
	if len(paths) == 0 {
		st, err := a.openStore(storePath)
		if err != nil {
			return nil, err
		}
		defer st.Close()
		return st.List()
	}

	var entries []*model.Entry
	for _, p := range paths {
		files, err := entryFiles(p)
		if err != nil {
			return nil, err
		}
		for _, f := range files {
			e, err := a.decodeEntryFile(stdin, f)
			if err != nil {
				return nil, err
			}
			if e != nil {
				entries = append(entries, e)
			}
		}
	}
	return entries, nil
}

// entryFiles expands a directory into the entry files it holds.
func entryFiles(path string) ([]string, error) {
	if path == "-" {
		return []string{path}, nil
	}
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return []string{path}, nil
	}

	var files []string
	for _, pattern := range []string{"*.json", "*.yaml", "*.yml"} {
		matches, err := filepath.Glob(filepath.Join(path, pattern))
		if err != nil {
			return nil, err
		}
		files = append(files, matches...)
	}
	return files, nil
}

func (a *app) openStore(path string) (*store.Store, error) {
	if path == "" {
		path = a.cfg.Store.Path
	}
	return store.Open(path, store.WithLogger(a.logger))
}

// stdinOnce rejects reading both the entry and the patch from stdin.
func stdinOnce(args []string, patchPath string) error {
	if len(args) == 1 && args[0] == "-" && patchPath == "-" {
		return errors.New("the entry and --patch cannot both be read from stdin")
	}
	return nil
}

// loadPatch reads the patch used to clamp ranges: a patch file ("-" for
// stdin), or the commit's own patch from a git repository. Neither yields nil.
// Only the repository knows how long each file is, so a bare patch file
// leaves every range unbounded.
func (a *app) loadPatch(stdin io.Reader, patchPath, repoDir, commitID string) (*diff.Patch, error) {
	switch {
	case patchPath != "":
		raw, err := readInput(stdin, patchPath)
		if err != nil {
			return nil, err
		}
		return diff.Parse(string(raw))
	case repoDir != "":
		if repoDir == "." {
			root, err := diff.RepoRoot(".")
			if err != nil {
				return nil, fmt.Errorf("not in a git repository (or git not installed): %w", err)
			}
			repoDir = root
		}
		raw, err := diff.GitShow(repoDir, commitID, 3)
		if err != nil {
			return nil, err
		}
		p, err := diff.Parse(raw)
		if err != nil {
			return nil, err
		}
		if err := p.LoadLengths(repoDir, commitID); err != nil {
			a.logger.Warn("file lengths unavailable, ranges left unclamped", "commit", commitID, "err", err)
		}
		return p, nil
	default:
		return nil, nil
	}
}
