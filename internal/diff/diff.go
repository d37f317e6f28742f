// Package diff reads the unified patch of a commit so markings can be
// clamped to, checked against and rendered from the lines it touches.
package diff

import (
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/bluekeyes/go-gitdiff/gitdiff"
)

// File is one file of a patch.
type File struct {
	OldName      string
	NewName      string
	IsNew        bool
	IsDeleted    bool
	IsRenamed    bool
	IsBinary     bool
	Fragments    []*gitdiff.TextFragment
	AddedLines   int
	DeletedLines int

	// MaxOld and MaxNew are the last line numbers covered by any fragment
	// on each side; 0 when the side has no lines. They are the file length
	// only when the whole side is in the patch, as for new or deleted files.
	MaxOld int
	MaxNew int
}

// Name returns the display name for the file.
func (f *File) Name() string {
	if f.IsRenamed {
		return fmt.Sprintf("%s -> %s", f.OldName, f.NewName)
	}
	if f.IsNew {
		return f.NewName
	}
	if f.IsDeleted {
		return f.OldName
	}
	if f.NewName != "" {
		return f.NewName
	}
	return f.OldName
}

// Patch holds the parsed patch for all files.
type Patch struct {
	Files []*File
	Raw   string

	lengths map[fileSide]int
}

type fileSide struct {
	path string
	side Side
}

// Stats returns aggregate statistics.
func (p *Patch) Stats() (files, added, deleted int) {
	files = len(p.Files)
	for _, f := range p.Files {
		added += f.AddedLines
		deleted += f.DeletedLines
	}
	return
}

// Parse reads a unified diff string.
func Parse(raw string) (*Patch, error) {
	parsed, _, err := gitdiff.Parse(strings.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("parsing diff: %w", err)
	}

	p := &Patch{Raw: raw}
	for _, f := range parsed {
		df := &File{
			OldName:   f.OldName,
			NewName:   f.NewName,
			IsNew:     f.IsNew,
			IsDeleted: f.IsDelete,
			IsRenamed: f.IsRename,
			IsBinary:  f.IsBinary,
		}

		for _, frag := range f.TextFragments {
			df.Fragments = append(df.Fragments, frag)
			if frag.OldLines > 0 {
				df.MaxOld = max(df.MaxOld, int(frag.OldPosition+frag.OldLines-1))
			}
			if frag.NewLines > 0 {
				df.MaxNew = max(df.MaxNew, int(frag.NewPosition+frag.NewLines-1))
			}
			for _, line := range frag.Lines {
				switch line.Op {
				case gitdiff.OpAdd:
					df.AddedLines++
				case gitdiff.OpDelete:
					df.DeletedLines++
				}
			}
		}

		// A side that is entirely in the patch has a known length.
		if df.IsNew && !df.IsBinary {
			p.SetLength(df.NewName, New, df.MaxNew)
		}
		if df.IsDeleted && !df.IsBinary {
			p.SetLength(df.OldName, Old, df.MaxOld)
		}

		p.Files = append(p.Files, df)
	}

	return p, nil
}

// Load parses the patch file at path.
func Load(path string) (*Patch, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading patch: %w", err)
	}
	return Parse(string(raw))
}

// File returns the file whose old or new name is path.
func (p *Patch) File(path string) *File {
	if p == nil {
		return nil
	}
	for _, f := range p.Files {
		if f.NewName == path || f.OldName == path {
			return f
		}
	}
	return nil
}

// SetLength records the number of lines of path on one side of the commit.
func (p *Patch) SetLength(path string, side Side, n int) {
	if p.lengths == nil {
		p.lengths = make(map[fileSide]int)
	}
	p.lengths[fileSide{path, side}] = n
}

// Length returns the number of lines of path on one side, or -1 when it is
// not known. Fragment coverage alone never counts as a length.
func (p *Patch) Length(path string, side Side) int {
	if p == nil || path == "" {
		return -1
	}
	if n, ok := p.lengths[fileSide{path, side}]; ok {
		return n
	}
	return -1
}

// Bounds returns the file lengths used to clamp a marking whose before side
// lives in beforePath and after side in afterPath. Unknown lengths are
// unbounded (-1).
func (p *Patch) Bounds(beforePath, afterPath string) (maxBefore, maxAfter int) {
	return p.Length(beforePath, Old), p.Length(afterPath, New)
}

// LoadLengths reads the length of every text file in the patch from the
// repository, on the parent of commitID for the old side and on commitID
// itself for the new side.
func (p *Patch) LoadLengths(repoDir, commitID string) error {
	for _, f := range p.Files {
		if f.IsBinary {
			continue
		}
		if !f.IsNew && f.OldName != "" {
			n, err := FileLength(repoDir, commitID+"^", f.OldName)
			if err != nil {
				return err
			}
			p.SetLength(f.OldName, Old, n)
		}
		if !f.IsDeleted && f.NewName != "" {
			n, err := FileLength(repoDir, commitID, f.NewName)
			if err != nil {
				return err
			}
			p.SetLength(f.NewName, New, n)
		}
	}
	return nil
}

// FileLength returns the number of lines of path at revision rev.
func FileLength(repoDir, rev, path string) (int, error) {
	out, err := git(repoDir, "show", rev+":"+path)
	if err != nil {
		return 0, err
	}
	return countLines(out), nil
}

func countLines(s string) int {
	if s == "" {
		return 0
	}
	n := strings.Count(s, "\n")
	if !strings.HasSuffix(s, "\n") {
		n++
	}
	return n
}

// Side selects the old or new side of a patch.
type Side int

const (
	Old Side = iota
	New
)

// Lines returns the text of the zero-based half-open line range [start, end)
// on one side of path, as far as the patch shows it. Lines the patch does not
// carry are skipped; first is the zero-based number of the first returned
// line, or -1 when nothing is shown.
func (p *Patch) Lines(path string, side Side, start, end int) (lines []string, first int) {
	first = -1
	f := p.File(path)
	if f == nil {
		return nil, first
	}

	for _, frag := range f.Fragments {
		oldNo, newNo := int(frag.OldPosition), int(frag.NewPosition)
		for _, line := range frag.Lines {
			var n int
			var shown bool
			switch line.Op {
			case gitdiff.OpContext:
				n, shown = oldNo, true
				if side == New {
					n = newNo
				}
				oldNo++
				newNo++
			case gitdiff.OpDelete:
				n, shown = oldNo, side == Old
				oldNo++
			case gitdiff.OpAdd:
				n, shown = newNo, side == New
				newNo++
			}
			// n is one-based.
			if !shown || n-1 < start || n-1 >= end {
				continue
			}
			if first < 0 {
				first = n - 1
			}
			lines = append(lines, strings.TrimRight(line.Line, "\r\n"))
		}
	}
	return lines, first
}

// RepoRoot returns the top-level directory of the repository containing dir.
func RepoRoot(dir string) (string, error) {
	out, err := git(dir, "rev-parse", "--show-toplevel")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

// GitShow returns the patch introduced by a single commit.
func GitShow(repoDir, commitID string, contextLines int) (string, error) {
	return git(repoDir, "show", "--format=", fmt.Sprintf("-U%d", contextLines), commitID)
}

func git(repoDir string, args ...string) (string, error) {
	cmd := exec.Command("git", args...)
	cmd.Dir = repoDir
	cmd.Stderr = os.Stderr

	out, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("git %s: %w", args[0], err)
	}
	return string(out), nil
}
