// Package ingest reads commit documents produced by the refactoring mining
// engine.
//
// A commit document looks like:
//
//	{"commit_id": "abc123", "parents": ["def456"], "time": 1700000000,
//	 "detections": [{"type": "RENAME_METHOD", "group_id": "g1", ...}]}
//
// It can be stored as JSON (one document or an array of them), YAML (one or
// more documents separated by ---) or JSONL (one document per line).
package ingest

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/sprite-ai/refmark/internal/extract"
)

// Formats understood by Read.
const (
	FormatJSON  = "json"
	FormatJSONL = "jsonl"
	FormatYAML  = "yaml"
)

// Commit is one commit with the raw detections found in it.
type Commit struct {
	CommitID   string              `json:"commit_id" yaml:"commit_id"`
	Parents    []string            `json:"parents,omitempty" yaml:"parents,omitempty"`
	Time       int64               `json:"time" yaml:"time"`
	Detections []extract.Detection `json:"detections" yaml:"detections"`
}

// LineError reports a JSONL line that could not be parsed.
type LineError struct {
	Line int
	Err  error
}

func (e *LineError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

func (e *LineError) Unwrap() error {
	return e.Err
}

// FormatFor picks the format from a file extension.
func FormatFor(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jsonl", ".ndjson":
		return FormatJSONL
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// Load reads every commit in the file at path.
func Load(path string) ([]Commit, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening commit file: %w", err)
	}
	defer f.Close()

	commits, err := Read(f, FormatFor(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return commits, nil
}

// LoadAll reads the given files in order and concatenates their commits.
func LoadAll(paths []string) ([]Commit, error) {
	var out []Commit
	for _, p := range paths {
		cs, err := Load(p)
		if err != nil {
			return nil, err
		}
		out = append(out, cs...)
	}
	return out, nil
}

// Read parses commits from r in the given format.
func Read(r io.Reader, format string) ([]Commit, error) {
	switch format {
	case FormatJSONL:
		return readJSONL(r)
	case FormatYAML:
		return readYAML(r)
	case FormatJSON, "":
		return readJSON(r)
	default:
		return nil, fmt.Errorf("unknown input format %q", format)
	}
}

func readJSON(r io.Reader) ([]Commit, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading commits: %w", err)
	}
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, nil
	}

	if data[0] == '[' {
		var cs []Commit
		if err := json.Unmarshal(data, &cs); err != nil {
			return nil, fmt.Errorf("decoding commits: %w", err)
		}
		return cs, nil
	}

	var c Commit
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("decoding commit: %w", err)
	}
	return []Commit{c}, nil
}

func readJSONL(r io.Reader) ([]Commit, error) {
	var cs []Commit
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	n := 0
	for scanner.Scan() {
		n++
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}

		var c Commit
		if err := json.Unmarshal(line, &c); err != nil {
			return nil, &LineError{Line: n, Err: err}
		}
		cs = append(cs, c)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scanning commits: %w", err)
	}
	return cs, nil
}

func readYAML(r io.Reader) ([]Commit, error) {
	var cs []Commit
	dec := yaml.NewDecoder(r)
	for {
		var c Commit
		err := dec.Decode(&c)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("decoding commit %d: %w", len(cs)+1, err)
		}
		cs = append(cs, c)
	}
	return cs, nil
}
