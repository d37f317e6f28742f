package api

import (
	"net/http"

	"github.com/sprite-ai/refmark/internal/check"
	"github.com/sprite-ai/refmark/internal/diff"
	"github.com/sprite-ai/refmark/internal/display"
	"github.com/sprite-ai/refmark/internal/ingest"
	"github.com/sprite-ai/refmark/internal/model"
)

// --- Health ---

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// --- Build ---

func (s *Server) handleBuild(w http.ResponseWriter, r *http.Request) {
	var c ingest.Commit
	if err := readJSON(r, &c); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}
	if c.CommitID == "" {
		s.writeError(w, http.StatusBadRequest, "commit_id is required")
		return
	}

	s.writeJSON(w, http.StatusOK, s.builder.FromDetections(c))
}

// --- Display ---

// fileLengths carries the line counts of the files a commit touches, on the
// parent (before) and the commit itself (after). Without them no range is
// clamped.
type fileLengths struct {
	Before map[string]int `json:"lengths_before,omitempty"`
	After  map[string]int `json:"lengths_after,omitempty"`
}

type displayRequest struct {
	Entry *model.Entry `json:"entry"`
	Diff  string       `json:"diff,omitempty"`
	Arrow string       `json:"arrow,omitempty"`
	fileLengths
}

type displayResponse struct {
	CommitID string          `json:"commit_id"`
	Labels   []display.Label `json:"labels"`
}

func (s *Server) handleDisplay(w http.ResponseWriter, r *http.Request) {
	var req displayRequest
	if err := readJSON(r, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}
	if req.Entry == nil {
		s.writeError(w, http.StatusBadRequest, "entry is required")
		return
	}
	req.Entry.AttachEvents()

	p, err := parseOptional(req.Diff, req.fileLengths)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "parsing diff: "+err.Error())
		return
	}

	arrow := req.Arrow
	if arrow == "" {
		arrow = s.arrow
	}

	var b display.Bounder
	if p != nil {
		b = p
	}
	s.writeJSON(w, http.StatusOK, displayResponse{
		CommitID: req.Entry.CommitID,
		Labels:   display.Describe(req.Entry, arrow, b),
	})
}

// --- Check ---

type checkRequest struct {
	Entry *model.Entry `json:"entry"`
	Diff  string       `json:"diff,omitempty"`
	Skip  []string     `json:"skip,omitempty"`
	fileLengths
}

func (s *Server) handleCheck(w http.ResponseWriter, r *http.Request) {
	var req checkRequest
	if err := readJSON(r, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}
	if req.Entry == nil {
		s.writeError(w, http.StatusBadRequest, "entry is required")
		return
	}
	req.Entry.AttachEvents()

	p, err := parseOptional(req.Diff, req.fileLengths)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "parsing diff: "+err.Error())
		return
	}

	results := check.Run(req.Entry, p, req.Skip)
	s.writeJSON(w, http.StatusOK, results.Report())
}

// parseOptional parses raw when present and records the given file
// lengths on it. A nil patch disables clamping and the patch checks.
func parseOptional(raw string, lengths fileLengths) (*diff.Patch, error) {
	if raw == "" && len(lengths.Before) == 0 && len(lengths.After) == 0 {
		return nil, nil
	}
	p := &diff.Patch{}
	if raw != "" {
		var err error
		if p, err = diff.Parse(raw); err != nil {
			return nil, err
		}
	}
	for path, n := range lengths.Before {
		p.SetLength(path, diff.Old, n)
	}
	for path, n := range lengths.After {
		p.SetLength(path, diff.New, n)
	}
	return p, nil
}
