package server

import (
	"bytes"
	"encoding/json"
	"io"
	"mime"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/brickfall/pkg/brick"
	"github.com/matzehuels/brickfall/pkg/buildinfo"
	"github.com/matzehuels/brickfall/pkg/cascade"
	errs "github.com/matzehuels/brickfall/pkg/errors"
	bio "github.com/matzehuels/brickfall/pkg/io"
	"github.com/matzehuels/brickfall/pkg/observability"
	"github.com/matzehuels/brickfall/pkg/pipeline"
	"github.com/matzehuels/brickfall/pkg/render/dot"
	"github.com/matzehuels/brickfall/pkg/report"
	"github.com/matzehuels/brickfall/pkg/store"
)

// AnalyzeResponse is the body returned by POST /v1/analyze.
type AnalyzeResponse struct {
	ID           string `json:"id"`
	BrickCount   int    `json:"brick_count"`
	EdgeCount    int    `json:"edge_count"`
	Moved        int    `json:"moved"`
	SafeCount    int    `json:"safe_count"`
	CascadeTotal int    `json:"cascade_total"`
	Cached       bool   `json:"cached"`
}

// FallResponse is the body returned by the fall endpoint.
type FallResponse struct {
	Brick   brick.ID   `json:"brick"`
	Count   int        `json:"count"`
	Falling []brick.ID `json:"falling"`
}

type errorResponse struct {
	Error string    `json:"error"`
	Code  errs.Code `json:"code,omitempty"`
}

// HealthResponse is the body returned by GET /healthz.
type HealthResponse struct {
	Status string         `json:"status"`
	Build  buildinfo.Info `json:"build"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok", Build: buildinfo.Get()})
}

// handleAnalyze accepts either a JSON snapshot (application/json) or the
// line format (any other content type).
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, MaxBodyBytes))
	if err != nil {
		s.writeError(w, r, errs.Wrap(errs.ErrCodeInvalidInput, err, "read body"))
		return
	}

	var bricks []brick.Brick
	if isJSON(r.Header.Get("Content-Type")) {
		bricks, err = bio.ReadJSON(bytes.NewReader(body))
	} else {
		bricks, err = bio.ReadBricks(bytes.NewReader(body))
	}
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	workers := s.workers
	if v := r.URL.Query().Get("workers"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			s.writeError(w, r, errs.New(errs.ErrCodeInvalidInput, "invalid workers %q", v))
			return
		}
		workers = n
	}

	res, err := s.runner.Execute(r.Context(), pipeline.Options{
		Bricks:  bricks,
		Workers: workers,
		Refresh: r.URL.Query().Get("refresh") == "true",
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.store.Save(r.Context(), res.Report); err != nil {
		s.writeError(w, r, err)
		return
	}

	rep := res.Report
	writeJSON(w, http.StatusCreated, AnalyzeResponse{
		ID:           rep.ID,
		BrickCount:   rep.BrickCount,
		EdgeCount:    rep.EdgeCount,
		Moved:        rep.Moved,
		SafeCount:    rep.SafeCount,
		CascadeTotal: rep.CascadeTotal,
		Cached:       res.CacheInfo.ReportHit,
	})
}

func (s *Server) handleListReports(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			s.writeError(w, r, errs.New(errs.ErrCodeInvalidInput, "invalid limit %q", v))
			return
		}
		limit = n
	}
	entries, err := s.store.List(r.Context(), limit)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if entries == nil {
		entries = []store.Entry{}
	}
	writeJSON(w, http.StatusOK, entries)
}

func (s *Server) handleGetReport(w http.ResponseWriter, r *http.Request) {
	rep, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	switch r.URL.Query().Get("format") {
	case "", "json":
		writeJSON(w, http.StatusOK, rep)
	case "yaml":
		var buf bytes.Buffer
		if err := report.WriteYAML(&buf, rep); err != nil {
			s.writeError(w, r, err)
			return
		}
		w.Header().Set("Content-Type", "application/yaml")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(buf.Bytes())
	default:
		s.writeError(w, r, errs.New(errs.ErrCodeInvalidInput, "unsupported format %q", r.URL.Query().Get("format")))
	}
}

func (s *Server) handleReportDOT(w http.ResponseWriter, r *http.Request) {
	rep, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	opts := dot.Options{Detailed: r.URL.Query().Get("detailed") == "true"}
	if v := r.URL.Query().Get("remove"); v != "" {
		id, err := parseBrickID(v)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		falling, err := fallSet(rep, id)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		opts.Highlight, opts.Removed, opts.Falling = true, id, falling
	}

	w.Header().Set("Content-Type", "text/vnd.graphviz")
	w.WriteHeader(http.StatusOK)
	_, _ = io.WriteString(w, dot.ToDOT(rep, opts))
}

func (s *Server) handleFall(w http.ResponseWriter, r *http.Request) {
	rep, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	id, err := parseBrickID(chi.URLParam(r, "brick"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	falling, err := fallSet(rep, id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, FallResponse{Brick: id, Count: len(falling) - 1, Falling: falling})
}

// fallSet recomputes the falling set for id from the stored support graph.
func fallSet(rep *report.Report, id brick.ID) ([]brick.ID, error) {
	g, err := rep.Graph()
	if err != nil {
		return nil, err
	}
	return cascade.New(g).Fall(id)
}

func parseBrickID(s string) (brick.ID, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, errs.New(errs.ErrCodeInvalidInput, "invalid brick id %q", s)
	}
	return brick.ID(n), nil
}

func isJSON(contentType string) bool {
	mt, _, err := mime.ParseMediaType(contentType)
	return err == nil && mt == "application/json"
}

// statusFor maps an error code to an HTTP status.
func statusFor(code errs.Code) int {
	switch code {
	case errs.ErrCodeInvalidInput, errs.ErrCodeInvalidBrick, errs.ErrCodeInvalidFormat:
		return http.StatusBadRequest
	case errs.ErrCodeNotFound, errs.ErrCodeUnknownBrick:
		return http.StatusNotFound
	case errs.ErrCodeInvariant:
		return http.StatusUnprocessableEntity
	case errs.ErrCodeNetwork, errs.ErrCodeStorage:
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := errs.GetCode(err)
	status := statusFor(code)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "err", err)
	}
	observability.HTTP().OnError(r.Context(), r.Method, r.URL.Path, err)
	writeJSON(w, status, errorResponse{Error: errs.UserMessage(err), Code: code})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
