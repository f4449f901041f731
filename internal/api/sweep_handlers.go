package api

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/banshee-data/lanesim/internal/httputil"
	"github.com/banshee-data/lanesim/internal/sweep"
)

// handleSweepStart starts a background sweep
func (s *Server) handleSweepStart(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.writeJSONError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	if s.runner == nil {
		s.writeJSONError(w, http.StatusServiceUnavailable, "Sweep runner not configured")
		return
	}

	// An empty body is a valid request: normalisation fills the default
	// ratio range, trial count, and worker pool.
	var req sweep.Request
	if r.Body != nil && r.ContentLength != 0 {
		if err := httputil.DecodeJSON(r, &req, 1<<20); err != nil {
			s.writeJSONError(w, http.StatusBadRequest, "Invalid request: "+err.Error())
			return
		}
	}

	// The sweep must outlive this request, so it does not run under
	// r.Context(). Cancellation goes through /api/sweep/stop.
	if err := s.runner.Start(context.Background(), req); err != nil {
		s.writeJSONError(w, http.StatusConflict, err.Error())
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]string{"status": "started"})
}

// handleSweepStatus returns the current sweep state
func (s *Server) handleSweepStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeJSONError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	if s.runner == nil {
		s.writeJSONError(w, http.StatusServiceUnavailable, "Sweep runner not configured")
		return
	}

	s.writeJSON(w, http.StatusOK, s.runner.GetState())
}

// handleSweepStop cancels a running sweep
func (s *Server) handleSweepStop(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.writeJSONError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	if s.runner == nil {
		s.writeJSONError(w, http.StatusServiceUnavailable, "Sweep runner not configured")
		return
	}

	s.runner.Stop()
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "stopped"})
}

// listSweepRuns returns stored sweep runs, newest first. Query params:
//
//	limit (optional, default 100)
func (s *Server) listSweepRuns(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeJSONError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	if s.db == nil {
		s.writeJSONError(w, http.StatusServiceUnavailable, "No database configured")
		return
	}

	limit := 0
	if l := r.URL.Query().Get("limit"); l != "" {
		parsed, err := strconv.Atoi(l)
		if err != nil || parsed < 1 {
			s.writeJSONError(w, http.StatusBadRequest, "Invalid 'limit' parameter")
			return
		}
		limit = parsed
	}

	runs, err := s.db.ListSweepRuns(limit)
	if err != nil {
		s.writeJSONError(w, http.StatusInternalServerError,
			fmt.Sprintf("Failed to list sweep runs: %v", err))
		return
	}
	s.writeJSON(w, http.StatusOK, runs)
}

// showSweepRun returns one stored run with its per-ratio results. The run
// ID comes from the path: /api/sweeps/{id}.
func (s *Server) showSweepRun(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeJSONError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	if s.db == nil {
		s.writeJSONError(w, http.StatusServiceUnavailable, "No database configured")
		return
	}

	idStr := strings.TrimPrefix(r.URL.Path, "/api/sweeps/")
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil || id < 1 {
		s.writeJSONError(w, http.StatusBadRequest, "Invalid sweep run ID")
		return
	}

	run, results, err := s.db.GetSweepRun(id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			s.writeJSONError(w, http.StatusNotFound, fmt.Sprintf("sweep run %d not found", id))
			return
		}
		s.writeJSONError(w, http.StatusInternalServerError,
			fmt.Sprintf("Failed to load sweep run: %v", err))
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"run":     run,
		"results": results,
	})
}
