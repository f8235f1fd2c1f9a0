package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Kamon-Tahara-504/HypoFrame/internal/db"
	"github.com/Kamon-Tahara-504/HypoFrame/internal/server/middleware"
	"github.com/Kamon-Tahara-504/HypoFrame/internal/types"
)

const (
	defaultListLimit = 50
	maxListLimit     = 100
)

// handleCreateRun persists a generation result for the authenticated user.
func (s *Server) handleCreateRun(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var ins types.RunInsert
	if err := json.NewDecoder(r.Body).Decode(&ins); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := s.validate.Struct(ins); err != nil {
		s.errorResponse(w, http.StatusBadRequest, validationMessage(err))
		return
	}

	id, err := s.store.InsertRun(r.Context(), userID, &ins)
	if err != nil {
		s.logger.Error("failed to insert run", zap.Error(err))
		s.errorResponse(w, http.StatusInternalServerError, "Failed to save run")
		return
	}
	s.jsonResponse(w, http.StatusCreated, map[string]uuid.UUID{"id": id})
}

// handleListRuns returns the authenticated user's runs, newest updated first.
func (s *Server) handleListRuns(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	limit := defaultListLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			s.errorResponse(w, http.StatusBadRequest, "Invalid limit")
			return
		}
		limit = min(n, maxListLimit)
	}
	offset := 0
	if v := r.URL.Query().Get("offset"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			s.errorResponse(w, http.StatusBadRequest, "Invalid offset")
			return
		}
		offset = n
	}

	items, err := s.store.ListRuns(r.Context(), userID, limit, offset)
	if err != nil {
		s.logger.Error("failed to list runs", zap.Error(err))
		s.errorResponse(w, http.StatusInternalServerError, "Failed to list runs")
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{"runs": items})
}

// handleGetRun returns one owned run. Other owners' runs and malformed IDs
// both come back as 404.
func (s *Server) handleGetRun(w http.ResponseWriter, r *http.Request) {
	userID, runID, ok := s.runRequest(w, r)
	if !ok {
		return
	}

	run, err := s.store.GetRun(r.Context(), runID, userID)
	if err != nil {
		s.runError(w, err, "failed to get run")
		return
	}
	s.jsonResponse(w, http.StatusOK, run)
}

// handlePatchRun applies a partial edit to the editable fields of an owned
// run, appending one audit row per changed field.
func (s *Server) handlePatchRun(w http.ResponseWriter, r *http.Request) {
	userID, runID, ok := s.runRequest(w, r)
	if !ok {
		return
	}

	var patch types.RunPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if patch.Empty() {
		s.errorResponse(w, http.StatusBadRequest, "No editable fields in patch")
		return
	}

	run, err := s.store.UpdateRun(r.Context(), runID, userID, &patch)
	if err != nil {
		s.runError(w, err, "failed to update run")
		return
	}
	s.jsonResponse(w, http.StatusOK, run)
}

// handleListEditLogs returns the append-only audit trail of an owned run.
func (s *Server) handleListEditLogs(w http.ResponseWriter, r *http.Request) {
	userID, runID, ok := s.runRequest(w, r)
	if !ok {
		return
	}

	// Ownership check before exposing the trail.
	if _, err := s.store.GetRun(r.Context(), runID, userID); err != nil {
		s.runError(w, err, "failed to get run")
		return
	}

	logs, err := s.store.ListEditLogs(r.Context(), runID)
	if err != nil {
		s.logger.Error("failed to list edit logs", zap.Error(err))
		s.errorResponse(w, http.StatusInternalServerError, "Failed to list edit logs")
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{"logs": logs})
}

// handleRegenerate re-runs generation for a stored run's URL and replaces its
// generated fields. Each run may be regenerated at most once.
func (s *Server) handleRegenerate(w http.ResponseWriter, r *http.Request) {
	userID, runID, ok := s.runRequest(w, r)
	if !ok {
		return
	}

	run, err := s.store.GetRun(r.Context(), runID, userID)
	if err != nil {
		s.runError(w, err, "failed to get run")
		return
	}
	if run.RegeneratedCount >= 1 {
		s.errorResponse(w, http.StatusConflict, "再生成は1回までです。")
		return
	}

	resp, code := s.runWithTimeout(r, run.InputURL, "")
	if code != "" {
		s.apiError(w, code)
		return
	}

	updated, err := s.store.UpdateGeneration(r.Context(), runID, userID, resp)
	if err != nil {
		// The generation itself succeeded; return it so the result is not
		// lost, flagged as unsaved.
		s.logger.Error("failed to persist regeneration", zap.Error(err))
		s.jsonResponse(w, http.StatusOK, map[string]any{"result": resp, "saved": false})
		return
	}
	s.jsonResponse(w, http.StatusOK, updated)
}

// runRequest extracts the authenticated user and the {id} path value. A
// malformed ID is reported as 404, indistinguishable from a missing run.
func (s *Server) runRequest(w http.ResponseWriter, r *http.Request) (userID, runID uuid.UUID, ok bool) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return uuid.Nil, uuid.Nil, false
	}
	runID, err = uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusNotFound, "Run not found")
		return uuid.Nil, uuid.Nil, false
	}
	return userID, runID, true
}

// runError maps store errors for single-run operations.
func (s *Server) runError(w http.ResponseWriter, err error, logMsg string) {
	if errors.Is(err, db.ErrNotFound) {
		s.errorResponse(w, http.StatusNotFound, "Run not found")
		return
	}
	s.logger.Error(logMsg, zap.Error(err))
	s.errorResponse(w, http.StatusInternalServerError, "Internal server error")
}
