// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"
	"strconv"
)

// RosterDependencies defines the interface for roster listing operations.
type RosterDependencies interface {
	TopMentors(ctx context.Context, n int) ([]Entry, error)
}

// RosterHandler handles roster listing requests.
type RosterHandler struct {
	deps     RosterDependencies
	maxLimit int
}

// NewRosterHandler creates a new roster handler.
func NewRosterHandler(deps RosterDependencies, maxLimit int) *RosterHandler {
	return &RosterHandler{
		deps:     deps,
		maxLimit: maxLimit,
	}
}

// HandleTopMentors handles GET /mentors/top?limit=N requests.
func (h *RosterHandler) HandleTopMentors(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_top_mentors"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	limitStr := r.URL.Query().Get("limit")
	n, err := strconv.Atoi(limitStr)
	if err != nil || n < 1 {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}
	if n > h.maxLimit {
		writeError(w, http.StatusBadRequest, "limit_exceeded", NewKind(op, ErrBadRequest))
		return
	}
	entries, err := h.deps.TopMentors(r.Context(), n)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, entries)
}
