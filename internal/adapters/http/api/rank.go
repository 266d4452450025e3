// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"
	"strings"
)

// RankDependencies defines the interface for rank operations.
type RankDependencies interface {
	MentorRank(ctx context.Context, mentorID string) (Entry, error)
}

// RankHandler handles mentor rank requests.
type RankHandler struct {
	deps RankDependencies
}

// NewRankHandler creates a new rank handler.
func NewRankHandler(deps RankDependencies) *RankHandler {
	return &RankHandler{deps: deps}
}

// HandleMentorRank handles GET /mentors/{mentor_id}/rank requests.
func (h *RankHandler) HandleMentorRank(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	// Extract path parameter between /mentors/ and /rank
	path := strings.TrimPrefix(r.URL.Path, "/mentors/")
	mentorID, ok := strings.CutSuffix(path, "/rank")
	if !ok || mentorID == "" || strings.Contains(mentorID, "/") {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}
	entry, err := h.deps.MentorRank(r.Context(), mentorID)
	if err != nil {
		// If upstream exposes not-found, translate; otherwise 500
		if isNotFound(err) {
			writeError(w, http.StatusNotFound, "not_found", err)
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", err)
		return
	}
	writeJSON(w, http.StatusOK, entry)
}
