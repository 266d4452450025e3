// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/mentorverse/sensei/internal/domain/matchmaker"
	"github.com/mentorverse/sensei/internal/domain/model"
	"github.com/mentorverse/sensei/pkg/metrics"
)

// MatchmakingDependencies defines the interface for matchmaking operations.
type MatchmakingDependencies interface {
	Match(ctx context.Context, req *model.MatchRequest) (matchmaker.Result, error)
	MatchRoster(ctx context.Context, req *model.RosterMatchRequest) (matchmaker.Result, error)
}

// MatchmakingHandler handles matchmaking requests.
type MatchmakingHandler struct {
	deps       MatchmakingDependencies
	maxMentors int
}

// NewMatchmakingHandler creates a new matchmaking handler.
func NewMatchmakingHandler(deps MatchmakingDependencies, maxMentors int) *MatchmakingHandler {
	return &MatchmakingHandler{
		deps:       deps,
		maxMentors: maxMentors,
	}
}

// HandleMatch handles POST /matchmaking requests. The caller supplies both
// the mentee profile and the candidate mentor pool; the response carries up
// to four mentors annotated with match reasoning.
func (h *MatchmakingHandler) HandleMatch(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_matchmaking"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req model.MatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		metrics.RecordValidationFailure()
		writeValidationError(w, []model.FieldError{{Param: "body", Msg: "must be valid JSON"}})
		return
	}
	if errs := req.Validate(); len(errs) > 0 {
		metrics.RecordValidationFailure()
		writeValidationError(w, errs)
		return
	}
	if len(req.Mentors) > h.maxMentors {
		writeError(w, http.StatusBadRequest, "limit_exceeded", NewKind(op, ErrBadRequest))
		return
	}

	result, err := h.deps.Match(r.Context(), &req)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, matchResponse{Mentors: result.Mentors})
}

// HandleRosterMatch handles POST /matchmaking/directory requests. Only the
// mentee profile is supplied; the candidate pool is the registered roster.
func (h *MatchmakingHandler) HandleRosterMatch(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_matchmaking_directory"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req model.RosterMatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		metrics.RecordValidationFailure()
		writeValidationError(w, []model.FieldError{{Param: "body", Msg: "must be valid JSON"}})
		return
	}
	if errs := req.Validate(); len(errs) > 0 {
		metrics.RecordValidationFailure()
		writeValidationError(w, errs)
		return
	}

	result, err := h.deps.MatchRoster(r.Context(), &req)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, matchResponse{Mentors: result.Mentors})
}
