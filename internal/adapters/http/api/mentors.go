// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/mentorverse/sensei/internal/domain/model"
	"github.com/mentorverse/sensei/pkg/metrics"
)

// RegistrationDependencies defines the interface for mentor intake.
type RegistrationDependencies interface {
	RegisterMentor(ctx context.Context, m model.Mentor) (RegistrationOutcome, error)
}

// MentorsHandler handles mentor registration requests.
type MentorsHandler struct {
	deps RegistrationDependencies
}

// NewMentorsHandler creates a new mentors handler.
func NewMentorsHandler(deps RegistrationDependencies) *MentorsHandler {
	return &MentorsHandler{deps: deps}
}

// HandleRegisterMentor handles POST /mentors requests. Accepted mentors are
// indexed asynchronously; the acknowledgement carries the registration and
// mentor identifiers so callers can follow up on /mentors/{id}/rank.
func (h *MentorsHandler) HandleRegisterMentor(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_mentor"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var mentor model.Mentor
	if err := json.NewDecoder(r.Body).Decode(&mentor); err != nil {
		metrics.RecordValidationFailure()
		writeValidationError(w, []model.FieldError{{Param: "body", Msg: "must be valid JSON"}})
		return
	}
	if errs := mentor.Validate(); len(errs) > 0 {
		metrics.RecordValidationFailure()
		writeValidationError(w, errs)
		return
	}

	out, err := h.deps.RegisterMentor(r.Context(), mentor)
	if err != nil {
		// Intake refused: the queue is full or shutting down.
		writeError(w, http.StatusTooManyRequests, "backpressure", WrapKind(op, ErrBackpressure, err))
		return
	}
	if out.Duplicate {
		writeJSON(w, http.StatusOK, ackResponse{
			Status:         "duplicate",
			Duplicate:      true,
			RegistrationID: out.RegistrationID,
			MentorID:       out.MentorID,
		})
		return
	}
	writeJSON(w, http.StatusAccepted, ackResponse{
		Status:         "accepted",
		Duplicate:      false,
		RegistrationID: out.RegistrationID,
		MentorID:       out.MentorID,
	})
}
