// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/mentorverse/sensei/internal/domain/matchmaker"
	"github.com/mentorverse/sensei/internal/domain/model"
	"github.com/mentorverse/sensei/internal/domain/types"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	// Match scores a caller-supplied mentor pool against a mentee profile.
	Match(ctx context.Context, req *model.MatchRequest) (matchmaker.Result, error)

	// MatchRoster scores the registered mentor roster against a mentee profile.
	MatchRoster(ctx context.Context, req *model.RosterMatchRequest) (matchmaker.Result, error)

	// RegisterMentor pushes a mentor into the roster intake pipeline.
	RegisterMentor(ctx context.Context, m model.Mentor) (RegistrationOutcome, error)

	// Read operations expose roster data.
	TopMentors(ctx context.Context, n int) ([]Entry, error)
	MentorRank(ctx context.Context, mentorID string) (Entry, error)
}

// Entry mirrors the read shape returned by roster queries.
type Entry = types.Entry

// RegistrationOutcome mirrors the intake acknowledgement shape.
type RegistrationOutcome = types.RegistrationOutcome

const (
	defaultMaxRosterLimit       = 100
	defaultMaxMentorsPerRequest = 1000
)

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler      *HealthHandler
	statsHandler       *StatsHandler
	matchmakingHandler *MatchmakingHandler
	mentorsHandler     *MentorsHandler
	rosterHandler      *RosterHandler
	rankHandler        *RankHandler

	maxRosterLimit       int
	maxMentorsPerRequest int
}

// Option applies a configuration option to the Server.
type Option func(*Server)

// WithMaxRosterLimit caps GET /mentors/top?limit.
func WithMaxRosterLimit(limit int) Option {
	return func(s *Server) {
		if limit > 0 {
			s.maxRosterLimit = limit
		}
	}
}

// WithMaxMentorsPerRequest caps the candidate pool accepted by POST /matchmaking.
func WithMaxMentorsPerRequest(limit int) Option {
	return func(s *Server) {
		if limit > 0 {
			s.maxMentorsPerRequest = limit
		}
	}
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, opts ...Option) *Server {
	s := &Server{
		maxRosterLimit:       defaultMaxRosterLimit,
		maxMentorsPerRequest: defaultMaxMentorsPerRequest,
	}
	for _, opt := range opts {
		opt(s)
	}

	s.healthHandler = NewHealthHandler()
	s.statsHandler = NewStatsHandler(statsProvider)
	s.matchmakingHandler = NewMatchmakingHandler(deps, s.maxMentorsPerRequest)
	s.mentorsHandler = NewMentorsHandler(deps)
	s.rosterHandler = NewRosterHandler(deps, s.maxRosterLimit)
	s.rankHandler = NewRankHandler(deps)
	return s
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(ctx context.Context, mux *http.ServeMux) {
	// Specific paths first (most specific to least specific)
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/metrics", MetricsMiddleware(s.healthHandler.HandleHealth, "metrics"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/matchmaking", instrument(s.matchmakingHandler.HandleMatch, "matchmaking"))
	mux.HandleFunc("/matchmaking/directory", instrument(s.matchmakingHandler.HandleRosterMatch, "matchmaking_directory"))
	mux.HandleFunc("/mentors", instrument(s.mentorsHandler.HandleRegisterMentor, "mentors"))
	mux.HandleFunc("/mentors/top", instrument(s.rosterHandler.HandleTopMentors, "mentors_top"))
	mux.HandleFunc("/mentors/", instrument(s.rankHandler.HandleMentorRank, "mentors_rank"))
}

// instrument stacks the standard middleware for business endpoints.
func instrument(next http.HandlerFunc, endpoint string) http.HandlerFunc {
	return MetricsMiddleware(RequestIDMiddleware(next), endpoint)
}

// matchResponse mirrors the OpenAPI schema for matchmaking responses.
type matchResponse struct {
	Mentors []model.MatchedMentor `json:"mentors"`
}

// ackResponse acknowledges a mentor registration submission.
type ackResponse struct {
	Status         string `json:"status"`
	Duplicate      bool   `json:"duplicate"`
	RegistrationID string `json:"registrationId,omitempty"`
	MentorID       string `json:"mentorId,omitempty"`
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// validationResponse is the 400 shape for malformed request payloads.
type validationResponse struct {
	Message string             `json:"message"`
	Errors  []model.FieldError `json:"errors"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

func writeValidationError(w http.ResponseWriter, errs []model.FieldError) {
	writeJSON(w, http.StatusBadRequest, validationResponse{
		Message: "Invalid request payload",
		Errors:  errs,
	})
}

// isNotFound allows the API to translate upstream not-found errors to 404.
// This stays generic to avoid tight coupling with specific packages.
func isNotFound(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(strings.ToLower(err.Error()), "not found")
}
