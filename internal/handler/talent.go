package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/Reanooka-Kumar/TRACE--CIT/internal/auth"
	"github.com/Reanooka-Kumar/TRACE--CIT/internal/matching"
	"github.com/Reanooka-Kumar/TRACE--CIT/internal/model"
	"github.com/Reanooka-Kumar/TRACE--CIT/internal/service"
)

// TalentService is the part of service.TalentService the handler needs.
type TalentService interface {
	Search(ctx context.Context, query string) []model.Candidate
	FindNearby(ctx context.Context, req service.NearbyRequest) *service.NearbyResult
	MatchSkills(userSkills, requiredSkills []string) matching.SkillMatch
	ScoreCandidate(candidateSkills, requiredSkills []string) matching.CandidateScore
	AnalyzeResponse(text string) matching.ResponseAnalysis
}

// TalentHandler serves candidate search and the matching heuristics.
type TalentHandler struct {
	talent TalentService
	logger *slog.Logger
}

// NewTalentHandler creates a TalentHandler.
func NewTalentHandler(svc TalentService, logger *slog.Logger) *TalentHandler {
	return &TalentHandler{talent: svc, logger: logger}
}

type matchRequest struct {
	UserSkills     []string `json:"user_skills"     validate:"required"`
	RequiredSkills []string `json:"required_skills" validate:"required"`
}

type candidateScoreRequest struct {
	CandidateSkills []string `json:"candidate_skills" validate:"required"`
	RequiredSkills  []string `json:"required_skills"  validate:"required"`
}

type analyzeRequest struct {
	Text string `json:"text" validate:"required"`
}

type findNearbyRequest struct {
	Username       string `json:"username"`
	Skill          string `json:"skill"`
	ManualLocation string `json:"manual_location"`
}

type candidatesResponse struct {
	Candidates []model.Candidate `json:"candidates"`
}

type nearbyResponse struct {
	Success    bool              `json:"success"`
	Location   string            `json:"location"`
	Candidates []model.Candidate `json:"candidates"`
	Message    string            `json:"message"`
}

type nearbyFailure struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// HandleMatch scores a user's skills against a role.
//
// HTTP: POST /api/match
// REQUEST BODY: {"user_skills": ["Python"], "required_skills": ["Python", "Go"]}
func (h *TalentHandler) HandleMatch(w http.ResponseWriter, r *http.Request) {
	var req matchRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, h.talent.MatchSkills(req.UserSkills, req.RequiredSkills))
}

// HandleScoreCandidate returns a fit score for one candidate.
//
// HTTP: POST /api/match/candidate
func (h *TalentHandler) HandleScoreCandidate(w http.ResponseWriter, r *http.Request) {
	var req candidateScoreRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, h.talent.ScoreCandidate(req.CandidateSkills, req.RequiredSkills))
}

// HandleAnalyzeResponse grades an interview answer.
//
// HTTP: POST /api/interview/analyze
func (h *TalentHandler) HandleAnalyzeResponse(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, h.talent.AnalyzeResponse(req.Text))
}

// HandleSearch runs a candidate search.
//
// HTTP: GET /api/search?query=react
func (h *TalentHandler) HandleSearch(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("query")
	candidates := h.talent.Search(r.Context(), query)

	h.logger.Debug("search served",
		slog.String("query", query),
		slog.Int("results", len(candidates)),
	)
	writeJSON(w, http.StatusOK, candidatesResponse{Candidates: candidates})
}

// HandleFindNearby searches near the caller's location. A location that
// cannot be resolved is reported in the body with success=false, not as an
// HTTP error. Signed-in callers may omit username; the GitHub link on their
// account is used instead.
//
// HTTP: POST /api/find-nearby
// REQUEST BODY: {"username": "octocat", "skill": "Go", "manual_location": ""}
func (h *TalentHandler) HandleFindNearby(w http.ResponseWriter, r *http.Request) {
	var req findNearbyRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, err)
		return
	}

	viewer, _ := auth.SubjectFromContext(r.Context())
	res := h.talent.FindNearby(r.Context(), service.NearbyRequest{
		Username:       req.Username,
		Skill:          req.Skill,
		ManualLocation: req.ManualLocation,
		Viewer:         viewer,
	})
	if !res.Success {
		writeJSON(w, http.StatusOK, nearbyFailure{Success: false, Message: res.Message})
		return
	}

	writeJSON(w, http.StatusOK, nearbyResponse{
		Success:    true,
		Location:   res.Location,
		Candidates: res.Candidates,
		Message:    res.Message,
	})
}
