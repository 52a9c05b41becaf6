package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Reanooka-Kumar/TRACE--CIT/internal/github"
	"github.com/Reanooka-Kumar/TRACE--CIT/internal/matching"
	"github.com/Reanooka-Kumar/TRACE--CIT/internal/model"
	"github.com/Reanooka-Kumar/TRACE--CIT/internal/repository"
	"github.com/Reanooka-Kumar/TRACE--CIT/internal/search"
)

const (
	msgNoLocation      = "Could not determine location. Please enter it manually or check your GitHub profile."
	syntheticProfiles  = 3
	defaultSkillLabel  = "skilled"
	defaultSkillPrompt = "Software"
)

// Searcher runs a paged candidate search. *search.Orchestrator implements it.
type Searcher interface {
	Search(ctx context.Context, query, location string, loadMore bool) ([]model.Candidate, error)
}

// ProfileLookup fetches a single GitHub profile. *github.Client implements it.
type ProfileLookup interface {
	UserDetails(ctx context.Context, username string) (*github.UserDetails, error)
}

// ProfileGenerator invents candidate profiles. *llm.CandidateGenerator
// implements it.
type ProfileGenerator interface {
	Generate(ctx context.Context, skill, location string, count int) []model.Candidate
}

// TalentService serves the search, nearby and matching endpoints.
type TalentService struct {
	search    Searcher
	profiles  ProfileLookup
	users     repository.UserRepository
	fallback  *search.Fallback
	generator ProfileGenerator
	scorer    *matching.Scorer
	logger    *slog.Logger
}

// NewTalentService wires the talent endpoints. generator may be nil when no
// language model is configured; users may be nil when signed-in callers
// should not default their GitHub username from their account.
func NewTalentService(
	searcher Searcher,
	profiles ProfileLookup,
	users repository.UserRepository,
	fallback *search.Fallback,
	generator ProfileGenerator,
	scorer *matching.Scorer,
	logger *slog.Logger,
) *TalentService {
	return &TalentService{
		search:    searcher,
		profiles:  profiles,
		users:     users,
		fallback:  fallback,
		generator: generator,
		scorer:    scorer,
		logger:    logger,
	}
}

// Search returns candidates for query. An empty query lists the whole
// fallback dataset; a live search with no results falls back to filtering
// that dataset.
func (s *TalentService) Search(ctx context.Context, query string) []model.Candidate {
	if strings.TrimSpace(query) == "" {
		return s.fallback.All()
	}

	results, err := s.search.Search(ctx, query, "", false)
	if err != nil {
		s.logger.Warn("candidate search failed", slog.String("query", query), slog.String("error", err.Error()))
	}
	if len(results) > 0 {
		return results
	}

	s.logger.Debug("serving fallback candidates", slog.String("query", query))
	return s.fallback.Filter(query)
}

// NearbyRequest describes a location-scoped search. ManualLocation wins
// over the location on Username's GitHub profile. Viewer is the signed-in
// caller, if any; their stored github_link stands in for an empty Username.
type NearbyRequest struct {
	Username       string
	Skill          string
	ManualLocation string
	Viewer         string
}

// NearbyResult is the outcome of FindNearby. When Success is false only
// Message is meaningful.
type NearbyResult struct {
	Success    bool
	Location   string
	Candidates []model.Candidate
	Message    string
}

// FindNearby searches for Skill near the resolved location.
func (s *TalentService) FindNearby(ctx context.Context, req NearbyRequest) *NearbyResult {
	location := strings.TrimSpace(req.ManualLocation)
	username := strings.TrimSpace(req.Username)
	if location == "" && username == "" {
		username = s.viewerGitHub(ctx, req.Viewer)
	}
	if location == "" && username != "" {
		location = s.profileLocation(ctx, username)
	}
	if location == "" {
		return &NearbyResult{Success: false, Message: msgNoLocation}
	}

	results, err := s.search.Search(ctx, req.Skill, location, false)
	if err != nil {
		s.logger.Warn("nearby search failed", slog.String("location", location), slog.String("error", err.Error()))
		results = nil
	}

	if len(results) == 0 && s.generator != nil {
		skill := req.Skill
		if strings.TrimSpace(skill) == "" {
			skill = defaultSkillPrompt
		}
		s.logger.Info("no live candidates, generating profiles",
			slog.String("skill", skill),
			slog.String("location", location),
		)
		results = s.generator.Generate(ctx, skill, location, syntheticProfiles)
	}
	if results == nil {
		results = []model.Candidate{}
	}

	label := req.Skill
	if label == "" {
		label = defaultSkillLabel
	}

	return &NearbyResult{
		Success:    true,
		Location:   location,
		Candidates: results,
		Message:    fmt.Sprintf("Showing %s developers near %s", label, location),
	}
}

func (s *TalentService) viewerGitHub(ctx context.Context, viewer string) string {
	if s.users == nil || viewer == "" {
		return ""
	}
	user, err := s.users.GetByUsername(ctx, viewer)
	if err != nil {
		s.logger.Warn("viewer lookup failed", slog.String("username", viewer), slog.String("error", err.Error()))
		return ""
	}
	if user.GitHubLink == nil {
		return ""
	}
	return github.UsernameFromLink(*user.GitHubLink)
}

func (s *TalentService) profileLocation(ctx context.Context, username string) string {
	details, err := s.profiles.UserDetails(ctx, username)
	if err != nil {
		s.logger.Warn("github profile lookup failed", slog.String("username", username), slog.String("error", err.Error()))
		return ""
	}
	if details == nil {
		return ""
	}
	return strings.TrimSpace(details.Location)
}

// MatchSkills scores the overlap between a user's skills and a role's.
func (s *TalentService) MatchSkills(userSkills, requiredSkills []string) matching.SkillMatch {
	return matching.MatchSkills(userSkills, requiredSkills)
}

// ScoreCandidate gives a randomized fit score for a candidate.
func (s *TalentService) ScoreCandidate(candidateSkills, requiredSkills []string) matching.CandidateScore {
	return s.scorer.ScoreCandidate(candidateSkills, requiredSkills)
}

// AnalyzeResponse grades an interview answer.
func (s *TalentService) AnalyzeResponse(text string) matching.ResponseAnalysis {
	return s.scorer.AnalyzeResponse(text)
}
