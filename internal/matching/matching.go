// Package matching holds the heuristic scorers behind the match and
// interview endpoints. None of them call a model; the "AI" wording in
// their output is part of the product copy.
package matching

import (
	"fmt"
	"math/rand/v2"
	"slices"
	"strings"
)

const (
	pointsPerSkill   = 10
	skillMatchReport = "Candidate shows strong potential in required areas."

	overlapWeight   = 20
	minAdjustment   = -5
	maxAdjustment   = 15
	minConfidence   = 0.7
	maxConfidence   = 0.99
	keywordsForGood = 2
)

var interviewKeywords = []string{"experience", "team", "lead", "solve", "python", "react"}

// SkillMatch is the result of MatchSkills.
type SkillMatch struct {
	Score      int      `json:"score"`
	Matches    []string `json:"matches"`
	IsVerified bool     `json:"is_verified"`
	Analysis   string   `json:"ai_analysis"`
}

// MatchSkills awards 10 points for every user skill that appears in
// required. Comparison is exact and case-sensitive; a skill listed twice
// by the user counts twice.
func MatchSkills(user, required []string) SkillMatch {
	m := SkillMatch{Matches: []string{}, IsVerified: true, Analysis: skillMatchReport}
	for _, s := range user {
		if slices.Contains(required, s) {
			m.Score += pointsPerSkill
			m.Matches = append(m.Matches, s)
		}
	}
	return m
}

// CandidateScore is the result of Scorer.ScoreCandidate.
type CandidateScore struct {
	Score  int    `json:"score"`
	Reason string `json:"reason"`
}

// ResponseAnalysis is the result of Scorer.AnalyzeResponse.
type ResponseAnalysis struct {
	Confidence float64 `json:"confidence"`
	Sentiment  string  `json:"sentiment"`
	Feedback   string  `json:"feedback"`
}

// Rand is the randomness the scorers draw from. *rand.Rand implements it.
type Rand interface {
	IntN(n int) int
	Float64() float64
}

type globalRand struct{}

func (globalRand) IntN(n int) int   { return rand.IntN(n) }
func (globalRand) Float64() float64 { return rand.Float64() }

// Scorer runs the randomized heuristics.
type Scorer struct {
	rand Rand
}

// NewScorer returns a Scorer using r, or the global source when r is nil.
func NewScorer(r Rand) *Scorer {
	if r == nil {
		r = globalRand{}
	}
	return &Scorer{rand: r}
}

// ScoreCandidate scores 20 points per overlapping skill, adds a random
// adjustment in [-5, 15] and clamps the total to [0, 100].
func (s *Scorer) ScoreCandidate(candidateSkills, requiredSkills []string) CandidateScore {
	overlap := 0
	for _, sk := range candidateSkills {
		if slices.Contains(requiredSkills, sk) {
			overlap++
		}
	}

	adj := minAdjustment + s.rand.IntN(maxAdjustment-minAdjustment+1)
	score := min(100, max(0, overlap*overlapWeight+adj))

	return CandidateScore{
		Score:  score,
		Reason: fmt.Sprintf("Matched %d core skills. AI analysis suggests good cultural fit.", overlap),
	}
}

// AnalyzeResponse counts how many interview keywords occur in text.
func (s *Scorer) AnalyzeResponse(text string) ResponseAnalysis {
	lower := strings.ToLower(text)
	hits := 0
	for _, k := range interviewKeywords {
		if strings.Contains(lower, k) {
			hits++
		}
	}

	feedback := "Could be more specific."
	if hits > keywordsForGood {
		feedback = "Good technical understanding."
	}

	return ResponseAnalysis{
		Confidence: minConfidence + s.rand.Float64()*(maxConfidence-minConfidence),
		Sentiment:  "positive",
		Feedback:   feedback,
	}
}
