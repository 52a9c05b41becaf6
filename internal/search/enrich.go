package search

import (
	"math"
	"math/rand/v2"
	"net/url"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/Reanooka-Kumar/TRACE--CIT/internal/github"
	"github.com/Reanooka-Kumar/TRACE--CIT/internal/model"
)

const (
	baseScore      = 60
	maxRepoBoost   = 20.0
	maxFollowBoost = 10.0
	maxScore       = 99

	badgeProbability = 0.4
	badgeBoost       = 15
)

type badgeSource struct {
	platform string
	label    string
}

var badgePool = []badgeSource{
	{"Coursera", "Certified"},
	{"LinkedIn", "Skill Endorsed"},
	{"Udemy", "Course Complete"},
}

// Rand is the randomness the enrichment step needs. *rand.Rand satisfies
// it; tests pass a seeded one.
type Rand interface {
	Float64() float64
	IntN(n int) int
}

// globalRand uses the concurrency-safe top-level functions of math/rand/v2.
type globalRand struct{}

func (globalRand) Float64() float64 { return rand.Float64() }
func (globalRand) IntN(n int) int   { return rand.IntN(n) }

// pickBadge returns a trust badge with probability 0.4, drawn uniformly
// from the platform pool.
func pickBadge(r Rand) *model.Badge {
	if r.Float64() >= badgeProbability {
		return nil
	}
	src := badgePool[r.IntN(len(badgePool))]
	return &model.Badge{
		Verified:        true,
		Platform:        src.platform,
		BadgeText:       src.label + " - Advanced ML",
		TrustScoreBoost: badgeBoost,
	}
}

// Score computes the 0..99 ranking score of a profile.
func Score(publicRepos, followers int, badge *model.Badge) int {
	boost := 0
	if badge != nil {
		boost = badge.TrustScoreBoost
	}

	s := float64(baseScore) +
		math.Min(maxRepoBoost, 0.5*float64(publicRepos)) +
		math.Min(maxFollowBoost, 0.1*float64(followers)) +
		float64(boost)

	return min(maxScore, int(s))
}

var titleCaser = cases.Title(language.Und)

// InferRole derives a job title from the search query:
// "machine learning engineer" becomes "Machine Learning Engineer".
func InferRole(query string) string {
	if strings.TrimSpace(query) == "" {
		return "Software Engineer"
	}
	base := strings.TrimSpace(strings.ReplaceAll(query, "engineer", ""))
	return strings.TrimSpace(titleCaser.String(base) + " Engineer")
}

// InferSkills lists the first query word followed by a fixed skill set.
func InferSkills(query string) []string {
	fields := strings.Fields(query)
	if len(fields) == 0 {
		return []string{"Coding", "Design"}
	}
	return []string{fields[0], "Python", "TensorFlow", "Git"}
}

// LinkedInSearchURL links to a LinkedIn people search for name and query.
func LinkedInSearchURL(name, query string) string {
	if strings.TrimSpace(query) == "" {
		query = "developer"
	}
	return "https://www.linkedin.com/search/results/all/?keywords=" +
		url.QueryEscape(name) + "+" + url.QueryEscape(query)
}

// enrich turns a fetched profile into a ranked candidate.
func enrich(p github.Profile, query string, r Rand) model.Candidate {
	badge := pickBadge(r)
	return model.Candidate{
		ID:          p.ID,
		Name:        p.Name,
		Username:    p.Username,
		Avatar:      p.Avatar,
		Source:      "GitHub",
		Link:        p.Link,
		Bio:         p.Bio,
		PublicRepos: p.PublicRepos,
		Followers:   p.Followers,
		Role:        InferRole(query),
		Skills:      InferSkills(query),
		Score:       Score(p.PublicRepos, p.Followers, badge),
		Badge:       badge,
		LinkedIn:    LinkedInSearchURL(p.Name, query),
		GitHub:      p.Link,
	}
}
