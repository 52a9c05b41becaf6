package search

import (
	_ "embed"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/Reanooka-Kumar/TRACE--CIT/internal/model"
)

//go:embed fallback.yaml
var fallbackYAML []byte

type fallbackFile struct {
	Candidates []fallbackEntry `yaml:"candidates"`
}

type fallbackEntry struct {
	ID         int64    `yaml:"id"`
	Name       string   `yaml:"name"`
	Role       string   `yaml:"role"`
	Verified   bool     `yaml:"verified"`
	Skills     []string `yaml:"skills"`
	LinkedIn   string   `yaml:"linkedin"`
	GitHub     string   `yaml:"github"`
	Image      string   `yaml:"image"`
	Experience string   `yaml:"experience"`
}

// Fallback is the static candidate dataset used when live search has
// nothing to offer.
type Fallback struct {
	candidates []model.Candidate
}

// LoadFallback parses the embedded dataset.
func LoadFallback() (*Fallback, error) {
	return parseFallback(fallbackYAML)
}

func parseFallback(data []byte) (*Fallback, error) {
	var f fallbackFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("search: parsing fallback dataset: %w", err)
	}

	out := make([]model.Candidate, 0, len(f.Candidates))
	for _, e := range f.Candidates {
		out = append(out, model.Candidate{
			ID:         e.ID,
			Name:       e.Name,
			Role:       e.Role,
			Verified:   e.Verified,
			Skills:     e.Skills,
			LinkedIn:   e.LinkedIn,
			GitHub:     e.GitHub,
			Image:      e.Image,
			Experience: e.Experience,
		})
	}
	return &Fallback{candidates: out}, nil
}

// All returns a copy of the whole dataset.
func (f *Fallback) All() []model.Candidate {
	return append([]model.Candidate(nil), f.candidates...)
}

// Filter returns the entries whose name, role or any skill contains query,
// ignoring case.
func (f *Fallback) Filter(query string) []model.Candidate {
	q := strings.ToLower(query)
	out := []model.Candidate{}
	for _, c := range f.candidates {
		if matchesFallback(c, q) {
			out = append(out, c)
		}
	}
	return out
}

func matchesFallback(c model.Candidate, q string) bool {
	if strings.Contains(strings.ToLower(c.Name), q) || strings.Contains(strings.ToLower(c.Role), q) {
		return true
	}
	for _, s := range c.Skills {
		if strings.Contains(strings.ToLower(s), q) {
			return true
		}
	}
	return false
}
