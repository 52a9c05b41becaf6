package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Reanooka-Kumar/TRACE--CIT/internal/model"
)

const generatePrompt = `Generate %[1]d realistic developer profiles for a %[2]s expert based in %[3]s.
Return ONLY a JSON array. Each object must have:
- id: random integer
- name: realistic name
- role: e.g. "Senior %[2]s Engineer"
- bio: short professional tagline (max 10 words)
- skills: list of 3-5 relevant skills
- experience: e.g. "4 years"
- location: "%[3]s"
- image: "https://api.dicebear.com/7.x/avataaars/svg?seed=" + name
- score: integer between 75 and 98
- verified: boolean (true)

JSON format only. No markdown.`

// CandidateGenerator asks a model for made-up profiles when real search
// comes back empty.
type CandidateGenerator struct {
	model  Model
	logger *slog.Logger
}

// NewCandidateGenerator returns a generator that prompts m.
func NewCandidateGenerator(m Model, logger *slog.Logger) *CandidateGenerator {
	return &CandidateGenerator{model: m, logger: logger}
}

// Generate returns count synthetic profiles for skill near location. On any
// model or decoding failure it returns a single placeholder profile instead
// of an error.
func (g *CandidateGenerator) Generate(ctx context.Context, skill, location string, count int) []model.Candidate {
	prompt := fmt.Sprintf(generatePrompt, count, skill, location)

	raw, err := g.model.Chat(ctx, []Message{{Role: RoleUser, Content: prompt}})
	if err != nil {
		g.logger.Warn("profile generation failed", slog.String("error", err.Error()))
		return placeholderProfiles(skill, location)
	}

	var out []model.Candidate
	if err := json.Unmarshal([]byte(extractJSON(raw)), &out); err != nil {
		g.logger.Warn("profile generation returned invalid JSON",
			slog.String("error", err.Error()),
			slog.Int("response_length", len(raw)),
		)
		return placeholderProfiles(skill, location)
	}
	for i := range out {
		if out[i].Skills == nil {
			out[i].Skills = []string{}
		}
	}
	return out
}

func placeholderProfiles(skill, location string) []model.Candidate {
	return []model.Candidate{{
		ID:       9991,
		Name:     "AI Generated Dev",
		Role:     skill + " Specialist",
		Bio:      fmt.Sprintf("Expert in %s based in %s", skill, location),
		Location: location,
		Skills:   []string{skill, "System Design", "Cloud"},
		Score:    85,
		Verified: true,
		Image:    "https://api.dicebear.com/7.x/avataaars/svg?seed=AI",
	}}
}

// extractJSON strips a surrounding markdown code fence, if any.
func extractJSON(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "```") {
		raw = strings.TrimPrefix(raw, "```json")
		raw = strings.TrimPrefix(raw, "```")
		raw = strings.TrimSpace(raw)
		if idx := strings.LastIndex(raw, "```"); idx != -1 {
			raw = raw[:idx]
		}
	}
	return strings.TrimSpace(strings.Trim(raw, "`"))
}
