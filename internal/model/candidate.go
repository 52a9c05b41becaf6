package model

// Candidate is a derived profile summary produced by candidate search.
// It is never written to the database: it lives for one request, or inside
// a search session while the user pages through results.
//
// GitHub-sourced candidates fill the repository/follower fields; entries from
// the static dataset or the language model fill Experience, Location and Image
// instead. Empty optional fields are dropped from the JSON.
type Candidate struct {
	ID          int64    `json:"id"`
	Name        string   `json:"name"`
	Username    string   `json:"username,omitempty"`
	Avatar      string   `json:"avatar,omitempty"`
	Image       string   `json:"image,omitempty"`
	Source      string   `json:"source,omitempty"`
	Link        string   `json:"link,omitempty"`
	Bio         string   `json:"bio,omitempty"`
	PublicRepos int      `json:"public_repos"`
	Followers   int      `json:"followers"`
	Role        string   `json:"role"`
	Skills      []string `json:"skills"`
	Score       int      `json:"score,omitempty"`
	Verified    bool     `json:"verified,omitempty"`
	Badge       *Badge   `json:"verified_badge"`
	Experience  string   `json:"experience,omitempty"`
	Location    string   `json:"location,omitempty"`
	LinkedIn    string   `json:"linkedin,omitempty"`
	GitHub      string   `json:"github,omitempty"`
}

// Badge is a cross-platform trust signal attached during enrichment.
// A candidate carrying a badge gets TrustScoreBoost added to their score.
type Badge struct {
	Verified        bool   `json:"verified"`
	Platform        string `json:"platform"`
	BadgeText       string `json:"badge_text"`
	TrustScoreBoost int    `json:"trust_score_boost"`
}
