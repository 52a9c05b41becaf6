package search

import "testing"

func TestCacheKey(t *testing.T) {
	tests := []struct {
		name     string
		query    string
		location string
		want     string
	}{
		{"plain", "React", "", "react"},
		{"whitespace", "  React  ", "", "react"},
		{"location", "React", "London", `react location:"london"`},
		{"location trimmed", "React", "  London ", `react location:"london"`},
		{"blank location ignored", "React", "   ", "react"},
		{"whitespace with location", " React ", "London", `react location:"london"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CacheKey(tt.query, tt.location); got != tt.want {
				t.Errorf("CacheKey(%q, %q) = %q, want %q", tt.query, tt.location, got, tt.want)
			}
		})
	}
}

func TestCacheKey_CaseVariantsShareKey(t *testing.T) {
	a := CacheKey("Machine Learning", "Chennai")
	b := CacheKey(" machine learning ", "CHENNAI")
	if a != b {
		t.Errorf("keys differ: %q vs %q", a, b)
	}
}

func TestQuery(t *testing.T) {
	if got := Query("ml", "Pune"); got != `ml location:"Pune"` {
		t.Errorf("Query() = %q", got)
	}
	if got := Query("ml", ""); got != "ml" {
		t.Errorf("Query() = %q", got)
	}
	if got := Query(" ml ", "Pune"); got != `ml location:"Pune"` {
		t.Errorf("Query() = %q", got)
	}
}
