package github

import "testing"

func TestUsernameFromLink(t *testing.T) {
	tests := []struct {
		link string
		want string
	}{
		{"https://github.com/octocat", "octocat"},
		{"https://www.github.com/octocat/", "octocat"},
		{"github.com/octocat/hello-world", "octocat"},
		{"  http://GitHub.com/octocat  ", "octocat"},
		{"https://github.com/", ""},
		{"https://gitlab.com/octocat", ""},
		{"", ""},
	}

	for _, tt := range tests {
		if got := UsernameFromLink(tt.link); got != tt.want {
			t.Errorf("UsernameFromLink(%q) = %q, want %q", tt.link, got, tt.want)
		}
	}
}
