package github

import (
	"net/url"
	"strings"
)

// UsernameFromLink extracts the account name from a profile link such as
// "https://github.com/octocat" or "github.com/octocat/". It returns "" when
// link does not point at a github.com profile.
func UsernameFromLink(link string) string {
	link = strings.TrimSpace(link)
	if link == "" {
		return ""
	}
	if !strings.Contains(link, "://") {
		link = "https://" + link
	}
	u, err := url.Parse(link)
	if err != nil {
		return ""
	}
	host := strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
	if host != "github.com" {
		return ""
	}
	name, _, _ := strings.Cut(strings.Trim(u.Path, "/"), "/")
	return name
}
