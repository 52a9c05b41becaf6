// Package github is a small read-only client for the public GitHub REST API.
// It only knows the two calls the candidate search needs: user search and
// user profile lookup.
package github

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/oauth2"
)

const (
	DefaultBaseURL = "https://api.github.com"
	userAgent      = "TRACE-TeamFinder"
	defaultBio     = "Open source contributor"
	requestTimeout = 10 * time.Second
)

// Profile is a search hit merged with the user's detail record.
type Profile struct {
	ID          int64
	Name        string
	Username    string
	Avatar      string
	Link        string
	Bio         string
	PublicRepos int
	Followers   int
}

// UserDetails is the subset of a user record used to resolve a location.
type UserDetails struct {
	Location string
	Name     string
	Bio      string
	Avatar   string
}

// Client talks to the GitHub API. Its zero value is not usable; call New.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// New returns a client for baseURL (DefaultBaseURL when empty).
//
// When token is non-empty every request is authenticated through an
// oauth2 static token source, which raises the search rate limit from 10
// to 30 requests per minute.
func New(baseURL, token string, logger *slog.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	httpClient := &http.Client{Timeout: requestTimeout}
	if token != "" {
		ctx := context.WithValue(context.Background(), oauth2.HTTPClient, httpClient)
		httpClient = oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token}))
		httpClient.Timeout = requestTimeout
	}

	return &Client{baseURL: baseURL, httpClient: httpClient, logger: logger}
}

type searchResponse struct {
	Items []searchItem `json:"items"`
}

type searchItem struct {
	ID        int64  `json:"id"`
	Login     string `json:"login"`
	AvatarURL string `json:"avatar_url"`
	HTMLURL   string `json:"html_url"`
	URL       string `json:"url"`
}

type userRecord struct {
	Name        string `json:"name"`
	Bio         string `json:"bio"`
	Location    string `json:"location"`
	AvatarURL   string `json:"avatar_url"`
	PublicRepos int    `json:"public_repos"`
	Followers   int    `json:"followers"`
}

// SearchUsers runs a user search and fetches the detail record of every hit.
//
// A non-200 search response is an error. A failed detail lookup is not: the
// hit is kept with login as name, the default bio and zero counters.
func (c *Client) SearchUsers(ctx context.Context, query string, limit int) ([]Profile, error) {
	q := url.Values{}
	q.Set("q", query)
	q.Set("per_page", strconv.Itoa(limit))

	var res searchResponse
	status, err := c.getJSON(ctx, c.baseURL+"/search/users?"+q.Encode(), &res)
	if err != nil {
		return nil, fmt.Errorf("github: searching users: %w", err)
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("github: searching users: bad status %d", status)
	}

	profiles := make([]Profile, 0, len(res.Items))
	for _, item := range res.Items {
		var details userRecord
		if item.URL != "" {
			st, err := c.getJSON(ctx, item.URL, &details)
			if err != nil {
				return nil, fmt.Errorf("github: fetching details of %s: %w", item.Login, err)
			}
			if st != http.StatusOK {
				c.logger.Debug("github detail lookup failed",
					slog.String("login", item.Login),
					slog.Int("status", st),
				)
				details = userRecord{}
			}
		}

		p := Profile{
			ID:          item.ID,
			Name:        details.Name,
			Username:    item.Login,
			Avatar:      item.AvatarURL,
			Link:        item.HTMLURL,
			Bio:         details.Bio,
			PublicRepos: details.PublicRepos,
			Followers:   details.Followers,
		}
		if p.Name == "" {
			p.Name = item.Login
		}
		if p.Bio == "" {
			p.Bio = defaultBio
		}
		profiles = append(profiles, p)
	}

	return profiles, nil
}

// UserDetails returns the profile of username, or nil when GitHub answers
// with anything but 200.
func (c *Client) UserDetails(ctx context.Context, username string) (*UserDetails, error) {
	var rec userRecord
	status, err := c.getJSON(ctx, c.baseURL+"/users/"+url.PathEscape(username), &rec)
	if err != nil {
		return nil, fmt.Errorf("github: fetching user %s: %w", username, err)
	}
	if status != http.StatusOK {
		return nil, nil
	}

	return &UserDetails{
		Location: rec.Location,
		Name:     rec.Name,
		Bio:      rec.Bio,
		Avatar:   rec.AvatarURL,
	}, nil
}

// getJSON performs a GET and decodes the body into target when the status
// is 200. Other statuses are returned without decoding.
func (c *Client) getJSON(ctx context.Context, rawURL string, target any) (int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return 0, err
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/vnd.github+json")

	c.logger.Debug("github request", slog.String("url", rawURL))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return resp.StatusCode, nil
	}

	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		return resp.StatusCode, fmt.Errorf("decoding response: %w", err)
	}
	return resp.StatusCode, nil
}
