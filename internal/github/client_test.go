package github

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newFakeGitHub serves a search for two users: "octo" has a detail record,
// "ghost" answers 404 on detail lookup.
func newFakeGitHub(t *testing.T) (*httptest.Server, *capturedRequest) {
	t.Helper()
	lastSearch := &capturedRequest{}

	mux := http.NewServeMux()
	var srv *httptest.Server

	mux.HandleFunc("GET /search/users", func(w http.ResponseWriter, r *http.Request) {
		lastSearch.query = r.URL.Query()
		lastSearch.header = r.Header.Clone()
		json.NewEncoder(w).Encode(map[string]any{
			"items": []map[string]any{
				{"id": 1, "login": "octo", "avatar_url": "https://a/octo.png", "html_url": "https://github.com/octo", "url": srv.URL + "/users/octo"},
				{"id": 2, "login": "ghost", "avatar_url": "https://a/ghost.png", "html_url": "https://github.com/ghost", "url": srv.URL + "/users/ghost"},
			},
		})
	})
	mux.HandleFunc("GET /users/octo", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "TRACE-TeamFinder", r.Header.Get("User-Agent"))
		json.NewEncoder(w).Encode(map[string]any{
			"name":         "The Octocat",
			"bio":          "ML tinkerer",
			"location":     "Chennai",
			"avatar_url":   "https://a/octo.png",
			"public_repos": 42,
			"followers":    1200,
		})
	})
	mux.HandleFunc("GET /users/ghost", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})

	srv = httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv, lastSearch
}

type capturedRequest struct {
	query  url.Values
	header http.Header
}

// =========================================================================
// SEARCH TESTS
// =========================================================================

func TestSearchUsers_MergesDetails(t *testing.T) {
	srv, lastSearch := newFakeGitHub(t)
	c := New(srv.URL, "", discardLogger())

	profiles, err := c.SearchUsers(context.Background(), `ml location:"Chennai"`, 15)
	require.NoError(t, err)
	require.Len(t, profiles, 2)

	assert.Equal(t, `ml location:"Chennai"`, lastSearch.query.Get("q"))
	assert.Equal(t, "15", lastSearch.query.Get("per_page"))
	assert.Equal(t, "TRACE-TeamFinder", lastSearch.header.Get("User-Agent"))

	octo := profiles[0]
	assert.Equal(t, int64(1), octo.ID)
	assert.Equal(t, "The Octocat", octo.Name)
	assert.Equal(t, "octo", octo.Username)
	assert.Equal(t, "ML tinkerer", octo.Bio)
	assert.Equal(t, 42, octo.PublicRepos)
	assert.Equal(t, 1200, octo.Followers)
	assert.Equal(t, "https://github.com/octo", octo.Link)

	ghost := profiles[1]
	assert.Equal(t, "ghost", ghost.Name, "name falls back to login")
	assert.Equal(t, "Open source contributor", ghost.Bio)
	assert.Zero(t, ghost.PublicRepos)
	assert.Zero(t, ghost.Followers)
}

func TestSearchUsers_BadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	_, err := New(srv.URL, "", discardLogger()).SearchUsers(context.Background(), "go", 15)
	assert.Error(t, err)
}

func TestSearchUsers_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	base := srv.URL
	srv.Close()

	_, err := New(base, "", discardLogger()).SearchUsers(context.Background(), "go", 15)
	assert.Error(t, err)
}

func TestSearchUsers_SendsBearerTokenWhenConfigured(t *testing.T) {
	var auth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		w.Write([]byte(`{"items":[]}`))
	}))
	defer srv.Close()

	profiles, err := New(srv.URL, "ghp_test", discardLogger()).SearchUsers(context.Background(), "go", 15)
	require.NoError(t, err)
	assert.Empty(t, profiles)
	assert.Equal(t, "Bearer ghp_test", auth)
}

// =========================================================================
// USER DETAILS TESTS
// =========================================================================

func TestUserDetails(t *testing.T) {
	srv, _ := newFakeGitHub(t)
	c := New(srv.URL, "", discardLogger())

	d, err := c.UserDetails(context.Background(), "octo")
	require.NoError(t, err)
	require.NotNil(t, d)
	assert.Equal(t, "Chennai", d.Location)
	assert.Equal(t, "The Octocat", d.Name)
}

func TestUserDetails_NotFoundIsNil(t *testing.T) {
	srv, _ := newFakeGitHub(t)
	c := New(srv.URL, "", discardLogger())

	d, err := c.UserDetails(context.Background(), "ghost")
	require.NoError(t, err)
	assert.Nil(t, d)
}
