// Package search implements candidate search: it fetches profiles from
// GitHub, enriches and ranks them, and keeps the ranked list in a session
// store so callers can page through it three at a time.
package search

import (
	"cmp"
	"context"
	"log/slog"
	"slices"

	"github.com/Reanooka-Kumar/TRACE--CIT/internal/github"
	"github.com/Reanooka-Kumar/TRACE--CIT/internal/model"
)

const (
	// PageSize is how many candidates a single search call returns.
	PageSize = 3

	// FetchLimit is how many profiles a fresh search pulls upstream, which
	// bounds how many pages a session can serve.
	FetchLimit = 15
)

// Fetcher finds user profiles matching a search string.
// *github.Client implements it.
type Fetcher interface {
	SearchUsers(ctx context.Context, query string, limit int) ([]github.Profile, error)
}

// Orchestrator runs fresh searches and continuations.
type Orchestrator struct {
	fetcher Fetcher
	store   SessionStore
	rand    Rand
	logger  *slog.Logger
}

// Option customizes an Orchestrator.
type Option func(*Orchestrator)

// WithRand replaces the random source used for badge assignment.
func WithRand(r Rand) Option {
	return func(o *Orchestrator) { o.rand = r }
}

// NewOrchestrator returns an Orchestrator that fetches with fetcher and
// pages results through store.
func NewOrchestrator(fetcher Fetcher, store SessionStore, logger *slog.Logger, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		fetcher: fetcher,
		store:   store,
		rand:    globalRand{},
		logger:  logger,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Search returns up to PageSize candidates for query (and location, when
// non-empty).
//
// With loadMore false it runs a fresh search and replaces any session for
// the same key. With loadMore true it continues an existing session; an
// unknown key yields an empty page rather than a new upstream search.
// The returned slice is never nil.
func (o *Orchestrator) Search(ctx context.Context, query, location string, loadMore bool) ([]model.Candidate, error) {
	key := CacheKey(query, location)

	if loadMore {
		page, found, err := o.store.Next(ctx, key, PageSize)
		if err != nil {
			return nil, err
		}
		if !found {
			o.logger.Debug("continuation for unknown search session", slog.String("key", key))
			return []model.Candidate{}, nil
		}
		if page == nil {
			page = []model.Candidate{}
		}
		return page, nil
	}

	return o.fresh(ctx, key, query, location), nil
}

func (o *Orchestrator) fresh(ctx context.Context, key, query, location string) []model.Candidate {
	searchQuery := Query(query, location)

	profiles, err := o.fetcher.SearchUsers(ctx, searchQuery, FetchLimit)
	if err != nil {
		o.logger.Warn("profile search failed",
			slog.String("query", searchQuery),
			slog.String("error", err.Error()),
		)
		profiles = nil
	}

	ranked := make([]model.Candidate, 0, len(profiles))
	for _, p := range profiles {
		ranked = append(ranked, enrich(p, query, o.rand))
	}
	slices.SortStableFunc(ranked, func(a, b model.Candidate) int {
		return cmp.Compare(b.Score, a.Score)
	})

	first := min(PageSize, len(ranked))
	if err := o.store.Put(ctx, key, ranked, first); err != nil {
		o.logger.Warn("storing search session failed",
			slog.String("key", key),
			slog.String("error", err.Error()),
		)
	}

	o.logger.Info("search completed",
		slog.String("query", searchQuery),
		slog.Int("results", len(ranked)),
	)

	return append([]model.Candidate{}, ranked[:first]...)
}
