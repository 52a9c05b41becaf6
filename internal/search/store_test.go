package search

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/Reanooka-Kumar/TRACE--CIT/internal/model"
)

func makeCandidates(n int) []model.Candidate {
	out := make([]model.Candidate, n)
	for i := range out {
		out[i] = model.Candidate{ID: int64(i + 1), Name: fmt.Sprintf("c%d", i+1), Score: 99 - i}
	}
	return out
}

func newTestRedisStore(t *testing.T, ttl time.Duration) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewRedisStore(client, ttl), mr
}

// storeFactories lets every behavioural test run against both stores.
func storeFactories() map[string]func(t *testing.T) SessionStore {
	return map[string]func(t *testing.T) SessionStore{
		"memory": func(t *testing.T) SessionStore { return NewMemoryStore() },
		"redis": func(t *testing.T) SessionStore {
			s, _ := newTestRedisStore(t, 0)
			return s
		},
	}
}

func ids(cs []model.Candidate) []int64 {
	out := make([]int64, len(cs))
	for i, c := range cs {
		out[i] = c.ID
	}
	return out
}

// =========================================================================
// SHARED BEHAVIOUR
// =========================================================================

func TestSessionStore_PagesThroughList(t *testing.T) {
	for name, newStore := range storeFactories() {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			s := newStore(t)

			if err := s.Put(ctx, "react", makeCandidates(7), 3); err != nil {
				t.Fatalf("Put() error = %v", err)
			}

			want := [][]int64{{4, 5, 6}, {7}, {}, {}}
			for i, w := range want {
				page, found, err := s.Next(ctx, "react", 3)
				if err != nil {
					t.Fatalf("Next() #%d error = %v", i, err)
				}
				if !found {
					t.Fatalf("Next() #%d found = false", i)
				}
				got := ids(page)
				if fmt.Sprint(got) != fmt.Sprint(w) {
					t.Errorf("Next() #%d = %v, want %v", i, got, w)
				}
			}
		})
	}
}

func TestSessionStore_UnknownKey(t *testing.T) {
	for name, newStore := range storeFactories() {
		t.Run(name, func(t *testing.T) {
			page, found, err := newStore(t).Next(context.Background(), "nope", 3)
			if err != nil {
				t.Fatalf("Next() error = %v", err)
			}
			if found || len(page) != 0 {
				t.Errorf("Next() = %v, %v; want empty, not found", page, found)
			}
		})
	}
}

func TestSessionStore_EmptySessionIsFound(t *testing.T) {
	for name, newStore := range storeFactories() {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			s := newStore(t)
			if err := s.Put(ctx, "nothing", nil, 0); err != nil {
				t.Fatalf("Put() error = %v", err)
			}
			page, found, err := s.Next(ctx, "nothing", 3)
			if err != nil {
				t.Fatalf("Next() error = %v", err)
			}
			if !found || len(page) != 0 {
				t.Errorf("Next() = %v, %v; want empty, found", page, found)
			}
		})
	}
}

func TestSessionStore_PutReplacesSession(t *testing.T) {
	for name, newStore := range storeFactories() {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			s := newStore(t)
			s.Put(ctx, "k", makeCandidates(9), 3)
			s.Next(ctx, "k", 3)

			if err := s.Put(ctx, "k", makeCandidates(4), 3); err != nil {
				t.Fatalf("Put() error = %v", err)
			}
			page, _, _ := s.Next(ctx, "k", 3)
			if got := ids(page); fmt.Sprint(got) != "[4]" {
				t.Errorf("Next() after replace = %v, want [4]", got)
			}
		})
	}
}

func TestSessionStore_OffsetClamped(t *testing.T) {
	for name, newStore := range storeFactories() {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			s := newStore(t)
			s.Put(ctx, "k", makeCandidates(2), 3)

			page, found, err := s.Next(ctx, "k", 3)
			if err != nil || !found || len(page) != 0 {
				t.Errorf("Next() = %v, %v, %v; want empty, found, nil", page, found, err)
			}
		})
	}
}

func TestSessionStore_ConcurrentNextIsDisjoint(t *testing.T) {
	for name, newStore := range storeFactories() {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			s := newStore(t)
			s.Put(ctx, "k", makeCandidates(15), 0)

			var (
				wg   sync.WaitGroup
				mu   sync.Mutex
				seen = map[int64]int{}
			)
			for range 8 {
				wg.Add(1)
				go func() {
					defer wg.Done()
					page, _, err := s.Next(ctx, "k", 3)
					if err != nil {
						t.Errorf("Next() error = %v", err)
						return
					}
					mu.Lock()
					defer mu.Unlock()
					for _, c := range page {
						seen[c.ID]++
					}
				}()
			}
			wg.Wait()

			if len(seen) != 15 {
				t.Errorf("served %d distinct candidates, want 15", len(seen))
			}
			for id, n := range seen {
				if n != 1 {
					t.Errorf("candidate %d served %d times", id, n)
				}
			}
		})
	}
}

// =========================================================================
// STORE-SPECIFIC TESTS
// =========================================================================

func TestMemoryStore_NextReturnsCopy(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	s.Put(ctx, "k", makeCandidates(6), 0)

	page, _, _ := s.Next(ctx, "k", 3)
	page[0].Name = "mutated"

	s.Put(ctx, "k2", nil, 0)
	if s.Len() != 2 {
		t.Errorf("Len() = %d, want 2", s.Len())
	}
	if s.sessions["k"].candidates[0].Name != "c1" {
		t.Error("Next() returned a slice aliasing the stored session")
	}
}

func TestRedisStore_TTL(t *testing.T) {
	ctx := context.Background()
	s, mr := newTestRedisStore(t, time.Minute)

	if err := s.Put(ctx, "react", makeCandidates(5), 3); err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	listKey, offsetKey := redisKeys("react")
	if ttl := mr.TTL(listKey); ttl != time.Minute {
		t.Errorf("list TTL = %v, want 1m", ttl)
	}
	if ttl := mr.TTL(offsetKey); ttl != time.Minute {
		t.Errorf("offset TTL = %v, want 1m", ttl)
	}

	// Advancing the offset must not drop its expiry.
	if _, _, err := s.Next(ctx, "react", 3); err != nil {
		t.Fatalf("Next() error = %v", err)
	}
	if ttl := mr.TTL(offsetKey); ttl != time.Minute {
		t.Errorf("offset TTL after Next = %v, want 1m", ttl)
	}

	mr.FastForward(2 * time.Minute)
	_, found, err := s.Next(ctx, "react", 3)
	if err != nil {
		t.Fatalf("Next() error = %v", err)
	}
	if found {
		t.Error("session still found after TTL elapsed")
	}
}

func TestRedisStore_NoTTLByDefault(t *testing.T) {
	s, mr := newTestRedisStore(t, 0)
	if err := s.Put(context.Background(), "go", makeCandidates(3), 3); err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	_, offsetKey := redisKeys("go")
	if ttl := mr.TTL(offsetKey); ttl != 0 {
		t.Errorf("offset TTL = %v, want none", ttl)
	}
}

func TestRedisStore_RoundTripsCandidateFields(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestRedisStore(t, 0)

	in := model.Candidate{
		ID: 42, Name: "Ada", Skills: []string{"Go"}, Score: 88,
		Badge: &model.Badge{Verified: true, Platform: "Udemy", BadgeText: "Course Complete - Advanced ML", TrustScoreBoost: 15},
	}
	s.Put(ctx, "k", []model.Candidate{in}, 0)

	page, _, err := s.Next(ctx, "k", 3)
	if err != nil {
		t.Fatalf("Next() error = %v", err)
	}
	if len(page) != 1 {
		t.Fatalf("len(page) = %d, want 1", len(page))
	}
	got := page[0]
	if got.Name != "Ada" || got.Score != 88 || got.Badge == nil || got.Badge.Platform != "Udemy" {
		t.Errorf("round-tripped candidate = %+v", got)
	}
}
