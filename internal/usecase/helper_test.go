package usecase_test

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/iho/ledgerdash/internal/domain"
	"github.com/iho/ledgerdash/internal/usecase"
)

// fakeStore answers FindAll from a fixed slice, or defers to FindAllFunc
// when a test needs per-query behavior.
type fakeStore struct {
	entries     []domain.Entry
	err         error
	calls       []usecase.EntryQuery
	FindAllFunc func(ctx context.Context, q usecase.EntryQuery) ([]domain.Entry, error)
}

func (s *fakeStore) FindAll(ctx context.Context, q usecase.EntryQuery) ([]domain.Entry, error) {
	s.calls = append(s.calls, q)
	if s.FindAllFunc != nil {
		return s.FindAllFunc(ctx, q)
	}
	if s.err != nil {
		return nil, s.err
	}
	return s.entries, nil
}

// fixedNow is the reference instant used across the dashboard tests: a
// Saturday in the middle of March 2025.
var fixedNow = time.Date(2025, time.March, 15, 12, 0, 0, 0, time.UTC)

type fakeClock struct {
	now time.Time
}

func (c fakeClock) Now() time.Time { return c.now }

type seqIDGenerator struct {
	n int
}

func (g *seqIDGenerator) Generate() string {
	g.n++
	return fmt.Sprintf("id-%d", g.n)
}

// memCache is an in-memory usecase.Cache backed by JSON, so cached payloads
// go through the same serialization as the real backend.
type memCache struct {
	data map[string][]byte
	sets int
	hits int
}

func newMemCache() *memCache {
	return &memCache{data: make(map[string][]byte)}
}

func (c *memCache) Key(prefix string, params any) string {
	raw, _ := json.Marshal(params)
	var decoded any
	_ = json.Unmarshal(raw, &decoded)
	canonical, _ := json.Marshal(decoded)
	return "dashboard:" + prefix + ":" + string(canonical)
}

func (c *memCache) Get(_ context.Context, key string, out any) bool {
	raw, ok := c.data[key]
	if !ok {
		return false
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return false
	}
	c.hits++
	return true
}

func (c *memCache) Set(_ context.Context, key string, value any, _ time.Duration) {
	raw, err := json.Marshal(value)
	if err != nil {
		return
	}
	c.data[key] = raw
	c.sets++
}

func (c *memCache) Delete(_ context.Context, key string) {
	delete(c.data, key)
}

func (c *memCache) Clear(_ context.Context, prefix string) {
	if prefix == "" {
		c.data = make(map[string][]byte)
		return
	}
	full := "dashboard:" + prefix + ":"
	var doomed []string
	for k := range c.data {
		if len(k) >= len(full) && k[:len(full)] == full {
			doomed = append(doomed, k)
		}
	}
	sort.Strings(doomed)
	for _, k := range doomed {
		delete(c.data, k)
	}
}

func newDashboard(store usecase.EntryStore, cache usecase.Cache) *usecase.DashboardUseCase {
	return usecase.NewDashboardUseCase(
		store,
		cache,
		fakeClock{now: fixedNow},
		&seqIDGenerator{},
		zerolog.Nop(),
		nil,
	)
}
