package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/nulzo/model-sync-api/internal/adapters/cache/memory"
	"github.com/nulzo/model-sync-api/pkg/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubCatalog struct {
	ids   []string
	err   error
	gate  chan struct{} // when non-nil, ListIDs blocks until closed
	calls int
}

func (s *stubCatalog) ListIDs(ctx context.Context) ([]string, error) {
	s.calls++
	if s.gate != nil {
		select {
		case <-s.gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if s.err != nil {
		return nil, s.err
	}
	return s.ids, nil
}

type stubEnrich struct {
	enrichment schema.EnrichmentMap
	ok         bool
}

func (s *stubEnrich) FetchMetadata(ctx context.Context) (schema.EnrichmentMap, bool) {
	return s.enrichment, s.ok
}

type stubNotifier struct {
	mu     sync.Mutex
	events map[string][]string // title -> messages
}

func (s *stubNotifier) Notify(title, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.events == nil {
		s.events = make(map[string][]string)
	}
	s.events[title] = append(s.events[title], message)
}

func (s *stubNotifier) messages(title string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.events[title]
}

type stubRecorder struct {
	mu       sync.Mutex
	outcomes []string
}

func (s *stubRecorder) RecordSyncRun(ctx context.Context, outcome string, modelCount int, took time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.outcomes = append(s.outcomes, outcome)
	return nil
}

func seedCache(t *testing.T, cache *CacheState, reg schema.Registry, freeIDs []string) {
	t.Helper()
	ctx := context.Background()
	cache.SaveRegistry(ctx, reg)
	cache.SaveModelIDs(ctx, reg.IDs())
	if freeIDs != nil {
		cache.SaveFreeIDs(ctx, freeIDs)
	}
}

func withCredential() SyncOptions {
	return SyncOptions{
		ColdStartTimeout: time.Second,
		NotifyFreeModels: true,
		HasCredential:    func() bool { return true },
	}
}

func TestController_ColdStart_Success(t *testing.T) {
	cache := NewCacheState(memory.NewStore())
	registry := NewPublishedRegistry()
	recorder := &stubRecorder{}

	ctrl := NewController(
		&stubCatalog{ids: []string{"m1", "m2"}},
		&stubEnrich{},
		cache, registry, nil, recorder,
		withCredential(),
	)

	require.NoError(t, ctrl.Start(context.Background()))

	assert.Equal(t, StateFastPathServing, ctrl.State())
	assert.Equal(t, []string{"m1", "m2"}, registry.List().IDs())

	// all three cache records persisted
	ids, ok := cache.ModelIDs(context.Background())
	assert.True(t, ok)
	assert.Equal(t, []string{"m1", "m2"}, ids)

	reg, ok := cache.Registry(context.Background())
	assert.True(t, ok)
	assert.Len(t, reg, 2)

	free, ok := cache.FreeIDs(context.Background())
	assert.True(t, ok)
	assert.Equal(t, []string{"m1", "m2"}, free)

	// completion signal fires on the cold path too
	select {
	case <-ctrl.RefreshDone():
	case <-time.After(time.Second):
		t.Fatal("refresh completion signal never fired")
	}

	assert.Equal(t, []string{"cold_start"}, recorder.outcomes)
}

func TestController_ColdStart_Failure_NothingServed(t *testing.T) {
	cache := NewCacheState(memory.NewStore())
	registry := NewPublishedRegistry()

	ctrl := NewController(
		&stubCatalog{err: errors.New("connection refused")},
		&stubEnrich{},
		cache, registry, nil, nil,
		withCredential(),
	)

	err := ctrl.Start(context.Background())
	require.Error(t, err)

	// no registry was published: every dispatch lookup misses
	_, lookupErr := registry.Lookup("m1")
	assert.Error(t, lookupErr)
	assert.Empty(t, registry.List())

	// nothing was persisted either
	_, ok := cache.Registry(context.Background())
	assert.False(t, ok)
}

func TestController_ColdStart_EnrichmentAbsent_DefaultsApply(t *testing.T) {
	cache := NewCacheState(memory.NewStore())
	registry := NewPublishedRegistry()

	ctrl := NewController(
		&stubCatalog{ids: []string{"m1"}},
		&stubEnrich{ok: false},
		cache, registry, nil, nil,
		withCredential(),
	)

	require.NoError(t, ctrl.Start(context.Background()))

	rec, err := registry.Lookup("m1")
	require.NoError(t, err)
	assert.True(t, rec.Free())
	assert.Equal(t, DefaultContextWindow, rec.ContextWindow)
}

func TestController_WarmStart_CachedFirstThenFresh(t *testing.T) {
	cache := NewCacheState(memory.NewStore())
	registry := NewPublishedRegistry()

	cached := Merge([]string{"old"}, schema.EnrichmentMap{})
	seedCache(t, cache, cached, cached.FreeIDs())

	gate := make(chan struct{})
	catalog := &stubCatalog{ids: []string{"new"}, gate: gate}

	ctrl := NewController(catalog, &stubEnrich{}, cache, registry, nil, nil, withCredential())
	require.NoError(t, ctrl.Start(context.Background()))

	// fast path: cached registry is published before the refresh lands
	assert.Equal(t, []string{"old"}, registry.List().IDs())

	close(gate)
	select {
	case <-ctrl.RefreshDone():
	case <-time.After(time.Second):
		t.Fatal("background refresh never finished")
	}

	assert.Equal(t, []string{"new"}, registry.List().IDs())
	assert.Equal(t, StateFastPathServing, ctrl.State())

	ids, _ := cache.ModelIDs(context.Background())
	assert.Equal(t, []string{"new"}, ids)
}

func TestController_WarmStart_RefreshFailure_KeepsServingCached(t *testing.T) {
	cache := NewCacheState(memory.NewStore())
	registry := NewPublishedRegistry()
	recorder := &stubRecorder{}

	cached := Merge([]string{"m1", "m2"}, schema.EnrichmentMap{})
	seedCache(t, cache, cached, cached.FreeIDs())

	ctrl := NewController(
		&stubCatalog{err: errors.New("unreachable")},
		&stubEnrich{},
		cache, registry, nil, recorder,
		withCredential(),
	)

	// no terminal failure on the warm path
	require.NoError(t, ctrl.Start(context.Background()))

	select {
	case <-ctrl.RefreshDone():
	case <-time.After(time.Second):
		t.Fatal("background refresh never finished")
	}

	// previously published registry continues to serve lookups unchanged
	rec, err := registry.Lookup("m1")
	require.NoError(t, err)
	assert.Equal(t, "m1", rec.ID)
	assert.Equal(t, StateDegraded, ctrl.State())
	assert.Equal(t, []string{"refresh_failed"}, recorder.outcomes)
}

func TestController_NoCredential_PublishesFreeOnly(t *testing.T) {
	cache := NewCacheState(memory.NewStore())
	registry := NewPublishedRegistry()

	enrichment := schema.EnrichmentMap{
		Models: map[string]schema.ModelMetadata{
			"m1": {Cost: &schema.MetadataCost{Input: f64(0.01), Output: f64(0.03)}},
		},
	}

	ctrl := NewController(
		&stubCatalog{ids: []string{"m1", "m2"}},
		&stubEnrich{enrichment: enrichment, ok: true},
		cache, registry, nil, nil,
		SyncOptions{ColdStartTimeout: time.Second, HasCredential: func() bool { return false }},
	)

	require.NoError(t, ctrl.Start(context.Background()))

	assert.Equal(t, []string{"m2"}, registry.List().IDs())
	_, err := registry.Lookup("m1")
	assert.Error(t, err)

	// the cached registry keeps the full set; filtering is a publish
	// concern, not a persistence concern
	reg, ok := cache.Registry(context.Background())
	assert.True(t, ok)
	assert.Equal(t, []string{"m1", "m2"}, reg.IDs())
}

func TestController_NotifiesOnceOnFreeSetChange(t *testing.T) {
	cache := NewCacheState(memory.NewStore())
	registry := NewPublishedRegistry()
	notifier := &stubNotifier{}

	cached := Merge([]string{"m2"}, schema.EnrichmentMap{})
	seedCache(t, cache, cached, []string{"m2"})

	// fresh run: m1 is free, m2 is gone
	ctrl := NewController(
		&stubCatalog{ids: []string{"m1"}},
		&stubEnrich{},
		cache, registry, notifier, nil,
		withCredential(),
	)

	require.NoError(t, ctrl.Start(context.Background()))
	select {
	case <-ctrl.RefreshDone():
	case <-time.After(time.Second):
		t.Fatal("background refresh never finished")
	}

	changes := notifier.messages("Free models changed")
	require.Len(t, changes, 1)
	assert.Equal(t, "+ m1\n- m2", changes[0])

	// snapshot rolled forward
	free, ok := cache.FreeIDs(context.Background())
	assert.True(t, ok)
	assert.Equal(t, []string{"m1"}, free)
}

func TestController_FirstRunSeedsSnapshotSilently(t *testing.T) {
	cache := NewCacheState(memory.NewStore())
	registry := NewPublishedRegistry()
	notifier := &stubNotifier{}

	ctrl := NewController(
		&stubCatalog{ids: []string{"m1", "m2"}},
		&stubEnrich{},
		cache, registry, notifier, nil,
		withCredential(),
	)

	require.NoError(t, ctrl.Start(context.Background()))

	assert.Empty(t, notifier.events)
	free, ok := cache.FreeIDs(context.Background())
	assert.True(t, ok)
	assert.Equal(t, []string{"m1", "m2"}, free)
}

func TestController_NotificationGatedBySetting(t *testing.T) {
	cache := NewCacheState(memory.NewStore())
	registry := NewPublishedRegistry()
	notifier := &stubNotifier{}

	cached := Merge([]string{"m2"}, schema.EnrichmentMap{})
	seedCache(t, cache, cached, []string{"m2"})

	ctrl := NewController(
		&stubCatalog{ids: []string{"m1"}},
		&stubEnrich{},
		cache, registry, notifier, nil,
		SyncOptions{
			ColdStartTimeout: time.Second,
			NotifyFreeModels: false,
			HasCredential:    func() bool { return true },
		},
	)

	require.NoError(t, ctrl.Start(context.Background()))
	<-ctrl.RefreshDone()

	assert.Empty(t, notifier.messages("Free models changed"))
}

func TestController_WarnsWhenKnownModelVanishes(t *testing.T) {
	cache := NewCacheState(memory.NewStore())
	registry := NewPublishedRegistry()
	notifier := &stubNotifier{}

	cached := Merge([]string{"m1", "m2"}, schema.EnrichmentMap{})
	seedCache(t, cache, cached, cached.FreeIDs())

	ctrl := NewController(
		&stubCatalog{ids: []string{"m1"}},
		&stubEnrich{},
		cache, registry, notifier, nil,
		withCredential(),
	)

	require.NoError(t, ctrl.Start(context.Background()))
	select {
	case <-ctrl.RefreshDone():
	case <-time.After(time.Second):
		t.Fatal("background refresh never finished")
	}

	removed := notifier.messages("Models removed")
	require.Len(t, removed, 1)
	assert.Equal(t, "m2", removed[0])

	ids, _ := cache.ModelIDs(context.Background())
	assert.Equal(t, []string{"m1"}, ids)
}
