package services

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/nulzo/model-sync-api/internal/core/ports"
	"github.com/nulzo/model-sync-api/internal/logger"
	"github.com/nulzo/model-sync-api/pkg/schema"
	"go.uber.org/zap"
)

// State of the synchronization controller.
type State string

const (
	StateColdStart            State = "cold_start"
	StateFastPathServing      State = "fast_path_serving"
	StateBackgroundRefreshing State = "background_refreshing"
	StateDegraded             State = "degraded"
)

// SyncRecorder persists refresh-run history. Optional; a nil recorder
// disables it.
type SyncRecorder interface {
	RecordSyncRun(ctx context.Context, outcome string, modelCount int, took time.Duration) error
}

// SyncOptions configures a Controller.
type SyncOptions struct {
	// ColdStartTimeout bounds both fetches when no cache exists.
	ColdStartTimeout time.Duration
	// NotifyFreeModels gates the change notification.
	NotifyFreeModels bool
	// HasCredential reports whether an API key is configured. Without
	// one, only free models are published.
	HasCredential func() bool
}

// Controller orchestrates the cache-first load, the startup refresh and
// the layered fallback policy. Refresh happens exactly once per process
// lifetime; there is no watch loop.
type Controller struct {
	catalog  ports.CatalogClient
	enrich   ports.EnrichmentClient
	cache    *CacheState
	registry ports.ModelRegistry
	notifier ports.Notifier
	recorder SyncRecorder
	opts     SyncOptions

	mu           sync.Mutex
	state        State
	notified     bool
	vanishWarned bool

	refreshInFlight atomic.Bool
	refreshDone     chan struct{}
}

func NewController(
	catalog ports.CatalogClient,
	enrich ports.EnrichmentClient,
	cache *CacheState,
	registry ports.ModelRegistry,
	notifier ports.Notifier,
	recorder SyncRecorder,
	opts SyncOptions,
) *Controller {
	if opts.ColdStartTimeout <= 0 {
		opts.ColdStartTimeout = 5 * time.Second
	}
	if opts.HasCredential == nil {
		opts.HasCredential = func() bool { return false }
	}
	return &Controller{
		catalog:     catalog,
		enrich:      enrich,
		cache:       cache,
		registry:    registry,
		notifier:    notifier,
		recorder:    recorder,
		opts:        opts,
		state:       StateColdStart,
		refreshDone: make(chan struct{}),
	}
}

// State returns the controller's current state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// RefreshDone is closed once the startup refresh attempt has finished,
// successfully or not. The warm path does not wait on it; tests do.
func (c *Controller) RefreshDone() <-chan struct{} {
	return c.refreshDone
}

// Start runs the cache-first load. With a usable cached registry it
// publishes immediately and refreshes in the background; without one it
// performs a deadline-bounded cold-start fetch. The returned error is
// terminal: nothing was published and nothing will be retried.
func (c *Controller) Start(ctx context.Context) error {
	if cached, ok := c.cache.Registry(ctx); ok {
		c.publish(cached)
		c.setState(StateFastPathServing)
		logger.Info("serving cached registry", zap.Int("models", len(cached)))

		go c.backgroundRefresh(context.WithoutCancel(ctx))
		return nil
	}

	// Cold start: both fetches share one fixed deadline.
	fetchCtx, cancel := context.WithTimeout(ctx, c.opts.ColdStartTimeout)
	defer cancel()

	start := time.Now()
	reg, err := c.fetchAndMerge(fetchCtx)
	if err != nil {
		c.record(ctx, "cold_start_failed", 0, time.Since(start))
		close(c.refreshDone)
		return fmt.Errorf("cold start failed, no registry to serve: %w", err)
	}

	c.install(ctx, reg)
	c.record(ctx, "cold_start", len(reg), time.Since(start))
	c.setState(StateFastPathServing)
	close(c.refreshDone)
	logger.Info("cold start complete", zap.Int("models", len(reg)))
	return nil
}

// backgroundRefresh runs the warm-path refresh without a deadline. It is
// fire-and-forget: failure leaves the already-published cached registry
// in place and is not user-visible.
func (c *Controller) backgroundRefresh(ctx context.Context) {
	if !c.refreshInFlight.CompareAndSwap(false, true) {
		return
	}
	defer close(c.refreshDone)

	c.setState(StateBackgroundRefreshing)

	start := time.Now()
	reg, err := c.fetchAndMerge(ctx)
	if err != nil {
		// remain on cached data, observably unchanged
		c.record(ctx, "refresh_failed", 0, time.Since(start))
		c.setState(StateDegraded)
		logger.Warn("background refresh failed, serving cached registry", zap.Error(err))
		return
	}

	c.install(ctx, reg)
	c.record(ctx, "refresh", len(reg), time.Since(start))
	c.setState(StateFastPathServing)
	logger.Info("registry refreshed", zap.Int("models", len(reg)))
}

// fetchAndMerge implements one refresh cycle: authoritative list, then
// best-effort enrichment, then merge. Only the catalog can fail.
func (c *Controller) fetchAndMerge(ctx context.Context) (schema.Registry, error) {
	ids, err := c.catalog.ListIDs(ctx)
	if err != nil {
		return nil, err
	}

	enrichment, ok := c.enrich.FetchMetadata(ctx)
	if !ok {
		enrichment = schema.EnrichmentMap{}
	}

	return Merge(ids, enrichment), nil
}

// install publishes a freshly merged registry and persists the three
// cache records. Persistence failures are soft and never block the
// publish itself.
func (c *Controller) install(ctx context.Context, reg schema.Registry) {
	c.publish(reg)

	ids := reg.IDs()
	c.warnVanished(ctx, ids)
	c.cache.SaveModelIDs(ctx, ids)
	c.cache.SaveRegistry(ctx, reg)
	c.trackFreeModels(ctx, reg)
}

// warnVanished surfaces ids that the previous snapshot had but the fresh
// registry dropped. A vanished model is a warning, not an error, and is
// reported at most once per process.
func (c *Controller) warnVanished(ctx context.Context, current []string) {
	previous, ok := c.cache.ModelIDs(ctx)
	if !ok {
		return
	}

	_, vanished := DiffIDs(previous, current)
	if len(vanished) == 0 {
		return
	}

	logger.Warn("models no longer offered upstream", zap.Strings("ids", vanished))

	if c.notifier == nil {
		return
	}

	c.mu.Lock()
	if c.vanishWarned {
		c.mu.Unlock()
		return
	}
	c.vanishWarned = true
	c.mu.Unlock()

	c.notifier.Notify("Models removed", strings.Join(vanished, "\n"))
}

// publish installs the registry snapshot, projected to the free subset
// when no credential is configured.
func (c *Controller) publish(reg schema.Registry) {
	if !c.opts.HasCredential() {
		reg = reg.FilterFree()
	}
	c.registry.Replace(reg)
}

// trackFreeModels diffs the free subset against the previous session's
// snapshot, fires at most one notification per process, and persists
// the new snapshot. A missing snapshot seeds the baseline silently.
func (c *Controller) trackFreeModels(ctx context.Context, reg schema.Registry) {
	current := reg.FreeIDs()
	previous, ok := c.cache.FreeIDs(ctx)
	defer c.cache.SaveFreeIDs(ctx, current)

	if !ok {
		return
	}

	added, removed := DiffIDs(previous, current)
	if len(added) == 0 && len(removed) == 0 {
		return
	}

	logger.Info("free model set changed",
		zap.Strings("added", added),
		zap.Strings("removed", removed),
	)

	if !c.opts.NotifyFreeModels || c.notifier == nil {
		return
	}

	c.mu.Lock()
	if c.notified {
		c.mu.Unlock()
		return
	}
	c.notified = true
	c.mu.Unlock()

	c.notifier.Notify("Free models changed", formatFreeModelChange(added, removed))
}

// formatFreeModelChange renders the multi-line notification payload.
func formatFreeModelChange(added, removed []string) string {
	var b strings.Builder
	for _, id := range added {
		fmt.Fprintf(&b, "+ %s\n", id)
	}
	for _, id := range removed {
		fmt.Fprintf(&b, "- %s\n", id)
	}
	return strings.TrimRight(b.String(), "\n")
}

func (c *Controller) setState(s State) {
	c.mu.Lock()
	c.state = s
	c.mu.Unlock()
}

func (c *Controller) record(ctx context.Context, outcome string, modelCount int, took time.Duration) {
	if c.recorder == nil {
		return
	}
	if err := c.recorder.RecordSyncRun(ctx, outcome, modelCount, took); err != nil {
		logger.Warn("failed to record sync run", zap.Error(err))
	}
}
