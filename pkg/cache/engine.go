// Package cache implements the identity-resolving lookup caches of the
// catalog SDK. Each cache resolves GUIDs, qualified names, and
// human-readable name keys to full entities through lazily populated,
// concurrency-safe indexes, issuing at most one remote lookup per miss.
// Entries are only ever added for the lifetime of the owning client; there
// is no TTL and no eviction.
package cache

import (
	"context"
	"sync"

	"github.com/txn2/catalog-client/pkg/assets"
	"github.com/txn2/catalog-client/pkg/client"
)

// EntityFinder is the slice of the catalog client the identity caches
// consume.
type EntityFinder interface {
	Search(ctx context.Context, req client.SearchRequest) ([]assets.Asset, error)
	FindConnectionsByName(ctx context.Context, name string, connector assets.ConnectorType, attributes []string) ([]assets.Asset, error)
}

// Option adjusts a single lookup call.
type Option func(*lookupOptions)

type lookupOptions struct {
	allowRefresh bool
}

// WithoutRefresh restricts a lookup to the local indexes: a miss fails
// immediately with a not-found error and no remote call is made.
func WithoutRefresh() Option {
	return func(o *lookupOptions) { o.allowRefresh = false }
}

func applyOptions(opts []Option) lookupOptions {
	o := lookupOptions{allowRefresh: true}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// CacheOption configures a cache at construction.
type CacheOption func(*cacheConfig)

type cacheConfig struct {
	metrics *Metrics
}

// WithMetrics attaches Prometheus counters to the cache.
func WithMetrics(m *Metrics) CacheOption {
	return func(c *cacheConfig) { c.metrics = m }
}

func applyCacheOptions(opts []CacheOption) cacheConfig {
	var cfg cacheConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// lookupHooks supplies the kind-specific remote queries for an engine.
// Each lookupBy hook performs one remote query and calls back into
// engine.cacheEntity for every usable result; it returns only remote
// service errors. Absence from the indexes after the hook ran is itself
// the not-found signal. name renders an entity's name key, or "" for
// entities that cannot be named; unnameable entities are never cached.
type lookupHooks interface {
	lookupByGUID(ctx context.Context, guid string) error
	lookupByQualifiedName(ctx context.Context, qualifiedName string) error
	lookupByName(ctx context.Context, name string) error
	name(ctx context.Context, entity assets.Asset) string
}

// engine is the shared machinery behind the identity caches: three
// monotonically growing indexes under an at-most-once-per-miss refresh
// protocol. The qualified-name and name indexes store GUIDs, never
// entities, so a single stored entity backs all three lookup paths.
type engine struct {
	kind    string
	hooks   lookupHooks
	metrics *Metrics

	mu         sync.RWMutex
	byGUID     map[string]assets.Asset
	guidByQN   map[string]string
	guidByName map[string]string

	// refreshMu serializes remote refreshes. Index reads never take it,
	// so steady-state hits only contend on mu's read side. Concurrent
	// misses on the same key each run their own refresh in turn; the
	// second one no-ops against already populated indexes.
	refreshMu sync.Mutex
}

func newEngine(kind string, hooks lookupHooks, metrics *Metrics) *engine {
	return &engine{
		kind:       kind,
		hooks:      hooks,
		metrics:    metrics,
		byGUID:     make(map[string]assets.Asset),
		guidByQN:   make(map[string]string),
		guidByName: make(map[string]string),
	}
}

func (e *engine) getByGUID(ctx context.Context, guid string, allowRefresh bool) (assets.Asset, error) {
	if guid == "" {
		return assets.Asset{}, missingIdentifier(e.kind, "GUID")
	}
	if entity, ok := e.peekByGUID(guid); ok {
		e.metrics.hit(e.kind, keyKindGUID)
		return entity, nil
	}
	e.metrics.miss(e.kind, keyKindGUID)
	if !allowRefresh {
		return assets.Asset{}, notFoundByGUID(e.kind, guid)
	}
	if err := e.refresh(keyKindGUID, func() error { return e.hooks.lookupByGUID(ctx, guid) }); err != nil {
		return assets.Asset{}, err
	}
	if entity, ok := e.peekByGUID(guid); ok {
		return entity, nil
	}
	return assets.Asset{}, notFoundByGUID(e.kind, guid)
}

func (e *engine) getByQualifiedName(ctx context.Context, qualifiedName string, allowRefresh bool) (assets.Asset, error) {
	if qualifiedName == "" {
		return assets.Asset{}, missingIdentifier(e.kind, "qualified name")
	}
	if entity, ok := e.peekByQualifiedName(qualifiedName); ok {
		e.metrics.hit(e.kind, keyKindQualifiedName)
		return entity, nil
	}
	e.metrics.miss(e.kind, keyKindQualifiedName)
	if !allowRefresh {
		return assets.Asset{}, notFoundByQualifiedName(e.kind, qualifiedName)
	}
	if err := e.refresh(keyKindQualifiedName, func() error { return e.hooks.lookupByQualifiedName(ctx, qualifiedName) }); err != nil {
		return assets.Asset{}, err
	}
	if entity, ok := e.peekByQualifiedName(qualifiedName); ok {
		return entity, nil
	}
	return assets.Asset{}, notFoundByQualifiedName(e.kind, qualifiedName)
}

// getByName expects the canonical string form of an already validated name
// key; the concrete caches parse and validate raw input first.
func (e *engine) getByName(ctx context.Context, name string, allowRefresh bool) (assets.Asset, error) {
	if name == "" {
		return assets.Asset{}, missingIdentifier(e.kind, "name")
	}
	if entity, ok := e.peekByName(name); ok {
		e.metrics.hit(e.kind, keyKindName)
		return entity, nil
	}
	e.metrics.miss(e.kind, keyKindName)
	if !allowRefresh {
		return assets.Asset{}, notFoundByName(e.kind, name)
	}
	if err := e.refresh(keyKindName, func() error { return e.hooks.lookupByName(ctx, name) }); err != nil {
		return assets.Asset{}, err
	}
	if entity, ok := e.peekByName(name); ok {
		return entity, nil
	}
	return assets.Asset{}, notFoundByName(e.kind, name)
}

// refresh runs one remote lookup with the refresh mutex held. The mutex is
// released on every exit path, including hook failures, and remote errors
// propagate untouched.
func (e *engine) refresh(keyKind string, fn func() error) error {
	e.refreshMu.Lock()
	defer e.refreshMu.Unlock()
	e.metrics.refresh(e.kind, keyKind)
	return fn()
}

// cacheEntity inserts an entity into all three indexes. Entities missing a
// GUID, qualified name, or name key are skipped silently: an unnameable
// entity is a designed soft miss, not an error. Re-caching an already
// cached entity is a harmless overwrite.
func (e *engine) cacheEntity(ctx context.Context, entity assets.Asset) {
	name := e.hooks.name(ctx, entity)
	guid := entity.GUID()
	qualifiedName := entity.QualifiedName()
	if name == "" || guid == "" || qualifiedName == "" {
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.byGUID[guid] = entity
	e.guidByQN[qualifiedName] = guid
	e.guidByName[name] = guid
}

func (e *engine) peekByGUID(guid string) (assets.Asset, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	entity, ok := e.byGUID[guid]
	return entity, ok
}

func (e *engine) peekByQualifiedName(qualifiedName string) (assets.Asset, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	guid, ok := e.guidByQN[qualifiedName]
	if !ok {
		return assets.Asset{}, false
	}
	entity, ok := e.byGUID[guid]
	return entity, ok
}

func (e *engine) peekByName(name string) (assets.Asset, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	guid, ok := e.guidByName[name]
	if !ok {
		return assets.Asset{}, false
	}
	entity, ok := e.byGUID[guid]
	return entity, ok
}

// The isKnown checks report only what this cache has already seen; they
// never consult the catalog, so false does not mean the entity is absent
// remotely.

func (e *engine) isGUIDKnown(guid string) bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	_, ok := e.byGUID[guid]
	return ok
}

func (e *engine) isQualifiedNameKnown(qualifiedName string) bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	_, ok := e.guidByQN[qualifiedName]
	return ok
}

func (e *engine) isNameKnown(name string) bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	_, ok := e.guidByName[name]
	return ok
}
