package cache

import (
	"context"
	"log/slog"

	"github.com/txn2/catalog-client/pkg/assets"
	"github.com/txn2/catalog-client/pkg/client"
)

const kindConnection = "connection"

// connectionAttributes is the attribute projection requested for
// connection lookups.
var connectionAttributes = []string{"name", "connectorName", "qualifiedName"}

// ConnectionResolver is the slice of the connection cache consumed by
// collaborators that resolve owning connections, notably the source tag
// cache. Calls go through the public lookup API so the connection cache
// keeps its own locking discipline.
type ConnectionResolver interface {
	GetByQualifiedName(ctx context.Context, qualifiedName string, opts ...Option) (assets.Asset, error)
	GetByName(ctx context.Context, name string, opts ...Option) (assets.Asset, error)
}

// ConnectionCache resolves connections by GUID, qualified name, or
// "{connector}/{name}" name key, caching every connection it sees for the
// lifetime of the client.
type ConnectionCache struct {
	finder EntityFinder
	engine *engine
}

// NewConnectionCache creates a connection identity cache over the given
// finder.
func NewConnectionCache(finder EntityFinder, opts ...CacheOption) *ConnectionCache {
	cfg := applyCacheOptions(opts)
	c := &ConnectionCache{finder: finder}
	c.engine = newEngine(kindConnection, c, cfg.metrics)
	return c
}

// GetByGUID returns the connection with the given GUID, fetching it from
// the catalog on a local miss unless WithoutRefresh is given.
func (c *ConnectionCache) GetByGUID(ctx context.Context, guid string, opts ...Option) (assets.Asset, error) {
	o := applyOptions(opts)
	return c.engine.getByGUID(ctx, guid, o.allowRefresh)
}

// GetByQualifiedName returns the connection with the given qualified name,
// fetching it from the catalog on a local miss unless WithoutRefresh is
// given.
func (c *ConnectionCache) GetByQualifiedName(ctx context.Context, qualifiedName string, opts ...Option) (assets.Asset, error) {
	o := applyOptions(opts)
	return c.engine.getByQualifiedName(ctx, qualifiedName, o.allowRefresh)
}

// GetByName resolves a "{connector}/{name}" key. Unknown connector
// prefixes are registered as custom connector types, not rejected; an
// unparseable key fails with a missing-identifier error before any remote
// call.
func (c *ConnectionCache) GetByName(ctx context.Context, name string, opts ...Option) (assets.Asset, error) {
	key := assets.ParseConnectionName(name)
	if !key.Valid() {
		return assets.Asset{}, missingIdentifier(kindConnection, "name")
	}
	o := applyOptions(opts)
	return c.engine.getByName(ctx, key.String(), o.allowRefresh)
}

// IsGUIDKnown reports whether the GUID is already cached locally. It never
// consults the catalog.
func (c *ConnectionCache) IsGUIDKnown(guid string) bool {
	return c.engine.isGUIDKnown(guid)
}

// IsQualifiedNameKnown reports whether the qualified name is already
// cached locally. It never consults the catalog.
func (c *ConnectionCache) IsQualifiedNameKnown(qualifiedName string) bool {
	return c.engine.isQualifiedNameKnown(qualifiedName)
}

// IsNameKnown reports whether the name key is already cached locally. It
// never consults the catalog.
func (c *ConnectionCache) IsNameKnown(name string) bool {
	return c.engine.isNameKnown(assets.ParseConnectionName(name).String())
}

func (c *ConnectionCache) lookupByGUID(ctx context.Context, guid string) error {
	results, err := c.finder.Search(ctx, client.SearchRequest{
		SuperType:  assets.SuperTypeAsset,
		ActiveOnly: true,
		Terms:      map[string]string{client.FieldGUID: guid},
		Attributes: connectionAttributes,
		Limit:      1,
	})
	if err != nil {
		return err
	}
	// Search results are polymorphic; only an actual connection is cached.
	if len(results) > 0 && results[0].IsConnection() {
		c.engine.cacheEntity(ctx, results[0])
	}
	return nil
}

func (c *ConnectionCache) lookupByQualifiedName(ctx context.Context, qualifiedName string) error {
	results, err := c.finder.Search(ctx, client.SearchRequest{
		SuperType:  assets.SuperTypeAsset,
		ActiveOnly: true,
		Terms:      map[string]string{client.FieldQualifiedName: qualifiedName},
		Attributes: connectionAttributes,
		Limit:      1,
	})
	if err != nil {
		return err
	}
	if len(results) > 0 && results[0].IsConnection() {
		c.engine.cacheEntity(ctx, results[0])
	}
	return nil
}

func (c *ConnectionCache) lookupByName(ctx context.Context, name string) error {
	key := assets.ParseConnectionName(name)
	if !key.Valid() {
		return nil
	}
	results, err := c.finder.FindConnectionsByName(ctx, key.Name, key.Type, connectionAttributes)
	if err != nil {
		return err
	}
	if len(results) == 0 {
		return nil
	}
	if len(results) > 1 {
		slog.Warn("multiple connections share a name key, caching the first",
			"name", name, "count", len(results))
	}
	c.engine.cacheEntity(ctx, results[0])
	return nil
}

func (c *ConnectionCache) name(_ context.Context, entity assets.Asset) string {
	return assets.ConnectionNameOf(entity).String()
}

var (
	_ lookupHooks        = (*ConnectionCache)(nil)
	_ ConnectionResolver = (*ConnectionCache)(nil)
)
