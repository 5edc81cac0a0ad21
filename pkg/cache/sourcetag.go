package cache

import (
	"context"
	"log/slog"

	"github.com/txn2/catalog-client/pkg/assets"
	"github.com/txn2/catalog-client/pkg/client"
)

const kindSourceTag = "source_tag"

// sourceTagAttributes is the attribute projection requested for source tag
// lookups.
var sourceTagAttributes = []string{"name", "qualifiedName"}

// SourceTagCache resolves source tags by GUID, qualified name, or
// "{connection}@@{path}" name key. Tag name keys are derived from the
// owning connection, so the cache holds an explicit ConnectionResolver
// supplied at construction.
type SourceTagCache struct {
	finder      EntityFinder
	connections ConnectionResolver
	engine      *engine
}

// NewSourceTagCache creates a source tag identity cache over the given
// finder. Owning connections are resolved through connections, normally
// the client's ConnectionCache.
func NewSourceTagCache(finder EntityFinder, connections ConnectionResolver, opts ...CacheOption) *SourceTagCache {
	cfg := applyCacheOptions(opts)
	c := &SourceTagCache{finder: finder, connections: connections}
	c.engine = newEngine(kindSourceTag, c, cfg.metrics)
	return c
}

// GetByGUID returns the source tag with the given GUID, fetching it from
// the catalog on a local miss unless WithoutRefresh is given.
func (c *SourceTagCache) GetByGUID(ctx context.Context, guid string, opts ...Option) (assets.Asset, error) {
	o := applyOptions(opts)
	return c.engine.getByGUID(ctx, guid, o.allowRefresh)
}

// GetByQualifiedName returns the source tag with the given qualified name,
// fetching it from the catalog on a local miss unless WithoutRefresh is
// given.
func (c *SourceTagCache) GetByQualifiedName(ctx context.Context, qualifiedName string, opts ...Option) (assets.Asset, error) {
	o := applyOptions(opts)
	return c.engine.getByQualifiedName(ctx, qualifiedName, o.allowRefresh)
}

// GetByName resolves a "{connection}@@{path}" key. An unparseable key
// fails with a missing-identifier error before any remote call. Resolving
// the owning connection may trigger the connection cache's own refresh.
func (c *SourceTagCache) GetByName(ctx context.Context, name string, opts ...Option) (assets.Asset, error) {
	key := assets.ParseSourceTagName(name)
	if !key.Valid() {
		return assets.Asset{}, missingIdentifier(kindSourceTag, "name")
	}
	o := applyOptions(opts)
	return c.engine.getByName(ctx, key.String(), o.allowRefresh)
}

// IsGUIDKnown reports whether the GUID is already cached locally. It never
// consults the catalog.
func (c *SourceTagCache) IsGUIDKnown(guid string) bool {
	return c.engine.isGUIDKnown(guid)
}

// IsQualifiedNameKnown reports whether the qualified name is already
// cached locally. It never consults the catalog.
func (c *SourceTagCache) IsQualifiedNameKnown(qualifiedName string) bool {
	return c.engine.isQualifiedNameKnown(qualifiedName)
}

// IsNameKnown reports whether the name key is already cached locally. It
// never consults the catalog.
func (c *SourceTagCache) IsNameKnown(name string) bool {
	return c.engine.isNameKnown(assets.ParseSourceTagName(name).String())
}

func (c *SourceTagCache) lookupByGUID(ctx context.Context, guid string) error {
	results, err := c.finder.Search(ctx, client.SearchRequest{
		SuperType:  assets.SuperTypeTag,
		ActiveOnly: true,
		Terms:      map[string]string{client.FieldGUID: guid},
		Attributes: sourceTagAttributes,
		Limit:      1,
	})
	if err != nil {
		return err
	}
	// DatabricksUnityCatalogTag does not report the Tag super-type, so the
	// result check accepts any recognized asset rather than requiring a
	// tag. Narrow workaround for that one subtype; do not widen further.
	if len(results) > 0 && results[0].IsAsset() {
		c.engine.cacheEntity(ctx, results[0])
	}
	return nil
}

func (c *SourceTagCache) lookupByQualifiedName(ctx context.Context, qualifiedName string) error {
	results, err := c.finder.Search(ctx, client.SearchRequest{
		SuperType:  assets.SuperTypeTag,
		ActiveOnly: true,
		Terms:      map[string]string{client.FieldQualifiedName: qualifiedName},
		Attributes: sourceTagAttributes,
		Limit:      1,
	})
	if err != nil {
		return err
	}
	if len(results) > 0 && results[0].IsAsset() {
		c.engine.cacheEntity(ctx, results[0])
	}
	return nil
}

// lookupByName resolves the owning connection through the connection
// cache, then searches for the tag under the composite qualified name.
func (c *SourceTagCache) lookupByName(ctx context.Context, name string) error {
	key := assets.ParseSourceTagName(name)
	if !key.Valid() {
		return nil
	}
	connection, err := c.connections.GetByName(ctx, key.Connection.String())
	if err != nil {
		return err
	}
	return c.lookupByQualifiedName(ctx, connection.QualifiedName()+"/"+key.PartialPath)
}

// name derives the tag's name key, which requires resolving its owning
// connection. A tag whose connection cannot be resolved is unnameable: it
// is logged and skipped, never surfaced as a lookup failure.
func (c *SourceTagCache) name(ctx context.Context, entity assets.Asset) string {
	if !entity.IsAsset() {
		return ""
	}
	key, err := assets.SourceTagNameOf(ctx, entity, func(ctx context.Context, qualifiedName string) (assets.Asset, error) {
		return c.connections.GetByQualifiedName(ctx, qualifiedName)
	})
	if err != nil {
		slog.Debug("skipping source tag with unresolvable owning connection",
			"qualified_name", entity.QualifiedName(), "error", err)
		return ""
	}
	return key.String()
}

var _ lookupHooks = (*SourceTagCache)(nil)
