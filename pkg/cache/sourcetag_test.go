package cache

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/txn2/catalog-client/pkg/assets"
	"github.com/txn2/catalog-client/pkg/client"
)

// fakeResolver is a scripted ConnectionResolver standing in for the
// connection cache.
type fakeResolver struct {
	mu         sync.Mutex
	qnCalls    int
	nameCalls  int
	connection assets.Asset
	err        error
}

func (f *fakeResolver) GetByQualifiedName(context.Context, string, ...Option) (assets.Asset, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.qnCalls++
	if f.err != nil {
		return assets.Asset{}, f.err
	}
	return f.connection, nil
}

func (f *fakeResolver) GetByName(context.Context, string, ...Option) (assets.Asset, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nameCalls++
	if f.err != nil {
		return assets.Asset{}, f.err
	}
	return f.connection, nil
}

func sourceTagFixture(typeName string) assets.Asset {
	return assets.Asset{
		TypeName: typeName,
		Guid:     "T",
		Status:   assets.StatusActive,
		Attributes: assets.Attributes{
			QualifiedName: "default/snowflake/171234/DB/SCHEMA/TAG",
			Name:          "TAG",
		},
	}
}

func newTagCache(finder *fakeFinder, resolver *fakeResolver) *SourceTagCache {
	if resolver.connection.GUID() == "" && resolver.err == nil {
		resolver.connection = connectionFixture("C", "development")
	}
	return NewSourceTagCache(finder, resolver)
}

func TestSourceTagCache_GetByGUID(t *testing.T) {
	finder := &fakeFinder{searchResults: []assets.Asset{sourceTagFixture(assets.TypeSnowflakeTag)}}
	resolver := &fakeResolver{}
	tc := newTagCache(finder, resolver)

	got, err := tc.GetByGUID(context.Background(), "T")
	require.NoError(t, err)
	assert.Equal(t, "T", got.GUID())

	assert.Equal(t, assets.SuperTypeTag, finder.lastSearch.SuperType)
	assert.True(t, finder.lastSearch.ActiveOnly)
	assert.Equal(t, sourceTagAttributes, finder.lastSearch.Attributes)

	// The name key was derived through the resolver and indexed.
	assert.True(t, tc.IsNameKnown("snowflake/development@@DB/SCHEMA/TAG"))
	assert.Equal(t, 1, resolver.qnCalls)
}

func TestSourceTagCache_GetByNameComposesQualifiedName(t *testing.T) {
	finder := &fakeFinder{searchResults: []assets.Asset{sourceTagFixture(assets.TypeSnowflakeTag)}}
	resolver := &fakeResolver{}
	tc := newTagCache(finder, resolver)

	got, err := tc.GetByName(context.Background(), "snowflake/development@@DB/SCHEMA/TAG")
	require.NoError(t, err)
	assert.Equal(t, "T", got.GUID())

	// The owning connection came from the resolver; the tag search used
	// the connection's qualified name plus the partial path.
	assert.Equal(t, 1, resolver.nameCalls)
	assert.Equal(t,
		map[string]string{client.FieldQualifiedName: "default/snowflake/171234/DB/SCHEMA/TAG"},
		finder.lastSearch.Terms)

	// All three key paths now hit locally.
	byGUID, err := tc.GetByGUID(context.Background(), "T")
	require.NoError(t, err)
	assert.Equal(t, got, byGUID)
	assert.Equal(t, 1, finder.calls())
}

func TestSourceTagCache_RelaxedTypeCheck(t *testing.T) {
	// DatabricksUnityCatalogTag is cached even though it does not report
	// the Tag super-type.
	finder := &fakeFinder{searchResults: []assets.Asset{sourceTagFixture(assets.TypeDatabricksUnityCatalogTag)}}
	tc := newTagCache(finder, &fakeResolver{})

	got, err := tc.GetByGUID(context.Background(), "T")
	require.NoError(t, err)
	assert.Equal(t, assets.TypeDatabricksUnityCatalogTag, got.TypeName)
}

func TestSourceTagCache_UnrecognizedResultNotCached(t *testing.T) {
	finder := &fakeFinder{searchResults: []assets.Asset{sourceTagFixture("Table")}}
	tc := newTagCache(finder, &fakeResolver{})

	_, err := tc.GetByGUID(context.Background(), "T")
	assert.True(t, IsNotFound(err))
	assert.False(t, tc.IsGUIDKnown("T"))
}

func TestSourceTagCache_UnnameableTagIsSoftMiss(t *testing.T) {
	// The tag is found, but its owning connection cannot be resolved, so
	// it is never cached: the caller sees a plain not-found, not the
	// resolver's failure.
	finder := &fakeFinder{searchResults: []assets.Asset{sourceTagFixture(assets.TypeSnowflakeTag)}}
	resolver := &fakeResolver{err: notFoundByQualifiedName(kindConnection, "default/snowflake/171234")}
	tc := NewSourceTagCache(finder, resolver)

	_, err := tc.GetByGUID(context.Background(), "T")
	require.Error(t, err)
	assert.True(t, IsNotFound(err))

	var ce *Error
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, ErrCodeNotFoundByGUID, ce.Code)
	assert.Equal(t, "T", ce.Key)
}

func TestSourceTagCache_ResolverFailureOnNameLookupPropagates(t *testing.T) {
	remoteErr := &client.RemoteError{StatusCode: 401, Body: "bad token"}
	finder := &fakeFinder{}
	resolver := &fakeResolver{err: remoteErr}
	tc := NewSourceTagCache(finder, resolver)

	_, err := tc.GetByName(context.Background(), "snowflake/development@@DB/SCHEMA/TAG")
	assert.ErrorIs(t, err, remoteErr)
	assert.Equal(t, 0, finder.calls())
}

func TestSourceTagCache_InvalidNameKeyFailsFast(t *testing.T) {
	finder := &fakeFinder{}
	resolver := &fakeResolver{}
	tc := newTagCache(finder, resolver)
	ctx := context.Background()

	for _, raw := range []string{"", "snowflake/development", "a@@b@@c"} {
		_, err := tc.GetByName(ctx, raw)
		assert.True(t, IsMissingIdentifier(err), raw)
	}
	assert.Equal(t, 0, finder.calls())
	assert.Equal(t, 0, resolver.nameCalls)
}

func TestSourceTagCache_WithoutRefreshNeverCallsRemote(t *testing.T) {
	finder := &fakeFinder{searchResults: []assets.Asset{sourceTagFixture(assets.TypeSnowflakeTag)}}
	tc := newTagCache(finder, &fakeResolver{})

	_, err := tc.GetByQualifiedName(context.Background(), "default/snowflake/171234/DB/SCHEMA/TAG", WithoutRefresh())
	assert.True(t, IsNotFound(err))
	assert.Equal(t, 0, finder.calls())
}

func TestSourceTagCache_WithRealConnectionCache(t *testing.T) {
	// Cross-cache composition end to end: the tag cache resolves the
	// owning connection through a real connection cache backed by its own
	// finder.
	connFinder := &fakeFinder{
		searchResults: []assets.Asset{connectionFixture("C", "development")},
		findResults:   []assets.Asset{connectionFixture("C", "development")},
	}
	cc := NewConnectionCache(connFinder)

	tagFinder := &fakeFinder{searchResults: []assets.Asset{sourceTagFixture(assets.TypeSnowflakeTag)}}
	tc := NewSourceTagCache(tagFinder, cc)

	got, err := tc.GetByName(context.Background(), "snowflake/development@@DB/SCHEMA/TAG")
	require.NoError(t, err)
	assert.Equal(t, "T", got.GUID())
	assert.Equal(t, "default/snowflake/171234/DB/SCHEMA/TAG", got.QualifiedName())

	// The connection cache was populated along the way.
	assert.True(t, cc.IsGUIDKnown("C"))
}
