// Package assets defines the entity model consumed by the identity caches:
// the polymorphic Asset shape returned by catalog searches, the open-world
// connector type registry, and the name key value types.
package assets

// Entity type names the identity caches care about. SourceTag covers the
// connector-specific tag subtypes the catalog actually returns.
const (
	TypeConnection = "Connection"
	TypeSourceTag  = "SourceTag"

	TypeSnowflakeTag              = "SnowflakeTag"
	TypeDbtTag                    = "DbtTag"
	TypeBigqueryTag               = "BigqueryTag"
	TypeDatabricksUnityCatalogTag = "DatabricksUnityCatalogTag"
)

// Super-type filters understood by the catalog search endpoint.
const (
	SuperTypeAsset = "Asset"
	SuperTypeTag   = "Tag"
)

// StatusActive marks entities that have not been soft-deleted.
const StatusActive = "ACTIVE"

var sourceTagTypeNames = map[string]bool{
	TypeSourceTag:                 true,
	TypeSnowflakeTag:              true,
	TypeDbtTag:                    true,
	TypeBigqueryTag:               true,
	TypeDatabricksUnityCatalogTag: true,
}

var knownTypeNames = map[string]bool{
	TypeConnection:                true,
	TypeSourceTag:                 true,
	TypeSnowflakeTag:              true,
	TypeDbtTag:                    true,
	TypeBigqueryTag:               true,
	TypeDatabricksUnityCatalogTag: true,
}

// Attributes is the minimal attribute projection the identity caches
// request from the catalog.
type Attributes struct {
	QualifiedName string `json:"qualifiedName,omitempty"`
	Name          string `json:"name,omitempty"`
	ConnectorName string `json:"connectorName,omitempty"`
}

// Asset is the polymorphic entity shape returned by catalog searches. The
// caches hold these by value; they never mutate them after caching.
type Asset struct {
	TypeName   string     `json:"typeName"`
	Guid       string     `json:"guid"`
	Status     string     `json:"status,omitempty"`
	Attributes Attributes `json:"attributes"`
}

// GUID returns the catalog-internal unique identifier.
func (a Asset) GUID() string {
	return a.Guid
}

// QualifiedName returns the stable, globally unique string identifier.
func (a Asset) QualifiedName() string {
	return a.Attributes.QualifiedName
}

// Name returns the entity's simple name.
func (a Asset) Name() string {
	return a.Attributes.Name
}

// IsActive reports whether the entity has not been soft-deleted.
func (a Asset) IsActive() bool {
	return a.Status == StatusActive
}

// IsConnection reports whether the entity is a connection.
func (a Asset) IsConnection() bool {
	return a.TypeName == TypeConnection
}

// IsSourceTag reports whether the entity is a source tag of any connector
// flavor.
func (a Asset) IsSourceTag() bool {
	return sourceTagTypeNames[a.TypeName]
}

// IsAsset reports whether the entity carries a type name this SDK
// recognizes. Search results are polymorphic, so callers use this as the
// loosest sanity check on a result.
func (a Asset) IsAsset() bool {
	return knownTypeNames[a.TypeName]
}
