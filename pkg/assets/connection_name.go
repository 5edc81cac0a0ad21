package assets

import "strings"

// ConnectionName is the human-constructable identity of a connection: a
// connector type plus a simple name, rendered as "{connector}/{name}".
// The zero value is invalid. Equality is structural over both fields.
type ConnectionName struct {
	Type ConnectorType
	Name string
}

// ParseConnectionName parses a "{connector}/{name}" key. The split happens
// at the first slash only, so simple names may themselves contain slashes.
// An unknown connector prefix is registered as a custom connector type,
// not rejected. Malformed input yields the invalid zero value.
func ParseConnectionName(raw string) ConnectionName {
	idx := strings.Index(raw, "/")
	if idx <= 0 || idx == len(raw)-1 {
		return ConnectionName{}
	}
	return ConnectionName{
		Type: GetOrCreateConnectorType(raw[:idx]),
		Name: raw[idx+1:],
	}
}

// ConnectionNameOf derives the name key from a live connection entity.
// Returns the invalid zero value when the entity is not a connection or is
// missing its connector or simple name.
func ConnectionNameOf(entity Asset) ConnectionName {
	if !entity.IsConnection() {
		return ConnectionName{}
	}
	if entity.Attributes.ConnectorName == "" || entity.Attributes.Name == "" {
		return ConnectionName{}
	}
	return ConnectionName{
		Type: GetOrCreateConnectorType(entity.Attributes.ConnectorName),
		Name: entity.Attributes.Name,
	}
}

// Valid reports whether both composite fields are populated.
func (n ConnectionName) Valid() bool {
	return n.Type.Valid() && n.Name != ""
}

// String renders the canonical "{connector}/{name}" form, or "" when the
// key is invalid.
func (n ConnectionName) String() string {
	if !n.Valid() {
		return ""
	}
	return n.Type.Value + "/" + n.Name
}
