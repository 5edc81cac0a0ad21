package assets

import (
	"context"
	"fmt"
	"strings"
)

// sourceTagDelimiter separates the owning connection's name key from the
// partial tag path in a source tag name key.
const sourceTagDelimiter = "@@"

// connectionDepth is the number of leading qualified-name segments that
// identify an entity's owning connection.
const connectionDepth = 3

// ConnectionLookup resolves a connection entity by qualified name. The
// source tag cache supplies one backed by the connection identity cache.
type ConnectionLookup func(ctx context.Context, qualifiedName string) (Asset, error)

// SourceTagName is the human-constructable identity of a source tag: the
// owning connection's name key plus the tag's partial path inside that
// connection, rendered as "{connection}@@{partialPath}".
// The zero value is invalid.
type SourceTagName struct {
	Connection  ConnectionName
	PartialPath string
}

// ParseSourceTagName parses a "{connection}@@{partialPath}" key. The raw
// string must split into exactly two non-empty parts and the connection
// half must itself parse; otherwise the invalid zero value is returned.
func ParseSourceTagName(raw string) SourceTagName {
	parts := strings.Split(raw, sourceTagDelimiter)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return SourceTagName{}
	}
	connection := ParseConnectionName(parts[0])
	if !connection.Valid() {
		return SourceTagName{}
	}
	return SourceTagName{Connection: connection, PartialPath: parts[1]}
}

// SourceTagNameOf derives the name key from a live source tag entity. The
// owning connection's qualified name is the first three segments of the
// tag's qualified name; it is resolved through the supplied lookup so the
// connection cache's own refresh protocol applies. A failed resolution
// makes the tag unnameable and is returned as an error for the caller to
// log and skip.
func SourceTagNameOf(ctx context.Context, tag Asset, lookup ConnectionLookup) (SourceTagName, error) {
	qualifiedName := tag.QualifiedName()
	parts := strings.SplitN(qualifiedName, "/", connectionDepth+1)
	if len(parts) != connectionDepth+1 || parts[connectionDepth] == "" {
		return SourceTagName{}, fmt.Errorf("qualified name %q carries no connection prefix", qualifiedName)
	}
	connectionQN := strings.Join(parts[:connectionDepth], "/")
	connection, err := lookup(ctx, connectionQN)
	if err != nil {
		return SourceTagName{}, fmt.Errorf("resolving owning connection %s: %w", connectionQN, err)
	}
	key := SourceTagName{
		Connection:  ConnectionNameOf(connection),
		PartialPath: parts[connectionDepth],
	}
	if !key.Valid() {
		return SourceTagName{}, fmt.Errorf("owning connection %s has no usable name key", connectionQN)
	}
	return key, nil
}

// Valid reports whether both composite fields are populated.
func (n SourceTagName) Valid() bool {
	return n.Connection.Valid() && n.PartialPath != ""
}

// String renders the canonical "{connection}@@{partialPath}" form, or ""
// when the key is invalid.
func (n SourceTagName) String() string {
	if !n.Valid() {
		return ""
	}
	return n.Connection.String() + sourceTagDelimiter + n.PartialPath
}
