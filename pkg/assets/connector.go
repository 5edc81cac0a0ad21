package assets

import (
	"strings"
	"sync"
)

// ConnectorType identifies the kind of external system a connection
// represents (e.g. "snowflake"). The set is open-world: unrecognized codes
// encountered while parsing name keys are registered on the fly as custom
// connector types rather than rejected.
type ConnectorType struct {
	// Value is the canonical lowercase code as it appears in qualified
	// names and connection name keys.
	Value string

	// Name is the symbolic identifier derived from the code
	// (e.g. "SNOWFLAKE", or "FOO_BAR" for the custom code "foo-bar").
	Name string
}

// Valid reports whether the descriptor carries a connector code.
func (t ConnectorType) Valid() bool {
	return t.Value != ""
}

var (
	connectorMu       sync.RWMutex
	connectorRegistry = make(map[string]ConnectorType)
)

// Well-known connector codes seeded at startup. Anything else becomes a
// custom connector type via GetOrCreateConnectorType.
var wellKnownConnectors = []string{
	"airflow",
	"athena",
	"bigquery",
	"databricks",
	"dbt",
	"dynamodb",
	"glue",
	"hive",
	"kafka",
	"looker",
	"mongodb",
	"mssql",
	"mysql",
	"oracle",
	"postgres",
	"powerbi",
	"presto",
	"redshift",
	"s3",
	"snowflake",
	"tableau",
	"trino",
}

func init() {
	for _, code := range wellKnownConnectors {
		connectorRegistry[code] = ConnectorType{Value: code, Name: symbolicName(code)}
	}
}

// ConnectorTypeFor returns the registered descriptor for a connector code.
func ConnectorTypeFor(code string) (ConnectorType, bool) {
	connectorMu.RLock()
	defer connectorMu.RUnlock()
	t, ok := connectorRegistry[code]
	return t, ok
}

// GetOrCreateConnectorType returns the descriptor for a connector code,
// registering a custom descriptor when the code is unknown. The custom
// descriptor preserves the raw code as its Value.
func GetOrCreateConnectorType(code string) ConnectorType {
	if t, ok := ConnectorTypeFor(code); ok {
		return t
	}
	connectorMu.Lock()
	defer connectorMu.Unlock()
	if t, ok := connectorRegistry[code]; ok {
		return t
	}
	t := ConnectorType{Value: code, Name: symbolicName(code)}
	connectorRegistry[code] = t
	return t
}

// symbolicName transforms a connector code into its symbolic identifier:
// uppercased, with non-alphanumeric runs collapsed to underscores.
func symbolicName(code string) string {
	var b strings.Builder
	b.Grow(len(code))
	underscore := false
	for _, r := range strings.ToUpper(code) {
		if (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			underscore = false
			continue
		}
		if !underscore && b.Len() > 0 {
			b.WriteByte('_')
			underscore = true
		}
	}
	return strings.TrimSuffix(b.String(), "_")
}
