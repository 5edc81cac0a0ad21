package assets

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConnectorTypeFor_WellKnown(t *testing.T) {
	ct, ok := ConnectorTypeFor("snowflake")
	require.True(t, ok)
	assert.Equal(t, "snowflake", ct.Value)
	assert.Equal(t, "SNOWFLAKE", ct.Name)
}

func TestConnectorTypeFor_Unknown(t *testing.T) {
	_, ok := ConnectorTypeFor("never-registered-xyz")
	assert.False(t, ok)
}

func TestGetOrCreateConnectorType_SynthesizesCustom(t *testing.T) {
	ct := GetOrCreateConnectorType("foo-bar")
	assert.Equal(t, "foo-bar", ct.Value)
	assert.Equal(t, "FOO_BAR", ct.Name)

	// The synthesized type is registered for subsequent lookups.
	again, ok := ConnectorTypeFor("foo-bar")
	require.True(t, ok)
	assert.Equal(t, ct, again)
}

func TestGetOrCreateConnectorType_Idempotent(t *testing.T) {
	first := GetOrCreateConnectorType("custom-warehouse-9")
	second := GetOrCreateConnectorType("custom-warehouse-9")
	assert.Equal(t, first, second)
}

func TestSymbolicName(t *testing.T) {
	tests := []struct {
		code string
		want string
	}{
		{"snowflake", "SNOWFLAKE"},
		{"foo-bar", "FOO_BAR"},
		{"s3", "S3"},
		{"a..b", "A_B"},
		{"weird--code-", "WEIRD_CODE"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, symbolicName(tt.code), tt.code)
	}
}
