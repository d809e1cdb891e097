package store

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSchemaEmbedded(t *testing.T) {
	b, err := schema.ReadFile("schema.sql")
	require.NoError(t, err)
	ddl := string(b)
	require.Contains(t, ddl, "CREATE TABLE IF NOT EXISTS games")
	require.Contains(t, ddl, "CREATE TABLE IF NOT EXISTS chat_turns")
	require.Contains(t, ddl, "offer_history")
}

func TestNullHelpers(t *testing.T) {
	require.Nil(t, optInt(nil))
	v := 42
	require.Equal(t, 42, optInt(&v))

	require.Nil(t, optFloat(nil))
	f := 0.2
	require.Equal(t, 0.2, optFloat(&f))

	require.Nil(t, nullable(""))
	require.Equal(t, "confident", nullable("confident"))
}
