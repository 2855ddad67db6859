package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitDDLStatements(t *testing.T) {
	content := `-- header comment
CREATE TABLE a (
  id STRING(36) NOT NULL,
) PRIMARY KEY (id);

-- second
CREATE INDEX idx ON a(id);
;
`
	statements := splitDDLStatements(content)
	require.Len(t, statements, 2)
	assert.Equal(t, "CREATE TABLE a (\nid STRING(36) NOT NULL,\n) PRIMARY KEY (id)", statements[0])
	assert.Equal(t, "CREATE INDEX idx ON a(id)", statements[1])
}

func TestInitialSchema(t *testing.T) {
	content, err := os.ReadFile(filepath.Join("..", "..", "migrations", "001_initial_schema.sql"))
	require.NoError(t, err)

	statements := splitDDLStatements(string(content))
	require.NotEmpty(t, statements)

	joined := ""
	for _, s := range statements {
		joined += s + "\n"
	}
	for _, table := range []string{"quotes", "price_history", "outbox_events", "packages"} {
		assert.Contains(t, joined, "CREATE TABLE IF NOT EXISTS "+table+" (")
	}
}

func TestTargetNames(t *testing.T) {
	tg := target{projectID: "p", instanceID: "i", databaseID: "d"}
	assert.Equal(t, "projects/p/instances/i", tg.instanceName())
	assert.Equal(t, "projects/p/instances/i/databases/d", tg.databaseName())
}
