package migrations

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindMigrationFiles_SortedAndFiltered(t *testing.T) {
	source := fstest.MapFS{
		"002_add_label.sql":       {Data: []byte("ALTER TABLE x ADD COLUMN y TEXT;")},
		"001_rng_snapshots.sql":   {Data: []byte("CREATE TABLE x (id INT);")},
		"README.md":               {Data: []byte("not a migration")},
		"nounderscore.sql":        {Data: []byte("SELECT 1;")},
		"010_later_migration.sql": {Data: []byte("SELECT 2;")},
	}
	m := NewMigratorFS(nil, source, nil)

	files, err := m.findMigrationFiles()
	require.NoError(t, err)
	require.Len(t, files, 3)

	assert.Equal(t, "001", files[0].Version)
	assert.Equal(t, "002", files[1].Version)
	assert.Equal(t, "010", files[2].Version)
	assert.Equal(t, "001_rng_snapshots", files[0].Name)
	assert.Equal(t, calculateChecksum([]byte("CREATE TABLE x (id INT);")), files[0].Checksum)
}

func TestEmbeddedMigrations(t *testing.T) {
	m := NewMigrator(nil, nil)

	files, err := m.findMigrationFiles()
	require.NoError(t, err)
	require.NotEmpty(t, files)
	assert.Equal(t, "001", files[0].Version)
	assert.Contains(t, files[0].SQL, "rng_snapshots")
}
