package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetTableColumns(t *testing.T) {
	db, err := Connect(Config{Driver: "sqlite", Name: ":memory:"})
	require.NoError(t, err)

	err = db.Exec("CREATE TABLE beatmaps (beatmap_md5 TEXT PRIMARY KEY, beatmap_id INTEGER NOT NULL, song_name TEXT)").Error
	require.NoError(t, err)

	columns, err := GetTableColumns(db, "beatmaps")
	require.NoError(t, err)
	require.Len(t, columns, 3)

	colMap := make(map[string]ColumnInfo)
	for _, col := range columns {
		colMap[col.Field] = col
	}

	assert.Equal(t, "text", colMap["beatmap_md5"].Type)
	assert.Equal(t, "PRI", colMap["beatmap_md5"].Key)
	assert.Equal(t, "integer", colMap["beatmap_id"].Type)
	assert.Equal(t, "NO", colMap["beatmap_id"].Null)
	assert.Equal(t, "YES", colMap["song_name"].Null)

	// PRAGMA table_info returns an empty result for a missing table
	cols, err := GetTableColumns(db, "non_existent")
	assert.NoError(t, err)
	assert.Empty(t, cols)
}

func TestMissingColumns(t *testing.T) {
	db, err := Connect(Config{Driver: "sqlite", Name: ":memory:"})
	require.NoError(t, err)
	require.NoError(t, db.Exec("CREATE TABLE beatmaps (beatmap_md5 TEXT, playcount INTEGER)").Error)

	missing, err := MissingColumns(db, "beatmaps", []string{"beatmap_md5", "playcount", "passcount"})
	require.NoError(t, err)
	assert.Equal(t, []string{"passcount"}, missing)

	missing, err = MissingColumns(db, "nope", []string{"a", "b"})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, missing)
}
