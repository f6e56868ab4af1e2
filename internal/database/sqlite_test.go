package database

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestOpenSQLite_CreatesParentDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "issues.db")
	db, err := OpenSQLite(context.Background(), path)
	require.NoError(t, err)
	defer db.Close()
	require.NoError(t, db.Ping())
	require.FileExists(t, path)
}
