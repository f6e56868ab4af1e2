package repository

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/gogotex/issuetracker/internal/database"
	"github.com/stretchr/testify/require"
)

func newSQLiteRepo(t *testing.T) *SQLiteRepo {
	t.Helper()
	ctx := context.Background()
	db, err := database.OpenSQLite(ctx, filepath.Join(t.TempDir(), "issues.db"))
	require.NoError(t, err)
	r, err := NewSQLiteRepo(ctx, db)
	require.NoError(t, err)
	t.Cleanup(func() { _ = r.Close(ctx) })
	return r
}

func TestSQLiteRepo(t *testing.T) {
	testRepositoryBehaviour(t, newSQLiteRepo(t))
}

func TestSQLiteRepo_SchemaIsIdempotent(t *testing.T) {
	r := newSQLiteRepo(t)
	ctx := context.Background()
	require.NoError(t, r.Create(ctx, "p", newIssue("kept", "alice")))

	again, err := NewSQLiteRepo(ctx, r.db)
	require.NoError(t, err)
	list, err := again.Find(ctx, "p", Filter{})
	require.NoError(t, err)
	require.Len(t, list, 1)
}
