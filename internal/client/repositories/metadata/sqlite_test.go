package metadata

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/payscan/payscan/internal/dbx"

	_ "modernc.org/sqlite"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`CREATE TABLE metadata (key TEXT PRIMARY KEY, value BLOB NOT NULL)`)
	require.NoError(t, err)
	return db
}

func TestSQLiteRepository_GetSetOverwrite(t *testing.T) {
	ctx := context.Background()
	repo := NewSQLiteRepository(setupDB(t))

	got, err := repo.Get(ctx, "token")
	require.NoError(t, err)
	assert.Nil(t, got)

	require.NoError(t, repo.Set(ctx, "token", []byte("abc")))
	require.NoError(t, repo.Set(ctx, "token", []byte("def")))

	got, err = repo.Get(ctx, "token")
	require.NoError(t, err)
	assert.Equal(t, []byte("def"), got)
}

func TestSQLiteRepository_SetNilStoresEmpty(t *testing.T) {
	ctx := context.Background()
	repo := NewSQLiteRepository(setupDB(t))

	require.NoError(t, repo.Set(ctx, "user", nil))
	got, err := repo.Get(ctx, "user")
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestSQLiteRepository_DeleteKeys(t *testing.T) {
	ctx := context.Background()
	repo := NewSQLiteRepository(setupDB(t))

	for _, k := range []string{"token", "user", "other"} {
		require.NoError(t, repo.Set(ctx, k, []byte(k)))
	}

	require.NoError(t, repo.DeleteKeys(ctx))
	require.NoError(t, repo.DeleteKeys(ctx, "token", "user", "missing"))

	for k, want := range map[string][]byte{"token": nil, "user": nil, "other": []byte("other")} {
		got, err := repo.Get(ctx, k)
		require.NoError(t, err)
		assert.Equal(t, want, got, k)
	}
}

func TestSQLiteRepository_InsideTransaction(t *testing.T) {
	ctx := context.Background()
	db := setupDB(t)

	err := dbx.WithTx(ctx, db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		return NewSQLiteRepository(tx).Set(ctx, "token", []byte("in-tx"))
	})
	require.NoError(t, err)

	got, err := NewSQLiteRepository(db).Get(ctx, "token")
	require.NoError(t, err)
	assert.Equal(t, []byte("in-tx"), got)
}

func TestSQLiteRepository_ErrorsAreWrapped(t *testing.T) {
	ctx := context.Background()
	db := setupDB(t)
	repo := NewSQLiteRepository(db)
	require.NoError(t, db.Close())

	_, err := repo.Get(ctx, "token")
	assert.ErrorContains(t, err, "read token")

	err = repo.Set(ctx, "token", []byte("x"))
	assert.ErrorContains(t, err, "write token")

	err = repo.DeleteKeys(ctx, "token", "user")
	assert.ErrorContains(t, err, "delete token, user")
}
