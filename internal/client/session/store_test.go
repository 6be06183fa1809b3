package session

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/payscan/payscan/internal/client/models"

	_ "modernc.org/sqlite"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`
CREATE TABLE metadata (
  key   TEXT PRIMARY KEY,
  value BLOB NOT NULL
);`)
	require.NoError(t, err)
	return db
}

var alice = models.User{ID: 1, Username: "alice", Email: "alice@example.org"}

func TestStore_EmptyIsSignedOut(t *testing.T) {
	s := NewStore(setupDB(t))
	ctx := context.Background()

	tok, err := s.Token(ctx)
	require.NoError(t, err)
	assert.Empty(t, tok)

	u, err := s.User(ctx)
	require.NoError(t, err)
	assert.Nil(t, u)

	assert.False(t, s.IsAuthenticated(ctx))

	sess, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Nil(t, sess)
}

func TestStore_SaveLoadClear(t *testing.T) {
	s := NewStore(setupDB(t))
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, "tok-1", alice))
	assert.True(t, s.IsAuthenticated(ctx))

	sess, err := s.Load(ctx)
	require.NoError(t, err)
	require.NotNil(t, sess)
	assert.Equal(t, "tok-1", sess.Token)
	require.NotNil(t, sess.User)
	assert.Equal(t, "alice", sess.User.Username)
	assert.Equal(t, "alice@example.org", sess.User.Email)

	require.NoError(t, s.Clear(ctx))
	assert.False(t, s.IsAuthenticated(ctx))
	u, err := s.User(ctx)
	require.NoError(t, err)
	assert.Nil(t, u, "clear removes the profile together with the token")
}

func TestStore_SeparateSetters(t *testing.T) {
	s := NewStore(setupDB(t))
	ctx := context.Background()

	require.NoError(t, s.SetToken(ctx, "abc"))
	require.NoError(t, s.SetUser(ctx, alice))

	tok, err := s.Token(ctx)
	require.NoError(t, err)
	assert.Equal(t, "abc", tok)

	u, err := s.User(ctx)
	require.NoError(t, err)
	assert.Equal(t, alice.ID, u.ID)
}

func TestStore_CorruptUser(t *testing.T) {
	db := setupDB(t)
	s := NewStore(db)
	ctx := context.Background()

	_, err := db.Exec(`INSERT INTO metadata(key, value) VALUES ('user', 'not json')`)
	require.NoError(t, err)

	_, err = s.User(ctx)
	require.ErrorContains(t, err, "decode stored user")
}

func TestStore_ClosedDB(t *testing.T) {
	db := setupDB(t)
	s := NewStore(db)
	require.NoError(t, db.Close())

	assert.False(t, s.IsAuthenticated(context.Background()))
	require.Error(t, s.Save(context.Background(), "t", alice))
}

func TestClaims(t *testing.T) {
	exp := time.Now().Add(time.Hour).Truncate(time.Second)
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "42",
		ExpiresAt: jwt.NewNumericDate(exp),
	}).SignedString([]byte("whatever"))
	require.NoError(t, err)

	c, err := Claims(tok)
	require.NoError(t, err)
	assert.Equal(t, "42", c.Subject)
	assert.True(t, exp.Equal(c.ExpiresAt))

	_, err = Claims("not-a-jwt")
	require.Error(t, err)
}
