// Package session persists the bearer token and user profile between runs.
//
// Both values live in the local metadata table under two keys and are always
// written and cleared together. Holding a token only means the client
// believes it is signed in; the backend decides on every call.
package session

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/payscan/payscan/internal/client/models"
	"github.com/payscan/payscan/internal/client/repositories/metadata"
	"github.com/payscan/payscan/internal/dbx"
)

const (
	KeyToken = "token"
	KeyUser  = "user"
)

type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) repo() *metadata.SQLiteRepository {
	return metadata.NewSQLiteRepository(s.db)
}

// Token returns the stored token, or "" when signed out.
func (s *Store) Token(ctx context.Context) (string, error) {
	v, err := s.repo().Get(ctx, KeyToken)
	if err != nil {
		return "", err
	}
	return string(v), nil
}

func (s *Store) SetToken(ctx context.Context, token string) error {
	return s.repo().Set(ctx, KeyToken, []byte(token))
}

// User returns the stored profile, or nil when none is stored.
func (s *Store) User(ctx context.Context) (*models.User, error) {
	v, err := s.repo().Get(ctx, KeyUser)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, nil
	}
	var u models.User
	if err := json.Unmarshal(v, &u); err != nil {
		return nil, fmt.Errorf("decode stored user: %w", err)
	}
	return &u, nil
}

func (s *Store) SetUser(ctx context.Context, u models.User) error {
	b, err := json.Marshal(u)
	if err != nil {
		return err
	}
	return s.repo().Set(ctx, KeyUser, b)
}

// Save stores token and user in one transaction.
func (s *Store) Save(ctx context.Context, token string, u models.User) error {
	b, err := json.Marshal(u)
	if err != nil {
		return err
	}
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := metadata.NewSQLiteRepository(tx)
		if err := repo.Set(ctx, KeyToken, []byte(token)); err != nil {
			return err
		}
		return repo.Set(ctx, KeyUser, b)
	})
}

// Clear removes token and user together.
func (s *Store) Clear(ctx context.Context) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		return metadata.NewSQLiteRepository(tx).DeleteKeys(ctx, KeyToken, KeyUser)
	})
}

// IsAuthenticated reports token presence. Read errors count as signed out.
func (s *Store) IsAuthenticated(ctx context.Context) bool {
	tok, err := s.Token(ctx)
	return err == nil && tok != ""
}

// Load returns the whole session, or nil when signed out.
func (s *Store) Load(ctx context.Context) (*models.Session, error) {
	tok, err := s.Token(ctx)
	if err != nil || tok == "" {
		return nil, err
	}
	u, err := s.User(ctx)
	if err != nil {
		return nil, err
	}
	return &models.Session{Token: tok, User: u}, nil
}
