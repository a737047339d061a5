// Package session persists the CLI's login session (email and token pair)
// in a local SQLite database.
package session

import (
	"context"
	"database/sql"
	"errors"

	"github.com/dmitrijs2005/storeit/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/storeit/internal/common"
	"github.com/dmitrijs2005/storeit/internal/dbx"
)

const (
	keyEmail        = "email"
	keyAccessToken  = "access_token"
	keyRefreshToken = "refresh_token"
)

// Session is the state of a logged-in user.
type Session struct {
	Email        string
	AccessToken  string
	RefreshToken string
}

// LoggedIn reports whether the session carries a refresh token.
func (s Session) LoggedIn() bool {
	return s.RefreshToken != ""
}

type Store struct {
	db   *sql.DB
	repo func(dbx.DBTX) metadata.Repository
}

func NewStore(db *sql.DB) *Store {
	return &Store{
		db:   db,
		repo: func(d dbx.DBTX) metadata.Repository { return metadata.NewSQLiteRepository(d) },
	}
}

// Load returns the saved session; an empty Session when nobody is logged in.
func (s *Store) Load(ctx context.Context) (Session, error) {
	repo := s.repo(s.db)

	var out Session
	for key, dst := range map[string]*string{
		keyEmail:        &out.Email,
		keyAccessToken:  &out.AccessToken,
		keyRefreshToken: &out.RefreshToken,
	} {
		v, err := repo.Get(ctx, key)
		if errors.Is(err, common.ErrorNotFound) {
			continue
		}
		if err != nil {
			return Session{}, err
		}
		*dst = string(v)
	}
	return out, nil
}

// Save replaces the stored session atomically.
func (s *Store) Save(ctx context.Context, sess Session) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repo(tx)
		if err := repo.Set(ctx, keyEmail, []byte(sess.Email)); err != nil {
			return err
		}
		if err := repo.Set(ctx, keyAccessToken, []byte(sess.AccessToken)); err != nil {
			return err
		}
		return repo.Set(ctx, keyRefreshToken, []byte(sess.RefreshToken))
	})
}

// SaveTokens updates the token pair, keeping the email.
func (s *Store) SaveTokens(ctx context.Context, accessToken, refreshToken string) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repo(tx)
		if err := repo.Set(ctx, keyAccessToken, []byte(accessToken)); err != nil {
			return err
		}
		return repo.Set(ctx, keyRefreshToken, []byte(refreshToken))
	})
}

// Clear forgets the session.
func (s *Store) Clear(ctx context.Context) error {
	return s.repo(s.db).Clear(ctx)
}
