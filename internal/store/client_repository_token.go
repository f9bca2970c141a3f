package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/MKhiriev/go-study-platform/internal/logger"
)

type tokenStore struct {
	*DB
	logger *logger.Logger
}

// NewTokenStore returns the SQLite implementation of [TokenStore].
func NewTokenStore(db *DB, logger *logger.Logger) TokenStore {
	return &tokenStore{
		DB:     db,
		logger: logger,
	}
}

func (s *tokenStore) SaveToken(ctx context.Context, token string) error {
	if _, err := s.DB.ExecContext(ctx, upsertClientValue, tokenKey, token); err != nil {
		s.logger.Err(err).Str("func", "tokenStore.SaveToken").Msg("error saving token")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}
	return nil
}

func (s *tokenStore) LoadToken(ctx context.Context) (string, error) {
	var token string
	err := s.DB.QueryRowContext(ctx, getClientValue, tokenKey).Scan(&token)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrTokenNotFound
	}
	if err != nil {
		s.logger.Err(err).Str("func", "tokenStore.LoadToken").Msg("error loading token")
		return "", fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	if token == "" {
		return "", ErrTokenNotFound
	}
	return token, nil
}

func (s *tokenStore) ClearToken(ctx context.Context) error {
	if _, err := s.DB.ExecContext(ctx, deleteClientValue, tokenKey); err != nil {
		s.logger.Err(err).Str("func", "tokenStore.ClearToken").Msg("error clearing token")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}
	return nil
}
