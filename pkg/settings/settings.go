// Package settings is the small key-value store that sits next to the
// recipes: whether onboarding finished, and the optional API access token.
package settings

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
)

const (
	KeyOnboardingComplete = "onboarding_complete"
	KeyAccessToken        = "access_token"
)

const (
	getSettingStatement = `SELECT value FROM settings WHERE key = ?`

	putSettingStatement = `
	INSERT INTO settings (key, value) VALUES (?, ?)
	ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = unixepoch()
	`

	deleteSettingStatement = `DELETE FROM settings WHERE key = ?`
)

// Store reads and writes settings rows. It shares the recipes connection.
type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// OnboardingComplete reports whether the onboarding flow was finished.
// An unset flag reads as false.
func (s *Store) OnboardingComplete(ctx context.Context) (bool, error) {
	v, ok, err := s.get(ctx, KeyOnboardingComplete)
	if err != nil || !ok {
		return false, err
	}
	done, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("invalid %s value %q: %w", KeyOnboardingComplete, v, err)
	}
	return done, nil
}

func (s *Store) SetOnboardingComplete(ctx context.Context, done bool) error {
	return s.put(ctx, KeyOnboardingComplete, strconv.FormatBool(done))
}

// AccessToken returns the stored session token. ok is false when none is
// stored.
func (s *Store) AccessToken(ctx context.Context) (token string, ok bool, err error) {
	v, ok, err := s.get(ctx, KeyAccessToken)
	if err != nil || !ok || v == "" {
		return "", false, err
	}
	return v, true, nil
}

// SetAccessToken stores token. An empty token clears it.
func (s *Store) SetAccessToken(ctx context.Context, token string) error {
	if token == "" {
		return s.ClearAccessToken(ctx)
	}
	return s.put(ctx, KeyAccessToken, token)
}

func (s *Store) ClearAccessToken(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, deleteSettingStatement, KeyAccessToken); err != nil {
		return fmt.Errorf("failed to clear %s: %w", KeyAccessToken, err)
	}
	return nil
}

func (s *Store) get(ctx context.Context, key string) (string, bool, error) {
	var v string
	err := s.db.QueryRowContext(ctx, getSettingStatement, key).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read setting %s: %w", key, err)
	}
	return v, true, nil
}

func (s *Store) put(ctx context.Context, key, value string) error {
	if _, err := s.db.ExecContext(ctx, putSettingStatement, key, value); err != nil {
		return fmt.Errorf("failed to write setting %s: %w", key, err)
	}
	return nil
}
