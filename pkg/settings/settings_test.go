package settings

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/unowned-ai/recipebox/pkg/db"
)

func setupTestStore(t *testing.T) *Store {
	t.Helper()
	conn, err := db.Open(":memory:", false, "", zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return New(conn)
}

func TestOnboardingComplete(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	done, err := s.OnboardingComplete(ctx)
	require.NoError(t, err)
	assert.False(t, done)

	require.NoError(t, s.SetOnboardingComplete(ctx, true))
	done, err = s.OnboardingComplete(ctx)
	require.NoError(t, err)
	assert.True(t, done)

	require.NoError(t, s.SetOnboardingComplete(ctx, false))
	done, err = s.OnboardingComplete(ctx)
	require.NoError(t, err)
	assert.False(t, done)
}

func TestAccessToken(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	_, ok, err := s.AccessToken(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.SetAccessToken(ctx, "abc123"))
	token, ok, err := s.AccessToken(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "abc123", token)

	require.NoError(t, s.SetAccessToken(ctx, "def456"))
	token, _, err = s.AccessToken(ctx)
	require.NoError(t, err)
	assert.Equal(t, "def456", token)

	require.NoError(t, s.ClearAccessToken(ctx))
	_, ok, err = s.AccessToken(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.SetAccessToken(ctx, "x"))
	require.NoError(t, s.SetAccessToken(ctx, ""))
	_, ok, err = s.AccessToken(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestOnboardingComplete_CorruptValue(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.put(ctx, KeyOnboardingComplete, "maybe"))
	_, err := s.OnboardingComplete(ctx)
	assert.Error(t, err)
}
