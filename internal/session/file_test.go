package session

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mtlprog/nexa/internal/domain"
)

func TestFileStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nexa", "session.json")
	store := NewFileStore(path)

	_, err := store.Get(ctx)
	assert.ErrorIs(t, err, domain.ErrNoSession)

	require.NoError(t, store.Set(ctx, "abc", "bearer", domain.SessionTTL))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	sess, err := store.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "abc", sess.Token)
	assert.Equal(t, "bearer", sess.TokenType)

	require.NoError(t, store.Set(ctx, "def", "bearer", domain.SessionTTL))
	sess, err = store.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "def", sess.Token)

	require.NoError(t, store.Clear(ctx))
	require.NoError(t, store.Clear(ctx))
	_, err = store.Get(ctx)
	assert.ErrorIs(t, err, domain.ErrNoSession)
}

func TestFileStore_Expired(t *testing.T) {
	ctx := context.Background()
	now := time.Now()
	store := NewFileStore(filepath.Join(t.TempDir(), "session.json"))
	store.now = func() time.Time { return now }

	require.NoError(t, store.Set(ctx, "abc", "bearer", time.Hour))

	store.now = func() time.Time { return now.Add(2 * time.Hour) }
	_, err := store.Get(ctx)
	assert.ErrorIs(t, err, domain.ErrSessionExpired)
}
