package global

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionStoreRestoreRoundtrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "session.json")
	id := Identity{UserID: "u1", Name: "Dana", Email: "d@example.com", Role: RoleAdmin, Token: "opaque-token"}

	require.NoError(t, NewSession(path).Store(id))

	restored := NewSession(path)
	ok, err := restored.Restore()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, id, restored.Identity())
	assert.Equal(t, RoleAdmin, restored.Role())
}

func TestSessionRestoreMissingFile(t *testing.T) {
	s := NewSession(filepath.Join(t.TempDir(), "absent.json"))
	ok, err := s.Restore()
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSessionClearRemovesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	s := NewSession(path)
	require.NoError(t, s.Store(Identity{UserID: "u1", Token: "tok"}))

	require.NoError(t, s.Clear())
	assert.Empty(t, s.UserID())
	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))

	// clearing twice is fine
	require.NoError(t, s.Clear())
}

func TestSessionValid(t *testing.T) {
	s := NewSession(filepath.Join(t.TempDir(), "session.json"))
	assert.False(t, s.Valid(), "no credential")

	require.NoError(t, s.Store(Identity{UserID: "u1", Token: "opaque-server-token"}))
	assert.True(t, s.Valid(), "opaque tokens defer to the server")
}

func TestSessionConnectedIndicator(t *testing.T) {
	s := NewSession(filepath.Join(t.TempDir(), "session.json"))
	assert.False(t, s.Connected())
	s.SetConnected(true)
	assert.True(t, s.Connected())
	s.SetConnected(false)
	assert.False(t, s.Connected())
}
