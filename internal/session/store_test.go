package session

import (
	"path/filepath"
	"testing"

	"github.com/avicena/avicena/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetGetClear(t *testing.T) {
	store, err := NewStore("")
	require.NoError(t, err)
	defer store.Close()

	assert.Empty(t, store.Token())
	assert.Nil(t, store.User())
	assert.False(t, store.LoggedIn())

	user := &domain.User{ID: "u1", Email: "staff@clinic.test"}
	require.NoError(t, store.Set("tok-1", user))

	assert.Equal(t, "tok-1", store.Token())
	require.NotNil(t, store.User())
	assert.Equal(t, "staff@clinic.test", store.User().Email)
	assert.True(t, store.LoggedIn())

	// Overwrite, no merge
	require.NoError(t, store.Set("tok-2", &domain.User{ID: "u2"}))
	assert.Equal(t, "tok-2", store.Token())
	assert.Equal(t, "u2", store.User().ID)

	require.NoError(t, store.Clear())
	assert.Empty(t, store.Token())
	assert.Nil(t, store.User())
}

func TestSessionSurvivesRestart(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.db")

	store, err := NewStore(path)
	require.NoError(t, err)

	user := &domain.User{ID: "u1", Email: "staff@clinic.test", FirstName: "Ada"}
	require.NoError(t, store.Set("tok-persist", user))
	require.NoError(t, store.Close())

	// Reopen: the session must be restored from disk
	reopened, err := NewStore(path)
	require.NoError(t, err)
	defer reopened.Close()

	assert.Equal(t, "tok-persist", reopened.Token())
	require.NotNil(t, reopened.User())
	assert.Equal(t, "Ada", reopened.User().FirstName)
}

func TestClearSurvivesRestart(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.db")

	store, err := NewStore(path)
	require.NoError(t, err)
	require.NoError(t, store.Set("tok", &domain.User{ID: "u1"}))
	require.NoError(t, store.Clear())
	require.NoError(t, store.Close())

	reopened, err := NewStore(path)
	require.NoError(t, err)
	defer reopened.Close()

	assert.Empty(t, reopened.Token())
	assert.Nil(t, reopened.User())
}
