package notification

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_AddAndList(t *testing.T) {
	s := NewStore("")

	require.True(t, s.Add(New(TypeSuccess, "Sound Detected", "Doorbell (92%)")))
	require.True(t, s.Add(New(TypeWarning, "Sound Detected", "Footsteps (61%)")))

	list := s.List()
	require.Len(t, list, 2)
	assert.Equal(t, "Footsteps (61%)", list[0].Message, "most recent first")
	assert.Equal(t, TypeSuccess, list[1].Type)
}

func TestStore_CapAt50(t *testing.T) {
	s := NewStore("")

	for i := 0; i < 60; i++ {
		s.Add(New(TypeInfo, "event", fmt.Sprintf("message %d", i)))
	}

	list := s.List()
	require.Len(t, list, 50)
	assert.Equal(t, "message 59", list[0].Message)
	assert.Equal(t, "message 10", list[49].Message)
}

func TestStore_DuplicateSuppression(t *testing.T) {
	s := NewStore("")

	require.True(t, s.Add(New(TypeSuccess, "Sound Detected", "Doorbell (92%)")))
	assert.False(t, s.Add(New(TypeSuccess, "Sound Detected", "Doorbell (92%)")))
	assert.Len(t, s.List(), 1)

	// A different message is not a duplicate.
	assert.True(t, s.Add(New(TypeSuccess, "Sound Detected", "Doorbell (93%)")))
}

func TestStore_UnreadCountAndMarkRead(t *testing.T) {
	s := NewStore("")

	n1 := New(TypeInfo, "a", "first")
	n2 := New(TypeInfo, "b", "second")
	s.Add(n1)
	s.Add(n2)
	require.Equal(t, 2, s.UnreadCount())

	require.NoError(t, s.MarkRead(n1.ID))
	assert.Equal(t, 1, s.UnreadCount())

	assert.ErrorIs(t, s.MarkRead("no-such-id"), ErrNotificationNotFound)

	s.MarkAllRead()
	assert.Equal(t, 0, s.UnreadCount())
}

func TestStore_Clear(t *testing.T) {
	s := NewStore("")
	s.Add(New(TypeInfo, "a", "first"))

	s.Clear()
	assert.Empty(t, s.List())
	assert.Equal(t, 0, s.UnreadCount())
}

func TestStore_PersistenceRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notifications.json")

	s := NewStore(path)
	n := New(TypeWarning, "Sound Detected", "Dog Bark (64%)")
	s.Add(n)
	require.NoError(t, s.MarkRead(n.ID))

	reloaded := NewStore(path)
	list := reloaded.List()
	require.Len(t, list, 1)
	assert.Equal(t, n.ID, list[0].ID)
	assert.Equal(t, TypeWarning, list[0].Type)
	assert.True(t, list[0].Read)
}

func TestStore_CorruptStateStartsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notifications.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"shape": "wrong"`), 0o644))

	s := NewStore(path)
	assert.Empty(t, s.List())
}

func TestStore_MissingStateStartsEmpty(t *testing.T) {
	s := NewStore(filepath.Join(t.TempDir(), "nope", "notifications.json"))
	assert.Empty(t, s.List())
}
