package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/dkeye/huddle/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// setupTestDB opens a migrated database in a temp dir.
func setupTestDB(t *testing.T) (*gorm.DB, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "huddle.db")
	db, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, Migrate(db))
	t.Cleanup(func() { _ = Close(db) })
	return db, path
}

func ids(msgs []domain.Message) []domain.MessageID {
	out := make([]domain.MessageID, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, m.ID)
	}
	return out
}

func TestMessageLog_AppendIsStrictlyIncreasingPerRoom(t *testing.T) {
	ctx := context.Background()
	db, _ := setupTestDB(t)
	rooms := NewRoomCatalog(db)
	log := NewMessageLog(db)

	lobby, err := rooms.Create(ctx, "lobby")
	require.NoError(t, err)
	other, err := rooms.Create(ctx, "other")
	require.NoError(t, err)

	var last domain.MessageID
	for i := 0; i < 10; i++ {
		room := lobby
		if i%3 == 0 {
			room = other
		}
		msg, err := log.Append(ctx, room.ID, "alice", "hi")
		require.NoError(t, err)
		assert.Greater(t, msg.ID, last)
		assert.Equal(t, room.ID, msg.RoomID)
		last = msg.ID
	}

	history, err := log.ListFrom(ctx, lobby.ID, 0)
	require.NoError(t, err)
	require.Len(t, history, 6)
	for i := 1; i < len(history); i++ {
		assert.Greater(t, history[i].ID, history[i-1].ID)
	}
}

func TestMessageLog_ListFromOffset(t *testing.T) {
	ctx := context.Background()
	db, _ := setupTestDB(t)
	rooms := NewRoomCatalog(db)
	log := NewMessageLog(db)

	other, err := rooms.Create(ctx, "other")
	require.NoError(t, err)
	lobby, err := rooms.Create(ctx, "lobby")
	require.NoError(t, err)

	for i := 0; i < 4; i++ {
		_, err := log.Append(ctx, other.ID, "bob", "noise")
		require.NoError(t, err)
	}
	for _, text := range []string{"five", "six", "seven"} {
		_, err := log.Append(ctx, lobby.ID, "alice", text)
		require.NoError(t, err)
	}

	full, err := log.ListFrom(ctx, lobby.ID, 0)
	require.NoError(t, err)
	assert.Equal(t, []domain.MessageID{5, 6, 7}, ids(full))

	tail, err := log.ListFrom(ctx, lobby.ID, 5)
	require.NoError(t, err)
	assert.Equal(t, []domain.MessageID{6, 7}, ids(tail))
	assert.Equal(t, "six", tail[0].Content)
	assert.Equal(t, "alice", tail[0].Username)

	none, err := log.ListFrom(ctx, lobby.ID, 7)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestMessageLog_AppendErrors(t *testing.T) {
	ctx := context.Background()
	db, _ := setupTestDB(t)
	log := NewMessageLog(db)

	_, err := log.Append(ctx, 999, "alice", "hello")
	require.ErrorIs(t, err, domain.ErrStorage)

	lobby, err := NewRoomCatalog(db).Create(ctx, "lobby")
	require.NoError(t, err)
	_, err = log.Append(ctx, lobby.ID, "alice", "")
	require.ErrorIs(t, err, domain.ErrValidation)
}

func TestMessageLog_SurvivesReopen(t *testing.T) {
	ctx := context.Background()
	db, path := setupTestDB(t)
	lobby, err := NewRoomCatalog(db).Create(ctx, "lobby")
	require.NoError(t, err)
	first, err := NewMessageLog(db).Append(ctx, lobby.ID, "alice", "persisted")
	require.NoError(t, err)
	require.NoError(t, Close(db))

	reopened, err := Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = Close(reopened) })
	require.NoError(t, Migrate(reopened))

	log := NewMessageLog(reopened)
	history, err := log.ListFrom(ctx, lobby.ID, 0)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, "persisted", history[0].Content)

	next, err := log.Append(ctx, lobby.ID, "alice", "after restart")
	require.NoError(t, err)
	assert.Greater(t, next.ID, first.ID)
}

func TestRoomCatalog(t *testing.T) {
	ctx := context.Background()
	db, _ := setupTestDB(t)
	rooms := NewRoomCatalog(db)

	_, err := rooms.Exists(ctx, "lobby")
	require.ErrorIs(t, err, domain.ErrRoomNotFound)

	created, err := rooms.Create(ctx, "lobby")
	require.NoError(t, err)
	assert.NotZero(t, created.ID)

	_, err = rooms.Create(ctx, "lobby")
	require.ErrorIs(t, err, domain.ErrRoomExists)

	_, err = rooms.Create(ctx, "")
	require.ErrorIs(t, err, domain.ErrValidation)

	found, err := rooms.Exists(ctx, "lobby")
	require.NoError(t, err)
	assert.Equal(t, created, found)

	_, err = rooms.Create(ctx, "garden")
	require.NoError(t, err)
	list, err := rooms.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, domain.RoomName("lobby"), list[0].Name)
	assert.Equal(t, domain.RoomName("garden"), list[1].Name)
}

func TestUserStore(t *testing.T) {
	ctx := context.Background()
	db, _ := setupTestDB(t)
	users := NewUserStore(db, bcrypt.MinCost)

	u, err := users.Register(ctx, "alice", "s3cret")
	require.NoError(t, err)
	assert.Equal(t, "alice", u.Username)

	_, err = users.Register(ctx, "alice", "other")
	require.ErrorIs(t, err, domain.ErrUserExists)

	_, err = users.Register(ctx, "bob", "")
	require.ErrorIs(t, err, domain.ErrValidation)

	got, err := users.Authenticate(ctx, "alice", "s3cret")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	_, err = users.Authenticate(ctx, "alice", "wrong")
	require.ErrorIs(t, err, domain.ErrInvalidCredentials)

	_, err = users.Authenticate(ctx, "nobody", "s3cret")
	require.ErrorIs(t, err, domain.ErrInvalidCredentials)
}
