package history

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "chat_history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestStore_ConversationLifecycle(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)
	base := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

	require.NoError(t, s.CreateConversation(ctx, "c1", "Explain recursion...", base))
	require.NoError(t, s.CreateConversation(ctx, "c2", "What is 2+2?...", base.Add(time.Minute)))

	require.NoError(t, s.AppendEntry(ctx, Entry{ConversationID: "c1", Sender: "user", Text: "Explain recursion", CreatedAt: base}))
	require.NoError(t, s.AppendEntry(ctx, Entry{
		ConversationID: "c1", CorrelationID: "x1", Sender: "bot", TargetID: "deepseek",
		Text: "Recursion is...", CreatedAt: base.Add(time.Second),
	}))
	require.NoError(t, s.AppendEntry(ctx, Entry{
		ConversationID: "c1", CorrelationID: "x2", Sender: "bot", TargetID: "claude",
		Text: "AI Error: quota", IsError: true, CreatedAt: base.Add(2 * time.Second),
	}))

	convs, err := s.ListConversations(ctx, 10)
	require.NoError(t, err)
	require.Len(t, convs, 2)
	assert.Equal(t, "c2", convs[0].ID)
	assert.Equal(t, "c1", convs[1].ID)
	assert.Equal(t, 3, convs[1].Entries)
	assert.True(t, base.Equal(convs[1].CreatedAt))

	entries, err := s.Entries(ctx, "c1")
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, "user", entries[0].Sender)
	assert.Equal(t, "deepseek", entries[1].TargetID)
	assert.True(t, entries[2].IsError)

	limited, err := s.ListConversations(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

func TestStore_CreateConversationUpdatesTitle(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	require.NoError(t, s.CreateConversation(ctx, "c1", "old", time.Now()))
	require.NoError(t, s.CreateConversation(ctx, "c1", "new", time.Now()))

	convs, err := s.ListConversations(ctx, 0)
	require.NoError(t, err)
	require.Len(t, convs, 1)
	assert.Equal(t, "new", convs[0].Title)
}

func TestStore_EntriesUnknownConversation(t *testing.T) {
	s := openTestStore(t)

	_, err := s.Entries(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrConversationNotFound)
}

func TestStore_AppendToUnknownConversation(t *testing.T) {
	s := openTestStore(t)

	err := s.AppendEntry(context.Background(), Entry{ConversationID: "missing", Sender: "user", Text: "hi", CreatedAt: time.Now()})
	assert.Error(t, err)
}

func TestStore_Reopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "history.db")

	s, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s.CreateConversation(ctx, "c1", "persisted", time.Now()))
	require.NoError(t, s.Close())

	s, err = Open(path)
	require.NoError(t, err)
	defer s.Close()

	convs, err := s.ListConversations(ctx, 5)
	require.NoError(t, err)
	require.Len(t, convs, 1)
	assert.Equal(t, "persisted", convs[0].Title)
}
