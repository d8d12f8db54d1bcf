package sqlite

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/relaychat-server/internal/store"
)

func newTestLedger(t *testing.T) *Ledger {
	t.Helper()

	l, err := New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { l.Close() })
	return l
}

func TestRecordMessageAssignsSequentialIDs(t *testing.T) {
	l := newTestLedger(t)
	ctx := context.Background()

	for i := 1; i <= 5; i++ {
		msg, err := l.RecordMessage(ctx, "alice", "general", fmt.Sprintf("msg %d", i))
		require.NoError(t, err)
		assert.Equal(t, int64(i), msg.ID)
		assert.Equal(t, "alice", msg.Sender)
		assert.Equal(t, "general", msg.Channel)
	}
}

func TestMessageByID(t *testing.T) {
	l := newTestLedger(t)
	ctx := context.Background()

	recorded, err := l.RecordMessage(ctx, "bob", "random", "hello")
	require.NoError(t, err)

	got, err := l.MessageByID(ctx, recorded.ID)
	require.NoError(t, err)
	assert.Equal(t, recorded.ID, got.ID)
	assert.Equal(t, "bob", got.Sender)
	assert.Equal(t, "random", got.Channel)
	assert.Equal(t, "hello", got.Text)
	assert.False(t, got.CreatedAt.IsZero())

	_, err = l.MessageByID(ctx, 42)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestReactionsAppendInOrder(t *testing.T) {
	l := newTestLedger(t)
	ctx := context.Background()

	msg, err := l.RecordMessage(ctx, "alice", "general", "react to me")
	require.NoError(t, err)

	require.NoError(t, l.AddReaction(ctx, msg.ID, "👍", "bob"))
	require.NoError(t, l.AddReaction(ctx, msg.ID, "🔥", "carol"))
	// Duplicates from the same user are kept.
	require.NoError(t, l.AddReaction(ctx, msg.ID, "👍", "bob"))

	reactions, err := l.Reactions(ctx, msg.ID)
	require.NoError(t, err)
	require.Len(t, reactions, 3)
	assert.Equal(t, store.Reaction{MessageID: msg.ID, Emoji: "👍", Username: "bob"}, reactions[0])
	assert.Equal(t, store.Reaction{MessageID: msg.ID, Emoji: "🔥", Username: "carol"}, reactions[1])
	assert.Equal(t, store.Reaction{MessageID: msg.ID, Emoji: "👍", Username: "bob"}, reactions[2])
}

func TestReactionsEmptyForUnreactedMessage(t *testing.T) {
	l := newTestLedger(t)
	ctx := context.Background()

	msg, err := l.RecordMessage(ctx, "alice", "general", "quiet")
	require.NoError(t, err)

	reactions, err := l.Reactions(ctx, msg.ID)
	require.NoError(t, err)
	assert.Empty(t, reactions)
}
