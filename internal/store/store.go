package store

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when a message id is unknown to the ledger.
var ErrNotFound = errors.New("message not found")

// Message is one recorded channel broadcast. Private messages are never
// recorded.
type Message struct {
	ID        int64
	Sender    string
	Channel   string
	Text      string
	CreatedAt time.Time
}

// Reaction is one (emoji, username) pair attached to a message. A user may
// react to the same message any number of times.
type Reaction struct {
	MessageID int64
	Emoji     string
	Username  string
}

// Ledger assigns monotonically increasing message ids, starting at 1, and
// retains messages with their reactions for the process lifetime.
type Ledger interface {
	// RecordMessage stores a broadcast under the next id and returns it.
	RecordMessage(ctx context.Context, sender, channel, text string) (*Message, error)

	// MessageByID resolves a recorded message, ErrNotFound if unknown.
	MessageByID(ctx context.Context, id int64) (*Message, error)

	// AddReaction appends a reaction to the message's list.
	AddReaction(ctx context.Context, id int64, emoji, username string) error

	// Reactions lists a message's reactions in append order.
	Reactions(ctx context.Context, id int64) ([]Reaction, error)

	// Close releases the underlying storage.
	Close() error
}
