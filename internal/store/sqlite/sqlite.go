package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/vovakirdan/relaychat-server/internal/store"
)

const schema = `
CREATE TABLE IF NOT EXISTS messages (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	sender     TEXT NOT NULL,
	channel    TEXT NOT NULL,
	body       TEXT NOT NULL,
	created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS reactions (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	message_id INTEGER NOT NULL REFERENCES messages(id),
	emoji      TEXT NOT NULL,
	username   TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_reactions_message ON reactions(message_id);
`

// Ledger implements store.Ledger on SQLite. AUTOINCREMENT yields the strictly
// increasing id sequence 1, 2, 3, ... and ids are never reused.
type Ledger struct {
	db *sql.DB
}

// New opens (or creates) the ledger database. Pass ":memory:" for a
// process-lifetime in-memory ledger.
func New(dbPath string) (*Ledger, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// SQLite works best with a single connection; a pool would also tear
	// down an in-memory database between connections.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	return &Ledger{db: db}, nil
}

// Close closes the database connection.
func (l *Ledger) Close() error {
	return l.db.Close()
}

// RecordMessage stores a broadcast and returns it with the assigned id.
func (l *Ledger) RecordMessage(ctx context.Context, sender, channel, text string) (*store.Message, error) {
	query := `
		INSERT INTO messages (sender, channel, body)
		VALUES (?, ?, ?)
	`
	result, err := l.db.ExecContext(ctx, query, sender, channel, text)
	if err != nil {
		return nil, fmt.Errorf("insert message: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("get last insert id: %w", err)
	}

	return l.MessageByID(ctx, id)
}

// MessageByID resolves a recorded message by id.
func (l *Ledger) MessageByID(ctx context.Context, id int64) (*store.Message, error) {
	query := `
		SELECT id, sender, channel, body, created_at
		FROM messages
		WHERE id = ?
	`
	var msg store.Message
	err := l.db.QueryRowContext(ctx, query, id).Scan(
		&msg.ID, &msg.Sender, &msg.Channel, &msg.Text, &msg.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select message: %w", err)
	}
	return &msg, nil
}

// AddReaction appends a reaction to the message's list.
func (l *Ledger) AddReaction(ctx context.Context, id int64, emoji, username string) error {
	query := `
		INSERT INTO reactions (message_id, emoji, username)
		VALUES (?, ?, ?)
	`
	if _, err := l.db.ExecContext(ctx, query, id, emoji, username); err != nil {
		return fmt.Errorf("insert reaction: %w", err)
	}
	return nil
}

// Reactions lists a message's reactions in append order.
func (l *Ledger) Reactions(ctx context.Context, id int64) ([]store.Reaction, error) {
	query := `
		SELECT message_id, emoji, username
		FROM reactions
		WHERE message_id = ?
		ORDER BY id
	`
	rows, err := l.db.QueryContext(ctx, query, id)
	if err != nil {
		return nil, fmt.Errorf("select reactions: %w", err)
	}
	defer rows.Close()

	var reactions []store.Reaction
	for rows.Next() {
		var r store.Reaction
		if err := rows.Scan(&r.MessageID, &r.Emoji, &r.Username); err != nil {
			return nil, fmt.Errorf("scan reaction: %w", err)
		}
		reactions = append(reactions, r)
	}
	return reactions, rows.Err()
}
