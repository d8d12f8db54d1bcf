package core

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/vovakirdan/relaychat-server/internal/store"
)

// memLedger is an in-memory store.Ledger for hub tests.
type memLedger struct {
	mu        sync.Mutex
	messages  []store.Message
	reactions map[int64][]store.Reaction
}

func newMemLedger() *memLedger {
	return &memLedger{reactions: make(map[int64][]store.Reaction)}
}

func (m *memLedger) RecordMessage(_ context.Context, sender, channel, text string) (*store.Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	msg := store.Message{
		ID:        int64(len(m.messages) + 1),
		Sender:    sender,
		Channel:   channel,
		Text:      text,
		CreatedAt: time.Now(),
	}
	m.messages = append(m.messages, msg)
	return &msg, nil
}

func (m *memLedger) MessageByID(_ context.Context, id int64) (*store.Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if id < 1 || id > int64(len(m.messages)) {
		return nil, store.ErrNotFound
	}
	msg := m.messages[id-1]
	return &msg, nil
}

func (m *memLedger) AddReaction(_ context.Context, id int64, emoji, username string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.reactions[id] = append(m.reactions[id], store.Reaction{MessageID: id, Emoji: emoji, Username: username})
	return nil
}

func (m *memLedger) Reactions(_ context.Context, id int64) ([]store.Reaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	return append([]store.Reaction(nil), m.reactions[id]...), nil
}

func (m *memLedger) Close() error { return nil }

func startHub(t *testing.T) (*Hub, *memLedger) {
	t.Helper()

	ledger := newMemLedger()
	hub := NewHub(ledger, nil)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go hub.Run(ctx)

	return hub, ledger
}

// mustNext waits for the session's next outbound payload.
func mustNext(t *testing.T, s *Session) string {
	t.Helper()

	select {
	case payload := <-s.Out():
		return payload
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for outbound payload")
		return ""
	}
}

// mustIdle asserts that no payload arrives within a short window.
func mustIdle(t *testing.T, s *Session) {
	t.Helper()

	select {
	case payload := <-s.Out():
		t.Fatalf("unexpected payload: %q", payload)
	case <-time.After(100 * time.Millisecond):
	}
}

// register connects a session and registers the username, draining the
// welcome block up to and including the prompt.
func register(t *testing.T, hub *Hub, name string) *Session {
	t.Helper()

	s := NewSession()
	hub.Connect(s)
	hub.Submit(s, name)

	welcome := mustNext(t, s)
	if !strings.Contains(welcome, "Welcome, "+name+"!") {
		t.Fatalf("unexpected welcome payload: %q", welcome)
	}
	drainToPrompt(t, s)
	return s
}

// join puts the session into a channel and drains the two join payloads.
func join(t *testing.T, hub *Hub, s *Session, channel string) {
	t.Helper()

	hub.Submit(s, "/join "+channel)
	joined := mustNext(t, s)
	if joined != "You joined the channel: "+channel+"\n" {
		t.Fatalf("unexpected join payload: %q", joined)
	}
	mustNext(t, s) // leave hint
}

func drainToPrompt(t *testing.T, s *Session) {
	t.Helper()

	for i := 0; i < 16; i++ {
		if mustNext(t, s) == "Enter a command: " {
			return
		}
	}
	t.Fatalf("prompt not seen within expected payload budget")
}
