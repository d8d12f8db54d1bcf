package core

import (
	"sync"

	"github.com/google/uuid"
)

// outboundBuffer bounds the per-session send queue. Payloads beyond it are
// dropped rather than blocking the hub.
const outboundBuffer = 64

// Session is one connected, possibly-named client as seen by the core layer.
// Transports own the socket; the core only pushes outbound payloads into Out
// and signals Done when the connection should be closed.
type Session struct {
	ID string

	out       chan string
	done      chan struct{}
	closeOnce sync.Once

	// The fields below are owned by the hub goroutine after Connect.
	name     string
	channel  *Channel
	lastFrom string
}

// NewSession constructs an unauthenticated session with initialized channels.
func NewSession() *Session {
	return &Session{
		ID:   uuid.NewString(),
		out:  make(chan string, outboundBuffer),
		done: make(chan struct{}),
	}
}

// Out carries outbound wire payloads, one transport send each.
func (s *Session) Out() <-chan string { return s.out }

// Done is closed when the core wants the transport to close the connection.
func (s *Session) Done() <-chan struct{} { return s.done }

func (s *Session) authenticated() bool { return s.name != "" }

// deliver queues a payload for the transport's write loop.
func (s *Session) deliver(payload string) {
	select {
	case s.out <- payload:
	default:
		// Drop if slow consumer.
	}
}

func (s *Session) shutdown() {
	s.closeOnce.Do(func() { close(s.done) })
}
