package tcp

import (
	"bufio"
	"context"
	"errors"
	"io"
	"net"
	"strings"

	"github.com/rs/zerolog"

	"github.com/vovakirdan/relaychat-server/internal/core"
)

// Server speaks the relay protocol over a raw TCP stream. Inbound bytes are
// split at newline boundaries and trimmed before reaching the core; outbound
// payloads are written verbatim, so the prompt stays on the open line.
type Server struct {
	addr string
	hub  *core.Hub
	log  *zerolog.Logger
	ln   net.Listener
}

// NewServer builds a TCP line server bound to addr.
func NewServer(addr string, hub *core.Hub, logger *zerolog.Logger) *Server {
	return &Server{addr: addr, hub: hub, log: logger}
}

// Listen binds the listening socket without accepting yet.
func (s *Server) Listen() error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return err
	}
	s.ln = ln
	return nil
}

// Addr reports the bound address. Valid after Listen.
func (s *Server) Addr() net.Addr {
	if s.ln == nil {
		return nil
	}
	return s.ln.Addr()
}

// ListenAndServe accepts connections until the context is cancelled.
func (s *Server) ListenAndServe(ctx context.Context) error {
	if err := s.Listen(); err != nil {
		return err
	}
	return s.Serve(ctx)
}

// Serve runs the accept loop on the bound listener.
func (s *Server) Serve(ctx context.Context) error {
	go func() {
		<-ctx.Done()
		s.ln.Close()
	}()

	s.log.Info().Str("addr", s.ln.Addr().String()).Msg("tcp listener started")

	for {
		conn, err := s.ln.Accept()
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				return nil
			}
			return err
		}
		go s.handle(ctx, conn)
	}
}

func (s *Server) handle(ctx context.Context, conn net.Conn) {
	sess := core.NewSession()
	s.hub.Connect(sess)
	defer s.hub.Disconnect(sess)

	readerDone := make(chan struct{})
	defer close(readerDone)

	// Close the socket when the core asks to, the server stops, or the
	// reader is finished. Closing unblocks the blocked Scan below.
	go func() {
		select {
		case <-sess.Done():
		case <-ctx.Done():
		case <-readerDone:
		}
		conn.Close()
	}()

	go s.writeLoop(conn, sess)

	scanner := bufio.NewScanner(conn)
	for scanner.Scan() {
		s.hub.Submit(sess, strings.TrimSpace(scanner.Text()))
	}
	if err := scanner.Err(); err != nil && !errors.Is(err, net.ErrClosed) {
		s.log.Warn().Err(err).Str("session_id", sess.ID).Msg("tcp read error")
	}
}

func (s *Server) writeLoop(conn net.Conn, sess *core.Session) {
	for {
		select {
		case payload := <-sess.Out():
			if _, err := io.WriteString(conn, payload); err != nil {
				return
			}
		case <-sess.Done():
			// Flush whatever the core queued before it asked to close.
			for {
				select {
				case payload := <-sess.Out():
					if _, err := io.WriteString(conn, payload); err != nil {
						return
					}
				default:
					return
				}
			}
		}
	}
}
