package http

import (
	"context"
	"errors"
	"io"
	stdhttp "net/http"
	"strings"

	"github.com/coder/websocket"
	"github.com/rs/zerolog"

	"github.com/vovakirdan/relaychat-server/internal/core"
)

// WSHandler upgrades HTTP connections and bridges them to core sessions.
// Each inbound text frame is one logical line; each outbound payload is sent
// as one frame with its newline intact.
type WSHandler struct {
	hub     *core.Hub
	log     *zerolog.Logger
	limiter *rateLimiter
}

// NewWSHandler builds a new WebSocket handler.
func NewWSHandler(hub *core.Hub, logger *zerolog.Logger, limiter *rateLimiter) stdhttp.Handler {
	return &WSHandler{hub: hub, log: logger, limiter: limiter}
}

func (h *WSHandler) ServeHTTP(w stdhttp.ResponseWriter, r *stdhttp.Request) {
	if !h.limiter.allow() {
		stdhttp.Error(w, "too many connections", stdhttp.StatusTooManyRequests)
		return
	}

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		InsecureSkipVerify: true,
	})
	if err != nil {
		h.log.Error().Err(err).Msg("ws accept error")
		return
	}
	defer conn.Close(websocket.StatusInternalError, "internal error")

	sess := core.NewSession()
	h.hub.Connect(sess)
	defer h.hub.Disconnect(sess)

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	errCh := make(chan error, 2)
	go func() {
		errCh <- h.readLoop(ctx, conn, sess)
	}()
	go func() {
		errCh <- h.writeLoop(ctx, conn, sess)
	}()

	err = <-errCh
	cancel() // stop the other goroutine
	<-errCh

	status := websocket.StatusNormalClosure
	reason := "closing"
	if err != nil && !errors.Is(err, context.Canceled) {
		if errors.Is(err, io.EOF) {
			err = nil
		}
		if s := websocket.CloseStatus(err); s != 0 {
			status = s
		}
		if status == websocket.StatusNormalClosure || status == websocket.StatusGoingAway {
			err = nil
		}
		if err != nil {
			if status == websocket.StatusNormalClosure {
				status = websocket.StatusInternalError
			}
			reason = err.Error()
			h.log.Warn().Err(err).Str("session_id", sess.ID).Msg("ws connection closed with error")
		}
	}

	conn.Close(status, reason)
}

func (h *WSHandler) readLoop(ctx context.Context, conn *websocket.Conn, sess *core.Session) error {
	for {
		_, data, err := conn.Read(ctx)
		if err != nil {
			return err
		}
		h.hub.Submit(sess, strings.TrimSpace(string(data)))
	}
}

func (h *WSHandler) writeLoop(ctx context.Context, conn *websocket.Conn, sess *core.Session) error {
	for {
		select {
		case payload := <-sess.Out():
			if err := conn.Write(ctx, websocket.MessageText, []byte(payload)); err != nil {
				h.log.Error().Err(err).Str("session_id", sess.ID).Msg("write ws payload")
				return err
			}
		case <-sess.Done():
			// Flush whatever the core queued before it asked to close.
			for {
				select {
				case payload := <-sess.Out():
					if err := conn.Write(ctx, websocket.MessageText, []byte(payload)); err != nil {
						return err
					}
				default:
					return nil
				}
			}
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
