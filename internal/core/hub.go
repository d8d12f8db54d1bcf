package core

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/vovakirdan/relaychat-server/internal/store"
)

// prompt is sent without a trailing newline, exactly as the wire protocol
// requires.
const prompt = "Enter a command: "

var helpLines = []string{
	"/join <channel> - Join a channel",
	"/leave <channel> - Leave a channel",
	"/pm <recipient> <message> - Send a private message",
	"/reply <message> or /r <message> - Reply to the last private message received",
	"/react <emoji> - React to a message with an emoji",
	"/channels - List all available channels",
	"/quit - Disconnect from the server",
}

var mentionPattern = regexp.MustCompile(`@(\w+)`)

type envelopeKind int

const (
	envConnect envelopeKind = iota
	envDisconnect
	envLine
)

type envelope struct {
	kind envelopeKind
	sess *Session
	line string
}

// Hub owns every shared registry: the session roster, the channel map and the
// message ledger handle. All of them are touched only from the Run goroutine,
// which serializes command handling across connections.
type Hub struct {
	inbox    chan envelope
	done     chan struct{}
	ledger   store.Ledger
	log      zerolog.Logger
	roster   *Roster
	channels *Channels
}

// NewHub creates a hub backed by the given ledger. A nil logger disables
// logging.
func NewHub(ledger store.Ledger, logger *zerolog.Logger) *Hub {
	l := zerolog.Nop()
	if logger != nil {
		l = *logger
	}
	return &Hub{
		inbox:    make(chan envelope, 256),
		done:     make(chan struct{}),
		ledger:   ledger,
		log:      l,
		roster:   NewRoster(),
		channels: NewChannels(),
	}
}

// Run processes requests until the context is cancelled. It must be running
// before transports submit work.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)

	for {
		select {
		case <-ctx.Done():
			return
		case env := <-h.inbox:
			switch env.kind {
			case envConnect:
				h.roster.Add(env.sess)
			case envDisconnect:
				h.handleDisconnect(env.sess)
			case envLine:
				h.handleLine(ctx, env.sess, env.line)
			}
		}
	}
}

// Connect registers a new connection with the hub.
func (h *Hub) Connect(s *Session) {
	h.submit(envelope{kind: envConnect, sess: s})
}

// Disconnect removes the session from every registry. Safe to call more than
// once and after /quit.
func (h *Hub) Disconnect(s *Session) {
	h.submit(envelope{kind: envDisconnect, sess: s})
}

// Submit hands the hub one trimmed inbound line from the session's transport.
func (h *Hub) Submit(s *Session, line string) {
	h.submit(envelope{kind: envLine, sess: s, line: line})
}

func (h *Hub) submit(env envelope) {
	select {
	case h.inbox <- env:
	case <-h.done:
	}
}

func (h *Hub) handleLine(ctx context.Context, s *Session, line string) {
	if !s.authenticated() {
		h.register(s, strings.TrimSpace(line))
		return
	}
	h.dispatch(ctx, s, ParseLine(line))
}

func (h *Hub) register(s *Session, name string) {
	if name == "" {
		return
	}
	if err := h.roster.Bind(s, name); err != nil {
		h.sendError(s, err)
		return
	}

	s.deliver(fmt.Sprintf("Welcome, %s! You are now connected.\n", name))
	s.deliver("Available commands:\n")
	for _, line := range helpLines {
		s.deliver(fmt.Sprintf("- %s\n", line))
	}
	s.deliver(prompt)

	h.log.Debug().Str("session_id", s.ID).Str("user", name).Msg("username registered")
}

func (h *Hub) dispatch(ctx context.Context, s *Session, cmd Command) {
	switch cmd.Kind {
	case CommandJoin:
		h.handleJoin(s, cmd.Channel)
	case CommandLeave:
		h.handleLeave(s)
	case CommandPrivate:
		h.handlePrivate(s, cmd.Recipient, cmd.Text)
	case CommandReply:
		h.handleReply(s, cmd.Text)
	case CommandReact:
		h.handleReact(ctx, s, cmd.MessageID, cmd.Emoji)
	case CommandChannels:
		h.handleChannels(s)
	case CommandQuit:
		h.handleQuit(s)
	default:
		h.handleBroadcast(ctx, s, cmd.Text)
	}
}

func (h *Hub) handleJoin(s *Session, name string) {
	ch, err := h.channels.Join(s, name)
	if err != nil {
		h.sendError(s, err)
		return
	}

	s.deliver(fmt.Sprintf("You joined the channel: %s\n", ch.Name))
	s.deliver(fmt.Sprintf("To leave the channel, use the command: /leave %s\n", ch.Name))

	h.log.Info().Str("user", s.name).Str("channel", ch.Name).Msg("user joined channel")
}

func (h *Hub) handleLeave(s *Session) {
	ch, err := h.channels.Leave(s)
	if err != nil {
		h.sendError(s, err)
		return
	}

	s.deliver(fmt.Sprintf("You left the channel: %s\n", ch.Name))
	s.deliver(prompt)

	h.log.Info().Str("user", s.name).Str("channel", ch.Name).Msg("user left channel")
}

func (h *Hub) handlePrivate(s *Session, recipient, text string) {
	target, ok := h.roster.Lookup(recipient)
	if !ok {
		h.sendError(s, errUserNotFound(recipient))
		return
	}

	target.deliver(fmt.Sprintf("(private) %s: %s\n", s.name, text))
	s.deliver(fmt.Sprintf("(private) to %s: %s\n", recipient, text))

	target.lastFrom = s.name
	target.deliver(prompt)

	h.log.Info().Str("from", s.name).Str("to", recipient).Msg("private message sent")
}

func (h *Hub) handleReply(s *Session, text string) {
	if s.lastFrom == "" {
		h.sendError(s, errNoPriorSender())
		return
	}
	h.handlePrivate(s, s.lastFrom, text)
}

func (h *Hub) handleReact(ctx context.Context, s *Session, idArg, emoji string) {
	var (
		msg *store.Message
		err error
	)
	id, convErr := strconv.ParseInt(idArg, 10, 64)
	if convErr == nil {
		msg, err = h.ledger.MessageByID(ctx, id)
	}
	if convErr != nil || errors.Is(err, store.ErrNotFound) {
		h.sendError(s, errMessageNotFound(idArg))
		return
	}
	if err != nil {
		h.log.Error().Err(err).Str("message_id", idArg).Msg("ledger lookup failed")
		return
	}

	if s.channel == nil || s.channel.Name != msg.Channel {
		h.sendError(s, errNotInSameChannel())
		return
	}

	if err := h.ledger.AddReaction(ctx, msg.ID, emoji, s.name); err != nil {
		h.log.Error().Err(err).Int64("message_id", msg.ID).Msg("record reaction failed")
		return
	}

	rendered := fmt.Sprintf("%s: [%d] %s: %s", msg.Channel, msg.ID, msg.Sender, msg.Text)
	payload := fmt.Sprintf("%s reacted with %s to the message: %s\n", s.name, emoji, rendered)
	for _, member := range h.channels.MembersOf(msg.Channel) {
		member.deliver(payload)
	}

	h.log.Info().Str("user", s.name).Str("emoji", emoji).Int64("message_id", msg.ID).Msg("reaction broadcast")
}

func (h *Hub) handleChannels(s *Session) {
	names := h.channels.Names()
	if len(names) == 0 {
		s.deliver("No channels available.\n")
	} else {
		s.deliver("Available channels:\n")
		for _, name := range names {
			s.deliver(fmt.Sprintf("- %s\n", name))
		}
	}
	s.deliver(prompt)
}

func (h *Hub) handleQuit(s *Session) {
	s.deliver("Goodbye! Disconnecting from the server.\n")
	h.remove(s)
	s.shutdown()

	h.log.Info().Str("session_id", s.ID).Msg("session quit")
}

func (h *Hub) handleBroadcast(ctx context.Context, s *Session, text string) {
	if s.channel == nil {
		h.sendError(s, errNoChannel())
		return
	}
	ch := s.channel

	msg, err := h.ledger.RecordMessage(ctx, s.name, ch.Name, text)
	if err != nil {
		h.log.Error().Err(err).Str("channel", ch.Name).Msg("record message failed")
		return
	}

	// Membership snapshot at dispatch time: mention scan and broadcast see
	// the same member list.
	members := ch.Members()

	for _, token := range mentionPattern.FindAllString(text, -1) {
		mentioned := strings.TrimPrefix(token, "@")
		for _, member := range members {
			if member.name == mentioned {
				member.deliver(fmt.Sprintf("[MENTION] %s: %s\n", s.name, text))
				break
			}
		}
	}

	payload := fmt.Sprintf("%s: [%d] %s: %s\n", ch.Name, msg.ID, s.name, text)
	for _, member := range members {
		member.deliver(payload)
	}

	h.log.Info().Str("user", s.name).Str("channel", ch.Name).Int64("message_id", msg.ID).Msg("message broadcast")
}

func (h *Hub) handleDisconnect(s *Session) {
	if s.name != "" {
		h.log.Info().Str("user", s.name).Msg("user disconnected")
	}
	h.remove(s)
	s.shutdown()
}

func (h *Hub) remove(s *Session) {
	h.channels.Remove(s)
	h.roster.Remove(s)
}

func (h *Hub) sendError(s *Session, err *CoreError) {
	s.deliver(err.Message + "\n")
}
