package core

import "strings"

// CommandKind describes what an authenticated client wants to do.
type CommandKind int

const (
	// CommandBroadcast delivers free text to the session's current channel.
	CommandBroadcast CommandKind = iota
	// CommandJoin subscribes the session to a channel.
	CommandJoin
	// CommandLeave unsubscribes the session from its channel.
	CommandLeave
	// CommandPrivate sends a direct message to a named user.
	CommandPrivate
	// CommandReply sends a direct message to the last private sender.
	CommandReply
	// CommandReact attaches an emoji reaction to a recorded message.
	CommandReact
	// CommandChannels lists every channel created so far.
	CommandChannels
	// CommandQuit disconnects the session.
	CommandQuit
)

// Command is one parsed inbound line.
type Command struct {
	Kind      CommandKind
	Channel   string // CommandJoin
	Recipient string // CommandPrivate
	MessageID string // CommandReact
	Emoji     string // CommandReact
	Text      string // CommandBroadcast, CommandPrivate, CommandReply
}

// ParseLine maps one inbound line onto a command. Unrecognized or empty
// leading tokens fall through to a channel broadcast of the whole line.
// Missing arguments stay empty and surface as lookup failures downstream.
func ParseLine(line string) Command {
	fields := strings.Split(line, " ")

	switch fields[0] {
	case "/join":
		return Command{Kind: CommandJoin, Channel: argAt(fields, 1)}
	case "/leave":
		return Command{Kind: CommandLeave}
	case "/pm":
		return Command{Kind: CommandPrivate, Recipient: argAt(fields, 1), Text: joinFrom(fields, 2)}
	case "/reply", "/r":
		return Command{Kind: CommandReply, Text: joinFrom(fields, 1)}
	case "/react":
		return Command{Kind: CommandReact, MessageID: argAt(fields, 1), Emoji: argAt(fields, 2)}
	case "/channels":
		return Command{Kind: CommandChannels}
	case "/quit":
		return Command{Kind: CommandQuit}
	default:
		return Command{Kind: CommandBroadcast, Text: line}
	}
}

func argAt(fields []string, i int) string {
	if i < len(fields) {
		return fields[i]
	}
	return ""
}

func joinFrom(fields []string, i int) string {
	if i >= len(fields) {
		return ""
	}
	return strings.Join(fields[i:], " ")
}
