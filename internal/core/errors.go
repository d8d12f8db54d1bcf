package core

import (
	"errors"
	"fmt"
)

// Error codes for domain errors.
const (
	ErrCodeNameTaken        = "name_taken"
	ErrCodeAlreadyInChannel = "already_in_channel"
	ErrCodeNotInChannel     = "not_in_channel"
	ErrCodeUserNotFound     = "user_not_found"
	ErrCodeNoPriorSender    = "no_prior_sender"
	ErrCodeMessageNotFound  = "message_not_found"
	ErrCodeNotInSameChannel = "not_in_same_channel"
	ErrCodeNoChannel        = "no_channel"
)

var (
	ErrNameTaken    = errors.New("username taken")
	ErrNotInChannel = errors.New("not in channel")
	ErrNoChannel    = errors.New("no channel joined")
)

// CoreError wraps a code and the exact line shown to the client.
type CoreError struct {
	Code    string
	Message string
}

func (e *CoreError) Error() string {
	return e.Message
}

func errNameTaken() *CoreError {
	return &CoreError{ErrCodeNameTaken, "Username is already taken. Please choose a different username."}
}

func errAlreadyInChannel(channel string) *CoreError {
	return &CoreError{ErrCodeAlreadyInChannel, fmt.Sprintf("You are already in the %s channel.", channel)}
}

func errNotInChannel() *CoreError {
	return &CoreError{ErrCodeNotInChannel, "You are not in any channel."}
}

func errUserNotFound(name string) *CoreError {
	return &CoreError{ErrCodeUserNotFound, fmt.Sprintf("User '%s' not found.", name)}
}

func errNoPriorSender() *CoreError {
	return &CoreError{ErrCodeNoPriorSender, "No previous private message sender found."}
}

func errMessageNotFound(id string) *CoreError {
	return &CoreError{ErrCodeMessageNotFound, fmt.Sprintf("Message '%s' not found.", id)}
}

func errNotInSameChannel() *CoreError {
	return &CoreError{ErrCodeNotInSameChannel, "You are not in the same channel as the message."}
}

func errNoChannel() *CoreError {
	return &CoreError{ErrCodeNoChannel, "You are not in any channel. Join a channel first."}
}
