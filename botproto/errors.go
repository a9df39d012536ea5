package botproto

import "errors"

// Failure signals a tagged request's completion can carry instead of an
// Event, per spec.md §7.
var (
	// ErrDisconnected means the session died before the tag could be
	// fulfilled (transport error or server-initiated logoff).
	ErrDisconnected = errors.New("botproto: disconnected")

	// ErrChatInvalid means a Say request's text exceeded 100 bytes.
	ErrChatInvalid = errors.New("botproto: chat text too long")

	// ErrCancelled means a pending Move tag was superseded by a later
	// Move before it could complete.
	ErrCancelled = errors.New("botproto: cancelled")

	// ErrNotConnected means a request was submitted before Connect
	// reached Playing; state is left undisturbed.
	ErrNotConnected = errors.New("botproto: not connected")

	// ErrAlreadyConnected means Connect was submitted while a session was
	// already connecting or playing.
	ErrAlreadyConnected = errors.New("botproto: already connected")
)
