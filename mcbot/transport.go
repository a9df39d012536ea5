package mcbot

import "context"

// Connection owns a single socket to the game server: it delivers inbound
// byte chunks and reports connect/disconnect, and accepts outbound writes
// (spec.md §4.3, C3). The loop goroutine is the only writer, so Write
// never needs to be safe against concurrent callers from this package;
// transport_tcp.go still serializes it since a Close from another
// goroutine may race a final Write.
type Connection interface {
	// Write sends data to the server. Safe to call while the read pump is
	// reading.
	Write(data []byte) error
	// Close tears down the connection. The read pump's next read fails
	// afterward and reports its error on the error channel.
	Close() error
	// RemoteAddr reports the address this connection is talking to.
	RemoteAddr() string
}

// dialFunc abstracts dialing for tests; production code uses dialTCP.
type dialFunc func(ctx context.Context, host string, port int) (Connection, <-chan []byte, <-chan error, error)
