package mcbot

import (
	"context"
	"fmt"
	"net"
	"sync"
)

// tcpConn implements Connection over a raw TCP socket. Unlike the game's
// wire protocol peers that add their own framing, this transport passes
// bytes through untouched — C2's codec frames packets off the stream
// itself (spec.md §4.2), so there is no outer length header to add or
// strip here.
type tcpConn struct {
	conn net.Conn
	mu   sync.Mutex // serializes writes
	addr string
}

// dialTCP opens a TCP connection to host:port and starts a read pump that
// feeds inbound chunks to the returned channel. The error channel receives
// at most one value (the terminal read error) and is then closed.
func dialTCP(ctx context.Context, host string, port int) (Connection, <-chan []byte, <-chan error, error) {
	addr := fmt.Sprintf("%s:%d", host, port)
	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("tcp dial %s: %w", addr, err)
	}

	t := &tcpConn{conn: conn, addr: addr}

	chunks := make(chan []byte, 64)
	errs := make(chan error, 1)
	go t.readPump(chunks, errs)

	return t, chunks, errs, nil
}

func (t *tcpConn) readPump(chunks chan<- []byte, errs chan<- error) {
	defer close(chunks)
	defer close(errs)

	buf := make([]byte, 4096)
	for {
		n, err := t.conn.Read(buf)
		if n > 0 {
			chunk := make([]byte, n)
			copy(chunk, buf[:n])
			chunks <- chunk
		}
		if err != nil {
			errs <- err
			return
		}
	}
}

func (t *tcpConn) Write(data []byte) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	_, err := t.conn.Write(data)
	return err
}

func (t *tcpConn) Close() error {
	return t.conn.Close()
}

func (t *tcpConn) RemoteAddr() string {
	return t.addr
}
