// Package wire implements the game's legacy binary wire protocol: a
// growable byte buffer with rewind support (C1) and a schema-driven codec
// over it (C2).
package wire

import "errors"

// ErrNeedMore signals that a decoder needs more bytes than the buffer
// currently holds past its read cursor. Never surfaced to bot code.
var ErrNeedMore = errors.New("wire: need more bytes")

// Buffer accumulates inbound bytes and supports peek/consume with a
// rewind point so a partial packet does not advance the read cursor.
//
// Contract: a decoder either fully consumes one packet (caller then
// Commits) or returns ErrNeedMore, in which case the caller Rewinds and
// waits for more bytes. Compaction only happens on Commit; no data is
// ever dropped.
type Buffer struct {
	buf  []byte
	read int
	mark int
}

// NewBuffer returns an empty Buffer.
func NewBuffer() *Buffer {
	return &Buffer{}
}

// Append adds bytes to the end of the buffer.
func (b *Buffer) Append(p []byte) {
	b.buf = append(b.buf, p...)
}

// ReadN advances the read cursor by n bytes and returns them, or returns
// ErrNeedMore if fewer than n bytes remain past the read cursor.
func (b *Buffer) ReadN(n int) ([]byte, error) {
	if b.read+n > len(b.buf) {
		return nil, ErrNeedMore
	}
	out := b.buf[b.read : b.read+n]
	b.read += n
	return out, nil
}

// PeekByte returns the next unread byte without advancing the cursor.
func (b *Buffer) PeekByte() (byte, error) {
	if b.read >= len(b.buf) {
		return 0, ErrNeedMore
	}
	return b.buf[b.read], nil
}

// Rewind resets the read cursor back to the start of the current packet,
// undoing any ReadN calls made while decoding a packet that turned out to
// be incomplete.
func (b *Buffer) Rewind() {
	b.read = b.mark
}

// Commit marks the bytes consumed since the last Commit/Mark as finished
// and compacts them out of the buffer, resetting both cursors to zero.
func (b *Buffer) Commit() {
	if b.read > 0 {
		b.buf = append(b.buf[:0], b.buf[b.read:]...)
	}
	b.read = 0
	b.mark = 0
}

// Mark records the current read cursor as the start of the next packet
// to decode. Call this before each decode attempt.
func (b *Buffer) Mark() {
	b.mark = b.read
}

// Len reports the number of unread bytes past the read cursor.
func (b *Buffer) Len() int {
	return len(b.buf) - b.read
}
