package wire

import (
	"errors"
	"testing"
)

func TestBufferReadNNeedsMore(t *testing.T) {
	b := NewBuffer()
	b.Append([]byte{1, 2, 3})

	if _, err := b.ReadN(4); !errors.Is(err, ErrNeedMore) {
		t.Fatalf("ReadN(4): got %v, want ErrNeedMore", err)
	}
}

func TestBufferRewindUndoesPartialRead(t *testing.T) {
	b := NewBuffer()
	b.Append([]byte{1, 2, 3, 4})

	b.Mark()
	if _, err := b.ReadN(2); err != nil {
		t.Fatalf("ReadN(2): %v", err)
	}
	if _, err := b.ReadN(10); !errors.Is(err, ErrNeedMore) {
		t.Fatalf("ReadN(10): got %v, want ErrNeedMore", err)
	}
	b.Rewind()

	p, err := b.ReadN(4)
	if err != nil {
		t.Fatalf("ReadN(4) after rewind: %v", err)
	}
	want := []byte{1, 2, 3, 4}
	for i := range want {
		if p[i] != want[i] {
			t.Fatalf("byte %d: got %d, want %d", i, p[i], want[i])
		}
	}
}

func TestBufferCommitCompacts(t *testing.T) {
	b := NewBuffer()
	b.Append([]byte{1, 2, 3, 4})

	b.Mark()
	if _, err := b.ReadN(2); err != nil {
		t.Fatalf("ReadN(2): %v", err)
	}
	b.Commit()

	if got := b.Len(); got != 2 {
		t.Fatalf("Len() after commit: got %d, want 2", got)
	}

	p, err := b.ReadN(2)
	if err != nil {
		t.Fatalf("ReadN(2) post-commit: %v", err)
	}
	if p[0] != 3 || p[1] != 4 {
		t.Fatalf("post-commit bytes: got %v, want [3 4]", p)
	}
}

func TestBufferSplitAppends(t *testing.T) {
	// Appending in arbitrary chunks must not change what a decoder sees.
	b := NewBuffer()
	full := []byte{10, 20, 30, 40, 50}
	for _, chunk := range [][]byte{full[:1], full[1:3], full[3:]} {
		b.Append(chunk)
	}

	p, err := b.ReadN(5)
	if err != nil {
		t.Fatalf("ReadN(5): %v", err)
	}
	for i := range full {
		if p[i] != full[i] {
			t.Fatalf("byte %d: got %d, want %d", i, p[i], full[i])
		}
	}
}
