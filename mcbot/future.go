package mcbot

import (
	"context"

	"github.com/k64z/mcbot/botproto"
)

// completion is what the loop sends when a tagged request resolves: event
// on success, err on failure. Exactly one of the two is set.
type completion struct {
	event botproto.Event
	err   error
}

// Future is the single-shot completion handle returned for every tagged
// request: the Go-idiomatic replacement for the source's chained Deferred
// callbacks (spec.md §9). It is fulfilled exactly once, by the loop
// goroutine, and may be cancelled by the bot before that happens.
type Future struct {
	tag    botproto.Tag
	ch     chan completion
	client *Client
}

func newFuture(client *Client, tag botproto.Tag) *Future {
	return &Future{tag: tag, ch: make(chan completion, 1), client: client}
}

// Tag returns this future's correlation tag.
func (f *Future) Tag() botproto.Tag {
	return f.tag
}

// Wait blocks until the future resolves or ctx is done.
func (f *Future) Wait(ctx context.Context) (botproto.Event, error) {
	select {
	case c := <-f.ch:
		return c.event, c.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Cancel discards this future's eventual completion: when the translator
// later tries to fulfill it, the result is silently dropped instead of
// being delivered (spec.md §5). Cancel is idempotent and safe to call
// after the future has already resolved.
func (f *Future) Cancel() {
	f.client.cancelTag(f.tag)
}

func (f *Future) resolve(c completion) {
	select {
	case f.ch <- c:
	default:
		// Already resolved or buffer full; resolve is only ever called
		// once per future by the loop, so this should not happen.
	}
}
