package mcbot

import "github.com/k64z/mcbot/botproto"

func (c *Client) dispatchMove(tag botproto.Tag, req botproto.Move, fut *Future) {
	if c.state != statePlaying {
		fut.resolve(completion{err: botproto.ErrNotConnected})
		return
	}

	// A new Move always supersedes a pending one; the superseded tag is
	// resolved with ErrCancelled rather than silently dropped (spec.md §9).
	if c.moveFuture != nil {
		c.resolveFuture(c.movePendingTag, c.moveFuture, completion{err: botproto.ErrCancelled})
	}

	target := req.Target
	c.moveTarget = &target
	c.movePendingTag = tag
	c.moveFuture = fut
}
