package mcbot

import (
	"context"
	"fmt"

	"github.com/k64z/mcbot/botproto"
)

// handleRequest routes a tagged bot request to its dispatcher. Every
// Request variant must be handled here; an unhandled one is a translator
// bug, not a silent drop (spec.md §9).
func (c *Client) handleRequest(tag botproto.Tag, req botproto.Request, fut *Future) {
	switch r := req.(type) {
	case botproto.Connect:
		c.dispatchConnect(r, fut)
	case botproto.Say:
		c.dispatchSay(tag, r, fut)
	case botproto.Move:
		c.dispatchMove(tag, r, fut)
	case botproto.SetActiveTool:
		c.dispatchSetActiveTool(r, fut)
	case botproto.SetBlock:
		c.dispatchSetBlock(r, fut)
	default:
		c.logger.Error("unhandled request type", "type", r)
		fut.resolve(completion{err: fmt.Errorf("mcbot: unhandled request %T", req)})
	}
}

func (c *Client) dispatchConnect(req botproto.Connect, fut *Future) {
	if c.state != stateDisconnected {
		fut.resolve(completion{err: botproto.ErrAlreadyConnected})
		return
	}

	c.username = req.Username
	c.host = req.Host
	c.port = req.Port
	c.state = stateConnecting
	c.connectFuture = fut

	go c.dial0(req.Host, req.Port)
}

// dial0 runs the blocking dial off the loop goroutine and reports the
// outcome back onto the event channel, keeping the loop as the sole owner
// of translator state (spec.md §5).
func (c *Client) dial0(host string, port int) {
	conn, chunks, errs, err := c.dial(context.Background(), host, port)
	if err != nil {
		select {
		case c.events <- connectFailedEvent{err: err}:
		case <-c.done:
		}
		return
	}
	select {
	case c.events <- connectedEvent{conn: conn, chunks: chunks, errs: errs}:
	case <-c.done:
		conn.Close()
	}
}
