package mcbot

import (
	"github.com/k64z/mcbot/botproto"
	"github.com/k64z/mcbot/wire"
)

// maxChatBytes is the wire protocol's chat text length limit.
const maxChatBytes = 100

func (c *Client) dispatchSay(tag botproto.Tag, req botproto.Say, fut *Future) {
	if c.state != statePlaying {
		fut.resolve(completion{err: botproto.ErrNotConnected})
		return
	}
	if len(req.Text) > maxChatBytes {
		fut.resolve(completion{err: botproto.ErrChatInvalid})
		return
	}

	if err := c.send(wire.Chat{Text: req.Text}); err != nil {
		c.teardown(err)
		return
	}

	c.pendingChat[req.Text] = append(c.pendingChat[req.Text], fut)
	c.chatTags[req.Text] = append(c.chatTags[req.Text], tag)
}
