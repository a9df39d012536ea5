package mcbot

import (
	"github.com/k64z/mcbot/botproto"
	"github.com/k64z/mcbot/wire"
)

// activeToolSlot is the inventory slot the held item occupies.
const activeToolSlot = 36

func (c *Client) dispatchSetActiveTool(req botproto.SetActiveTool, fut *Future) {
	if c.state != statePlaying {
		fut.resolve(completion{err: botproto.ErrNotConnected})
		return
	}

	tool := botproto.ToolState{ItemID: req.ItemID, Count: 1, Uses: req.ItemUses}
	if err := c.send(wire.CreativeAction{Slot: activeToolSlot, Details: toolDetails(tool)}); err != nil {
		c.teardown(err)
		return
	}
	c.tool = tool

	// The wire protocol gives no server confirmation for this action.
	fut.resolve(completion{event: botproto.Ack{}})
}

func toolDetails(t botproto.ToolState) wire.ToolDetails {
	if t.ItemID < 0 {
		return wire.ToolDetails{ItemID: -1, Present: false}
	}
	return wire.ToolDetails{ItemID: t.ItemID, Count: t.Count, Uses: t.Uses, Present: true}
}
