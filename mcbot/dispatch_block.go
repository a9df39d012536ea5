package mcbot

import (
	"github.com/k64z/mcbot/botproto"
	"github.com/k64z/mcbot/wire"
)

// placeFace is the face a dig/place sequence targets. The core always
// targets the block's top face; bots that need otherwise place against a
// neighboring coordinate themselves.
const placeFace = 1

func (c *Client) dispatchSetBlock(req botproto.SetBlock, fut *Future) {
	if c.state != statePlaying {
		fut.resolve(completion{err: botproto.ErrNotConnected})
		return
	}

	previous := c.tool
	tool := previous
	if req.OverrideTool {
		tool = botproto.ToolState{ItemID: req.ItemID, Count: 1, Uses: req.ItemUses}
		if err := c.send(wire.CreativeAction{Slot: activeToolSlot, Details: toolDetails(tool)}); err != nil {
			c.teardown(err)
			return
		}
		c.tool = tool
	}

	// Dig start (status 0) then dig finish (status 2) against the block
	// above the placement target (top face), preserved from the source
	// verbatim (spec.md §9, Open Question 3) before the place.
	dig := wire.PlayerBlockDig{X: req.X, Y: byte(req.Y + 1), Z: req.Z, Face: placeFace}
	dig.Status = 0
	if err := c.send(dig); err != nil {
		c.teardown(err)
		return
	}
	dig.Status = 2
	if err := c.send(dig); err != nil {
		c.teardown(err)
		return
	}

	place := wire.PlayerBlockPlace{
		X: req.X, Y: byte(req.Y), Z: req.Z,
		Dir:     placeFace,
		Details: toolDetails(tool),
	}
	if err := c.send(place); err != nil {
		c.teardown(err)
		return
	}

	if req.OverrideTool {
		if err := c.send(wire.CreativeAction{Slot: activeToolSlot, Details: toolDetails(previous)}); err != nil {
			c.teardown(err)
			return
		}
		c.tool = previous
	}

	fut.resolve(completion{event: botproto.Ack{}})
}
