package mcbot

import (
	"math"

	"github.com/k64z/mcbot/botproto"
	"github.com/k64z/mcbot/wire"
)

// arrivalEpsilon is how close current must get to a move target before it
// is considered arrived and snapped exactly onto it, avoiding an endless
// tail of ever-smaller corrective ticks (spec.md §9, Open Question 1).
const arrivalEpsilon = 0.03

// onTick is C5's fixed-interval heartbeat: it advances any pending move by
// at most maxMove world units, reports arrival, and always re-sends the
// current position to the server so the session stays alive.
func (c *Client) onTick() {
	if c.state != statePlaying {
		return
	}

	if c.moveTarget != nil {
		c.advanceMove()
	}

	c.sendPositionLook()
}

func (c *Client) advanceMove() {
	target := *c.moveTarget
	dx := target.X - c.current.X
	dy := target.Y - c.current.Y
	dz := target.Z - c.current.Z
	d := math.Sqrt(dx*dx + dy*dy + dz*dz)

	// Rotation and ground flag are adopted from the target verbatim every
	// tick, not interpolated (spec.md §4.5 step 2).
	c.current.Yaw = target.Yaw
	c.current.Pitch = target.Pitch
	c.current.OnGround = target.OnGround

	if d <= arrivalEpsilon {
		c.current.Stance += target.Y - c.current.Y
		c.current.X, c.current.Y, c.current.Z = target.X, target.Y, target.Z
		c.moveTarget = nil
		if c.moveFuture != nil {
			c.resolveFuture(c.movePendingTag, c.moveFuture, completion{
				event: botproto.PositionChanged{Position: c.current, Forced: false},
			})
			c.moveFuture = nil
		}
		return
	}

	r := c.maxMove / d
	if r > 1 {
		r = 1
	}

	newY := c.current.Y + dy*r
	// Stance is never reassigned to an absolute value; it tracks the same
	// delta applied to Y each tick (spec.md §9, Open Question 2).
	c.current.Stance += newY - c.current.Y

	c.current.X += dx * r
	c.current.Y = newY
	c.current.Z += dz * r
}

func (c *Client) sendPositionLook() {
	msg := wire.PlayerPositionLook{
		X:        c.current.X,
		Y:        c.current.Y,
		Stance:   c.current.Stance,
		Z:        c.current.Z,
		Yaw:      c.current.Yaw,
		Pitch:    c.current.Pitch,
		OnGround: c.current.OnGround,
	}
	if err := c.send(msg); err != nil {
		c.teardown(err)
	}
}
