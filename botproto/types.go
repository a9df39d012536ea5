// Package botproto defines the bot-facing protocol: the high-level
// request/event messages a bot exchanges with the translator, and the
// plain data types (Position, Spawn, ToolState) those messages carry.
//
// This is the typed-sum-type generalization of the source's dynamic
// attribute bags: one concrete Go type per message, dispatched by a type
// switch instead of string-keyed lookup.
package botproto

import "github.com/google/uuid"

// PlayerEyeOffset is the fixed offset between a player's feet (Y) and eye
// level (Stance). Movement must keep this offset fixed.
const PlayerEyeOffset = 1.6

// Position is the bot's full position: coordinates, orientation, eye
// offset, and ground flag. Equality is exact-field equality, used to detect
// a server-side position correction. The movement engine's arrival test is
// distance-based instead: a target within a small epsilon is snapped onto.
type Position struct {
	X, Y, Z    float64
	Yaw, Pitch float32
	Stance     float64
	OnGround   bool
}

// Spawn is the world's immutable integer-coordinate spawn point, set once
// after login.
type Spawn struct {
	X, Y, Z int32
}

// ToolState describes the currently held item.
type ToolState struct {
	ItemID int16
	Count  byte
	Uses   int16
}

// Tag is an opaque, single-shot correlation handle returned to the bot
// when it submits a request. It is fulfilled exactly once, with either
// the paired response or a failure signal, and may be cancelled by the
// bot before that happens.
type Tag uuid.UUID

// NewTag mints a fresh, randomly-identified correlation tag.
func NewTag() Tag {
	return Tag(uuid.New())
}

// Zero reports whether this is the zero-value Tag (no correlation handle).
func (t Tag) Zero() bool {
	return t == Tag(uuid.Nil)
}

func (t Tag) String() string {
	return uuid.UUID(t).String()
}
