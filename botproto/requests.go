package botproto

// Request is the sum type of messages a bot sends to the translator.
// Dispatch on the concrete type with a type switch; an unhandled variant
// is a compile-time error in the bot, not a silent drop (spec.md §9).
type Request interface {
	isRequest()
}

// Connect asks the translator to open a session against the given server.
// Response: ServerJoined on success, ErrDisconnected on failure.
type Connect struct {
	Username string
	Host     string
	Port     int
}

func (Connect) isRequest() {}

// Say sends a line of chat. Response: ChatMessage (self-echo) on success,
// ErrChatInvalid if text exceeds 100 bytes.
type Say struct {
	Text string
}

func (Say) isRequest() {}

// Move requests the bot travel to target at the fixed tick rate, velocity
// clamped. Response: PositionChanged{Forced:false} on arrival,
// PositionChanged{Forced:true} on a server correction that preempts it, or
// ErrCancelled if superseded by a later Move.
type Move struct {
	Target Position
}

func (Move) isRequest() {}

// SetActiveTool sets the held item. Response: Ack (the wire protocol gives
// no confirmation).
type SetActiveTool struct {
	ItemID   int16
	ItemUses int16
}

func (SetActiveTool) isRequest() {}

// SetBlock places a block at (X,Y,Z). If OverrideTool is false, the
// currently active tool is used to place the block and ItemID/ItemUses are
// ignored. Response: Ack (the wire protocol gives no confirmation).
type SetBlock struct {
	X, Y, Z      int32
	ItemID       int16
	ItemUses     int16
	OverrideTool bool
}

func (SetBlock) isRequest() {}
