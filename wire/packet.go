package wire

import "fmt"

// PacketID identifies a wire packet by its one-byte leading ID.
type PacketID byte

// Packet IDs for protocol_id 23, matching the legacy Minecraft Beta wire
// protocol this spec describes.
const (
	PacketKeepAlive          PacketID = 0x00
	PacketLogin              PacketID = 0x01
	PacketHandshake          PacketID = 0x02
	PacketChat               PacketID = 0x03
	PacketUpdateTime         PacketID = 0x04
	PacketSpawnPosition      PacketID = 0x06
	PacketPlayerPositionLook PacketID = 0x0D
	PacketPlayerBlockDig     PacketID = 0x0E
	PacketPlayerBlockPlace   PacketID = 0x0F
	PacketPreChunk           PacketID = 0x32
	PacketChunk              PacketID = 0x33
	PacketCreativeAction     PacketID = 0x6B
	PacketPlayerList         PacketID = 0xC9
)

var packetNames = map[PacketID]string{
	PacketKeepAlive:          "KeepAlive",
	PacketLogin:              "Login",
	PacketHandshake:          "Handshake",
	PacketChat:               "Chat",
	PacketUpdateTime:         "UpdateTime",
	PacketSpawnPosition:      "SpawnPosition",
	PacketPlayerPositionLook: "PlayerPositionLook",
	PacketPlayerBlockDig:     "PlayerBlockDig",
	PacketPlayerBlockPlace:   "PlayerBlockPlace",
	PacketPreChunk:           "PreChunk",
	PacketChunk:              "Chunk",
	PacketCreativeAction:     "CreativeAction",
	PacketPlayerList:         "PlayerList",
}

func (id PacketID) String() string {
	if name, ok := packetNames[id]; ok {
		return name
	}
	return fmt.Sprintf("PacketID(0x%02X)", byte(id))
}

// Message is the sum type for every decoded or to-be-encoded wire packet.
// Exactly one concrete type corresponds to each PacketID; decoding an
// unknown ID returns an *UnsupportedPacketError rather than a zero Message.
type Message interface {
	packetID() PacketID
}

// KeepAlive carries an opaque id; the client answers each one with a
// KeepAlive of id 0.
type KeepAlive struct {
	ID int32
}

func (KeepAlive) packetID() PacketID { return PacketKeepAlive }

// Login is sent client→server on LoggingIn; the server's Login reply body
// is ignored by the core per spec.md §4.4/§6.1.
type Login struct {
	ProtocolVersion int32
	Username        string
	NU1, NU2        int64
	NU3, NU4        int64
	NU5, NU6        int64
	NU7             string
}

func (Login) packetID() PacketID { return PacketLogin }

// Handshake carries the username (client→server) or the server's hash
// (server→client, ignored by the core).
type Handshake struct {
	UsernameOrHash string
}

func (Handshake) packetID() PacketID { return PacketHandshake }

// Chat carries a single chat line, at most 100 bytes either direction.
type Chat struct {
	Text string
}

func (Chat) packetID() PacketID { return PacketChat }

// UpdateTime carries the server's world-time clock.
type UpdateTime struct {
	Time int64
}

func (UpdateTime) packetID() PacketID { return PacketUpdateTime }

// SpawnPosition carries the world's integer-coordinate spawn point.
type SpawnPosition struct {
	X, Y, Z int32
}

func (SpawnPosition) packetID() PacketID { return PacketSpawnPosition }

// PlayerPositionLook carries the full six-float position plus ground flag,
// in both directions (server correction, client heartbeat).
type PlayerPositionLook struct {
	X, Y, Stance, Z    float64
	Yaw, Pitch         float32
	OnGround           bool
}

func (PlayerPositionLook) packetID() PacketID { return PacketPlayerPositionLook }

// PlayerBlockDig carries a dig status at a block coordinate/face.
type PlayerBlockDig struct {
	Status  byte
	X       int32
	Y       byte
	Z       int32
	Face    byte
}

func (PlayerBlockDig) packetID() PacketID { return PacketPlayerBlockDig }

// ToolDetails describes an item stack: id, count, and remaining uses.
type ToolDetails struct {
	ItemID int16
	Count  byte
	Uses   int16
	// Present reports whether this slot holds an item at all (ItemID == -1
	// means empty, matching the legacy wire convention).
	Present bool
}

// PlayerBlockPlace carries a block placement at a coordinate/face with the
// tool used to place it.
type PlayerBlockPlace struct {
	X       int32
	Y       byte
	Z       int32
	Dir     byte
	Details ToolDetails
}

func (PlayerBlockPlace) packetID() PacketID { return PacketPlayerBlockPlace }

// PreChunk announces a chunk's availability; the core does not model
// chunk data and only consumes this to stay framed correctly.
type PreChunk struct {
	X, Z int32
	Mode bool
}

func (PreChunk) packetID() PacketID { return PacketPreChunk }

// Chunk carries raw block data for a chunk column; the core never
// interprets the body, only skips it.
type Chunk struct {
	X, Y, Z          int32
	SizeX, SizeY, SizeZ byte
	Data             []byte
}

func (Chunk) packetID() PacketID { return PacketChunk }

// CreativeAction sets the contents of an inventory slot (used here only
// for slot 36, the held item).
type CreativeAction struct {
	Slot    int16
	Details ToolDetails
}

func (CreativeAction) packetID() PacketID { return PacketCreativeAction }

// PlayerList announces a player entering or leaving the visible roster,
// with their ping in milliseconds.
type PlayerList struct {
	Name   string
	Online bool
	Ping   int16
}

func (PlayerList) packetID() PacketID { return PacketPlayerList }
