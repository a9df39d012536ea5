package wire

import (
	"encoding/binary"
	"fmt"
	"math"
	"unicode/utf16"
)

// UnsupportedPacketError is returned by Decode when the leading packet ID
// has no registered schema. Since this framing has no outer length
// envelope, the body's extent is unknowable once its ID is unrecognized;
// the session logs it and terminates rather than desyncing silently.
type UnsupportedPacketError struct {
	ID PacketID
}

func (e *UnsupportedPacketError) Error() string {
	return fmt.Sprintf("wire: unsupported packet %s", e.ID)
}

type decodeFunc func(b *Buffer) (Message, error)
type encodeFunc func(m Message) ([]byte, error)

type packetSchema struct {
	decode decodeFunc
	encode encodeFunc
}

// Codec is a table keyed by packet ID, pure and stateless, decoding packet
// bodies off a Buffer and encoding attribute structs to bytes. It is a
// collaborator to the translator, not part of the hard core (spec.md §4.2).
type Codec struct {
	schemas map[PacketID]packetSchema
}

// NewCodec builds the fixed schema table for protocol_id 23.
func NewCodec() *Codec {
	c := &Codec{schemas: make(map[PacketID]packetSchema)}
	c.register(PacketKeepAlive, decodeKeepAlive, encodeKeepAlive)
	c.register(PacketLogin, decodeLogin, encodeLogin)
	c.register(PacketHandshake, decodeHandshake, encodeHandshake)
	c.register(PacketChat, decodeChat, encodeChat)
	c.register(PacketUpdateTime, decodeUpdateTime, encodeUpdateTime)
	c.register(PacketSpawnPosition, decodeSpawnPosition, encodeSpawnPosition)
	c.register(PacketPlayerPositionLook, decodePlayerPositionLook, encodePlayerPositionLook)
	c.register(PacketPlayerBlockDig, decodePlayerBlockDig, encodePlayerBlockDig)
	c.register(PacketPlayerBlockPlace, decodePlayerBlockPlace, encodePlayerBlockPlace)
	c.register(PacketPreChunk, decodePreChunk, encodePreChunk)
	c.register(PacketChunk, decodeChunk, encodeChunk)
	c.register(PacketCreativeAction, decodeCreativeAction, encodeCreativeAction)
	c.register(PacketPlayerList, decodePlayerList, encodePlayerList)
	return c
}

func (c *Codec) register(id PacketID, d decodeFunc, e encodeFunc) {
	c.schemas[id] = packetSchema{decode: d, encode: e}
}

// Encode serializes msg to an ID byte followed by its schema-defined body.
func (c *Codec) Encode(msg Message) ([]byte, error) {
	id := msg.packetID()
	schema, ok := c.schemas[id]
	if !ok {
		return nil, &UnsupportedPacketError{ID: id}
	}
	body, err := schema.encode(msg)
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", id, err)
	}
	out := make([]byte, 0, 1+len(body))
	out = append(out, byte(id))
	out = append(out, body...)
	return out, nil
}

// Decode reads one full packet (ID byte + body) from b. On ErrNeedMore the
// caller must Rewind b and wait for more bytes; on any other error the
// session is terminated (spec.md §7). On success the caller must Commit.
func (c *Codec) Decode(b *Buffer) (Message, error) {
	b.Mark()

	idByte, err := b.ReadN(1)
	if err != nil {
		return nil, err
	}
	id := PacketID(idByte[0])

	schema, ok := c.schemas[id]
	if !ok {
		return nil, &UnsupportedPacketError{ID: id}
	}

	msg, err := schema.decode(b)
	if err != nil {
		return nil, err
	}
	return msg, nil
}

// --- primitive readers/writers -------------------------------------------------

func readByte(b *Buffer) (byte, error) {
	p, err := b.ReadN(1)
	if err != nil {
		return 0, err
	}
	return p[0], nil
}

func readBool(b *Buffer) (bool, error) {
	v, err := readByte(b)
	if err != nil {
		return false, err
	}
	return v != 0, nil
}

func readShort(b *Buffer) (int16, error) {
	p, err := b.ReadN(2)
	if err != nil {
		return 0, err
	}
	return int16(binary.BigEndian.Uint16(p)), nil
}

func readInt(b *Buffer) (int32, error) {
	p, err := b.ReadN(4)
	if err != nil {
		return 0, err
	}
	return int32(binary.BigEndian.Uint32(p)), nil
}

func readLong(b *Buffer) (int64, error) {
	p, err := b.ReadN(8)
	if err != nil {
		return 0, err
	}
	return int64(binary.BigEndian.Uint64(p)), nil
}

func readFloat(b *Buffer) (float32, error) {
	p, err := b.ReadN(4)
	if err != nil {
		return 0, err
	}
	return math.Float32frombits(binary.BigEndian.Uint32(p)), nil
}

func readDouble(b *Buffer) (float64, error) {
	p, err := b.ReadN(8)
	if err != nil {
		return 0, err
	}
	return math.Float64frombits(binary.BigEndian.Uint64(p)), nil
}

// readUTF16String reads a short-length-prefixed (char count, not byte
// count) big-endian UTF-16 string, matching the legacy protocol's string
// framing.
func readUTF16String(b *Buffer) (string, error) {
	n, err := readShort(b)
	if err != nil {
		return "", err
	}
	if n < 0 {
		return "", fmt.Errorf("wire: negative string length %d", n)
	}
	raw, err := b.ReadN(int(n) * 2)
	if err != nil {
		return "", err
	}
	units := make([]uint16, n)
	for i := range units {
		units[i] = binary.BigEndian.Uint16(raw[i*2 : i*2+2])
	}
	return string(utf16.Decode(units)), nil
}

func readByteArray(b *Buffer, n int) ([]byte, error) {
	raw, err := b.ReadN(n)
	if err != nil {
		return nil, err
	}
	out := make([]byte, n)
	copy(out, raw)
	return out, nil
}

func writeByte(buf []byte, v byte) []byte   { return append(buf, v) }
func writeBool(buf []byte, v bool) []byte {
	if v {
		return append(buf, 1)
	}
	return append(buf, 0)
}

func writeShort(buf []byte, v int16) []byte {
	var tmp [2]byte
	binary.BigEndian.PutUint16(tmp[:], uint16(v))
	return append(buf, tmp[:]...)
}

func writeInt(buf []byte, v int32) []byte {
	var tmp [4]byte
	binary.BigEndian.PutUint32(tmp[:], uint32(v))
	return append(buf, tmp[:]...)
}

func writeLong(buf []byte, v int64) []byte {
	var tmp [8]byte
	binary.BigEndian.PutUint64(tmp[:], uint64(v))
	return append(buf, tmp[:]...)
}

func writeFloat(buf []byte, v float32) []byte {
	var tmp [4]byte
	binary.BigEndian.PutUint32(tmp[:], math.Float32bits(v))
	return append(buf, tmp[:]...)
}

func writeDouble(buf []byte, v float64) []byte {
	var tmp [8]byte
	binary.BigEndian.PutUint64(tmp[:], math.Float64bits(v))
	return append(buf, tmp[:]...)
}

func writeUTF16String(buf []byte, s string) []byte {
	units := utf16.Encode([]rune(s))
	buf = writeShort(buf, int16(len(units)))
	for _, u := range units {
		var tmp [2]byte
		binary.BigEndian.PutUint16(tmp[:], u)
		buf = append(buf, tmp[:]...)
	}
	return buf
}

func readToolDetails(b *Buffer) (ToolDetails, error) {
	itemID, err := readShort(b)
	if err != nil {
		return ToolDetails{}, err
	}
	if itemID < 0 {
		return ToolDetails{Present: false, ItemID: -1}, nil
	}
	count, err := readByte(b)
	if err != nil {
		return ToolDetails{}, err
	}
	uses, err := readShort(b)
	if err != nil {
		return ToolDetails{}, err
	}
	return ToolDetails{Present: true, ItemID: itemID, Count: count, Uses: uses}, nil
}

func writeToolDetails(buf []byte, t ToolDetails) []byte {
	if !t.Present {
		return writeShort(buf, -1)
	}
	buf = writeShort(buf, t.ItemID)
	buf = writeByte(buf, t.Count)
	buf = writeShort(buf, t.Uses)
	return buf
}

// --- per-packet schemas ---------------------------------------------------------

func decodeKeepAlive(b *Buffer) (Message, error) {
	id, err := readInt(b)
	if err != nil {
		return nil, err
	}
	return KeepAlive{ID: id}, nil
}

func encodeKeepAlive(m Message) ([]byte, error) {
	ka := m.(KeepAlive)
	return writeInt(nil, ka.ID), nil
}

func decodeLogin(b *Buffer) (Message, error) {
	proto, err := readInt(b)
	if err != nil {
		return nil, err
	}
	username, err := readUTF16String(b)
	if err != nil {
		return nil, err
	}
	var l Login
	l.ProtocolVersion = proto
	l.Username = username
	vals := make([]*int64, 6)
	vals[0], vals[1], vals[2] = &l.NU1, &l.NU2, &l.NU3
	vals[3], vals[4], vals[5] = &l.NU4, &l.NU5, &l.NU6
	for _, v := range vals {
		n, err := readLong(b)
		if err != nil {
			return nil, err
		}
		*v = n
	}
	nu7, err := readUTF16String(b)
	if err != nil {
		return nil, err
	}
	l.NU7 = nu7
	return l, nil
}

func encodeLogin(m Message) ([]byte, error) {
	l := m.(Login)
	var buf []byte
	buf = writeInt(buf, l.ProtocolVersion)
	buf = writeUTF16String(buf, l.Username)
	for _, v := range []int64{l.NU1, l.NU2, l.NU3, l.NU4, l.NU5, l.NU6} {
		buf = writeLong(buf, v)
	}
	buf = writeUTF16String(buf, l.NU7)
	return buf, nil
}

func decodeHandshake(b *Buffer) (Message, error) {
	s, err := readUTF16String(b)
	if err != nil {
		return nil, err
	}
	return Handshake{UsernameOrHash: s}, nil
}

func encodeHandshake(m Message) ([]byte, error) {
	h := m.(Handshake)
	return writeUTF16String(nil, h.UsernameOrHash), nil
}

func decodeChat(b *Buffer) (Message, error) {
	s, err := readUTF16String(b)
	if err != nil {
		return nil, err
	}
	return Chat{Text: s}, nil
}

func encodeChat(m Message) ([]byte, error) {
	c := m.(Chat)
	return writeUTF16String(nil, c.Text), nil
}

func decodeUpdateTime(b *Buffer) (Message, error) {
	t, err := readLong(b)
	if err != nil {
		return nil, err
	}
	return UpdateTime{Time: t}, nil
}

func encodeUpdateTime(m Message) ([]byte, error) {
	u := m.(UpdateTime)
	return writeLong(nil, u.Time), nil
}

func decodeSpawnPosition(b *Buffer) (Message, error) {
	x, err := readInt(b)
	if err != nil {
		return nil, err
	}
	y, err := readInt(b)
	if err != nil {
		return nil, err
	}
	z, err := readInt(b)
	if err != nil {
		return nil, err
	}
	return SpawnPosition{X: x, Y: y, Z: z}, nil
}

func encodeSpawnPosition(m Message) ([]byte, error) {
	s := m.(SpawnPosition)
	var buf []byte
	buf = writeInt(buf, s.X)
	buf = writeInt(buf, s.Y)
	buf = writeInt(buf, s.Z)
	return buf, nil
}

func decodePlayerPositionLook(b *Buffer) (Message, error) {
	x, err := readDouble(b)
	if err != nil {
		return nil, err
	}
	y, err := readDouble(b)
	if err != nil {
		return nil, err
	}
	stance, err := readDouble(b)
	if err != nil {
		return nil, err
	}
	z, err := readDouble(b)
	if err != nil {
		return nil, err
	}
	yaw, err := readFloat(b)
	if err != nil {
		return nil, err
	}
	pitch, err := readFloat(b)
	if err != nil {
		return nil, err
	}
	onGround, err := readBool(b)
	if err != nil {
		return nil, err
	}
	return PlayerPositionLook{
		X: x, Y: y, Stance: stance, Z: z,
		Yaw: yaw, Pitch: pitch, OnGround: onGround,
	}, nil
}

func encodePlayerPositionLook(m Message) ([]byte, error) {
	p := m.(PlayerPositionLook)
	var buf []byte
	buf = writeDouble(buf, p.X)
	buf = writeDouble(buf, p.Y)
	buf = writeDouble(buf, p.Stance)
	buf = writeDouble(buf, p.Z)
	buf = writeFloat(buf, p.Yaw)
	buf = writeFloat(buf, p.Pitch)
	buf = writeBool(buf, p.OnGround)
	return buf, nil
}

func decodePlayerBlockDig(b *Buffer) (Message, error) {
	status, err := readByte(b)
	if err != nil {
		return nil, err
	}
	x, err := readInt(b)
	if err != nil {
		return nil, err
	}
	y, err := readByte(b)
	if err != nil {
		return nil, err
	}
	z, err := readInt(b)
	if err != nil {
		return nil, err
	}
	face, err := readByte(b)
	if err != nil {
		return nil, err
	}
	return PlayerBlockDig{Status: status, X: x, Y: y, Z: z, Face: face}, nil
}

func encodePlayerBlockDig(m Message) ([]byte, error) {
	d := m.(PlayerBlockDig)
	var buf []byte
	buf = writeByte(buf, d.Status)
	buf = writeInt(buf, d.X)
	buf = writeByte(buf, d.Y)
	buf = writeInt(buf, d.Z)
	buf = writeByte(buf, d.Face)
	return buf, nil
}

func decodePlayerBlockPlace(b *Buffer) (Message, error) {
	x, err := readInt(b)
	if err != nil {
		return nil, err
	}
	y, err := readByte(b)
	if err != nil {
		return nil, err
	}
	z, err := readInt(b)
	if err != nil {
		return nil, err
	}
	dir, err := readByte(b)
	if err != nil {
		return nil, err
	}
	details, err := readToolDetails(b)
	if err != nil {
		return nil, err
	}
	return PlayerBlockPlace{X: x, Y: y, Z: z, Dir: dir, Details: details}, nil
}

func encodePlayerBlockPlace(m Message) ([]byte, error) {
	p := m.(PlayerBlockPlace)
	var buf []byte
	buf = writeInt(buf, p.X)
	buf = writeByte(buf, p.Y)
	buf = writeInt(buf, p.Z)
	buf = writeByte(buf, p.Dir)
	buf = writeToolDetails(buf, p.Details)
	return buf, nil
}

func decodePreChunk(b *Buffer) (Message, error) {
	x, err := readInt(b)
	if err != nil {
		return nil, err
	}
	z, err := readInt(b)
	if err != nil {
		return nil, err
	}
	mode, err := readBool(b)
	if err != nil {
		return nil, err
	}
	return PreChunk{X: x, Z: z, Mode: mode}, nil
}

func encodePreChunk(m Message) ([]byte, error) {
	p := m.(PreChunk)
	var buf []byte
	buf = writeInt(buf, p.X)
	buf = writeInt(buf, p.Z)
	buf = writeBool(buf, p.Mode)
	return buf, nil
}

func decodeChunk(b *Buffer) (Message, error) {
	x, err := readInt(b)
	if err != nil {
		return nil, err
	}
	y, err := readShort(b)
	if err != nil {
		return nil, err
	}
	z, err := readInt(b)
	if err != nil {
		return nil, err
	}
	sx, err := readByte(b)
	if err != nil {
		return nil, err
	}
	sy, err := readByte(b)
	if err != nil {
		return nil, err
	}
	sz, err := readByte(b)
	if err != nil {
		return nil, err
	}
	size, err := readInt(b)
	if err != nil {
		return nil, err
	}
	if size < 0 {
		return nil, fmt.Errorf("wire: negative chunk size %d", size)
	}
	data, err := readByteArray(b, int(size))
	if err != nil {
		return nil, err
	}
	return Chunk{X: x, Y: int32(y), Z: z, SizeX: sx, SizeY: sy, SizeZ: sz, Data: data}, nil
}

func encodeChunk(m Message) ([]byte, error) {
	c := m.(Chunk)
	var buf []byte
	buf = writeInt(buf, c.X)
	buf = writeShort(buf, int16(c.Y))
	buf = writeInt(buf, c.Z)
	buf = writeByte(buf, c.SizeX)
	buf = writeByte(buf, c.SizeY)
	buf = writeByte(buf, c.SizeZ)
	buf = writeInt(buf, int32(len(c.Data)))
	buf = append(buf, c.Data...)
	return buf, nil
}

func decodeCreativeAction(b *Buffer) (Message, error) {
	slot, err := readShort(b)
	if err != nil {
		return nil, err
	}
	details, err := readToolDetails(b)
	if err != nil {
		return nil, err
	}
	return CreativeAction{Slot: slot, Details: details}, nil
}

func encodeCreativeAction(m Message) ([]byte, error) {
	c := m.(CreativeAction)
	var buf []byte
	buf = writeShort(buf, c.Slot)
	buf = writeToolDetails(buf, c.Details)
	return buf, nil
}

func decodePlayerList(b *Buffer) (Message, error) {
	name, err := readUTF16String(b)
	if err != nil {
		return nil, err
	}
	online, err := readBool(b)
	if err != nil {
		return nil, err
	}
	ping, err := readShort(b)
	if err != nil {
		return nil, err
	}
	return PlayerList{Name: name, Online: online, Ping: ping}, nil
}

func encodePlayerList(m Message) ([]byte, error) {
	p := m.(PlayerList)
	var buf []byte
	buf = writeUTF16String(buf, p.Name)
	buf = writeBool(buf, p.Online)
	buf = writeShort(buf, p.Ping)
	return buf, nil
}
