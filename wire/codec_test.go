package wire

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// roundTrip asserts decode(encode(msg)) == msg for well-formed msg, the
// codec's round-trip law (spec.md §8).
func roundTrip(t *testing.T, codec *Codec, msg Message) Message {
	t.Helper()
	encoded, err := codec.Encode(msg)
	require.NoError(t, err)

	b := NewBuffer()
	b.Append(encoded)
	decoded, err := codec.Decode(b)
	require.NoError(t, err)
	b.Commit()
	assert.Equal(t, 0, b.Len(), "decode should consume the whole encoded packet")
	return decoded
}

func TestCodecRoundTrips(t *testing.T) {
	codec := NewCodec()

	cases := []Message{
		KeepAlive{ID: 42},
		Login{ProtocolVersion: 23, Username: "bot", NU7: ""},
		Handshake{UsernameOrHash: "bot"},
		Chat{Text: "<bot> hi"},
		UpdateTime{Time: 1234567},
		SpawnPosition{X: 0, Y: 64, Z: 0},
		PlayerPositionLook{X: 0.5, Y: 64, Stance: 65.6, Z: 0.5, Yaw: 0, Pitch: 0, OnGround: true},
		PlayerBlockDig{Status: 0, X: 10, Y: 65, Z: -3, Face: 1},
		PlayerBlockPlace{X: 10, Y: 64, Z: -3, Dir: 1, Details: ToolDetails{Present: true, ItemID: 1, Count: 1, Uses: 0}},
		PlayerBlockPlace{X: 10, Y: 64, Z: -3, Dir: 1, Details: ToolDetails{Present: false, ItemID: -1}},
		PreChunk{X: 0, Z: 0, Mode: true},
		Chunk{X: 0, Y: 0, Z: 0, SizeX: 15, SizeY: 127, SizeZ: 15, Data: []byte{1, 2, 3}},
		CreativeAction{Slot: 36, Details: ToolDetails{Present: true, ItemID: 1, Count: 1, Uses: 0}},
		PlayerList{Name: "bot", Online: true, Ping: 50},
	}

	for _, msg := range cases {
		got := roundTrip(t, codec, msg)
		assert.Equal(t, msg, got)
	}
}

func TestCodecUnsupportedPacket(t *testing.T) {
	codec := NewCodec()
	b := NewBuffer()
	b.Append([]byte{0xFE}) // unused ID

	_, err := codec.Decode(b)
	var unsupported *UnsupportedPacketError
	require.ErrorAs(t, err, &unsupported)
	assert.Equal(t, PacketID(0xFE), unsupported.ID)
}

func TestCodecNeedsMoreOnTruncatedBody(t *testing.T) {
	codec := NewCodec()
	b := NewBuffer()
	// KeepAlive needs 4 body bytes after the ID; give it 2.
	b.Append([]byte{byte(PacketKeepAlive), 0x00, 0x00})

	_, err := codec.Decode(b)
	require.ErrorIs(t, err, ErrNeedMore)
}

func TestCodecStreamOfTwoPacketsSplitAcrossAppends(t *testing.T) {
	codec := NewCodec()
	a := KeepAlive{ID: 1}
	bMsg := KeepAlive{ID: 2}

	encA, err := codec.Encode(a)
	require.NoError(t, err)
	encB, err := codec.Encode(bMsg)
	require.NoError(t, err)

	all := append(append([]byte{}, encA...), encB...)

	buf := NewBuffer()
	// Split the combined stream across append calls at an arbitrary point
	// that does not line up with a packet boundary.
	split := 3
	buf.Append(all[:split])

	var decoded []Message
	for {
		msg, err := codec.Decode(buf)
		if err != nil {
			require.ErrorIs(t, err, ErrNeedMore)
			buf.Rewind()
			break
		}
		buf.Commit()
		decoded = append(decoded, msg)
	}

	buf.Append(all[split:])
	for {
		msg, err := codec.Decode(buf)
		if err != nil {
			require.ErrorIs(t, err, ErrNeedMore)
			buf.Rewind()
			break
		}
		buf.Commit()
		decoded = append(decoded, msg)
	}

	require.Len(t, decoded, 2)
	assert.Equal(t, a, decoded[0])
	assert.Equal(t, bMsg, decoded[1])
}
