package mcbot

import (
	"errors"
	"regexp"

	"github.com/k64z/mcbot/botproto"
	"github.com/k64z/mcbot/wire"
)

// chatEcho matches a self-echoed chat line: "<username> text" (spec.md §4.6).
var chatEcho = regexp.MustCompile(`^<([^>]+)> (.*)$`)

func (c *Client) onConnected(conn Connection, chunks <-chan []byte, errs <-chan error) {
	c.conn = conn
	c.state = stateHandshaking
	c.logger.Info("connected", "addr", conn.RemoteAddr())

	go c.pumpReads(chunks, errs)

	if err := c.send(wire.Handshake{UsernameOrHash: c.username}); err != nil {
		c.teardown(err)
	}
}

// send encodes and writes a wire message, tearing down the session on a
// write failure.
func (c *Client) send(msg wire.Message) error {
	data, err := c.codec.Encode(msg)
	if err != nil {
		return err
	}
	if err := c.conn.Write(data); err != nil {
		return err
	}
	return nil
}

// handleInbound appends new bytes and decodes every complete packet they
// make available, in strict arrival order, delivering every bot message
// derived from them before returning (spec.md §5).
func (c *Client) handleInbound(data []byte) {
	c.buf.Append(data)

	for {
		msg, err := c.codec.Decode(c.buf)
		if err != nil {
			if err == wire.ErrNeedMore {
				c.buf.Rewind()
				return
			}
			var unsupported *wire.UnsupportedPacketError
			if errors.As(err, &unsupported) {
				c.logger.Warn("unsupported packet", "id", unsupported.ID)
				// The codec could not frame this packet's body at all, so
				// there is no way to know where it ends; treat as fatal.
				c.teardown(err)
				return
			}
			c.logger.Error("decode error", "err", err)
			c.teardown(err)
			return
		}
		c.buf.Commit()
		c.handleMessage(msg)
	}
}

func (c *Client) handleMessage(msg wire.Message) {
	switch m := msg.(type) {
	case wire.Handshake:
		if c.state == stateHandshaking {
			c.state = stateLoggingIn
			if err := c.send(wire.Login{
				ProtocolVersion: 23,
				Username:        c.username,
			}); err != nil {
				c.teardown(err)
			}
		}

	case wire.Login:
		// Server's login reply is ignored (spec.md §4.4/§6.1).

	case wire.KeepAlive:
		if err := c.send(wire.KeepAlive{ID: 0}); err != nil {
			c.teardown(err)
		}

	case wire.UpdateTime:
		c.worldTime = m.Time

	case wire.SpawnPosition:
		c.spawn = botproto.Spawn{X: m.X, Y: m.Y, Z: m.Z}

	case wire.PlayerPositionLook:
		c.handlePositionLook(m)

	case wire.Chat:
		c.handleChat(m.Text)

	case wire.PlayerList:
		if m.Online {
			c.roster[m.Name] = m.Ping
		} else {
			delete(c.roster, m.Name)
		}

	case wire.PreChunk, wire.Chunk:
		// World state beyond spawn/roster is not modelled (spec.md §1 Non-goals).

	default:
		c.logger.Info("unhandled message", "type", m)
	}
}

func (c *Client) handlePositionLook(m wire.PlayerPositionLook) {
	incoming := botproto.Position{
		X: m.X, Y: m.Y, Z: m.Z,
		Stance: m.Stance, Yaw: m.Yaw, Pitch: m.Pitch,
		OnGround: m.OnGround,
	}

	if c.state == stateLoggingIn {
		c.current = incoming
		c.state = statePlaying
		c.sched.start()
		if !c.joined {
			c.joined = true
			if c.connectFuture != nil {
				c.resolveFuture(c.connectFuture.Tag(), c.connectFuture, completion{event: botproto.ServerJoined{}})
				c.connectFuture = nil
			}
			c.emit(botproto.ServerJoined{})
		}
		return
	}

	if incoming != c.current {
		c.current = incoming
		if c.moveFuture != nil {
			c.resolveFuture(c.movePendingTag, c.moveFuture, completion{
				event: botproto.PositionChanged{Position: c.current, Forced: true},
			})
			c.moveFuture = nil
		} else {
			c.emit(botproto.PositionChanged{Position: c.current, Forced: true})
		}
		c.moveTarget = nil
		// Forced-move interleaving: acknowledge the corrected position on
		// the very next heartbeat without waiting a full tick (spec.md §4.5).
		c.onTick()
	}
}

func (c *Client) handleChat(text string) {
	match := chatEcho.FindStringSubmatch(text)
	if match == nil {
		c.logger.Warn("unparseable chat line", "text", text)
		return
	}
	username, body := match[1], match[2]

	if username == c.username {
		if tags, ok := c.chatTags[body]; ok && len(tags) > 0 {
			tag := tags[0]
			fut := c.pendingChat[body][0]
			c.chatTags[body] = tags[1:]
			c.pendingChat[body] = c.pendingChat[body][1:]
			if len(c.chatTags[body]) == 0 {
				delete(c.chatTags, body)
				delete(c.pendingChat, body)
			}
			c.resolveFuture(tag, fut, completion{event: botproto.ChatMessage{Username: username, Text: body}})
			return
		}
	}

	c.emit(botproto.ChatMessage{Username: username, Text: body})
}
