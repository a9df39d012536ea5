package mcbot

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/k64z/mcbot/botproto"
	"github.com/k64z/mcbot/wire"
)

// fakeServer is a minimal in-test peer: it reads and writes raw wire
// packets over a net.Pipe, so scenario tests drive the real Client
// against scripted server behavior without a network socket.
type fakeServer struct {
	t     *testing.T
	conn  net.Conn
	codec *wire.Codec
	buf   *wire.Buffer
}

func newFakeServer(t *testing.T, conn net.Conn) *fakeServer {
	return &fakeServer{t: t, conn: conn, codec: wire.NewCodec(), buf: wire.NewBuffer()}
}

func (s *fakeServer) readMessage() wire.Message {
	s.t.Helper()
	for {
		msg, err := s.codec.Decode(s.buf)
		if err == nil {
			s.buf.Commit()
			return msg
		}
		if err != wire.ErrNeedMore {
			s.t.Fatalf("fakeServer decode: %v", err)
		}
		s.buf.Rewind()

		chunk := make([]byte, 4096)
		n, rerr := s.conn.Read(chunk)
		if rerr != nil {
			s.t.Fatalf("fakeServer read: %v", rerr)
		}
		s.buf.Append(chunk[:n])
	}
}

func (s *fakeServer) send(msg wire.Message) {
	s.t.Helper()
	data, err := s.codec.Encode(msg)
	if err != nil {
		s.t.Fatalf("fakeServer encode: %v", err)
	}
	if _, err := s.conn.Write(data); err != nil {
		s.t.Fatalf("fakeServer write: %v", err)
	}
}

// newTestDialer returns a dialFunc that pipes the Client straight to an
// in-process net.Pipe instead of a real socket, plus a channel delivering
// the server-side net.Conn for each dial.
func newTestDialer() (dialFunc, <-chan net.Conn) {
	conns := make(chan net.Conn, 4)
	d := func(ctx context.Context, host string, port int) (Connection, <-chan []byte, <-chan error, error) {
		server, client := net.Pipe()
		conns <- server

		tc := &tcpConn{conn: client, addr: "test"}
		chunks := make(chan []byte, 64)
		errs := make(chan error, 1)
		go tc.readPump(chunks, errs)
		return tc, chunks, errs, nil
	}
	return d, conns
}

func connectAndPlay(t *testing.T) (*Client, *fakeServer) {
	t.Helper()
	dial, conns := newTestDialer()
	client := New(withDialer(dial), WithTick(10*time.Millisecond))
	t.Cleanup(client.Close)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	fut := client.Submit(botproto.Connect{Username: "alice", Host: "test", Port: 1})

	serverConn := <-conns
	srv := newFakeServer(t, serverConn)
	t.Cleanup(func() { serverConn.Close() })

	hs := srv.readMessage()
	if _, ok := hs.(wire.Handshake); !ok {
		t.Fatalf("expected Handshake, got %T", hs)
	}
	srv.send(wire.Handshake{UsernameOrHash: "-"})

	login := srv.readMessage()
	if lg, ok := login.(wire.Login); !ok || lg.Username != "alice" {
		t.Fatalf("expected Login for alice, got %#v", login)
	}
	srv.send(wire.Login{ProtocolVersion: 23})

	srv.send(wire.PlayerPositionLook{X: 0, Y: 64, Stance: 65.6, Z: 0, OnGround: true})

	ev, err := fut.Wait(ctx)
	if err != nil {
		t.Fatalf("connect future: %v", err)
	}
	if _, ok := ev.(botproto.ServerJoined); !ok {
		t.Fatalf("expected ServerJoined, got %#v", ev)
	}

	return client, srv
}

func TestConnectReachesPlaying(t *testing.T) {
	connectAndPlay(t)
}

func TestKeepAliveIsEchoed(t *testing.T) {
	_, srv := connectAndPlay(t)

	srv.send(wire.KeepAlive{ID: 99})

	// The movement heartbeat also sends PlayerPositionLook packets, so
	// skip those while looking for the KeepAlive echo.
	for {
		msg := srv.readMessage()
		if ka, ok := msg.(wire.KeepAlive); ok {
			if ka.ID != 0 {
				t.Errorf("expected echoed KeepAlive ID 0, got %d", ka.ID)
			}
			return
		}
	}
}

func TestMoveArrives(t *testing.T) {
	client, _ := connectAndPlay(t)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	target := botproto.Position{X: 0.02, Y: 64, Z: 0, Yaw: 90, Pitch: -15, Stance: 65.6, OnGround: true}
	fut := client.Submit(botproto.Move{Target: target})

	ev, err := fut.Wait(ctx)
	if err != nil {
		t.Fatalf("move future: %v", err)
	}
	pc, ok := ev.(botproto.PositionChanged)
	if !ok {
		t.Fatalf("expected PositionChanged, got %#v", ev)
	}
	if pc.Forced {
		t.Errorf("expected an unforced arrival")
	}
	if pc.Position.X != target.X || pc.Position.Z != target.Z {
		t.Errorf("expected arrival at %+v, got %+v", target, pc.Position)
	}
	if pc.Position.Yaw != target.Yaw || pc.Position.Pitch != target.Pitch {
		t.Errorf("expected rotation adopted verbatim, got yaw=%v pitch=%v, want yaw=%v pitch=%v",
			pc.Position.Yaw, pc.Position.Pitch, target.Yaw, target.Pitch)
	}
}

func TestMoveAdoptsRotationOnFirstTick(t *testing.T) {
	client, srv := connectAndPlay(t)

	// A distant target so the move has not arrived yet, isolating the
	// "rotation adopted every tick, not only on arrival" behavior.
	target := botproto.Position{X: 1000, Y: 64, Z: 0, Yaw: 45, Pitch: 10, Stance: 65.6, OnGround: true}
	client.Submit(botproto.Move{Target: target})

	for {
		msg := srv.readMessage()
		look, ok := msg.(wire.PlayerPositionLook)
		if !ok {
			continue
		}
		if look.Yaw != target.Yaw || look.Pitch != target.Pitch {
			t.Errorf("expected in-flight heartbeat to report yaw=%v pitch=%v, got yaw=%v pitch=%v",
				target.Yaw, target.Pitch, look.Yaw, look.Pitch)
		}
		return
	}
}

func TestMoveSupersededByLaterMove(t *testing.T) {
	client, _ := connectAndPlay(t)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	far := botproto.Position{X: 1000, Y: 64, Z: 0, Stance: 65.6, OnGround: true}
	first := client.Submit(botproto.Move{Target: far})

	near := botproto.Position{X: 0.01, Y: 64, Z: 0, Stance: 65.6, OnGround: true}
	second := client.Submit(botproto.Move{Target: near})

	_, err := first.Wait(ctx)
	if err == nil {
		t.Fatalf("expected first Move to be cancelled")
	}

	if _, err := second.Wait(ctx); err != nil {
		t.Fatalf("second move future: %v", err)
	}
}

func TestForcedCorrectionPreemptsMove(t *testing.T) {
	client, srv := connectAndPlay(t)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	target := botproto.Position{X: 1000, Y: 64, Z: 0, Stance: 65.6, OnGround: true}
	fut := client.Submit(botproto.Move{Target: target})

	srv.send(wire.PlayerPositionLook{X: 5, Y: 64, Stance: 65.6, Z: 5, OnGround: true})

	ev, err := fut.Wait(ctx)
	if err != nil {
		t.Fatalf("move future: %v", err)
	}
	pc, ok := ev.(botproto.PositionChanged)
	if !ok || !pc.Forced {
		t.Fatalf("expected a forced PositionChanged, got %#v", ev)
	}
}

func TestChatSelfEchoResolvesFuture(t *testing.T) {
	client, srv := connectAndPlay(t)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	fut := client.Submit(botproto.Say{Text: "hello"})

	for {
		msg := srv.readMessage()
		if chat, ok := msg.(wire.Chat); ok && chat.Text == "hello" {
			break
		}
	}
	srv.send(wire.Chat{Text: "<alice> hello"})

	ev, err := fut.Wait(ctx)
	if err != nil {
		t.Fatalf("say future: %v", err)
	}
	if _, ok := ev.(botproto.ChatMessage); !ok {
		t.Fatalf("expected ChatMessage, got %#v", ev)
	}
}

func TestSetBlockSendsDigAboveThenPlace(t *testing.T) {
	client, srv := connectAndPlay(t)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	fut := client.Submit(botproto.SetBlock{X: 10, Y: 64, Z: -3})

	var digs []wire.PlayerBlockDig
	var place wire.PlayerBlockPlace
	for len(digs) < 2 {
		msg := srv.readMessage()
		if dig, ok := msg.(wire.PlayerBlockDig); ok {
			digs = append(digs, dig)
		}
	}
	for {
		msg := srv.readMessage()
		if p, ok := msg.(wire.PlayerBlockPlace); ok {
			place = p
			break
		}
	}

	if digs[0].Status != 0 || digs[1].Status != 2 {
		t.Fatalf("expected dig statuses [0 2], got [%d %d]", digs[0].Status, digs[1].Status)
	}
	for i, dig := range digs {
		if dig.Y != 65 {
			t.Errorf("dig %d: expected Y=65 (block above placement target), got %d", i, dig.Y)
		}
		if dig.X != 10 || dig.Z != -3 {
			t.Errorf("dig %d: expected X=10,Z=-3, got X=%d,Z=%d", i, dig.X, dig.Z)
		}
	}
	if place.Y != 64 {
		t.Errorf("place: expected Y=64 (the placement target itself), got %d", place.Y)
	}

	if _, err := fut.Wait(ctx); err != nil {
		t.Fatalf("setblock future: %v", err)
	}
}

func TestDisconnectFailsPendingTags(t *testing.T) {
	client, srv := connectAndPlay(t)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	fut := client.Submit(botproto.Say{Text: "pending"})

	// Wait for the write to land, then sever the session from the server
	// side so teardown runs on the next read error.
	for {
		msg := srv.readMessage()
		if chat, ok := msg.(wire.Chat); ok && chat.Text == "pending" {
			break
		}
	}

	done := make(chan struct{})
	go func() {
		// Drain the movement heartbeat writes until the pipe closes.
		for {
			buf := make([]byte, 4096)
			if _, err := srv.conn.Read(buf); err != nil {
				close(done)
				return
			}
		}
	}()
	srv.conn.Close()
	<-done

	_, err := fut.Wait(ctx)
	if err == nil {
		t.Fatalf("expected pending Say to fail after disconnect")
	}
}
