// Package mcbot implements the protocol translator: it frames and parses
// the game's wire protocol, drives the handshake/login/playing session
// state machine, runs the fixed-tick movement engine, and dispatches bot
// requests to their asynchronous responses over correlation tags.
//
// Everything outside this package — user bot logic, CLI/config
// resolution, reconnection policy tuning — is a collaborator, not the
// core (spec.md §1).
package mcbot

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/k64z/mcbot/botproto"
	"github.com/k64z/mcbot/wire"
)

const (
	// DefaultTick is the fixed interval the movement engine runs at.
	DefaultTick = 50 * time.Millisecond
	// DefaultMaxMovePerTick is the velocity clamp, in world units/tick.
	DefaultMaxMovePerTick = 1.0
)

// sessionState is one of the states C4 drives the session through.
type sessionState int

const (
	stateDisconnected sessionState = iota
	stateConnecting
	stateHandshaking
	stateLoggingIn
	statePlaying
	stateClosing
)

// Client is the protocol translator: one instance per session (spec.md
// §1 — one translator, one session).
type Client struct {
	codec  *wire.Codec
	logger *slog.Logger
	dial   dialFunc
	tick   time.Duration
	maxMove float64

	// OnEvent delivers unsolicited bot events: chat from other players,
	// forced position corrections. Invoked synchronously from the loop
	// goroutine, mirroring the teacher's OnPacket/OnFriendMessage callback
	// fields.
	OnEvent func(botproto.Event)

	// OnDisconnect fires when the session ends, whether from a transport
	// error or a clean Close.
	OnDisconnect func(error)

	events chan loopEvent
	done   chan struct{}

	// --- loop-goroutine-owned state; never touched from any other goroutine ---
	state      sessionState
	username   string
	host       string
	port       int
	buf        *wire.Buffer
	conn       Connection

	current   botproto.Position
	spawn     botproto.Spawn
	worldTime int64
	roster    map[string]int16
	tool      botproto.ToolState

	moveTarget     *botproto.Position
	movePendingTag botproto.Tag
	moveFuture     *Future

	pendingChat map[string][]*Future
	chatTags    map[string][]botproto.Tag

	connectFuture *Future
	joined        bool

	cancelled map[botproto.Tag]bool

	sched *scheduler
}

// Option configures a Client at construction time.
type Option func(*Client)

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// WithTick overrides the fixed movement-engine tick interval.
func WithTick(d time.Duration) Option {
	return func(c *Client) { c.tick = d }
}

// WithMaxMovePerTick overrides the per-tick velocity clamp.
func WithMaxMovePerTick(units float64) Option {
	return func(c *Client) { c.maxMove = units }
}

// WithEventHandler sets the callback for unsolicited bot events.
func WithEventHandler(fn func(botproto.Event)) Option {
	return func(c *Client) { c.OnEvent = fn }
}

// WithDisconnectHandler sets the callback fired when the session ends.
func WithDisconnectHandler(fn func(error)) Option {
	return func(c *Client) { c.OnDisconnect = fn }
}

func withDialer(d dialFunc) Option {
	return func(c *Client) { c.dial = d }
}

// New constructs a Client and starts its event loop goroutine. Call
// Submit(Connect{...}) to begin a session.
func New(opts ...Option) *Client {
	c := &Client{
		codec:   wire.NewCodec(),
		logger:  slog.Default(),
		dial:    dialTCP,
		tick:    DefaultTick,
		maxMove: DefaultMaxMovePerTick,

		events: make(chan loopEvent, 128),
		done:   make(chan struct{}),

		state:       stateDisconnected,
		buf:         wire.NewBuffer(),
		tool:        botproto.ToolState{ItemID: -1},
		roster:      make(map[string]int16),
		pendingChat: make(map[string][]*Future),
		chatTags:    make(map[string][]botproto.Tag),
		cancelled:   make(map[botproto.Tag]bool),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.sched = newScheduler(c.tick, c.events)

	go c.loop()
	return c
}

// Submit posts a bot request to the translator and returns a Future for
// its eventual completion. Submit never blocks the caller on the loop's
// processing of the request (spec.md §5: completions are always deferred
// to a later loop turn, never delivered synchronously in Submit's frame).
// The one exception: once the loop has exited, Submit returns a Future
// already failed with ErrDisconnected.
func (c *Client) Submit(req botproto.Request) *Future {
	tag := botproto.NewTag()
	fut := newFuture(c, tag)
	select {
	case c.events <- reqEvent{tag: tag, req: req, fut: fut}:
	case <-c.done:
		fut.resolve(completion{err: botproto.ErrDisconnected})
	}
	return fut
}

// cancelTag marks tag's eventual completion to be discarded rather than
// delivered (spec.md §5). Safe to call from any goroutine.
func (c *Client) cancelTag(tag botproto.Tag) {
	select {
	case c.events <- cancelEvent{tag: tag}:
	case <-c.done:
	}
}

// Close tears down the session, failing all pending tags with
// ErrDisconnected.
func (c *Client) Close() {
	select {
	case c.events <- closeEvent{}:
	case <-c.done:
	}
	<-c.done
}

// loopEvent is the sum type of everything the single dedicated loop
// goroutine consumes, one per turn: bot requests, cancellations, inbound
// bytes, transport lifecycle, and tick timers. This is the Go-idiomatic
// reading of "single-threaded cooperative scheduling" (spec.md §5): no
// locks guard translator state, only this channel serializes access to it.
type loopEvent interface {
	isLoopEvent()
}

type reqEvent struct {
	tag botproto.Tag
	req botproto.Request
	fut *Future
}

func (reqEvent) isLoopEvent() {}

type cancelEvent struct {
	tag botproto.Tag
}

func (cancelEvent) isLoopEvent() {}

type closeEvent struct{}

func (closeEvent) isLoopEvent() {}

type connectedEvent struct {
	conn   Connection
	chunks <-chan []byte
	errs   <-chan error
}

func (connectedEvent) isLoopEvent() {}

type connectFailedEvent struct {
	err error
}

func (connectFailedEvent) isLoopEvent() {}

type inboundEvent struct {
	data []byte
}

func (inboundEvent) isLoopEvent() {}

type readErrorEvent struct {
	err error
}

func (readErrorEvent) isLoopEvent() {}

type tickEvent struct{}

func (tickEvent) isLoopEvent() {}

// loop is the single dedicated goroutine that owns all translator state.
func (c *Client) loop() {
	defer close(c.done)
	defer c.sched.stop()

	for ev := range c.events {
		switch e := ev.(type) {
		case reqEvent:
			c.handleRequest(e.tag, e.req, e.fut)
		case cancelEvent:
			c.cancelled[e.tag] = true
		case closeEvent:
			c.teardown(nil)
			return
		case connectedEvent:
			c.onConnected(e.conn, e.chunks, e.errs)
		case connectFailedEvent:
			c.failConnect(e.err)
			return
		case inboundEvent:
			c.handleInbound(e.data)
		case readErrorEvent:
			c.teardown(e.err)
			return
		case tickEvent:
			c.onTick()
		}
	}
}

// pumpReads forwards inbound chunks and the terminal read error from a
// transport's channels onto the loop's event channel, so the loop remains
// the sole consumer of translator state.
func (c *Client) pumpReads(chunks <-chan []byte, errs <-chan error) {
	for chunks != nil || errs != nil {
		select {
		case data, ok := <-chunks:
			if !ok {
				chunks = nil
				continue
			}
			select {
			case c.events <- inboundEvent{data: data}:
			case <-c.done:
				return
			}
		case err, ok := <-errs:
			if !ok {
				errs = nil
				continue
			}
			select {
			case c.events <- readErrorEvent{err: err}:
			case <-c.done:
			}
			return
		}
	}
}

func (c *Client) failConnect(err error) {
	c.logger.Error("connect failed", "err", err)
	if c.connectFuture != nil {
		c.connectFuture.resolve(completion{err: fmt.Errorf("%w: %v", botproto.ErrDisconnected, err)})
		c.connectFuture = nil
	}
}

// teardown fails every pending tag with ErrDisconnected and resets
// session state, matching the source's reconnect semantics: no tag
// survives a lost session (spec.md §9).
func (c *Client) teardown(err error) {
	c.state = stateDisconnected
	if c.conn != nil {
		c.conn.Close()
		c.conn = nil
	}
	c.sched.stop()

	if c.connectFuture != nil {
		c.connectFuture.resolve(completion{err: botproto.ErrDisconnected})
		c.connectFuture = nil
	}
	if c.moveFuture != nil {
		c.resolveFuture(c.movePendingTag, c.moveFuture, completion{err: botproto.ErrDisconnected})
		c.moveFuture = nil
		c.moveTarget = nil
	}
	for text, futs := range c.pendingChat {
		tags := c.chatTags[text]
		for i, fut := range futs {
			c.resolveFuture(tags[i], fut, completion{err: botproto.ErrDisconnected})
		}
	}
	c.pendingChat = make(map[string][]*Future)
	c.chatTags = make(map[string][]botproto.Tag)

	c.roster = make(map[string]int16)
	c.worldTime = 0
	c.spawn = botproto.Spawn{}
	c.current = botproto.Position{}
	c.tool = botproto.ToolState{ItemID: -1}
	c.joined = false

	if c.OnDisconnect != nil {
		c.OnDisconnect(err)
	}
}

// resolveFuture delivers a completion unless the tag was cancelled, in
// which case it is quietly discarded (spec.md §5).
func (c *Client) resolveFuture(tag botproto.Tag, fut *Future, comp completion) {
	if c.cancelled[tag] {
		delete(c.cancelled, tag)
		return
	}
	fut.resolve(comp)
}

func (c *Client) emit(ev botproto.Event) {
	if c.OnEvent != nil {
		c.OnEvent(ev)
	}
}
