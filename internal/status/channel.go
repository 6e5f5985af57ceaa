// Package status maintains the realtime stream-status channel. The
// connection lifecycle is an explicit state machine driven by a single
// state value:
//
//	Connecting → Open → Reconnecting(n) → Offline | Closed
//
// The reconnect delay is a pure function of the attempt count and the
// dialer and sleep are injectable, so the backoff curve and the attempt
// cap are testable without real sockets or timers.
package status

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	"github.com/miwitv/fanclient/internal/model"
)

// State is the connection state of the status channel.
type State int

const (
	// StateConnecting means a dial is in progress.
	StateConnecting State = iota

	// StateOpen means the socket is connected and reading.
	StateOpen

	// StateReconnecting means the channel is waiting out a backoff
	// delay before the next dial attempt.
	StateReconnecting

	// StateOffline is terminal: the attempt cap was reached and the
	// channel gave up.
	StateOffline

	// StateClosed is terminal: the owner closed the channel cleanly.
	StateClosed
)

// String returns the lowercase state name.
func (s State) String() string {
	switch s {
	case StateConnecting:
		return "connecting"
	case StateOpen:
		return "open"
	case StateReconnecting:
		return "reconnecting"
	case StateOffline:
		return "offline"
	case StateClosed:
		return "closed"
	}
	return "unknown"
}

// maxReconnectAttempts caps the reconnect loop before the channel
// reports terminal Offline.
const maxReconnectAttempts = 5

// Backoff returns the reconnect delay for the given attempt count:
// 1s, 2s, 4s, ... capped at 30s. Pure function, safe to test directly.
func Backoff(attempt int) time.Duration {
	delay := time.Second << uint(attempt)
	if delay > 30*time.Second || delay <= 0 {
		return 30 * time.Second
	}
	return delay
}

// Update is delivered for every state transition and every non
// heartbeat message.
type Update struct {
	// State is the channel state after the transition.
	State State

	// Attempt is the reconnect attempt count, meaningful in
	// StateReconnecting.
	Attempt int

	// Status carries the inbound message when State is StateOpen and a
	// message (not a heartbeat) arrived.
	Status *model.StreamStatus
}

// Conn is a minimal read-close view of a websocket connection.
type Conn interface {
	ReadStatus(ctx context.Context) (model.StreamStatus, error)
	Close() error
}

// Dialer opens a Conn to the given websocket URL.
type Dialer func(ctx context.Context, socketURL string) (Conn, error)

// Channel owns one status connection and its reconnect loop.
type Channel struct {
	socketURL string
	dial      Dialer
	sleep     func(ctx context.Context, d time.Duration) error

	mu      sync.Mutex
	cancel  context.CancelFunc
	started bool

	updates chan Update
}

// SocketURL derives the status channel URL ws(s)://<host>/ws/<login>
// from the API base URL. A https base yields wss.
func SocketURL(baseURL, userLogin string) (string, error) {
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return "", fmt.Errorf("parsing base url: %w", err)
	}
	if parsed.Host == "" {
		return "", fmt.Errorf("base url %q has no host", baseURL)
	}

	scheme := "ws"
	if parsed.Scheme == "https" {
		scheme = "wss"
	}
	return fmt.Sprintf("%s://%s/ws/%s", scheme, parsed.Host, strings.ToLower(userLogin)), nil
}

// NewChannel creates a status channel for the given socket URL using
// the real websocket dialer.
func NewChannel(socketURL string) *Channel {
	return NewChannelWithDialer(socketURL, dialWebsocket)
}

// NewChannelWithDialer creates a status channel with an injected
// dialer. Tests use this together with SetSleep.
func NewChannelWithDialer(socketURL string, dial Dialer) *Channel {
	return &Channel{
		socketURL: socketURL,
		dial:      dial,
		sleep:     sleepContext,
		updates:   make(chan Update, 16),
	}
}

// SetSleep injects the backoff wait used between reconnect attempts.
func (c *Channel) SetSleep(sleep func(ctx context.Context, d time.Duration) error) {
	c.sleep = sleep
}

// Updates returns the channel on which state transitions and messages
// are delivered. It is closed when the loop terminates.
func (c *Channel) Updates() <-chan Update {
	return c.updates
}

// Start launches the connection loop. Calling Start twice is a no-op.
func (c *Channel) Start() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.started {
		return
	}
	c.started = true

	ctx, cancel := context.WithCancel(context.Background())
	c.cancel = cancel
	go c.run(ctx)
}

// Close tears the channel down cleanly: the socket is closed, any
// pending backoff timer is cancelled, and no reconnect follows.
func (c *Channel) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
}

// run drives the state machine until a terminal state is reached.
func (c *Channel) run(ctx context.Context) {
	defer close(c.updates)

	attempts := 0
	for {
		c.emit(ctx, Update{State: StateConnecting, Attempt: attempts})

		conn, err := c.dial(ctx, c.socketURL)
		if err != nil {
			if ctx.Err() != nil {
				c.emit(ctx, Update{State: StateClosed})
				return
			}
			if !c.backoff(ctx, &attempts) {
				return
			}
			continue
		}

		// Successful connection resets the attempt counter.
		attempts = 0
		c.emit(ctx, Update{State: StateOpen})

		err = c.readLoop(ctx, conn)
		conn.Close()

		if ctx.Err() != nil {
			c.emit(ctx, Update{State: StateClosed})
			return
		}
		_ = err
		if !c.backoff(ctx, &attempts) {
			return
		}
	}
}

// readLoop delivers inbound messages until the connection fails or the
// context is cancelled. Heartbeats are dropped without touching
// displayed state.
func (c *Channel) readLoop(ctx context.Context, conn Conn) error {
	for {
		status, err := conn.ReadStatus(ctx)
		if err != nil {
			return err
		}
		if status.IsHeartbeat() {
			continue
		}
		c.emit(ctx, Update{State: StateOpen, Status: &status})
	}
}

// backoff waits out the reconnect delay for the current attempt.
// It reports false when the loop must stop, either because the attempt
// cap was reached (terminal Offline) or the context was cancelled.
func (c *Channel) backoff(ctx context.Context, attempts *int) bool {
	if *attempts >= maxReconnectAttempts {
		c.emit(ctx, Update{State: StateOffline, Attempt: *attempts})
		return false
	}

	delay := Backoff(*attempts)
	*attempts++
	c.emit(ctx, Update{State: StateReconnecting, Attempt: *attempts})

	if err := c.sleep(ctx, delay); err != nil {
		c.emit(ctx, Update{State: StateClosed})
		return false
	}
	return true
}

// emit delivers an update unless the owner is gone.
func (c *Channel) emit(ctx context.Context, u Update) {
	select {
	case c.updates <- u:
	case <-ctx.Done():
	}
}

// sleepContext waits for d or until ctx is cancelled.
func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// wsConn adapts a coder/websocket connection to the Conn interface.
type wsConn struct {
	conn *websocket.Conn
}

func (w *wsConn) ReadStatus(ctx context.Context) (model.StreamStatus, error) {
	var status model.StreamStatus
	if err := wsjson.Read(ctx, w.conn, &status); err != nil {
		return model.StreamStatus{}, fmt.Errorf("reading status message: %w", err)
	}
	return status, nil
}

func (w *wsConn) Close() error {
	return w.conn.Close(websocket.StatusNormalClosure, "")
}

// dialWebsocket is the production dialer.
func dialWebsocket(ctx context.Context, socketURL string) (Conn, error) {
	conn, _, err := websocket.Dial(ctx, socketURL, nil)
	if err != nil {
		return nil, fmt.Errorf("dialing %s: %w", socketURL, err)
	}
	return &wsConn{conn: conn}, nil
}
