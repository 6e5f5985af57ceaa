package status

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/miwitv/fanclient/internal/model"
)

func TestBackoffCurve(t *testing.T) {
	want := []time.Duration{
		time.Second,
		2 * time.Second,
		4 * time.Second,
		8 * time.Second,
		16 * time.Second,
		30 * time.Second,
		30 * time.Second,
	}
	for attempt, expected := range want {
		if got := Backoff(attempt); got != expected {
			t.Fatalf("Backoff(%d) = %v, want %v", attempt, got, expected)
		}
	}
}

func TestSocketURL(t *testing.T) {
	cases := []struct {
		base  string
		login string
		want  string
	}{
		{"https://miwi.tv/api", "MiwiFan", "wss://miwi.tv/ws/miwifan"},
		{"http://localhost:8000", "dev", "ws://localhost:8000/ws/dev"},
	}
	for _, tc := range cases {
		got, err := SocketURL(tc.base, tc.login)
		if err != nil {
			t.Fatalf("SocketURL(%q): %v", tc.base, err)
		}
		if got != tc.want {
			t.Fatalf("SocketURL(%q) = %q, want %q", tc.base, got, tc.want)
		}
	}
}

func TestSocketURLRejectsHostlessBase(t *testing.T) {
	for _, base := range []string{"", "/api"} {
		if got, err := SocketURL(base, "miwifan"); err == nil {
			t.Fatalf("SocketURL(%q) = %q, want error", base, got)
		}
	}
}

// scriptedConn serves a fixed message sequence, then fails.
type scriptedConn struct {
	messages []model.StreamStatus
	pos      int
}

func (c *scriptedConn) ReadStatus(context.Context) (model.StreamStatus, error) {
	if c.pos >= len(c.messages) {
		return model.StreamStatus{}, errors.New("connection lost")
	}
	msg := c.messages[c.pos]
	c.pos++
	return msg, nil
}

func (c *scriptedConn) Close() error { return nil }

func collectUntilClosed(t *testing.T, ch *Channel) []Update {
	t.Helper()
	var updates []Update
	timeout := time.After(5 * time.Second)
	for {
		select {
		case u, ok := <-ch.Updates():
			if !ok {
				return updates
			}
			updates = append(updates, u)
		case <-timeout:
			t.Fatalf("channel did not terminate, got %+v", updates)
		}
	}
}

func TestGivesUpAfterAttemptCap(t *testing.T) {
	dials := 0
	dial := func(context.Context, string) (Conn, error) {
		dials++
		return nil, errors.New("verbindung verweigert")
	}

	var delays []time.Duration
	ch := NewChannelWithDialer("ws://example/ws/fan", dial)
	ch.SetSleep(func(_ context.Context, d time.Duration) error {
		delays = append(delays, d)
		return nil
	})
	ch.Start()

	updates := collectUntilClosed(t, ch)

	last := updates[len(updates)-1]
	if last.State != StateOffline {
		t.Fatalf("terminal state: got %v, want offline", last.State)
	}
	if dials != 6 {
		t.Fatalf("expected 6 dial attempts (initial + 5 retries), got %d", dials)
	}

	wantDelays := []time.Duration{
		time.Second, 2 * time.Second, 4 * time.Second, 8 * time.Second, 16 * time.Second,
	}
	if len(delays) != len(wantDelays) {
		t.Fatalf("delays: got %v", delays)
	}
	for i, d := range wantDelays {
		if delays[i] != d {
			t.Fatalf("delay %d: got %v, want %v", i, delays[i], d)
		}
	}

	reconnects := 0
	for _, u := range updates {
		if u.State == StateReconnecting {
			reconnects++
			if u.Attempt != reconnects {
				t.Fatalf("reconnect attempt numbering: got %d, want %d", u.Attempt, reconnects)
			}
		}
	}
	if reconnects != 5 {
		t.Fatalf("expected 5 reconnecting updates, got %d", reconnects)
	}
}

func TestSuccessfulDialResetsAttempts(t *testing.T) {
	dials := 0
	dial := func(context.Context, string) (Conn, error) {
		dials++
		switch dials {
		case 1:
			return nil, errors.New("erster versuch scheitert")
		case 2:
			return &scriptedConn{messages: []model.StreamStatus{{Status: "online"}}}, nil
		default:
			return nil, errors.New("danach offline")
		}
	}

	var delays []time.Duration
	ch := NewChannelWithDialer("ws://example/ws/fan", dial)
	ch.SetSleep(func(_ context.Context, d time.Duration) error {
		delays = append(delays, d)
		return nil
	})
	ch.Start()

	updates := collectUntilClosed(t, ch)

	var sawStatus bool
	for _, u := range updates {
		if u.Status != nil && u.Status.Status == "online" {
			sawStatus = true
		}
	}
	if !sawStatus {
		t.Fatalf("expected the online message to be delivered, got %+v", updates)
	}

	// After the successful connection the counter restarts, so the first
	// delay after the drop is 1s again.
	if len(delays) < 2 || delays[1] != time.Second {
		t.Fatalf("attempt counter must reset after a successful dial, delays %v", delays)
	}
}

func TestHeartbeatsAreDropped(t *testing.T) {
	dials := 0
	dial := func(context.Context, string) (Conn, error) {
		dials++
		if dials > 1 {
			return nil, errors.New("offline")
		}
		return &scriptedConn{messages: []model.StreamStatus{
			{Status: model.StatusHeartbeat},
			{Status: "online"},
			{Status: model.StatusHeartbeat},
		}}, nil
	}

	ch := NewChannelWithDialer("ws://example/ws/fan", dial)
	ch.SetSleep(func(context.Context, time.Duration) error { return nil })
	ch.Start()

	updates := collectUntilClosed(t, ch)

	delivered := 0
	for _, u := range updates {
		if u.Status != nil {
			delivered++
			if u.Status.IsHeartbeat() {
				t.Fatalf("heartbeat must not be delivered")
			}
		}
	}
	if delivered != 1 {
		t.Fatalf("expected exactly the one real status message, got %d", delivered)
	}
}

func TestCloseStopsReconnectLoop(t *testing.T) {
	dial := func(context.Context, string) (Conn, error) {
		return nil, errors.New("verbindung verweigert")
	}

	ch := NewChannelWithDialer("ws://example/ws/fan", dial)
	ch.SetSleep(func(ctx context.Context, _ time.Duration) error {
		<-ctx.Done()
		return ctx.Err()
	})
	ch.Start()
	ch.Close()

	// The loop must terminate without ever reaching Offline: Close is a
	// clean shutdown, not a failure.
	updates := collectUntilClosed(t, ch)
	for _, u := range updates {
		if u.State == StateOffline {
			t.Fatalf("Close must not produce the Offline state, got %+v", updates)
		}
	}
}
