package model

import "encoding/json"

// StatusHeartbeat is a keep-alive message on the status channel.
// It must never reach displayed state.
const StatusHeartbeat = "heartbeat"

// StreamStatus is an inbound message on the realtime status channel.
type StreamStatus struct {
	// Status is the stream state ("online", "offline", ...) or
	// StatusHeartbeat for keep-alives.
	Status string `json:"status"`

	// Data carries status-specific payload (stream title, game, ...).
	Data json.RawMessage `json:"data,omitempty"`
}

// IsHeartbeat reports whether the message is a keep-alive no-op.
func (s StreamStatus) IsHeartbeat() bool {
	return s.Status == StatusHeartbeat
}
