package store

import (
	"context"

	"github.com/miwitv/fanclient/internal/model"
)

// UI state keys persisted across sessions.
const (
	StateCurrentClipIndex = "shorts_currentClipIndex"
	StateActiveTab        = "shorts_activeTab"
)

// Store defines the local persistence interface for the seen-clip set,
// per-session UI state, and the notification log.
type Store interface {
	// === Seen clips ===

	// MarkSeen records that the viewer advanced past a clip. The set
	// only ever grows.
	MarkSeen(ctx context.Context, clipID string) error

	// SeenClips returns the full set of seen clip ids.
	SeenClips(ctx context.Context) (map[string]bool, error)

	// === UI state ===

	// SetUIState stores a UI state value under key.
	SetUIState(ctx context.Context, key, value string) error

	// GetUIState returns the value under key, or fallback when the key
	// is missing or unreadable.
	GetUIState(ctx context.Context, key, fallback string) string

	// === Notifications ===

	CreateNotification(ctx context.Context, n model.Notification) error
	GetUnreadNotifications(ctx context.Context) ([]model.Notification, error)
	MarkNotificationRead(ctx context.Context, id string) error
}
