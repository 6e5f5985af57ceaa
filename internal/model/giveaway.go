package model

import "time"

// Giveaway state values as delivered by the API.
const (
	GiveawayRunning = "running"
	GiveawayEnded   = "ended"
)

// GiveawayWinner names a drawn winner of a giveaway.
type GiveawayWinner struct {
	Username string `json:"username"`
}

// Giveaway is a single archived or running giveaway.
type Giveaway struct {
	// Title is the giveaway headline.
	Title string `json:"title"`

	// Description is the optional body text.
	Description string `json:"description"`

	// Preview is an optional preview image URL.
	Preview string `json:"preview,omitempty"`

	// SubscriberOnly restricts participation to subscribers.
	SubscriberOnly bool `json:"subscriberOnly"`

	// MaxTickets caps the number of tickets per giveaway.
	MaxTickets int `json:"maxTickets"`

	// State is either "running" or "ended".
	State string `json:"state"`

	// StartedAt is when the giveaway opened.
	StartedAt time.Time `json:"startedAt"`

	// Winners lists drawn winners, empty while running.
	Winners []GiveawayWinner `json:"winners"`
}
