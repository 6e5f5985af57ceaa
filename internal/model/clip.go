package model

import "time"

// Clip is a single community clip as returned by the site API.
// Identity is immutable; Likes and ViewCount change only through
// server confirmation.
type Clip struct {
	// ID is the server-issued clip identifier.
	ID string `json:"id"`

	// CreatorName is the display name of the clip's creator.
	CreatorName string `json:"creator_name"`

	// ThumbnailURL points at the clip's preview image.
	ThumbnailURL string `json:"thumbnail_url"`

	// ViewCount is the number of views reported by the server.
	ViewCount int `json:"view_count"`

	// Likes is the number of likes reported by the server.
	Likes int `json:"likes"`

	// CreatedAt is when the clip was created on the server.
	CreatedAt time.Time `json:"created_at"`
}

// LikeResult is the server's response to a like request.
type LikeResult struct {
	ID    string `json:"id"`
	Likes int    `json:"likes"`
}
