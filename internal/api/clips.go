package api

import (
	"context"
	"net/http"

	"github.com/miwitv/fanclient/internal/model"
)

// Clips fetches the full clip collection. On failure the returned
// slice is empty and usable as a fallback.
func (c *Client) Clips(ctx context.Context) ([]model.Clip, error) {
	var clips []model.Clip
	if err := c.get(ctx, "/clip/all", &clips); err != nil {
		return nil, err
	}
	return clips, nil
}

// LikedClips fetches the caller's liked clips. Requires a session.
func (c *Client) LikedClips(ctx context.Context) ([]model.Clip, error) {
	var clips []model.Clip
	if err := c.get(ctx, "/clip/my_liked_clips", &clips); err != nil {
		return nil, err
	}
	return clips, nil
}

// Like registers a like for the given clip and returns the server's
// confirmed like count. Requires a session. Duplicate-like validation
// happens in the feed service before this call is made.
func (c *Client) Like(ctx context.Context, clipID string) (model.LikeResult, error) {
	var result model.LikeResult
	err := c.do(ctx, http.MethodPost, "/clip/like/"+clipID, nil, &result)
	if err != nil {
		return model.LikeResult{ID: clipID}, err
	}
	return result, nil
}
