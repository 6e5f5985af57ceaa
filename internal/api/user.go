package api

import (
	"context"

	"github.com/miwitv/fanclient/internal/model"
)

// Me resolves the current session. A 401 yields an *AuthError, which
// callers treat as "not signed in" rather than a failure notice.
func (c *Client) Me(ctx context.Context) (*model.User, error) {
	var user model.User
	if err := c.get(ctx, "/user/me", &user); err != nil {
		return nil, err
	}
	return &user, nil
}
