package api

import (
	"context"
	"sort"

	"github.com/miwitv/fanclient/internal/model"
)

// giveawayList matches the /giveaways envelope.
type giveawayList struct {
	Giveaways []model.Giveaway `json:"giveaways"`
}

// Giveaways fetches the giveaway archive, newest first.
func (c *Client) Giveaways(ctx context.Context) ([]model.Giveaway, error) {
	var list giveawayList
	if err := c.get(ctx, "/giveaways", &list); err != nil {
		return nil, err
	}
	sort.SliceStable(list.Giveaways, func(i, j int) bool {
		return list.Giveaways[i].StartedAt.After(list.Giveaways[j].StartedAt)
	})
	return list.Giveaways, nil
}
