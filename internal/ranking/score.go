// Package ranking computes the popularity ordering of the clip feed.
// All functions are pure; callers pass the reference time so scoring
// stays deterministic under test.
package ranking

import (
	"sort"
	"time"

	"github.com/miwitv/fanclient/internal/model"
)

// Scoring weights. Views dominate, likes follow, and the freshness
// offset keeps brand-new clips from dividing by zero.
const (
	viewWeight      = 0.5
	likeWeight      = 0.4
	freshnessOffset = 0.1
)

// Score returns the recency-weighted popularity of a clip:
//
//	(views*0.5 + likes*0.4) / (ageInDays + 0.1)
//
// It is monotonically increasing in views and likes and decreasing in
// age.
func Score(clip model.Clip, now time.Time) float64 {
	ageDays := now.Sub(clip.CreatedAt).Hours() / 24
	return (float64(clip.ViewCount)*viewWeight + float64(clip.Likes)*likeWeight) /
		(ageDays + freshnessOffset)
}

// WorkingSet filters clips down to the feed-eligible subset: everything
// fetched minus already-liked minus already-seen, preserving fetch
// order.
func WorkingSet(clips []model.Clip, liked []model.Clip, seen map[string]bool) []model.Clip {
	likedIDs := make(map[string]bool, len(liked))
	for _, clip := range liked {
		likedIDs[clip.ID] = true
	}

	eligible := make([]model.Clip, 0, len(clips))
	for _, clip := range clips {
		if likedIDs[clip.ID] || seen[clip.ID] {
			continue
		}
		eligible = append(eligible, clip)
	}
	return eligible
}

// SortTrending orders clips by descending popularity score. The sort is
// stable, so equal scores keep their original fetch order.
func SortTrending(clips []model.Clip, now time.Time) []model.Clip {
	sorted := make([]model.Clip, len(clips))
	copy(sorted, clips)
	sort.SliceStable(sorted, func(i, j int) bool {
		return Score(sorted[i], now) > Score(sorted[j], now)
	})
	return sorted
}

// SortBest orders clips by descending raw like count. The sort is
// stable, so ties keep their original fetch order.
func SortBest(clips []model.Clip) []model.Clip {
	sorted := make([]model.Clip, len(clips))
	copy(sorted, clips)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Likes > sorted[j].Likes
	})
	return sorted
}
