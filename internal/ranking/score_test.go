package ranking

import (
	"math"
	"testing"
	"time"

	"github.com/miwitv/fanclient/internal/model"
)

func TestScoreWeighsViewsOverLikes(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	created := now // age 0 → divisor is the freshness offset

	a := model.Clip{ID: "a", ViewCount: 100, Likes: 10, CreatedAt: created}
	b := model.Clip{ID: "b", ViewCount: 10, Likes: 100, CreatedAt: created}

	// a: (100*0.5 + 10*0.4) / 0.1 = 540, b: (10*0.5 + 100*0.4) / 0.1 = 450
	if got := Score(a, now); math.Abs(got-540) > 1e-9 {
		t.Fatalf("Score(a) = %v, want 540", got)
	}
	if got := Score(b, now); math.Abs(got-450) > 1e-9 {
		t.Fatalf("Score(b) = %v, want 450", got)
	}
}

func TestScoreDecaysWithAge(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	fresh := model.Clip{ViewCount: 100, Likes: 10, CreatedAt: now.Add(-24 * time.Hour)}
	stale := model.Clip{ViewCount: 100, Likes: 10, CreatedAt: now.Add(-10 * 24 * time.Hour)}

	if Score(fresh, now) <= Score(stale, now) {
		t.Fatalf("fresh clip must outscore identical stale clip")
	}
}

func TestSortTrendingStableOnTies(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	created := now.Add(-24 * time.Hour)

	clips := []model.Clip{
		{ID: "first", ViewCount: 50, Likes: 10, CreatedAt: created},
		{ID: "second", ViewCount: 50, Likes: 10, CreatedAt: created},
		{ID: "top", ViewCount: 500, Likes: 10, CreatedAt: created},
	}

	sorted := SortTrending(clips, now)
	if sorted[0].ID != "top" {
		t.Fatalf("expected top clip first, got %s", sorted[0].ID)
	}
	if sorted[1].ID != "first" || sorted[2].ID != "second" {
		t.Fatalf("tied clips must keep fetch order, got %s, %s", sorted[1].ID, sorted[2].ID)
	}
	// Input must not be reordered.
	if clips[0].ID != "first" {
		t.Fatalf("SortTrending mutated its input")
	}
}

func TestSortTrendingNumericFixture(t *testing.T) {
	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	dayOld := now.Add(-24 * time.Hour)

	// a: (100*0.5 + 10*0.4)/1.1 ≈ 49.1, b: (40*0.5 + 12*0.4)/1.1 ≈ 22.5
	a := model.Clip{ID: "a", ViewCount: 100, Likes: 10, CreatedAt: dayOld}
	b := model.Clip{ID: "b", ViewCount: 40, Likes: 12, CreatedAt: dayOld}

	if Score(a, now) <= Score(b, now) {
		t.Fatalf("Score(a)=%v must exceed Score(b)=%v", Score(a, now), Score(b, now))
	}

	sorted := SortTrending([]model.Clip{b, a}, now)
	if sorted[0].ID != "a" {
		t.Fatalf("expected a first, got %s", sorted[0].ID)
	}
}

func TestSortBestByRawLikes(t *testing.T) {
	clips := []model.Clip{
		{ID: "mid", Likes: 10},
		{ID: "top", Likes: 99},
		{ID: "low", Likes: 1},
	}

	sorted := SortBest(clips)
	want := []string{"top", "mid", "low"}
	for i, id := range want {
		if sorted[i].ID != id {
			t.Fatalf("position %d: got %s, want %s", i, sorted[i].ID, id)
		}
	}
}

func TestWorkingSetExcludesLikedAndSeen(t *testing.T) {
	clips := []model.Clip{
		{ID: "keep-1"},
		{ID: "liked"},
		{ID: "seen"},
		{ID: "keep-2"},
	}
	liked := []model.Clip{{ID: "liked"}}
	seen := map[string]bool{"seen": true}

	got := WorkingSet(clips, liked, seen)
	if len(got) != 2 {
		t.Fatalf("expected 2 eligible clips, got %d", len(got))
	}
	if got[0].ID != "keep-1" || got[1].ID != "keep-2" {
		t.Fatalf("working set must preserve fetch order, got %s, %s", got[0].ID, got[1].ID)
	}
}
