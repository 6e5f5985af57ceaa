package feed

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/miwitv/fanclient/internal/cache"
	"github.com/miwitv/fanclient/internal/model"
	"github.com/miwitv/fanclient/tests/testutil"
)

// fakeGateway counts calls and serves canned collections.
type fakeGateway struct {
	clips      []model.Clip
	liked      []model.Clip
	likeResult model.LikeResult
	likeErr    error
	likeCalls  int
}

func (g *fakeGateway) Clips(context.Context) ([]model.Clip, error) {
	out := make([]model.Clip, len(g.clips))
	copy(out, g.clips)
	return out, nil
}

func (g *fakeGateway) LikedClips(context.Context) ([]model.Clip, error) {
	out := make([]model.Clip, len(g.liked))
	copy(out, g.liked)
	return out, nil
}

func (g *fakeGateway) Like(_ context.Context, clipID string) (model.LikeResult, error) {
	g.likeCalls++
	if g.likeErr != nil {
		return model.LikeResult{}, g.likeErr
	}
	if g.likeResult.ID == "" {
		return model.LikeResult{ID: clipID, Likes: 1}, nil
	}
	return g.likeResult, nil
}

func fixedNow() time.Time {
	return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
}

func testClips() []model.Clip {
	created := fixedNow().Add(-24 * time.Hour)
	return []model.Clip{
		{ID: "c1", CreatorName: "anna", ViewCount: 500, Likes: 5, CreatedAt: created},
		{ID: "c2", CreatorName: "ben", ViewCount: 100, Likes: 50, CreatedAt: created},
		{ID: "c3", CreatorName: "cleo", ViewCount: 10, Likes: 1, CreatedAt: created},
	}
}

func newTestService(t *testing.T, gw *fakeGateway) *Service {
	t.Helper()
	s := NewService(gw, cache.New(), testutil.NewTestStore(t))
	s.SetNow(fixedNow)
	return s
}

func TestLoadDerivesOrderings(t *testing.T) {
	gw := &fakeGateway{clips: testClips()}
	s := newTestService(t, gw)

	if err := s.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}

	trending := s.Ordered(TabTrending)
	if len(trending) != 3 || trending[0].ID != "c1" {
		t.Fatalf("trending: got %+v, want c1 first", trending)
	}
	best := s.Ordered(TabBest)
	if best[0].ID != "c2" {
		t.Fatalf("best must order by raw likes, got %s first", best[0].ID)
	}
}

func TestLikeRequiresSession(t *testing.T) {
	gw := &fakeGateway{clips: testClips()}
	s := newTestService(t, gw)
	if err := s.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}

	err := s.Like(context.Background(), "c1")
	if !errors.Is(err, ErrNotAuthenticated) {
		t.Fatalf("expected ErrNotAuthenticated, got %v", err)
	}
	if gw.likeCalls != 0 {
		t.Fatalf("unauthenticated like must not reach the gateway")
	}
}

func TestLikeMovesClipToLikedSet(t *testing.T) {
	gw := &fakeGateway{clips: testClips(), likeResult: model.LikeResult{ID: "c2", Likes: 51}}
	s := newTestService(t, gw)
	s.SetAuthenticated(true)
	if err := s.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}

	if err := s.Like(context.Background(), "c2"); err != nil {
		t.Fatalf("Like: %v", err)
	}

	for _, clip := range s.Ordered(TabTrending) {
		if clip.ID == "c2" {
			t.Fatalf("liked clip must leave the working set")
		}
	}
	liked := s.Liked()
	if len(liked) != 1 || liked[0].ID != "c2" {
		t.Fatalf("liked set: got %+v", liked)
	}
	if liked[0].Likes != 51 {
		t.Fatalf("confirmed like must carry the server count, got %d", liked[0].Likes)
	}
}

func TestLikeDuplicateRejectedWithoutNetwork(t *testing.T) {
	clips := testClips()
	gw := &fakeGateway{clips: clips, liked: []model.Clip{clips[1]}}
	s := newTestService(t, gw)
	s.SetAuthenticated(true)
	if err := s.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}

	err := s.Like(context.Background(), "c2")
	if !errors.Is(err, ErrAlreadyLiked) {
		t.Fatalf("expected ErrAlreadyLiked, got %v", err)
	}
	if !strings.Contains(err.Error(), "bereits geliked") {
		t.Fatalf("duplicate message must mention bereits geliked, got %q", err)
	}
	if gw.likeCalls != 0 {
		t.Fatalf("duplicate like must not reach the gateway, got %d calls", gw.likeCalls)
	}
}

func TestLikeRejectionRestoresPositions(t *testing.T) {
	gw := &fakeGateway{clips: testClips(), likeErr: errors.New("serverfehler")}
	s := newTestService(t, gw)
	s.SetAuthenticated(true)
	if err := s.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}

	before := s.Ordered(TabTrending)

	if err := s.Like(context.Background(), "c2"); err == nil {
		t.Fatalf("expected the gateway error to propagate")
	}

	after := s.Ordered(TabTrending)
	if len(after) != len(before) {
		t.Fatalf("rejected like must restore the working set, got %d clips", len(after))
	}
	for i := range before {
		if after[i].ID != before[i].ID {
			t.Fatalf("position %d: got %s, want %s", i, after[i].ID, before[i].ID)
		}
	}
	if len(s.Liked()) != 0 {
		t.Fatalf("rejected like must leave the liked set empty")
	}
}

func TestAdvanceMarksSeenDurably(t *testing.T) {
	gw := &fakeGateway{clips: testClips()}
	st := testutil.NewTestStore(t)
	s := NewService(gw, cache.New(), st)
	s.SetNow(fixedNow)
	if err := s.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}

	first, _ := s.Current()
	s.Advance(context.Background())

	for _, clip := range s.Ordered(TabTrending) {
		if clip.ID == first.ID {
			t.Fatalf("advanced-past clip must leave the working set")
		}
	}

	seen, err := st.SeenClips(context.Background())
	if err != nil {
		t.Fatalf("SeenClips: %v", err)
	}
	if !seen[first.ID] {
		t.Fatalf("advance must persist %s as seen", first.ID)
	}

	// A fresh load over the same store keeps the clip hidden.
	s2 := NewService(gw, cache.New(), st)
	s2.SetNow(fixedNow)
	if err := s2.Load(context.Background()); err != nil {
		t.Fatalf("second Load: %v", err)
	}
	for _, clip := range s2.Ordered(TabTrending) {
		if clip.ID == first.ID {
			t.Fatalf("seen clip must stay hidden after reload")
		}
	}
}

func TestBackNeverMarksSeen(t *testing.T) {
	gw := &fakeGateway{clips: testClips()}
	st := testutil.NewTestStore(t)
	s := NewService(gw, cache.New(), st)
	s.SetNow(fixedNow)
	if err := s.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}

	s.Back(context.Background())
	if s.CurrentIndex() != 0 {
		t.Fatalf("Back at the start must clamp to 0, got %d", s.CurrentIndex())
	}

	seen, err := st.SeenClips(context.Background())
	if err != nil {
		t.Fatalf("SeenClips: %v", err)
	}
	if len(seen) != 0 {
		t.Fatalf("Back must not mark anything seen, got %v", seen)
	}
}

func TestTabSwitchPersistsAndResetsIndex(t *testing.T) {
	gw := &fakeGateway{clips: testClips()}
	st := testutil.NewTestStore(t)
	s := NewService(gw, cache.New(), st)
	s.SetNow(fixedNow)
	if err := s.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}

	s.Advance(context.Background())
	s.SetActiveTab(context.Background(), TabBest)

	if s.ActiveTab() != TabBest {
		t.Fatalf("active tab: got %s", s.ActiveTab())
	}
	if s.CurrentIndex() != 0 {
		t.Fatalf("tab switch must reset the index, got %d", s.CurrentIndex())
	}

	// A fresh service over the same store restores the tab.
	s2 := NewService(gw, cache.New(), st)
	s2.SetNow(fixedNow)
	if err := s2.Load(context.Background()); err != nil {
		t.Fatalf("second Load: %v", err)
	}
	if s2.ActiveTab() != TabBest {
		t.Fatalf("restored tab: got %s, want %s", s2.ActiveTab(), TabBest)
	}
}
