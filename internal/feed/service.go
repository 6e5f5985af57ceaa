// Package feed orchestrates the shorts feed: it populates the entity
// cache from the gateway, derives the ranked orderings, tracks the
// durable seen set and navigation state, and drives the optimistic
// like lifecycle (pending, then confirmed or rejected with a
// deterministic compensation).
package feed

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/miwitv/fanclient/internal/cache"
	"github.com/miwitv/fanclient/internal/model"
	"github.com/miwitv/fanclient/internal/ranking"
	"github.com/miwitv/fanclient/internal/store"
)

// Feed tabs.
const (
	TabTrending = "trending"
	TabBest     = "best"
)

// ErrNotAuthenticated is returned when a like is attempted without a
// session. The UI reacts by switching to the login view.
var ErrNotAuthenticated = errors.New("nicht angemeldet")

// ErrAlreadyLiked rejects a like for a clip that is already in the
// liked set. It never reaches the network.
var ErrAlreadyLiked = errors.New("Du hast diesen Clip bereits geliked!")

// Gateway is the slice of the API client the feed needs.
type Gateway interface {
	Clips(ctx context.Context) ([]model.Clip, error)
	LikedClips(ctx context.Context) ([]model.Clip, error)
	Like(ctx context.Context, clipID string) (model.LikeResult, error)
}

// likeSnapshot records where an optimistically removed clip sat in
// each collection so a rejected like can be undone deterministically.
type likeSnapshot struct {
	clip        model.Clip
	clipsIndex  int
	trendingIdx int
	bestIdx     int
}

// Service owns the feed state. It is constructed once and passed by
// reference; all mutation goes through its methods.
type Service struct {
	gateway Gateway
	cache   *cache.Cache
	local   store.Store
	now     func() time.Time

	mu            sync.Mutex
	seen          map[string]bool
	pending       map[string]likeSnapshot
	authenticated bool
	activeTab     string
	currentIndex  int
}

// NewService creates a feed service over the given gateway, cache, and
// local store.
func NewService(gw Gateway, c *cache.Cache, local store.Store) *Service {
	return &Service{
		gateway:   gw,
		cache:     c,
		local:     local,
		now:       time.Now,
		seen:      make(map[string]bool),
		pending:   make(map[string]likeSnapshot),
		activeTab: TabTrending,
	}
}

// SetNow injects a clock for deterministic ranking in tests.
func (s *Service) SetNow(now func() time.Time) {
	s.now = now
}

// SetAuthenticated toggles whether credentialed operations are allowed.
func (s *Service) SetAuthenticated(authenticated bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.authenticated = authenticated
}

// Load fetches the clip collections, restores the durable seen set and
// navigation state, and derives the ranked orderings. The liked set is
// only fetched for an authenticated session.
func (s *Service) Load(ctx context.Context) error {
	clips, err := s.gateway.Clips(ctx)
	if err != nil {
		return fmt.Errorf("fetching clips: %w", err)
	}

	var liked []model.Clip
	s.mu.Lock()
	authenticated := s.authenticated
	s.mu.Unlock()
	if authenticated {
		liked, err = s.gateway.LikedClips(ctx)
		if err != nil {
			return fmt.Errorf("fetching liked clips: %w", err)
		}
	}

	seen, err := s.local.SeenClips(ctx)
	if err != nil {
		// Best effort: an unreadable seen set degrades to "nothing seen".
		seen = make(map[string]bool)
	}

	s.mu.Lock()
	s.seen = seen
	s.activeTab = s.local.GetUIState(ctx, store.StateActiveTab, TabTrending)
	if s.activeTab != TabBest {
		s.activeTab = TabTrending
	}
	index, convErr := strconv.Atoi(
		s.local.GetUIState(ctx, store.StateCurrentClipIndex, "0"),
	)
	if convErr != nil || index < 0 {
		index = 0
	}
	s.currentIndex = index
	s.mu.Unlock()

	s.cache.Set(cache.Clips, clips)
	s.cache.Set(cache.LikedClips, liked)
	s.refreshDerived()
	return nil
}

// refreshDerived recomputes the trending and best orderings from the
// current working set.
func (s *Service) refreshDerived() {
	s.mu.Lock()
	seen := s.seen
	now := s.now()
	s.mu.Unlock()

	working := ranking.WorkingSet(
		s.cache.Get(cache.Clips), s.cache.Get(cache.LikedClips), seen,
	)
	s.cache.Set(cache.TrendingClips, ranking.SortTrending(working, now))
	s.cache.Set(cache.BestClips, ranking.SortBest(working))
}

// Like drives the full like lifecycle for one clip:
//
//	pending:   pre-flight validation, then optimistic cache apply
//	confirmed: the server count is patched into the liked entry
//	rejected:  the optimistic apply is compensated and the error returned
//
// At most one like per clip id is ever in flight; duplicates are
// rejected before any network call.
func (s *Service) Like(ctx context.Context, clipID string) error {
	s.mu.Lock()
	if !s.authenticated {
		s.mu.Unlock()
		return ErrNotAuthenticated
	}
	if _, inFlight := s.pending[clipID]; inFlight {
		s.mu.Unlock()
		return ErrAlreadyLiked
	}
	if s.cache.Contains(cache.LikedClips, clipID) {
		s.mu.Unlock()
		return ErrAlreadyLiked
	}

	snapshot := likeSnapshot{
		clipsIndex:  indexOf(s.cache.Get(cache.Clips), clipID),
		trendingIdx: indexOf(s.cache.Get(cache.TrendingClips), clipID),
		bestIdx:     indexOf(s.cache.Get(cache.BestClips), clipID),
	}
	clip, found := s.cache.Find(cache.Clips, clipID)
	if !found {
		s.mu.Unlock()
		return fmt.Errorf("unbekannter Clip %s", clipID)
	}
	snapshot.clip = clip
	s.pending[clipID] = snapshot
	s.mu.Unlock()

	// Optimistic apply: drop the clip from the working-set collections
	// and prepend it to the liked set.
	removeClip := func(clips []model.Clip) []model.Clip {
		out := clips[:0]
		for _, c := range clips {
			if c.ID != clipID {
				out = append(out, c)
			}
		}
		return out
	}
	s.cache.Update(cache.Clips, removeClip)
	s.cache.Update(cache.TrendingClips, removeClip)
	s.cache.Update(cache.BestClips, removeClip)
	s.cache.Update(cache.LikedClips, func(liked []model.Clip) []model.Clip {
		return append([]model.Clip{clip}, liked...)
	})

	result, err := s.gateway.Like(ctx, clipID)

	s.mu.Lock()
	snapshot = s.pending[clipID]
	delete(s.pending, clipID)
	s.mu.Unlock()

	if err != nil {
		s.reject(snapshot)
		return err
	}

	// Confirmed: reflect the server's like count in the liked entry.
	s.cache.Update(cache.LikedClips, func(liked []model.Clip) []model.Clip {
		for i := range liked {
			if liked[i].ID == result.ID {
				liked[i].Likes = result.Likes
			}
		}
		return liked
	})
	return nil
}

// reject compensates a failed optimistic like: the clip leaves the
// liked set and returns to its recorded position in each working-set
// collection.
func (s *Service) reject(snapshot likeSnapshot) {
	clipID := snapshot.clip.ID
	s.cache.Update(cache.LikedClips, func(liked []model.Clip) []model.Clip {
		out := liked[:0]
		for _, c := range liked {
			if c.ID != clipID {
				out = append(out, c)
			}
		}
		return out
	})

	restore := func(at int) func([]model.Clip) []model.Clip {
		return func(clips []model.Clip) []model.Clip {
			if at < 0 || at > len(clips) {
				at = len(clips)
			}
			clips = append(clips, model.Clip{})
			copy(clips[at+1:], clips[at:])
			clips[at] = snapshot.clip
			return clips
		}
	}
	s.cache.Update(cache.Clips, restore(snapshot.clipsIndex))
	s.cache.Update(cache.TrendingClips, restore(snapshot.trendingIdx))
	s.cache.Update(cache.BestClips, restore(snapshot.bestIdx))
}

// Ordered returns the ranked working set for the given tab.
func (s *Service) Ordered(tab string) []model.Clip {
	if tab == TabBest {
		return s.cache.Get(cache.BestClips)
	}
	return s.cache.Get(cache.TrendingClips)
}

// Liked returns the liked-clips sidebar collection.
func (s *Service) Liked() []model.Clip {
	return s.cache.Get(cache.LikedClips)
}

// ActiveTab returns the current feed tab.
func (s *Service) ActiveTab() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.activeTab
}

// SetActiveTab switches the feed tab, resets the index to the first
// clip, and persists both.
func (s *Service) SetActiveTab(ctx context.Context, tab string) {
	if tab != TabBest {
		tab = TabTrending
	}

	s.mu.Lock()
	s.activeTab = tab
	s.currentIndex = 0
	s.mu.Unlock()

	_ = s.local.SetUIState(ctx, store.StateActiveTab, tab)
	_ = s.local.SetUIState(ctx, store.StateCurrentClipIndex, "0")
}

// CurrentIndex returns the position within the active ordering,
// clamped to the ordering's length.
func (s *Service) CurrentIndex() int {
	s.mu.Lock()
	index := s.currentIndex
	tab := s.activeTab
	s.mu.Unlock()

	ordered := s.Ordered(tab)
	if index >= len(ordered) {
		index = len(ordered) - 1
	}
	if index < 0 {
		index = 0
	}
	return index
}

// Current returns the clip at the current position of the active tab.
func (s *Service) Current() (model.Clip, bool) {
	ordered := s.Ordered(s.ActiveTab())
	if len(ordered) == 0 {
		return model.Clip{}, false
	}
	return ordered[s.CurrentIndex()], true
}

// Advance marks the current clip as seen (durably) and moves to the
// next one. Marking removes the clip from the working set, so the
// index itself only needs clamping. At the end of the feed it clamps.
func (s *Service) Advance(ctx context.Context) {
	current, ok := s.Current()
	if !ok {
		return
	}

	_ = s.local.MarkSeen(ctx, current.ID)
	s.mu.Lock()
	s.seen[current.ID] = true
	s.mu.Unlock()
	s.refreshDerived()

	s.persistIndex(ctx, s.CurrentIndex())
}

// Back moves to the previous clip. It never marks anything seen.
func (s *Service) Back(ctx context.Context) {
	s.mu.Lock()
	if s.currentIndex > 0 {
		s.currentIndex--
	}
	index := s.currentIndex
	s.mu.Unlock()

	s.persistIndex(ctx, index)
}

func (s *Service) persistIndex(ctx context.Context, index int) {
	s.mu.Lock()
	s.currentIndex = index
	s.mu.Unlock()
	_ = s.local.SetUIState(
		ctx, store.StateCurrentClipIndex, strconv.Itoa(index),
	)
}

// indexOf returns the position of clipID in clips, or -1.
func indexOf(clips []model.Clip, clipID string) int {
	for i, c := range clips {
		if c.ID == clipID {
			return i
		}
	}
	return -1
}
