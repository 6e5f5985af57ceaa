// Package shorts renders the clip feed: the current clip of the active
// ordering, the trending/best tabs, and the liked-clips sidebar.
package shorts

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/miwitv/fanclient/internal/feed"
	"github.com/miwitv/fanclient/internal/keys"
	"github.com/miwitv/fanclient/internal/theme"
)

// FeedLoadedMsg is sent when the feed collections have been fetched.
type FeedLoadedMsg struct {
	Err error
}

// LikeDoneMsg is sent when a like request finished.
type LikeDoneMsg struct {
	ClipID string
	Err    error
}

// LoginRequiredMsg asks the root model to switch to the login view.
type LoginRequiredMsg struct{}

// sidebarPageSize is how many liked clips are revealed per scroll step.
const sidebarPageSize = 7

// Model is the shorts feed view component.
type Model struct {
	feed     *feed.Service
	keys     *keys.KeyMap
	loading  bool
	loadErr  error
	visible  int
	width    int
	height   int
}

// New creates a new shorts view over the given feed service.
func New(f *feed.Service, k *keys.KeyMap, width, height int) Model {
	return Model{
		feed:    f,
		keys:    k,
		loading: true,
		visible: sidebarPageSize,
		width:   width,
		height:  height,
	}
}

// Init returns a command that loads the feed.
func (m Model) Init() tea.Cmd {
	return m.Load()
}

// Load refetches the feed collections.
func (m Model) Load() tea.Cmd {
	return func() tea.Msg {
		return FeedLoadedMsg{Err: m.feed.Load(context.Background())}
	}
}

// SetSize updates the view dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// Update handles messages for the shorts view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case FeedLoadedMsg:
		m.loading = false
		m.loadErr = msg.Err
		return m, nil

	case LikeDoneMsg:
		return m, nil

	case tea.KeyMsg:
		return m.handleKeys(msg)
	}
	return m, nil
}

func (m Model) handleKeys(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.NextClip):
		m.feed.Advance(context.Background())
		m.visible = sidebarPageSize
		return m, nil

	case key.Matches(msg, m.keys.PrevClip):
		m.feed.Back(context.Background())
		return m, nil

	case key.Matches(msg, m.keys.SwitchTab):
		next := feed.TabBest
		if m.feed.ActiveTab() == feed.TabBest {
			next = feed.TabTrending
		}
		m.feed.SetActiveTab(context.Background(), next)
		return m, nil

	case key.Matches(msg, m.keys.Like):
		current, ok := m.feed.Current()
		if !ok {
			return m, nil
		}
		return m, m.like(current.ID)

	case key.Matches(msg, m.keys.Down):
		if m.visible < len(m.feed.Liked()) {
			m.visible += sidebarPageSize
		}
		return m, nil
	}
	return m, nil
}

// like issues the like lifecycle for one clip. An unauthenticated
// attempt routes to the login view instead of erroring.
func (m Model) like(clipID string) tea.Cmd {
	return func() tea.Msg {
		err := m.feed.Like(context.Background(), clipID)
		if errors.Is(err, feed.ErrNotAuthenticated) {
			return LoginRequiredMsg{}
		}
		return LikeDoneMsg{ClipID: clipID, Err: err}
	}
}

// View renders the feed.
func (m Model) View() string {
	if m.loading {
		return theme.HelpStyle.Render("Clips werden geladen...")
	}
	if m.loadErr != nil {
		return theme.ErrorStyle.Render("Fehler: " + m.loadErr.Error())
	}

	main := lipgloss.JoinVertical(
		lipgloss.Left,
		m.renderTabs(),
		"",
		m.renderCurrentClip(),
	)

	sidebar := m.renderSidebar()
	if sidebar == "" {
		return main
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, main, "  ", sidebar)
}

func (m Model) renderTabs() string {
	trending := theme.TabStyle.Render("Trending Videos")
	best := theme.TabStyle.Render("Best Videos")
	if m.feed.ActiveTab() == feed.TabBest {
		best = theme.ActiveTabStyle.Render("Best Videos")
	} else {
		trending = theme.ActiveTabStyle.Render("Trending Videos")
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, trending, best)
}

func (m Model) renderCurrentClip() string {
	ordered := m.feed.Ordered(m.feed.ActiveTab())
	current, ok := m.feed.Current()
	if !ok {
		return theme.HelpStyle.Render("Keine Clips verfügbar.")
	}

	position := fmt.Sprintf(
		"Clip %d von %d", m.feed.CurrentIndex()+1, len(ordered),
	)

	body := lipgloss.JoinVertical(
		lipgloss.Left,
		lipgloss.NewStyle().Bold(true).Render(current.CreatorName),
		theme.HelpStyle.Render(current.ThumbnailURL),
		"",
		fmt.Sprintf("❤ %d   👁 %d", current.Likes, current.ViewCount),
		theme.HelpStyle.Render(position),
	)
	return theme.PanelStyle.Width(min(m.width-36, 72)).Render(body)
}

func (m Model) renderSidebar() string {
	liked := m.feed.Liked()
	if len(liked) == 0 {
		return theme.HelpStyle.Render("Noch keine Clips geliked.")
	}

	lines := []string{lipgloss.NewStyle().Bold(true).Render("Liked Clips")}
	shown := m.visible
	if shown > len(liked) {
		shown = len(liked)
	}
	for _, clip := range liked[:shown] {
		lines = append(lines, theme.ListItemStyle.Render(
			fmt.Sprintf("%s (❤ %d)", clip.CreatorName, clip.Likes),
		))
	}
	if shown < len(liked) {
		lines = append(lines, theme.HelpStyle.Render(
			fmt.Sprintf("... %d weitere (j)", len(liked)-shown),
		))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}
