// Package archive renders the giveaway archive as a scrollable list
// with a detail panel for the selected giveaway.
package archive

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/miwitv/fanclient/internal/keys"
	"github.com/miwitv/fanclient/internal/model"
	"github.com/miwitv/fanclient/internal/theme"
)

// Source fetches the giveaway archive.
type Source interface {
	Giveaways(ctx context.Context) ([]model.Giveaway, error)
}

// LoadedMsg is sent when the giveaway archive has been fetched.
type LoadedMsg struct {
	Giveaways []model.Giveaway
	Err       error
}

// GiveawayItem wraps a model.Giveaway so it can be used in a bubbles/list.
type GiveawayItem struct {
	Giveaway model.Giveaway
}

// FilterValue returns the string used for fuzzy filtering.
func (i GiveawayItem) FilterValue() string { return i.Giveaway.Title }

// Title returns the giveaway headline for the list.
func (i GiveawayItem) Title() string { return i.Giveaway.Title }

// Description returns a short summary line for the list.
func (i GiveawayItem) Description() string {
	parts := []string{
		i.Giveaway.StartedAt.Format("02.01.2006"),
		stateLabel(i.Giveaway.State),
	}
	if i.Giveaway.SubscriberOnly {
		parts = append(parts, "Nur Abonnenten")
	}
	return strings.Join(parts, " | ")
}

// Model is the giveaway archive view component.
type Model struct {
	list    list.Model
	source  Source
	keys    *keys.KeyMap
	loading bool
	loadErr error
	width   int
	height  int
}

// New creates a new archive view.
func New(src Source, k *keys.KeyMap, width, height int) Model {
	l := list.New([]list.Item{}, list.NewDefaultDelegate(), width/2, height-2)
	l.Title = "Giveaways"
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	l.Styles.Title = theme.HeaderStyle

	return Model{
		list:    l,
		source:  src,
		keys:    k,
		loading: true,
		width:   width,
		height:  height,
	}
}

// Init returns a command that loads the archive.
func (m Model) Init() tea.Cmd {
	return m.Load()
}

// Load refetches the giveaway archive.
func (m Model) Load() tea.Cmd {
	return func() tea.Msg {
		giveaways, err := m.source.Giveaways(context.Background())
		return LoadedMsg{Giveaways: giveaways, Err: err}
	}
}

// SetSize updates the view dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.list.SetSize(width/2, height-2)
}

// Update handles messages for the archive view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case LoadedMsg:
		m.loading = false
		m.loadErr = msg.Err
		if msg.Err != nil {
			return m, nil
		}
		items := make([]list.Item, len(msg.Giveaways))
		for i, g := range msg.Giveaways {
			items[i] = GiveawayItem{Giveaway: g}
		}
		return m, m.list.SetItems(items)
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// View renders the archive list next to the selected giveaway's details.
func (m Model) View() string {
	if m.loading {
		return theme.HelpStyle.Render("Giveaways werden geladen...")
	}
	if m.loadErr != nil {
		return theme.ErrorStyle.Render("Fehler: " + m.loadErr.Error())
	}
	if len(m.list.Items()) == 0 {
		return theme.HelpStyle.Render("Keine Giveaways im Archiv.")
	}

	detail := ""
	if item, ok := m.list.SelectedItem().(GiveawayItem); ok {
		detail = m.renderDetail(item.Giveaway)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, m.list.View(), "  ", detail)
}

func (m Model) renderDetail(g model.Giveaway) string {
	lines := []string{
		lipgloss.NewStyle().Bold(true).Render(g.Title),
		theme.HelpStyle.Render(g.StartedAt.Format("02.01.2006 15:04")),
		"",
	}
	if g.Description != "" {
		lines = append(lines, g.Description, "")
	}
	lines = append(lines, stateLine(g.State))
	if g.MaxTickets > 0 {
		lines = append(lines, fmt.Sprintf("Max. Tickets: %d", g.MaxTickets))
	}
	if g.SubscriberOnly {
		lines = append(lines, "Nur für Abonnenten")
	}
	if len(g.Winners) > 0 {
		lines = append(lines, "", lipgloss.NewStyle().Bold(true).Render("Gewinner"))
		for _, w := range g.Winners {
			lines = append(lines, theme.ListItemStyle.Render("🏆 "+w.Username))
		}
	}

	body := lipgloss.JoinVertical(lipgloss.Left, lines...)
	return theme.PanelStyle.Width(min(m.width/2-4, 60)).Render(body)
}

func stateLabel(state string) string {
	if state == model.GiveawayRunning {
		return "Läuft"
	}
	return "Beendet"
}

func stateLine(state string) string {
	if state == model.GiveawayRunning {
		return theme.SuccessStyle.Render("● Läuft gerade")
	}
	return theme.HelpStyle.Render("○ Beendet")
}
