// Package challenges renders the challenge browser: challenges grouped
// by year, expandable into their section/task/subtask tree.
package challenges

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	chstore "github.com/miwitv/fanclient/internal/challenges"
	"github.com/miwitv/fanclient/internal/keys"
	"github.com/miwitv/fanclient/internal/model"
	"github.com/miwitv/fanclient/internal/theme"
)

// Source fetches the published challenge list.
type Source interface {
	Challenges(ctx context.Context) ([]model.Challenge, error)
}

// LoadedMsg is sent when the challenge list has been fetched.
type LoadedMsg struct {
	Challenges []model.Challenge
	Err        error
}

// ToggleDoneMsg is sent when a completion toggle round-trip finished.
type ToggleDoneMsg struct {
	Err error
}

// DeleteDoneMsg is sent when a challenge deletion finished.
type DeleteDoneMsg struct {
	Err error
}

// EditChallengeMsg asks the root model to open the editor.
type EditChallengeMsg struct {
	ChallengeID string
}

// nodeKind identifies what a browser row points at.
type nodeKind int

const (
	nodeChallenge nodeKind = iota
	nodeSection
	nodeTask
	nodeSubtask
)

// node is one navigable row of the flattened tree. Rows address their
// targets by id so the cursor survives refreshes and reorderings.
type node struct {
	kind        nodeKind
	challengeID string
	sectionID   string
	taskID      string
	subtaskID   string
}

// Model is the challenge browser view component.
type Model struct {
	store   *chstore.Store
	source  Source
	keys    *keys.KeyMap
	staff   bool
	loading bool
	loadErr error

	cursor    int
	expanded  map[string]bool
	confirmID string

	width  int
	height int
}

// New creates a new challenge browser over the given store.
func New(st *chstore.Store, src Source, k *keys.KeyMap, width, height int) Model {
	return Model{
		store:    st,
		source:   src,
		keys:     k,
		loading:  true,
		expanded: make(map[string]bool),
		width:    width,
		height:   height,
	}
}

// Init returns a command that loads the challenge list.
func (m Model) Init() tea.Cmd {
	return m.Load()
}

// Load refetches the challenge list from the server.
func (m Model) Load() tea.Cmd {
	return func() tea.Msg {
		challenges, err := m.source.Challenges(context.Background())
		return LoadedMsg{Challenges: challenges, Err: err}
	}
}

// SetStaff enables the moderation actions (toggle, edit, delete, new).
func (m *Model) SetStaff(staff bool) {
	m.staff = staff
}

// Staff reports whether moderation actions are enabled.
func (m Model) Staff() bool {
	return m.staff
}

// SetSize updates the view dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// Update handles messages for the challenge browser.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case LoadedMsg:
		m.loading = false
		m.loadErr = msg.Err
		if msg.Err == nil {
			m.store.Replace(msg.Challenges)
			m.clampCursor()
		}
		return m, nil

	case ToggleDoneMsg, DeleteDoneMsg:
		m.clampCursor()
		return m, nil

	case tea.KeyMsg:
		return m.handleKeys(msg)
	}
	return m, nil
}

func (m Model) handleKeys(msg tea.KeyMsg) (Model, tea.Cmd) {
	rows := m.rows()

	switch {
	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(rows)-1 {
			m.cursor++
		}
		m.confirmID = ""
		return m, nil

	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
		m.confirmID = ""
		return m, nil

	case key.Matches(msg, m.keys.Select):
		if n, ok := m.current(rows); ok && n.kind == nodeChallenge {
			m.expanded[n.challengeID] = !m.expanded[n.challengeID]
		}
		return m, nil

	case key.Matches(msg, m.keys.Toggle):
		if !m.staff {
			return m, nil
		}
		n, ok := m.current(rows)
		if !ok {
			return m, nil
		}
		return m, m.toggle(n)

	case key.Matches(msg, m.keys.Edit):
		if !m.staff {
			return m, nil
		}
		if n, ok := m.current(rows); ok {
			id := n.challengeID
			return m, func() tea.Msg { return EditChallengeMsg{ChallengeID: id} }
		}
		return m, nil

	case key.Matches(msg, m.keys.New):
		if !m.staff {
			return m, nil
		}
		id := m.store.AddChallenge()
		m.expanded[id] = true
		m.cursor = 0
		return m, func() tea.Msg { return EditChallengeMsg{ChallengeID: id} }

	case key.Matches(msg, m.keys.Delete):
		if !m.staff {
			return m, nil
		}
		n, ok := m.current(rows)
		if !ok || n.kind != nodeChallenge {
			return m, nil
		}
		return m.deleteChallenge(n.challengeID)

	case key.Matches(msg, m.keys.Refresh):
		m.loading = true
		return m, m.Load()
	}
	return m, nil
}

// deleteChallenge implements the two-step confirmation: the first press
// arms the deletion, the second press on the same row executes it.
func (m Model) deleteChallenge(id string) (Model, tea.Cmd) {
	confirmed := m.confirmID == id
	m.confirmID = id
	cmd := func() tea.Msg {
		err := m.store.DeleteChallenge(context.Background(), id, confirmed)
		if errors.Is(err, chstore.ErrConfirmationRequired) {
			return nil
		}
		return DeleteDoneMsg{Err: err}
	}
	if confirmed {
		m.confirmID = ""
	}
	return m, cmd
}

func (m Model) toggle(n node) tea.Cmd {
	return func() tea.Msg {
		var err error
		switch n.kind {
		case nodeTask:
			err = m.store.ToggleTask(
				context.Background(), n.challengeID, n.sectionID, n.taskID,
			)
		case nodeSubtask:
			err = m.store.ToggleSubtask(
				context.Background(), n.challengeID, n.sectionID, n.taskID, n.subtaskID,
			)
		default:
			return nil
		}
		return ToggleDoneMsg{Err: err}
	}
}

func (m Model) current(rows []node) (node, bool) {
	if m.cursor < 0 || m.cursor >= len(rows) {
		return node{}, false
	}
	return rows[m.cursor], true
}

func (m *Model) clampCursor() {
	rows := m.rows()
	if m.cursor >= len(rows) {
		m.cursor = len(rows) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

// rows flattens the store's current tree into the navigable row list.
// Collapsed challenges contribute only their header row.
func (m Model) rows() []node {
	var rows []node
	for _, c := range m.store.Challenges() {
		rows = append(rows, node{kind: nodeChallenge, challengeID: c.ID})
		if !m.expanded[c.ID] {
			continue
		}
		for _, s := range c.Sections {
			rows = append(rows, node{
				kind: nodeSection, challengeID: c.ID, sectionID: s.ID,
			})
			for _, t := range s.Items {
				rows = append(rows, node{
					kind: nodeTask, challengeID: c.ID, sectionID: s.ID, taskID: t.ID,
				})
				for _, sub := range t.Subchallenges {
					rows = append(rows, node{
						kind: nodeSubtask, challengeID: c.ID,
						sectionID: s.ID, taskID: t.ID, subtaskID: sub.ID,
					})
				}
			}
		}
	}
	return rows
}

// View renders the year-grouped challenge tree.
func (m Model) View() string {
	if m.loading {
		return theme.HelpStyle.Render("Challenges werden geladen...")
	}
	if m.loadErr != nil {
		return theme.ErrorStyle.Render("Fehler: " + m.loadErr.Error())
	}

	challenges := m.store.Challenges()
	if len(challenges) == 0 {
		return theme.HelpStyle.Render("Keine Challenges vorhanden.")
	}

	var lines []string
	rowIndex := 0
	lastYear := -1
	for _, c := range challenges {
		if year := c.CreatedTime().Year(); year != lastYear {
			label := fmt.Sprintf("%d", year)
			if year == 1 {
				label = "Ohne Datum"
			}
			lines = append(lines, theme.HeaderStyle.Render(label))
			lastYear = year
		}
		lines = append(lines, m.renderChallengeRow(c, rowIndex))
		rowIndex++
		if !m.expanded[c.ID] {
			continue
		}
		for _, s := range c.Sections {
			lines = append(lines, m.renderRow(rowIndex, 1, s.Title))
			rowIndex++
			for _, t := range s.Items {
				lines = append(lines, m.renderRow(rowIndex, 2, taskLabel(t.Text, t.Completed)))
				rowIndex++
				for _, sub := range t.Subchallenges {
					lines = append(lines, m.renderRow(rowIndex, 3, taskLabel(sub.Text, sub.Completed)))
					rowIndex++
				}
			}
		}
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (m Model) renderChallengeRow(c model.Challenge, rowIndex int) string {
	marker := "▸"
	if m.expanded[c.ID] {
		marker = "▾"
	}
	label := fmt.Sprintf("%s %s", marker, c.Header.Title)
	if model.IsDraft(c.ID) {
		label += theme.HelpStyle.Render(" (Entwurf)")
	}
	if c.Header.ChallengeEnd != "" {
		label += theme.HelpStyle.Render(" bis " + c.Header.ChallengeEnd)
	}
	if m.confirmID == c.ID {
		label += theme.ErrorStyle.Render("  wirklich löschen? (d)")
	}
	return m.renderRow(rowIndex, 0, label)
}

func (m Model) renderRow(rowIndex, depth int, label string) string {
	indented := lipgloss.NewStyle().PaddingLeft(depth * 2).Render(label)
	if rowIndex == m.cursor {
		return theme.SelectedItemStyle.Render(indented)
	}
	return theme.ListItemStyle.Render(indented)
}

func taskLabel(text string, completed bool) string {
	if completed {
		return theme.CompletedStyle.Render("✓ " + text)
	}
	return theme.OpenTaskStyle.Render("○ " + text)
}
