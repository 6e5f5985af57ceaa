// Package editor renders the challenge editing view: the full tree of
// one challenge with cursor-based structural edits and huh forms for
// the text fields.
package editor

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	chstore "github.com/miwitv/fanclient/internal/challenges"
	"github.com/miwitv/fanclient/internal/keys"
	"github.com/miwitv/fanclient/internal/model"
	"github.com/miwitv/fanclient/internal/theme"
)

// SavedMsg is sent when the edited challenge was submitted upstream.
type SavedMsg struct {
	ChallengeID string
	Message     string
	Err         error
}

// ClosedMsg asks the root model to return to the challenge browser.
type ClosedMsg struct{}

// nodeKind identifies what an editor row points at.
type nodeKind int

const (
	nodeHeader nodeKind = iota
	nodeSection
	nodeTask
	nodeSubtask
)

type node struct {
	kind      nodeKind
	sectionID string
	taskID    string
	subtaskID string
}

// formBindings holds form field values on the heap so that huh's
// Value() pointers remain valid across Bubble Tea model copies.
type formBindings struct {
	title        string
	description  string
	createdAt    string
	challengeEnd string
	text         string
}

// Model is the challenge editor view component.
type Model struct {
	store       *chstore.Store
	keys        *keys.KeyMap
	challengeID string

	cursor int
	form   *huh.Form
	fb     *formBindings
	target node

	width  int
	height int
}

// New creates an editor over the given store.
func New(st *chstore.Store, k *keys.KeyMap, width, height int) Model {
	return Model{
		store:  st,
		keys:   k,
		fb:     &formBindings{},
		width:  width,
		height: height,
	}
}

// Open focuses the editor on one challenge.
func (m *Model) Open(challengeID string) {
	m.challengeID = challengeID
	m.cursor = 0
	m.form = nil
}

// SetSize updates the view dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// Update handles messages for the editor.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if m.form != nil {
		return m.updateForm(msg)
	}

	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	return m.handleKeys(keyMsg)
}

func (m Model) updateForm(msg tea.Msg) (Model, tea.Cmd) {
	mdl, cmd := m.form.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		err := m.applyForm()
		m.form = nil
		if err != nil {
			return m, m.editFailed(err)
		}
		return m, nil
	case huh.StateAborted:
		m.form = nil
		return m, nil
	}
	return m, cmd
}

func (m Model) handleKeys(msg tea.KeyMsg) (Model, tea.Cmd) {
	rows := m.rows()

	switch {
	case key.Matches(msg, m.keys.Back):
		return m, func() tea.Msg { return ClosedMsg{} }

	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(rows)-1 {
			m.cursor++
		}
		return m, nil

	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil

	case key.Matches(msg, m.keys.Edit):
		if n, ok := m.current(rows); ok {
			return m.startEdit(n)
		}
		return m, nil

	case key.Matches(msg, m.keys.New):
		if n, ok := m.current(rows); ok {
			if err := m.addChild(n); err != nil {
				return m, m.editFailed(err)
			}
		}
		return m, nil

	case key.Matches(msg, m.keys.Delete):
		if n, ok := m.current(rows); ok {
			err := m.deleteNode(n)
			m.clampCursor()
			if err != nil {
				return m, m.editFailed(err)
			}
		}
		return m, nil

	case key.Matches(msg, m.keys.Save):
		return m, m.save()
	}
	return m, nil
}

// addChild creates the next-deeper node under the cursor: a section
// under the header, a task under a section, a subtask under a task.
// The cursor can go stale when a background refresh replaces the tree,
// so store errors are reported, not swallowed.
func (m *Model) addChild(n node) error {
	switch n.kind {
	case nodeHeader:
		_, err := m.store.AddSection(m.challengeID)
		return err
	case nodeSection:
		_, err := m.store.AddTask(m.challengeID, n.sectionID)
		return err
	case nodeTask, nodeSubtask:
		_, err := m.store.AddSubtask(m.challengeID, n.sectionID, n.taskID)
		return err
	}
	return nil
}

func (m *Model) deleteNode(n node) error {
	switch n.kind {
	case nodeSection:
		return m.store.DeleteSection(m.challengeID, n.sectionID)
	case nodeTask:
		return m.store.DeleteTask(m.challengeID, n.sectionID, n.taskID)
	case nodeSubtask:
		return m.store.DeleteSubtask(m.challengeID, n.sectionID, n.taskID, n.subtaskID)
	}
	return nil
}

// editFailed reports a failed tree edit to the root model.
func (m Model) editFailed(err error) tea.Cmd {
	return func() tea.Msg {
		return SavedMsg{ChallengeID: m.challengeID, Err: err}
	}
}

func (m Model) save() tea.Cmd {
	return func() tea.Msg {
		message, err := m.store.Save(context.Background(), m.challengeID)
		return SavedMsg{ChallengeID: m.challengeID, Message: message, Err: err}
	}
}

func (m Model) startEdit(n node) (Model, tea.Cmd) {
	ch, ok := m.store.Challenge(m.challengeID)
	if !ok {
		return m, func() tea.Msg { return ClosedMsg{} }
	}

	m.target = n
	switch n.kind {
	case nodeHeader:
		m.fb.title = ch.Header.Title
		m.fb.description = ch.Header.Description
		m.fb.createdAt = ch.Header.CreatedAt
		m.fb.challengeEnd = ch.Header.ChallengeEnd
		m.form = m.buildHeaderForm()
	default:
		m.fb.text = m.nodeText(ch, n)
		m.form = m.buildTextForm(n)
	}
	return m, m.form.Init()
}

func (m Model) nodeText(ch model.Challenge, n node) string {
	for _, s := range ch.Sections {
		if s.ID != n.sectionID {
			continue
		}
		if n.kind == nodeSection {
			return s.Title
		}
		for _, t := range s.Items {
			if t.ID != n.taskID {
				continue
			}
			if n.kind == nodeTask {
				return t.Text
			}
			for _, sub := range t.Subchallenges {
				if sub.ID == n.subtaskID {
					return sub.Text
				}
			}
		}
	}
	return ""
}

func (m *Model) buildHeaderForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Titel").
				Value(&m.fb.title).
				Validate(validateRequired("Titel")),
			huh.NewText().
				Title("Beschreibung").
				Value(&m.fb.description),
			huh.NewInput().
				Title("Erstellt am").
				Placeholder("YYYY-MM-DD").
				Value(&m.fb.createdAt).
				Validate(validateOptionalDate),
			huh.NewInput().
				Title("Challenge-Ende").
				Placeholder("DD.MM.YYYY").
				Value(&m.fb.challengeEnd),
		),
	).WithWidth(m.formWidth())
}

func (m *Model) buildTextForm(n node) *huh.Form {
	title := "Text"
	if n.kind == nodeSection {
		title = "Sektionstitel"
	}
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title(title).
				Value(&m.fb.text).
				Validate(validateRequired(title)),
		),
	).WithWidth(m.formWidth())
}

// applyForm writes the completed form's values back into the tree.
func (m *Model) applyForm() error {
	n := m.target
	switch n.kind {
	case nodeHeader:
		fields := map[chstore.HeaderField]string{
			chstore.FieldTitle:        m.fb.title,
			chstore.FieldDescription:  m.fb.description,
			chstore.FieldCreatedAt:    m.fb.createdAt,
			chstore.FieldChallengeEnd: m.fb.challengeEnd,
		}
		for field, value := range fields {
			if err := m.store.UpdateHeaderField(m.challengeID, field, value); err != nil {
				return err
			}
		}
		return nil
	case nodeSection:
		return m.store.UpdateSectionTitle(m.challengeID, n.sectionID, m.fb.text)
	case nodeTask:
		return m.store.UpdateTaskText(m.challengeID, n.sectionID, n.taskID, m.fb.text)
	case nodeSubtask:
		return m.store.UpdateSubtaskText(
			m.challengeID, n.sectionID, n.taskID, n.subtaskID, m.fb.text,
		)
	}
	return nil
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

func (m Model) rows() []node {
	ch, ok := m.store.Challenge(m.challengeID)
	if !ok {
		return nil
	}
	rows := []node{{kind: nodeHeader}}
	for _, s := range ch.Sections {
		rows = append(rows, node{kind: nodeSection, sectionID: s.ID})
		for _, t := range s.Items {
			rows = append(rows, node{kind: nodeTask, sectionID: s.ID, taskID: t.ID})
			for _, sub := range t.Subchallenges {
				rows = append(rows, node{
					kind: nodeSubtask, sectionID: s.ID, taskID: t.ID, subtaskID: sub.ID,
				})
			}
		}
	}
	return rows
}

// View renders the editable tree or, while a form is active, the form.
func (m Model) View() string {
	if m.form != nil {
		return lipgloss.NewStyle().Padding(1, 2).Render(m.form.View())
	}

	ch, ok := m.store.Challenge(m.challengeID)
	if !ok {
		return theme.ErrorStyle.Render("Challenge nicht gefunden.")
	}

	lines := []string{m.renderRow(0, 0, headerLabel(ch))}
	rowIndex := 1
	for _, s := range ch.Sections {
		lines = append(lines, m.renderRow(rowIndex, 1, "§ "+s.Title))
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

	lines = append(lines, "", theme.HelpStyle.Render(
		"e bearbeiten · n hinzufügen · d entfernen · s speichern · esc zurück",
	))
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func headerLabel(ch model.Challenge) string {
	label := lipgloss.NewStyle().Bold(true).Render(ch.Header.Title)
	if model.IsDraft(ch.ID) {
		label += theme.HelpStyle.Render(" (Entwurf)")
	}
	if ch.Header.ChallengeEnd != "" {
		label += theme.HelpStyle.Render(" bis " + ch.Header.ChallengeEnd)
	}
	return label
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

func (m Model) formWidth() int {
	w := m.width - 4
	if w < 40 {
		w = 40
	}
	if w > 100 {
		w = 100
	}
	return w
}

func validateRequired(fieldName string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s darf nicht leer sein", fieldName)
		}
		return nil
	}
}

func validateOptionalDate(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	if _, err := time.Parse("2006-01-02", s); err != nil {
		return fmt.Errorf("ungültiges Datum, Format YYYY-MM-DD")
	}
	return nil
}
