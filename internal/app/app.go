// Package app wires the services and view components into the root
// Bubble Tea model: view routing, layout, session handling, and the
// stream-status channel.
package app

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/miwitv/fanclient/internal/api"
	"github.com/miwitv/fanclient/internal/cache"
	chstore "github.com/miwitv/fanclient/internal/challenges"
	"github.com/miwitv/fanclient/internal/credential"
	"github.com/miwitv/fanclient/internal/feed"
	"github.com/miwitv/fanclient/internal/keys"
	"github.com/miwitv/fanclient/internal/model"
	"github.com/miwitv/fanclient/internal/status"
	"github.com/miwitv/fanclient/internal/store"
	"github.com/miwitv/fanclient/internal/theme"
	"github.com/miwitv/fanclient/internal/ui"
	"github.com/miwitv/fanclient/internal/ui/archive"
	challengesview "github.com/miwitv/fanclient/internal/ui/challenges"
	"github.com/miwitv/fanclient/internal/ui/editor"
	helpview "github.com/miwitv/fanclient/internal/ui/help"
	"github.com/miwitv/fanclient/internal/ui/login"
	"github.com/miwitv/fanclient/internal/ui/shorts"
)

// sessionMsg carries the result of the session check.
type sessionMsg struct {
	user *model.User
	err  error
}

// statusUpdateMsg carries one stream-status channel update.
type statusUpdateMsg struct {
	update status.Update
	ok     bool
}

// refreshTickMsg triggers the periodic background refresh.
type refreshTickMsg struct{}

// noticeExpiredMsg clears the status bar notice.
type noticeExpiredMsg struct{}

// ViewState represents the current active view in the application.
type ViewState int

const (
	ViewShorts ViewState = iota
	ViewChallenges
	ViewEditor
	ViewArchive
	ViewLogin
	ViewHelp
)

// Model is the root Bubble Tea model that manages view routing,
// layout, and the shared services.
type Model struct {
	currentView  ViewState
	previousView ViewState
	layout       ui.Layout
	keys         *keys.KeyMap
	logger       zerolog.Logger

	client  *api.Client
	store   *store.SQLiteStore
	feed    *feed.Service
	chStore *chstore.Store
	channel *status.Channel
	cfg     *model.AppConfig

	shortsView     shorts.Model
	challengesView challengesview.Model
	editorView     editor.Model
	archiveView    archive.Model
	loginView      login.Model
	helpView       helpview.Model

	user         *model.User
	streamStatus string
	notice       string
	noticeIsErr  bool
	ready        bool
}

// New creates the root application model and its services.
func New(
	cfg *model.AppConfig,
	client *api.Client,
	st *store.SQLiteStore,
	logger zerolog.Logger,
) Model {
	k := keys.DefaultKeyMap()

	feedSvc := feed.NewService(client, cache.New(), st)
	challengeStore := chstore.NewStore(client)

	return Model{
		currentView:    ViewShorts,
		keys:           k,
		logger:         logger,
		client:         client,
		store:          st,
		feed:           feedSvc,
		chStore:        challengeStore,
		cfg:            cfg,
		shortsView:     shorts.New(feedSvc, k, 80, 24),
		challengesView: challengesview.New(challengeStore, client, k, 80, 24),
		editorView:     editor.New(challengeStore, k, 80, 24),
		archiveView:    archive.New(client, k, 80, 24),
		loginView:      login.New(client.LoginURL(), 80, 24),
		helpView:       helpview.New(k, 80, 24),
		streamStatus:   "offline",
	}
}

// Init loads all remote collections and resolves the session.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.shortsView.Init(),
		m.challengesView.Init(),
		m.archiveView.Init(),
		m.resolveSession(),
		m.scheduleRefresh(),
	)
}

// resolveSession asks the API who the stored token belongs to.
func (m Model) resolveSession() tea.Cmd {
	client := m.client
	return func() tea.Msg {
		user, err := client.Me(context.Background())
		return sessionMsg{user: user, err: err}
	}
}

// waitForStatus blocks on the next stream-status channel update.
func (m Model) waitForStatus() tea.Cmd {
	ch := m.channel.Updates()
	return func() tea.Msg {
		u, ok := <-ch
		return statusUpdateMsg{update: u, ok: ok}
	}
}

// scheduleRefresh arms the periodic background refresh.
func (m Model) scheduleRefresh() tea.Cmd {
	interval := time.Duration(m.cfg.Display.RefreshIntervalSec) * time.Second
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	return tea.Tick(interval, func(time.Time) tea.Msg {
		return refreshTickMsg{}
	})
}

// Update handles messages and dispatches to the active view.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.layout = ui.NewLayout(msg.Width, msg.Height)
		m.ready = true
		w := m.layout.ContentWidth()
		h := m.layout.ContentHeight()
		m.shortsView.SetSize(w, h)
		m.challengesView.SetSize(w, h)
		m.editorView.SetSize(w, h)
		m.archiveView.SetSize(w, h)
		m.loginView.SetSize(w, h)
		m.helpView.SetSize(w, h)
		return m.updateActiveView(msg)

	case sessionMsg:
		return m.handleSession(msg)

	case statusUpdateMsg:
		if !msg.ok {
			return m, nil
		}
		if text := m.describeStatus(msg.update); text != "" {
			m.streamStatus = text
		}
		return m, m.waitForStatus()

	case refreshTickMsg:
		return m, tea.Batch(
			m.shortsView.Load(),
			m.challengesView.Load(),
			m.scheduleRefresh(),
		)

	case noticeExpiredMsg:
		m.notice = ""
		return m, nil

	case shorts.LoginRequiredMsg:
		return m.openLogin()

	case shorts.LikeDoneMsg:
		if msg.Err != nil {
			return m.showError(msg.Err)
		}
		return m, nil

	case challengesview.EditChallengeMsg:
		m.previousView = m.currentView
		m.currentView = ViewEditor
		m.editorView.Open(msg.ChallengeID)
		return m, nil

	case challengesview.ToggleDoneMsg:
		if msg.Err != nil {
			return m.showError(msg.Err)
		}
		return m, nil

	case challengesview.DeleteDoneMsg:
		if msg.Err != nil {
			return m.showError(msg.Err)
		}
		return m.showNotice("Challenge gelöscht.")

	case editor.SavedMsg:
		if msg.Err != nil {
			return m.showError(msg.Err)
		}
		message := msg.Message
		if message == "" {
			message = "Challenge gespeichert."
		}
		root, noticeCmd := m.showNotice(message)
		// A successful create replaced the draft id server-side, so the
		// browser refetches the canonical list.
		root.currentView = ViewChallenges
		return root, tea.Batch(noticeCmd, root.challengesView.Load())

	case editor.ClosedMsg:
		m.currentView = ViewChallenges
		return m, nil

	case login.TokenSubmittedMsg:
		return m.handleToken(msg.Token)

	case login.CancelledMsg:
		m.currentView = m.previousView
		return m, nil

	case tea.KeyMsg:
		if mdl, cmd, handled := m.handleGlobalKeys(msg); handled {
			return mdl, cmd
		}
	}

	return m.updateActiveView(msg)
}

func (m Model) handleSession(msg sessionMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.user = nil
		m.feed.SetAuthenticated(false)
		m.challengesView.SetStaff(false)
		if !api.IsAuthError(msg.err) {
			m.logger.Warn().Err(msg.err).Msg("session check failed")
		}
		return m, nil
	}

	m.user = msg.user
	m.feed.SetAuthenticated(true)
	m.challengesView.SetStaff(msg.user.IsStaff())
	m.logger.Info().
		Str("login", msg.user.Login).
		Int("role", int(msg.user.Role)).
		Msg("session resolved")

	// The stream-status socket is keyed on the viewer's login, so it
	// can only start once a session exists.
	var statusCmd tea.Cmd
	if m.channel == nil && m.cfg.API.WebsocketEnabled {
		socketURL, err := status.SocketURL(m.cfg.API.WebsocketBase(), msg.user.Login)
		if err != nil {
			m.logger.Warn().Err(err).Msg("invalid websocket host")
		} else {
			m.channel = status.NewChannel(socketURL)
			m.channel.Start()
			statusCmd = m.waitForStatus()
		}
	}
	return m, statusCmd
}

func (m Model) handleToken(token string) (tea.Model, tea.Cmd) {
	if err := credential.Set(credential.SessionTokenKey, token); err != nil {
		m.logger.Warn().Err(err).Msg("storing session token failed")
	}
	m.client.SetToken(token)
	m.currentView = ViewShorts
	return m, tea.Batch(
		m.resolveSession(),
		m.shortsView.Load(),
		m.challengesView.Load(),
	)
}

func (m Model) openLogin() (tea.Model, tea.Cmd) {
	m.previousView = m.currentView
	m.currentView = ViewLogin
	return m, m.loginView.Start()
}

func (m Model) showError(err error) (Model, tea.Cmd) {
	m.notice = err.Error()
	m.noticeIsErr = true
	m.logger.Warn().Err(err).Msg("operation failed")
	return m, tea.Batch(m.persistNotification(model.NotifyError, err.Error()), expireNotice())
}

func (m Model) showNotice(message string) (Model, tea.Cmd) {
	m.notice = message
	m.noticeIsErr = false
	return m, tea.Batch(m.persistNotification(model.NotifySuccess, message), expireNotice())
}

// persistNotification records the event in the local notification
// table so it survives restarts.
func (m Model) persistNotification(kind string, message string) tea.Cmd {
	st := m.store
	return func() tea.Msg {
		n := model.Notification{Kind: kind, Message: message}
		_ = st.CreateNotification(context.Background(), n)
		return nil
	}
}

func expireNotice() tea.Cmd {
	return tea.Tick(5*time.Second, func(time.Time) tea.Msg {
		return noticeExpiredMsg{}
	})
}

// handleGlobalKeys processes keys that apply regardless of the active
// view. Forms swallow their own input, so view switching is disabled
// while one is active.
func (m Model) handleGlobalKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd, bool) {
	if m.currentView == ViewLogin {
		return m, nil, false
	}

	switch msg.String() {
	case "ctrl+c":
		return m.quit()

	case "q":
		if m.currentView == ViewShorts || m.currentView == ViewChallenges ||
			m.currentView == ViewArchive {
			return m.quit()
		}

	case "?":
		if m.currentView == ViewHelp {
			m.currentView = m.previousView
			return m, nil, true
		}
		m.previousView = m.currentView
		m.currentView = ViewHelp
		return m, nil, true

	case "esc":
		if m.currentView == ViewHelp {
			m.currentView = m.previousView
			return m, nil, true
		}

	case "1":
		if m.switchable() {
			m.currentView = ViewShorts
			return m, nil, true
		}

	case "2":
		if m.switchable() {
			m.currentView = ViewChallenges
			return m, nil, true
		}

	case "3":
		if m.switchable() {
			m.currentView = ViewArchive
			return m, nil, true
		}
	}
	return m, nil, false
}

func (m Model) quit() (tea.Model, tea.Cmd, bool) {
	if m.channel != nil {
		m.channel.Close()
	}
	return m, tea.Quit, true
}

// switchable reports whether top-level view switching is allowed.
func (m Model) switchable() bool {
	return m.currentView != ViewEditor && m.currentView != ViewLogin
}

// updateActiveView dispatches the message to the currently active view.
func (m Model) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch m.currentView {
	case ViewShorts:
		m.shortsView, cmd = m.shortsView.Update(msg)
	case ViewChallenges:
		m.challengesView, cmd = m.challengesView.Update(msg)
	case ViewEditor:
		m.editorView, cmd = m.editorView.Update(msg)
	case ViewArchive:
		m.archiveView, cmd = m.archiveView.Update(msg)
	case ViewLogin:
		m.loginView, cmd = m.loginView.Update(msg)
	case ViewHelp:
		m.helpView, cmd = m.helpView.Update(msg)
	}

	return m, cmd
}

// View renders the full terminal UI using the layout manager.
func (m Model) View() string {
	if !m.ready {
		return "Laden..."
	}

	title := "MiwiTV"
	if m.user != nil {
		title = fmt.Sprintf("MiwiTV · %s", m.user.DisplayName)
	}
	statusText := theme.StreamStatusStyle(m.streamStatus).Render("● " + m.streamStatus)

	header := m.layout.RenderHeader(title, statusText)
	content := m.renderContent()
	statusBar := m.layout.RenderStatusBar(m.statusLine())

	return m.layout.RenderWithFrame(header, content, statusBar)
}

// renderContent returns the rendered string for the current active view.
func (m Model) renderContent() string {
	switch m.currentView {
	case ViewShorts:
		return m.shortsView.View()
	case ViewChallenges:
		return m.challengesView.View()
	case ViewEditor:
		return m.editorView.View()
	case ViewArchive:
		return m.archiveView.View()
	case ViewLogin:
		return m.loginView.View()
	case ViewHelp:
		return m.helpView.View()
	default:
		return ""
	}
}

// statusLine returns the status bar content: a pending notice when one
// is active, otherwise the key hints of the current view.
func (m Model) statusLine() string {
	if m.notice != "" {
		if m.noticeIsErr {
			return theme.ErrorStyle.Render(m.notice)
		}
		return theme.SuccessStyle.Render(m.notice)
	}

	switch m.currentView {
	case ViewShorts:
		return "J/K clip wechseln | l like | tab trending/best | ? hilfe | q beenden"
	case ViewChallenges:
		if m.challengesView.Staff() {
			return "enter auf-/zuklappen | space abhaken | e bearbeiten | n neu | d löschen | q beenden"
		}
		return "enter auf-/zuklappen | r aktualisieren | ? hilfe | q beenden"
	case ViewEditor:
		return "e bearbeiten | n hinzufügen | d entfernen | s speichern | esc zurück"
	case ViewArchive:
		return "j/k blättern | ? hilfe | q beenden"
	case ViewLogin:
		return "enter token übernehmen | esc abbrechen"
	case ViewHelp:
		return "? schließen | esc zurück"
	default:
		return ""
	}
}

// describeStatus maps a channel update to the header's status word.
// An empty result means the displayed status keeps its last value.
func (m Model) describeStatus(u status.Update) string {
	switch u.State {
	case status.StateOpen:
		if u.Status != nil && u.Status.Status != "" {
			return u.Status.Status
		}
		// A bare open says nothing about the stream yet.
		return ""
	case status.StateConnecting:
		return "verbinden..."
	case status.StateReconnecting:
		return fmt.Sprintf("neu verbinden (%d)", u.Attempt)
	default:
		return "offline"
	}
}
