package ui

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/spindle/internal/formatter"
	"github.com/desertthunder/spindle/internal/models"
	"github.com/desertthunder/spindle/internal/pages"
	"github.com/desertthunder/spindle/internal/session"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	HomeView ViewState = iota
	AlbumView
	ProfileView
	LoginView
)

func (v ViewState) String() string {
	switch v {
	case HomeView:
		return "home"
	case AlbumView:
		return "album"
	case ProfileView:
		return "profile"
	case LoginView:
		return "login"
	default:
		return "unknown"
	}
}

// SessionSource is the session store as the TUI sees it.
type SessionSource interface {
	pages.Sessions
	Subscribe(fn session.Listener) (unsubscribe func())
}

// Controllers bundles the page controllers the TUI drives.
type Controllers struct {
	Home     *pages.Home
	Album    *pages.AlbumDetail
	Profile  *pages.Profile
	Auth     *pages.Auth
	Sessions SessionSource
}

// Model represents the TUI application state.
type Model struct {
	ctx         context.Context
	view        ViewState
	pages       Controllers
	width       int
	height      int
	albums      list.Model
	search      textinput.Model
	searching   bool
	review      textarea.Model
	composing   bool
	credentials []textinput.Model
	focus       int
	spinner     spinner.Model
	busy        bool
	status      string
	err         error
	help        help.Model
	keys        keyMap

	user        string
	userSeq     uint64
	sessionSeq  atomic.Uint64
	unsubscribe func()
}

// NewModel creates a new TUI model over the provided controllers.
func NewModel(ctx context.Context, c Controllers) *Model {
	albums := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	albums.Title = "Albums"
	albums.SetFilteringEnabled(false)
	albums.SetShowHelp(false)

	search := textinput.New()
	search.Prompt = "/ "
	search.Placeholder = "album or artist"

	review := textarea.New()
	review.Placeholder = "What did you think?"
	review.ShowLineNumbers = false
	review.SetHeight(4)

	email := textinput.New()
	email.Prompt = "Email:    "
	email.Placeholder = "you@example.com"

	password := textinput.New()
	password.Prompt = "Password: "
	password.EchoMode = textinput.EchoPassword

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styles.spinner

	user, _ := c.Sessions.Get()

	return &Model{
		user:        user,
		ctx:         ctx,
		view:        HomeView,
		pages:       c,
		albums:      albums,
		search:      search,
		review:      review,
		credentials: []textinput.Model{email, password},
		spinner:     sp,
		help:        help.New(),
		keys:        newKeyMap(),
	}
}

// Watch forwards every session change to send as a [MsgSessionChanged].
//
// send runs while the session store is locked and must not block or touch the store; wrap
// [tea.Program.Send] in a goroutine.
func (m *Model) Watch(send func(tea.Msg)) {
	m.Close()
	m.unsubscribe = m.pages.Sessions.Subscribe(func(s models.Session) {
		send(sessionChangedMsg(m.sessionSeq.Add(1), s.Username))
	})
}

// Close stops forwarding session changes.
func (m *Model) Close() {
	if m.unsubscribe != nil {
		m.unsubscribe()
		m.unsubscribe = nil
	}
}

// Init loads the album list.
func (m *Model) Init() tea.Cmd {
	return m.start(m.loadAlbums())
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.albums.SetSize(msg.Width-4, msg.Height-8)
		m.review.SetWidth(msg.Width - 4)
		return m, nil

	case spinner.TickMsg:
		if !m.busy {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case Msg:
		return m.handleMsg(msg)

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		switch m.view {
		case HomeView:
			return m.handleHomeKeys(msg)
		case AlbumView:
			return m.handleAlbumKeys(msg)
		case ProfileView:
			return m.handleProfileKeys(msg)
		case LoginView:
			return m.handleLoginKeys(msg)
		}
	}

	return m, nil
}

func (m *Model) handleMsg(msg Msg) (tea.Model, tea.Cmd) {
	if msg.kind == MsgSessionChanged {
		if msg.seq > m.userSeq {
			m.userSeq = msg.seq
			m.user = msg.user
		}
		return m, nil
	}

	m.busy = false

	switch msg.kind {
	case MsgAlbumsLoaded:
		// A failed load already degraded to an empty list.
		return m, m.albums.SetItems(albumItems(m.pages.Home.Snapshot().Albums))

	case MsgAlbumLoaded:
		return m, nil

	case MsgCommentPosted:
		view := m.pages.Album.Snapshot()
		if view.FormError == nil && !view.Submitting {
			m.review.Reset()
			m.review.Blur()
			m.composing = false
			m.status = "Review posted."
		}
		return m, nil

	case MsgProfileLoaded:
		if msg.outcome == pages.RedirectHome {
			m.view = HomeView
			m.status = "Log in to see your profile."
		}
		return m, nil

	case MsgAccountDeleted:
		if msg.outcome == pages.RedirectHome {
			m.view = HomeView
			m.status = "Account deleted."
			return m, m.start(m.loadAlbums())
		}
		return m, nil

	case MsgLoggedIn:
		m.err = msg.err
		if msg.err != nil {
			return m, nil
		}
		m.resetCredentials()
		m.view = HomeView
		m.status = fmt.Sprintf("Signed in as %s.", msg.user)
	}
	return m, nil
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	var body string
	switch m.view {
	case HomeView:
		body = m.renderHome()
	case AlbumView:
		body = m.renderAlbum()
	case ProfileView:
		body = m.renderProfile()
	case LoginView:
		body = m.renderLogin()
	}

	if m.status != "" {
		body = fmt.Sprintf("%s\n\n%s", body, styles.ok.Render(m.status))
	}
	return body
}

func (m *Model) handleHomeKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.searching {
		switch {
		case key.Matches(msg, m.keys.enter):
			m.searching = false
			m.search.Blur()
			m.pages.Home.SetSearchTerm(m.search.Value())
			return m, m.start(m.loadAlbums())
		case key.Matches(msg, m.keys.back):
			m.searching = false
			m.search.Blur()
			return m, nil
		}
		var cmd tea.Cmd
		m.search, cmd = m.search.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.search):
		m.searching = true
		return m, m.search.Focus()
	case key.Matches(msg, m.keys.enter):
		if item, ok := m.albums.SelectedItem().(albumItem); ok {
			return m, m.openAlbum(item.album.ID)
		}
		return m, nil
	case key.Matches(msg, m.keys.reload):
		return m, m.start(m.loadAlbums())
	case key.Matches(msg, m.keys.profile):
		return m, m.openProfile()
	case key.Matches(msg, m.keys.login):
		if m.user != "" {
			return m, nil
		}
		m.status = ""
		m.err = nil
		m.view = LoginView
		return m, m.focusCredential(0)
	case key.Matches(msg, m.keys.logout):
		if err := m.pages.Auth.Logout(); err != nil {
			m.status = ""
			m.err = err
			return m, nil
		}
		m.status = "Signed out."
		return m, nil
	}

	var cmd tea.Cmd
	m.albums, cmd = m.albums.Update(msg)
	return m, cmd
}

func (m *Model) handleAlbumKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.composing {
		switch {
		case key.Matches(msg, m.keys.submit):
			return m, m.postComment()
		case key.Matches(msg, m.keys.back):
			m.composing = false
			m.review.Blur()
			m.adjustRating(0)
			return m, nil
		}
		var cmd tea.Cmd
		m.review, cmd = m.review.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.back):
		m.view = HomeView
		m.status = ""
		return m, nil
	case key.Matches(msg, m.keys.reload):
		return m, m.start(m.loadAlbum())
	case key.Matches(msg, m.keys.compose):
		m.status = ""
		m.composing = true
		return m, m.review.Focus()
	case key.Matches(msg, m.keys.plus):
		m.adjustRating(1)
	case key.Matches(msg, m.keys.minus):
		m.adjustRating(-1)
	case key.Matches(msg, m.keys.submit):
		return m, m.postComment()
	}
	return m, nil
}

func (m *Model) handleProfileKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.pages.Profile.Snapshot().Confirming {
		switch {
		case key.Matches(msg, m.keys.yes):
			return m, m.start(m.deleteAccount())
		case key.Matches(msg, m.keys.no), key.Matches(msg, m.keys.back):
			m.pages.Profile.CancelDelete()
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.back):
		m.view = HomeView
		return m, nil
	case key.Matches(msg, m.keys.reload):
		return m, m.start(m.reloadProfile())
	case key.Matches(msg, m.keys.remove):
		m.status = ""
		m.pages.Profile.RequestDelete()
	}
	return m, nil
}

func (m *Model) handleLoginKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.back):
		m.resetCredentials()
		m.err = nil
		m.view = HomeView
		return m, nil
	case key.Matches(msg, m.keys.next):
		return m, m.focusCredential((m.focus + 1) % len(m.credentials))
	case key.Matches(msg, m.keys.enter):
		if m.focus < len(m.credentials)-1 {
			return m, m.focusCredential(m.focus + 1)
		}
		return m, m.start(m.login())
	}

	var cmd tea.Cmd
	m.credentials[m.focus], cmd = m.credentials[m.focus].Update(msg)
	return m, cmd
}

// start marks the model busy and runs cmd alongside the spinner.
func (m *Model) start(cmd tea.Cmd) tea.Cmd {
	m.busy = true
	return tea.Batch(m.spinner.Tick, cmd)
}

func (m *Model) openAlbum(id int) tea.Cmd {
	if m.pages.Album.Snapshot().AlbumID != id {
		m.review.Reset()
	}
	m.view = AlbumView
	m.status = ""
	m.composing = false

	ctx, album := m.ctx, m.pages.Album
	return m.start(func() tea.Msg {
		return albumLoadedMsg(album.SetAlbum(ctx, id))
	})
}

func (m *Model) openProfile() tea.Cmd {
	m.view = ProfileView
	m.status = ""

	ctx, profile := m.ctx, m.pages.Profile
	return m.start(func() tea.Msg {
		outcome, err := profile.Open(ctx)
		return profileLoadedMsg(outcome, err)
	})
}

// adjustRating copies the textarea into the draft and moves the rating by delta within bounds.
func (m *Model) adjustRating(delta int) {
	draft := m.pages.Album.Snapshot().Draft
	rating := min(max(draft.Rating+delta, models.MinRating), models.MaxRating)
	m.pages.Album.SetDraft(rating, m.review.Value())
}

func (m *Model) postComment() tea.Cmd {
	m.adjustRating(0)

	ctx, album := m.ctx, m.pages.Album
	return m.start(func() tea.Msg {
		return commentPostedMsg(album.Submit(ctx))
	})
}

func (m *Model) focusCredential(i int) tea.Cmd {
	for j := range m.credentials {
		m.credentials[j].Blur()
	}
	m.focus = i
	return m.credentials[i].Focus()
}

func (m *Model) resetCredentials() {
	for i := range m.credentials {
		m.credentials[i].Reset()
		m.credentials[i].Blur()
	}
	m.focus = 0
}

func (m *Model) loadAlbums() tea.Cmd {
	ctx, home := m.ctx, m.pages.Home
	return func() tea.Msg {
		return albumsLoadedMsg(home.Load(ctx))
	}
}

func (m *Model) loadAlbum() tea.Cmd {
	ctx, album := m.ctx, m.pages.Album
	return func() tea.Msg {
		return albumLoadedMsg(album.Load(ctx))
	}
}

func (m *Model) reloadProfile() tea.Cmd {
	ctx, profile := m.ctx, m.pages.Profile
	return func() tea.Msg {
		outcome, err := profile.Reload(ctx)
		return profileLoadedMsg(outcome, err)
	}
}

func (m *Model) deleteAccount() tea.Cmd {
	ctx, profile := m.ctx, m.pages.Profile
	return func() tea.Msg {
		outcome, err := profile.ConfirmDelete(ctx)
		return accountDeletedMsg(outcome, err)
	}
}

func (m *Model) login() tea.Cmd {
	ctx, auth := m.ctx, m.pages.Auth
	email, password := m.credentials[0].Value(), m.credentials[1].Value()
	return func() tea.Msg {
		username, err := auth.Login(ctx, email, password)
		return loggedInMsg(username, err)
	}
}

func (m *Model) renderHome() string {
	var b strings.Builder

	if m.user != "" {
		b.WriteString(styles.help.Render("Signed in as " + m.user))
	} else {
		b.WriteString(styles.help.Render("Browsing anonymously"))
	}
	b.WriteString("\n")

	if m.searching || m.search.Value() != "" {
		b.WriteString(m.search.View())
		b.WriteString("\n")
	}

	view := m.pages.Home.Snapshot()
	switch {
	case m.busy:
		b.WriteString(m.spinner.View() + " Loading albums...")
	case view.Empty():
		b.WriteString(styles.warn.Render("No albums found."))
	default:
		b.WriteString(m.albums.View())
	}

	helpKeys := []key.Binding{m.keys.enter, m.keys.search, m.keys.profile}
	if m.user != "" {
		helpKeys = append(helpKeys, m.keys.logout)
	} else {
		helpKeys = append(helpKeys, m.keys.login)
	}
	helpKeys = append(helpKeys, m.keys.reload, m.keys.quit)

	return fmt.Sprintf("%s\n\n%s", b.String(), m.help.ShortHelpView(helpKeys))
}

func (m *Model) renderAlbum() string {
	view := m.pages.Album.Snapshot()
	helpView := m.help.ShortHelpView([]key.Binding{m.keys.back, m.keys.reload, m.keys.quit})

	switch view.State {
	case pages.Idle, pages.Loading:
		return fmt.Sprintf("%s Loading album...\n\n%s", m.spinner.View(), helpView)
	case pages.NotFound:
		return fmt.Sprintf("%s\n\n%s", styles.warn.Render("Album not found."), helpView)
	case pages.Failed:
		return fmt.Sprintf("%s\n\n%s", styles.err.Render(fmt.Sprintf("Could not load album: %v", view.Err)), helpView)
	}

	var b strings.Builder
	b.WriteString(styles.title.Render(view.Album.Title))
	b.WriteString("\n")
	fmt.Fprintf(&b, "%s %s\n", styles.label.Render("Artist:"), view.Album.ArtistName)
	if released := view.Album.ReleaseDate.String(); released != "" {
		fmt.Fprintf(&b, "%s %s\n", styles.label.Render("Released:"), released)
	}
	if len(view.Genres) > 0 {
		fmt.Fprintf(&b, "%s %s\n", styles.label.Render("Genres:"), formatter.GenreNames(view.Genres))
	}

	fmt.Fprintf(&b, "\n%s\n", styles.label.Render(fmt.Sprintf("Reviews (%d)", len(view.Comments))))
	if len(view.Comments) == 0 {
		b.WriteString(styles.help.Render("No reviews yet."))
		b.WriteString("\n")
	}
	for _, c := range view.Comments {
		fmt.Fprintf(&b, "%s %s\n  %s\n", styles.stars(c.Rating), c.Author(), c.CommentText)
	}

	fmt.Fprintf(&b, "\n%s %s (%d/%d)\n",
		styles.label.Render("Your rating:"), styles.stars(view.Draft.Rating), view.Draft.Rating, models.MaxRating)
	b.WriteString(m.review.View())
	b.WriteString("\n")

	if view.Submitting {
		b.WriteString(m.spinner.View() + " Posting review...\n")
	}
	if view.FormError != nil {
		b.WriteString(styles.err.Render(fmt.Sprintf("Could not post review: %v", view.FormError)))
		b.WriteString("\n")
	}

	var helpKeys []key.Binding
	if m.composing {
		helpKeys = []key.Binding{m.keys.submit, m.keys.back}
	} else {
		helpKeys = []key.Binding{m.keys.compose, m.keys.plus, m.keys.minus, m.keys.submit, m.keys.back, m.keys.quit}
	}
	return fmt.Sprintf("%s\n%s", b.String(), m.help.ShortHelpView(helpKeys))
}

func (m *Model) renderProfile() string {
	view := m.pages.Profile.Snapshot()

	var b strings.Builder
	b.WriteString(styles.title.Render(fmt.Sprintf("%s's reviews", view.Username)))
	b.WriteString("\n")

	switch view.State {
	case pages.Idle, pages.Loading:
		b.WriteString(m.spinner.View() + " Loading reviews...")
	case pages.Failed:
		b.WriteString(styles.err.Render(fmt.Sprintf("Could not load reviews: %v", view.Err)))
	default:
		b.Write(formatter.CommentsToText(view.Comments, true))
	}

	if view.Err != nil && view.State != pages.Failed {
		fmt.Fprintf(&b, "\n%s", styles.err.Render(fmt.Sprintf("Could not delete account: %v", view.Err)))
	}

	if view.Deleting {
		fmt.Fprintf(&b, "\n%s Deleting account...", m.spinner.View())
	}

	if view.Confirming {
		prompt := styles.warn.Render("Delete your account and all of your reviews?")
		return fmt.Sprintf("%s\n\n%s\n\n%s", b.String(), prompt,
			m.help.ShortHelpView([]key.Binding{m.keys.yes, m.keys.no}))
	}

	helpKeys := []key.Binding{m.keys.remove, m.keys.reload, m.keys.back, m.keys.quit}
	return fmt.Sprintf("%s\n\n%s", b.String(), m.help.ShortHelpView(helpKeys))
}

func (m *Model) renderLogin() string {
	var b strings.Builder
	b.WriteString(styles.title.Render("Log in"))
	b.WriteString("\n")
	for _, input := range m.credentials {
		b.WriteString(input.View())
		b.WriteString("\n")
	}

	if m.busy {
		fmt.Fprintf(&b, "\n%s Signing in...", m.spinner.View())
	}
	if m.err != nil {
		fmt.Fprintf(&b, "\n%s", styles.err.Render(m.err.Error()))
	}

	helpKeys := []key.Binding{m.keys.next, m.keys.enter, m.keys.back}
	return fmt.Sprintf("%s\n\n%s", b.String(), m.help.ShortHelpView(helpKeys))
}
