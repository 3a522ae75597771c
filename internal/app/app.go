// Package app is the bubbletea front end: it owns the event loop that
// everything else is confined to, translates key presses into engine
// requests, and composes the page viewport, modal overlay, and panels
// into the final frame.
package app

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/modsurf/modsurf/internal/modal"
	"github.com/modsurf/modsurf/internal/render"
	"github.com/modsurf/modsurf/internal/session"
	"github.com/modsurf/modsurf/internal/snippet"
	"github.com/modsurf/modsurf/internal/storage"
	"github.com/modsurf/modsurf/internal/theme"
	"github.com/modsurf/modsurf/internal/ui"
)

// Mode represents the current input mode.
type Mode int

const (
	ModeNormal Mode = iota
	ModeOpen        // URL bar focused
	ModeFollow      // link follow mode
	ModeVisits      // visit panel active
)

// core holds the collaborators and the state that engine hooks write.
// The bubbletea model is copied by value on every Update; everything
// mutated from inside a hook lives behind this pointer.
type core struct {
	history *session.History
	cache   *snippet.Cache
	engine  *snippet.Engine
	overlay *ui.Overlay
	ext     *modal.Extension

	config *storage.Config
	db     *storage.DB
	visits *storage.VisitLog

	width int

	pageContent string
	pageTitle   string
	pageLinks   []*snippet.Element
	modalLinks  []*snippet.Element

	// pending holds restore requests queued by popstate traversals
	// onto entries whose content is not locally available. The Update
	// loop drains them into fetch commands.
	pending []*snippet.Request

	// reloadNeeded is set when a traversal landed somewhere partial
	// content cannot reconstruct.
	reloadNeeded bool

	viewportDirty bool
	started       bool
}

func (c *core) drainPending() []*snippet.Request {
	p := c.pending
	c.pending = nil
	return p
}

// handleSuccess renders every applied payload: modal-scoped updates go
// into the overlay, everything else into the page state. Runs after
// the modal extension's own success handling.
func (c *core) handleSuccess(ev *snippet.SuccessEvent) {
	p := ev.Payload

	if c.visits != nil && (c.config == nil || c.config.VisitLog) {
		c.visits.Add(p.URL, p.Title, ev.Options.Modal)
	}

	if ev.Options.Modal {
		if !c.overlay.IsShown() {
			// The update's own close signal already hid the overlay.
			return
		}
		w := c.overlay.ContentWidth()
		var page *render.Page
		if p.HasSnippets() {
			page = render.Fragment(joinSnippets(p.Snippets), p.URL, w, true)
		} else if article, err := render.Extract(p); err == nil {
			page = render.Fragment(article.Content, p.URL, w, true)
		} else {
			page = &render.Page{Content: string(p.Body)}
		}
		c.overlay.SetContent(p.Title, page.Content)
		c.modalLinks = page.Links
		return
	}

	var page *render.Page
	if p.HasSnippets() {
		page = render.Snippets(p, c.width)
	} else {
		full, err := render.FullPage(p, c.width)
		if err != nil {
			full = &render.Page{Title: p.Title, Content: string(p.Body)}
		}
		page = full
	}
	c.pageContent = page.Content
	c.pageTitle = p.Title
	c.pageLinks = page.Links
	c.viewportDirty = true
}

func joinSnippets(snippets map[string]string) string {
	keys := make([]string, 0, len(snippets))
	for k := range snippets {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var sb strings.Builder
	for _, k := range keys {
		sb.WriteString(snippets[k])
	}
	return sb.String()
}

// Model is the top-level bubbletea model for modsurf.
type Model struct {
	c *core

	urlBar     ui.URLBar
	statusBar  ui.StatusBar
	viewport   ui.PageViewport
	visitPanel ui.VisitPanel

	keys      KeyMap
	mode      Mode
	width     int
	height    int
	ready     bool
	loading   bool
	startURL  string
	followBuf string
	lastGKey  bool
}

// fetchDoneMsg is sent when a request's network work finishes.
type fetchDoneMsg struct {
	req     *snippet.Request
	payload *snippet.Payload
	err     error
}

// New creates a new modsurf Model.
func New(startURL string) Model {
	config, _ := storage.LoadConfig()

	cacheSize := 64
	cacheEnabled := true
	if config != nil {
		cacheSize = config.CacheSize
		cacheEnabled = config.CacheEnabled
	}
	cache, _ := snippet.NewCache(cacheSize, cacheEnabled)

	location := snippet.NormalizeURL(startURL)
	history := session.NewHistory(location, "modsurf")
	overlay := ui.NewOverlay()
	engine := snippet.NewEngine(snippet.NewFetcher(), history, cache)

	c := &core{
		history: history,
		cache:   cache,
		engine:  engine,
		overlay: overlay,
		config:  config,
	}

	// Storage (best-effort, non-fatal on error).
	if dataDir, err := storage.DataDir(); err == nil {
		if db, dbErr := storage.OpenDB(dataDir); dbErr == nil {
			c.db = db
			c.visits = storage.NewVisitLog(db)
		}
	}

	// The modal extension registers its popstate listener first so it
	// can suppress traversal events it owns; the restore listener
	// below only sees what the extension lets through.
	c.ext = modal.Attach(engine, overlay, modal.ReloaderFunc(func() {
		c.reloadNeeded = true
	}))

	history.OnPopstate(func(ev *session.PopstateEvent) {
		if ev.State == nil {
			return
		}
		if req := engine.Restore(ev.State); req != nil {
			c.pending = append(c.pending, req)
		}
	})

	engine.OnSuccess(c.handleSuccess)

	m := Model{
		c:          c,
		urlBar:     ui.NewURLBar(),
		statusBar:  ui.NewStatusBar(),
		viewport:   ui.NewPageViewport(),
		visitPanel: ui.NewVisitPanel(),
		keys:       DefaultKeyMap(),
		mode:       ModeNormal,
		startURL:   startURL,
	}
	if config != nil && config.Theme != "" {
		theme.Set(config.Theme)
	}
	return m
}

// Close releases the model's persistent resources.
func (m Model) Close() {
	if m.c.db != nil {
		m.c.db.Close()
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	if m.startURL != "" {
		m2 := &m
		return m2.visit(m.startURL)
	}
	return nil
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.c.width = msg.Width
		m.ready = true
		m.layout()
		return m, nil

	case fetchDoneMsg:
		return m.handleFetchDone(msg)

	case tea.KeyMsg:
		return m.handleKeyMsg(msg)
	}

	// Forward to active components.
	vp, cmd := m.viewport.Update(msg)
	m.viewport = *vp
	if cmd != nil {
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

// visit prepares and launches a direct navigation. The very first
// load replaces the stateless initial entry instead of pushing.
func (m *Model) visit(url string) tea.Cmd {
	req := m.c.engine.Visit(url)
	if !m.c.started {
		req.Options.Replace = true
		m.c.started = true
	}
	return m.launch(req)
}

// reload refetches the current location in place.
func (m *Model) reload() tea.Cmd {
	req := m.c.engine.Visit(m.c.history.Location())
	req.Options.Replace = true
	m.c.started = true
	return m.launch(req)
}

func (m *Model) launch(req *snippet.Request) tea.Cmd {
	m.loading = true
	m.statusBar.SetLoading(true)
	m.statusBar.SetMessage("")
	engine := m.c.engine
	return func() tea.Msg {
		p, err := engine.Fetch(req)
		return fetchDoneMsg{req: req, payload: p, err: err}
	}
}

// handleFetchDone finalizes a finished request back on the event loop.
func (m Model) handleFetchDone(msg fetchDoneMsg) (tea.Model, tea.Cmd) {
	m.loading = false
	m.statusBar.SetLoading(false)

	if err := m.c.engine.Apply(msg.req, msg.payload, msg.err); err != nil {
		m.statusBar.SetMessage(fmt.Sprintf("Error: %s", err))
		if !msg.req.Options.Modal {
			errStyle := lipgloss.NewStyle().
				Foreground(theme.Current.Error).
				Bold(true).
				Padding(2, 4)
			detailStyle := lipgloss.NewStyle().
				Foreground(theme.Current.TextDim).
				Padding(0, 4)
			m.c.pageContent = errStyle.Render("Failed to load page") + "\n\n" +
				detailStyle.Render(fmt.Sprintf("URL: %s\nError: %s", msg.req.Options.URL, err))
			m.c.viewportDirty = true
		}
	}

	cmds := m.afterMutation()
	return m, tea.Batch(cmds...)
}

// afterMutation runs after anything that may have moved history or
// changed content: it drains queued restore fetches, honors a
// requested reload, and syncs the visible components.
func (m *Model) afterMutation() []tea.Cmd {
	var cmds []tea.Cmd
	for _, req := range m.c.drainPending() {
		cmds = append(cmds, m.launch(req))
	}
	if m.c.reloadNeeded {
		m.c.reloadNeeded = false
		cmds = append(cmds, m.reload())
	}
	m.syncContent()
	m.syncStatusBar()
	return cmds
}

func (m *Model) syncContent() {
	if m.c.viewportDirty {
		m.viewport.SetContent(m.c.pageContent)
		m.c.viewportDirty = false
	}
}

func (m *Model) syncStatusBar() {
	m.statusBar.SetTitle(m.c.history.Title())
	m.statusBar.SetURL(m.c.history.Location())
	m.urlBar.SetValue(m.c.history.Location())
	m.statusBar.SetScrollInfo(m.viewport.ScrollInfo())
	if m.c.overlay.IsShown() {
		m.statusBar.SetModal(string(m.c.ext.Direction()))
		m.statusBar.SetLinkCount(len(m.c.modalLinks))
	} else {
		m.statusBar.SetModal("")
		m.statusBar.SetLinkCount(len(m.c.pageLinks))
	}
}

// handleKeyMsg processes key events based on current mode.
func (m Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Always allow Ctrl+C to quit.
	if msg.String() == "ctrl+c" {
		m.Close()
		return m, tea.Quit
	}

	switch m.mode {
	case ModeOpen:
		return m.handleOpenMode(msg)
	case ModeFollow:
		return m.handleFollowMode(msg)
	case ModeVisits:
		return m.handleVisitsMode(msg)
	default:
		return m.handleNormalMode(msg)
	}
}

// handleNormalMode processes keys in normal (browsing) mode.
func (m Model) handleNormalMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.Close()
		return m, tea.Quit

	case key.Matches(msg, m.keys.OpenURL):
		m.mode = ModeOpen
		m.statusBar.SetMode("OPEN")
		m.urlBar.Reset()
		return m, m.urlBar.Focus()

	case key.Matches(msg, m.keys.FollowLink):
		m.mode = ModeFollow
		m.followBuf = ""
		m.statusBar.SetMode("FOLLOW")
		m.statusBar.SetMessage("follow: ")
		return m, nil

	case key.Matches(msg, m.keys.Help):
		m.showHelp()
		return m, nil

	case key.Matches(msg, m.keys.Back):
		if !m.c.history.Back() {
			m.statusBar.SetMessage("Nothing backward")
			return m, nil
		}
		return m, tea.Batch(m.afterMutation()...)

	case key.Matches(msg, m.keys.Forward):
		if !m.c.history.Forward() {
			m.statusBar.SetMessage("Nothing forward")
			return m, nil
		}
		return m, tea.Batch(m.afterMutation()...)

	case key.Matches(msg, m.keys.Reload):
		m2 := &m
		cmd := m2.reload()
		return *m2, cmd

	case key.Matches(msg, m.keys.CloseModal):
		if m.c.overlay.IsShown() {
			// Closing by hand runs the direction-appropriate history
			// reconciliation through the modal extension.
			m.c.overlay.Hide()
			return m, tea.Batch(m.afterMutation()...)
		}
		return m, nil

	case key.Matches(msg, m.keys.VisitsToggle):
		if m.c.visits == nil {
			m.statusBar.SetMessage("Visit log unavailable")
			return m, nil
		}
		m.visitPanel.SetVisits(m.c.visits.Recent(200))
		m.visitPanel.Show()
		m.mode = ModeVisits
		m.statusBar.SetMode("VISITS")
		m.layout()
		return m, nil

	case key.Matches(msg, m.keys.GotoTop):
		if m.lastGKey {
			m.viewport.GotoTop()
			m.lastGKey = false
		} else {
			m.lastGKey = true
		}
		return m, nil

	case key.Matches(msg, m.keys.GotoBottom):
		m.lastGKey = false
		m.viewport.GotoBottom()
		return m, nil

	case key.Matches(msg, m.keys.ScrollDown):
		m.lastGKey = false
		m.viewport.LineDown(1)
		m.statusBar.SetScrollInfo(m.viewport.ScrollInfo())
		return m, nil

	case key.Matches(msg, m.keys.ScrollUp):
		m.lastGKey = false
		m.viewport.LineUp(1)
		m.statusBar.SetScrollInfo(m.viewport.ScrollInfo())
		return m, nil

	case key.Matches(msg, m.keys.HalfPageDown):
		m.viewport.HalfPageDown()
		m.statusBar.SetScrollInfo(m.viewport.ScrollInfo())
		return m, nil

	case key.Matches(msg, m.keys.HalfPageUp):
		m.viewport.HalfPageUp()
		m.statusBar.SetScrollInfo(m.viewport.ScrollInfo())
		return m, nil
	}

	m.lastGKey = false
	return m, nil
}

// handleOpenMode processes keys while the URL bar is focused.
func (m Model) handleOpenMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.urlBar.Blur()
		m.mode = ModeNormal
		m.statusBar.SetMode("NORMAL")
		return m, nil
	case "enter":
		url := strings.TrimSpace(m.urlBar.Value())
		m.urlBar.Blur()
		m.mode = ModeNormal
		m.statusBar.SetMode("NORMAL")
		if url == "" {
			return m, nil
		}
		m2 := &m
		cmd := m2.visit(url)
		return *m2, cmd
	}

	ub, cmd := m.urlBar.Update(msg)
	m.urlBar = *ub
	return m, cmd
}

// handleFollowMode collects a link number and triggers its navigation.
func (m Model) handleFollowMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	s := msg.String()
	switch s {
	case "esc":
		m.mode = ModeNormal
		m.statusBar.SetMode("NORMAL")
		m.statusBar.SetMessage("")
		return m, nil
	case "enter":
		m.mode = ModeNormal
		m.statusBar.SetMode("NORMAL")
		m.statusBar.SetMessage("")
		return m.followLink(m.followBuf)
	case "backspace":
		if len(m.followBuf) > 0 {
			m.followBuf = m.followBuf[:len(m.followBuf)-1]
		}
		m.statusBar.SetMessage("follow: " + m.followBuf)
		return m, nil
	}

	if len(s) == 1 && s >= "0" && s <= "9" {
		m.followBuf += s
		m.statusBar.SetMessage("follow: " + m.followBuf)
	}
	return m, nil
}

// followLink resolves a typed link number against the links of
// whatever surface is on top: the modal's content while it is open,
// the page otherwise.
func (m Model) followLink(input string) (tea.Model, tea.Cmd) {
	idx, err := strconv.Atoi(input)
	if err != nil {
		m.statusBar.SetMessage("Not a link number")
		return m, nil
	}

	links := m.c.pageLinks
	if m.c.overlay.IsShown() {
		links = m.c.modalLinks
	}

	for _, el := range links {
		if el.Index == idx {
			req := m.c.engine.NewRequest(el)
			m2 := &m
			cmd := m2.launch(req)
			cmds := append([]tea.Cmd{cmd}, m2.afterMutation()...)
			return *m2, tea.Batch(cmds...)
		}
	}

	m.statusBar.SetMessage(fmt.Sprintf("No link [%d]", idx))
	return m, nil
}

// handleVisitsMode processes keys while the visit panel is open.
func (m Model) handleVisitsMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "V", "q":
		m.visitPanel.Hide()
		m.mode = ModeNormal
		m.statusBar.SetMode("NORMAL")
		m.layout()
		return m, nil
	case "j", "down":
		m.visitPanel.CursorDown()
		return m, nil
	case "k", "up":
		m.visitPanel.CursorUp()
		return m, nil
	case "g":
		m.visitPanel.HandleGKey()
		return m, nil
	case "G":
		m.visitPanel.GotoBottom()
		return m, nil
	case "enter":
		selected := m.visitPanel.Selected()
		m.visitPanel.Hide()
		m.mode = ModeNormal
		m.statusBar.SetMode("NORMAL")
		m.layout()
		if selected == nil {
			return m, nil
		}
		m2 := &m
		cmd := m2.visit(selected.URL)
		return *m2, cmd
	}
	m.visitPanel.ResetGKey()
	return m, nil
}

// showHelp displays the keybinding reference in the viewport. The page
// content is untouched; any navigation or reload brings it back.
func (m *Model) showHelp() {
	t := theme.Current

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(t.Primary).
		MarginBottom(1)

	sectionStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(t.Accent).
		MarginTop(1)

	keyStyle := lipgloss.NewStyle().
		Foreground(t.Secondary).
		Width(16)

	descStyle := lipgloss.NewStyle().
		Foreground(t.Text)

	var sb strings.Builder

	sb.WriteString(titleStyle.Render("modsurf Keybindings"))
	sb.WriteString("\n\n")

	sections := []struct {
		name string
		keys []struct{ k, d string }
	}{
		{"Navigation", []struct{ k, d string }{
			{"j / Down", "Scroll down"},
			{"k / Up", "Scroll up"},
			{"Ctrl+d", "Half page down"},
			{"Ctrl+u", "Half page up"},
			{"gg", "Go to top"},
			{"G", "Go to bottom"},
		}},
		{"Browsing", []struct{ k, d string }{
			{"o", "Open URL"},
			{"f", "Follow link by number"},
			{"H", "Go back in history"},
			{"L", "Go forward in history"},
			{"r", "Reload page"},
			{"V", "Toggle visit panel"},
		}},
		{"Modals", []struct{ k, d string }{
			{"f", "Links marked ◈ open in a modal"},
			{"Esc", "Close the open modal"},
			{"H", "Back also closes a modal"},
		}},
		{"General", []struct{ k, d string }{
			{"?", "Show this help"},
			{"q / Ctrl+c", "Quit modsurf"},
		}},
	}

	for _, section := range sections {
		sb.WriteString(sectionStyle.Render(section.name))
		sb.WriteString("\n\n")
		for _, binding := range section.keys {
			sb.WriteString(keyStyle.Render(binding.k))
			sb.WriteString(descStyle.Render(binding.d))
			sb.WriteString("\n")
		}
		sb.WriteString("\n")
	}

	m.viewport.SetContent(sb.String())
	m.statusBar.SetTitle("Help - Keybindings")
	m.statusBar.SetLinkCount(0)
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "\n  Loading modsurf..."
	}

	var sections []string

	sections = append(sections, m.urlBar.View())

	if m.visitPanel.IsVisible() {
		t := theme.Current
		dividerStyle := lipgloss.NewStyle().
			Foreground(t.Border).
			Background(t.Background)

		dividerHeight := m.contentHeight()
		var dividerLines []string
		for i := 0; i < dividerHeight; i++ {
			dividerLines = append(dividerLines, "│")
		}
		divider := dividerStyle.Render(strings.Join(dividerLines, "\n"))

		content := lipgloss.JoinHorizontal(lipgloss.Top,
			m.visitPanel.View(),
			divider,
			m.viewport.View(),
		)
		sections = append(sections, content)
	} else {
		sections = append(sections, m.viewport.View())
	}

	sections = append(sections, m.statusBar.View())

	result := lipgloss.JoinVertical(lipgloss.Left, sections...)

	// The modal overlay floats centered above everything else.
	if m.c.overlay.IsShown() {
		result = lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center,
			m.c.overlay.View(),
			lipgloss.WithWhitespaceChars(" "),
			lipgloss.WithWhitespaceForeground(theme.Current.Background),
		)
	}

	return result
}

func (m Model) contentHeight() int {
	urlBarHeight := 3 // border adds height
	statusBarHeight := 1
	h := m.height - urlBarHeight - statusBarHeight
	if h < 1 {
		h = 1
	}
	return h
}

// layout recalculates dimensions for all components.
func (m *Model) layout() {
	m.urlBar.SetWidth(m.width)
	m.statusBar.SetWidth(m.width)
	m.c.overlay.SetSize(m.width, m.height)

	viewportHeight := m.contentHeight()
	viewportWidth := m.width
	if m.visitPanel.IsVisible() {
		panelWidth := m.width * 30 / 100
		if panelWidth < 20 {
			panelWidth = 20
		}
		m.visitPanel.SetSize(panelWidth, viewportHeight)
		viewportWidth = m.width - panelWidth - 1 // -1 for divider
	}

	m.viewport.SetSize(viewportWidth, viewportHeight)
}
