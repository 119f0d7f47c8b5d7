package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jask/crewdeck/internal/catalog"
	"github.com/jask/crewdeck/internal/config"
	"github.com/jask/crewdeck/internal/database/repository"
	"github.com/jask/crewdeck/internal/demo"
	"github.com/jask/crewdeck/internal/sim"
)

// App is the portal's view-state container: the active screen, the selection
// pointers and search terms per screen, and the newest-first run snapshots
// mirrored from the board.
type App struct {
	ctx      context.Context
	cfg      config.Config
	repos    Repos
	services Services
	tz       *time.Location

	keys     *KeyRegistry
	commands *CommandRegistry

	screen screen
	width  int
	height int

	skills    []catalog.Skill
	flows     []catalog.FlowSpec
	runbooks  []catalog.Runbook
	incidents []catalog.IncidentBundle
	apps      []catalog.PortalApp

	runs    []*sim.Run
	events  <-chan *sim.Run
	history []demo.ActivityPoint

	// console
	consoleCursor int
	consoleTop    int
	consoleQuery  string
	selectedRunID string // empty follows the newest run

	// library
	libraryTab    libraryTab
	libraryCursor int
	libraryTop    int
	libraryQuery  string

	// viewer
	viewerKind   viewerKind
	viewerID     string
	viewerScroll int

	// shared search editor
	search       textinput.Model
	searchActive bool

	// palette
	paletteOpen    bool
	paletteQuery   string
	paletteCursor  int
	paletteScroll  int
	paletteScope   string
	paletteMatches []CommandMatch

	spinner   spinner.Model
	status    string
	statusErr bool
}

// Repos are the catalog read models backing the screens.
type Repos struct {
	Skills    *repository.SkillRepo
	Flows     *repository.FlowRepo
	Runbooks  *repository.RunbookRepo
	Incidents *repository.IncidentRepo
	Apps      *repository.AppRepo
}

// Services are the live run machinery shared with the simulator.
type Services struct {
	Runner *sim.Runner
	Board  *sim.Board
}

type screen string

const (
	screenDashboard screen = "dashboard"
	screenConsole   screen = "console"
	screenLibrary   screen = "library"
	screenViewer    screen = "viewer"
)

var screenOrder = []screen{screenDashboard, screenConsole, screenLibrary, screenViewer}

func nextScreen(s screen) screen {
	for i, sc := range screenOrder {
		if sc == s {
			return screenOrder[(i+1)%len(screenOrder)]
		}
	}
	return screenOrder[0]
}

func prevScreen(s screen) screen {
	for i, sc := range screenOrder {
		if sc == s {
			return screenOrder[(i-1+len(screenOrder))%len(screenOrder)]
		}
	}
	return screenOrder[0]
}

type libraryTab int

const (
	libTabFlows libraryTab = iota
	libTabRunbooks
	libTabIncidents
	libTabApps
	libTabCount
)

func (t libraryTab) title() string {
	switch t {
	case libTabFlows:
		return "Flow Specs"
	case libTabRunbooks:
		return "Runbooks"
	case libTabIncidents:
		return "Incidents"
	case libTabApps:
		return "Portal Apps"
	default:
		return "?"
	}
}

type viewerKind string

const (
	viewerNone     viewerKind = ""
	viewerFlow     viewerKind = "flow"
	viewerRunbook  viewerKind = "runbook"
	viewerIncident viewerKind = "incident"
	viewerApp      viewerKind = "app"
)

func New(ctx context.Context, cfg config.Config, repos Repos, services Services, cat *catalog.Catalog, tz *time.Location) *App {
	if tz == nil {
		tz = time.Local
	}
	search := textinput.New()
	search.Placeholder = "type to filter"
	search.Prompt = "/ "
	search.CharLimit = 64

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(colorAccent)

	a := &App{
		ctx:      ctx,
		cfg:      cfg,
		repos:    repos,
		services: services,
		tz:       tz,
		keys:     NewKeyRegistry(),
		screen:   screenDashboard,
		search:   search,
		spinner:  sp,
		history:  demo.History(time.Now().In(tz), activityDays),
	}
	a.commands = NewCommandRegistry(cat)
	return a
}

func (a *App) Init() tea.Cmd {
	cmds := []tea.Cmd{
		a.loadSkills(),
		a.loadFlows(),
		a.loadRunbooks(),
		a.loadIncidents(),
		a.loadApps(),
		a.spinner.Tick,
	}
	if a.services.Board != nil && a.events == nil {
		a.events = a.services.Board.Subscribe()
		a.runs = a.services.Board.Runs()
		cmds = append(cmds, a.listenRuns())
	}
	return tea.Batch(cmds...)
}

// ---------------------------------------------------------------------------
// Load commands
// ---------------------------------------------------------------------------

func (a *App) loadSkills() tea.Cmd {
	return func() tea.Msg {
		list, err := a.repos.Skills.List(a.ctx)
		if err != nil {
			return errMsg{err}
		}
		return skillsMsg(list)
	}
}

func (a *App) loadFlows() tea.Cmd {
	return func() tea.Msg {
		list, err := a.repos.Flows.List(a.ctx)
		if err != nil {
			return errMsg{err}
		}
		return flowsMsg(list)
	}
}

func (a *App) loadRunbooks() tea.Cmd {
	return func() tea.Msg {
		list, err := a.repos.Runbooks.List(a.ctx)
		if err != nil {
			return errMsg{err}
		}
		return runbooksMsg(list)
	}
}

func (a *App) loadIncidents() tea.Cmd {
	return func() tea.Msg {
		list, err := a.repos.Incidents.List(a.ctx)
		if err != nil {
			return errMsg{err}
		}
		return incidentsMsg(list)
	}
}

func (a *App) loadApps() tea.Cmd {
	return func() tea.Msg {
		list, err := a.repos.Apps.List(a.ctx)
		if err != nil {
			return errMsg{err}
		}
		return appsMsg(list)
	}
}

// listenRuns blocks on the board subscription and re-arms after every event.
// Without a subscription it returns nil so update chains stay finite.
func (a *App) listenRuns() tea.Cmd {
	if a.events == nil {
		return nil
	}
	ch := a.events
	return func() tea.Msg {
		run, ok := <-ch
		if !ok {
			return nil
		}
		return runEventMsg{run: run}
	}
}

// ---------------------------------------------------------------------------
// Update
// ---------------------------------------------------------------------------

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch m := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = m.Width
		a.height = m.Height
		a.ensureConsoleCursorInWindow()
		a.ensureLibraryCursorInWindow()
		return a, nil
	case tea.KeyMsg:
		return a.handleKey(m)
	case spinner.TickMsg:
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(m)
		return a, cmd
	case runEventMsg:
		if a.services.Board != nil {
			a.runs = a.services.Board.Runs()
		}
		return a, a.listenRuns()
	case skillsMsg:
		a.skills = []catalog.Skill(m)
		if a.consoleCursor >= len(a.skills) {
			a.consoleCursor = 0
			a.consoleTop = 0
		}
	case flowsMsg:
		a.flows = []catalog.FlowSpec(m)
	case runbooksMsg:
		a.runbooks = []catalog.Runbook(m)
	case incidentsMsg:
		a.incidents = []catalog.IncidentBundle(m)
	case appsMsg:
		a.apps = []catalog.PortalApp(m)
	case statusMsg:
		a.setStatus(string(m))
	case errMsg:
		a.setError("Error: " + m.Error())
	}
	return a, nil
}

func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if a.paletteOpen {
		return a.handlePaletteKey(msg)
	}
	if a.searchActive {
		return a.handleSearchKey(msg)
	}
	switch {
	case a.isAction(scopeGlobal, actionQuit, msg):
		return a, tea.Quit
	case a.isAction(scopeGlobal, actionPalette, msg):
		a.openPalette()
		return a, nil
	case a.isAction(scopeGlobal, actionNextScreen, msg):
		a.setScreen(nextScreen(a.screen))
		return a, nil
	case a.isAction(scopeGlobal, actionPrevScreen, msg):
		a.setScreen(prevScreen(a.screen))
		return a, nil
	case a.isAction(scopeGlobal, actionGoDashboard, msg):
		a.setScreen(screenDashboard)
		return a, nil
	case a.isAction(scopeGlobal, actionGoConsole, msg):
		a.setScreen(screenConsole)
		return a, nil
	case a.isAction(scopeGlobal, actionGoLibrary, msg):
		a.setScreen(screenLibrary)
		return a, nil
	case a.isAction(scopeGlobal, actionGoViewer, msg):
		a.setScreen(screenViewer)
		return a, nil
	}
	switch a.screen {
	case screenConsole:
		return a.handleConsoleKey(msg)
	case screenLibrary:
		return a.handleLibraryKey(msg)
	case screenViewer:
		return a.handleViewerKey(msg)
	}
	return a, nil
}

func (a *App) handleConsoleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	keyName := normalizeKeyName(msg.String())
	visible := a.visibleSkills()
	switch {
	case a.isAction(scopeConsole, actionSearch, msg):
		a.startSearch()
		return a, nil
	case a.isAction(scopeConsole, actionClearSearch, msg):
		if a.consoleQuery != "" {
			a.consoleQuery = ""
			a.consoleCursor = 0
			a.consoleTop = 0
			a.setStatus("Search cleared.")
		}
		return a, nil
	case a.isAction(scopeConsole, actionNavigate, msg):
		switch keyName {
		case "j", "down":
			if a.consoleCursor < len(visible)-1 {
				a.consoleCursor++
			}
		case "k", "up":
			if a.consoleCursor > 0 {
				a.consoleCursor--
			}
		}
		a.ensureConsoleCursorInWindow()
		return a, nil
	case a.isAction(scopeConsole, actionJumpTop, msg):
		a.consoleCursor = 0
		a.ensureConsoleCursorInWindow()
		return a, nil
	case a.isAction(scopeConsole, actionJumpBottom, msg):
		if len(visible) > 0 {
			a.consoleCursor = len(visible) - 1
		}
		a.ensureConsoleCursorInWindow()
		return a, nil
	case a.isAction(scopeConsole, actionSelect, msg):
		if len(visible) == 0 {
			a.setError("No skill matches the current search.")
			return a, nil
		}
		a.launchSkill(visible[clampIndex(a.consoleCursor, len(visible))])
		return a, nil
	case a.isAction(scopeConsole, actionPrevRun, msg):
		a.cycleRun(1)
		return a, nil
	case a.isAction(scopeConsole, actionNextRun, msg):
		a.cycleRun(-1)
		return a, nil
	}
	return a, nil
}

func (a *App) handleLibraryKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	keyName := normalizeKeyName(msg.String())
	count := a.visibleLibraryCount()
	switch {
	case a.isAction(scopeLibrary, actionSearch, msg):
		a.startSearch()
		return a, nil
	case a.isAction(scopeLibrary, actionClearSearch, msg):
		if a.libraryQuery != "" {
			a.libraryQuery = ""
			a.libraryCursor = 0
			a.libraryTop = 0
			a.setStatus("Search cleared.")
		}
		return a, nil
	case a.isAction(scopeLibrary, actionPrevTab, msg):
		a.setLibraryTab((a.libraryTab - 1 + libTabCount) % libTabCount)
		return a, nil
	case a.isAction(scopeLibrary, actionNextTab, msg):
		a.setLibraryTab((a.libraryTab + 1) % libTabCount)
		return a, nil
	case a.isAction(scopeLibrary, actionNavigate, msg):
		switch keyName {
		case "j", "down":
			if a.libraryCursor < count-1 {
				a.libraryCursor++
			}
		case "k", "up":
			if a.libraryCursor > 0 {
				a.libraryCursor--
			}
		}
		a.ensureLibraryCursorInWindow()
		return a, nil
	case a.isAction(scopeLibrary, actionJumpTop, msg):
		a.libraryCursor = 0
		a.ensureLibraryCursorInWindow()
		return a, nil
	case a.isAction(scopeLibrary, actionJumpBottom, msg):
		if count > 0 {
			a.libraryCursor = count - 1
		}
		a.ensureLibraryCursorInWindow()
		return a, nil
	case a.isAction(scopeLibrary, actionSelect, msg):
		a.openSelectedDocument()
		return a, nil
	}
	return a, nil
}

func (a *App) handleViewerKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	keyName := normalizeKeyName(msg.String())
	switch {
	case a.isAction(scopeViewer, actionBack, msg):
		a.setScreen(screenLibrary)
		return a, nil
	case a.isAction(scopeViewer, actionNavigate, msg):
		switch keyName {
		case "j", "down":
			if a.viewerScroll < a.maxViewerScroll() {
				a.viewerScroll++
			}
		case "k", "up":
			if a.viewerScroll > 0 {
				a.viewerScroll--
			}
		}
		return a, nil
	case a.isAction(scopeViewer, actionJumpTop, msg):
		a.viewerScroll = 0
		return a, nil
	case a.isAction(scopeViewer, actionJumpBottom, msg):
		a.viewerScroll = a.maxViewerScroll()
		return a, nil
	}
	return a, nil
}

func (a *App) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case a.isAction(scopeSearch, actionConfirm, msg):
		a.commitSearch(strings.TrimSpace(a.search.Value()))
		return a, nil
	case a.isAction(scopeSearch, actionCancel, msg):
		a.cancelSearch()
		return a, nil
	}
	var cmd tea.Cmd
	a.search, cmd = a.search.Update(msg)
	a.clampCursorsToFiltered()
	return a, cmd
}

func (a *App) isAction(scope string, action Action, msg tea.KeyMsg) bool {
	reg := a.keys
	if reg == nil {
		reg = NewKeyRegistry()
	}
	b := reg.Lookup(msg.String(), scope)
	return b != nil && b.Action == action
}

// ---------------------------------------------------------------------------
// State mutation helpers
// ---------------------------------------------------------------------------

func (a *App) setScreen(s screen) {
	if a.searchActive {
		a.cancelSearch()
	}
	if a.screen == s {
		return
	}
	a.screen = s
	a.status = ""
	a.statusErr = false
}

func (a *App) setLibraryTab(t libraryTab) {
	if t < 0 || t >= libTabCount {
		t = libTabFlows
	}
	a.libraryTab = t
	a.libraryCursor = 0
	a.libraryTop = 0
}

func (a *App) setStatus(text string) {
	a.status = text
	a.statusErr = false
}

func (a *App) setError(text string) {
	a.status = text
	a.statusErr = true
}

// launchSkill hands the skill to the runner and re-reads the board so the
// queued run is visible in the same update cycle.
func (a *App) launchSkill(s catalog.Skill) {
	if a.services.Runner == nil {
		a.setError("Run engine is not configured.")
		return
	}
	a.services.Runner.Start(s)
	if a.services.Board != nil {
		a.runs = a.services.Board.Runs()
	}
	a.selectedRunID = ""
	a.setStatus(fmt.Sprintf("Queued %s.", s.Title))
}

// selectedRun resolves the console's run pointer: an explicit selection if it
// still exists, otherwise the newest run.
func (a *App) selectedRun() *sim.Run {
	if len(a.runs) == 0 {
		return nil
	}
	if a.selectedRunID != "" {
		for _, r := range a.runs {
			if r.ID == a.selectedRunID {
				return r
			}
		}
	}
	return a.runs[0]
}

// cycleRun moves the run selection by delta within the newest-first list.
// Landing back on the newest run resumes following it.
func (a *App) cycleRun(delta int) {
	if len(a.runs) == 0 {
		return
	}
	idx := 0
	if a.selectedRunID != "" {
		for i, r := range a.runs {
			if r.ID == a.selectedRunID {
				idx = i
				break
			}
		}
	}
	idx += delta
	if idx < 0 {
		idx = 0
	}
	if idx > len(a.runs)-1 {
		idx = len(a.runs) - 1
	}
	if idx == 0 {
		a.selectedRunID = ""
		return
	}
	a.selectedRunID = a.runs[idx].ID
}

func (a *App) openSelectedDocument() {
	switch a.libraryTab {
	case libTabFlows:
		items := a.visibleFlows()
		if len(items) == 0 {
			a.setError("Nothing to open.")
			return
		}
		a.viewerKind = viewerFlow
		a.viewerID = items[clampIndex(a.libraryCursor, len(items))].ID
	case libTabRunbooks:
		items := a.visibleRunbooks()
		if len(items) == 0 {
			a.setError("Nothing to open.")
			return
		}
		a.viewerKind = viewerRunbook
		a.viewerID = items[clampIndex(a.libraryCursor, len(items))].ID
	case libTabIncidents:
		items := a.visibleIncidents()
		if len(items) == 0 {
			a.setError("Nothing to open.")
			return
		}
		a.viewerKind = viewerIncident
		a.viewerID = items[clampIndex(a.libraryCursor, len(items))].ID
	case libTabApps:
		items := a.visibleApps()
		if len(items) == 0 {
			a.setError("Nothing to open.")
			return
		}
		a.viewerKind = viewerApp
		a.viewerID = items[clampIndex(a.libraryCursor, len(items))].ID
	}
	a.viewerScroll = 0
	a.setScreen(screenViewer)
}

// ---------------------------------------------------------------------------
// Search
// ---------------------------------------------------------------------------

func (a *App) startSearch() {
	a.searchActive = true
	a.search.SetValue(a.activeQuery())
	a.search.CursorEnd()
	a.search.Focus()
}

func (a *App) commitSearch(query string) {
	a.searchActive = false
	a.search.Blur()
	switch a.screen {
	case screenLibrary:
		a.libraryQuery = query
		a.libraryCursor = 0
		a.libraryTop = 0
	case screenConsole:
		a.consoleQuery = query
		a.consoleCursor = 0
		a.consoleTop = 0
	}
	if query != "" {
		a.setStatus(fmt.Sprintf("Filtering by %q.", query))
	} else {
		a.status = ""
	}
}

func (a *App) cancelSearch() {
	a.searchActive = false
	a.search.Blur()
	a.search.SetValue("")
	a.clampCursorsToFiltered()
}

// activeQuery is the committed search term for the active screen; while the
// editor is open it is the live editor text.
func (a *App) activeQuery() string {
	if a.searchActive {
		return a.search.Value()
	}
	switch a.screen {
	case screenConsole:
		return a.consoleQuery
	case screenLibrary:
		return a.libraryQuery
	default:
		return ""
	}
}

func (a *App) clearActiveQuery() {
	switch a.screen {
	case screenConsole:
		a.consoleQuery = ""
		a.consoleCursor = 0
		a.consoleTop = 0
	case screenLibrary:
		a.libraryQuery = ""
		a.libraryCursor = 0
		a.libraryTop = 0
	}
}

func (a *App) consoleFilter() string {
	if a.searchActive && a.screen == screenConsole {
		return a.search.Value()
	}
	return a.consoleQuery
}

func (a *App) libraryFilter() string {
	if a.searchActive && a.screen == screenLibrary {
		return a.search.Value()
	}
	return a.libraryQuery
}

func (a *App) clampCursorsToFiltered() {
	if n := len(a.visibleSkills()); a.consoleCursor >= n {
		a.consoleCursor = 0
		a.consoleTop = 0
	}
	if n := a.visibleLibraryCount(); a.libraryCursor >= n {
		a.libraryCursor = 0
		a.libraryTop = 0
	}
}

// ---------------------------------------------------------------------------
// Derived views
// ---------------------------------------------------------------------------

func (a *App) visibleSkills() []catalog.Skill {
	return filterSkills(a.skills, a.consoleFilter())
}

func (a *App) visibleFlows() []catalog.FlowSpec {
	return filterFlows(a.flows, a.libraryFilter())
}

func (a *App) visibleRunbooks() []catalog.Runbook {
	return filterRunbooks(a.runbooks, a.libraryFilter())
}

func (a *App) visibleIncidents() []catalog.IncidentBundle {
	return filterIncidents(a.incidents, a.libraryFilter())
}

func (a *App) visibleApps() []catalog.PortalApp {
	return filterApps(a.apps, a.libraryFilter())
}

func (a *App) visibleLibraryCount() int {
	switch a.libraryTab {
	case libTabFlows:
		return len(a.visibleFlows())
	case libTabRunbooks:
		return len(a.visibleRunbooks())
	case libTabIncidents:
		return len(a.visibleIncidents())
	case libTabApps:
		return len(a.visibleApps())
	default:
		return 0
	}
}

// openIncidents is the dashboard feed: everything not yet resolved.
func (a *App) openIncidents() []catalog.IncidentBundle {
	var out []catalog.IncidentBundle
	for _, inc := range a.incidents {
		if !strings.EqualFold(inc.Status, "resolved") {
			out = append(out, inc)
		}
	}
	return out
}

func (a *App) contextScope() string {
	switch a.screen {
	case screenConsole:
		return scopeConsole
	case screenLibrary:
		return scopeLibrary
	case screenViewer:
		return scopeViewer
	default:
		return scopeDashboard
	}
}

// ---------------------------------------------------------------------------
// Windowing
// ---------------------------------------------------------------------------

const defaultListRows = 12

// listRows is the number of list entries that fit between the chrome rows.
func (a *App) listRows() int {
	if a.height <= 0 {
		return defaultListRows
	}
	rows := a.height - 9
	if rows < 4 {
		rows = 4
	}
	return rows
}

func (a *App) ensureConsoleCursorInWindow() {
	a.consoleCursor, a.consoleTop = clampWindow(a.consoleCursor, a.consoleTop, len(a.visibleSkills()), a.listRows())
}

func (a *App) ensureLibraryCursorInWindow() {
	a.libraryCursor, a.libraryTop = clampWindow(a.libraryCursor, a.libraryTop, a.visibleLibraryCount(), a.listRows())
}

// clampWindow keeps cursor within [0,count) and top positioned so the cursor
// stays inside a rows-sized window.
func clampWindow(cursor, top, count, rows int) (int, int) {
	if count == 0 {
		return 0, 0
	}
	if cursor > count-1 {
		cursor = count - 1
	}
	if cursor < 0 {
		cursor = 0
	}
	if rows < 1 {
		rows = 1
	}
	if cursor < top {
		top = cursor
	}
	if cursor > top+rows-1 {
		top = cursor - rows + 1
	}
	if top > count-rows {
		top = count - rows
	}
	if top < 0 {
		top = 0
	}
	return cursor, top
}

func clampIndex(i, n int) int {
	if n <= 0 {
		return 0
	}
	if i < 0 {
		return 0
	}
	if i > n-1 {
		return n - 1
	}
	return i
}

// ---------------------------------------------------------------------------
// Messages
// ---------------------------------------------------------------------------

type skillsMsg []catalog.Skill

type flowsMsg []catalog.FlowSpec

type runbooksMsg []catalog.Runbook

type incidentsMsg []catalog.IncidentBundle

type appsMsg []catalog.PortalApp

type runEventMsg struct {
	run *sim.Run
}

type statusMsg string

type errMsg struct{ error }
