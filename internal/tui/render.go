package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jask/crewdeck/internal/catalog"
	"github.com/jask/crewdeck/internal/demo"
	"github.com/jask/crewdeck/internal/sim"
)

// ---------------------------------------------------------------------------
// Styles — Catppuccin Mocha themed
// ---------------------------------------------------------------------------

var (
	// Section titles
	titleStyle = lipgloss.NewStyle().Foreground(colorBrand).Bold(true)

	// Header bar (spans full width)
	headerBarStyle = lipgloss.NewStyle().
			Foreground(colorText).
			Background(colorMantle).
			Padding(0, 2)

	// App name in header
	headerAppStyle = lipgloss.NewStyle().
			Foreground(colorBrand).
			Bold(true)

	// Tab styles
	activeTabStyle = lipgloss.NewStyle().
			Foreground(colorAccent).
			Background(colorSurface0).
			Bold(true).
			Padding(0, 1)

	inactiveTabStyle = lipgloss.NewStyle().
				Foreground(colorOverlay1).
				Background(colorMantle).
				Padding(0, 1)

	tabSepStyle = lipgloss.NewStyle().
			Foreground(colorOverlay0).
			Background(colorMantle)

	// Footer bar
	footerStyle = lipgloss.NewStyle().
			Foreground(colorSubtext0).
			Background(colorMantle).
			Padding(0, 2)

	// Status bar (above footer)
	statusBarStyle = lipgloss.NewStyle().
			Foreground(colorSubtext1).
			Background(colorSurface0).
			Padding(0, 2)

	statusErrorStyle = lipgloss.NewStyle().
				Foreground(colorError).
				Background(colorSurface0).
				Padding(0, 2)

	// Section containers
	listBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorSurface1).
			Padding(0, 1)

	// Palette overlay
	modalStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorAccent).
			Padding(0, 1)

	// Help key styling
	helpKeyStyle = lipgloss.NewStyle().
			Foreground(colorAccent).
			Bold(true)

	helpDescStyle = lipgloss.NewStyle().
			Foreground(colorSubtext0)

	tableHeaderStyle = lipgloss.NewStyle().
				Foreground(colorSubtext0).
				Bold(true)

	cursorStyle = lipgloss.NewStyle().Foreground(colorAccent).Bold(true)

	// Scroll indicator
	scrollStyle = lipgloss.NewStyle().Foreground(colorOverlay1)

	metaStyle = lipgloss.NewStyle().Foreground(colorSubtext0)

	dimStyle = lipgloss.NewStyle().Foreground(colorOverlay1)
)

func screenTitle(s screen) string {
	switch s {
	case screenConsole:
		return "Console"
	case screenLibrary:
		return "Library"
	case screenViewer:
		return "Viewer"
	default:
		return "Dashboard"
	}
}

// ---------------------------------------------------------------------------
// View
// ---------------------------------------------------------------------------

func (a *App) View() string {
	var body string
	switch a.screen {
	case screenConsole:
		body = a.renderConsole()
	case screenLibrary:
		body = a.renderLibrary()
	case screenViewer:
		body = a.renderViewer()
	default:
		body = a.renderDashboard()
	}

	header := a.renderHeader()
	statusLine := a.renderStatusLine()
	footer := a.renderFooter()
	view := header + "\n" + a.placeBody(body, statusLine, footer)

	if a.paletteOpen {
		return a.composePalette(view)
	}
	return view
}

func (a *App) renderHeader() string {
	name := headerAppStyle.Render("crewdeck")

	var tabs []string
	for _, s := range screenOrder {
		if s == a.screen {
			tabs = append(tabs, activeTabStyle.Render(screenTitle(s)))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(screenTitle(s)))
		}
	}
	tabBar := tabSepStyle.Render(" ") + strings.Join(tabs, tabSepStyle.Render("│"))

	content := name + "  " + tabBar
	if a.width <= 0 {
		return headerBarStyle.Render(content)
	}
	return headerBarStyle.Width(a.width).Render(content)
}

func (a *App) renderStatusLine() string {
	if a.searchActive {
		content := a.search.View()
		if a.width == 0 {
			return statusBarStyle.Render(content)
		}
		return statusBarStyle.Width(a.width).Render(content)
	}
	flat := strings.ReplaceAll(a.status, "\n", " ")
	style := statusBarStyle
	if a.statusErr {
		style = statusErrorStyle
	}
	if a.width == 0 {
		return style.Render(flat)
	}
	return style.Width(a.width).Render(flat)
}

func (a *App) footerScope() string {
	if a.paletteOpen {
		return scopePalette
	}
	if a.searchActive {
		return scopeSearch
	}
	return a.contextScope()
}

func (a *App) renderFooter() string {
	bindings := a.keys.HelpBindings(a.footerScope())

	// Every character carries the footer background.
	bg := colorMantle
	keyStyle := helpKeyStyle.Background(bg)
	descStyle := helpDescStyle.Background(bg)
	space := lipgloss.NewStyle().Background(bg).Render(" ")
	sep := lipgloss.NewStyle().Background(bg).Render("  ")

	parts := make([]string, 0, len(bindings))
	for _, binding := range bindings {
		help := binding.Help()
		if help.Key == "" && help.Desc == "" {
			continue
		}
		parts = append(parts, keyStyle.Render(help.Key)+space+descStyle.Render(help.Desc))
	}
	content := strings.Join(parts, sep)

	if a.width == 0 {
		return footerStyle.Render(content)
	}
	return footerStyle.Width(a.width).Render(content)
}

func (a *App) placeBody(body, statusLine, footer string) string {
	if a.height == 0 {
		return body + "\n\n" + statusLine + "\n" + footer
	}
	contentHeight := a.height - 3 // header, status, footer
	if contentHeight < 1 {
		contentHeight = 1
	}
	if lipgloss.Height(body) >= contentHeight {
		return body + "\n" + statusLine + "\n" + footer
	}
	main := lipgloss.Place(a.width, contentHeight, lipgloss.Left, lipgloss.Top, body)
	// Full-width lines prevent ghosting from previous frames.
	lines := splitLines(main)
	for i, line := range lines {
		lines[i] = padRight(line, a.width)
	}
	main = strings.Join(lines, "\n")
	return main + "\n" + statusLine + "\n" + footer
}

func (a *App) sectionWidth() int {
	if a.width == 0 {
		return 80
	}
	width := a.width - 4
	if width < 20 {
		width = a.width
	}
	return width
}

func (a *App) sectionContentWidth() int {
	frameH := listBoxStyle.GetHorizontalFrameSize()
	contentWidth := a.sectionWidth() - frameH
	if contentWidth < 1 {
		contentWidth = 1
	}
	return contentWidth
}

func (a *App) renderSection(title, content string) string {
	contentWidth := a.sectionContentWidth()
	header := padRight(titleStyle.Render(title), contentWidth)
	sepStyle := lipgloss.NewStyle().Foreground(colorSurface2)
	separator := sepStyle.Render(strings.Repeat("─", contentWidth))
	sectionContent := header + "\n" + separator + "\n" + content
	section := listBoxStyle.Width(a.sectionWidth()).Render(sectionContent)
	if a.width == 0 {
		return section
	}
	return lipgloss.Place(a.width, lipgloss.Height(section), lipgloss.Center, lipgloss.Top, section)
}

// ---------------------------------------------------------------------------
// Dashboard
// ---------------------------------------------------------------------------

func (a *App) renderDashboard() string {
	sections := []string{
		a.renderKPIs(),
		a.renderSection(fmt.Sprintf("Factory Activity (%dd)", activityDays), a.renderActivitySection()),
		a.renderSection("Recent Runs", a.renderRecentRuns(5)),
		a.renderSection("Open Incidents", a.renderIncidentFeed(3)),
	}
	return strings.Join(sections, "\n")
}

func (a *App) runStatusCounts() sim.StatusCounts {
	var c sim.StatusCounts
	for _, r := range a.runs {
		switch r.Status {
		case sim.StatusQueued:
			c.Queued++
		case sim.StatusRunning:
			c.Running++
		case sim.StatusSuccess:
			c.Success++
		case sim.StatusFailed:
			c.Failed++
		}
	}
	return c
}

func (a *App) renderKPIs() string {
	counts := a.runStatusCounts()
	tiles := []struct {
		label string
		value string
		color lipgloss.Color
	}{
		{"Skills", fmt.Sprintf("%d", len(a.skills)), colorPeach},
		{"Flows", fmt.Sprintf("%d", len(a.flows)), colorPeach},
		{"Runbooks", fmt.Sprintf("%d", len(a.runbooks)), colorPeach},
		{"Open Inc", fmt.Sprintf("%d", len(a.openIncidents())), colorError},
		{"Active", fmt.Sprintf("%d", counts.Queued+counts.Running), colorBlue},
		{"Success", fmt.Sprintf("%d", counts.Success), colorSuccess},
		{"Failed", fmt.Sprintf("%d", counts.Failed), colorError},
	}

	labelStyle := lipgloss.NewStyle().Foreground(colorSubtext0)
	rendered := make([]string, 0, len(tiles))
	for _, t := range tiles {
		valueStyle := lipgloss.NewStyle().Foreground(t.color).Bold(true)
		content := labelStyle.Render(t.label) + "\n" + valueStyle.Render(t.value)
		rendered = append(rendered, listBoxStyle.Render(content))
	}
	row := lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
	if a.width == 0 {
		return row
	}
	return lipgloss.Place(a.width, lipgloss.Height(row), lipgloss.Center, lipgloss.Top, row)
}

// historyWithToday folds live terminal runs into the generated series so the
// chart's last point moves as the factory works.
func (a *App) historyWithToday() []demo.ActivityPoint {
	out := make([]demo.ActivityPoint, len(a.history))
	copy(out, a.history)
	if len(out) == 0 {
		return out
	}
	last := len(out) - 1
	today := out[last].Day
	for _, r := range a.runs {
		if !r.Status.Terminal() {
			continue
		}
		created := r.Created.In(a.tz)
		if created.Year() != today.Year() || created.YearDay() != today.YearDay() {
			continue
		}
		out[last].Runs++
		if r.Status == sim.StatusFailed {
			out[last].Failed++
		}
	}
	return out
}

func (a *App) renderActivitySection() string {
	points := a.historyWithToday()
	chart := renderActivityChart(points, a.sectionContentWidth())

	total, failed := 0, 0
	for _, p := range points {
		total += p.Runs
		failed += p.Failed
	}
	passRate := 100.0
	if total > 0 {
		passRate = float64(total-failed) / float64(total) * 100
	}
	summary := metaStyle.Render(fmt.Sprintf("%d runs · %.0f%% succeeded", total, passRate))
	return chart + "\n" + summary
}

func (a *App) renderRecentRuns(limit int) string {
	if len(a.runs) == 0 {
		return dimStyle.Render("No runs yet. Open the console and launch a skill.")
	}
	width := a.sectionContentWidth()
	var lines []string
	for i, r := range a.runs {
		if i >= limit {
			break
		}
		when := r.Created.In(a.tz).Format("15:04:05")
		line := fmt.Sprintf("%s  %s  %s", dimStyle.Render(when), a.statusBadge(r.Status), truncate(r.Title, width-24))
		lines = append(lines, line)
	}
	if len(a.runs) > limit {
		lines = append(lines, scrollStyle.Render(fmt.Sprintf("… %d more on the console", len(a.runs)-limit)))
	}
	return strings.Join(lines, "\n")
}

func (a *App) renderIncidentFeed(limit int) string {
	open := a.openIncidents()
	if len(open) == 0 {
		return dimStyle.Render("No open incidents.")
	}
	width := a.sectionContentWidth()
	var lines []string
	for i, inc := range open {
		if i >= limit {
			break
		}
		sev := severityBadge(inc.Severity)
		status := metaStyle.Render("(" + inc.Status + ")")
		line := fmt.Sprintf("%s %s %s  %s", sev, truncate(inc.Title, width-28), status, dimStyle.Render(inc.Service))
		lines = append(lines, line)
	}
	if len(open) > limit {
		lines = append(lines, scrollStyle.Render(fmt.Sprintf("… %d more in the library", len(open)-limit)))
	}
	return strings.Join(lines, "\n")
}

// ---------------------------------------------------------------------------
// Console
// ---------------------------------------------------------------------------

func (a *App) renderConsole() string {
	total := a.sectionWidth()
	leftW := total * 2 / 5
	if leftW < 30 {
		leftW = 30
	}
	rightW := total - leftW - 2
	if rightW < 30 {
		rightW = 30
	}

	left := a.renderSkillPane(leftW)
	right := a.renderRunPane(rightW)
	row := lipgloss.JoinHorizontal(lipgloss.Top, left, "  ", right)
	if a.width == 0 {
		return row
	}
	return lipgloss.Place(a.width, lipgloss.Height(row), lipgloss.Center, lipgloss.Top, row)
}

func (a *App) renderSkillPane(width int) string {
	contentWidth := width - listBoxStyle.GetHorizontalFrameSize()
	visible := a.visibleSkills()
	filter := a.consoleFilter()

	header := padRight(titleStyle.Render("Skills"), contentWidth)
	sep := lipgloss.NewStyle().Foreground(colorSurface2).Render(strings.Repeat("─", contentWidth))
	lines := []string{header, sep}

	if len(visible) == 0 {
		if strings.TrimSpace(filter) == "" {
			lines = append(lines, dimStyle.Render("Catalog is empty."))
		} else {
			lines = append(lines, dimStyle.Render(fmt.Sprintf("No skills match %q.", filter)))
			if hint, ok := nearestSkill(a.skills, filter); ok {
				lines = append(lines, metaStyle.Render(fmt.Sprintf("Did you mean %q?", hint.Title)))
			}
		}
		return listBoxStyle.Width(width).Render(strings.Join(lines, "\n"))
	}

	rows := a.listRows()
	end := a.consoleTop + rows
	if end > len(visible) {
		end = len(visible)
	}
	for i := a.consoleTop; i < end; i++ {
		s := visible[i]
		prefix := "  "
		if i == a.consoleCursor {
			prefix = cursorStyle.Render("> ")
		}
		engine := dimStyle.Render(padRight(engineTag(s.Engine), 5))
		dot := lipgloss.NewStyle().Foreground(riskColor(string(s.Risk))).Render("●")
		title := padRight(truncate(s.Title, contentWidth-10), contentWidth-10)
		lines = append(lines, prefix+title+" "+engine+" "+dot)
	}
	if len(visible) > rows {
		lines = append(lines, scrollStyle.Render(fmt.Sprintf("── showing %d-%d of %d ──", a.consoleTop+1, end, len(visible))))
	}
	return listBoxStyle.Width(width).Render(strings.Join(lines, "\n"))
}

func engineTag(e catalog.Engine) string {
	if e == catalog.EngineAssisted {
		return "ai"
	}
	return "det"
}

func (a *App) renderRunPane(width int) string {
	contentWidth := width - listBoxStyle.GetHorizontalFrameSize()

	header := padRight(titleStyle.Render("Run"), contentWidth)
	sep := lipgloss.NewStyle().Foreground(colorSurface2).Render(strings.Repeat("─", contentWidth))
	lines := []string{header, sep}

	run := a.selectedRun()
	if run == nil {
		lines = append(lines, dimStyle.Render("No runs yet."), dimStyle.Render("Press enter to launch the selected skill."))
		return listBoxStyle.Width(width).Render(strings.Join(lines, "\n"))
	}

	badge := a.statusBadge(run.Status)
	if !run.Status.Terminal() {
		badge += " " + a.spinner.View()
	}
	lines = append(lines, truncate(run.Title, contentWidth-14)+"  "+badge)
	meta := fmt.Sprintf("%s · %s · %s", engineLabel(run.Engine), run.Risk, shortID(run.ID))
	lines = append(lines, metaStyle.Render(truncate(meta, contentWidth)))
	lines = append(lines, dimStyle.Render("started "+run.Created.In(a.tz).Format("15:04:05")))
	lines = append(lines, "")

	resultLines := renderResults(run.Results, contentWidth)
	logBudget := a.listRows() - 4 - len(resultLines)
	if logBudget < 3 {
		logBudget = 3
	}
	lines = append(lines, tableHeaderStyle.Render("Log"))
	logLines := run.Log
	if len(logLines) > logBudget {
		lines = append(lines, scrollStyle.Render(fmt.Sprintf("… %d earlier lines", len(logLines)-logBudget)))
		logLines = logLines[len(logLines)-logBudget:]
	}
	for _, l := range logLines {
		lines = append(lines, "  "+truncate(l, contentWidth-2))
	}
	lines = append(lines, resultLines...)

	return listBoxStyle.Width(width).Render(strings.Join(lines, "\n"))
}

func renderResults(results []sim.Result, width int) []string {
	if len(results) == 0 {
		return nil
	}
	labelWidth := 0
	for _, r := range results {
		if len(r.Label) > labelWidth {
			labelWidth = len(r.Label)
		}
	}
	lines := []string{"", tableHeaderStyle.Render("Results")}
	labelStyle := lipgloss.NewStyle().Foreground(colorInfo)
	for _, r := range results {
		label := labelStyle.Render(padRight(r.Label, labelWidth))
		lines = append(lines, "  "+label+"  "+truncate(r.Detail, width-labelWidth-4))
	}
	return lines
}

func engineLabel(e catalog.Engine) string {
	if e == catalog.EngineAssisted {
		return "assisted"
	}
	return "deterministic"
}

func (a *App) statusBadge(st sim.Status) string {
	style := lipgloss.NewStyle().Foreground(statusColor(string(st))).Bold(true)
	return style.Render("● " + string(st))
}

func severityBadge(severity string) string {
	color := colorOverlay1
	switch strings.ToLower(strings.TrimSpace(severity)) {
	case "sev1":
		color = colorError
	case "sev2":
		color = colorPeach
	case "sev3":
		color = colorYellow
	}
	return lipgloss.NewStyle().Foreground(color).Bold(true).Render("[" + severity + "]")
}

func shortID(id string) string {
	if len(id) <= 8 {
		return id
	}
	return id[:8]
}

// ---------------------------------------------------------------------------
// Library
// ---------------------------------------------------------------------------

func (a *App) renderLibrary() string {
	contentWidth := a.sectionContentWidth()

	var tabs []string
	for t := libraryTab(0); t < libTabCount; t++ {
		if t == a.libraryTab {
			tabs = append(tabs, activeTabStyle.Render(t.title()))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(t.title()))
		}
	}
	tabLine := strings.Join(tabs, tabSepStyle.Render("│"))

	rows := a.libraryRows(contentWidth)
	var lines []string
	if len(rows) == 0 {
		if strings.TrimSpace(a.libraryFilter()) == "" {
			lines = append(lines, dimStyle.Render("Nothing in this collection."))
		} else {
			lines = append(lines, dimStyle.Render(fmt.Sprintf("Nothing matches %q.", a.libraryFilter())))
		}
	} else {
		visible := a.listRows()
		end := a.libraryTop + visible
		if end > len(rows) {
			end = len(rows)
		}
		for i := a.libraryTop; i < end; i++ {
			prefix := "  "
			if i == a.libraryCursor {
				prefix = cursorStyle.Render("> ")
			}
			lines = append(lines, prefix+rows[i])
		}
		if len(rows) > visible {
			lines = append(lines, scrollStyle.Render(fmt.Sprintf("── showing %d-%d of %d ──", a.libraryTop+1, end, len(rows))))
		}
	}

	body := tabLine + "\n\n" + strings.Join(lines, "\n")
	section := listBoxStyle.Width(a.sectionWidth()).Render(body)
	if a.width == 0 {
		return section
	}
	return lipgloss.Place(a.width, lipgloss.Height(section), lipgloss.Center, lipgloss.Top, section)
}

// libraryRows formats the active collection, already filtered, one row per
// document in catalog order.
func (a *App) libraryRows(width int) []string {
	var rows []string
	switch a.libraryTab {
	case libTabFlows:
		for _, f := range a.visibleFlows() {
			title := padRight(truncate(f.Title, 24), 24)
			meta := metaStyle.Render(truncate(fmt.Sprintf("on %s · %s", f.Trigger, f.Owner), width-28))
			rows = append(rows, title+"  "+meta)
		}
	case libTabRunbooks:
		for _, rb := range a.visibleRunbooks() {
			title := padRight(truncate(rb.Title, 32), 32)
			rows = append(rows, severityBadge(rb.Severity)+" "+title+"  "+dimStyle.Render(rb.Service))
		}
	case libTabIncidents:
		for _, inc := range a.visibleIncidents() {
			title := padRight(truncate(inc.Title, 36), 36)
			opened := dimStyle.Render(inc.Opened.In(a.tz).Format("Jan 02"))
			status := metaStyle.Render("(" + inc.Status + ")")
			rows = append(rows, severityBadge(inc.Severity)+" "+title+" "+status+"  "+opened)
		}
	case libTabApps:
		for _, app := range a.visibleApps() {
			name := padRight(truncate(app.Name, 20), 20)
			rows = append(rows, name+"  "+metaStyle.Render(truncate(app.Blurb, width-24)))
		}
	}
	return rows
}

// ---------------------------------------------------------------------------
// Viewer
// ---------------------------------------------------------------------------

func (a *App) renderViewer() string {
	title, lines := a.viewerLines()
	contentWidth := a.sectionContentWidth()

	if title == "" {
		body := dimStyle.Render("Nothing open. Pick a document in the library.")
		return a.renderSection("Viewer", body)
	}

	visible := a.listRows()
	start := a.viewerScroll
	if start > len(lines) {
		start = len(lines)
	}
	end := start + visible
	if end > len(lines) {
		end = len(lines)
	}
	window := make([]string, 0, visible+1)
	for _, l := range lines[start:end] {
		window = append(window, truncate(l, contentWidth))
	}
	if len(lines) > visible {
		window = append(window, scrollStyle.Render(fmt.Sprintf("── line %d-%d of %d ──", start+1, end, len(lines))))
	}
	return a.renderSection(title, strings.Join(window, "\n"))
}

// viewerLines resolves the open document into a title and body lines.
func (a *App) viewerLines() (string, []string) {
	switch a.viewerKind {
	case viewerFlow:
		for _, f := range a.flows {
			if f.ID == a.viewerID {
				return flowLines(f)
			}
		}
	case viewerRunbook:
		for _, rb := range a.runbooks {
			if rb.ID == a.viewerID {
				return runbookLines(rb)
			}
		}
	case viewerIncident:
		for _, inc := range a.incidents {
			if inc.ID == a.viewerID {
				return a.incidentLines(inc)
			}
		}
	case viewerApp:
		for _, app := range a.apps {
			if app.ID == a.viewerID {
				return appLines(app)
			}
		}
	}
	return "", nil
}

func (a *App) maxViewerScroll() int {
	_, lines := a.viewerLines()
	max := len(lines) - a.listRows()
	if max < 0 {
		return 0
	}
	return max
}

func flowLines(f catalog.FlowSpec) (string, []string) {
	lines := []string{
		metaStyle.Render("trigger  ") + f.Trigger,
		metaStyle.Render("owner    ") + f.Owner,
		"",
		tableHeaderStyle.Render("Stages"),
	}
	for i, stage := range f.Stages {
		lines = append(lines, fmt.Sprintf("  %d. %s", i+1, stage))
	}
	lines = append(lines, "", tableHeaderStyle.Render("Outbound Gates"))
	for _, gate := range f.Gates {
		lines = append(lines, "  · "+gate)
	}
	return "Flow Spec: " + f.Title, lines
}

func runbookLines(rb catalog.Runbook) (string, []string) {
	lines := []string{
		metaStyle.Render("service   ") + rb.Service,
		metaStyle.Render("severity  ") + severityBadge(rb.Severity),
		"",
		tableHeaderStyle.Render("Steps"),
	}
	for i, step := range rb.Steps {
		lines = append(lines, fmt.Sprintf("  %d. %s", i+1, step))
	}
	return "Runbook: " + rb.Title, lines
}

func (a *App) incidentLines(inc catalog.IncidentBundle) (string, []string) {
	lines := []string{
		metaStyle.Render("service   ") + inc.Service,
		metaStyle.Render("severity  ") + severityBadge(inc.Severity),
		metaStyle.Render("status    ") + inc.Status,
		metaStyle.Render("opened    ") + inc.Opened.In(a.tz).Format("2006-01-02 15:04 MST"),
		"",
		tableHeaderStyle.Render("Timeline"),
	}
	for _, entry := range inc.Timeline {
		lines = append(lines, "  "+entry)
	}
	return "Incident: " + inc.Title, lines
}

func appLines(app catalog.PortalApp) (string, []string) {
	surface := app.Surface
	if strings.TrimSpace(surface) == "" {
		surface = "(not wired)"
	}
	lines := []string{
		metaStyle.Render("surface  ") + surface,
		"",
		app.Blurb,
	}
	return "Portal App: " + app.Name, lines
}

// ---------------------------------------------------------------------------
// Command palette overlay
// ---------------------------------------------------------------------------

func (a *App) composePalette(base string) string {
	modal := a.renderPaletteBox()
	if a.height == 0 || a.width == 0 {
		return base + "\n\n" + modal
	}
	lines := splitLines(modal)
	modalWidth := maxLineWidth(lines)
	x := (a.width - modalWidth) / 2
	if x < 0 {
		x = 0
	}
	y := 2
	return overlayAt(base, modal, x, y, a.width, a.height)
}

func (a *App) renderPaletteBox() string {
	width := 60
	if a.width > 0 && a.width-8 < width {
		width = a.width - 8
	}
	if width < 30 {
		width = 30
	}

	query := a.paletteQuery
	queryValue := dimStyle.Render("(type to search)")
	if strings.TrimSpace(query) != "" {
		queryValue = lipgloss.NewStyle().Foreground(colorText).Render(query)
	}
	lines := []string{
		titleStyle.Render("Commands"),
		metaStyle.Render("> ") + queryValue,
		"",
	}

	if len(a.paletteMatches) == 0 {
		lines = append(lines, dimStyle.Render("No matching command."))
	} else {
		end := a.paletteScroll + palettePageSize
		if end > len(a.paletteMatches) {
			end = len(a.paletteMatches)
		}
		for i := a.paletteScroll; i < end; i++ {
			match := a.paletteMatches[i]
			label := match.Command.Label
			rowStyle := lipgloss.NewStyle().Foreground(colorText)
			if !match.Enabled {
				rowStyle = dimStyle
				if strings.TrimSpace(match.DisabledReason) != "" {
					label += " (" + strings.TrimSpace(match.DisabledReason) + ")"
				}
			}
			row := "  " + rowStyle.Render(padRight(truncate(label, width-14), width-14)) +
				metaStyle.Render(truncate(match.Command.Category, 10))
			if i == a.paletteCursor {
				row = cursorStyle.Render("> ") + lipgloss.NewStyle().Background(colorSurface1).Render(
					padRight(truncate(label, width-14), width-14)) + metaStyle.Render(truncate(match.Command.Category, 10))
			}
			lines = append(lines, row)
		}
		if len(a.paletteMatches) > palettePageSize {
			lines = append(lines, scrollStyle.Render(fmt.Sprintf("── %d-%d of %d ──", a.paletteScroll+1, end, len(a.paletteMatches))))
		}
	}

	lines = append(lines, "", helpKeyStyle.Render("enter")+helpDescStyle.Render(" run  ")+
		helpKeyStyle.Render("esc")+helpDescStyle.Render(" close"))

	for i, l := range lines {
		lines[i] = padRight(l, width)
	}
	return modalStyle.Render(strings.Join(lines, "\n"))
}
