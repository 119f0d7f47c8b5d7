package tui

import (
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/x/ansi"

	"github.com/jask/crewdeck/internal/catalog"
	"github.com/jask/crewdeck/internal/demo"
	"github.com/jask/crewdeck/internal/sim"
)

func plainView(a *App) string {
	return ansi.Strip(a.View())
}

func TestViewDashboardRendersSections(t *testing.T) {
	a := newTestApp(t)
	out := plainView(a)

	for _, want := range []string{
		"crewdeck",
		"Factory Activity (14d)",
		"Recent Runs",
		"Open Incidents",
		"Skills",
		"Open Inc",
		"No runs yet. Open the console and launch a skill.",
		"Patch Pilot loops on vendored tree",
		"Outbound gate queue at capacity",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("dashboard missing %q", want)
		}
	}

	// resolved incidents stay out of the feed
	if strings.Contains(out, "Artifact store returning 503s") {
		t.Fatal("resolved incident leaked into the open feed")
	}
}

func TestViewDashboardRecentRunsAfterLaunch(t *testing.T) {
	a := newTestApp(t)
	a = flowPress(t, a, "2")
	a = flowPress(t, a, "enter")
	a = flowSettleRuns(t, a)
	a = flowPress(t, a, "1")

	out := plainView(a)
	if !strings.Contains(out, "success") {
		t.Fatal("dashboard recent runs missing the settled run status")
	}
	if !strings.Contains(out, "09:30:00") {
		t.Fatal("dashboard recent runs missing the launch timestamp")
	}
}

func TestViewConsoleEmptyRunPane(t *testing.T) {
	a := newTestApp(t)
	a = flowPress(t, a, "2")
	out := plainView(a)

	if !strings.Contains(out, "> Issue Triage Bot") {
		t.Fatal("console missing cursor on the first skill")
	}
	if !strings.Contains(out, "No runs yet.") {
		t.Fatal("console missing empty run pane hint")
	}
	if !strings.Contains(out, "Press enter to launch the selected skill.") {
		t.Fatal("console missing launch hint")
	}
}

func TestViewConsoleRunPaneAfterDeterministicRun(t *testing.T) {
	a := newTestApp(t)
	a = flowPress(t, a, "2")
	a = flowPress(t, a, "enter")
	a = flowSettleRuns(t, a)

	out := plainView(a)
	if !strings.Contains(out, "● success") {
		t.Fatal("run pane missing terminal status badge")
	}
	if !strings.Contains(out, "deterministic · safe ·") {
		t.Fatal("run pane missing engine and risk meta")
	}
	if !strings.Contains(out, "started 09:30:00") {
		t.Fatal("run pane missing start time")
	}
	if !strings.Contains(out, "run complete: success") {
		t.Fatal("run pane missing final log line")
	}
	if strings.Contains(out, "Results") {
		t.Fatal("deterministic runs have no structured results")
	}
}

func TestViewConsoleRunPaneShowsAssistedResults(t *testing.T) {
	a := newTestApp(t)
	a = flowPress(t, a, "2")
	a = flowPress(t, a, "/")
	a = flowType(t, a, "patch pilot")
	a = flowPress(t, a, "enter")
	a = flowPress(t, a, "enter")
	a = flowSettleRuns(t, a)

	out := plainView(a)
	if !strings.Contains(out, "Results") {
		t.Fatal("assisted run pane missing results table")
	}
	if !strings.Contains(out, "diff staged: 2 files changed, +48 -9") {
		t.Fatal("assisted run pane missing result detail")
	}
}

func TestViewConsoleScrollIndicatorOnShortWindow(t *testing.T) {
	a := newTestApp(t)
	a.height = 12 // four list rows
	a = flowPress(t, a, "2")

	out := plainView(a)
	if !strings.Contains(out, "── showing 1-4 of 9 ──") {
		t.Fatalf("missing scroll indicator, got:\n%s", out)
	}
}

func TestViewConsoleNoMatchSuggestsNearest(t *testing.T) {
	a := newTestApp(t)
	a = flowPress(t, a, "2")
	a = flowPress(t, a, "/")
	a = flowType(t, a, "patc pilot")
	a = flowPress(t, a, "enter")

	out := plainView(a)
	if !strings.Contains(out, `No skills match "patc pilot".`) {
		t.Fatal("missing no-match message")
	}
	if !strings.Contains(out, `Did you mean "Patch Pilot"?`) {
		t.Fatal("missing nearest-skill suggestion")
	}
}

func TestViewLibraryTabsAndRows(t *testing.T) {
	a := newTestApp(t)
	a = flowPress(t, a, "3")
	out := plainView(a)

	for _, want := range []string{"Flow Specs", "Runbooks", "Incidents", "Portal Apps"} {
		if !strings.Contains(out, want) {
			t.Fatalf("library missing tab %q", want)
		}
	}
	if !strings.Contains(out, "Release Train") || !strings.Contains(out, "on tag push on main") {
		t.Fatal("library missing flow rows")
	}

	a = flowPress(t, a, "l")
	out = plainView(a)
	if !strings.Contains(out, "[sev2]") || !strings.Contains(out, "Run queue stalled") {
		t.Fatal("library missing runbook rows")
	}

	a = flowPress(t, a, "l")
	out = plainView(a)
	if !strings.Contains(out, "(mitigated)") {
		t.Fatal("library missing incident status")
	}

	a = flowPress(t, a, "l")
	out = plainView(a)
	if !strings.Contains(out, "Outbound Gate") || !strings.Contains(out, "Manual approval desk") {
		t.Fatal("library missing app rows")
	}
}

func TestViewViewerRunbook(t *testing.T) {
	a := newTestApp(t)
	a = flowPress(t, a, "3")
	a = flowPress(t, a, "l")
	a = flowPress(t, a, "enter")

	out := plainView(a)
	if !strings.Contains(out, "Runbook: Run queue stalled") {
		t.Fatal("viewer missing runbook title")
	}
	if !strings.Contains(out, "factory-core") {
		t.Fatal("viewer missing service")
	}
	if !strings.Contains(out, "1. Check the console for runs stuck in queued") {
		t.Fatal("viewer missing numbered steps")
	}
}

func TestViewViewerIncidentTimeline(t *testing.T) {
	a := newTestApp(t)
	a = flowPress(t, a, "3")
	a = flowType(t, a, "ll") // incidents tab
	a = flowPress(t, a, "enter")

	out := plainView(a)
	if !strings.Contains(out, "Incident: Patch Pilot loops on vendored tree") {
		t.Fatal("viewer missing incident title")
	}
	if !strings.Contains(out, "2026-02-11 08:42 UTC") {
		t.Fatal("viewer missing opened timestamp")
	}
	if !strings.Contains(out, "08:42 pager fired") {
		t.Fatal("viewer missing timeline entry")
	}
}

func TestViewViewerEmptyState(t *testing.T) {
	a := newTestApp(t)
	a = flowPress(t, a, "4")
	out := plainView(a)
	if !strings.Contains(out, "Nothing open. Pick a document in the library.") {
		t.Fatal("viewer missing empty state")
	}
}

func TestViewPaletteOverlay(t *testing.T) {
	a := newTestApp(t)
	a = flowPress(t, a, "ctrl+k")
	out := plainView(a)

	if !strings.Contains(out, "Commands") {
		t.Fatal("palette missing title")
	}
	if !strings.Contains(out, "(type to search)") {
		t.Fatal("palette missing query placeholder")
	}
	if !strings.Contains(out, "Go to Console") {
		t.Fatal("palette missing commands")
	}
	if !strings.Contains(out, "of 17 ──") {
		t.Fatalf("palette missing paging indicator:\n%s", out)
	}
}

func TestViewSearchEditorInStatusBar(t *testing.T) {
	a := newTestApp(t)
	a = flowPress(t, a, "2")
	a = flowPress(t, a, "/")
	a = flowType(t, a, "fla")

	out := plainView(a)
	if !strings.Contains(out, "/ fla") {
		t.Fatal("status bar missing live search editor")
	}
}

func TestHistoryWithTodayFoldsTerminalRuns(t *testing.T) {
	a := newTestApp(t)
	today := time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)
	a.history = []demo.ActivityPoint{
		{Day: today.AddDate(0, 0, -1), Runs: 5, Failed: 1},
		{Day: today, Runs: 2, Failed: 0},
	}
	mk := func(status sim.Status, created time.Time) *sim.Run {
		return &sim.Run{ID: string(status) + created.String(), Status: status, Created: created}
	}
	a.runs = []*sim.Run{
		mk(sim.StatusSuccess, today.Add(9*time.Hour)),
		mk(sim.StatusFailed, today.Add(10*time.Hour)),
		mk(sim.StatusRunning, today.Add(11*time.Hour)),
		mk(sim.StatusSuccess, today.AddDate(0, 0, -1)),
	}

	out := a.historyWithToday()
	if out[0].Runs != 5 || out[0].Failed != 1 {
		t.Fatalf("yesterday mutated: %+v", out[0])
	}
	if out[1].Runs != 4 || out[1].Failed != 1 {
		t.Fatalf("today = %+v, want Runs 4 Failed 1", out[1])
	}
	// the source series is untouched
	if a.history[1].Runs != 2 {
		t.Fatalf("history mutated: %+v", a.history[1])
	}
}

func TestRenderActivityChartFallbacks(t *testing.T) {
	if got := ansi.Strip(renderActivityChart(nil, 80)); got != "no activity recorded" {
		t.Fatalf("empty points = %q", got)
	}
	points := demo.History(time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC), activityDays)
	if got := ansi.Strip(renderActivityChart(points, 10)); got != "no activity recorded" {
		t.Fatalf("narrow width = %q", got)
	}

	chart := renderActivityChart(points, 60)
	if strings.TrimSpace(ansi.Strip(chart)) == "" {
		t.Fatal("chart rendered empty")
	}
	if lines := strings.Count(chart, "\n") + 1; lines < activityChartHeight {
		t.Fatalf("chart height = %d lines, want at least %d", lines, activityChartHeight)
	}
}

func TestSeverityBadgeText(t *testing.T) {
	for _, sev := range []string{"sev1", "sev2", "sev3"} {
		if got := ansi.Strip(severityBadge(sev)); got != "["+sev+"]" {
			t.Fatalf("severityBadge(%s) = %q", sev, got)
		}
	}
}

func TestShortID(t *testing.T) {
	if got := shortID("0123456789abcdef"); got != "01234567" {
		t.Fatalf("shortID = %q", got)
	}
	if got := shortID("abc"); got != "abc" {
		t.Fatalf("short input = %q", got)
	}
}

func TestRunStatusCounts(t *testing.T) {
	a := newTestApp(t)
	a.runs = []*sim.Run{
		{Status: sim.StatusQueued},
		{Status: sim.StatusRunning},
		{Status: sim.StatusRunning},
		{Status: sim.StatusSuccess},
		{Status: sim.StatusFailed},
	}
	c := a.runStatusCounts()
	if c.Queued != 1 || c.Running != 2 || c.Success != 1 || c.Failed != 1 {
		t.Fatalf("counts = %+v", c)
	}
	if c.Total() != 5 {
		t.Fatalf("total = %d", c.Total())
	}
}

func TestEngineTagAndLabel(t *testing.T) {
	if engineTag(catalog.EngineDeterministic) != "det" || engineTag(catalog.EngineAssisted) != "ai" {
		t.Fatal("engine tags wrong")
	}
	if engineLabel(catalog.EngineDeterministic) != "deterministic" || engineLabel(catalog.EngineAssisted) != "assisted" {
		t.Fatal("engine labels wrong")
	}
}
