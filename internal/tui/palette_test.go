package tui

import (
	"strings"
	"testing"
)

func TestCommandRegistryHasExpectedCommands(t *testing.T) {
	a := newTestApp(t)
	all := a.commands.All()

	want := map[string]bool{
		"nav:dashboard":     true,
		"nav:console":       true,
		"nav:library":       true,
		"nav:viewer":        true,
		"lib:flows":         true,
		"lib:runbooks":      true,
		"lib:incidents":     true,
		"lib:apps":          true,
		"search:clear":      true,
		"run:follow-latest": true,
	}
	for _, s := range a.skills {
		want["launch:"+s.ID] = true
	}
	if len(all) != len(want) {
		t.Fatalf("command count = %d, want %d", len(all), len(want))
	}
	for _, cmd := range all {
		if !want[cmd.ID] {
			t.Fatalf("unexpected command ID %q", cmd.ID)
		}
	}
}

func TestCommandSearchMatchesLabelIDAndDescription(t *testing.T) {
	a := newTestApp(t)

	byLabel := a.commands.Search("runbooks", scopeDashboard, a)
	if len(byLabel) == 0 || byLabel[0].Command.ID != "lib:runbooks" {
		t.Fatalf("label search top = %+v, want lib:runbooks", byLabel)
	}

	byID := a.commands.Search("nav:lib", scopeDashboard, a)
	found := false
	for _, match := range byID {
		if match.Command.ID == "nav:library" {
			found = true
			break
		}
	}
	if !found {
		t.Fatal("expected nav:library in ID search results")
	}

	byDesc := a.commands.Search("deterministic engine", scopeDashboard, a)
	if len(byDesc) == 0 {
		t.Fatal("expected description matches for deterministic engine")
	}
	for _, match := range byDesc {
		if !strings.HasPrefix(match.Command.ID, "launch:") {
			t.Fatalf("description search surfaced %q", match.Command.ID)
		}
	}
}

func TestCommandSearchEmptyQueryListsScopeSortedEnabledFirst(t *testing.T) {
	a := newTestApp(t)

	matches := a.commands.Search("", scopeDashboard, a)
	// console/library-only commands stay hidden on the dashboard
	for _, match := range matches {
		if match.Command.ID == "search:clear" || match.Command.ID == "run:follow-latest" {
			t.Fatalf("scoped command %q leaked into dashboard results", match.Command.ID)
		}
	}
	if len(matches) != len(a.commands.All())-2 {
		t.Fatalf("dashboard matches = %d, want %d", len(matches), len(a.commands.All())-2)
	}

	seenDisabled := false
	for _, match := range matches {
		if !match.Enabled {
			seenDisabled = true
		} else if seenDisabled {
			t.Fatalf("enabled command %q sorted after a disabled one", match.Command.ID)
		}
	}
	// nav:viewer is the only disabled command before a document is opened
	last := matches[len(matches)-1]
	if last.Command.ID != "nav:viewer" || last.Enabled {
		t.Fatalf("last match = %q enabled=%v, want disabled nav:viewer", last.Command.ID, last.Enabled)
	}
}

func TestCommandScopeFiltering(t *testing.T) {
	a := newTestApp(t)

	onConsole := a.commands.Search("follow", scopeConsole, a)
	found := false
	for _, match := range onConsole {
		if match.Command.ID == "run:follow-latest" {
			found = true
		}
	}
	if !found {
		t.Fatal("run:follow-latest missing from console scope")
	}

	onLibrary := a.commands.Search("follow", scopeLibrary, a)
	for _, match := range onLibrary {
		if match.Command.ID == "run:follow-latest" {
			t.Fatal("run:follow-latest leaked into library scope")
		}
	}
}

func TestCommandExecuteByIDRespectsScopeAndEnablement(t *testing.T) {
	a := newTestApp(t)

	if _, err := a.commands.ExecuteByID("run:follow-latest", scopeLibrary, a); err == nil {
		t.Fatal("expected scope error executing a console command from the library")
	}

	if _, err := a.commands.ExecuteByID("nav:viewer", scopeDashboard, a); err == nil {
		t.Fatal("expected enablement error with no open document")
	}

	if _, err := a.commands.ExecuteByID("nosuch", scopeDashboard, a); err == nil {
		t.Fatal("expected error for unknown command")
	}

	if _, err := a.commands.ExecuteByID("nav:console", scopeDashboard, a); err != nil {
		t.Fatalf("nav:console failed: %v", err)
	}
	if a.screen != screenConsole {
		t.Fatalf("screen = %q, want console", a.screen)
	}
}

func TestCommandClearSearchRoundTrip(t *testing.T) {
	a := newTestApp(t)
	a.screen = screenConsole
	a.consoleQuery = "scribe"

	matches := a.commands.Search("clear", scopeConsole, a)
	if len(matches) == 0 || matches[0].Command.ID != "search:clear" || !matches[0].Enabled {
		t.Fatalf("expected enabled search:clear on top, got %+v", matches)
	}

	if _, err := a.commands.ExecuteByID("search:clear", scopeConsole, a); err != nil {
		t.Fatalf("search:clear failed: %v", err)
	}
	if a.consoleQuery != "" {
		t.Fatalf("consoleQuery = %q, want empty", a.consoleQuery)
	}
	if a.status != "Search cleared." {
		t.Fatalf("status = %q", a.status)
	}
}

func TestFuzzyMatchScoring(t *testing.T) {
	cases := []struct {
		label   string
		query   string
		matched bool
	}{
		{"Go to Dashboard", "dash", true},
		{"Go to Dashboard", "gtd", true},
		{"Go to Dashboard", "xyz", false},
		{"Launch: Patch Pilot", "patch", true},
		{"Launch: Patch Pilot", "pp", true},
		{"Launch: Patch Pilot", "pilotpatch", false}, // order matters
		{"anything", "", true},
	}
	for _, tc := range cases {
		matched, _ := fuzzyMatchScore(tc.label, tc.query)
		if matched != tc.matched {
			t.Fatalf("fuzzyMatchScore(%q, %q) matched=%v, want %v", tc.label, tc.query, matched, tc.matched)
		}
	}

	_, prefix := fuzzyMatchScore("dashboard", "dash")
	_, scattered := fuzzyMatchScore("deep stash hoard", "dash")
	if prefix <= scattered {
		t.Fatalf("prefix score %d should beat scattered score %d", prefix, scattered)
	}

	_, exact := fuzzyMatchScore("patch", "patch")
	_, partial := fuzzyMatchScore("patchwork", "patch")
	if exact <= partial {
		t.Fatalf("exact score %d should beat partial score %d", exact, partial)
	}
}

func TestPaletteCursorScrollWindow(t *testing.T) {
	a := newTestApp(t)
	a.openPalette()
	if len(a.paletteMatches) <= palettePageSize {
		t.Fatalf("need more than a page of matches, got %d", len(a.paletteMatches))
	}

	for i := 0; i < palettePageSize+2; i++ {
		a.paletteCursor++
		a.ensurePaletteCursorVisible()
	}
	if a.paletteCursor != palettePageSize+2 {
		t.Fatalf("cursor = %d", a.paletteCursor)
	}
	if a.paletteScroll != 3 {
		t.Fatalf("scroll = %d, want 3", a.paletteScroll)
	}

	a.paletteCursor = 0
	a.ensurePaletteCursorVisible()
	if a.paletteScroll != 0 {
		t.Fatalf("scroll after jump home = %d, want 0", a.paletteScroll)
	}
}
