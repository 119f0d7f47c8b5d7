package tui

import (
	"fmt"
	"sort"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jask/crewdeck/internal/catalog"
)

type Command struct {
	ID          string
	Label       string
	Description string
	Category    string
	Scopes      []string
	Enabled     func(a *App) (bool, string)
	Execute     func(a *App) (tea.Cmd, error)
}

type CommandMatch struct {
	Command        Command
	Score          int
	Enabled        bool
	DisabledReason string
}

type CommandRegistry struct {
	commands []Command
	byID     map[string]Command
}

// NewCommandRegistry builds the palette command set. Navigation commands are
// fixed; one launch command is generated per catalog skill.
func NewCommandRegistry(cat *catalog.Catalog) *CommandRegistry {
	r := &CommandRegistry{}
	r.commands = []Command{
		{
			ID:          "nav:dashboard",
			Label:       "Go to Dashboard",
			Description: "Switch to the dashboard screen",
			Category:    "Navigation",
			Enabled:     commandAlwaysEnabled,
			Execute: func(a *App) (tea.Cmd, error) {
				a.setScreen(screenDashboard)
				return nil, nil
			},
		},
		{
			ID:          "nav:console",
			Label:       "Go to Console",
			Description: "Switch to the skill console",
			Category:    "Navigation",
			Enabled:     commandAlwaysEnabled,
			Execute: func(a *App) (tea.Cmd, error) {
				a.setScreen(screenConsole)
				return nil, nil
			},
		},
		{
			ID:          "nav:library",
			Label:       "Go to Library",
			Description: "Switch to the library screen",
			Category:    "Navigation",
			Enabled:     commandAlwaysEnabled,
			Execute: func(a *App) (tea.Cmd, error) {
				a.setScreen(screenLibrary)
				return nil, nil
			},
		},
		{
			ID:          "nav:viewer",
			Label:       "Go to Viewer",
			Description: "Return to the last opened document",
			Category:    "Navigation",
			Enabled: func(a *App) (bool, string) {
				if a.viewerID == "" {
					return false, "No document has been opened yet."
				}
				return true, ""
			},
			Execute: func(a *App) (tea.Cmd, error) {
				if a.viewerID == "" {
					return nil, fmt.Errorf("no document open")
				}
				a.setScreen(screenViewer)
				return nil, nil
			},
		},
		{
			ID:          "lib:flows",
			Label:       "Library: Flow Specs",
			Description: "Open the flow spec collection",
			Category:    "Library",
			Enabled:     commandAlwaysEnabled,
			Execute: func(a *App) (tea.Cmd, error) {
				a.setScreen(screenLibrary)
				a.setLibraryTab(libTabFlows)
				return nil, nil
			},
		},
		{
			ID:          "lib:runbooks",
			Label:       "Library: Runbooks",
			Description: "Open the runbook collection",
			Category:    "Library",
			Enabled:     commandAlwaysEnabled,
			Execute: func(a *App) (tea.Cmd, error) {
				a.setScreen(screenLibrary)
				a.setLibraryTab(libTabRunbooks)
				return nil, nil
			},
		},
		{
			ID:          "lib:incidents",
			Label:       "Library: Incidents",
			Description: "Open the incident collection",
			Category:    "Library",
			Enabled:     commandAlwaysEnabled,
			Execute: func(a *App) (tea.Cmd, error) {
				a.setScreen(screenLibrary)
				a.setLibraryTab(libTabIncidents)
				return nil, nil
			},
		},
		{
			ID:          "lib:apps",
			Label:       "Library: Portal Apps",
			Description: "Open the portal app collection",
			Category:    "Library",
			Enabled:     commandAlwaysEnabled,
			Execute: func(a *App) (tea.Cmd, error) {
				a.setScreen(screenLibrary)
				a.setLibraryTab(libTabApps)
				return nil, nil
			},
		},
		{
			ID:          "search:clear",
			Label:       "Clear Search",
			Description: "Clear the active screen's search term",
			Category:    "Search",
			Scopes:      []string{scopeConsole, scopeLibrary},
			Enabled: func(a *App) (bool, string) {
				if a.activeQuery() == "" {
					return false, "No active search term."
				}
				return true, ""
			},
			Execute: func(a *App) (tea.Cmd, error) {
				a.clearActiveQuery()
				a.setStatus("Search cleared.")
				return nil, nil
			},
		},
		{
			ID:          "run:follow-latest",
			Label:       "Follow Latest Run",
			Description: "Pin the console run pane back to the newest run",
			Category:    "Runs",
			Scopes:      []string{scopeConsole},
			Enabled: func(a *App) (bool, string) {
				if a.selectedRunID == "" {
					return false, "Already following the latest run."
				}
				return true, ""
			},
			Execute: func(a *App) (tea.Cmd, error) {
				a.selectedRunID = ""
				a.setStatus("Following latest run.")
				return nil, nil
			},
		},
	}
	if cat != nil {
		for _, skill := range cat.Skills() {
			s := skill
			r.commands = append(r.commands, Command{
				ID:          "launch:" + s.ID,
				Label:       "Launch: " + s.Title,
				Description: fmt.Sprintf("Start a run (%s engine, %s risk)", s.Engine, s.Risk),
				Category:    "Skills",
				Enabled:     commandAlwaysEnabled,
				Execute: func(a *App) (tea.Cmd, error) {
					// Switch first: setScreen clears the status line, and the
					// queued confirmation has to survive the jump.
					a.setScreen(screenConsole)
					a.launchSkill(s)
					return nil, nil
				},
			})
		}
	}
	r.byID = make(map[string]Command, len(r.commands))
	for _, cmd := range r.commands {
		r.byID[cmd.ID] = cmd
	}
	return r
}

func commandAlwaysEnabled(*App) (bool, string) {
	return true, ""
}

func (r *CommandRegistry) All() []Command {
	if r == nil {
		return nil
	}
	out := make([]Command, len(r.commands))
	copy(out, r.commands)
	return out
}

// Search returns scope-visible commands matching the query, best first.
// Disabled commands sort after enabled ones so the top hit is runnable.
func (r *CommandRegistry) Search(query, scope string, a *App) []CommandMatch {
	if r == nil {
		return nil
	}
	q := strings.TrimSpace(query)
	out := make([]CommandMatch, 0, len(r.commands))
	for _, cmd := range r.commands {
		if !commandInScope(cmd, scope) {
			continue
		}
		matched, score := commandMatchScore(cmd, q)
		if !matched {
			continue
		}
		enabled := true
		reason := ""
		if cmd.Enabled != nil {
			enabled, reason = cmd.Enabled(a)
		}
		out = append(out, CommandMatch{
			Command:        cmd,
			Score:          score,
			Enabled:        enabled,
			DisabledReason: reason,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Enabled != out[j].Enabled {
			return out[i].Enabled
		}
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		li := strings.ToLower(out[i].Command.Label)
		lj := strings.ToLower(out[j].Command.Label)
		if li != lj {
			return li < lj
		}
		return out[i].Command.ID < out[j].Command.ID
	})
	return out
}

func (r *CommandRegistry) ExecuteByID(id, scope string, a *App) (tea.Cmd, error) {
	if r == nil {
		return nil, fmt.Errorf("command registry is not initialized")
	}
	cmd, ok := r.byID[id]
	if !ok {
		return nil, fmt.Errorf("unknown command %q", id)
	}
	if !commandInScope(cmd, scope) {
		return nil, fmt.Errorf("command %q unavailable in scope %q", id, scope)
	}
	if cmd.Enabled != nil {
		enabled, reason := cmd.Enabled(a)
		if !enabled {
			if strings.TrimSpace(reason) == "" {
				reason = "command is disabled"
			}
			return nil, fmt.Errorf("%s", reason)
		}
	}
	if cmd.Execute == nil {
		return nil, fmt.Errorf("command %q has no executor", id)
	}
	return cmd.Execute(a)
}

func commandInScope(cmd Command, scope string) bool {
	if len(cmd.Scopes) == 0 {
		return true
	}
	for _, s := range cmd.Scopes {
		if strings.EqualFold(strings.TrimSpace(s), scopeGlobal) {
			return true
		}
	}
	for _, s := range cmd.Scopes {
		if strings.EqualFold(strings.TrimSpace(s), strings.TrimSpace(scope)) {
			return true
		}
	}
	return false
}

func commandMatchScore(cmd Command, query string) (bool, int) {
	if query == "" {
		return true, 0
	}
	best := -1
	fields := []string{cmd.Label, cmd.ID, cmd.Description}
	for _, field := range fields {
		matched, score := fuzzyMatchScore(field, query)
		if !matched {
			continue
		}
		if strings.EqualFold(field, query) {
			score += 15
		}
		if score > best {
			best = score
		}
	}
	if best < 0 {
		return false, 0
	}
	return true, best
}

// fuzzyMatchScore reports whether query is a subsequence of label and scores
// the match: prefix hits and consecutive runs rank higher, exact matches
// highest.
func fuzzyMatchScore(label, query string) (bool, int) {
	if query == "" {
		return true, 0
	}
	labelLower := strings.ToLower(label)
	queryLower := strings.ToLower(query)

	matchIdx := make([]int, 0, len(queryLower))
	searchFrom := 0
	for i := 0; i < len(queryLower); i++ {
		ch := queryLower[i]
		found := false
		for j := searchFrom; j < len(labelLower); j++ {
			if labelLower[j] == ch {
				matchIdx = append(matchIdx, j)
				searchFrom = j + 1
				found = true
				break
			}
		}
		if !found {
			return false, 0
		}
	}

	score := len(queryLower)
	if len(matchIdx) > 0 && matchIdx[0] == 0 {
		score += 10
	}
	for i := 1; i < len(matchIdx); i++ {
		if matchIdx[i] == matchIdx[i-1]+1 {
			score += 3
		}
	}
	if strings.EqualFold(strings.TrimSpace(label), strings.TrimSpace(query)) {
		score += 20
	}
	return true, score
}

func isPrintableASCIIKey(keyName string) bool {
	return len(keyName) == 1 && keyName[0] >= 32 && keyName[0] < 127
}

// ---------------------------------------------------------------------------
// Palette state (lives on the App, driven from Update)
// ---------------------------------------------------------------------------

const palettePageSize = 10

func (a *App) openPalette() {
	a.paletteOpen = true
	a.paletteQuery = ""
	a.paletteCursor = 0
	a.paletteScroll = 0
	a.paletteScope = a.contextScope()
	a.rebuildPaletteMatches()
}

func (a *App) closePalette() {
	a.paletteOpen = false
	a.paletteQuery = ""
	a.paletteCursor = 0
	a.paletteScroll = 0
	a.paletteMatches = nil
	a.paletteScope = ""
}

func (a *App) rebuildPaletteMatches() {
	if a.commands == nil {
		a.paletteMatches = nil
		a.paletteCursor = 0
		return
	}
	scope := a.paletteScope
	if strings.TrimSpace(scope) == "" {
		scope = a.contextScope()
	}
	a.paletteMatches = a.commands.Search(a.paletteQuery, scope, a)
	if len(a.paletteMatches) == 0 {
		a.paletteCursor = 0
		a.paletteScroll = 0
		return
	}
	if a.paletteCursor >= len(a.paletteMatches) {
		a.paletteCursor = len(a.paletteMatches) - 1
	}
	if a.paletteCursor < 0 {
		a.paletteCursor = 0
	}
	a.ensurePaletteCursorVisible()
}

func (a *App) ensurePaletteCursorVisible() {
	if len(a.paletteMatches) <= palettePageSize {
		a.paletteScroll = 0
		return
	}
	if a.paletteCursor < a.paletteScroll {
		a.paletteScroll = a.paletteCursor
	}
	if a.paletteCursor > a.paletteScroll+palettePageSize-1 {
		a.paletteScroll = a.paletteCursor - palettePageSize + 1
	}
	maxOffset := len(a.paletteMatches) - palettePageSize
	if a.paletteScroll > maxOffset {
		a.paletteScroll = maxOffset
	}
	if a.paletteScroll < 0 {
		a.paletteScroll = 0
	}
}

func (a *App) handlePaletteKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case a.isAction(scopePalette, actionClose, msg):
		a.closePalette()
		return a, nil
	case a.isAction(scopePalette, actionSelect, msg):
		return a.executeSelectedCommand()
	case msg.Type == tea.KeyBackspace || msg.Type == tea.KeyCtrlH:
		if len(a.paletteQuery) > 0 {
			a.paletteQuery = a.paletteQuery[:len(a.paletteQuery)-1]
			a.rebuildPaletteMatches()
		}
		return a, nil
	case isPrintableASCIIKey(msg.String()):
		a.paletteQuery += msg.String()
		a.rebuildPaletteMatches()
		return a, nil
	case a.isAction(scopePalette, actionNavigate, msg):
		switch normalizeKeyName(msg.String()) {
		case "up", "ctrl+p":
			if a.paletteCursor > 0 {
				a.paletteCursor--
			}
		case "down", "ctrl+n":
			if a.paletteCursor < len(a.paletteMatches)-1 {
				a.paletteCursor++
			}
		}
		a.ensurePaletteCursorVisible()
		return a, nil
	}
	return a, nil
}

func (a *App) executeSelectedCommand() (tea.Model, tea.Cmd) {
	if len(a.paletteMatches) == 0 {
		a.setError("No matching command.")
		return a, nil
	}
	idx := a.paletteCursor
	if idx < 0 || idx >= len(a.paletteMatches) {
		idx = 0
	}
	match := a.paletteMatches[idx]
	if !match.Enabled {
		reason := strings.TrimSpace(match.DisabledReason)
		if reason == "" {
			reason = "Selected command is currently unavailable."
		}
		a.setError(reason)
		return a, nil
	}
	scope := a.paletteScope
	a.closePalette()
	cmd, err := a.commands.ExecuteByID(match.Command.ID, scope, a)
	if err != nil {
		a.setError(fmt.Sprintf("Command failed: %v", err))
		return a, nil
	}
	return a, cmd
}
