package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
)

type Action string

type Binding struct {
	Action Action
	Keys   []string
	Help   string
	Scopes []string
}

// KeyRegistry maps key names to actions per interaction scope, with a global
// fallback. Footer help is derived from the same table.
type KeyRegistry struct {
	bindingsByScope map[string][]*Binding
	indexByScope    map[string]map[string]*Binding
}

const (
	scopeGlobal    = "global"
	scopeDashboard = "dashboard"
	scopeConsole   = "console"
	scopeLibrary   = "library"
	scopeViewer    = "viewer"
	scopeSearch    = "search"
	scopePalette   = "palette"
)

const (
	actionQuit        Action = "quit"
	actionNextScreen  Action = "next_screen"
	actionPrevScreen  Action = "prev_screen"
	actionGoDashboard Action = "go_dashboard"
	actionGoConsole   Action = "go_console"
	actionGoLibrary   Action = "go_library"
	actionGoViewer    Action = "go_viewer"
	actionNavigate    Action = "navigate"
	actionSelect      Action = "select"
	actionBack        Action = "back"
	actionSearch      Action = "search"
	actionClearSearch Action = "clear_search"
	actionConfirm     Action = "confirm"
	actionCancel      Action = "cancel"
	actionJumpTop     Action = "jump_top"
	actionJumpBottom  Action = "jump_bottom"
	actionPrevRun     Action = "prev_run"
	actionNextRun     Action = "next_run"
	actionPrevTab     Action = "prev_collection"
	actionNextTab     Action = "next_collection"
	actionPalette     Action = "palette"
	actionClose       Action = "close"
)

func NewKeyRegistry() *KeyRegistry {
	r := &KeyRegistry{
		bindingsByScope: make(map[string][]*Binding),
		indexByScope:    make(map[string]map[string]*Binding),
	}

	reg := func(scope string, action Action, keys []string, help string) {
		r.Register(Binding{Action: action, Keys: keys, Help: help, Scopes: []string{scope}})
	}

	// Global fallback lookup.
	reg(scopeGlobal, actionQuit, []string{"q", "ctrl+c"}, "quit")
	reg(scopeGlobal, actionNextScreen, []string{"tab"}, "next screen")
	reg(scopeGlobal, actionPrevScreen, []string{"shift+tab"}, "prev screen")
	reg(scopeGlobal, actionGoDashboard, []string{"1"}, "dashboard")
	reg(scopeGlobal, actionGoConsole, []string{"2"}, "console")
	reg(scopeGlobal, actionGoLibrary, []string{"3"}, "library")
	reg(scopeGlobal, actionGoViewer, []string{"4"}, "viewer")
	reg(scopeGlobal, actionPalette, []string{"ctrl+k"}, "commands")

	// Dashboard footer: screens plus quit.
	reg(scopeDashboard, actionGoConsole, []string{"2"}, "console")
	reg(scopeDashboard, actionNextScreen, []string{"tab"}, "next screen")
	reg(scopeDashboard, actionQuit, []string{"q", "ctrl+c"}, "quit")

	// Console footer.
	reg(scopeConsole, actionNavigate, []string{"j/k", "j", "k", "up", "down", "ctrl+p", "ctrl+n"}, "navigate")
	reg(scopeConsole, actionSelect, []string{"enter"}, "launch")
	reg(scopeConsole, actionSearch, []string{"/"}, "search")
	reg(scopeConsole, actionPrevRun, []string{"["}, "prev run")
	reg(scopeConsole, actionNextRun, []string{"]"}, "next run")
	reg(scopeConsole, actionJumpTop, []string{"g"}, "top")
	reg(scopeConsole, actionJumpBottom, []string{"G"}, "bottom")
	reg(scopeConsole, actionClearSearch, []string{"esc"}, "clear")
	reg(scopeConsole, actionNextScreen, []string{"tab"}, "next screen")
	reg(scopeConsole, actionQuit, []string{"q", "ctrl+c"}, "quit")

	// Library footer.
	reg(scopeLibrary, actionPrevTab, []string{"h", "left"}, "prev set")
	reg(scopeLibrary, actionNextTab, []string{"l", "right"}, "next set")
	reg(scopeLibrary, actionNavigate, []string{"j/k", "j", "k", "up", "down"}, "navigate")
	reg(scopeLibrary, actionSelect, []string{"enter"}, "open")
	reg(scopeLibrary, actionSearch, []string{"/"}, "search")
	reg(scopeLibrary, actionClearSearch, []string{"esc"}, "clear")
	reg(scopeLibrary, actionNextScreen, []string{"tab"}, "next screen")
	reg(scopeLibrary, actionQuit, []string{"q", "ctrl+c"}, "quit")

	// Viewer footer.
	reg(scopeViewer, actionNavigate, []string{"j/k", "j", "k", "up", "down"}, "scroll")
	reg(scopeViewer, actionJumpTop, []string{"g"}, "top")
	reg(scopeViewer, actionJumpBottom, []string{"G"}, "bottom")
	reg(scopeViewer, actionBack, []string{"esc"}, "back")
	reg(scopeViewer, actionQuit, []string{"q", "ctrl+c"}, "quit")

	// Search editing footer: enter commits, esc cancels.
	reg(scopeSearch, actionConfirm, []string{"enter"}, "apply")
	reg(scopeSearch, actionCancel, []string{"esc"}, "cancel")

	// Command palette footer.
	reg(scopePalette, actionNavigate, []string{"j/k", "up", "down", "ctrl+p", "ctrl+n"}, "navigate")
	reg(scopePalette, actionSelect, []string{"enter"}, "run")
	reg(scopePalette, actionClose, []string{"esc"}, "close")

	return r
}

func (r *KeyRegistry) Register(b Binding) {
	if r == nil {
		return
	}
	for _, scope := range b.Scopes {
		scope = strings.TrimSpace(scope)
		if scope == "" || len(b.Keys) == 0 {
			continue
		}
		if _, ok := r.indexByScope[scope]; !ok {
			r.indexByScope[scope] = make(map[string]*Binding)
		}
		normKeys := normalizeKeyList(b.Keys)
		if len(normKeys) == 0 {
			continue
		}
		if r.scopeHasAnyKey(scope, normKeys) {
			continue
		}

		copyBinding := b
		copyBinding.Keys = normKeys
		copyBinding.Scopes = []string{scope}
		r.bindingsByScope[scope] = append(r.bindingsByScope[scope], &copyBinding)
		for _, k := range copyBinding.Keys {
			r.indexByScope[scope][k] = &copyBinding
		}
	}
}

func (r *KeyRegistry) BindingsForScope(scope string) []Binding {
	if r == nil {
		return nil
	}
	items := r.bindingsByScope[scope]
	out := make([]Binding, 0, len(items))
	for _, b := range items {
		out = append(out, *b)
	}
	return out
}

// Lookup resolves a pressed key within a scope, falling back to the global
// scope when the scope itself has no binding for it.
func (r *KeyRegistry) Lookup(keyName, scope string) *Binding {
	if r == nil || keyName == "" {
		return nil
	}
	keyName = normalizeKeyName(keyName)
	if b := r.lookupInScope(keyName, scope); b != nil {
		return b
	}
	if scope != scopeGlobal {
		if b := r.lookupInScope(keyName, scopeGlobal); b != nil {
			return b
		}
	}
	return nil
}

// HelpBindings converts a scope's bindings into bubbles help entries for the
// footer.
func (r *KeyRegistry) HelpBindings(scope string) []key.Binding {
	items := r.BindingsForScope(scope)
	out := make([]key.Binding, 0, len(items))
	for _, b := range items {
		if len(b.Keys) == 0 {
			continue
		}
		out = append(out, key.NewBinding(key.WithKeys(b.Keys...), key.WithHelp(b.Keys[0], b.Help)))
	}
	return out
}

func (r *KeyRegistry) lookupInScope(keyName, scope string) *Binding {
	if scope == "" {
		return nil
	}
	lookup, ok := r.indexByScope[scope]
	if !ok {
		return nil
	}
	return lookup[keyName]
}

func (r *KeyRegistry) scopeHasAnyKey(scope string, keys []string) bool {
	lookup := r.indexByScope[scope]
	for _, k := range keys {
		if _, exists := lookup[k]; exists {
			return true
		}
	}
	return false
}

func normalizeKeyList(keys []string) []string {
	out := make([]string, 0, len(keys))
	seen := make(map[string]bool)
	for _, k := range keys {
		n := normalizeKeyName(k)
		if n == "" || seen[n] {
			continue
		}
		seen[n] = true
		out = append(out, n)
	}
	return out
}

func normalizeKeyName(k string) string {
	if k == " " {
		return "space"
	}
	trimmed := strings.TrimSpace(k)
	if trimmed == "" {
		return ""
	}
	if len(trimmed) == 1 {
		ch := trimmed[0]
		if ch >= 'A' && ch <= 'Z' {
			// Preserve single uppercase rune so uppercase/lowercase bindings
			// can be distinct actions within the same scope.
			return trimmed
		}
	}
	s := strings.ToLower(trimmed)
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, "control+", "ctrl+")
	s = strings.ReplaceAll(s, "return", "enter")
	return s
}
