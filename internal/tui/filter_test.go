package tui

import (
	"testing"

	"github.com/jask/crewdeck/internal/catalog"
)

func filterFixtureSkills() []catalog.Skill {
	return []catalog.Skill{
		{ID: "triage-bot", Title: "Issue Triage Bot", Persona: "support engineer", Tags: []string{"intake", "hygiene"}},
		{ID: "patch-pilot", Title: "Patch Pilot", Persona: "code reviewer", Tags: []string{"codegen", "review"}},
	}
}

func TestFilterSkillsMatchesAllFields(t *testing.T) {
	skills := filterFixtureSkills()

	cases := []struct {
		query string
		want  string
	}{
		{"triage", "triage-bot"},
		{"Patch Pi", "patch-pilot"},
		{"reviewer", "patch-pilot"},
		{"HYGIENE", "triage-bot"},
		{"  pilot  ", "patch-pilot"},
	}
	for _, tc := range cases {
		got := filterSkills(skills, tc.query)
		if len(got) != 1 {
			t.Fatalf("query %q: got %d skills, want 1", tc.query, len(got))
		}
		if got[0].ID != tc.want {
			t.Fatalf("query %q: got %s, want %s", tc.query, got[0].ID, tc.want)
		}
	}
}

func TestFilterSkillsEmptyQueryReturnsAll(t *testing.T) {
	skills := filterFixtureSkills()
	if got := filterSkills(skills, ""); len(got) != len(skills) {
		t.Fatalf("empty query returned %d skills, want %d", len(got), len(skills))
	}
	if got := filterSkills(skills, "   "); len(got) != len(skills) {
		t.Fatalf("blank query returned %d skills, want %d", len(got), len(skills))
	}
}

func TestFilterSkillsNoMatch(t *testing.T) {
	if got := filterSkills(filterFixtureSkills(), "warehouse"); len(got) != 0 {
		t.Fatalf("got %d skills, want none", len(got))
	}
}

func TestNearestSkillSuggestsCloseMisses(t *testing.T) {
	skills := filterFixtureSkills()

	s, ok := nearestSkill(skills, "patch pylot")
	if !ok {
		t.Fatal("expected a suggestion for a one-letter typo")
	}
	if s.ID != "patch-pilot" {
		t.Fatalf("suggested %s, want patch-pilot", s.ID)
	}

	s, ok = nearestSkill(skills, "triage bot")
	if !ok || s.ID != "triage-bot" {
		t.Fatalf("suggested %v %v, want triage-bot", s.ID, ok)
	}
}

func TestNearestSkillRejectsFarQueries(t *testing.T) {
	skills := filterFixtureSkills()

	if _, ok := nearestSkill(skills, "zzzzzzzz"); ok {
		t.Fatal("garbage query should not produce a suggestion")
	}
	if _, ok := nearestSkill(skills, ""); ok {
		t.Fatal("empty query should not produce a suggestion")
	}
	if _, ok := nearestSkill(nil, "anything"); ok {
		t.Fatal("empty catalog should not produce a suggestion")
	}
}

func TestLibraryFilters(t *testing.T) {
	flows := []catalog.FlowSpec{
		{ID: "flow-release", Title: "Release Train", Trigger: "tag push on main", Owner: "release"},
		{ID: "flow-intake", Title: "Issue Intake", Trigger: "new issue", Owner: "support"},
	}
	if got := filterFlows(flows, "tag push"); len(got) != 1 || got[0].ID != "flow-release" {
		t.Fatalf("trigger filter got %v", got)
	}

	books := []catalog.Runbook{
		{ID: "rb-a", Title: "Queue stalled", Service: "factory-core", Severity: "sev2"},
		{ID: "rb-b", Title: "Gate backlog", Service: "gatekeeper", Severity: "sev3"},
	}
	if got := filterRunbooks(books, "sev3"); len(got) != 1 || got[0].ID != "rb-b" {
		t.Fatalf("severity filter got %v", got)
	}

	incidents := []catalog.IncidentBundle{
		{ID: "inc-1", Title: "API flapping", Service: "vendor-bridge", Status: "open"},
		{ID: "inc-2", Title: "Disk pressure", Service: "artifact-store", Status: "resolved"},
	}
	if got := filterIncidents(incidents, "resolved"); len(got) != 1 || got[0].ID != "inc-2" {
		t.Fatalf("status filter got %v", got)
	}

	apps := []catalog.PortalApp{
		{ID: "app-1", Name: "Console", Blurb: "launch skills"},
		{ID: "app-2", Name: "Library", Blurb: "browse docs"},
	}
	if got := filterApps(apps, "browse"); len(got) != 1 || got[0].ID != "app-2" {
		t.Fatalf("blurb filter got %v", got)
	}
}
