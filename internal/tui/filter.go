package tui

import (
	"strings"

	"github.com/agnivade/levenshtein"

	"github.com/jask/crewdeck/internal/catalog"
)

// filterSkills returns the skills whose id, title, persona or tags contain
// the query, case-insensitively. Empty query returns everything.
func filterSkills(skills []catalog.Skill, query string) []catalog.Skill {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return skills
	}
	var out []catalog.Skill
	for _, s := range skills {
		if strings.Contains(strings.ToLower(s.ID), q) ||
			strings.Contains(strings.ToLower(s.Title), q) ||
			strings.Contains(strings.ToLower(s.Persona), q) ||
			containsFold(s.Tags, q) {
			out = append(out, s)
		}
	}
	return out
}

// nearestSkill suggests the closest skill for a query that matched nothing,
// using edit distance against ids and titles. A suggestion is only offered
// when the distance is small relative to the strings compared.
func nearestSkill(skills []catalog.Skill, query string) (catalog.Skill, bool) {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" || len(skills) == 0 {
		return catalog.Skill{}, false
	}
	best := catalog.Skill{}
	bestDist := -1
	for _, s := range skills {
		for _, cand := range []string{strings.ToLower(s.ID), strings.ToLower(s.Title)} {
			d := levenshtein.ComputeDistance(q, cand)
			if bestDist < 0 || d < bestDist {
				best = s
				bestDist = d
			}
		}
	}
	maxlen := len(q)
	if len(best.ID) > maxlen {
		maxlen = len(best.ID)
	}
	if float64(bestDist)/float64(maxlen) >= 0.7 {
		return catalog.Skill{}, false
	}
	return best, true
}

func filterFlows(flows []catalog.FlowSpec, query string) []catalog.FlowSpec {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return flows
	}
	var out []catalog.FlowSpec
	for _, f := range flows {
		if strings.Contains(strings.ToLower(f.ID), q) ||
			strings.Contains(strings.ToLower(f.Title), q) ||
			strings.Contains(strings.ToLower(f.Trigger), q) ||
			strings.Contains(strings.ToLower(f.Owner), q) {
			out = append(out, f)
		}
	}
	return out
}

func filterRunbooks(books []catalog.Runbook, query string) []catalog.Runbook {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return books
	}
	var out []catalog.Runbook
	for _, b := range books {
		if strings.Contains(strings.ToLower(b.ID), q) ||
			strings.Contains(strings.ToLower(b.Title), q) ||
			strings.Contains(strings.ToLower(b.Service), q) ||
			strings.Contains(strings.ToLower(b.Severity), q) {
			out = append(out, b)
		}
	}
	return out
}

func filterIncidents(incidents []catalog.IncidentBundle, query string) []catalog.IncidentBundle {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return incidents
	}
	var out []catalog.IncidentBundle
	for _, inc := range incidents {
		if strings.Contains(strings.ToLower(inc.ID), q) ||
			strings.Contains(strings.ToLower(inc.Title), q) ||
			strings.Contains(strings.ToLower(inc.Service), q) ||
			strings.Contains(strings.ToLower(inc.Status), q) {
			out = append(out, inc)
		}
	}
	return out
}

func filterApps(apps []catalog.PortalApp, query string) []catalog.PortalApp {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return apps
	}
	var out []catalog.PortalApp
	for _, a := range apps {
		if strings.Contains(strings.ToLower(a.ID), q) ||
			strings.Contains(strings.ToLower(a.Name), q) ||
			strings.Contains(strings.ToLower(a.Blurb), q) {
			out = append(out, a)
		}
	}
	return out
}

func containsFold(values []string, q string) bool {
	for _, v := range values {
		if strings.Contains(strings.ToLower(v), q) {
			return true
		}
	}
	return false
}
