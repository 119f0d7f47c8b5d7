// Package catalog holds the portal's immutable reference data: skills,
// flow specs, runbooks, incident bundles and the portal app registry.
// Everything is parsed once from embedded fixtures at startup and never
// mutated afterwards.
package catalog

import (
	"embed"
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"
)

//go:embed fixtures/*.yaml
var fixtureFS embed.FS

type skillsFile struct {
	Skills []Skill `yaml:"skills"`
}

type flowsFile struct {
	Flows []FlowSpec `yaml:"flows"`
}

type runbooksFile struct {
	Runbooks []Runbook `yaml:"runbooks"`
}

type incidentsFile struct {
	Incidents []IncidentBundle `yaml:"incidents"`
}

type appsFile struct {
	Apps []PortalApp `yaml:"apps"`
}

// Catalog is the loaded reference data. All accessors return copies, so a
// Catalog can be shared freely without anyone mutating the tables.
type Catalog struct {
	skills    []Skill
	flows     []FlowSpec
	runbooks  []Runbook
	incidents []IncidentBundle
	apps      []PortalApp

	skillIdx    map[string]int
	flowIdx     map[string]int
	runbookIdx  map[string]int
	incidentIdx map[string]int
	appIdx      map[string]int
}

// Load parses the embedded fixture files and validates them.
func Load() (*Catalog, error) {
	c := &Catalog{}

	var sf skillsFile
	if err := parseFixture("fixtures/skills.yaml", &sf); err != nil {
		return nil, err
	}
	c.skills = sf.Skills

	var ff flowsFile
	if err := parseFixture("fixtures/flows.yaml", &ff); err != nil {
		return nil, err
	}
	c.flows = ff.Flows

	var rf runbooksFile
	if err := parseFixture("fixtures/runbooks.yaml", &rf); err != nil {
		return nil, err
	}
	c.runbooks = rf.Runbooks

	var inf incidentsFile
	if err := parseFixture("fixtures/incidents.yaml", &inf); err != nil {
		return nil, err
	}
	c.incidents = inf.Incidents

	var af appsFile
	if err := parseFixture("fixtures/apps.yaml", &af); err != nil {
		return nil, err
	}
	c.apps = af.Apps

	if err := c.validate(); err != nil {
		return nil, err
	}
	c.index()
	return c, nil
}

func parseFixture(name string, out any) error {
	b, err := fixtureFS.ReadFile(name)
	if err != nil {
		return fmt.Errorf("read %s: %w", name, err)
	}
	if err := yaml.Unmarshal(b, out); err != nil {
		return fmt.Errorf("parse %s: %w", name, err)
	}
	return nil
}

func (c *Catalog) validate() error {
	seen := map[string]string{}
	claim := func(id, kind string) error {
		if id == "" {
			return fmt.Errorf("%s with empty id", kind)
		}
		if prev, ok := seen[id]; ok {
			return fmt.Errorf("%s %q: id already used by %s", kind, id, prev)
		}
		seen[id] = kind
		return nil
	}

	for _, s := range c.skills {
		if err := claim(s.ID, "skill"); err != nil {
			return err
		}
		if s.Title == "" {
			return fmt.Errorf("skill %q: empty title", s.ID)
		}
		switch s.Engine {
		case EngineDeterministic, EngineAssisted:
		default:
			return fmt.Errorf("skill %q: unknown engine %q", s.ID, s.Engine)
		}
		switch s.Risk {
		case RiskSafe, RiskGuarded, RiskExternal:
		default:
			return fmt.Errorf("skill %q: unknown risk %q", s.ID, s.Risk)
		}
	}
	for _, f := range c.flows {
		if err := claim(f.ID, "flow"); err != nil {
			return err
		}
		if len(f.Stages) == 0 {
			return fmt.Errorf("flow %q: no stages", f.ID)
		}
	}
	for _, r := range c.runbooks {
		if err := claim(r.ID, "runbook"); err != nil {
			return err
		}
		if len(r.Steps) == 0 {
			return fmt.Errorf("runbook %q: no steps", r.ID)
		}
	}
	for _, in := range c.incidents {
		if err := claim(in.ID, "incident"); err != nil {
			return err
		}
		if in.Opened.IsZero() {
			return fmt.Errorf("incident %q: missing opened timestamp", in.ID)
		}
	}
	for _, a := range c.apps {
		if err := claim(a.ID, "app"); err != nil {
			return err
		}
	}
	return nil
}

func (c *Catalog) index() {
	c.skillIdx = make(map[string]int, len(c.skills))
	for i, s := range c.skills {
		c.skillIdx[s.ID] = i
	}
	c.flowIdx = make(map[string]int, len(c.flows))
	for i, f := range c.flows {
		c.flowIdx[f.ID] = i
	}
	c.runbookIdx = make(map[string]int, len(c.runbooks))
	for i, r := range c.runbooks {
		c.runbookIdx[r.ID] = i
	}
	c.incidentIdx = make(map[string]int, len(c.incidents))
	for i, in := range c.incidents {
		c.incidentIdx[in.ID] = i
	}
	c.appIdx = make(map[string]int, len(c.apps))
	for i, a := range c.apps {
		c.appIdx[a.ID] = i
	}
}

// Skills returns all skills in fixture order.
func (c *Catalog) Skills() []Skill {
	out := make([]Skill, len(c.skills))
	copy(out, c.skills)
	return out
}

// Skill looks a skill up by id.
func (c *Catalog) Skill(id string) (Skill, bool) {
	i, ok := c.skillIdx[id]
	if !ok {
		return Skill{}, false
	}
	return c.skills[i], true
}

// Flows returns all flow specs in fixture order.
func (c *Catalog) Flows() []FlowSpec {
	out := make([]FlowSpec, len(c.flows))
	copy(out, c.flows)
	return out
}

// Flow looks a flow spec up by id.
func (c *Catalog) Flow(id string) (FlowSpec, bool) {
	i, ok := c.flowIdx[id]
	if !ok {
		return FlowSpec{}, false
	}
	return c.flows[i], true
}

// Runbooks returns all runbooks in fixture order.
func (c *Catalog) Runbooks() []Runbook {
	out := make([]Runbook, len(c.runbooks))
	copy(out, c.runbooks)
	return out
}

// Runbook looks a runbook up by id.
func (c *Catalog) Runbook(id string) (Runbook, bool) {
	i, ok := c.runbookIdx[id]
	if !ok {
		return Runbook{}, false
	}
	return c.runbooks[i], true
}

// Incidents returns all incident bundles, most recently opened first.
func (c *Catalog) Incidents() []IncidentBundle {
	out := make([]IncidentBundle, len(c.incidents))
	copy(out, c.incidents)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Opened.After(out[j].Opened)
	})
	return out
}

// Incident looks an incident bundle up by id.
func (c *Catalog) Incident(id string) (IncidentBundle, bool) {
	i, ok := c.incidentIdx[id]
	if !ok {
		return IncidentBundle{}, false
	}
	return c.incidents[i], true
}

// Apps returns the portal app registry in fixture order.
func (c *Catalog) Apps() []PortalApp {
	out := make([]PortalApp, len(c.apps))
	copy(out, c.apps)
	return out
}

// App looks a portal app up by id.
func (c *Catalog) App(id string) (PortalApp, bool) {
	i, ok := c.appIdx[id]
	if !ok {
		return PortalApp{}, false
	}
	return c.apps[i], true
}
