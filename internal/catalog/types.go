package catalog

import "time"

// Engine is the execution engine a skill runs on.
type Engine string

const (
	// EngineDeterministic runs a fixed tool pipeline and always succeeds.
	EngineDeterministic Engine = "deterministic"
	// EngineAssisted runs a model-assisted pipeline with a probabilistic outcome.
	EngineAssisted Engine = "assisted"
)

// Risk classifies how far a skill's effects can reach.
type Risk string

const (
	RiskSafe     Risk = "safe"
	RiskGuarded  Risk = "guarded"
	RiskExternal Risk = "external"
)

// Skill is one triggerable AI employee in the factory catalog.
type Skill struct {
	ID      string   `yaml:"id"`
	Title   string   `yaml:"title"`
	Engine  Engine   `yaml:"engine"`
	Risk    Risk     `yaml:"risk"`
	Persona string   `yaml:"persona"`
	Summary string   `yaml:"summary"`
	Tags    []string `yaml:"tags"`
}

// FlowSpec describes an orchestration flow: what triggers it, the stages it
// walks, and the gates a change must clear on the way out.
type FlowSpec struct {
	ID      string   `yaml:"id"`
	Title   string   `yaml:"title"`
	Trigger string   `yaml:"trigger"`
	Stages  []string `yaml:"stages"`
	Gates   []string `yaml:"gates"`
	Owner   string   `yaml:"owner"`
}

// Runbook is an operator playbook for one known failure mode.
type Runbook struct {
	ID       string   `yaml:"id"`
	Title    string   `yaml:"title"`
	Service  string   `yaml:"service"`
	Severity string   `yaml:"severity"`
	Steps    []string `yaml:"steps"`
}

// IncidentBundle is one incident with its running timeline.
type IncidentBundle struct {
	ID       string    `yaml:"id"`
	Title    string    `yaml:"title"`
	Service  string    `yaml:"service"`
	Severity string    `yaml:"severity"`
	Status   string    `yaml:"status"`
	Opened   time.Time `yaml:"opened"`
	Timeline []string  `yaml:"timeline"`
}

// PortalApp is an entry in the portal's application registry.
type PortalApp struct {
	ID      string `yaml:"id"`
	Name    string `yaml:"name"`
	Blurb   string `yaml:"blurb"`
	Surface string `yaml:"surface"`
}
