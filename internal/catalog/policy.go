package catalog

import (
	_ "embed"
	"fmt"

	"github.com/BurntSushi/toml"
)

//go:embed policy.toml
var policyTOML string

// RiskInfo describes one risk class for display.
type RiskInfo struct {
	Label string
	Blurb string
}

// Policy is the risk gate table: which risk class is locked at the Outbound
// Gate, the log line a locked run records, and display copy per risk class.
// It ships embedded and is read-only, so the lock behavior itself never
// varies at runtime.
type Policy struct {
	GateName   string
	LockedRisk Risk
	LockLine   string
	Risks      map[Risk]RiskInfo
}

type rawPolicy struct {
	Version int                     `toml:"version"`
	Gate    rawGate                 `toml:"gate"`
	Risk    map[string]rawRiskEntry `toml:"risk"`
}

type rawGate struct {
	Name       string `toml:"name"`
	LockedRisk string `toml:"locked_risk"`
	LockLine   string `toml:"lock_line"`
}

type rawRiskEntry struct {
	Label string `toml:"label"`
	Blurb string `toml:"blurb"`
}

// LoadPolicy decodes the embedded policy table.
func LoadPolicy() (Policy, error) {
	var raw rawPolicy
	if _, err := toml.Decode(policyTOML, &raw); err != nil {
		return Policy{}, fmt.Errorf("parse policy.toml: %w", err)
	}
	p := Policy{
		GateName:   raw.Gate.Name,
		LockedRisk: Risk(raw.Gate.LockedRisk),
		LockLine:   raw.Gate.LockLine,
		Risks:      make(map[Risk]RiskInfo, len(raw.Risk)),
	}
	if p.LockedRisk != RiskExternal {
		return Policy{}, fmt.Errorf("policy.toml: locked_risk must be %q, got %q", RiskExternal, raw.Gate.LockedRisk)
	}
	if p.LockLine == "" {
		return Policy{}, fmt.Errorf("policy.toml: empty lock_line")
	}
	for key, entry := range raw.Risk {
		r := Risk(key)
		switch r {
		case RiskSafe, RiskGuarded, RiskExternal:
		default:
			return Policy{}, fmt.Errorf("policy.toml: unknown risk class %q", key)
		}
		p.Risks[r] = RiskInfo{Label: entry.Label, Blurb: entry.Blurb}
	}
	return p, nil
}

// Locked reports whether runs at the given risk are stopped at the gate.
func (p Policy) Locked(r Risk) bool {
	return r == p.LockedRisk
}

// RiskLabel returns the display label for a risk class, falling back to the
// raw value when the table has no entry.
func (p Policy) RiskLabel(r Risk) string {
	if info, ok := p.Risks[r]; ok && info.Label != "" {
		return info.Label
	}
	return string(r)
}
