// Package sim is the factory's mock execution engine: it creates run records
// for triggered skills and advances each one through a scripted
// log-and-status timeline on its own goroutine. Nothing real executes; the
// timeline is the product.
package sim

import (
	"time"

	"github.com/jask/crewdeck/internal/catalog"
)

// Status is a run's lifecycle state.
type Status string

const (
	StatusQueued  Status = "queued"
	StatusRunning Status = "running"
	StatusSuccess Status = "success"
	StatusFailed  Status = "failed"
)

// Terminal reports whether the status is an end state.
func (s Status) Terminal() bool {
	return s == StatusSuccess || s == StatusFailed
}

// allowedTransition guards the monotonic order
// queued → running → {success, failed}, with the gate short-circuit
// queued → failed.
func allowedTransition(from, to Status) bool {
	switch from {
	case StatusQueued:
		return to == StatusRunning || to == StatusFailed
	case StatusRunning:
		return to == StatusSuccess || to == StatusFailed
	default:
		return false
	}
}

// Result is one structured result record attached to an assisted run.
type Result struct {
	Label  string
	Detail string
}

// Run is one simulated execution of a skill. The live record is owned by the
// goroutine driving it; everyone else sees published snapshots, which are
// never written again after publication.
type Run struct {
	ID      string
	SkillID string
	Title   string
	Created time.Time
	Status  Status
	Engine  catalog.Engine
	Risk    catalog.Risk
	Log     []string
	Results []Result
}

// clone returns a deep copy safe to publish.
func (r *Run) clone() *Run {
	out := *r
	out.Log = make([]string, len(r.Log))
	copy(out.Log, r.Log)
	if r.Results != nil {
		out.Results = make([]Result, len(r.Results))
		copy(out.Results, r.Results)
	}
	return &out
}
