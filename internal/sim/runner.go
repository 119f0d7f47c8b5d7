package sim

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jask/crewdeck/internal/catalog"
)

const (
	// DefaultStepInterval is the suspension between step completions.
	DefaultStepInterval = 320 * time.Millisecond
	// DefaultFailureRate is the assisted engine's failure probability.
	DefaultFailureRate = 0.25
)

// Fixed step sequences per engine. Order matters; every run of an engine
// walks the same lines.
var (
	deterministicSteps = []string{"validate inputs", "run tools", "collect artifacts", "record execution"}
	assistedSteps      = []string{"load context", "plan patch", "generate diff", "suggest next gates", "record execution"}
)

// Structured result templates for assisted runs. The content is fixture
// data: stable, unrelated to anything the run actually did.
var (
	assistSuccessResults = []Result{
		{Label: "patch", Detail: "diff staged: 2 files changed, +48 -9"},
		{Label: "next gates", Detail: "unit suite, then reviewer sign-off"},
	}
	assistFailureResults = []Result{
		{Label: "patch", Detail: "diff generation aborted at hunk 3 of 5"},
		{Label: "cause", Detail: "plan replay exhausted the context budget"},
		{Label: "suggestion", Detail: "re-run with a narrower file scope"},
	}
)

// Runner turns skills into runs. Zero-value fields fall back to the system
// clock, the shared random source, a nop logger and the default tunables, so
// a Runner can be built as a plain literal with just a Board and Policy.
type Runner struct {
	Board        *Board
	Policy       catalog.Policy
	Clock        Clock
	Rand         Rand
	StepInterval time.Duration
	FailureRate  float64
	Log          *zap.Logger
}

// Start creates a run for the skill, publishes it in queued state with its
// first log line, and advances it on a new goroutine. The returned snapshot
// is the caller's copy of the queued state.
func (r *Runner) Start(skill catalog.Skill) *Run {
	run := &Run{
		ID:      uuid.NewString(),
		SkillID: skill.ID,
		Title:   skill.Title,
		Created: r.clock().Now(),
		Status:  StatusQueued,
		Engine:  skill.Engine,
		Risk:    skill.Risk,
		Log:     []string{fmt.Sprintf("queued: %s", skill.ID)},
	}
	snap := run.clone()
	r.Board.Upsert(run.clone())
	r.logger().Info("run queued",
		zap.String("run", run.ID),
		zap.String("skill", run.SkillID),
		zap.String("engine", string(run.Engine)),
		zap.String("risk", string(run.Risk)))

	go r.drive(run)
	return snap
}

// drive owns the live run record from here on. Steps are strictly
// sequential within the run; runs on other goroutines interleave freely.
func (r *Runner) drive(run *Run) {
	log := r.logger().With(zap.String("run", run.ID), zap.String("skill", run.SkillID))

	if r.Policy.Locked(run.Risk) {
		r.append(run, r.Policy.LockLine)
		r.finish(run, StatusFailed, log)
		return
	}

	r.transition(run, StatusRunning, log)
	r.append(run, fmt.Sprintf("starting %s engine (risk: %s)", run.Engine, run.Risk))

	for _, step := range stepsFor(run.Engine) {
		<-r.clock().After(r.interval())
		r.append(run, "step complete: "+step)
	}

	if run.Engine == catalog.EngineAssisted {
		if r.rng().Float64() < r.rate() {
			run.Results = append(run.Results, assistFailureResults...)
			r.append(run, fmt.Sprintf("structured results recorded (%d records)", len(run.Results)))
			r.finish(run, StatusFailed, log)
			return
		}
		run.Results = append(run.Results, assistSuccessResults...)
		r.append(run, fmt.Sprintf("structured results recorded (%d records)", len(run.Results)))
	}
	r.finish(run, StatusSuccess, log)
}

// append records a log line and publishes the new snapshot.
func (r *Runner) append(run *Run, line string) {
	run.Log = append(run.Log, line)
	r.Board.Upsert(run.clone())
}

// transition moves the run to a new status and publishes. Disallowed
// transitions are dropped and logged; they would mean a bug in drive.
func (r *Runner) transition(run *Run, to Status, log *zap.Logger) {
	if !allowedTransition(run.Status, to) {
		log.Error("illegal status transition",
			zap.String("from", string(run.Status)),
			zap.String("to", string(to)))
		return
	}
	run.Status = to
	r.Board.Upsert(run.clone())
}

// finish performs the terminal transition and records the closing line.
func (r *Runner) finish(run *Run, to Status, log *zap.Logger) {
	r.transition(run, to, log)
	r.append(run, fmt.Sprintf("run complete: %s", run.Status))
	log.Info("run finished", zap.String("status", string(run.Status)), zap.Int("log_lines", len(run.Log)))
}

func stepsFor(e catalog.Engine) []string {
	if e == catalog.EngineAssisted {
		return assistedSteps
	}
	return deterministicSteps
}

func (r *Runner) clock() Clock {
	if r.Clock != nil {
		return r.Clock
	}
	return SystemClock()
}

func (r *Runner) rng() Rand {
	if r.Rand != nil {
		return r.Rand
	}
	return SystemRand()
}

func (r *Runner) interval() time.Duration {
	if r.StepInterval > 0 {
		return r.StepInterval
	}
	return DefaultStepInterval
}

func (r *Runner) rate() float64 {
	if r.FailureRate > 0 {
		return r.FailureRate
	}
	return DefaultFailureRate
}

func (r *Runner) logger() *zap.Logger {
	if r.Log != nil {
		return r.Log
	}
	return zap.NewNop()
}
