// Package demo pre-populates the portal so the first paint has something to
// show: a deterministic two-week activity history for the dashboard chart
// and a handful of already-finished runs on the board. Same seed, same data,
// every start.
package demo

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/jask/crewdeck/internal/catalog"
	"github.com/jask/crewdeck/internal/sim"
)

const seed = 1177

// ActivityPoint is one day of factory activity.
type ActivityPoint struct {
	Day    time.Time
	Runs   int
	Failed int
}

// History generates the trailing activity series, oldest day first. The
// series is a pure function of now's date and days.
func History(now time.Time, days int) []ActivityPoint {
	r := rand.New(rand.NewSource(seed))
	out := make([]ActivityPoint, 0, days)
	day := now.AddDate(0, 0, -(days - 1))
	day = time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, now.Location())
	for i := 0; i < days; i++ {
		runs := 4 + r.Intn(7)
		if wd := day.Weekday(); wd == time.Saturday || wd == time.Sunday {
			runs = 1 + r.Intn(3)
		}
		failed := 0
		if runs > 0 {
			failed = r.Intn(runs/2 + 1)
		}
		out = append(out, ActivityPoint{Day: day, Runs: runs, Failed: failed})
		day = day.AddDate(0, 0, 1)
	}
	return out
}

// replayClock backdates run creation and never sleeps, so seeded runs finish
// in microseconds with believable timestamps.
type replayClock struct {
	now time.Time
}

func (c *replayClock) Now() time.Time { return c.now }

func (c *replayClock) After(time.Duration) <-chan time.Time {
	ch := make(chan time.Time, 1)
	ch <- c.now
	return ch
}

// launches picks which skills the seeded history triggered and how long ago.
var launches = []struct {
	skillID string
	ago     time.Duration
}{
	{"release-scribe", 4 * time.Hour},
	{"patch-pilot", 3 * time.Hour},
	{"dep-bumper", 2 * time.Hour},
	{"vendor-sync", 75 * time.Minute},
	{"refactor-smith", 40 * time.Minute},
}

// SeedRuns replays a few launches through the real simulator onto the board.
// Runs complete before SeedRuns returns, one at a time, so the draw order
// and the board order are deterministic.
func SeedRuns(board *sim.Board, cat *catalog.Catalog, policy catalog.Policy) error {
	clock := &replayClock{}
	runner := &sim.Runner{
		Board:  board,
		Policy: policy,
		Clock:  clock,
		Rand:   rand.New(rand.NewSource(seed)),
	}
	now := time.Now()
	for _, l := range launches {
		skill, ok := cat.Skill(l.skillID)
		if !ok {
			return fmt.Errorf("seed run: unknown skill %q", l.skillID)
		}
		clock.now = now.Add(-l.ago)
		run := runner.Start(skill)
		if err := waitTerminal(board, run.ID); err != nil {
			return err
		}
	}
	return nil
}

func waitTerminal(board *sim.Board, id string) error {
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		run, ok := board.Get(id)
		if ok && run.Status.Terminal() && len(run.Log) > 0 &&
			strings.HasPrefix(run.Log[len(run.Log)-1], "run complete:") {
			return nil
		}
		time.Sleep(time.Millisecond)
	}
	return fmt.Errorf("seed run %s did not finish", id)
}
