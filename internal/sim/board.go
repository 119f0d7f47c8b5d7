package sim

import "sync"

// subscriberBuffer is sized so a burst of publishes never blocks the
// simulator; consumers that fall behind re-read Runs() on the next event, so
// a dropped notification only coalesces repaints.
const subscriberBuffer = 64

// StatusCounts is a tally of runs by status.
type StatusCounts struct {
	Queued  int
	Running int
	Success int
	Failed  int
}

// Total returns the number of runs counted.
func (c StatusCounts) Total() int {
	return c.Queued + c.Running + c.Success + c.Failed
}

// Board holds the published run snapshots, newest first, and fans each
// publish out to subscribers. It is the only state shared between the
// simulator goroutines and the UI.
type Board struct {
	mu   sync.RWMutex
	runs []*Run
	byID map[string]int
	subs []chan *Run
}

// NewBoard returns an empty board.
func NewBoard() *Board {
	return &Board{byID: make(map[string]int)}
}

// Upsert publishes a snapshot: a new run is inserted at the front, a known
// run replaces its previous snapshot in place. The board takes ownership of
// the snapshot; callers must not write to it afterwards.
func (b *Board) Upsert(run *Run) {
	b.mu.Lock()
	if i, ok := b.byID[run.ID]; ok {
		b.runs[i] = run
	} else {
		b.runs = append([]*Run{run}, b.runs...)
		b.byID = make(map[string]int, len(b.runs))
		for i, r := range b.runs {
			b.byID[r.ID] = i
		}
	}
	subs := make([]chan *Run, len(b.subs))
	copy(subs, b.subs)
	b.mu.Unlock()

	for _, ch := range subs {
		select {
		case ch <- run:
		default:
		}
	}
}

// Runs returns the current snapshots, newest first.
func (b *Board) Runs() []*Run {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make([]*Run, len(b.runs))
	copy(out, b.runs)
	return out
}

// Get returns the latest snapshot for a run id.
func (b *Board) Get(id string) (*Run, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	i, ok := b.byID[id]
	if !ok {
		return nil, false
	}
	return b.runs[i], true
}

// Len returns the number of runs on the board.
func (b *Board) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.runs)
}

// Counts tallies runs by status.
func (b *Board) Counts() StatusCounts {
	b.mu.RLock()
	defer b.mu.RUnlock()
	var c StatusCounts
	for _, r := range b.runs {
		switch r.Status {
		case StatusQueued:
			c.Queued++
		case StatusRunning:
			c.Running++
		case StatusSuccess:
			c.Success++
		case StatusFailed:
			c.Failed++
		}
	}
	return c
}

// Subscribe registers a listener for published snapshots. Delivery is
// best-effort; see subscriberBuffer.
func (b *Board) Subscribe() <-chan *Run {
	ch := make(chan *Run, subscriberBuffer)
	b.mu.Lock()
	b.subs = append(b.subs, ch)
	b.mu.Unlock()
	return ch
}
