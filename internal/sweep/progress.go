// File: internal/sweep/progress.go
package sweep

import "sync"

// Tracker accumulates sweep progress: how many free blocks have been seen
// and how many of them were rewritten. Both counters only ever grow. The
// completion percentage is derived from the expected free block count
// recorded in the volume's superblock.
type Tracker struct {
	mu        sync.Mutex
	expected  uint64
	freeSeen  uint64
	rewritten uint64

	// lastTenth throttles onUpdate to tenth-of-a-percent changes
	lastTenth int
	onUpdate  func(percent float64)
}

// NewTracker creates a Tracker. expectedFree is the denominator for the
// completion percentage; onUpdate, if non-nil, is invoked whenever the
// percentage changes by at least a tenth of a percent. The callback runs
// outside the tracker lock and must be safe for concurrent use.
func NewTracker(expectedFree uint64, onUpdate func(percent float64)) *Tracker {
	return &Tracker{
		expected:  expectedFree,
		lastTenth: -1,
		onUpdate:  onUpdate,
	}
}

// AddFree records one more free block seen and recomputes the percentage
func (t *Tracker) AddFree() {
	t.mu.Lock()
	t.freeSeen++
	percent := t.percentLocked()
	tenth := int(percent * 10)
	fire := t.onUpdate != nil && tenth != t.lastTenth
	if fire {
		t.lastTenth = tenth
	}
	t.mu.Unlock()

	if fire {
		t.onUpdate(percent)
	}
}

// AddRewritten records one more block rewritten with the fill pattern
func (t *Tracker) AddRewritten() {
	t.mu.Lock()
	t.rewritten++
	t.mu.Unlock()
}

// Counts returns the current counter values
func (t *Tracker) Counts() (freeSeen, rewritten uint64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.freeSeen, t.rewritten
}

// Percent returns the current completion percentage
func (t *Tracker) Percent() float64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.percentLocked()
}

func (t *Tracker) percentLocked() float64 {
	if t.expected == 0 {
		return 0
	}
	return 100 * float64(t.freeSeen) / float64(t.expected)
}
