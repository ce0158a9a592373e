// File: internal/sweep/progress_test.go
package sweep

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

func TestTrackerCounts(t *testing.T) {
	tr := NewTracker(10, nil)

	free, rewritten := tr.Counts()
	assert.Equal(t, uint64(0), free)
	assert.Equal(t, uint64(0), rewritten)

	tr.AddFree()
	tr.AddFree()
	tr.AddRewritten()

	free, rewritten = tr.Counts()
	assert.Equal(t, uint64(2), free)
	assert.Equal(t, uint64(1), rewritten)
	assert.InDelta(t, 20.0, tr.Percent(), 1e-9)
}

func TestTrackerZeroExpected(t *testing.T) {
	tr := NewTracker(0, nil)
	tr.AddFree()
	assert.Equal(t, 0.0, tr.Percent())
}

func TestTrackerCallbackTenthOfPercent(t *testing.T) {
	var calls []float64
	tr := NewTracker(10000, func(percent float64) {
		calls = append(calls, percent)
	})

	// 10 increments of 0.01% each only cross a tenth-of-a-percent boundary
	// twice: at the first increment (0.01%) and at the tenth (0.10%).
	for i := 0; i < 10; i++ {
		tr.AddFree()
	}

	assert.Len(t, calls, 2)
	assert.InDelta(t, 0.01, calls[0], 1e-9)
	assert.InDelta(t, 0.10, calls[1], 1e-9)
}

func TestTrackerPropertyMonotonic(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		expected := rapid.Uint64Range(1, 1000).Draw(t, "expected")
		tr := NewTracker(expected, nil)

		steps := rapid.IntRange(0, 200).Draw(t, "steps")
		var lastFree, lastRewritten uint64
		var lastPercent float64

		for i := 0; i < steps; i++ {
			if rapid.Bool().Draw(t, "rewrite") {
				tr.AddRewritten()
			} else {
				tr.AddFree()
			}

			free, rewritten := tr.Counts()
			if free < lastFree || rewritten < lastRewritten {
				t.Fatalf("counters went backwards: %d/%d after %d/%d",
					free, rewritten, lastFree, lastRewritten)
			}
			if p := tr.Percent(); p < lastPercent {
				t.Fatalf("percent went backwards: %f after %f", p, lastPercent)
			} else {
				lastPercent = p
			}
			lastFree, lastRewritten = free, rewritten
		}
	})
}
