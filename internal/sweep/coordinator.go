// File: internal/sweep/coordinator.go

// Package sweep implements the concurrent free-block sweep: a single
// coordinator iterates the volume's block numbers in ascending order and
// hands each one to a bounded pool of workers through a single-slot job
// handoff. A published block must be claimed by a worker before the
// coordinator advances, so every block in range is processed exactly once.
package sweep

import (
	"bytes"
	"fmt"
	"io"
	"sync"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/deploymenttheory/go-zerofree/internal/interfaces"
)

// MaxWorkerLimit is the upper bound on the concurrent worker count
const MaxWorkerLimit = 256

// Options configures one sweep
type Options struct {
	// Fill is the byte value free blocks are overwritten with
	Fill byte

	// MaxWorkers is the number of concurrent workers, 1..MaxWorkerLimit
	MaxWorkers int

	// DryRun reports what would be rewritten without performing any write
	DryRun bool

	// Logger receives sweep lifecycle logs; nil discards them
	Logger logrus.FieldLogger

	// OnProgress, if non-nil, is invoked with the completion percentage
	// whenever it changes by at least a tenth of a percent
	OnProgress func(percent float64)
}

// Result holds the counters of a completed (or aborted) sweep
type Result struct {
	// FreeSeen is the number of blocks confirmed free
	FreeSeen uint64

	// Rewritten is the number of free blocks that did not already contain
	// only the fill byte
	Rewritten uint64
}

// Coordinator owns the canonical block iteration order of one sweep
type Coordinator struct {
	vol     interfaces.Volume
	opts    Options
	tracker *Tracker
}

// New creates a Coordinator for the given volume
func New(vol interfaces.Volume, opts Options) (*Coordinator, error) {
	if vol == nil {
		return nil, fmt.Errorf("volume cannot be nil")
	}
	if opts.MaxWorkers < 1 || opts.MaxWorkers > MaxWorkerLimit {
		return nil, fmt.Errorf("worker count must be 1-%d, got %d", MaxWorkerLimit, opts.MaxWorkers)
	}
	if opts.Logger == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		opts.Logger = l
	}

	return &Coordinator{
		vol:     vol,
		opts:    opts,
		tracker: NewTracker(vol.FreeBlockCount(), opts.OnProgress),
	}, nil
}

// Run sweeps every block in [FirstDataBlock, BlockCount). It returns the
// progress counters together with the first fatal adapter error, if any.
// Blocks rewritten before an abort stay rewritten.
func (c *Coordinator) Run() (Result, error) {
	state := newPoolState()
	fillBlock := bytes.Repeat([]byte{c.opts.Fill}, int(c.vol.BlockSize()))

	first := c.vol.FirstDataBlock()
	last := c.vol.BlockCount()

	log := c.opts.Logger.WithFields(logrus.Fields{
		"sweep_id": uuid.NewString(),
		"workers":  c.opts.MaxWorkers,
		"blocks":   last - first,
		"fill":     fmt.Sprintf("%#02x", c.opts.Fill),
		"dry_run":  c.opts.DryRun,
	})
	log.Debug("sweep started")

	var wg sync.WaitGroup
	for i := 0; i < c.opts.MaxWorkers; i++ {
		w := &worker{
			state:     state,
			vol:       c.vol,
			tracker:   c.tracker,
			fill:      c.opts.Fill,
			dryRun:    c.opts.DryRun,
			fillBlock: fillBlock,
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			w.run()
		}()
	}

	state.mu.Lock()
	for blk := first; blk < last; blk++ {
		for state.active >= c.opts.MaxWorkers && state.err == nil {
			state.jobDone.Wait()
		}
		if state.err != nil {
			break
		}

		state.pendingBlk = blk
		state.pending = true
		state.jobReady.Signal()

		// The slot holds one job. Wait until a worker has claimed it
		// before publishing the next block number.
		for state.pending && state.err == nil {
			state.jobTaken.Wait()
		}
		if state.err != nil {
			break
		}
	}
	state.terminate = true
	state.jobReady.Broadcast()
	state.mu.Unlock()

	wg.Wait()

	freeSeen, rewritten := c.tracker.Counts()
	result := Result{FreeSeen: freeSeen, Rewritten: rewritten}

	if err := state.firstError(); err != nil {
		log.WithError(err).Error("sweep aborted")
		return result, err
	}

	log.WithFields(logrus.Fields{
		"free":      result.FreeSeen,
		"rewritten": result.Rewritten,
	}).Debug("sweep finished")
	return result, nil
}

// Progress exposes the tracker for callers that poll counters while the
// sweep is running
func (c *Coordinator) Progress() *Tracker {
	return c.tracker
}
