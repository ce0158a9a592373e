// File: internal/sweep/worker.go
package sweep

import (
	"fmt"

	"github.com/deploymenttheory/go-zerofree/internal/interfaces"
)

// worker claims blocks from the shared job slot one at a time and performs
// the free-check, read, compare and conditional write for each.
type worker struct {
	state   *poolState
	vol     interfaces.Volume
	tracker *Tracker

	fill   byte
	dryRun bool

	// fillBlock is one block of fill bytes, shared read-only by all workers
	fillBlock []byte
}

// run loops until termination. Block I/O happens outside the pool lock so
// workers never serialize on each other's reads and writes.
func (w *worker) run() {
	s := w.state

	s.mu.Lock()
	for {
		for !s.pending && !s.terminate {
			s.jobReady.Wait()
		}
		if !s.pending {
			// terminate with an empty slot
			s.mu.Unlock()
			return
		}

		blk := s.pendingBlk
		s.pending = false
		s.active++
		s.jobTaken.Signal()
		s.mu.Unlock()

		err := w.process(blk)

		s.mu.Lock()
		s.active--
		if err != nil {
			s.fail(err)
		} else {
			s.jobDone.Signal()
		}
	}
}

// process handles one claimed block. A nil return means the block was
// either not free, already uniform, or successfully rewritten.
func (w *worker) process(blockNumber uint64) error {
	if !w.vol.IsBlockFree(blockNumber) {
		return nil
	}

	w.tracker.AddFree()

	data, err := w.vol.ReadBlock(blockNumber)
	if err != nil {
		return fmt.Errorf("failed to read block %d: %w", blockNumber, err)
	}

	if IsUniform(data, w.fill) {
		return nil
	}

	w.tracker.AddRewritten()

	if w.dryRun {
		return nil
	}

	if err := w.vol.WriteBlock(blockNumber, w.fillBlock); err != nil {
		return fmt.Errorf("failed to write block %d: %w", blockNumber, err)
	}
	return nil
}
