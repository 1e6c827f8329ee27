// Package aggregate holds the kernel-invocation-wide statistics containers
// and the single critical section that folds a completed work-group's
// worker state into them.
package aggregate

import (
	"sync"

	"github.com/sarchlab/aiwc/worker"
)

// Invocation is the kernel-scoped aggregate a plugin accumulates across a
// kernel's work-groups. It is owned exclusively by the plugin for the
// lifetime of one kernelBegin/kernelEnd pair; all writes happen under mu,
// which is held only for the duration of a single work-group's merge.
type Invocation struct {
	mu sync.Mutex

	ComputeOps       map[string]uint64
	MemoryOps        []uint64
	BranchOps        map[int][]bool
	BetweenBarriers  []uint64
	PerWorkitem      []uint64
	BetweenLoadStore []uint64
	InstWidth        map[int]uint64
	LoadLabels       map[string]uint64
	StoreLabels      map[string]uint64

	ThreadsInvoked uint64
	BarriersHit    uint64
	GlobalAccesses uint64
	LocalAccesses  uint64
	ConstAccesses  uint64
}

// New returns an empty, ready-to-merge Invocation.
func New() *Invocation {
	inv := &Invocation{}
	inv.reset()
	return inv
}

func (inv *Invocation) reset() {
	inv.ComputeOps = make(map[string]uint64)
	inv.MemoryOps = nil
	inv.BranchOps = make(map[int][]bool)
	inv.BetweenBarriers = nil
	inv.PerWorkitem = nil
	inv.BetweenLoadStore = nil
	inv.InstWidth = make(map[int]uint64)
	inv.LoadLabels = make(map[string]uint64)
	inv.StoreLabels = make(map[string]uint64)
	inv.ThreadsInvoked = 0
	inv.BarriersHit = 0
	inv.GlobalAccesses = 0
	inv.LocalAccesses = 0
	inv.ConstAccesses = 0
}

// Merge folds a worker's State into the invocation aggregate. It takes one
// critical section per completed work-group, amortizing synchronization
// against the (potentially millions of) per-instruction events the worker
// absorbed lock-free.
func (inv *Invocation) Merge(w *worker.State) {
	inv.mu.Lock()
	defer inv.mu.Unlock()

	for op, count := range w.ComputeOps {
		inv.ComputeOps[op] += count
	}

	inv.MemoryOps = append(inv.MemoryOps, w.MemoryOps...)

	for line, taken := range w.BranchOps {
		inv.BranchOps[line] = append(inv.BranchOps[line], taken...)
	}

	inv.ThreadsInvoked += w.ThreadsInvoked
	inv.BarriersHit += w.BarriersHit
	inv.GlobalAccesses += w.GlobalAccesses
	inv.LocalAccesses += w.LocalAccesses
	inv.ConstAccesses += w.ConstAccesses

	inv.BetweenBarriers = append(inv.BetweenBarriers, w.BetweenBarriers...)
	inv.PerWorkitem = append(inv.PerWorkitem, w.PerWorkitem...)
	inv.BetweenLoadStore = append(inv.BetweenLoadStore, w.BetweenLoadStore...)

	for label, count := range w.LoadLabels {
		inv.LoadLabels[label] += count
	}
	for label, count := range w.StoreLabels {
		inv.StoreLabels[label] += count
	}
	for width, count := range w.InstWidth {
		inv.InstWidth[width] += count
	}
}

// Reset clears the invocation back to empty, readying the plugin for the
// next kernel. Called once at kernelEnd after the report has been derived.
func (inv *Invocation) Reset() {
	inv.mu.Lock()
	defer inv.mu.Unlock()
	inv.reset()
}

// Snapshot returns a reference to the aggregate's containers for the report
// builder to read. Safe to call only after the owning kernel's work-groups
// have all completed (kernelEnd), at which point there are no concurrent
// writers.
func (inv *Invocation) Snapshot() *Invocation {
	return inv
}
