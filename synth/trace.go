package synth

import (
	"fmt"

	"github.com/sarchlab/aiwc"
	"github.com/sarchlab/aiwc/ir"
)

// KernelSpec describes the shape of a synthetic kernel invocation: how many
// work-groups, how many work-items per group, and how many scalar compute
// instructions each work-item retires between a global load and a global
// store. It's deliberately tiny, not a realistic workload model: it fires the
// kernel, work-group, work-item, barrier, instruction, and plain load/store
// hooks, but never WorkItemClearBarrier or the atomic memory hooks.
type KernelSpec struct {
	Name          string
	WorkGroups    int
	WorkItems     int
	ComputeOps    int
	UseBarrier    bool
	GlobalAddress uint64
}

// DefaultKernelSpec returns a small, fast-to-run trace shape.
func DefaultKernelSpec(name string) KernelSpec {
	return KernelSpec{
		Name:          name,
		WorkGroups:    2,
		WorkItems:     4,
		ComputeOps:    3,
		UseBarrier:    true,
		GlobalAddress: 0x1000,
	}
}

// Kernel builds the step sequence for one kernel invocation: kernelBegin,
// every work-group's lifecycle, then kernelEnd.
func Kernel(spec KernelSpec) []step {
	var steps []step

	steps = append(steps, func(g *Generator) {
		g.sink.KernelBegin(spec.Name)
	})

	for wg := 0; wg < spec.WorkGroups; wg++ {
		groupID := uint64(wg)
		steps = append(steps, workGroupSteps(spec, groupID)...)
	}

	steps = append(steps, func(g *Generator) {
		if _, err := g.sink.KernelEnd(spec.Name); err != nil {
			panic(fmt.Errorf("synth: kernelEnd %q: %w", spec.Name, err))
		}
	})

	return steps
}

func workGroupSteps(spec KernelSpec, groupID uint64) []step {
	var steps []step
	var handle *aiwc.GroupHandle

	steps = append(steps, func(g *Generator) {
		handle = g.sink.WorkGroupBegin(groupID)
	})

	for item := 0; item < spec.WorkItems; item++ {
		itemID := uint64(item)
		steps = append(steps, workItemSteps(spec, &handle, itemID)...)
	}

	steps = append(steps, func(g *Generator) {
		g.sink.WorkGroupComplete(handle)
	})

	return steps
}

func workItemSteps(spec KernelSpec, handle **aiwc.GroupHandle, itemID uint64) []step {
	var steps []step
	addr := spec.GlobalAddress + itemID*8

	steps = append(steps, func(g *Generator) {
		g.sink.WorkItemBegin(*handle, itemID)
	})

	steps = append(steps, func(g *Generator) {
		inst := instruction{
			op: ir.OpLoad, mnemonic: "load", block: "entry",
			ptrLabel: "%in", ptrSpace: ir.Global, width: 1, line: 10,
		}
		_ = g.sink.InstructionExecuted(*handle, inst)
		g.sink.MemoryLoad(*handle, region{space: ir.Global}, addr, 4)
	})

	for i := 0; i < spec.ComputeOps; i++ {
		steps = append(steps, func(g *Generator) {
			inst := instruction{op: ir.OpOther, mnemonic: "add", block: "entry", width: 1, line: 11}
			_ = g.sink.InstructionExecuted(*handle, inst)
		})
	}

	if spec.UseBarrier {
		steps = append(steps, func(g *Generator) {
			g.sink.WorkItemBarrier(*handle, itemID)
		})
	}

	steps = append(steps, func(g *Generator) {
		inst := instruction{
			op: ir.OpStore, mnemonic: "store", block: "entry",
			ptrLabel: "%out", ptrSpace: ir.Global, width: 1, line: 12,
		}
		_ = g.sink.InstructionExecuted(*handle, inst)
		g.sink.MemoryStore(*handle, region{space: ir.Global}, addr, 4)
	})

	steps = append(steps, func(g *Generator) {
		g.sink.WorkItemComplete(*handle, itemID)
	})

	return steps
}

// HostTransfer builds the step pair for a host-to-device copy immediately
// followed by a device-to-host copy. Both are tagged with the last-named
// kernel; the host-to-device entry is relabeled only if a later kernel
// begins after it.
func HostTransfer(addr uint64) []step {
	return []step{
		func(g *Generator) {
			g.sink.HostMemoryStore(region{space: ir.Global}, addr, 4)
		},
		func(g *Generator) {
			g.sink.HostMemoryLoad(region{space: ir.Global}, addr, 4)
		},
	}
}
