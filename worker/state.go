// Package worker implements the per-executing-work-group accumulator:
// lock-free absorption of instruction and memory events as an interpreter
// retires them. A State is touched by exactly one goroutine between a
// WorkGroupBegin and the matching WorkGroupComplete; nothing here
// synchronizes, by design.
package worker

import (
	"fmt"

	"github.com/sarchlab/aiwc/ir"
)

// BranchContractError reports that the instruction following a conditional
// branch belongs to neither of the branch's two recorded targets. This is a
// host contract violation: the interpreter promised well-formed control
// flow and did not deliver it.
type BranchContractError struct {
	Observed string
	Target1  string
	Target2  string
	Line     int
}

func (e *BranchContractError) Error() string {
	return fmt.Sprintf(
		"branch at line %d: block %q matches neither target %q nor %q",
		e.Line, e.Observed, e.Target1, e.Target2,
	)
}

// State mirrors aggregate.Invocation's containers plus the transient fields
// needed to classify the next instruction or memory op. It is allocated
// lazily on first use and reused across work-groups assigned to the same
// goroutine slot.
type State struct {
	ComputeOps       map[string]uint64
	MemoryOps        []uint64
	BranchOps        map[int][]bool
	BetweenBarriers  []uint64
	PerWorkitem      []uint64
	BetweenLoadStore []uint64
	InstWidth        map[int]uint64
	LoadLabels       map[string]uint64
	StoreLabels      map[string]uint64

	ThreadsInvoked  uint64
	BarriersHit     uint64
	GlobalAccesses  uint64
	LocalAccesses   uint64
	ConstAccesses   uint64

	opsBetweenLoadOrStore       uint64
	workitemInstructionCount    uint64
	instructionCount            uint64
	previousInstructionIsBranch bool
	target1, target2            string
	branchLoc                   int
}

// New allocates a ready-to-use State.
func New() *State {
	s := &State{}
	s.allocate()
	return s
}

func (s *State) allocate() {
	s.ComputeOps = make(map[string]uint64)
	s.MemoryOps = s.MemoryOps[:0]
	s.BranchOps = make(map[int][]bool)
	s.BetweenBarriers = s.BetweenBarriers[:0]
	s.PerWorkitem = s.PerWorkitem[:0]
	s.BetweenLoadStore = s.BetweenLoadStore[:0]
	s.InstWidth = make(map[int]uint64)
	s.LoadLabels = make(map[string]uint64)
	s.StoreLabels = make(map[string]uint64)
}

// Clear resets a State for reuse at the start of a new work-group. Slices
// are truncated rather than reallocated so repeated work-groups on the same
// goroutine don't churn the allocator.
func (s *State) Clear() {
	if s.ComputeOps == nil {
		s.allocate()
		return
	}
	for k := range s.ComputeOps {
		delete(s.ComputeOps, k)
	}
	s.MemoryOps = s.MemoryOps[:0]
	for k := range s.BranchOps {
		delete(s.BranchOps, k)
	}
	s.BetweenBarriers = s.BetweenBarriers[:0]
	s.PerWorkitem = s.PerWorkitem[:0]
	s.BetweenLoadStore = s.BetweenLoadStore[:0]
	for k := range s.InstWidth {
		delete(s.InstWidth, k)
	}
	for k := range s.LoadLabels {
		delete(s.LoadLabels, k)
	}
	for k := range s.StoreLabels {
		delete(s.StoreLabels, k)
	}

	s.ThreadsInvoked = 0
	s.BarriersHit = 0
	s.GlobalAccesses = 0
	s.LocalAccesses = 0
	s.ConstAccesses = 0

	s.opsBetweenLoadOrStore = 0
	s.workitemInstructionCount = 0
	s.instructionCount = 0
	s.previousInstructionIsBranch = false
	s.target1, s.target2 = "", ""
	s.branchLoc = 0
}

// BeginWorkItem implements the workItemBegin lifecycle hook.
func (s *State) BeginWorkItem() {
	s.ThreadsInvoked++
	s.instructionCount = 0
	s.workitemInstructionCount = 0
	s.opsBetweenLoadOrStore = 0
}

// Barrier implements the workItemBarrier lifecycle hook.
func (s *State) Barrier() {
	s.BarriersHit++
	s.BetweenBarriers = append(s.BetweenBarriers, s.instructionCount)
	s.instructionCount = 0
}

// ClearBarrier implements the workItemClearBarrier lifecycle hook.
func (s *State) ClearBarrier() {
	s.instructionCount = 0
}

// CompleteWorkItem implements the workItemComplete lifecycle hook.
func (s *State) CompleteWorkItem() {
	s.BetweenBarriers = append(s.BetweenBarriers, s.instructionCount)
	s.PerWorkitem = append(s.PerWorkitem, s.workitemInstructionCount)
}

// HandleInstruction classifies one retired instruction: tallies its
// mnemonic, classifies a load or store's address space, and resolves
// whether the previous conditional branch was taken by checking which of
// its two targets this instruction's parent block matches. It returns a
// *BranchContractError if it matches neither.
func (s *State) HandleInstruction(inst ir.Instruction) error {
	mnemonic := inst.Mnemonic()
	s.ComputeOps[mnemonic]++

	op := inst.Opcode()
	isLoadOrStore := op == ir.OpLoad || op == ir.OpStore
	if isLoadOrStore {
		s.classifyMemoryOp(inst.PointerAddressSpace())
	}

	s.opsBetweenLoadOrStore++
	if isLoadOrStore {
		label := inst.PointerOperandLabel()
		if op == ir.OpLoad {
			s.LoadLabels[label]++
		} else {
			s.StoreLabels[label]++
		}
		s.BetweenLoadStore = append(s.BetweenLoadStore, s.opsBetweenLoadOrStore)
		s.opsBetweenLoadOrStore = 0
	}

	if s.previousInstructionIsBranch {
		block := inst.ParentBlockLabel()
		var taken bool
		switch block {
		case s.target1:
			taken = true
		case s.target2:
			taken = false
		default:
			return &BranchContractError{
				Observed: block,
				Target1:  s.target1,
				Target2:  s.target2,
				Line:     s.branchLoc,
			}
		}
		s.BranchOps[s.branchLoc] = append(s.BranchOps[s.branchLoc], taken)
		s.previousInstructionIsBranch = false
	}

	if op == ir.OpBr && inst.NumOperands() == 3 {
		op1, op2 := inst.Operand(1), inst.Operand(2)
		if op1.IsLabel() && op2.IsLabel() {
			s.target1 = op1.String()
			s.target2 = op2.String()
			s.branchLoc = inst.Line()
			s.previousInstructionIsBranch = true
		}
	}

	s.instructionCount++
	s.workitemInstructionCount++
	s.InstWidth[inst.ResultWidth()]++

	return nil
}

func (s *State) classifyMemoryOp(space ir.AddressSpace) {
	switch space {
	case ir.Local:
		s.LocalAccesses++
	case ir.Global:
		s.GlobalAccesses++
	case ir.Constant:
		s.ConstAccesses++
	case ir.Private:
		// Private accesses are not part of any diversity count.
	}
}

// HandleMemoryOp records a non-atomic load or store address, for every
// address space except Private.
func (s *State) HandleMemoryOp(region ir.MemoryRegion, addr uint64) {
	if region.AddressSpace() != ir.Private {
		s.MemoryOps = append(s.MemoryOps, addr)
	}
}

// HandleAtomicOp records an atomic load or store address. It filters by
// "address space != 0" rather than "!= Private" by name: since Private is
// the zero value here the two checks currently coincide, but a host
// encoding Private as nonzero would leak Private atomics into MemoryOps.
func (s *State) HandleAtomicOp(region ir.MemoryRegion, addr uint64) {
	if int(region.AddressSpace()) != 0 {
		s.MemoryOps = append(s.MemoryOps, addr)
	}
}
