package worker_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/aiwc/ir"
	"github.com/sarchlab/aiwc/worker"
)

type fakeOperand struct {
	label   string
	isLabel bool
}

func (o fakeOperand) IsLabel() bool  { return o.isLabel }
func (o fakeOperand) String() string { return o.label }

type fakeRegion struct{ space ir.AddressSpace }

func (r fakeRegion) AddressSpace() ir.AddressSpace { return r.space }

type fakeInst struct {
	op       ir.Opcode
	mnemonic string
	operands []fakeOperand
	block    string
	ptrLabel string
	ptrSpace ir.AddressSpace
	line     int
	width    int
}

func (i fakeInst) Opcode() ir.Opcode                  { return i.op }
func (i fakeInst) Mnemonic() string                   { return i.mnemonic }
func (i fakeInst) NumOperands() int                   { return len(i.operands) }
func (i fakeInst) Operand(n int) ir.Operand            { return i.operands[n] }
func (i fakeInst) ParentBlockLabel() string            { return i.block }
func (i fakeInst) PointerOperandLabel() string         { return i.ptrLabel }
func (i fakeInst) PointerAddressSpace() ir.AddressSpace { return i.ptrSpace }
func (i fakeInst) Line() int                           { return i.line }
func (i fakeInst) ResultWidth() int                    { return i.width }

func add(block string, width int) fakeInst {
	return fakeInst{op: ir.OpOther, mnemonic: "add", block: block, width: width}
}

var _ = Describe("State", func() {
	var s *worker.State

	BeforeEach(func() {
		s = worker.New()
	})

	Describe("a single work-item doing three adds", func() {
		It("tallies the op, the thread count, the width histogram, and the per-workitem count", func() {
			s.BeginWorkItem()
			for i := 0; i < 3; i++ {
				Expect(s.HandleInstruction(add("entry", 1))).To(Succeed())
			}
			s.CompleteWorkItem()

			Expect(s.ComputeOps).To(HaveKeyWithValue("add", uint64(3)))
			Expect(s.ThreadsInvoked).To(Equal(uint64(1)))
			Expect(s.InstWidth).To(HaveKeyWithValue(1, uint64(3)))
			Expect(s.PerWorkitem).To(Equal([]uint64{3}))
		})
	})

	Describe("load/store classification", func() {
		It("drops private-space accesses and counts the rest", func() {
			s.BeginWorkItem()

			Expect(s.HandleInstruction(fakeInst{
				op: ir.OpLoad, mnemonic: "load", block: "entry",
				ptrLabel: "%p", ptrSpace: ir.Global, width: 1,
			})).To(Succeed())
			s.HandleMemoryOp(fakeRegion{space: ir.Global}, 0x1000)

			Expect(s.HandleInstruction(fakeInst{
				op: ir.OpStore, mnemonic: "store", block: "entry",
				ptrLabel: "%q", ptrSpace: ir.Private, width: 1,
			})).To(Succeed())
			s.HandleMemoryOp(fakeRegion{space: ir.Private}, 0x2000)

			Expect(s.GlobalAccesses).To(Equal(uint64(1)))
			Expect(s.MemoryOps).To(Equal([]uint64{0x1000}))
			Expect(s.LoadLabels).To(HaveKeyWithValue("%p", uint64(1)))
			Expect(s.StoreLabels).To(HaveKeyWithValue("%q", uint64(1)))
		})
	})

	Describe("conditional branch classification", func() {
		It("records taken when the next block matches target1", func() {
			s.BeginWorkItem()
			br := fakeInst{
				op: ir.OpBr, mnemonic: "br", block: "entry", line: 17,
				operands: []fakeOperand{
					{label: "cond", isLabel: false},
					{label: "then", isLabel: true},
					{label: "else", isLabel: true},
				},
			}
			Expect(s.HandleInstruction(br)).To(Succeed())
			Expect(s.HandleInstruction(add("then", 1))).To(Succeed())

			Expect(s.BranchOps[17]).To(Equal([]bool{true}))
		})

		It("records not-taken when the next block matches target2", func() {
			s.BeginWorkItem()
			br := fakeInst{
				op: ir.OpBr, mnemonic: "br", block: "entry", line: 17,
				operands: []fakeOperand{
					{label: "cond", isLabel: false},
					{label: "then", isLabel: true},
					{label: "else", isLabel: true},
				},
			}
			Expect(s.HandleInstruction(br)).To(Succeed())
			Expect(s.HandleInstruction(add("else", 1))).To(Succeed())

			Expect(s.BranchOps[17]).To(Equal([]bool{false}))
		})

		It("reports a BranchContractError when neither target matches", func() {
			s.BeginWorkItem()
			br := fakeInst{
				op: ir.OpBr, mnemonic: "br", block: "entry", line: 17,
				operands: []fakeOperand{
					{label: "cond", isLabel: false},
					{label: "then", isLabel: true},
					{label: "else", isLabel: true},
				},
			}
			Expect(s.HandleInstruction(br)).To(Succeed())

			err := s.HandleInstruction(add("somewhere-else", 1))
			Expect(err).To(HaveOccurred())
			Expect(err).To(BeAssignableToTypeOf(&worker.BranchContractError{}))
		})
	})

	Describe("barrier lifecycle", func() {
		It("records instructions-between-barriers at each barrier and at completion", func() {
			s.BeginWorkItem()
			for i := 0; i < 4; i++ {
				Expect(s.HandleInstruction(add("entry", 1))).To(Succeed())
			}
			s.Barrier()
			for i := 0; i < 2; i++ {
				Expect(s.HandleInstruction(add("entry", 1))).To(Succeed())
			}
			s.CompleteWorkItem()

			Expect(s.BetweenBarriers).To(Equal([]uint64{4, 2}))
			Expect(s.BarriersHit).To(Equal(uint64(1)))
		})
	})

	Describe("Clear", func() {
		It("zeroes everything so a reused State starts empty", func() {
			s.BeginWorkItem()
			Expect(s.HandleInstruction(add("entry", 1))).To(Succeed())
			s.Clear()

			Expect(s.ComputeOps).To(BeEmpty())
			Expect(s.ThreadsInvoked).To(BeZero())
			Expect(s.MemoryOps).To(BeEmpty())
		})
	})
})
