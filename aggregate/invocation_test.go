package aggregate_test

import (
	"sync"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/aiwc/aggregate"
	"github.com/sarchlab/aiwc/ir"
	"github.com/sarchlab/aiwc/worker"
)

var _ = Describe("Invocation", func() {
	var inv *aggregate.Invocation

	BeforeEach(func() {
		inv = aggregate.New()
	})

	Describe("Merge", func() {
		It("sums compute ops, memory ops, and scalar counters across workers", func() {
			w1 := worker.New()
			w1.BeginWorkItem()
			Expect(w1.HandleInstruction(fakeAdd("entry"))).To(Succeed())
			w1.CompleteWorkItem()

			w2 := worker.New()
			w2.BeginWorkItem()
			Expect(w2.HandleInstruction(fakeAdd("entry"))).To(Succeed())
			w2.CompleteWorkItem()

			inv.Merge(w1)
			inv.Merge(w2)

			Expect(inv.ComputeOps).To(HaveKeyWithValue("add", uint64(2)))
			Expect(inv.ThreadsInvoked).To(Equal(uint64(2)))
			Expect(inv.PerWorkitem).To(ConsistOf(uint64(1), uint64(1)))
		})

		It("is safe for concurrent callers, one per work-group", func() {
			const groups = 64
			var wg sync.WaitGroup
			wg.Add(groups)

			for i := 0; i < groups; i++ {
				go func() {
					defer wg.Done()
					w := worker.New()
					w.BeginWorkItem()
					_ = w.HandleInstruction(fakeAdd("entry"))
					w.CompleteWorkItem()
					inv.Merge(w)
				}()
			}
			wg.Wait()

			Expect(inv.ThreadsInvoked).To(Equal(uint64(groups)))
			Expect(inv.ComputeOps["add"]).To(Equal(uint64(groups)))
		})

		It("preserves each worker's intra-worker branch ordering while interleaving workers", func() {
			w1 := worker.New()
			w1.BranchOps = map[int][]bool{17: {true, false, true}}

			w2 := worker.New()
			w2.BranchOps = map[int][]bool{17: {false, false}}

			inv.Merge(w1)
			inv.Merge(w2)

			Expect(inv.BranchOps[17]).To(HaveLen(5))
			// Worker 1's run is a contiguous, order-preserved subsequence.
			Expect(inv.BranchOps[17][:3]).To(Equal([]bool{true, false, true}))
		})
	})

	Describe("Reset", func() {
		It("empties the aggregate so it's ready for the next kernel", func() {
			w := worker.New()
			w.BeginWorkItem()
			_ = w.HandleInstruction(fakeAdd("entry"))
			w.CompleteWorkItem()
			inv.Merge(w)

			inv.Reset()

			Expect(inv.ComputeOps).To(BeEmpty())
			Expect(inv.ThreadsInvoked).To(BeZero())
			Expect(inv.MemoryOps).To(BeEmpty())
		})
	})
})

func fakeAdd(block string) fakeInstruction {
	return fakeInstruction{block: block}
}

// fakeInstruction is a minimal ir.Instruction standing in for a scalar
// "add" retired in the named basic block.
type fakeInstruction struct {
	block string
}

func (i fakeInstruction) Opcode() ir.Opcode                  { return ir.OpOther }
func (i fakeInstruction) Mnemonic() string                   { return "add" }
func (i fakeInstruction) NumOperands() int                   { return 0 }
func (i fakeInstruction) Operand(int) ir.Operand              { return nil }
func (i fakeInstruction) ParentBlockLabel() string            { return i.block }
func (i fakeInstruction) PointerOperandLabel() string         { return "" }
func (i fakeInstruction) PointerAddressSpace() ir.AddressSpace { return ir.Private }
func (i fakeInstruction) Line() int                           { return 0 }
func (i fakeInstruction) ResultWidth() int                    { return 1 }
