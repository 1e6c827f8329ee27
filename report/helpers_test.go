package report_test

import (
	"github.com/sarchlab/aiwc/ir"
	"github.com/sarchlab/aiwc/worker"
)

type fakeOperand struct {
	label   string
	isLabel bool
}

func (o fakeOperand) IsLabel() bool  { return o.isLabel }
func (o fakeOperand) String() string { return o.label }

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

func (i fakeInst) Opcode() ir.Opcode                   { return i.op }
func (i fakeInst) Mnemonic() string                    { return i.mnemonic }
func (i fakeInst) NumOperands() int                    { return len(i.operands) }
func (i fakeInst) Operand(n int) ir.Operand            { return i.operands[n] }
func (i fakeInst) ParentBlockLabel() string            { return i.block }
func (i fakeInst) PointerOperandLabel() string         { return i.ptrLabel }
func (i fakeInst) PointerAddressSpace() ir.AddressSpace { return i.ptrSpace }
func (i fakeInst) Line() int                            { return i.line }
func (i fakeInst) ResultWidth() int                     { return i.width }

func add(block string, width int) fakeInst {
	return fakeInst{op: ir.OpOther, mnemonic: "add", block: block, width: width}
}

// driveAdds runs a single work-item through n "add" instructions on a fresh
// worker.State, for feeding aggregate.Invocation.Merge without hand
// constructing its containers.
func driveAdds(n int) *worker.State {
	s := worker.New()
	s.BeginWorkItem()
	for i := 0; i < n; i++ {
		_ = s.HandleInstruction(add("entry", 1))
	}
	s.CompleteWorkItem()
	return s
}
