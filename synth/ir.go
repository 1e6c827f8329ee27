// Package synth drives the aiwc.Sink interface with a reproducible,
// synthetic instruction and memory-transfer trace, scheduled as discrete
// events on an Akita engine. It stands in for a real LLVM-IR interpreter
// host, for demos and integration tests that want to exercise the plugin
// end-to-end without a real OpenCL toolchain.
package synth

import "github.com/sarchlab/aiwc/ir"

// operand is a minimal ir.Operand: either a basic-block label or a scalar
// value, never both.
type operand struct {
	text    string
	isLabel bool
}

func (o operand) IsLabel() bool  { return o.isLabel }
func (o operand) String() string { return o.text }

func label(name string) operand { return operand{text: name, isLabel: true} }
func value(name string) operand { return operand{text: name} }

// region is a minimal ir.MemoryRegion naming a single address space.
type region struct{ space ir.AddressSpace }

func (r region) AddressSpace() ir.AddressSpace { return r.space }

// instruction is a minimal ir.Instruction, built by the trace generator
// rather than decoded from a real IR stream.
type instruction struct {
	op       ir.Opcode
	mnemonic string
	operands []operand
	block    string
	ptrLabel string
	ptrSpace ir.AddressSpace
	line     int
	width    int
}

func (i instruction) Opcode() ir.Opcode { return i.op }
func (i instruction) Mnemonic() string  { return i.mnemonic }
func (i instruction) NumOperands() int  { return len(i.operands) }
func (i instruction) Operand(n int) ir.Operand {
	return i.operands[n]
}
func (i instruction) ParentBlockLabel() string         { return i.block }
func (i instruction) PointerOperandLabel() string      { return i.ptrLabel }
func (i instruction) PointerAddressSpace() ir.AddressSpace { return i.ptrSpace }
func (i instruction) Line() int                        { return i.line }
func (i instruction) ResultWidth() int                 { return i.width }
