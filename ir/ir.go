// Package ir defines the contract by which a host LLVM-IR interpreter
// describes instructions and memory regions to the AIWC measurement core.
// Nothing in this package executes or interprets anything; it only names the
// shapes the host must expose so the core can classify events without type
// assertions or string comparisons scattered through the hot path.
package ir

// AddressSpace classifies the memory region a pointer operand resides in.
type AddressSpace int

// The four OpenCL address spaces. Numeric order follows the convention most
// LLVM-IR frontends emit; Private is intentionally the zero value (see the
// atomic-op filtering caveat on worker.State.HandleAtomicOp).
const (
	Private AddressSpace = iota
	Global
	Local
	Constant
)

// String renders the address space the way report output and diagnostics
// expect it.
func (a AddressSpace) String() string {
	switch a {
	case Private:
		return "private"
	case Global:
		return "global"
	case Local:
		return "local"
	case Constant:
		return "constant"
	default:
		return "unknown"
	}
}

// MemoryRegion is the host's handle for the memory object a load, store, or
// atomic operation touches.
type MemoryRegion interface {
	AddressSpace() AddressSpace
}

// Operand is one operand of a retired instruction.
type Operand interface {
	// IsLabel reports whether this operand names a basic-block label.
	IsLabel() bool
	// String is the operand's textual representation, used as the block
	// identity when matching a following instruction's parent block against
	// a conditional branch's two targets.
	String() string
}

// Opcode identifies an instruction's operation independent of its mnemonic
// spelling. Only Load, Store, and Br are distinguished explicitly; every
// other opcode is carried through as a mnemonic string, exactly as the host
// interpreter names it.
type Opcode int

// The opcodes the core needs to recognize by shape rather than by name.
const (
	OpOther Opcode = iota
	OpLoad
	OpStore
	OpBr
)

// Instruction is the host's descriptor for one retired IR instruction. The
// core never holds onto an Instruction past the call that delivered it.
type Instruction interface {
	// Opcode classifies the instruction for the load/store/branch dispatch
	// in the worker accumulator. Every opcode other than Load, Store, and Br
	// reports OpOther; its Mnemonic is still tracked verbatim.
	Opcode() Opcode

	// Mnemonic is the textual opcode name used as the computeOps key.
	Mnemonic() string

	// NumOperands is the instruction's operand count.
	NumOperands() int

	// Operand returns the i'th operand, 0-indexed.
	Operand(i int) Operand

	// ParentBlockLabel is the textual label of the basic block this
	// instruction lives in, used to resolve which branch target was taken.
	ParentBlockLabel() string

	// PointerOperandLabel is the textual label of the pointer operand of a
	// Load or Store instruction. Undefined for other opcodes.
	PointerOperandLabel() string

	// PointerAddressSpace is the address space of a Load or Store
	// instruction's pointer operand. Undefined for other opcodes.
	PointerAddressSpace() AddressSpace

	// Line is the debug-info source line associated with the instruction.
	Line() int

	// ResultWidth is the SIMD element count of the instruction's result.
	// Scalar instructions report 1.
	ResultWidth() int
}
