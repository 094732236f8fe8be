package cpu

import "fmt"

// AddressingMode selects how an instruction's operand bytes become an
// effective address or value.
type AddressingMode uint8

const (
	Implied AddressingMode = iota
	Accumulator
	Immediate
	ZeroPage
	ZeroPageX
	ZeroPageY
	Relative
	Absolute
	AbsoluteX
	AbsoluteY
	Indirect
	IndexedIndirect // (zp,X)
	IndirectIndexed // (zp),Y
)

const (
	zeroPageMask = 0xFF
	pageMask     = 0xFF00
)

var modeNames = [...]string{
	Implied:         "implied",
	Accumulator:     "accumulator",
	Immediate:       "immediate",
	ZeroPage:        "zeropage",
	ZeroPageX:       "zeropage,x",
	ZeroPageY:       "zeropage,y",
	Relative:        "relative",
	Absolute:        "absolute",
	AbsoluteX:       "absolute,x",
	AbsoluteY:       "absolute,y",
	Indirect:        "indirect",
	IndexedIndirect: "(indirect,x)",
	IndirectIndexed: "(indirect),y",
}

func (m AddressingMode) String() string {
	if int(m) < len(modeNames) {
		return modeNames[m]
	}
	return fmt.Sprintf("mode(%d)", uint8(m))
}

// Width is the number of operand bytes following the opcode.
func (m AddressingMode) Width() uint16 {
	switch m {
	case Implied, Accumulator:
		return 0
	case Absolute, AbsoluteX, AbsoluteY, Indirect:
		return 2
	default:
		return 1
	}
}

// Writable reports whether a value can be stored through the mode.
func (m AddressingMode) Writable() bool {
	switch m {
	case Implied, Immediate, Relative, Indirect:
		return false
	}
	return true
}

// Format renders the operand in assembler syntax. next is the address of the
// following instruction and is only used to show relative branch targets.
func (m AddressingMode) Format(param uint16, next uint16) string {
	switch m {
	case Accumulator:
		return "A"
	case Immediate:
		return fmt.Sprintf("#$%02X", uint8(param))
	case ZeroPage:
		return fmt.Sprintf("$%02X", uint8(param))
	case ZeroPageX:
		return fmt.Sprintf("$%02X,X", uint8(param))
	case ZeroPageY:
		return fmt.Sprintf("$%02X,Y", uint8(param))
	case Relative:
		return fmt.Sprintf("$%04X", branchTarget(next, uint8(param)))
	case Absolute:
		return fmt.Sprintf("$%04X", param)
	case AbsoluteX:
		return fmt.Sprintf("$%04X,X", param)
	case AbsoluteY:
		return fmt.Sprintf("$%04X,Y", param)
	case Indirect:
		return fmt.Sprintf("($%04X)", param)
	case IndexedIndirect:
		return fmt.Sprintf("($%02X,X)", uint8(param))
	case IndirectIndexed:
		return fmt.Sprintf("($%02X),Y", uint8(param))
	}
	return ""
}

func branchTarget(next uint16, offset uint8) uint16 {
	return uint16(int32(next) + int32(int8(offset)))
}

// operand is an addressing mode bound to the operand bytes of the
// instruction being executed. The effective address is resolved once, when
// the operand is bound, so indirection pointers are read exactly once.
type operand struct {
	cpu     *CPU
	mode    AddressingMode
	param   uint16
	address uint16
	crossed bool
}

// bind resolves mode against param. The program counter must already point
// past the instruction.
func (cpu *CPU) bind(mode AddressingMode, param uint16) operand {
	op := operand{cpu: cpu, mode: mode, param: param}

	switch mode {
	case ZeroPage:
		op.address = param & zeroPageMask

	case ZeroPageX:
		op.address = uint16(uint8(param) + cpu.X) // wraps within page zero

	case ZeroPageY:
		op.address = uint16(uint8(param) + cpu.Y) // wraps within page zero

	case Relative:
		op.address = branchTarget(cpu.PC, uint8(param))

	case Absolute:
		op.address = param

	case AbsoluteX:
		op.address = param + uint16(cpu.X)
		op.crossed = (param^op.address)&pageMask != 0

	case AbsoluteY:
		op.address = param + uint16(cpu.Y)
		op.crossed = (param^op.address)&pageMask != 0

	case Indirect:
		// The pointer's high byte never carries into the next page.
		low := uint16(cpu.memory.Read(param))
		high := uint16(cpu.memory.Read(param&pageMask | uint16(uint8(param)+1)))
		op.address = high<<8 | low

	case IndexedIndirect:
		ptr := uint8(param) + cpu.X
		low := uint16(cpu.memory.Read(uint16(ptr)))
		high := uint16(cpu.memory.Read(uint16(ptr + 1)))
		op.address = high<<8 | low

	case IndirectIndexed:
		ptr := uint8(param)
		low := uint16(cpu.memory.Read(uint16(ptr)))
		high := uint16(cpu.memory.Read(uint16(ptr + 1)))
		base := high<<8 | low
		op.address = base + uint16(cpu.Y)
		op.crossed = (base^op.address)&pageMask != 0
	}

	return op
}

// Read returns the operand value.
func (op *operand) Read() uint8 {
	switch op.mode {
	case Implied:
		return 0
	case Accumulator:
		return op.cpu.A
	case Immediate, Relative:
		return uint8(op.param)
	}
	return op.cpu.memory.Read(op.address)
}

// Write stores value where the operand lives: the accumulator or memory.
func (op *operand) Write(value uint8) error {
	if !op.mode.Writable() {
		return fmt.Errorf("%w: %s", ErrReadOnlyOperand, op.mode)
	}
	if op.mode == Accumulator {
		op.cpu.A = value
		return nil
	}
	op.cpu.memory.Write(op.address, value)
	return nil
}

// Address is the resolved effective address.
func (op *operand) Address() uint16 {
	return op.address
}

// PageCrossed reports whether indexing moved the address into another page.
func (op *operand) PageCrossed() bool {
	return op.crossed
}
