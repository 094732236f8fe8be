package cpu

// Writeback is the value an instruction wants stored through its operand.
// Valid is false when the instruction has nothing to store.
type Writeback struct {
	Value uint8
	Valid bool
}

var noWriteback = Writeback{}

func store(value uint8) Writeback {
	return Writeback{Value: value, Valid: true}
}

// execFunc implements one mnemonic. It performs all register and flag side
// effects, then returns the value to store (if any) and the extra cycles the
// instruction incurred.
type execFunc func(cpu *CPU, src *operand) (Writeback, int)

func carryBit(set bool) uint16 {
	if set {
		return 1
	}
	return 0
}

// Load operations
func lda(cpu *CPU, src *operand) (Writeback, int) {
	cpu.A = src.Read()
	cpu.setZN(cpu.A)
	return noWriteback, 0
}

func ldx(cpu *CPU, src *operand) (Writeback, int) {
	cpu.X = src.Read()
	cpu.setZN(cpu.X)
	return noWriteback, 0
}

func ldy(cpu *CPU, src *operand) (Writeback, int) {
	cpu.Y = src.Read()
	cpu.setZN(cpu.Y)
	return noWriteback, 0
}

// Store operations
func sta(cpu *CPU, _ *operand) (Writeback, int) {
	return store(cpu.A), 0
}

func stx(cpu *CPU, _ *operand) (Writeback, int) {
	return store(cpu.X), 0
}

func sty(cpu *CPU, _ *operand) (Writeback, int) {
	return store(cpu.Y), 0
}

// Arithmetic operations

// adc adds with carry. In decimal mode the low digit is corrected by 6 when
// it exceeds 9 and the result by 0x60 when it exceeds 0x99; carry then
// reflects the decimal overflow.
func adc(cpu *CPU, src *operand) (Writeback, int) {
	value := uint16(src.Read())
	a := uint16(cpu.A)
	carry := carryBit(cpu.C)
	sum := a + value + carry

	if cpu.D {
		if (a&0x0F)+(value&0x0F)+carry > 0x09 {
			sum += 0x06
		}
		cpu.V = (a^value)&0x80 == 0 && (a^sum)&0x80 != 0
		if sum > 0x99 {
			sum += 0x60
		}
		cpu.C = sum > 0x99
	} else {
		cpu.V = (a^value)&0x80 == 0 && (a^sum)&0x80 != 0
		cpu.C = sum > 0xFF
	}

	cpu.A = uint8(sum)
	cpu.setZN(cpu.A)
	return noWriteback, 0
}

// sbc subtracts with borrow. Flags come from the binary difference; decimal
// mode then corrects the low digit by 6 and the high digit by 0x60 on borrow.
func sbc(cpu *CPU, src *operand) (Writeback, int) {
	value := int(src.Read())
	a := int(cpu.A)
	borrow := int(carryBit(!cpu.C))
	diff := a - value - borrow
	result := uint8(diff)

	cpu.V = (a^value)&0x80 != 0 && (a^int(result))&0x80 != 0
	cpu.C = diff >= 0
	cpu.setZN(result)

	if cpu.D {
		if (a&0x0F)-borrow < value&0x0F {
			diff -= 0x06
		}
		if diff < 0 {
			diff -= 0x60
		}
		result = uint8(diff)
	}

	cpu.A = result
	return noWriteback, 0
}

// Logical operations
func and(cpu *CPU, src *operand) (Writeback, int) {
	cpu.A &= src.Read()
	cpu.setZN(cpu.A)
	return noWriteback, 0
}

func ora(cpu *CPU, src *operand) (Writeback, int) {
	cpu.A |= src.Read()
	cpu.setZN(cpu.A)
	return noWriteback, 0
}

func eor(cpu *CPU, src *operand) (Writeback, int) {
	cpu.A ^= src.Read()
	cpu.setZN(cpu.A)
	return noWriteback, 0
}

func bit(cpu *CPU, src *operand) (Writeback, int) {
	value := src.Read()
	cpu.N = value&0x80 != 0
	cpu.V = value&0x40 != 0
	cpu.Z = value&cpu.A == 0
	return noWriteback, 0
}

// Shift and rotate operations, on memory or the accumulator
func asl(cpu *CPU, src *operand) (Writeback, int) {
	value := src.Read()
	cpu.C = value&0x80 != 0
	value <<= 1
	cpu.setZN(value)
	return store(value), 0
}

func lsr(cpu *CPU, src *operand) (Writeback, int) {
	value := src.Read()
	cpu.C = value&0x01 != 0
	value >>= 1
	cpu.setZN(value)
	return store(value), 0
}

func rol(cpu *CPU, src *operand) (Writeback, int) {
	value := src.Read()
	oldCarry := cpu.C
	cpu.C = value&0x80 != 0
	value <<= 1
	if oldCarry {
		value |= 0x01
	}
	cpu.setZN(value)
	return store(value), 0
}

func ror(cpu *CPU, src *operand) (Writeback, int) {
	value := src.Read()
	oldCarry := cpu.C
	cpu.C = value&0x01 != 0
	value >>= 1
	if oldCarry {
		value |= 0x80
	}
	cpu.setZN(value)
	return store(value), 0
}

// Comparison operations
func (cpu *CPU) compare(register, value uint8) {
	cpu.C = register >= value
	cpu.setZN(register - value)
}

func cmp(cpu *CPU, src *operand) (Writeback, int) {
	cpu.compare(cpu.A, src.Read())
	return noWriteback, 0
}

func cpx(cpu *CPU, src *operand) (Writeback, int) {
	cpu.compare(cpu.X, src.Read())
	return noWriteback, 0
}

func cpy(cpu *CPU, src *operand) (Writeback, int) {
	cpu.compare(cpu.Y, src.Read())
	return noWriteback, 0
}

// Increment/Decrement operations
func inc(cpu *CPU, src *operand) (Writeback, int) {
	value := src.Read() + 1
	cpu.setZN(value)
	return store(value), 0
}

func dec(cpu *CPU, src *operand) (Writeback, int) {
	value := src.Read() - 1
	cpu.setZN(value)
	return store(value), 0
}

func inx(cpu *CPU, _ *operand) (Writeback, int) {
	cpu.X++
	cpu.setZN(cpu.X)
	return noWriteback, 0
}

func dex(cpu *CPU, _ *operand) (Writeback, int) {
	cpu.X--
	cpu.setZN(cpu.X)
	return noWriteback, 0
}

func iny(cpu *CPU, _ *operand) (Writeback, int) {
	cpu.Y++
	cpu.setZN(cpu.Y)
	return noWriteback, 0
}

func dey(cpu *CPU, _ *operand) (Writeback, int) {
	cpu.Y--
	cpu.setZN(cpu.Y)
	return noWriteback, 0
}

// Transfer operations
func tax(cpu *CPU, _ *operand) (Writeback, int) {
	cpu.X = cpu.A
	cpu.setZN(cpu.X)
	return noWriteback, 0
}

func txa(cpu *CPU, _ *operand) (Writeback, int) {
	cpu.A = cpu.X
	cpu.setZN(cpu.A)
	return noWriteback, 0
}

func tay(cpu *CPU, _ *operand) (Writeback, int) {
	cpu.Y = cpu.A
	cpu.setZN(cpu.Y)
	return noWriteback, 0
}

func tya(cpu *CPU, _ *operand) (Writeback, int) {
	cpu.A = cpu.Y
	cpu.setZN(cpu.A)
	return noWriteback, 0
}

func tsx(cpu *CPU, _ *operand) (Writeback, int) {
	cpu.X = cpu.SP
	cpu.setZN(cpu.X)
	return noWriteback, 0
}

func txs(cpu *CPU, _ *operand) (Writeback, int) {
	cpu.SP = cpu.X
	return noWriteback, 0
}

// Stack operations
func pha(cpu *CPU, _ *operand) (Writeback, int) {
	cpu.push(cpu.A)
	return noWriteback, 0
}

func pla(cpu *CPU, _ *operand) (Writeback, int) {
	cpu.A = cpu.pop()
	cpu.setZN(cpu.A)
	return noWriteback, 0
}

// php pushes the status with the break bit set, as the hardware does for
// software pushes.
func php(cpu *CPU, _ *operand) (Writeback, int) {
	cpu.push(cpu.Status.Byte() | bFlagMask)
	return noWriteback, 0
}

func plp(cpu *CPU, _ *operand) (Writeback, int) {
	cpu.Status.SetByte(cpu.pop())
	return noWriteback, 0
}

// Flag operations
func clc(cpu *CPU, _ *operand) (Writeback, int) {
	cpu.C = false
	return noWriteback, 0
}

func sec(cpu *CPU, _ *operand) (Writeback, int) {
	cpu.C = true
	return noWriteback, 0
}

func cli(cpu *CPU, _ *operand) (Writeback, int) {
	cpu.I = false
	return noWriteback, 0
}

func sei(cpu *CPU, _ *operand) (Writeback, int) {
	cpu.I = true
	return noWriteback, 0
}

func clv(cpu *CPU, _ *operand) (Writeback, int) {
	cpu.V = false
	return noWriteback, 0
}

func cld(cpu *CPU, _ *operand) (Writeback, int) {
	cpu.D = false
	return noWriteback, 0
}

func sed(cpu *CPU, _ *operand) (Writeback, int) {
	cpu.D = true
	return noWriteback, 0
}

// Control flow operations
func jmp(cpu *CPU, src *operand) (Writeback, int) {
	cpu.PC = src.Address()
	return noWriteback, 0
}

// jsr pushes the address of its own last byte; rts adds the one back.
func jsr(cpu *CPU, src *operand) (Writeback, int) {
	cpu.pushWord(cpu.PC - 1)
	cpu.PC = src.Address()
	return noWriteback, 0
}

func rts(cpu *CPU, _ *operand) (Writeback, int) {
	cpu.PC = cpu.popWord() + 1
	return noWriteback, 0
}

func rti(cpu *CPU, _ *operand) (Writeback, int) {
	cpu.Status.SetByte(cpu.pop())
	cpu.PC = cpu.popWord()
	return noWriteback, 0
}

// brk skips its padding byte, pushes the return address and the status with
// break set, then vectors through the IRQ vector.
func brk(cpu *CPU, _ *operand) (Writeback, int) {
	cpu.PC++
	cpu.B = true
	cpu.pushWord(cpu.PC)
	cpu.push(cpu.Status.Byte() | bFlagMask)
	cpu.I = true
	cpu.PC = cpu.readWord(irqVector)
	return noWriteback, 0
}

func nop(*CPU, *operand) (Writeback, int) {
	return noWriteback, 0
}

// Branch operations

// branch reads the signed offset and, when taken, costs one extra cycle plus
// one more if the target lies in a different page than the next instruction.
func (cpu *CPU) branch(src *operand, taken bool) (Writeback, int) {
	offset := src.Read()
	if !taken {
		return noWriteback, 0
	}

	extra := 1
	target := branchTarget(cpu.PC, offset)
	if (cpu.PC^target)&pageMask != 0 {
		extra++
	}
	cpu.PC = target
	return noWriteback, extra
}

func bcc(cpu *CPU, src *operand) (Writeback, int) { return cpu.branch(src, !cpu.C) }
func bcs(cpu *CPU, src *operand) (Writeback, int) { return cpu.branch(src, cpu.C) }
func bne(cpu *CPU, src *operand) (Writeback, int) { return cpu.branch(src, !cpu.Z) }
func beq(cpu *CPU, src *operand) (Writeback, int) { return cpu.branch(src, cpu.Z) }
func bpl(cpu *CPU, src *operand) (Writeback, int) { return cpu.branch(src, !cpu.N) }
func bmi(cpu *CPU, src *operand) (Writeback, int) { return cpu.branch(src, cpu.N) }
func bvc(cpu *CPU, src *operand) (Writeback, int) { return cpu.branch(src, !cpu.V) }
func bvs(cpu *CPU, src *operand) (Writeback, int) { return cpu.branch(src, cpu.V) }
