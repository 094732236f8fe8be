package cpu

import "fmt"

// Instruction describes one entry of the opcode table.
type Instruction struct {
	Name      string
	Opcode    uint8
	Mode      AddressingMode
	Cycles    uint8
	PageCycle bool // one extra cycle when indexing crosses a page

	exec execFunc
}

// Supported reports whether the opcode is implemented.
func (in *Instruction) Supported() bool {
	return in.exec != nil
}

// Bytes is the instruction length including the opcode.
func (in *Instruction) Bytes() uint16 {
	return 1 + in.Mode.Width()
}

var instructionSet = map[string]execFunc{
	"ADC": adc, "AND": and, "ASL": asl, "BCC": bcc, "BCS": bcs, "BEQ": beq, "BIT": bit,
	"BMI": bmi, "BNE": bne, "BPL": bpl, "BRK": brk, "BVC": bvc, "BVS": bvs, "CLC": clc,
	"CLD": cld, "CLI": cli, "CLV": clv, "CMP": cmp, "CPX": cpx, "CPY": cpy, "DEC": dec,
	"DEX": dex, "DEY": dey, "EOR": eor, "INC": inc, "INX": inx, "INY": iny, "JMP": jmp,
	"JSR": jsr, "LDA": lda, "LDX": ldx, "LDY": ldy, "LSR": lsr, "NOP": nop, "ORA": ora,
	"PHA": pha, "PHP": php, "PLA": pla, "PLP": plp, "ROL": rol, "ROR": ror, "RTI": rti,
	"RTS": rts, "SBC": sbc, "SEC": sec, "SED": sed, "SEI": sei, "STA": sta, "STX": stx,
	"STY": sty, "TAX": tax, "TAY": tay, "TSX": tsx, "TXA": txa, "TXS": txs, "TYA": tya,
}

// writebackSet lists the mnemonics that return a value to store.
var writebackSet = map[string]bool{
	"STA": true, "STX": true, "STY": true,
	"ASL": true, "LSR": true, "ROL": true, "ROR": true,
	"INC": true, "DEC": true,
}

type opcodeDef struct {
	code   uint8
	name   string
	mode   AddressingMode
	cycles uint8
	page   bool
}

// opcodeDefs is the official 6502 instruction set.
var opcodeDefs = []opcodeDef{
	// Load/Store
	{0xA9, "LDA", Immediate, 2, false},
	{0xA5, "LDA", ZeroPage, 3, false},
	{0xB5, "LDA", ZeroPageX, 4, false},
	{0xAD, "LDA", Absolute, 4, false},
	{0xBD, "LDA", AbsoluteX, 4, true},
	{0xB9, "LDA", AbsoluteY, 4, true},
	{0xA1, "LDA", IndexedIndirect, 6, false},
	{0xB1, "LDA", IndirectIndexed, 5, true},

	{0xA2, "LDX", Immediate, 2, false},
	{0xA6, "LDX", ZeroPage, 3, false},
	{0xB6, "LDX", ZeroPageY, 4, false},
	{0xAE, "LDX", Absolute, 4, false},
	{0xBE, "LDX", AbsoluteY, 4, true},

	{0xA0, "LDY", Immediate, 2, false},
	{0xA4, "LDY", ZeroPage, 3, false},
	{0xB4, "LDY", ZeroPageX, 4, false},
	{0xAC, "LDY", Absolute, 4, false},
	{0xBC, "LDY", AbsoluteX, 4, true},

	{0x85, "STA", ZeroPage, 3, false},
	{0x95, "STA", ZeroPageX, 4, false},
	{0x8D, "STA", Absolute, 4, false},
	{0x9D, "STA", AbsoluteX, 5, false},
	{0x99, "STA", AbsoluteY, 5, false},
	{0x81, "STA", IndexedIndirect, 6, false},
	{0x91, "STA", IndirectIndexed, 6, false},

	{0x86, "STX", ZeroPage, 3, false},
	{0x96, "STX", ZeroPageY, 4, false},
	{0x8E, "STX", Absolute, 4, false},

	{0x84, "STY", ZeroPage, 3, false},
	{0x94, "STY", ZeroPageX, 4, false},
	{0x8C, "STY", Absolute, 4, false},

	// Arithmetic
	{0x69, "ADC", Immediate, 2, false},
	{0x65, "ADC", ZeroPage, 3, false},
	{0x75, "ADC", ZeroPageX, 4, false},
	{0x6D, "ADC", Absolute, 4, false},
	{0x7D, "ADC", AbsoluteX, 4, true},
	{0x79, "ADC", AbsoluteY, 4, true},
	{0x61, "ADC", IndexedIndirect, 6, false},
	{0x71, "ADC", IndirectIndexed, 5, true},

	{0xE9, "SBC", Immediate, 2, false},
	{0xE5, "SBC", ZeroPage, 3, false},
	{0xF5, "SBC", ZeroPageX, 4, false},
	{0xED, "SBC", Absolute, 4, false},
	{0xFD, "SBC", AbsoluteX, 4, true},
	{0xF9, "SBC", AbsoluteY, 4, true},
	{0xE1, "SBC", IndexedIndirect, 6, false},
	{0xF1, "SBC", IndirectIndexed, 5, true},

	// Logical
	{0x29, "AND", Immediate, 2, false},
	{0x25, "AND", ZeroPage, 3, false},
	{0x35, "AND", ZeroPageX, 4, false},
	{0x2D, "AND", Absolute, 4, false},
	{0x3D, "AND", AbsoluteX, 4, true},
	{0x39, "AND", AbsoluteY, 4, true},
	{0x21, "AND", IndexedIndirect, 6, false},
	{0x31, "AND", IndirectIndexed, 5, true},

	{0x09, "ORA", Immediate, 2, false},
	{0x05, "ORA", ZeroPage, 3, false},
	{0x15, "ORA", ZeroPageX, 4, false},
	{0x0D, "ORA", Absolute, 4, false},
	{0x1D, "ORA", AbsoluteX, 4, true},
	{0x19, "ORA", AbsoluteY, 4, true},
	{0x01, "ORA", IndexedIndirect, 6, false},
	{0x11, "ORA", IndirectIndexed, 5, true},

	{0x49, "EOR", Immediate, 2, false},
	{0x45, "EOR", ZeroPage, 3, false},
	{0x55, "EOR", ZeroPageX, 4, false},
	{0x4D, "EOR", Absolute, 4, false},
	{0x5D, "EOR", AbsoluteX, 4, true},
	{0x59, "EOR", AbsoluteY, 4, true},
	{0x41, "EOR", IndexedIndirect, 6, false},
	{0x51, "EOR", IndirectIndexed, 5, true},

	{0x24, "BIT", ZeroPage, 3, false},
	{0x2C, "BIT", Absolute, 4, false},

	// Shift and Rotate
	{0x0A, "ASL", Accumulator, 2, false},
	{0x06, "ASL", ZeroPage, 5, false},
	{0x16, "ASL", ZeroPageX, 6, false},
	{0x0E, "ASL", Absolute, 6, false},
	{0x1E, "ASL", AbsoluteX, 7, false},

	{0x4A, "LSR", Accumulator, 2, false},
	{0x46, "LSR", ZeroPage, 5, false},
	{0x56, "LSR", ZeroPageX, 6, false},
	{0x4E, "LSR", Absolute, 6, false},
	{0x5E, "LSR", AbsoluteX, 7, false},

	{0x2A, "ROL", Accumulator, 2, false},
	{0x26, "ROL", ZeroPage, 5, false},
	{0x36, "ROL", ZeroPageX, 6, false},
	{0x2E, "ROL", Absolute, 6, false},
	{0x3E, "ROL", AbsoluteX, 7, false},

	{0x6A, "ROR", Accumulator, 2, false},
	{0x66, "ROR", ZeroPage, 5, false},
	{0x76, "ROR", ZeroPageX, 6, false},
	{0x6E, "ROR", Absolute, 6, false},
	{0x7E, "ROR", AbsoluteX, 7, false},

	// Comparison
	{0xC9, "CMP", Immediate, 2, false},
	{0xC5, "CMP", ZeroPage, 3, false},
	{0xD5, "CMP", ZeroPageX, 4, false},
	{0xCD, "CMP", Absolute, 4, false},
	{0xDD, "CMP", AbsoluteX, 4, true},
	{0xD9, "CMP", AbsoluteY, 4, true},
	{0xC1, "CMP", IndexedIndirect, 6, false},
	{0xD1, "CMP", IndirectIndexed, 5, true},

	{0xE0, "CPX", Immediate, 2, false},
	{0xE4, "CPX", ZeroPage, 3, false},
	{0xEC, "CPX", Absolute, 4, false},

	{0xC0, "CPY", Immediate, 2, false},
	{0xC4, "CPY", ZeroPage, 3, false},
	{0xCC, "CPY", Absolute, 4, false},

	// Increment/Decrement
	{0xE6, "INC", ZeroPage, 5, false},
	{0xF6, "INC", ZeroPageX, 6, false},
	{0xEE, "INC", Absolute, 6, false},
	{0xFE, "INC", AbsoluteX, 7, false},

	{0xC6, "DEC", ZeroPage, 5, false},
	{0xD6, "DEC", ZeroPageX, 6, false},
	{0xCE, "DEC", Absolute, 6, false},
	{0xDE, "DEC", AbsoluteX, 7, false},

	{0xE8, "INX", Implied, 2, false},
	{0xCA, "DEX", Implied, 2, false},
	{0xC8, "INY", Implied, 2, false},
	{0x88, "DEY", Implied, 2, false},

	// Transfer
	{0xAA, "TAX", Implied, 2, false},
	{0x8A, "TXA", Implied, 2, false},
	{0xA8, "TAY", Implied, 2, false},
	{0x98, "TYA", Implied, 2, false},
	{0xBA, "TSX", Implied, 2, false},
	{0x9A, "TXS", Implied, 2, false},

	// Stack
	{0x48, "PHA", Implied, 3, false},
	{0x68, "PLA", Implied, 4, false},
	{0x08, "PHP", Implied, 3, false},
	{0x28, "PLP", Implied, 4, false},

	// Flags
	{0x18, "CLC", Implied, 2, false},
	{0x38, "SEC", Implied, 2, false},
	{0x58, "CLI", Implied, 2, false},
	{0x78, "SEI", Implied, 2, false},
	{0xB8, "CLV", Implied, 2, false},
	{0xD8, "CLD", Implied, 2, false},
	{0xF8, "SED", Implied, 2, false},

	// Control flow
	{0x4C, "JMP", Absolute, 3, false},
	{0x6C, "JMP", Indirect, 5, false},
	{0x20, "JSR", Absolute, 6, false},
	{0x60, "RTS", Implied, 6, false},
	{0x40, "RTI", Implied, 6, false},
	{0x00, "BRK", Implied, 7, false},
	{0xEA, "NOP", Implied, 2, false},

	// Branches
	{0x90, "BCC", Relative, 2, false},
	{0xB0, "BCS", Relative, 2, false},
	{0xD0, "BNE", Relative, 2, false},
	{0xF0, "BEQ", Relative, 2, false},
	{0x10, "BPL", Relative, 2, false},
	{0x30, "BMI", Relative, 2, false},
	{0x50, "BVC", Relative, 2, false},
	{0x70, "BVS", Relative, 2, false},
}

// opcodes maps every opcode byte to its instruction. Entries that are not
// part of the official set carry no implementation and fail with
// UnsupportedOpcodeError when fetched.
var opcodes = mustBuildOpcodes(opcodeDefs)

func mustBuildOpcodes(defs []opcodeDef) [256]Instruction {
	table, err := buildOpcodes(defs)
	if err != nil {
		panic(fmt.Sprintf("cpu: invalid opcode table: %v", err))
	}
	return table
}

// buildOpcodes constructs the dispatch table and refuses duplicate opcodes,
// duplicate mnemonic/mode pairs, unknown or unused mnemonics, and store
// instructions bound to modes that cannot be written.
func buildOpcodes(defs []opcodeDef) ([256]Instruction, error) {
	var table [256]Instruction
	for i := range table {
		table[i] = Instruction{Name: "???", Opcode: uint8(i), Mode: Implied}
	}

	type pair struct {
		name string
		mode AddressingMode
	}
	seenPairs := make(map[pair]uint8)
	used := make(map[string]bool)

	for _, def := range defs {
		exec, ok := instructionSet[def.name]
		if !ok {
			return table, fmt.Errorf("opcode 0x%02X: unknown mnemonic %s", def.code, def.name)
		}
		if table[def.code].exec != nil {
			return table, fmt.Errorf("opcode 0x%02X defined twice (%s and %s)", def.code, table[def.code].Name, def.name)
		}
		p := pair{def.name, def.mode}
		if prev, dup := seenPairs[p]; dup {
			return table, fmt.Errorf("%s %s bound to both 0x%02X and 0x%02X", def.name, def.mode, prev, def.code)
		}
		if writebackSet[def.name] && !def.mode.Writable() {
			return table, fmt.Errorf("opcode 0x%02X: %s cannot store through %s", def.code, def.name, def.mode)
		}
		if def.cycles == 0 {
			return table, fmt.Errorf("opcode 0x%02X: zero base cycles", def.code)
		}

		seenPairs[p] = def.code
		used[def.name] = true
		table[def.code] = Instruction{
			Name:      def.name,
			Opcode:    def.code,
			Mode:      def.mode,
			Cycles:    def.cycles,
			PageCycle: def.page,
			exec:      exec,
		}
	}

	for name := range instructionSet {
		if !used[name] {
			return table, fmt.Errorf("mnemonic %s has no opcode", name)
		}
	}

	return table, nil
}

// Coverage reports how many opcode bytes and distinct mnemonics the table
// implements.
func Coverage() (opcodeCount, mnemonics int) {
	for i := range opcodes {
		if opcodes[i].Supported() {
			opcodeCount++
		}
	}
	return opcodeCount, len(instructionSet)
}

// Lookup returns the table entry for an opcode byte.
func Lookup(opcode uint8) Instruction {
	return opcodes[opcode]
}
