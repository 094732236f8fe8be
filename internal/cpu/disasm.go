package cpu

import "fmt"

// Disassembly is one decoded instruction.
type Disassembly struct {
	Address   uint16
	Bytes     []uint8
	Name      string
	Mode      AddressingMode
	Text      string
	Supported bool
}

// Next is the address of the following instruction.
func (d Disassembly) Next() uint16 {
	return d.Address + uint16(len(d.Bytes))
}

// Disassemble decodes the instruction at address without side effects on
// the CPU. Unsupported opcodes decode as a one-byte ".byte" directive.
func Disassemble(mem Reader, address uint16) Disassembly {
	code := mem.Read(address)
	inst := opcodes[code]
	if !inst.Supported() {
		return Disassembly{
			Address: address,
			Bytes:   []uint8{code},
			Name:    inst.Name,
			Text:    fmt.Sprintf(".byte $%02X", code),
		}
	}

	n := inst.Bytes()
	raw := make([]uint8, n)
	for i := uint16(0); i < n; i++ {
		raw[i] = mem.Read(address + i)
	}

	var param uint16
	switch n {
	case 2:
		param = uint16(raw[1])
	case 3:
		param = uint16(raw[2])<<8 | uint16(raw[1])
	}

	text := inst.Name
	if operand := inst.Mode.Format(param, address+n); operand != "" {
		text += " " + operand
	}

	return Disassembly{
		Address:   address,
		Bytes:     raw,
		Name:      inst.Name,
		Mode:      inst.Mode,
		Text:      text,
		Supported: true,
	}
}

// DisassembleRange decodes count instructions starting at address. A count
// below one yields nil.
func DisassembleRange(mem Reader, address uint16, count int) []Disassembly {
	if count <= 0 {
		return nil
	}
	out := make([]Disassembly, 0, count)
	for i := 0; i < count; i++ {
		d := Disassemble(mem, address)
		out = append(out, d)
		address = d.Next()
	}
	return out
}
