package cpu

import "strings"

// Status register bit masks
const (
	nFlagMask  = 0x80
	vFlagMask  = 0x40
	unusedMask = 0x20
	bFlagMask  = 0x10
	dFlagMask  = 0x08
	iFlagMask  = 0x04
	zFlagMask  = 0x02
	cFlagMask  = 0x01
)

// Status holds the processor status flags as discrete booleans.
type Status struct {
	C bool // Carry
	Z bool // Zero
	I bool // Interrupt disable
	D bool // Decimal mode
	B bool // Break
	V bool // Overflow
	N bool // Negative
}

// Registers is the 6502 register file.
type Registers struct {
	A  uint8  // Accumulator
	X  uint8  // X index
	Y  uint8  // Y index
	SP uint8  // Stack pointer, offset into page one
	PC uint16 // Program counter

	Status
}

// Byte packs the flags into the processor status byte. Bit 5 always reads as set.
func (s Status) Byte() uint8 {
	status := uint8(unusedMask)
	if s.N {
		status |= nFlagMask
	}
	if s.V {
		status |= vFlagMask
	}
	if s.B {
		status |= bFlagMask
	}
	if s.D {
		status |= dFlagMask
	}
	if s.I {
		status |= iFlagMask
	}
	if s.Z {
		status |= zFlagMask
	}
	if s.C {
		status |= cFlagMask
	}
	return status
}

// SetByte unpacks a processor status byte into the flags.
func (s *Status) SetByte(status uint8) {
	s.N = status&nFlagMask != 0
	s.V = status&vFlagMask != 0
	s.B = status&bFlagMask != 0
	s.D = status&dFlagMask != 0
	s.I = status&iFlagMask != 0
	s.Z = status&zFlagMask != 0
	s.C = status&cFlagMask != 0
}

// setZN sets Zero and Negative from an 8-bit result.
func (s *Status) setZN(value uint8) {
	s.Z = value == 0
	s.N = value&nFlagMask != 0
}

// String renders the flags as NV-BDIZC with '-' for clear bits.
func (s Status) String() string {
	var b strings.Builder
	put := func(set bool, c byte) {
		if set {
			b.WriteByte(c)
		} else {
			b.WriteByte('-')
		}
	}
	put(s.N, 'N')
	put(s.V, 'V')
	b.WriteByte('-')
	put(s.B, 'B')
	put(s.D, 'D')
	put(s.I, 'I')
	put(s.Z, 'Z')
	put(s.C, 'C')
	return b.String()
}
