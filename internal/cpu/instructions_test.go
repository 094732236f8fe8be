package cpu

import "testing"

func TestADC(t *testing.T) {
	tests := []struct {
		name    string
		a       uint8
		value   uint8
		carry   bool
		decimal bool
		want    uint8
		n, v    bool
		z, c    bool
	}{
		{"simple", 0x50, 0x10, false, false, 0x60, false, false, false, false},
		{"signed overflow", 0x7F, 0x01, false, false, 0x80, true, true, false, false},
		{"carry in", 0x01, 0x01, true, false, 0x03, false, false, false, false},
		{"carry out to zero", 0xFF, 0x01, false, false, 0x00, false, false, true, true},
		{"negative overflow", 0x80, 0x80, false, false, 0x00, false, true, true, true},
		{"decimal 15+27", 0x15, 0x27, false, true, 0x42, false, false, false, false},
		{"decimal 58+46+1", 0x58, 0x46, true, true, 0x05, false, true, false, true},
		{"decimal 99+01", 0x99, 0x01, false, true, 0x00, false, false, true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			helper := NewCPUTestHelper()
			helper.SetupResetVector(t, 0x8000)
			helper.LoadProgram(0x8000, 0x69, tt.value) // ADC #value
			helper.CPU.A = tt.a
			helper.CPU.C = tt.carry
			helper.CPU.D = tt.decimal

			helper.Run(t, 1)

			if helper.CPU.A != tt.want {
				t.Errorf("Expected A=0x%02X, got 0x%02X", tt.want, helper.CPU.A)
			}
			helper.AssertFlags(t, tt.name, tt.n, tt.v, tt.z, tt.c)
		})
	}
}

func TestSBC(t *testing.T) {
	tests := []struct {
		name    string
		a       uint8
		value   uint8
		carry   bool
		decimal bool
		want    uint8
		n, v    bool
		z, c    bool
	}{
		{"simple", 0x50, 0x10, true, false, 0x40, false, false, false, true},
		{"borrow in", 0x50, 0x10, false, false, 0x3F, false, false, false, true},
		{"borrow out", 0x00, 0x01, true, false, 0xFF, true, false, false, false},
		{"equal", 0x42, 0x42, true, false, 0x00, false, false, true, true},
		{"signed overflow", 0x80, 0x01, true, false, 0x7F, false, true, false, true},
		{"decimal 42-15", 0x42, 0x15, true, true, 0x27, false, false, false, true},
		{"decimal 10-01", 0x10, 0x01, true, true, 0x09, false, false, false, true},
		{"decimal 00-01", 0x00, 0x01, true, true, 0x99, true, false, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			helper := NewCPUTestHelper()
			helper.SetupResetVector(t, 0x8000)
			helper.LoadProgram(0x8000, 0xE9, tt.value) // SBC #value
			helper.CPU.A = tt.a
			helper.CPU.C = tt.carry
			helper.CPU.D = tt.decimal

			helper.Run(t, 1)

			if helper.CPU.A != tt.want {
				t.Errorf("Expected A=0x%02X, got 0x%02X", tt.want, helper.CPU.A)
			}
			helper.AssertFlags(t, tt.name, tt.n, tt.v, tt.z, tt.c)
		})
	}
}

func TestZeroAndNegativeFlags(t *testing.T) {
	var s Status
	for v := 0; v < 256; v++ {
		s.setZN(uint8(v))
		if s.Z != (v&0xFF == 0) {
			t.Fatalf("value 0x%02X: Z=%v", v, s.Z)
		}
		if s.N != (v&0x80 != 0) {
			t.Fatalf("value 0x%02X: N=%v", v, s.N)
		}
	}
}

func TestCompare(t *testing.T) {
	tests := []struct {
		name    string
		program []uint8
		a, x, y uint8
		n, z, c bool
	}{
		{"CMP greater", []uint8{0xC9, 0x10}, 0x20, 0, 0, false, false, true},
		{"CMP equal", []uint8{0xC9, 0x20}, 0x20, 0, 0, false, true, true},
		{"CMP less", []uint8{0xC9, 0x30}, 0x20, 0, 0, true, false, false},
		{"CPX equal", []uint8{0xE0, 0x05}, 0, 0x05, 0, false, true, true},
		{"CPY less", []uint8{0xC0, 0x80}, 0, 0, 0x00, true, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			helper := NewCPUTestHelper()
			helper.SetupResetVector(t, 0x8000)
			helper.LoadProgram(0x8000, tt.program...)
			helper.CPU.A, helper.CPU.X, helper.CPU.Y = tt.a, tt.x, tt.y

			helper.Run(t, 1)
			helper.AssertFlags(t, tt.name, tt.n, false, tt.z, tt.c)
		})
	}
}

func TestShiftsAndRotates(t *testing.T) {
	tests := []struct {
		name    string
		program []uint8
		a       uint8
		mem     uint8
		carry   bool
		wantA   uint8
		wantMem uint8
		wantC   bool
	}{
		{"ASL A", []uint8{0x0A}, 0x81, 0, false, 0x02, 0, true},
		{"LSR A", []uint8{0x4A}, 0x03, 0, false, 0x01, 0, true},
		{"ROL A with carry", []uint8{0x2A}, 0x40, 0, true, 0x81, 0, false},
		{"ROR A with carry", []uint8{0x6A}, 0x02, 0, true, 0x81, 0, false},
		{"ROR A shifts out", []uint8{0x6A}, 0x01, 0, false, 0x00, 0, true},
		{"ASL zp", []uint8{0x06, 0x10}, 0, 0xC0, false, 0, 0x80, true},
		{"ROR zp", []uint8{0x66, 0x10}, 0, 0x01, true, 0, 0x80, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			helper := NewCPUTestHelper()
			helper.SetupResetVector(t, 0x8000)
			helper.LoadProgram(0x8000, tt.program...)
			helper.Memory.SetBytes(0x0010, tt.mem)
			helper.CPU.A = tt.a
			helper.CPU.C = tt.carry

			helper.Run(t, 1)

			if helper.CPU.A != tt.wantA {
				t.Errorf("Expected A=0x%02X, got 0x%02X", tt.wantA, helper.CPU.A)
			}
			helper.AssertMemory(t, tt.name, 0x0010, tt.wantMem)
			if helper.CPU.C != tt.wantC {
				t.Errorf("Expected C=%v, got %v", tt.wantC, helper.CPU.C)
			}
		})
	}
}

func TestDecrementFlagsUseNewValue(t *testing.T) {
	helper := NewCPUTestHelper()
	helper.SetupResetVector(t, 0x8000)
	helper.LoadProgram(0x8000,
		0xCA, // DEX
		0x88, // DEY
	)
	helper.CPU.X = 0x01
	helper.CPU.Y = 0x00

	helper.Run(t, 1)
	if helper.CPU.X != 0 || !helper.CPU.Z || helper.CPU.N {
		t.Errorf("DEX 1: X=0x%02X Z=%v N=%v", helper.CPU.X, helper.CPU.Z, helper.CPU.N)
	}

	helper.Run(t, 1)
	if helper.CPU.Y != 0xFF || helper.CPU.Z || !helper.CPU.N {
		t.Errorf("DEY 0: Y=0x%02X Z=%v N=%v", helper.CPU.Y, helper.CPU.Z, helper.CPU.N)
	}
}

func TestIncDecMemory(t *testing.T) {
	helper := NewCPUTestHelper()
	helper.SetupResetVector(t, 0x8000)
	helper.LoadProgram(0x8000,
		0xEE, 0x00, 0x03, // INC $0300
		0xCE, 0x01, 0x03, // DEC $0301
	)
	helper.Memory.SetBytes(0x0300, 0xFF, 0x00)

	helper.Run(t, 2)
	helper.AssertMemory(t, "INC", 0x0300, 0x00)
	helper.AssertMemory(t, "DEC", 0x0301, 0xFF)
	helper.AssertFlags(t, "DEC", true, false, false, false)
	helper.AssertCycles(t, "INC+DEC", 12)
}

func TestBIT(t *testing.T) {
	helper := NewCPUTestHelper()
	helper.SetupResetVector(t, 0x8000)
	helper.LoadProgram(0x8000, 0x24, 0x10) // BIT $10
	helper.Memory.SetBytes(0x0010, 0xC0)
	helper.CPU.A = 0x01

	helper.Run(t, 1)
	helper.AssertFlags(t, "BIT", true, true, true, false)
	if helper.CPU.A != 0x01 {
		t.Errorf("BIT must not modify A, got 0x%02X", helper.CPU.A)
	}
}

func TestStoresDoNotTouchFlags(t *testing.T) {
	helper := NewCPUTestHelper()
	helper.SetupResetVector(t, 0x8000)
	helper.LoadProgram(0x8000,
		0x85, 0x20, // STA $20
		0x86, 0x21, // STX $21
		0x84, 0x22, // STY $22
	)
	helper.CPU.A, helper.CPU.X, helper.CPU.Y = 0x00, 0x80, 0x7F

	helper.Run(t, 3)
	helper.AssertMemory(t, "STA", 0x0020, 0x00)
	helper.AssertMemory(t, "STX", 0x0021, 0x80)
	helper.AssertMemory(t, "STY", 0x0022, 0x7F)
	helper.AssertFlags(t, "stores", false, false, false, false)
}

func TestTransfers(t *testing.T) {
	helper := NewCPUTestHelper()
	helper.SetupResetVector(t, 0x8000)
	helper.LoadProgram(0x8000,
		0xA9, 0x80, // LDA #$80
		0xAA,       // TAX
		0xA8,       // TAY
		0xBA,       // TSX
		0xA2, 0x40, // LDX #$40
		0x9A, // TXS
		0x98, // TYA
	)

	helper.Run(t, 3)
	helper.AssertRegisters(t, "TAX/TAY", 0x80, 0x80, 0x80, 0xFD, 0x8004)

	helper.Run(t, 1)
	if helper.CPU.X != 0xFD || !helper.CPU.N {
		t.Errorf("TSX: X=0x%02X N=%v", helper.CPU.X, helper.CPU.N)
	}

	helper.Run(t, 3)
	helper.AssertRegisters(t, "TXS/TYA", 0x80, 0x40, 0x80, 0x40, 0x8009)
}

func TestPHPPLP(t *testing.T) {
	helper := NewCPUTestHelper()
	helper.SetupResetVector(t, 0x8000)
	helper.LoadProgram(0x8000,
		0x08, // PHP
		0xA9, 0xFF, // LDA #$FF
		0x48,       // PHA
		0x28,       // PLP
	)
	helper.CPU.C = true

	helper.Run(t, 1)
	helper.AssertMemory(t, "PHP pushes B and bit 5", 0x01FD, 0x35)

	helper.Run(t, 3)
	s := helper.CPU.Status
	if !(s.N && s.V && s.B && s.D && s.I && s.Z && s.C) {
		t.Errorf("PLP of 0xFF should set every flag, got %s", s)
	}
}

func TestBRKAndRTI(t *testing.T) {
	helper := NewCPUTestHelper()
	helper.SetupResetVector(t, 0x8000)
	helper.Memory.SetBytes(irqVector, 0x00, 0x90)
	helper.LoadProgram(0x8000, 0x00, 0xEA) // BRK + padding
	helper.LoadProgram(0x9000, 0x40)       // RTI
	helper.CPU.I = false
	helper.CPU.C = true

	cycles := helper.Run(t, 1)
	if cycles != 7 {
		t.Errorf("Expected BRK to take 7 cycles, got %d", cycles)
	}
	helper.AssertRegisters(t, "BRK", 0, 0, 0, 0xFA, 0x9000)
	helper.AssertMemory(t, "return high", 0x01FD, 0x80)
	helper.AssertMemory(t, "return low", 0x01FC, 0x02)
	helper.AssertMemory(t, "status", 0x01FB, 0x31)
	if !helper.CPU.I {
		t.Error("Expected I set by BRK")
	}

	helper.Run(t, 1)
	helper.AssertRegisters(t, "RTI", 0, 0, 0, 0xFD, 0x8002)
	if helper.CPU.I || !helper.CPU.C {
		t.Errorf("RTI should restore I=false C=true, got %s", helper.CPU.Status)
	}
}

func TestJMPIndirectPageWrap(t *testing.T) {
	helper := NewCPUTestHelper()
	helper.SetupResetVector(t, 0x8000)
	helper.LoadProgram(0x8000, 0x6C, 0xFF, 0x02) // JMP ($02FF)
	helper.Memory.SetBytes(0x02FF, 0x34)
	helper.Memory.SetBytes(0x0200, 0x12) // high byte comes from $0200, not $0300
	helper.Memory.SetBytes(0x0300, 0x56)

	cycles := helper.Run(t, 1)
	if helper.CPU.PC != 0x1234 {
		t.Errorf("Expected PC=0x1234, got 0x%04X", helper.CPU.PC)
	}
	if cycles != 5 {
		t.Errorf("Expected 5 cycles, got %d", cycles)
	}
}

func TestWritebackStoresOnce(t *testing.T) {
	tests := []struct {
		name    string
		program []uint8
		target  uint16
		writes  int
	}{
		{"STA absolute", []uint8{0x8D, 0x00, 0x02}, 0x0200, 1},
		{"STX zero page", []uint8{0x86, 0x10}, 0x0010, 1},
		{"INC zero page", []uint8{0xE6, 0x10}, 0x0010, 1},
		{"ASL absolute,X", []uint8{0x1E, 0x00, 0x03}, 0x0300, 1},
		{"STA (zp),Y", []uint8{0x91, 0x20}, 0x0400, 1},
		{"LDA absolute", []uint8{0xAD, 0x00, 0x02}, 0x0200, 0},
		{"ASL A", []uint8{0x0A}, 0x0000, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			helper := NewCPUTestHelper()
			helper.SetupResetVector(t, 0x8000)
			helper.LoadProgram(0x8000, tt.program...)
			helper.Memory.SetBytes(0x0020, 0x00, 0x04)
			helper.Memory.ClearCounts()

			helper.Run(t, 1)

			if got := helper.Memory.GetWriteCount(tt.target); got != tt.writes {
				t.Errorf("Expected %d writes to 0x%04X, got %d", tt.writes, tt.target, got)
			}
			if n := len(helper.Memory.writeCount); n != tt.writes {
				t.Errorf("Expected %d written addresses, got %d", tt.writes, n)
			}
		})
	}
}
