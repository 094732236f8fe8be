package cpu

import (
	"strings"
	"testing"
)

func TestOpcodeTableOfficialSet(t *testing.T) {
	supported := 0
	names := make(map[string]bool)
	for i := 0; i < 256; i++ {
		inst := Lookup(uint8(i))
		if inst.Opcode != uint8(i) {
			t.Errorf("entry 0x%02X carries opcode 0x%02X", i, inst.Opcode)
		}
		if inst.Supported() {
			supported++
			names[inst.Name] = true
		}
	}
	if supported != 151 {
		t.Errorf("Expected 151 official opcodes, got %d", supported)
	}
	if len(names) != 56 {
		t.Errorf("Expected 56 mnemonics, got %d", len(names))
	}
}

func TestOpcodeTableSpotChecks(t *testing.T) {
	tests := []struct {
		opcode uint8
		name   string
		mode   AddressingMode
		cycles uint8
		bytes  uint16
	}{
		{0xA9, "LDA", Immediate, 2, 2},
		{0xB1, "LDA", IndirectIndexed, 5, 2},
		{0x6C, "JMP", Indirect, 5, 3},
		{0x0A, "ASL", Accumulator, 2, 1},
		{0x9D, "STA", AbsoluteX, 5, 3},
		{0xB6, "LDX", ZeroPageY, 4, 2},
		{0x00, "BRK", Implied, 7, 1},
	}
	for _, tt := range tests {
		inst := Lookup(tt.opcode)
		if inst.Name != tt.name || inst.Mode != tt.mode || inst.Cycles != tt.cycles || inst.Bytes() != tt.bytes {
			t.Errorf("0x%02X: got %s %s %d cycles %d bytes", tt.opcode, inst.Name, inst.Mode, inst.Cycles, inst.Bytes())
		}
	}
}

func TestBuildOpcodesRejectsMalformedTables(t *testing.T) {
	tests := []struct {
		name string
		defs []opcodeDef
		want string
	}{
		{
			"duplicate opcode",
			append(append([]opcodeDef{}, opcodeDefs...), opcodeDef{0xA9, "LDX", Absolute, 4, false}),
			"defined twice",
		},
		{
			"duplicate mnemonic and mode",
			append(append([]opcodeDef{}, opcodeDefs...), opcodeDef{0x02, "LDA", Immediate, 2, false}),
			"bound to both",
		},
		{
			"store through immediate",
			append(append([]opcodeDef{}, opcodeDefs...), opcodeDef{0x89, "STA", Immediate, 2, false}),
			"cannot store",
		},
		{
			"unknown mnemonic",
			append(append([]opcodeDef{}, opcodeDefs...), opcodeDef{0x02, "KIL", Implied, 2, false}),
			"unknown mnemonic",
		},
		{
			"missing mnemonic",
			opcodeDefs[1:len(opcodeDefs)-1],
			"has no opcode",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := buildOpcodes(tt.defs)
			if err == nil {
				t.Fatal("Expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Expected error containing %q, got %v", tt.want, err)
			}
		})
	}
}
