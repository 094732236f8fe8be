package memory

import (
	"testing"

	"nescore/internal/cartridge"
)

type RegisterWrite struct {
	Address uint16
	Value   uint8
}

// MockIO implements IODevice for testing
type MockIO struct {
	registers  map[uint16]uint8
	readCalls  []uint16
	writeCalls []RegisterWrite
}

func NewMockIO() *MockIO {
	return &MockIO{registers: make(map[uint16]uint8)}
}

func (m *MockIO) ReadRegister(address uint16) uint8 {
	m.readCalls = append(m.readCalls, address)
	return m.registers[address]
}

func (m *MockIO) WriteRegister(address uint16, value uint8) {
	m.writeCalls = append(m.writeCalls, RegisterWrite{Address: address, Value: value})
	m.registers[address] = value
}

// MockCartridge implements CartridgeInterface for testing
type MockCartridge struct {
	prgData   [0xA000]uint8 // 0x6000-0xFFFF
	prgReads  []uint16
	prgWrites []RegisterWrite
}

func (m *MockCartridge) ReadPRG(address uint16) uint8 {
	m.prgReads = append(m.prgReads, address)
	return m.prgData[address-0x6000]
}

func (m *MockCartridge) WritePRG(address uint16, value uint8) {
	m.prgWrites = append(m.prgWrites, RegisterWrite{Address: address, Value: value})
	m.prgData[address-0x6000] = value
}

func TestRAMMirroring(t *testing.T) {
	mem := New(nil)

	mirrors := []uint16{0x0000, 0x0800, 0x1000, 0x1800}
	for i, base := range mirrors {
		mem.Write(base+0x0123, uint8(i+1))
		for _, other := range mirrors {
			if got := mem.Read(other + 0x0123); got != uint8(i+1) {
				t.Errorf("write via 0x%04X: read via 0x%04X = 0x%02X, want 0x%02X",
					base+0x0123, other+0x0123, got, i+1)
			}
		}
	}
}

func TestIODeviceRouting(t *testing.T) {
	mem := New(nil)
	io := NewMockIO()
	mem.SetIODevice(io)

	mem.Write(0x2000, 0x80)
	mem.Write(0x3FF8, 0x11) // passed through unmirrored
	mem.Write(0x4016, 0x01)
	mem.Write(0x401F, 0x22)

	want := []RegisterWrite{{0x2000, 0x80}, {0x3FF8, 0x11}, {0x4016, 0x01}, {0x401F, 0x22}}
	if len(io.writeCalls) != len(want) {
		t.Fatalf("Expected %d register writes, got %d", len(want), len(io.writeCalls))
	}
	for i, w := range want {
		if io.writeCalls[i] != w {
			t.Errorf("write %d: expected %+v, got %+v", i, w, io.writeCalls[i])
		}
	}

	io.registers[0x2002] = 0x90
	if got := mem.Read(0x2002); got != 0x90 {
		t.Errorf("Expected 0x90 from I/O, got 0x%02X", got)
	}
}

func TestOpenBus(t *testing.T) {
	mem := New(nil)
	mem.Write(0x0010, 0x5A)
	mem.Read(0x0010)

	tests := []uint16{0x2002, 0x4015, 0x5000, 0x6000, 0x8000}
	for _, addr := range tests {
		if got := mem.Read(addr); got != 0x5A {
			t.Errorf("0x%04X: expected open bus 0x5A, got 0x%02X", addr, got)
		}
	}

	// Unmapped writes are dropped without effect
	mem.Write(0x4800, 0xFF)
	mem.Write(0x8000, 0xFF)
}

func TestCartridgeRouting(t *testing.T) {
	cart := &MockCartridge{}
	mem := New(cart)

	mem.Write(0x6000, 0x12)
	mem.Write(0x8000, 0x80)
	if got := mem.Read(0x6000); got != 0x12 {
		t.Errorf("Expected PRG RAM 0x12, got 0x%02X", got)
	}
	if len(cart.prgWrites) != 2 || cart.prgWrites[1].Address != 0x8000 {
		t.Errorf("Expected ROM-range write to reach the cartridge, got %+v", cart.prgWrites)
	}

	mem.Write(0x5FFF, 0x33)
	if len(cart.prgWrites) != 2 {
		t.Error("Expansion area write reached the cartridge")
	}
}

func TestPeekHasNoSideEffects(t *testing.T) {
	mem := New(nil)
	io := NewMockIO()
	mem.SetIODevice(io)
	mem.Write(0x0000, 0x77)
	mem.Read(0x0000)

	if got := mem.Peek(0x2002); got != 0x77 {
		t.Errorf("Expected open bus from peek, got 0x%02X", got)
	}
	if len(io.readCalls) != 0 {
		t.Errorf("Peek touched I/O registers: %v", io.readCalls)
	}

	mem.Write(0x0001, 0x01)
	mem.Peek(0x0001)
	if got := mem.Read(0x5000); got != 0x77 {
		t.Errorf("Peek changed the open bus latch to 0x%02X", got)
	}
}

func TestMMC1ThroughMemory(t *testing.T) {
	cart, err := cartridge.LoadFromBytes(cartridge.BuildMMC1ROM(4, 1))
	if err != nil {
		t.Fatal(err)
	}
	mem := New(cart)

	if got := mem.Read(0x8000); got != 0 {
		t.Fatalf("Expected page 0, got %d", got)
	}
	cartridge.WriteMMC1(mem.Write, 0xE000, 2)
	if got := mem.Read(0x8000); got != 2 {
		t.Errorf("Expected page 2 after bank switch through the bus, got %d", got)
	}
}
