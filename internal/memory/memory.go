// Package memory implements the CPU address space of the console.
package memory

// Memory represents the CPU memory map
//
//	0x0000-0x1FFF  2KB internal RAM, mirrored every 0x800
//	0x2000-0x401F  I/O registers (PPU, APU, controllers), delegated to an IODevice
//	0x4020-0x5FFF  expansion area, unmapped
//	0x6000-0xFFFF  cartridge: PRG RAM, then PRG ROM through the mapper
type Memory struct {
	// Internal RAM (2KB, mirrored to 8KB)
	ram [0x800]uint8

	// Registers of the video/audio/input chips
	io IODevice

	// Cartridge
	cartridge CartridgeInterface

	// Open bus - last value read from bus (for unmapped areas)
	openBusValue uint8
}

// IODevice is the register file of the chips mapped at 0x2000-0x401F.
// Addresses are passed through unmirrored.
type IODevice interface {
	ReadRegister(address uint16) uint8
	WriteRegister(address uint16, value uint8)
}

// CartridgeInterface defines the interface for cartridge access
type CartridgeInterface interface {
	ReadPRG(address uint16) uint8
	WritePRG(address uint16, value uint8)
}

// New creates a new Memory instance. cart may be nil until a cartridge is inserted.
func New(cart CartridgeInterface) *Memory {
	return &Memory{cartridge: cart}
}

// SetCartridge inserts a cartridge
func (m *Memory) SetCartridge(cart CartridgeInterface) {
	m.cartridge = cart
}

// SetIODevice attaches the I/O register file. Without one, reads of the
// register range return open bus and writes are dropped.
func (m *Memory) SetIODevice(io IODevice) {
	m.io = io
}

// Read reads a byte from the given address
func (m *Memory) Read(address uint16) uint8 {
	value := m.read(address, true)

	// Update open bus value with the value that was read
	m.openBusValue = value
	return value
}

// Peek reads without touching I/O registers or the open bus latch, for
// disassemblers and monitors.
func (m *Memory) Peek(address uint16) uint8 {
	return m.read(address, false)
}

func (m *Memory) read(address uint16, touchIO bool) uint8 {
	switch {
	case address < 0x2000:
		// Internal RAM (mirrored)
		return m.ram[address&0x07FF]

	case address < 0x4020:
		if touchIO && m.io != nil {
			return m.io.ReadRegister(address)
		}
		return m.openBusValue

	case address < 0x6000:
		// Cartridge expansion area ($4020-$5FFF) - unmapped, return open bus
		return m.openBusValue

	default:
		// PRG RAM ($6000-$7FFF) and PRG ROM ($8000-$FFFF)
		if m.cartridge != nil {
			return m.cartridge.ReadPRG(address)
		}
		return m.openBusValue
	}
}

// Write writes a byte to the given address
func (m *Memory) Write(address uint16, value uint8) {
	switch {
	case address < 0x2000:
		// Internal RAM (mirrored)
		m.ram[address&0x07FF] = value

	case address < 0x4020:
		if m.io != nil {
			m.io.WriteRegister(address, value)
		}

	case address < 0x6000:
		// Cartridge expansion area ($4020-$5FFF) - unmapped, ignore writes

	default:
		// PRG RAM, or mapper registers in the ROM range
		if m.cartridge != nil {
			m.cartridge.WritePRG(address, value)
		}
	}
}

// RAM returns a copy of internal RAM
func (m *Memory) RAM() [0x800]uint8 {
	return m.ram
}
