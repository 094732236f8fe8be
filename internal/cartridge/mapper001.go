package cartridge

// Mapper001 implements MMC1 (mapper 1)
// Registers are loaded serially: five writes to 0x8000-0xFFFF shift in one
// bit each (bit 0 of the value), and the fifth write commits the collected
// value to the register selected by the address of that write:
// - 0x8000-0x9FFF: control (mirroring, PRG mode, CHR mode)
// - 0xA000-0xBFFF: CHR bank 0
// - 0xC000-0xDFFF: CHR bank 1
// - 0xE000-0xFFFF: PRG bank
// A write with bit 7 set clears the shift register and selects PRG mode 3.
type Mapper001 struct {
	cart *Cartridge

	shift      uint8 // bit 4 marks the end of the shifted-in bits
	control    uint8
	chrBank0   uint8
	chrBank1   uint8
	prgBank    uint8
	mirror     MirrorMode
	prgPages   [2]int // selected 16KB pages at 0x8000 and 0xC000
	chrOffsets [2]int // byte offsets of the 4KB CHR windows
}

const (
	shiftReset      = 0x10
	controlPRGMode3 = 0x0C
	chrWindowSize   = 0x1000
)

// NewMapper001 creates an MMC1 in its power-on state: PRG mode 3 with the
// first page at 0x8000 and the last page fixed at 0xC000.
func NewMapper001(cart *Cartridge) *Mapper001 {
	m := &Mapper001{
		cart:    cart,
		shift:   shiftReset,
		control: controlPRGMode3,
		mirror:  cart.mirror,
	}
	m.updateBanks()
	return m
}

func (m *Mapper001) prgPageCount() int {
	return len(m.cart.prgROM) / prgPageSize
}

// ReadPRG reads from PRG ROM/RAM
// Memory map:
// 0x6000-0x7FFF: 8KB PRG RAM
// 0x8000-0xBFFF: switchable or fixed 16KB page
// 0xC000-0xFFFF: switchable or fixed 16KB page
func (m *Mapper001) ReadPRG(address uint16) uint8 {
	switch {
	case address >= 0x8000:
		return m.cart.prgROM[m.Translate(address)]
	case address >= 0x6000:
		return m.cart.sram[address-0x6000]
	}
	return 0
}

// WritePRG writes PRG RAM or feeds the shift register
func (m *Mapper001) WritePRG(address uint16, value uint8) {
	switch {
	case address >= 0x8000:
		m.loadRegister(address, value)
	case address >= 0x6000:
		m.cart.sram[address-0x6000] = value
	}
}

func (m *Mapper001) loadRegister(address uint16, value uint8) {
	// Reset only forces PRG mode 3; mirroring is left alone.
	if value&0x80 != 0 {
		m.shift = shiftReset
		m.control |= controlPRGMode3
		m.updateBanks()
		return
	}

	complete := m.shift&0x01 != 0
	m.shift = (m.shift >> 1) | (value&0x01)<<4
	if !complete {
		return
	}

	reg := m.shift
	m.shift = shiftReset
	switch {
	case address <= 0x9FFF:
		m.writeControl(reg)
	case address <= 0xBFFF:
		m.chrBank0 = reg
		m.updateBanks()
	case address <= 0xDFFF:
		m.chrBank1 = reg
		m.updateBanks()
	default:
		m.prgBank = reg & 0x0F
		m.updateBanks()
	}
}

func (m *Mapper001) writeControl(value uint8) {
	m.control = value
	switch value & 0x03 {
	case 0:
		m.mirror = MirrorSingleScreen0
	case 1:
		m.mirror = MirrorSingleScreen1
	case 2:
		m.mirror = MirrorVertical
	case 3:
		m.mirror = MirrorHorizontal
	}
	m.updateBanks()
}

// updateBanks recomputes the selected pages from the registers.
// PRG ROM bank mode (0, 1: switch 32KB at 0x8000, ignoring the low bit;
// 2: fix first page at 0x8000, switch 0xC000; 3: switch 0x8000, fix last
// page at 0xC000). CHR bank mode (0: one 8KB bank; 1: two 4KB banks).
func (m *Mapper001) updateBanks() {
	count := m.prgPageCount()
	bank := int(m.prgBank)

	switch (m.control >> 2) & 0x03 {
	case 0, 1:
		m.prgPages[0] = (bank &^ 1) % count
		m.prgPages[1] = (bank | 1) % count
	case 2:
		m.prgPages[0] = 0
		m.prgPages[1] = bank % count
	case 3:
		m.prgPages[0] = bank % count
		m.prgPages[1] = count - 1
	}

	chrCount := len(m.cart.chrROM) / chrWindowSize
	if m.control&0x10 == 0 {
		m.chrOffsets[0] = (int(m.chrBank0&^1) % chrCount) * chrWindowSize
		m.chrOffsets[1] = (int(m.chrBank0|1) % chrCount) * chrWindowSize
	} else {
		m.chrOffsets[0] = (int(m.chrBank0) % chrCount) * chrWindowSize
		m.chrOffsets[1] = (int(m.chrBank1) % chrCount) * chrWindowSize
	}
}

// Translate maps a CPU address in the ROM windows to an image offset.
func (m *Mapper001) Translate(address uint16) int {
	if address < 0x8000 {
		return -1
	}
	page := m.prgPages[(address-0x8000)/prgPageSize]
	return page*prgPageSize + int(address%prgPageSize)
}

// LoadedPages returns the pages mapped at 0x8000 and 0xC000
func (m *Mapper001) LoadedPages() (lower, upper int) {
	return m.prgPages[0], m.prgPages[1]
}

// Mirroring returns the mirroring selected by the control register, or
// the header's until the control register is first written.
func (m *Mapper001) Mirroring() MirrorMode {
	return m.mirror
}

// ReadCHR reads from CHR ROM/RAM
func (m *Mapper001) ReadCHR(address uint16) uint8 {
	if address >= 0x2000 {
		return 0
	}
	window := address / chrWindowSize
	return m.cart.chrROM[m.chrOffsets[window]+int(address%chrWindowSize)]
}

// WriteCHR writes to CHR RAM; CHR ROM ignores writes
func (m *Mapper001) WriteCHR(address uint16, value uint8) {
	if address >= 0x2000 || !m.cart.hasCHRRAM {
		return
	}
	window := address / chrWindowSize
	m.cart.chrROM[m.chrOffsets[window]+int(address%chrWindowSize)] = value
}
