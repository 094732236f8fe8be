package bus

import "nescore/internal/cartridge"

// Fixed CPU addresses used by ProgramROM images. With MMC1 at power-on the
// last PRG page sits at 0xC000, so all of them live in that page.
const (
	ProgramOrigin = 0xC000
	NMIHandler    = 0xD000
	IRQHandler    = 0xE000
)

// ProgramROM describes a test cartridge that runs a small program.
type ProgramROM struct {
	PRGPages uint8 // at least 1
	Program  []byte
	NMI      []byte // defaults to RTI
	IRQ      []byte // defaults to RTI
}

// Build assembles an MMC1 image with Program at ProgramOrigin, the handlers
// at NMIHandler and IRQHandler, and the vectors pointing at them.
func (p ProgramROM) Build() []byte {
	pages := p.PRGPages
	if pages == 0 {
		pages = 2
	}
	rom := cartridge.BuildMMC1ROM(pages, 1)

	last := 16 + (int(pages)-1)*0x4000
	place := func(address uint16, code []byte) {
		copy(rom[last+int(address-0xC000):], code)
	}

	nmi, irq := p.NMI, p.IRQ
	if nmi == nil {
		nmi = []byte{0x40}
	}
	if irq == nil {
		irq = []byte{0x40}
	}

	place(ProgramOrigin, p.Program)
	place(NMIHandler, nmi)
	place(IRQHandler, irq)
	place(0xFFFA, []byte{
		uint8(NMIHandler & 0xFF), uint8(NMIHandler >> 8),
		uint8(ProgramOrigin & 0xFF), uint8(ProgramOrigin >> 8),
		uint8(IRQHandler & 0xFF), uint8(IRQHandler >> 8),
	})
	return rom
}

// Load builds the image and inserts it into a new bus.
func (p ProgramROM) Load() (*Bus, error) {
	cart, err := cartridge.LoadFromBytes(p.Build())
	if err != nil {
		return nil, err
	}
	b := New()
	b.LoadCartridge(cart)
	return b, nil
}
