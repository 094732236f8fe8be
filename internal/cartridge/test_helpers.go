package cartridge

// ROMSpec describes an iNES image for tests in this and dependent packages.
type ROMSpec struct {
	PRGPages uint8
	CHRPages uint8
	Mapper   uint8
	Flags6   uint8 // low nibble only; the mapper nibble is filled in
	Flags7   uint8 // low nibble only
	Trainer  bool
	Padding  [5]uint8
}

// BuildROM assembles an iNES image. Every PRG page is filled with its own
// page number so bank switching is observable, except that the last four
// bytes of the last page hold the reset and IRQ vectors (both 0x8000).
// Each CHR byte holds its 4KB window number in the high nibble and the
// low nibble of its offset.
func BuildROM(spec ROMSpec) []byte {
	header := make([]byte, headerSize)
	copy(header[0:4], inesMagic)
	header[4] = spec.PRGPages
	header[5] = spec.CHRPages
	header[6] = spec.Mapper<<4 | spec.Flags6&0x0F
	header[7] = spec.Mapper&0xF0 | spec.Flags7&0x0F
	if spec.Trainer {
		header[6] |= flags6Train
	}
	copy(header[11:], spec.Padding[:])

	rom := header
	if spec.Trainer {
		trainer := make([]byte, trainerSize)
		for i := range trainer {
			trainer[i] = 0xEE
		}
		rom = append(rom, trainer...)
	}

	prg := make([]byte, int(spec.PRGPages)*prgPageSize)
	for i := range prg {
		prg[i] = uint8(i / prgPageSize)
	}
	if n := len(prg); n > 0 {
		copy(prg[n-4:], []byte{0x00, 0x80, 0x00, 0x80})
	}
	rom = append(rom, prg...)

	chr := make([]byte, int(spec.CHRPages)*chrPageSize)
	for i := range chr {
		chr[i] = uint8(i/chrWindowSize)<<4 | uint8(i&0x0F)
	}
	return append(rom, chr...)
}

// BuildMMC1ROM is BuildROM for an MMC1 image with the given page counts.
func BuildMMC1ROM(prgPages, chrPages uint8) []byte {
	return BuildROM(ROMSpec{PRGPages: prgPages, CHRPages: chrPages, Mapper: 1})
}

// WriteMMC1 performs, through write, the five serial writes that load value
// into the MMC1 register selected by address.
func WriteMMC1(write func(address uint16, value uint8), address uint16, value uint8) {
	for i := 0; i < 5; i++ {
		write(address, value>>i&0x01)
	}
}
