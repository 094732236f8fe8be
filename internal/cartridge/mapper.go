package cartridge

import "fmt"

// MirrorMode represents nametable mirroring mode
type MirrorMode uint8

const (
	MirrorHorizontal MirrorMode = iota
	MirrorVertical
	MirrorSingleScreen0
	MirrorSingleScreen1
	MirrorFourScreen
)

func (m MirrorMode) String() string {
	switch m {
	case MirrorHorizontal:
		return "horizontal"
	case MirrorVertical:
		return "vertical"
	case MirrorSingleScreen0:
		return "single-screen 0"
	case MirrorSingleScreen1:
		return "single-screen 1"
	case MirrorFourScreen:
		return "four-screen"
	}
	return fmt.Sprintf("mirror(%d)", uint8(m))
}

// Mapper interface for cartridge mappers. PRG addresses are CPU addresses
// (0x6000-0xFFFF); CHR addresses are PPU pattern table addresses (0x0000-0x1FFF).
type Mapper interface {
	ReadPRG(address uint16) uint8
	WritePRG(address uint16, value uint8)
	ReadCHR(address uint16) uint8
	WriteCHR(address uint16, value uint8)

	// Translate maps a CPU address in 0x8000-0xFFFF to an offset into the
	// program ROM image, or -1 for addresses outside the ROM windows.
	Translate(address uint16) int

	// LoadedPages returns the 16KB program pages mapped at 0x8000 and 0xC000.
	LoadedPages() (lower, upper int)

	Mirroring() MirrorMode
}

// supportedMappers lists the mapper ids createMapper can build
var supportedMappers = []uint8{1}

// SupportedMappers returns the mapper ids this package can load
func SupportedMappers() []uint8 {
	return append([]uint8(nil), supportedMappers...)
}

func mapperSupported(id uint8) bool {
	for _, m := range supportedMappers {
		if m == id {
			return true
		}
	}
	return false
}

// createMapper creates the appropriate mapper for the given ID
func createMapper(id uint8, cart *Cartridge) (Mapper, error) {
	switch id {
	case 1:
		return NewMapper001(cart), nil
	default:
		return nil, &UnsupportedMapperError{ID: id}
	}
}
