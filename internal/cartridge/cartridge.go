// Package cartridge implements iNES image loading and the bank-switching
// mapper that exposes program ROM to the CPU.
package cartridge

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"log"
	"os"
)

const (
	headerSize   = 16
	trainerSize  = 512
	prgPageSize  = 0x4000 // 16KB
	chrPageSize  = 0x2000 // 8KB
	prgRAMSize   = 0x2000 // 8KB
	chrRAMSize   = 0x2000 // 8KB
	inesMagic    = "NES\x1A"
	flags6Mirror = 0x01
	flags6Batt   = 0x02
	flags6Train  = 0x04
	flags6Four   = 0x08
	flags7NES2   = 0x04
)

var logger = log.New(io.Discard, "[CART] ", 0)

// SetLogger directs load diagnostics to l. A nil logger silences them.
func SetLogger(l *log.Logger) {
	if l == nil {
		l = log.New(io.Discard, "", 0)
	}
	logger = l
}

// Cartridge represents a loaded iNES image
type Cartridge struct {
	header iNESHeader

	// ROM data
	prgROM  []uint8
	chrROM  []uint8
	trainer []uint8

	// Mapper information
	mapperID uint8
	mapper   Mapper

	// Mirroring mode from the header
	mirror MirrorMode

	// Battery-backed RAM
	hasBattery bool
	sram       [prgRAMSize]uint8

	// CHR memory type
	hasCHRRAM bool
}

// iNES header structure
type iNESHeader struct {
	Magic      [4]uint8
	PRGROMSize uint8 // in 16KB units
	CHRROMSize uint8 // in 8KB units
	Flags6     uint8
	Flags7     uint8
	PRGRAMSize uint8
	Flags9     uint8
	Flags10    uint8
	Padding    [5]uint8
}

// mapperID derives the mapper number. The high nibble from flags7 is only
// trusted when reserved bytes 11-14 are zero; older dumpers wrote junk there.
// Byte 15 is not consulted.
func (h *iNESHeader) mapperID() uint8 {
	id := h.Flags6 >> 4
	if [4]uint8(h.Padding[:4]) == [4]uint8{} {
		id |= (h.Flags7 >> 4) << 4
	}
	return id
}

// LoadFromFile loads a cartridge from an iNES file
func LoadFromFile(filename string) (*Cartridge, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	logger.Printf("reading cartridge %q", filename)
	return LoadFromReader(file)
}

// LoadFromBytes loads a cartridge from an in-memory image
func LoadFromBytes(data []byte) (*Cartridge, error) {
	return LoadFromReader(bytes.NewReader(data))
}

// readHeader reads and validates the 16-byte header
func readHeader(r io.Reader) (iNESHeader, error) {
	var header iNESHeader
	if err := binary.Read(r, binary.LittleEndian, &header); err != nil {
		return header, fmt.Errorf("%w: %w", ErrInvalidHeader, err)
	}

	if string(header.Magic[:]) != inesMagic {
		return header, fmt.Errorf("%w: bad magic % X", ErrInvalidHeader, header.Magic)
	}
	if header.Flags7&flags7NES2 != 0 {
		return header, fmt.Errorf("%w: extended (NES 2.0) header", ErrUnsupportedFormat)
	}
	if header.PRGROMSize == 0 {
		return header, fmt.Errorf("%w: no PRG-ROM pages", ErrInvalidHeader)
	}
	return header, nil
}

// mirroring is the nametable arrangement wired on the board
func (h *iNESHeader) mirroring() MirrorMode {
	switch {
	case h.Flags6&flags6Four != 0:
		return MirrorFourScreen
	case h.Flags6&flags6Mirror != 0:
		return MirrorVertical
	}
	return MirrorHorizontal
}

func (h *iNESHeader) info() Info {
	return Info{
		PRGPages:   int(h.PRGROMSize),
		CHRPages:   int(h.CHRROMSize),
		MapperID:   h.mapperID(),
		Mirroring:  h.mirroring(),
		Battery:    h.Flags6&flags6Batt != 0,
		Trainer:    h.Flags6&flags6Train != 0,
		CHRRAM:     h.CHRROMSize == 0,
		PRGRAMSize: h.PRGRAMSize,
		Flags6:     h.Flags6,
		Flags7:     h.Flags7,
		Flags9:     h.Flags9,
		Flags10:    h.Flags10,
	}
}

// ReadInfo reads only the header from r. Unlike LoadFromReader it accepts
// any mapper number.
func ReadInfo(r io.Reader) (Info, error) {
	header, err := readHeader(r)
	if err != nil {
		return Info{}, err
	}
	return header.info(), nil
}

// ReadInfoFromFile reads only the header of an iNES file
func ReadInfoFromFile(filename string) (Info, error) {
	file, err := os.Open(filename)
	if err != nil {
		return Info{}, err
	}
	defer file.Close()

	return ReadInfo(file)
}

// LoadFromReader loads a cartridge from an io.Reader. Nothing past the
// header is read when the header is rejected.
func LoadFromReader(r io.Reader) (*Cartridge, error) {
	header, err := readHeader(r)
	if err != nil {
		return nil, err
	}

	logger.Printf("program ROM pages: %d", header.PRGROMSize)
	logger.Printf("character ROM pages: %d", header.CHRROMSize)

	cart := &Cartridge{
		header:     header,
		mapperID:   header.mapperID(),
		mirror:     header.mirroring(),
		hasBattery: header.Flags6&flags6Batt != 0,
	}

	// Refuse the mapper before pulling the image into memory
	if !mapperSupported(cart.mapperID) {
		return nil, &UnsupportedMapperError{ID: cart.mapperID}
	}

	if header.Flags6&flags6Train != 0 {
		cart.trainer = make([]uint8, trainerSize)
		if _, err := io.ReadFull(r, cart.trainer); err != nil {
			return nil, fmt.Errorf("%w: trainer: %w", ErrTruncatedImage, err)
		}
	}

	cart.prgROM = make([]uint8, int(header.PRGROMSize)*prgPageSize)
	if _, err := io.ReadFull(r, cart.prgROM); err != nil {
		return nil, fmt.Errorf("%w: PRG-ROM: %w", ErrTruncatedImage, err)
	}

	if header.CHRROMSize > 0 {
		cart.chrROM = make([]uint8, int(header.CHRROMSize)*chrPageSize)
		if _, err := io.ReadFull(r, cart.chrROM); err != nil {
			return nil, fmt.Errorf("%w: CHR-ROM: %w", ErrTruncatedImage, err)
		}
	} else {
		cart.chrROM = make([]uint8, chrRAMSize)
		cart.hasCHRRAM = true
	}

	mapper, err := createMapper(cart.mapperID, cart)
	if err != nil {
		return nil, err
	}
	cart.mapper = mapper
	logger.Printf("uses mapper %d (%T)", cart.mapperID, mapper)

	return cart, nil
}

// ReadPRG reads from PRG ROM/RAM
func (c *Cartridge) ReadPRG(address uint16) uint8 {
	return c.mapper.ReadPRG(address)
}

// WritePRG writes to PRG RAM or the mapper registers
func (c *Cartridge) WritePRG(address uint16, value uint8) {
	c.mapper.WritePRG(address, value)
}

// ReadCHR reads from CHR ROM/RAM
func (c *Cartridge) ReadCHR(address uint16) uint8 {
	return c.mapper.ReadCHR(address)
}

// WriteCHR writes to CHR RAM
func (c *Cartridge) WriteCHR(address uint16, value uint8) {
	c.mapper.WriteCHR(address, value)
}

// GetMirrorMode returns the nametable mirroring currently in effect
func (c *Cartridge) GetMirrorMode() MirrorMode {
	return c.mapper.Mirroring()
}

// Mapper returns the cartridge's mapper
func (c *Cartridge) Mapper() Mapper {
	return c.mapper
}

// MapperID returns the mapper number derived from the header
func (c *Cartridge) MapperID() uint8 {
	return c.mapperID
}

// PRGPages returns the number of 16KB program ROM pages
func (c *Cartridge) PRGPages() int {
	return int(c.header.PRGROMSize)
}

// CHRPages returns the number of 8KB character ROM pages
func (c *Cartridge) CHRPages() int {
	return int(c.header.CHRROMSize)
}

// Header returns the raw 16 header bytes
func (c *Cartridge) Header() [headerSize]byte {
	var raw [headerSize]byte
	copy(raw[:4], c.header.Magic[:])
	raw[4] = c.header.PRGROMSize
	raw[5] = c.header.CHRROMSize
	raw[6] = c.header.Flags6
	raw[7] = c.header.Flags7
	raw[8] = c.header.PRGRAMSize
	raw[9] = c.header.Flags9
	raw[10] = c.header.Flags10
	copy(raw[11:], c.header.Padding[:])
	return raw
}

// Trainer returns the 512-byte trainer, or nil when the image has none
func (c *Cartridge) Trainer() []uint8 {
	return c.trainer
}

// HasBattery reports whether PRG RAM is battery backed
func (c *Cartridge) HasBattery() bool {
	return c.hasBattery
}

// PRGWindow returns the 32KB of program ROM the CPU currently sees at
// 0x8000-0xFFFF: the lower selected page followed by the upper one.
func (c *Cartridge) PRGWindow() []uint8 {
	lower, upper := c.mapper.LoadedPages()
	window := make([]uint8, 0, 2*prgPageSize)
	window = append(window, c.prgPage(lower)...)
	window = append(window, c.prgPage(upper)...)
	return window
}

func (c *Cartridge) prgPage(page int) []uint8 {
	start := page * prgPageSize
	return c.prgROM[start : start+prgPageSize]
}

// ReadPRGBytes returns up to count raw program ROM bytes starting at offset
// into the image. The result is clamped to the image and never aliases it.
func (c *Cartridge) ReadPRGBytes(offset, count int) []uint8 {
	if offset < 0 || count <= 0 || offset >= len(c.prgROM) {
		return nil
	}
	end := offset + count
	if end > len(c.prgROM) {
		end = len(c.prgROM)
	}
	out := make([]uint8, end-offset)
	copy(out, c.prgROM[offset:end])
	return out
}

// Info summarizes the header for tooling.
type Info struct {
	PRGPages   int
	CHRPages   int
	MapperID   uint8
	Mirroring  MirrorMode
	Battery    bool
	Trainer    bool
	CHRRAM     bool
	PRGRAMSize uint8
	Flags6     uint8
	Flags7     uint8
	Flags9     uint8
	Flags10    uint8
}

// Info returns the header summary
func (c *Cartridge) Info() Info {
	return c.header.info()
}
