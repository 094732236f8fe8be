// Package graphics provides the Ebitengine monitor window: machine state as
// text and the cartridge pattern tables as images.
package graphics

import (
	"fmt"
	"image"
	"image/color"
	"strings"

	"nescore/internal/bus"
)

const (
	// Pattern table: 16x16 tiles of 8x8 pixels
	patternSize  = 128
	tileBytes    = 16
	patternBytes = 0x1000

	disassemblyLines = 12
)

// Grey ramp for the four 2-bit pixel values
var patternPalette = [4]color.RGBA{
	{0x00, 0x00, 0x00, 0xFF},
	{0x55, 0x55, 0x55, 0xFF},
	{0xAA, 0xAA, 0xAA, 0xFF},
	{0xFF, 0xFF, 0xFF, 0xFF},
}

// PatternTable decodes one 4KB pattern table (0 or 1) into a 128x128
// image. read returns the byte at a pattern table address.
func PatternTable(read func(address uint16) uint8, table int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, patternSize, patternSize))
	base := uint16(table&1) * patternBytes

	for tile := 0; tile < 256; tile++ {
		tileX, tileY := (tile%16)*8, (tile/16)*8
		address := base + uint16(tile*tileBytes)

		for row := 0; row < 8; row++ {
			lo := read(address + uint16(row))
			hi := read(address + uint16(row) + 8)
			for col := 0; col < 8; col++ {
				bit := uint(7 - col)
				pixel := (lo>>bit)&1 | ((hi>>bit)&1)<<1
				img.SetRGBA(tileX+col, tileY+row, patternPalette[pixel])
			}
		}
	}
	return img
}

// StatusLines renders registers, counters, mapper state and the
// instructions at PC as plain text lines.
func StatusLines(b *bus.Bus) []string {
	state := b.GetCPUState()
	lines := []string{
		fmt.Sprintf("PC:%04X A:%02X X:%02X Y:%02X SP:%02X", state.PC, state.A, state.X, state.Y, state.SP),
		fmt.Sprintf("P:%02X %s", state.Status.Byte(), state.Status),
		fmt.Sprintf("CYC:%d FRAME:%d", state.Cycles, b.GetFrameCount()),
	}

	if cart := b.Cartridge(); cart != nil {
		lower, upper := cart.Mapper().LoadedPages()
		lines = append(lines, fmt.Sprintf("MAPPER:%d PRG:%d/%d %s", cart.MapperID(), lower, upper, cart.GetMirrorMode()))
	}
	lines = append(lines, "")

	for _, d := range b.Disassemble(state.PC, disassemblyLines) {
		marker := " "
		if d.Address == state.PC {
			marker = ">"
		}
		raw := make([]string, len(d.Bytes))
		for i, v := range d.Bytes {
			raw[i] = fmt.Sprintf("%02X", v)
		}
		lines = append(lines, fmt.Sprintf("%s%04X %-8s %s", marker, d.Address, strings.Join(raw, " "), d.Text))
	}
	return lines
}
