// Command nesrom inspects iNES files: it prints their header facts, or
// finds the files under a directory that use a given mapper.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"nescore/internal/cartridge"
	"nescore/internal/version"
)

// findROMs walks root for .nes files whose header names the given mapper
func findROMs(root string, mapper uint8) ([]string, error) {
	var out []string

	err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		if !info.IsDir() && strings.ToLower(filepath.Ext(path)) == ".nes" {
			header, err := cartridge.ReadInfoFromFile(path)
			if err == nil && header.MapperID == mapper {
				out = append(out, path)
			}
		}

		return nil
	})

	return out, err
}

// mapperArg validates a -find value; iNES mapper ids fit in a byte
func mapperArg(n int) (uint8, error) {
	if n < 0 || n > 0xFF {
		return 0, fmt.Errorf("mapper %d out of range 0-255", n)
	}
	return uint8(n), nil
}

func describe(w io.Writer, path string) error {
	info, err := cartridge.ReadInfoFromFile(path)
	if err != nil {
		return err
	}

	chr := fmt.Sprintf("%d x 8KB", info.CHRPages)
	if info.CHRRAM {
		chr = "8KB RAM"
	}
	fmt.Fprintf(w, "%s\n", path)
	fmt.Fprintf(w, "  mapper:    %d\n", info.MapperID)
	fmt.Fprintf(w, "  PRG ROM:   %d x 16KB\n", info.PRGPages)
	fmt.Fprintf(w, "  CHR:       %s\n", chr)
	fmt.Fprintf(w, "  mirroring: %s\n", info.Mirroring)
	fmt.Fprintf(w, "  battery:   %t\n", info.Battery)
	fmt.Fprintf(w, "  trainer:   %t\n", info.Trainer)
	return nil
}

func main() {
	findMapper := flag.Int("find", -1, "Find all ROMs with a specific mapper")
	dir := flag.String("dir", ".", "Directory searched by -find")
	showVer := flag.Bool("version", false, "Show version information")

	flag.Parse()

	if *showVer {
		version.PrintBuildInfo(os.Stdout, "nesrom")
		return
	}

	if *findMapper != -1 {
		mapper, err := mapperArg(*findMapper)
		if err != nil {
			fmt.Fprintf(os.Stderr, "nesrom: %v\n", err)
			os.Exit(2)
		}
		roms, err := findROMs(*dir, mapper)
		if err != nil {
			fmt.Fprintf(os.Stderr, "nesrom: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Found %d ROMs for mapper %d\n", len(roms), *findMapper)
		for _, rom := range roms {
			fmt.Println(rom)
		}
		return
	}

	status := 0
	for _, path := range flag.Args() {
		if err := describe(os.Stdout, path); err != nil {
			fmt.Fprintf(os.Stderr, "nesrom: %s: %v\n", path, err)
			status = 1
		}
	}
	os.Exit(status)
}
