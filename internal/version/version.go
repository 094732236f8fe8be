// Package version reports what a nescore binary was built from and what
// its core supports.
package version

import (
	"fmt"
	"io"
	"runtime"
	"runtime/debug"
	"strings"

	"nescore/internal/cartridge"
	"nescore/internal/cpu"
)

// Set at build time via -ldflags "-X nescore/internal/version.Version=..."
var (
	Version   = "dev"
	GitCommit = ""
)

// Info describes a build and the core it carries
type Info struct {
	Version   string
	Commit    string
	Modified  bool
	GoVersion string
	Platform  string
	Mappers   []uint8
	Opcodes   int
	Mnemonics int
}

// Get collects build information. Values from -ldflags win over the VCS
// stamps the go tool embeds.
func Get() Info {
	info := Info{
		Version:   Version,
		Commit:    GitCommit,
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
		Mappers:   cartridge.SupportedMappers(),
	}
	info.Opcodes, info.Mnemonics = cpu.Coverage()

	if bi, ok := debug.ReadBuildInfo(); ok {
		if info.Version == "dev" && bi.Main.Version != "" && bi.Main.Version != "(devel)" {
			info.Version = bi.Main.Version
		}
		for _, s := range bi.Settings {
			switch s.Key {
			case "vcs.revision":
				if info.Commit == "" {
					info.Commit = s.Value
				}
			case "vcs.modified":
				info.Modified = s.Value == "true"
			}
		}
	}
	return info
}

// ShortCommit is the first seven characters of the commit, if known
func (i Info) ShortCommit() string {
	if len(i.Commit) > 7 {
		return i.Commit[:7]
	}
	return i.Commit
}

func (i Info) mapperList() string {
	ids := make([]string, len(i.Mappers))
	for n, id := range i.Mappers {
		ids[n] = fmt.Sprint(id)
	}
	return strings.Join(ids, ", ")
}

// String is the one-line version, e.g.
// "v1.2.0 (0123456) mappers 1, 151 opcodes".
func (i Info) String() string {
	s := i.Version
	if c := i.ShortCommit(); c != "" {
		if i.Modified {
			c += "+dirty"
		}
		s += " (" + c + ")"
	}
	return fmt.Sprintf("%s mappers %s, %d opcodes", s, i.mapperList(), i.Opcodes)
}

// PrintBuildInfo writes the version banner for program to w
func PrintBuildInfo(w io.Writer, program string) {
	info := Get()

	fmt.Fprintf(w, "%s %s\n", program, info)
	fmt.Fprintf(w, "  CPU:     6502, %d opcodes / %d mnemonics\n", info.Opcodes, info.Mnemonics)
	fmt.Fprintf(w, "  Mappers: %s\n", info.mapperList())
	fmt.Fprintf(w, "  Go:      %s %s\n", info.GoVersion, info.Platform)
}
