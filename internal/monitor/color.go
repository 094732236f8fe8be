// Package monitor renders machine state for a terminal and provides an
// interactive single-step monitor on top of a bus.
package monitor

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"golang.org/x/term"

	"nescore/internal/cpu"
)

var (
	addressColor = color.New(color.FgCyan).SprintFunc()
	bytesColor   = color.New(color.FgHiBlack).SprintFunc()
	textColor    = color.New(color.FgYellow).SprintFunc()
	currentColor = color.New(color.FgHiWhite, color.Bold).SprintFunc()
	setColor     = color.New(color.FgGreen, color.Bold).SprintFunc()
	clearColor   = color.New(color.FgHiBlack).SprintFunc()
	errorColor   = color.New(color.FgRed).SprintFunc()
)

// Colour per log tag; unknown tags stay uncoloured.
var tagColors = map[string]func(a ...interface{}) string{
	"[CPU_TRACE]":    color.New(color.FgCyan).SprintFunc(),
	"[BUS]":          color.New(color.FgYellow).SprintFunc(),
	"[CART]":         color.New(color.FgMagenta).SprintFunc(),
	"[FRAME_SYNC]":   color.New(color.FgBlue).SprintFunc(),
	"[MEMORY_WATCH]": color.New(color.FgRed).SprintFunc(),
}

// SetColor turns colour output on or off for the whole process.
func SetColor(enabled bool) {
	color.NoColor = !enabled
}

// IsTerminal reports whether f is attached to a terminal
func IsTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// FormatFlags renders the status flags as NV-BDIZC. Set flags are upper
// case, clear flags lower case.
func FormatFlags(s cpu.Status) string {
	flags := []struct {
		set    bool
		letter string
	}{
		{s.N, "N"}, {s.V, "V"}, {false, "-"}, {s.B, "B"},
		{s.D, "D"}, {s.I, "I"}, {s.Z, "Z"}, {s.C, "C"},
	}

	var b strings.Builder
	for _, f := range flags {
		switch {
		case f.letter == "-":
			b.WriteString(clearColor("-"))
		case f.set:
			b.WriteString(setColor(f.letter))
		default:
			b.WriteString(clearColor(strings.ToLower(f.letter)))
		}
	}
	return b.String()
}

// FormatRegisters renders the register file on one line
func FormatRegisters(r cpu.Registers) string {
	return fmt.Sprintf("PC:%s A:%02X X:%02X Y:%02X SP:%02X P:%02X %s",
		addressColor(fmt.Sprintf("%04X", r.PC)), r.A, r.X, r.Y, r.SP, r.Status.Byte(), FormatFlags(r.Status))
}

// FormatDisassembly renders one decoded instruction. current marks the
// instruction at PC.
func FormatDisassembly(d cpu.Disassembly, current bool) string {
	raw := make([]string, len(d.Bytes))
	for i, b := range d.Bytes {
		raw[i] = fmt.Sprintf("%02X", b)
	}

	marker, text := " ", textColor(d.Text)
	if current {
		marker, text = ">", currentColor(d.Text)
	}
	if !d.Supported {
		text = errorColor(d.Text)
	}
	return fmt.Sprintf("%s %s  %s  %s", marker,
		addressColor(fmt.Sprintf("%04X", d.Address)),
		bytesColor(fmt.Sprintf("%-8s", strings.Join(raw, " "))), text)
}

// TraceWriter colours the leading tag of each log line it receives and
// passes the line on to an underlying writer.
type TraceWriter struct {
	out io.Writer
}

// NewTraceWriter wraps out
func NewTraceWriter(out io.Writer) *TraceWriter {
	return &TraceWriter{out: out}
}

func (w *TraceWriter) Write(p []byte) (int, error) {
	line := string(p)
	if strings.HasPrefix(line, "[") {
		if end := strings.IndexByte(line, ']'); end > 0 {
			if paint, ok := tagColors[line[:end+1]]; ok {
				line = paint(line[:end+1]) + line[end+1:]
			}
		}
	}
	if _, err := io.WriteString(w.out, line); err != nil {
		return 0, err
	}
	return len(p), nil
}
