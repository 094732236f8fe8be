package monitor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"nescore/internal/bus"
)

const disassemblyLines = 8

// Monitor drives a bus one key at a time and prints machine state after
// every command.
//
//	s, space  step one instruction
//	f         run to the next frame boundary
//	r         reset
//	n         raise NMI
//	i         raise IRQ
//	d         disassemble at PC
//	z         dump zero page
//	b         show mapper state
//	?         help
//	q         quit
type Monitor struct {
	bus     *bus.Bus
	out     io.Writer
	newline string
	lastErr error
}

// New creates a monitor that prints to out
func New(b *bus.Bus, out io.Writer) *Monitor {
	return &Monitor{bus: b, out: out, newline: "\n"}
}

// LastError returns the most recent execution error, if any
func (m *Monitor) LastError() error {
	return m.lastErr
}

func (m *Monitor) printf(format string, args ...interface{}) {
	fmt.Fprintf(m.out, format+m.newline, args...)
}

// Execute runs a single command key and reports whether the monitor should quit.
func (m *Monitor) Execute(key byte) bool {
	switch key {
	case 's', ' ':
		if _, err := m.bus.Step(); err != nil {
			m.fail(err)
		}
		m.status()
	case 'f':
		if err := m.bus.Frame(); err != nil {
			m.fail(err)
		}
		m.printf("frame %d, %d cycles", m.bus.GetFrameCount(), m.bus.GetCycleCount())
		m.status()
	case 'r':
		m.bus.Reset()
		m.printf("reset pending")
	case 'n':
		m.bus.RequestNMI()
		m.printf("NMI pending")
	case 'i':
		m.bus.RequestIRQ()
		m.printf("IRQ pending")
	case 'd':
		m.disassemble()
	case 'z':
		m.dumpPage(0x0000)
	case 'b':
		m.banks()
	case '?', 'h':
		m.help()
	case 'q', 0x03: // Ctrl-C arrives as a byte in raw mode
		return true
	case '\r', '\n':
	default:
		m.printf("unknown command %q, press ? for help", key)
	}
	return false
}

func (m *Monitor) fail(err error) {
	m.lastErr = err
	m.printf("%s", errorColor(err.Error()))
}

func (m *Monitor) status() {
	state := m.bus.GetCPUState()
	m.printf("%s CYC:%d", FormatRegisters(state.Registers), state.Cycles)
	m.printf("%s", FormatDisassembly(m.bus.Disassemble(state.PC, 1)[0], true))
}

func (m *Monitor) disassemble() {
	pc := m.bus.CPU().PC
	for _, d := range m.bus.Disassemble(pc, disassemblyLines) {
		m.printf("%s", FormatDisassembly(d, d.Address == pc))
	}
}

func (m *Monitor) dumpPage(base uint16) {
	for row := uint16(0); row < 0x100; row += 0x10 {
		var b strings.Builder
		for col := uint16(0); col < 0x10; col++ {
			fmt.Fprintf(&b, " %02X", m.bus.Peek(base+row+col))
		}
		m.printf("%s%s", addressColor(fmt.Sprintf("%04X", base+row)), b.String())
	}
}

func (m *Monitor) banks() {
	cart := m.bus.Cartridge()
	if cart == nil {
		m.printf("no cartridge")
		return
	}
	lower, upper := cart.Mapper().LoadedPages()
	m.printf("mapper %d: PRG pages %d/%d at $8000/$C000 of %d, mirroring %s",
		cart.MapperID(), lower, upper, cart.PRGPages(), cart.GetMirrorMode())
}

func (m *Monitor) help() {
	m.printf("s/space step  f frame  r reset  n NMI  i IRQ  d disassemble  z zero page  b banks  q quit")
}

// Run reads command keys from in until q, end of input, or ctx is done.
func (m *Monitor) Run(ctx context.Context, in io.Reader) error {
	m.status()
	buf := make([]byte, 1)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		n, err := in.Read(buf)
		if n > 0 && m.Execute(buf[0]) {
			return nil
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
	}
}

// RunTerminal runs the monitor on f. When f is a terminal it is switched
// to raw mode so single keys take effect without Enter.
func (m *Monitor) RunTerminal(ctx context.Context, f *os.File) error {
	if IsTerminal(f) {
		fd := int(f.Fd())
		oldState, err := term.MakeRaw(fd)
		if err != nil {
			return fmt.Errorf("failed to set raw mode: %w", err)
		}
		defer term.Restore(fd, oldState)
		m.newline = "\r\n"
		defer func() { m.newline = "\n" }()
	}
	return m.Run(ctx, f)
}
