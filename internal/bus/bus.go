// Package bus ties the CPU, the memory map and the cartridge together and
// drives execution for a host.
package bus

import (
	"errors"
	"io"
	"log"

	"nescore/internal/cartridge"
	"nescore/internal/cpu"
	"nescore/internal/memory"
)

// NTSC: 29,781 CPU cycles per frame (89,342 PPU cycles / 3)
const DefaultCyclesPerFrame = 29781

// ErrNoCartridge is returned when stepping before a cartridge is loaded.
var ErrNoCartridge = errors.New("no cartridge loaded")

// Bus connects the system components together
type Bus struct {
	Memory *memory.Memory

	cpu  *cpu.CPU
	cart *cartridge.Cartridge

	// System state
	cpuCycles   uint64
	frameCycles uint64
	frameCount  uint64

	cyclesPerFrame uint64

	// Execution logging for testing
	executionLog   []BusExecutionEvent
	loggingEnabled bool

	// Memory monitoring for debugging
	memoryWatchpoints map[uint16]uint8 // Address -> previous value
	watchpointLogging bool

	logger *log.Logger
}

// New creates a bus with empty memory and a CPU that will reset on its
// first step. Load a cartridge before stepping.
func New() *Bus {
	b := &Bus{
		Memory:            memory.New(nil),
		cyclesPerFrame:    DefaultCyclesPerFrame,
		memoryWatchpoints: make(map[uint16]uint8),
		logger:            log.New(io.Discard, "", 0),
	}
	b.cpu = cpu.New(b.Memory)
	return b
}

// SetLogger directs bus diagnostics to l
func (b *Bus) SetLogger(l *log.Logger) {
	if l == nil {
		l = log.New(io.Discard, "", 0)
	}
	b.logger = l
}

// SetIODevice attaches the register file mapped at 0x2000-0x401F
func (b *Bus) SetIODevice(dev memory.IODevice) {
	b.Memory.SetIODevice(dev)
}

// SetCyclesPerFrame overrides the frame length used by Frame and Run
func (b *Bus) SetCyclesPerFrame(cycles uint64) {
	if cycles > 0 {
		b.cyclesPerFrame = cycles
	}
}

// LoadCartridge inserts a cartridge and schedules a reset so the CPU picks
// up the new reset vector on the next step.
func (b *Bus) LoadCartridge(cart *cartridge.Cartridge) {
	b.cart = cart
	b.Memory.SetCartridge(cart)
	b.cpu.Reset()
	b.logger.Printf("[BUS] cartridge inserted: mapper %d, %d PRG pages", cart.MapperID(), cart.PRGPages())
}

// CPU returns the processor
func (b *Bus) CPU() *cpu.CPU {
	return b.cpu
}

// Cartridge returns the inserted cartridge, or nil
func (b *Bus) Cartridge() *cartridge.Cartridge {
	return b.cart
}

// Reset requests a CPU reset at the next step
func (b *Bus) Reset() {
	b.cpu.Reset()
}

// RequestNMI latches a non-maskable interrupt for the next step
func (b *Bus) RequestNMI() {
	b.cpu.RequestNMI()
}

// RequestIRQ latches a maskable interrupt for the next step
func (b *Bus) RequestIRQ() {
	b.cpu.RequestIRQ()
}

// Step executes one CPU instruction or interrupt entry and returns its cycles
func (b *Bus) Step() (int, error) {
	if b.cart == nil {
		return 0, ErrNoCartridge
	}

	prePC := b.cpu.PC
	preOpcode := b.Memory.Peek(prePC)

	cycles, err := b.cpu.Step()
	if err != nil {
		return 0, err
	}

	b.cpuCycles += uint64(cycles)
	b.frameCycles += uint64(cycles)

	frameDone := false
	if b.frameCycles >= b.cyclesPerFrame {
		b.frameCycles -= b.cyclesPerFrame
		b.frameCount++
		frameDone = true
		b.handleFrameComplete()
	}

	if b.loggingEnabled {
		b.executionLog = append(b.executionLog, BusExecutionEvent{
			StepNumber:    len(b.executionLog) + 1,
			Cycles:        cycles,
			CPUCycles:     b.cpuCycles,
			FrameCount:    b.frameCount,
			FrameDone:     frameDone,
			PCValue:       prePC,
			InstructionOp: preOpcode,
		})
	}

	return cycles, nil
}

// handleFrameComplete runs once per emulated frame
func (b *Bus) handleFrameComplete() {
	if b.watchpointLogging {
		b.CheckMemoryWatchpoints()
	}
	if b.frameCount%60 == 0 { // Once per second at 60fps
		b.logger.Printf("[FRAME_SYNC] Frame %d: %d CPU cycles", b.frameCount, b.cpuCycles)
	}
}

// RunCycles runs for at least the given number of CPU cycles
func (b *Bus) RunCycles(cycles uint64) error {
	targetCycles := b.cpuCycles + cycles

	for b.cpuCycles < targetCycles {
		if _, err := b.Step(); err != nil {
			return err
		}
	}
	return nil
}

// Frame runs until the next frame boundary
func (b *Bus) Frame() error {
	target := b.frameCount + 1
	for b.frameCount < target {
		if _, err := b.Step(); err != nil {
			return err
		}
	}
	return nil
}

// Run runs the emulator for a specified number of frames
func (b *Bus) Run(frames int) error {
	for i := 0; i < frames; i++ {
		if err := b.Frame(); err != nil {
			return err
		}
	}
	return nil
}

// ReadBus reads a CPU-visible byte, with the side effects a CPU read has
func (b *Bus) ReadBus(address uint16) uint8 {
	return b.Memory.Read(address)
}

// WriteBus writes a CPU-visible byte, including mapper register writes
func (b *Bus) WriteBus(address uint16, value uint8) {
	b.Memory.Write(address, value)
}

// ReadPRG returns count CPU-visible bytes starting at address, as the
// current bank selection maps them, without side effects. The read stops
// at the top of the address space.
func (b *Bus) ReadPRG(address uint16, count int) []uint8 {
	if count <= 0 {
		return nil
	}
	if room := 0x10000 - int(address); count > room {
		count = room
	}
	out := make([]uint8, count)
	for i := range out {
		out[i] = b.Memory.Peek(address + uint16(i))
	}
	return out
}

// Peek reads a byte without side effects
func (b *Bus) Peek(address uint16) uint8 {
	return b.Memory.Peek(address)
}

type peekReader struct{ m *memory.Memory }

func (p peekReader) Read(address uint16) uint8 { return p.m.Peek(address) }

// Disassemble decodes count instructions starting at address without side effects
func (b *Bus) Disassemble(address uint16, count int) []cpu.Disassembly {
	return cpu.DisassembleRange(peekReader{b.Memory}, address, count)
}

// GetCycleCount returns the current CPU cycle count
func (b *Bus) GetCycleCount() uint64 {
	return b.cpuCycles
}

// GetFrameCount returns the current frame count
func (b *Bus) GetFrameCount() uint64 {
	return b.frameCount
}

// GetExecutionLog returns execution log for integration testing
func (b *Bus) GetExecutionLog() []BusExecutionEvent {
	return b.executionLog
}

// EnableExecutionLogging enables execution logging for testing
func (b *Bus) EnableExecutionLogging() {
	b.loggingEnabled = true
}

// DisableExecutionLogging disables execution logging
func (b *Bus) DisableExecutionLogging() {
	b.loggingEnabled = false
}

// ClearExecutionLog clears the execution log
func (b *Bus) ClearExecutionLog() {
	b.executionLog = make([]BusExecutionEvent, 0)
}

// BusExecutionEvent represents a single execution step
type BusExecutionEvent struct {
	StepNumber    int
	Cycles        int
	CPUCycles     uint64
	FrameCount    uint64
	FrameDone     bool
	PCValue       uint16
	InstructionOp uint8
}

// CPUState is a snapshot of the processor
type CPUState struct {
	cpu.Registers
	Cycles uint64
}

// GetCPUState returns the current CPU state
func (b *Bus) GetCPUState() CPUState {
	return CPUState{
		Registers: b.cpu.Registers,
		Cycles:    b.cpuCycles,
	}
}

// AddMemoryWatchpoint adds a memory address to monitor for changes
func (b *Bus) AddMemoryWatchpoint(address uint16) {
	b.memoryWatchpoints[address] = b.Memory.Peek(address)
}

// EnableWatchpointLogging enables/disables memory watchpoint logging
func (b *Bus) EnableWatchpointLogging(enabled bool) {
	b.watchpointLogging = enabled
}

// CheckMemoryWatchpoints logs every watched address whose value changed
// and returns how many did.
func (b *Bus) CheckMemoryWatchpoints() int {
	changed := 0
	for address, previousValue := range b.memoryWatchpoints {
		currentValue := b.Memory.Peek(address)
		if currentValue != previousValue {
			b.logger.Printf("[MEMORY_WATCH] Frame %d: $%04X changed from $%02X to $%02X (%s)",
				b.frameCount, address, previousValue, currentValue, describeAddress(address))
			b.memoryWatchpoints[address] = currentValue
			changed++
		}
	}
	return changed
}

// describeAddress names the region an address falls in
func describeAddress(address uint16) string {
	switch {
	case address < 0x0100:
		return "zero page"
	case address < 0x0200:
		return "stack"
	case address < 0x2000:
		return "RAM"
	case address < 0x4020:
		return "I/O"
	case address < 0x6000:
		return "expansion"
	case address < 0x8000:
		return "PRG RAM"
	}
	return "PRG ROM"
}
