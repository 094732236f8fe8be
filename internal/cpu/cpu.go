// Package cpu implements the 6502 processor core: register file, addressing
// modes, the official instruction set and interrupt entry.
package cpu

import (
	"fmt"
	"log"
	"strings"
)

const (
	// Stack base address
	stackBase = 0x0100

	// Interrupt vectors
	nmiVector   = 0xFFFA
	resetVector = 0xFFFC
	irqVector   = 0xFFFE

	// Power-up stack pointer
	resetSP = 0xFD

	// Cost of an interrupt or reset entry sequence
	interruptCycles = 7
)

// Reader is the read half of the bus.
type Reader interface {
	Read(address uint16) uint8
}

// MemoryInterface defines the interface for CPU memory access
type MemoryInterface interface {
	Reader
	Write(address uint16, value uint8)
}

// CPU represents the 6502 processor
type CPU struct {
	Registers

	memory MemoryInterface

	// Cycle counter
	cycles uint64

	// Latched signals, serviced at the next Step boundary
	resetPending bool
	nmiPending   bool
	irqPending   bool

	trace *log.Logger
}

// New creates a CPU attached to memory. The CPU starts with a reset pending,
// so the first Step loads PC from the reset vector.
func New(memory MemoryInterface) *CPU {
	return &CPU{
		Registers:    Registers{SP: resetSP, Status: Status{I: true}},
		memory:       memory,
		resetPending: true,
	}
}

// SetTraceLogger enables per-instruction trace lines. A nil logger disables tracing.
func (cpu *CPU) SetTraceLogger(logger *log.Logger) {
	cpu.trace = logger
}

// Cycles returns the number of cycles executed since construction.
func (cpu *CPU) Cycles() uint64 {
	return cpu.cycles
}

// Reset requests a processor reset at the next Step.
func (cpu *CPU) Reset() {
	cpu.resetPending = true
}

// RequestNMI latches a non-maskable interrupt.
func (cpu *CPU) RequestNMI() {
	cpu.nmiPending = true
}

// RequestIRQ latches a maskable interrupt. It stays pending while I is set.
func (cpu *CPU) RequestIRQ() {
	cpu.irqPending = true
}

// Step executes one instruction, or one interrupt entry if a signal is
// pending, and returns the cycles it consumed. An opcode outside the official
// set fails with *UnsupportedOpcodeError and leaves the CPU untouched.
func (cpu *CPU) Step() (int, error) {
	if cycles, ok := cpu.serviceInterrupt(); ok {
		cpu.cycles += uint64(cycles)
		return cycles, nil
	}

	pc := cpu.PC
	code := cpu.memory.Read(pc)
	inst := &opcodes[code]
	if !inst.Supported() {
		return 0, &UnsupportedOpcodeError{Opcode: code, PC: pc}
	}

	if cpu.trace != nil {
		cpu.traceInstruction(pc)
	}

	param := cpu.fetchParam(pc+1, inst.Mode.Width())
	cpu.PC = pc + inst.Bytes()

	src := cpu.bind(inst.Mode, param)
	wb, extra := inst.exec(cpu, &src)
	if wb.Valid {
		if err := src.Write(wb.Value); err != nil {
			return 0, fmt.Errorf("%s at $%04X: %w", inst.Name, pc, err)
		}
	}

	cycles := int(inst.Cycles) + extra
	if inst.PageCycle && src.PageCrossed() {
		cycles++
	}
	cpu.cycles += uint64(cycles)
	return cycles, nil
}

func (cpu *CPU) fetchParam(address uint16, width uint16) uint16 {
	switch width {
	case 1:
		return uint16(cpu.memory.Read(address))
	case 2:
		return cpu.readWord(address)
	}
	return 0
}

// serviceInterrupt runs the highest priority pending entry sequence:
// RESET, then NMI, then IRQ when not masked.
func (cpu *CPU) serviceInterrupt() (int, bool) {
	switch {
	case cpu.resetPending:
		cpu.reset()
	case cpu.nmiPending:
		cpu.nmiPending = false
		cpu.interrupt(nmiVector)
	case cpu.irqPending && !cpu.I:
		cpu.irqPending = false
		cpu.interrupt(irqVector)
	default:
		return 0, false
	}
	return interruptCycles, true
}

func (cpu *CPU) reset() {
	cpu.Registers = Registers{SP: resetSP, Status: Status{I: true}}
	cpu.PC = cpu.readWord(resetVector)
	cpu.resetPending = false
	cpu.nmiPending = false
	cpu.irqPending = false
	if cpu.trace != nil {
		cpu.trace.Printf("RESET -> $%04X", cpu.PC)
	}
}

// interrupt pushes PC and status (break clear) and jumps through vector.
func (cpu *CPU) interrupt(vector uint16) {
	cpu.pushWord(cpu.PC)
	cpu.push(cpu.Status.Byte() &^ bFlagMask)
	cpu.I = true
	cpu.PC = cpu.readWord(vector)
	if cpu.trace != nil {
		name := "IRQ"
		if vector == nmiVector {
			name = "NMI"
		}
		cpu.trace.Printf("%s -> $%04X", name, cpu.PC)
	}
}

// Stack operations
func (cpu *CPU) push(value uint8) {
	cpu.memory.Write(stackBase+uint16(cpu.SP), value)
	cpu.SP--
}

func (cpu *CPU) pop() uint8 {
	cpu.SP++
	return cpu.memory.Read(stackBase + uint16(cpu.SP))
}

// pushWord pushes the high byte first.
func (cpu *CPU) pushWord(value uint16) {
	cpu.push(uint8(value >> 8))
	cpu.push(uint8(value))
}

// popWord pops the low byte first.
func (cpu *CPU) popWord() uint16 {
	low := uint16(cpu.pop())
	high := uint16(cpu.pop())
	return high<<8 | low
}

func (cpu *CPU) readWord(address uint16) uint16 {
	low := uint16(cpu.memory.Read(address))
	high := uint16(cpu.memory.Read(address + 1))
	return high<<8 | low
}

// traceInstruction logs the instruction at pc with the registers as they
// are before it executes.
func (cpu *CPU) traceInstruction(pc uint16) {
	d := Disassemble(cpu.memory, pc)
	raw := make([]string, len(d.Bytes))
	for i, b := range d.Bytes {
		raw[i] = fmt.Sprintf("%02X", b)
	}
	cpu.trace.Printf("%04X  %-8s  %-14s A:%02X X:%02X Y:%02X P:%02X SP:%02X [%s] CYC:%d",
		pc, strings.Join(raw, " "), d.Text,
		cpu.A, cpu.X, cpu.Y, cpu.Status.Byte(), cpu.SP, cpu.Status, cpu.cycles)
}
