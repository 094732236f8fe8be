package app

import (
	"context"
	"fmt"
	"time"

	"nescore/internal/bus"
)

// Emulator manages the execution loop and timing of a session
type Emulator struct {
	bus    *bus.Bus
	config *Config

	cyclesPerFrame uint64

	// Performance monitoring
	steps         uint64
	emulationTime time.Duration

	// State tracking
	isRunning     bool
	lastResetTime time.Time
}

// EmulatorStats is a snapshot of execution counters
type EmulatorStats struct {
	Steps          uint64
	CycleCount     uint64
	FrameCount     uint64
	EmulationTime  time.Duration
	EmulationSpeed float64 // emulated time / wall time
	IsRunning      bool
}

// NewEmulator creates an emulator over b with frame timing and watchpoints from config
func NewEmulator(b *bus.Bus, config *Config) *Emulator {
	e := &Emulator{
		bus:            b,
		config:         config,
		cyclesPerFrame: config.CyclesPerFrame(),
		lastResetTime:  time.Now(),
	}

	b.SetCyclesPerFrame(e.cyclesPerFrame)
	for _, address := range config.Debug.Watchpoints {
		b.AddMemoryWatchpoint(address)
	}
	b.EnableWatchpointLogging(len(config.Debug.Watchpoints) > 0)

	return e
}

// Reset schedules a CPU reset and clears the session counters
func (e *Emulator) Reset() {
	e.bus.Reset()
	e.steps = 0
	e.emulationTime = 0
	e.lastResetTime = time.Now()
}

// Start starts the emulator
func (e *Emulator) Start() {
	e.isRunning = true
}

// Stop stops the emulator
func (e *Emulator) Stop() {
	e.isRunning = false
}

// IsRunning returns whether the emulator is running
func (e *Emulator) IsRunning() bool {
	return e.isRunning
}

// Update runs one frame if the emulator is running. An execution error
// stops the emulator.
func (e *Emulator) Update() error {
	if !e.isRunning {
		return nil
	}

	if err := e.StepFrame(); err != nil {
		e.Stop()
		return fmt.Errorf("frame execution error: %w", err)
	}
	return nil
}

// StepFrame executes instructions up to the next frame boundary
func (e *Emulator) StepFrame() error {
	if e.bus == nil {
		return fmt.Errorf("bus not initialized")
	}

	start := time.Now()
	defer func() { e.emulationTime += time.Since(start) }()

	target := e.bus.GetFrameCount() + 1
	for e.bus.GetFrameCount() < target {
		if _, err := e.StepInstruction(); err != nil {
			return err
		}
	}
	return nil
}

// StepInstruction executes one CPU instruction or interrupt entry
func (e *Emulator) StepInstruction() (int, error) {
	if e.bus == nil {
		return 0, fmt.Errorf("bus not initialized")
	}

	cycles, err := e.bus.Step()
	if err != nil {
		return 0, err
	}
	e.steps++
	return cycles, nil
}

// Run executes instructions until limit steps have run, an instruction
// fails, or ctx is done. A zero limit runs until failure or cancellation.
// It returns the number of steps executed.
func (e *Emulator) Run(ctx context.Context, limit int) (int, error) {
	e.Start()
	defer e.Stop()

	start := time.Now()
	defer func() { e.emulationTime += time.Since(start) }()

	n := 0
	for limit == 0 || n < limit {
		// Checking every step would dominate the loop
		if n&0x3FF == 0 {
			if err := ctx.Err(); err != nil {
				return n, err
			}
		}
		if _, err := e.StepInstruction(); err != nil {
			return n, err
		}
		n++
	}
	return n, nil
}

// GetCPUState returns the current CPU state for debugging
func (e *Emulator) GetCPUState() bus.CPUState {
	if e.bus == nil {
		return bus.CPUState{}
	}

	return e.bus.GetCPUState()
}

// GetCycleCount returns the total CPU cycles executed
func (e *Emulator) GetCycleCount() uint64 {
	return e.bus.GetCycleCount()
}

// GetFrameCount returns the number of completed frames
func (e *Emulator) GetFrameCount() uint64 {
	return e.bus.GetFrameCount()
}

// GetCyclesPerFrame returns the frame length in CPU cycles
func (e *Emulator) GetCyclesPerFrame() uint64 {
	return e.cyclesPerFrame
}

// GetUptime returns the time since the last reset
func (e *Emulator) GetUptime() time.Duration {
	return time.Since(e.lastResetTime)
}

// GetEmulationSpeed returns emulated time divided by the wall time spent
// executing, 1.0 being real time.
func (e *Emulator) GetEmulationSpeed() float64 {
	if e.emulationTime <= 0 || e.config.Emulation.ClockRate <= 0 {
		return 0
	}
	emulated := float64(e.bus.GetCycleCount()) / float64(e.config.Emulation.ClockRate)
	return emulated / e.emulationTime.Seconds()
}

// GetStats returns the execution counters
func (e *Emulator) GetStats() EmulatorStats {
	return EmulatorStats{
		Steps:          e.steps,
		CycleCount:     e.bus.GetCycleCount(),
		FrameCount:     e.bus.GetFrameCount(),
		EmulationTime:  e.emulationTime,
		EmulationSpeed: e.GetEmulationSpeed(),
		IsRunning:      e.isRunning,
	}
}
