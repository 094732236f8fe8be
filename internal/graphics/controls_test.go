package graphics

import (
	"errors"
	"testing"

	"nescore/internal/app"
	"nescore/internal/bus"
	"nescore/internal/cpu"
)

// newController wires a controller to an emulator with 100-cycle frames
func newController(t *testing.T, program []byte) (*controller, *app.Emulator) {
	t.Helper()
	b, err := bus.ProgramROM{Program: program}.Load()
	if err != nil {
		t.Fatal(err)
	}
	config := app.NewConfig()
	config.Emulation.ClockRate = 6000
	config.Emulation.FrameRate = 60
	e := app.NewEmulator(b, config)
	return &controller{bus: b, session: e}, e
}

var spin = []byte{0x4C, 0x00, 0xC0} // JMP $C000

func TestControllerTickOnlyWhileRunning(t *testing.T) {
	c, e := newController(t, spin)

	c.tick()
	if e.GetFrameCount() != 0 || e.GetCycleCount() != 0 {
		t.Fatalf("Expected a paused session to stay idle, got %d frames", e.GetFrameCount())
	}

	c.apply(controlToggle)
	if !e.IsRunning() {
		t.Fatal("Expected toggle to start the session")
	}
	c.tick()
	c.tick()
	if e.GetFrameCount() != 2 {
		t.Errorf("Expected 2 frames, got %d", e.GetFrameCount())
	}

	c.apply(controlToggle)
	c.tick()
	if e.IsRunning() || e.GetFrameCount() != 2 {
		t.Errorf("Expected toggle to pause at 2 frames, got running=%v frames=%d", e.IsRunning(), e.GetFrameCount())
	}
}

func TestControllerStepAndFrame(t *testing.T) {
	c, e := newController(t, spin)

	c.apply(controlStep) // reset entry
	c.apply(controlStep)
	if e.GetStats().Steps != 2 {
		t.Errorf("Expected 2 steps, got %d", e.GetStats().Steps)
	}

	c.apply(controlFrame)
	if e.GetFrameCount() != 1 {
		t.Errorf("Expected 1 frame, got %d", e.GetFrameCount())
	}
	if e.IsRunning() {
		t.Error("Expected manual stepping to leave the session paused")
	}
}

func TestControllerStopsOnError(t *testing.T) {
	c, e := newController(t, []byte{0xEA, 0x02})

	c.apply(controlToggle)
	c.tick()
	if !errors.Is(c.lastErr, cpu.ErrUnsupportedOpcode) {
		t.Fatalf("Expected ErrUnsupportedOpcode, got %v", c.lastErr)
	}
	if e.IsRunning() {
		t.Error("Expected the error to stop the session")
	}

	c.apply(controlReset)
	if c.lastErr != nil {
		t.Errorf("Expected reset to clear the error, got %v", c.lastErr)
	}
	c.apply(controlStep)
	if pc := e.GetCPUState().PC; pc != bus.ProgramOrigin {
		t.Errorf("Expected reset to return to 0x%04X, got 0x%04X", bus.ProgramOrigin, pc)
	}
}

func TestControllerInterrupts(t *testing.T) {
	c, e := newController(t, []byte{0x58, 0x4C, 0x01, 0xC0}) // CLI; JMP $C001

	c.apply(controlStep)
	c.apply(controlStep)

	c.apply(controlIRQ)
	c.apply(controlStep)
	if pc := e.GetCPUState().PC; pc != bus.IRQHandler {
		t.Errorf("Expected IRQ entry at 0x%04X, got 0x%04X", bus.IRQHandler, pc)
	}

	c.apply(controlNMI)
	c.apply(controlStep)
	if pc := e.GetCPUState().PC; pc != bus.NMIHandler {
		t.Errorf("Expected NMI entry at 0x%04X, got 0x%04X", bus.NMIHandler, pc)
	}
}
