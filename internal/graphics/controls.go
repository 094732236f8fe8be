package graphics

import (
	"log"

	"nescore/internal/bus"
)

// Session drives the machine shown in the monitor window. app.Emulator
// implements it.
type Session interface {
	Start()
	Stop()
	IsRunning() bool
	Reset()
	Update() error
	StepFrame() error
	StepInstruction() (int, error)
}

type control int

const (
	controlStep control = iota
	controlFrame
	controlToggle
	controlReset
	controlNMI
	controlIRQ
)

// controller applies window commands to a session
type controller struct {
	bus     *bus.Bus
	session Session
	lastErr error
}

func (c *controller) apply(cmd control) {
	switch cmd {
	case controlToggle:
		if c.session.IsRunning() {
			c.session.Stop()
		} else {
			c.lastErr = nil
			c.session.Start()
		}
	case controlStep:
		_, err := c.session.StepInstruction()
		c.record(err)
	case controlFrame:
		c.record(c.session.StepFrame())
	case controlReset:
		c.session.Reset()
		c.lastErr = nil
	case controlNMI:
		c.bus.RequestNMI()
	case controlIRQ:
		c.bus.RequestIRQ()
	}
}

// tick advances a running session by one frame
func (c *controller) tick() {
	c.record(c.session.Update())
}

func (c *controller) record(err error) {
	if err == nil {
		return
	}
	c.lastErr = err
	c.session.Stop()
	log.Printf("[Ebitengine] execution stopped: %v", err)
}
