//go:build headless
// +build headless

package graphics

import (
	"errors"

	"nescore/internal/bus"
)

// MonitorWindow stub for headless builds
type MonitorWindow struct{}

// NewMonitorWindow creates a stub window for headless builds
func NewMonitorWindow(b *bus.Bus, session Session, scale int) *MonitorWindow {
	return &MonitorWindow{}
}

// Run always fails in headless builds
func (w *MonitorWindow) Run(title string) error {
	return errors.New("monitor window not available in headless builds")
}

// LastError returns nil in headless builds
func (w *MonitorWindow) LastError() error {
	return nil
}
