package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/bradleyjkemp/memviz"

	"nescore/internal/bus"
	"nescore/internal/cartridge"
	"nescore/internal/monitor"
)

// Application is an emulation session: configuration, logging, the bus
// and the emulator driving it.
type Application struct {
	// Core emulation components
	bus      *bus.Bus
	emulator *Emulator

	config *Config

	// Logging
	logger    *log.Logger
	logOutput io.Writer
	logFile   *os.File

	// ROM management
	romPath   string
	cartridge *cartridge.Cartridge

	initialized bool
	startTime   time.Time
}

// ApplicationError represents application-specific errors
type ApplicationError struct {
	Component string
	Operation string
	Err       error
}

func (e *ApplicationError) Error() string {
	return fmt.Sprintf("Application %s error during %s: %v", e.Component, e.Operation, e.Err)
}

func (e *ApplicationError) Unwrap() error {
	return e.Err
}

// NewApplication creates a session configured from configPath. A config
// that cannot be loaded is reported and replaced by the defaults.
func NewApplication(configPath string) (*Application, error) {
	config := NewConfig()
	if configPath != "" {
		if err := config.LoadFromFile(configPath); err != nil {
			fmt.Fprintf(os.Stderr, "[APP_WARNING] Could not load config from %s, using defaults: %v\n", configPath, err)
			config = NewConfig()
		}
	}
	return NewApplicationWithConfig(config)
}

// NewApplicationWithConfig creates a session from an already prepared config
func NewApplicationWithConfig(config *Config) (*Application, error) {
	app := &Application{
		config:    config,
		startTime: time.Now(),
	}

	if err := app.initializeComponents(); err != nil {
		return nil, &ApplicationError{
			Component: "initialization",
			Operation: "component setup",
			Err:       err,
		}
	}

	app.initialized = true
	return app, nil
}

// initializeComponents initializes all application components
func (app *Application) initializeComponents() error {
	if err := app.setupLogging(); err != nil {
		return fmt.Errorf("failed to set up logging: %w", err)
	}

	app.bus = bus.New()
	app.bus.SetLogger(app.logger)
	cartridge.SetLogger(log.New(app.logOutput, "[CART] ", log.Lmicroseconds))

	app.emulator = NewEmulator(app.bus, app.config)
	app.ApplyDebugSettings()
	return nil
}

// setupLogging opens the configured log file, or logs to stderr
func (app *Application) setupLogging() error {
	app.logOutput = os.Stderr
	if path := app.config.LogPath(); path != "" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return err
		}
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return err
		}
		app.logFile = f
		app.logOutput = f
	}
	app.logger = log.New(app.logOutput, "", log.Lmicroseconds)
	return nil
}

// ApplyDebugSettings applies the debug section of the config to the
// running session.
func (app *Application) ApplyDebugSettings() {
	debug := app.config.Debug

	colored := debug.TraceColor && app.logFile == nil && monitor.IsTerminal(os.Stderr)
	monitor.SetColor(colored)

	if !debug.CPUTracing {
		app.bus.CPU().SetTraceLogger(nil)
		return
	}

	out := app.logOutput
	if colored {
		out = monitor.NewTraceWriter(out)
	}
	app.bus.CPU().SetTraceLogger(log.New(out, "[CPU_TRACE] ", 0))
}

// LoadROM loads a ROM file into the session and schedules a reset
func (app *Application) LoadROM(romPath string) error {
	if !app.initialized {
		return errors.New("application not initialized")
	}

	cart, err := cartridge.LoadFromFile(romPath)
	if err != nil {
		return &ApplicationError{
			Component: "cartridge",
			Operation: "load ROM",
			Err:       err,
		}
	}

	app.cartridge = cart
	app.romPath = romPath
	app.bus.LoadCartridge(cart)
	app.emulator.Reset()

	return nil
}

// Run executes the loaded ROM headless until the configured step limit is
// reached, an instruction fails, or ctx is cancelled. Cancellation is not
// an error.
func (app *Application) Run(ctx context.Context) error {
	if !app.initialized {
		return errors.New("application not initialized")
	}

	steps, err := app.emulator.Run(ctx, app.config.Emulation.StepLimit)
	app.logger.Printf("[APP] executed %d instructions, %d cycles, %d frames",
		steps, app.emulator.GetCycleCount(), app.emulator.GetFrameCount())

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return nil
	}
	if err != nil {
		return &ApplicationError{
			Component: "emulator",
			Operation: "run",
			Err:       err,
		}
	}
	return nil
}

// Reset schedules a CPU reset
func (app *Application) Reset() {
	app.emulator.Reset()
}

// GetBus returns the system bus
func (app *Application) GetBus() *bus.Bus {
	return app.bus
}

// GetEmulator returns the emulator driving the bus
func (app *Application) GetEmulator() *Emulator {
	return app.emulator
}

// GetConfig returns the session configuration
func (app *Application) GetConfig() *Config {
	return app.config
}

// GetLogger returns the session logger
func (app *Application) GetLogger() *log.Logger {
	return app.logger
}

// GetROMPath returns the path of the loaded ROM
func (app *Application) GetROMPath() string {
	return app.romPath
}

// GetUptime returns the time since the session was created
func (app *Application) GetUptime() time.Duration {
	return time.Since(app.startTime)
}

// Snapshot is the session state rendered by WriteMemoryGraph
type Snapshot struct {
	ROM       string
	CPU       bus.CPUState
	Cartridge *cartridge.Info
	Stats     EmulatorStats
	Config    *Config
}

// Snapshot captures the current session state
func (app *Application) Snapshot() *Snapshot {
	snap := &Snapshot{
		ROM:    app.romPath,
		CPU:    app.emulator.GetCPUState(),
		Stats:  app.emulator.GetStats(),
		Config: app.config,
	}
	if app.cartridge != nil {
		info := app.cartridge.Info()
		snap.Cartridge = &info
	}
	return snap
}

// WriteMemoryGraph writes a Graphviz dot graph of the session snapshot to w
func (app *Application) WriteMemoryGraph(w io.Writer) {
	memviz.Map(w, app.Snapshot())
}

// Cleanup releases the log file
func (app *Application) Cleanup() error {
	if app.logFile == nil {
		return nil
	}
	err := app.logFile.Close()
	app.logFile = nil
	return err
}
