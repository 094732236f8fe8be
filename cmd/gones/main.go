// Package main implements the gones command: it loads an MMC1 cartridge and
// runs, traces, disassembles or single-steps its program.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"nescore/internal/app"
	"nescore/internal/graphics"
	"nescore/internal/monitor"
	"nescore/internal/statsview"
	"nescore/internal/version"
)

func main() {
	var (
		romFile    = flag.String("rom", "", "Path to iNES ROM file")
		configFile = flag.String("config", "", "Path to configuration file")
		steps      = flag.Int("steps", -1, "Instructions to execute headless (0 = until error or interrupt)")
		trace      = flag.Bool("trace", false, "Log every executed instruction")
		logFile    = flag.String("log", "", "Write logs to this file instead of stderr")
		interact   = flag.Bool("monitor", false, "Single-step the program in the terminal monitor")
		window     = flag.Bool("window", false, "Open the monitor window")
		stats      = flag.Bool("statsview", false, "Serve runtime statistics over HTTP")
		memGraph   = flag.String("memviz", "", "Write a dot graph of the final session state to this file")
		disasm     = flag.Int("disasm", 0, "Disassemble this many instructions from the reset vector and exit")
		help       = flag.Bool("help", false, "Show help message")
		showVer    = flag.Bool("version", false, "Show version information")
	)
	flag.Parse()

	if *help {
		printUsage()
		os.Exit(0)
	}

	if *showVer {
		version.PrintBuildInfo(os.Stdout, "gones")
		os.Exit(0)
	}

	if *romFile == "" && flag.NArg() > 0 {
		*romFile = flag.Arg(0)
	}
	if *romFile == "" {
		printUsage()
		os.Exit(2)
	}

	ctx := setupGracefulShutdown()

	configPath := *configFile
	if configPath == "" {
		configPath = app.GetDefaultConfigPath()
	}

	config := app.NewConfig()
	if err := config.LoadFromFile(configPath); err != nil {
		log.Printf("Could not load config from %s, using defaults: %v", configPath, err)
		config = app.NewConfig()
	}

	// Command-line flags override the config file
	if *steps >= 0 {
		config.Emulation.StepLimit = *steps
	}
	if *trace {
		config.Debug.CPUTracing = true
	}
	if *logFile != "" {
		config.Debug.LogFile = *logFile
	}
	if *window {
		config.Monitor.Window = true
	}
	if *stats {
		config.Debug.StatsView = true
	}

	application, err := app.NewApplicationWithConfig(config)
	if err != nil {
		log.Fatalf("Failed to create application: %v", err)
	}
	defer func() {
		if err := application.Cleanup(); err != nil {
			log.Printf("Application cleanup error: %v", err)
		}
	}()

	if err := application.LoadROM(*romFile); err != nil {
		log.Fatalf("Failed to load ROM: %v", err)
	}

	if *disasm > 0 {
		printDisassembly(application, *disasm)
		return
	}

	if config.Debug.StatsView {
		defer statsview.Launch(config.Debug.StatsAddr, os.Stdout).Close()
	}

	switch {
	case config.Monitor.Window:
		err = runWindowMode(application)
	case *interact:
		err = monitor.New(application.GetBus(), os.Stdout).RunTerminal(ctx, os.Stdin)
	default:
		err = runHeadlessMode(ctx, application)
	}

	if *memGraph != "" {
		if werr := writeMemoryGraph(application, *memGraph); werr != nil {
			log.Printf("Failed to write memory graph: %v", werr)
		}
	}

	if err != nil && !errors.Is(err, context.Canceled) {
		log.Fatalf("Execution failed: %v", err)
	}
}

// runHeadlessMode runs the program without a monitor and prints session statistics
func runHeadlessMode(ctx context.Context, application *app.Application) error {
	err := application.Run(ctx)

	stats := application.GetEmulator().GetStats()
	state := application.GetEmulator().GetCPUState()
	fmt.Printf("Session Statistics:\n")
	fmt.Printf("   Instructions: %d\n", stats.Steps)
	fmt.Printf("   CPU cycles:   %d\n", stats.CycleCount)
	fmt.Printf("   Frames:       %d\n", stats.FrameCount)
	fmt.Printf("   Speed:        %.2fx real time\n", stats.EmulationSpeed)
	fmt.Printf("   Final state:  %s\n", monitor.FormatRegisters(state.Registers))

	return err
}

// runWindowMode opens the Ebitengine monitor window
func runWindowMode(application *app.Application) error {
	emulator := application.GetEmulator()
	emulator.Start()
	defer emulator.Stop()

	w := graphics.NewMonitorWindow(application.GetBus(), emulator, application.GetConfig().Monitor.Scale)
	return w.Run("gones - " + application.GetROMPath())
}

// printDisassembly lists count instructions starting at the reset vector
func printDisassembly(application *app.Application, count int) {
	b := application.GetBus()
	start := uint16(b.Peek(0xFFFD))<<8 | uint16(b.Peek(0xFFFC))

	fmt.Printf("reset vector: $%04X\n", start)
	for _, d := range b.Disassemble(start, count) {
		fmt.Println(monitor.FormatDisassembly(d, false))
	}
}

func writeMemoryGraph(application *app.Application, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	application.WriteMemoryGraph(f)
	return f.Close()
}

// setupGracefulShutdown cancels the returned context on interrupt
func setupGracefulShutdown() context.Context {
	ctx, cancel := context.WithCancel(context.Background())
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		fmt.Println("\nInterrupt received, shutting down gracefully...")
		cancel()
	}()
	return ctx
}

func printUsage() {
	fmt.Println("gones - 6502 execution engine for MMC1 cartridges")
	fmt.Println()
	fmt.Println("USAGE:")
	fmt.Println("  gones [options] -rom <file>")
	fmt.Println("  gones [options] <file>")
	fmt.Println()
	fmt.Println("OPTIONS:")
	flag.PrintDefaults()
	fmt.Println()
	fmt.Println("EXAMPLES:")
	fmt.Println("  gones -rom game.nes -steps 10000 -trace   # Trace the first 10000 instructions")
	fmt.Println("  gones -rom game.nes -disasm 32            # List code at the reset vector")
	fmt.Println("  gones -rom game.nes -monitor              # Step through the program")
	fmt.Println("  gones -rom game.nes -window               # Monitor window with pattern tables")
	fmt.Println()
	fmt.Println("MONITOR KEYS:")
	fmt.Println("  s/space step, f frame, r reset, n NMI, i IRQ, d disassemble,")
	fmt.Println("  z zero page, b banks, q quit")
	fmt.Println()
	fmt.Println("CONFIGURATION:")
	fmt.Println("  Config file: " + app.GetDefaultConfigPath())
	fmt.Println()
	fmt.Println("SUPPORTED FORMATS:")
	fmt.Println("  - iNES (.nes), mapper 1 (MMC1)")
}
