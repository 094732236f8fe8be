// Package app provides configuration management and the emulation session
// used by the command-line tools.
package app

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"nescore/internal/statsview"
)

// Config holds all application configuration
type Config struct {
	Emulation EmulationConfig `json:"emulation"`
	Debug     DebugConfig     `json:"debug"`
	Monitor   MonitorConfig   `json:"monitor"`
	Paths     PathsConfig     `json:"paths"`

	// Internal state
	configPath string
	loaded     bool
}

// EmulationConfig contains emulation-specific settings
type EmulationConfig struct {
	Region    string  `json:"region"`     // "NTSC", "PAL", "Dendy"
	ClockRate int     `json:"clock_rate"` // CPU clock in Hz, 0 = region default
	FrameRate float64 `json:"frame_rate"` // Frames per second, 0 = region default
	StepLimit int     `json:"step_limit"` // Instructions per headless run, 0 = unlimited
}

// DebugConfig contains debugging and development options
type DebugConfig struct {
	CPUTracing  bool     `json:"cpu_tracing"`
	TraceColor  bool     `json:"trace_color"`
	LogFile     string   `json:"log_file"` // Relative to Paths.Logs, empty = stderr
	StatsView   bool     `json:"stats_view"`
	StatsAddr   string   `json:"stats_addr"`
	Watchpoints []uint16 `json:"watchpoints"`
}

// MonitorConfig contains interactive monitor options
type MonitorConfig struct {
	Window bool `json:"window"` // Ebitengine window instead of the terminal
	Scale  int  `json:"scale"`
}

// PathsConfig contains file and directory paths
type PathsConfig struct {
	ROMs string `json:"roms"`
	Logs string `json:"logs"`
}

// region timing: CPU clock and frame rate
var regions = map[string]struct {
	clockRate int
	frameRate float64
}{
	"NTSC":  {1789773, 60.0988},
	"PAL":   {1662607, 50.0070},
	"DENDY": {1773448, 50.0070},
}

// NewConfig creates a new configuration with default values
func NewConfig() *Config {
	config := &Config{
		Emulation: EmulationConfig{
			Region:    "NTSC",
			ClockRate: 1789773,
			FrameRate: 60.0988,
			StepLimit: 0,
		},
		Debug: DebugConfig{
			CPUTracing: false,
			TraceColor: true,
			LogFile:    "",
			StatsView:  false,
			StatsAddr:  statsview.DefaultAddress,
		},
		Monitor: MonitorConfig{
			Window: false,
			Scale:  2,
		},
		Paths: PathsConfig{
			ROMs: "./roms",
			Logs: "./logs",
		},
		loaded: false,
	}

	return config
}

// LoadFromFile loads configuration from a JSON file
func (c *Config) LoadFromFile(path string) error {
	c.configPath = path

	// Check if file exists
	if _, err := os.Stat(path); os.IsNotExist(err) {
		// File doesn't exist - save default config and return
		return c.SaveToFile(path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := json.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := c.validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	c.loaded = true
	return nil
}

// SaveToFile saves configuration to a JSON file
func (c *Config) SaveToFile(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	c.configPath = path
	return nil
}

// Save saves the configuration to the current config file
func (c *Config) Save() error {
	if c.configPath == "" {
		return fmt.Errorf("no config file path set")
	}

	return c.SaveToFile(c.configPath)
}

// validate checks the configuration, filling region defaults for zero
// timing values and clamping out-of-range ones.
func (c *Config) validate() error {
	region := strings.ToUpper(c.Emulation.Region)
	timing, ok := regions[region]
	if !ok {
		return &ConfigError{Field: "emulation.region", Value: c.Emulation.Region, Err: errUnknownRegion}
	}
	c.Emulation.Region = region

	if c.Emulation.ClockRate <= 0 {
		c.Emulation.ClockRate = timing.clockRate
	}

	if c.Emulation.FrameRate <= 0 {
		c.Emulation.FrameRate = timing.frameRate
	}

	if c.Emulation.StepLimit < 0 {
		return &ConfigError{Field: "emulation.step_limit", Value: c.Emulation.StepLimit, Err: errNegative}
	}

	if c.Monitor.Scale <= 0 {
		c.Monitor.Scale = 1
	}

	if c.Debug.StatsAddr == "" {
		c.Debug.StatsAddr = statsview.DefaultAddress
	}

	return nil
}

// CyclesPerFrame returns the CPU cycles in one frame at the configured timing
func (c *Config) CyclesPerFrame() uint64 {
	if c.Emulation.ClockRate <= 0 || c.Emulation.FrameRate <= 0 {
		return 29781
	}
	return uint64(math.Round(float64(c.Emulation.ClockRate) / c.Emulation.FrameRate))
}

// LogPath returns the path of the log file, or "" when logging to stderr
func (c *Config) LogPath() string {
	if c.Debug.LogFile == "" {
		return ""
	}
	if filepath.IsAbs(c.Debug.LogFile) {
		return c.Debug.LogFile
	}
	return filepath.Join(c.Paths.Logs, c.Debug.LogFile)
}

// IsLoaded returns whether the configuration was loaded from file
func (c *Config) IsLoaded() bool {
	return c.loaded
}

// GetConfigPath returns the path to the config file
func (c *Config) GetConfigPath() string {
	return c.configPath
}

// Clone creates a deep copy of the configuration
func (c *Config) Clone() *Config {
	// Marshal to JSON and back to create deep copy
	data, err := json.Marshal(c)
	if err != nil {
		return NewConfig()
	}

	clone := &Config{}
	if err := json.Unmarshal(data, clone); err != nil {
		return NewConfig()
	}

	// Copy non-serialized fields
	clone.configPath = c.configPath
	clone.loaded = c.loaded

	return clone
}

// GetDefaultConfigPath returns the default configuration file path
func GetDefaultConfigPath() string {
	return "./config/nescore.json"
}

var (
	errUnknownRegion = errors.New("unknown region, want NTSC, PAL or Dendy")
	errNegative      = errors.New("must not be negative")
)

// ConfigError represents configuration-related errors
type ConfigError struct {
	Field string
	Value interface{}
	Err   error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config error in field '%s' with value '%v': %v", e.Field, e.Value, e.Err)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}
