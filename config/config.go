package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// ErrInvalid wraps every validation failure
var ErrInvalid = errors.New("invalid config")

// OutputConfig selects the device frames go to. Serial wins over PortName
// when both are set.
type OutputConfig struct {
	PortName string `json:"portName,omitempty" yaml:"port_name,omitempty"`
	Serial   string `json:"serial,omitempty" yaml:"serial,omitempty"`
	BaudRate int    `json:"baudRate,omitempty" yaml:"baud_rate,omitempty"`
}

// PlaybackConfig tunes the scheduler
type PlaybackConfig struct {
	Tempo         int `json:"tempo" yaml:"tempo"`
	QuantumMicros int `json:"quantumMicros,omitempty" yaml:"quantum_micros,omitempty"`
	Buffer        int `json:"buffer,omitempty" yaml:"buffer,omitempty"`
	ScanTimeoutMs int `json:"scanTimeoutMs,omitempty" yaml:"scan_timeout_ms,omitempty"`
}

// UIConfig stores UI preferences
type UIConfig struct {
	Palette string `json:"palette,omitempty" yaml:"palette,omitempty"` // GIMP .gpl file
}

// Config is the main configuration structure
type Config struct {
	Output   OutputConfig   `json:"output,omitempty" yaml:"output,omitempty"`
	Playback PlaybackConfig `json:"playback" yaml:"playback"`
	UI       UIConfig       `json:"ui,omitempty" yaml:"ui,omitempty"`
	Debug    bool           `json:"debug,omitempty" yaml:"debug,omitempty"`
}

// DefaultConfig returns a config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Output: OutputConfig{
			BaudRate: 31250,
		},
		Playback: PlaybackConfig{
			Tempo:         200,
			QuantumMicros: 1000,
			Buffer:        64,
			ScanTimeoutMs: 3000,
		},
	}
}

// ConfigDir returns the config directory path
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "go-scoreplay"), nil
}

// ConfigPath returns the full path to config.json
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// Load reads the default config file, or returns defaults if not found
func Load() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return DefaultConfig(), nil
	}
	cfg, err := LoadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return DefaultConfig(), nil
	}
	return cfg, err
}

// LoadFile reads a JSON or YAML (.yaml/.yml) config. Fields missing from the
// file keep their defaults.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := DefaultConfig()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, cfg)
	default:
		err = json.Unmarshal(data, cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Validate rejects values the player cannot run with
func (c *Config) Validate() error {
	if c.Playback.Tempo <= 0 {
		return fmt.Errorf("%w: tempo must be positive, got %d", ErrInvalid, c.Playback.Tempo)
	}
	if c.Playback.QuantumMicros <= 0 {
		return fmt.Errorf("%w: quantum must be positive, got %dus", ErrInvalid, c.Playback.QuantumMicros)
	}
	if c.Playback.Buffer < 0 {
		return fmt.Errorf("%w: buffer must not be negative", ErrInvalid)
	}
	if c.Output.Serial != "" && c.Output.BaudRate <= 0 {
		return fmt.Errorf("%w: baud rate must be positive, got %d", ErrInvalid, c.Output.BaudRate)
	}
	return nil
}

// Quantum returns the polling interval as a duration
func (c *Config) Quantum() time.Duration {
	return time.Duration(c.Playback.QuantumMicros) * time.Microsecond
}

// ScanTimeout bounds output port enumeration
func (c *Config) ScanTimeout() time.Duration {
	if c.Playback.ScanTimeoutMs <= 0 {
		return 3 * time.Second
	}
	return time.Duration(c.Playback.ScanTimeoutMs) * time.Millisecond
}

// Save writes the config to disk as JSON
func (c *Config) Save() error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}

	// Create directory if it doesn't exist
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	path, err := ConfigPath()
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}
