package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func TestDefaultsAreValid(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults invalid: %v", err)
	}
	if cfg.Quantum() != time.Millisecond {
		t.Errorf("default quantum = %v", cfg.Quantum())
	}
}

func TestLoadJSON(t *testing.T) {
	path := writeFile(t, "config.json", `{
  "output": {"portName": "IAC Driver"},
  "playback": {"tempo": 140, "quantumMicros": 500}
}`)
	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if cfg.Output.PortName != "IAC Driver" || cfg.Playback.Tempo != 140 {
		t.Errorf("unexpected config %+v", cfg)
	}
	if cfg.Quantum() != 500*time.Microsecond {
		t.Errorf("quantum = %v", cfg.Quantum())
	}
	// untouched fields keep defaults
	if cfg.Playback.Buffer != 64 || cfg.Output.BaudRate != 31250 {
		t.Errorf("defaults lost: %+v", cfg)
	}
}

func TestLoadYAML(t *testing.T) {
	path := writeFile(t, "config.yaml", `
output:
  serial: /dev/ttyUSB0
  baud_rate: 115200
playback:
  tempo: 90
debug: true
`)
	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if cfg.Output.Serial != "/dev/ttyUSB0" || cfg.Output.BaudRate != 115200 {
		t.Errorf("unexpected output %+v", cfg.Output)
	}
	if cfg.Playback.Tempo != 90 || !cfg.Debug {
		t.Errorf("unexpected config %+v", cfg)
	}
	if cfg.Playback.QuantumMicros != 1000 {
		t.Errorf("quantum default lost: %d", cfg.Playback.QuantumMicros)
	}
}

func TestLoadRejectsBadValues(t *testing.T) {
	tests := []struct {
		name, file, body string
	}{
		{"zero tempo", "a.json", `{"playback": {"tempo": 0}}`},
		{"negative quantum", "b.yml", "playback:\n  tempo: 120\n  quantum_micros: -5\n"},
		{"serial without baud", "c.json", `{"output": {"serial": "/dev/ttyS0", "baudRate": -1}}`},
	}
	for _, tt := range tests {
		_, err := LoadFile(writeFile(t, tt.file, tt.body))
		if !errors.Is(err, ErrInvalid) {
			t.Errorf("%s: expected ErrInvalid, got %v", tt.name, err)
		}
	}
}

func TestLoadRejectsMalformed(t *testing.T) {
	_, err := LoadFile(writeFile(t, "broken.json", `{"playback": `))
	if err == nil || errors.Is(err, ErrInvalid) {
		t.Errorf("expected parse error, got %v", err)
	}
}

func TestLoadMissingReturnsDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Playback.Tempo != DefaultConfig().Playback.Tempo {
		t.Errorf("expected defaults, got %+v", cfg)
	}
}

func TestSaveRoundTrip(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	cfg := DefaultConfig()
	cfg.Output.PortName = "USB MIDI"
	cfg.Playback.Tempo = 132
	if err := cfg.Save(); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.Output.PortName != "USB MIDI" || loaded.Playback.Tempo != 132 {
		t.Errorf("unexpected reload %+v", loaded)
	}
}
