// Package config persists the host's CHIP-8 settings — quirks profile,
// clock speed, colors, key map, ROM directory — as YAML. It follows the
// same load-with-default-backfill shape a JSON settings manager in the
// surrounding ecosystem uses, adapted to YAML since that's the format
// already in this module's dependency graph.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Settings is the persisted, user-editable configuration for a host
// application built on top of the chip8 package.
type Settings struct {
	QuirksProfile   string            `yaml:"quirksProfile"`
	ClockHz         int               `yaml:"clockHz"`
	SpeedMultiplier float64           `yaml:"speedMultiplier"`
	ForegroundColor string            `yaml:"foregroundColor"`
	BackgroundColor string            `yaml:"backgroundColor"`
	PixelScale      int               `yaml:"pixelScale"`
	RomsDir         string            `yaml:"romsDir"`
	KeyMap          map[string]string `yaml:"keyMap"`
}

// Default returns the baked-in defaults used both for a brand new config
// file and to backfill any field an older file is missing.
func Default() Settings {
	return Settings{
		QuirksProfile:   "cosmac",
		ClockHz:         700,
		SpeedMultiplier: 1.0,
		ForegroundColor: "33FF00FF",
		BackgroundColor: "000000FF",
		PixelScale:      10,
		RomsDir:         "./roms",
		KeyMap: map[string]string{
			"1": "1", "2": "2", "3": "3", "4": "c",
			"q": "4", "w": "5", "e": "6", "r": "d",
			"a": "7", "s": "8", "d": "9", "f": "e",
			"z": "a", "x": "0", "c": "b", "v": "f",
		},
	}
}

// Manager reads and writes a Settings file at a fixed path.
type Manager struct {
	path string
}

// NewManager returns a Manager bound to path. The file is not touched
// until Load or Save is called.
func NewManager(path string) *Manager {
	return &Manager{path: path}
}

// Load reads settings from disk. If the file does not exist, it writes
// the defaults to path and returns them. If the file exists but fails to
// parse, it falls back to defaults rather than refusing to start.
func (m *Manager) Load() (Settings, error) {
	data, err := os.ReadFile(m.path)
	if err != nil {
		if os.IsNotExist(err) {
			s := Default()
			return s, m.Save(s)
		}
		return Settings{}, fmt.Errorf("read settings file: %w", err)
	}

	var s Settings
	if err := yaml.Unmarshal(data, &s); err != nil {
		return Default(), nil
	}

	backfill(&s)

	return s, nil
}

// Save writes s to disk as YAML, creating the parent directory if
// needed.
func (m *Manager) Save(s Settings) error {
	dir := filepath.Dir(m.path)
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create settings directory: %w", err)
		}
	}

	data, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}

	return os.WriteFile(m.path, data, 0o644)
}

// backfill fills in zero-valued fields with defaults, so a settings file
// written by an older version of this program (missing a field added
// since) still loads with sane values instead of zeros.
func backfill(s *Settings) {
	d := Default()

	if s.QuirksProfile == "" {
		s.QuirksProfile = d.QuirksProfile
	}
	if s.ClockHz == 0 {
		s.ClockHz = d.ClockHz
	}
	if s.SpeedMultiplier == 0 {
		s.SpeedMultiplier = d.SpeedMultiplier
	}
	if s.ForegroundColor == "" {
		s.ForegroundColor = d.ForegroundColor
	}
	if s.BackgroundColor == "" {
		s.BackgroundColor = d.BackgroundColor
	}
	if s.PixelScale == 0 {
		s.PixelScale = d.PixelScale
	}
	if s.RomsDir == "" {
		s.RomsDir = d.RomsDir
	}
	if len(s.KeyMap) == 0 {
		s.KeyMap = d.KeyMap
	}
}
