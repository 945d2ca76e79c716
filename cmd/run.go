package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/corvid-systems/chip8vm/internal/beep"
	"github.com/corvid-systems/chip8vm/internal/chip8"
	"github.com/corvid-systems/chip8vm/internal/config"
	"github.com/corvid-systems/chip8vm/internal/renderer"
	"github.com/corvid-systems/chip8vm/internal/romchooser"
	"github.com/corvid-systems/chip8vm/internal/scheduler"
)

var (
	runQuirksProfile string
	runSpeed         float64
	runFgColor       string
	runBgColor       string
	runScale         int
	runConfigPath    string
)

// runCmd is the main entry point: load settings, load a ROM, and launch
// the ebiten window. Everything it wires together is reusable without a
// display — config.Manager, chip8.New, romchooser.LoadFile and
// scheduler.Harness are all display-free; only internal/renderer touches
// a window.
var runCmd = &cobra.Command{
	Use:   "run <rom>",
	Short: "load a ROM and run it in a window",
	Args:  cobra.ExactArgs(1),
	RunE:  runRun,
}

func init() {
	runCmd.Flags().StringVar(&runQuirksProfile, "quirks", "", "quirks profile: cosmac, schip, or xochip (defaults to the config file's value)")
	runCmd.Flags().Float64Var(&runSpeed, "speed", 0, "speed multiplier, e.g. 2.0 for double speed (0 keeps the config file's value)")
	runCmd.Flags().StringVar(&runFgColor, "fg", "", "foreground color as RRGGBB or RRGGBBAA hex")
	runCmd.Flags().StringVar(&runBgColor, "bg", "", "background color as RRGGBB or RRGGBBAA hex")
	runCmd.Flags().IntVar(&runScale, "scale", 0, "pixel scale in window pixels per CHIP-8 pixel (0 keeps the config file's value)")
	runCmd.Flags().StringVar(&runConfigPath, "config", defaultConfigPath(), "path to the settings YAML file")
}

func defaultConfigPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "chip8vm.yaml"
	}
	return filepath.Join(dir, "chip8vm", "settings.yaml")
}

func runRun(cmd *cobra.Command, args []string) error {
	romPath := args[0]

	mgr := config.NewManager(runConfigPath)
	settings, err := mgr.Load()
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}

	if runQuirksProfile != "" {
		settings.QuirksProfile = runQuirksProfile
	}
	if runSpeed > 0 {
		settings.SpeedMultiplier = runSpeed
	}
	if runFgColor != "" {
		settings.ForegroundColor = runFgColor
	}
	if runBgColor != "" {
		settings.BackgroundColor = runBgColor
	}
	if runScale > 0 {
		settings.PixelScale = runScale
	}

	quirks, ok := chip8.QuirksProfile(settings.QuirksProfile)
	if !ok {
		return fmt.Errorf("unknown quirks profile %q", settings.QuirksProfile)
	}

	rom, err := romchooser.LoadFile(romPath)
	if err != nil {
		return fmt.Errorf("load rom %q: %w", romPath, err)
	}

	vm := chip8.New()
	vm.SetQuirks(quirks)
	if err := vm.LoadROM(rom.Data, rom.Name); err != nil {
		return fmt.Errorf("install rom into memory: %w", err)
	}

	harness := scheduler.New(vm, scheduler.Config{
		CPUHz:           settings.ClockHz,
		SpeedMultiplier: settings.SpeedMultiplier,
	})

	beeper, err := beep.New()
	if err != nil {
		// Audio is a nicety, not a requirement: a headless CI box or a
		// machine without a sound device shouldn't stop the emulator.
		fmt.Fprintf(os.Stderr, "warning: audio disabled: %s\n", err)
		beeper = nil
	}

	fg, err := renderer.DecodeColorFromHex(settings.ForegroundColor)
	if err != nil {
		return fmt.Errorf("parse foreground color: %w", err)
	}
	bg, err := renderer.DecodeColorFromHex(settings.BackgroundColor)
	if err != nil {
		return fmt.Errorf("parse background color: %w", err)
	}

	r := renderer.New(vm, harness, beeper, rom.Name, renderer.Config{
		FgColor:    fg,
		BgColor:    bg,
		PixelScale: settings.PixelScale,
	})

	return r.Run()
}
