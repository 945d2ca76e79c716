package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/corvid-systems/chip8vm/internal/chip8"
)

// quirksCmd prints the resolved quirks table for a profile, so ROM
// authors can diagnose dialect mismatches without launching the GUI.
var quirksCmd = &cobra.Command{
	Use:   "quirks [cosmac|schip|xochip]",
	Short: "print the resolved quirks table for a dialect profile",
	Args:  cobra.MaximumNArgs(1),
	Run:   runQuirks,
}

func runQuirks(cmd *cobra.Command, args []string) {
	profile := "cosmac"
	if len(args) == 1 {
		profile = args[0]
	}

	q, ok := chip8.QuirksProfile(profile)
	if !ok {
		fmt.Printf("unknown quirks profile %q\n", profile)
		os.Exit(1)
	}

	fmt.Printf("quirks profile: %s\n", profile)
	fmt.Printf("  vf_reset:             %t\n", q.VfReset)
	fmt.Printf("  memory_increment:     %t\n", q.MemoryIncrement)
	fmt.Printf("  display_wait:         %t\n", q.DisplayWait)
	fmt.Printf("  clipping:             %t\n", q.Clipping)
	fmt.Printf("  shifting:             %t\n", q.Shifting)
	fmt.Printf("  jumping:              %t\n", q.Jumping)
	fmt.Printf("  preserve_mode_switch: %t\n", q.PreserveOnModeSwitch)
}
