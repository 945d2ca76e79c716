package chip8

// Quirks gates the handful of behavior divergences across CHIP-8
// dialects. A ROM that targets one dialect and runs under the wrong
// quirks profile typically manifests as corrupted VF flags or a sprite
// drawn in the wrong place, never a crash.
type Quirks struct {
	// VfReset: 8XY1/8XY2/8XY3 (OR/AND/XOR) reset VF to 0.
	VfReset bool
	// MemoryIncrement: FX55/FX65 advance I by x+1 after the transfer.
	MemoryIncrement bool
	// DisplayWait: DXYN yields until the next frame boundary before
	// executing further instructions (modeled at frame granularity, not
	// per-scanline; see spec's Non-goals).
	DisplayWait bool
	// Clipping: sprites clip at the active viewport edge instead of
	// wrapping around to the opposite edge.
	Clipping bool
	// Shifting: 8XY6/8XYE shift VX in place; when false they shift VY
	// and store the result in VX.
	Shifting bool
	// Jumping: BNNN computes pc = nnn + v[x] (CHIP-48 variant); when
	// false it computes pc = nnn + v[0].
	Jumping bool
	// PreserveOnModeSwitch: 00FE/00FF leave the framebuffer contents
	// alone instead of clearing it. Not part of the canonical dialects
	// below; a per-ROM escape hatch for the Open Question in spec §9.
	PreserveOnModeSwitch bool
}

// QuirksCosmac is the original COSMAC VIP interpreter's behavior and the
// machine's power-on default.
var QuirksCosmac = Quirks{
	VfReset:         true,
	MemoryIncrement: true,
	DisplayWait:     true,
	Clipping:        true,
	Shifting:        false,
	Jumping:         false,
}

// QuirksSuperChip matches SUPER-CHIP 1.1 interpreters (CHIP-48 lineage):
// in-place shifts and the VX-relative BNNN jump, no display-wait since
// SCHIP runs well past the VIP's frame-locked cadence.
var QuirksSuperChip = Quirks{
	VfReset:         false,
	MemoryIncrement: false,
	DisplayWait:     false,
	Clipping:        true,
	Shifting:        true,
	Jumping:         true,
}

// QuirksXOChip matches XO-CHIP's interpreter defaults: no display-wait,
// sprites wrap rather than clip.
var QuirksXOChip = Quirks{
	VfReset:         false,
	MemoryIncrement: false,
	DisplayWait:     false,
	Clipping:        false,
	Shifting:        true,
	Jumping:         true,
}

// QuirksProfile resolves a profile name to its Quirks value, for the CLI
// --quirks flag and the config file. ok is false for an unrecognized
// name.
func QuirksProfile(name string) (Quirks, bool) {
	switch name {
	case "cosmac", "vip", "":
		return QuirksCosmac, true
	case "schip", "superchip":
		return QuirksSuperChip, true
	case "xochip":
		return QuirksXOChip, true
	default:
		return Quirks{}, false
	}
}
