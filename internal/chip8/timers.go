package chip8

// TickTimers delivers one 60 Hz decrement pulse to the delay and sound
// timers. It runs independently of instruction throughput — the
// scheduler calls this once per frame regardless of how many Step calls
// happened in that frame — and it ticks even while the machine is
// blocked on a pending key-wait.
func (c *Chip8) TickTimers() {
	if c.delayTimer > 0 {
		c.delayTimer--
	}
	if c.soundTimer > 0 {
		c.soundTimer--
	}

	// Frame boundary: release a display_wait stall, if any, so the next
	// Step can run the instruction after DXYN.
	c.displayWaitPending = false
}

// DelayTimer returns the current delay timer value.
func (c *Chip8) DelayTimer() uint8 {
	return c.delayTimer
}

// SoundActive reports whether the sound timer is nonzero; the host's
// beeper should be audible whenever this is true and silent otherwise.
func (c *Chip8) SoundActive() bool {
	return c.soundTimer > 0
}
