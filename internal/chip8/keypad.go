package chip8

// Press marks key as pressed. A transition to pressed while a key-wait
// (FX0A) is pending writes the key code into the designated register,
// clears the key-wait, and advances pc by 2 — only a transition
// satisfies the wait, so holding a key down across Step calls without an
// intervening Release never re-triggers it.
func (c *Chip8) Press(key uint8) {
	if key >= KeyPadSize {
		return
	}

	wasPressed := c.keyPressed(key)
	c.keys |= 1 << key

	if !wasPressed && c.waiting.pending {
		c.v[c.waiting.register] = key
		c.waiting = keyWait{}
		c.pc += 2
	}
}

// Release marks key as released.
func (c *Chip8) Release(key uint8) {
	if key >= KeyPadSize {
		return
	}
	c.keys &^= 1 << key
}

func (c *Chip8) keyPressed(key uint8) bool {
	if key >= KeyPadSize {
		return false
	}
	return c.keys&(1<<key) != 0
}

// KeyPressed reports whether key is currently held down.
func (c *Chip8) KeyPressed(key uint8) bool {
	return c.keyPressed(key)
}

// WaitingForKey reports whether the machine is suspended on FX0A, and if
// so, which register the key code will be written to.
func (c *Chip8) WaitingForKey() (register uint8, waiting bool) {
	return c.waiting.register, c.waiting.pending
}
