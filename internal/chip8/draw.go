package chip8

// draw implements DXYN, the hottest path in the interpreter. height n
// selects an 8-pixel-wide sprite of n rows, except the SUPER-CHIP special
// case: n == 0 in high-res mode draws a 16x16 sprite (32 bytes, two
// big-endian bytes per row).
//
// The starting pixel always wraps modulo the active viewport, even with
// clipping enabled — only the sprite's interior rows/columns are subject
// to the clipping quirk. This is the canonical COSMAC behavior: a sprite
// anchored off-screen still begins on-screen.
func (c *Chip8) draw(x, y, n uint8) {
	width, height := c.ActiveViewport()

	ox := int(c.v[x]) % width
	oy := int(c.v[y]) % height
	c.v[0xF] = 0

	rows := int(n)
	cols := 8
	var sprite [32]byte
	if n == 0 && c.hiresMode {
		rows = 16
		cols = 16
		copy(sprite[:32], c.readSprite(c.i, 32))
	} else {
		copy(sprite[:rows], c.readSprite(c.i, rows))
	}

	for r := 0; r < rows; r++ {
		py := oy + r
		if c.quirks.Clipping {
			if py >= height {
				break
			}
		} else {
			py %= height
		}

		var rowBits uint16
		if cols == 16 {
			rowBits = uint16(sprite[2*r])<<8 | uint16(sprite[2*r+1])
		} else {
			rowBits = uint16(sprite[r])
		}

		for col := 0; col < cols; col++ {
			px := ox + col
			if c.quirks.Clipping {
				if px >= width {
					break
				}
			} else {
				px %= width
			}

			bit := (rowBits >> (cols - 1 - col)) & 1
			if bit == 0 {
				continue
			}
			if c.framebuffer[py][px] {
				c.v[0xF] = 1
			}
			c.framebuffer[py][px] = !c.framebuffer[py][px]
		}
	}

	c.drawDirty = true

	if c.quirks.DisplayWait {
		c.displayWaitPending = true
	}
}

// readSprite returns a copy of n bytes of memory starting at addr,
// tolerating an out-of-range i by wrapping through memAddr rather than
// panicking.
func (c *Chip8) readSprite(addr uint16, n int) []byte {
	buf := make([]byte, n)
	for k := 0; k < n; k++ {
		buf[k] = c.readByte(addr + uint16(k))
	}
	return buf
}

// clearScreen implements 00E0: only the active viewport is cleared, not
// the full 128x64 backing plane (see the mode-switch note on
// setHiResMode for why the backing plane can hold more than the active
// viewport).
func (c *Chip8) clearScreen() {
	width, height := c.ActiveViewport()
	for row := 0; row < height; row++ {
		for col := 0; col < width; col++ {
			c.framebuffer[row][col] = false
		}
	}
	c.drawDirty = true
}

// setHiResMode implements 00FE/00FF. Per spec's resolution of the mode
// switch Open Question, the framebuffer is cleared unless the
// PreserveOnModeSwitch quirk is set for ROMs that depend on the contents
// surviving a resolution change.
func (c *Chip8) setHiResMode(hires bool) {
	c.hiresMode = hires
	if !c.quirks.PreserveOnModeSwitch {
		c.clearScreen()
		return
	}
	c.drawDirty = true
}

// scrollDown implements 00CN: shift the active viewport down by n rows,
// vacating the top n rows to zero.
func (c *Chip8) scrollDown(n uint8) {
	width, height := c.ActiveViewport()
	rows := int(n)
	for row := height - 1; row >= 0; row-- {
		for col := 0; col < width; col++ {
			if row-rows >= 0 {
				c.framebuffer[row][col] = c.framebuffer[row-rows][col]
			} else {
				c.framebuffer[row][col] = false
			}
		}
	}
	c.drawDirty = true
}

// scrollUp implements the XO-CHIP 00DN extension: shift up by n rows,
// vacating the bottom n rows to zero.
func (c *Chip8) scrollUp(n uint8) {
	width, height := c.ActiveViewport()
	rows := int(n)
	for row := 0; row < height; row++ {
		for col := 0; col < width; col++ {
			if row+rows < height {
				c.framebuffer[row][col] = c.framebuffer[row+rows][col]
			} else {
				c.framebuffer[row][col] = false
			}
		}
	}
	c.drawDirty = true
}

// scrollRight implements 00FB: shift right by cols columns, vacating the
// left cols columns to zero.
func (c *Chip8) scrollRight(cols int) {
	width, height := c.ActiveViewport()
	for row := 0; row < height; row++ {
		for col := width - 1; col >= 0; col-- {
			if col-cols >= 0 {
				c.framebuffer[row][col] = c.framebuffer[row][col-cols]
			} else {
				c.framebuffer[row][col] = false
			}
		}
	}
	c.drawDirty = true
}

// scrollLeft implements 00FC: shift left by cols columns, vacating the
// right cols columns to zero.
func (c *Chip8) scrollLeft(cols int) {
	width, height := c.ActiveViewport()
	for row := 0; row < height; row++ {
		for col := 0; col < width; col++ {
			if col+cols < width {
				c.framebuffer[row][col] = c.framebuffer[row][col+cols]
			} else {
				c.framebuffer[row][col] = false
			}
		}
	}
	c.drawDirty = true
}
