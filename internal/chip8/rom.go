package chip8

import (
	"fmt"
	"os"
	"path/filepath"
)

// Rom is a loaded ROM image plus a cosmetic name for window titles and
// logging. File extensions .ch8, .c8, and .sc8 are conventional for this
// family of ROMs but are not validated — the loader accepts any bytes
// that fit.
type Rom struct {
	Name string
	Data []byte
}

// LoadRomFile reads a ROM from disk. It does not touch a Chip8 instance;
// pair it with (*Chip8).LoadROM.
func LoadRomFile(path string) (Rom, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Rom{}, fmt.Errorf("read rom file %s: %w", path, err)
	}

	if len(data) > RomMaxSizeBytes {
		return Rom{}, &RomTooLargeError{Size: len(data), Max: RomMaxSizeBytes}
	}

	return Rom{
		Name: filepath.Base(path),
		Data: data,
	}, nil
}
