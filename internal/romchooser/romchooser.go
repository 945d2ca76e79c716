// Package romchooser provides the ROM file-chooser collaborator spec
// names as out-of-core-scope: a native open/save file dialog plus a
// pure, dialog-free loader used by the CLI's non-interactive path.
package romchooser

import (
	"github.com/sqweek/dialog"

	"github.com/corvid-systems/chip8vm/internal/chip8"
)

// Open pops a native "load ROM" dialog filtered to this family's
// conventional extensions and returns the chosen path. It returns an
// error if the user cancels or the dialog can't be shown (e.g. no
// display available) — callers on a headless path should use LoadFile
// directly instead.
func Open() (string, error) {
	return dialog.File().
		Title("Load CHIP-8 ROM").
		Filter("All files", "*").
		Filter("CHIP-8 ROMs", "ch8", "c8", "sc8").
		Load()
}

// Save pops a native "save ROM" dialog seeded with suggested as the
// default filename.
func Save(suggested string) (string, error) {
	return dialog.File().
		Title("Save CHIP-8 ROM").
		Filter("All files", "*").
		Filter("CHIP-8 ROMs", "ch8", "c8", "sc8").
		SetStartFile(suggested).
		Save()
}

// LoadFile is the dialog-free loader: read path, validate its size, and
// hand back a chip8.Rom ready for (*chip8.Chip8).LoadROM. This is what
// `chip8vm run <path>` calls — it never touches a display.
func LoadFile(path string) (chip8.Rom, error) {
	return chip8.LoadRomFile(path)
}
