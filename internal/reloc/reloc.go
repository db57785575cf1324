// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package reloc

import (
	"fmt"

	"github.com/aibor/tockrt/internal/image"
	"github.com/aibor/tockrt/internal/memory"
)

// Apply reads the header from the flash base and builds the memory image.
func Apply(flash memory.Flash, mem memory.Region) error {
	hdr, err := flash.Header()
	if err != nil {
		return malformed("header", err)
	}

	steps := []struct {
		name string
		fn   func(image.Header, memory.Flash, memory.Region) error
	}{
		{"offset table", FixGOT},
		{"data", CopyData},
		{"bss", ZeroBSS},
		{"relocations", Relocate},
	}

	for _, step := range steps {
		if err := step.fn(hdr, flash, mem); err != nil {
			return malformed(step.name, err)
		}
	}

	return nil
}

// FixGOT decodes every flash offset table entry and writes the absolute
// address into the matching slot in memory.
func FixGOT(hdr image.Header, flash memory.Flash, mem memory.Region) error {
	got := hdr.GOT()

	for idx := range uint32(hdr.GOTEntries()) {
		offset := idx * image.WordSize

		value, err := flash.Word(got.Source + offset)
		if err != nil {
			return fmt.Errorf("entry %d: %w", idx, err)
		}

		err = mem.SetWord(got.Dest+offset, resolve(value, flash, mem))
		if err != nil {
			return fmt.Errorf("entry %d: %w", idx, err)
		}
	}

	return nil
}

// CopyData copies the initialized data from flash into memory.
func CopyData(hdr image.Header, flash memory.Flash, mem memory.Region) error {
	data := hdr.Data()

	src, err := flash.Slice(data.Source, data.Size)
	if err != nil {
		return err
	}

	dst, err := mem.Slice(data.Dest, data.Size)
	if err != nil {
		return err
	}

	copy(dst, src)

	return nil
}

// ZeroBSS zeroes the uninitialized data in memory.
func ZeroBSS(hdr image.Header, _ memory.Flash, mem memory.Region) error {
	bss := hdr.BSS()

	dst, err := mem.Slice(bss.Dest, bss.Size)
	if err != nil {
		return err
	}

	clear(dst)

	return nil
}

// Relocate corrects each word named by the relocation table in place. The
// word's current value is decoded the same way the offset table entries are.
func Relocate(hdr image.Header, flash memory.Flash, mem memory.Region) error {
	table, err := flash.Tail(hdr.RelDataStart)
	if err != nil {
		return err
	}

	relocs, err := image.ParseRelocations(table)
	if err != nil {
		return err //nolint:wrapcheck
	}

	for idx, r := range relocs {
		value, err := mem.Word(r.Offset)
		if err != nil {
			return fmt.Errorf("record %d: %w", idx, err)
		}

		// Must not fail, the word has just been read.
		_ = mem.SetWord(r.Offset, resolve(value, flash, mem))
	}

	return nil
}

func resolve(value image.Encoded, flash memory.Flash, mem memory.Region) uint32 {
	return image.Resolve(value, flash.Base(), mem.Base())
}

func malformed(step string, err error) error {
	return fmt.Errorf("%w: %s: %w", image.ErrMalformedImage, step, err)
}
