// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package image

import (
	"encoding/binary"
	"fmt"
)

// Builder assembles a flash image the way the packaging step lays it out.
//
// Flash layout: header, text, offset table entries, initialized data,
// relocation table. Memory layout: offset table, initialized data, zero
// initialized data.
type Builder struct {
	// Text is placed right after the header. Flash relative locations point
	// into it.
	Text []byte
	// GOT holds the offset table entries.
	GOT []Location
	// Data is the initialized data. Use [Builder.AddDataPointer] to place
	// relocated words into it.
	Data []byte
	// BSSSize is the size of the zero initialized data.
	BSSSize uint32
	// StackSize is the requested stack size.
	StackSize uint32

	relocs []Relocation
}

// AddDataPointer writes the encoded location at the given offset into
// [Builder.Data] and adds a relocation record for it. Data is grown if needed.
func (b *Builder) AddDataPointer(offset uint32, loc Location) error {
	encoded, err := Encode(loc)
	if err != nil {
		return err
	}

	end := int(offset) + WordSize
	if end > len(b.Data) {
		b.Data = append(b.Data, make([]byte, end-len(b.Data))...)
	}

	binary.LittleEndian.PutUint32(b.Data[offset:], uint32(encoded))

	b.relocs = append(b.relocs, Relocation{
		Offset: b.gotSize() + offset,
	})

	return nil
}

// AddRelocation adds a raw relocation record. The offset is relative to the
// memory region base.
func (b *Builder) AddRelocation(r Relocation) {
	b.relocs = append(b.relocs, r)
}

func (b *Builder) gotSize() uint32 {
	return uint32(len(b.GOT) * WordSize)
}

// Header returns the header for the current content.
func (b *Builder) Header() Header {
	textEnd := uint32(HeaderSize + len(b.Text))
	gotSize := b.gotSize()
	dataSize := uint32(len(b.Data))

	return Header{
		GOTSymStart:  textEnd,
		GOTStart:     0,
		GOTSize:      gotSize,
		DataSymStart: textEnd + gotSize,
		DataStart:    gotSize,
		DataSize:     dataSize,
		BSSStart:     alignWord(gotSize + dataSize),
		BSSSize:      b.BSSSize,
		RelDataStart: alignWord(textEnd + gotSize + dataSize),
		StackSize:    b.StackSize,
	}
}

// Build returns the flash image and its header.
func (b *Builder) Build() ([]byte, Header, error) {
	hdr := b.Header()

	flash, err := hdr.MarshalBinary()
	if err != nil {
		return nil, hdr, err
	}

	flash = append(flash, b.Text...)

	for idx, loc := range b.GOT {
		encoded, err := Encode(loc)
		if err != nil {
			return nil, hdr, fmt.Errorf("offset table entry %d: %w", idx, err)
		}

		flash = binary.LittleEndian.AppendUint32(flash, uint32(encoded))
	}

	flash = append(flash, b.Data...)
	flash = append(flash, make([]byte, int(hdr.RelDataStart)-len(flash))...)
	flash = AppendRelocations(flash, b.relocs)

	return flash, hdr, nil
}

func alignWord(n uint32) uint32 {
	return (n + WordSize - 1) &^ (WordSize - 1)
}
