// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package image

import (
	"encoding/binary"
	"fmt"
)

// RelocationSize is the size of a single encoded [Relocation].
const RelocationSize = 3 * WordSize

// Relocation is a single record of the relocation table.
//
// Only Offset is used for correcting the memory image. The word at Offset
// carries its own address space tag, so Info and Addend are kept for
// inspection only.
type Relocation struct {
	// Offset in the memory region of the word to correct.
	Offset uint32
	Info   uint32
	Addend uint32
}

// ParseRelocations decodes the relocation table at the start of the given
// bytes.
//
// The table starts with its length in bytes, followed by the records. The
// length must be a multiple of [RelocationSize] and must not exceed the given
// bytes.
func ParseRelocations(b []byte) ([]Relocation, error) {
	if len(b) < WordSize {
		return nil, fmt.Errorf("%w: relocation table length missing", ErrMalformedImage)
	}

	size := binary.LittleEndian.Uint32(b)
	if size%RelocationSize != 0 {
		return nil, fmt.Errorf(
			"%w: relocation table length %d not a multiple of %d",
			ErrMalformedImage,
			size,
			RelocationSize,
		)
	}

	records := b[WordSize:]
	if uint64(size) > uint64(len(records)) {
		return nil, fmt.Errorf(
			"%w: relocation table length %d exceeds %d available bytes",
			ErrMalformedImage,
			size,
			len(records),
		)
	}

	relocs := make([]Relocation, size/RelocationSize)
	if _, err := binary.Decode(records[:size], binary.LittleEndian, relocs); err != nil {
		return nil, fmt.Errorf("decode relocations: %w", err)
	}

	return relocs, nil
}

// AppendRelocations appends the encoded relocation table to b.
func AppendRelocations(b []byte, relocs []Relocation) []byte {
	b = binary.LittleEndian.AppendUint32(b, uint32(len(relocs)*RelocationSize))

	for _, r := range relocs {
		b = binary.LittleEndian.AppendUint32(b, r.Offset)
		b = binary.LittleEndian.AppendUint32(b, r.Info)
		b = binary.LittleEndian.AppendUint32(b, r.Addend)
	}

	return b
}
