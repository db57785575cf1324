// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package image

import (
	"encoding/binary"
	"fmt"
)

// WordSize is the size of a single relocatable word.
const WordSize = 4

// HeaderSize is the size of the encoded [Header].
const HeaderSize = 40

// Header is the fixed layout at the start of an application image.
//
// The field order is part of the binary contract with the packaging tools and
// must not change.
type Header struct {
	// Offset of the offset table entries in flash.
	GOTSymStart uint32
	// Offset of the offset table in the memory region.
	GOTStart uint32
	// Size of the offset table in bytes.
	GOTSize uint32
	// Offset of the initialized data in flash.
	DataSymStart uint32
	// Offset of the initialized data in the memory region.
	DataStart uint32
	// Size of the initialized data in bytes.
	DataSize uint32
	// Offset of the zero initialized data in the memory region.
	BSSStart uint32
	// Size of the zero initialized data in bytes.
	BSSSize uint32
	// Offset of the relocation table in flash. It follows program flash.
	RelDataStart uint32
	// Stack size requested by the application.
	StackSize uint32
}

// ParseHeader decodes the header from the start of the given bytes.
//
// The field values are not validated.
func ParseHeader(b []byte) (Header, error) {
	var hdr Header

	if len(b) < HeaderSize {
		return hdr, fmt.Errorf("%w: %d bytes", ErrShortHeader, len(b))
	}

	if _, err := binary.Decode(b[:HeaderSize], binary.LittleEndian, &hdr); err != nil {
		return hdr, fmt.Errorf("decode header: %w", err)
	}

	return hdr, nil
}

// MarshalBinary implements [encoding.BinaryMarshaler].
func (h *Header) MarshalBinary() ([]byte, error) {
	b := make([]byte, HeaderSize)

	if _, err := binary.Encode(b, binary.LittleEndian, h); err != nil {
		return nil, fmt.Errorf("encode header: %w", err)
	}

	return b, nil
}

// GOT returns the segment of the offset table.
func (h *Header) GOT() Segment {
	return Segment{
		Source: h.GOTSymStart,
		Dest:   h.GOTStart,
		Size:   h.GOTSize,
	}
}

// Data returns the segment of the initialized data.
func (h *Header) Data() Segment {
	return Segment{
		Source: h.DataSymStart,
		Dest:   h.DataStart,
		Size:   h.DataSize,
	}
}

// BSS returns the segment of the zero initialized data. It has no source.
func (h *Header) BSS() Segment {
	return Segment{
		Dest: h.BSSStart,
		Size: h.BSSSize,
	}
}

// GOTEntries returns the number of entries in the offset table.
func (h *Header) GOTEntries() int {
	return int(h.GOTSize / WordSize)
}

// MemoryFootprint returns the end offset of the highest segment in the
// memory region, including alignment gaps between segments.
func (h *Header) MemoryFootprint() uint64 {
	return max(h.GOT().DestEnd(), h.Data().DestEnd(), h.BSS().DestEnd())
}

// RequiredMemory returns the minimal size of the memory region including the
// requested stack.
func (h *Header) RequiredMemory() uint64 {
	return h.MemoryFootprint() + uint64(h.StackSize)
}

// Segment describes a contiguous range that is placed into the memory region.
type Segment struct {
	// Offset in flash. Not used for segments synthesized in memory.
	Source uint32
	// Offset in the memory region.
	Dest uint32
	// Size in bytes.
	Size uint32
}

// SourceEnd returns the end offset in flash.
func (s Segment) SourceEnd() uint64 {
	return uint64(s.Source) + uint64(s.Size)
}

// DestEnd returns the end offset in the memory region.
func (s Segment) DestEnd() uint64 {
	return uint64(s.Dest) + uint64(s.Size)
}
