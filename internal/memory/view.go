// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package memory

import (
	"encoding/binary"

	"github.com/aibor/tockrt/internal/image"
)

// Flash is a read-only view on an application image in flash.
type Flash struct {
	base image.FlashAddr
	data []byte
}

// NewFlash returns a view on the given image bytes located at base.
func NewFlash(base image.FlashAddr, data []byte) Flash {
	return Flash{base: base, data: data}
}

// Base returns the flash base address.
func (f Flash) Base() image.FlashAddr {
	return f.base
}

// Len returns the size of the image.
func (f Flash) Len() int {
	return len(f.data)
}

// Header decodes the image header at the flash base.
func (f Flash) Header() (image.Header, error) {
	return image.ParseHeader(f.data) //nolint:wrapcheck
}

// Word reads the word at the given offset.
func (f Flash) Word(offset uint32) (image.Encoded, error) {
	b, err := f.Slice(offset, image.WordSize)
	if err != nil {
		return 0, err
	}

	return image.Encoded(binary.LittleEndian.Uint32(b)), nil
}

// Slice returns size bytes starting at offset. The returned slice must not be
// modified.
func (f Flash) Slice(offset, size uint32) ([]byte, error) {
	return slice("flash", f.data, offset, size)
}

// Tail returns everything from offset to the end of the image. The returned
// slice must not be modified.
func (f Flash) Tail(offset uint32) ([]byte, error) {
	if uint64(offset) > uint64(len(f.data)) {
		return nil, &BoundsError{
			Space:  "flash",
			Offset: uint64(offset),
			Len:    len(f.data),
		}
	}

	return f.data[offset:len(f.data):len(f.data)], nil
}

// Region is a writable view on the memory region of a process.
type Region struct {
	base image.MemAddr
	data []byte
}

// NewRegion returns a view on the given bytes located at base.
func NewRegion(base image.MemAddr, data []byte) Region {
	return Region{base: base, data: data}
}

// Base returns the memory base address.
func (r Region) Base() image.MemAddr {
	return r.base
}

// Len returns the size of the region.
func (r Region) Len() int {
	return len(r.data)
}

// Bytes returns the whole region.
func (r Region) Bytes() []byte {
	return r.data
}

// Word reads the word at the given offset.
func (r Region) Word(offset uint32) (image.Encoded, error) {
	b, err := r.Slice(offset, image.WordSize)
	if err != nil {
		return 0, err
	}

	return image.Encoded(binary.LittleEndian.Uint32(b)), nil
}

// SetWord writes the word at the given offset.
func (r Region) SetWord(offset, value uint32) error {
	b, err := r.Slice(offset, image.WordSize)
	if err != nil {
		return err
	}

	binary.LittleEndian.PutUint32(b, value)

	return nil
}

// Slice returns size bytes starting at offset.
func (r Region) Slice(offset, size uint32) ([]byte, error) {
	return slice("memory", r.data, offset, size)
}

func slice(space string, data []byte, offset, size uint32) ([]byte, error) {
	end := uint64(offset) + uint64(size)
	if end > uint64(len(data)) {
		return nil, &BoundsError{
			Space:  space,
			Offset: uint64(offset),
			Size:   uint64(size),
			Len:    len(data),
		}
	}

	return data[offset:end:end], nil
}
