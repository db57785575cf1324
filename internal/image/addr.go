// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package image

import (
	"fmt"
	"strconv"
)

// FlashAddr is an absolute address in the flash address space.
type FlashAddr uint32

// Add returns the address offset bytes after a.
func (a FlashAddr) Add(offset uint32) FlashAddr {
	return a + FlashAddr(offset)
}

func (a FlashAddr) String() string {
	return "flash:0x" + strconv.FormatUint(uint64(a), 16)
}

// MemAddr is an absolute address in the process memory address space.
type MemAddr uint32

// Add returns the address offset bytes after a.
func (a MemAddr) Add(offset uint32) MemAddr {
	return a + MemAddr(offset)
}

func (a MemAddr) String() string {
	return "mem:0x" + strconv.FormatUint(uint64(a), 16)
}

// flashTag is the high bit of an encoded address value. If set, the value is
// relative to the flash base.
const flashTag uint32 = 1 << 31

// MaxOffset is the largest offset an encoded address value can carry.
const MaxOffset = flashTag - 1

// Encoded is a raw word that takes part in relocation. It carries the address
// space it is relative to in its high bit.
type Encoded uint32

// Location is a decoded [Encoded] value. It is either [MemoryRelative] or
// [FlashRelative].
type Location interface {
	// Offset returns the offset relative to the base of the location's
	// address space.
	Offset() uint32

	// Resolve returns the absolute address for the given bases.
	Resolve(flash FlashAddr, mem MemAddr) uint32

	fmt.Stringer

	isLocation()
}

// MemoryRelative is an offset relative to the memory region base.
type MemoryRelative uint32

// Offset implements [Location].
func (m MemoryRelative) Offset() uint32 {
	return uint32(m)
}

// Resolve implements [Location].
func (m MemoryRelative) Resolve(_ FlashAddr, mem MemAddr) uint32 {
	return uint32(mem.Add(uint32(m)))
}

func (m MemoryRelative) String() string {
	return "mem+0x" + strconv.FormatUint(uint64(m), 16)
}

func (MemoryRelative) isLocation() {}

// FlashRelative is an offset relative to the flash base.
type FlashRelative uint32

// Offset implements [Location].
func (f FlashRelative) Offset() uint32 {
	return uint32(f)
}

// Resolve implements [Location].
func (f FlashRelative) Resolve(flash FlashAddr, _ MemAddr) uint32 {
	return uint32(flash.Add(uint32(f)))
}

func (f FlashRelative) String() string {
	return "flash+0x" + strconv.FormatUint(uint64(f), 16)
}

func (FlashRelative) isLocation() {}

// Decode splits the encoded value into its address space and offset.
func Decode(e Encoded) Location {
	offset := uint32(e) &^ flashTag
	if uint32(e)&flashTag != 0 {
		return FlashRelative(offset)
	}

	return MemoryRelative(offset)
}

// Encode is the inverse of [Decode].
func Encode(loc Location) (Encoded, error) {
	offset := loc.Offset()
	if offset > MaxOffset {
		return 0, fmt.Errorf("%w: %s", ErrOffsetOverflow, loc)
	}

	if _, isFlash := loc.(FlashRelative); isFlash {
		return Encoded(offset | flashTag), nil
	}

	return Encoded(offset), nil
}

// MustEncode is like [Encode] but panics on error.
func MustEncode(loc Location) Encoded {
	e, err := Encode(loc)
	if err != nil {
		panic(err)
	}

	return e
}

// Resolve decodes the given value and returns the absolute address for the
// given bases. The tag bit is stripped before the base is added.
func Resolve(e Encoded, flash FlashAddr, mem MemAddr) uint32 {
	return Decode(e).Resolve(flash, mem)
}
