// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package memory

import (
	"fmt"

	"github.com/aibor/tockrt/internal/image"
	"golang.org/x/sys/unix"
)

// Mapping is an anonymous private memory mapping backing a process region.
//
// Fresh mappings are zero filled by the kernel. The relocation engine does
// not rely on it and zeroes the BSS segment explicitly.
type Mapping struct {
	data []byte
}

// Map creates a new read-write mapping of the given size.
func Map(size int) (*Mapping, error) {
	if size <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidSize, size)
	}

	data, err := unix.Mmap(
		-1,
		0,
		size,
		unix.PROT_READ|unix.PROT_WRITE,
		unix.MAP_ANON|unix.MAP_PRIVATE,
	)
	if err != nil {
		return nil, fmt.Errorf("mmap: %w", err)
	}

	return &Mapping{data: data}, nil
}

// Region returns a view on the mapping placed at the given base.
func (m *Mapping) Region(base image.MemAddr) Region {
	return NewRegion(base, m.data)
}

// Close unmaps the mapping. Views on it must not be used afterwards.
func (m *Mapping) Close() error {
	if m.data == nil {
		return nil
	}

	if err := unix.Munmap(m.data); err != nil {
		return fmt.Errorf("munmap: %w", err)
	}

	m.data = nil

	return nil
}
