// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package memory

import (
	"errors"
	"fmt"
)

var (
	// ErrOutOfBounds is returned if an access exceeds a view.
	ErrOutOfBounds = errors.New("access out of bounds")

	// ErrInvalidSize is returned if a mapping of size zero or less is
	// requested.
	ErrInvalidSize = errors.New("invalid mapping size")
)

// BoundsError records an access that exceeds a view.
type BoundsError struct {
	Space  string
	Offset uint64
	Size   uint64
	Len    int
}

// Error implements the [error] interface.
func (e *BoundsError) Error() string {
	return fmt.Sprintf(
		"%s: [0x%x, 0x%x) of 0x%x bytes: %v",
		e.Space,
		e.Offset,
		e.Offset+e.Size,
		e.Len,
		ErrOutOfBounds,
	)
}

// Is implements the [errors.Is] interface.
func (*BoundsError) Is(other error) bool {
	return other == ErrOutOfBounds
}
