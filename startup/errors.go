// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package startup

import "errors"

var (
	// ErrReturned is the panic value of [Start] if the kernel returned from
	// the exit syscall.
	ErrReturned = errors.New("exit syscall returned")

	// ErrPanic is returned if the main function panicked.
	ErrPanic = errors.New("main panicked")

	// ErrNoMain is returned if the application has no main function.
	ErrNoMain = errors.New("no main function")

	// ErrMemoryTooSmall is returned if the memory region can not hold the
	// segments and the stack requested by the image.
	ErrMemoryTooSmall = errors.New("memory region too small")
)
