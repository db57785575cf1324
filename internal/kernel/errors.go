// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package kernel

import "errors"

var (
	// ErrDriverExists is returned if a driver number is registered twice.
	ErrDriverExists = errors.New("driver already registered")

	// ErrAlreadyRunning is returned if the kernel runs a process already.
	ErrAlreadyRunning = errors.New("process already running")
)
