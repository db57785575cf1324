// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package platform

// DriverNum identifies a driver implemented by the kernel.
type DriverNum uint32

// CommandNum identifies a command of a driver.
type CommandNum uint32

// BufferNum identifies a buffer slot of a driver.
type BufferNum uint32

// SubscribeNum identifies an upcall slot of a driver.
type SubscribeNum uint32

// CheckCommand is implemented by every driver. It succeeds if the driver is
// present.
const CheckCommand CommandNum = 0

// ExitKind selects what the kernel does with an exiting process.
type ExitKind uint32

const (
	// ExitTerminate stops the process.
	ExitTerminate ExitKind = 0
	// ExitRestart restarts the process from its entry point.
	ExitRestart ExitKind = 1
)

func (k ExitKind) String() string {
	switch k {
	case ExitTerminate:
		return "terminate"
	case ExitRestart:
		return "restart"
	default:
		return "unknown"
	}
}
