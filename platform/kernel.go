// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package platform

// Kernel is the raw syscall interface of the kernel.
//
// It is implemented by the syscall backend and must not be used by
// applications directly. [Syscalls] wraps it and ties buffers and callbacks
// to capability scopes.
type Kernel interface {
	// Command triggers the given command of a driver.
	Command(driver DriverNum, cmd CommandNum, arg0, arg1 uint32) CommandReturn

	// AllowReadOnly shares the given buffer with the driver. A nil buffer
	// revokes a previous share. An [ErrorCode] is returned on rejection.
	AllowReadOnly(driver DriverNum, buffer BufferNum, data []byte) error

	// Subscribe registers the upcall with the driver. A nil upcall revokes a
	// previous registration. An [ErrorCode] is returned on rejection.
	Subscribe(driver DriverNum, sub SubscribeNum, upcall Upcall) error

	// YieldWait suspends the process until exactly one upcall has been run.
	YieldWait()

	// YieldNoWait runs one pending upcall, if any. It returns false if none
	// was pending.
	YieldNoWait() bool

	// Exit ends the process. It does not return.
	Exit(kind ExitKind, code uint32)
}
