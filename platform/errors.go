// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package platform

import (
	"errors"
	"fmt"
)

var (
	// ErrDriverAbsent is returned if a driver is not implemented by the
	// running kernel.
	ErrDriverAbsent = errors.New("driver absent")

	// ErrScopeClosed is returned if a [Handle] is used after its scope has
	// ended.
	ErrScopeClosed = errors.New("capability scope closed")

	// ErrHandleInUse is returned if a [Handle] already holds a registration.
	ErrHandleInUse = errors.New("handle already in use")

	// ErrNotCompleted is returned if the value of a [OneShot] is requested
	// before its upcall fired.
	ErrNotCompleted = errors.New("upcall not completed")

	// ErrUpcallOverrun is returned if a [OneShot] received more than one
	// upcall.
	ErrUpcallOverrun = errors.New("upcall fired more than once")
)

// DriverAbsentError is returned if the check command of a driver failed.
type DriverAbsentError struct {
	Driver DriverNum
	Err    error
}

// Error implements the [error] interface.
func (e *DriverAbsentError) Error() string {
	return fmt.Sprintf("driver %d: %v: %v", e.Driver, ErrDriverAbsent, e.Err)
}

// Is implements the [errors.Is] interface.
func (*DriverAbsentError) Is(other error) bool {
	if other == ErrDriverAbsent {
		return true
	}

	_, ok := other.(*DriverAbsentError)

	return ok
}

// Unwrap implements the [errors.Unwrap] interface.
func (e *DriverAbsentError) Unwrap() error {
	return e.Err
}

// SyscallError is returned if the kernel rejected a syscall.
type SyscallError struct {
	Op     string
	Driver DriverNum
	ID     uint32
	Err    error
}

// Error implements the [error] interface.
func (e *SyscallError) Error() string {
	return fmt.Sprintf("%s driver %d id %d: %v", e.Op, e.Driver, e.ID, e.Err)
}

// Is implements the [errors.Is] interface.
func (*SyscallError) Is(other error) bool {
	_, ok := other.(*SyscallError)
	return ok
}

// Unwrap implements the [errors.Unwrap] interface.
func (e *SyscallError) Unwrap() error {
	return e.Err
}
