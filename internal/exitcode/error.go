// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

// Package exitcode maps errors to process completion codes.
package exitcode

import (
	"errors"
	"fmt"
)

const (
	// Success is the completion code of a process that ended without
	// error.
	Success uint32 = 0

	// Failure is the completion code of a process that ended with an error
	// that does not carry a code.
	Failure uint32 = 1

	// Fault is the completion code of a process that could not be started.
	Fault uint32 = 0xFFFF_FFFF
)

// Error is a completion code that is considered an error.
type Error uint32

func (e Error) Error() string {
	return fmt.Sprintf("non-zero completion code: %d", uint32(e))
}

func (Error) Is(other error) bool {
	_, ok := other.(Error)
	return ok
}

// Code returns the completion code as basic uint32 type.
func (e Error) Code() uint32 {
	return uint32(e)
}

// From returns a completion code based on the given error and if the error
// was an [Error].
//
// If the error is nil, the code is [Success]. If the error is an [Error] the
// code is the return value of [Error.Code]. Otherwise the code is [Failure].
func From(err error) (uint32, bool) {
	if err == nil {
		return Success, false
	}

	var exitErr Error
	if errors.As(err, &exitErr) {
		return exitErr.Code(), true
	}

	return Failure, false
}
