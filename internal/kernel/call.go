// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package kernel

import (
	"fmt"

	"github.com/aibor/tockrt/platform"
)

// Op is the kind of a recorded syscall.
type Op string

// Recorded syscall kinds.
const (
	OpCommand     Op = "command"
	OpAllowRO     Op = "allow-ro"
	OpSubscribe   Op = "subscribe"
	OpYieldWait   Op = "yield-wait"
	OpYieldNoWait Op = "yield-no-wait"
	OpExit        Op = "exit"
)

// Call is a recorded syscall.
type Call struct {
	Op     Op
	Driver platform.DriverNum
	// ID is the command, buffer or subscribe number.
	ID   uint32
	Args [2]uint32
	// Revoke is true for allow and subscribe calls that revoke a previous
	// registration.
	Revoke bool
}

func (c Call) String() string {
	switch c.Op {
	case OpCommand:
		return fmt.Sprintf("%s(%d, %d, %d, %d)", c.Op, c.Driver, c.ID, c.Args[0], c.Args[1])
	case OpAllowRO, OpSubscribe:
		if c.Revoke {
			return fmt.Sprintf("%s(%d, %d, nil)", c.Op, c.Driver, c.ID)
		}

		return fmt.Sprintf("%s(%d, %d)", c.Op, c.Driver, c.ID)
	case OpExit:
		return fmt.Sprintf("%s(%s, %d)", c.Op, platform.ExitKind(c.ID), c.Args[0])
	default:
		return string(c.Op) + "()"
	}
}

// Calls is a list of recorded syscalls.
type Calls []Call

// Count returns the number of calls of the given kind.
func (c Calls) Count(op Op) int {
	var count int

	for _, call := range c {
		if call.Op == op {
			count++
		}
	}

	return count
}

// Strings returns the string representation of all calls.
func (c Calls) Strings() []string {
	s := make([]string, len(c))
	for idx, call := range c {
		s[idx] = call.String()
	}

	return s
}
