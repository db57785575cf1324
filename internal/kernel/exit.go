// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package kernel

import (
	"fmt"

	"github.com/aibor/tockrt/platform"
)

// State is how a process ended.
type State int

const (
	// StateExited is set if the process issued the exit syscall.
	StateExited State = iota
	// StateReturned is set if the process body returned without exiting.
	StateReturned
	// StateKilled is set if the kernel stopped the process while it was
	// yielding.
	StateKilled
	// StatePanicked is set if the process body panicked.
	StatePanicked
)

func (s State) String() string {
	switch s {
	case StateExited:
		return "exited"
	case StateReturned:
		return "returned"
	case StateKilled:
		return "killed"
	case StatePanicked:
		return "panicked"
	default:
		return "unknown"
	}
}

// ExitStatus describes how a process ended.
type ExitStatus struct {
	State State
	// Kind and Code are set for [StateExited].
	Kind platform.ExitKind
	Code uint32
	// Panic holds the recovered value for [StatePanicked].
	Panic any
}

func (s ExitStatus) String() string {
	switch s.State {
	case StateExited:
		return fmt.Sprintf("%s: %s %d", s.State, s.Kind, s.Code)
	case StatePanicked:
		return fmt.Sprintf("%s: %v", s.State, s.Panic)
	default:
		return s.State.String()
	}
}
