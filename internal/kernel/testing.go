// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package kernel

import (
	"context"
	"testing"

	"github.com/aibor/tockrt/platform"
)

// FuncDriver is a [Driver] backed by a function. Commands succeed if
// CommandFn is nil. AllowErr and SubscribeErr are returned for every allow
// and subscribe call that registers something. Revocations always succeed.
type FuncDriver struct {
	Number       platform.DriverNum
	CommandFn    func(*Process, platform.CommandNum, uint32, uint32) platform.CommandReturn
	AllowErr     error
	SubscribeErr error
}

var (
	_ Driver           = (*FuncDriver)(nil)
	_ AllowChecker     = (*FuncDriver)(nil)
	_ SubscribeChecker = (*FuncDriver)(nil)
)

// Num implements [Driver].
func (d *FuncDriver) Num() platform.DriverNum {
	return d.Number
}

// Command implements [Driver].
func (d *FuncDriver) Command(
	proc *Process,
	cmd platform.CommandNum,
	arg0, arg1 uint32,
) platform.CommandReturn {
	if d.CommandFn == nil {
		return platform.Success()
	}

	return d.CommandFn(proc, cmd, arg0, arg1)
}

// CheckAllow implements [AllowChecker].
func (d *FuncDriver) CheckAllow(_ platform.BufferNum) error {
	return d.AllowErr
}

// CheckSubscribe implements [SubscribeChecker].
func (d *FuncDriver) CheckSubscribe(_ platform.SubscribeNum) error {
	return d.SubscribeErr
}

// CompleteWith returns a command function that succeeds for the check
// command and schedules the given upcall for any other command.
func CompleteWith(
	sub platform.SubscribeNum,
	arg0, arg1, arg2 uint32,
) func(*Process, platform.CommandNum, uint32, uint32) platform.CommandReturn {
	return func(proc *Process, cmd platform.CommandNum, _, _ uint32) platform.CommandReturn {
		if cmd != platform.CheckCommand {
			proc.Go(func(_ context.Context) error {
				proc.Schedule(sub, arg0, arg1, arg2)
				return nil
			})
		}

		return platform.Success()
	}
}

// MustRun creates a kernel with the given drivers, runs the body and fails
// the test on any error.
func MustRun(
	tb testing.TB,
	body func(platform.Kernel),
	drivers ...Driver,
) (ExitStatus, Calls) {
	tb.Helper()

	k, err := New(drivers...)
	if err != nil {
		tb.Fatalf("new kernel: %v", err)
	}

	status, err := k.Run(tb.Context(), body)
	if err != nil {
		tb.Fatalf("run: %v", err)
	}

	return status, k.Calls()
}
