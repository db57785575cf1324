// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package kernel

import (
	"context"

	"github.com/aibor/tockrt/platform"
)

// Driver is a kernel driver.
type Driver interface {
	// Num returns the driver number the driver is registered with.
	Num() platform.DriverNum

	// Command handles a command of the process. It must not block. Long
	// running work is done by [Process.Go].
	Command(proc *Process, cmd platform.CommandNum, arg0, arg1 uint32) platform.CommandReturn
}

// AllowChecker may be implemented by a [Driver] to reject buffer numbers.
type AllowChecker interface {
	CheckAllow(buffer platform.BufferNum) error
}

// SubscribeChecker may be implemented by a [Driver] to reject subscribe
// numbers.
type SubscribeChecker interface {
	CheckSubscribe(sub platform.SubscribeNum) error
}

// Process is the view of a driver on the process.
type Process struct {
	kernel *Kernel
	driver platform.DriverNum
	ctx    context.Context //nolint:containedctx
}

// ReadOnly returns a copy of the buffer currently shared with the driver in
// the given slot.
func (p *Process) ReadOnly(buffer platform.BufferNum) ([]byte, bool) {
	return p.kernel.readOnly(bufferSlot{p.driver, buffer})
}

// Schedule queues an upcall for the process. It is delivered the next time
// the process yields. It returns false if the process has no registration
// for the slot or an upcall for it is pending already.
func (p *Process) Schedule(sub platform.SubscribeNum, arg0, arg1, arg2 uint32) bool {
	return p.kernel.schedule(upcallSlot{p.driver, sub}, [3]uint32{arg0, arg1, arg2})
}

// Go runs asynchronous driver work. The context is canceled once the process
// ended. Errors are returned by [Kernel.Run].
func (p *Process) Go(fn func(ctx context.Context) error) {
	p.kernel.mu.Lock()
	work := p.kernel.work
	p.kernel.mu.Unlock()

	work.Go(func() error {
		return fn(p.ctx)
	})
}
