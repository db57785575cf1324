// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package kernel

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"slices"
	"sync"

	"github.com/aibor/tockrt/platform"
	"golang.org/x/sync/errgroup"
)

type bufferSlot struct {
	driver platform.DriverNum
	buffer platform.BufferNum
}

type upcallSlot struct {
	driver platform.DriverNum
	sub    platform.SubscribeNum
}

type pendingUpcall struct {
	slot upcallSlot
	args [3]uint32
}

// Kernel is an in-process kernel for a single process.
//
// The process body runs on its own goroutine, see [Kernel.Run]. Drivers may
// schedule upcalls from any goroutine.
type Kernel struct {
	mu sync.Mutex

	drivers map[platform.DriverNum]Driver
	allows  map[bufferSlot][]byte
	subs    map[upcallSlot]platform.Upcall
	pending []pendingUpcall
	calls   Calls
	exit    *ExitStatus
	running bool

	// ctx is canceled once the process ends. Driver work and yielding stop
	// then.
	ctx  context.Context //nolint:containedctx
	wake chan struct{}
	work *errgroup.Group
}

var _ platform.Kernel = (*Kernel)(nil)

// New creates a kernel with the given drivers.
func New(drivers ...Driver) (*Kernel, error) {
	k := &Kernel{
		drivers: make(map[platform.DriverNum]Driver),
		allows:  make(map[bufferSlot][]byte),
		subs:    make(map[upcallSlot]platform.Upcall),
		ctx:     context.Background(),
		wake:    make(chan struct{}, 1),
		work:    new(errgroup.Group),
	}

	for _, driver := range drivers {
		if _, exists := k.drivers[driver.Num()]; exists {
			return nil, fmt.Errorf("%w: %d", ErrDriverExists, driver.Num())
		}

		k.drivers[driver.Num()] = driver
	}

	return k, nil
}

// Run runs the process body on its own goroutine and returns once it ended and
// all pending driver work is done.
//
// The body ends by calling [Kernel.Exit], by returning or by panicking. If ctx
// is canceled while the process yields, the process is killed. The returned
// error is the first error of asynchronous driver work.
func (k *Kernel) Run(ctx context.Context, body func(platform.Kernel)) (ExitStatus, error) {
	k.mu.Lock()
	if k.running {
		k.mu.Unlock()
		return ExitStatus{}, ErrAlreadyRunning
	}

	procCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	k.running = true
	k.exit = nil
	k.ctx = procCtx
	k.work = new(errgroup.Group)
	work := k.work
	k.mu.Unlock()

	done := make(chan struct{})

	go func() {
		defer close(done)
		defer k.finish()

		body(k)

		k.setExit(ExitStatus{State: StateReturned})
	}()

	<-done
	cancel()

	err := work.Wait()

	k.mu.Lock()
	defer k.mu.Unlock()

	k.running = false
	status := *k.exit

	slog.Debug("Process ended", slog.String("status", status.String()))

	return status, err
}

// finish records the exit status of a body that neither returned nor exited.
func (k *Kernel) finish() {
	if rec := recover(); rec != nil {
		k.setExit(ExitStatus{State: StatePanicked, Panic: rec})
	}

	// The goroutine ended by [runtime.Goexit] from outside the kernel.
	k.setExit(ExitStatus{State: StateKilled})
}

// setExit records the exit status unless one is recorded already.
func (k *Kernel) setExit(status ExitStatus) {
	k.mu.Lock()
	defer k.mu.Unlock()

	if k.exit == nil {
		k.exit = &status
	}
}

// Calls returns all syscalls recorded so far.
func (k *Kernel) Calls() Calls {
	k.mu.Lock()
	defer k.mu.Unlock()

	return slices.Clone(k.calls)
}

func (k *Kernel) record(call Call) {
	k.calls = append(k.calls, call)

	slog.Debug("Syscall", slog.String("call", call.String()))
}

// Command implements [platform.Kernel].
func (k *Kernel) Command(
	driverNum platform.DriverNum,
	cmd platform.CommandNum,
	arg0, arg1 uint32,
) platform.CommandReturn {
	k.mu.Lock()
	k.record(Call{
		Op:     OpCommand,
		Driver: driverNum,
		ID:     uint32(cmd),
		Args:   [2]uint32{arg0, arg1},
	})
	driver, exists := k.drivers[driverNum]
	k.mu.Unlock()

	if !exists {
		return platform.Failure(platform.ErrNoDevice)
	}

	return driver.Command(k.process(driverNum), cmd, arg0, arg1)
}

// AllowReadOnly implements [platform.Kernel].
func (k *Kernel) AllowReadOnly(
	driverNum platform.DriverNum,
	buffer platform.BufferNum,
	data []byte,
) error {
	k.mu.Lock()
	defer k.mu.Unlock()

	k.record(Call{
		Op:     OpAllowRO,
		Driver: driverNum,
		ID:     uint32(buffer),
		Revoke: data == nil,
	})

	driver, exists := k.drivers[driverNum]
	if !exists {
		return platform.ErrNoDevice
	}

	if checker, ok := driver.(AllowChecker); ok && data != nil {
		if err := checker.CheckAllow(buffer); err != nil {
			return err //nolint:wrapcheck
		}
	}

	slot := bufferSlot{driverNum, buffer}
	if data == nil {
		delete(k.allows, slot)
	} else {
		k.allows[slot] = data
	}

	return nil
}

// Subscribe implements [platform.Kernel].
//
// Any pending upcall for the slot is discarded, so an upcall never reaches a
// registration made after it was scheduled.
func (k *Kernel) Subscribe(
	driverNum platform.DriverNum,
	sub platform.SubscribeNum,
	upcall platform.Upcall,
) error {
	k.mu.Lock()
	defer k.mu.Unlock()

	k.record(Call{
		Op:     OpSubscribe,
		Driver: driverNum,
		ID:     uint32(sub),
		Revoke: upcall == nil,
	})

	driver, exists := k.drivers[driverNum]
	if !exists {
		return platform.ErrNoDevice
	}

	if checker, ok := driver.(SubscribeChecker); ok && upcall != nil {
		if err := checker.CheckSubscribe(sub); err != nil {
			return err //nolint:wrapcheck
		}
	}

	slot := upcallSlot{driverNum, sub}

	k.pending = slices.DeleteFunc(k.pending, func(p pendingUpcall) bool {
		return p.slot == slot
	})

	if upcall == nil {
		delete(k.subs, slot)
	} else {
		k.subs[slot] = upcall
	}

	return nil
}

// YieldWait implements [platform.Kernel].
//
// If the process is stopped while waiting, it is killed and YieldWait does
// not return.
func (k *Kernel) YieldWait() {
	k.mu.Lock()
	k.record(Call{Op: OpYieldWait})
	ctx := k.ctx
	k.mu.Unlock()

	for !k.deliver() {
		select {
		case <-k.wake:
		case <-ctx.Done():
			k.setExit(ExitStatus{State: StateKilled})
			runtime.Goexit()
		}
	}
}

// YieldNoWait implements [platform.Kernel].
func (k *Kernel) YieldNoWait() bool {
	k.mu.Lock()
	k.record(Call{Op: OpYieldNoWait})
	k.mu.Unlock()

	return k.deliver()
}

// Exit implements [platform.Kernel]. It ends the process goroutine.
func (k *Kernel) Exit(kind platform.ExitKind, code uint32) {
	k.mu.Lock()
	k.record(Call{
		Op:   OpExit,
		ID:   uint32(kind),
		Args: [2]uint32{code},
	})
	k.mu.Unlock()

	k.setExit(ExitStatus{
		State: StateExited,
		Kind:  kind,
		Code:  code,
	})

	runtime.Goexit()
}

// deliver runs the oldest pending upcall. It returns false if there was
// none.
func (k *Kernel) deliver() bool {
	k.mu.Lock()

	if len(k.pending) == 0 {
		k.mu.Unlock()
		return false
	}

	next := k.pending[0]
	k.pending = k.pending[1:]
	// Subscribe discards pending upcalls of its slot, so the registration
	// is the one the upcall was scheduled for.
	upcall := k.subs[next.slot]

	k.mu.Unlock()

	upcall.Upcall(next.args[0], next.args[1], next.args[2])

	return true
}

// schedule queues an upcall for the given slot. It returns false if there is
// no registration for it or an upcall for it is pending already.
func (k *Kernel) schedule(slot upcallSlot, args [3]uint32) bool {
	k.mu.Lock()
	defer k.mu.Unlock()

	if _, subscribed := k.subs[slot]; !subscribed {
		return false
	}

	isPending := slices.ContainsFunc(k.pending, func(p pendingUpcall) bool {
		return p.slot == slot
	})
	if isPending {
		return false
	}

	k.pending = append(k.pending, pendingUpcall{slot: slot, args: args})

	select {
	case k.wake <- struct{}{}:
	default:
	}

	return true
}

func (k *Kernel) readOnly(slot bufferSlot) ([]byte, bool) {
	k.mu.Lock()
	defer k.mu.Unlock()

	data, exists := k.allows[slot]

	return bytes.Clone(data), exists
}

func (k *Kernel) process(driver platform.DriverNum) *Process {
	k.mu.Lock()
	defer k.mu.Unlock()

	return &Process{
		kernel: k,
		driver: driver,
		ctx:    k.ctx,
	}
}
