// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package startup

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/aibor/tockrt/internal/exitcode"
	"github.com/aibor/tockrt/internal/memory"
	"github.com/aibor/tockrt/internal/reloc"
	"github.com/aibor/tockrt/platform"
)

// DefaultStackSize is the stack size of applications that do not declare
// one.
const DefaultStackSize uint32 = 0x400

// MainFunc is the main function of an application. A returned
// [exitcode.Error] sets the completion code. Any other error results in
// [exitcode.Failure].
type MainFunc func(s *platform.Syscalls) error

// App is the declaration of an application.
type App struct {
	Main      MainFunc
	StackSize uint32
}

// SetMain declares the main function of an application with the
// [DefaultStackSize].
func SetMain(fn MainFunc) App {
	return App{
		Main:      fn,
		StackSize: DefaultStackSize,
	}
}

// WithStackSize returns a copy of the application with the given stack size.
// Zero resets it to [DefaultStackSize].
func (a App) WithStackSize(size uint32) App {
	if size == 0 {
		size = DefaultStackSize
	}

	a.StackSize = size

	return a
}

// Start runs the application in the process described by flash and mem.
//
// The memory image is built first. If that fails, the main function is not
// run and the process ends with [exitcode.Fault]. Otherwise the main function
// runs exactly once. Panics are recovered from. Its result is turned into the
// completion code of the terminate syscall.
//
// Start never returns. If the kernel returns from the exit syscall, Start
// panics with [ErrReturned].
func Start(app App, flash memory.Flash, mem memory.Region, kernel platform.Kernel) {
	s := platform.New(kernel)

	err := prepare(app, flash, mem)
	if err == nil {
		err = runMain(app.Main, s)
	}

	complete(s, err)

	panic(ErrReturned)
}

// prepare builds the memory image. Errors carry [exitcode.Fault].
func prepare(app App, flash memory.Flash, mem memory.Region) error {
	hdr, err := flash.Header()
	if err != nil {
		return fault(err)
	}

	stackSize := max(app.StackSize, hdr.StackSize)

	required := hdr.MemoryFootprint() + uint64(stackSize)
	if required > uint64(mem.Len()) {
		return fault(fmt.Errorf("%w: need %d bytes, have %d",
			ErrMemoryTooSmall, required, mem.Len()))
	}

	if err := reloc.Apply(flash, mem); err != nil {
		return fault(err)
	}

	slog.Debug("Memory image ready",
		slog.String("flash", flash.Base().String()),
		slog.String("memory", mem.Base().String()),
		slog.Uint64("footprint", hdr.MemoryFootprint()),
		slog.Uint64("stack", uint64(stackSize)),
	)

	return nil
}

func fault(err error) error {
	return errors.Join(exitcode.Error(exitcode.Fault), err)
}

func runMain(fn MainFunc, s *platform.Syscalls) (err error) {
	defer func() {
		rec := recover()
		if rec == nil {
			return
		}

		if recoveredErr, ok := rec.(error); ok {
			err = fmt.Errorf("%w: %w", ErrPanic, recoveredErr)
		} else {
			err = fmt.Errorf("%w: %v", ErrPanic, rec)
		}
	}()

	if fn == nil {
		return ErrNoMain
	}

	return fn(s)
}

// complete terminates the process with the completion code for err.
func complete(s *platform.Syscalls, err error) {
	code, isExitErr := exitcode.From(err)
	if err != nil && (!isExitErr || code == exitcode.Fault) {
		slog.Error("Process failed", slog.Any("error", err))
	}

	s.Terminate(code)
}
