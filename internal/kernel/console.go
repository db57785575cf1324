// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package kernel

import (
	"context"
	"io"
	"log/slog"
	"sync/atomic"

	"github.com/aibor/tockrt/console"
	"github.com/aibor/tockrt/platform"
)

// DefaultMaxWrite is the default number of bytes the console driver writes
// per command.
const DefaultMaxWrite = 64

// Console is a text console driver writing into an [io.Writer].
//
// Each write command writes at most MaxWrite bytes of the shared buffer and
// reports the number of bytes written by upcall.
type Console struct {
	out      io.Writer
	maxWrite int
	busy     atomic.Bool
}

var (
	_ Driver           = (*Console)(nil)
	_ AllowChecker     = (*Console)(nil)
	_ SubscribeChecker = (*Console)(nil)
)

// NewConsole creates a console writing into out. If maxWrite is zero or less,
// [DefaultMaxWrite] is used.
func NewConsole(out io.Writer, maxWrite int) *Console {
	if maxWrite <= 0 {
		maxWrite = DefaultMaxWrite
	}

	return &Console{
		out:      out,
		maxWrite: maxWrite,
	}
}

// Num implements [Driver].
func (*Console) Num() platform.DriverNum {
	return console.DriverNum
}

// CheckAllow implements [AllowChecker].
func (*Console) CheckAllow(buffer platform.BufferNum) error {
	if buffer != console.WriteBuffer {
		return platform.ErrNoSupport
	}

	return nil
}

// CheckSubscribe implements [SubscribeChecker].
func (*Console) CheckSubscribe(sub platform.SubscribeNum) error {
	if sub != console.WriteCallback {
		return platform.ErrNoSupport
	}

	return nil
}

// Command implements [Driver].
func (c *Console) Command(
	proc *Process,
	cmd platform.CommandNum,
	arg0, _ uint32,
) platform.CommandReturn {
	switch cmd {
	case platform.CheckCommand:
		return platform.Success()
	case console.WriteCommand:
		return c.write(proc, int(arg0))
	default:
		return platform.Failure(platform.ErrNoSupport)
	}
}

func (c *Console) write(proc *Process, length int) platform.CommandReturn {
	if !c.busy.CompareAndSwap(false, true) {
		return platform.Failure(platform.ErrBusy)
	}

	data, shared := proc.ReadOnly(console.WriteBuffer)
	if !shared {
		c.busy.Store(false)
		return platform.Failure(platform.ErrReserve)
	}

	chunk := data[:min(length, len(data), c.maxWrite)]

	proc.Go(func(ctx context.Context) error {
		if ctx.Err() != nil {
			c.busy.Store(false)
			return nil
		}

		written, err := c.out.Write(chunk)
		if err != nil {
			slog.Error("Console write failed", slog.Any("error", err))
		}

		c.busy.Store(false)
		proc.Schedule(console.WriteCallback, uint32(written), 0, 0)

		return nil
	})

	return platform.Success()
}
