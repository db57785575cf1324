// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package kernel_test

import (
	"context"
	"testing"

	"github.com/aibor/tockrt/internal/kernel"
	"github.com/aibor/tockrt/platform"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testDriver platform.DriverNum    = 3
	testSub    platform.SubscribeNum = 0
	testBuffer platform.BufferNum    = 0
)

type recordedUpcalls [][3]uint32

func (r *recordedUpcalls) Upcall(a, b, c uint32) {
	*r = append(*r, [3]uint32{a, b, c})
}

func TestNew(t *testing.T) {
	_, err := kernel.New(
		&kernel.FuncDriver{Number: 1},
		&kernel.FuncDriver{Number: 1},
	)
	require.ErrorIs(t, err, kernel.ErrDriverExists)
}

func TestKernel_Run(t *testing.T) {
	tests := []struct {
		name     string
		body     func(platform.Kernel)
		expected kernel.ExitStatus
		calls    []string
	}{
		{
			name:     "returned",
			body:     func(platform.Kernel) {},
			expected: kernel.ExitStatus{State: kernel.StateReturned},
			calls:    []string{},
		},
		{
			name: "terminate",
			body: func(k platform.Kernel) {
				k.Exit(platform.ExitTerminate, 3)
				panic("unreachable")
			},
			expected: kernel.ExitStatus{
				State: kernel.StateExited,
				Kind:  platform.ExitTerminate,
				Code:  3,
			},
			calls: []string{"exit(terminate, 3)"},
		},
		{
			name: "restart",
			body: func(k platform.Kernel) {
				k.Exit(platform.ExitRestart, 0)
			},
			expected: kernel.ExitStatus{
				State: kernel.StateExited,
				Kind:  platform.ExitRestart,
			},
			calls: []string{"exit(restart, 0)"},
		},
		{
			name: "panicked",
			body: func(platform.Kernel) {
				panic("boom")
			},
			expected: kernel.ExitStatus{
				State: kernel.StatePanicked,
				Panic: "boom",
			},
			calls: []string{},
		},
		{
			name: "no pending upcall",
			body: func(k platform.Kernel) {
				if k.YieldNoWait() {
					panic("unexpected upcall")
				}
			},
			expected: kernel.ExitStatus{State: kernel.StateReturned},
			calls:    []string{"yield-no-wait()"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, calls := kernel.MustRun(t, tt.body)

			assert.Equal(t, tt.expected, status)
			assert.Equal(t, tt.calls, calls.Strings())
		})
	}
}

func TestKernel_Run_Killed(t *testing.T) {
	k, err := kernel.New()
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	var returned bool

	status, err := k.Run(ctx, func(k platform.Kernel) {
		k.YieldWait()

		returned = true
	})
	require.NoError(t, err)

	assert.Equal(t, kernel.StateKilled, status.State)
	assert.False(t, returned, "yield must not return")
}

func TestKernel_Run_AlreadyRunning(t *testing.T) {
	k, err := kernel.New()
	require.NoError(t, err)

	var nestedErr error

	_, err = k.Run(t.Context(), func(platform.Kernel) {
		_, nestedErr = k.Run(t.Context(), func(platform.Kernel) {})
	})
	require.NoError(t, err)
	require.ErrorIs(t, nestedErr, kernel.ErrAlreadyRunning)

	status, err := k.Run(t.Context(), func(platform.Kernel) {})
	require.NoError(t, err, "kernel can run again")
	assert.Equal(t, kernel.StateReturned, status.State)
}

func TestKernel_Run_WorkError(t *testing.T) {
	driver := &kernel.FuncDriver{
		Number: testDriver,
		CommandFn: func(proc *kernel.Process, _ platform.CommandNum, _, _ uint32) platform.CommandReturn {
			proc.Go(func(context.Context) error {
				return assert.AnError
			})

			return platform.Success()
		},
	}

	k, err := kernel.New(driver)
	require.NoError(t, err)

	_, err = k.Run(t.Context(), func(k platform.Kernel) {
		k.Command(testDriver, 1, 0, 0)
	})
	require.ErrorIs(t, err, assert.AnError)
}

func TestKernel_Command_NoDriver(t *testing.T) {
	var ret platform.CommandReturn

	_, calls := kernel.MustRun(t, func(k platform.Kernel) {
		ret = k.Command(testDriver, platform.CheckCommand, 0, 0)
	})

	assert.Equal(t, platform.Failure(platform.ErrNoDevice), ret)
	assert.Equal(t, []string{"command(3, 0, 0, 0)"}, calls.Strings())
}

func TestKernel_Registrations(t *testing.T) {
	tests := []struct {
		name         string
		driver       *kernel.FuncDriver
		allowErr     error
		subscribeErr error
	}{
		{
			name:   "accepted",
			driver: &kernel.FuncDriver{Number: testDriver},
		},
		{
			name:         "no driver",
			driver:       &kernel.FuncDriver{Number: testDriver + 1},
			allowErr:     platform.ErrNoDevice,
			subscribeErr: platform.ErrNoDevice,
		},
		{
			name: "rejected",
			driver: &kernel.FuncDriver{
				Number:       testDriver,
				AllowErr:     platform.ErrInval,
				SubscribeErr: platform.ErrNoSupport,
			},
			allowErr:     platform.ErrInval,
			subscribeErr: platform.ErrNoSupport,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var allowErr, subscribeErr error

			kernel.MustRun(t, func(k platform.Kernel) {
				allowErr = k.AllowReadOnly(testDriver, testBuffer, []byte("x"))
				subscribeErr = k.Subscribe(testDriver, testSub, new(recordedUpcalls))
			}, tt.driver)

			require.ErrorIs(t, allowErr, tt.allowErr)
			require.ErrorIs(t, subscribeErr, tt.subscribeErr)
		})
	}
}

func TestProcess_ReadOnly(t *testing.T) {
	var (
		seen   []byte
		shared bool
	)

	driver := &kernel.FuncDriver{
		Number: testDriver,
		CommandFn: func(proc *kernel.Process, _ platform.CommandNum, _, _ uint32) platform.CommandReturn {
			seen, shared = proc.ReadOnly(testBuffer)
			return platform.Success()
		},
	}

	kernel.MustRun(t, func(k platform.Kernel) {
		data := []byte("abc")
		require.NoError(t, k.AllowReadOnly(testDriver, testBuffer, data))

		k.Command(testDriver, 1, 0, 0)
		data[0] = 'x'
	}, driver)

	assert.True(t, shared)
	assert.Equal(t, []byte("abc"), seen, "driver gets a copy")
}

func TestProcess_Schedule(t *testing.T) {
	var scheduled []bool

	driver := &kernel.FuncDriver{
		Number: testDriver,
		CommandFn: func(proc *kernel.Process, cmd platform.CommandNum, _, _ uint32) platform.CommandReturn {
			scheduled = append(scheduled, proc.Schedule(testSub, uint32(cmd), 2, 3))
			return platform.Success()
		},
	}

	t.Run("delivered once", func(t *testing.T) {
		scheduled = nil
		upcalls := new(recordedUpcalls)

		_, calls := kernel.MustRun(t, func(k platform.Kernel) {
			require.NoError(t, k.Subscribe(testDriver, testSub, upcalls))

			k.Command(testDriver, 1, 0, 0)
			k.Command(testDriver, 2, 0, 0)

			assert.True(t, k.YieldNoWait())
			assert.False(t, k.YieldNoWait())
		}, driver)

		assert.Equal(t, []bool{true, false}, scheduled, "one pending per slot")
		assert.Equal(t, recordedUpcalls{{1, 2, 3}}, *upcalls)
		assert.Equal(t, 2, calls.Count(kernel.OpYieldNoWait))
	})

	t.Run("not subscribed", func(t *testing.T) {
		scheduled = nil

		kernel.MustRun(t, func(k platform.Kernel) {
			k.Command(testDriver, 1, 0, 0)
			assert.False(t, k.YieldNoWait())
		}, driver)

		assert.Equal(t, []bool{false}, scheduled)
	})

	t.Run("discarded on resubscribe", func(t *testing.T) {
		scheduled = nil
		first := new(recordedUpcalls)
		second := new(recordedUpcalls)

		kernel.MustRun(t, func(k platform.Kernel) {
			require.NoError(t, k.Subscribe(testDriver, testSub, first))
			k.Command(testDriver, 1, 0, 0)
			require.NoError(t, k.Subscribe(testDriver, testSub, second))

			assert.False(t, k.YieldNoWait())
		}, driver)

		assert.Equal(t, []bool{true}, scheduled)
		assert.Empty(t, *first)
		assert.Empty(t, *second)
	})

	t.Run("discarded on revoke", func(t *testing.T) {
		scheduled = nil
		upcalls := new(recordedUpcalls)

		kernel.MustRun(t, func(k platform.Kernel) {
			require.NoError(t, k.Subscribe(testDriver, testSub, upcalls))
			k.Command(testDriver, 1, 0, 0)
			require.NoError(t, k.Subscribe(testDriver, testSub, nil))

			assert.False(t, k.YieldNoWait())
		}, driver)

		assert.Empty(t, *upcalls)
	})
}

func TestKernel_YieldWait(t *testing.T) {
	driver := &kernel.FuncDriver{
		Number:    testDriver,
		CommandFn: kernel.CompleteWith(testSub, 7, 8, 9),
	}

	upcalls := new(recordedUpcalls)

	status, calls := kernel.MustRun(t, func(k platform.Kernel) {
		require.NoError(t, k.Subscribe(testDriver, testSub, upcalls))

		k.Command(testDriver, 1, 0, 0)
		k.YieldWait()
	}, driver)

	assert.Equal(t, kernel.StateReturned, status.State)
	assert.Equal(t, recordedUpcalls{{7, 8, 9}}, *upcalls)
	assert.Equal(t, []string{
		"subscribe(3, 0)",
		"command(3, 1, 0, 0)",
		"yield-wait()",
	}, calls.Strings())
}
