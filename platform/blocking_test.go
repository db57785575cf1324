// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package platform_test

import (
	"testing"

	"github.com/aibor/tockrt/internal/kernel"
	"github.com/aibor/tockrt/platform"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testDriver platform.DriverNum    = 7
	testCmd    platform.CommandNum   = 1
	testBuffer platform.BufferNum    = 2
	testSub    platform.SubscribeNum = 3
)

var testOp = platform.Operation{
	Driver:    testDriver,
	Command:   testCmd,
	Buffer:    testBuffer,
	Subscribe: testSub,
	Data:      []byte("hello"),
	Arg0:      5,
}

func runBlocking(
	t *testing.T,
	op platform.Operation,
	drivers ...kernel.Driver,
) (uint32, kernel.Calls, error) {
	t.Helper()

	var (
		result uint32
		err    error
	)

	status, calls := kernel.MustRun(t, func(k platform.Kernel) {
		result, err = platform.Blocking(platform.New(k), op, platform.FirstArg)
	}, drivers...)

	assert.Equal(t, kernel.StateReturned, status.State)

	return result, calls, err
}

func TestBlocking_ZeroLength(t *testing.T) {
	for _, data := range [][]byte{nil, {}} {
		op := testOp
		op.Data = data

		result, calls, err := runBlocking(t, op, &kernel.FuncDriver{
			Number:    testDriver,
			CommandFn: kernel.CompleteWith(testSub, 7, 0, 0),
		})
		require.NoError(t, err)

		assert.Zero(t, result)
		assert.Empty(t, calls, "no syscalls")
	}
}

func TestBlocking_Success(t *testing.T) {
	tests := []struct {
		name     string
		args     [3]uint32
		expected uint32
	}{
		{
			name:     "value",
			args:     [3]uint32{7, 0, 0},
			expected: 7,
		},
		{
			name:     "zero arguments",
			args:     [3]uint32{0, 0, 0},
			expected: 0,
		},
		{
			name:     "only first argument used",
			args:     [3]uint32{42, 1, 2},
			expected: 42,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			driver := &kernel.FuncDriver{
				Number:    testDriver,
				CommandFn: kernel.CompleteWith(testSub, tt.args[0], tt.args[1], tt.args[2]),
			}

			result, calls, err := runBlocking(t, testOp, driver)
			require.NoError(t, err)

			assert.Equal(t, tt.expected, result)
			assert.Equal(t, []string{
				"command(7, 0, 0, 0)",
				"allow-ro(7, 2)",
				"subscribe(7, 3)",
				"command(7, 1, 5, 0)",
				"yield-wait()",
				"subscribe(7, 3, nil)",
				"allow-ro(7, 2, nil)",
			}, calls.Strings())
		})
	}
}

func TestBlocking_NoArgs(t *testing.T) {
	driver := &kernel.FuncDriver{
		Number:    testDriver,
		CommandFn: kernel.CompleteWith(testSub, 0, 0, 0),
	}

	var err error

	_, calls := kernel.MustRun(t, func(k platform.Kernel) {
		_, err = platform.Blocking(platform.New(k), testOp, platform.NoArgs)
	}, driver)

	require.NoError(t, err)
	assert.Equal(t, 1, calls.Count(kernel.OpYieldWait))
}

func TestBlocking_Failures(t *testing.T) {
	tests := []struct {
		name          string
		drivers       []kernel.Driver
		expectedErr   error
		expectedCode  platform.ErrorCode
		expectedCalls []string
	}{
		{
			name:         "driver absent",
			expectedErr:  platform.ErrDriverAbsent,
			expectedCode: platform.ErrNoDevice,
			expectedCalls: []string{
				"command(7, 0, 0, 0)",
			},
		},
		{
			name: "check rejected",
			drivers: []kernel.Driver{
				&kernel.FuncDriver{
					Number: testDriver,
					CommandFn: func(*kernel.Process, platform.CommandNum, uint32, uint32) platform.CommandReturn {
						return platform.Failure(platform.ErrNoSupport)
					},
				},
			},
			expectedErr:  platform.ErrDriverAbsent,
			expectedCode: platform.ErrNoSupport,
			expectedCalls: []string{
				"command(7, 0, 0, 0)",
			},
		},
		{
			name: "allow rejected",
			drivers: []kernel.Driver{
				&kernel.FuncDriver{
					Number:   testDriver,
					AllowErr: platform.ErrInval,
				},
			},
			expectedErr:  &platform.SyscallError{},
			expectedCode: platform.ErrInval,
			expectedCalls: []string{
				"command(7, 0, 0, 0)",
				"allow-ro(7, 2)",
			},
		},
		{
			name: "subscribe rejected",
			drivers: []kernel.Driver{
				&kernel.FuncDriver{
					Number:       testDriver,
					SubscribeErr: platform.ErrNoMem,
				},
			},
			expectedErr:  &platform.SyscallError{},
			expectedCode: platform.ErrNoMem,
			expectedCalls: []string{
				"command(7, 0, 0, 0)",
				"allow-ro(7, 2)",
				"subscribe(7, 3)",
				"allow-ro(7, 2, nil)",
			},
		},
		{
			name: "command rejected",
			drivers: []kernel.Driver{
				&kernel.FuncDriver{
					Number: testDriver,
					CommandFn: func(_ *kernel.Process, cmd platform.CommandNum, _, _ uint32) platform.CommandReturn {
						if cmd == platform.CheckCommand {
							return platform.Success()
						}

						return platform.Failure(platform.ErrBusy)
					},
				},
			},
			expectedErr:  &platform.SyscallError{},
			expectedCode: platform.ErrBusy,
			expectedCalls: []string{
				"command(7, 0, 0, 0)",
				"allow-ro(7, 2)",
				"subscribe(7, 3)",
				"command(7, 1, 5, 0)",
				"subscribe(7, 3, nil)",
				"allow-ro(7, 2, nil)",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, calls, err := runBlocking(t, testOp, tt.drivers...)
			require.ErrorIs(t, err, tt.expectedErr)
			require.ErrorIs(t, err, tt.expectedCode)

			assert.Zero(t, result)
			assert.Equal(t, tt.expectedCalls, calls.Strings())
			assert.Zero(t, calls.Count(kernel.OpYieldWait), "never yields")
		})
	}
}

func TestBlocking_IgnoresOtherUpcalls(t *testing.T) {
	const otherSub platform.SubscribeNum = 9

	driver := &kernel.FuncDriver{
		Number: testDriver,
		CommandFn: func(proc *kernel.Process, cmd platform.CommandNum, _, _ uint32) platform.CommandReturn {
			if cmd == testCmd {
				// Both are queued before the process yields, so the
				// unrelated one is delivered first.
				proc.Schedule(otherSub, 1, 0, 0)
				proc.Schedule(testSub, 7, 0, 0)
			}

			return platform.Success()
		},
	}

	var (
		other  []uint32
		result uint32
		err    error
	)

	_, calls := kernel.MustRun(t, func(k platform.Kernel) {
		s := platform.New(k)

		err = platform.Scope(func(h *platform.Handle[platform.Callback]) error {
			upcall := platform.UpcallFunc(func(arg0, _, _ uint32) {
				other = append(other, arg0)
			})

			if err := s.Subscribe(h, testDriver, otherSub, upcall); err != nil {
				return err
			}

			result, err = platform.Blocking(s, testOp, platform.FirstArg)

			return err
		})
	}, driver)

	require.NoError(t, err)
	assert.Equal(t, uint32(7), result)
	assert.Equal(t, []uint32{1}, other)
	assert.Equal(t, 2, calls.Count(kernel.OpYieldWait))
}
