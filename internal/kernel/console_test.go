// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package kernel_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/aibor/tockrt/console"
	"github.com/aibor/tockrt/internal/kernel"
	"github.com/aibor/tockrt/platform"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// gatedWriter blocks writes until release is closed.
type gatedWriter struct {
	release chan struct{}
	bytes.Buffer
}

func (w *gatedWriter) Write(p []byte) (int, error) {
	<-w.release
	return w.Buffer.Write(p)
}

func TestConsole_Print(t *testing.T) {
	tests := []struct {
		name     string
		maxWrite int
		text     string
		expected string
	}{
		{
			name:     "fits",
			maxWrite: 8,
			text:     "hello",
			expected: "hello",
		},
		{
			name:     "truncated",
			maxWrite: 4,
			text:     "hello",
			expected: "hell",
		},
		{
			name:     "default limit",
			text:     strings.Repeat("a", 100),
			expected: strings.Repeat("a", kernel.DefaultMaxWrite),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var (
				out     bytes.Buffer
				written uint32
				err     error
			)

			kernel.MustRun(t, func(k platform.Kernel) {
				written, err = console.Print(platform.New(k), []byte(tt.text))
			}, kernel.NewConsole(&out, tt.maxWrite))

			require.NoError(t, err)
			assert.Equal(t, tt.expected, out.String())
			assert.Equal(t, uint32(len(tt.expected)), written)
		})
	}
}

func TestConsole_Command(t *testing.T) {
	tests := []struct {
		name     string
		allow    bool
		cmd      platform.CommandNum
		expected platform.CommandReturn
	}{
		{
			name:     "check",
			cmd:      platform.CheckCommand,
			expected: platform.Success(),
		},
		{
			name:     "write without buffer",
			cmd:      console.WriteCommand,
			expected: platform.Failure(platform.ErrReserve),
		},
		{
			name:     "unknown command",
			allow:    true,
			cmd:      42,
			expected: platform.Failure(platform.ErrNoSupport),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var (
				out bytes.Buffer
				ret platform.CommandReturn
			)

			kernel.MustRun(t, func(k platform.Kernel) {
				if tt.allow {
					require.NoError(t, k.AllowReadOnly(console.DriverNum, console.WriteBuffer, []byte("x")))
				}

				ret = k.Command(console.DriverNum, tt.cmd, 1, 0)
			}, kernel.NewConsole(&out, 0))

			assert.Equal(t, tt.expected, ret)
			assert.Empty(t, out.String())
		})
	}
}

func TestConsole_Busy(t *testing.T) {
	out := &gatedWriter{release: make(chan struct{})}

	var first, second platform.CommandReturn

	upcalls := new(recordedUpcalls)

	kernel.MustRun(t, func(k platform.Kernel) {
		require.NoError(t, k.AllowReadOnly(console.DriverNum, console.WriteBuffer, []byte("abc")))
		require.NoError(t, k.Subscribe(console.DriverNum, console.WriteCallback, upcalls))

		first = k.Command(console.DriverNum, console.WriteCommand, 3, 0)
		second = k.Command(console.DriverNum, console.WriteCommand, 3, 0)

		close(out.release)
		k.YieldWait()
	}, kernel.NewConsole(out, 0))

	assert.Equal(t, platform.Success(), first)
	assert.Equal(t, platform.Failure(platform.ErrBusy), second)
	assert.Equal(t, "abc", out.String())
	assert.Equal(t, recordedUpcalls{{3, 0, 0}}, *upcalls)
}

func TestConsole_Registrations(t *testing.T) {
	c := kernel.NewConsole(new(bytes.Buffer), 0)

	require.NoError(t, c.CheckAllow(console.WriteBuffer))
	require.ErrorIs(t, c.CheckAllow(console.WriteBuffer+1), platform.ErrNoSupport)
	require.NoError(t, c.CheckSubscribe(console.WriteCallback))
	require.ErrorIs(t, c.CheckSubscribe(console.WriteCallback+1), platform.ErrNoSupport)
}
