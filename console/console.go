// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

// Package console provides blocking text output through the console driver.
//
// [Writer] implements [io.Writer], so the fmt package serves as formatting
// front-end:
//
//	fmt.Fprintf(console.NewWriter(s), "counter: %d\n", counter)
package console

import (
	"io"

	"github.com/aibor/tockrt/platform"
)

// Console driver ABI.
const (
	DriverNum     platform.DriverNum    = 1
	WriteCommand  platform.CommandNum   = 1
	WriteCallback platform.SubscribeNum = 1
	WriteBuffer   platform.BufferNum    = 1
)

// Print writes the text to the console and blocks until the driver reported
// completion. It returns the number of bytes the driver wrote, which might be
// less than the length of text.
//
// Empty text returns immediately without contacting the kernel.
func Print(s *platform.Syscalls, text []byte) (uint32, error) {
	return platform.Blocking(s, platform.Operation{
		Driver:    DriverNum,
		Command:   WriteCommand,
		Buffer:    WriteBuffer,
		Subscribe: WriteCallback,
		Data:      text,
		Arg0:      uint32(len(text)),
	}, platform.FirstArg)
}

// Writer writes to the console. Each write blocks until all bytes are
// written.
type Writer struct {
	syscalls *platform.Syscalls
}

var _ io.Writer = (*Writer)(nil)

// NewWriter returns a new console writer.
func NewWriter(s *platform.Syscalls) *Writer {
	return &Writer{syscalls: s}
}

// Write implements [io.Writer]. It calls [Print] until all of p is written.
func (w *Writer) Write(p []byte) (int, error) {
	var total int

	for total < len(p) {
		written, err := Print(w.syscalls, p[total:])
		if err != nil {
			return total, err
		}

		if written == 0 {
			return total, io.ErrShortWrite
		}

		total += int(min(written, uint32(len(p)-total)))
	}

	return total, nil
}

// WriteString implements [io.StringWriter].
func (w *Writer) WriteString(s string) (int, error) {
	return w.Write([]byte(s))
}
