// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

// Package demo provides built-in applications for the simulated kernel.
//
// [Image] is a small image with pointers into flash and into its own memory.
// [Console] is the matching application. It prints the relocated values, so
// the relocation result can be checked by eye. [Inspect] works with any image
// and prints the resolved offset table.
package demo

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/aibor/tockrt/console"
	"github.com/aibor/tockrt/internal/image"
	"github.com/aibor/tockrt/internal/memory"
	"github.com/aibor/tockrt/platform"
	"github.com/aibor/tockrt/startup"
)

// Name is the file name of the demo image.
const Name = "demo.tbf"

// StackSize is the stack size declared by the demo image.
const StackSize = 0x100

// HelloWorld is placed into the text segment of the demo image.
const HelloWorld = "Hello World!"

// Result is the initial value of the initialized word in memory.
const Result = 0x42

// Memory layout of the demo image.
const (
	gotHelloWorld = 0
	gotResult     = 4
	gotSize       = 8

	dataResult        = 0
	dataResultRef     = 4
	dataHelloWorldRef = 8
)

// ErrUnmapped is returned if an address points neither into flash nor into
// memory.
var ErrUnmapped = errors.New("address not mapped")

// Image builds the demo image.
func Image() ([]byte, error) {
	builder := &image.Builder{
		Text: []byte(HelloWorld),
		GOT: []image.Location{
			gotHelloWorld / image.WordSize: image.FlashRelative(image.HeaderSize),
			gotResult / image.WordSize:     image.MemoryRelative(gotSize + dataResult),
		},
		Data:      binary.LittleEndian.AppendUint32(nil, Result),
		StackSize: StackSize,
	}

	if err := builder.AddDataPointer(dataResultRef, image.MemoryRelative(gotSize+dataResult)); err != nil {
		return nil, err
	}

	if err := builder.AddDataPointer(dataHelloWorldRef, image.FlashRelative(image.HeaderSize)); err != nil {
		return nil, err
	}

	flash, _, err := builder.Build()
	if err != nil {
		return nil, fmt.Errorf("build: %w", err)
	}

	return flash, nil
}

// addressSpace resolves absolute addresses of a process.
type addressSpace struct {
	flash memory.Flash
	mem   memory.Region
}

func (a addressSpace) load(addr, size uint32) ([]byte, error) {
	flashBase := uint32(a.flash.Base())
	memBase := uint32(a.mem.Base())

	switch {
	case addr >= memBase && uint64(addr) < uint64(memBase)+uint64(a.mem.Len()):
		return a.mem.Slice(addr-memBase, size) //nolint:wrapcheck
	case addr >= flashBase && uint64(addr) < uint64(flashBase)+uint64(a.flash.Len()):
		return a.flash.Slice(addr-flashBase, size) //nolint:wrapcheck
	default:
		return nil, fmt.Errorf("%w: 0x%08x", ErrUnmapped, addr)
	}
}

func (a addressSpace) word(addr uint32) (uint32, error) {
	b, err := a.load(addr, image.WordSize)
	if err != nil {
		return 0, err
	}

	return binary.LittleEndian.Uint32(b), nil
}

// memWord reads a word of the memory region by its offset.
func (a addressSpace) memWord(offset uint32) (uint32, error) {
	value, err := a.mem.Word(offset)
	return uint32(value), err //nolint:wrapcheck
}

// Console returns the demo application for a process running the demo image.
func Console(flash memory.Flash, mem memory.Region) startup.App {
	space := addressSpace{flash: flash, mem: mem}

	return startup.SetMain(func(s *platform.Syscalls) error {
		return printContent(console.NewWriter(s), space)
	}).WithStackSize(StackSize)
}

func printContent(w io.Writer, space addressSpace) error {
	memBase := uint32(space.mem.Base())

	helloWorldAddr, err := space.memWord(gotHelloWorld)
	if err != nil {
		return err
	}

	helloWorld, err := space.load(helloWorldAddr, uint32(len(HelloWorld)))
	if err != nil {
		return err
	}

	helloWorldRef, err := space.memWord(gotSize + dataHelloWorldRef)
	if err != nil {
		return err
	}

	helloWorldDeref, err := space.load(helloWorldRef, uint32(len(HelloWorld)))
	if err != nil {
		return err
	}

	resultAddr, err := space.memWord(gotResult)
	if err != nil {
		return err
	}

	result, err := space.word(resultAddr)
	if err != nil {
		return err
	}

	resultRef, err := space.memWord(gotSize + dataResultRef)
	if err != nil {
		return err
	}

	resultDeref, err := space.word(resultRef)
	if err != nil {
		return err
	}

	lines := []struct {
		format string
		args   []any
	}{
		{"\n", nil},
		{"Content in Flash\n", nil},
		{"  HELLO_WORLD      = %s\n", []any{helloWorld}},
		{"  &HELLO_WORLD     = %d\n", []any{helloWorldAddr}},
		{"  *HELLO_WORLD_REF = %s\n", []any{helloWorldDeref}},
		{"  HELLO_WORLD_REF  = %d\n", []any{helloWorldRef}},
		{"  &HELLO_WORLD_REF = %d\n", []any{memBase + gotSize + dataHelloWorldRef}},
		{"\n", nil},
		{"Content in RAM\n", nil},
		{"  RESULT      = %d\n", []any{result}},
		{"  &RESULT     = %d\n", []any{resultAddr}},
		{"  *RESULT_REF = %d\n", []any{resultDeref}},
		{"  RESULT_REF  = %d\n", []any{resultRef}},
		{"  &RESULT_REF = %d\n", []any{memBase + gotSize + dataResultRef}},
		{"\n", nil},
	}

	for _, line := range lines {
		if _, err := fmt.Fprintf(w, line.format, line.args...); err != nil {
			return fmt.Errorf("print: %w", err)
		}
	}

	return nil
}

// Inspect returns an application printing the header and the resolved offset
// table of any image.
func Inspect(flash memory.Flash, mem memory.Region) startup.App {
	return startup.SetMain(func(s *platform.Syscalls) error {
		w := console.NewWriter(s)

		hdr, err := flash.Header()
		if err != nil {
			return fmt.Errorf("header: %w", err)
		}

		if _, err := fmt.Fprintf(w, "flash %s, memory %s, footprint %d bytes\n",
			flash.Base(), mem.Base(), hdr.MemoryFootprint()); err != nil {
			return fmt.Errorf("print: %w", err)
		}

		for idx := range uint32(hdr.GOTEntries()) {
			offset := hdr.GOTStart + idx*image.WordSize

			value, err := mem.Word(offset)
			if err != nil {
				return fmt.Errorf("offset table entry %d: %w", idx, err)
			}

			if _, err := fmt.Fprintf(w, "  got[%d] = 0x%08x\n", idx, uint32(value)); err != nil {
				return fmt.Errorf("print: %w", err)
			}
		}

		return nil
	})
}
