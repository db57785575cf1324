// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package cmd

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/aibor/tockrt/internal/bundle"
	"github.com/aibor/tockrt/internal/demo"
	"github.com/aibor/tockrt/internal/image"
	"github.com/aibor/tockrt/internal/kernel"
	"github.com/aibor/tockrt/internal/memory"
	"github.com/aibor/tockrt/internal/reloc"
	"github.com/aibor/tockrt/platform"
	"github.com/aibor/tockrt/startup"
)

const memFileExt = ".mem"

// result is the outcome of processing a single image.
type result struct {
	Name    string
	Header  image.Header
	OutFile string

	// Set if the process was run.
	Ran     bool
	Status  kernel.ExitStatus
	Console []byte
}

type processor struct {
	FlashBase image.FlashAddr
	MemBase   image.MemAddr
	MemSize   uint64
	OutDir    string
	Run       bool
}

func newProcessor(cfg *flags) *processor {
	return &processor{
		FlashBase: cfg.FlashBase,
		MemBase:   cfg.MemBase,
		MemSize:   cfg.MemSize,
		OutDir:    cfg.OutDir,
		Run:       cfg.Run,
	}
}

// process places the image into its own memory mapping and builds its
// memory image, either directly or by running the process.
func (p *processor) process(ctx context.Context, entry bundle.Entry) (result, error) {
	res := result{Name: entry.Name}

	flash := memory.NewFlash(p.FlashBase, entry.Data)

	hdr, err := flash.Header()
	if err != nil {
		return res, fmt.Errorf("header: %w", err)
	}

	res.Header = hdr

	mapping, err := memory.Map(int(p.MemSize))
	if err != nil {
		return res, fmt.Errorf("memory: %w", err)
	}
	defer closeMapping(entry.Name, mapping)

	mem := mapping.Region(p.MemBase)

	if p.Run {
		if err := p.start(ctx, &res, flash, mem); err != nil {
			return res, err
		}
	} else if err := reloc.Apply(flash, mem); err != nil {
		return res, fmt.Errorf("relocate: %w", err)
	}

	if p.OutDir != "" {
		res.OutFile, err = p.writeMemory(entry.Name, hdr, mem)
		if err != nil {
			return res, err
		}
	}

	return res, nil
}

func (p *processor) start(
	ctx context.Context,
	res *result,
	flash memory.Flash,
	mem memory.Region,
) error {
	var out bytes.Buffer

	k, err := kernel.New(kernel.NewConsole(&out, kernel.DefaultMaxWrite))
	if err != nil {
		return fmt.Errorf("kernel: %w", err)
	}

	newApp := demo.Inspect
	if res.Name == demo.Name {
		newApp = demo.Console
	}

	app := newApp(flash, mem)

	status, err := k.Run(ctx, func(pk platform.Kernel) {
		startup.Start(app, flash, mem, pk)
	})
	if err != nil {
		return fmt.Errorf("run: %w", err)
	}

	slog.Debug("Process ended",
		slog.String("image", res.Name),
		slog.String("status", status.String()),
		slog.Int("syscalls", len(k.Calls())),
	)

	res.Ran = true
	res.Status = status
	res.Console = out.Bytes()

	return nil
}

// writeMemory writes the part of the region covered by the segments.
func (p *processor) writeMemory(
	name string,
	hdr image.Header,
	mem memory.Region,
) (string, error) {
	size := min(hdr.MemoryFootprint(), uint64(mem.Len()))

	fileName := strings.TrimSuffix(strings.ReplaceAll(name, "/", "_"), bundle.Ext)
	path := filepath.Join(p.OutDir, fileName+memFileExt)

	if err := os.WriteFile(path, mem.Bytes()[:size], 0o644); err != nil { //nolint:gosec
		return "", fmt.Errorf("write memory image: %w", err)
	}

	return path, nil
}

func closeMapping(name string, mapping *memory.Mapping) {
	if err := mapping.Close(); err != nil {
		slog.Error("Failed to unmap memory",
			slog.String("image", name),
			slog.Any("error", err),
		)
	}
}
