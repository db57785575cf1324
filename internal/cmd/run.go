// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime/debug"

	"github.com/aibor/tockrt/internal/bundle"
	"github.com/aibor/tockrt/internal/exitcode"
	"github.com/aibor/tockrt/internal/image"
	"github.com/aibor/tockrt/internal/kernel"
	"golang.org/x/sync/errgroup"
)

const localConfigFile = ".tockrt-args"

// IO provides output details for the command.
type IO struct {
	Stdout io.Writer
	Stderr io.Writer
}

func newFlags(args []string, cfg IO) (*flags, error) {
	args, err := MergedArgs(args, os.DirFS("."), localConfigFile)
	if err != nil {
		return nil, err
	}

	flags, err := parseArgs(args, cfg.Stderr)
	if err != nil {
		return nil, fmt.Errorf("parse args: %w", err)
	}

	return flags, nil
}

func run(ctx context.Context, flags *flags, cfg IO) error {
	entries, err := loadImages(flags.Images, flags.Demo)
	if err != nil {
		return err
	}

	if flags.HeaderOnly {
		return printHeaders(cfg.Stdout, flags, entries)
	}

	if flags.BundleOut != "" {
		return writeBundle(cfg.Stdout, flags.BundleOut, entries)
	}

	results, err := processAll(ctx, newProcessor(flags), entries, int(flags.Jobs))
	if err != nil {
		return err
	}

	return report(cfg.Stdout, results)
}

// processAll processes the entries concurrently. Results are in entry order.
func processAll(
	ctx context.Context,
	proc *processor,
	entries []bundle.Entry,
	jobs int,
) ([]result, error) {
	results := make([]result, len(entries))

	group, ctx := errgroup.WithContext(ctx)
	group.SetLimit(jobs)

	for idx, entry := range entries {
		group.Go(func() error {
			res, err := proc.process(ctx, entry)
			if err != nil {
				return &ImageError{Name: entry.Name, Err: err}
			}

			results[idx] = res

			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return nil, err //nolint:wrapcheck
	}

	return results, nil
}

// report prints the results. A process that did not complete successfully
// results in an [exitcode.Error].
func report(w io.Writer, results []result) error {
	var failed error

	for _, res := range results {
		if res.OutFile != "" {
			fmt.Fprintf(w, "%s: memory image written to %s\n", res.Name, res.OutFile)
		}

		if !res.Ran {
			continue
		}

		fmt.Fprintf(w, "%s: %s\n", res.Name, res.Status)

		if _, err := w.Write(res.Console); err != nil {
			return fmt.Errorf("write console output: %w", err)
		}

		if failed == nil {
			failed = completionError(res.Status)
		}
	}

	return failed
}

func completionError(status kernel.ExitStatus) error {
	switch {
	case status.State != kernel.StateExited:
		return exitcode.Error(exitcode.Failure)
	case status.Code != exitcode.Success:
		return exitcode.Error(status.Code)
	default:
		return nil
	}
}

func printHeaders(w io.Writer, flags *flags, entries []bundle.Entry) error {
	for _, entry := range entries {
		hdr, err := image.ParseHeader(entry.Data)
		if err != nil {
			return &ImageError{Name: entry.Name, Err: err}
		}

		fmt.Fprintf(w, "%s:\n", entry.Name)
		fmt.Fprintf(w, "  got        %s -> %s, %d bytes\n",
			flags.FlashBase.Add(hdr.GOTSymStart), flags.MemBase.Add(hdr.GOTStart), hdr.GOTSize)
		fmt.Fprintf(w, "  data       %s -> %s, %d bytes\n",
			flags.FlashBase.Add(hdr.DataSymStart), flags.MemBase.Add(hdr.DataStart), hdr.DataSize)
		fmt.Fprintf(w, "  bss        %s, %d bytes\n",
			flags.MemBase.Add(hdr.BSSStart), hdr.BSSSize)
		fmt.Fprintf(w, "  relocation %s\n", flags.FlashBase.Add(hdr.RelDataStart))
		fmt.Fprintf(w, "  stack      %d bytes\n", hdr.StackSize)
		fmt.Fprintf(w, "  required   %d bytes\n", hdr.RequiredMemory())
	}

	return nil
}

func handleParseArgsError(err error) int {
	// [ErrHelp] is returned when help is requested. So exit without error
	// in this case.
	if errors.Is(err, ErrHelp) {
		return 0
	}

	// ParseArgs already prints errors, so we just exit without an error.
	if !errors.Is(err, &ParseArgsError{}) {
		slog.Error(err.Error())
	}

	return -1
}

func handleRunError(err error) int {
	code, isExitErr := exitcode.From(err)

	// Do not print the error in case all images were processed and a process
	// properly communicated a non-zero completion code.
	if !isExitErr {
		slog.Error(err.Error())
		return -1
	}

	return int(int32(code)) //nolint:gosec
}

// Run is the main entry point for the CLI command.
func Run(ctx context.Context, args []string, cfg IO) int {
	setupLogging(cfg.Stderr, false)

	flags, err := newFlags(args, cfg)
	if err != nil {
		return handleParseArgsError(err)
	}

	setupLogging(cfg.Stderr, flags.Debug)

	if flags.Version {
		buildInfo, err := getBuildInfo()
		if err != nil {
			slog.Error(err.Error())
			return -1
		}

		fmt.Fprintf(cfg.Stdout, "Version: %s\n", buildInfo.Main.Version)

		return 0
	}

	err = run(ctx, flags, cfg)
	if err != nil {
		return handleRunError(err)
	}

	return 0
}

func getBuildInfo() (*debug.BuildInfo, error) {
	buildInfo, ok := debug.ReadBuildInfo()
	if !ok {
		return nil, ErrReadBuildInfo
	}

	return buildInfo, nil
}
