// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package cmd

import (
	"flag"
	"fmt"
	"io"

	"github.com/aibor/tockrt/internal/image"
)

const (
	name = "tockrt"

	flashBaseDefault = 0x0004_0000
	memBaseDefault   = 0x2000_0000

	memSizeDefault = 0x1_0000
	memSizeMin     = 0x400
	memSizeMax     = 0x100_0000

	jobsDefault = 4
	jobsMin     = 1
	jobsMax     = 64

	usageMessage = `Usage of 'tockrt':
    tockrt [flags...] image|bundle...

Relocate application images into fresh memory regions:
	tockrt -memBase=0x20004000 -out=/tmp/mem app.tbf

Run the built-in demo application in the simulated kernel:
	tockrt -demo -run

Pack images into a bundle:
	tockrt -bundle=apps.cpio one.tbf two.tbf

All tockrt flags can also be provided via environment variable TOCKRT_ARGS:
	TOCKRT_ARGS="-memSize=0x8000 -debug" tockrt app.tbf

All tockrt flags can also be provided via file ./.tockrt-args, with one
argument per line.
`
)

type flags struct {
	FlashBase image.FlashAddr
	MemBase   image.MemAddr
	MemSize   uint64
	Jobs      uint64
	OutDir    string
	BundleOut string

	Images []string

	Run        bool
	Demo       bool
	HeaderOnly bool
	Debug      bool
	Version    bool
}

func newFlagSet(cfg *flags, output io.Writer) *flag.FlagSet {
	fsName := name + " [flags...] image|bundle..."
	flagSet := flag.NewFlagSet(fsName, flag.ContinueOnError)
	flagSet.SetOutput(output)

	flagSet.Usage = func() {
		fmt.Fprint(flagSet.Output(), usageMessage)
		fmt.Fprintln(flagSet.Output(), "\nFlags:")
		flagSet.PrintDefaults()
	}

	flagSet.Var(
		&addrValue[image.FlashAddr]{Value: &cfg.FlashBase},
		"flashBase",
		"address the images are placed at in flash",
	)

	flagSet.Var(
		&addrValue[image.MemAddr]{Value: &cfg.MemBase},
		"memBase",
		"address of the memory region of each process",
	)

	flagSet.Var(
		&limitedUintValue{
			Value: &cfg.MemSize,
			min:   memSizeMin,
			max:   memSizeMax,
		},
		"memSize",
		"size (in bytes) of the memory region of each process",
	)

	flagSet.Var(
		&limitedUintValue{
			Value: &cfg.Jobs,
			min:   jobsMin,
			max:   jobsMax,
		},
		"jobs",
		"number of images processed in parallel",
	)

	flagSet.StringVar(
		&cfg.OutDir,
		"out",
		cfg.OutDir,
		"directory to write the relocated memory images into",
	)

	flagSet.StringVar(
		&cfg.BundleOut,
		"bundle",
		cfg.BundleOut,
		"write the images into a bundle file and exit",
	)

	flagSet.BoolVar(
		&cfg.Run,
		"run",
		cfg.Run,
		"run the processes in the simulated kernel",
	)

	flagSet.BoolVar(
		&cfg.Demo,
		"demo",
		cfg.Demo,
		"add the built-in demo image",
	)

	flagSet.BoolVar(
		&cfg.HeaderOnly,
		"header",
		cfg.HeaderOnly,
		"print the decoded image headers and exit",
	)

	flagSet.BoolVar(
		&cfg.Debug,
		"debug",
		cfg.Debug,
		"enable debug output",
	)

	flagSet.BoolVar(
		&cfg.Version,
		"version",
		cfg.Version,
		"show version and exit",
	)

	return flagSet
}

func parseArgs(args []string, output io.Writer) (*flags, error) {
	cfg := &flags{
		FlashBase: flashBaseDefault,
		MemBase:   memBaseDefault,
		MemSize:   memSizeDefault,
		Jobs:      jobsDefault,
	}

	flagSet := newFlagSet(cfg, output)

	// Parses arguments up to the first one that is not prefixed with a "-" or
	// is "--".
	if err := flagSet.Parse(args); err != nil {
		return nil, &ParseArgsError{msg: "flag parse", err: err}
	}

	if cfg.Version {
		return cfg, nil
	}

	cfg.Images = flagSet.Args()

	if len(cfg.Images) == 0 && !cfg.Demo {
		return nil, fail(flagSet, "no images given (or use -demo)", ErrNoImages)
	}

	return cfg, nil
}

// fail fails like flag does. It prints the error first and then usage.
func fail(flagSet *flag.FlagSet, msg string, err error) error {
	err = &ParseArgsError{msg: msg, err: err}
	fmt.Fprintln(flagSet.Output(), err.Error())

	flagSet.Usage()

	return err
}
