// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package cmd

import (
	"errors"
	"flag"
	"fmt"
)

var (
	// ErrHelp is returned if help or version information was requested.
	ErrHelp = flag.ErrHelp

	// ErrReadBuildInfo is returned if the build information is not
	// available.
	ErrReadBuildInfo = errors.New("failed to read build info")

	// ErrValueOutOfRange is returned by flag values outside their limits.
	ErrValueOutOfRange = errors.New("value is outside of range")

	// ErrNoImages is returned if neither image files nor the demo image are
	// given.
	ErrNoImages = errors.New("no images given")
)

// ParseArgsError wraps errors that occur during argument parsing.
type ParseArgsError struct {
	err error
	msg string
}

func (e *ParseArgsError) Error() string {
	if e.err == nil {
		return e.msg
	}

	return fmt.Sprintf("%s: %v", e.msg, e.err)
}

func (e *ParseArgsError) Is(other error) bool {
	_, ok := other.(*ParseArgsError)
	return ok
}

func (e *ParseArgsError) Unwrap() error {
	return e.err
}

// ImageError wraps errors of processing a single image.
type ImageError struct {
	Name string
	Err  error
}

func (e *ImageError) Error() string {
	return fmt.Sprintf("image %s: %v", e.Name, e.Err)
}

func (e *ImageError) Is(other error) bool {
	_, ok := other.(*ImageError)
	return ok
}

func (e *ImageError) Unwrap() error {
	return e.Err
}
