// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package cmd

import (
	"errors"
	"fmt"
	"strconv"
)

// ErrUnaligned is returned for addresses that are not word aligned.
var ErrUnaligned = errors.New("address is not word aligned")

const wordSize = 4

type limitedUintValue struct {
	Value    *uint64
	min, max uint64
}

func (u *limitedUintValue) String() string {
	if u.Value == nil {
		return "0"
	}

	return strconv.FormatUint(*u.Value, 10)
}

func (u *limitedUintValue) Set(s string) error {
	value, err := strconv.ParseUint(s, 0, 64)
	if err != nil {
		return fmt.Errorf("parse: %w", err)
	}

	if u.min > 0 && value < u.min {
		return fmt.Errorf("%d < %d: %w", value, u.min, ErrValueOutOfRange)
	}

	if u.max > 0 && value > u.max {
		return fmt.Errorf("%d > %d: %w", value, u.max, ErrValueOutOfRange)
	}

	*u.Value = value

	return nil
}

// addrValue is a word aligned 32 bit address. Hex, octal and binary values
// with the usual prefixes are accepted.
type addrValue[T ~uint32] struct {
	Value *T
}

func (a *addrValue[T]) String() string {
	if a.Value == nil {
		return "0x00000000"
	}

	return fmt.Sprintf("0x%08x", uint32(*a.Value))
}

func (a *addrValue[T]) Set(s string) error {
	value, err := strconv.ParseUint(s, 0, 32)
	if err != nil {
		return fmt.Errorf("parse: %w", err)
	}

	if value%wordSize != 0 {
		return fmt.Errorf("0x%x: %w", value, ErrUnaligned)
	}

	*a.Value = T(value)

	return nil
}
