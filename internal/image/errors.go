// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package image

import "errors"

var (
	// ErrShortHeader is returned if less than [HeaderSize] bytes are given.
	ErrShortHeader = errors.New("image header too short")

	// ErrMalformedImage is returned if the relocation data is inconsistent
	// with the bytes available.
	ErrMalformedImage = errors.New("malformed image")

	// ErrOffsetOverflow is returned if an offset does not fit into the 31
	// bits available in an encoded address value.
	ErrOffsetOverflow = errors.New("offset exceeds 31 bits")
)
