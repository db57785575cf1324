// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

// Package reloc turns a flash image and an uninitialized memory region into a
// valid memory image for the current placement of the process.
//
// The steps must run in this order, as later steps operate on segments
// written by earlier ones:
//
//  1. [FixGOT] writes absolute addresses into the offset table.
//  2. [CopyData] copies the initialized data.
//  3. [ZeroBSS] zeroes the uninitialized data.
//  4. [Relocate] corrects every word named by the relocation table in place.
//
// [Apply] runs all of them. Every access is bounds checked. Any inconsistency
// between the header and the actual bytes is reported as
// [image.ErrMalformedImage] and the memory region must be considered
// corrupted.
package reloc
