// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

// Package image describes the flash layout of a relocatable application
// image: the fixed header at the start of the image, the encoded address
// values stored in the offset table and data segments, and the relocation
// table appended after program flash.
//
// All offsets are relative to one of two bases, the flash base the image is
// loaded from or the memory base of the process region. Nothing in this
// package touches a memory region, see package reloc for that.
package image
