// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

// Package memory provides bounds checked views on the two address spaces a
// process is loaded with: the read-only flash image and the writable memory
// region.
package memory
