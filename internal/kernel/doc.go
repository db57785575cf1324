// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

// Package kernel provides an in-process kernel that implements
// [platform.Kernel] for a single process.
//
// It keeps the share and subscription tables, queues upcalls scheduled by
// drivers and delivers them only while the process yields. Drivers may
// complete work asynchronously, see [Process.Go]. Every syscall is recorded,
// so tests can assert on the exact sequence issued by the runtime.
package kernel
