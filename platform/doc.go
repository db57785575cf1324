// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

// Package platform provides the syscall interface applications use to talk
// to the kernel.
//
// Buffers and callbacks are handed to the kernel only for the duration of a
// capability scope, see [Scope]. A [Handle] can only be obtained inside the
// function passed to [Scope] and whatever was registered with it is revoked
// before [Scope] returns, on every exit path including panics. A handle that
// escapes its scope is closed and rejects any further use with
// [ErrScopeClosed].
//
// Upcalls are only delivered while the process is suspended in
// [Syscalls.YieldWait] or [Syscalls.YieldNoWait]. They run synchronously on
// the yielding goroutine and must neither block nor yield themselves.
//
// The typical blocking driver operation, shown for a text console:
//
//	func Print(s *platform.Syscalls, text []byte) (uint32, error) {
//		return platform.Blocking(s, platform.Operation{
//			Driver:    1,
//			Command:   1,
//			Buffer:    1,
//			Subscribe: 1,
//			Data:      text,
//			Arg0:      uint32(len(text)),
//		}, platform.FirstArg)
//	}
package platform
