// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

// Package startup is the entry sequence of an application process.
//
// An application declares its main function and stack size once:
//
//	var app = startup.SetMain(run).WithStackSize(0x800)
//
// The kernel side then calls [Start] with the flash image and the memory
// region of the process. Start builds the memory image, runs the main
// function exactly once and ends the process with the completion code
// derived from its result. It never returns.
package startup
