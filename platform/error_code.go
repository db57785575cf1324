// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package platform

import "strconv"

// ErrorCode is an error returned by the kernel.
type ErrorCode uint32

// Error codes defined by the kernel ABI.
const (
	ErrFail        ErrorCode = 1
	ErrBusy        ErrorCode = 2
	ErrAlready     ErrorCode = 3
	ErrOff         ErrorCode = 4
	ErrReserve     ErrorCode = 5
	ErrInval       ErrorCode = 6
	ErrSize        ErrorCode = 7
	ErrCancel      ErrorCode = 8
	ErrNoMem       ErrorCode = 9
	ErrNoSupport   ErrorCode = 10
	ErrNoDevice    ErrorCode = 11
	ErrUninstalled ErrorCode = 12
	ErrNoAck       ErrorCode = 13

	// ErrBadRVal is used if the kernel returned a value the caller did not
	// expect, e.g. a success variant with the wrong number of values.
	ErrBadRVal ErrorCode = 1024
)

var errorCodeNames = map[ErrorCode]string{
	ErrFail:        "FAIL",
	ErrBusy:        "BUSY",
	ErrAlready:     "ALREADY",
	ErrOff:         "OFF",
	ErrReserve:     "RESERVE",
	ErrInval:       "INVAL",
	ErrSize:        "SIZE",
	ErrCancel:      "CANCEL",
	ErrNoMem:       "NOMEM",
	ErrNoSupport:   "NOSUPPORT",
	ErrNoDevice:    "NODEVICE",
	ErrUninstalled: "UNINSTALLED",
	ErrNoAck:       "NOACK",
	ErrBadRVal:     "BADRVAL",
}

// Error implements the [error] interface.
func (e ErrorCode) Error() string {
	if name, exists := errorCodeNames[e]; exists {
		return name
	}

	return "error code " + strconv.FormatUint(uint64(e), 10)
}
