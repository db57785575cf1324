// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package platform

// Variant is the kind of a [CommandReturn].
type Variant uint32

// Return variants defined by the kernel ABI. Failure variants carry the
// [ErrorCode] in their first argument.
const (
	VariantFailure          Variant = 0
	VariantFailureU32       Variant = 1
	VariantFailureU32U32    Variant = 2
	VariantFailureU64       Variant = 3
	VariantSuccess          Variant = 128
	VariantSuccessU32       Variant = 129
	VariantSuccessU32U32    Variant = 130
	VariantSuccessU64       Variant = 131
	VariantSuccessU32U32U32 Variant = 132
	VariantSuccessU32U64    Variant = 133
)

// CommandReturn is the result of a command syscall.
type CommandReturn struct {
	Variant Variant
	Args    [3]uint32
}

// Success returns a success without values.
func Success() CommandReturn {
	return CommandReturn{Variant: VariantSuccess}
}

// SuccessU32 returns a success with a single value.
func SuccessU32(value uint32) CommandReturn {
	return CommandReturn{
		Variant: VariantSuccessU32,
		Args:    [3]uint32{value},
	}
}

// Failure returns a failure with the given error code.
func Failure(code ErrorCode) CommandReturn {
	return CommandReturn{
		Variant: VariantFailure,
		Args:    [3]uint32{uint32(code)},
	}
}

// IsSuccess returns true for all success variants.
func (r CommandReturn) IsSuccess() bool {
	return r.Variant >= VariantSuccess
}

// ErrorCode returns the error code of a failure variant. It returns
// [ErrBadRVal] for failures without a valid code and 0 for successes.
func (r CommandReturn) ErrorCode() ErrorCode {
	if r.IsSuccess() {
		return 0
	}

	if r.Variant > VariantFailureU64 || r.Args[0] == 0 {
		return ErrBadRVal
	}

	return ErrorCode(r.Args[0])
}

// ToResult returns nil for all success variants and the [ErrorCode]
// otherwise.
func (r CommandReturn) ToResult() error {
	if r.IsSuccess() {
		return nil
	}

	return r.ErrorCode()
}

// U32 returns the value of a [VariantSuccessU32]. Other success variants
// result in [ErrBadRVal].
func (r CommandReturn) U32() (uint32, error) {
	if err := r.ToResult(); err != nil {
		return 0, err
	}

	if r.Variant != VariantSuccessU32 {
		return 0, ErrBadRVal
	}

	return r.Args[0], nil
}
