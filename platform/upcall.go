// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package platform

// Upcall is a callback the kernel invokes with up to three arguments.
type Upcall interface {
	Upcall(arg0, arg1, arg2 uint32)
}

// UpcallFunc adapts a function to [Upcall].
type UpcallFunc func(arg0, arg1, arg2 uint32)

// Upcall implements [Upcall].
func (f UpcallFunc) Upcall(arg0, arg1, arg2 uint32) {
	f(arg0, arg1, arg2)
}

// DecodeFunc turns upcall arguments into a value.
type DecodeFunc[T any] func(arg0, arg1, arg2 uint32) T

// FirstArg is a [DecodeFunc] returning the first argument.
func FirstArg(arg0, _, _ uint32) uint32 {
	return arg0
}

// NoArgs is a [DecodeFunc] for upcalls that only signal completion.
func NoArgs(_, _, _ uint32) struct{} {
	return struct{}{}
}

// OneShot is a pending completion that is fulfilled by exactly one upcall.
//
// It is not safe for concurrent use. Upcalls are run on the yielding
// goroutine, so no synchronization is needed.
type OneShot[T any] struct {
	decode  DecodeFunc[T]
	value   T
	done    bool
	overrun bool
}

// NewOneShot returns a pending completion using the given decode function.
func NewOneShot[T any](decode DecodeFunc[T]) *OneShot[T] {
	return &OneShot[T]{decode: decode}
}

// Upcall implements [Upcall]. Only the first upcall is recorded.
func (o *OneShot[T]) Upcall(arg0, arg1, arg2 uint32) {
	if o.done {
		o.overrun = true
		return
	}

	o.value = o.decode(arg0, arg1, arg2)
	o.done = true
}

// Done returns true once the upcall fired.
func (o *OneShot[T]) Done() bool {
	return o.done
}

// Value returns the value delivered by the upcall.
//
// [ErrNotCompleted] is returned if the upcall has not fired yet. If it fired
// more than once, the first value is returned with [ErrUpcallOverrun].
func (o *OneShot[T]) Value() (T, error) {
	if !o.done {
		var zero T
		return zero, ErrNotCompleted
	}

	if o.overrun {
		return o.value, ErrUpcallOverrun
	}

	return o.value, nil
}

// Reset returns the completion to pending for reuse.
func (o *OneShot[T]) Reset() {
	var zero T

	o.value = zero
	o.done = false
	o.overrun = false
}
