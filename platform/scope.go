// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package platform

import "errors"

// ReadOnlyBuffer is the [Capability] of a buffer shared read-only with a
// driver.
type ReadOnlyBuffer struct{}

// Callback is the [Capability] of an upcall registered with a driver.
type Callback struct{}

// Capability is the kind of registration a [Handle] holds.
type Capability interface {
	ReadOnlyBuffer | Callback
}

// Handle holds at most one registration with the kernel. It is only valid
// inside the function passed to [Scope].
type Handle[T Capability] struct {
	closed bool
	revoke func() error
}

// Scope runs fn with a fresh [Handle].
//
// Once fn returns or panics, the registration held by the handle is revoked
// and the handle is closed before Scope returns. A revocation error is joined
// with the error returned by fn.
func Scope[T Capability](fn func(*Handle[T]) error) (err error) {
	handle := new(Handle[T])

	defer func() {
		if revokeErr := handle.close(); revokeErr != nil {
			err = errors.Join(err, revokeErr)
		}
	}()

	return fn(handle)
}

// Scopes opens a buffer scope with a nested callback scope, as needed by most
// blocking driver operations.
func Scopes(fn func(*Handle[ReadOnlyBuffer], *Handle[Callback]) error) error {
	return Scope(func(buffer *Handle[ReadOnlyBuffer]) error {
		return Scope(func(callback *Handle[Callback]) error {
			return fn(buffer, callback)
		})
	})
}

// usable returns an error if the handle can not take a registration.
func (h *Handle[T]) usable() error {
	switch {
	case h == nil, h.closed:
		return ErrScopeClosed
	case h.revoke != nil:
		return ErrHandleInUse
	default:
		return nil
	}
}

// hold stores the revocation of a successful registration.
func (h *Handle[T]) hold(revoke func() error) {
	h.revoke = revoke
}

func (h *Handle[T]) close() error {
	revoke := h.revoke

	h.revoke = nil
	h.closed = true

	if revoke == nil {
		return nil
	}

	return revoke()
}
