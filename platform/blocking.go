// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package platform

// Operation describes a driver operation that reads one shared buffer and
// signals its completion with one upcall.
type Operation struct {
	Driver    DriverNum
	Command   CommandNum
	Buffer    BufferNum
	Subscribe SubscribeNum
	Data      []byte
	Arg0      uint32
	Arg1      uint32
}

// Blocking runs the operation and suspends the process until its upcall
// fired. The upcall arguments are turned into the result by decode.
//
// An operation with empty data succeeds immediately with the zero value
// without issuing any syscall. Otherwise the driver is checked, the buffer is
// shared, the upcall is registered and the command is issued, in this order.
// The first failing step aborts the remaining ones and its error is returned.
// Buffer and upcall are revoked before Blocking returns.
func Blocking[T any](s *Syscalls, op Operation, decode DecodeFunc[T]) (T, error) {
	var result T

	if len(op.Data) == 0 {
		return result, nil
	}

	completion := NewOneShot(decode)

	err := Scopes(func(buffer *Handle[ReadOnlyBuffer], callback *Handle[Callback]) error {
		if err := s.Exists(op.Driver); err != nil {
			return err
		}

		if err := s.AllowRO(buffer, op.Driver, op.Buffer, op.Data); err != nil {
			return err
		}

		if err := s.Subscribe(callback, op.Driver, op.Subscribe, completion); err != nil {
			return err
		}

		cmdErr := s.Command(op.Driver, op.Command, op.Arg0, op.Arg1).ToResult()
		if cmdErr != nil {
			return syscallError("command", op.Driver, uint32(op.Command), cmdErr)
		}

		for !completion.Done() {
			s.YieldWait()
		}

		return nil
	})
	if err != nil {
		return result, err
	}

	return completion.Value()
}
