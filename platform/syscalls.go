// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package platform

// Syscalls is the application facing syscall interface.
type Syscalls struct {
	kernel Kernel
}

// New returns the syscall interface for the given kernel.
func New(kernel Kernel) *Syscalls {
	return &Syscalls{kernel: kernel}
}

// Command triggers the given command of a driver.
func (s *Syscalls) Command(
	driver DriverNum,
	cmd CommandNum,
	arg0, arg1 uint32,
) CommandReturn {
	return s.kernel.Command(driver, cmd, arg0, arg1)
}

// Exists checks if the driver is present. A [*DriverAbsentError] is returned
// if not.
func (s *Syscalls) Exists(driver DriverNum) error {
	err := s.kernel.Command(driver, CheckCommand, 0, 0).ToResult()
	if err != nil {
		return &DriverAbsentError{Driver: driver, Err: err}
	}

	return nil
}

// AllowRO shares the given buffer with the driver until the scope of the
// handle ends.
func (s *Syscalls) AllowRO(
	handle *Handle[ReadOnlyBuffer],
	driver DriverNum,
	buffer BufferNum,
	data []byte,
) error {
	if err := handle.usable(); err != nil {
		return err
	}

	if data == nil {
		data = []byte{}
	}

	if err := s.kernel.AllowReadOnly(driver, buffer, data); err != nil {
		return syscallError("allow-ro", driver, uint32(buffer), err)
	}

	handle.hold(func() error {
		if err := s.kernel.AllowReadOnly(driver, buffer, nil); err != nil {
			return syscallError("unallow-ro", driver, uint32(buffer), err)
		}

		return nil
	})

	return nil
}

// Subscribe registers the upcall with the driver until the scope of the
// handle ends.
func (s *Syscalls) Subscribe(
	handle *Handle[Callback],
	driver DriverNum,
	sub SubscribeNum,
	upcall Upcall,
) error {
	if err := handle.usable(); err != nil {
		return err
	}

	if err := s.kernel.Subscribe(driver, sub, upcall); err != nil {
		return syscallError("subscribe", driver, uint32(sub), err)
	}

	handle.hold(func() error {
		if err := s.kernel.Subscribe(driver, sub, nil); err != nil {
			return syscallError("unsubscribe", driver, uint32(sub), err)
		}

		return nil
	})

	return nil
}

// YieldWait suspends the process until one upcall has run.
func (s *Syscalls) YieldWait() {
	s.kernel.YieldWait()
}

// YieldNoWait runs one pending upcall, if any. It returns false if none was
// pending.
func (s *Syscalls) YieldNoWait() bool {
	return s.kernel.YieldNoWait()
}

// Terminate ends the process with the given completion code. It does not
// return.
func (s *Syscalls) Terminate(code uint32) {
	s.kernel.Exit(ExitTerminate, code)
}

// Restart asks the kernel to restart the process. It does not return.
func (s *Syscalls) Restart(code uint32) {
	s.kernel.Exit(ExitRestart, code)
}

func syscallError(op string, driver DriverNum, id uint32, err error) error {
	return &SyscallError{
		Op:     op,
		Driver: driver,
		ID:     id,
		Err:    err,
	}
}
