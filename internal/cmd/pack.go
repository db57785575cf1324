// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/aibor/tockrt/internal/bundle"
)

// writeBundle packs the entries into a bundle at path. A partially written
// file is removed on failure.
func writeBundle(w io.Writer, path string, entries []bundle.Entry) (err error) {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create bundle: %w", err)
	}

	defer func() {
		closeErr := file.Close()
		if err == nil && closeErr != nil {
			err = fmt.Errorf("close bundle: %w", closeErr)
		}

		if err != nil {
			err = errors.Join(err, os.Remove(path))
		}
	}()

	if err := bundle.Write(file, entries); err != nil {
		return fmt.Errorf("write bundle: %w", err)
	}

	fmt.Fprintf(w, "bundle with %d images written to %s\n", len(entries), path)

	return nil
}
