// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package cmd

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/aibor/tockrt/internal/bundle"
	"github.com/aibor/tockrt/internal/demo"
)

// loadImages reads the given files. Bundles are expanded into their images,
// any other file is a single image named like the file.
func loadImages(paths []string, withDemo bool) ([]bundle.Entry, error) {
	var entries []bundle.Entry

	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read image: %w", err)
		}

		if !bundle.IsBundle(data) {
			entries = append(entries, bundle.Entry{
				Name: filepath.Base(path),
				Data: data,
			})

			continue
		}

		bundleEntries, err := bundle.Read(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("read bundle %s: %w", path, err)
		}

		slog.Debug("Read bundle",
			slog.String("path", path),
			slog.Int("images", len(bundleEntries)),
		)

		entries = append(entries, bundleEntries...)
	}

	if withDemo {
		data, err := demo.Image()
		if err != nil {
			return nil, fmt.Errorf("demo image: %w", err)
		}

		entries = append(entries, bundle.Entry{Name: demo.Name, Data: data})
	}

	seen := map[string]bool{}

	for _, entry := range entries {
		if seen[entry.Name] {
			return nil, fmt.Errorf("%w: %s", bundle.ErrDuplicateName, entry.Name)
		}

		seen[entry.Name] = true
	}

	return entries, nil
}
