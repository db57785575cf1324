// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

// Package bundle reads and writes archives of application images.
//
// A bundle is a newc cpio archive. Regular files with the [Ext] suffix are
// images. Everything else is ignored on read.
package bundle

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/cavaliergopher/cpio"
)

// Ext is the file name suffix of images in a bundle.
const Ext = ".tbf"

const (
	magic    = "070701"
	fileMode = cpio.TypeReg | 0o644
)

var (
	// ErrNoImages is returned if a bundle does not contain any image.
	ErrNoImages = errors.New("no images in bundle")

	// ErrInvalidName is returned for entry names without [Ext] suffix.
	ErrInvalidName = errors.New("invalid image name")

	// ErrDuplicateName is returned if an entry name is used twice.
	ErrDuplicateName = errors.New("duplicate image name")
)

// Entry is an image in a bundle.
type Entry struct {
	Name string
	Data []byte
}

// IsBundle returns true if data starts like a newc cpio archive.
func IsBundle(data []byte) bool {
	return bytes.HasPrefix(data, []byte(magic))
}

// Read returns all images of the bundle in archive order.
func Read(r io.Reader) ([]Entry, error) {
	reader := cpio.NewReader(r)
	seen := map[string]bool{}

	var entries []Entry

	for {
		hdr, err := reader.Next()
		if errors.Is(err, io.EOF) {
			break
		}

		if err != nil {
			return nil, fmt.Errorf("read header: %w", err)
		}

		if !hdr.Mode.IsRegular() || path.Ext(hdr.Name) != Ext {
			continue
		}

		name := strings.TrimPrefix(path.Clean(hdr.Name), "/")
		if seen[name] {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateName, name)
		}

		seen[name] = true

		data, err := io.ReadAll(reader)
		if err != nil {
			return nil, fmt.Errorf("read body for %s: %w", name, err)
		}

		entries = append(entries, Entry{Name: name, Data: data})
	}

	if len(entries) == 0 {
		return nil, ErrNoImages
	}

	return entries, nil
}

// Write writes the entries as bundle.
func Write(w io.Writer, entries []Entry) error {
	if len(entries) == 0 {
		return ErrNoImages
	}

	writer := cpio.NewWriter(w)
	seen := map[string]bool{}

	for _, entry := range entries {
		if path.Ext(entry.Name) != Ext {
			return fmt.Errorf("%w: %s", ErrInvalidName, entry.Name)
		}

		if seen[entry.Name] {
			return fmt.Errorf("%w: %s", ErrDuplicateName, entry.Name)
		}

		seen[entry.Name] = true

		hdr := &cpio.Header{
			Name: entry.Name,
			Mode: fileMode,
			Size: int64(len(entry.Data)),
		}

		if err := writer.WriteHeader(hdr); err != nil {
			return fmt.Errorf("write header for %s: %w", entry.Name, err)
		}

		if _, err := writer.Write(entry.Data); err != nil {
			return fmt.Errorf("write body for %s: %w", entry.Name, err)
		}
	}

	if err := writer.Close(); err != nil {
		return fmt.Errorf("close: %w", err)
	}

	return nil
}
