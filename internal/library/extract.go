// SPDX-License-Identifier: MPL-2.0

package library

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/kkx/mcl/internal/layout"
)

// maxEntryBytes bounds a single extracted native library (256 MB) to guard
// against decompression bombs.
const maxEntryBytes = 256 << 20

// ErrEntryTooLarge is returned when an archive entry exceeds maxEntryBytes.
var ErrEntryTooLarge = errors.New("archive entry too large")

// extract unpacks the file entries of the zip at archivePath into dest.
// Entries for which excluded returns true are skipped, directory entries are
// not materialized, and entry names are cleaned so every file lands inside dest.
func extract(archivePath, dest string, excluded func(name string) bool) error {
	// Non-local names are cleaned below, so ErrInsecurePath is not fatal.
	r, err := zip.OpenReader(archivePath)
	if err != nil && !errors.Is(err, zip.ErrInsecurePath) {
		return fmt.Errorf("opening archive: %w", err)
	}
	defer func() {
		// Read-only archive handle; close errors are exotic.
		_ = r.Close()
	}()

	for _, f := range r.File {
		if f.FileInfo().IsDir() || strings.HasSuffix(f.Name, "/") || excluded(f.Name) {
			continue
		}
		name := layout.Clean(f.Name)
		if name == "" {
			continue
		}
		if err := extractFile(f, filepath.Join(dest, filepath.FromSlash(name))); err != nil {
			return err
		}
	}
	return nil
}

func extractFile(f *zip.File, target string) (err error) {
	if f.UncompressedSize64 > maxEntryBytes {
		return fmt.Errorf("%w: %s (%d bytes)", ErrEntryTooLarge, f.Name, f.UncompressedSize64)
	}
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return fmt.Errorf("creating directory for %s: %w", f.Name, err)
	}

	rc, err := f.Open()
	if err != nil {
		return fmt.Errorf("opening entry %s: %w", f.Name, err)
	}
	defer func() { _ = rc.Close() }() // read-only entry reader

	out, err := os.Create(target)
	if err != nil {
		return fmt.Errorf("creating %s: %w", target, err)
	}
	defer func() {
		if closeErr := out.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	if _, err := io.Copy(out, io.LimitReader(rc, maxEntryBytes)); err != nil {
		return fmt.Errorf("writing %s: %w", target, err)
	}
	return nil
}
