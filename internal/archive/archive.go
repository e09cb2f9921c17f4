/*
 * jcfs: versioned virtual file system engine
 * Copyright © 2026 The jcfs Authors
 *
 * This program is free software: you can redistribute it and/or modify
 * it under the terms of the GNU General Public License as published by
 * the Free Software Foundation, either version 3 of the License, or
 * (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU General Public License
 * along with this program. If not, see <https://www.gnu.org/licenses/>.
 */

// Package archive is a reference exporter/importer for the portable
// archive format: a gzipped tar stream whose first entry is a
// zero-length marker named "application/x-jcf", followed by
// "manifest.json" and then every object under ".store/". It is not
// part of the core engine's invariants — a convenience for moving a
// repository between backends.
package archive

import (
	"archive/tar"
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/jcfvcs/jcfs/storage"
)

// marker is the archive's leading sentinel entry, identifying the
// stream as a jcfs portable archive before a reader touches anything
// format-specific.
const marker = "application/x-jcf"

// manifestEntry is the path manifest bytes are written under.
const manifestEntry = "manifest.json"

// Export writes backend's manifest and every object under ".store/"
// to w as a gzipped tar stream.
func Export(ctx context.Context, w io.Writer, backend storage.Port) error {
	gw := gzip.NewWriter(w)
	tw := tar.NewWriter(gw)

	if err := writeEntry(tw, marker, nil); err != nil {
		return err
	}

	manifest, err := backend.Read(ctx, ".store/manifest.json")
	if err != nil {
		return fmt.Errorf("archive: read manifest: %w", err)
	}
	if err := writeEntry(tw, manifestEntry, manifest); err != nil {
		return err
	}

	paths, err := backend.List(ctx, ".store")
	if err != nil {
		return fmt.Errorf("archive: list .store: %w", err)
	}
	sort.Strings(paths)

	for _, p := range paths {
		if strings.HasSuffix(p, "manifest.json") {
			continue
		}
		data, err := backend.Read(ctx, p)
		if err != nil {
			return fmt.Errorf("archive: read %s: %w", p, err)
		}
		if err := writeEntry(tw, p, data); err != nil {
			return err
		}
	}

	if err := tw.Close(); err != nil {
		return fmt.Errorf("archive: close tar: %w", err)
	}
	if err := gw.Close(); err != nil {
		return fmt.Errorf("archive: close gzip: %w", err)
	}
	return nil
}

// Import reads a stream produced by Export and writes every entry
// into backend, verifying the leading marker before writing anything.
func Import(ctx context.Context, r io.Reader, backend storage.Port) error {
	gr, err := gzip.NewReader(r)
	if err != nil {
		return fmt.Errorf("archive: open gzip stream: %w", err)
	}
	defer gr.Close()

	tr := tar.NewReader(gr)

	hdr, err := tr.Next()
	if err != nil {
		return fmt.Errorf("archive: read leading entry: %w", err)
	}
	if hdr.Name != marker {
		return fmt.Errorf("archive: not a jcfs archive (got leading entry %q)", hdr.Name)
	}

	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("archive: read entry: %w", err)
		}

		data, err := io.ReadAll(tr)
		if err != nil {
			return fmt.Errorf("archive: read entry %s: %w", hdr.Name, err)
		}

		name := hdr.Name
		if name == manifestEntry {
			name = ".store/manifest.json"
		}
		if err := backend.Write(ctx, name, data); err != nil {
			return fmt.Errorf("archive: write %s: %w", name, err)
		}
	}

	return nil
}

func writeEntry(tw *tar.Writer, name string, data []byte) error {
	hdr := &tar.Header{
		Name: name,
		Mode: 0o644,
		Size: int64(len(data)),
	}
	if err := tw.WriteHeader(hdr); err != nil {
		return fmt.Errorf("archive: write header %s: %w", name, err)
	}
	if len(data) == 0 {
		return nil
	}
	if _, err := tw.Write(data); err != nil {
		return fmt.Errorf("archive: write body %s: %w", name, err)
	}
	return nil
}
