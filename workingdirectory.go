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

package jcfs

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/jcfvcs/jcfs/internal/inode"
	"github.com/jcfvcs/jcfs/internal/model"
)

// AddFile stages path in the working directory with the given
// content. If path is new, a fresh inode is minted for it; if path
// already exists, its content and modified time are updated in place
// (the inode and kind are unchanged).
func (r *Repository) AddFile(path string, content []byte) error {
	if path == "" {
		return newErr(KindInvalidInput, "AddFile", fmt.Errorf("empty path"))
	}

	now := r.now()
	cp := append([]byte(nil), content...)

	entry, exists := r.manifest.FileMap[path]
	if !exists {
		entry = model.FileEntry{
			Inode:     uuid.NewString(),
			Kind:      r.classify(path),
			CreatedAt: now,
		}
	}
	entry.ModifiedAt = now
	r.manifest.FileMap[path] = entry
	r.working[path] = cp
	return nil
}

// DeleteFile removes path from the working directory. It is not an
// error to delete a path that isn't currently present.
func (r *Repository) DeleteFile(path string) error {
	if path == "" {
		return newErr(KindInvalidInput, "DeleteFile", fmt.Errorf("empty path"))
	}
	delete(r.manifest.FileMap, path)
	delete(r.working, path)
	return nil
}

// RenameFile moves oldPath to newPath, preserving its inode and
// content, and appends a pending entry to the rename log that the
// next SaveCheckpoint resolves to a version id.
func (r *Repository) RenameFile(oldPath, newPath string) error {
	if oldPath == "" || newPath == "" {
		return newErr(KindInvalidInput, "RenameFile", fmt.Errorf("empty path"))
	}
	if _, ok := r.manifest.FileMap[oldPath]; !ok {
		return newErr(KindNotFound, "RenameFile", fmt.Errorf("%q not found", oldPath))
	}
	if _, ok := r.manifest.FileMap[newPath]; ok {
		return newErr(KindAlreadyExists, "RenameFile", fmt.Errorf("%q already exists", newPath))
	}

	if err := inode.Rename(r.manifest, oldPath, newPath, r.now()); err != nil {
		return newErr(KindInvalidInput, "RenameFile", err)
	}

	r.working[newPath] = r.working[oldPath]
	delete(r.working, oldPath)
	return nil
}

// ReadFile returns the current working-directory bytes for path.
func (r *Repository) ReadFile(path string) ([]byte, error) {
	content, ok := r.working[path]
	if !ok {
		return nil, newErr(KindNotFound, "ReadFile", fmt.Errorf("%q not found", path))
	}
	return append([]byte(nil), content...), nil
}

// ListFiles returns every path currently tracked in the working
// directory.
func (r *Repository) ListFiles() []string {
	out := make([]string, 0, len(r.manifest.FileMap))
	for p := range r.manifest.FileMap {
		out = append(out, p)
	}
	return out
}

// WorkingFiles returns a copy of every tracked path's current content,
// for callers (such as the CLI) that need to synchronize an external
// view of the working directory.
func (r *Repository) WorkingFiles() map[string][]byte {
	return cloneContent(r.working)
}

func (r *Repository) classify(path string) model.FileKind {
	return r.classifyFn(path)
}
