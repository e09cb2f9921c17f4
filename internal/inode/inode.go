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

// Package inode implements InodeTable and RenameLog operations: the
// bookkeeping that gives a file a stable identity across renames, and
// the append-only log of rename events used to resolve a path's
// history back to that identity.
package inode

import (
	"fmt"

	"github.com/jcfvcs/jcfs/internal/model"
)

// placeholderVersionID marks a rename log entry not yet attached to a
// committed version; SaveCheckpoint resolves it to the new version id.
const placeholderVersionID = "<pending>"

// Rename moves the FileEntry for oldPath to newPath in m's file map
// and appends a pending RenameEntry to the rename log. The entry's
// version id is resolved by ResolvePending at the next checkpoint.
func Rename(m *model.Manifest, oldPath, newPath, now string) error {
	if oldPath == "" || newPath == "" {
		return fmt.Errorf("rename: path must not be empty")
	}

	entry, ok := m.FileMap[oldPath]
	if !ok {
		return fmt.Errorf("rename: %q not found", oldPath)
	}
	if _, exists := m.FileMap[newPath]; exists {
		return fmt.Errorf("rename: %q already exists", newPath)
	}

	delete(m.FileMap, oldPath)
	m.FileMap[newPath] = entry

	m.RenameLog = append(m.RenameLog, model.RenameEntry{
		Inode:     entry.Inode,
		FromPath:  oldPath,
		ToPath:    newPath,
		VersionID: placeholderVersionID,
		Timestamp: now,
	})
	return nil
}

// ResolvePending assigns versionID to every pending rename log entry,
// called once by SaveCheckpoint as it finalizes the new version.
func ResolvePending(m *model.Manifest, versionID string) {
	for i := range m.RenameLog {
		if m.RenameLog[i].VersionID == placeholderVersionID {
			m.RenameLog[i].VersionID = versionID
		}
	}
}

// PendingRenames returns the paths renamed since the last checkpoint
// (i.e. log entries not yet resolved to a version id).
func PendingRenames(m *model.Manifest) []model.RenameEntry {
	var out []model.RenameEntry
	for _, e := range m.RenameLog {
		if e.VersionID == placeholderVersionID {
			out = append(out, e)
		}
	}
	return out
}

// ValidateUnique reports an error if two file-map entries share an
// inode, violating the one-path-per-inode invariant.
func ValidateUnique(m *model.Manifest) error {
	seen := make(map[string]string, len(m.FileMap))
	for path, entry := range m.FileMap {
		if other, ok := seen[entry.Inode]; ok {
			return fmt.Errorf("inode %s bound to both %q and %q", entry.Inode, other, path)
		}
		seen[entry.Inode] = path
	}
	return nil
}

// History returns every Version whose FileStates mentions inode,
// ordered chronologically (manifest's VersionHistory is already
// append-ordered).
func History(m *model.Manifest, inode string) []model.Version {
	var out []model.Version
	for _, v := range m.VersionHistory {
		for _, fs := range v.FileStates {
			if fs.Inode == inode {
				out = append(out, v)
				break
			}
		}
	}
	return out
}

// ResolveInode follows the rename log backwards from path to find the
// stable inode that currently owns it, either via the live file map or
// (if the path is not in the file map) via the most recent rename entry
// naming it as source or destination. A path that left the file map
// without ever taking part in a rename is not found.
func ResolveInode(m *model.Manifest, path string) (string, bool) {
	if entry, ok := m.FileMap[path]; ok {
		return entry.Inode, true
	}

	for i := len(m.RenameLog) - 1; i >= 0; i-- {
		e := m.RenameLog[i]
		if e.ToPath == path || e.FromPath == path {
			return e.Inode, true
		}
	}
	return "", false
}

// GetFileHistory resolves path to its stable inode and returns every
// version that touched it, chronologically. It returns the same
// result regardless of which historical name of the inode is passed.
func GetFileHistory(m *model.Manifest, path string) ([]model.Version, error) {
	id, ok := ResolveInode(m, path)
	if !ok {
		return nil, fmt.Errorf("no file history for %q", path)
	}
	return History(m, id), nil
}
