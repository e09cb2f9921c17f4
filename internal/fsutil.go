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

// Package internal holds CLI-support helpers shared by the cmd/jcfs
// subcommands that don't warrant their own package.
package internal

import (
	"path/filepath"
	"strings"
)

// IsUnderDir reports whether path resides within dir, used by the add
// and rm subcommands to reject paths that escape the project root via
// "..". Both are converted to absolute paths before comparison; a
// string-prefix check alone would misclassify "/foo/bar-baz" as being
// under "/foo/bar" and wouldn't catch ".." traversal.
//
// Symlinks are not resolved; callers needing symlink-aware containment
// should resolve both paths with filepath.EvalSymlinks first.
func IsUnderDir(path, dir string) (bool, error) {
	ap, err := filepath.Abs(path)
	if err != nil {
		return false, err
	}

	ad, err := filepath.Abs(dir)
	if err != nil {
		return false, err
	}

	// Compute relative path from dir -> path.
	rel, err := filepath.Rel(ad, ap)
	if err != nil {
		return false, err
	}

	if rel == "." {
		// path and dir are the same directory.
		return true, nil
	}

	// If rel begins with "..", then path escapes dir.
	if strings.HasPrefix(rel, ".."+string(filepath.Separator)) || rel == ".." {
		return false, nil
	}

	// Defensive: if Rel somehow returned an absolute path (shouldn't happen),
	// treat it as outside.
	if filepath.IsAbs(rel) {
		return false, nil
	}

	return true, nil
}
