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

// Package diffing implements DiffPort: computing and applying textual
// patches between two strings, with round-trip correctness as the
// only contract. The patch format is opaque to the rest of the
// engine and stored verbatim.
package diffing

import (
	"fmt"

	"github.com/sergi/go-diff/diffmatchpatch"
)

var dmp = diffmatchpatch.New()

// Compute returns a patch that transforms old into new. Applying it
// (via Apply) to old recovers new.
func Compute(old, new string) string {
	diffs := dmp.DiffMain(old, new, false)
	diffs = dmp.DiffCleanupSemantic(diffs)
	patches := dmp.PatchMake(old, diffs)
	return dmp.PatchToText(patches)
}

// Apply applies patch (as produced by Compute) to base, returning the
// resulting text. It fails if any hunk cannot be applied cleanly.
func Apply(patch string, base string) (string, error) {
	patches, err := dmp.PatchFromText(patch)
	if err != nil {
		return "", fmt.Errorf("parse patch: %w", err)
	}

	result, applied := dmp.PatchApply(patches, base)
	for i, ok := range applied {
		if !ok {
			return "", fmt.Errorf("hunk %d did not apply cleanly", i)
		}
	}
	return result, nil
}
