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
	"context"
	"fmt"

	"github.com/jcfvcs/jcfs/internal/inode"
	"github.com/jcfvcs/jcfs/internal/model"
	"github.com/jcfvcs/jcfs/internal/versiongraph"
)

// DoctorReport is the result of a non-mutating consistency check.
type DoctorReport struct {
	VersionsChecked int
	MissingBlobs    []string // hashes referenced by a live FileState but absent from BlobStore
	MissingDeltas   []string // refs referenced by a live FileState but absent from DeltaStore
}

// OK reports whether the report found no problems.
func (r DoctorReport) OK() bool {
	return len(r.MissingBlobs) == 0 && len(r.MissingDeltas) == 0
}

// Doctor re-validates the manifest's structural invariants (acyclic
// version history, head resolves, one path per inode — the same
// checks Open runs) and additionally confirms every blob and delta a
// live FileState references actually resolves in the backend. It
// mutates nothing.
func (r *Repository) Doctor(ctx context.Context) (DoctorReport, error) {
	if err := versiongraph.ValidateAcyclic(r.manifest.VersionHistory); err != nil {
		return DoctorReport{}, newErr(KindCorruptManifest, "Doctor", err)
	}
	if head := r.manifest.Head(); head != "" {
		if _, ok := r.manifest.FindVersion(head); !ok {
			return DoctorReport{}, newErr(KindCorruptManifest, "Doctor", fmt.Errorf("head %s not found in history", head))
		}
	}
	if err := inode.ValidateUnique(r.manifest); err != nil {
		return DoctorReport{}, newErr(KindCorruptManifest, "Doctor", err)
	}

	rep := DoctorReport{VersionsChecked: len(r.manifest.VersionHistory)}
	seenBlobs := make(map[string]bool)
	seenDeltas := make(map[string]bool)

	for _, v := range r.manifest.VersionHistory {
		for path, fs := range v.FileStates {
			if fs.Deleted {
				continue
			}
			// Hash is only a BlobStore key for binary files; for text
			// files it is purely a change-detection fingerprint and is
			// never written to BlobStore.
			if fs.Hash != "" && r.classifyFn(path) == model.KindBinary && !seenBlobs[fs.Hash] {
				seenBlobs[fs.Hash] = true
				ok, err := r.blobs.Has(ctx, fs.Hash)
				if err != nil {
					return DoctorReport{}, newErr(KindStorageError, "Doctor", err)
				}
				if !ok {
					rep.MissingBlobs = append(rep.MissingBlobs, fs.Hash)
				}
			}
			if fs.DeltaRef != "" && !seenDeltas[fs.DeltaRef] {
				seenDeltas[fs.DeltaRef] = true
				ok, err := r.deltas.HasNamed(ctx, fs.DeltaRef)
				if err != nil {
					return DoctorReport{}, newErr(KindStorageError, "Doctor", err)
				}
				if !ok {
					rep.MissingDeltas = append(rep.MissingDeltas, fs.DeltaRef)
				}
			}
		}
	}

	return rep, nil
}
