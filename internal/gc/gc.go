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

// Package gc implements GarbageCollector: a conservative mark-and-sweep
// over the blob and delta keyspaces, seeded from every non-deleted
// FileState reachable through the manifest's version history.
package gc

import (
	"context"
	"fmt"

	"github.com/jcfvcs/jcfs/internal/blobstore"
	"github.com/jcfvcs/jcfs/internal/deltastore"
	"github.com/jcfvcs/jcfs/internal/model"
)

// Report summarizes one collection run.
type Report struct {
	BlobsChecked   int
	BlobsDeleted   int
	BytesFreed     int64
	DeltasChecked  int
	DeltasDeleted  int
}

// Run marks every blob hash and delta ref reachable from m's version
// history, then sweeps anything in blobs/deltas that isn't. It must
// not run concurrently with SaveCheckpoint against the same manifest.
func Run(ctx context.Context, m *model.Manifest, blobs *blobstore.Store, deltas *deltastore.Store) (Report, error) {
	liveBlobs := make(map[string]bool)
	liveDeltas := make(map[string]bool)

	for _, v := range m.VersionHistory {
		for _, fs := range v.FileStates {
			if fs.Deleted {
				continue
			}
			if fs.Hash != "" {
				liveBlobs[fs.Hash] = true
			}
			if fs.DeltaRef != "" {
				liveDeltas[fs.DeltaRef] = true
			}
		}
	}

	var rep Report

	blobHashes, err := blobs.List(ctx)
	if err != nil {
		return Report{}, fmt.Errorf("gc: list blobs: %w", err)
	}
	rep.BlobsChecked = len(blobHashes)

	for _, hash := range blobHashes {
		if liveBlobs[hash] {
			continue
		}
		size, sizeErr := blobs.Size(ctx, hash)
		if sizeErr != nil {
			// A Size or Delete failure during sweep skips that object
			// without failing the run; the failure is not reported.
			continue
		}
		if err := blobs.Delete(ctx, hash); err != nil {
			continue
		}
		rep.BlobsDeleted++
		rep.BytesFreed += size
	}

	deltaRefs, err := deltas.List(ctx)
	if err != nil {
		return Report{}, fmt.Errorf("gc: list deltas: %w", err)
	}
	rep.DeltasChecked = len(deltaRefs)

	for _, ref := range deltaRefs {
		if liveDeltas[ref] {
			continue
		}
		size, sizeErr := deltas.Size(ctx, ref)
		if sizeErr != nil {
			continue
		}
		if err := deltas.Delete(ctx, ref); err != nil {
			continue
		}
		rep.DeltasDeleted++
		rep.BytesFreed += size
	}

	return rep, nil
}
