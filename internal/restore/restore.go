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

// Package restore implements RestoreVersion: walking the version graph
// from HEAD back to a target version and reconstructing the working
// directory to match it exactly.
package restore

import (
	"context"
	"errors"
	"fmt"

	"github.com/jcfvcs/jcfs/internal/blobstore"
	"github.com/jcfvcs/jcfs/internal/crypt"
	"github.com/jcfvcs/jcfs/internal/deltastore"
	"github.com/jcfvcs/jcfs/internal/diffing"
	"github.com/jcfvcs/jcfs/internal/model"
	"github.com/jcfvcs/jcfs/internal/versiongraph"
)

// ErrVersionNotFound indicates targetID does not name any version in
// the manifest's history.
var ErrVersionNotFound = errors.New("version not found")

// Deps bundles everything Run needs.
type Deps struct {
	Manifest *model.Manifest
	Working  map[string][]byte // mutated in place to become the target's content
	Blobs    *blobstore.Store
	Deltas   *deltastore.Store
	Classify func(path string) model.FileKind
	Key      *crypt.Key
	Verify   bool // verify blob hashes on read; deltas always surface apply failures
}

// Run mutates d.Working to match targetID's recorded state, then
// updates d.Manifest's head and file map. It returns an error without
// having committed the head update if the target doesn't exist or the
// version graph has no path from the current head to it; partial
// working-directory writes made before such a failure are not rolled
// back, per the engine's non-transactional restore contract.
func Run(ctx context.Context, d Deps, targetID string) error {
	target, ok := d.Manifest.FindVersion(targetID)
	if !ok {
		return fmt.Errorf("%w: %s", ErrVersionNotFound, targetID)
	}

	head := d.Manifest.Head()
	graph := versiongraph.Build(d.Manifest.VersionHistory)

	var chain []string
	if head == "" {
		chain = []string{targetID}
	} else {
		var err error
		chain, err = graph.Path(head, targetID)
		if err != nil {
			return fmt.Errorf("no path from head %s to %s: %w", head, targetID, err)
		}
	}

	for path, state := range target.FileStates {
		if state.Deleted {
			delete(d.Working, path)
			continue
		}

		kind := d.Classify(path)
		if kind == model.KindBinary {
			if state.Encrypted && d.Key == nil {
				return fmt.Errorf("restore %q: %w", path, crypt.ErrAuthentication)
			}
			content, err := d.Blobs.Get(ctx, state.Hash, keyIf(state.Encrypted, d.Key), d.Verify)
			if err != nil {
				return fmt.Errorf("restore %q: %w", path, err)
			}
			d.Working[path] = content
			continue
		}

		content, err := reconstructText(ctx, d, chain, path)
		if err != nil {
			return fmt.Errorf("restore %q: %w", path, err)
		}
		d.Working[path] = []byte(content)
	}

	for path := range d.Working {
		if state, ok := target.FileStates[path]; !ok || state.Deleted {
			delete(d.Working, path)
		}
	}

	d.Manifest.FileMap = rebuildFileMap(d.Manifest.FileMap, target)
	d.Manifest.Refs["head"] = targetID
	return nil
}

func keyIf(encrypted bool, key *crypt.Key) *crypt.Key {
	if !encrypted {
		return nil
	}
	return key
}

// reconstructText walks chain (head-to-target, inclusive) applying
// whichever reverse patches exist for successive (child, parent)
// pairs, starting from the working directory's current HEAD bytes for
// path (or empty, if the path isn't currently materialized).
//
// DeltaRef lives on the FileState of the version that *modified* a
// path, not the one that added it, so whether target itself carries a
// DeltaRef says nothing about whether earlier hops in chain do: a
// file added at V1 and modified at V2 has an empty DeltaRef at V1, but
// restoring to V1 from V2 still has to apply the reverse patch keyed
// (V1, path) that was written when V2 was checkpointed. The chain walk
// below already no-ops wherever no delta is keyed for a hop, so it is
// always safe to run in full.
func reconstructText(ctx context.Context, d Deps, chain []string, path string) (string, error) {
	current, ok := d.Working[path]
	text := ""
	if ok {
		text = string(current)
	}

	for i := 0; i < len(chain)-1; i++ {
		childID, parentID := chain[i], chain[i+1]

		ref := deltastore.Key(parentID, path)
		has, err := d.Deltas.HasNamed(ctx, ref)
		if err != nil {
			return "", fmt.Errorf("check delta %s: %w", ref, err)
		}
		if !has {
			continue
		}

		childVersion, ok := d.Manifest.FindVersion(childID)
		encrypted := false
		if ok {
			if fs, ok := childVersion.FileStates[path]; ok {
				encrypted = fs.Encrypted
			}
		}
		if encrypted && d.Key == nil {
			return "", fmt.Errorf("delta %s: %w", ref, crypt.ErrAuthentication)
		}

		patch, err := d.Deltas.GetNamed(ctx, ref, keyIf(encrypted, d.Key))
		if err != nil {
			return "", fmt.Errorf("load delta %s: %w", ref, err)
		}

		text, err = diffing.Apply(string(patch), text)
		if err != nil {
			return "", fmt.Errorf("apply delta %s: %w", ref, err)
		}
	}

	return text, nil
}

// rebuildFileMap produces the new working-directory file map that
// mirrors target's inode/path bindings: every live (non-deleted) path
// in target keeps (or gains) its FileEntry, carrying forward whatever
// kind/timestamps the old map already had for that inode where
// available.
func rebuildFileMap(old map[string]model.FileEntry, target model.Version) map[string]model.FileEntry {
	byInode := make(map[string]model.FileEntry, len(old))
	for _, e := range old {
		byInode[e.Inode] = e
	}

	out := make(map[string]model.FileEntry, len(target.FileStates))
	for path, state := range target.FileStates {
		if state.Deleted {
			continue
		}
		entry, ok := byInode[state.Inode]
		if !ok {
			entry = model.FileEntry{Inode: state.Inode}
		}
		entry.Hash = state.Hash
		out[path] = entry
	}
	return out
}
