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

// Package checkpoint implements SaveCheckpoint: diffing the working
// directory against the parent version, writing blobs/deltas for
// whatever actually changed, and appending a new immutable Version.
package checkpoint

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"

	"github.com/jcfvcs/jcfs/internal/blobstore"
	"github.com/jcfvcs/jcfs/internal/crypt"
	"github.com/jcfvcs/jcfs/internal/deltastore"
	"github.com/jcfvcs/jcfs/internal/diffing"
	"github.com/jcfvcs/jcfs/internal/hashing"
	"github.com/jcfvcs/jcfs/internal/inode"
	"github.com/jcfvcs/jcfs/internal/model"
)

// Result reports the outcome of a successful checkpoint.
type Result struct {
	VersionID string
	Added     int
	Modified  int
	Deleted   int
}

// Deps bundles everything Run needs. Working holds every path
// currently present in the working directory, mapped to its raw
// bytes; Classify reports whether a path is treated as text.
type Deps struct {
	Manifest *model.Manifest
	Working  map[string][]byte

	// PriorContent holds each tracked path's content as of the last
	// checkpoint (HEAD), used as the diff base for modified text
	// files. The caller refreshes it to match Working after every
	// successful Run.
	PriorContent map[string][]byte

	Blobs    *blobstore.Store
	Deltas   *deltastore.Store
	Classify func(path string) model.FileKind
	Key      *crypt.Key
	Message  string
	Author   string
	Now      string // RFC3339 timestamp, caller-supplied for determinism
}

// Run executes save_checkpoint against d.Manifest, mutating it (file
// map inode bindings and rename log are already current; Run appends
// the new Version and updates head) only after every store write has
// succeeded. On any failure the manifest is left exactly as it was:
// no partial version is visible.
func Run(ctx context.Context, d Deps) (Result, error) {
	parentID := d.Manifest.Head()

	var parentStates map[string]model.FileState
	if parentID != "" {
		pv, ok := d.Manifest.FindVersion(parentID)
		if !ok {
			return Result{}, fmt.Errorf("corrupt manifest: head %s not found in history", parentID)
		}
		parentStates = pv.FileStates
	}

	newID := uuid.NewString()
	newStates := make(map[string]model.FileState, len(parentStates)+len(d.Working))
	for p, fs := range parentStates {
		newStates[p] = fs
	}

	var res Result

	// Deterministic processing order: spec requires the result be
	// independent of order, but a stable order keeps tests and diffs
	// reproducible.
	paths := make([]string, 0, len(d.Working))
	for p := range d.Working {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	for _, path := range paths {
		content := d.Working[path]
		entry, ok := d.Manifest.FileMap[path]
		if !ok {
			return Result{}, fmt.Errorf("working file %q has no file-map entry", path)
		}

		parentState, hadParent := parentStates[path]
		hash := hashing.Hex(content)

		if !hadParent || parentState.Deleted {
			state, err := writeNewState(ctx, d, entry, path, content, hash, parentID, model.ChangeAdded)
			if err != nil {
				return Result{}, err
			}
			newStates[path] = mergeRenameTag(d.Manifest, path, state)
			res.Added++
			continue
		}

		if parentState.Hash == hash {
			newStates[path] = mergeRenameTag(d.Manifest, path, parentState)
			continue
		}

		state, err := writeNewState(ctx, d, entry, path, content, hash, parentID, model.ChangeModified)
		if err != nil {
			return Result{}, err
		}
		newStates[path] = mergeRenameTag(d.Manifest, path, state)
		res.Modified++
	}

	for path, parentState := range parentStates {
		if parentState.Deleted {
			continue
		}
		if _, present := d.Manifest.FileMap[path]; present {
			continue
		}
		newStates[path] = model.FileState{
			Inode:      parentState.Inode,
			Deleted:    true,
			ChangeKind: []model.ChangeKind{model.ChangeDeleted},
		}
		res.Deleted++
	}

	v := model.Version{
		ID:         newID,
		Parent:     parentID,
		Timestamp:  d.Now,
		Message:    d.Message,
		Author:     d.Author,
		FileStates: newStates,
	}

	d.Manifest.VersionHistory = append(d.Manifest.VersionHistory, v)
	d.Manifest.Refs["head"] = newID
	d.Manifest.Metadata.LastModified = d.Now
	inode.ResolvePending(d.Manifest, newID)

	return Result{VersionID: newID, Added: res.Added, Modified: res.Modified, Deleted: res.Deleted}, nil
}

// mergeRenameTag appends ChangeRenamed to state's tags if path was
// renamed in this checkpoint's pending rename log, ordered before
// whatever change kind state already carries (renamed, then modified).
func mergeRenameTag(m *model.Manifest, path string, state model.FileState) model.FileState {
	for _, pr := range inode.PendingRenames(m) {
		if pr.ToPath == path {
			state.ChangeKind = append([]model.ChangeKind{model.ChangeRenamed}, state.ChangeKind...)
			return state
		}
	}
	return state
}

func writeNewState(
	ctx context.Context,
	d Deps,
	entry model.FileEntry,
	path string,
	content []byte,
	hash string,
	parentID string,
	kind model.ChangeKind,
) (model.FileState, error) {
	fileKind := d.Classify(path)

	if fileKind == model.KindBinary {
		h, err := d.Blobs.Put(ctx, content, d.Key)
		if err != nil {
			return model.FileState{}, fmt.Errorf("checkpoint: store blob for %q: %w", path, err)
		}
		return model.FileState{
			Inode:      entry.Inode,
			Hash:       h,
			Encrypted:  d.Key != nil,
			ChangeKind: []model.ChangeKind{kind},
		}, nil
	}

	state := model.FileState{
		Inode:      entry.Inode,
		Hash:       hash,
		ChangeKind: []model.ChangeKind{kind},
	}

	if parentID == "" || kind == model.ChangeAdded {
		// No prior content to diff against for this path: the raw text
		// lives only in the working directory (and becomes HEAD's
		// text); reconstruction for older requests terminates here.
		return state, nil
	}

	parentText, err := reconstructParentText(ctx, d, path)
	if err != nil {
		return model.FileState{}, fmt.Errorf("checkpoint: reconstruct parent text for %q: %w", path, err)
	}

	patch := diffing.Compute(string(content), parentText)
	ref := deltastore.Key(parentID, path)

	if err := d.Deltas.PutNamed(ctx, ref, []byte(patch), d.Key); err != nil {
		return model.FileState{}, fmt.Errorf("checkpoint: store delta for %q: %w", path, err)
	}

	state.DeltaRef = ref
	state.Encrypted = d.Key != nil
	return state, nil
}

// reconstructParentText returns HEAD's content for path, used as the
// diff base when a text file has actually changed.
func reconstructParentText(_ context.Context, d Deps, path string) (string, error) {
	prior, ok := d.PriorContent[path]
	if !ok {
		return "", fmt.Errorf("no prior content recorded for %q", path)
	}
	return string(prior), nil
}
