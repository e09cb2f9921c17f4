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
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jcfvcs/jcfs/internal/blobstore"
	"github.com/jcfvcs/jcfs/internal/checkpoint"
	"github.com/jcfvcs/jcfs/internal/crypt"
	"github.com/jcfvcs/jcfs/internal/deltastore"
	"github.com/jcfvcs/jcfs/internal/gc"
	"github.com/jcfvcs/jcfs/internal/inode"
	"github.com/jcfvcs/jcfs/internal/model"
	"github.com/jcfvcs/jcfs/internal/restore"
	"github.com/jcfvcs/jcfs/internal/versiongraph"
	"github.com/jcfvcs/jcfs/storage"
)

// manifestKey is the fixed storage path the manifest lives at.
const manifestKey = ".store/manifest.json"

// Options configures a Repository beyond its required backend.
type Options struct {
	// TextExtensions overrides DefaultTextExtensions for classifying
	// paths as text vs. binary. A nil slice uses the default.
	TextExtensions []string

	// Key, when set, is used to encrypt every blob and delta this
	// Repository writes, and to decrypt those recorded as encrypted
	// when it reads them back.
	Key *crypt.Key

	// Verify, when true, re-hashes every blob read back against its
	// key and fails with KindIntegrityError on mismatch.
	Verify bool

	// Now overrides the clock used to stamp versions and file
	// entries; primarily for deterministic tests.
	Now func() string
}

// Repository is a single versioned project: its manifest, working
// directory, and the blob/delta stores backing its history. It holds
// no internal lock and is not safe for concurrent use.
type Repository struct {
	backend storage.Port
	blobs   *blobstore.Store
	deltas  *deltastore.Store

	manifest *model.Manifest

	// working holds every currently-tracked path's live content.
	// headContent mirrors working as of the last successful
	// SaveCheckpoint or RestoreVersion, and is the diff base for the
	// next checkpoint's modified text files.
	working     map[string][]byte
	headContent map[string][]byte

	classifyFn func(string) model.FileKind
	key        *crypt.Key
	verify     bool
	nowFn      func() string
}

// Init creates a brand new repository against an empty backend,
// writing an initial manifest with no versions and no files.
func Init(ctx context.Context, backend storage.Port, name, author string, opts Options) (*Repository, error) {
	exists, err := backend.Exists(ctx, manifestKey)
	if err != nil {
		return nil, newErr(KindStorageError, "Init", err)
	}
	if exists {
		return nil, newErr(KindAlreadyExists, "Init", fmt.Errorf("manifest already exists"))
	}

	r := newRepository(backend, opts)
	r.manifest = model.NewManifest(name, author, r.now())

	if err := r.save(ctx); err != nil {
		return nil, err
	}
	return r, nil
}

// Open loads an existing repository's manifest from backend.
func Open(ctx context.Context, backend storage.Port, opts Options) (*Repository, error) {
	r := newRepository(backend, opts)

	raw, err := backend.Read(ctx, manifestKey)
	if err != nil {
		return nil, newErr(KindNotFound, "Open", err)
	}

	var m model.Manifest
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, newErr(KindCorruptManifest, "Open", err)
	}
	if err := versiongraph.ValidateAcyclic(m.VersionHistory); err != nil {
		return nil, newErr(KindCorruptManifest, "Open", err)
	}
	if head := m.Head(); head != "" {
		if _, ok := m.FindVersion(head); !ok {
			return nil, newErr(KindCorruptManifest, "Open", fmt.Errorf("head %s not found in history", head))
		}
	}
	if err := inode.ValidateUnique(&m); err != nil {
		return nil, newErr(KindCorruptManifest, "Open", err)
	}

	r.manifest = &m
	return r, nil
}

// LoadWorkingDirectory seeds the repository's in-memory working
// directory (and its HEAD diff base) from content, which the caller
// obtains however it tracks the actual working tree — the engine
// itself does not persist HEAD's raw text anywhere: only the chain of
// reverse patches needed to walk backward from it. It must be called
// once after Open, before AddFile/SaveCheckpoint/RestoreVersion, for
// a repository whose head is non-empty; a freshly Init'd repository
// needs no seeding.
func (r *Repository) LoadWorkingDirectory(content map[string][]byte) {
	r.working = cloneContent(content)
	r.headContent = cloneContent(content)
}

func newRepository(backend storage.Port, opts Options) *Repository {
	extensions := opts.TextExtensions
	if extensions == nil {
		extensions = DefaultTextExtensions
	}

	return &Repository{
		backend:     backend,
		blobs:       blobstore.New(backend),
		deltas:      deltastore.New(backend),
		working:     map[string][]byte{},
		headContent: map[string][]byte{},
		classifyFn:  classifier(extensions),
		key:         opts.Key,
		verify:      opts.Verify,
		nowFn:       opts.Now,
	}
}

func (r *Repository) save(ctx context.Context) error {
	raw, err := json.MarshalIndent(r.manifest, "", "  ")
	if err != nil {
		return newErr(KindInvalidInput, "save", err)
	}
	if err := r.backend.Write(ctx, manifestKey, raw); err != nil {
		return newErr(KindStorageError, "save", err)
	}
	return nil
}

// Sync persists the manifest's current file map and rename log
// without creating a new version. Callers that mutate the working
// directory via AddFile/DeleteFile/RenameFile across separate process
// invocations (as the CLI does) must call Sync for those mutations to
// survive past the current process.
func (r *Repository) Sync(ctx context.Context) error {
	return r.save(ctx)
}

// SaveCheckpoint snapshots the current working directory as a new
// immutable Version and advances head to it.
func (r *Repository) SaveCheckpoint(ctx context.Context, message, author string) (string, error) {
	res, err := checkpoint.Run(ctx, checkpoint.Deps{
		Manifest:     r.manifest,
		Working:      r.working,
		PriorContent: r.headContent,
		Blobs:        r.blobs,
		Deltas:       r.deltas,
		Classify:     r.classifyFn,
		Key:          r.key,
		Message:      message,
		Author:       author,
		Now:          r.now(),
	})
	if err != nil {
		return "", newErr(KindStorageError, "SaveCheckpoint", err)
	}

	if err := r.save(ctx); err != nil {
		return "", err
	}

	r.headContent = cloneContent(r.working)
	return res.VersionID, nil
}

// RestoreVersion resets the working directory to match targetID
// exactly, and advances head to it.
func (r *Repository) RestoreVersion(ctx context.Context, targetID string) error {
	if err := restore.Run(ctx, restore.Deps{
		Manifest: r.manifest,
		Working:  r.working,
		Blobs:    r.blobs,
		Deltas:   r.deltas,
		Classify: r.classifyFn,
		Key:      r.key,
		Verify:   r.verify,
	}, targetID); err != nil {
		return newErr(classifyRestoreErr(err), "RestoreVersion", err)
	}

	if err := r.save(ctx); err != nil {
		return err
	}

	r.headContent = cloneContent(r.working)
	return nil
}

// classifyRestoreErr maps the sentinel errors the restore/blobstore/
// crypt/versiongraph layers can surface to the stable Kind taxonomy.
// Anything none of them recognize is a generic storage-layer failure.
func classifyRestoreErr(err error) Kind {
	switch {
	case errors.Is(err, crypt.ErrAuthentication):
		return KindAuthenticationError
	case errors.Is(err, blobstore.ErrIntegrity):
		return KindIntegrityError
	case errors.Is(err, versiongraph.ErrNoPath):
		return KindNoPath
	case errors.Is(err, restore.ErrVersionNotFound):
		return KindNotFound
	default:
		return KindStorageError
	}
}

// GC sweeps unreachable blobs and deltas. It must not be called
// concurrently with SaveCheckpoint against the same backend.
func (r *Repository) GC(ctx context.Context) (gc.Report, error) {
	rep, err := gc.Run(ctx, r.manifest, r.blobs, r.deltas)
	if err != nil {
		return gc.Report{}, newErr(KindStorageError, "GC", err)
	}
	return rep, nil
}

// GetFileHistory returns every version that touched path's stable
// inode, chronologically, regardless of which historical name of that
// inode path refers to.
func (r *Repository) GetFileHistory(path string) ([]model.Version, error) {
	versions, err := inode.GetFileHistory(r.manifest, path)
	if err != nil {
		return nil, newErr(KindNotFound, "GetFileHistory", err)
	}
	return versions, nil
}

// Head returns the current head version id, or "" for a repository
// with no checkpoints yet.
func (r *Repository) Head() string {
	return r.manifest.Head()
}

// Versions returns the full version history, oldest first.
func (r *Repository) Versions() []model.Version {
	return r.manifest.VersionHistory
}

func cloneContent(src map[string][]byte) map[string][]byte {
	out := make(map[string][]byte, len(src))
	for k, v := range src {
		out[k] = append([]byte(nil), v...)
	}
	return out
}

func (r *Repository) now() string {
	if r.nowFn != nil {
		return r.nowFn()
	}
	return time.Now().UTC().Format(time.RFC3339Nano)
}
