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

// Package deltastore implements DeltaStore: named reverse-patch
// storage, keyed by (parent version id, file path) rather than by
// content hash. Unlike BlobStore, deltas are never deduplicated — each
// key names a unique transition between two versions' content for a
// given path.
package deltastore

import (
	"context"
	"fmt"
	"strings"

	"github.com/jcfvcs/jcfs/internal/crypt"
	"github.com/jcfvcs/jcfs/internal/hashing"
	"github.com/jcfvcs/jcfs/storage"
)

// Prefix is the fixed key prefix deltas live under.
const Prefix = ".store/deltas/"

// Store is a named reverse-patch store over a StoragePort.
type Store struct {
	backend storage.Port
}

// New wraps backend as a DeltaStore.
func New(backend storage.Port) *Store {
	return &Store{backend: backend}
}

// Key returns the delta store key for the transition away from
// parentVersionID for path. It is exported because FileState.DeltaRef
// holds exactly this string.
func Key(parentVersionID, path string) string {
	return fmt.Sprintf("%s_%s.patch", parentVersionID, hashing.ShortPathHash(path))
}

func fullKeyFor(ref string) string {
	return Prefix + ref
}

// PutNamed writes patch under ref (as produced by Key), optionally
// encrypted. Deltas are write-once: callers must not call PutNamed
// twice for the same ref.
func (s *Store) PutNamed(ctx context.Context, ref string, patch []byte, key *crypt.Key) error {
	payload := patch
	if key != nil {
		enc, err := crypt.Encrypt(*key, patch)
		if err != nil {
			return fmt.Errorf("encrypt delta %s: %w", ref, err)
		}
		payload = enc
	}

	if err := s.backend.Write(ctx, fullKeyFor(ref), payload); err != nil {
		return fmt.Errorf("write delta %s: %w", ref, err)
	}
	return nil
}

// GetNamed reads and, if key is non-nil, decrypts the patch stored
// under ref.
func (s *Store) GetNamed(ctx context.Context, ref string, key *crypt.Key) ([]byte, error) {
	raw, err := s.backend.Read(ctx, fullKeyFor(ref))
	if err != nil {
		return nil, fmt.Errorf("read delta %s: %w", ref, err)
	}

	if key == nil {
		return raw, nil
	}

	plain, err := crypt.Decrypt(*key, raw)
	if err != nil {
		return nil, fmt.Errorf("decrypt delta %s: %w", ref, err)
	}
	return plain, nil
}

// HasNamed reports whether a patch exists under ref.
func (s *Store) HasNamed(ctx context.Context, ref string) (bool, error) {
	return s.backend.Exists(ctx, fullKeyFor(ref))
}

// List returns the refs (not full keys) of every delta in the store.
func (s *Store) List(ctx context.Context) ([]string, error) {
	entries, err := s.backend.List(ctx, strings.TrimSuffix(Prefix, "/"))
	if err != nil {
		return nil, fmt.Errorf("list deltas: %w", err)
	}

	out := make([]string, 0, len(entries))
	for _, e := range entries {
		idx := strings.LastIndex(e, "/")
		name := e
		if idx >= 0 {
			name = e[idx+1:]
		}
		if strings.HasSuffix(name, ".patch") {
			out = append(out, name)
		}
	}
	return out, nil
}

// Delete removes the delta stored under ref. Only called by GC.
func (s *Store) Delete(ctx context.Context, ref string) error {
	return s.backend.Delete(ctx, fullKeyFor(ref))
}

// Size returns the stored byte size of the delta under ref.
func (s *Store) Size(ctx context.Context, ref string) (int64, error) {
	return s.backend.Size(ctx, fullKeyFor(ref))
}
