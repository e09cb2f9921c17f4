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

// Package blobstore implements BlobStore: content-addressed storage
// of binary file payloads, keyed by the SHA-256 of their raw
// plaintext, with optional authenticated encryption at rest.
//
// Deduplication falls out of the keyspace for free: Put is a no-op
// once an object with the same hash exists, regardless of how many
// paths or versions reference it.
package blobstore

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jcfvcs/jcfs/internal/crypt"
	"github.com/jcfvcs/jcfs/internal/hashing"
	"github.com/jcfvcs/jcfs/storage"
)

// Prefix is the fixed key prefix blobs live under.
const Prefix = ".store/blobs/"

// ErrIntegrity indicates a blob's plaintext re-hashed to something
// other than the hash it was stored under, surfaced only when Get is
// called with verify set.
var ErrIntegrity = errors.New("content hash mismatch")

// Store is a content-addressed blob store over a StoragePort.
type Store struct {
	backend storage.Port
}

// New wraps backend as a BlobStore.
func New(backend storage.Port) *Store {
	return &Store{backend: backend}
}

func keyFor(hash string) string {
	return Prefix + hash
}

// Put stores plaintext, returning its content hash. If an object with
// that hash already exists, the write is skipped (idempotent, and the
// basis of deduplication). When key is non-nil, plaintext is encrypted
// before being written, but the returned hash is always of plaintext.
func (s *Store) Put(ctx context.Context, plaintext []byte, key *crypt.Key) (hash string, err error) {
	hash = hashing.Hex(plaintext)

	exists, err := s.backend.Exists(ctx, keyFor(hash))
	if err != nil {
		return "", fmt.Errorf("check existing blob %s: %w", hash, err)
	}
	if exists {
		return hash, nil
	}

	payload := plaintext
	if key != nil {
		payload, err = crypt.Encrypt(*key, plaintext)
		if err != nil {
			return "", fmt.Errorf("encrypt blob %s: %w", hash, err)
		}
	}

	if err := s.backend.Write(ctx, keyFor(hash), payload); err != nil {
		return "", fmt.Errorf("write blob %s: %w", hash, err)
	}
	return hash, nil
}

// Get reads and, if key is non-nil, decrypts the blob addressed by
// hash. When verify is true the plaintext is re-hashed and compared
// against hash, surfacing any corruption.
func (s *Store) Get(ctx context.Context, hash string, key *crypt.Key, verify bool) ([]byte, error) {
	raw, err := s.backend.Read(ctx, keyFor(hash))
	if err != nil {
		return nil, fmt.Errorf("read blob %s: %w", hash, err)
	}

	plaintext := raw
	if key != nil {
		plaintext, err = crypt.Decrypt(*key, raw)
		if err != nil {
			return nil, fmt.Errorf("decrypt blob %s: %w", hash, err)
		}
	}

	if verify {
		got := hashing.Hex(plaintext)
		if got != hash {
			return nil, fmt.Errorf("blob %s: %w: got %s", hash, ErrIntegrity, got)
		}
	}

	return plaintext, nil
}

// Has reports whether a blob with the given hash exists.
func (s *Store) Has(ctx context.Context, hash string) (bool, error) {
	return s.backend.Exists(ctx, keyFor(hash))
}

// List returns the hashes of every blob in the store.
func (s *Store) List(ctx context.Context) ([]string, error) {
	entries, err := s.backend.List(ctx, strings.TrimSuffix(Prefix, "/"))
	if err != nil {
		return nil, fmt.Errorf("list blobs: %w", err)
	}

	out := make([]string, 0, len(entries))
	for _, e := range entries {
		idx := strings.LastIndex(e, "/")
		name := e
		if idx >= 0 {
			name = e[idx+1:]
		}
		if hashing.Valid(name) {
			out = append(out, name)
		}
	}
	return out, nil
}

// Delete removes the blob addressed by hash. Only called by GC.
func (s *Store) Delete(ctx context.Context, hash string) error {
	return s.backend.Delete(ctx, keyFor(hash))
}

// Size returns the stored (possibly encrypted) byte size of the blob
// addressed by hash, used for GC's bytes-freed accounting.
func (s *Store) Size(ctx context.Context, hash string) (int64, error) {
	return s.backend.Size(ctx, keyFor(hash))
}
