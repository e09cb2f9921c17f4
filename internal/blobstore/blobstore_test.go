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

package blobstore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jcfvcs/jcfs/internal/crypt"
	"github.com/jcfvcs/jcfs/internal/hashing"
	"github.com/jcfvcs/jcfs/internal/storageref"
)

func TestPutGetRoundTrip(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := New(storageref.NewMemory())

	content := []byte("binary payload")
	hash, err := s.Put(ctx, content, nil)
	require.NoError(t, err)
	assert.Equal(t, hashing.Hex(content), hash)

	got, err := s.Get(ctx, hash, nil, true)
	require.NoError(t, err)
	assert.Equal(t, content, got)
}

func TestPutDeduplicates(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	backend := storageref.NewMemory()
	s := New(backend)

	content := []byte("same bytes every time")
	h1, err := s.Put(ctx, content, nil)
	require.NoError(t, err)
	h2, err := s.Put(ctx, content, nil)
	require.NoError(t, err)
	assert.Equal(t, h1, h2)

	hashes, err := s.List(ctx)
	require.NoError(t, err)
	assert.Len(t, hashes, 1)
}

func TestPutGetWithEncryption(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	backend := storageref.NewMemory()
	s := New(backend)
	key := crypt.DeriveKey("passphrase", []byte("salt"))

	content := []byte("secret payload")
	hash, err := s.Put(ctx, content, &key)
	require.NoError(t, err)

	raw, err := backend.Read(ctx, keyFor(hash))
	require.NoError(t, err)
	assert.NotEqual(t, content, raw, "stored bytes must be ciphertext, not plaintext")

	got, err := s.Get(ctx, hash, &key, true)
	require.NoError(t, err)
	assert.Equal(t, content, got)

	_, err = s.Get(ctx, hash, nil, true)
	assert.Error(t, err, "decrypting with no key should fail hash verification or GCM open")
}

func TestGetVerifyDetectsCorruption(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	backend := storageref.NewMemory()
	s := New(backend)

	content := []byte("original content")
	hash, err := s.Put(ctx, content, nil)
	require.NoError(t, err)

	require.NoError(t, backend.Write(ctx, keyFor(hash), []byte("corrupted content")))

	_, err = s.Get(ctx, hash, nil, true)
	assert.Error(t, err)

	got, err := s.Get(ctx, hash, nil, false)
	require.NoError(t, err)
	assert.Equal(t, []byte("corrupted content"), got)
}

func TestHasAndDelete(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := New(storageref.NewMemory())

	hash, err := s.Put(ctx, []byte("x"), nil)
	require.NoError(t, err)

	has, err := s.Has(ctx, hash)
	require.NoError(t, err)
	assert.True(t, has)

	require.NoError(t, s.Delete(ctx, hash))

	has, err = s.Has(ctx, hash)
	require.NoError(t, err)
	assert.False(t, has)
}

func TestSize(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := New(storageref.NewMemory())

	hash, err := s.Put(ctx, []byte("12345"), nil)
	require.NoError(t, err)

	size, err := s.Size(ctx, hash)
	require.NoError(t, err)
	assert.Equal(t, int64(5), size)
}

func TestListOnlyReturnsValidHashes(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	backend := storageref.NewMemory()
	s := New(backend)

	hash, err := s.Put(ctx, []byte("blob"), nil)
	require.NoError(t, err)

	require.NoError(t, backend.Write(ctx, Prefix+"not-a-hash", []byte("garbage")))

	hashes, err := s.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{hash}, hashes)
}
