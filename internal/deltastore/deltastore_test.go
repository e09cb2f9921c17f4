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

package deltastore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jcfvcs/jcfs/internal/crypt"
	"github.com/jcfvcs/jcfs/internal/storageref"
)

func TestKeyIsStableAndPathSensitive(t *testing.T) {
	t.Parallel()

	a := Key("v1", "foo.txt")
	b := Key("v1", "foo.txt")
	c := Key("v1", "bar.txt")
	d := Key("v2", "foo.txt")

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.NotEqual(t, a, d)
}

func TestPutNamedGetNamedRoundTrip(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := New(storageref.NewMemory())

	ref := Key("v1", "foo.txt")
	patch := []byte("@@ -1 +1 @@\n-old\n+new\n")

	require.NoError(t, s.PutNamed(ctx, ref, patch, nil))

	got, err := s.GetNamed(ctx, ref, nil)
	require.NoError(t, err)
	assert.Equal(t, patch, got)
}

func TestPutNamedGetNamedWithEncryption(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	backend := storageref.NewMemory()
	s := New(backend)
	key := crypt.DeriveKey("passphrase", []byte("salt"))

	ref := Key("v1", "foo.txt")
	patch := []byte("patch body")

	require.NoError(t, s.PutNamed(ctx, ref, patch, &key))

	raw, err := backend.Read(ctx, fullKeyFor(ref))
	require.NoError(t, err)
	assert.NotEqual(t, patch, raw)

	got, err := s.GetNamed(ctx, ref, &key)
	require.NoError(t, err)
	assert.Equal(t, patch, got)
}

func TestHasNamedAndDelete(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := New(storageref.NewMemory())

	ref := Key("v1", "foo.txt")
	has, err := s.HasNamed(ctx, ref)
	require.NoError(t, err)
	assert.False(t, has)

	require.NoError(t, s.PutNamed(ctx, ref, []byte("patch"), nil))

	has, err = s.HasNamed(ctx, ref)
	require.NoError(t, err)
	assert.True(t, has)

	require.NoError(t, s.Delete(ctx, ref))

	has, err = s.HasNamed(ctx, ref)
	require.NoError(t, err)
	assert.False(t, has)
}

func TestListOnlyReturnsPatchRefs(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	backend := storageref.NewMemory()
	s := New(backend)

	ref := Key("v1", "foo.txt")
	require.NoError(t, s.PutNamed(ctx, ref, []byte("patch"), nil))
	require.NoError(t, backend.Write(ctx, Prefix+"not-a-patch", []byte("garbage")))

	refs, err := s.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{ref}, refs)
}

func TestSize(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := New(storageref.NewMemory())

	ref := Key("v1", "foo.txt")
	require.NoError(t, s.PutNamed(ctx, ref, []byte("12345"), nil))

	size, err := s.Size(ctx, ref)
	require.NoError(t, err)
	assert.Equal(t, int64(5), size)
}
