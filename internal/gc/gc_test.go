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

package gc

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jcfvcs/jcfs/internal/blobstore"
	"github.com/jcfvcs/jcfs/internal/deltastore"
	"github.com/jcfvcs/jcfs/internal/model"
	"github.com/jcfvcs/jcfs/internal/storageref"
)

func TestRunSweepsOnlyUnreachableObjects(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	backend := storageref.NewMemory()
	blobs := blobstore.New(backend)
	deltas := deltastore.New(backend)

	liveHash, err := blobs.Put(ctx, []byte("still reachable"), nil)
	require.NoError(t, err)
	orphanHash, err := blobs.Put(ctx, []byte("nobody points at me anymore"), nil)
	require.NoError(t, err)

	liveRef := deltastore.Key("v1", "a.txt")
	require.NoError(t, deltas.PutNamed(ctx, liveRef, []byte("live patch"), nil))
	orphanRef := deltastore.Key("v0", "b.txt")
	require.NoError(t, deltas.PutNamed(ctx, orphanRef, []byte("orphan patch"), nil))

	m := model.NewManifest("proj", "tester", "t0")
	m.VersionHistory = []model.Version{
		{
			ID: "v2",
			FileStates: map[string]model.FileState{
				"a.bin": {Hash: liveHash},
				"a.txt": {DeltaRef: liveRef},
			},
		},
	}

	rep, err := Run(ctx, m, blobs, deltas)
	require.NoError(t, err)

	assert.Equal(t, 2, rep.BlobsChecked)
	assert.Equal(t, 1, rep.BlobsDeleted)
	assert.Equal(t, 2, rep.DeltasChecked)
	assert.Equal(t, 1, rep.DeltasDeleted)
	assert.Equal(t, int64(len("nobody points at me anymore")+len("orphan patch")), rep.BytesFreed)

	has, err := blobs.Has(ctx, liveHash)
	require.NoError(t, err)
	assert.True(t, has)

	has, err = blobs.Has(ctx, orphanHash)
	require.NoError(t, err)
	assert.False(t, has)

	has, err = deltas.HasNamed(ctx, liveRef)
	require.NoError(t, err)
	assert.True(t, has)

	has, err = deltas.HasNamed(ctx, orphanRef)
	require.NoError(t, err)
	assert.False(t, has)
}

func TestRunDeletedFileStatesDoNotKeepObjectsAlive(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	backend := storageref.NewMemory()
	blobs := blobstore.New(backend)
	deltas := deltastore.New(backend)

	hash, err := blobs.Put(ctx, []byte("deleted file's former content"), nil)
	require.NoError(t, err)

	m := model.NewManifest("proj", "tester", "t0")
	m.VersionHistory = []model.Version{
		{
			ID: "v1",
			FileStates: map[string]model.FileState{
				"a.bin": {Hash: hash, Deleted: true},
			},
		},
	}

	rep, err := Run(ctx, m, blobs, deltas)
	require.NoError(t, err)
	assert.Equal(t, 1, rep.BlobsDeleted)

	has, err := blobs.Has(ctx, hash)
	require.NoError(t, err)
	assert.False(t, has)
}

func TestRunOnEmptyStoresIsANoop(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	backend := storageref.NewMemory()
	blobs := blobstore.New(backend)
	deltas := deltastore.New(backend)

	m := model.NewManifest("proj", "tester", "t0")
	rep, err := Run(ctx, m, blobs, deltas)
	require.NoError(t, err)
	assert.Equal(t, Report{}, rep)
}
