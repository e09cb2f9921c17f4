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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jcfvcs/jcfs/internal/blobstore"
	"github.com/jcfvcs/jcfs/internal/crypt"
	"github.com/jcfvcs/jcfs/internal/model"
	"github.com/jcfvcs/jcfs/internal/storageref"
)

func clockAt(ts string) func() string {
	return func() string { return ts }
}

func TestInitRejectsExistingManifest(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	backend := storageref.NewMemory()

	_, err := Init(ctx, backend, "proj", "tester", Options{Now: clockAt("t0")})
	require.NoError(t, err)

	_, err = Init(ctx, backend, "proj", "tester", Options{Now: clockAt("t0")})
	require.Error(t, err)
	assert.Equal(t, KindAlreadyExists, KindOf(err))
}

func TestOpenUnknownBackendFails(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	_, err := Open(ctx, storageref.NewMemory(), Options{})
	require.Error(t, err)
	assert.Equal(t, KindNotFound, KindOf(err))
}

func TestAddFileCheckpointAndReopen(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	backend := storageref.NewMemory()

	repo, err := Init(ctx, backend, "proj", "tester", Options{Now: clockAt("t0")})
	require.NoError(t, err)

	require.NoError(t, repo.AddFile("notes.txt", []byte("hello")))
	id, err := repo.SaveCheckpoint(ctx, "first", "tester")
	require.NoError(t, err)
	assert.Equal(t, id, repo.Head())

	reopened, err := Open(ctx, backend, Options{Now: clockAt("t1")})
	require.NoError(t, err)
	assert.Equal(t, id, reopened.Head())
	assert.Len(t, reopened.Versions(), 1)

	reopened.LoadWorkingDirectory(map[string][]byte{"notes.txt": []byte("hello")})
	got, err := reopened.ReadFile("notes.txt")
	require.NoError(t, err)
	assert.Equal(t, []byte("hello"), got)
}

func TestCheckpointModifyAndRestoreTextFile(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	backend := storageref.NewMemory()

	repo, err := Init(ctx, backend, "proj", "tester", Options{Now: clockAt("t0")})
	require.NoError(t, err)

	require.NoError(t, repo.AddFile("notes.txt", []byte("version one")))
	v1, err := repo.SaveCheckpoint(ctx, "v1", "tester")
	require.NoError(t, err)

	repo.nowFn = clockAt("t1")
	require.NoError(t, repo.AddFile("notes.txt", []byte("version two, now with more words")))
	v2, err := repo.SaveCheckpoint(ctx, "v2", "tester")
	require.NoError(t, err)
	assert.NotEqual(t, v1, v2)

	require.NoError(t, repo.RestoreVersion(ctx, v1))
	got, err := repo.ReadFile("notes.txt")
	require.NoError(t, err)
	assert.Equal(t, "version one", string(got))
	assert.Equal(t, v1, repo.Head())

	// Restore only walks back along parent links, so v2 (a descendant
	// of the new head v1) is not reachable and head stays at v1.
	err = repo.RestoreVersion(ctx, v2)
	require.Error(t, err)
	assert.Equal(t, KindNoPath, KindOf(err))
	assert.Equal(t, v1, repo.Head())
}

func TestDeleteFileThenCheckpointTagsDeletion(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	backend := storageref.NewMemory()

	repo, err := Init(ctx, backend, "proj", "tester", Options{Now: clockAt("t0")})
	require.NoError(t, err)

	require.NoError(t, repo.AddFile("a.txt", []byte("keep")))
	require.NoError(t, repo.AddFile("b.txt", []byte("go away")))
	_, err = repo.SaveCheckpoint(ctx, "v1", "tester")
	require.NoError(t, err)

	repo.nowFn = clockAt("t1")
	require.NoError(t, repo.DeleteFile("b.txt"))
	v2, err := repo.SaveCheckpoint(ctx, "v2", "tester")
	require.NoError(t, err)

	v, ok := repo.manifest.FindVersion(v2)
	require.True(t, ok)
	assert.True(t, v.FileStates["b.txt"].Deleted)

	_, err = repo.ReadFile("b.txt")
	assert.Error(t, err)
	assert.Equal(t, KindNotFound, KindOf(err))
}

func TestRenameFilePreservesHistoryAcrossCheckpoint(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	backend := storageref.NewMemory()

	repo, err := Init(ctx, backend, "proj", "tester", Options{Now: clockAt("t0")})
	require.NoError(t, err)

	require.NoError(t, repo.AddFile("old.txt", []byte("body")))
	_, err = repo.SaveCheckpoint(ctx, "v1", "tester")
	require.NoError(t, err)

	repo.nowFn = clockAt("t1")
	require.NoError(t, repo.RenameFile("old.txt", "new.txt"))
	v2, err := repo.SaveCheckpoint(ctx, "v2", "tester")
	require.NoError(t, err)

	v, ok := repo.manifest.FindVersion(v2)
	require.True(t, ok)
	assert.True(t, v.FileStates["new.txt"].HasChange(model.ChangeRenamed))

	history, err := repo.GetFileHistory("new.txt")
	require.NoError(t, err)
	assert.Len(t, history, 2)

	historyFromOldName, err := repo.GetFileHistory("old.txt")
	require.NoError(t, err)
	assert.Equal(t, history, historyFromOldName)
}

func TestAddFileRejectsEmptyPath(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	repo, err := Init(ctx, storageref.NewMemory(), "proj", "tester", Options{Now: clockAt("t0")})
	require.NoError(t, err)

	err = repo.AddFile("", []byte("x"))
	assert.Error(t, err)
	assert.Equal(t, KindInvalidInput, KindOf(err))
}

func TestBinaryFileRoundTripsThroughBlobstore(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	repo, err := Init(ctx, storageref.NewMemory(), "proj", "tester", Options{Now: clockAt("t0")})
	require.NoError(t, err)

	payload := []byte{0x00, 0xFF, 0x10, 0x20}
	require.NoError(t, repo.AddFile("image.bin", payload))
	id, err := repo.SaveCheckpoint(ctx, "add binary", "tester")
	require.NoError(t, err)

	require.NoError(t, repo.DeleteFile("image.bin"))
	_, err = repo.SaveCheckpoint(ctx, "delete binary", "tester")
	require.NoError(t, err)

	require.NoError(t, repo.RestoreVersion(ctx, id))
	got, err := repo.ReadFile("image.bin")
	require.NoError(t, err)
	assert.Equal(t, payload, got)
}

func TestEncryptedRepositoryRejectsWrongKey(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	backend := storageref.NewMemory()
	key := crypt.DeriveKey("correct-passphrase", []byte("salt"))

	repo, err := Init(ctx, backend, "proj", "tester", Options{Key: &key, Now: clockAt("t0")})
	require.NoError(t, err)

	require.NoError(t, repo.AddFile("a.bin", []byte{0x01, 0x02, 0x03}))
	_, err = repo.SaveCheckpoint(ctx, "v1", "tester")
	require.NoError(t, err)

	wrongKey := crypt.DeriveKey("wrong-passphrase", []byte("salt"))
	opened, err := Open(ctx, backend, Options{Key: &wrongKey, Verify: true})
	require.NoError(t, err, "Open itself only reads the manifest, not blob contents")

	opened.LoadWorkingDirectory(map[string][]byte{})
	err = opened.RestoreVersion(ctx, opened.Head())
	require.Error(t, err, "restoring a binary file encrypted under a different key must fail")
	assert.Equal(t, KindAuthenticationError, KindOf(err))
}

func TestRestoreUnknownVersionReturnsNotFound(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	repo, err := Init(ctx, storageref.NewMemory(), "proj", "tester", Options{Now: clockAt("t0")})
	require.NoError(t, err)

	require.NoError(t, repo.AddFile("a.txt", []byte("body")))
	_, err = repo.SaveCheckpoint(ctx, "v1", "tester")
	require.NoError(t, err)

	err = repo.RestoreVersion(ctx, "does-not-exist")
	require.Error(t, err)
	assert.Equal(t, KindNotFound, KindOf(err))
}

func TestRestoreDetectsCorruptedBinaryBlobAsIntegrityError(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	backend := storageref.NewMemory()
	repo, err := Init(ctx, backend, "proj", "tester", Options{Verify: true, Now: clockAt("t0")})
	require.NoError(t, err)

	require.NoError(t, repo.AddFile("a.bin", []byte{0x01, 0x02}))
	v1, err := repo.SaveCheckpoint(ctx, "v1", "tester")
	require.NoError(t, err)

	v, _ := repo.manifest.FindVersion(v1)
	hash := v.FileStates["a.bin"].Hash
	// Overwrite the stored blob in place so its content no longer
	// hashes to the key it's stored under, without deleting the key.
	require.NoError(t, backend.Write(ctx, blobstore.Prefix+hash, []byte{0xFF}))

	err = repo.RestoreVersion(ctx, v1)
	require.Error(t, err)
	assert.Equal(t, KindIntegrityError, KindOf(err))
}

func TestGCKeepsHistoricallyReferencedBlobsAndSweepsOrphans(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	repo, err := Init(ctx, storageref.NewMemory(), "proj", "tester", Options{Now: clockAt("t0")})
	require.NoError(t, err)

	require.NoError(t, repo.AddFile("a.bin", []byte{0xAA, 0xBB}))
	_, err = repo.SaveCheckpoint(ctx, "v1", "tester")
	require.NoError(t, err)

	repo.nowFn = clockAt("t1")
	require.NoError(t, repo.DeleteFile("a.bin"))
	_, err = repo.SaveCheckpoint(ctx, "v2", "tester")
	require.NoError(t, err)

	// An orphan blob that no FileState in history ever referenced (as
	// if a prior checkpoint had been interrupted after writing it).
	orphan, err := repo.blobs.Put(ctx, []byte("nobody points at this"), nil)
	require.NoError(t, err)

	rep, err := repo.GC(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, rep.BlobsDeleted, "only the orphan blob is swept; v1's a.bin stays reachable for history")

	has, err := repo.blobs.Has(ctx, orphan)
	require.NoError(t, err)
	assert.False(t, has)
}

func TestDoctorReportsOKOnHealthyRepository(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	repo, err := Init(ctx, storageref.NewMemory(), "proj", "tester", Options{Now: clockAt("t0")})
	require.NoError(t, err)

	require.NoError(t, repo.AddFile("a.txt", []byte("body")))
	require.NoError(t, repo.AddFile("a.bin", []byte{0x01}))
	_, err = repo.SaveCheckpoint(ctx, "v1", "tester")
	require.NoError(t, err)

	rep, err := repo.Doctor(ctx)
	require.NoError(t, err)
	assert.True(t, rep.OK())
	assert.Equal(t, 1, rep.VersionsChecked)
}

func TestDoctorDetectsMissingBinaryBlob(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	backend := storageref.NewMemory()
	repo, err := Init(ctx, backend, "proj", "tester", Options{Now: clockAt("t0")})
	require.NoError(t, err)

	require.NoError(t, repo.AddFile("a.bin", []byte{0x01, 0x02}))
	_, err = repo.SaveCheckpoint(ctx, "v1", "tester")
	require.NoError(t, err)

	v, _ := repo.manifest.FindVersion(repo.Head())
	hash := v.FileStates["a.bin"].Hash
	require.NoError(t, repo.blobs.Delete(ctx, hash))

	rep, err := repo.Doctor(ctx)
	require.NoError(t, err)
	assert.False(t, rep.OK())
	assert.Contains(t, rep.MissingBlobs, hash)
}
