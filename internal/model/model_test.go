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

package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewManifest(t *testing.T) {
	t.Parallel()

	m := NewManifest("my-project", "alice", "2026-01-01T00:00:00Z")

	assert.Equal(t, FormatVersion, m.FormatVersion)
	assert.Equal(t, "my-project", m.Metadata.Name)
	assert.Equal(t, "alice", m.Metadata.Author)
	assert.Empty(t, m.Head())
	assert.Empty(t, m.VersionHistory)
	assert.NotNil(t, m.FileMap)
	assert.NotNil(t, m.RenameLog)
}

func TestManifestHeadAndFindVersion(t *testing.T) {
	t.Parallel()

	m := NewManifest("p", "a", "2026-01-01T00:00:00Z")
	assert.Equal(t, "", m.Head())

	v := Version{ID: "v1", Timestamp: "2026-01-01T00:00:00Z", Message: "first"}
	m.VersionHistory = append(m.VersionHistory, v)
	m.Refs["head"] = "v1"

	assert.Equal(t, "v1", m.Head())

	got, ok := m.FindVersion("v1")
	require.True(t, ok)
	assert.Equal(t, "first", got.Message)

	_, ok = m.FindVersion("does-not-exist")
	assert.False(t, ok)
}

func TestFileStateHasChange(t *testing.T) {
	t.Parallel()

	fs := FileState{ChangeKind: []ChangeKind{ChangeRenamed, ChangeModified}}

	assert.True(t, fs.HasChange(ChangeRenamed))
	assert.True(t, fs.HasChange(ChangeModified))
	assert.False(t, fs.HasChange(ChangeDeleted))
	assert.False(t, FileState{}.HasChange(ChangeAdded))
}

func TestManifestJSONFieldNamesAreSnakeCase(t *testing.T) {
	t.Parallel()

	m := NewManifest("p", "a", "2026-01-01T00:00:00Z")
	m.FileMap["README.md"] = FileEntry{Inode: "i1", Kind: KindText, CreatedAt: "t", ModifiedAt: "t"}

	raw, err := json.Marshal(m)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))

	for _, key := range []string{"format_version", "metadata", "file_map", "version_history", "refs", "rename_log"} {
		assert.Contains(t, decoded, key)
	}
}
