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

// Package model holds the typed, JSON-serializable aggregate that is
// the source of truth for a repository: the Manifest and everything
// it owns (file entries, version history, rename log). Field names on
// the wire are snake_case per the format's external spec; Go field
// names stay idiomatic Go and carry explicit `json` tags to bridge the
// two.
package model

// FormatVersion is the manifest schema version this package reads and
// writes.
const FormatVersion = "1.0.0"

// ChangeKind tags why a FileState differs from its predecessor.
type ChangeKind string

const (
	ChangeAdded    ChangeKind = "added"
	ChangeModified ChangeKind = "modified"
	ChangeRenamed  ChangeKind = "renamed"
	ChangeDeleted  ChangeKind = "deleted"
)

// FileKind classifies a file's storage representation.
type FileKind string

const (
	KindText   FileKind = "text"
	KindBinary FileKind = "binary"
)

// FileEntry is the working-directory record for a path: its stable
// inode, its kind, and (if known) its current content hash.
type FileEntry struct {
	Inode      string   `json:"inode"`
	Kind       FileKind `json:"kind"`
	Hash       string   `json:"hash,omitempty"`
	CreatedAt  string   `json:"created_at"`
	ModifiedAt string   `json:"modified_at"`
}

// FileState is a file's per-version record inside a Version's
// FileStates map. Hash is set for every non-deleted file regardless of
// kind: for binary files it is the BlobStore key, for text files it is
// purely a change-detection fingerprint (the durable record is
// DeltaRef; a save_checkpoint that finds the working hash unchanged
// from the parent's never touches DeltaStore at all).
type FileState struct {
	Inode      string       `json:"inode"`
	Hash       string       `json:"hash,omitempty"`
	DeltaRef   string       `json:"delta_ref,omitempty"`
	Deleted    bool         `json:"deleted,omitempty"`
	Encrypted  bool         `json:"encrypted,omitempty"`
	ChangeKind []ChangeKind `json:"change_kind,omitempty"`
}

// HasChange reports whether k is among s's change-kind tags.
func (s FileState) HasChange(k ChangeKind) bool {
	for _, c := range s.ChangeKind {
		if c == k {
			return true
		}
	}
	return false
}

// Version is an immutable snapshot record. Once appended to a
// Manifest's history it is never mutated.
type Version struct {
	ID         string               `json:"id"`
	Parent     string               `json:"parent,omitempty"`
	Timestamp  string               `json:"timestamp"`
	Message    string               `json:"message"`
	Author     string               `json:"author"`
	FileStates map[string]FileState `json:"file_states"`
}

// RenameEntry is an append-only record of a path rename.
type RenameEntry struct {
	Inode     string `json:"inode"`
	FromPath  string `json:"from_path"`
	ToPath    string `json:"to_path"`
	VersionID string `json:"version_id"`
	Timestamp string `json:"timestamp"`
}

// Metadata is project-level descriptive information.
type Metadata struct {
	Name         string `json:"name"`
	Description  string `json:"description,omitempty"`
	Created      string `json:"created"`
	LastModified string `json:"last_modified"`
	Author       string `json:"author,omitempty"`
}

// Manifest is the serialized aggregate root of a repository: the
// on-wire form of ".store/manifest.json".
type Manifest struct {
	FormatVersion  string               `json:"format_version"`
	Metadata       Metadata             `json:"metadata"`
	FileMap        map[string]FileEntry `json:"file_map"`
	VersionHistory []Version            `json:"version_history"`
	Refs           map[string]string    `json:"refs"`
	RenameLog      []RenameEntry        `json:"rename_log"`
}

// NewManifest returns an empty manifest for a new project named name.
func NewManifest(name, author, now string) *Manifest {
	return &Manifest{
		FormatVersion: FormatVersion,
		Metadata: Metadata{
			Name:         name,
			Created:      now,
			LastModified: now,
			Author:       author,
		},
		FileMap:        map[string]FileEntry{},
		VersionHistory: []Version{},
		Refs:           map[string]string{"head": ""},
		RenameLog:      []RenameEntry{},
	}
}

// Head returns the manifest's current head version id, or "" if the
// repository has no versions yet.
func (m *Manifest) Head() string {
	return m.Refs["head"]
}

// FindVersion returns the Version with the given id, or false if none
// exists.
func (m *Manifest) FindVersion(id string) (Version, bool) {
	for _, v := range m.VersionHistory {
		if v.ID == id {
			return v, true
		}
	}
	return Version{}, false
}
