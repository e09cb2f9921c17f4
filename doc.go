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

// Package jcfs implements a versioned virtual file system engine: a
// Git-like layer of checkpoints, history and restoration over an
// arbitrary byte-addressable storage backend.
//
// A [Repository] owns a manifest (the serialized project state), a
// working directory of pending edits, a content-addressed blob store
// for binary files, and a reverse-delta store for text files. Callers
// mutate the working directory, then call [Repository.SaveCheckpoint]
// to snapshot it, or [Repository.RestoreVersion] to reset the working
// directory to an earlier snapshot.
//
// The package does not implement a storage backend itself; callers
// supply one satisfying [StoragePort]. See the internal/storageref
// package for reference implementations used by this module's own
// tests and CLI.
package jcfs
