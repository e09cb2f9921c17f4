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

// Package storage defines the abstract byte-addressable key/value
// store the engine is built on (StoragePort in the design). It is kept
// as its own leaf package, free of dependencies on the rest of the
// module, so both the root jcfs package and its internal components
// can depend on it without an import cycle.
package storage

import "context"

// Port is the storage backend contract. Implementations are external
// to this module; see internal/storageref for reference
// implementations used by this module's own tests and CLI.
//
// Write must be atomic: a caller observing the store mid-write must
// never see a partially-written object. Implementations typically
// achieve this with write-to-temp-then-rename, a database transaction,
// or an equivalent primitive.
//
// List may return either the immediate children of dir or the full
// set of descendants; the engine only ever lists the fixed prefixes
// ".store/blobs/" and ".store/deltas/" and tolerates either behavior.
//
// All methods may block and must respect ctx cancellation where
// feasible. Failures reach the caller as KindStorageError, except that
// a failed manifest read in Open is reported as KindNotFound.
type Port interface {
	Read(ctx context.Context, path string) ([]byte, error)
	Write(ctx context.Context, path string, data []byte) error
	Delete(ctx context.Context, path string) error
	Exists(ctx context.Context, path string) (bool, error)
	List(ctx context.Context, dir string) ([]string, error)
	Size(ctx context.Context, path string) (int64, error)
}
