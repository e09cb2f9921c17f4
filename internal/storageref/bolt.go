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

package storageref

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	bolt "go.etcd.io/bbolt"
)

var objectsBucket = []byte("objects")

// Bolt is a StoragePort backed by a single bbolt database file. Every
// key/value pair lives in one bucket; StoragePort paths (which already
// use "/" to separate ".store/blobs/..." style segments) are used
// directly as bbolt keys. bbolt's own transaction commit gives the
// write-atomicity StoragePort requires, without a separate
// temp-file-then-rename dance.
type Bolt struct {
	db *bolt.DB
}

// OpenBolt opens (creating if absent) a bbolt-backed store at dbPath.
func OpenBolt(dbPath string) (*Bolt, error) {
	db, err := bolt.Open(dbPath, 0o600, &bolt.Options{Timeout: 5 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("open bbolt database: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(objectsBucket)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("create objects bucket: %w", err)
	}

	return &Bolt{db: db}, nil
}

// Close releases the underlying database file.
func (b *Bolt) Close() error {
	return b.db.Close()
}

func (b *Bolt) Read(_ context.Context, path string) ([]byte, error) {
	var out []byte
	err := b.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(objectsBucket).Get([]byte(path))
		if v == nil {
			return fmt.Errorf("%w: %s", os.ErrNotExist, path)
		}
		out = make([]byte, len(v))
		copy(out, v)
		return nil
	})
	return out, err
}

func (b *Bolt) Write(_ context.Context, path string, data []byte) error {
	return b.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(objectsBucket).Put([]byte(path), data)
	})
}

func (b *Bolt) Delete(_ context.Context, path string) error {
	return b.db.Update(func(tx *bolt.Tx) error {
		bkt := tx.Bucket(objectsBucket)
		if bkt.Get([]byte(path)) == nil {
			return fmt.Errorf("%w: %s", os.ErrNotExist, path)
		}
		return bkt.Delete([]byte(path))
	})
}

func (b *Bolt) Exists(_ context.Context, path string) (bool, error) {
	var ok bool
	err := b.db.View(func(tx *bolt.Tx) error {
		ok = tx.Bucket(objectsBucket).Get([]byte(path)) != nil
		return nil
	})
	return ok, err
}

func (b *Bolt) List(_ context.Context, dir string) ([]string, error) {
	prefix := dir
	if prefix != "" && !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}

	var out []string
	err := b.db.View(func(tx *bolt.Tx) error {
		c := tx.Bucket(objectsBucket).Cursor()
		bp := []byte(prefix)
		for k, _ := c.Seek(bp); k != nil && strings.HasPrefix(string(k), prefix); k, _ = c.Next() {
			out = append(out, string(k))
		}
		return nil
	})
	return out, err
}

func (b *Bolt) Size(_ context.Context, path string) (int64, error) {
	var n int64
	err := b.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(objectsBucket).Get([]byte(path))
		if v == nil {
			return fmt.Errorf("%w: %s", os.ErrNotExist, path)
		}
		n = int64(len(v))
		return nil
	})
	return n, err
}
