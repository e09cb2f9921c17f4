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

// Package registry is the jcfs CLI's local index of repositories it
// has opened: path, display name, HEAD as of the last checkpoint, and
// when it was last touched. It is a CLI convenience only — the core
// engine never reads or writes it, and it carries none of the
// manifest's correctness invariants.
package registry

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var migrations embed.FS

const dbPragmas = "?_foreign_keys=ON&_journal_mode=WAL&_synchronous=NORMAL"

// Registry wraps the CLI's sqlite index.
type Registry struct {
	db *sql.DB
}

// Entry is one tracked repository.
type Entry struct {
	ID               int64
	Path             string
	DisplayName      string
	LastCheckpointID string
	LastOpenedAt     string
}

// Open opens (creating if necessary) the sqlite database at path and
// migrates it to the latest schema.
func Open(ctx context.Context, path string) (*Registry, error) {
	db, err := sql.Open("sqlite3", fmt.Sprintf("file:%s%s", path, dbPragmas))
	if err != nil {
		return nil, fmt.Errorf("open registry db: %w", err)
	}

	fsys, err := fs.Sub(migrations, "migrations")
	if err != nil {
		return nil, fmt.Errorf("prepare migrations fs: %w", err)
	}
	provider, err := goose.NewProvider(goose.DialectSQLite3, db, fsys)
	if err != nil {
		return nil, fmt.Errorf("create goose provider: %w", err)
	}
	if _, err := provider.Up(ctx); err != nil {
		return nil, fmt.Errorf("migrate registry db: %w", err)
	}

	return &Registry{db: db}, nil
}

// Close releases the underlying database handle.
func (r *Registry) Close() error {
	return r.db.Close()
}

// Upsert records path as opened just now, creating or updating its
// entry by unique path.
func (r *Registry) Upsert(ctx context.Context, path, displayName string) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO repositories (path, display_name, last_opened_at)
		VALUES (?, ?, ?)
		ON CONFLICT(path) DO UPDATE SET
			display_name = excluded.display_name,
			last_opened_at = excluded.last_opened_at
	`, path, displayName, now())
	if err != nil {
		return fmt.Errorf("upsert registry entry for %s: %w", path, err)
	}
	return nil
}

// RecordCheckpoint updates path's last known checkpoint id.
func (r *Registry) RecordCheckpoint(ctx context.Context, path, checkpointID string) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE repositories SET last_checkpoint_id = ?, last_opened_at = ?
		WHERE path = ?
	`, checkpointID, now(), path)
	if err != nil {
		return fmt.Errorf("record checkpoint for %s: %w", path, err)
	}
	return nil
}

// List returns every tracked repository, most recently opened first.
func (r *Registry) List(ctx context.Context) ([]Entry, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, path, display_name, COALESCE(last_checkpoint_id, ''), last_opened_at
		FROM repositories
		ORDER BY last_opened_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("list registry entries: %w", err)
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.Path, &e.DisplayName, &e.LastCheckpointID, &e.LastOpenedAt); err != nil {
			return nil, fmt.Errorf("scan registry entry: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// Forget removes path from the registry. It is not an error to forget
// a path that was never tracked.
func (r *Registry) Forget(ctx context.Context, path string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM repositories WHERE path = ?`, path)
	if err != nil {
		return fmt.Errorf("forget registry entry for %s: %w", path, err)
	}
	return nil
}

func now() string {
	return time.Now().UTC().Format(time.RFC3339)
}
