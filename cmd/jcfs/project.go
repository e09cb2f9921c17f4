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

package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jcfvcs/jcfs"
	"github.com/jcfvcs/jcfs/internal"
	"github.com/jcfvcs/jcfs/internal/crypt"
	"github.com/jcfvcs/jcfs/internal/state"
	"github.com/jcfvcs/jcfs/internal/storageref"
)

// storeDir is the fixed directory name a project root is recognized
// by, analogous to ".git".
const storeDir = ".jcfs"

// findProjectRoot walks upward from the current working directory
// looking for a storeDir, the way git locates a repository root. If
// none is found, it falls back to the CLI's active-project pointer
// (set by `jcfs init` or `jcfs use`) so that commands work from
// outside any project directory too.
func findProjectRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("get working directory: %w", err)
	}

	for {
		candidate := filepath.Join(dir, storeDir)
		if info, err := os.Stat(candidate); err == nil && info.IsDir() {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	active, err := state.LoadActive()
	if err == nil && active.ActiveProjectID != "" {
		candidate := filepath.Join(active.ActiveProjectID, storeDir)
		if info, err := os.Stat(candidate); err == nil && info.IsDir() {
			return active.ActiveProjectID, nil
		}
	}

	return "", fmt.Errorf("no %s project found (run `jcfs init` or `jcfs use <dir>` first)", storeDir)
}

// openProject locates the project root, opens its backend and
// manifest, and seeds the working directory from the on-disk content
// of every path the manifest already tracks. jcfs has no separate
// staging index: a path only joins the working directory (and so
// participates in the next checkpoint) once `add` has registered it.
func openProject(ctx context.Context) (*jcfs.Repository, string, *storageref.Bolt, error) {
	return openProjectWithKey(ctx, nil)
}

// openProjectWithKey is openProject, additionally wiring key into the
// repository's CryptoPort for commands (checkpoint --encrypt, restore)
// that need to read or write encrypted blobs/deltas.
func openProjectWithKey(ctx context.Context, key *crypt.Key) (*jcfs.Repository, string, *storageref.Bolt, error) {
	root, err := findProjectRoot()
	if err != nil {
		return nil, "", nil, err
	}

	backend, err := storageref.OpenBolt(filepath.Join(root, storeDir, "store.bolt"))
	if err != nil {
		return nil, "", nil, fmt.Errorf("open backend: %w", err)
	}

	repo, err := jcfs.Open(ctx, backend, jcfs.Options{Key: key, Verify: true})
	if err != nil {
		backend.Close()
		return nil, "", nil, fmt.Errorf("open repository: %w", err)
	}

	content := make(map[string][]byte)
	for _, path := range repo.ListFiles() {
		data, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(path)))
		if err != nil {
			if os.IsNotExist(err) {
				logger.Warn("tracked file missing from disk", "path", path)
				continue
			}
			backend.Close()
			return nil, "", nil, fmt.Errorf("read %s: %w", path, err)
		}
		content[path] = data
	}
	repo.LoadWorkingDirectory(content)

	return repo, root, backend, nil
}

// writeTree persists every entry of working to disk under root.
// Callers that need to drop paths working no longer contains (e.g.
// restore) must call removeFromTree themselves for those paths.
func writeTree(root string, working map[string][]byte) error {
	for path, content := range working {
		full := filepath.Join(root, filepath.FromSlash(path))
		if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
			return fmt.Errorf("mkdir for %s: %w", path, err)
		}
		if err := os.WriteFile(full, content, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
	}
	return nil
}

// removeFromTree deletes path from disk under root, tolerating an
// already-absent file.
func removeFromTree(root, path string) error {
	err := os.Remove(filepath.Join(root, filepath.FromSlash(path)))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove %s: %w", path, err)
	}
	return nil
}

// relPathUnder returns path relative to root, rejecting any path that
// escapes root.
func relPathUnder(root, path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	under, err := internal.IsUnderDir(abs, root)
	if err != nil {
		return "", err
	}
	if !under {
		return "", fmt.Errorf("%s is outside the project root", path)
	}

	rel, err := filepath.Rel(root, abs)
	if err != nil {
		return "", err
	}
	return filepath.ToSlash(rel), nil
}
