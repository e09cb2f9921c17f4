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

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jcfvcs/jcfs/internal/archive"
	"github.com/jcfvcs/jcfs/internal/registry"
	"github.com/jcfvcs/jcfs/internal/state"
	"github.com/jcfvcs/jcfs/internal/storageref"
)

var importCmd = &cobra.Command{
	Use:   "import <archive-file> <dir>",
	Short: "create a new project at dir from a portable archive",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		abs, err := filepath.Abs(args[1])
		if err != nil {
			return fmt.Errorf("resolve %s: %w", args[1], err)
		}

		if err := os.MkdirAll(filepath.Join(abs, storeDir), 0o755); err != nil {
			return fmt.Errorf("create %s: %w", storeDir, err)
		}

		backend, err := storageref.OpenBolt(filepath.Join(abs, storeDir, "store.bolt"))
		if err != nil {
			return fmt.Errorf("open backend: %w", err)
		}
		defer backend.Close()

		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("open %s: %w", args[0], err)
		}
		defer f.Close()

		if err := archive.Import(ctx, f, backend); err != nil {
			return fmt.Errorf("import: %w", err)
		}

		name := filepath.Base(abs)
		reg, err := registry.Open(ctx, viper.GetString("registry"))
		if err != nil {
			return fmt.Errorf("open registry: %w", err)
		}
		defer reg.Close()
		if err := reg.Upsert(ctx, abs, name); err != nil {
			return fmt.Errorf("register project: %w", err)
		}

		if err := state.SaveActive(state.Active{ActiveProjectID: abs}); err != nil {
			logger.Warn("failed to set active project", "error", err)
		}

		fmt.Println("imported project at", abs)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(importCmd)
}
