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

	"github.com/jcfvcs/jcfs"
	"github.com/jcfvcs/jcfs/internal/registry"
	"github.com/jcfvcs/jcfs/internal/state"
	"github.com/jcfvcs/jcfs/internal/storageref"
)

var initName string

// initCmd represents the init command
var initCmd = &cobra.Command{
	Use:   "init [dir]",
	Short: "initializes a new jcfs project",
	Long: `Create a new jcfs project rooted at dir (default: the current
directory).

Creates the project's .jcfs state directory and an empty manifest, and
registers the project with the CLI's local registry. This command
fails if a project already exists at the target directory.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		dir := "."
		if len(args) == 1 {
			dir = args[0]
		}
		abs, err := filepath.Abs(dir)
		if err != nil {
			return fmt.Errorf("resolve %s: %w", dir, err)
		}

		if err := os.MkdirAll(filepath.Join(abs, storeDir), 0o755); err != nil {
			return fmt.Errorf("create %s: %w", storeDir, err)
		}

		backend, err := storageref.OpenBolt(filepath.Join(abs, storeDir, "store.bolt"))
		if err != nil {
			return fmt.Errorf("open backend: %w", err)
		}
		defer backend.Close()

		name := initName
		if name == "" {
			name = filepath.Base(abs)
		}

		_, err = jcfs.Init(ctx, backend, name, viper.GetString("author"), jcfs.Options{})
		if err != nil {
			return fmt.Errorf("initialize project: %w", err)
		}

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

		logger.Info("initialized project", "path", abs, "name", name)
		fmt.Println("initialized jcfs project at", abs)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
	initCmd.Flags().StringVar(&initName, "name", "", "project display name (default: directory name)")
}
