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

	"github.com/jcfvcs/jcfs/internal/archive"
	"github.com/jcfvcs/jcfs/internal/storageref"
)

var exportCmd = &cobra.Command{
	Use:   "export <archive-file>",
	Short: "write the project's manifest and object store to a portable archive",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		root, err := findProjectRoot()
		if err != nil {
			return err
		}

		backend, err := storageref.OpenBolt(filepath.Join(root, storeDir, "store.bolt"))
		if err != nil {
			return fmt.Errorf("open backend: %w", err)
		}
		defer backend.Close()

		f, err := os.Create(args[0])
		if err != nil {
			return fmt.Errorf("create %s: %w", args[0], err)
		}
		defer f.Close()

		if err := archive.Export(ctx, f, backend); err != nil {
			return fmt.Errorf("export: %w", err)
		}

		fmt.Println("exported to", args[0])
		return nil
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)
}
