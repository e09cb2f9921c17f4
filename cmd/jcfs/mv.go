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
)

var mvCmd = &cobra.Command{
	Use:   "mv <src> <dst>",
	Short: "rename a tracked file, preserving its history",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		repo, root, backend, err := openProject(ctx)
		if err != nil {
			return err
		}
		defer backend.Close()

		srcRel, err := relPathUnder(root, args[0])
		if err != nil {
			return err
		}
		dstRel, err := relPathUnder(root, args[1])
		if err != nil {
			return err
		}

		if err := repo.RenameFile(srcRel, dstRel); err != nil {
			return fmt.Errorf("mv %s %s: %w", srcRel, dstRel, err)
		}

		dstFull := filepath.Join(root, filepath.FromSlash(dstRel))
		if err := os.MkdirAll(filepath.Dir(dstFull), 0o755); err != nil {
			return fmt.Errorf("mkdir for %s: %w", dstRel, err)
		}
		if err := os.Rename(filepath.Join(root, filepath.FromSlash(srcRel)), dstFull); err != nil {
			return fmt.Errorf("move %s to %s on disk: %w", srcRel, dstRel, err)
		}

		logger.Debug("renamed file", "from", srcRel, "to", dstRel)

		if err := repo.Sync(ctx); err != nil {
			return fmt.Errorf("persist manifest: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(mvCmd)
}
