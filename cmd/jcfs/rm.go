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

	"github.com/spf13/cobra"
)

var rmKeepDisk bool

var rmCmd = &cobra.Command{
	Use:   "rm <path>...",
	Short: "untrack one or more files from the working directory",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		repo, root, backend, err := openProject(ctx)
		if err != nil {
			return err
		}
		defer backend.Close()

		for _, arg := range args {
			rel, err := relPathUnder(root, arg)
			if err != nil {
				return err
			}
			if err := repo.DeleteFile(rel); err != nil {
				return fmt.Errorf("rm %s: %w", rel, err)
			}
			if !rmKeepDisk {
				if err := removeFromTree(root, rel); err != nil {
					return err
				}
			}
			logger.Debug("untracked file", "path", rel)
		}

		if err := repo.Sync(ctx); err != nil {
			return fmt.Errorf("persist manifest: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(rmCmd)
	rmCmd.Flags().BoolVar(&rmKeepDisk, "keep", false, "untrack without deleting the file from disk")
}
