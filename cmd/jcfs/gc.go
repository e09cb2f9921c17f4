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

var gcCmd = &cobra.Command{
	Use:   "gc",
	Short: "sweep unreachable blobs and deltas",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		repo, _, backend, err := openProject(ctx)
		if err != nil {
			return err
		}
		defer backend.Close()

		report, err := repo.GC(ctx)
		if err != nil {
			return fmt.Errorf("gc: %w", err)
		}

		fmt.Printf("blobs checked: %d, deleted: %d\n", report.BlobsChecked, report.BlobsDeleted)
		fmt.Printf("deltas checked: %d, deleted: %d\n", report.DeltasChecked, report.DeltasDeleted)
		fmt.Printf("bytes freed: %d\n", report.BytesFreed)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(gcCmd)
}
