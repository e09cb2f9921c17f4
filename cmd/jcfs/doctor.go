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

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "validate manifest invariants without changing anything",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		repo, _, backend, err := openProject(ctx)
		if err != nil {
			return err
		}
		defer backend.Close()

		report, err := repo.Doctor(ctx)
		if err != nil {
			return fmt.Errorf("doctor: %w", err)
		}

		fmt.Printf("versions checked: %d\n", report.VersionsChecked)
		for _, h := range report.MissingBlobs {
			fmt.Println("missing blob:", h)
		}
		for _, d := range report.MissingDeltas {
			fmt.Println("missing delta:", d)
		}

		if !report.OK() {
			return fmt.Errorf("repository is inconsistent")
		}
		fmt.Println("ok")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(doctorCmd)
}
