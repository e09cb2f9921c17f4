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
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/jcfvcs/jcfs/internal/state"
)

var useCmd = &cobra.Command{
	Use:   "use [dir]",
	Short: "set the default project commands operate on outside any project directory",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := "."
		if len(args) == 1 {
			dir = args[0]
		}
		abs, err := filepath.Abs(dir)
		if err != nil {
			return fmt.Errorf("resolve %s: %w", dir, err)
		}

		if info, err := os.Stat(filepath.Join(abs, storeDir)); err != nil || !info.IsDir() {
			return fmt.Errorf("%s is not a %s project", abs, storeDir)
		}

		if err := state.SaveActive(state.Active{ActiveProjectID: abs}); err != nil {
			return fmt.Errorf("save active project: %w", err)
		}

		fmt.Println("active project set to", abs)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(useCmd)
}
