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
	"path/filepath"

	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jcfvcs/jcfs/internal/registry"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "list every project the CLI has opened before",
	Args:  cobra.ExactArgs(0),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		reg, err := registry.Open(ctx, viper.GetString("registry"))
		if err != nil {
			return fmt.Errorf("open registry: %w", err)
		}
		defer reg.Close()

		entries, err := reg.List(ctx)
		if err != nil {
			return fmt.Errorf("list projects: %w", err)
		}

		rows := make([][]string, 0, len(entries))
		for _, e := range entries {
			rows = append(rows, []string{
				fmt.Sprintf(" %s ", e.DisplayName),
				fmt.Sprintf(" %s ", e.Path),
				fmt.Sprintf(" %s ", e.LastCheckpointID),
				fmt.Sprintf(" %s ", e.LastOpenedAt),
			})
		}

		t := table.New().
			Headers(" Name ", " Path ", " Last Checkpoint ", " Last Opened ").
			Rows(rows...)

		fmt.Println(t)
		return nil
	},
}

var forgetCmd = &cobra.Command{
	Use:   "forget <dir>",
	Short: "remove a project from the CLI's local registry",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		abs, err := filepath.Abs(args[0])
		if err != nil {
			return fmt.Errorf("resolve %s: %w", args[0], err)
		}

		reg, err := registry.Open(ctx, viper.GetString("registry"))
		if err != nil {
			return fmt.Errorf("open registry: %w", err)
		}
		defer reg.Close()

		if err := reg.Forget(ctx, abs); err != nil {
			return fmt.Errorf("forget %s: %w", abs, err)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(forgetCmd)
}
