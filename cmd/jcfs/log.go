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

	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/jcfvcs/jcfs/internal/model"
)

var logCmd = &cobra.Command{
	Use:   "log [path]",
	Short: "print the version history of the repository, or of one path",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		repo, root, backend, err := openProject(ctx)
		if err != nil {
			return err
		}
		defer backend.Close()

		var versions []model.Version
		if len(args) == 1 {
			rel, err := relPathUnder(root, args[0])
			if err != nil {
				return err
			}
			versions, err = repo.GetFileHistory(rel)
			if err != nil {
				return fmt.Errorf("log %s: %w", rel, err)
			}
		} else {
			versions = repo.Versions()
		}

		rows := make([][]string, 0, len(versions))
		for i := len(versions) - 1; i >= 0; i-- {
			v := versions[i]
			head := ""
			if v.ID == repo.Head() {
				head = " (HEAD)"
			}
			rows = append(rows, []string{
				fmt.Sprintf(" %s%s ", v.ID, head),
				fmt.Sprintf(" %s ", v.Timestamp),
				fmt.Sprintf(" %s ", v.Author),
				fmt.Sprintf(" %s ", v.Message),
			})
		}

		t := table.New().
			Headers(" Version ", " Timestamp ", " Author ", " Message ").
			Rows(rows...)

		fmt.Println(t)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(logCmd)
}
