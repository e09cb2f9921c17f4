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
	"encoding/hex"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/jcfvcs/jcfs/internal/crypt"
)

var restoreDecrypt bool

var restoreCmd = &cobra.Command{
	Use:   "restore <version-id>",
	Short: "reset the working directory to match a prior version",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		var key *crypt.Key
		if restoreDecrypt {
			derived, err := promptDecryptKey()
			if err != nil {
				return err
			}
			key = &derived
		}

		repo, root, backend, err := openProjectWithKey(ctx, key)
		if err != nil {
			return err
		}
		defer backend.Close()

		before := make(map[string]bool)
		for _, p := range repo.ListFiles() {
			before[p] = true
		}

		if err := repo.RestoreVersion(ctx, args[0]); err != nil {
			return fmt.Errorf("restore %s: %w", args[0], err)
		}

		after := repo.WorkingFiles()
		for p := range before {
			if _, ok := after[p]; !ok {
				if err := removeFromTree(root, p); err != nil {
					return err
				}
			}
		}
		if err := writeTree(root, after); err != nil {
			return err
		}

		fmt.Println("restored to", args[0])
		return nil
	},
}

// promptDecryptKey reads the passphrase and salt needed to decrypt a
// repository that was checkpointed with --encrypt. Unlike
// promptKey, the salt is supplied by the operator rather than
// generated, since it must match whatever checkpoint produced the
// encrypted data being restored.
func promptDecryptKey() (crypt.Key, error) {
	fmt.Fprint(os.Stderr, "passphrase: ")
	pass, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return crypt.Key{}, fmt.Errorf("read passphrase: %w", err)
	}

	fmt.Fprint(os.Stderr, "salt (hex): ")
	var saltHex string
	if _, err := fmt.Scanln(&saltHex); err != nil {
		return crypt.Key{}, fmt.Errorf("read salt: %w", err)
	}
	salt, err := hex.DecodeString(saltHex)
	if err != nil {
		return crypt.Key{}, fmt.Errorf("decode salt: %w", err)
	}

	return crypt.DeriveKey(string(pass), salt), nil
}

func init() {
	rootCmd.AddCommand(restoreCmd)
	restoreCmd.Flags().BoolVar(&restoreDecrypt, "decrypt", false, "prompt for the passphrase and salt used to encrypt this repository")
}
