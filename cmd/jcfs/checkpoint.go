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
	"crypto/rand"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"

	"github.com/jcfvcs/jcfs/internal/crypt"
	"github.com/jcfvcs/jcfs/internal/registry"
)

var (
	checkpointMessage string
	checkpointAuthor  string
	checkpointEncrypt bool
)

var checkpointCmd = &cobra.Command{
	Use:   "checkpoint",
	Short: "snapshot the current working directory as a new version",
	RunE: func(cmd *cobra.Command, args []string) error {
		if checkpointMessage == "" {
			return fmt.Errorf("a checkpoint message is required (-m)")
		}

		ctx := context.Background()

		author := checkpointAuthor
		if author == "" {
			author = viper.GetString("author")
		}

		var key *crypt.Key
		if checkpointEncrypt {
			derived, err := promptKey()
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

		id, err := repo.SaveCheckpoint(ctx, checkpointMessage, author)
		if err != nil {
			return fmt.Errorf("checkpoint: %w", err)
		}

		if reg, err := registry.Open(ctx, viper.GetString("registry")); err == nil {
			defer reg.Close()
			if err := reg.RecordCheckpoint(ctx, root, id); err != nil {
				logger.Warn("failed to update registry", "error", err)
			}
		} else {
			logger.Warn("failed to open registry", "error", err)
		}

		fmt.Println(id)
		return nil
	},
}

// promptKey reads a passphrase twice from the controlling terminal
// (no echo) and derives an AES key from it with a freshly generated
// salt. The salt is not persisted by the CLI: the same passphrase must
// be supplied again, together with whatever salt the caller tracks, to
// decrypt later. v1 of the CLI keeps this deliberately simple and
// prints the salt so the operator can record it themselves.
func promptKey() (crypt.Key, error) {
	fmt.Fprint(os.Stderr, "passphrase: ")
	pass1, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return crypt.Key{}, fmt.Errorf("read passphrase: %w", err)
	}

	fmt.Fprint(os.Stderr, "confirm passphrase: ")
	pass2, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return crypt.Key{}, fmt.Errorf("read passphrase: %w", err)
	}
	if string(pass1) != string(pass2) {
		return crypt.Key{}, fmt.Errorf("passphrases do not match")
	}

	salt := make([]byte, 16)
	if _, err := rand.Read(salt); err != nil {
		return crypt.Key{}, fmt.Errorf("generate salt: %w", err)
	}
	fmt.Fprintf(os.Stderr, "salt (record this, it is required to restore): %x\n", salt)

	return crypt.DeriveKey(string(pass1), salt), nil
}

func init() {
	rootCmd.AddCommand(checkpointCmd)
	checkpointCmd.Flags().StringVarP(&checkpointMessage, "message", "m", "", "checkpoint message")
	checkpointCmd.Flags().StringVar(&checkpointAuthor, "author", "", "checkpoint author (default: config author)")
	checkpointCmd.Flags().BoolVar(&checkpointEncrypt, "encrypt", false, "encrypt new blobs/deltas with a passphrase-derived key")
}
