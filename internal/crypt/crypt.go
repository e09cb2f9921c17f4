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

// Package crypt implements CryptoPort: authenticated encryption of
// blob/delta payloads at rest, and key derivation from a passphrase.
//
// Encryption is AES-256-GCM with a random per-write nonce prepended to
// the ciphertext. Key derivation is PBKDF2 over SHA-256 with a
// caller-supplied salt, matching the source's "password-based KDF,
// SHA-256-based, with a salt supplied by the caller" requirement.
package crypt

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/pbkdf2"
)

// ErrAuthentication indicates that a Decrypt call failed its GCM
// authentication check: the key is wrong, or the data was tampered
// with or corrupted. Callers should surface this as an
// authentication failure rather than generic corruption.
var ErrAuthentication = errors.New("authentication failed")

const (
	// KeySize is the AES-256 key length in bytes.
	KeySize = 32

	// pbkdf2Iterations is deliberately conservative: the core calls
	// DeriveKey once per save/restore, not per file, so the cost is
	// paid a handful of times per checkpoint rather than once per blob.
	pbkdf2Iterations = 200_000
)

// Key is a derived or caller-supplied 256-bit AES key.
type Key [KeySize]byte

// DeriveKey derives a 256-bit key from passphrase and salt using
// PBKDF2-HMAC-SHA256. The same passphrase and salt always derive the
// same key; different salts or passphrases derive unrelated keys.
func DeriveKey(passphrase string, salt []byte) Key {
	raw := pbkdf2.Key([]byte(passphrase), salt, pbkdf2Iterations, KeySize, sha256.New)
	var k Key
	copy(k[:], raw)
	return k
}

// Encrypt seals plaintext under key, returning nonce||ciphertext||tag.
func Encrypt(key Key, plaintext []byte) ([]byte, error) {
	gcm, err := newGCM(key)
	if err != nil {
		return nil, err
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, fmt.Errorf("generate nonce: %w", err)
	}

	return gcm.Seal(nonce, nonce, plaintext, nil), nil
}

// Decrypt opens data produced by Encrypt under key. A wrong key, or
// tampered data, fails with an error the caller should surface as
// AuthenticationError.
func Decrypt(key Key, data []byte) ([]byte, error) {
	gcm, err := newGCM(key)
	if err != nil {
		return nil, err
	}

	ns := gcm.NonceSize()
	if len(data) < ns {
		return nil, fmt.Errorf("decrypt: %w: ciphertext shorter than nonce size", ErrAuthentication)
	}

	nonce, ciphertext := data[:ns], data[ns:]
	plaintext, err := gcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, fmt.Errorf("decrypt: %w", ErrAuthentication)
	}
	return plaintext, nil
}

func newGCM(key Key) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key[:])
	if err != nil {
		return nil, fmt.Errorf("create cipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("create GCM: %w", err)
	}
	return gcm, nil
}
