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

package jcfs

import (
	"errors"
	"fmt"
)

// Kind is one of the stable, language-neutral error kinds the engine
// can return. Hosts across language bindings are expected to switch on
// Kind rather than on error strings.
type Kind string

const (
	KindNotFound           Kind = "NotFound"
	KindAlreadyExists      Kind = "AlreadyExists"
	KindInvalidInput       Kind = "InvalidInput"
	KindCorruptManifest    Kind = "CorruptManifest"
	KindIntegrityError     Kind = "IntegrityError"
	KindAuthenticationError Kind = "AuthenticationError"
	KindStorageError       Kind = "StorageError"
	KindNoPath             Kind = "NoPath"
)

// Error wraps an underlying cause with a stable Kind so that callers
// can branch on errors.Is / a type switch without parsing messages.
type Error struct {
	Kind Kind
	Op   string // operation that failed, e.g. "SaveCheckpoint", "BlobStore.Get"
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Op, e.Kind)
	}
	return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Is allows errors.Is(err, jcfs.ErrNotFound) style checks by comparing
// sentinel kind errors against the wrapped Error's Kind.
func (e *Error) Is(target error) bool {
	var k *kindSentinel
	if errors.As(target, &k) {
		return e.Kind == k.kind
	}
	return false
}

type kindSentinel struct{ kind Kind }

func (k *kindSentinel) Error() string { return string(k.kind) }

// Sentinel errors usable with errors.Is against any *Error of the
// matching Kind, regardless of Op or wrapped cause.
var (
	ErrNotFound            error = &kindSentinel{KindNotFound}
	ErrAlreadyExists       error = &kindSentinel{KindAlreadyExists}
	ErrInvalidInput        error = &kindSentinel{KindInvalidInput}
	ErrCorruptManifest     error = &kindSentinel{KindCorruptManifest}
	ErrIntegrityError      error = &kindSentinel{KindIntegrityError}
	ErrAuthenticationError error = &kindSentinel{KindAuthenticationError}
	ErrStorageError        error = &kindSentinel{KindStorageError}
	ErrNoPath              error = &kindSentinel{KindNoPath}
)

// newErr builds an *Error, wrapping cause (which may be nil).
func newErr(kind Kind, op string, cause error) *Error {
	return &Error{Kind: kind, Op: op, Err: cause}
}

// KindOf returns the Kind carried by err, or "" if err does not carry
// one (e.g. it's a plain error from outside the engine).
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}
