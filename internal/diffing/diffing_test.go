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

package diffing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeApplyRoundTrip(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		old  string
		new  string
	}{
		{name: "identical", old: "the quick brown fox", new: "the quick brown fox"},
		{name: "append", old: "line one\n", new: "line one\nline two\n"},
		{name: "prepend", old: "line two\n", new: "line zero\nline two\n"},
		{name: "middle edit", old: "alpha\nbeta\ngamma\n", new: "alpha\nBETA\ngamma\n"},
		{name: "empty to nonempty", old: "", new: "new content"},
		{name: "nonempty to empty", old: "old content", new: ""},
		{name: "large rewrite", old: "abcdefghij", new: "zzzzzzzzzz"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			patch := Compute(tt.old, tt.new)
			got, err := Apply(patch, tt.old)
			require.NoError(t, err)
			assert.Equal(t, tt.new, got)
		})
	}
}

func TestApplyRejectsGarbagePatch(t *testing.T) {
	t.Parallel()

	_, err := Apply("not a valid patch format", "base text")
	assert.Error(t, err)
}

func TestApplyFailsWhenBaseDoesNotMatch(t *testing.T) {
	t.Parallel()

	old := "Lorem ipsum dolor sit amet, consectetur adipiscing elit, sed do eiusmod tempor incididunt ut labore et dolore magna aliqua.\n"
	new := "Lorem ipsum dolor sit amet, consectetur adipiscing elit, sed do eiusmod tempor CHANGED ut labore et dolore magna aliqua.\n"
	patch := Compute(old, new)

	unrelated := "9f3e8a12 completely different binary-looking content 0042 zz zz zz that shares no tokens with the patch context at all\n"
	_, err := Apply(patch, unrelated)
	assert.Error(t, err)
}
