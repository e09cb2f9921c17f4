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

package versiongraph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jcfvcs/jcfs/internal/model"
)

func linearHistory() []model.Version {
	return []model.Version{
		{ID: "v1"},
		{ID: "v2", Parent: "v1"},
		{ID: "v3", Parent: "v2"},
	}
}

func TestGraphAncestors(t *testing.T) {
	t.Parallel()

	g := Build(linearHistory())

	chain, err := g.Ancestors("v3")
	require.NoError(t, err)
	assert.Equal(t, []string{"v3", "v2", "v1"}, chain)

	chain, err = g.Ancestors("v1")
	require.NoError(t, err)
	assert.Equal(t, []string{"v1"}, chain)
}

func TestGraphAncestorsUnknownVersion(t *testing.T) {
	t.Parallel()

	g := Build(linearHistory())
	_, err := g.Ancestors("nope")
	assert.Error(t, err)
}

func TestGraphPath(t *testing.T) {
	t.Parallel()

	g := Build(linearHistory())

	path, err := g.Path("v3", "v1")
	require.NoError(t, err)
	assert.Equal(t, []string{"v3", "v2", "v1"}, path)

	path, err = g.Path("v2", "v2")
	require.NoError(t, err)
	assert.Equal(t, []string{"v2"}, path)

	_, err = g.Path("v1", "v3")
	assert.Error(t, err, "v3 is not an ancestor of v1")
}

func TestValidateAcyclicAcceptsLinearHistory(t *testing.T) {
	t.Parallel()
	assert.NoError(t, ValidateAcyclic(linearHistory()))
}

func TestValidateAcyclicRejectsCycle(t *testing.T) {
	t.Parallel()

	versions := []model.Version{
		{ID: "v1", Parent: "v2"},
		{ID: "v2", Parent: "v1"},
	}
	assert.Error(t, ValidateAcyclic(versions))
}

func TestValidateAcyclicRejectsDanglingParent(t *testing.T) {
	t.Parallel()

	versions := []model.Version{
		{ID: "v1", Parent: "ghost"},
	}
	assert.Error(t, ValidateAcyclic(versions))
}

func TestValidateAcyclicAcceptsEmptyHistory(t *testing.T) {
	t.Parallel()
	assert.NoError(t, ValidateAcyclic(nil))
}
