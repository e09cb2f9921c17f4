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

// Package versiongraph derives graph queries (ancestors, paths,
// cycle-detection) over a Manifest's linear version history. Branching
// is out of scope in v1, but the graph is modeled generally (parent
// links) so the representation does not have to change if branching
// is added later.
package versiongraph

import (
	"errors"
	"fmt"

	"github.com/jcfvcs/jcfs/internal/model"
)

// ErrNoPath indicates that to is not reachable from from by walking
// parent links: branching and non-ancestor targets are out of scope
// in v1, so this is the terminal failure mode for Path.
var ErrNoPath = errors.New("no path between versions")

// Graph is a read-only view over a manifest's version history,
// indexed for O(1) lookups.
type Graph struct {
	byID   map[string]model.Version
	order  []string // insertion order, for deterministic iteration
}

// Build indexes versions for graph queries.
func Build(versions []model.Version) *Graph {
	g := &Graph{byID: make(map[string]model.Version, len(versions))}
	for _, v := range versions {
		g.byID[v.ID] = v
		g.order = append(g.order, v.ID)
	}
	return g
}

// Get returns the version with the given id.
func (g *Graph) Get(id string) (model.Version, bool) {
	v, ok := g.byID[id]
	return v, ok
}

// Ancestors returns the chain from id up to the root, inclusive of id,
// ordered child-to-root. It is finite and acyclic by construction
// because ValidateAcyclic rejects cycles at load time.
func (g *Graph) Ancestors(id string) ([]string, error) {
	var chain []string
	seen := make(map[string]bool)
	cur := id
	for cur != "" {
		if seen[cur] {
			return nil, fmt.Errorf("cycle detected at version %s", cur)
		}
		seen[cur] = true

		v, ok := g.byID[cur]
		if !ok {
			return nil, fmt.Errorf("version %s not found", cur)
		}
		chain = append(chain, cur)
		cur = v.Parent
	}
	return chain, nil
}

// Path returns the ordered chain [from, ..., to] where every adjacent
// pair is parent-related, i.e. to must be an ancestor of from
// (inclusive). Returns an error if to is not reachable from from by
// walking parent links (branching/non-ancestor targets are out of
// scope in v1).
func (g *Graph) Path(from, to string) ([]string, error) {
	if from == to {
		if _, ok := g.byID[from]; !ok {
			return nil, fmt.Errorf("version %s not found", from)
		}
		return []string{from}, nil
	}

	chain, err := g.Ancestors(from)
	if err != nil {
		return nil, err
	}

	for i, id := range chain {
		if id == to {
			return chain[:i+1], nil
		}
	}
	return nil, fmt.Errorf("%w: from %s to %s", ErrNoPath, from, to)
}

// ValidateAcyclic walks every version's parent chain and fails if a
// cycle is found, or if a parent id does not resolve to an existing
// version. Called on manifest load.
func ValidateAcyclic(versions []model.Version) error {
	g := Build(versions)
	for _, v := range versions {
		if _, err := g.Ancestors(v.ID); err != nil {
			return err
		}
	}
	return nil
}
