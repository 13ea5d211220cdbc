package bufferstate

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/zeta1999/celerity-runtime/internal/ids"
	"github.com/zeta1999/celerity-runtime/internal/region"
)

// SourceBox pairs a box of index space with the set of nodes that hold a
// valid copy of it, as returned by GetSourceNodes.
type SourceBox struct {
	Box   region.Box
	Nodes ids.NodeSet
}

// fragment is one piece of the "written-so-far" tiling: a region tagged
// with the set of nodes that currently hold a valid copy of it.
type fragment struct {
	region region.Region
	nodes  ids.NodeSet
}

// State is a per-buffer region -> node-set validity map. The zero State
// represents a buffer with nothing written yet.
type State struct {
	fragments []fragment
}

// New returns an empty buffer state, equivalent to the zero value.
func New() *State {
	return &State{}
}

// UpdateRegion replaces the coverage of r with exactly nodes: every
// fragment currently intersecting r is split, the r-intersecting part is
// retagged to nodes (the latest writer owns validity), and fragments that
// end up sharing both geometry-adjacency and node-set equality are
// re-merged.
func (s *State) UpdateRegion(r region.Region, nodes ids.NodeSet) {
	if r.Empty() {
		return
	}
	var kept []fragment
	for _, f := range s.fragments {
		remaining := region.Subtract(f.region, r)
		if !remaining.Empty() {
			kept = append(kept, fragment{region: remaining, nodes: f.nodes})
		}
	}
	kept = append(kept, fragment{region: r, nodes: nodes})
	s.fragments = coalesce(kept)
}

// GetSourceNodes returns a cover [(box_i, nodes_i)] whose boxes tile
// r intersected with the currently-valid portion of the buffer, in
// lexicographic order by lower corner. It panics if any index of r has
// never been written — a read of a never-produced region is a programmer-
// contract violation per spec.md §4.2/§7a.
func (s *State) GetSourceNodes(r region.Region) []SourceBox {
	if r.Empty() {
		return nil
	}

	covered := s.covered()
	if !region.Subtract(r, covered).Empty() {
		panic(fmt.Sprintf("bufferstate: read of uncovered region %v (covered: %v)", r.Boxes(), covered.Boxes()))
	}

	var out []SourceBox
	for _, f := range s.fragments {
		overlap := region.Intersect(f.region, r)
		if overlap.Empty() {
			continue
		}
		for _, b := range overlap.Boxes() {
			out = append(out, SourceBox{Box: b, Nodes: f.nodes})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i].Box.Min, out[j].Box.Min
		for k := 0; k < 3; k++ {
			if a[k] != b[k] {
				return a[k] < b[k]
			}
		}
		return false
	})
	return out
}

// covered returns the union of every fragment's region: the set of indices
// that have ever been produced.
func (s *State) covered() region.Region {
	var acc region.Region
	for _, f := range s.fragments {
		acc = region.Merge(acc, f.region)
	}
	return acc
}

// coalesce merges fragments that share an identical node set, since those
// are the only merges that preserve the "latest writer owns validity"
// semantics (spec.md §4.2).
func coalesce(fragments []fragment) []fragment {
	groups := make(map[string]region.Region)
	nodeSets := make(map[string]ids.NodeSet)
	order := make([]string, 0, len(fragments))
	for _, f := range fragments {
		key := nodeSetKey(f.nodes)
		if _, ok := groups[key]; !ok {
			order = append(order, key)
			nodeSets[key] = f.nodes
		}
		groups[key] = region.Merge(groups[key], f.region)
	}
	out := make([]fragment, 0, len(order))
	for _, key := range order {
		r := groups[key]
		if r.Empty() {
			continue
		}
		out = append(out, fragment{region: r, nodes: nodeSets[key]})
	}
	return out
}

func nodeSetKey(nodes ids.NodeSet) string {
	parts := make([]string, len(nodes))
	for i, n := range nodes {
		parts[i] = strconv.FormatUint(uint64(n), 10)
	}
	return strings.Join(parts, ",")
}
