package region

import "sort"

// cuts returns the sorted, deduplicated set of coordinates along axis that
// appear as a Min or Max of any box in boxes. These coordinates delimit the
// finest partition of the axis needed to exactly classify membership in any
// boolean combination of the given boxes.
func cuts(axis int, boxes []Box) []uint64 {
	seen := make(map[uint64]struct{}, len(boxes)*2)
	for _, b := range boxes {
		seen[b.Min[axis]] = struct{}{}
		seen[b.Max[axis]] = struct{}{}
	}
	out := make([]uint64, 0, len(seen))
	for v := range seen {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// elementaryCells decomposes the bounding structure of the given boxes into
// the maximal set of elementary (non-subdivisible) boxes induced by their
// combined boundaries, and classifies each cell's membership in a and b.
func elementaryCells(a, b []Box) (cells []Box, inA, inB []bool) {
	all := make([]Box, 0, len(a)+len(b))
	all = append(all, a...)
	all = append(all, b...)
	if len(all) == 0 {
		return nil, nil, nil
	}

	var axisCuts [3][]uint64
	for axis := 0; axis < 3; axis++ {
		axisCuts[axis] = cuts(axis, all)
	}

	for xi := 0; xi+1 < len(axisCuts[0]); xi++ {
		x0, x1 := axisCuts[0][xi], axisCuts[0][xi+1]
		if x0 == x1 {
			continue
		}
		for yi := 0; yi+1 < len(axisCuts[1]); yi++ {
			y0, y1 := axisCuts[1][yi], axisCuts[1][yi+1]
			if y0 == y1 {
				continue
			}
			for zi := 0; zi+1 < len(axisCuts[2]); zi++ {
				z0, z1 := axisCuts[2][zi], axisCuts[2][zi+1]
				if z0 == z1 {
					continue
				}
				cell := Box{Min: Point{x0, y0, z0}, Max: Point{x1, y1, z1}}
				probe := Point{x0, y0, z0}
				cells = append(cells, cell)
				inA = append(inA, containsAny(a, probe))
				inB = append(inB, containsAny(b, probe))
			}
		}
	}
	return cells, inA, inB
}

func containsAny(boxes []Box, p Point) bool {
	for _, b := range boxes {
		if b.Contains(p) {
			return true
		}
	}
	return false
}

// combine runs a boolean set operation over a and b via coordinate
// compression and coalesces the resulting elementary cells into a
// canonical Region.
func combine(a, b []Box, keep func(inA, inB bool) bool) Region {
	cells, inA, inB := elementaryCells(a, b)
	var kept []Box
	for i, c := range cells {
		if keep(inA[i], inB[i]) {
			kept = append(kept, c)
		}
	}
	return coalesce(kept)
}

// coalesce greedily fuses adjacent, boundary-aligned boxes along each axis
// in turn until no more merges are possible. The result is canonical per
// the region invariant: non-overlapping, merged where adjacent.
func coalesce(boxes []Box) Region {
	cur := boxes
	for {
		merged, changed := coalescePass(cur)
		cur = merged
		if !changed {
			break
		}
	}
	sortBoxes(cur)
	return Region{boxes: cur}
}

func coalescePass(boxes []Box) ([]Box, bool) {
	changed := false
	for axis := 0; axis < 3; axis++ {
		merged, didMerge := coalesceAxis(boxes, axis)
		boxes = merged
		changed = changed || didMerge
	}
	return boxes, changed
}

// coalesceAxis merges any two boxes that are identical on every axis except
// axis and abut exactly along axis.
func coalesceAxis(boxes []Box, axis int) ([]Box, bool) {
	used := make([]bool, len(boxes))
	var out []Box
	mergedAny := false
	for i := range boxes {
		if used[i] {
			continue
		}
		cur := boxes[i]
		for {
			mergedThisRound := false
			for j := range boxes {
				if used[j] || j == i {
					continue
				}
				if canFuse(cur, boxes[j], axis) {
					cur = fuse(cur, boxes[j], axis)
					used[j] = true
					mergedThisRound = true
					mergedAny = true
				}
			}
			if !mergedThisRound {
				break
			}
		}
		out = append(out, cur)
	}
	return out, mergedAny
}

func canFuse(a, b Box, axis int) bool {
	for i := 0; i < 3; i++ {
		if i == axis {
			continue
		}
		if a.Min[i] != b.Min[i] || a.Max[i] != b.Max[i] {
			return false
		}
	}
	return a.Max[axis] == b.Min[axis] || b.Max[axis] == a.Min[axis]
}

func fuse(a, b Box, axis int) Box {
	out := a
	if b.Min[axis] < out.Min[axis] {
		out.Min[axis] = b.Min[axis]
	}
	if b.Max[axis] > out.Max[axis] {
		out.Max[axis] = b.Max[axis]
	}
	return out
}

// Merge returns the union of a and b.
func Merge(a, b Region) Region {
	return combine(a.boxes, b.boxes, func(inA, inB bool) bool { return inA || inB })
}

// Subtract returns the maximal region contained in a and disjoint from b.
func Subtract(a, b Region) Region {
	return combine(a.boxes, b.boxes, func(inA, inB bool) bool { return inA && !inB })
}

// Intersect returns the region contained in both a and b.
func Intersect(a, b Region) Region {
	return combine(a.boxes, b.boxes, func(inA, inB bool) bool { return inA && inB })
}
