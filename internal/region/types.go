package region

import (
	"fmt"
	"sort"
)

// Point is a coordinate in 3-dimensional index space.
type Point [3]uint64

// Box is a half-open axis-aligned box: it contains every point p such that
// Min[i] <= p[i] < Max[i] for all i. A box with Min == Max on any axis is
// empty.
type Box struct {
	Min Point
	Max Point
}

// Empty reports whether the box contains no indices.
func (b Box) Empty() bool {
	for i := 0; i < 3; i++ {
		if b.Min[i] >= b.Max[i] {
			return true
		}
	}
	return false
}

// Area returns the number of indices contained in the box.
func (b Box) Area() uint64 {
	if b.Empty() {
		return 0
	}
	area := uint64(1)
	for i := 0; i < 3; i++ {
		area *= b.Max[i] - b.Min[i]
	}
	return area
}

// Intersects reports whether two boxes overlap on every axis.
func (b Box) Intersects(o Box) bool {
	for i := 0; i < 3; i++ {
		if b.Min[i] >= o.Max[i] || o.Min[i] >= b.Max[i] {
			return false
		}
	}
	return true
}

// Contains reports whether p lies within the box.
func (b Box) Contains(p Point) bool {
	for i := 0; i < 3; i++ {
		if p[i] < b.Min[i] || p[i] >= b.Max[i] {
			return false
		}
	}
	return true
}

func (b Box) String() string {
	return fmt.Sprintf("[%d,%d,%d)-[%d,%d,%d)", b.Min[0], b.Min[1], b.Min[2], b.Max[0], b.Max[1], b.Max[2])
}

// Region is an ordered set of non-overlapping boxes, canonical in the sense
// that no two boxes are adjacent-and-mergeable along any axis. The zero
// Region is the empty region.
type Region struct {
	boxes []Box
}

// FromBoxes builds a canonical Region from an arbitrary (possibly
// overlapping, possibly non-canonical) set of boxes.
func FromBoxes(boxes ...Box) Region {
	r := Region{}
	for _, b := range boxes {
		r = Merge(r, Region{boxes: []Box{b}})
	}
	return r
}

// Boxes returns the region's maximal boxes in deterministic, lexicographic
// order by lower corner. Downstream region-to-node assignment depends on
// this order for reproducibility.
func (r Region) Boxes() []Box {
	out := make([]Box, len(r.boxes))
	copy(out, r.boxes)
	sortBoxes(out)
	return out
}

// Area returns the total number of indices contained in the region.
func (r Region) Area() uint64 {
	var total uint64
	for _, b := range r.boxes {
		total += b.Area()
	}
	return total
}

// Empty reports whether the region contains no indices.
func (r Region) Empty() bool {
	return r.Area() == 0
}

// Equal reports whether two regions cover exactly the same set of indices.
func (r Region) Equal(o Region) bool {
	return Subtract(r, o).Empty() && Subtract(o, r).Empty()
}

func sortBoxes(boxes []Box) {
	sort.Slice(boxes, func(i, j int) bool {
		a, b := boxes[i].Min, boxes[j].Min
		for k := 0; k < 3; k++ {
			if a[k] != b[k] {
				return a[k] < b[k]
			}
		}
		return false
	})
}
