package region

import "math"

// Unbounded is the sentinel global-size value meaning "do not clip this
// axis" — used by the transfer manager for the subrange carried in a data
// header, which has no declared kernel global size.
const Unbounded = math.MaxUint64

// Subrange describes a D-dimensional (D <= 3) box of a buffer or kernel
// iteration space, promoted to 3-D by padding trailing dimensions with an
// offset of 0, a range of 1 and a global size of 1.
type Subrange struct {
	Dims       int
	Offset     Point
	Range      Point
	GlobalSize Point
}

// Subrange1D builds a 1-dimensional subrange, padding axes 1 and 2.
func Subrange1D(offset, rng, globalSize uint64) Subrange {
	return Subrange{
		Dims:       1,
		Offset:     Point{offset, 0, 0},
		Range:      Point{rng, 1, 1},
		GlobalSize: Point{globalSize, 1, 1},
	}
}

// Subrange2D builds a 2-dimensional subrange, padding axis 2.
func Subrange2D(offset, rng, globalSize [2]uint64) Subrange {
	return Subrange{
		Dims:       2,
		Offset:     Point{offset[0], offset[1], 0},
		Range:      Point{rng[0], rng[1], 1},
		GlobalSize: Point{globalSize[0], globalSize[1], 1},
	}
}

// Subrange3D builds a 3-dimensional subrange.
func Subrange3D(offset, rng, globalSize [3]uint64) Subrange {
	return Subrange{Dims: 3, Offset: offset, Range: rng, GlobalSize: globalSize}
}

// Box converts the subrange to a Box, clamping the upper corner to the
// subrange's global size on each axis (a no-op where GlobalSize is
// Unbounded).
func (s Subrange) Box() Box {
	var max Point
	for i := 0; i < 3; i++ {
		end := s.Offset[i] + s.Range[i]
		if s.GlobalSize[i] != Unbounded && end > s.GlobalSize[i] {
			end = s.GlobalSize[i]
		}
		max[i] = end
	}
	return Box{Min: s.Offset, Max: max}
}

// ToRegion converts the subrange to a single-box Region via Box.
func (s Subrange) ToRegion() Region {
	b := s.Box()
	if b.Empty() {
		return Region{}
	}
	return Region{boxes: []Box{b}}
}
