// Package rangemapper defines the range-mapper contract external task
// producers implement: a function from a chunk's kernel-iteration subrange
// to the buffer-index subrange a given accessor touches.
//
// Buffer-dimensionality dispatch is modelled as a sum of three concrete
// function signatures rather than runtime polymorphism, per the source's
// DESIGN NOTES on range-mapper dispatch: the original switches on an
// integer; here each RangeMapper carries exactly one of Map1/Map2/Map3,
// selected once per accessor by BufferDimensions.
package rangemapper

import (
	"fmt"

	"github.com/zeta1999/celerity-runtime/internal/region"
)

// AccessMode is the access mode a range mapper was registered for.
type AccessMode int

const (
	Read AccessMode = iota
	Write
)

func (m AccessMode) String() string {
	if m == Write {
		return "write"
	}
	return "read"
}

// Fn1D, Fn2D and Fn3D map a chunk's kernel subrange to the 1/2/3-D buffer
// subrange an accessor touches.
type Fn1D func(chunk region.Subrange) region.Subrange
type Fn2D func(chunk region.Subrange) region.Subrange
type Fn3D func(chunk region.Subrange) region.Subrange

// RangeMapper is one (buffer, accessor) binding on a compute task: it
// knows the kernel and buffer dimensionality, the access mode, and exactly
// one concrete mapping function selected by BufferDimensions.
type RangeMapper struct {
	KernelDimensions int
	BufferDimensions int
	Mode             AccessMode

	Map1 Fn1D
	Map2 Fn2D
	Map3 Fn3D
}

// Apply maps chunk (a kernel-iteration subrange) to the buffer subrange
// this mapper's accessor will touch, dispatching once on BufferDimensions.
func (rm RangeMapper) Apply(chunk region.Subrange) region.Subrange {
	switch rm.BufferDimensions {
	case 1:
		return rm.Map1(chunk)
	case 2:
		return rm.Map2(chunk)
	case 3:
		return rm.Map3(chunk)
	default:
		panic(fmt.Sprintf("rangemapper: unsupported buffer dimensionality %d", rm.BufferDimensions))
	}
}

// Identity1D returns a RangeMapper whose buffer subrange exactly equals
// the chunk subrange — the common "1:1 access" case.
func Identity1D(mode AccessMode) RangeMapper {
	return RangeMapper{
		KernelDimensions: 1,
		BufferDimensions: 1,
		Mode:             mode,
		Map1:             func(chunk region.Subrange) region.Subrange { return chunk },
	}
}
