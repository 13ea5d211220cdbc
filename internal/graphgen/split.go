package graphgen

import (
	"fmt"

	"github.com/zeta1999/celerity-runtime/internal/region"
)

// splitEqual splits a dims-dimensional task of the given global size into
// numChunks equal sub-subranges along the outermost (axis 0) dimension;
// the last chunk absorbs the remainder. 3-D splitting is not supported and
// fails loudly, per spec.md §4.4 step 1.
func splitEqual(dims int, globalSize region.Point, numChunks int) ([]region.Subrange, error) {
	if numChunks == 0 {
		return nil, fmt.Errorf("graphgen: numChunks must be > 0")
	}
	switch dims {
	case 1, 2:
		// fallthrough to shared implementation below
	case 3:
		return nil, fmt.Errorf("graphgen: 3-D split_equal not supported")
	default:
		return nil, fmt.Errorf("graphgen: unsupported task dimensionality %d", dims)
	}

	total := globalSize[0]
	base := total / uint64(numChunks)
	rem := total % uint64(numChunks)

	chunks := make([]region.Subrange, numChunks)
	var offset uint64
	for i := 0; i < numChunks; i++ {
		size := base
		if i == numChunks-1 {
			size += rem
		}
		var sr region.Subrange
		switch dims {
		case 1:
			sr = region.Subrange1D(offset, size, globalSize[0])
		case 2:
			sr = region.Subrange2D(
				[2]uint64{offset, 0},
				[2]uint64{size, globalSize[1]},
				[2]uint64{globalSize[0], globalSize[1]},
			)
		}
		chunks[i] = sr
		offset += size
	}
	return chunks, nil
}
