package region

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func box(x0, y0, z0, x1, y1, z1 uint64) Box {
	return Box{Min: Point{x0, y0, z0}, Max: Point{x1, y1, z1}}
}

func TestBoxArea(t *testing.T) {
	b := box(0, 0, 0, 10, 1, 1)
	assert.Equal(t, uint64(10), b.Area())

	empty := box(5, 0, 0, 5, 1, 1)
	assert.True(t, empty.Empty())
	assert.Equal(t, uint64(0), empty.Area())
}

func TestMergeIdempotent(t *testing.T) {
	a := FromBoxes(box(0, 0, 0, 10, 1, 1))
	merged := Merge(a, a)
	assert.True(t, merged.Equal(a))
}

func TestMergeAdjacentCoalesces(t *testing.T) {
	a := FromBoxes(box(0, 0, 0, 5, 1, 1))
	b := FromBoxes(box(5, 0, 0, 10, 1, 1))
	merged := Merge(a, b)
	require.Len(t, merged.Boxes(), 1)
	assert.Equal(t, uint64(10), merged.Area())
	assert.Equal(t, box(0, 0, 0, 10, 1, 1), merged.Boxes()[0])
}

func TestSubtractSelfIsEmpty(t *testing.T) {
	a := FromBoxes(box(0, 0, 0, 10, 1, 1))
	assert.True(t, Subtract(a, a).Empty())
}

func TestSubtractPartial(t *testing.T) {
	a := FromBoxes(box(0, 0, 0, 10, 1, 1))
	b := FromBoxes(box(3, 0, 0, 6, 1, 1))
	diff := Subtract(a, b)
	assert.Equal(t, uint64(7), diff.Area())
	for _, bx := range diff.Boxes() {
		assert.False(t, bx.Intersects(box(3, 0, 0, 6, 1, 1)))
	}
}

func TestMergeSubtractIntersectIdentity(t *testing.T) {
	a := FromBoxes(box(0, 0, 0, 10, 1, 1))
	b := FromBoxes(box(5, 0, 0, 15, 1, 1))
	recombined := Merge(Subtract(a, b), Intersect(a, b))
	assert.True(t, recombined.Equal(a))
}

func TestIntersectDisjointIsEmpty(t *testing.T) {
	a := FromBoxes(box(0, 0, 0, 5, 1, 1))
	b := FromBoxes(box(5, 0, 0, 10, 1, 1))
	assert.True(t, Intersect(a, b).Empty())
}

func TestBoxesOrderIsLexicographic(t *testing.T) {
	r := FromBoxes(box(10, 0, 0, 20, 1, 1), box(0, 0, 0, 5, 1, 1))
	boxes := r.Boxes()
	require.Len(t, boxes, 2)
	assert.Equal(t, uint64(0), boxes[0].Min[0])
	assert.Equal(t, uint64(10), boxes[1].Min[0])
}

func Test2DMergeAndArea(t *testing.T) {
	a := FromBoxes(box(0, 0, 0, 4, 4, 1))
	b := FromBoxes(box(2, 2, 0, 6, 6, 1))
	merged := Merge(a, b)
	// union area: 4*4 + 4*4 - overlap(2x2=4)
	assert.Equal(t, uint64(16+16-4), merged.Area())
}

func TestSubrangePromotionPadsTrailingDims(t *testing.T) {
	sr := Subrange1D(10, 20, 100)
	b := sr.Box()
	assert.Equal(t, Point{10, 0, 0}, b.Min)
	assert.Equal(t, Point{30, 1, 1}, b.Max)
}

func TestSubrangeUnboundedGlobalSizeDoesNotClip(t *testing.T) {
	sr := Subrange{
		Dims:       3,
		Offset:     Point{0, 0, 0},
		Range:      Point{50, 50, 50},
		GlobalSize: Point{Unbounded, Unbounded, Unbounded},
	}
	b := sr.Box()
	assert.Equal(t, Point{50, 50, 50}, b.Max)
}
