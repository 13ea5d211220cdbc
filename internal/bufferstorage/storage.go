// Package bufferstorage defines the buffer storage driver contract: the
// external collaborator that owns device memory and copies regions in and
// out on behalf of jobs and the transfer manager (spec.md §6). This
// package also provides a simple in-memory reference implementation used
// by tests and the demo harness; a real accelerator-backed driver is out
// of scope per spec.md §1.
package bufferstorage

import (
	"fmt"
	"sync"

	"github.com/zeta1999/celerity-runtime/internal/ids"
	"github.com/zeta1999/celerity-runtime/internal/region"
)

// Handle is a borrowed view over a region of a buffer, as returned by
// GetData.
type Handle struct {
	Box  region.Box
	Data []byte
}

// LinearizedDataSize returns the number of bytes the handle's region
// occupies once linearised.
func (h Handle) LinearizedDataSize() int {
	return len(h.Data)
}

// Storage is the contract a node's buffer storage driver exposes to jobs
// and the transfer manager.
type Storage interface {
	// GetData returns a borrowed view of box's current contents for bid.
	GetData(bid ids.BufferID, box region.Box) (Handle, error)
	// SetData overwrites box's contents for bid with the supplied bytes.
	SetData(bid ids.BufferID, box region.Box, data []byte) error
}

// elementSize is the per-index byte width the in-memory store uses. A real
// driver would be generic over element type; this reference store is
// intentionally simple (single byte per index) since its only role is to
// exercise the transfer-manager/job plumbing in tests.
const elementSize = 1

// InMemory is a reference Storage backed by a flat byte slice per buffer,
// addressed by flattening a box's offset within a fixed global extent.
// It is not a production buffer driver — see package doc.
type InMemory struct {
	mu      sync.Mutex
	extents map[ids.BufferID]region.Point
	data    map[ids.BufferID][]byte
}

// NewInMemory returns an empty in-memory buffer store.
func NewInMemory() *InMemory {
	return &InMemory{
		extents: make(map[ids.BufferID]region.Point),
		data:    make(map[ids.BufferID][]byte),
	}
}

// Declare registers bid's global extent, allocating backing storage. Must
// be called before GetData/SetData for that buffer.
func (s *InMemory) Declare(bid ids.BufferID, extent region.Point) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := extent[0] * extent[1] * extent[2]
	s.extents[bid] = extent
	s.data[bid] = make([]byte, n*elementSize)
}

func (s *InMemory) offset(bid ids.BufferID, p region.Point) (int, error) {
	extent, ok := s.extents[bid]
	if !ok {
		return 0, fmt.Errorf("bufferstorage: buffer %d not declared", bid)
	}
	idx := (p[0]*extent[1]+p[1])*extent[2] + p[2]
	return int(idx) * elementSize, nil
}

// GetData returns a copy of box's current contents.
func (s *InMemory) GetData(bid ids.BufferID, box region.Box) (Handle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	buf, ok := s.data[bid]
	if !ok {
		return Handle{}, fmt.Errorf("bufferstorage: buffer %d not declared", bid)
	}
	out := make([]byte, 0, box.Area()*elementSize)
	for x := box.Min[0]; x < box.Max[0]; x++ {
		for y := box.Min[1]; y < box.Max[1]; y++ {
			for z := box.Min[2]; z < box.Max[2]; z++ {
				off, err := s.offset(bid, region.Point{x, y, z})
				if err != nil {
					return Handle{}, err
				}
				out = append(out, buf[off:off+elementSize]...)
			}
		}
	}
	return Handle{Box: box, Data: out}, nil
}

// SetData overwrites box's contents with data, laid out in the same
// lexicographic (x,y,z) order GetData produces.
func (s *InMemory) SetData(bid ids.BufferID, box region.Box, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	buf, ok := s.data[bid]
	if !ok {
		return fmt.Errorf("bufferstorage: buffer %d not declared", bid)
	}
	if want := int(box.Area()) * elementSize; len(data) != want {
		return fmt.Errorf("bufferstorage: data size %d does not match box size %d", len(data), want)
	}
	i := 0
	for x := box.Min[0]; x < box.Max[0]; x++ {
		for y := box.Min[1]; y < box.Max[1]; y++ {
			for z := box.Min[2]; z < box.Max[2]; z++ {
				off, err := s.offset(bid, region.Point{x, y, z})
				if err != nil {
					return err
				}
				copy(buf[off:off+elementSize], data[i:i+elementSize])
				i += elementSize
			}
		}
	}
	return nil
}
