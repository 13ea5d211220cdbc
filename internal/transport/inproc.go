package transport

import (
	"context"
	"sync"

	"github.com/zeta1999/celerity-runtime/internal/ids"
)

type message struct {
	from    ids.NodeID
	payload []byte
}

// Hub wires together the in-process Transport endpoints used by tests and
// the single-process demo harness: one buffered channel per (target node,
// tag), fed by every other node's Send calls.
type Hub struct {
	mu     sync.Mutex
	nodes  map[ids.NodeID]map[Tag]chan message
	closed bool
}

// NewHub returns a Hub with endpoints pre-allocated for node ids
// 0..numNodes-1.
func NewHub(numNodes int) *Hub {
	h := &Hub{nodes: make(map[ids.NodeID]map[Tag]chan message)}
	for n := 0; n < numNodes; n++ {
		h.nodes[ids.NodeID(n)] = map[Tag]chan message{
			TagCmd:  make(chan message, 256),
			TagData: make(chan message, 256),
		}
	}
	return h
}

// Endpoint returns the Transport node sees the cluster through.
func (h *Hub) Endpoint(node ids.NodeID) Transport {
	return &inprocEndpoint{hub: h, self: node}
}

type inprocEndpoint struct {
	hub  *Hub
	self ids.NodeID
}

func (e *inprocEndpoint) Send(ctx context.Context, node ids.NodeID, tag Tag, payload []byte) error {
	e.hub.mu.Lock()
	if e.hub.closed {
		e.hub.mu.Unlock()
		return ErrClosed
	}
	ch := e.hub.nodes[node][tag]
	e.hub.mu.Unlock()

	select {
	case ch <- message{from: e.self, payload: payload}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (e *inprocEndpoint) TryRecv(tag Tag) (ids.NodeID, []byte, bool, error) {
	e.hub.mu.Lock()
	if e.hub.closed {
		e.hub.mu.Unlock()
		return 0, nil, false, ErrClosed
	}
	ch := e.hub.nodes[e.self][tag]
	e.hub.mu.Unlock()

	select {
	case msg := <-ch:
		return msg.from, msg.payload, true, nil
	default:
		return 0, nil, false, nil
	}
}

// Close is a no-op: the endpoint's Send and TryRecv keep working after it,
// and only return ErrClosed once the Hub itself has been closed.
func (e *inprocEndpoint) Close() error {
	return nil
}

// Close marks the hub closed: every later Send or TryRecv on any of its
// endpoints returns ErrClosed, so buffered-but-unread messages are never
// delivered. A Send already blocked on a full channel is not woken by it.
func (h *Hub) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	return nil
}
