package command

import "sync"

// LocalQueue is an unbounded FIFO of command packages used to hand commands
// from the master's own Dispatcher straight to its own Executor without a
// transport round trip, mirroring original_source/src/runtime.cc's use of a
// plain std::queue for the master's own commands: push never blocks, so
// dispatch never has to run concurrently with the executor draining it.
type LocalQueue struct {
	mu    sync.Mutex
	items []Pkg
}

// NewLocalQueue returns an empty LocalQueue.
func NewLocalQueue() *LocalQueue {
	return &LocalQueue{}
}

// Push appends pkg to the back of the queue.
func (q *LocalQueue) Push(pkg Pkg) {
	q.mu.Lock()
	q.items = append(q.items, pkg)
	q.mu.Unlock()
}

// Pop removes and returns the oldest package. ok is false if the queue is
// currently empty.
func (q *LocalQueue) Pop() (Pkg, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.items) == 0 {
		return Pkg{}, false
	}
	pkg := q.items[0]
	q.items = q.items[1:]
	return pkg, true
}
