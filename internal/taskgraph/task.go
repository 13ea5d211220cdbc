// Package taskgraph defines the task-graph contract the command-graph
// generator consumes (spec.md §6: GetSatisfiedTask / GetTask /
// MarkTaskAsProcessed) and a simple in-memory reference implementation.
// The full user-facing queue/accessor API that produces tasks is out of
// scope per spec.md §1 — only this contract is specified here.
package taskgraph

import (
	"fmt"
	"sync"

	"github.com/zeta1999/celerity-runtime/internal/ids"
	"github.com/zeta1999/celerity-runtime/internal/rangemapper"
	"github.com/zeta1999/celerity-runtime/internal/region"
)

// Kind distinguishes compute tasks (split into chunks across worker nodes)
// from master-access tasks (a single master-pinned closure).
type Kind int

const (
	Compute Kind = iota
	MasterAccess
)

// Access binds a buffer to the range mapper a compute task's accessor
// uses to derive its per-chunk buffer subrange.
type Access struct {
	Buffer ids.BufferID
	Mapper rangemapper.RangeMapper
}

// MasterAccessBinding is one buffer access performed by a master-access
// task's closure, expressed directly in absolute buffer index space (a
// master-access task has no chunking, so it needs no range mapper).
type MasterAccessBinding struct {
	Buffer ids.BufferID
	Box    region.Box
	Mode   rangemapper.AccessMode
}

// Task is a single user-submitted unit of work.
type Task struct {
	ID   ids.TaskID
	Kind Kind

	// Dimensions and GlobalSize apply to Compute tasks only.
	Dimensions int
	GlobalSize region.Point

	Accesses       []Access              // Compute tasks
	MasterAccesses []MasterAccessBinding // MasterAccess tasks

	// DependsOn lists the predecessor task ids whose commands the
	// generator must add execution-front dependencies on (spec.md §4.4
	// step 5: "the generator treats the task graph's edges as the source
	// of truth").
	DependsOn []ids.TaskID
}

// Graph is the contract the generator consumes.
type Graph interface {
	// GetSatisfiedTask returns a task whose predecessors have all been
	// processed, or (0, false) if none are currently ready.
	GetSatisfiedTask() (ids.TaskID, bool)
	// GetTask returns the task for tid.
	GetTask(tid ids.TaskID) (*Task, error)
	// MarkTaskAsProcessed records that tid's commands have been fully
	// emitted, potentially unblocking its dependents.
	MarkTaskAsProcessed(tid ids.TaskID) error
}

// InMemory is a reference task graph: tasks are submitted via Submit in
// any order, and become satisfied once every task in DependsOn has been
// marked processed.
type InMemory struct {
	mu        sync.Mutex
	tasks     map[ids.TaskID]*Task
	processed map[ids.TaskID]bool
	order     []ids.TaskID // submission order, to keep GetSatisfiedTask deterministic
}

// NewInMemory returns an empty in-memory task graph.
func NewInMemory() *InMemory {
	return &InMemory{
		tasks:     make(map[ids.TaskID]*Task),
		processed: make(map[ids.TaskID]bool),
	}
}

// Submit registers t. t.ID must be unique.
func (g *InMemory) Submit(t *Task) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, exists := g.tasks[t.ID]; exists {
		return fmt.Errorf("taskgraph: task %d already submitted", t.ID)
	}
	g.tasks[t.ID] = t
	g.order = append(g.order, t.ID)
	return nil
}

func (g *InMemory) isSatisfiedLocked(tid ids.TaskID) bool {
	if g.processed[tid] {
		return false
	}
	t := g.tasks[tid]
	for _, dep := range t.DependsOn {
		if !g.processed[dep] {
			return false
		}
	}
	return true
}

// GetSatisfiedTask returns the earliest-submitted task whose predecessors
// have all been processed and which has not itself been processed yet.
func (g *InMemory) GetSatisfiedTask() (ids.TaskID, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	for _, tid := range g.order {
		if g.isSatisfiedLocked(tid) {
			return tid, true
		}
	}
	return 0, false
}

// GetTask returns the task registered under tid.
func (g *InMemory) GetTask(tid ids.TaskID) (*Task, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	t, ok := g.tasks[tid]
	if !ok {
		return nil, fmt.Errorf("taskgraph: unknown task %d", tid)
	}
	return t, nil
}

// MarkTaskAsProcessed marks tid as processed.
func (g *InMemory) MarkTaskAsProcessed(tid ids.TaskID) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, ok := g.tasks[tid]; !ok {
		return fmt.Errorf("taskgraph: unknown task %d", tid)
	}
	g.processed[tid] = true
	return nil
}
