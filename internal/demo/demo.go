// Package demo builds the canned task graph celerityd runs when no
// user-facing task-submission API is wired in (out of scope per spec.md
// §1 Non-goals: only the GraphGenerator's consumer contract is
// specified). It exists to exercise the full generate/dispatch/execute
// pipeline end to end against a real transport.
package demo

import (
	"context"
	"log/slog"

	"github.com/zeta1999/celerity-runtime/internal/bufferstorage"
	"github.com/zeta1999/celerity-runtime/internal/ids"
	"github.com/zeta1999/celerity-runtime/internal/rangemapper"
	"github.com/zeta1999/celerity-runtime/internal/region"
	"github.com/zeta1999/celerity-runtime/internal/runtimeexec"
	"github.com/zeta1999/celerity-runtime/internal/taskgraph"
)

// BufferA is the single logical buffer the demo pipeline operates over.
const BufferA ids.BufferID = 1

// BufferSize is BufferA's element extent.
const BufferSize = 1 << 16

// TaskGraph returns a two-task producer/consumer pipeline: task 1 writes
// all of BufferA, task 2 reads all of it.
func TaskGraph() *taskgraph.InMemory {
	tg := taskgraph.NewInMemory()
	_ = tg.Submit(&taskgraph.Task{
		ID:         1,
		Kind:       taskgraph.Compute,
		Dimensions: 1,
		GlobalSize: region.Point{BufferSize, 1, 1},
		Accesses: []taskgraph.Access{
			{Buffer: BufferA, Mapper: rangemapper.Identity1D(rangemapper.Write)},
		},
	})
	_ = tg.Submit(&taskgraph.Task{
		ID:         2,
		Kind:       taskgraph.Compute,
		Dimensions: 1,
		GlobalSize: region.Point{BufferSize, 1, 1},
		Accesses: []taskgraph.Access{
			{Buffer: BufferA, Mapper: rangemapper.Identity1D(rangemapper.Read)},
		},
		DependsOn: []ids.TaskID{1},
	})
	return tg
}

// NewStorage returns a buffer store with BufferA declared, sized for
// TaskGraph's pipeline.
func NewStorage() bufferstorage.Storage {
	s := bufferstorage.NewInMemory()
	s.Declare(BufferA, region.Point{BufferSize, 1, 1})
	return s
}

// LoggingKernel returns a KernelLauncher that logs each chunk it would
// execute instead of running a real kernel (out of scope per spec.md §1).
func LoggingKernel(logger *slog.Logger, node ids.NodeID) runtimeexec.KernelLauncher {
	return runtimeexec.SyncKernelLauncher{Fn: func(ctx context.Context, tid ids.TaskID, sr region.Subrange) error {
		logger.Info("executing chunk", "node", node, "task", tid, "offset", sr.Offset, "range", sr.Range)
		return nil
	}}
}

// LoggingMasterAccess returns a MasterAccessLauncher that logs each
// master-access task it would execute.
func LoggingMasterAccess(logger *slog.Logger) runtimeexec.MasterAccessLauncher {
	return runtimeexec.SyncMasterAccessLauncher{Fn: func(ctx context.Context, tid ids.TaskID) error {
		logger.Info("executing master-access task", "task", tid)
		return nil
	}}
}
