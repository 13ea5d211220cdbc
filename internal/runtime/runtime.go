// Package runtime wires the command-graph generator, dispatcher, per-node
// executors, and transfer managers into constructible values per spec.md
// §9 design notes: plain values, not process-wide singletons.
//
// Master and Worker are the per-process building blocks a real multi-node
// deployment uses directly, one per OS process. Runtime composes one
// Master and a Worker per remaining node into a single value that can
// drive an entire demo cluster from one process, for tests and the local
// demo harness.
package runtime

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/zeta1999/celerity-runtime/internal/bufferstorage"
	"github.com/zeta1999/celerity-runtime/internal/commandgraph"
	"github.com/zeta1999/celerity-runtime/internal/ctxlog"
	"github.com/zeta1999/celerity-runtime/internal/ids"
	"github.com/zeta1999/celerity-runtime/internal/runtimeexec"
	"github.com/zeta1999/celerity-runtime/internal/taskgraph"
	"github.com/zeta1999/celerity-runtime/internal/transport"
)

// NodeConfig binds the per-node collaborators a Master or Worker needs:
// its buffer storage driver and the two launchers that run its
// compute/master-access commands.
type NodeConfig struct {
	Storage      bufferstorage.Storage
	Kernel       runtimeexec.KernelLauncher
	MasterAccess runtimeexec.MasterAccessLauncher
}

// Runtime drives an entire cluster of numNodes nodes from a single
// process: one Master (node 0) plus one Worker per remaining node.
type Runtime struct {
	numNodes int
	master   *Master
	workers  map[ids.NodeID]*Worker
}

// endpointFunc returns the Transport a given node uses to reach the rest
// of the cluster.
type endpointFunc func(node ids.NodeID) transport.Transport

// New constructs a Runtime for a cluster of numNodes nodes. endpoint
// returns the Transport used by the given node id (e.g. Hub.Endpoint for
// an in-process demo, or a per-node SocketIO dial for a real cluster).
// nodes must contain exactly one entry per node id in [0, numNodes).
func New(numNodes int, endpoint endpointFunc, nodes map[ids.NodeID]NodeConfig) (*Runtime, error) {
	if numNodes < 1 {
		return nil, fmt.Errorf("runtime: numNodes must be >= 1, got %d", numNodes)
	}
	for n := 0; n < numNodes; n++ {
		if _, ok := nodes[ids.NodeID(n)]; !ok {
			return nil, fmt.Errorf("runtime: missing NodeConfig for node %d", n)
		}
	}

	master, err := NewMaster(numNodes, endpoint(ids.MasterNode), nodes[ids.MasterNode])
	if err != nil {
		return nil, err
	}

	workers := make(map[ids.NodeID]*Worker, numNodes-1)
	for n := 1; n < numNodes; n++ {
		nid := ids.NodeID(n)
		w, err := NewWorker(nid, endpoint(nid), nodes[nid])
		if err != nil {
			return nil, err
		}
		workers[nid] = w
	}

	return &Runtime{numNodes: numNodes, master: master, workers: workers}, nil
}

// Generate lowers tg into the runtime's command graph by repeatedly
// pulling satisfied tasks until none remain (spec.md §4.4).
func (rt *Runtime) Generate(ctx context.Context, tg taskgraph.Graph) error {
	return rt.master.Generate(ctx, tg)
}

// Dispatch ships every command in the graph to its target node, then
// broadcasts shutdown to the whole cluster (spec.md §4.5).
func (rt *Runtime) Dispatch(ctx context.Context) error {
	return rt.master.Dispatch(ctx)
}

// RunExecutors drives every node's Executor to completion concurrently,
// returning the first error encountered (spec.md §4.6). In a real
// deployment each node runs its own executor in its own process; this
// method exists to drive an entire cluster from a single process for the
// demo harness and end-to-end tests.
func (rt *Runtime) RunExecutors(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := rt.master.RunExecutor(ctx); err != nil {
			return fmt.Errorf("runtime: node %d: %w", ids.MasterNode, err)
		}
		return nil
	})
	for nid, w := range rt.workers {
		nid, w := nid, w
		g.Go(func() error {
			if err := w.Run(ctx); err != nil {
				return fmt.Errorf("runtime: node %d: %w", nid, err)
			}
			return nil
		})
	}
	return g.Wait()
}

// Execute runs the whole single-process pipeline: generate the command
// graph from tg, dispatch it, then drive every node's executor to
// completion. Intended for the demo harness and integration tests; a real
// cluster deployment instead calls Generate+Dispatch on the Master process
// and Run on every Worker's own process.
func (rt *Runtime) Execute(ctx context.Context, tg taskgraph.Graph) error {
	logger := ctxlog.FromContext(ctx)
	logger.Info("generating command graph")
	if err := rt.Generate(ctx, tg); err != nil {
		return fmt.Errorf("runtime: generating command graph: %w", err)
	}

	logger.Info("dispatching commands", "commands", rt.Graph().CommandCount())
	// Dispatch runs to completion before any executor starts polling: the
	// master's own local queue is unbounded, so dispatch never blocks on
	// it, and this keeps every node's Transport funnelled to a single
	// caller at a time, never touched by Dispatch and an Executor at once.
	if err := rt.Dispatch(ctx); err != nil {
		return fmt.Errorf("runtime: dispatching commands: %w", err)
	}

	if err := rt.RunExecutors(ctx); err != nil {
		return fmt.Errorf("runtime: %w", err)
	}
	return nil
}

// Graph exposes the underlying command graph, mainly for inspection in
// tests and for logging the command count.
func (rt *Runtime) Graph() *commandgraph.Graph {
	return rt.master.Graph()
}
