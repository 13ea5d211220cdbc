package runtime

import (
	"context"
	"fmt"

	"github.com/zeta1999/celerity-runtime/internal/commandgraph"
	"github.com/zeta1999/celerity-runtime/internal/graphgen"
	"github.com/zeta1999/celerity-runtime/internal/ids"
	"github.com/zeta1999/celerity-runtime/internal/runtimeexec"
	"github.com/zeta1999/celerity-runtime/internal/scheduler"
	"github.com/zeta1999/celerity-runtime/internal/taskgraph"
	"github.com/zeta1999/celerity-runtime/internal/transfer"
	"github.com/zeta1999/celerity-runtime/internal/transport"
)

// Master is the process-local half of a real multi-process deployment
// that runs on node 0: it owns the command graph, the generator, and the
// dispatcher, and additionally executes its own share of the graph like
// any other node.
type Master struct {
	numNodes int
	graph    *commandgraph.Graph
	gen      *graphgen.Generator
	dispatch *scheduler.Dispatcher
	exec     *runtimeexec.Executor
}

// NewMaster constructs the master half of a cluster of numNodes nodes.
// t is node 0's own Transport endpoint.
func NewMaster(numNodes int, t transport.Transport, cfg NodeConfig) (*Master, error) {
	if numNodes < 1 {
		return nil, fmt.Errorf("runtime: numNodes must be >= 1, got %d", numNodes)
	}
	cg := commandgraph.New()
	dispatch := scheduler.New(t)
	xfer := transfer.New(ids.MasterNode, t, cfg.Storage)
	exec := runtimeexec.New(ids.MasterNode, t, xfer, dispatch.LocalQueue(), cfg.Kernel, cfg.MasterAccess)

	return &Master{
		numNodes: numNodes,
		graph:    cg,
		gen:      graphgen.New(cg, numNodes),
		dispatch: dispatch,
		exec:     exec,
	}, nil
}

// Generate lowers tg into the master's command graph.
func (m *Master) Generate(ctx context.Context, tg taskgraph.Graph) error {
	return m.gen.Run(ctx, tg)
}

// Dispatch ships every command to its target node and broadcasts shutdown.
func (m *Master) Dispatch(ctx context.Context) error {
	return m.dispatch.Dispatch(ctx, m.graph, m.numNodes)
}

// RunExecutor drives the master's own executor loop to completion.
func (m *Master) RunExecutor(ctx context.Context) error {
	return m.exec.Run(ctx)
}

// Graph exposes the underlying command graph for inspection.
func (m *Master) Graph() *commandgraph.Graph {
	return m.graph
}

// Worker is the process-local state for any non-master node in a real
// multi-process deployment: just a transfer manager and an executor
// polling the transport directly, with no knowledge of the command graph
// as a whole.
type Worker struct {
	exec *runtimeexec.Executor
}

// NewWorker constructs a Worker for node nid (must not be ids.MasterNode).
// t is this node's own Transport endpoint.
func NewWorker(nid ids.NodeID, t transport.Transport, cfg NodeConfig) (*Worker, error) {
	if nid == ids.MasterNode {
		return nil, fmt.Errorf("runtime: node %d is the master node, use NewMaster instead", nid)
	}
	xfer := transfer.New(nid, t, cfg.Storage)
	exec := runtimeexec.New(nid, t, xfer, nil, cfg.Kernel, cfg.MasterAccess)
	return &Worker{exec: exec}, nil
}

// Run drives the worker's executor loop to completion.
func (w *Worker) Run(ctx context.Context) error {
	return w.exec.Run(ctx)
}
