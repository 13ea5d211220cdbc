// Package scheduler implements the Dispatcher: the master-only component
// that walks the command graph in creation order and ships each command to
// its target node, either as a local queue entry (node 0) or a transport
// send (spec.md §4.5).
package scheduler

import (
	"context"
	"fmt"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/zeta1999/celerity-runtime/internal/command"
	"github.com/zeta1999/celerity-runtime/internal/commandgraph"
	"github.com/zeta1999/celerity-runtime/internal/ids"
	"github.com/zeta1999/celerity-runtime/internal/transport"
)

// Dispatcher ships commands from the master's CommandGraph onto the
// cluster: local delivery for node 0, a transport send otherwise.
type Dispatcher struct {
	transport  transport.Transport
	localQueue *command.LocalQueue
}

// New returns a Dispatcher sending over t, with an unbounded local queue
// for commands targeting the master node.
func New(t transport.Transport) *Dispatcher {
	return &Dispatcher{
		transport:  t,
		localQueue: command.NewLocalQueue(),
	}
}

// LocalQueue returns the queue the master's own Executor pops dispatched
// commands from.
func (d *Dispatcher) LocalQueue() *command.LocalQueue {
	return d.localQueue
}

// Dispatch ships every non-nop command in cg, in ascending command-id
// order (a valid intra-node topological order, since dependencies only
// ever target lower ids), then broadcasts one shutdown command to every
// node in the cluster, master included.
func (d *Dispatcher) Dispatch(ctx context.Context, cg *commandgraph.Graph, numNodes int) error {
	for _, cmd := range cg.AllCommands() {
		if cmd.Kind == command.KindNop {
			continue
		}
		if err := d.send(ctx, cmd.Node, cmd.ToPkg()); err != nil {
			return fmt.Errorf("scheduler: dispatching command %d: %w", cmd.ID, err)
		}
	}

	for n := 0; n < numNodes; n++ {
		pkg := command.Pkg{TID: command.NoTask, Kind: command.KindShutdown}
		if err := d.send(ctx, ids.NodeID(n), pkg); err != nil {
			return fmt.Errorf("scheduler: dispatching shutdown to node %d: %w", n, err)
		}
	}
	return nil
}

func (d *Dispatcher) send(ctx context.Context, node ids.NodeID, pkg command.Pkg) error {
	if node == ids.MasterNode {
		d.localQueue.Push(pkg)
		return nil
	}

	data, err := msgpack.Marshal(pkg)
	if err != nil {
		return fmt.Errorf("encoding command package: %w", err)
	}
	return d.transport.Send(ctx, node, transport.TagCmd, data)
}
