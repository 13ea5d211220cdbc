// Package graphgen implements the GraphGenerator: it consumes satisfied
// tasks from a task graph in topological order and lowers each into
// per-node commands on a CommandGraph, allocating chunks to nodes and
// emitting push/await-push commands for unmet read dependencies
// (spec.md §4.4).
package graphgen

import (
	"context"
	"fmt"

	"github.com/zeta1999/celerity-runtime/internal/bufferstate"
	"github.com/zeta1999/celerity-runtime/internal/command"
	"github.com/zeta1999/celerity-runtime/internal/commandgraph"
	"github.com/zeta1999/celerity-runtime/internal/ctxlog"
	"github.com/zeta1999/celerity-runtime/internal/ids"
	"github.com/zeta1999/celerity-runtime/internal/rangemapper"
	"github.com/zeta1999/celerity-runtime/internal/region"
	"github.com/zeta1999/celerity-runtime/internal/taskgraph"
)

// Generator lowers a task graph into a command graph, one satisfied task
// at a time, tracking the distributed validity of every buffer it touches.
type Generator struct {
	Graph    *commandgraph.Graph
	NumNodes int

	buffers map[ids.BufferID]*bufferstate.State
}

// New returns a Generator writing into cg for a cluster of numNodes nodes.
func New(cg *commandgraph.Graph, numNodes int) *Generator {
	return &Generator{
		Graph:    cg,
		NumNodes: numNodes,
		buffers:  make(map[ids.BufferID]*bufferstate.State),
	}
}

// Buffer returns (creating if necessary) the BufferState for bid.
func (g *Generator) Buffer(bid ids.BufferID) *bufferstate.State {
	bs, ok := g.buffers[bid]
	if !ok {
		bs = bufferstate.New()
		g.buffers[bid] = bs
	}
	return bs
}

// Run drains tg: while a satisfied task exists, it is lowered into
// commands and marked processed, iteratively (not recursively — the
// source's build_command_graph is tail-recursive, which is an iteration
// in disguise per DESIGN NOTES §9).
func (g *Generator) Run(ctx context.Context, tg taskgraph.Graph) error {
	logger := ctxlog.FromContext(ctx)
	for {
		tid, ok := tg.GetSatisfiedTask()
		if !ok {
			break
		}
		logger.Debug("graphgen: processing satisfied task", "task", tid)
		if err := g.processTask(ctx, tg, tid); err != nil {
			return fmt.Errorf("graphgen: processing task %d: %w", tid, err)
		}
		if err := tg.MarkTaskAsProcessed(tid); err != nil {
			return fmt.Errorf("graphgen: marking task %d processed: %w", tid, err)
		}
	}
	return nil
}

// chunkReq accumulates a single chunk's per-buffer, per-mode requirement
// regions, remembering the order buffers were first referenced (needed to
// preserve the generator's "first [read] buffer" tie-break deterministically).
type chunkReq struct {
	order []ids.BufferID
	req   map[ids.BufferID]map[rangemapper.AccessMode]region.Region
}

func newChunkReq() *chunkReq {
	return &chunkReq{req: make(map[ids.BufferID]map[rangemapper.AccessMode]region.Region)}
}

func (c *chunkReq) merge(bid ids.BufferID, mode rangemapper.AccessMode, r region.Region) {
	modes, ok := c.req[bid]
	if !ok {
		modes = make(map[rangemapper.AccessMode]region.Region)
		c.req[bid] = modes
		c.order = append(c.order, bid)
	}
	modes[mode] = region.Merge(modes[mode], r)
}

func (c *chunkReq) region(bid ids.BufferID, mode rangemapper.AccessMode) (region.Region, bool) {
	modes, ok := c.req[bid]
	if !ok {
		return region.Region{}, false
	}
	r, ok := modes[mode]
	return r, ok
}

func (g *Generator) processTask(ctx context.Context, tg taskgraph.Graph, tid ids.TaskID) error {
	task, err := tg.GetTask(tid)
	if err != nil {
		return err
	}

	numWorkerNodes := g.NumNodes - 1
	if numWorkerNodes < 1 {
		numWorkerNodes = 1
	}
	masterOnly := g.NumNodes == 1

	var chunks []region.Subrange
	var reqs []*chunkReq

	switch task.Kind {
	case taskgraph.Compute:
		if task.Dimensions == 3 {
			return fmt.Errorf("graphgen: 3-D compute tasks are not supported (task %d)", tid)
		}
		numChunks := numWorkerNodes
		chunks, err = splitEqual(task.Dimensions, task.GlobalSize, numChunks)
		if err != nil {
			return err
		}
		reqs = make([]*chunkReq, numChunks)
		for i := range reqs {
			reqs[i] = newChunkReq()
		}
		for _, acc := range task.Accesses {
			for i, chunk := range chunks {
				mapped := acc.Mapper.Apply(chunk)
				reqs[i].merge(acc.Buffer, acc.Mapper.Mode, mapped.ToRegion())
			}
		}
	case taskgraph.MasterAccess:
		chunks = []region.Subrange{{}}
		reqs = []*chunkReq{newChunkReq()}
		for _, acc := range task.MasterAccesses {
			r := region.FromBoxes(acc.Box)
			reqs[0].merge(acc.Buffer, acc.Mode, r)
		}
	default:
		return fmt.Errorf("graphgen: unknown task kind %d", task.Kind)
	}

	// Step 3: source lookup for every chunk's per-buffer read region.
	sources := make([]map[ids.BufferID][]bufferstate.SourceBox, len(chunks))
	for i, cr := range reqs {
		sources[i] = make(map[ids.BufferID][]bufferstate.SourceBox)
		for _, bid := range cr.order {
			readReq, ok := cr.region(bid, rangemapper.Read)
			if !ok || readReq.Empty() {
				continue
			}
			sources[i][bid] = g.Buffer(bid).GetSourceNodes(readReq)
		}
	}

	// Step 4: greedy node assignment.
	freeNodes := freeNodeSet(g.NumNodes, masterOnly)
	chunkNodes := make([]ids.NodeID, len(chunks))
	if task.Kind == taskgraph.MasterAccess {
		chunkNodes[0] = ids.MasterNode
	} else {
		for i, cr := range reqs {
			chunkNodes[i] = assignNode(cr, sources[i], &freeNodes)
		}
	}

	// Step 5: execution commands + task-graph dependency edges.
	execCmds := make([]*command.Command, len(chunks))
	for i := range chunks {
		nid := chunkNodes[i]
		var cmd *command.Command
		if task.Kind == taskgraph.MasterAccess {
			cmd = g.Graph.CreateMasterAccess(tid)
		} else {
			cmd = g.Graph.CreateCompute(nid, tid, chunks[i])
		}
		execCmds[i] = cmd

		if len(task.DependsOn) > 0 {
			predecessors := make(map[ids.TaskID]struct{}, len(task.DependsOn))
			for _, p := range task.DependsOn {
				predecessors[p] = struct{}{}
			}
			for _, front := range g.Graph.GetExecutionFront(cmd.Node) {
				if front.ID == cmd.ID {
					continue
				}
				if _, isPredecessor := predecessors[front.Task]; isPredecessor {
					if err := g.Graph.AddDependency(cmd, front, false); err != nil {
						return err
					}
				}
			}
		}
	}

	// Step 6 & buffer-writer bookkeeping for step 7.
	bufferWriters := make(map[ids.BufferID]map[ids.NodeID]region.Region)
	for i, cr := range reqs {
		nid := chunkNodes[i]
		cmd := execCmds[i]

		for _, bid := range cr.order {
			if writeReq, ok := cr.region(bid, rangemapper.Write); ok && !writeReq.Empty() {
				cmd.DebugLabel += fmt.Sprintf(" Write %d %v", bid, writeReq.Boxes())
				if bufferWriters[bid] == nil {
					bufferWriters[bid] = make(map[ids.NodeID]region.Region)
				}
				bufferWriters[bid][nid] = region.Merge(bufferWriters[bid][nid], writeReq)
			}

			readReq, hasRead := cr.region(bid, rangemapper.Read)
			if !hasRead || readReq.Empty() {
				continue
			}
			cmd.DebugLabel += fmt.Sprintf(" Read %d %v", bid, readReq.Boxes())

			for _, sb := range sources[i][bid] {
				if sb.Nodes.Contains(nid) {
					continue // already present, no push needed
				}
				sourceNode := sb.Nodes[0] // canonical: smallest source node
				pushCmd := g.Graph.CreatePush(sourceNode, bid, nid, sb.Box)
				for _, front := range g.Graph.GetExecutionFront(sourceNode) {
					if front.ID == pushCmd.ID {
						continue
					}
					if err := g.Graph.AddDependency(pushCmd, front, false); err != nil {
						return err
					}
				}
				awaitCmd := g.Graph.CreateAwaitPush(nid, bid, pushCmd.ID, sb.Box)
				if err := g.Graph.AddDependency(cmd, awaitCmd, false); err != nil {
					return err
				}
			}
		}
	}

	// Step 7: update buffer state — new writers overwrite prior validity.
	for bid, writers := range bufferWriters {
		for nid, r := range writers {
			g.Buffer(bid).UpdateRegion(r, ids.NewNodeSet(nid))
		}
	}

	return nil
}

// freeNodeSet returns the set of nodes eligible for chunk assignment: just
// the master when running master-only, otherwise every worker node
// (1..numNodes-1).
func freeNodeSet(numNodes int, masterOnly bool) []ids.NodeID {
	if masterOnly {
		return []ids.NodeID{ids.MasterNode}
	}
	out := make([]ids.NodeID, 0, numNodes-1)
	for n := 1; n < numNodes; n++ {
		out = append(out, ids.NodeID(n))
	}
	return out
}

// assignNode picks a node for a chunk per spec.md §4.4 step 4: the
// smallest free node in the intersection of free nodes and the source
// nodes of the chunk's first read buffer (in cr.order), falling back to
// the smallest free node if there is no such intersection or no reads. The
// chosen node is removed from *freeNodes.
func assignNode(cr *chunkReq, chunkSources map[ids.BufferID][]bufferstate.SourceBox, freeNodes *[]ids.NodeID) ids.NodeID {
	var sourceNodes ids.NodeSet
	for _, bid := range cr.order {
		if _, hasRead := cr.region(bid, rangemapper.Read); !hasRead {
			continue
		}
		boxes := chunkSources[bid]
		if len(boxes) > 0 {
			sourceNodes = boxes[0].Nodes
		}
		break
	}

	chosen := pickAndRemove(freeNodes, sourceNodes)
	return chosen
}

// pickAndRemove removes and returns the chosen node from *freeNodes: the
// smallest element of the intersection with sourceNodes if non-empty,
// else the smallest free node.
func pickAndRemove(freeNodes *[]ids.NodeID, sourceNodes ids.NodeSet) ids.NodeID {
	candidates := *freeNodes
	var chosen ids.NodeID
	found := false
	if len(sourceNodes) > 0 {
		for _, n := range candidates {
			if sourceNodes.Contains(n) {
				chosen = n
				found = true
				break
			}
		}
	}
	if !found {
		chosen = candidates[0]
	}
	out := make([]ids.NodeID, 0, len(candidates)-1)
	for _, n := range candidates {
		if n != chosen {
			out = append(out, n)
		}
	}
	*freeNodes = out
	return chosen
}
