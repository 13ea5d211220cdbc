// Package commandgraph owns every command produced for a run: an arena
// keyed by command id, a per-task index, and per-node execution fronts
// (commands with no dependents), plus pseudo-critical-path tracking.
//
// Command-graph writes happen entirely on the master before any command is
// shipped for a given task (spec.md §5); Graph performs no internal
// locking and is not safe for concurrent mutation.
package commandgraph

import (
	"fmt"
	"io"
	"sort"

	"github.com/zeta1999/celerity-runtime/internal/command"
	"github.com/zeta1999/celerity-runtime/internal/ids"
	"github.com/zeta1999/celerity-runtime/internal/region"
)

// Graph is the per-run container of commands described in spec.md §4.3.
type Graph struct {
	nextID   ids.CommandID
	commands map[ids.CommandID]*command.Command
	byTask   map[ids.TaskID][]*command.Command

	// executionFronts holds, per node, the commands with no dependents on
	// that node — the frontier onto which new dependencies may attach.
	executionFronts map[ids.NodeID]map[ids.CommandID]*command.Command

	maxPseudoCriticalPathLength uint32
}

// New returns an empty command graph.
func New() *Graph {
	return &Graph{
		commands:        make(map[ids.CommandID]*command.Command),
		byTask:          make(map[ids.TaskID][]*command.Command),
		executionFronts: make(map[ids.NodeID]map[ids.CommandID]*command.Command),
	}
}

func (g *Graph) allocID() ids.CommandID {
	id := g.nextID
	g.nextID++
	return id
}

func (g *Graph) insert(cmd *command.Command) *command.Command {
	g.commands[cmd.ID] = cmd
	if cmd.IsTaskCommand() {
		g.byTask[cmd.Task] = append(g.byTask[cmd.Task], cmd)
	}
	if cmd.Kind != command.KindNop {
		front := g.executionFronts[cmd.Node]
		if front == nil {
			front = make(map[ids.CommandID]*command.Command)
			g.executionFronts[cmd.Node] = front
		}
		front[cmd.ID] = cmd
	}
	return cmd
}

// CreateNop allocates a nop command on the given node. Nop commands are
// never added to an execution front.
func (g *Graph) CreateNop(node ids.NodeID) *command.Command {
	cmd := &command.Command{ID: g.allocID(), Node: node, Task: command.NoTask, Kind: command.KindNop, PseudoCriticalPathLength: 1}
	return g.insert(cmd)
}

// CreateCompute allocates a compute command for the given task/chunk on
// node, executing subrange.
func (g *Graph) CreateCompute(node ids.NodeID, task ids.TaskID, sr region.Subrange) *command.Command {
	cmd := &command.Command{
		ID: g.allocID(), Node: node, Task: task, Kind: command.KindCompute,
		Compute: command.ComputePayload{Subrange: sr}, PseudoCriticalPathLength: 1,
	}
	return g.insert(cmd)
}

// CreateMasterAccess allocates a master-access command for task, always on
// the master node.
func (g *Graph) CreateMasterAccess(task ids.TaskID) *command.Command {
	cmd := &command.Command{ID: g.allocID(), Node: ids.MasterNode, Task: task, Kind: command.KindMasterAccess, PseudoCriticalPathLength: 1}
	return g.insert(cmd)
}

// CreatePush allocates a push command on node, sending box of buffer to target.
func (g *Graph) CreatePush(node ids.NodeID, buf ids.BufferID, target ids.NodeID, box region.Box) *command.Command {
	cmd := &command.Command{
		ID: g.allocID(), Node: node, Task: command.NoTask, Kind: command.KindPush,
		Push: command.PushPayload{Buffer: buf, Target: target, Box: box}, PseudoCriticalPathLength: 1,
	}
	return g.insert(cmd)
}

// CreateAwaitPush allocates an await-push command on node, waiting for the
// push identified by sourceID to deliver box of buffer.
func (g *Graph) CreateAwaitPush(node ids.NodeID, buf ids.BufferID, sourceID ids.CommandID, box region.Box) *command.Command {
	cmd := &command.Command{
		ID: g.allocID(), Node: node, Task: command.NoTask, Kind: command.KindAwaitPush,
		AwaitPush: command.AwaitPushPayload{Buffer: buf, SourceID: sourceID, Box: box}, PseudoCriticalPathLength: 1,
	}
	return g.insert(cmd)
}

// CreateShutdown allocates a shutdown command targeting node.
func (g *Graph) CreateShutdown(node ids.NodeID) *command.Command {
	cmd := &command.Command{ID: g.allocID(), Node: node, Task: command.NoTask, Kind: command.KindShutdown, PseudoCriticalPathLength: 1}
	return g.insert(cmd)
}

// AddDependency records that depender depends on dependee. Both must live
// on the same node and be distinct commands. dependee is removed from its
// node's execution front, and the graph's max pseudo-critical-path length
// is updated monotonically.
func (g *Graph) AddDependency(depender, dependee *command.Command, isAnti bool) error {
	if depender.Node != dependee.Node {
		return fmt.Errorf("commandgraph: cannot depend on a command executed on another node (depender node %d, dependee node %d)", depender.Node, dependee.Node)
	}
	if depender.ID == dependee.ID {
		return fmt.Errorf("commandgraph: command %d cannot depend on itself", depender.ID)
	}
	depender.Deps = append(depender.Deps, command.Dependency{DependeeID: dependee.ID, IsAnti: isAnti})
	if front := g.executionFronts[depender.Node]; front != nil {
		delete(front, dependee.ID)
	}
	if want := dependee.PseudoCriticalPathLength + 1; want > depender.PseudoCriticalPathLength {
		depender.PseudoCriticalPathLength = want
	}
	if depender.PseudoCriticalPathLength > g.maxPseudoCriticalPathLength {
		g.maxPseudoCriticalPathLength = depender.PseudoCriticalPathLength
	}
	return nil
}

// RemoveDependency removes the edge from depender to dependee, if present.
func (g *Graph) RemoveDependency(depender, dependee *command.Command) {
	out := depender.Deps[:0]
	for _, d := range depender.Deps {
		if d.DependeeID != dependee.ID {
			out = append(out, d)
		}
	}
	depender.Deps = out
}

// Erase removes cmd from every index: the arena, the per-task index, and
// its node's execution front.
func (g *Graph) Erase(cmd *command.Command) {
	delete(g.commands, cmd.ID)
	if cmd.IsTaskCommand() {
		list := g.byTask[cmd.Task]
		for i, c := range list {
			if c.ID == cmd.ID {
				g.byTask[cmd.Task] = append(list[:i], list[i+1:]...)
				break
			}
		}
	}
	if front := g.executionFronts[cmd.Node]; front != nil {
		delete(front, cmd.ID)
	}
}

// Get looks up a command by id.
func (g *Graph) Get(cid ids.CommandID) (*command.Command, bool) {
	cmd, ok := g.commands[cid]
	return cmd, ok
}

// CommandCount returns the total number of live commands.
func (g *Graph) CommandCount() int {
	return len(g.commands)
}

// TaskCommandCount returns the number of commands attached to tid.
func (g *Graph) TaskCommandCount(tid ids.TaskID) int {
	return len(g.byTask[tid])
}

// TaskCommands returns every command attached to tid.
func (g *Graph) TaskCommands(tid ids.TaskID) []*command.Command {
	return g.byTask[tid]
}

// TaskCommandsOfKind returns the commands attached to tid whose Kind is one
// of kinds.
func (g *Graph) TaskCommandsOfKind(tid ids.TaskID, kinds ...command.Kind) []*command.Command {
	want := make(map[command.Kind]struct{}, len(kinds))
	for _, k := range kinds {
		want[k] = struct{}{}
	}
	var out []*command.Command
	for _, cmd := range g.byTask[tid] {
		if _, ok := want[cmd.Kind]; ok {
			out = append(out, cmd)
		}
	}
	return out
}

// GetExecutionFront returns the current leaves for node: commands with no
// dependents, in ascending command-id order for determinism.
func (g *Graph) GetExecutionFront(node ids.NodeID) []*command.Command {
	front := g.executionFronts[node]
	out := make([]*command.Command, 0, len(front))
	for _, cmd := range front {
		out = append(out, cmd)
	}
	sortByID(out)
	return out
}

// MaxPseudoCriticalPathLength returns the largest pseudo-critical-path
// length observed across all AddDependency calls so far.
func (g *Graph) MaxPseudoCriticalPathLength() uint32 {
	return g.maxPseudoCriticalPathLength
}

// AllCommands returns every live command in ascending command-id order.
// Because dependencies always target lower ids (creation order), this
// order is a valid intra-node topological dispatch order (spec.md §4.5).
func (g *Graph) AllCommands() []*command.Command {
	out := make([]*command.Command, 0, len(g.commands))
	for _, cmd := range g.commands {
		out = append(out, cmd)
	}
	sortByID(out)
	return out
}

func sortByID(cmds []*command.Command) {
	sort.Slice(cmds, func(i, j int) bool { return cmds[i].ID < cmds[j].ID })
}

// DumpText writes a human-readable listing of every command, mirroring the
// debug intent of original_source's graph_utils::print_graph without
// depending on any graph-visualisation library.
func (g *Graph) DumpText(w io.Writer) {
	for _, cmd := range g.AllCommands() {
		fmt.Fprintf(w, "cmd %d node=%d task=%d kind=%s pcpl=%d", cmd.ID, cmd.Node, cmd.Task, cmd.Kind, cmd.PseudoCriticalPathLength)
		if cmd.DebugLabel != "" {
			fmt.Fprintf(w, " %s", cmd.DebugLabel)
		}
		if len(cmd.Deps) > 0 {
			fmt.Fprint(w, " deps=[")
			for i, d := range cmd.Deps {
				if i > 0 {
					fmt.Fprint(w, ",")
				}
				fmt.Fprintf(w, "%d", d.DependeeID)
				if d.IsAnti {
					fmt.Fprint(w, "(anti)")
				}
			}
			fmt.Fprint(w, "]")
		}
		fmt.Fprintln(w)
	}
}
