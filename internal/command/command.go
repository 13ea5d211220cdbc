// Package command defines the tagged-sum AbstractCommand model (nop,
// compute, master_access, push, await_push, shutdown) and its wire
// representation (CommandPkg, DataHeader) used to ship commands and
// transfer headers between nodes.
package command

import (
	"math"

	"github.com/zeta1999/celerity-runtime/internal/ids"
	"github.com/zeta1999/celerity-runtime/internal/region"
)

// Kind discriminates the AbstractCommand variants.
type Kind uint8

const (
	KindNop Kind = iota
	KindCompute
	KindMasterAccess
	KindPush
	KindAwaitPush
	KindShutdown
)

func (k Kind) String() string {
	switch k {
	case KindNop:
		return "nop"
	case KindCompute:
		return "compute"
	case KindMasterAccess:
		return "master_access"
	case KindPush:
		return "push"
	case KindAwaitPush:
		return "await_push"
	case KindShutdown:
		return "shutdown"
	default:
		return "unknown"
	}
}

// NoTask is the sentinel task id used by commands that do not belong to a
// task (transfers, nop, shutdown).
const NoTask = ids.TaskID(math.MaxUint64)

// Dependency is one edge in a command's dependency list: it depends on
// DependeeID, optionally as an anti-dependency (write-after-read ordering,
// reserved — the generator never sets IsAnti, per spec.md §9).
type Dependency struct {
	DependeeID ids.CommandID
	IsAnti     bool
}

// ComputePayload is the compute-command-specific payload: the 3-D subrange
// this command executes.
type ComputePayload struct {
	Subrange region.Subrange
}

// PushPayload is the push-command-specific payload.
type PushPayload struct {
	Buffer ids.BufferID
	Target ids.NodeID
	Box    region.Box
}

// AwaitPushPayload is the await-push-command-specific payload. SourceID
// matches the sending node's push command id — the sole rendezvous key
// between sender and receiver.
type AwaitPushPayload struct {
	Buffer   ids.BufferID
	SourceID ids.CommandID
	Box      region.Box
}

// Command is a single vertex of the per-node command graph. Only the
// fields relevant to Kind are populated; this models the AbstractCommand
// tagged union of spec.md §3 as one Go struct with per-variant payload
// fields, per DESIGN NOTES §9.
type Command struct {
	ID   ids.CommandID
	Node ids.NodeID
	Task ids.TaskID // owning task, or NoTask for transfers/nop/shutdown
	Kind Kind

	Deps []Dependency

	// PseudoCriticalPathLength is 1 + max(pseudo-critical-path length of
	// every command this one depends on); a heuristic upper bound on the
	// longest dependency chain ending at this command.
	PseudoCriticalPathLength uint32

	// DebugLabel accumulates human-readable read/write annotations, mirroring
	// original_source's graph_utils label formatting (see SPEC_FULL.md's
	// "Supplemented features" section).
	DebugLabel string

	Compute   ComputePayload
	Push      PushPayload
	AwaitPush AwaitPushPayload
}

// IsTaskCommand reports whether this command belongs to a task (compute or
// master_access), as opposed to a transfer/nop/shutdown command.
func (c *Command) IsTaskCommand() bool {
	return c.Kind == KindCompute || c.Kind == KindMasterAccess
}
