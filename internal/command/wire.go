package command

import (
	"github.com/zeta1999/celerity-runtime/internal/ids"
	"github.com/zeta1999/celerity-runtime/internal/region"
)

// ComputeData is the wire payload for a compute command.
type ComputeData struct {
	Subrange region.Subrange `msgpack:"subrange"`
}

// PushData is the wire payload for a push command.
type PushData struct {
	Buffer ids.BufferID `msgpack:"bid"`
	Target ids.NodeID   `msgpack:"target"`
	Box    region.Box   `msgpack:"box"`
}

// AwaitPushData is the wire payload for an await-push command.
type AwaitPushData struct {
	Buffer   ids.BufferID  `msgpack:"bid"`
	SourceID ids.CommandID `msgpack:"source_cid"`
	Box      region.Box    `msgpack:"box"`
}

// Data is the kind-specific union carried by a CommandPkg. Exactly one
// field is populated, matching the active Kind.
type Data struct {
	Compute   *ComputeData   `msgpack:"compute,omitempty"`
	Push      *PushData      `msgpack:"push,omitempty"`
	AwaitPush *AwaitPushData `msgpack:"await_push,omitempty"`
}

// Pkg is the fixed-shape wire package sent on TAG_CMD (spec.md §6):
// {tid, cid, cmd_kind, data_union}.
type Pkg struct {
	TID  ids.TaskID    `msgpack:"tid"`
	CID  ids.CommandID `msgpack:"cid"`
	Kind Kind          `msgpack:"kind"`
	Data Data          `msgpack:"data"`
}

// ToPkg converts a Command to its wire representation.
func (c *Command) ToPkg() Pkg {
	pkg := Pkg{TID: c.Task, CID: c.ID, Kind: c.Kind}
	switch c.Kind {
	case KindCompute:
		pkg.Data.Compute = &ComputeData{Subrange: c.Compute.Subrange}
	case KindPush:
		pkg.Data.Push = &PushData{Buffer: c.Push.Buffer, Target: c.Push.Target, Box: c.Push.Box}
	case KindAwaitPush:
		pkg.Data.AwaitPush = &AwaitPushData{Buffer: c.AwaitPush.Buffer, SourceID: c.AwaitPush.SourceID, Box: c.AwaitPush.Box}
	}
	return pkg
}

// FromPkg reconstructs the executable fields of a Command from its wire
// package. Node must be supplied separately: CommandPkg does not carry the
// executing node id, since it is always sent directly to that node.
func FromPkg(pkg Pkg, node ids.NodeID) *Command {
	cmd := &Command{ID: pkg.CID, Task: pkg.TID, Kind: pkg.Kind, Node: node}
	switch pkg.Kind {
	case KindCompute:
		if pkg.Data.Compute != nil {
			cmd.Compute = ComputePayload{Subrange: pkg.Data.Compute.Subrange}
		}
	case KindPush:
		if pkg.Data.Push != nil {
			cmd.Push = PushPayload{Buffer: pkg.Data.Push.Buffer, Target: pkg.Data.Push.Target, Box: pkg.Data.Push.Box}
		}
	case KindAwaitPush:
		if pkg.Data.AwaitPush != nil {
			cmd.AwaitPush = AwaitPushPayload{Buffer: pkg.Data.AwaitPush.Buffer, SourceID: pkg.Data.AwaitPush.SourceID, Box: pkg.Data.AwaitPush.Box}
		}
	}
	return cmd
}

// DataHeader is the wire header preceding a data-transfer payload on
// TAG_DATA_TRANSFER (spec.md §6): {bid, subrange, push_cid}, plus a
// Compressed flag so TransferManager can skip zstd decompression on small
// payloads that were sent uncompressed.
type DataHeader struct {
	Buffer      ids.BufferID    `msgpack:"bid"`
	Subrange    region.Subrange `msgpack:"subrange"`
	PushCommand ids.CommandID   `msgpack:"push_cid"`
	Compressed  bool            `msgpack:"compressed"`
}
