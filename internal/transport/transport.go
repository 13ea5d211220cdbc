// Package transport defines the inter-node message transport contract
// (spec.md §6: TAG_CMD / TAG_DATA_TRANSFER) and two implementations: an
// in-process channel hub for tests and single-process demos, and a
// Socket.IO-backed implementation for a real multi-process cluster.
package transport

import (
	"context"
	"fmt"

	"github.com/zeta1999/celerity-runtime/internal/ids"
)

// Tag discriminates the two message channels the runtime multiplexes over
// a single transport, mirroring the two MPI tags (CELERITY_MPI_TAG_CMD and
// CELERITY_MPI_TAG_DATA_TRANSFER) of original_source/src/runtime.h.
type Tag uint8

const (
	// TagCmd carries msgpack-encoded command.Pkg values.
	TagCmd Tag = iota
	// TagData carries a 4-byte big-endian header length, the
	// msgpack-encoded command.DataHeader, then the buffer payload bytes
	// (zstd-compressed when the header's Compressed flag is set).
	TagData
)

func (t Tag) String() string {
	if t == TagData {
		return "data"
	}
	return "cmd"
}

// Transport is the contract the Dispatcher, Executor and TransferManager
// send and receive messages through. Send is point-to-point and may block
// until the message has been handed off; TryRecv is a non-blocking probe
// modelled on MPI_Iprobe/MPI_Improbe — "no message waiting" is not an
// error.
type Transport interface {
	// Send delivers payload to node on the given tag's channel.
	Send(ctx context.Context, node ids.NodeID, tag Tag, payload []byte) error
	// TryRecv returns the next waiting message for tag, if any. ok is false
	// (with a nil error) when nothing is currently available.
	TryRecv(tag Tag) (from ids.NodeID, payload []byte, ok bool, err error)
	// Close releases the transport's resources. Further Send/TryRecv calls
	// after Close return an error.
	Close() error
}

// ErrClosed is returned by Send/TryRecv once the transport has been closed.
var ErrClosed = fmt.Errorf("transport: closed")
