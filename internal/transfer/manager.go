package transfer

import (
	"context"
	"fmt"
	"sync"

	"github.com/klauspost/compress/zstd"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/zeta1999/celerity-runtime/internal/bufferstorage"
	"github.com/zeta1999/celerity-runtime/internal/command"
	"github.com/zeta1999/celerity-runtime/internal/ctxlog"
	"github.com/zeta1999/celerity-runtime/internal/ids"
	"github.com/zeta1999/celerity-runtime/internal/region"
	"github.com/zeta1999/celerity-runtime/internal/transport"
)

// compressionThreshold is the payload size, in bytes, at or above which Push
// compresses the data before sending. Small payloads aren't worth the
// zstd frame overhead.
const compressionThreshold = 4096

var (
	zstdEncoder, _ = zstd.NewWriter(nil)
	zstdDecoder, _ = zstd.NewReader(nil)
)

// Handle reports the completion of a single push or await-push operation,
// mirroring buffer_transfer_manager::transfer_handle.
type Handle struct {
	mu   sync.Mutex
	done bool
	err  error
}

// Done reports whether the transfer has completed (successfully or not).
func (h *Handle) Done() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.done
}

// Err returns the transfer's error, if it completed with one. Only
// meaningful once Done reports true.
func (h *Handle) Err() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.err
}

func (h *Handle) complete(err error) {
	h.mu.Lock()
	h.done = true
	h.err = err
	h.mu.Unlock()
}

// blackboardEntry is keyed by the push command's id (the sole rendezvous
// key between sender and receiver, per spec.md §4.6): either the local
// AwaitPush arrived first and is waiting on incoming data, or the data
// arrived first and is waiting on a matching AwaitPush.
type blackboardEntry struct {
	awaiting *Handle
	bid      ids.BufferID
	box      region.Box

	header  *command.DataHeader
	payload []byte
}

// Manager is the per-node TransferManager: it turns push commands into
// outgoing data sends and await_push commands into a handle fulfilled once
// the matching data arrives, grounded on
// original_source/src/buffer_transfer_manager.cc.
type Manager struct {
	self      ids.NodeID
	transport transport.Transport
	storage   bufferstorage.Storage

	mu         sync.Mutex
	blackboard map[ids.CommandID]*blackboardEntry
}

// New returns a TransferManager for node self, sending/receiving over t and
// reading/writing buffer data through storage.
func New(self ids.NodeID, t transport.Transport, storage bufferstorage.Storage) *Manager {
	return &Manager{
		self:       self,
		transport:  t,
		storage:    storage,
		blackboard: make(map[ids.CommandID]*blackboardEntry),
	}
}

func boxToSubrange(box region.Box) region.Subrange {
	var rng region.Point
	for i := 0; i < 3; i++ {
		rng[i] = box.Max[i] - box.Min[i]
	}
	return region.Subrange{
		Dims:       3,
		Offset:     box.Min,
		Range:      rng,
		GlobalSize: region.Point{region.Unbounded, region.Unbounded, region.Unbounded},
	}
}

// Push sends box of bid to target, tagged with pushCID so the receiver's
// AwaitPush can rendezvous with it. It reads the data from the local
// storage driver and sends it, both synchronously on the calling
// goroutine — the only thread ever allowed to touch this node's Transport
// (spec.md §5's funnelled threading invariant) — and returns an
// already-completed Handle (spec.md §4.6 step 1).
func (m *Manager) Push(ctx context.Context, bid ids.BufferID, target ids.NodeID, box region.Box, pushCID ids.CommandID) (*Handle, error) {
	data, err := m.storage.GetData(bid, box)
	if err != nil {
		return nil, fmt.Errorf("transfer: reading push data: %w", err)
	}

	payload := data.Data
	compressed := len(payload) >= compressionThreshold
	if compressed {
		payload = zstdEncoder.EncodeAll(payload, nil)
	}

	header := command.DataHeader{Buffer: bid, Subrange: boxToSubrange(box), PushCommand: pushCID, Compressed: compressed}
	headerBytes, err := msgpack.Marshal(header)
	if err != nil {
		return nil, fmt.Errorf("transfer: encoding data header: %w", err)
	}

	frame := make([]byte, 0, 4+len(headerBytes)+len(payload))
	frame = appendUint32(frame, uint32(len(headerBytes)))
	frame = append(frame, headerBytes...)
	frame = append(frame, payload...)

	h := &Handle{}
	h.complete(m.transport.Send(ctx, target, transport.TagData, frame))
	return h, nil
}

// AwaitPush registers interest in the data tagged with pushCID. If that
// data has already arrived (Poll received it before AwaitPush was called),
// it is written to storage immediately and the returned Handle is already
// done; otherwise the Handle completes the next time Poll observes a
// matching frame.
func (m *Manager) AwaitPush(ctx context.Context, bid ids.BufferID, box region.Box, pushCID ids.CommandID) (*Handle, error) {
	m.mu.Lock()
	entry, exists := m.blackboard[pushCID]
	if exists && entry.header != nil {
		delete(m.blackboard, pushCID)
		m.mu.Unlock()
		h := &Handle{}
		err := m.writeIncoming(entry.header, entry.payload)
		h.complete(err)
		return h, nil
	}

	h := &Handle{}
	m.blackboard[pushCID] = &blackboardEntry{awaiting: h, bid: bid, box: box}
	m.mu.Unlock()
	return h, nil
}

// Poll drains every currently-waiting data frame, writing it to storage
// immediately if a matching AwaitPush is already registered, or stashing it
// in the blackboard to await one. This must be called regularly from the
// Executor's cooperative loop (spec.md §5).
func (m *Manager) Poll(ctx context.Context) error {
	logger := ctxlog.FromContext(ctx)
	for {
		_, frame, ok, err := m.transport.TryRecv(transport.TagData)
		if err != nil {
			return fmt.Errorf("transfer: polling transport: %w", err)
		}
		if !ok {
			return nil
		}

		header, payload, err := decodeFrame(frame)
		if err != nil {
			return fmt.Errorf("transfer: decoding data frame: %w", err)
		}

		m.mu.Lock()
		entry, exists := m.blackboard[header.PushCommand]
		if exists && entry.awaiting != nil {
			delete(m.blackboard, header.PushCommand)
			m.mu.Unlock()
			logger.Debug("transfer: fulfilling pending await_push", "push_cid", header.PushCommand, "bid", header.Buffer)
			err := m.writeIncoming(&header, payload)
			entry.awaiting.complete(err)
			if err != nil {
				return err
			}
			continue
		}
		m.blackboard[header.PushCommand] = &blackboardEntry{header: &header, payload: payload}
		m.mu.Unlock()
		logger.Debug("transfer: buffering data ahead of await_push", "push_cid", header.PushCommand, "bid", header.Buffer)
	}
}

func (m *Manager) writeIncoming(header *command.DataHeader, payload []byte) error {
	if header.Compressed {
		decoded, err := zstdDecoder.DecodeAll(payload, nil)
		if err != nil {
			return fmt.Errorf("transfer: decompressing incoming data for buffer %d: %w", header.Buffer, err)
		}
		payload = decoded
	}
	box := header.Subrange.Box()
	if err := m.storage.SetData(header.Buffer, box, payload); err != nil {
		return fmt.Errorf("transfer: writing incoming data to buffer %d: %w", header.Buffer, err)
	}
	return nil
}

func decodeFrame(frame []byte) (command.DataHeader, []byte, error) {
	var header command.DataHeader
	if len(frame) < 4 {
		return header, nil, fmt.Errorf("transfer: truncated frame")
	}
	headerLen := readUint32(frame)
	if len(frame) < 4+int(headerLen) {
		return header, nil, fmt.Errorf("transfer: truncated frame header")
	}
	if err := msgpack.Unmarshal(frame[4:4+headerLen], &header); err != nil {
		return header, nil, fmt.Errorf("transfer: decoding header: %w", err)
	}
	return header, frame[4+headerLen:], nil
}

func appendUint32(b []byte, v uint32) []byte {
	return append(b, byte(v>>24), byte(v>>16), byte(v>>8), byte(v))
}

func readUint32(b []byte) uint32 {
	return uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3])
}
