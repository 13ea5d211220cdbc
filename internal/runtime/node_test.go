package runtime

import (
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zeta1999/celerity-runtime/internal/bufferstorage"
	"github.com/zeta1999/celerity-runtime/internal/ids"
	"github.com/zeta1999/celerity-runtime/internal/rangemapper"
	"github.com/zeta1999/celerity-runtime/internal/region"
	"github.com/zeta1999/celerity-runtime/internal/runtimeexec"
	"github.com/zeta1999/celerity-runtime/internal/taskgraph"
	"github.com/zeta1999/celerity-runtime/internal/transport"
)

// TestMasterWorker_TwoProcessStyle drives a Master and a single Worker
// exactly as two separate OS processes would: each constructed from only
// its own node's collaborators, communicating purely over transport.
func TestMasterWorker_TwoProcessStyle(t *testing.T) {
	tg := taskgraph.NewInMemory()
	require.NoError(t, tg.Submit(&taskgraph.Task{
		ID:         1,
		Kind:       taskgraph.Compute,
		Dimensions: 1,
		GlobalSize: region.Point{100, 1, 1},
		Accesses: []taskgraph.Access{
			{Buffer: bufA, Mapper: rangemapper.Identity1D(rangemapper.Write)},
		},
	}))

	hub := transport.NewHub(2)

	var masterLaunched, workerLaunched int32
	masterStorage := bufferstorage.NewInMemory()
	masterStorage.Declare(bufA, region.Point{100, 1, 1})
	master, err := NewMaster(2, hub.Endpoint(ids.MasterNode), NodeConfig{
		Storage:      masterStorage,
		Kernel:       countingKernel(&masterLaunched),
		MasterAccess: runtimeexec.SyncMasterAccessLauncher{},
	})
	require.NoError(t, err)

	workerStorage := bufferstorage.NewInMemory()
	workerStorage.Declare(bufA, region.Point{100, 1, 1})
	worker, err := NewWorker(ids.NodeID(1), hub.Endpoint(ids.NodeID(1)), NodeConfig{
		Storage:      workerStorage,
		Kernel:       countingKernel(&workerLaunched),
		MasterAccess: runtimeexec.SyncMasterAccessLauncher{},
	})
	require.NoError(t, err)

	ctx := testContext()
	require.NoError(t, master.Generate(ctx, tg))

	errCh := make(chan error, 2)
	go func() { errCh <- master.Dispatch(ctx) }()
	go func() { errCh <- worker.Run(ctx) }()
	require.NoError(t, <-errCh)
	require.NoError(t, <-errCh)
	require.NoError(t, master.RunExecutor(ctx))

	// Two nodes leave one worker node, so the task is a single chunk.
	assert.Equal(t, 1, master.Graph().TaskCommandCount(1))
	total := atomic.LoadInt32(&masterLaunched) + atomic.LoadInt32(&workerLaunched)
	assert.Equal(t, int32(1), total)
}

func TestNewWorker_RejectsMasterNode(t *testing.T) {
	hub := transport.NewHub(1)
	_, err := NewWorker(ids.MasterNode, hub.Endpoint(ids.MasterNode), NodeConfig{
		Storage:      bufferstorage.NewInMemory(),
		Kernel:       runtimeexec.SyncKernelLauncher{},
		MasterAccess: runtimeexec.SyncMasterAccessLauncher{},
	})
	require.Error(t, err)
}
