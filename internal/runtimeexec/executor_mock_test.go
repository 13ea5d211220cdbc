package runtimeexec_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/zeta1999/celerity-runtime/internal/bufferstorage"
	"github.com/zeta1999/celerity-runtime/internal/command"
	"github.com/zeta1999/celerity-runtime/internal/ctxlog"
	"github.com/zeta1999/celerity-runtime/internal/ids"
	"github.com/zeta1999/celerity-runtime/internal/mocks"
	"github.com/zeta1999/celerity-runtime/internal/region"
	"github.com/zeta1999/celerity-runtime/internal/runtimeexec"
	"github.com/zeta1999/celerity-runtime/internal/transfer"
	"github.com/zeta1999/celerity-runtime/internal/transport"
)

func mockTestContext() context.Context {
	return ctxlog.WithLogger(context.Background(), slog.New(slog.NewTextHandler(io.Discard, nil)))
}

// TestExecutor_KernelLauncherReceivesExactSubrange uses a gomock-generated
// KernelLauncher double to assert the executor hands the kernel the exact
// subrange carried by the dispatched compute command.
func TestExecutor_KernelLauncherReceivesExactSubrange(t *testing.T) {
	ctrl := gomock.NewController(t)

	wantSubrange := region.Subrange1D(20, 30, 100)
	handle := mocks.NewMockLaunchHandle(ctrl)
	handle.EXPECT().Done().Return(true).AnyTimes()
	handle.EXPECT().Err().Return(nil).AnyTimes()

	kernel := mocks.NewMockKernelLauncher(ctrl)
	kernel.EXPECT().
		Launch(gomock.Any(), ids.TaskID(7), wantSubrange).
		Return(handle, nil).
		Times(1)

	hub := transport.NewHub(1)
	storage := bufferstorage.NewInMemory()
	xfer := transfer.New(ids.MasterNode, hub.Endpoint(ids.MasterNode), storage)

	localQueue := command.NewLocalQueue()
	localQueue.Push(command.Pkg{TID: 7, CID: 0, Kind: command.KindCompute, Data: command.Data{Compute: &command.ComputeData{Subrange: wantSubrange}}})
	localQueue.Push(command.Pkg{Kind: command.KindShutdown})

	exec := runtimeexec.New(ids.MasterNode, hub.Endpoint(ids.MasterNode), xfer, localQueue, kernel, runtimeexec.SyncMasterAccessLauncher{})
	require.NoError(t, exec.Run(mockTestContext()))
}

// TestExecutor_KernelFailurePropagates asserts a kernel launch handle that
// reports an error aborts the executor loop.
func TestExecutor_KernelFailurePropagates(t *testing.T) {
	ctrl := gomock.NewController(t)

	wantErr := errors.New("kernel failed")
	handle := mocks.NewMockLaunchHandle(ctrl)
	handle.EXPECT().Done().Return(true).AnyTimes()
	handle.EXPECT().Err().Return(wantErr).AnyTimes()

	kernel := mocks.NewMockKernelLauncher(ctrl)
	kernel.EXPECT().Launch(gomock.Any(), gomock.Any(), gomock.Any()).Return(handle, nil)

	hub := transport.NewHub(1)
	storage := bufferstorage.NewInMemory()
	xfer := transfer.New(ids.MasterNode, hub.Endpoint(ids.MasterNode), storage)

	localQueue := command.NewLocalQueue()
	localQueue.Push(command.Pkg{TID: 1, CID: 0, Kind: command.KindCompute, Data: command.Data{Compute: &command.ComputeData{Subrange: region.Subrange1D(0, 1, 1)}}})
	localQueue.Push(command.Pkg{Kind: command.KindShutdown})

	exec := runtimeexec.New(ids.MasterNode, hub.Endpoint(ids.MasterNode), xfer, localQueue, kernel, runtimeexec.SyncMasterAccessLauncher{})
	require.ErrorIs(t, exec.Run(mockTestContext()), wantErr)
}
