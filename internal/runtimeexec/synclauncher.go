package runtimeexec

import (
	"context"

	"github.com/zeta1999/celerity-runtime/internal/ids"
	"github.com/zeta1999/celerity-runtime/internal/region"
)

// syncHandle is an already-resolved LaunchHandle, for launchers whose work
// completes synchronously within Launch.
type syncHandle struct{ err error }

func (h syncHandle) Done() bool { return true }
func (h syncHandle) Err() error { return h.err }

// ComputeFn executes one chunk's kernel body synchronously.
type ComputeFn func(ctx context.Context, tid ids.TaskID, sr region.Subrange) error

// SyncKernelLauncher adapts a plain Go function into a KernelLauncher for
// tests and the demo harness; a real accelerator-backed launcher is out of
// scope per spec.md §1.
type SyncKernelLauncher struct {
	Fn ComputeFn
}

func (l SyncKernelLauncher) Launch(ctx context.Context, tid ids.TaskID, sr region.Subrange) (LaunchHandle, error) {
	var err error
	if l.Fn != nil {
		err = l.Fn(ctx, tid, sr)
	}
	return syncHandle{err: err}, nil
}

// MasterAccessFn executes one master-access task's closure synchronously.
type MasterAccessFn func(ctx context.Context, tid ids.TaskID) error

// SyncMasterAccessLauncher is the master-access analogue of
// SyncKernelLauncher.
type SyncMasterAccessLauncher struct {
	Fn MasterAccessFn
}

func (l SyncMasterAccessLauncher) Launch(ctx context.Context, tid ids.TaskID) (LaunchHandle, error) {
	var err error
	if l.Fn != nil {
		err = l.Fn(ctx, tid)
	}
	return syncHandle{err: err}, nil
}
