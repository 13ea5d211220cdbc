// Package runtimeexec implements the Executor: the per-node cooperative
// loop that drives job progress, polls the transfer manager, and pulls
// command packets off the local queue or transport (spec.md §4.6).
package runtimeexec

import (
	"context"

	"github.com/zeta1999/celerity-runtime/internal/ids"
	"github.com/zeta1999/celerity-runtime/internal/region"
)

// LaunchHandle reports the completion of a single kernel or master-access
// launch. Implementations must be non-blocking: Done/Err are polled
// repeatedly from the executor's cooperative loop and must return promptly.
type LaunchHandle interface {
	Done() bool
	Err() error
}

// KernelLauncher is the external collaborator that runs a compute command's
// kernel over a chunk's subrange (spec.md §1 Non-goals: the kernel launcher
// itself is out of scope, only this contract is specified).
type KernelLauncher interface {
	Launch(ctx context.Context, tid ids.TaskID, sr region.Subrange) (LaunchHandle, error)
}

// MasterAccessLauncher runs a master-access command's closure.
type MasterAccessLauncher interface {
	Launch(ctx context.Context, tid ids.TaskID) (LaunchHandle, error)
}

// job is a unit of in-flight work the executor polls each iteration.
type job interface {
	update(ctx context.Context) error
	done() bool
}

// handleJob adapts any LaunchHandle/transfer.Handle-shaped completion
// tracker (Done()/Err()) into a job: update is a no-op poll, since the
// underlying handle's own progress is driven elsewhere (the executor's own
// xfer.Poll call for transfers, the kernel launcher's own async mechanism
// for compute).
type handleJob struct {
	label string
	h     interface {
		Done() bool
		Err() error
	}
}

func (j *handleJob) update(ctx context.Context) error {
	return nil
}

func (j *handleJob) done() bool {
	return j.h.Done()
}

func (j *handleJob) err() error {
	return j.h.Err()
}
