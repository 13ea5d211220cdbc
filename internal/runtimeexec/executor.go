package runtimeexec

import (
	"context"
	"fmt"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/zeta1999/celerity-runtime/internal/command"
	"github.com/zeta1999/celerity-runtime/internal/ctxlog"
	"github.com/zeta1999/celerity-runtime/internal/ids"
	"github.com/zeta1999/celerity-runtime/internal/transfer"
	"github.com/zeta1999/celerity-runtime/internal/transport"
)

// Executor runs the single-threaded cooperative loop for one node: no
// worker pool, no goroutine per job — jobs are polled in place every
// iteration, per spec.md §5 ("Single-threaded cooperative ... No thread is
// created by the core").
type Executor struct {
	self      ids.NodeID
	transport transport.Transport
	xfer      *transfer.Manager

	// localQueue is non-nil only for the master node, fed directly by the
	// Dispatcher instead of round-tripping through the transport.
	localQueue *command.LocalQueue

	kernel       KernelLauncher
	masterAccess MasterAccessLauncher

	jobs         []*handleJob
	shuttingDown bool
}

// New returns an Executor for node self. localQueue must be non-nil iff
// self is the master node.
func New(self ids.NodeID, t transport.Transport, xfer *transfer.Manager, localQueue *command.LocalQueue, kernel KernelLauncher, masterAccess MasterAccessLauncher) *Executor {
	return &Executor{
		self:         self,
		transport:    t,
		xfer:         xfer,
		localQueue:   localQueue,
		kernel:       kernel,
		masterAccess: masterAccess,
	}
}

// Run drives the executor to completion: it exits once a shutdown command
// has been received and every in-flight job has finished (spec.md §4.6
// step 4).
func (e *Executor) Run(ctx context.Context) error {
	logger := ctxlog.FromContext(ctx).With("node", e.self)
	logger.Debug("executor starting")

	for !e.shuttingDown || len(e.jobs) > 0 {
		if err := e.xfer.Poll(ctx); err != nil {
			return fmt.Errorf("runtimeexec: polling transfer manager: %w", err)
		}

		remaining := e.jobs[:0]
		for _, j := range e.jobs {
			if err := j.update(ctx); err != nil {
				return fmt.Errorf("runtimeexec: updating %s job: %w", j.label, err)
			}
			if !j.done() {
				remaining = append(remaining, j)
				continue
			}
			if err := j.err(); err != nil {
				return fmt.Errorf("runtimeexec: %s job failed: %w", j.label, err)
			}
			logger.Debug("job completed", "kind", j.label)
		}
		e.jobs = remaining

		pkg, ok, err := e.nextCommand(ctx)
		if err != nil {
			return fmt.Errorf("runtimeexec: receiving command: %w", err)
		}
		if ok {
			if pkg.Kind == command.KindShutdown {
				logger.Debug("received shutdown")
				e.shuttingDown = true
				continue
			}
			j, err := e.instantiate(ctx, pkg)
			if err != nil {
				return fmt.Errorf("runtimeexec: instantiating job for command %d: %w", pkg.CID, err)
			}
			e.jobs = append(e.jobs, j)
		}
	}

	logger.Debug("executor exiting")
	return nil
}

func (e *Executor) nextCommand(ctx context.Context) (command.Pkg, bool, error) {
	if e.localQueue != nil {
		pkg, ok := e.localQueue.Pop()
		return pkg, ok, nil
	}

	_, payload, ok, err := e.transport.TryRecv(transport.TagCmd)
	if err != nil {
		return command.Pkg{}, false, err
	}
	if !ok {
		return command.Pkg{}, false, nil
	}
	var pkg command.Pkg
	if err := msgpack.Unmarshal(payload, &pkg); err != nil {
		return command.Pkg{}, false, fmt.Errorf("decoding command package: %w", err)
	}
	return pkg, true, nil
}

func (e *Executor) instantiate(ctx context.Context, pkg command.Pkg) (*handleJob, error) {
	switch pkg.Kind {
	case command.KindCompute:
		if pkg.Data.Compute == nil {
			return nil, fmt.Errorf("compute command %d missing payload", pkg.CID)
		}
		h, err := e.kernel.Launch(ctx, pkg.TID, pkg.Data.Compute.Subrange)
		if err != nil {
			return nil, err
		}
		return &handleJob{label: "compute", h: h}, nil

	case command.KindMasterAccess:
		h, err := e.masterAccess.Launch(ctx, pkg.TID)
		if err != nil {
			return nil, err
		}
		return &handleJob{label: "master_access", h: h}, nil

	case command.KindPush:
		if pkg.Data.Push == nil {
			return nil, fmt.Errorf("push command %d missing payload", pkg.CID)
		}
		h, err := e.xfer.Push(ctx, pkg.Data.Push.Buffer, pkg.Data.Push.Target, pkg.Data.Push.Box, pkg.CID)
		if err != nil {
			return nil, err
		}
		return &handleJob{label: "push", h: h}, nil

	case command.KindAwaitPush:
		if pkg.Data.AwaitPush == nil {
			return nil, fmt.Errorf("await_push command %d missing payload", pkg.CID)
		}
		h, err := e.xfer.AwaitPush(ctx, pkg.Data.AwaitPush.Buffer, pkg.Data.AwaitPush.Box, pkg.Data.AwaitPush.SourceID)
		if err != nil {
			return nil, err
		}
		return &handleJob{label: "await_push", h: h}, nil

	default:
		return nil, fmt.Errorf("unexpected command kind %s", pkg.Kind)
	}
}
