package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/zeta1999/celerity-runtime/internal/applogger"
	"github.com/zeta1999/celerity-runtime/internal/cli"
	"github.com/zeta1999/celerity-runtime/internal/clusterconfig"
	"github.com/zeta1999/celerity-runtime/internal/ctxlog"
	"github.com/zeta1999/celerity-runtime/internal/demo"
	"github.com/zeta1999/celerity-runtime/internal/ids"
	"github.com/zeta1999/celerity-runtime/internal/runtime"
	"github.com/zeta1999/celerity-runtime/internal/transport"
)

// main is the entrypoint for the celerityd daemon.
func main() {
	// Programmer-contract violations panic; report them here and exit
	// non-zero instead of crashing with a stack trace.
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintln(os.Stderr, r)
			os.Exit(1)
		}
	}()

	// Use a minimal logger until the manifest's own logging config is loaded.
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})))

	if err := run(os.Stdout, os.Args[1:]); err != nil {
		if exitErr, ok := err.(*cli.ExitError); ok {
			fmt.Fprintln(os.Stderr, exitErr.Message)
			os.Exit(exitErr.Code)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// run encapsulates the main application logic for easier testing and error handling.
func run(outW io.Writer, args []string) error {
	cfg, shouldExit, err := cli.Parse(args, outW)
	if err != nil {
		return err
	}
	if shouldExit {
		return nil
	}

	cluster, err := clusterconfig.Load(cfg.ManifestPath)
	if err != nil {
		return fmt.Errorf("loading cluster manifest: %w", err)
	}

	logger := applogger.New(cluster.LogLevel, cluster.LogJSON, outW)
	ctx := ctxlog.WithLogger(context.Background(), logger)

	if cfg.Demo {
		return runDemo(ctx, logger, cluster)
	}
	return runNode(ctx, logger, cluster, ids.NodeID(cfg.NodeID))
}

// runDemo drives an entire demo cluster from this one process, using an
// in-process transport hub.
func runDemo(ctx context.Context, logger *slog.Logger, cluster *clusterconfig.Cluster) error {
	hub := transport.NewHub(cluster.NumNodes)
	nodes := make(map[ids.NodeID]runtime.NodeConfig, cluster.NumNodes)
	for n := 0; n < cluster.NumNodes; n++ {
		nid := ids.NodeID(n)
		nodes[nid] = runtime.NodeConfig{
			Storage:      demo.NewStorage(),
			Kernel:       demo.LoggingKernel(logger, nid),
			MasterAccess: demo.LoggingMasterAccess(logger),
		}
	}

	rt, err := runtime.New(cluster.NumNodes, hub.Endpoint, nodes)
	if err != nil {
		return fmt.Errorf("constructing demo runtime: %w", err)
	}

	return rt.Execute(ctx, demo.TaskGraph())
}

// runNode runs this process as a single cluster node connecting to an
// external transport broker: node 0 additionally generates and dispatches
// the demo task graph, every node executes its own share of it.
func runNode(ctx context.Context, logger *slog.Logger, cluster *clusterconfig.Cluster, nid ids.NodeID) error {
	if cluster.Transport == nil || cluster.Kind() != clusterconfig.TransportSocketIO {
		return fmt.Errorf("non-demo runs require a socketio transport block in the manifest")
	}
	if int(nid) < 0 || int(nid) >= cluster.NumNodes {
		return fmt.Errorf("node id %d out of range [0, %d)", nid, cluster.NumNodes)
	}

	timeout, err := cluster.Transport.ConnectTimeoutOrDefault()
	if err != nil {
		return fmt.Errorf("parsing connect_timeout: %w", err)
	}

	t, err := transport.DialSocketIO(ctx, nid, cluster.NumNodes, cluster.Transport.BrokerURL, cluster.Transport.Namespace, cluster.Transport.InsecureSkipVerify, timeout)
	if err != nil {
		return fmt.Errorf("connecting to transport broker: %w", err)
	}
	defer t.Close()

	cfg := runtime.NodeConfig{
		Storage:      demo.NewStorage(),
		Kernel:       demo.LoggingKernel(logger, nid),
		MasterAccess: demo.LoggingMasterAccess(logger),
	}

	if nid == ids.MasterNode {
		master, err := runtime.NewMaster(cluster.NumNodes, t, cfg)
		if err != nil {
			return fmt.Errorf("constructing master: %w", err)
		}
		if err := master.Generate(ctx, demo.TaskGraph()); err != nil {
			return fmt.Errorf("generating command graph: %w", err)
		}

		// Dispatch must finish before the executor starts polling: this
		// node's Transport may only ever be driven by one caller at a time.
		if err := master.Dispatch(ctx); err != nil {
			return fmt.Errorf("dispatching commands: %w", err)
		}
		return master.RunExecutor(ctx)
	}

	worker, err := runtime.NewWorker(nid, t, cfg)
	if err != nil {
		return fmt.Errorf("constructing worker: %w", err)
	}
	return worker.Run(ctx)
}
