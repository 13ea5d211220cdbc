package cli

import (
	"flag"
	"fmt"
	"io"
	"strings"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// Config holds the parsed command-line configuration for one celerityd
// invocation.
type Config struct {
	ManifestPath string
	NodeID       int
	Demo         bool
}

// Parse processes command-line arguments. It returns a populated Config, a
// boolean indicating if the program should exit cleanly, or an ExitError.
func Parse(args []string, output io.Writer) (*Config, bool, error) {
	flagSet := flag.NewFlagSet("celerityd", flag.ContinueOnError)
	flagSet.SetOutput(output)

	// Custom usage/help text function
	flagSet.Usage = func() {
		fmt.Fprint(output, `
celerityd - distributed command-graph generator and executor node.

Usage:
  celerityd [options] MANIFEST_PATH

Arguments:
  MANIFEST_PATH
    Path to the cluster manifest (.hcl) describing node count, transport,
    and logging.

Options:
`)
		flagSet.PrintDefaults()
	}

	manifestFlag := flagSet.String("manifest", "", "Path to the cluster manifest file.")
	mFlag := flagSet.String("m", "", "Path to the cluster manifest file (shorthand).")
	nodeFlag := flagSet.Int("node", -1, "This process's node id (0 is master). Required unless -demo is set.")
	demoFlag := flagSet.Bool("demo", false, "Run an entire cluster in this one process, for local testing.")

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	path := ""
	if *manifestFlag != "" {
		path = *manifestFlag
	} else if *mFlag != "" {
		path = *mFlag
	} else if flagSet.NArg() > 0 {
		path = flagSet.Arg(0)
	}

	if path == "" {
		flagSet.Usage()
		return nil, true, nil
	}

	if !*demoFlag && *nodeFlag < 0 {
		return nil, false, &ExitError{Code: 2, Message: "missing -node: required unless -demo is set"}
	}

	cfg := &Config{
		ManifestPath: strings.TrimSpace(path),
		NodeID:       *nodeFlag,
		Demo:         *demoFlag,
	}
	return cfg, false, nil
}
