// Package clusterconfig loads the cluster manifest an operator writes to
// describe a run's node topology, transport, and logging — the ambient
// configuration surface the teacher's own grid manifests are decoded
// through, grounded on internal/engine/decoder.go's hclparse + gohcl
// pipeline.
package clusterconfig

import (
	"fmt"
	"time"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
)

// TransportKind selects which Transport implementation the runtime wires up.
type TransportKind string

const (
	TransportInproc   TransportKind = "inproc"
	TransportSocketIO TransportKind = "socketio"
)

// Cluster is the top-level decoded manifest.
type Cluster struct {
	NumNodes int    `hcl:"num_nodes"`
	LogLevel string `hcl:"log_level,optional"`
	LogJSON  bool   `hcl:"log_json,optional"`

	Transport *TransportBlock `hcl:"transport,block"`
}

// TransportBlock configures the inter-node transport.
type TransportBlock struct {
	Kind               string `hcl:"kind"`
	BrokerURL          string `hcl:"broker_url,optional"`
	Namespace          string `hcl:"namespace,optional"`
	InsecureSkipVerify bool   `hcl:"insecure_skip_verify,optional"`
	ConnectTimeout     string `hcl:"connect_timeout,optional"`
}

// Kind returns the parsed TransportKind, defaulting to in-process when no
// transport block was supplied — the single-process demo/test path.
func (c *Cluster) Kind() TransportKind {
	if c.Transport == nil {
		return TransportInproc
	}
	return TransportKind(c.Transport.Kind)
}

// ConnectTimeoutOrDefault parses TransportBlock.ConnectTimeout, defaulting to 15s to
// match the teacher's socket.io connect timeout convention.
func (t *TransportBlock) ConnectTimeoutOrDefault() (time.Duration, error) {
	if t == nil || t.ConnectTimeout == "" {
		return 15 * time.Second, nil
	}
	return time.ParseDuration(t.ConnectTimeout)
}

// Load parses and decodes a single HCL cluster manifest file.
func Load(path string) (*Cluster, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return nil, fmt.Errorf("clusterconfig: parsing %s: %s", path, diags.Error())
	}

	var cluster Cluster
	if diags := gohcl.DecodeBody(file.Body, nil, &cluster); diags.HasErrors() {
		return nil, fmt.Errorf("clusterconfig: decoding %s: %s", path, diags.Error())
	}

	if err := validate(&cluster); err != nil {
		return nil, fmt.Errorf("clusterconfig: %s: %w", path, err)
	}
	return &cluster, nil
}

func validate(c *Cluster) error {
	if c.NumNodes < 1 {
		return fmt.Errorf("num_nodes must be >= 1, got %d", c.NumNodes)
	}
	if c.Transport != nil {
		switch TransportKind(c.Transport.Kind) {
		case TransportInproc, TransportSocketIO:
		default:
			return fmt.Errorf("unknown transport kind %q", c.Transport.Kind)
		}
		if c.Transport.Kind == string(TransportSocketIO) && c.Transport.BrokerURL == "" {
			return fmt.Errorf("transport kind %q requires broker_url", TransportSocketIO)
		}
	}
	return nil
}
