package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRun_DemoClusterEndToEnd(t *testing.T) {
	t.Parallel()

	tempDir := t.TempDir()
	manifestPath := filepath.Join(tempDir, "cluster.hcl")
	manifest := `
num_nodes = 3
log_level = "error"
`
	require.NoError(t, os.WriteFile(manifestPath, []byte(manifest), 0o600))

	out := &bytes.Buffer{}
	err := run(out, []string{"-demo", manifestPath})
	require.NoError(t, err)
}

func TestRun_ShouldExit(t *testing.T) {
	t.Parallel()

	args := []string{"-h"}
	out := &bytes.Buffer{}

	err := run(out, args)
	require.NoError(t, err, "run() should return a nil error when shouldExit is true")
	require.Contains(t, out.String(), "Usage:", "expected help text to be printed to the output buffer")
}

func TestRun_ParseError(t *testing.T) {
	t.Parallel()

	args := []string{"--this-is-not-a-valid-flag"}
	out := &bytes.Buffer{}

	err := run(out, args)
	require.Error(t, err, "run() should return an error when argument parsing fails")
	require.Contains(t, err.Error(), "flag provided but not defined: -this-is-not-a-valid-flag")
}

func TestRun_MissingManifest(t *testing.T) {
	t.Parallel()

	out := &bytes.Buffer{}
	err := run(out, []string{"-demo", filepath.Join(t.TempDir(), "missing.hcl")})
	require.Error(t, err)
}

func TestRun_RealNodeWithoutSocketIOTransportFails(t *testing.T) {
	t.Parallel()

	tempDir := t.TempDir()
	manifestPath := filepath.Join(tempDir, "cluster.hcl")
	manifest := `
num_nodes = 2
`
	require.NoError(t, os.WriteFile(manifestPath, []byte(manifest), 0o600))

	out := &bytes.Buffer{}
	err := run(out, []string{"-node=0", manifestPath})
	require.Error(t, err)
	require.Contains(t, err.Error(), "socketio transport")
}
