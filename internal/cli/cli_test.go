package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name           string
		args           []string
		expectExit     bool
		expectErr      bool
		expectedConfig *Config
		checkOutput    func(t *testing.T, output string)
	}{
		{
			name: "Happy path with all flags",
			args: []string{"--manifest=/test/cluster.hcl", "--node=2"},
			expectedConfig: &Config{
				ManifestPath: "/test/cluster.hcl",
				NodeID:       2,
			},
		},
		{
			name: "Shorthand flag",
			args: []string{"-m", "/short/cluster.hcl", "-node=0"},
			expectedConfig: &Config{
				ManifestPath: "/short/cluster.hcl",
				NodeID:       0,
			},
		},
		{
			name: "Positional argument for manifest path",
			args: []string{"-node=1", "/positional/cluster.hcl"},
			expectedConfig: &Config{
				ManifestPath: "/positional/cluster.hcl",
				NodeID:       1,
			},
		},
		{
			name: "Demo mode needs no node id",
			args: []string{"-demo", "/positional/cluster.hcl"},
			expectedConfig: &Config{
				ManifestPath: "/positional/cluster.hcl",
				NodeID:       -1,
				Demo:         true,
			},
		},
		{
			name:       "Help flag triggers clean exit",
			args:       []string{"-h"},
			expectExit: true,
			checkOutput: func(t *testing.T, output string) {
				require.True(t, strings.Contains(output, "Usage:"), "expected help text to be printed")
			},
		},
		{
			name:       "No manifest path triggers clean exit with usage",
			args:       []string{},
			expectExit: true,
			checkOutput: func(t *testing.T, output string) {
				require.True(t, strings.Contains(output, "Usage:"), "expected help text to be printed")
			},
		},
		{
			name:      "Missing node id without demo returns an error",
			args:      []string{"/path/cluster.hcl"},
			expectErr: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			out := &bytes.Buffer{}

			cfg, shouldExit, err := Parse(tc.args, out)

			if tc.expectErr {
				require.Error(t, err)
				_, isExitError := err.(*ExitError)
				require.True(t, isExitError, "expected error to be of type ExitError")
				return
			}
			require.NoError(t, err)
			require.Equal(t, tc.expectExit, shouldExit)

			if tc.expectedConfig != nil {
				if diff := cmp.Diff(tc.expectedConfig, cfg); diff != "" {
					t.Errorf("Config mismatch (-want +got):\n%s", diff)
				}
			}

			if tc.checkOutput != nil {
				tc.checkOutput(t, out.String())
			}
		})
	}
}
