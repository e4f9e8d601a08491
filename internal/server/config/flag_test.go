package config

import (
	"os"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlags(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	tests := []struct {
		expected    *Config
		name        string
		args        []string
		expectPanic bool
	}{
		{
			name: "all flags",
			args: []string{"cmd",
				"-a", "127.0.0.1:8080", "-g", "127.0.0.1:9090", "-d", "db",
				"-t", "90", "-b", "12", "-l", "zap",
			},
			expected: &Config{
				EndpointAddrHTTP:      "127.0.0.1:8080",
				EndpointAddrGRPC:      "127.0.0.1:9090",
				DatabaseDSN:           "db",
				TokenValidityDuration: 90 * time.Minute,
				BcryptCost:            12,
				LogBackend:            "zap",
			},
		},
		{
			name: "config flag and unknown flags are ignored",
			args: []string{"cmd", "-c", "server.yaml", "-x", "1", "-d", "db"},
			expected: &Config{
				DatabaseDSN: "db",
			},
		},
		{
			name:        "non-numeric duration",
			args:        []string{"cmd", "-t", "soon"},
			expectPanic: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			os.Args = tt.args

			config := &Config{}

			if !tt.expectPanic {
				require.NotPanics(t, func() { parseFlags(config) })
				assert.Empty(t, cmp.Diff(tt.expected, config))
			} else {
				require.Panics(t, func() { parseFlags(config) })
			}
		})
	}
}
