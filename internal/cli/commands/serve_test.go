package commands

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/miqat/internal/cli/config"
	"github.com/leapstack-labs/miqat/internal/cli/testutil"
)

func TestServerConfig(t *testing.T) {
	tests := []struct {
		name    string
		content string
		args    []string
		wantMax int
		wantAdr string
	}{
		{
			name:    "defaults",
			content: testutil.JakartaConfig,
			wantMax: config.DefaultMaxConnections,
			wantAdr: config.DefaultServerAddr,
		},
		{
			name:    "from config file",
			content: testutil.JakartaConfig + "server:\n  addr: 127.0.0.1:9000\n  max_connections: 7\n",
			wantMax: 7,
			wantAdr: "127.0.0.1:9000",
		},
		{
			name:    "flags override the file",
			content: testutil.JakartaConfig + "server:\n  max_connections: 7\n",
			args:    []string{"--max-connections=3", "--addr=:9999"},
			wantMax: 3,
			wantAdr: ":9999",
		},
		{
			name:    "zero disables the limit",
			content: testutil.JakartaConfig + "server:\n  max_connections: 0\n",
			wantMax: 0,
			wantAdr: config.DefaultServerAddr,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := testutil.SetupTestConfig(t, tt.content)

			cmd := NewServeCommand()
			cmd.SetContext(context.Background())
			require.NoError(t, cmd.ParseFlags(tt.args))
			_, err := config.LoadConfig(path, cmd.Flags())
			require.NoError(t, err)

			cmdCtx, cleanup, err := NewCommandContext(cmd)
			require.NoError(t, err)
			defer cleanup()

			got := serverConfig(cmd, cmdCtx, nil, path)
			assert.Equal(t, tt.wantMax, got.MaxConnections)
			assert.Equal(t, tt.wantAdr, got.Addr)
			assert.Equal(t, path, got.ConfigPath)
			assert.Equal(t, jakarta, got.Settings.Location)
		})
	}
}

func TestServerConfig_NegativeMaxConnections(t *testing.T) {
	path := testutil.SetupTestConfig(t, testutil.JakartaConfig)

	cmd := NewServeCommand()
	require.NoError(t, cmd.ParseFlags([]string{"--max-connections=-1"}))
	_, err := config.LoadConfig(path, cmd.Flags())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "max_connections")
}
