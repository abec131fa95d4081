package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRPCURL(t *testing.T) {
	cases := []struct {
		cluster Cluster
		want    string
	}{
		{ClusterDevnet, "https://api.devnet.solana.com"},
		{ClusterTestnet, "https://api.testnet.solana.com"},
		{ClusterMainnet, "https://api.mainnet-beta.solana.com"},
		{"mainnet", "https://api.mainnet-beta.solana.com"},
		{ClusterLocalnet, "http://127.0.0.1:8899"},
	}
	for _, tc := range cases {
		got, err := RPCURL(tc.cluster)
		require.NoError(t, err, tc.cluster)
		assert.Equal(t, tc.want, got)
	}

	_, err := RPCURL("helius")
	assert.ErrorIs(t, err, ErrUnknownCluster)
}

func TestLoad_EnvOnlyDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	cfg, err := Load("")
	require.NoError(t, err)

	want := Default()
	assert.Equal(t, want, cfg)
	endpoint, err := cfg.RPC.Endpoint()
	require.NoError(t, err)
	assert.Equal(t, "https://api.devnet.solana.com", endpoint)
	assert.Equal(t, "30s", cfg.RPC.Timeout().String())
}

func TestLoad_FileThenEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
rpc:
  cluster: testnet
  commitment: finalized
  timeout_ms: 1500
  headers:
    x-api-key: from-file
keypair: /keys/payer.json
log:
  format: json
  level: debug
`), 0o600))

	t.Setenv("SOLXFER_RPC_URL", "http://127.0.0.1:8899")
	t.Setenv("SOLXFER_SKIP_PREFLIGHT", "true")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ClusterTestnet, cfg.RPC.Cluster)
	assert.Equal(t, "finalized", cfg.RPC.Commitment)
	assert.Equal(t, 1500, cfg.RPC.TimeoutMs)
	assert.True(t, cfg.RPC.SkipPreflight)
	assert.Equal(t, int64(1), cfg.RPC.AsyncSlots)
	assert.Equal(t, map[string]string{"x-api-key": "from-file"}, cfg.RPC.Headers)
	assert.Equal(t, "/keys/payer.json", cfg.Keypair)

	endpoint, err := cfg.RPC.Endpoint()
	require.NoError(t, err)
	assert.Equal(t, "http://127.0.0.1:8899", endpoint)

	opts := cfg.Log.ToLogOptions()
	assert.Equal(t, "json", opts.Format)
	assert.Equal(t, "debug", opts.Level)
	assert.Equal(t, 10, opts.MaxSizeMB)
}

func TestLoad_Invalid(t *testing.T) {
	dir := t.TempDir()
	write := func(body string) string {
		path := filepath.Join(dir, "c.yaml")
		require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
		return path
	}

	_, err := Load(write("rpc:\n  commitment: recent\n"))
	assert.ErrorContains(t, err, "invalid config")

	_, err = Load(write("rpc:\n  async_slots: 0\n"))
	assert.NoError(t, err, "zero takes the default")

	_, err = Load(write("rpc:\n  url: not a url\n"))
	assert.ErrorContains(t, err, "invalid config")

	_, err = Load(write("log:\n  format: xml\n"))
	assert.ErrorContains(t, err, "invalid config")

	_, err = Load(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}

func TestWriteDefault(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	require.NoError(t, WriteDefault(path, false))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)

	assert.ErrorContains(t, WriteDefault(path, false), "already exists")
	assert.NoError(t, WriteDefault(path, true))
}
