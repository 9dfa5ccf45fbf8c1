package env

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/stretchr/testify/require"
)

var keys = []string{
	"RPC_URL",
	"PAYER_PRIVATE_KEY",
	"COMMITMENT",
	"LISTEN_ADDRESS",
	"FAUCET_MINT",
	"FAUCET_DRIP_AMOUNT",
	"FAUCET_MAX_AIRDROP_LAMPORTS",
	"FAUCET_RATE_LIMIT",
	"FAUCET_RATE_WINDOW",
	"REDIS_HOST",
	"REDIS_PORT",
	"REDIS_PASSWORD",
	"REDIS_DATABASE",
	"LOG_LEVEL",
}

// clearEnv unsets every variable for the duration of the test.
func clearEnv(t *testing.T) {
	t.Helper()

	for _, key := range keys {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}
}

func TestFromEnv_Defaults(t *testing.T) {
	clearEnv(t)
	payer := solana.NewWallet().PrivateKey

	t.Setenv("RPC_URL", "http://localhost:8899")
	t.Setenv("PAYER_PRIVATE_KEY", payer.String())

	config, err := FromEnv()
	require.NoError(t, err)
	require.Equal(t, "http://localhost:8899", config.RPCURL)
	require.Equal(t, payer, config.Payer)
	require.Equal(t, rpc.CommitmentConfirmed, config.Commitment)
	require.Equal(t, ":4343", config.ListenAddress)
	require.Nil(t, config.FaucetMint)
	require.Equal(t, uint64(1_000_000), config.DripAmount)
	require.Equal(t, solana.LAMPORTS_PER_SOL, config.MaxAirdropLamports)
	require.Equal(t, "info", config.LogLevel)
	require.Equal(t, 10, config.RateLimit)
	require.Equal(t, time.Hour, config.RateWindow)
	require.Empty(t, config.RedisHost)
	require.Equal(t, 6379, config.RedisPort)
}

func TestFromEnv_Errors(t *testing.T) {
	payer := solana.NewWallet().PrivateKey.String()

	tests := []struct {
		name string
		env  map[string]string
	}{
		{"missing rpc url", map[string]string{"PAYER_PRIVATE_KEY": payer}},
		{"missing payer", map[string]string{"RPC_URL": "http://localhost:8899"}},
		{"bad payer", map[string]string{"RPC_URL": "http://localhost:8899", "PAYER_PRIVATE_KEY": "nope"}},
		{"bad commitment", map[string]string{"RPC_URL": "x", "PAYER_PRIVATE_KEY": payer, "COMMITMENT": "max"}},
		{"bad mint", map[string]string{"RPC_URL": "x", "PAYER_PRIVATE_KEY": payer, "FAUCET_MINT": "0OIl"}},
		{"bad drip", map[string]string{"RPC_URL": "x", "PAYER_PRIVATE_KEY": payer, "FAUCET_DRIP_AMOUNT": "-1"}},
		{"bad rate window", map[string]string{"RPC_URL": "x", "PAYER_PRIVATE_KEY": payer, "FAUCET_RATE_WINDOW": "soon"}},
		{"negative rate window", map[string]string{"RPC_URL": "x", "PAYER_PRIVATE_KEY": payer, "FAUCET_RATE_WINDOW": "-1m"}},
		{"bad redis port", map[string]string{"RPC_URL": "x", "PAYER_PRIVATE_KEY": payer, "REDIS_PORT": "redis"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, err := FromEnv()
			require.Error(t, err)
		})
	}
}

func TestLoad_File(t *testing.T) {
	clearEnv(t)
	payer := solana.NewWallet().PrivateKey
	mint := solana.NewWallet().PublicKey()

	file := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(file, []byte(
		"RPC_URL=http://127.0.0.1:8899\n"+
			"PAYER_PRIVATE_KEY="+payer.String()+"\n"+
			"COMMITMENT=finalized\n"+
			"FAUCET_MINT="+mint.String()+"\n"+
			"FAUCET_DRIP_AMOUNT=42\n"+
			"FAUCET_RATE_WINDOW=10m\n"+
			"REDIS_HOST=127.0.0.1\n"+
			"REDIS_DATABASE=2\n",
	), 0o600))

	config, err := Load(file, filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)
	require.Equal(t, "http://127.0.0.1:8899", config.RPCURL)
	require.Equal(t, rpc.CommitmentFinalized, config.Commitment)
	require.NotNil(t, config.FaucetMint)
	require.Equal(t, mint, *config.FaucetMint)
	require.Equal(t, uint64(42), config.DripAmount)
	require.Equal(t, 10*time.Minute, config.RateWindow)
	require.Equal(t, "127.0.0.1", config.RedisHost)
	require.Equal(t, 2, config.RedisDatabase)
}
