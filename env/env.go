package env

import (
	"os"
	"strconv"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
)

const (
	defaultListenAddress      = ":4343"
	defaultDripAmount         = 1_000_000
	defaultMaxAirdropLamports = solana.LAMPORTS_PER_SOL
	defaultLogLevel           = "info"
	defaultRateLimit          = 10
	defaultRateWindow         = time.Hour
	defaultRedisPort          = 6379
)

// Config is read from the environment, after loading any .env files.
type Config struct {
	RPCURL     string
	Payer      solana.PrivateKey
	Commitment rpc.CommitmentType

	ListenAddress      string
	FaucetMint         *solana.PublicKey
	DripAmount         uint64
	MaxAirdropLamports uint64
	// RateLimit is the number of faucet requests per wallet and endpoint
	// allowed in RateWindow. Zero disables limiting.
	RateLimit  int
	RateWindow time.Duration

	// Redis backs the rate limiter when RedisHost is set.
	RedisHost     string
	RedisPort     int
	RedisPassword string
	RedisDatabase int

	LogLevel string
}

// Load reads files into the environment without overriding variables that
// are already set, then parses the configuration. A missing file is not an
// error; with no files ".env" is tried.
func Load(files ...string) (*Config, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, file := range files {
		if _, err := os.Stat(file); os.IsNotExist(err) {
			continue
		}
		if err := godotenv.Load(file); err != nil {
			return nil, errors.Wrapf(err, "load %s", file)
		}
	}
	return FromEnv()
}

func FromEnv() (*Config, error) {
	config := &Config{
		RPCURL:        os.Getenv("RPC_URL"),
		Commitment:    rpc.CommitmentType(getOrDefault("COMMITMENT", string(rpc.CommitmentConfirmed))),
		ListenAddress: getOrDefault("LISTEN_ADDRESS", defaultListenAddress),
		LogLevel:      getOrDefault("LOG_LEVEL", defaultLogLevel),
		RedisHost:     os.Getenv("REDIS_HOST"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
	}

	if config.RPCURL == "" {
		return nil, errors.New("RPC_URL is not set")
	}

	switch config.Commitment {
	case rpc.CommitmentProcessed, rpc.CommitmentConfirmed, rpc.CommitmentFinalized:
	default:
		return nil, errors.Errorf("COMMITMENT %q is not one of processed, confirmed, finalized", config.Commitment)
	}

	payer := os.Getenv("PAYER_PRIVATE_KEY")
	if payer == "" {
		return nil, errors.New("PAYER_PRIVATE_KEY is not set")
	}
	var err error
	config.Payer, err = solana.PrivateKeyFromBase58(payer)
	if err != nil {
		return nil, errors.Wrap(err, "PAYER_PRIVATE_KEY")
	}

	if mint := os.Getenv("FAUCET_MINT"); mint != "" {
		key, err := solana.PublicKeyFromBase58(mint)
		if err != nil {
			return nil, errors.Wrap(err, "FAUCET_MINT")
		}
		config.FaucetMint = &key
	}

	config.DripAmount, err = getUintOrDefault("FAUCET_DRIP_AMOUNT", defaultDripAmount)
	if err != nil {
		return nil, err
	}
	config.MaxAirdropLamports, err = getUintOrDefault("FAUCET_MAX_AIRDROP_LAMPORTS", defaultMaxAirdropLamports)
	if err != nil {
		return nil, err
	}

	rateLimit, err := getUintOrDefault("FAUCET_RATE_LIMIT", defaultRateLimit)
	if err != nil {
		return nil, err
	}
	config.RateLimit = int(rateLimit)

	config.RateWindow = defaultRateWindow
	if window := os.Getenv("FAUCET_RATE_WINDOW"); window != "" {
		config.RateWindow, err = time.ParseDuration(window)
		if err != nil {
			return nil, errors.Wrap(err, "FAUCET_RATE_WINDOW")
		}
		if config.RateWindow <= 0 {
			return nil, errors.New("FAUCET_RATE_WINDOW must be positive")
		}
	}

	redisPort, err := getUintOrDefault("REDIS_PORT", defaultRedisPort)
	if err != nil {
		return nil, err
	}
	config.RedisPort = int(redisPort)

	redisDatabase, err := getUintOrDefault("REDIS_DATABASE", 0)
	if err != nil {
		return nil, err
	}
	config.RedisDatabase = int(redisDatabase)

	return config, nil
}

func getOrDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getUintOrDefault(key string, fallback uint64) (uint64, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}

	parsed, err := strconv.ParseUint(value, 10, 64)
	if err != nil {
		return 0, errors.Wrap(err, key)
	}
	return parsed, nil
}
