package faucet

import (
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/solanashuffle/splclient/csolana"
	"github.com/solanashuffle/splclient/logger"
	"github.com/solanashuffle/splclient/spltoken"
	"github.com/solanashuffle/splclient/stream"
)

type Config struct {
	// Mint is the token dripped by the drip endpoint. Drips are disabled
	// when it is nil. The client payer must be its mint authority.
	Mint *solana.PublicKey

	DripAmount         uint64
	MaxAirdropLamports uint64

	// RateLimit caps successful airdrops and drips per wallet in
	// RateWindow. Zero disables limiting.
	RateLimit  int
	RateWindow time.Duration
}

func (config *Config) Validate() error {
	if config.Mint != nil && config.DripAmount == 0 {
		return errors.New("drip amount must be positive when a faucet mint is set")
	}
	if config.MaxAirdropLamports == 0 {
		return errors.New("max airdrop lamports must be positive")
	}
	if config.RateLimit < 0 {
		return errors.New("rate limit must not be negative")
	}
	if config.RateLimit > 0 && config.RateWindow <= 0 {
		return errors.New("rate window must be positive when rate limiting")
	}
	return nil
}

// Faucet hands out SOL and a configured SPL token, paid for by the client payer.
type Faucet struct {
	config Config
	client *csolana.Client
	token  spltoken.Operations
	stream  *stream.Stream
	storage fiber.Storage
	log     zerolog.Logger
}

// Event is published to the stream after every airdrop and drip.
type Event struct {
	Type      string           `json:"type"`
	Wallet    solana.PublicKey `json:"wallet"`
	Amount    uint64           `json:"amount"`
	Signature solana.Signature `json:"signature"`
}

type FaucetOptionFn func(*Faucet)

func WithLogger(log *zerolog.Logger) FaucetOptionFn {
	return func(f *Faucet) {
		f.log = *log
	}
}

// WithStream publishes faucet events to s and serves them on /stream. s
// must be started by the caller.
func WithStream(s *stream.Stream) FaucetOptionFn {
	return func(f *Faucet) {
		f.stream = s
	}
}

// WithStorage keeps rate limiter counters in storage instead of memory.
func WithStorage(storage fiber.Storage) FaucetOptionFn {
	return func(f *Faucet) {
		f.storage = storage
	}
}

func NewFaucet(config Config, client *csolana.Client, opts ...FaucetOptionFn) (*Faucet, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	f := &Faucet{
		config: config,
		client: client,
		token:  spltoken.New(client),
		log:    logger.Logger,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f, nil
}

func (f *Faucet) publish(event Event) {
	if f.stream != nil {
		f.stream.PublishJSON(event)
	}
}
