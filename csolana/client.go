package csolana

import (
	"context"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/solanashuffle/splclient/logger"
)

const (
	defaultCommitment   = rpc.CommitmentConfirmed
	defaultPollInterval = 300 * time.Millisecond
	defaultMaxPolls     = 100
)

// RPCClient is the subset of *rpc.Client the client depends on.
type RPCClient interface {
	GetLatestBlockhash(ctx context.Context, commitment rpc.CommitmentType) (*rpc.GetLatestBlockhashResult, error)
	IsBlockhashValid(ctx context.Context, blockHash solana.Hash, commitment rpc.CommitmentType) (*rpc.IsValidBlockhashResult, error)
	GetMinimumBalanceForRentExemption(ctx context.Context, dataSize uint64, commitment rpc.CommitmentType) (uint64, error)
	SendTransactionWithOpts(ctx context.Context, transaction *solana.Transaction, opts rpc.TransactionOpts) (solana.Signature, error)
	GetSignatureStatuses(ctx context.Context, searchTransactionHistory bool, transactionSignatures ...solana.Signature) (*rpc.GetSignatureStatusesResult, error)
	RequestAirdrop(ctx context.Context, account solana.PublicKey, lamports uint64, commitment rpc.CommitmentType) (solana.Signature, error)
	GetBalance(ctx context.Context, publicKey solana.PublicKey, commitment rpc.CommitmentType) (*rpc.GetBalanceResult, error)
	GetTokenAccountBalance(ctx context.Context, account solana.PublicKey, commitment rpc.CommitmentType) (*rpc.GetTokenAccountBalanceResult, error)
	GetAccountInfoWithOpts(ctx context.Context, account solana.PublicKey, opts *rpc.GetAccountInfoOpts) (*rpc.GetAccountInfoResult, error)
	GetSignaturesForAddressWithOpts(ctx context.Context, account solana.PublicKey, opts *rpc.GetSignaturesForAddressOpts) ([]*rpc.TransactionSignature, error)
	Close() error
}

var _ RPCClient = (*rpc.Client)(nil)

// Client submits transactions on behalf of a single fee payer.
type Client struct {
	rpcClient RPCClient
	Endpoint  string

	payer         solana.PrivateKey
	commitment    rpc.CommitmentType
	pollInterval  time.Duration
	maxPolls      int
	skipPreflight bool

	log zerolog.Logger
}

type ClientConfig struct {
	Endpoint string
	// RPCClient overrides the client built from Endpoint.
	RPCClient RPCClient

	Payer solana.PrivateKey

	Commitment    rpc.CommitmentType
	PollInterval  time.Duration
	MaxPolls      int
	SkipPreflight bool

	Logger *zerolog.Logger
}

func (config *ClientConfig) setDefaults() {
	if config.Commitment == "" {
		config.Commitment = defaultCommitment
	}
	if config.PollInterval <= 0 {
		config.PollInterval = defaultPollInterval
	}
	if config.MaxPolls <= 0 {
		config.MaxPolls = defaultMaxPolls
	}
	if config.Logger == nil {
		config.Logger = &logger.Logger
	}
}

func NewClient(config ClientConfig) (*Client, error) {
	if len(config.Payer) != 64 {
		return nil, errors.New("payer private key must be 64 bytes")
	}
	if config.RPCClient == nil {
		if config.Endpoint == "" {
			return nil, errors.New("endpoint is empty")
		}
		config.RPCClient = rpc.New(config.Endpoint)
	}
	config.setDefaults()

	return &Client{
		rpcClient: config.RPCClient,
		Endpoint:  config.Endpoint,

		payer:         config.Payer,
		commitment:    config.Commitment,
		pollInterval:  config.PollInterval,
		maxPolls:      config.MaxPolls,
		skipPreflight: config.SkipPreflight,

		log: config.Logger.With().
			Str("payer", config.Payer.PublicKey().String()).
			Logger(),
	}, nil
}

func (c *Client) Payer() solana.PrivateKey {
	return c.payer
}

func (c *Client) PayerPublicKey() solana.PublicKey {
	return c.payer.PublicKey()
}

// RPC exposes the underlying node client for queries this package does not wrap.
func (c *Client) RPC() RPCClient {
	return c.rpcClient
}

func (c *Client) Commitment() rpc.CommitmentType {
	return c.commitment
}

func (c *Client) Close() error {
	return c.rpcClient.Close()
}
