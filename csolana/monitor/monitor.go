// Package monitor polls an address for transactions that land after the
// monitor starts.
package monitor

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
	signatureBufferSize = 10
	defaultCommitment   = rpc.CommitmentConfirmed
	defaultDelay        = time.Second
)

type SignatureLister interface {
	GetSignaturesForAddressWithOpts(ctx context.Context, account solana.PublicKey, opts *rpc.GetSignaturesForAddressOpts) ([]*rpc.TransactionSignature, error)
}

type Monitor struct {
	commitment rpc.CommitmentType
	address    solana.PublicKey
	delay      time.Duration
	log        zerolog.Logger

	// newest signature seen so far
	until   solana.Signature
	started bool

	// C receives successful signatures oldest first. It is closed when the
	// monitor stops.
	C <-chan solana.Signature
	c chan solana.Signature

	lister SignatureLister
	done   chan struct{}
}

type MonitorConfig struct {
	Commitment rpc.CommitmentType
	Address    solana.PublicKey
	Delay      time.Duration
	Logger     *zerolog.Logger
}

// New records the newest signature of address, then polls in the
// background. Transactions that landed before New returns are not reported.
func New(ctx context.Context, lister SignatureLister, config MonitorConfig) (*Monitor, error) {
	if config.Address.IsZero() {
		return nil, errors.New("address is zero")
	}
	if config.Commitment == "" {
		config.Commitment = defaultCommitment
	}
	if config.Delay == 0 {
		config.Delay = defaultDelay
	}
	if config.Logger == nil {
		config.Logger = &logger.Logger
	}

	c := make(chan solana.Signature, signatureBufferSize)

	m := &Monitor{
		commitment: config.Commitment,
		address:    config.Address,
		delay:      config.Delay,
		log:        config.Logger.With().Str("address", config.Address.String()).Logger(),
		C:          c,
		c:          c,
		lister:     lister,
		done:       make(chan struct{}),
	}

	if _, err := m.task(ctx); err != nil {
		return nil, errors.Wrap(err, "initial signatures")
	}

	go m.routine(ctx)

	return m, nil
}

// Done is closed once the monitor has stopped and C is closed.
func (m *Monitor) Done() <-chan struct{} {
	return m.done
}
