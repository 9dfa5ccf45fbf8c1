package csolana

import (
	"context"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"

	"github.com/solanashuffle/splclient/csolana/monitor"
)

// NewMonitor watches address for new successful transactions at the client
// commitment until ctx is done.
func (c *Client) NewMonitor(ctx context.Context, address solana.PublicKey) (*monitor.Monitor, error) {
	commitment := c.commitment
	if commitment == rpc.CommitmentProcessed {
		// getSignaturesForAddress does not serve processed.
		commitment = rpc.CommitmentConfirmed
	}

	return monitor.New(ctx, c.rpcClient, monitor.MonitorConfig{
		Commitment: commitment,
		Address:    address,
		Delay:      c.pollInterval,
		Logger:     &c.log,
	})
}
