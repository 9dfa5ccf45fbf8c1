package csolana

import (
	"context"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/pkg/errors"

	"github.com/solanashuffle/splclient/utility"
)

// awaitSignatureStatuses polls until every signature reaches the client
// commitment. A signature the node has not seen yet is given up on once
// blockhash is no longer valid.
func (c *Client) awaitSignatureStatuses(ctx context.Context, blockhash solana.Hash, signatures ...solana.Signature) error {
	pending := append([]solana.Signature(nil), signatures...)
	target := rpc.ConfirmationStatusType(c.commitment)

	for i := 0; i < c.maxPolls; i++ {
		if len(pending) == 0 {
			return nil
		}
		if i > 0 {
			if err := sleep(ctx, c.pollInterval); err != nil {
				return err
			}
		}

		resp, err := c.rpcClient.GetSignatureStatuses(ctx, true, pending...)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			c.log.Debug().Err(err).Msg("get signature statuses")
			continue
		}

		var doneIndices []int
		var unseen bool
		for idx, status := range resp.Value {
			if status == nil {
				unseen = true
				continue
			}
			if status.Err != nil {
				return errors.Wrapf(ErrTransactionFailed, "%s: %v", pending[idx], status.Err)
			}
			if commitmentReached(status.ConfirmationStatus, target) {
				doneIndices = append(doneIndices, idx)
			}
		}

		for n, idx := range doneIndices {
			pending = utility.Remove(pending, idx-n)
		}

		if unseen && !blockhash.IsZero() {
			valid, err := c.rpcClient.IsBlockhashValid(ctx, blockhash, rpc.CommitmentProcessed)
			if err == nil && !valid.Value {
				return errors.Wrapf(ErrBlockhashExpired, "blockhash %s", blockhash)
			}
		}
	}

	if len(pending) == 0 {
		return nil
	}
	return errors.Wrapf(ErrNotConfirmed, "%d signatures not %s after %d polls", len(pending), target, c.maxPolls)
}

func commitmentReached(status, target rpc.ConfirmationStatusType) bool {
	switch target {
	case rpc.ConfirmationStatusProcessed:
		return status == rpc.ConfirmationStatusProcessed ||
			status == rpc.ConfirmationStatusConfirmed ||
			status == rpc.ConfirmationStatusFinalized
	case rpc.ConfirmationStatusConfirmed:
		return status == rpc.ConfirmationStatusConfirmed ||
			status == rpc.ConfirmationStatusFinalized
	case rpc.ConfirmationStatusFinalized:
		return status == rpc.ConfirmationStatusFinalized
	default:
		return false
	}
}

func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
