package csolana

import (
	"context"

	"github.com/gagliardetto/solana-go"
)

// Airdrop requests lamports for to and waits until the airdrop reaches the
// client commitment. The wait ends with ErrBlockhashExpired if the blockhash
// fetched before the request expires while the airdrop is still unseen.
func (c *Client) Airdrop(ctx context.Context, to solana.PublicKey, lamports uint64) (solana.Signature, error) {
	blockhash, err := c.RecentBlockhash(ctx)
	if err != nil {
		return solana.Signature{}, err
	}

	sig, err := c.rpcClient.RequestAirdrop(ctx, to, lamports, c.commitment)
	if err != nil {
		return solana.Signature{}, RPCError("request airdrop", err)
	}
	c.log.Debug().
		Str("signature", sig.String()).
		Str("to", to.String()).
		Uint64("lamports", lamports).
		Msg("airdrop requested")

	if err := c.awaitSignatureStatuses(ctx, blockhash, sig); err != nil {
		return solana.Signature{}, RPCError("confirm airdrop", err)
	}
	return sig, nil
}
