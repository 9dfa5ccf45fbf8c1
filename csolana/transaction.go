package csolana

import (
	"context"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/pkg/errors"
)

func (c *Client) RecentBlockhash(ctx context.Context) (solana.Hash, error) {
	recent, err := c.rpcClient.GetLatestBlockhash(ctx, c.commitment)
	if err != nil {
		return solana.Hash{}, RPCError("recent blockhash", err)
	}
	if recent == nil || recent.Value == nil {
		return solana.Hash{}, RPCError("recent blockhash", errors.New("empty blockhash response"))
	}
	return recent.Value.Blockhash, nil
}

// ProcessTransaction sends a signed transaction and blocks until it reaches
// the client commitment. The transaction is never resent.
func (c *Client) ProcessTransaction(ctx context.Context, tx *solana.Transaction) error {
	if len(tx.Signatures) == 0 {
		return ProgramError("process transaction", errors.New("transaction is not signed"))
	}

	sig, err := c.rpcClient.SendTransactionWithOpts(ctx, tx, rpc.TransactionOpts{
		SkipPreflight:       c.skipPreflight,
		PreflightCommitment: c.commitment,
	})
	if err != nil {
		c.log.Warn().Err(err).Str("signature", tx.Signatures[0].String()).Msg("send transaction failed")
		return RPCError("send transaction", err)
	}
	c.log.Debug().Str("signature", sig.String()).Msg("transaction sent")

	if err := c.awaitSignatureStatuses(ctx, tx.Message.RecentBlockhash, sig); err != nil {
		c.log.Warn().Err(err).Str("signature", sig.String()).Msg("transaction not confirmed")
		return RPCError("confirm transaction", err)
	}
	c.log.Debug().Str("signature", sig.String()).Str("commitment", string(c.commitment)).Msg("transaction confirmed")

	return nil
}

// SignAndProcess builds a transaction paid by the payer over a fresh
// blockhash, signs it with the payer and signers, and processes it.
func (c *Client) SignAndProcess(ctx context.Context, instructions []solana.Instruction, signers ...solana.PrivateKey) (*solana.Transaction, error) {
	recent, err := c.RecentBlockhash(ctx)
	if err != nil {
		return nil, err
	}

	tx, err := solana.NewTransaction(
		instructions,
		recent,
		solana.TransactionPayer(c.payer.PublicKey()),
	)
	if err != nil {
		return nil, ProgramError("build transaction", err)
	}

	_, err = tx.Sign(c.signerGetter(signers))
	if err != nil {
		return nil, ProgramError("sign transaction", err)
	}

	if err := c.ProcessTransaction(ctx, tx); err != nil {
		return nil, err
	}
	return tx, nil
}

func (c *Client) signerGetter(signers []solana.PrivateKey) func(solana.PublicKey) *solana.PrivateKey {
	return func(key solana.PublicKey) *solana.PrivateKey {
		if c.payer.PublicKey().Equals(key) {
			return &c.payer
		}
		for i := range signers {
			if signers[i].PublicKey().Equals(key) {
				return &signers[i]
			}
		}
		return nil
	}
}
