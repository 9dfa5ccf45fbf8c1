package csolana

import (
	"context"

	"github.com/gagliardetto/solana-go"
)

// CreateAccount creates a fresh account of dataLen bytes owned by owner and
// returns its key. A nil lamports funds it with the rent exempt minimum.
func (c *Client) CreateAccount(ctx context.Context, owner solana.PublicKey, dataLen uint64, lamports *uint64) (solana.PrivateKey, error) {
	account, err := solana.NewRandomPrivateKey()
	if err != nil {
		return nil, ProgramError("create account", err)
	}

	var balance uint64
	if lamports != nil {
		balance = *lamports
	} else {
		balance, err = c.MinimumBalanceForRentExemption(ctx, dataLen)
		if err != nil {
			return nil, err
		}
	}

	instruction, err := CreateAccountInstruction(
		c.payer.PublicKey(),
		account.PublicKey(),
		owner,
		dataLen,
		balance,
	)
	if err != nil {
		return nil, err
	}

	if _, err := c.SignAndProcess(ctx, []solana.Instruction{instruction}, account); err != nil {
		return nil, err
	}

	c.log.Info().
		Str("account", account.PublicKey().String()).
		Str("owner", owner.String()).
		Uint64("lamports", balance).
		Msg("created account")
	return account, nil
}

// GetAssociatedTokenAddress derives the associated token account of wallet
// for mint. It does not touch the network.
func (c *Client) GetAssociatedTokenAddress(wallet, mint solana.PublicKey) (solana.PublicKey, error) {
	address, _, err := solana.FindAssociatedTokenAddress(wallet, mint)
	if err != nil {
		return solana.PublicKey{}, ProgramError("associated token address", err)
	}
	return address, nil
}

// CreateAssociatedTokenAccount creates the associated token account of
// recipient for mint with funder paying the rent. The transaction is signed
// by the payer alone when funder is the payer.
func (c *Client) CreateAssociatedTokenAccount(ctx context.Context, funder solana.PrivateKey, recipient, mint solana.PublicKey) (solana.PublicKey, error) {
	_, address, err := c.createAssociatedTokenAccount(ctx, funder, recipient, mint)
	return address, err
}

func (c *Client) CreateAssociatedTokenAccountByPayer(ctx context.Context, recipient, mint solana.PublicKey) (solana.PublicKey, error) {
	return c.CreateAssociatedTokenAccount(ctx, c.payer, recipient, mint)
}

// CreateAssociatedTokenAccountTx is CreateAssociatedTokenAccount returning
// the processed transaction as well.
func (c *Client) CreateAssociatedTokenAccountTx(ctx context.Context, funder solana.PrivateKey, recipient, mint solana.PublicKey) (*solana.Transaction, solana.PublicKey, error) {
	return c.createAssociatedTokenAccount(ctx, funder, recipient, mint)
}

func (c *Client) createAssociatedTokenAccount(ctx context.Context, funder solana.PrivateKey, recipient, mint solana.PublicKey) (*solana.Transaction, solana.PublicKey, error) {
	instruction, address, err := CreateAssociatedTokenAccountInstruction(
		funder.PublicKey(),
		recipient,
		mint,
	)
	if err != nil {
		return nil, solana.PublicKey{}, err
	}

	var signers []solana.PrivateKey
	if !funder.PublicKey().Equals(c.payer.PublicKey()) {
		signers = append(signers, funder)
	}

	tx, err := c.SignAndProcess(ctx, []solana.Instruction{instruction}, signers...)
	if err != nil {
		return nil, solana.PublicKey{}, err
	}

	c.log.Info().
		Str("address", address.String()).
		Str("wallet", recipient.String()).
		Str("mint", mint.String()).
		Msg("created associated token account")
	return tx, address, nil
}
