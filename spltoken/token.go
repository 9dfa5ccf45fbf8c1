// Package spltoken submits SPL token program transactions through a
// csolana.Client and wraps each result with the signatures of the
// transaction that produced it.
package spltoken

import (
	"context"

	"github.com/gagliardetto/solana-go"

	"github.com/solanashuffle/splclient/csolana"
	"github.com/solanashuffle/splclient/txctx"
)

// Operations is the token lifecycle every Token provides. Each call is a
// single transaction paid for by the client payer.
type Operations interface {
	CreateMint(ctx context.Context, owner solana.PublicKey, decimals uint8) (txctx.TxCtx[solana.PrivateKey], error)
	CreateTokenAccount(ctx context.Context, owner, mint solana.PublicKey) (txctx.TxCtx[solana.PrivateKey], error)
	CreateTokenAccountWithLamports(ctx context.Context, owner, mint solana.PublicKey, lamports uint64) (txctx.TxCtx[solana.PrivateKey], error)
	MintTo(ctx context.Context, owner solana.PrivateKey, mint, account solana.PublicKey, amount uint64, decimals uint8) (txctx.TxCtx[struct{}], error)
	TransferTo(ctx context.Context, authority solana.PrivateKey, mint, source, destination solana.PublicKey, amount uint64, decimals uint8) (txctx.TxCtx[struct{}], error)
	GetAssociatedTokenAddress(wallet, mint solana.PublicKey) (solana.PublicKey, error)
	CreateAssociatedTokenAccount(ctx context.Context, funder solana.PrivateKey, recipient, mint solana.PublicKey) (txctx.TxCtx[solana.PublicKey], error)
	CreateAssociatedTokenAccountByPayer(ctx context.Context, recipient, mint solana.PublicKey) (txctx.TxCtx[solana.PublicKey], error)
	CloseTokenAccount(ctx context.Context, owner solana.PrivateKey, account, destination solana.PublicKey) (txctx.TxCtx[struct{}], error)
}

var _ Operations = (*Token)(nil)

type Token struct {
	client *csolana.Client
}

func New(client *csolana.Client) *Token {
	return &Token{client: client}
}

func (t *Token) Client() *csolana.Client {
	return t.client
}

// CreateMint creates a mint with owner as mint authority and returns the
// mint key.
func (t *Token) CreateMint(ctx context.Context, owner solana.PublicKey, decimals uint8) (txctx.TxCtx[solana.PrivateKey], error) {
	mint, err := solana.NewRandomPrivateKey()
	if err != nil {
		return txctx.TxCtx[solana.PrivateKey]{}, csolana.ProgramError("create mint", err)
	}

	lamports, err := t.client.MinimumBalanceForRentExemption(ctx, csolana.MintSize)
	if err != nil {
		return txctx.TxCtx[solana.PrivateKey]{}, err
	}

	instructions, err := CreateMintInstructions(
		t.client.PayerPublicKey(),
		mint.PublicKey(),
		owner,
		decimals,
		lamports,
	)
	if err != nil {
		return txctx.TxCtx[solana.PrivateKey]{}, err
	}

	tx, err := t.client.SignAndProcess(ctx, instructions, mint)
	if err != nil {
		return txctx.TxCtx[solana.PrivateKey]{}, err
	}
	return txctx.MustNew(mint, tx.Signatures), nil
}

// CreateTokenAccount creates a rent exempt token account for mint held by
// owner and returns the account key.
func (t *Token) CreateTokenAccount(ctx context.Context, owner, mint solana.PublicKey) (txctx.TxCtx[solana.PrivateKey], error) {
	lamports, err := t.client.MinimumBalanceForRentExemption(ctx, csolana.TokenAccountSize)
	if err != nil {
		return txctx.TxCtx[solana.PrivateKey]{}, err
	}
	return t.CreateTokenAccountWithLamports(ctx, owner, mint, lamports)
}

func (t *Token) CreateTokenAccountWithLamports(ctx context.Context, owner, mint solana.PublicKey, lamports uint64) (txctx.TxCtx[solana.PrivateKey], error) {
	account, err := solana.NewRandomPrivateKey()
	if err != nil {
		return txctx.TxCtx[solana.PrivateKey]{}, csolana.ProgramError("create token account", err)
	}

	instructions, err := CreateTokenAccountInstructions(
		t.client.PayerPublicKey(),
		account.PublicKey(),
		owner,
		mint,
		lamports,
	)
	if err != nil {
		return txctx.TxCtx[solana.PrivateKey]{}, err
	}

	tx, err := t.client.SignAndProcess(ctx, instructions, account)
	if err != nil {
		return txctx.TxCtx[solana.PrivateKey]{}, err
	}
	return txctx.MustNew(account, tx.Signatures), nil
}

// MintTo mints amount to account. owner must be the mint authority and
// decimals must match the mint.
func (t *Token) MintTo(ctx context.Context, owner solana.PrivateKey, mint, account solana.PublicKey, amount uint64, decimals uint8) (txctx.TxCtx[struct{}], error) {
	instructions, err := MintToInstructions(mint, account, owner.PublicKey(), amount, decimals)
	if err != nil {
		return txctx.TxCtx[struct{}]{}, err
	}
	return t.process(ctx, instructions, owner)
}

// TransferTo moves amount from source to destination. authority must own
// source and decimals must match the mint.
func (t *Token) TransferTo(ctx context.Context, authority solana.PrivateKey, mint, source, destination solana.PublicKey, amount uint64, decimals uint8) (txctx.TxCtx[struct{}], error) {
	instructions, err := TransferInstructions(source, mint, destination, authority.PublicKey(), amount, decimals)
	if err != nil {
		return txctx.TxCtx[struct{}]{}, err
	}
	return t.process(ctx, instructions, authority)
}

func (t *Token) GetAssociatedTokenAddress(wallet, mint solana.PublicKey) (solana.PublicKey, error) {
	return t.client.GetAssociatedTokenAddress(wallet, mint)
}

func (t *Token) CreateAssociatedTokenAccount(ctx context.Context, funder solana.PrivateKey, recipient, mint solana.PublicKey) (txctx.TxCtx[solana.PublicKey], error) {
	tx, address, err := t.client.CreateAssociatedTokenAccountTx(ctx, funder, recipient, mint)
	if err != nil {
		return txctx.TxCtx[solana.PublicKey]{}, err
	}
	return txctx.MustNew(address, tx.Signatures), nil
}

func (t *Token) CreateAssociatedTokenAccountByPayer(ctx context.Context, recipient, mint solana.PublicKey) (txctx.TxCtx[solana.PublicKey], error) {
	return t.CreateAssociatedTokenAccount(ctx, t.client.Payer(), recipient, mint)
}

// CloseTokenAccount closes an empty token account owned by owner and sends
// its lamports to destination.
func (t *Token) CloseTokenAccount(ctx context.Context, owner solana.PrivateKey, account, destination solana.PublicKey) (txctx.TxCtx[struct{}], error) {
	instructions, err := CloseAccountInstructions(account, destination, owner.PublicKey())
	if err != nil {
		return txctx.TxCtx[struct{}]{}, err
	}
	return t.process(ctx, instructions, owner)
}

func (t *Token) process(ctx context.Context, instructions []solana.Instruction, signers ...solana.PrivateKey) (txctx.TxCtx[struct{}], error) {
	tx, err := t.client.SignAndProcess(ctx, instructions, signers...)
	if err != nil {
		return txctx.TxCtx[struct{}]{}, err
	}
	return txctx.MustNew(struct{}{}, tx.Signatures), nil
}
