package csolana

import (
	"context"
	"strconv"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
	tokenprogram "github.com/gagliardetto/solana-go/programs/token"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/pkg/errors"
)

func (c *Client) MinimumBalanceForRentExemption(ctx context.Context, dataLen uint64) (uint64, error) {
	lamports, err := c.rpcClient.GetMinimumBalanceForRentExemption(ctx, dataLen, c.commitment)
	if err != nil {
		return 0, RPCError("minimum balance for rent exemption", err)
	}
	return lamports, nil
}

// Balance returns the lamports held by account.
func (c *Client) Balance(ctx context.Context, account solana.PublicKey) (uint64, error) {
	resp, err := c.rpcClient.GetBalance(ctx, account, c.commitment)
	if err != nil {
		return 0, RPCError("balance", err)
	}
	return resp.Value, nil
}

// TokenBalance returns the raw token amount held by a token account.
func (c *Client) TokenBalance(ctx context.Context, account solana.PublicKey) (uint64, error) {
	resp, err := c.rpcClient.GetTokenAccountBalance(ctx, account, c.commitment)
	if err != nil {
		return 0, RPCError("token balance", err)
	}
	if resp.Value == nil {
		return 0, RPCError("token balance", errors.New("empty token amount"))
	}

	amount, err := strconv.ParseUint(resp.Value.Amount, 10, 64)
	if err != nil {
		return 0, RPCError("token balance", errors.Wrapf(err, "parse amount %q", resp.Value.Amount))
	}
	return amount, nil
}

// AccountExists reports whether account holds any lamports.
func (c *Client) AccountExists(ctx context.Context, account solana.PublicKey) (bool, error) {
	_, err := c.accountInfo(ctx, account)
	if errors.Is(err, rpc.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, RPCError("account exists", err)
	}
	return true, nil
}

func (c *Client) GetMint(ctx context.Context, mint solana.PublicKey) (*tokenprogram.Mint, error) {
	var out tokenprogram.Mint
	if err := c.decodeTokenAccount(ctx, "get mint", mint, tokenprogram.MINT_SIZE, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetTokenAccount(ctx context.Context, account solana.PublicKey) (*tokenprogram.Account, error) {
	var out tokenprogram.Account
	if err := c.decodeTokenAccount(ctx, "get token account", account, TokenAccountSize, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) accountInfo(ctx context.Context, account solana.PublicKey) (*rpc.Account, error) {
	resp, err := c.rpcClient.GetAccountInfoWithOpts(ctx, account, &rpc.GetAccountInfoOpts{
		Encoding:   solana.EncodingBase64,
		Commitment: c.commitment,
	})
	if err != nil {
		return nil, err
	}
	if resp == nil || resp.Value == nil {
		return nil, rpc.ErrNotFound
	}
	return resp.Value, nil
}

func (c *Client) decodeTokenAccount(ctx context.Context, op string, account solana.PublicKey, size int, out interface{}) error {
	info, err := c.accountInfo(ctx, account)
	if err != nil {
		return RPCError(op, errors.Wrapf(err, "account %s", account))
	}
	if !info.Owner.Equals(TokenProgramID) {
		return ProgramError(op, errors.Errorf("account %s is owned by %s", account, info.Owner))
	}

	var data []byte
	if info.Data != nil {
		data = info.Data.GetBinary()
	}
	if len(data) != size {
		return ProgramError(op, errors.Errorf("account %s has %d bytes of data, expected %d", account, len(data), size))
	}

	if err := bin.NewBinDecoder(data).Decode(out); err != nil {
		return ProgramError(op, errors.Wrapf(err, "decode account %s", account))
	}
	return nil
}
