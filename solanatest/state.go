package solanatest

import (
	"bytes"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
	tokenprogram "github.com/gagliardetto/solana-go/programs/token"
)

const (
	// LamportsPerSignature is the fee charged to the fee payer per signature.
	LamportsPerSignature = 5000

	tokenAccountSize = 165

	accountStorageOverhead = 128
	lamportsPerByteYear    = 3480
	exemptionThreshold     = 2
)

// MinimumBalance is the rent exempt minimum for an account holding dataLen bytes.
func MinimumBalance(dataLen uint64) uint64 {
	return (accountStorageOverhead + dataLen) * lamportsPerByteYear * exemptionThreshold
}

type account struct {
	Lamports uint64
	Owner    solana.PublicKey
	Data     []byte
}

func (a *account) clone() *account {
	return &account{
		Lamports: a.Lamports,
		Owner:    a.Owner,
		Data:     append([]byte(nil), a.Data...),
	}
}

type accounts map[solana.PublicKey]*account

func (s accounts) clone() accounts {
	out := make(accounts, len(s))
	for k, v := range s {
		out[k] = v.clone()
	}
	return out
}

func (s accounts) get(key solana.PublicKey) (*account, bool) {
	acc, ok := s[key]
	if !ok || acc.Lamports == 0 && len(acc.Data) == 0 {
		return nil, false
	}
	return acc, true
}

func (s accounts) mint(key solana.PublicKey) (*tokenprogram.Mint, error) {
	acc, ok := s.get(key)
	if !ok || !acc.Owner.Equals(solana.TokenProgramID) || len(acc.Data) != tokenprogram.MINT_SIZE {
		return nil, errInvalidAccountData
	}

	var mint tokenprogram.Mint
	if err := bin.NewBinDecoder(acc.Data).Decode(&mint); err != nil {
		return nil, errInvalidAccountData
	}
	if !mint.IsInitialized {
		return nil, tokenError(tokenErrUninitializedState)
	}
	return &mint, nil
}

func (s accounts) tokenAccount(key solana.PublicKey) (*tokenprogram.Account, error) {
	acc, ok := s.get(key)
	if !ok || !acc.Owner.Equals(solana.TokenProgramID) || len(acc.Data) != tokenAccountSize {
		return nil, errInvalidAccountData
	}

	var out tokenprogram.Account
	if err := bin.NewBinDecoder(acc.Data).Decode(&out); err != nil {
		return nil, errInvalidAccountData
	}
	if out.State == tokenprogram.Uninitialized {
		return nil, tokenError(tokenErrUninitializedState)
	}
	return &out, nil
}

func (s accounts) putMint(key solana.PublicKey, mint *tokenprogram.Mint) error {
	return s.encode(key, mint)
}

func (s accounts) putTokenAccount(key solana.PublicKey, tokenAccount *tokenprogram.Account) error {
	return s.encode(key, tokenAccount)
}

func (s accounts) encode(key solana.PublicKey, v interface{}) error {
	acc, ok := s.get(key)
	if !ok {
		return errInvalidAccountData
	}

	buf := new(bytes.Buffer)
	if err := bin.NewBinEncoder(buf).Encode(v); err != nil {
		return err
	}
	if buf.Len() != len(acc.Data) {
		return errInvalidAccountData
	}
	acc.Data = buf.Bytes()
	return nil
}
