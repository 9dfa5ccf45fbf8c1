package csolana

import (
	"github.com/gagliardetto/solana-go"
	tokenprogram "github.com/gagliardetto/solana-go/programs/token"
)

const (
	// MintSize is the data length of an SPL token mint.
	MintSize = tokenprogram.MINT_SIZE
	// TokenAccountSize is the data length of an SPL token account.
	TokenAccountSize = 165

	LamportsPerSOL = solana.LAMPORTS_PER_SOL
)

var (
	SystemProgramID                 = solana.SystemProgramID
	TokenProgramID                  = solana.TokenProgramID
	AssociatedTokenAccountProgramID = solana.SPLAssociatedTokenAccountProgramID
)
