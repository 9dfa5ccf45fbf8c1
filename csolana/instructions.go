package csolana

import (
	"github.com/gagliardetto/solana-go"
	associatedtokenaccount "github.com/gagliardetto/solana-go/programs/associated-token-account"
	"github.com/gagliardetto/solana-go/programs/system"
)

// CreateAccountInstruction allocates space bytes owned by owner at newAccount,
// funded with lamports by funder. Both funder and newAccount must sign.
func CreateAccountInstruction(funder, newAccount, owner solana.PublicKey, space, lamports uint64) (solana.Instruction, error) {
	instruction, err := system.NewCreateAccountInstruction(
		lamports,
		space,
		owner,
		funder,
		newAccount,
	).ValidateAndBuild()
	if err != nil {
		return nil, ProgramError("create account instruction", err)
	}
	return instruction, nil
}

// CreateAssociatedTokenAccountInstruction creates the associated token
// account of wallet for mint, paid for by funder. It returns the derived
// address alongside the instruction.
func CreateAssociatedTokenAccountInstruction(funder, wallet, mint solana.PublicKey) (solana.Instruction, solana.PublicKey, error) {
	instruction, err := associatedtokenaccount.NewCreateInstruction(
		funder,
		wallet,
		mint,
	).ValidateAndBuild()
	if err != nil {
		return nil, solana.PublicKey{}, ProgramError("create associated token account instruction", err)
	}

	// Validate already derived it once, so this cannot fail here.
	address, _, err := solana.FindAssociatedTokenAddress(wallet, mint)
	if err != nil {
		return nil, solana.PublicKey{}, ProgramError("create associated token account instruction", err)
	}
	return instruction, address, nil
}
