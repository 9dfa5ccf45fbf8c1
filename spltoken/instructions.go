package spltoken

import (
	"github.com/gagliardetto/solana-go"
	tokenprogram "github.com/gagliardetto/solana-go/programs/token"

	"github.com/solanashuffle/splclient/csolana"
)

// CreateMintInstructions allocates a mint account funded by payer and
// initializes it with owner as mint authority and no freeze authority.
// payer and mint must sign.
func CreateMintInstructions(payer, mint, owner solana.PublicKey, decimals uint8, lamports uint64) ([]solana.Instruction, error) {
	createAccount, err := csolana.CreateAccountInstruction(
		payer,
		mint,
		solana.TokenProgramID,
		csolana.MintSize,
		lamports,
	)
	if err != nil {
		return nil, err
	}

	initializeMint, err := tokenprogram.NewInitializeMintInstructionBuilder().
		SetDecimals(decimals).
		SetMintAuthority(owner).
		SetMintAccount(mint).
		ValidateAndBuild()
	if err != nil {
		return nil, csolana.ProgramError("initialize mint instruction", err)
	}

	return []solana.Instruction{createAccount, initializeMint}, nil
}

// CreateTokenAccountInstructions allocates a token account funded by payer
// and initializes it for mint and owner. payer and account must sign.
func CreateTokenAccountInstructions(payer, account, owner, mint solana.PublicKey, lamports uint64) ([]solana.Instruction, error) {
	createAccount, err := csolana.CreateAccountInstruction(
		payer,
		account,
		solana.TokenProgramID,
		csolana.TokenAccountSize,
		lamports,
	)
	if err != nil {
		return nil, err
	}

	initializeAccount, err := tokenprogram.NewInitializeAccountInstruction(
		account,
		mint,
		owner,
		solana.SysVarRentPubkey,
	).ValidateAndBuild()
	if err != nil {
		return nil, csolana.ProgramError("initialize account instruction", err)
	}

	return []solana.Instruction{createAccount, initializeAccount}, nil
}

// MintToInstructions mints amount to account. owner is the mint authority
// and must sign.
func MintToInstructions(mint, account, owner solana.PublicKey, amount uint64, decimals uint8) ([]solana.Instruction, error) {
	instruction, err := tokenprogram.NewMintToCheckedInstruction(
		amount,
		decimals,
		mint,
		account,
		owner,
		[]solana.PublicKey{},
	).ValidateAndBuild()
	if err != nil {
		return nil, csolana.ProgramError("mint to instruction", err)
	}
	return []solana.Instruction{instruction}, nil
}

// TransferInstructions moves amount from source to destination. authority
// owns source and must sign.
func TransferInstructions(source, mint, destination, authority solana.PublicKey, amount uint64, decimals uint8) ([]solana.Instruction, error) {
	instruction, err := tokenprogram.NewTransferCheckedInstruction(
		amount,
		decimals,
		source,
		mint,
		destination,
		authority,
		[]solana.PublicKey{},
	).ValidateAndBuild()
	if err != nil {
		return nil, csolana.ProgramError("transfer instruction", err)
	}
	return []solana.Instruction{instruction}, nil
}

// CloseAccountInstructions closes an empty token account and sends its
// lamports to destination. owner must sign.
func CloseAccountInstructions(account, destination, owner solana.PublicKey) ([]solana.Instruction, error) {
	instruction, err := tokenprogram.NewCloseAccountInstruction(
		account,
		destination,
		owner,
		[]solana.PublicKey{},
	).ValidateAndBuild()
	if err != nil {
		return nil, csolana.ProgramError("close account instruction", err)
	}
	return []solana.Instruction{instruction}, nil
}

// CreateAssociatedTokenAccountInstructions creates the associated token
// account of wallet for mint paid by funder, and returns its address.
func CreateAssociatedTokenAccountInstructions(funder, wallet, mint solana.PublicKey) ([]solana.Instruction, solana.PublicKey, error) {
	instruction, address, err := csolana.CreateAssociatedTokenAccountInstruction(funder, wallet, mint)
	if err != nil {
		return nil, solana.PublicKey{}, err
	}
	return []solana.Instruction{instruction}, address, nil
}
