package solanatest

import (
	"fmt"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/programs/system"
	tokenprogram "github.com/gagliardetto/solana-go/programs/token"
	"github.com/pkg/errors"
)

// Custom program error codes, as returned by the system and token programs.
const (
	systemErrAccountAlreadyInUse   = 0
	systemErrResultWithNegLamports = 1

	tokenErrInsufficientFunds    = 0x1
	tokenErrInvalidMint          = 0x2
	tokenErrMintMismatch         = 0x3
	tokenErrOwnerMismatch        = 0x4
	tokenErrAlreadyInUse         = 0x6
	tokenErrUninitializedState   = 0x9
	tokenErrNonNativeHasBalance  = 0xb
	tokenErrOverflow             = 0xe
	tokenErrMintDecimalsMismatch = 0x12
)

var (
	errInvalidAccountData      = errors.New("invalid account data for instruction")
	errInvalidInstructionData  = errors.New("invalid instruction data")
	errMissingSignature        = errors.New("missing required signature for instruction")
	errNotEnoughAccountKeys    = errors.New("insufficient account keys for instruction")
	errInvalidSeeds            = errors.New("Provided seeds do not result in a valid address")
	errInsufficientFundsForFee = errors.New("Attempt to debit an account but found no record of a prior credit.")
)

// programError is an InstructionError carrying a custom program code.
type programError uint32

func (e programError) Error() string {
	return fmt.Sprintf("custom program error: 0x%x", uint32(e))
}

func tokenError(code uint32) error {
	return programError(code)
}

// instructionError wraps the failure of one instruction of a transaction.
type instructionError struct {
	Index int
	Err   error
}

func (e *instructionError) Error() string {
	return fmt.Sprintf("Error processing Instruction %d: %s", e.Index, e.Err)
}

// status renders the error the way getSignatureStatuses reports it.
func (e *instructionError) status() interface{} {
	var detail interface{} = "InvalidInstructionData"
	var custom programError
	if errors.As(e.Err, &custom) {
		detail = map[string]interface{}{"Custom": uint32(custom)}
	}
	return map[string]interface{}{
		"InstructionError": []interface{}{e.Index, detail},
	}
}

// execute runs every instruction of tx against state. state is left in an
// undefined condition on error and must be discarded.
func execute(state accounts, tx *solana.Transaction) error {
	for i, ci := range tx.Message.Instructions {
		programID, err := tx.Message.ResolveProgramIDIndex(ci.ProgramIDIndex)
		if err != nil {
			return &instructionError{Index: i, Err: err}
		}
		metas, err := ci.ResolveInstructionAccounts(&tx.Message)
		if err != nil {
			return &instructionError{Index: i, Err: err}
		}

		switch {
		case programID.Equals(solana.SystemProgramID):
			err = executeSystem(state, metas, ci.Data)
		case programID.Equals(solana.TokenProgramID):
			err = executeToken(state, metas, ci.Data)
		case programID.Equals(solana.SPLAssociatedTokenAccountProgramID):
			err = executeAssociatedTokenAccount(state, metas)
		default:
			err = errors.Errorf("unsupported program %s", programID)
		}
		if err != nil {
			return &instructionError{Index: i, Err: err}
		}
	}
	return nil
}

func executeSystem(state accounts, metas []*solana.AccountMeta, data []byte) error {
	decoded, err := system.DecodeInstruction(metas, data)
	if err != nil {
		return errInvalidInstructionData
	}

	switch inst := decoded.Impl.(type) {
	case *system.CreateAccount:
		if len(metas) < 2 {
			return errNotEnoughAccountKeys
		}
		return createAccount(state, metas[0], metas[1], *inst.Lamports, *inst.Space, *inst.Owner)
	case *system.Transfer:
		if len(metas) < 2 {
			return errNotEnoughAccountKeys
		}
		if !metas[0].IsSigner {
			return errMissingSignature
		}
		return transferLamports(state, metas[0].PublicKey, metas[1].PublicKey, *inst.Lamports)
	default:
		return errInvalidInstructionData
	}
}

func createAccount(state accounts, funding, newAccount *solana.AccountMeta, lamports, space uint64, owner solana.PublicKey) error {
	if !funding.IsSigner || !newAccount.IsSigner {
		return errMissingSignature
	}
	if _, exists := state.get(newAccount.PublicKey); exists {
		return programError(systemErrAccountAlreadyInUse)
	}
	if lamports < MinimumBalance(space) {
		return errors.Errorf("insufficient funds for rent: account %s", newAccount.PublicKey)
	}

	if err := transferLamports(state, funding.PublicKey, newAccount.PublicKey, lamports); err != nil {
		return err
	}
	created := state[newAccount.PublicKey]
	created.Owner = owner
	created.Data = make([]byte, space)
	return nil
}

func transferLamports(state accounts, from, to solana.PublicKey, lamports uint64) error {
	source, ok := state.get(from)
	if !ok || source.Lamports < lamports {
		return programError(systemErrResultWithNegLamports)
	}
	dest, ok := state[to]
	if !ok {
		dest = &account{Owner: solana.SystemProgramID}
		state[to] = dest
	}

	source.Lamports -= lamports
	dest.Lamports += lamports
	return nil
}

func executeToken(state accounts, metas []*solana.AccountMeta, data []byte) error {
	decoded, err := tokenprogram.DecodeInstruction(metas, data)
	if err != nil {
		return errInvalidInstructionData
	}

	switch inst := decoded.Impl.(type) {
	case *tokenprogram.InitializeMint:
		if len(metas) < 1 {
			return errNotEnoughAccountKeys
		}
		return initializeMint(state, metas[0].PublicKey, inst)
	case *tokenprogram.InitializeAccount:
		if len(metas) < 3 {
			return errNotEnoughAccountKeys
		}
		return initializeAccount(state, metas[0].PublicKey, metas[1].PublicKey, metas[2].PublicKey)
	case *tokenprogram.MintToChecked:
		if len(metas) < 3 {
			return errNotEnoughAccountKeys
		}
		return mintTo(state, metas[0].PublicKey, metas[1].PublicKey, metas[2], *inst.Amount, *inst.Decimals)
	case *tokenprogram.TransferChecked:
		if len(metas) < 4 {
			return errNotEnoughAccountKeys
		}
		return transferTokens(state, metas[0].PublicKey, metas[1].PublicKey, metas[2].PublicKey, metas[3], *inst.Amount, *inst.Decimals)
	case *tokenprogram.CloseAccount:
		if len(metas) < 3 {
			return errNotEnoughAccountKeys
		}
		return closeAccount(state, metas[0].PublicKey, metas[1].PublicKey, metas[2])
	default:
		return errInvalidInstructionData
	}
}

func initializeMint(state accounts, key solana.PublicKey, inst *tokenprogram.InitializeMint) error {
	acc, ok := state.get(key)
	if !ok || !acc.Owner.Equals(solana.TokenProgramID) || len(acc.Data) != tokenprogram.MINT_SIZE {
		return errInvalidAccountData
	}
	if _, err := state.mint(key); err == nil {
		return tokenError(tokenErrAlreadyInUse)
	}

	return state.putMint(key, &tokenprogram.Mint{
		MintAuthority:   inst.MintAuthority,
		Decimals:        *inst.Decimals,
		IsInitialized:   true,
		FreezeAuthority: inst.FreezeAuthority,
	})
}

func initializeAccount(state accounts, key, mintKey, owner solana.PublicKey) error {
	acc, ok := state.get(key)
	if !ok || !acc.Owner.Equals(solana.TokenProgramID) || len(acc.Data) != tokenAccountSize {
		return errInvalidAccountData
	}
	if _, err := state.tokenAccount(key); err == nil {
		return tokenError(tokenErrAlreadyInUse)
	}
	if _, err := state.mint(mintKey); err != nil {
		return tokenError(tokenErrInvalidMint)
	}

	return state.putTokenAccount(key, &tokenprogram.Account{
		Mint:  mintKey,
		Owner: owner,
		State: tokenprogram.Initialized,
	})
}

func mintTo(state accounts, mintKey, destKey solana.PublicKey, authority *solana.AccountMeta, amount uint64, decimals uint8) error {
	mint, err := state.mint(mintKey)
	if err != nil {
		return err
	}
	dest, err := state.tokenAccount(destKey)
	if err != nil {
		return err
	}
	if !dest.Mint.Equals(mintKey) {
		return tokenError(tokenErrMintMismatch)
	}
	if decimals != mint.Decimals {
		return tokenError(tokenErrMintDecimalsMismatch)
	}
	if mint.MintAuthority == nil || !mint.MintAuthority.Equals(authority.PublicKey) {
		return tokenError(tokenErrOwnerMismatch)
	}
	if !authority.IsSigner {
		return errMissingSignature
	}
	if mint.Supply+amount < mint.Supply || dest.Amount+amount < dest.Amount {
		return tokenError(tokenErrOverflow)
	}

	mint.Supply += amount
	dest.Amount += amount
	if err := state.putMint(mintKey, mint); err != nil {
		return err
	}
	return state.putTokenAccount(destKey, dest)
}

func transferTokens(state accounts, sourceKey, mintKey, destKey solana.PublicKey, owner *solana.AccountMeta, amount uint64, decimals uint8) error {
	source, err := state.tokenAccount(sourceKey)
	if err != nil {
		return err
	}
	dest, err := state.tokenAccount(destKey)
	if err != nil {
		return err
	}
	if !source.Mint.Equals(mintKey) || !dest.Mint.Equals(mintKey) {
		return tokenError(tokenErrMintMismatch)
	}
	mint, err := state.mint(mintKey)
	if err != nil {
		return err
	}
	if decimals != mint.Decimals {
		return tokenError(tokenErrMintDecimalsMismatch)
	}
	if !source.Owner.Equals(owner.PublicKey) {
		return tokenError(tokenErrOwnerMismatch)
	}
	if !owner.IsSigner {
		return errMissingSignature
	}
	if source.Amount < amount {
		return tokenError(tokenErrInsufficientFunds)
	}

	// Re-read so a self transfer nets out.
	source.Amount -= amount
	if err := state.putTokenAccount(sourceKey, source); err != nil {
		return err
	}
	if dest, err = state.tokenAccount(destKey); err != nil {
		return err
	}
	dest.Amount += amount
	return state.putTokenAccount(destKey, dest)
}

func closeAccount(state accounts, key, destKey solana.PublicKey, owner *solana.AccountMeta) error {
	tokenAccount, err := state.tokenAccount(key)
	if err != nil {
		return err
	}
	authority := tokenAccount.Owner
	if tokenAccount.CloseAuthority != nil {
		authority = *tokenAccount.CloseAuthority
	}
	if !authority.Equals(owner.PublicKey) {
		return tokenError(tokenErrOwnerMismatch)
	}
	if !owner.IsSigner {
		return errMissingSignature
	}
	if tokenAccount.Amount != 0 {
		return tokenError(tokenErrNonNativeHasBalance)
	}

	acc := state[key]
	dest, ok := state[destKey]
	if !ok {
		dest = &account{Owner: solana.SystemProgramID}
		state[destKey] = dest
	}
	dest.Lamports += acc.Lamports
	delete(state, key)
	return nil
}

func executeAssociatedTokenAccount(state accounts, metas []*solana.AccountMeta) error {
	if len(metas) < 4 {
		return errNotEnoughAccountKeys
	}
	payer, address, wallet, mintKey := metas[0], metas[1], metas[2].PublicKey, metas[3].PublicKey

	expected, _, err := solana.FindAssociatedTokenAddress(wallet, mintKey)
	if err != nil || !expected.Equals(address.PublicKey) {
		return errInvalidSeeds
	}
	if _, err := state.mint(mintKey); err != nil {
		return tokenError(tokenErrInvalidMint)
	}

	// The associated token account program signs for the derived address.
	derived := &solana.AccountMeta{PublicKey: address.PublicKey, IsSigner: true, IsWritable: true}
	if err := createAccount(state, payer, derived, MinimumBalance(tokenAccountSize), tokenAccountSize, solana.TokenProgramID); err != nil {
		return err
	}
	return initializeAccount(state, address.PublicKey, mintKey, wallet)
}
