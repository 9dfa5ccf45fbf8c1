package cmd

import (
	"strconv"

	"github.com/gagliardetto/solana-go"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/solanashuffle/splclient/logger"
)

func AirdropCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "airdrop <address> <lamports>",
		Short: "Request an airdrop and wait for it to confirm",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			to, err := parsePublicKey("address", args[0])
			if err != nil {
				return err
			}
			lamports, err := parseUint("lamports", args[1])
			if err != nil {
				return err
			}

			sig, err := client.Airdrop(cmd.Context(), to, lamports)
			if err != nil {
				return err
			}
			return printJSON(cmd, map[string]any{"signature": sig, "lamports": lamports})
		},
	}
}

func BalanceCmd() *cobra.Command {
	var tokenAccount bool

	balanceCmd := &cobra.Command{
		Use:   "balance [address]",
		Short: "Print the lamport or token balance of an account, the payer by default",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			address := client.PayerPublicKey()
			if len(args) == 1 {
				var err error
				if address, err = parsePublicKey("address", args[0]); err != nil {
					return err
				}
			}

			var (
				balance uint64
				err     error
			)
			if tokenAccount {
				balance, err = client.TokenBalance(cmd.Context(), address)
			} else {
				balance, err = client.Balance(cmd.Context(), address)
			}
			if err != nil {
				return err
			}
			return printJSON(cmd, map[string]any{"address": address, "balance": balance})
		},
	}

	balanceCmd.Flags().BoolVar(&tokenAccount, "token", false, "read a token account balance in base units")
	return balanceCmd
}

func CreateAccountCmd() *cobra.Command {
	var (
		space    uint64
		lamports uint64
	)

	createAccountCmd := &cobra.Command{
		Use:   "create-account <owner-program>",
		Short: "Create an account owned by a program, rent exempt unless --lamports is set",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			owner, err := parsePublicKey("owner-program", args[0])
			if err != nil {
				return err
			}

			var funding *uint64
			if cmd.Flags().Changed("lamports") {
				funding = &lamports
			}

			account, err := client.CreateAccount(cmd.Context(), owner, space, funding)
			if err != nil {
				return err
			}
			logger.Logger.Debug().Str("account", account.PublicKey().String()).Msg("keep the private key to sign for this account")
			return printJSON(cmd, map[string]any{
				"address":    account.PublicKey(),
				"privateKey": account.String(),
			})
		},
	}

	createAccountCmd.Flags().Uint64Var(&space, "space", 0, "account data length in bytes")
	createAccountCmd.Flags().Uint64Var(&lamports, "lamports", 0, "lamports to fund the account with")
	return createAccountCmd
}

func parsePublicKey(name, value string) (solana.PublicKey, error) {
	key, err := solana.PublicKeyFromBase58(value)
	if err != nil {
		return solana.PublicKey{}, errors.Wrapf(err, "invalid %s", name)
	}
	return key, nil
}

// parsePrivateKey falls back to the payer when value is empty.
func parsePrivateKey(name, value string) (solana.PrivateKey, error) {
	if value == "" {
		return client.Payer(), nil
	}
	key, err := solana.PrivateKeyFromBase58(value)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid %s", name)
	}
	return key, nil
}

func parseUint(name, value string) (uint64, error) {
	n, err := strconv.ParseUint(value, 10, 64)
	if err != nil {
		return 0, errors.Wrapf(err, "invalid %s", name)
	}
	return n, nil
}
