package cmd

import (
	"encoding/json"

	"github.com/spf13/cobra"
)

func CreateMintCmd() *cobra.Command {
	var (
		decimals uint8
		owner    string
	)

	createMintCmd := &cobra.Command{
		Use:   "create-mint",
		Short: "Create a token mint, with the payer as mint authority by default",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			authority := client.PayerPublicKey()
			if owner != "" {
				var err error
				if authority, err = parsePublicKey("owner", owner); err != nil {
					return err
				}
			}

			mint, err := token.CreateMint(cmd.Context(), authority, decimals)
			if err != nil {
				return err
			}
			return printJSON(cmd, map[string]any{
				"mint":        mint.Inner().PublicKey(),
				"transaction": mint.TransactionID(),
			})
		},
	}

	createMintCmd.Flags().Uint8Var(&decimals, "decimals", 9, "mint decimals")
	createMintCmd.Flags().StringVar(&owner, "owner", "", "mint authority, the payer when empty")
	return createMintCmd
}

func CreateTokenAccountCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "create-token-account <mint> <owner>",
		Short: "Create a rent exempt token account at a fresh address",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			mint, err := parsePublicKey("mint", args[0])
			if err != nil {
				return err
			}
			owner, err := parsePublicKey("owner", args[1])
			if err != nil {
				return err
			}

			account, err := token.CreateTokenAccount(cmd.Context(), owner, mint)
			if err != nil {
				return err
			}
			return printJSON(cmd, map[string]any{
				"address":     account.Inner().PublicKey(),
				"transaction": account.TransactionID(),
			})
		},
	}
}

func AssociatedTokenAddressCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ata <mint> <wallet>",
		Short: "Print the associated token address of a wallet",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			mint, err := parsePublicKey("mint", args[0])
			if err != nil {
				return err
			}
			wallet, err := parsePublicKey("wallet", args[1])
			if err != nil {
				return err
			}

			address, err := token.GetAssociatedTokenAddress(wallet, mint)
			if err != nil {
				return err
			}
			return printJSON(cmd, map[string]any{"address": address})
		},
	}
}

func CreateAssociatedTokenAccountCmd() *cobra.Command {
	var funder string

	createATACmd := &cobra.Command{
		Use:   "create-ata <mint> <wallet>",
		Short: "Create the associated token account of a wallet",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			mint, err := parsePublicKey("mint", args[0])
			if err != nil {
				return err
			}
			wallet, err := parsePublicKey("wallet", args[1])
			if err != nil {
				return err
			}
			funderKey, err := parsePrivateKey("funder", funder)
			if err != nil {
				return err
			}

			account, err := token.CreateAssociatedTokenAccount(cmd.Context(), funderKey, wallet, mint)
			if err != nil {
				return err
			}
			return printJSON(cmd, account)
		},
	}

	createATACmd.Flags().StringVar(&funder, "funder", "", "base58 private key paying the rent, the payer when empty")
	return createATACmd
}

func MintToCmd() *cobra.Command {
	var (
		decimals uint8
		owner    string
	)

	mintToCmd := &cobra.Command{
		Use:   "mint-to <mint> <account> <amount>",
		Short: "Mint tokens into a token account",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			mint, err := parsePublicKey("mint", args[0])
			if err != nil {
				return err
			}
			account, err := parsePublicKey("account", args[1])
			if err != nil {
				return err
			}
			amount, err := parseUint("amount", args[2])
			if err != nil {
				return err
			}
			authority, err := parsePrivateKey("owner", owner)
			if err != nil {
				return err
			}

			minted, err := token.MintTo(cmd.Context(), authority, mint, account, amount, decimals)
			if err != nil {
				return err
			}
			return printJSON(cmd, minted)
		},
	}

	mintToCmd.Flags().Uint8Var(&decimals, "decimals", 9, "mint decimals")
	mintToCmd.Flags().StringVar(&owner, "owner", "", "base58 private key of the mint authority, the payer when empty")
	return mintToCmd
}

func TransferCmd() *cobra.Command {
	var (
		decimals  uint8
		authority string
	)

	transferCmd := &cobra.Command{
		Use:   "transfer <mint> <source> <destination> <amount>",
		Short: "Transfer tokens between token accounts",
		Args:  cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			mint, err := parsePublicKey("mint", args[0])
			if err != nil {
				return err
			}
			source, err := parsePublicKey("source", args[1])
			if err != nil {
				return err
			}
			destination, err := parsePublicKey("destination", args[2])
			if err != nil {
				return err
			}
			amount, err := parseUint("amount", args[3])
			if err != nil {
				return err
			}
			signer, err := parsePrivateKey("authority", authority)
			if err != nil {
				return err
			}

			transferred, err := token.TransferTo(cmd.Context(), signer, mint, source, destination, amount, decimals)
			if err != nil {
				return err
			}
			return printJSON(cmd, transferred)
		},
	}

	transferCmd.Flags().Uint8Var(&decimals, "decimals", 9, "mint decimals")
	transferCmd.Flags().StringVar(&authority, "authority", "", "base58 private key owning the source account, the payer when empty")
	return transferCmd
}

func CloseAccountCmd() *cobra.Command {
	var owner string

	closeCmd := &cobra.Command{
		Use:   "close <account> <destination>",
		Short: "Close an empty token account and reclaim its rent",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			account, err := parsePublicKey("account", args[0])
			if err != nil {
				return err
			}
			destination, err := parsePublicKey("destination", args[1])
			if err != nil {
				return err
			}
			signer, err := parsePrivateKey("owner", owner)
			if err != nil {
				return err
			}

			closed, err := token.CloseTokenAccount(cmd.Context(), signer, account, destination)
			if err != nil {
				return err
			}
			return printJSON(cmd, closed)
		},
	}

	closeCmd.Flags().StringVar(&owner, "owner", "", "base58 private key owning the account, the payer when empty")
	return closeCmd
}

func printJSON(cmd *cobra.Command, v any) error {
	encoder := json.NewEncoder(cmd.OutOrStdout())
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
