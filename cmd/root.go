// Package cmd is the splclient command line: one subcommand per client and
// token operation plus the faucet server.
package cmd

import (
	"context"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/solanashuffle/splclient/csolana"
	"github.com/solanashuffle/splclient/env"
	"github.com/solanashuffle/splclient/logger"
	"github.com/solanashuffle/splclient/spltoken"
)

var (
	envFile  string
	logLevel string
	timeout  time.Duration

	config *env.Config
	client *csolana.Client
	token  *spltoken.Token
)

func RootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "splclient",
		Short: "Solana RPC and SPL token client",
		Long: `Solana RPC and SPL token client.

The RPC endpoint and fee payer are read from the environment (RPC_URL,
PAYER_PRIVATE_KEY, COMMITMENT), after loading the file given by --env-file.`,
		SilenceUsage:      true,
		PersistentPreRunE: preRun,
		PersistentPostRun: func(*cobra.Command, []string) {
			if client != nil {
				_ = client.Close()
			}
		},
	}

	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file loaded before reading the environment")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level, overrides LOG_LEVEL")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 2*time.Minute, "deadline for each command, 0 for none")

	rootCmd.AddCommand(
		AirdropCmd(),
		BalanceCmd(),
		CreateAccountCmd(),
		CreateMintCmd(),
		CreateTokenAccountCmd(),
		AssociatedTokenAddressCmd(),
		CreateAssociatedTokenAccountCmd(),
		MintToCmd(),
		TransferCmd(),
		CloseAccountCmd(),
		WatchCmd(),
		ServeCmd(),
	)
	return rootCmd
}

func Execute() {
	if err := RootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func preRun(cmd *cobra.Command, _ []string) error {
	var err error
	config, err = env.Load(envFile)
	if err != nil {
		return err
	}

	level := config.LogLevel
	if logLevel != "" {
		level = logLevel
	}
	if err := logger.Setup(level); err != nil {
		return err
	}

	client, err = csolana.NewClient(csolana.ClientConfig{
		Endpoint:   config.RPCURL,
		Payer:      config.Payer,
		Commitment: config.Commitment,
	})
	if err != nil {
		return err
	}
	token = spltoken.New(client)

	if timeout > 0 && cmd.Name() != "serve" && cmd.Name() != "watch" {
		ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
		cobra.OnFinalize(cancel)
		cmd.SetContext(ctx)
	}
	return nil
}
