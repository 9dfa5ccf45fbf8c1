package cmd

import (
	"github.com/spf13/cobra"

	"github.com/solanashuffle/splclient/logger"
)

func WatchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "watch <address>",
		Short: "Print signatures of new successful transactions touching an address",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			address, err := parsePublicKey("address", args[0])
			if err != nil {
				return err
			}

			ctx, stop := notifyContext(cmd.Context())
			defer stop()

			m, err := client.NewMonitor(ctx, address)
			if err != nil {
				return err
			}
			logger.Logger.Info().Str("address", address.String()).Msg("Watching")

			for sig := range m.C {
				if err := printJSON(cmd, map[string]any{"signature": sig}); err != nil {
					return err
				}
			}
			return nil
		},
	}
}
