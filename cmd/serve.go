package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/storage/redis"
	"github.com/spf13/cobra"

	"github.com/solanashuffle/splclient/api"
	"github.com/solanashuffle/splclient/api/faucet"
	"github.com/solanashuffle/splclient/logger"
	"github.com/solanashuffle/splclient/stream"
)

func ServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the faucet HTTP server",
		Long: `Start the faucet HTTP server.

Airdrops SOL on POST /api/airdrop/:wallet and, when FAUCET_MINT is set,
mints FAUCET_DRIP_AMOUNT tokens to the wallet's associated token account on
POST /api/drip/:wallet. The payer must be the mint authority. Faucet events
are streamed on the /api/stream websocket. Requests per wallet are limited
by FAUCET_RATE_LIMIT and FAUCET_RATE_WINDOW, counted in redis when REDIS_HOST
is set.`,
		Example: `LISTEN_ADDRESS=:4343 \
RPC_URL=http://127.0.0.1:8899 \
PAYER_PRIVATE_KEY=<base58> \
FAUCET_MINT=<mint> \
splclient serve`,
		Args: cobra.NoArgs,
		RunE: runServe,
	}
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, stop := notifyContext(cmd.Context())
	defer stop()

	events := stream.New()
	go events.Start(ctx)

	opts := []faucet.FaucetOptionFn{faucet.WithStream(events)}
	if config.RedisHost != "" {
		// redis.New panics when the server is unreachable.
		storage := redis.New(redis.Config{
			Host:     config.RedisHost,
			Port:     config.RedisPort,
			Password: config.RedisPassword,
			Database: config.RedisDatabase,
			Reset:    false,
		})
		defer storage.Close()

		opts = append(opts, faucet.WithStorage(storage))
	}

	f, err := faucet.NewFaucet(faucet.Config{
		Mint:               config.FaucetMint,
		DripAmount:         config.DripAmount,
		MaxAirdropLamports: config.MaxAirdropLamports,
		RateLimit:          config.RateLimit,
		RateWindow:         config.RateWindow,
	}, client, opts...)
	if err != nil {
		return err
	}

	app := fiber.New(fiber.Config{
		ReadTimeout:           time.Second * 5,
		WriteTimeout:          time.Minute,
		IdleTimeout:           time.Second * 5,
		DisableStartupMessage: true,
	})
	app.Use(cors.New())

	apiGroup := app.Group("/api")
	api.SetApiGroup(apiGroup, f)

	go func() {
		<-ctx.Done()
		logger.Logger.Info().Msg("Shutting down...")
		_ = app.ShutdownWithContext(context.Background())
	}()

	event := logger.Logger.Info().Str("payer", client.PayerPublicKey().String())
	if config.FaucetMint != nil {
		event = event.Str("mint", config.FaucetMint.String())
	}
	event.Msgf("Listening on %s", config.ListenAddress)

	return app.Listen(config.ListenAddress)
}

// notifyContext is cancelled on SIGINT or SIGTERM.
func notifyContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
}
