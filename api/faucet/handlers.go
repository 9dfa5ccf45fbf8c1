package faucet

import (
	"encoding/json"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/solanashuffle/splclient/csolana"
)

const requestIDHeader = "X-Request-ID"

func SetFaucetGroup(group fiber.Router, f *Faucet) {
	group.Use(f.requestLogger)

	group.Get("/health", f.HandleHealthGET)
	group.Get("/ata/:mint/:wallet", f.HandleAssociatedTokenAddressGET)
	limit := f.rateLimiter()
	group.Post("/airdrop/:wallet", limit, f.HandleAirdropPOST)
	group.Post("/drip/:wallet", limit, f.HandleDripPOST)

	if f.stream != nil {
		group.Use("/stream", upgradeRequired)
		group.Get("/stream", websocket.New(f.stream.Serve))
	}
}

// rateLimiter counts per endpoint and wallet. Failed requests are not
// counted.
func (f *Faucet) rateLimiter() fiber.Handler {
	if f.config.RateLimit == 0 {
		return func(c *fiber.Ctx) error {
			return c.Next()
		}
	}

	return limiter.New(limiter.Config{
		Max:        f.config.RateLimit,
		Expiration: f.config.RateWindow,
		KeyGenerator: func(c *fiber.Ctx) string {
			return "faucet:" + c.Path()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return JSONError(c, fiber.StatusTooManyRequests, errors.Errorf("at most %d requests per %s", f.config.RateLimit, f.config.RateWindow))
		},
		SkipFailedRequests: true,
		Storage:            f.storage,
	})
}

func upgradeRequired(c *fiber.Ctx) error {
	if websocket.IsWebSocketUpgrade(c) {
		return c.Next()
	}
	return fiber.ErrUpgradeRequired
}

func (f *Faucet) requestLogger(c *fiber.Ctx) error {
	id := uuid.NewString()
	c.Set(requestIDHeader, id)

	log := f.log.With().Str("request_id", id).Logger()
	c.Locals("logger", &log)

	start := time.Now()
	err := c.Next()

	log.Info().
		Str("method", c.Method()).
		Str("path", c.Path()).
		Int("status", c.Response().StatusCode()).
		Dur("latency", time.Since(start)).
		Msg("request")
	return err
}

func requestLog(c *fiber.Ctx) *zerolog.Logger {
	if log, ok := c.Locals("logger").(*zerolog.Logger); ok {
		return log
	}
	nop := zerolog.Nop()
	return &nop
}

func (f *Faucet) HandleHealthGET(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"payer": f.client.PayerPublicKey(),
	})
}

func (f *Faucet) HandleAssociatedTokenAddressGET(c *fiber.Ctx) error {
	mint, err := solana.PublicKeyFromBase58(c.Params("mint"))
	if err != nil {
		return JSONError(c, fiber.StatusBadRequest, errors.Wrap(err, "mint"))
	}
	wallet, err := solana.PublicKeyFromBase58(c.Params("wallet"))
	if err != nil {
		return JSONError(c, fiber.StatusBadRequest, errors.Wrap(err, "wallet"))
	}

	address, err := f.token.GetAssociatedTokenAddress(wallet, mint)
	if err != nil {
		return ClientError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"address": address,
	})
}

type airdropRequest struct {
	Lamports uint64 `json:"lamports"`
}

func (f *Faucet) HandleAirdropPOST(c *fiber.Ctx) error {
	wallet, err := solana.PublicKeyFromBase58(c.Params("wallet"))
	if err != nil {
		return JSONError(c, fiber.StatusBadRequest, errors.Wrap(err, "wallet"))
	}

	var body airdropRequest
	if len(c.Body()) > 0 {
		if err := json.Unmarshal(c.Body(), &body); err != nil {
			return JSONError(c, fiber.StatusBadRequest, errors.Wrap(err, "body"))
		}
	}

	lamports := body.Lamports
	if lamports == 0 {
		lamports = f.config.MaxAirdropLamports
	}
	if lamports > f.config.MaxAirdropLamports {
		return JSONError(c, fiber.StatusBadRequest, errors.Errorf("at most %d lamports per airdrop", f.config.MaxAirdropLamports))
	}

	sig, err := f.client.Airdrop(c.UserContext(), wallet, lamports)
	if err != nil {
		requestLog(c).Warn().Err(err).Str("wallet", wallet.String()).Msg("airdrop failed")
		return ClientError(c, err)
	}

	requestLog(c).Info().
		Str("wallet", wallet.String()).
		Uint64("lamports", lamports).
		Str("signature", sig.String()).
		Msg("airdropped")
	f.publish(Event{Type: "airdrop", Wallet: wallet, Amount: lamports, Signature: sig})
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"signature": sig,
		"lamports":  lamports,
	})
}

func (f *Faucet) HandleDripPOST(c *fiber.Ctx) error {
	if f.config.Mint == nil {
		return JSONError(c, fiber.StatusNotFound, errors.New("no faucet mint configured"))
	}
	mint := *f.config.Mint

	wallet, err := solana.PublicKeyFromBase58(c.Params("wallet"))
	if err != nil {
		return JSONError(c, fiber.StatusBadRequest, errors.Wrap(err, "wallet"))
	}

	ctx := c.UserContext()

	mintAccount, err := f.client.GetMint(ctx, mint)
	if err != nil {
		return ClientError(c, err)
	}

	address, err := f.token.GetAssociatedTokenAddress(wallet, mint)
	if err != nil {
		return ClientError(c, err)
	}

	exists, err := f.client.AccountExists(ctx, address)
	if err != nil {
		return ClientError(c, err)
	}
	if !exists {
		if _, err := f.token.CreateAssociatedTokenAccountByPayer(ctx, wallet, mint); err != nil {
			requestLog(c).Warn().Err(err).Str("wallet", wallet.String()).Msg("create associated token account failed")
			return ClientError(c, err)
		}
	}

	minted, err := f.token.MintTo(ctx, f.client.Payer(), mint, address, f.config.DripAmount, mintAccount.Decimals)
	if err != nil {
		requestLog(c).Warn().Err(err).Str("wallet", wallet.String()).Msg("drip failed")
		return ClientError(c, err)
	}

	requestLog(c).Info().
		Str("wallet", wallet.String()).
		Str("account", address.String()).
		Uint64("amount", f.config.DripAmount).
		Msg("dripped")
	f.publish(Event{Type: "drip", Wallet: wallet, Amount: f.config.DripAmount, Signature: minted.TransactionID()})
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"address":     address,
		"created":     !exists,
		"transaction": minted,
	})
}

func JSONError(c *fiber.Ctx, status int, err error) error {
	return c.Status(status).JSON(fiber.Map{
		"message": err.Error(),
	})
}

// ClientError responds 502 for node failures and 500 for anything else.
func ClientError(c *fiber.Ctx, err error) error {
	if csolana.IsRPCError(err) {
		return JSONError(c, fiber.StatusBadGateway, err)
	}
	return JSONError(c, fiber.StatusInternalServerError, err)
}
