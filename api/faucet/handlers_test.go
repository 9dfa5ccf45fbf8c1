package faucet_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"

	"github.com/solanashuffle/splclient/api"
	"github.com/solanashuffle/splclient/api/faucet"
	"github.com/solanashuffle/splclient/csolana"
	"github.com/solanashuffle/splclient/logger"
	"github.com/solanashuffle/splclient/solanatest"
	"github.com/solanashuffle/splclient/spltoken"
	"github.com/solanashuffle/splclient/stream"
)

const (
	dripAmount  = 500
	maxAirdrop  = 1_000
	mintDecimal = 3
)

type fixture struct {
	app    *fiber.App
	node   *solanatest.Node
	client *csolana.Client
	mint   solana.PublicKey
}

func newFixture(t *testing.T, withMint bool, opts ...faucet.FaucetOptionFn) fixture {
	return newFixtureWithConfig(t, withMint, faucet.Config{
		DripAmount:         dripAmount,
		MaxAirdropLamports: maxAirdrop,
	}, opts...)
}

func newFixtureWithConfig(t *testing.T, withMint bool, config faucet.Config, opts ...faucet.FaucetOptionFn) fixture {
	t.Helper()

	node := solanatest.NewNode(t)
	client, err := csolana.NewClient(csolana.ClientConfig{
		Endpoint:     node.URL(),
		Payer:        node.NewFundedKey(t, 10*solana.LAMPORTS_PER_SOL),
		PollInterval: time.Millisecond,
		Logger:       logger.Nop(),
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	var mint solana.PublicKey
	if withMint {
		created, err := spltoken.New(client).CreateMint(context.Background(), client.PayerPublicKey(), mintDecimal)
		require.NoError(t, err)
		mint = created.Inner().PublicKey()
		config.Mint = &mint
	}

	f, err := faucet.NewFaucet(config, client, append(opts, faucet.WithLogger(logger.Nop()))...)
	require.NoError(t, err)

	app := fiber.New()
	api.SetApiGroup(app.Group("/api"), f)

	return fixture{app: app, node: node, client: client, mint: mint}
}

func (fx fixture) do(t *testing.T, method, path string, body []byte) (int, map[string]any) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}

	resp, err := fx.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.NotEmpty(t, resp.Header.Get("X-Request-ID"))

	payload := map[string]any{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&payload))
	return resp.StatusCode, payload
}

func TestNewFaucet_Validate(t *testing.T) {
	mint := solana.NewWallet().PublicKey()

	_, err := faucet.NewFaucet(faucet.Config{Mint: &mint, MaxAirdropLamports: 1}, nil)
	require.Error(t, err)

	_, err = faucet.NewFaucet(faucet.Config{DripAmount: 1}, nil)
	require.Error(t, err)

	_, err = faucet.NewFaucet(faucet.Config{MaxAirdropLamports: 1, RateLimit: 1}, nil)
	require.Error(t, err)
}

func TestRateLimit(t *testing.T) {
	fx := newFixtureWithConfig(t, false, faucet.Config{
		MaxAirdropLamports: maxAirdrop,
		RateLimit:          2,
		RateWindow:         time.Hour,
	})
	wallet := solana.NewWallet().PublicKey().String()

	status, _ := fx.do(t, http.MethodPost, "/api/airdrop/"+wallet, []byte(`{"lamports":5000}`))
	require.Equal(t, fiber.StatusBadRequest, status)

	for i := 0; i < 2; i++ {
		status, _ = fx.do(t, http.MethodPost, "/api/airdrop/"+wallet, nil)
		require.Equal(t, fiber.StatusOK, status)
	}

	status, body := fx.do(t, http.MethodPost, "/api/airdrop/"+wallet, nil)
	require.Equal(t, fiber.StatusTooManyRequests, status)
	require.Contains(t, body["message"], "at most 2 requests")

	other := solana.NewWallet().PublicKey().String()
	status, _ = fx.do(t, http.MethodPost, "/api/airdrop/"+other, nil)
	require.Equal(t, fiber.StatusOK, status)
	require.Equal(t, 3, fx.node.Requests("requestAirdrop"))
}

func TestHealth(t *testing.T) {
	fx := newFixture(t, false)

	status, body := fx.do(t, http.MethodGet, "/api/health", nil)
	require.Equal(t, fiber.StatusOK, status)
	require.Equal(t, fx.client.PayerPublicKey().String(), body["payer"])
}

func TestAssociatedTokenAddress(t *testing.T) {
	fx := newFixture(t, false)
	wallet := solana.NewWallet().PublicKey()
	mint := solana.NewWallet().PublicKey()

	expected, _, err := solana.FindAssociatedTokenAddress(wallet, mint)
	require.NoError(t, err)

	status, body := fx.do(t, http.MethodGet, "/api/ata/"+mint.String()+"/"+wallet.String(), nil)
	require.Equal(t, fiber.StatusOK, status)
	require.Equal(t, expected.String(), body["address"])

	status, _ = fx.do(t, http.MethodGet, "/api/ata/not-a-key/"+wallet.String(), nil)
	require.Equal(t, fiber.StatusBadRequest, status)
}

func TestAirdrop(t *testing.T) {
	fx := newFixture(t, false)
	wallet := solana.NewWallet().PublicKey()

	status, body := fx.do(t, http.MethodPost, "/api/airdrop/"+wallet.String(), nil)
	require.Equal(t, fiber.StatusOK, status)
	require.EqualValues(t, maxAirdrop, body["lamports"])
	require.Equal(t, uint64(maxAirdrop), fx.node.Balance(wallet))

	status, _ = fx.do(t, http.MethodPost, "/api/airdrop/"+wallet.String(), []byte(`{"lamports":250}`))
	require.Equal(t, fiber.StatusOK, status)
	require.Equal(t, uint64(maxAirdrop+250), fx.node.Balance(wallet))

	status, body = fx.do(t, http.MethodPost, "/api/airdrop/"+wallet.String(), []byte(`{"lamports":1001}`))
	require.Equal(t, fiber.StatusBadRequest, status)
	require.Contains(t, body["message"], "at most")

	status, _ = fx.do(t, http.MethodPost, "/api/airdrop/nope", nil)
	require.Equal(t, fiber.StatusBadRequest, status)

	fx.node.Fail("requestAirdrop", "airdrops disabled")
	status, body = fx.do(t, http.MethodPost, "/api/airdrop/"+wallet.String(), nil)
	require.Equal(t, fiber.StatusBadGateway, status)
	require.Contains(t, body["message"], "airdrops disabled")
}

func TestDrip(t *testing.T) {
	fx := newFixture(t, true)
	wallet := solana.NewWallet().PublicKey()

	status, body := fx.do(t, http.MethodPost, "/api/drip/"+wallet.String(), nil)
	require.Equal(t, fiber.StatusOK, status)
	require.Equal(t, true, body["created"])

	address, err := fx.client.GetAssociatedTokenAddress(wallet, fx.mint)
	require.NoError(t, err)
	require.Equal(t, address.String(), body["address"])
	require.Equal(t, uint64(dripAmount), fx.node.TokenAmount(address))

	transaction, ok := body["transaction"].(map[string]any)
	require.True(t, ok)
	require.NotEmpty(t, transaction["transactionId"])

	status, body = fx.do(t, http.MethodPost, "/api/drip/"+wallet.String(), nil)
	require.Equal(t, fiber.StatusOK, status)
	require.Equal(t, false, body["created"])
	require.Equal(t, uint64(2*dripAmount), fx.node.TokenAmount(address))
}

func TestDrip_Disabled(t *testing.T) {
	fx := newFixture(t, false)

	status, _ := fx.do(t, http.MethodPost, "/api/drip/"+solana.NewWallet().PublicKey().String(), nil)
	require.Equal(t, fiber.StatusNotFound, status)
}

func TestEvents(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	events := stream.New()
	go events.Start(ctx)
	sub := events.Subscribe()
	time.Sleep(20 * time.Millisecond)

	fx := newFixture(t, true, faucet.WithStream(events))
	wallet := solana.NewWallet().PublicKey()

	status, _ := fx.do(t, http.MethodPost, "/api/airdrop/"+wallet.String(), []byte(`{"lamports":10}`))
	require.Equal(t, fiber.StatusOK, status)
	status, _ = fx.do(t, http.MethodPost, "/api/drip/"+wallet.String(), nil)
	require.Equal(t, fiber.StatusOK, status)

	for _, expected := range []faucet.Event{
		{Type: "airdrop", Wallet: wallet, Amount: 10},
		{Type: "drip", Wallet: wallet, Amount: dripAmount},
	} {
		select {
		case msg := <-sub:
			var event faucet.Event
			require.NoError(t, json.Unmarshal(msg, &event))
			require.Equal(t, expected.Type, event.Type)
			require.Equal(t, expected.Wallet, event.Wallet)
			require.Equal(t, expected.Amount, event.Amount)
			require.False(t, event.Signature.IsZero())
		case <-time.After(time.Second):
			t.Fatal("no event published")
		}
	}

	resp, err := fx.app.Test(httptest.NewRequest(http.MethodGet, "/api/stream", nil), -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusUpgradeRequired, resp.StatusCode)
}
