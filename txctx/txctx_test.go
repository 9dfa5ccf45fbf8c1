package txctx_test

import (
	"encoding/json"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/require"

	"github.com/solanashuffle/splclient/txctx"
)

func newSignature(t *testing.T, payload string) solana.Signature {
	t.Helper()

	key, err := solana.NewRandomPrivateKey()
	require.NoError(t, err)
	sig, err := key.Sign([]byte(payload))
	require.NoError(t, err)
	return sig
}

func TestNew_RejectsEmptySignatures(t *testing.T) {
	_, err := txctx.New(42, nil)
	require.ErrorIs(t, err, txctx.ErrNoSignatures)

	_, err = txctx.New("x", []solana.Signature{})
	require.ErrorIs(t, err, txctx.ErrNoSignatures)
}

func TestMustNew_PanicsOnEmptySignatures(t *testing.T) {
	require.PanicsWithError(t, txctx.ErrNoSignatures.Error(), func() {
		txctx.MustNew(struct{}{}, nil)
	})
}

func TestTransactionID_IsFirstSignature(t *testing.T) {
	for _, n := range []int{1, 2, 5} {
		sigs := make([]solana.Signature, n)
		for i := range sigs {
			sigs[i] = newSignature(t, string(rune('a'+i)))
		}

		ctx := txctx.MustNew("result", sigs)
		require.GreaterOrEqual(t, len(ctx.Signatures()), 1)
		require.Equal(t, sigs[0], ctx.TransactionID())
		require.Equal(t, ctx.Signatures()[0], ctx.TransactionID())
		require.Equal(t, sigs, ctx.Signatures())
		require.Equal(t, "result", ctx.Inner())
	}
}

func TestTxCtx_IsImmutable(t *testing.T) {
	first := newSignature(t, "first")
	sigs := []solana.Signature{first}

	ctx, err := txctx.New(7, sigs)
	require.NoError(t, err)

	sigs[0] = newSignature(t, "other")
	require.Equal(t, first, ctx.TransactionID())

	got := ctx.Signatures()
	got[0] = solana.Signature{}
	require.Equal(t, first, ctx.Signatures()[0])
}

func TestTxCtx_MarshalJSON(t *testing.T) {
	sig := newSignature(t, "payload")
	wallet := solana.NewWallet().PublicKey()

	out, err := json.Marshal(txctx.MustNew(wallet, []solana.Signature{sig}))
	require.NoError(t, err)

	var decoded struct {
		TransactionID string   `json:"transactionId"`
		Signatures    []string `json:"signatures"`
		Result        string   `json:"result"`
	}
	require.NoError(t, json.Unmarshal(out, &decoded))
	require.Equal(t, sig.String(), decoded.TransactionID)
	require.Equal(t, []string{sig.String()}, decoded.Signatures)
	require.Equal(t, wallet.String(), decoded.Result)

	_, err = json.Marshal(txctx.TxCtx[int]{})
	require.Error(t, err)
}
