// Package txctx pairs the result of an onchain operation with the signatures
// of the transaction that produced it.
package txctx

import (
	"encoding/json"

	"github.com/gagliardetto/solana-go"
	"github.com/pkg/errors"
)

var ErrNoSignatures = errors.New("transaction requires at least one signature")

// TxCtx holds an operation result together with the ordered signatures of
// the submitted transaction. A TxCtx built through New or MustNew always
// carries at least one signature.
type TxCtx[T any] struct {
	inner      T
	signatures []solana.Signature
}

// New returns ErrNoSignatures when signatures is empty.
func New[T any](inner T, signatures []solana.Signature) (TxCtx[T], error) {
	if len(signatures) == 0 {
		return TxCtx[T]{}, ErrNoSignatures
	}

	sigs := make([]solana.Signature, len(signatures))
	copy(sigs, signatures)

	return TxCtx[T]{
		inner:      inner,
		signatures: sigs,
	}, nil
}

// MustNew is like New but panics on an empty signature list. A transaction
// that reached the node always has at least the fee payer signature, so an
// empty list here is a bug in the caller.
func MustNew[T any](inner T, signatures []solana.Signature) TxCtx[T] {
	ctx, err := New(inner, signatures)
	if err != nil {
		panic(err)
	}
	return ctx
}

// Inner returns the operation result.
func (c TxCtx[T]) Inner() T {
	return c.inner
}

// TransactionID returns the first signature, which identifies the
// transaction onchain.
func (c TxCtx[T]) TransactionID() solana.Signature {
	return c.signatures[0]
}

func (c TxCtx[T]) Signatures() []solana.Signature {
	sigs := make([]solana.Signature, len(c.signatures))
	copy(sigs, c.signatures)
	return sigs
}

func (c TxCtx[T]) MarshalJSON() ([]byte, error) {
	if len(c.signatures) == 0 {
		return nil, ErrNoSignatures
	}

	return json.Marshal(struct {
		TransactionID solana.Signature   `json:"transactionId"`
		Signatures    []solana.Signature `json:"signatures"`
		Result        T                  `json:"result"`
	}{
		TransactionID: c.TransactionID(),
		Signatures:    c.signatures,
		Result:        c.inner,
	})
}
