package solanatest

import (
	"encoding/base64"
	"encoding/json"
	"math"
	"strconv"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/pkg/errors"
)

func (n *Node) getLatestBlockhash() (interface{}, *rpcError) {
	hash := n.newBlockhash()
	return rpc.GetLatestBlockhashResult{
		RPCContext: n.context(),
		Value: &rpc.LatestBlockhashResult{
			Blockhash:            hash,
			LastValidBlockHeight: n.slot + lastValidBlockHeightOffset,
		},
	}, nil
}

func (n *Node) isBlockhashValid(params []json.RawMessage) (interface{}, *rpcError) {
	var hash solana.Hash
	if err := param(params, 0, &hash); err != nil {
		return nil, err
	}
	return rpc.IsValidBlockhashResult{
		RPCContext: n.context(),
		Value:      n.blockhashes[hash],
	}, nil
}

func (n *Node) getMinimumBalanceForRentExemption(params []json.RawMessage) (interface{}, *rpcError) {
	var dataLen uint64
	if err := param(params, 0, &dataLen); err != nil {
		return nil, err
	}
	return MinimumBalance(dataLen), nil
}

type sendOptions struct {
	Encoding      string `json:"encoding"`
	SkipPreflight bool   `json:"skipPreflight"`
}

func (n *Node) sendTransaction(params []json.RawMessage) (interface{}, *rpcError) {
	var encoded string
	if err := param(params, 0, &encoded); err != nil {
		return nil, err
	}
	var opts sendOptions
	if len(params) > 1 {
		if err := param(params, 1, &opts); err != nil {
			return nil, err
		}
	}
	if opts.Encoding != "" && opts.Encoding != string(solana.EncodingBase64) {
		return nil, &rpcError{Code: codeInvalidParams, Message: "unsupported encoding: " + opts.Encoding}
	}

	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, &rpcError{Code: codeInvalidParams, Message: "invalid base64 encoding: " + err.Error()}
	}
	tx, err := solana.TransactionFromBytes(data)
	if err != nil {
		return nil, &rpcError{Code: codeInvalidParams, Message: "failed to deserialize transaction: " + err.Error()}
	}
	if len(tx.Signatures) == 0 {
		return nil, &rpcError{Code: codeSignatureVerification, Message: "Transaction signature verification failure"}
	}
	if err := tx.VerifySignatures(); err != nil {
		return nil, &rpcError{Code: codeSignatureVerification, Message: "Transaction signature verification failure"}
	}

	sig := tx.Signatures[0]
	if _, seen := n.statuses[sig]; seen {
		return nil, simulationFailed(errors.New("This transaction has already been processed"))
	}
	if n.stalled {
		return sig, nil
	}
	if !n.blockhashes[tx.Message.RecentBlockhash] {
		return nil, simulationFailed(errors.New("Blockhash not found"))
	}

	next := n.state.clone()
	fee := uint64(len(tx.Signatures)) * LamportsPerSignature
	payer, ok := next.get(tx.Message.AccountKeys[0])
	if !ok || payer.Lamports < fee {
		return nil, simulationFailed(errInsufficientFundsForFee)
	}
	payer.Lamports -= fee

	if err := execute(next, tx); err != nil {
		if !opts.SkipPreflight {
			return nil, simulationFailed(err)
		}

		// A failed transaction still lands and pays its fee.
		charged := n.state.clone()
		charged[tx.Message.AccountKeys[0]].Lamports -= fee
		n.state = charged
		n.transactions[sig] = tx

		var status interface{} = err.Error()
		if instErr, ok := err.(*instructionError); ok {
			status = instErr.status()
		}
		n.land(sig, tx.Message.AccountKeys, status)
		return sig, nil
	}

	n.state = next
	n.transactions[sig] = tx
	n.land(sig, tx.Message.AccountKeys, nil)
	return sig, nil
}

func simulationFailed(err error) *rpcError {
	return &rpcError{
		Code:    codeSendTransactionFailed,
		Message: "Transaction simulation failed: " + err.Error(),
	}
}

func (n *Node) getSignatureStatuses(params []json.RawMessage) (interface{}, *rpcError) {
	var sigs []solana.Signature
	if err := param(params, 0, &sigs); err != nil {
		return nil, err
	}

	out := rpc.GetSignatureStatusesResult{
		RPCContext: n.context(),
		Value:      make([]*rpc.SignatureStatusesResult, len(sigs)),
	}
	for i, sig := range sigs {
		out.Value[i] = n.statuses[sig]
	}
	return out, nil
}

func (n *Node) requestAirdrop(params []json.RawMessage) (interface{}, *rpcError) {
	var to solana.PublicKey
	if err := param(params, 0, &to); err != nil {
		return nil, err
	}
	var lamports uint64
	if err := param(params, 1, &lamports); err != nil {
		return nil, err
	}

	sig := n.newSignature()
	if n.stalled {
		return sig, nil
	}

	n.credit(to, lamports)
	n.land(sig, []solana.PublicKey{to}, nil)
	return sig, nil
}

func (n *Node) getBalance(params []json.RawMessage) (interface{}, *rpcError) {
	var key solana.PublicKey
	if err := param(params, 0, &key); err != nil {
		return nil, err
	}

	var lamports uint64
	if acc, ok := n.state.get(key); ok {
		lamports = acc.Lamports
	}
	return rpc.GetBalanceResult{
		RPCContext: n.context(),
		Value:      lamports,
	}, nil
}

func (n *Node) getTokenAccountBalance(params []json.RawMessage) (interface{}, *rpcError) {
	var key solana.PublicKey
	if err := param(params, 0, &key); err != nil {
		return nil, err
	}

	tokenAccount, err := n.state.tokenAccount(key)
	if err != nil {
		return nil, &rpcError{Code: codeInvalidParams, Message: "Invalid param: not a Token account"}
	}
	mint, err := n.state.mint(tokenAccount.Mint)
	if err != nil {
		return nil, &rpcError{Code: codeInvalidParams, Message: "Invalid param: could not find mint"}
	}

	uiAmount := float64(tokenAccount.Amount) / math.Pow10(int(mint.Decimals))
	return rpc.GetTokenAccountBalanceResult{
		RPCContext: n.context(),
		Value: &rpc.UiTokenAmount{
			Amount:         strconv.FormatUint(tokenAccount.Amount, 10),
			Decimals:       mint.Decimals,
			UiAmount:       &uiAmount,
			UiAmountString: strconv.FormatFloat(uiAmount, 'f', -1, 64),
		},
	}, nil
}

func (n *Node) getAccountInfo(params []json.RawMessage) (interface{}, *rpcError) {
	var key solana.PublicKey
	if err := param(params, 0, &key); err != nil {
		return nil, err
	}

	out := rpc.GetAccountInfoResult{RPCContext: n.context()}
	if acc, ok := n.state.get(key); ok {
		out.Value = &rpc.Account{
			Lamports: acc.Lamports,
			Owner:    acc.Owner,
			Data:     rpc.DataBytesOrJSONFromBytes(acc.Data),
		}
	}
	return out, nil
}

type signaturesOptions struct {
	Limit  int              `json:"limit"`
	Before solana.Signature `json:"before"`
	Until  solana.Signature `json:"until"`
}

func (n *Node) getSignaturesForAddress(params []json.RawMessage) (interface{}, *rpcError) {
	var key solana.PublicKey
	if err := param(params, 0, &key); err != nil {
		return nil, err
	}
	var opts signaturesOptions
	if len(params) > 1 {
		if err := param(params, 1, &opts); err != nil {
			return nil, err
		}
	}
	if opts.Limit <= 0 || opts.Limit > 1000 {
		opts.Limit = 1000
	}

	out := []*rpc.TransactionSignature{}
	started := opts.Before.IsZero()
	for _, entry := range n.history[key] {
		if !started {
			started = entry.Signature == opts.Before
			continue
		}
		if entry.Signature == opts.Until || len(out) == opts.Limit {
			break
		}
		out = append(out, entry)
	}
	return out, nil
}
