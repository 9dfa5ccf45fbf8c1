// Package solanatest runs an in-memory Solana JSON-RPC node for tests. It
// verifies transaction signatures and executes system, token and associated
// token account instructions atomically against its own account state.
package solanatest

import (
	"crypto/rand"
	"encoding/json"
	"net"
	"sync"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
)

// JSON-RPC error codes used by Solana nodes.
const (
	codeInvalidParams         = -32602
	codeMethodNotFound        = -32601
	codeInternal              = -32603
	codeSendTransactionFailed = -32002
	codeSignatureVerification = -32003
)

const lastValidBlockHeightOffset = 150

type Node struct {
	app *fiber.App
	url string

	mu           sync.Mutex
	slot         uint64
	state        accounts
	blockhashes  map[solana.Hash]bool
	statuses     map[solana.Signature]*rpc.SignatureStatusesResult
	transactions map[solana.Signature]*solana.Transaction
	history      map[solana.PublicKey][]*rpc.TransactionSignature
	requests     map[string]int
	failures     map[string]string
	stalled      bool
	landAs       rpc.ConfirmationStatusType
}

// NewNode starts a node listening on a loopback port. It is shut down when
// the test ends.
func NewNode(t testing.TB) *Node {
	t.Helper()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	n := &Node{
		url:          "http://" + ln.Addr().String(),
		state:        accounts{},
		blockhashes:  map[solana.Hash]bool{},
		statuses:     map[solana.Signature]*rpc.SignatureStatusesResult{},
		transactions: map[solana.Signature]*solana.Transaction{},
		history:      map[solana.PublicKey][]*rpc.TransactionSignature{},
		requests:     map[string]int{},
		failures:     map[string]string{},
		landAs:       rpc.ConfirmationStatusFinalized,
	}

	n.app = fiber.New(fiber.Config{
		DisableStartupMessage: true,
	})
	n.app.Post("/", n.handle)

	go func() {
		_ = n.app.Listener(ln)
	}()
	t.Cleanup(func() {
		_ = n.app.Shutdown()
	})

	return n
}

func (n *Node) URL() string {
	return n.url
}

// RPC returns a new client for the node.
func (n *Node) RPC() *rpc.Client {
	return rpc.New(n.url)
}

// Fund credits lamports to key, creating a system account when needed.
func (n *Node) Fund(key solana.PublicKey, lamports uint64) {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.credit(key, lamports)
}

// NewFundedKey returns a fresh key holding lamports.
func (n *Node) NewFundedKey(t testing.TB, lamports uint64) solana.PrivateKey {
	t.Helper()

	key, err := solana.NewRandomPrivateKey()
	require.NoError(t, err)
	n.Fund(key.PublicKey(), lamports)
	return key
}

func (n *Node) Balance(key solana.PublicKey) uint64 {
	n.mu.Lock()
	defer n.mu.Unlock()

	if acc, ok := n.state.get(key); ok {
		return acc.Lamports
	}
	return 0
}

// AccountOwner reports the owning program of key and whether it exists.
func (n *Node) AccountOwner(key solana.PublicKey) (solana.PublicKey, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()

	acc, ok := n.state.get(key)
	if !ok {
		return solana.PublicKey{}, false
	}
	return acc.Owner, true
}

// TokenAmount returns the amount held by a token account, or 0 when key is
// not a token account.
func (n *Node) TokenAmount(key solana.PublicKey) uint64 {
	n.mu.Lock()
	defer n.mu.Unlock()

	tokenAccount, err := n.state.tokenAccount(key)
	if err != nil {
		return 0
	}
	return tokenAccount.Amount
}

// Transaction returns the executed transaction with signature sig.
func (n *Node) Transaction(sig solana.Signature) *solana.Transaction {
	n.mu.Lock()
	defer n.mu.Unlock()

	return n.transactions[sig]
}

// Requests counts the calls made to an RPC method.
func (n *Node) Requests(method string) int {
	n.mu.Lock()
	defer n.mu.Unlock()

	return n.requests[method]
}

// TotalRequests counts every call made to the node.
func (n *Node) TotalRequests() int {
	n.mu.Lock()
	defer n.mu.Unlock()

	var total int
	for _, count := range n.requests {
		total += count
	}
	return total
}

// Fail makes every call to method return an internal error with message.
func (n *Node) Fail(method, message string) {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.failures[method] = message
}

// Stall makes the node accept transactions and airdrops without ever landing
// them, and reports every blockhash as expired.
func (n *Node) Stall() {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.stalled = true
	for hash := range n.blockhashes {
		n.blockhashes[hash] = false
	}
}

// LandAs sets the confirmation status reported for transactions and
// airdrops landing from now on.
func (n *Node) LandAs(status rpc.ConfirmationStatusType) {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.landAs = status
}

func (n *Node) credit(key solana.PublicKey, lamports uint64) {
	acc, ok := n.state[key]
	if !ok {
		acc = &account{Owner: solana.SystemProgramID}
		n.state[key] = acc
	}
	acc.Lamports += lamports
}

func (n *Node) newBlockhash() solana.Hash {
	var buf [32]byte
	_, _ = rand.Read(buf[:])
	hash := solana.HashFromBytes(buf[:])

	n.slot++
	n.blockhashes[hash] = !n.stalled
	return hash
}

func (n *Node) newSignature() solana.Signature {
	var sig solana.Signature
	_, _ = rand.Read(sig[:])
	return sig
}

// land records sig as landed in a new slot, newest first in the history of
// every address it touched.
func (n *Node) land(sig solana.Signature, keys []solana.PublicKey, txErr interface{}) {
	n.slot++
	n.statuses[sig] = &rpc.SignatureStatusesResult{
		Slot:               n.slot,
		Err:                txErr,
		ConfirmationStatus: n.landAs,
	}

	entry := &rpc.TransactionSignature{
		Signature:          sig,
		Slot:               n.slot,
		Err:                txErr,
		ConfirmationStatus: n.landAs,
	}
	for _, key := range keys {
		n.history[key] = append([]*rpc.TransactionSignature{entry}, n.history[key]...)
	}
}

type request struct {
	JSONRPC string            `json:"jsonrpc"`
	ID      json.RawMessage   `json:"id"`
	Method  string            `json:"method"`
	Params  []json.RawMessage `json:"params"`
}

type response struct {
	JSONRPC string          `json:"jsonrpc"`
	Result  interface{}     `json:"result,omitempty"`
	Error   *rpcError       `json:"error,omitempty"`
	ID      json.RawMessage `json:"id"`
}

type rpcError struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

func (e *rpcError) Error() string {
	return e.Message
}

func (n *Node) handle(c *fiber.Ctx) error {
	var req request
	if err := json.Unmarshal(c.Body(), &req); err != nil {
		return c.JSON(response{
			JSONRPC: "2.0",
			Error:   &rpcError{Code: -32700, Message: "Parse error"},
			ID:      json.RawMessage("null"),
		})
	}

	n.mu.Lock()
	defer n.mu.Unlock()

	n.requests[req.Method]++

	result, err := n.dispatch(req)
	resp := response{JSONRPC: "2.0", ID: req.ID}
	if err != nil {
		resp.Error = err
	} else {
		resp.Result = result
	}
	return c.JSON(resp)
}

func (n *Node) dispatch(req request) (interface{}, *rpcError) {
	if message, ok := n.failures[req.Method]; ok {
		return nil, &rpcError{Code: codeInternal, Message: message}
	}

	switch req.Method {
	case "getLatestBlockhash":
		return n.getLatestBlockhash()
	case "isBlockhashValid":
		return n.isBlockhashValid(req.Params)
	case "getMinimumBalanceForRentExemption":
		return n.getMinimumBalanceForRentExemption(req.Params)
	case "sendTransaction":
		return n.sendTransaction(req.Params)
	case "getSignatureStatuses":
		return n.getSignatureStatuses(req.Params)
	case "requestAirdrop":
		return n.requestAirdrop(req.Params)
	case "getBalance":
		return n.getBalance(req.Params)
	case "getTokenAccountBalance":
		return n.getTokenAccountBalance(req.Params)
	case "getAccountInfo":
		return n.getAccountInfo(req.Params)
	case "getSignaturesForAddress":
		return n.getSignaturesForAddress(req.Params)
	default:
		return nil, &rpcError{Code: codeMethodNotFound, Message: "Method not found"}
	}
}

func param(params []json.RawMessage, i int, out interface{}) *rpcError {
	if i >= len(params) {
		return &rpcError{Code: codeInvalidParams, Message: "Invalid params: missing parameter"}
	}
	if err := json.Unmarshal(params[i], out); err != nil {
		return &rpcError{Code: codeInvalidParams, Message: "Invalid params: " + err.Error()}
	}
	return nil
}

func (n *Node) context() rpc.RPCContext {
	return rpc.RPCContext{Context: rpc.Context{Slot: n.slot}}
}
