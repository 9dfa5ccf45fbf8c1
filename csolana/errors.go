package csolana

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	ErrTransactionFailed = errors.New("transaction failed")
	ErrNotConfirmed      = errors.New("transaction not confirmed")
	ErrBlockhashExpired  = errors.New("blockhash expired before confirmation")
)

type ErrorKind int

const (
	// KindRPC covers transport failures, node rejections and confirmation failures.
	KindRPC ErrorKind = iota
	// KindProgram covers failures while building or signing instructions locally.
	KindProgram
)

func (k ErrorKind) String() string {
	switch k {
	case KindRPC:
		return "rpc"
	case KindProgram:
		return "program"
	default:
		return fmt.Sprintf("ErrorKind(%d)", int(k))
	}
}

// ClientError is returned by every fallible Client and token operation.
type ClientError struct {
	Kind ErrorKind
	Op   string
	Err  error
}

func (e *ClientError) Error() string {
	return fmt.Sprintf("%s: %s error: %v", e.Op, e.Kind, e.Err)
}

func (e *ClientError) Unwrap() error {
	return e.Err
}

func (e *ClientError) Cause() error {
	return e.Err
}

// RPCError wraps err as a KindRPC ClientError. An err that already is a
// ClientError is returned untouched.
func RPCError(op string, err error) error {
	return newClientError(KindRPC, op, err)
}

// ProgramError wraps err as a KindProgram ClientError. An err that already
// is a ClientError is returned untouched.
func ProgramError(op string, err error) error {
	return newClientError(KindProgram, op, err)
}

func newClientError(kind ErrorKind, op string, err error) error {
	if err == nil {
		return nil
	}

	var clientErr *ClientError
	if errors.As(err, &clientErr) {
		return err
	}

	return &ClientError{
		Kind: kind,
		Op:   op,
		Err:  errors.WithStack(err),
	}
}

func IsRPCError(err error) bool {
	return isKind(err, KindRPC)
}

func IsProgramError(err error) bool {
	return isKind(err, KindProgram)
}

func isKind(err error, kind ErrorKind) bool {
	var clientErr *ClientError
	if !errors.As(err, &clientErr) {
		return false
	}
	return clientErr.Kind == kind
}
