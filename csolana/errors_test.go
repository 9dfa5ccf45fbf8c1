package csolana

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

func TestClientError(t *testing.T) {
	cause := errors.New("connection refused")

	err := RPCError("send transaction", cause)
	require.True(t, IsRPCError(err))
	require.False(t, IsProgramError(err))
	require.ErrorIs(t, err, cause)
	require.Equal(t, "send transaction: rpc error: connection refused", err.Error())

	var clientErr *ClientError
	require.True(t, errors.As(err, &clientErr))
	require.Equal(t, KindRPC, clientErr.Kind)
	require.Equal(t, "send transaction", clientErr.Op)
	require.Equal(t, cause, errors.Cause(err))
}

func TestClientError_KeepsFirstKind(t *testing.T) {
	inner := ProgramError("sign transaction", errors.New("signer key not found"))
	outer := RPCError("create account", errors.Wrap(inner, "create account"))

	require.True(t, IsProgramError(outer))
	require.False(t, IsRPCError(outer))
}

func TestClientError_Nil(t *testing.T) {
	require.NoError(t, RPCError("op", nil))
	require.NoError(t, ProgramError("op", nil))
	require.False(t, IsRPCError(nil))
	require.False(t, IsProgramError(errors.New("plain")))
}

func TestErrorKind_String(t *testing.T) {
	require.Equal(t, "rpc", KindRPC.String())
	require.Equal(t, "program", KindProgram.String())
	require.Equal(t, "ErrorKind(7)", ErrorKind(7).String())
}
