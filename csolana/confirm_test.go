package csolana

import (
	"testing"

	"github.com/gagliardetto/solana-go/rpc"
	"github.com/stretchr/testify/require"
)

func TestCommitmentReached(t *testing.T) {
	var (
		processed = rpc.ConfirmationStatusProcessed
		confirmed = rpc.ConfirmationStatusConfirmed
		finalized = rpc.ConfirmationStatusFinalized
	)

	tests := []struct {
		status, target rpc.ConfirmationStatusType
		want           bool
	}{
		{processed, processed, true},
		{confirmed, processed, true},
		{finalized, processed, true},
		{processed, confirmed, false},
		{confirmed, confirmed, true},
		{finalized, confirmed, true},
		{processed, finalized, false},
		{confirmed, finalized, false},
		{finalized, finalized, true},
		{"", confirmed, false},
		{finalized, "recent", false},
	}
	for _, tt := range tests {
		require.Equal(t, tt.want, commitmentReached(tt.status, tt.target), "%s reaching %s", tt.status, tt.target)
	}
}
