package utility

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRemove(t *testing.T) {
	require.Equal(t, []int{2, 3}, Remove([]int{1, 2, 3}, 0))
	require.Equal(t, []int{1, 3}, Remove([]int{1, 2, 3}, 1))
	require.Equal(t, []int{1, 2}, Remove([]int{1, 2, 3}, 2))
	require.Empty(t, Remove([]string{"a"}, 0))
}
