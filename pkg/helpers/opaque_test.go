package helpers

import (
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGenerateOpaqueToken(t *testing.T) {
	seen := make(map[string]struct{})
	for i := 0; i < 100; i++ {
		v, err := GenerateOpaqueToken()
		require.NoError(t, err)
		require.Len(t, v, 2*OpaqueTokenBytes)
		_, err = hex.DecodeString(v)
		require.NoError(t, err)

		_, dup := seen[v]
		require.False(t, dup, "duplicate token %s", v)
		seen[v] = struct{}{}
	}
}
