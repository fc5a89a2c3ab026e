package token_test

import (
	"testing"

	"github.com/avolkov/orderhub/pkg/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate(t *testing.T) {
	t.Run("fixed length hex", func(t *testing.T) {
		key, err := token.Generate()
		require.NoError(t, err)

		assert.Len(t, key, 64)
		for _, r := range key {
			assert.Contains(t, "0123456789abcdef", string(r))
		}
	})

	t.Run("no collisions in a small sample", func(t *testing.T) {
		seen := make(map[string]bool)
		for i := 0; i < 100; i++ {
			key, err := token.Generate()
			require.NoError(t, err)
			assert.False(t, seen[key])
			seen[key] = true
		}
	})
}
