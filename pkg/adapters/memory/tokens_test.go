package memory_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/aretw0/notely/pkg/adapters/memory"
)

func TestTokenStore(t *testing.T) {
	s := memory.NewTokenStore("seed")

	tok, err := s.Token()
	assert.NoError(t, err)
	assert.Equal(t, "seed", tok)

	assert.NoError(t, s.SetToken("next"))
	tok, _ = s.Token()
	assert.Equal(t, "next", tok)

	assert.NoError(t, s.ClearToken())
	tok, _ = s.Token()
	assert.Empty(t, tok)
	assert.Equal(t, map[string]any{"has_token": false}, s.State())
}
