package board

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHashCode_Deterministic(t *testing.T) {
	p := StartPosition()
	assert.Equal(t, HashCode(p.Player, p.Opponent), HashCode(p.Player, p.Opponent))
}

func TestHashCode_SensitiveToSideToMove(t *testing.T) {
	p := StartPosition()
	passed := p.Play(PASS)
	assert.NotEqual(t, p.Hash(), passed.Hash(), "hash_code must not be colour-swap invariant")
}

func TestHashCode_DiffersAcrossPositions(t *testing.T) {
	p := StartPosition()
	p2 := p.Play(D3)
	assert.NotEqual(t, p.Hash(), p2.Hash())
}
