package board

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmptySquareList_RemoveRestoreLIFO(t *testing.T) {
	p := StartPosition()
	l := NewEmptySquareList(p.Empties())

	before := snapshotList(l)

	// Strict LIFO: remove a, b, c then restore c, b, a.
	a, b, c := A1, H8, D3
	l.Remove(a)
	l.Remove(b)
	l.Remove(c)
	l.Restore(c)
	l.Restore(b)
	l.Restore(a)

	after := snapshotList(l)
	assert.Equal(t, before, after, "list must equal its pre-state after matched LIFO remove/restore")
}

func TestEmptySquareList_ParityTracksXOR(t *testing.T) {
	p := StartPosition()
	l := NewEmptySquareList(p.Empties())
	initialParity := l.Parity

	l.Remove(A1)
	assert.Equal(t, initialParity^QuadrantOf(A1), l.Parity)

	l.Restore(A1)
	assert.Equal(t, initialParity, l.Parity)
}

func TestEmptySquareList_SentinelSelfLoop(t *testing.T) {
	l := NewEmptySquareList(0)
	require.Equal(t, NoMove, l.First())
}

func TestEmptySquareList_LenMatchesPopCount(t *testing.T) {
	p := StartPosition()
	l := NewEmptySquareList(p.Empties())
	assert.Equal(t, p.EmptyCount(), l.Len())
}

func snapshotList(l *EmptySquareList) []Square {
	var out []Square
	l.ForEach(func(sq Square) { out = append(out, sq) })
	return out
}
