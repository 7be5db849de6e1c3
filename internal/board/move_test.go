package board

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMoveList_AddPreservesOrder(t *testing.T) {
	l := NewMoveList()
	l.Add(Move{Square: A1})
	l.Add(Move{Square: B1})
	l.Add(Move{Square: C1})

	got := l.Slice()
	require.Len(t, got, 3)
	assert.Equal(t, []Square{A1, B1, C1}, []Square{got[0].Square, got[1].Square, got[2].Square})
}

func TestMoveList_SortDescendingStable(t *testing.T) {
	l := NewMoveList()
	l.Add(Move{Square: A1, Score: 5})
	l.Add(Move{Square: B1, Score: 9})
	l.Add(Move{Square: C1, Score: 9})
	l.Add(Move{Square: D1, Score: 1})

	l.Sort()
	got := l.Slice()
	require.Len(t, got, 4)
	assert.Equal(t, int32(9), got[0].Score)
	assert.Equal(t, int32(9), got[1].Score)
	// Ties keep relative input order: B1 was added before C1.
	assert.Equal(t, B1, got[0].Square)
	assert.Equal(t, C1, got[1].Square)
	assert.Equal(t, int32(1), got[3].Score)
}

func TestMoveList_IteratorRemove(t *testing.T) {
	l := NewMoveList()
	l.Add(Move{Square: A1})
	l.Add(Move{Square: B1})
	l.Add(Move{Square: C1})

	it := l.Iter()
	for {
		m, ok := it.Next()
		if !ok {
			break
		}
		if m.Square == B1 {
			it.Remove()
		}
	}

	got := l.Slice()
	require.Len(t, got, 2)
	assert.Equal(t, A1, got[0].Square)
	assert.Equal(t, C1, got[1].Square)
}

func TestMoveList_RemoveHead(t *testing.T) {
	l := NewMoveList()
	l.Add(Move{Square: A1})
	l.Add(Move{Square: B1})

	it := l.Iter()
	m, ok := it.Next()
	require.True(t, ok)
	require.Equal(t, A1, m.Square)
	it.Remove()

	got := l.Slice()
	require.Len(t, got, 1)
	assert.Equal(t, B1, got[0].Square)
}

func TestMovesFor_MatchesLegalMoves(t *testing.T) {
	p := StartPosition()
	l := MovesFor(p.Player, p.Opponent)
	assert.Equal(t, p.LegalMoves().PopCount(), l.Len())
}

func TestMoveList_Empty(t *testing.T) {
	l := NewMoveList()
	assert.True(t, l.Empty())
	l.Add(Move{Square: A1})
	assert.False(t, l.Empty())
}
