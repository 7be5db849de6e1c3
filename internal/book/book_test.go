package book

import (
	"bytes"
	"testing"

	"github.com/edge64/othello/internal/board"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBookAddAndProbe(t *testing.T) {
	pos := board.StartPosition()
	b := New()
	b.Add(pos.Hash(), board.D3, 100)

	move, found := b.Probe(pos)
	require.True(t, found)
	assert.Equal(t, board.D3, move)
}

func TestBookMiss(t *testing.T) {
	b := New()
	pos := board.StartPosition()

	move, found := b.Probe(pos)
	assert.False(t, found)
	assert.Equal(t, board.NoMove, move)
}

func TestBookSaveLoadRoundTrip(t *testing.T) {
	pos := board.StartPosition()
	b := New()
	b.Add(pos.Hash(), board.D3, 10)
	b.Add(pos.Hash(), board.C4, 20)

	var buf bytes.Buffer
	require.NoError(t, b.Save(&buf))

	loaded, err := LoadReader(&buf)
	require.NoError(t, err)
	assert.Equal(t, 1, loaded.Size())

	all := loaded.ProbeAll(pos)
	require.Len(t, all, 2)
	assert.Equal(t, board.C4, all[0].Move, "ProbeAll must sort by descending weight")
}

func TestBookProbeAll_EmptyOnMiss(t *testing.T) {
	b := New()
	assert.Nil(t, b.ProbeAll(board.StartPosition()))
}

func TestNilBookProbe(t *testing.T) {
	var b *Book
	move, found := b.Probe(board.StartPosition())
	assert.False(t, found)
	assert.Equal(t, board.NoMove, move)
	assert.Equal(t, 0, b.Size())
}
