// Package board implements Othello board representation using bitboards:
// two 64-bit masks, one per side, plus the move-generation and flip
// primitives built directly on top of them.
package board

import "fmt"

// Square identifies one of the 64 cells, or one of two sentinel values.
// Uses Little-Endian Rank-File Mapping: A1=0, H1=7, A8=56, H8=63.
type Square uint8

// Square constants for all 64 cells plus the two sentinels used throughout
// the move list and endgame solver: PASS for a no-flip pass move, NoMove for
// "no move recorded" (e.g. an empty PV slot).
const (
	A1 Square = iota
	B1
	C1
	D1
	E1
	F1
	G1
	H1
	A2
	B2
	C2
	D2
	E2
	F2
	G2
	H2
	A3
	B3
	C3
	D3
	E3
	F3
	G3
	H3
	A4
	B4
	C4
	D4
	E4
	F4
	G4
	H4
	A5
	B5
	C5
	D5
	E5
	F5
	G5
	H5
	A6
	B6
	C6
	D6
	E6
	F6
	G6
	H6
	A7
	B7
	C7
	D7
	E7
	F7
	G7
	H7
	A8
	B8
	C8
	D8
	E8
	F8
	G8
	H8

	PASS   Square = 64
	NoMove Square = 65
)

// File returns the file (column) of the square (0-7, where 0=a, 7=h).
func (sq Square) File() int {
	return int(sq) & 7
}

// Rank returns the rank (row) of the square (0-7, where 0=1, 7=8).
func (sq Square) Rank() int {
	return int(sq) >> 3
}

// String returns the algebraic notation for the square: two characters
// "a1".."h8", or "pa" for PASS, "--" for NoMove.
func (sq Square) String() string {
	switch sq {
	case PASS:
		return "pa"
	case NoMove:
		return "--"
	}
	if sq > H8 {
		return "--"
	}
	return fmt.Sprintf("%c%c", 'a'+sq.File(), '1'+sq.Rank())
}

// NewSquare creates a square from file and rank (0-indexed).
func NewSquare(file, rank int) Square {
	return Square(rank*8 + file)
}

// ParseSquare parses algebraic notation ("e4", "pa", "--") into a Square.
func ParseSquare(s string) (Square, error) {
	switch s {
	case "pa", "PA":
		return PASS, nil
	case "--":
		return NoMove, nil
	}
	if len(s) != 2 {
		return NoMove, fmt.Errorf("othello: invalid square %q", s)
	}

	file := int(s[0] - 'a')
	rank := int(s[1] - '1')

	if file < 0 || file > 7 || rank < 0 || rank > 7 {
		return NoMove, fmt.Errorf("othello: invalid square %q", s)
	}

	return NewSquare(file, rank), nil
}

// IsOnBoard returns true if the square is one of the 64 playable cells
// (i.e. neither PASS nor NoMove).
func (sq Square) IsOnBoard() bool {
	return sq <= H8
}
