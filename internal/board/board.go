package board

import "fmt"

// Position is the ordered pair of 64-bit masks the engine searches over:
// Player holds the discs of the side to move, Opponent holds the other
// side's discs. Invariants: Player&Opponent == 0, and
// popcount(Player|Opponent) + Empties() == 64. A pass swaps the two masks
// rather than mutating either one.
type Position struct {
	Player   Bitboard
	Opponent Bitboard
}

// StartPosition returns the standard Othello opening position with black
// (X) to move: the four centre discs, d4/e5 white, d5/e4 black.
func StartPosition() Position {
	return Position{
		Player:   SquareBB(D5) | SquareBB(E4),
		Opponent: SquareBB(D4) | SquareBB(E5),
	}
}

// Empties returns the set of unoccupied squares.
func (p Position) Empties() Bitboard {
	return ^(p.Player | p.Opponent)
}

// EmptyCount returns the number of unoccupied squares.
func (p Position) EmptyCount() int {
	return p.Empties().PopCount()
}

// LegalMoves returns the legal moves for the side to move.
func (p Position) LegalMoves() Bitboard {
	return LegalMoves(p.Player, p.Opponent)
}

// HasLegalMove reports whether the side to move has any legal move.
func (p Position) HasLegalMove() bool {
	return p.LegalMoves() != 0
}

// Play returns the position that results from playing square, from the
// perspective of the side about to move next (masks swapped). The caller
// must ensure the move is legal; Play does not validate.
func (p Position) Play(square Square) Position {
	if square == PASS {
		np, no := Pass(p.Player, p.Opponent)
		return Position{Player: np, Opponent: no}
	}
	np, no := ApplyMove(square, p.Player, p.Opponent)
	return Position{Player: np, Opponent: no}
}

// Hash returns the Zobrist hash of the position.
func (p Position) Hash() uint64 {
	return HashCode(p.Player, p.Opponent)
}

// IsGameOver reports whether neither side has a legal move (the board is
// full, or both sides would have to pass).
func (p Position) IsGameOver() bool {
	if p.HasLegalMove() {
		return false
	}
	passed := p.Play(PASS)
	return !passed.HasLegalMove()
}

// DiscDifference returns popcount(Player) - popcount(Opponent), the raw
// disc-count score ignoring empties.
func (p Position) DiscDifference() int {
	return p.Player.PopCount() - p.Opponent.PopCount()
}

// FinalScore returns the game's terminal score from the side-to-move's
// perspective, applying the wipeout rule from solve_0: if
// either side has no discs left, the winner is credited with all 64
// squares (remaining empties count toward the winner), not just the
// discs physically on the board.
func (p Position) FinalScore() int {
	pc, oc := p.Player.PopCount(), p.Opponent.PopCount()
	if oc == 0 {
		return 64
	}
	if pc == 0 {
		return -64
	}
	empties := 64 - pc - oc
	if pc > oc {
		return pc - oc + empties
	}
	if oc > pc {
		return pc - oc - empties
	}
	return 0
}

// String renders the position as a 65-character board text: 64
// characters of '.'/'X'/'O' in row-major order from A1, where X is
// whichever colour is currently the side to move, followed by a trailing
// side-to-move character (always 'X' here, since Player is always the
// mover — callers that track an absolute colour convert at the edges).
func (p Position) String() string {
	buf := make([]byte, 0, 65)
	for sq := Square(0); sq <= H8; sq++ {
		switch {
		case p.Player.IsSet(sq):
			buf = append(buf, 'X')
		case p.Opponent.IsSet(sq):
			buf = append(buf, 'O')
		default:
			buf = append(buf, '.')
		}
	}
	buf = append(buf, 'X')
	return string(buf)
}

// ParsePosition parses the same 65-character board text String produces:
// 64 '.'/'X'/'O' characters followed by a trailing 'X' or 'O' indicating
// the side to move. The
// returned Position always has Player as the side to move, regardless of
// which colour that was in the text.
func ParsePosition(s string) (Position, error) {
	if len(s) != 65 {
		return Position{}, fmt.Errorf("othello: board text must be 65 characters, got %d", len(s))
	}
	var black, white Bitboard
	for i := 0; i < 64; i++ {
		switch s[i] {
		case 'X', 'x':
			black = black.Set(Square(i))
		case 'O', 'o':
			white = white.Set(Square(i))
		case '.', '-':
		default:
			return Position{}, fmt.Errorf("othello: invalid board character %q at index %d", s[i], i)
		}
	}
	switch s[64] {
	case 'X', 'x':
		return Position{Player: black, Opponent: white}, nil
	case 'O', 'o':
		return Position{Player: white, Opponent: black}, nil
	default:
		return Position{}, fmt.Errorf("othello: invalid side-to-move character %q", s[64])
	}
}
