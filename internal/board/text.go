package board

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseFEN parses an alternate FEN-like board notation for hosts that
// provide it: 8 ranks separated by '/', rank 8 first, digits
// for run lengths of empty squares, 'P'/'p' for the two disc colours,
// followed by a space and 'w' or 'b' for the side to move. Returns a
// Position with Player always the side to move.
func ParseFEN(fen string) (Position, error) {
	fields := strings.Fields(fen)
	if len(fields) < 2 {
		return Position{}, fmt.Errorf("othello: FEN must have board and side-to-move fields")
	}
	ranks := strings.Split(fields[0], "/")
	if len(ranks) != 8 {
		return Position{}, fmt.Errorf("othello: FEN board must have 8 ranks, got %d", len(ranks))
	}

	var black, white Bitboard
	for i, rankStr := range ranks {
		rank := 7 - i // FEN lists rank 8 first
		file := 0
		for _, c := range rankStr {
			if file > 7 {
				return Position{}, fmt.Errorf("othello: FEN rank %d overflows 8 files", rank+1)
			}
			switch {
			case c >= '1' && c <= '8':
				n, _ := strconv.Atoi(string(c))
				file += n
			case c == 'P' || c == 'p':
				sq := NewSquare(file, rank)
				if c == 'P' {
					black = black.Set(sq)
				} else {
					white = white.Set(sq)
				}
				file++
			default:
				return Position{}, fmt.Errorf("othello: invalid FEN rank character %q", c)
			}
		}
	}

	switch fields[1] {
	case "w":
		return Position{Player: white, Opponent: black}, nil
	case "b":
		return Position{Player: black, Opponent: white}, nil
	default:
		return Position{}, fmt.Errorf("othello: invalid FEN side-to-move %q", fields[1])
	}
}

// FEN renders the position in the alternate FEN-like notation, with side
// argument 'w' or 'b' naming which colour Player currently is (the
// Position itself is colour-agnostic).
func (p Position) FEN(side byte) string {
	var sb strings.Builder
	blackMask, whiteMask := p.Player, p.Opponent
	if side == 'w' {
		blackMask, whiteMask = p.Opponent, p.Player
	}
	for rank := 7; rank >= 0; rank-- {
		run := 0
		for file := 0; file < 8; file++ {
			sq := NewSquare(file, rank)
			switch {
			case blackMask.IsSet(sq):
				if run > 0 {
					sb.WriteString(strconv.Itoa(run))
					run = 0
				}
				sb.WriteByte('P')
			case whiteMask.IsSet(sq):
				if run > 0 {
					sb.WriteString(strconv.Itoa(run))
					run = 0
				}
				sb.WriteByte('p')
			default:
				run++
			}
		}
		if run > 0 {
			sb.WriteString(strconv.Itoa(run))
		}
		if rank > 0 {
			sb.WriteByte('/')
		}
	}
	sb.WriteByte(' ')
	sb.WriteByte(side)
	return sb.String()
}

// ParseMoveNotation parses a move in two-character notation: "a1".."h8"
// (case indicates the colour, irrelevant to the engine, which always
// plays Player), "pa" for pass, "--" for no-move.
func ParseMoveNotation(s string) (Square, error) {
	return ParseSquare(strings.ToLower(s))
}

// MoveNotation renders square using notation, lower-case for
// black-to-move and upper-case for white-to-move; sq itself carries no
// colour, so the caller supplies it via black.
func MoveNotation(sq Square, black bool) string {
	s := sq.String()
	if sq > H8 {
		return s
	}
	if !black {
		return strings.ToUpper(s)
	}
	return s
}
