package xqmg

import (
	"fmt"
	"strconv"
	"strings"
)

// StartPos is the standard opening position.
const StartPos = "rnbakabnr/9/1c5c1/p1p1p1p1p/9/9/P1P1P1P1P/1C5C1/9/RNBAKABNR w - - 0 1"

var pieceFromChar = map[byte]Piece{
	'K': MakePiece(Red, King), 'A': MakePiece(Red, Advisor), 'B': MakePiece(Red, Elephant),
	'N': MakePiece(Red, Knight), 'C': MakePiece(Red, Cannon), 'R': MakePiece(Red, Rook),
	'P': MakePiece(Red, Pawn),
	'k': MakePiece(Black, King), 'a': MakePiece(Black, Advisor), 'b': MakePiece(Black, Elephant),
	'n': MakePiece(Black, Knight), 'c': MakePiece(Black, Cannon), 'r': MakePiece(Black, Rook),
	'p': MakePiece(Black, Pawn),
}

var typeFromChar = map[byte]PieceType{
	'k': King, 'a': Advisor, 'b': Elephant, 'n': Knight,
	'c': Cannon, 'r': Rook, 'p': Pawn,
}

// ParseFEN builds a position from the board encoding. Ranks run 9..0
// top to bottom. A piece may carry a parenthesized list of absorbed
// movement types, lowercase regardless of color: "N(r)" is a knight
// that moves like a rook as well.
func ParseFEN(fen string) (*Position, error) {
	fields := strings.Fields(fen)
	if len(fields) < 2 {
		return nil, fmt.Errorf("fen %q: need at least board and side fields", fen)
	}

	p := &Position{}
	p.reset()

	ranks := strings.Split(fields[0], "/")
	if len(ranks) != RankNB {
		return nil, fmt.Errorf("fen %q: want %d ranks, got %d", fen, RankNB, len(ranks))
	}
	for i, row := range ranks {
		r := RankNB - 1 - i
		f := 0
		for j := 0; j < len(row); j++ {
			ch := row[j]
			if ch >= '1' && ch <= '9' {
				f += int(ch - '0')
				continue
			}
			pc, ok := pieceFromChar[ch]
			if !ok {
				return nil, fmt.Errorf("fen %q: bad piece char %q", fen, ch)
			}
			if f >= FileNB {
				return nil, fmt.Errorf("fen %q: rank %d overflows", fen, r)
			}
			var abil AbilityMask
			if j+1 < len(row) && row[j+1] == '(' {
				end := strings.IndexByte(row[j+1:], ')')
				if end < 0 {
					return nil, fmt.Errorf("fen %q: unterminated ability list", fen)
				}
				for _, ac := range []byte(row[j+2 : j+1+end]) {
					t, ok := typeFromChar[ac]
					if !ok || t == King {
						return nil, fmt.Errorf("fen %q: bad ability char %q", fen, ac)
					}
					if t != pc.Type() {
						abil.Add(t)
					}
				}
				j += end + 1
			}
			p.addPiece(MakeSquare(f, r), pc, abil)
			f++
		}
		if f != FileNB {
			return nil, fmt.Errorf("fen %q: rank %d has %d files", fen, r, f)
		}
	}

	for c := Red; c <= Black; c++ {
		if p.byType[King].And(p.byColor[c]).Count() != 1 {
			return nil, fmt.Errorf("fen %q: %v must have exactly one king", fen, c)
		}
		if !inPalace(c, p.kingSq[c]) {
			return nil, fmt.Errorf("fen %q: %v king outside palace", fen, c)
		}
	}

	switch fields[1] {
	case "w", "r":
		p.sideToMove = Red
	case "b":
		p.sideToMove = Black
	default:
		return nil, fmt.Errorf("fen %q: bad side to move %q", fen, fields[1])
	}

	// fields[2] and [3] are reserved placeholders in this game.
	if len(fields) >= 5 {
		hm, err := strconv.Atoi(fields[4])
		if err != nil || hm < 0 {
			return nil, fmt.Errorf("fen %q: bad halfmove clock %q", fen, fields[4])
		}
		p.states[0].Rule60 = int16(hm)
	}
	if len(fields) >= 6 {
		fm, err := strconv.Atoi(fields[5])
		if err != nil || fm < 1 {
			return nil, fmt.Errorf("fen %q: bad fullmove number %q", fen, fields[5])
		}
		p.gamePly = 2 * (fm - 1)
		if p.sideToMove == Black {
			p.gamePly++
		}
	}

	p.refreshState()
	return p, nil
}

// FEN renders the position in the same grammar ParseFEN reads.
func (p *Position) FEN() string {
	var sb strings.Builder
	for r := RankNB - 1; r >= 0; r-- {
		empty := 0
		for f := 0; f < FileNB; f++ {
			s := MakeSquare(f, r)
			pc := p.board[s]
			if pc == NoPiece {
				empty++
				continue
			}
			if empty > 0 {
				sb.WriteByte(byte('0' + empty))
				empty = 0
			}
			sb.WriteByte(pc.Char())
			if a := p.abilities[s]; a != 0 {
				sb.WriteByte('(')
				sb.WriteString(a.String())
				sb.WriteByte(')')
			}
		}
		if empty > 0 {
			sb.WriteByte(byte('0' + empty))
		}
		if r > 0 {
			sb.WriteByte('/')
		}
	}

	stm := "w"
	if p.sideToMove == Black {
		stm = "b"
	}
	fullmove := p.gamePly/2 + 1
	fmt.Fprintf(&sb, " %s - - %d %d", stm, p.Rule60(), fullmove)
	return sb.String()
}
