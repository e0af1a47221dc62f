package xqmg

import "fmt"

// Move packs origin and destination: from in the low 7 bits, to in the
// next 7. There are no promotions or special moves in this game.
type Move uint16

const MoveNone Move = 0

func NewMove(from, to Square) Move {
	return Move(from) | Move(to)<<7
}

func (m Move) From() Square { return Square(m & 0x7f) }
func (m Move) To() Square   { return Square(m >> 7 & 0x7f) }

func (m Move) String() string {
	if m == MoveNone {
		return "0000"
	}
	return m.From().String() + m.To().String()
}

// ParseMove reads coordinate notation like "b2e2".
func ParseMove(s string) (Move, error) {
	if len(s) != 4 {
		return MoveNone, fmt.Errorf("bad move %q", s)
	}
	from, err := parseSquare(s[0:2])
	if err != nil {
		return MoveNone, fmt.Errorf("bad move %q: %w", s, err)
	}
	to, err := parseSquare(s[2:4])
	if err != nil {
		return MoveNone, fmt.Errorf("bad move %q: %w", s, err)
	}
	return NewMove(from, to), nil
}

func parseSquare(s string) (Square, error) {
	f := int(s[0] - 'a')
	r := int(s[1] - '0')
	if f < 0 || f >= FileNB || r < 0 || r >= RankNB {
		return SquareNone, fmt.Errorf("bad square %q", s)
	}
	return MakeSquare(f, r), nil
}
