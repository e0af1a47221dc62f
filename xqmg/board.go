// Package xqmg implements the board state and move generation for a
// xiangqi variant in which a piece that captures an unlike, non-royal
// piece permanently absorbs the victim's movement ability.
package xqmg

import (
	"math/bits"
	"strings"
)

type Color uint8

const (
	Red Color = iota
	Black
	ColorNB
)

func (c Color) Other() Color { return c ^ 1 }

func (c Color) String() string {
	if c == Red {
		return "red"
	}
	return "black"
}

type PieceType uint8

const (
	NoPieceType PieceType = iota
	King
	Advisor
	Elephant
	Knight
	Cannon
	Rook
	Pawn
	PieceTypeNB
)

// Piece packs type and color; black pieces have bit 3 set.
type Piece uint8

const NoPiece Piece = 0

func MakePiece(c Color, pt PieceType) Piece { return Piece(pt) | Piece(c)<<3 }
func (p Piece) Type() PieceType             { return PieceType(p & 7) }
func (p Piece) Color() Color                { return Color(p >> 3) }

var pieceTypeChars = [PieceTypeNB]byte{' ', 'K', 'A', 'B', 'N', 'C', 'R', 'P'}

func (p Piece) Char() byte {
	ch := pieceTypeChars[p.Type()]
	if p.Color() == Black {
		ch += 'a' - 'A'
	}
	return ch
}

// Square indexes the 9x10 board as rank*9+file, rank 0 on Red's back rank.
type Square int8

const (
	FileNB   = 9
	RankNB   = 10
	SquareNB = 90

	SquareNone Square = -1
)

func MakeSquare(file, rank int) Square { return Square(rank*FileNB + file) }
func (s Square) File() int             { return int(s) % FileNB }
func (s Square) Rank() int             { return int(s) / FileNB }

func (s Square) String() string {
	if s == SquareNone {
		return "-"
	}
	return string([]byte{byte('a' + s.File()), byte('0' + s.Rank())})
}

func inPalace(c Color, s Square) bool {
	f, r := s.File(), s.Rank()
	if f < 3 || f > 5 {
		return false
	}
	if c == Red {
		return r <= 2
	}
	return r >= 7
}

// inHalf reports whether s lies on c's own side of the river.
func inHalf(c Color, s Square) bool {
	if c == Red {
		return s.Rank() <= 4
	}
	return s.Rank() >= 5
}

func crossedRiver(c Color, s Square) bool { return !inHalf(c, s) }

// Bitboard covers the 90 squares in two words: squares 0..63 in Lo,
// 64..89 in Hi.
type Bitboard struct {
	Lo, Hi uint64
}

func SquareBB(s Square) Bitboard {
	if s < 64 {
		return Bitboard{Lo: 1 << uint(s)}
	}
	return Bitboard{Hi: 1 << uint(s-64)}
}

func (b Bitboard) Test(s Square) bool {
	if s < 64 {
		return b.Lo&(1<<uint(s)) != 0
	}
	return b.Hi&(1<<uint(s-64)) != 0
}

func (b *Bitboard) Set(s Square) {
	if s < 64 {
		b.Lo |= 1 << uint(s)
	} else {
		b.Hi |= 1 << uint(s-64)
	}
}

func (b *Bitboard) Clear(s Square) {
	if s < 64 {
		b.Lo &^= 1 << uint(s)
	} else {
		b.Hi &^= 1 << uint(s-64)
	}
}

func (b Bitboard) And(o Bitboard) Bitboard    { return Bitboard{b.Lo & o.Lo, b.Hi & o.Hi} }
func (b Bitboard) Or(o Bitboard) Bitboard     { return Bitboard{b.Lo | o.Lo, b.Hi | o.Hi} }
func (b Bitboard) AndNot(o Bitboard) Bitboard { return Bitboard{b.Lo &^ o.Lo, b.Hi &^ o.Hi} }
func (b Bitboard) IsEmpty() bool              { return b.Lo|b.Hi == 0 }

func (b Bitboard) Count() int {
	return bits.OnesCount64(b.Lo) + bits.OnesCount64(b.Hi)
}

// PopLSB removes and returns the lowest set square. Undefined on an
// empty bitboard.
func (b *Bitboard) PopLSB() Square {
	if b.Lo != 0 {
		s := Square(bits.TrailingZeros64(b.Lo))
		b.Lo &= b.Lo - 1
		return s
	}
	s := Square(64 + bits.TrailingZeros64(b.Hi))
	b.Hi &= b.Hi - 1
	return s
}

// AbilityMask is a bitset over PieceType; bit 1<<t is set when the
// piece moves like type t in addition to (or as) its base type.
type AbilityMask uint8

func AbilityOf(pt PieceType) AbilityMask    { return 1 << pt }
func (a AbilityMask) Has(pt PieceType) bool { return a&(1<<pt) != 0 }
func (a *AbilityMask) Add(pt PieceType)     { *a |= 1 << pt }

// PopType removes and returns the lowest movement type in the mask.
func (a *AbilityMask) PopType() PieceType {
	pt := PieceType(bits.TrailingZeros8(uint8(*a)))
	*a &= *a - 1
	return pt
}

func (a AbilityMask) String() string {
	var sb strings.Builder
	for m := a; m != 0; {
		pt := m.PopType()
		sb.WriteByte(pieceTypeChars[pt] + 'a' - 'A')
	}
	return sb.String()
}

// StateInfo is one frame of the position history. Frames live in an
// index-addressed arena on the Position; undo is an index decrement.
type StateInfo struct {
	Key        uint64
	PawnKey    uint64
	MinorKey   uint64
	NonPawnKey [ColorNB]uint64

	MajorMaterial [ColorNB]int32
	Rule60        int16
	CheckStreak   [ColorNB]int16
	PliesFromNull int16

	Move          Move
	CapturedPiece Piece
	capturedAbil  AbilityMask
	moverAbil     AbilityMask

	// Checkers holds the pieces giving check to the side to move.
	Checkers Bitboard
	// kingGuards marks squares where motion may affect the side to
	// move's king safety; moves touching none of them skip the
	// legality simulation.
	kingGuards Bitboard
}

type Position struct {
	board      [SquareNB]Piece
	abilities  [SquareNB]AbilityMask
	byType     [PieceTypeNB]Bitboard
	byColor    [ColorNB]Bitboard
	byMobility [PieceTypeNB]Bitboard
	kingSq     [ColorNB]Square
	sideToMove Color
	gamePly    int

	states []StateInfo
	stIdx  int

	filter repetitionFilter
}

func (p *Position) SideToMove() Color         { return p.sideToMove }
func (p *Position) GamePly() int              { return p.gamePly }
func (p *Position) KingSquare(c Color) Square { return p.kingSq[c] }
func (p *Position) PieceOn(s Square) Piece    { return p.board[s] }
func (p *Position) AbilitiesOn(s Square) AbilityMask {
	return p.abilities[s]
}
func (p *Position) Pieces(pt PieceType) Bitboard { return p.byType[pt] }
func (p *Position) ColorBB(c Color) Bitboard     { return p.byColor[c] }
func (p *Position) Occupied() Bitboard           { return p.byColor[Red].Or(p.byColor[Black]) }

func (p *Position) st() *StateInfo { return &p.states[p.stIdx] }

// Key returns the primary zobrist key of the current position.
func (p *Position) Key() uint64       { return p.st().Key }
func (p *Position) PawnKey() uint64   { return p.st().PawnKey }
func (p *Position) Rule60() int       { return int(p.st().Rule60) }
func (p *Position) Checkers() Bitboard { return p.st().Checkers }
func (p *Position) InCheck() bool     { return !p.st().Checkers.IsEmpty() }

// MajorMaterial returns the running rook/cannon/knight material of c.
func (p *Position) MajorMaterial(c Color) int32 { return p.st().MajorMaterial[c] }

// mobilityOf is the full movement set of the piece on s.
func (p *Position) mobilityOf(s Square) AbilityMask {
	return AbilityOf(p.board[s].Type()) | p.abilities[s]
}

func (p *Position) reset() {
	*p = Position{}
	p.states = make([]StateInfo, 1, 256)
	p.kingSq[Red] = SquareNone
	p.kingSq[Black] = SquareNone
}

// Clone returns an independent copy safe for use by another search
// worker. The history arena is copied up to the current frame.
func (p *Position) Clone() *Position {
	q := *p
	q.states = make([]StateInfo, p.stIdx+1, p.stIdx+64)
	copy(q.states, p.states[:p.stIdx+1])
	return &q
}

// addPiece and removePiece keep the board array and every occupancy
// mask in sync. They do not touch hash keys; DoMove owns those.
func (p *Position) addPiece(s Square, pc Piece, abil AbilityMask) {
	p.board[s] = pc
	p.abilities[s] = abil
	t, c := pc.Type(), pc.Color()
	p.byType[t].Set(s)
	p.byColor[c].Set(s)
	for m := AbilityOf(t) | abil; m != 0; {
		p.byMobility[m.PopType()].Set(s)
	}
	if t == King {
		p.kingSq[c] = s
	}
}

func (p *Position) removePiece(s Square) {
	pc := p.board[s]
	t, c := pc.Type(), pc.Color()
	p.board[s] = NoPiece
	p.byType[t].Clear(s)
	p.byColor[c].Clear(s)
	for m := AbilityOf(t) | p.abilities[s]; m != 0; {
		p.byMobility[m.PopType()].Clear(s)
	}
	p.abilities[s] = 0
}

func (p *Position) String() string {
	var sb strings.Builder
	for r := RankNB - 1; r >= 0; r-- {
		sb.WriteByte(byte('0' + r))
		sb.WriteByte(' ')
		for f := 0; f < FileNB; f++ {
			s := MakeSquare(f, r)
			if p.board[s] == NoPiece {
				sb.WriteString(" .")
				continue
			}
			sb.WriteByte(' ')
			sb.WriteByte(p.board[s].Char())
		}
		sb.WriteByte('\n')
	}
	sb.WriteString("   a b c d e f g h i\n")
	sb.WriteString("fen: " + p.FEN() + "\n")
	return sb.String()
}
