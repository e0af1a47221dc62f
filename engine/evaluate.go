package engine

import (
	"github.com/official-pikafish/Pikafish-sub000/xqmg"
)

// Evaluator scores a position from the side to move's point of view.
// The search treats it as an opaque collaborator so a stronger
// evaluator can be dropped in without touching the search.
type Evaluator interface {
	Evaluate(p *xqmg.Position) int32
}

// ClassicalEvaluator scores material, absorbed-ability premiums and
// piece placement. Compound pieces are the whole point of the
// absorption rule, so gained abilities are priced at a healthy share
// of the donor piece's value.
type ClassicalEvaluator struct{}

func NewClassicalEvaluator() *ClassicalEvaluator { return &ClassicalEvaluator{} }

const (
	tempoBonus = 12

	// An absorbed ability is worth this fraction (in 1/256ths) of the
	// donor type's midgame value. Below full value: the compound
	// piece still dies as one piece.
	abilityPremium = 168
)

func (e *ClassicalEvaluator) Evaluate(p *xqmg.Position) int32 {
	var score [xqmg.ColorNB]int32

	for bb := p.Occupied(); !bb.IsEmpty(); {
		s := bb.PopLSB()
		pc := p.PieceOn(s)
		c := pc.Color()
		t := pc.Type()

		v := xqmg.MidgameValue(t)
		for a := p.AbilitiesOn(s); a != 0; {
			v += xqmg.MidgameValue(a.PopType()) * abilityPremium / 256
		}
		score[c] += v + pieceSquareBonus(c, t, s)
	}

	us := p.SideToMove()
	return score[us] - score[us.Other()] + tempoBonus
}

// pieceSquareBonus is procedural rather than table-driven: the board
// is symmetric enough that distance terms cover what fixed tables
// would, and absorbed abilities make per-type tables unreliable
// anyway.
func pieceSquareBonus(c xqmg.Color, t xqmg.PieceType, s xqmg.Square) int32 {
	rank := s.Rank()
	if c == xqmg.Black {
		rank = xqmg.RankNB - 1 - rank
	}
	file := s.File()
	centerDist := int32(abs(file - 4))

	switch t {
	case xqmg.Pawn:
		// Pawns gain little before the river and a lot after it;
		// sideways mobility appears at rank 5.
		if rank >= 5 {
			return 25 + 8*int32(rank-5) + (4-centerDist)*4
		}
		return int32(rank-3) * 2
	case xqmg.Knight:
		rim := int32(0)
		if file == 0 || file == 8 {
			rim = -12
		}
		return (4-centerDist)*4 + int32(rank)*2 + rim
	case xqmg.Cannon:
		// Cannons like the center files and their own half, where
		// screens are plentiful.
		if rank <= 4 {
			return (4 - centerDist) * 5
		}
		return (4 - centerDist) * 3
	case xqmg.Rook:
		return int32(rank) * 2
	case xqmg.Advisor, xqmg.Elephant:
		// Defenders are happiest at home.
		if rank <= 2 {
			return 5
		}
	}
	return 0
}
