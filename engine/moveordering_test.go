package engine

import (
	"testing"

	"github.com/official-pikafish/Pikafish-sub000/xqmg"
)

func TestScoreMovesOrdering(t *testing.T) {
	pos := position(t, xqmg.StartPos)
	w := &worker{pos: pos}
	moves := pos.GenerateMoves(xqmg.NonEvasions, nil)

	ttMove := moves[7]
	list := w.scoreMoves(w.scoredBuf(0, 0), moves, ttMove, 0, xqmg.MoveNone)
	if len(list.moves) != len(moves) {
		t.Fatalf("scored %d of %d moves", len(list.moves), len(moves))
	}
	if first := orderNextMove(0, &list); first != ttMove {
		t.Errorf("first picked move = %s, want the hash move %s", first, ttMove)
	}
}

func TestScoringIsAllocationFree(t *testing.T) {
	pos := position(t, xqmg.StartPos)
	w := &worker{pos: pos}
	moves := pos.GenerateMoves(xqmg.NonEvasions, w.moveBuf(0))
	caps := pos.GenerateMoves(xqmg.Captures, w.moveBuf(1))

	// Warm the lazily built arenas first.
	w.scoreMoves(w.scoredBuf(0, 0), moves, xqmg.MoveNone, 0, xqmg.MoveNone)
	w.scoreCaptures(w.scoredBuf(1, 0), caps, xqmg.MoveNone)

	allocs := testing.AllocsPerRun(50, func() {
		w.scoreMoves(w.scoredBuf(0, 0), moves, xqmg.MoveNone, 0, xqmg.MoveNone)
		w.scoreCaptures(w.scoredBuf(1, 0), caps, xqmg.MoveNone)
	})
	if allocs != 0 {
		t.Errorf("move scoring allocates %.1f times per node", allocs)
	}
}

func TestSingularArenaIsDistinct(t *testing.T) {
	pos := position(t, xqmg.StartPos)
	w := &worker{pos: pos}
	moves := pos.GenerateMoves(xqmg.NonEvasions, w.moveBuf(3))

	outer := w.scoreMoves(w.scoredBuf(3, 0), moves, xqmg.MoveNone, 3, xqmg.MoveNone)
	first := orderNextMove(0, &outer)

	// A verification at the same ply must not disturb the outer list.
	inner := w.scoreMoves(w.scoredBuf(3, 1), moves, xqmg.MoveNone, 3, xqmg.MoveNone)
	for i := range inner.moves {
		orderNextMove(i, &inner)
	}
	if outer.moves[0].move != first {
		t.Error("same-ply rescoring clobbered the outer move list")
	}
}
