package engine

import (
	"github.com/official-pikafish/Pikafish-sub000/xqmg"
)

type scoredMove struct {
	move  xqmg.Move
	score int32
}

type moveList struct {
	moves []scoredMove
}

// Most Valuable Victim - Least Valuable Aggressor over the seven piece
// types (index by base type; absorbed abilities do not change what a
// piece is worth to lose).
var mvvLva = [xqmg.PieceTypeNB][xqmg.PieceTypeNB]int32{
	//         -   K   A   B   N   C   R   P   (attacker)
	xqmg.Advisor:  {0, 20, 24, 24, 23, 22, 21, 25},
	xqmg.Elephant: {0, 20, 24, 24, 23, 22, 21, 25},
	xqmg.Knight:   {0, 40, 44, 44, 43, 42, 41, 45},
	xqmg.Cannon:   {0, 50, 54, 54, 53, 52, 51, 55},
	xqmg.Rook:     {0, 60, 64, 64, 63, 62, 61, 65},
	xqmg.Pawn:     {0, 10, 14, 14, 13, 12, 11, 15},
}

// Ordering offsets. The hash move always goes first; winning captures
// beat everything quiet; killers and the counter move lead the quiets;
// history scores order the rest.
const (
	hashMoveScore   int32 = 1 << 26
	goodCaptureBase int32 = 1 << 22
	killerScore     int32 = 1 << 20
	counterScore    int32 = killerScore - 1
	badCaptureBase  int32 = -(1 << 22)
)

// scoreMoves attaches an ordering score to every generated move,
// appending into dst so steady-state nodes stay allocation-free.
// Captures are split into winning and losing by a zero-threshold
// exchange test.
func (w *worker) scoreMoves(dst []scoredMove, moves []xqmg.Move, ttMove xqmg.Move, ply int, prevMove xqmg.Move) moveList {
	p := w.pos
	us := p.SideToMove()

	killer0 := w.hist.killers[ply][0]
	killer1 := w.hist.killers[ply][1]
	counter := w.hist.counter(us, prevMove)

	for _, m := range moves {
		var score int32
		switch {
		case m == ttMove:
			score = hashMoveScore
		case p.PieceOn(m.To()) != xqmg.NoPiece:
			victim := p.PieceOn(m.To()).Type()
			attacker := p.PieceOn(m.From()).Type()
			score = mvvLva[victim][attacker]*16 + w.hist.captureScore(p, m)/32
			if p.SeeGE(m, 0) {
				score += goodCaptureBase
			} else {
				score += badCaptureBase
			}
		case m == killer0:
			score = killerScore + 1
		case m == killer1:
			score = killerScore
		case m == counter:
			score = counterScore
		default:
			score = w.hist.historyScore(us, m)
		}
		dst = append(dst, scoredMove{move: m, score: score})
	}
	return moveList{moves: dst}
}

// scoreCaptures orders quiescence captures by MVV/LVA and capture
// history only; the exchange filter runs at use time.
func (w *worker) scoreCaptures(dst []scoredMove, moves []xqmg.Move, ttMove xqmg.Move) moveList {
	p := w.pos
	for _, m := range moves {
		var score int32
		if m == ttMove {
			score = hashMoveScore
		} else {
			victim := p.PieceOn(m.To()).Type()
			attacker := p.PieceOn(m.From()).Type()
			score = mvvLva[victim][attacker]*16 + w.hist.captureScore(p, m)/32
		}
		dst = append(dst, scoredMove{move: m, score: score})
	}
	return moveList{moves: dst}
}

// orderNextMove selection-sorts the highest-scored remaining move into
// slot i. One pass per picked move keeps early cutoffs cheap.
func orderNextMove(i int, list *moveList) xqmg.Move {
	best := i
	for j := i + 1; j < len(list.moves); j++ {
		if list.moves[j].score > list.moves[best].score {
			best = j
		}
	}
	list.moves[i], list.moves[best] = list.moves[best], list.moves[i]
	return list.moves[i].move
}
