package engine

import (
	"fmt"

	"github.com/official-pikafish/Pikafish-sub000/xqmg"
)

const (
	historyMax = 16384

	corrHistBits = 14
	corrHistSize = 1 << corrHistBits
	corrHistMax  = 1024
)

// historyTables are per-worker move-ordering and eval-correction
// statistics. Lazy SMP keeps one set per worker; nothing here is
// shared.
type historyTables struct {
	// butterfly history, [side][from][to]
	history [xqmg.ColorNB][xqmg.SquareNB][xqmg.SquareNB]int32
	// capture history, [mover type][to][victim type]
	captureHistory [xqmg.PieceTypeNB][xqmg.SquareNB][xqmg.PieceTypeNB]int32
	counterMove    [xqmg.ColorNB][xqmg.SquareNB][xqmg.SquareNB]xqmg.Move
	killers        [MaxPly + 2][2]xqmg.Move
	// correction history nudges the static eval toward recent search
	// outcomes, keyed by side and pawn-structure hash.
	corrHist [xqmg.ColorNB][corrHistSize]int32
}

func (h *historyTables) clear() {
	*h = historyTables{}
}

func (h *historyTables) clearKillersFrom(ply int) {
	for i := ply; i < len(h.killers); i++ {
		h.killers[i][0] = xqmg.MoveNone
		h.killers[i][1] = xqmg.MoveNone
	}
}

// statBonus scales update magnitude with depth; deep conclusions are
// worth more than shallow ones.
func statBonus(depth int) int32 {
	return min(int32(depth)*int32(depth)*4+int32(depth)*16, 1200)
}

func (h *historyTables) updateHistory(c xqmg.Color, m xqmg.Move, bonus int32) {
	e := &h.history[c][m.From()][m.To()]
	*e += bonus - *e*abs(bonus)/historyMax
}

func (h *historyTables) historyScore(c xqmg.Color, m xqmg.Move) int32 {
	return h.history[c][m.From()][m.To()]
}

func (h *historyTables) updateCaptureHistory(p *xqmg.Position, m xqmg.Move, bonus int32) {
	mover := p.PieceOn(m.From()).Type()
	victim := p.PieceOn(m.To()).Type()
	e := &h.captureHistory[mover][m.To()][victim]
	*e += bonus - *e*abs(bonus)/historyMax
}

func (h *historyTables) captureScore(p *xqmg.Position, m xqmg.Move) int32 {
	return h.captureHistory[p.PieceOn(m.From()).Type()][m.To()][p.PieceOn(m.To()).Type()]
}

func (h *historyTables) storeKiller(ply int, m xqmg.Move) {
	if h.killers[ply][0] != m {
		h.killers[ply][1] = h.killers[ply][0]
		h.killers[ply][0] = m
	}
}

func (h *historyTables) storeCounter(c xqmg.Color, prev, m xqmg.Move) {
	if prev != xqmg.MoveNone {
		h.counterMove[c][prev.From()][prev.To()] = m
	}
}

func (h *historyTables) counter(c xqmg.Color, prev xqmg.Move) xqmg.Move {
	if prev == xqmg.MoveNone {
		return xqmg.MoveNone
	}
	return h.counterMove[c][prev.From()][prev.To()]
}

func corrHistIndex(p *xqmg.Position) uint64 {
	return p.PawnKey() & (corrHistSize - 1)
}

// correctedEval blends the raw evaluation with the learned correction
// term for this side and pawn structure.
func (h *historyTables) correctedEval(p *xqmg.Position, raw int32) int32 {
	c := h.corrHist[p.SideToMove()][corrHistIndex(p)]
	v := raw + c/8
	return clamp(v, -xqmg.ValueMateInMaxPly+1, xqmg.ValueMateInMaxPly-1)
}

func (h *historyTables) updateCorrection(p *xqmg.Position, staticEval, searchScore int32, depth int) {
	diff := clamp((searchScore-staticEval)*int32(depth)/8, -corrHistMax/4, corrHistMax/4)
	e := &h.corrHist[p.SideToMove()][corrHistIndex(p)]
	*e = clamp(*e+diff-*e*abs(diff)/corrHistMax, -corrHistMax, corrHistMax)
}

// scoreString renders a score in protocol form.
func scoreString(score int32) string {
	if d := MateDistance(score); d != 0 {
		return fmt.Sprintf("mate %d", d)
	}
	return fmt.Sprintf("cp %d", score)
}
