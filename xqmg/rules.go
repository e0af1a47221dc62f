package xqmg

// Score constants shared with the search. Mate scores are ply-adjusted
// so that shorter mates always compare higher.
const (
	ValueDraw     int32 = 0
	ValueMate     int32 = 32000
	ValueInfinite int32 = 32001

	// ValueMateInMaxPly bounds ply-adjusted mate scores.
	ValueMateInMaxPly int32 = ValueMate - 256

	// Rule60Limit is the halfmove-clock ceiling in plies.
	Rule60Limit = 120
)

func MateIn(ply int) int32  { return ValueMate - int32(ply) }
func MatedIn(ply int) int32 { return -ValueMate + int32(ply) }

// indexed by PieceType: -, K, A, B, N, C, R, P
var midgameValue = [PieceTypeNB]int32{0, 0, 150, 150, 450, 500, 1000, 100}

func MidgameValue(pt PieceType) int32 { return midgameValue[pt] }

// repetitionFilter is a bloom-style multiset over position keys on the
// current path. A count below two proves the current key is fresh and
// lets RuleJudge skip the exact frame walk.
const filterBits = 14

type repetitionFilter [1 << filterBits]uint8

func (f *repetitionFilter) slot(key uint64) *uint8 {
	return &f[key>>(64-filterBits)]
}

func (f *repetitionFilter) add(key uint64) {
	if s := f.slot(key); *s < 255 {
		*s++
	}
}

func (f *repetitionFilter) remove(key uint64) {
	if s := f.slot(key); *s > 0 {
		*s--
	}
}

func (f *repetitionFilter) count(key uint64) uint8 { return *f.slot(key) }

func (f *repetitionFilter) reset() { *f = repetitionFilter{} }

// insufficientMaterial holds when neither side retains any movement
// ability that can deliver mate.
func (p *Position) insufficientMaterial() bool {
	attackers := p.byMobility[Rook].
		Or(p.byMobility[Cannon]).
		Or(p.byMobility[Knight]).
		Or(p.byMobility[Pawn])
	return attackers.IsEmpty()
}

// RuleJudge adjudicates rule-based game ends at the current node:
// halfmove-clock exhaustion, bare-board draws, and repetitions with
// the perpetual check and perpetual chase rules. ply is the distance
// from the search root, used to shape mate scores. The bool reports
// whether the game ends here.
func (p *Position) RuleJudge(ply int) (int32, bool) {
	st := p.st()
	if st.Rule60 >= Rule60Limit {
		// The clock never rescues a side with no legal move; having
		// none loses outright, checked or not.
		var buf [MaxMoves]Move
		if len(p.GenerateMoves(LegalMoves, buf[:0])) == 0 {
			return MatedIn(ply), true
		}
		return ValueDraw, true
	}
	if p.insufficientMaterial() {
		return ValueDraw, true
	}
	if p.filter.count(st.Key) < 2 {
		return ValueDraw, false
	}

	end := p.stIdx
	if n := int(st.PliesFromNull); n < end {
		end = n
	}
	for d := 4; d <= end; d += 2 {
		if p.states[p.stIdx-d].Key != st.Key {
			continue
		}
		return p.adjudicateRepetition(p.stIdx-d, ply), true
	}
	return ValueDraw, false
}

// adjudicateRepetition decides a confirmed repetition cycle spanning
// frames (idx, stIdx]. Perpetual check loses; failing that, a
// one-sided perpetual chase loses; otherwise the repetition is a draw.
func (p *Position) adjudicateRepetition(idx, ply int) int32 {
	usChecked, themChecked := true, true
	for k := p.stIdx; k > idx; k-- {
		if p.states[k].Checkers.IsEmpty() {
			if (p.stIdx-k)%2 == 0 {
				usChecked = false
			} else {
				themChecked = false
			}
		}
	}
	switch {
	case usChecked && !themChecked:
		// The opponent checks us on every visit: they lose.
		return MateIn(ply)
	case themChecked && !usChecked:
		return MatedIn(ply)
	case usChecked && themChecked:
		return ValueDraw
	}

	chaseUs, chaseThem := p.cycleChases(idx)
	switch {
	case !chaseUs.IsEmpty() && chaseThem.IsEmpty():
		return MatedIn(ply)
	case !chaseThem.IsEmpty() && chaseUs.IsEmpty():
		return MateIn(ply)
	}
	return ValueDraw
}

// cycleChases replays the repetition cycle on the light path and
// intersects each side's chase set across every position it produced.
// Chased pieces are tracked by identity (their square at the cycle
// start) since they move during the cycle. The board is restored
// before returning.
func (p *Position) cycleChases(idx int) (chaseUs, chaseThem Bitboard) {
	for k := p.stIdx; k > idx; k-- {
		p.undoFrameLight(&p.states[k])
	}

	var id [SquareNB]Square
	for s := Square(0); s < SquareNB; s++ {
		id[s] = s
	}
	all := Bitboard{Lo: ^uint64(0), Hi: 1<<(SquareNB-64) - 1}
	var chaseBy [ColorNB]Bitboard
	chaseBy[Red], chaseBy[Black] = all, all

	for k := idx + 1; k <= p.stIdx; k++ {
		m := p.states[k].Move
		mover := p.sideToMove
		p.doMoveLight(m)
		p.sideToMove = p.sideToMove.Other()
		id[m.To()] = id[m.From()]

		mask := p.chased(mover.Other())
		var ids Bitboard
		for !mask.IsEmpty() {
			ids.Set(id[mask.PopLSB()])
		}
		chaseBy[mover] = chaseBy[mover].And(ids)
	}

	us := p.sideToMove
	return chaseBy[us], chaseBy[us.Other()]
}

// undoFrameLight rewinds one stored frame on the light path without
// popping it, so the arena can be replayed forward afterwards.
func (p *Position) undoFrameLight(st *StateInfo) {
	m := st.Move
	pc := p.board[m.To()]
	p.removePiece(m.To())
	p.addPiece(m.From(), pc, st.moverAbil)
	if st.CapturedPiece != NoPiece {
		p.addPiece(m.To(), st.CapturedPiece, st.capturedAbil)
	}
	p.sideToMove = p.sideToMove.Other()
}

// chased flags the squares of c's pieces chased by the opponent: a
// non-king, non-pawn mover attacks the piece, the capture would be
// legal, and no legal recapture answers it. Pawns still on their own
// side of the river are not protected by the chase rule.
func (p *Position) chased(c Color) Bitboard {
	var chase Bitboard
	them := c.Other()
	occ := p.Occupied()

	targets := p.byColor[c].AndNot(p.byType[King])
	for bb := p.byType[Pawn].And(p.byColor[c]); !bb.IsEmpty(); {
		if s := bb.PopLSB(); !crossedRiver(c, s) {
			targets.Clear(s)
		}
	}
	if targets.IsEmpty() {
		return chase
	}

	attackers := p.byColor[them].AndNot(p.byType[King]).AndNot(p.byType[Pawn])
	for bb := attackers; !bb.IsEmpty(); {
		a := bb.PopLSB()
		_, caps := p.dests(a, occ)
		for hits := caps.And(targets); !hits.IsEmpty(); {
			t := hits.PopLSB()
			// Like pieces threatening each other is an exchange
			// offer, not a chase.
			if p.board[t].Type() == p.board[a].Type() {
				continue
			}
			u := p.doMoveLight(NewMove(a, t))
			legal := p.attackersTo(p.kingSq[them], p.Occupied()).And(p.byColor[c]).IsEmpty()
			if legal && !p.hasLegalRecapture(c, t) {
				chase.Set(t)
			}
			p.undoMoveLight(u)
		}
	}
	return chase
}

func (p *Position) hasLegalRecapture(c Color, s Square) bool {
	for bb := p.attackersTo(s, p.Occupied()).And(p.byColor[c]); !bb.IsEmpty(); {
		a := bb.PopLSB()
		u := p.doMoveLight(NewMove(a, s))
		ok := p.attackersTo(p.kingSq[c], p.Occupied()).And(p.byColor[c.Other()]).IsEmpty()
		p.undoMoveLight(u)
		if ok {
			return true
		}
	}
	return false
}
