package xqmg

// GenMode selects what GenerateMoves produces. All modes except
// LegalMoves yield pseudo-legal moves; king safety is the caller's
// problem (or use LegalMoves).
type GenMode uint8

const (
	Captures GenMode = iota
	Quiets
	NonEvasions
	Evasions
	LegalMoves
)

// MaxMoves comfortably exceeds the densest reachable legal-move count,
// absorbed abilities included.
const MaxMoves = 192

// typeDests returns the quiet destinations and capture destinations of
// movement type pt for a piece of color c on s. Capture squares are
// any occupied square hit by the capture geometry; the caller masks
// off friendly pieces.
func (p *Position) typeDests(pt PieceType, c Color, s Square, occ Bitboard) (quiets, caps Bitboard) {
	switch pt {
	case King:
		a := KingAttacks(c, s)
		return a.AndNot(occ), a.And(occ)
	case Advisor:
		a := AdvisorAttacks(c, s)
		return a.AndNot(occ), a.And(occ)
	case Elephant:
		a := ElephantAttacks(c, s, occ)
		return a.AndNot(occ), a.And(occ)
	case Knight:
		a := KnightAttacks(s, occ)
		return a.AndNot(occ), a.And(occ)
	case Rook:
		a := RookAttacks(s, occ)
		return a.AndNot(occ), a.And(occ)
	case Cannon:
		// Cannon quiet geometry is rook-like; captures need a hurdle.
		return RookAttacks(s, occ).AndNot(occ), CannonCaptures(s, occ)
	case Pawn:
		a := PawnAttacks(c, s)
		return a.AndNot(occ), a.And(occ)
	}
	return Bitboard{}, Bitboard{}
}

// dests unions the destinations of the piece's base type and every
// absorbed ability.
func (p *Position) dests(s Square, occ Bitboard) (quiets, caps Bitboard) {
	c := p.board[s].Color()
	for m := p.mobilityOf(s); m != 0; {
		q, cp := p.typeDests(m.PopType(), c, s, occ)
		quiets = quiets.Or(q)
		caps = caps.Or(cp)
	}
	return quiets, caps
}

func appendMoves(moves []Move, from Square, dests Bitboard) []Move {
	for !dests.IsEmpty() {
		moves = append(moves, NewMove(from, dests.PopLSB()))
	}
	return moves
}

// GenerateMoves appends moves for the side to move into buf and
// returns the extended slice. Pass a reused buffer to stay
// allocation-free on the hot path.
func (p *Position) GenerateMoves(mode GenMode, buf []Move) []Move {
	switch mode {
	case LegalMoves:
		if p.InCheck() {
			buf = p.GenerateMoves(Evasions, buf)
		} else {
			buf = p.GenerateMoves(NonEvasions, buf)
		}
		// Swap-with-last filtering keeps this O(n).
		for i, n := 0, len(buf); i < n; {
			if p.Legal(buf[i]) {
				i++
			} else {
				n--
				buf[i] = buf[n]
				buf = buf[:n]
			}
		}
		return buf
	case Evasions:
		return p.generateEvasions(buf)
	}

	us := p.sideToMove
	occ := p.Occupied()
	enemy := p.byColor[us.Other()]
	for pieces := p.byColor[us]; !pieces.IsEmpty(); {
		s := pieces.PopLSB()
		quiets, caps := p.dests(s, occ)
		if mode != Quiets {
			buf = appendMoves(buf, s, caps.And(enemy))
		}
		if mode != Captures {
			buf = appendMoves(buf, s, quiets)
		}
	}
	return buf
}

// generateEvasions produces check evasions. With one checker the
// targets shrink to the checker square, interpositions on the line to
// the king (for a cannon checker that includes displacing or adding a
// screen), and king steps. Double check falls back to everything;
// only king moves will survive the legality filter anyway.
func (p *Position) generateEvasions(buf []Move) []Move {
	us := p.sideToMove
	checkers := p.st().Checkers
	if checkers.Count() > 1 {
		return p.GenerateMoves(NonEvasions, buf)
	}

	occ := p.Occupied()
	ksq := p.kingSq[us]
	csq := checkers.PopLSB()

	target := SquareBB(csq)
	target = target.Or(betweenBB[ksq][csq])

	// A knight check runs through an empty leg next to the knight;
	// occupying that leg blocks it.
	if p.mobilityOf(csq).Has(Knight) {
		for _, st := range knightAttackerSteps[ksq] {
			if st.to == csq && !occ.Test(st.over) {
				target.Set(st.over)
			}
		}
	}

	// Non-king moves restricted to the target set.
	own := p.byColor[us]
	for pieces := own.AndNot(SquareBB(ksq)); !pieces.IsEmpty(); {
		s := pieces.PopLSB()
		quiets, caps := p.dests(s, occ)
		buf = appendMoves(buf, s, quiets.Or(caps.AndNot(own)).And(target))
	}

	// A cannon check dies when its single screen leaves the line, so
	// a friendly screen may run anywhere off the checking ray.
	if p.mobilityOf(csq).Has(Cannon) {
		line := betweenBB[ksq][csq]
		screens := line.And(occ).And(own)
		for !screens.IsEmpty() {
			s := screens.PopLSB()
			quiets, caps := p.dests(s, occ)
			buf = appendMoves(buf, s, quiets.Or(caps.AndNot(own)).AndNot(target))
		}
	}

	// King steps.
	quiets, caps := p.dests(ksq, occ)
	buf = appendMoves(buf, ksq, quiets.Or(caps.AndNot(own)))
	return buf
}

// IsPseudoLegal validates a move sourced from outside the generator
// (hash table, protocol input) against the current position.
func (p *Position) IsPseudoLegal(m Move) bool {
	if m == MoveNone {
		return false
	}
	from, to := m.From(), m.To()
	if from == to || from < 0 || from >= SquareNB || to < 0 || to >= SquareNB {
		return false
	}
	pc := p.board[from]
	if pc == NoPiece || pc.Color() != p.sideToMove {
		return false
	}
	if p.board[to] != NoPiece && p.board[to].Color() == p.sideToMove {
		return false
	}
	occ := p.Occupied()
	quiets, caps := p.dests(from, occ)
	if p.board[to] == NoPiece {
		return quiets.Test(to)
	}
	return caps.Test(to)
}

// Perft counts leaf nodes of the legal move tree to the given depth.
func Perft(p *Position, depth int) uint64 {
	moves := p.GenerateMoves(LegalMoves, make([]Move, 0, MaxMoves))
	if depth <= 1 {
		return uint64(len(moves))
	}
	var nodes uint64
	for _, m := range moves {
		p.DoMove(m)
		nodes += Perft(p, depth-1)
		p.UndoMove()
	}
	return nodes
}

// PerftDivide maps each root move to its subtree leaf count.
func PerftDivide(p *Position, depth int) map[Move]uint64 {
	div := make(map[Move]uint64)
	for _, m := range p.GenerateMoves(LegalMoves, nil) {
		if depth <= 1 {
			div[m] = 1
			continue
		}
		p.DoMove(m)
		div[m] = Perft(p, depth-1)
		p.UndoMove()
	}
	return div
}
