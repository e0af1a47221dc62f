package xqmg

// seeValue orders pieces for exchange evaluation; the king is priced
// so it never profitably enters an exchange.
var seeValue = [PieceTypeNB]int32{0, 10000, 150, 150, 450, 500, 1000, 100}

func SeeValue(pt PieceType) int32 { return seeValue[pt] }

// exchangeAttackers drops the flying-general component from the
// attacker set: a king facing the square up an open file constrains
// the kings but can only ever capture adjacent inside its palace, so
// it takes no part in an exchange.
func (p *Position) exchangeAttackers(s Square, occ Bitboard) Bitboard {
	fly := FileAttacks(s, occ).And(p.byType[King]).
		AndNot(KingAttacks(Red, s)).AndNot(KingAttacks(Black, s))
	return p.attackersTo(s, occ).AndNot(fly)
}

// SeeGE reports whether the static exchange on m nets at least
// threshold. Attacker sets are recomputed from the evolving occupancy
// each iteration because cannon attacks appear and vanish as hurdles
// come and go.
func (p *Position) SeeGE(m Move, threshold int32) bool {
	from, to := m.From(), m.To()

	swap := seeValue[p.board[to].Type()] - threshold
	if swap < 0 {
		return false
	}
	swap = seeValue[p.board[from].Type()] - swap
	if swap <= 0 {
		return true
	}

	occ := p.Occupied()
	occ.Clear(from)
	occ.Set(to)
	stm := p.sideToMove
	res := int32(1)

	for {
		stm = stm.Other()
		attackers := p.exchangeAttackers(to, occ).And(occ).And(p.byColor[stm])
		if attackers.IsEmpty() {
			break
		}

		// Least valuable attacker first.
		var best Square = SquareNone
		bestVal := ValueInfinite
		for bb := attackers; !bb.IsEmpty(); {
			s := bb.PopLSB()
			if v := seeValue[p.board[s].Type()]; v < bestVal {
				bestVal, best = v, s
			}
		}

		res ^= 1
		if swap = bestVal - swap; swap < res {
			// A king capture only stands when the opponent has no
			// reply; otherwise the exchange ends one step earlier.
			if p.board[best].Type() == King &&
				!p.attackersTo(to, occ).And(occ).And(p.byColor[stm.Other()]).IsEmpty() {
				res ^= 1
			}
			break
		}
		occ.Clear(best)
	}
	return res != 0
}
