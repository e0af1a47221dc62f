package xqmg

// Zobrist keys, seeded deterministically so hashes are stable across
// runs and processes.

var (
	zobristPiece   [ColorNB][PieceTypeNB][SquareNB]uint64
	zobristAbility [PieceTypeNB][SquareNB]uint64
	zobristSide    uint64
)

type splitMix64 struct{ state uint64 }

func (r *splitMix64) next() uint64 {
	r.state += 0x9e3779b97f4a7c15
	z := r.state
	z = (z ^ (z >> 30)) * 0xbf58476d1ce4e5b9
	z = (z ^ (z >> 27)) * 0x94d049bb133111eb
	return z ^ (z >> 31)
}

func init() {
	rng := splitMix64{state: 0xC0DE}
	for c := Color(0); c < ColorNB; c++ {
		for t := King; t < PieceTypeNB; t++ {
			for s := 0; s < SquareNB; s++ {
				zobristPiece[c][t][s] = rng.next()
			}
		}
	}
	for t := King; t < PieceTypeNB; t++ {
		for s := 0; s < SquareNB; s++ {
			zobristAbility[t][s] = rng.next()
		}
	}
	zobristSide = rng.next()
}

func pieceSquareKey(pc Piece, s Square) uint64 {
	return zobristPiece[pc.Color()][pc.Type()][s]
}

// abilityKeys folds every absorbed ability on s into one key delta.
func abilityKeys(s Square, a AbilityMask) uint64 {
	var k uint64
	for m := a; m != 0; {
		k ^= zobristAbility[m.PopType()][s]
	}
	return k
}

// computeKeysFromScratch rebuilds every hash partition and the
// material counters from the board. Used at set-up and by consistency
// tests against the incrementally maintained values.
func (p *Position) computeKeysFromScratch(st *StateInfo) {
	st.Key, st.PawnKey, st.MinorKey = 0, 0, 0
	st.NonPawnKey = [ColorNB]uint64{}
	st.MajorMaterial = [ColorNB]int32{}
	for s := Square(0); s < SquareNB; s++ {
		pc := p.board[s]
		if pc == NoPiece {
			continue
		}
		k := pieceSquareKey(pc, s)
		st.Key ^= k ^ abilityKeys(s, p.abilities[s])
		t, c := pc.Type(), pc.Color()
		switch t {
		case Pawn:
			st.PawnKey ^= k
		case Advisor, Elephant:
			st.MinorKey ^= k
			st.NonPawnKey[c] ^= k
		default:
			st.NonPawnKey[c] ^= k
		}
		if isMajor(t) {
			st.MajorMaterial[c] += MidgameValue(t)
		}
	}
	if p.sideToMove == Black {
		st.Key ^= zobristSide
	}
}

func isMajor(t PieceType) bool {
	return t == Rook || t == Cannon || t == Knight
}
