package xqmg

// Precomputed geometry tables. All tables are immutable after init.

type legStep struct {
	over Square // square that must be empty
	to   Square
}

var (
	// rays[s][d] lists the squares outward from s in direction d
	// (N, S, E, W), nearest first.
	rays      [SquareNB][4][]Square
	fullRayBB [SquareNB]Bitboard
	fileRayBB [SquareNB]Bitboard

	// betweenBB[a][b] holds the squares strictly between two aligned
	// squares; empty when a and b share no rank or file.
	betweenBB [SquareNB][SquareNB]Bitboard

	kingAttackBB    [ColorNB][SquareNB]Bitboard
	advisorAttackBB [ColorNB][SquareNB]Bitboard
	pawnAttackBB    [ColorNB][SquareNB]Bitboard
	pawnAttackerBB  [ColorNB][SquareNB]Bitboard

	elephantSteps [SquareNB][]legStep
	knightSteps   [SquareNB][]legStep
	// knightAttackerSteps[s] lists (leg, from) pairs such that a
	// knight on from attacks s when leg is empty.
	knightAttackerSteps [SquareNB][]legStep
)

var rookDeltas = [4][2]int{{0, 1}, {0, -1}, {1, 0}, {-1, 0}} // df, dr

func onBoard(f, r int) bool { return f >= 0 && f < FileNB && r >= 0 && r < RankNB }

func init() {
	for s := Square(0); s < SquareNB; s++ {
		f, r := s.File(), s.Rank()

		for d, delta := range rookDeltas {
			for nf, nr := f+delta[0], r+delta[1]; onBoard(nf, nr); nf, nr = nf+delta[0], nr+delta[1] {
				ns := MakeSquare(nf, nr)
				rays[s][d] = append(rays[s][d], ns)
				fullRayBB[s].Set(ns)
				if delta[0] == 0 {
					fileRayBB[s].Set(ns)
				}
			}
		}

		for _, delta := range rookDeltas {
			var between Bitboard
			for nf, nr := f+delta[0], r+delta[1]; onBoard(nf, nr); nf, nr = nf+delta[0], nr+delta[1] {
				ns := MakeSquare(nf, nr)
				betweenBB[s][ns] = between
				between.Set(ns)
			}
		}

		for c := Color(0); c < ColorNB; c++ {
			if inPalace(c, s) {
				for _, delta := range rookDeltas {
					nf, nr := f+delta[0], r+delta[1]
					if onBoard(nf, nr) && inPalace(c, MakeSquare(nf, nr)) {
						kingAttackBB[c][s].Set(MakeSquare(nf, nr))
					}
				}
				for _, delta := range [4][2]int{{1, 1}, {1, -1}, {-1, 1}, {-1, -1}} {
					nf, nr := f+delta[0], r+delta[1]
					if onBoard(nf, nr) && inPalace(c, MakeSquare(nf, nr)) {
						advisorAttackBB[c][s].Set(MakeSquare(nf, nr))
					}
				}
			}

			forward := 1
			if c == Black {
				forward = -1
			}
			if onBoard(f, r+forward) {
				pawnAttackBB[c][s].Set(MakeSquare(f, r+forward))
			}
			if crossedRiver(c, s) {
				for _, df := range [2]int{1, -1} {
					if onBoard(f+df, r) {
						pawnAttackBB[c][s].Set(MakeSquare(f+df, r))
					}
				}
			}
		}

		for _, d := range [4][2]int{{2, 2}, {2, -2}, {-2, 2}, {-2, -2}} {
			nf, nr := f+d[0], r+d[1]
			if onBoard(nf, nr) {
				elephantSteps[s] = append(elephantSteps[s],
					legStep{over: MakeSquare(f+d[0]/2, r+d[1]/2), to: MakeSquare(nf, nr)})
			}
		}

		for _, d := range [8][2]int{
			{1, 2}, {-1, 2}, {1, -2}, {-1, -2},
			{2, 1}, {2, -1}, {-2, 1}, {-2, -1},
		} {
			nf, nr := f+d[0], r+d[1]
			if !onBoard(nf, nr) {
				continue
			}
			// The leg sits one step from the origin along the long axis.
			lf, lr := f, r
			if d[0] == 2 || d[0] == -2 {
				lf = f + d[0]/2
			} else {
				lr = r + d[1]/2
			}
			knightSteps[s] = append(knightSteps[s],
				legStep{over: MakeSquare(lf, lr), to: MakeSquare(nf, nr)})
		}
	}

	// Reverse table: derived after all forward knight steps exist.
	for s := Square(0); s < SquareNB; s++ {
		for _, st := range knightSteps[s] {
			knightAttackerSteps[st.to] = append(knightAttackerSteps[st.to],
				legStep{over: st.over, to: s})
		}
	}

	// Pawn attacker tables are the reverse of the attack tables.
	for c := Color(0); c < ColorNB; c++ {
		for s := Square(0); s < SquareNB; s++ {
			for bb := pawnAttackBB[c][s]; !bb.IsEmpty(); {
				pawnAttackerBB[c][bb.PopLSB()].Set(s)
			}
		}
	}
}

// RookAttacks returns the rook-pattern attack set from s: every empty
// ray square plus the first blocker in each direction.
func RookAttacks(s Square, occ Bitboard) Bitboard {
	var b Bitboard
	for d := 0; d < 4; d++ {
		for _, ns := range rays[s][d] {
			b.Set(ns)
			if occ.Test(ns) {
				break
			}
		}
	}
	return b
}

// FileAttacks is the file-only half of RookAttacks, used for the
// flying-general constraint.
func FileAttacks(s Square, occ Bitboard) Bitboard {
	var b Bitboard
	for d := 0; d < 2; d++ { // N and S rays come first
		for _, ns := range rays[s][d] {
			b.Set(ns)
			if occ.Test(ns) {
				break
			}
		}
	}
	return b
}

// CannonCaptures returns the squares a cannon on s captures on: the
// first occupied square beyond exactly one hurdle per direction.
func CannonCaptures(s Square, occ Bitboard) Bitboard {
	var b Bitboard
	for d := 0; d < 4; d++ {
		hurdle := false
		for _, ns := range rays[s][d] {
			if !occ.Test(ns) {
				continue
			}
			if !hurdle {
				hurdle = true
				continue
			}
			b.Set(ns)
			break
		}
	}
	return b
}

// KnightAttacks returns knight-pattern destinations from s under occ.
func KnightAttacks(s Square, occ Bitboard) Bitboard {
	var b Bitboard
	for _, st := range knightSteps[s] {
		if !occ.Test(st.over) {
			b.Set(st.to)
		}
	}
	return b
}

// knightAttackersTo returns the squares from which a knight-pattern
// piece attacks s under occ. Knight moves are not symmetric: the leg
// is adjacent to the origin, so the reverse table differs.
func knightAttackersTo(s Square, occ Bitboard) Bitboard {
	var b Bitboard
	for _, st := range knightAttackerSteps[s] {
		if !occ.Test(st.over) {
			b.Set(st.to)
		}
	}
	return b
}

// ElephantAttacks returns elephant-pattern destinations for a piece of
// color c: two-step diagonals with an empty eye, never crossing the
// river.
func ElephantAttacks(c Color, s Square, occ Bitboard) Bitboard {
	var b Bitboard
	for _, st := range elephantSteps[s] {
		if !occ.Test(st.over) && inHalf(c, st.to) {
			b.Set(st.to)
		}
	}
	return b
}

// elephantAttackersTo mirrors ElephantAttacks: a c-colored elephant
// can only attack squares on c's own half.
func elephantAttackersTo(c Color, s Square, occ Bitboard) Bitboard {
	if !inHalf(c, s) {
		return Bitboard{}
	}
	var b Bitboard
	for _, st := range elephantSteps[s] {
		if !occ.Test(st.over) {
			b.Set(st.to)
		}
	}
	return b
}

// KingAttacks and AdvisorAttacks are palace-confined and symmetric, so
// the same table serves generation and attack detection.
func KingAttacks(c Color, s Square) Bitboard    { return kingAttackBB[c][s] }
func AdvisorAttacks(c Color, s Square) Bitboard { return advisorAttackBB[c][s] }

// PawnAttacks doubles as the pawn move set; pawns capture the way
// they move.
func PawnAttacks(c Color, s Square) Bitboard { return pawnAttackBB[c][s] }
