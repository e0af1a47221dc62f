package xqmg

// absorbable reports whether capturing a victim of type vt grants a
// capturer of type mt the victim's movement ability. Kings neither
// grant nor gain anything, like types add nothing, and rook movement
// already covers everything a pawn can do.
func absorbable(mt, vt PieceType) bool {
	if mt == King || vt == King || vt == mt {
		return false
	}
	if mt == Rook && vt == Pawn {
		return false
	}
	return true
}

// attackersTo returns every piece of either color attacking s under
// the given occupancy, honoring absorbed movement abilities. The
// flying-general facing rule appears here as a king "attack" along an
// open file.
func (p *Position) attackersTo(s Square, occ Bitboard) Bitboard {
	a := RookAttacks(s, occ).And(p.byMobility[Rook])
	a = a.Or(CannonCaptures(s, occ).And(p.byMobility[Cannon]))
	a = a.Or(knightAttackersTo(s, occ).And(p.byMobility[Knight]))
	a = a.Or(FileAttacks(s, occ).And(p.byType[King]))
	for c := Red; c <= Black; c++ {
		side := p.byColor[c]
		a = a.Or(pawnAttackerBB[c][s].And(p.byMobility[Pawn]).And(side))
		a = a.Or(KingAttacks(c, s).And(p.byMobility[King]).And(side))
		a = a.Or(AdvisorAttacks(c, s).And(p.byMobility[Advisor]).And(side))
		a = a.Or(elephantAttackersTo(c, s, occ).And(p.byMobility[Elephant]).And(side))
	}
	return a
}

// AttackersTo is the exported occupancy-parameterized form used by
// exchange evaluation.
func (p *Position) AttackersTo(s Square, occ Bitboard) Bitboard {
	return p.attackersTo(s, occ)
}

// computeKingGuards collects the squares where motion can change c's
// king safety: every square on a rook ray from the king (covers rook,
// cannon and facing discoveries in both directions) plus occupied leg
// squares of enemy knight-movers positioned against the king.
func (p *Position) computeKingGuards(c Color) Bitboard {
	ksq := p.kingSq[c]
	if ksq == SquareNone {
		return Bitboard{}
	}
	guards := fullRayBB[ksq]
	occ := p.Occupied()
	enemyKnights := p.byMobility[Knight].And(p.byColor[c.Other()])
	for _, st := range knightAttackerSteps[ksq] {
		if enemyKnights.Test(st.to) && occ.Test(st.over) {
			guards.Set(st.over)
		}
	}
	return guards
}

// DoMove applies a legal move. Legality is the caller's contract;
// passing an illegal move corrupts the position.
func (p *Position) DoMove(m Move) {
	prev := *p.st()
	p.stIdx++
	if p.stIdx == len(p.states) {
		p.states = append(p.states, StateInfo{})
	}
	st := &p.states[p.stIdx]
	*st = StateInfo{
		PawnKey:       prev.PawnKey,
		MinorKey:      prev.MinorKey,
		NonPawnKey:    prev.NonPawnKey,
		MajorMaterial: prev.MajorMaterial,
		CheckStreak:   prev.CheckStreak,
		Rule60:        prev.Rule60 + 1,
		PliesFromNull: prev.PliesFromNull + 1,
		Move:          m,
	}

	us := p.sideToMove
	them := us.Other()
	from, to := m.From(), m.To()
	pc := p.board[from]
	captured := p.board[to]
	key := prev.Key ^ zobristSide

	moverAbil := p.abilities[from]
	st.moverAbil = moverAbil
	newAbil := moverAbil

	if captured != NoPiece {
		capAbil := p.abilities[to]
		st.CapturedPiece = captured
		st.capturedAbil = capAbil
		k := pieceSquareKey(captured, to)
		key ^= k ^ abilityKeys(to, capAbil)
		ct := captured.Type()
		switch ct {
		case Pawn:
			st.PawnKey ^= k
		case Advisor, Elephant:
			st.MinorKey ^= k
			st.NonPawnKey[them] ^= k
		default:
			st.NonPawnKey[them] ^= k
		}
		if isMajor(ct) {
			st.MajorMaterial[them] -= MidgameValue(ct)
		}
		p.removePiece(to)
		st.Rule60 = 0
		if absorbable(pc.Type(), ct) {
			newAbil.Add(ct)
		}
	}

	kf := pieceSquareKey(pc, from)
	kt := pieceSquareKey(pc, to)
	key ^= kf ^ kt ^ abilityKeys(from, moverAbil) ^ abilityKeys(to, newAbil)
	switch pc.Type() {
	case Pawn:
		st.PawnKey ^= kf ^ kt
	case Advisor, Elephant:
		st.MinorKey ^= kf ^ kt
		st.NonPawnKey[us] ^= kf ^ kt
	default:
		st.NonPawnKey[us] ^= kf ^ kt
	}

	p.removePiece(from)
	p.addPiece(to, pc, newAbil)

	st.Key = key
	p.sideToMove = them
	p.gamePly++

	st.Checkers = p.attackersTo(p.kingSq[them], p.Occupied()).And(p.byColor[us])
	if !st.Checkers.IsEmpty() {
		st.CheckStreak[us] = prev.CheckStreak[us] + 1
		// A serial checker stops earning rule-60 resets once it has
		// given ten consecutive checks.
		if st.CheckStreak[us] < 10 {
			st.Rule60 = 0
		}
	} else {
		st.CheckStreak[us] = 0
	}
	st.kingGuards = p.computeKingGuards(them)
	p.filter.add(st.Key)
}

// UndoMove retracts the last move, restoring the previous frame
// bit-for-bit, including the captured piece's own absorbed abilities.
func (p *Position) UndoMove() {
	st := p.st()
	p.filter.remove(st.Key)
	m := st.Move
	p.sideToMove = p.sideToMove.Other()
	pc := p.board[m.To()]
	p.removePiece(m.To())
	p.addPiece(m.From(), pc, st.moverAbil)
	if st.CapturedPiece != NoPiece {
		p.addPiece(m.To(), st.CapturedPiece, st.capturedAbil)
	}
	p.gamePly--
	p.stIdx--
}

// DoNullMove passes the turn. Never call it while in check.
func (p *Position) DoNullMove() {
	prev := *p.st()
	p.stIdx++
	if p.stIdx == len(p.states) {
		p.states = append(p.states, StateInfo{})
	}
	st := &p.states[p.stIdx]
	*st = prev
	st.Move = MoveNone
	st.CapturedPiece = NoPiece
	st.moverAbil = 0
	st.capturedAbil = 0
	st.Key = prev.Key ^ zobristSide
	st.Rule60 = prev.Rule60 + 1
	st.PliesFromNull = 0

	p.sideToMove = p.sideToMove.Other()
	us := p.sideToMove
	st.Checkers = p.attackersTo(p.kingSq[us], p.Occupied()).And(p.byColor[us.Other()])
	st.kingGuards = p.computeKingGuards(us)
	p.filter.add(st.Key)
}

func (p *Position) UndoNullMove() {
	p.filter.remove(p.st().Key)
	p.sideToMove = p.sideToMove.Other()
	p.stIdx--
}

// lightUndo carries just enough to reverse a board mutation made
// outside the state arena. The light path serves legality probes,
// check detection and chase adjudication.
type lightUndo struct {
	from, to     Square
	moved        Piece
	captured     Piece
	moverAbil    AbilityMask
	capturedAbil AbilityMask
}

func (p *Position) doMoveLight(m Move) lightUndo {
	u := lightUndo{from: m.From(), to: m.To()}
	u.moved = p.board[u.from]
	u.captured = p.board[u.to]
	u.moverAbil = p.abilities[u.from]
	newAbil := u.moverAbil
	if u.captured != NoPiece {
		u.capturedAbil = p.abilities[u.to]
		if absorbable(u.moved.Type(), u.captured.Type()) {
			newAbil.Add(u.captured.Type())
		}
		p.removePiece(u.to)
	}
	p.removePiece(u.from)
	p.addPiece(u.to, u.moved, newAbil)
	return u
}

func (p *Position) undoMoveLight(u lightUndo) {
	p.removePiece(u.to)
	p.addPiece(u.from, u.moved, u.moverAbil)
	if u.captured != NoPiece {
		p.addPiece(u.to, u.captured, u.capturedAbil)
	}
}

// Legal reports whether the pseudo-legal move m leaves the mover's
// king unattacked. Moves that cannot touch the king-safety zone skip
// the simulation entirely.
func (p *Position) Legal(m Move) bool {
	from, to := m.From(), m.To()
	us := p.sideToMove
	st := p.st()
	if st.Checkers.IsEmpty() && from != p.kingSq[us] &&
		!st.kingGuards.Test(from) && !st.kingGuards.Test(to) {
		return true
	}
	u := p.doMoveLight(m)
	safe := p.attackersTo(p.kingSq[us], p.Occupied()).And(p.byColor[us.Other()]).IsEmpty()
	p.undoMoveLight(u)
	return safe
}

// GivesCheck reports whether m checks the opponent, absorption
// included: a knight that captures a rook may deliver a rook-ray
// check from the capture square.
func (p *Position) GivesCheck(m Move) bool {
	us := p.sideToMove
	u := p.doMoveLight(m)
	chk := !p.attackersTo(p.kingSq[us.Other()], p.Occupied()).And(p.byColor[us]).IsEmpty()
	p.undoMoveLight(u)
	return chk
}

// refreshState rebuilds the derived fields of the current frame from
// the board. Called once per position set-up.
func (p *Position) refreshState() {
	st := p.st()
	p.computeKeysFromScratch(st)
	us := p.sideToMove
	st.Checkers = p.attackersTo(p.kingSq[us], p.Occupied()).And(p.byColor[us.Other()])
	st.kingGuards = p.computeKingGuards(us)
	p.filter.reset()
	p.filter.add(st.Key)
}
