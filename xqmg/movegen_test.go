package xqmg

import (
	"testing"
)

func moveSet(moves []Move) map[Move]bool {
	set := make(map[Move]bool, len(moves))
	for _, m := range moves {
		set[m] = true
	}
	return set
}

func TestStartPosMoveCount(t *testing.T) {
	p := mustParse(t, StartPos)
	moves := p.GenerateMoves(LegalMoves, nil)
	if len(moves) != 44 {
		t.Fatalf("start position has %d legal moves, want 44", len(moves))
	}
	set := moveSet(moves)
	if len(set) != 44 {
		t.Fatalf("duplicate moves in generation: %d unique of %d", len(set), len(moves))
	}
	// spot checks: cannon over its own knight onto the enemy knight,
	// and the central pawn push
	for _, s := range []string{"b2b9", "h2h9", "e3e4", "b0c2", "a0a1"} {
		m, err := ParseMove(s)
		if err != nil {
			t.Fatal(err)
		}
		if !set[m] {
			t.Errorf("expected move %s missing", s)
		}
	}
	// the rook cannot jump its own knight
	if m, _ := ParseMove("a0a3"); set[m] {
		t.Error("a0a3 generated through a blocker")
	}
}

func TestPerftShallow(t *testing.T) {
	p := mustParse(t, StartPos)
	if n := Perft(p, 1); n != 44 {
		t.Errorf("perft(1) = %d, want 44", n)
	}
	if n := Perft(p, 2); n != 1920 {
		t.Errorf("perft(2) = %d, want 1920", n)
	}
}

func TestPerftDivideSumsToPerft(t *testing.T) {
	p := mustParse(t, StartPos)
	div := PerftDivide(p, 2)
	if len(div) != 44 {
		t.Fatalf("divide has %d root moves, want 44", len(div))
	}
	var sum uint64
	for _, n := range div {
		sum += n
	}
	if sum != 1920 {
		t.Errorf("divide total = %d, want 1920", sum)
	}
}

// Evasion generation plus the legality filter must agree with filtering
// the full pseudo-legal set.
func TestEvasionsMatchFilteredGeneration(t *testing.T) {
	fens := []string{
		"4k4/9/9/9/9/9/9/9/4r4/4K4 w - - 0 1",       // rook contact check
		"R3k4/9/9/9/9/4P4/9/9/9/4K4 b - - 0 1",      // rook rank check
		"3ak4/9/9/9/9/9/9/9/2n6/4K4 w - - 0 1",      // knight check, blockable leg
		"4k4/9/9/4p4/9/9/9/9/4C4/3K5 b - - 0 1",     // cannon check over a screen
		"4k4/9/4n(r)4/9/9/9/9/9/9/4K4 w - - 0 1",    // absorbed rook ability checks
	}
	for _, fen := range fens {
		p := mustParse(t, fen)
		if !p.InCheck() {
			t.Errorf("%s: expected check", fen)
			continue
		}
		legal := moveSet(p.GenerateMoves(LegalMoves, nil))

		want := make(map[Move]bool)
		for _, m := range p.GenerateMoves(NonEvasions, nil) {
			if p.Legal(m) {
				want[m] = true
			}
		}
		if len(legal) != len(want) {
			t.Errorf("%s: evasions give %d legal moves, full filter gives %d", fen, len(legal), len(want))
		}
		for m := range want {
			if !legal[m] {
				t.Errorf("%s: evasion generation missed %s", fen, m)
			}
		}
		for m := range legal {
			if !want[m] {
				t.Errorf("%s: evasion generation produced illegal %s", fen, m)
			}
		}
	}
}

func TestFlyingGeneralRestrictsKing(t *testing.T) {
	// Kings on the d and e files; red king may not step onto e0 while
	// the e file is open.
	p := mustParse(t, "4k4/9/9/9/9/9/9/9/9/3K5 w - - 0 1")
	set := moveSet(p.GenerateMoves(LegalMoves, nil))
	if m, _ := ParseMove("d0e0"); set[m] {
		t.Error("king stepped into general facing")
	}
	if m, _ := ParseMove("d0d1"); !set[m] {
		t.Error("d0d1 should be legal")
	}
}

func TestElephantBlockedEyeAndRiver(t *testing.T) {
	// Red elephant on c0: d1 eye blocked kills c0e2; elephants never
	// cross the river.
	p := mustParse(t, "3k5/9/9/9/9/9/9/9/3P5/2B1K4 w - - 0 1")
	set := moveSet(p.GenerateMoves(LegalMoves, nil))
	if m, _ := ParseMove("c0e2"); set[m] {
		t.Error("elephant moved through a blocked eye")
	}
	if m, _ := ParseMove("c0a2"); !set[m] {
		t.Error("c0a2 should be legal")
	}
}

func TestKnightLegBlocking(t *testing.T) {
	// Knight b0 with its own pawn on b1: both b1-leg jumps die, the
	// c0-leg jump to d1 survives.
	p := mustParse(t, "3k5/9/9/9/9/9/9/9/1P7/1N2K4 w - - 0 1")
	set := moveSet(p.GenerateMoves(LegalMoves, nil))
	if m, _ := ParseMove("b0a2"); set[m] {
		t.Error("knight jumped a blocked leg")
	}
	if m, _ := ParseMove("b0c2"); set[m] {
		t.Error("knight jumped a blocked leg")
	}
	if m, _ := ParseMove("b0d1"); !set[m] {
		t.Error("b0d1 should be legal")
	}
}

func TestPawnMovesBeforeAndAfterRiver(t *testing.T) {
	p := mustParse(t, "4k4/9/9/4P4/9/4P4/9/9/9/4K4 w - - 0 1")
	set := moveSet(p.GenerateMoves(LegalMoves, nil))
	// e4 has not crossed: forward only
	if m, _ := ParseMove("e4e5"); !set[m] {
		t.Error("pre-river pawn cannot push")
	}
	if m, _ := ParseMove("e4d4"); set[m] {
		t.Error("pre-river pawn moved sideways")
	}
	// e6 has crossed: forward and sideways
	for _, s := range []string{"e6e7", "e6d6", "e6f6"} {
		if m, _ := ParseMove(s); !set[m] {
			t.Errorf("crossed pawn missing %s", s)
		}
	}
}

func TestIsPseudoLegal(t *testing.T) {
	p := mustParse(t, StartPos)
	for _, m := range p.GenerateMoves(NonEvasions, nil) {
		if !p.IsPseudoLegal(m) {
			t.Errorf("generated move %s rejected", m)
		}
	}
	reject := []string{
		"a0a3", // rook through blocker
		"a3a2", // pawn backwards
		"e0e2", // king two steps
		"a6a5", // enemy piece
		"b2b0", // cannon "capturing" own piece
	}
	for _, s := range reject {
		m, err := ParseMove(s)
		if err != nil {
			t.Fatal(err)
		}
		if p.IsPseudoLegal(m) {
			t.Errorf("IsPseudoLegal accepted %s", s)
		}
	}
	if p.IsPseudoLegal(MoveNone) {
		t.Error("IsPseudoLegal accepted MoveNone")
	}
}
