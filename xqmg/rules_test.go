package xqmg

import (
	"testing"
)

func TestRule60Draw(t *testing.T) {
	p := mustParse(t, "rnbakabnr/9/1c5c1/p1p1p1p1p/9/9/P1P1P1P1P/1C5C1/9/RNBAKABNR w - - 119 60")
	if score, over := p.RuleJudge(0); over {
		t.Fatalf("clock at 119 adjudicated early (score %d)", score)
	}
	doParsedMove(t, p, "b0c2")
	score, over := p.RuleJudge(0)
	if !over {
		t.Fatal("clock at 120 not adjudicated")
	}
	if score != ValueDraw {
		t.Fatalf("rule-60 score = %d, want draw", score)
	}
}

func TestRule60DoesNotRescueMatedSide(t *testing.T) {
	// Black is checkmated on the very ply the clock runs out; the mate
	// stands, not the draw.
	p := mustParse(t, "3k5/9/9/9/9/9/9/9/3R5/4K4 b - - 120 1")
	score, over := p.RuleJudge(0)
	if !over {
		t.Fatal("exhausted clock not adjudicated")
	}
	if score != MatedIn(0) {
		t.Fatalf("mated at the clock limit scored %d, want %d", score, MatedIn(0))
	}
}

func TestInsufficientMaterialDraw(t *testing.T) {
	p := mustParse(t, "3k5/4a4/9/9/9/9/9/9/4A4/5K3 w - - 0 1")
	score, over := p.RuleJudge(0)
	if !over || score != ValueDraw {
		t.Fatalf("bare kings and advisors: score=%d over=%v, want draw", score, over)
	}
}

func TestQuietRepetitionIsDraw(t *testing.T) {
	p := mustParse(t, "3k5/r8/9/9/9/9/9/9/R8/4K4 w - - 0 1")
	for _, s := range []string{"a1a2", "a8a7", "a2a1", "a7a8"} {
		doParsedMove(t, p, s)
	}
	score, over := p.RuleJudge(3)
	if !over {
		t.Fatal("repetition not detected")
	}
	if score != ValueDraw {
		t.Fatalf("quiet repetition score = %d, want draw", score)
	}
}

func TestPerpetualCheckLoses(t *testing.T) {
	// Red checks on every move of the cycle; at the repeated node the
	// checked side (black, to move) gets the mate score.
	p := mustParse(t, "R3k4/9/9/9/9/4P4/9/9/9/4K4 b - - 0 1")
	for _, s := range []string{"e9e8", "a9a8", "e8e9", "a8a9"} {
		doParsedMove(t, p, s)
	}
	score, over := p.RuleJudge(3)
	if !over {
		t.Fatal("perpetual check repetition not detected")
	}
	if score != MateIn(3) {
		t.Fatalf("perpetual check score = %d, want %d (checker loses)", score, MateIn(3))
	}
}

func TestNoFalseRepetitionBeforeSecondVisit(t *testing.T) {
	p := mustParse(t, "3k5/r8/9/9/9/9/9/9/R8/4K4 w - - 0 1")
	for _, s := range []string{"a1a2", "a8a7", "a2a1"} {
		doParsedMove(t, p, s)
		if _, over := p.RuleJudge(0); over {
			t.Fatalf("adjudicated before any repetition at %s", s)
		}
	}
}

func TestUndoClearsRepetitionState(t *testing.T) {
	p := mustParse(t, "3k5/r8/9/9/9/9/9/9/R8/4K4 w - - 0 1")
	for _, s := range []string{"a1a2", "a8a7", "a2a1", "a7a8"} {
		doParsedMove(t, p, s)
	}
	if _, over := p.RuleJudge(0); !over {
		t.Fatal("repetition not detected")
	}
	p.UndoMove()
	if _, over := p.RuleJudge(0); over {
		t.Fatal("repetition still reported after undo")
	}
}

func TestPerpetualChaseLoses(t *testing.T) {
	// The red rook hounds the black knight around two squares while
	// black only flees; red never checks and nothing defends the
	// knight. At the repeated node red is to move and, as the sole
	// chaser, loses.
	p := mustParse(t, "2ba1k3/9/b1n6/9/9/9/9/9/9/R3K4 w - - 0 1")
	for _, s := range []string{"a0c0", "c7a6", "c0a0", "a6c7"} {
		doParsedMove(t, p, s)
	}
	score, over := p.RuleJudge(5)
	if !over {
		t.Fatal("chase repetition not detected")
	}
	if score != MatedIn(5) {
		t.Fatalf("chase score = %d, want %d (chaser to move loses)", score, MatedIn(5))
	}
}

func TestMutualExchangeOfferIsDraw(t *testing.T) {
	// Rooks staring at each other is an exchange offer, not a chase.
	p := mustParse(t, "3k5/r8/9/9/9/9/9/9/R8/4K4 w - - 0 1")
	for _, s := range []string{"a1b1", "a8b8", "b1a1", "b8a8"} {
		doParsedMove(t, p, s)
	}
	score, over := p.RuleJudge(0)
	if !over || score != ValueDraw {
		t.Fatalf("like-piece standoff: score=%d over=%v, want draw", score, over)
	}
}

func TestMateScoreHelpers(t *testing.T) {
	if MateIn(0) != ValueMate {
		t.Error("MateIn(0) should be the full mate score")
	}
	if MatedIn(0) != -ValueMate {
		t.Error("MatedIn(0) should be the negated mate score")
	}
	if MateIn(10) <= MateIn(20) {
		t.Error("shorter mates must score higher")
	}
}
