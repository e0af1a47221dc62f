package engine

import (
	"testing"

	"github.com/official-pikafish/Pikafish-sub000/xqmg"
)

func position(t *testing.T, fen string) *xqmg.Position {
	t.Helper()
	p, err := xqmg.ParseFEN(fen)
	if err != nil {
		t.Fatalf("ParseFEN(%q): %v", fen, err)
	}
	return p
}

func newTestSearcher() *Searcher {
	s := NewSearcher()
	s.TT.Resize(4)
	return s
}

func TestSearchFindsMateInOne(t *testing.T) {
	// Rd1 pins the bare black king to the d file; e9 is barred by the
	// open e file facing the red king.
	pos := position(t, "3k5/9/9/9/9/9/9/9/R8/4K4 w - - 0 1")
	s := newTestSearcher()
	res := s.Search(pos, Limits{Depth: 4}, nil)

	want, err := xqmg.ParseMove("a1d1")
	if err != nil {
		t.Fatal(err)
	}
	if res.BestMove != want {
		t.Errorf("best move = %s, want a1d1", res.BestMove)
	}
	if res.Score != xqmg.MateIn(1) {
		t.Errorf("score = %d, want %d", res.Score, xqmg.MateIn(1))
	}
}

func TestSearchReportsBeingMated(t *testing.T) {
	// Black to move with no legal moves at all.
	pos := position(t, "3k5/9/9/9/9/9/9/9/3R5/4K4 b - - 0 1")
	s := newTestSearcher()
	res := s.Search(pos, Limits{Depth: 3}, nil)
	if res.BestMove != xqmg.MoveNone {
		t.Errorf("best move = %s, want none", res.BestMove)
	}
	if res.Score != xqmg.MatedIn(0) {
		t.Errorf("score = %d, want %d", res.Score, xqmg.MatedIn(0))
	}
}

func TestSearchPrefersHangingRook(t *testing.T) {
	// A rook is free on an open file; any sensible shallow search
	// takes it.
	pos := position(t, "5k3/9/9/9/9/9/9/4r4/9/3KR4 w - - 0 1")
	s := newTestSearcher()
	res := s.Search(pos, Limits{Depth: 4}, nil)
	want, _ := xqmg.ParseMove("e0e2")
	if res.BestMove != want {
		t.Errorf("best move = %s, want e0e2", res.BestMove)
	}
}

func TestSearchRespectsDepthLimit(t *testing.T) {
	pos := position(t, xqmg.StartPos)
	s := newTestSearcher()
	res := s.Search(pos, Limits{Depth: 2}, nil)
	if res.Depth != 2 {
		t.Errorf("completed depth = %d, want 2", res.Depth)
	}
	if res.BestMove == xqmg.MoveNone {
		t.Error("no best move returned")
	}
	if !pos.IsPseudoLegal(res.BestMove) || !pos.Legal(res.BestMove) {
		t.Errorf("best move %s is not legal", res.BestMove)
	}
}

func TestSearchInfoReporting(t *testing.T) {
	pos := position(t, xqmg.StartPos)
	s := newTestSearcher()
	var infos []Info
	res := s.Search(pos, Limits{Depth: 3}, func(info Info) {
		infos = append(infos, info)
	})
	if len(infos) == 0 {
		t.Fatal("no info callbacks")
	}
	last := infos[len(infos)-1]
	if last.Depth != res.Depth {
		t.Errorf("last info depth %d, result depth %d", last.Depth, res.Depth)
	}
	if len(last.PV) == 0 || last.PV[0] != res.BestMove {
		t.Errorf("pv %v does not start with best move %s", last.PV, res.BestMove)
	}
	for i := 1; i < len(infos); i++ {
		if infos[i].Depth < infos[i-1].Depth {
			t.Error("info depths not monotonic")
			break
		}
	}
}

func TestSearchMultiThreadAgreesOnMate(t *testing.T) {
	pos := position(t, "3k5/9/9/9/9/9/9/9/R8/4K4 w - - 0 1")
	s := newTestSearcher()
	s.Threads = 4
	res := s.Search(pos, Limits{Depth: 5}, nil)
	want, _ := xqmg.ParseMove("a1d1")
	if res.BestMove != want {
		t.Errorf("best move = %s, want a1d1", res.BestMove)
	}
	if res.Score != xqmg.MateIn(1) {
		t.Errorf("score = %d, want %d", res.Score, xqmg.MateIn(1))
	}
}

func TestSearchUsesAbsorbedAbility(t *testing.T) {
	// NxR grants the knight rook movement, and the new rook ray down
	// the d file mates on the spot.
	pos := position(t, "3k5/9/9/3r5/9/2N6/9/9/9/4K4 w - - 0 1")
	s := newTestSearcher()
	res := s.Search(pos, Limits{Depth: 4}, nil)
	want, _ := xqmg.ParseMove("c4d6")
	if res.BestMove != want {
		t.Errorf("best move = %s, want the absorbing capture c4d6", res.BestMove)
	}
}

func TestMultiPVReturnsDistinctLines(t *testing.T) {
	pos := position(t, xqmg.StartPos)
	s := newTestSearcher()
	s.MultiPV = 3
	seen := make(map[xqmg.Move]bool)
	s.Search(pos, Limits{Depth: 3}, func(info Info) {
		if info.Depth == 3 && len(info.PV) > 0 {
			seen[info.PV[0]] = true
		}
	})
	if len(seen) != 3 {
		t.Errorf("got %d distinct root moves at the last depth, want 3", len(seen))
	}
}

func TestNewGameClearsState(t *testing.T) {
	pos := position(t, xqmg.StartPos)
	s := newTestSearcher()
	s.Search(pos, Limits{Depth: 3}, nil)
	s.NewGame()
	if s.TT.Hashfull() != 0 {
		t.Error("hash table not cleared by NewGame")
	}
	res := s.Search(pos, Limits{Depth: 3}, nil)
	if res.BestMove == xqmg.MoveNone {
		t.Error("search broken after NewGame")
	}
}

func TestMateDistance(t *testing.T) {
	cases := []struct {
		score int32
		want  int
	}{
		{xqmg.MateIn(1), 1},
		{xqmg.MateIn(2), 1},
		{xqmg.MateIn(3), 2},
		{xqmg.MatedIn(2), -1},
		{xqmg.MatedIn(4), -2},
		{150, 0},
		{-150, 0},
		{0, 0},
	}
	for _, c := range cases {
		if got := MateDistance(c.score); got != c.want {
			t.Errorf("MateDistance(%d) = %d, want %d", c.score, got, c.want)
		}
	}
}

func TestScoreString(t *testing.T) {
	if got := scoreString(42); got != "cp 42" {
		t.Errorf("scoreString(42) = %q", got)
	}
	if got := scoreString(xqmg.MateIn(3)); got != "mate 2" {
		t.Errorf("scoreString(mate) = %q", got)
	}
	if got := scoreString(xqmg.MatedIn(2)); got != "mate -1" {
		t.Errorf("scoreString(mated) = %q", got)
	}
}
