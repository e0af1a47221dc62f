package bench

import (
	"testing"

	"github.com/official-pikafish/Pikafish-sub000/xqmg"
)

const midgameFEN = "r1bakabnr/9/1cn4c1/p1p1p1p1p/9/2P6/P3P1P1P/1CN4C1/9/R1BAKABNR b - - 4 3"

func benchGenerateMoves(b *testing.B, fen string, mode xqmg.GenMode) {
	pos, err := xqmg.ParseFEN(fen)
	if err != nil {
		b.Fatalf("ParseFEN: %v", err)
	}
	buf := make([]xqmg.Move, 0, xqmg.MaxMoves)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		buf = pos.GenerateMoves(mode, buf[:0])
	}
}

func BenchmarkGenerateMoves_Initial(b *testing.B) {
	benchGenerateMoves(b, xqmg.StartPos, xqmg.NonEvasions)
}

func BenchmarkGenerateMoves_Midgame(b *testing.B) {
	benchGenerateMoves(b, midgameFEN, xqmg.NonEvasions)
}

func BenchmarkGenerateCaptures_Midgame(b *testing.B) {
	benchGenerateMoves(b, midgameFEN, xqmg.Captures)
}

func BenchmarkGenerateQuiets_Initial(b *testing.B) {
	benchGenerateMoves(b, xqmg.StartPos, xqmg.Quiets)
}

func BenchmarkGenerateLegal_Initial(b *testing.B) {
	benchGenerateMoves(b, xqmg.StartPos, xqmg.LegalMoves)
}

func BenchmarkMakeUnmake_AllMoves_Initial(b *testing.B) {
	pos, err := xqmg.ParseFEN(xqmg.StartPos)
	if err != nil {
		b.Fatalf("ParseFEN: %v", err)
	}
	moves := pos.GenerateMoves(xqmg.LegalMoves, nil)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		for _, m := range moves {
			pos.DoMove(m)
			pos.UndoMove()
		}
	}
}
