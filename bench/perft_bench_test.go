package bench

import (
	"testing"

	"github.com/official-pikafish/Pikafish-sub000/xqmg"
)

func benchPerft(b *testing.B, fen string, depth int) {
	pos, err := xqmg.ParseFEN(fen)
	if err != nil {
		b.Fatalf("ParseFEN: %v", err)
	}
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = xqmg.Perft(pos, depth)
	}
}

func BenchmarkPerft_Initial_D3(b *testing.B) {
	benchPerft(b, xqmg.StartPos, 3)
}

func BenchmarkPerft_Midgame_D3(b *testing.B) {
	benchPerft(b, midgameFEN, 3)
}
