package engine

import (
	"golang.org/x/exp/constraints"

	"github.com/official-pikafish/Pikafish-sub000/xqmg"
)

func min[T constraints.Ordered](x, y T) T {
	if x < y {
		return x
	}
	return y
}

func max[T constraints.Ordered](x, y T) T {
	if x > y {
		return x
	}
	return y
}

func clamp[T constraints.Ordered](v, lo, hi T) T {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func abs[T constraints.Signed](x T) T {
	if x < 0 {
		return -x
	}
	return x
}

// MateDistance converts a mate-shaped score into signed full moves
// until mate; 0 for ordinary scores.
func MateDistance(score int32) int {
	if score >= xqmg.ValueMateInMaxPly {
		return (int(xqmg.ValueMate-score) + 1) / 2
	}
	if score <= -xqmg.ValueMateInMaxPly {
		return -(int(xqmg.ValueMate+score) + 1) / 2
	}
	return 0
}
