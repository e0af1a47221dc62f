package engine

import "math"

const MaxPly = 128

// Search tables filled once at start-up.
var (
	lmrTable [MaxPly + 1][128]int8
	lmpTable [2][9]int
)

var razorMargins = [4]int32{0, 260, 420, 580}

func init() {
	initLMRTable()
	initLMPTable()
}

func initLMRTable() {
	for d := 1; d <= MaxPly; d++ {
		for m := 1; m < 128; m++ {
			r := 0.85 + math.Log(float64(d))*math.Log(float64(m))/2.4
			if r < 0 {
				r = 0
			}
			lmrTable[d][m] = int8(r)
		}
	}
}

func initLMPTable() {
	for d := 0; d < 9; d++ {
		lmpTable[0][d] = 3 + d*d/2
		lmpTable[1][d] = 5 + d*d
	}
}

func lmrReduction(depth, moveCount int) int {
	return int(lmrTable[min(depth, MaxPly)][min(moveCount, 127)])
}

func futilityMargin(depth int, improving bool) int32 {
	if improving {
		return 140 * int32(depth)
	}
	return 90 * int32(depth)
}
