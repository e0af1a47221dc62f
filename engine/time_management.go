package engine

import (
	"time"

	"github.com/official-pikafish/Pikafish-sub000/xqmg"
)

// timeManager turns the protocol clock into a soft bound (stop
// starting a new iteration) and a hard bound (stop searching now).
type timeManager struct {
	start    time.Time
	soft     time.Duration
	hard     time.Duration
	useClock bool
}

const (
	overhead   = 30 * time.Millisecond
	minPerMove = 5 * time.Millisecond
)

func newTimeManager(limits Limits, stm xqmg.Color, gamePly int) timeManager {
	tm := timeManager{start: time.Now()}

	if limits.MoveTime > 0 {
		tm.useClock = true
		tm.soft = limits.MoveTime - overhead
		tm.hard = limits.MoveTime - overhead
		if tm.soft < minPerMove {
			tm.soft, tm.hard = minPerMove, minPerMove
		}
		return tm
	}

	remaining := limits.RedTime
	inc := limits.RedInc
	if stm == xqmg.Black {
		remaining = limits.BlackTime
		inc = limits.BlackInc
	}
	if remaining <= 0 {
		return tm // depth/nodes/infinite search, no clock
	}

	tm.useClock = true
	movesToGo := limits.MovesToGo
	if movesToGo <= 0 {
		movesToGo = estimateMovesRemaining(gamePly)
	}

	ideal := remaining/time.Duration(movesToGo) + inc*3/4
	tm.soft = ideal
	tm.hard = min(ideal*4, remaining*7/10)
	if tm.hard > remaining-overhead {
		tm.hard = remaining - overhead
	}
	if tm.soft > tm.hard {
		tm.soft = tm.hard
	}
	if tm.soft < minPerMove {
		tm.soft, tm.hard = minPerMove, minPerMove
	}
	return tm
}

func (tm *timeManager) elapsed() time.Duration { return time.Since(tm.start) }

// softExpired gates starting another iteration; stability scales the
// bound down when the best move has not changed for a while.
func (tm *timeManager) softExpired(stableIterations int) bool {
	if !tm.useClock {
		return false
	}
	bound := tm.soft
	if stableIterations >= 6 {
		bound = bound * 3 / 4
	}
	return tm.elapsed() >= bound
}

func (tm *timeManager) hardExpired() bool {
	return tm.useClock && tm.elapsed() >= tm.hard
}

// estimateMovesRemaining shrinks as the game ages; xiangqi games run
// long, so the floor stays generous.
func estimateMovesRemaining(gamePly int) int {
	moves := 40 - gamePly/6
	if moves < 18 {
		moves = 18
	}
	return moves
}
