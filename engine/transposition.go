package engine

import (
	"unsafe"

	"github.com/official-pikafish/Pikafish-sub000/xqmg"
)

const (
	// Bound flags
	AlphaFlag int8 = iota // upper bound, fail low
	BetaFlag              // lower bound, fail high
	ExactFlag

	// Default table size in MB
	DefaultTTSize = 64

	clusterSize = 4

	// Sentinel for "no usable score"
	UnusableScore int32 = -32750
)

type TTEntry struct {
	Hash  uint64
	Move  xqmg.Move
	Score int16
	Eval  int16
	Depth int8
	Flag  int8
	Gen   uint8
}

// TransTable is a clustered hash table shared by all search workers.
// Probes and stores race by design; readers re-validate any move they
// pull out and bound-check any score, so a torn entry costs accuracy,
// never correctness.
type TransTable struct {
	entries      []TTEntry
	clusterCount uint64
	gen          uint8
}

func NewTransTable(sizeMB int) *TransTable {
	tt := &TransTable{}
	tt.Resize(sizeMB)
	return tt
}

func (tt *TransTable) Resize(sizeMB int) {
	if sizeMB < 1 {
		sizeMB = 1
	}
	entrySize := uint64(unsafe.Sizeof(TTEntry{}))
	clusterCount := uint64(sizeMB) * 1024 * 1024 / (entrySize * clusterSize)
	if clusterCount == 0 {
		clusterCount = 1
	}
	tt.clusterCount = clusterCount
	tt.entries = make([]TTEntry, clusterCount*clusterSize)
	tt.gen = 0
}

func (tt *TransTable) Clear() {
	for i := range tt.entries {
		tt.entries[i] = TTEntry{}
	}
	tt.gen = 0
}

// NewSearch ages the table; stale entries lose replacement fights.
func (tt *TransTable) NewSearch() { tt.gen++ }

// Probe returns the entry for hash if present. Mate scores come back
// adjusted to the probing ply.
func (tt *TransTable) Probe(hash uint64, ply int) (TTEntry, bool) {
	start := hash % tt.clusterCount * clusterSize
	for i := uint64(0); i < clusterSize; i++ {
		e := tt.entries[start+i]
		if e.Hash != hash {
			continue
		}
		score := int32(e.Score)
		if score >= xqmg.ValueMateInMaxPly {
			score -= int32(ply)
		} else if score <= -xqmg.ValueMateInMaxPly {
			score += int32(ply)
		}
		e.Score = int16(score)
		return e, true
	}
	return TTEntry{}, false
}

// Usable reports whether a probed entry's bound and depth allow an
// immediate cutoff within [alpha, beta].
func Usable(e TTEntry, depth int, alpha, beta int32) (int32, bool) {
	if int(e.Depth) < depth {
		return UnusableScore, false
	}
	score := int32(e.Score)
	switch e.Flag {
	case ExactFlag:
		return score, true
	case AlphaFlag:
		if score <= alpha {
			return score, true
		}
	case BetaFlag:
		if score >= beta {
			return score, true
		}
	}
	return UnusableScore, false
}

// Store writes an entry, preferring empty or aged or shallower slots
// within the cluster. Mate scores are stored relative to this node so
// they re-adjust correctly wherever they are probed.
func (tt *TransTable) Store(hash uint64, depth, ply int, move xqmg.Move, score, eval int32, flag int8) {
	if score >= xqmg.ValueMateInMaxPly {
		score += int32(ply)
	} else if score <= -xqmg.ValueMateInMaxPly {
		score -= int32(ply)
	}

	start := hash % tt.clusterCount * clusterSize
	replace := &tt.entries[start]
	for i := uint64(0); i < clusterSize; i++ {
		e := &tt.entries[start+i]
		if e.Hash == hash || e.Hash == 0 {
			replace = e
			break
		}
		// Prefer evicting old generations, then shallow entries.
		if int(e.Gen)-int(e.Depth) < int(replace.Gen)-int(replace.Depth) ||
			e.Gen != tt.gen && replace.Gen == tt.gen {
			replace = e
		}
	}

	// Keep a deeper same-position entry unless it is from an old
	// search or we have an exact bound now.
	if replace.Hash == hash && int(replace.Depth) > depth+2 &&
		replace.Gen == tt.gen && flag != ExactFlag {
		return
	}

	if move == xqmg.MoveNone && replace.Hash == hash {
		move = replace.Move
	}
	*replace = TTEntry{
		Hash:  hash,
		Move:  move,
		Score: int16(score),
		Eval:  int16(eval),
		Depth: int8(depth),
		Flag:  flag,
		Gen:   tt.gen,
	}
}

// Hashfull estimates table occupancy in permille from a fixed sample.
func (tt *TransTable) Hashfull() int {
	n := 0
	sample := 1000
	if len(tt.entries) < sample {
		sample = len(tt.entries)
	}
	for i := 0; i < sample; i++ {
		if tt.entries[i].Hash != 0 && tt.entries[i].Gen == tt.gen {
			n++
		}
	}
	return n
}
