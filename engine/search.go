package engine

import (
	"sort"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/official-pikafish/Pikafish-sub000/xqmg"
)

// Limits bounds a search. Zero values mean "unbounded" except Depth,
// which falls back to MaxPly.
type Limits struct {
	Depth     int
	Nodes     uint64
	MoveTime  time.Duration
	Infinite  bool
	RedTime   time.Duration
	BlackTime time.Duration
	RedInc    time.Duration
	BlackInc  time.Duration
	MovesToGo int
}

// Info is one protocol progress report.
type Info struct {
	Depth    int
	SelDepth int
	MultiPV  int
	Score    int32
	Nodes    uint64
	Time     time.Duration
	Hashfull int
	PV       []xqmg.Move
}

type SearchResult struct {
	BestMove xqmg.Move
	Score    int32
	Depth    int
	Nodes    uint64
}

// Searcher owns the shared transposition table and a pool of lazy-SMP
// workers. Each worker searches its own position copy with private
// statistics; only the table, the stop flag and the node counter are
// shared.
type Searcher struct {
	TT      *TransTable
	Eval    Evaluator
	Threads int
	MultiPV int

	stop   atomic.Bool
	nodes  atomic.Uint64
	limits Limits
	tm     timeManager
	infoFn func(Info)

	workers []*worker
}

func NewSearcher() *Searcher {
	return &Searcher{
		TT:      NewTransTable(DefaultTTSize),
		Eval:    NewClassicalEvaluator(),
		Threads: 1,
		MultiPV: 1,
	}
}

// Stop requests cooperative cancellation. Workers observe it at the
// top of every recursive call.
func (s *Searcher) Stop() { s.stop.Store(true) }

func (s *Searcher) stopped() bool { return s.stop.Load() }

// NewGame clears everything learned: hash table, histories, killers.
func (s *Searcher) NewGame() {
	s.TT.Clear()
	for _, w := range s.workers {
		w.hist.clear()
	}
}

func (s *Searcher) ensureWorkers(n int) {
	for len(s.workers) < n {
		s.workers = append(s.workers, &worker{id: len(s.workers), s: s})
	}
	s.workers = s.workers[:n]
}

// Search runs iterative deepening across the worker pool and returns
// the best line found. infoFn, when non-nil, receives per-iteration
// progress from the main worker.
func (s *Searcher) Search(pos *xqmg.Position, limits Limits, infoFn func(Info)) SearchResult {
	if s.Eval == nil {
		s.Eval = NewClassicalEvaluator()
	}
	s.stop.Store(false)
	s.nodes.Store(0)
	s.limits = limits
	s.infoFn = infoFn
	s.tm = newTimeManager(limits, pos.SideToMove(), pos.GamePly())
	s.TT.NewSearch()

	legal := pos.GenerateMoves(xqmg.LegalMoves, nil)
	if len(legal) == 0 {
		return SearchResult{BestMove: xqmg.MoveNone, Score: xqmg.MatedIn(0)}
	}

	s.ensureWorkers(max(s.Threads, 1))
	for _, w := range s.workers {
		w.prepare(pos, legal)
	}

	var g errgroup.Group
	for _, w := range s.workers[1:] {
		w := w
		g.Go(func() error {
			w.iterate()
			return nil
		})
	}
	s.workers[0].iterate()
	s.stop.Store(true)
	_ = g.Wait()

	// Deepest completed iteration wins; the main worker breaks ties.
	best := s.workers[0]
	for _, w := range s.workers[1:] {
		if w.completedDepth > best.completedDepth && w.bestMove != xqmg.MoveNone {
			best = w
		}
	}
	return SearchResult{
		BestMove: best.bestMove,
		Score:    best.bestScore,
		Depth:    best.completedDepth,
		Nodes:    s.nodes.Load(),
	}
}

type rootMove struct {
	move      xqmg.Move
	score     int32
	prevScore int32
	pv        []xqmg.Move
}

type stackEntry struct {
	currentMove xqmg.Move
	staticEval  int32
	inCheck     bool
}

type worker struct {
	id  int
	s   *Searcher
	pos *xqmg.Position

	hist    historyTables
	nodes   uint64
	flushed uint64

	seldepth       int
	rootDepth      int
	completedDepth int
	pvIdx          int
	nmpMinPly      int

	bestMove  xqmg.Move
	bestScore int32

	rootMoves []rootMove
	stack     [MaxPly + 2]stackEntry
	pv        [MaxPly + 2][MaxPly + 2]xqmg.Move
	pvLen     [MaxPly + 2]int
	bufs      [MaxPly + 2][]xqmg.Move
	sbufs     [MaxPly + 2][2][]scoredMove
}

func (w *worker) prepare(pos *xqmg.Position, legal []xqmg.Move) {
	w.pos = pos.Clone()
	w.nodes = 0
	w.flushed = 0
	w.seldepth = 0
	w.completedDepth = 0
	w.nmpMinPly = 0
	w.bestMove = legal[0]
	w.bestScore = -xqmg.ValueInfinite
	w.rootMoves = w.rootMoves[:0]
	for _, m := range legal {
		w.rootMoves = append(w.rootMoves, rootMove{
			move:      m,
			score:     -xqmg.ValueInfinite,
			prevScore: -xqmg.ValueInfinite,
		})
	}
	w.hist.clearKillersFrom(0)
}

func (w *worker) moveBuf(ply int) []xqmg.Move {
	if w.bufs[ply] == nil {
		w.bufs[ply] = make([]xqmg.Move, 0, xqmg.MaxMoves)
	}
	return w.bufs[ply][:0]
}

// scoredBuf hands out the per-ply scoring arena. Slot 1 exists for the
// singular verification, which re-enters search at the same ply while
// the outer node is still walking its own list.
func (w *worker) scoredBuf(ply, slot int) []scoredMove {
	if w.sbufs[ply][slot] == nil {
		w.sbufs[ply][slot] = make([]scoredMove, 0, xqmg.MaxMoves)
	}
	return w.sbufs[ply][slot][:0]
}

// checkLimits flushes local node counts and, on the main worker,
// enforces the node and hard-time budgets.
func (w *worker) checkLimits() {
	w.s.nodes.Add(w.nodes - w.flushed)
	w.flushed = w.nodes
	if w.id != 0 || w.s.limits.Infinite {
		return
	}
	if w.s.limits.Nodes > 0 && w.s.nodes.Load() >= w.s.limits.Nodes {
		w.s.stop.Store(true)
	}
	if w.s.tm.hardExpired() {
		w.s.stop.Store(true)
	}
}

// iterate is the per-worker iterative-deepening driver.
func (w *worker) iterate() {
	multiPV := clamp(w.s.MultiPV, 1, len(w.rootMoves))
	maxDepth := MaxPly - 1
	if w.s.limits.Depth > 0 {
		maxDepth = min(w.s.limits.Depth, maxDepth)
	}

	stable := 0
	lastBest := xqmg.MoveNone

	for depth := 1; depth <= maxDepth; depth++ {
		// Helpers skew their depth sequence so the pool does not
		// march in lockstep through the shared table.
		if w.id > 0 && depth > 1 && (depth+w.id)%2 == 1 {
			continue
		}
		w.rootDepth = depth
		for i := range w.rootMoves {
			w.rootMoves[i].prevScore = w.rootMoves[i].score
		}

		for w.pvIdx = 0; w.pvIdx < multiPV && !w.s.stopped(); w.pvIdx++ {
			w.aspirationSearch(depth)
		}
		if w.s.stopped() {
			break
		}

		sort.SliceStable(w.rootMoves[:multiPV], func(i, j int) bool {
			return w.rootMoves[i].score > w.rootMoves[j].score
		})
		w.completedDepth = depth
		w.bestMove = w.rootMoves[0].move
		w.bestScore = w.rootMoves[0].score

		if w.bestMove == lastBest {
			stable++
		} else {
			stable = 0
			lastBest = w.bestMove
		}

		if w.id == 0 {
			w.reportInfo(depth, multiPV)
			if !w.s.limits.Infinite {
				if w.s.tm.softExpired(stable) {
					w.s.stop.Store(true)
					break
				}
				if abs(w.bestScore) >= xqmg.ValueMateInMaxPly && depth >= 12 {
					break
				}
			}
		}
	}
	w.checkLimits()
}

// aspirationSearch runs one depth iteration of one PV line inside a
// widening window. Fail-lows pull beta halfway back toward alpha
// before dropping alpha; fail-highs push beta up.
func (w *worker) aspirationSearch(depth int) {
	alpha := -xqmg.ValueInfinite
	beta := xqmg.ValueInfinite
	delta := xqmg.ValueInfinite

	prev := w.rootMoves[w.pvIdx].prevScore
	if depth >= 4 && prev > -xqmg.ValueInfinite {
		delta = 18 + abs(prev)/64
		alpha = max(prev-delta, -xqmg.ValueInfinite)
		beta = min(prev+delta, xqmg.ValueInfinite)
	}

	for {
		score := w.searchRoot(alpha, beta, depth)
		sort.SliceStable(w.rootMoves[w.pvIdx:], func(i, j int) bool {
			a := w.rootMoves[w.pvIdx:]
			return a[i].score > a[j].score
		})
		if w.s.stopped() {
			return
		}
		switch {
		case score <= alpha:
			beta = (alpha + beta) / 2
			alpha = max(score-delta, -xqmg.ValueInfinite)
		case score >= beta:
			beta = min(score+delta, xqmg.ValueInfinite)
		default:
			return
		}
		delta += delta / 3
	}
}

// searchRoot searches the root moves from pvIdx on; earlier indices
// hold already-settled MultiPV lines excluded from this window.
func (w *worker) searchRoot(alpha, beta int32, depth int) int32 {
	pos := w.pos
	bestScore := -xqmg.ValueInfinite
	moveCount := 0

	for i := w.pvIdx; i < len(w.rootMoves); i++ {
		w.rootMoves[i].score = -xqmg.ValueInfinite
	}

	for i := w.pvIdx; i < len(w.rootMoves); i++ {
		rm := &w.rootMoves[i]
		m := rm.move
		moveCount++
		w.stack[0].currentMove = m

		pos.DoMove(m)
		var score int32
		if moveCount == 1 {
			score = -w.search(-beta, -alpha, depth-1, 1, false, xqmg.MoveNone)
		} else {
			score = -w.search(-(alpha + 1), -alpha, depth-1, 1, true, xqmg.MoveNone)
			if score > alpha && score < beta {
				score = -w.search(-beta, -alpha, depth-1, 1, false, xqmg.MoveNone)
			}
		}
		pos.UndoMove()

		if w.s.stopped() {
			return bestScore
		}
		rm.score = score

		if score > bestScore {
			bestScore = score
			if score > alpha || moveCount == 1 {
				rm.pv = append(rm.pv[:0], m)
				rm.pv = append(rm.pv, w.pv[1][:w.pvLen[1]]...)
			}
		}
		if score > alpha {
			alpha = score
		}
		if alpha >= beta {
			break
		}
	}
	return bestScore
}

func (w *worker) updatePV(ply int, m xqmg.Move) {
	w.pv[ply][0] = m
	copy(w.pv[ply][1:], w.pv[ply+1][:w.pvLen[ply+1]])
	w.pvLen[ply] = w.pvLen[ply+1] + 1
}

func b2i(b bool) int {
	if b {
		return 1
	}
	return 0
}

// search is the recursive alpha-beta core. Root, PV and non-PV nodes
// share it, parameterized by the window and cutNode. excluded carries
// the move a singular verification is testing against.
func (w *worker) search(alpha, beta int32, depth, ply int, cutNode bool, excluded xqmg.Move) int32 {
	pos := w.pos
	isPV := beta-alpha > 1

	w.nodes++
	if w.nodes&1023 == 0 {
		w.checkLimits()
	}
	if w.s.stopped() {
		return 0
	}
	if ply > w.seldepth {
		w.seldepth = ply
	}
	w.pvLen[ply] = 0

	if ply >= MaxPly {
		return w.hist.correctedEval(pos, w.s.Eval.Evaluate(pos))
	}

	// Rule adjudication: repetition (with perpetual check/chase),
	// the 60-move rule and dead material all end the game here.
	if score, over := pos.RuleJudge(ply); over {
		return score
	}

	// Mate distance pruning.
	alpha = max(alpha, xqmg.MatedIn(ply))
	beta = min(beta, xqmg.MateIn(ply+1))
	if alpha >= beta {
		return alpha
	}

	inCheck := pos.InCheck()
	if inCheck {
		depth++
	}
	if depth <= 0 {
		return w.quiescence(alpha, beta, 0, ply)
	}

	us := pos.SideToMove()
	key := pos.Key()

	// Transposition probe. Cross-path scores go stale near the
	// rule-60 horizon, so cutoffs are gated on the clock. A stored
	// move is never trusted without re-validation.
	ttEntry, ttHit := w.s.TT.Probe(key, ply)
	ttMove := xqmg.MoveNone
	if ttHit && ttEntry.Move != xqmg.MoveNone && pos.IsPseudoLegal(ttEntry.Move) {
		ttMove = ttEntry.Move
	}
	if ttHit && !isPV && excluded == xqmg.MoveNone && pos.Rule60() < 110 {
		if score, ok := Usable(ttEntry, depth, alpha, beta); ok {
			return score
		}
	}

	// Static evaluation, corrected by recent search outcomes. In-check
	// nodes have none; the sentinel keeps that distinct from a genuine
	// zero eval.
	var rawEval, staticEval int32
	if inCheck {
		rawEval = UnusableScore
		staticEval = -xqmg.ValueInfinite
	} else {
		if ttHit && int32(ttEntry.Eval) != UnusableScore {
			rawEval = int32(ttEntry.Eval)
		} else {
			rawEval = w.s.Eval.Evaluate(pos)
		}
		staticEval = w.hist.correctedEval(pos, rawEval)
		// A bounded table score refines the guess.
		if ttHit {
			ts := int32(ttEntry.Score)
			if ttEntry.Flag == ExactFlag ||
				(ttEntry.Flag == BetaFlag && ts > staticEval) ||
				(ttEntry.Flag == AlphaFlag && ts < staticEval) {
				staticEval = ts
			}
		}
	}
	w.stack[ply].staticEval = staticEval
	w.stack[ply].inCheck = inCheck

	improving := !inCheck && ply >= 2 && !w.stack[ply-2].inCheck &&
		staticEval > w.stack[ply-2].staticEval

	prevMove := xqmg.MoveNone
	if ply > 0 {
		prevMove = w.stack[ply-1].currentMove
	}

	// Forward pruning block: skipped in check, at PV nodes, in
	// singular verifications and near mate scores.
	if !inCheck && !isPV && excluded == xqmg.MoveNone &&
		abs(beta) < xqmg.ValueMateInMaxPly {

		// Razoring: hopeless evals drop straight to quiescence.
		if depth <= 3 && staticEval+razorMargins[depth] < alpha {
			score := w.quiescence(alpha, alpha+1, 0, ply)
			if score <= alpha {
				return score
			}
		}

		// Reverse futility.
		if depth <= 8 && staticEval-futilityMargin(depth, improving) >= beta {
			return staticEval
		}

		// Null move, verified at high depth. Requires major material
		// so zugzwang-ish endings stay honest.
		if depth >= 3 && staticEval >= beta && prevMove != xqmg.MoveNone &&
			pos.MajorMaterial(us) > 0 && ply >= w.nmpMinPly {
			r := min(3+depth/4, depth-1)
			w.stack[ply].currentMove = xqmg.MoveNone
			pos.DoNullMove()
			score := -w.search(-beta, -beta+1, depth-1-r, ply+1, !cutNode, xqmg.MoveNone)
			pos.UndoNullMove()
			if score >= beta && score < xqmg.ValueMateInMaxPly {
				if depth <= 10 || w.nmpMinPly > 0 {
					return score
				}
				// Verification search with null move disabled down
				// this subtree.
				w.nmpMinPly = ply + 3*(depth-r)/4
				verified := w.search(beta-1, beta, depth-1-r, ply, false, xqmg.MoveNone)
				w.nmpMinPly = 0
				if verified >= beta {
					return verified
				}
			}
		}

		// ProbCut: a strong capture that beats a raised beta at
		// reduced depth prunes the whole node.
		probCutBeta := beta + 160
		if depth >= 5 &&
			!(ttHit && int(ttEntry.Depth) >= depth-3 && int32(ttEntry.Score) < probCutBeta) {
			caps := pos.GenerateMoves(xqmg.Captures, w.moveBuf(ply))
			list := w.scoreCaptures(w.scoredBuf(ply, 0), caps, ttMove)
			for i := range list.moves {
				m := orderNextMove(i, &list)
				if !pos.Legal(m) || !pos.SeeGE(m, probCutBeta-staticEval) {
					continue
				}
				w.stack[ply].currentMove = m
				pos.DoMove(m)
				score := -w.quiescence(-probCutBeta, -probCutBeta+1, 0, ply+1)
				if score >= probCutBeta {
					score = -w.search(-probCutBeta, -probCutBeta+1, depth-4, ply+1, !cutNode, xqmg.MoveNone)
				}
				pos.UndoMove()
				if score >= probCutBeta {
					w.s.TT.Store(key, depth-3, ply, m, score, rawEval, BetaFlag)
					return score
				}
			}
		}
	}

	// Internal iterative reduction: without a hash move this node is
	// cheap to revisit, so spend less on it now.
	if ttMove == xqmg.MoveNone && depth >= 4 && (isPV || cutNode) {
		depth--
	}

	mode := xqmg.NonEvasions
	if inCheck {
		mode = xqmg.Evasions
	}
	moves := pos.GenerateMoves(mode, w.moveBuf(ply))
	list := w.scoreMoves(w.scoredBuf(ply, b2i(excluded != xqmg.MoveNone)), moves, ttMove, ply, prevMove)

	bestScore := -xqmg.ValueInfinite
	bestMove := xqmg.MoveNone
	ttFlag := AlphaFlag
	moveCount := 0
	var quietsTried [48]xqmg.Move
	quietCount := 0

	for i := range list.moves {
		m := orderNextMove(i, &list)
		if m == excluded || !pos.Legal(m) {
			continue
		}

		isCapture := pos.PieceOn(m.To()) != xqmg.NoPiece
		givesCheck := pos.GivesCheck(m)
		tactical := isCapture || givesCheck
		moveCount++
		histScore := w.hist.historyScore(us, m)

		// Shallow-depth pruning, with at least one move banked.
		if bestScore > -xqmg.ValueMateInMaxPly && moveCount > 1 && !isPV {
			if !tactical {
				if depth <= 8 && moveCount > lmpTable[b2i(improving)][depth] {
					continue
				}
				if depth <= 7 && !inCheck &&
					staticEval+futilityMargin(depth, improving)+110 <= alpha {
					continue
				}
				if depth <= 4 && histScore < -4096*int32(depth) {
					continue
				}
				if depth <= 8 && !pos.SeeGE(m, int32(-50*depth)) {
					continue
				}
			} else if isCapture && depth <= 8 && !pos.SeeGE(m, int32(-120*depth)) {
				continue
			}
		}

		// Singular extension: re-search the field without the hash
		// move on a narrowed window.
		ext := 0
		if m == ttMove && excluded == xqmg.MoveNone && depth >= 8 &&
			ttHit && ttEntry.Flag != AlphaFlag && int(ttEntry.Depth) >= depth-3 &&
			abs(int32(ttEntry.Score)) < xqmg.ValueMateInMaxPly {
			singularBeta := int32(ttEntry.Score) - 2*int32(depth)
			score := w.search(singularBeta-1, singularBeta, (depth-1)/2, ply, cutNode, m)
			if score < singularBeta {
				ext = 1
			} else if singularBeta >= beta {
				// Multi-cut: the field fails high even without the
				// hash move.
				return singularBeta
			} else if int32(ttEntry.Score) >= beta {
				ext = -1
			}
		}

		if !isCapture && quietCount < len(quietsTried) {
			quietsTried[quietCount] = m
			quietCount++
		}

		w.stack[ply].currentMove = m
		pos.DoMove(m)

		newDepth := depth - 1 + ext
		var score int32
		if moveCount == 1 {
			score = -w.search(-beta, -alpha, newDepth, ply+1, false, xqmg.MoveNone)
		} else {
			// Late move reductions with gradual re-search.
			r := 0
			if depth >= 2 && moveCount > 1+2*b2i(isPV) && !tactical {
				r = lmrReduction(depth, moveCount)
				if isPV {
					r--
				}
				if cutNode {
					r++
				}
				if !improving {
					r++
				}
				r -= int(clamp(histScore/4096, int32(-2), int32(2)))
				r = clamp(r, 0, newDepth-1)
			}
			score = -w.search(-(alpha + 1), -alpha, newDepth-r, ply+1, true, xqmg.MoveNone)
			if score > alpha && r > 0 {
				score = -w.search(-(alpha + 1), -alpha, newDepth, ply+1, !cutNode, xqmg.MoveNone)
			}
			if score > alpha && score < beta && isPV {
				score = -w.search(-beta, -alpha, newDepth, ply+1, false, xqmg.MoveNone)
			}
		}
		pos.UndoMove()

		if w.s.stopped() {
			return 0
		}

		if score > bestScore {
			bestScore = score
			bestMove = m
		}
		if score >= beta {
			ttFlag = BetaFlag
			break
		}
		if score > alpha {
			alpha = score
			ttFlag = ExactFlag
			if isPV {
				w.updatePV(ply, m)
			}
		}
	}

	if moveCount == 0 {
		if excluded != xqmg.MoveNone {
			// Singular probe with everything excluded fails low.
			return alpha
		}
		// No legal move loses the game, in check or not.
		return xqmg.MatedIn(ply)
	}

	// Move-ordering statistics on a cutoff, scaled with depth.
	if bestMove != xqmg.MoveNone && ttFlag == BetaFlag {
		bonus := statBonus(depth)
		if pos.PieceOn(bestMove.To()) != xqmg.NoPiece {
			w.hist.updateCaptureHistory(pos, bestMove, bonus)
		} else {
			w.hist.storeKiller(ply, bestMove)
			w.hist.storeCounter(us, prevMove, bestMove)
			w.hist.updateHistory(us, bestMove, bonus)
			for i := 0; i < quietCount; i++ {
				if quietsTried[i] != bestMove {
					w.hist.updateHistory(us, quietsTried[i], -bonus)
				}
			}
		}
	}

	if excluded == xqmg.MoveNone && !w.s.stopped() {
		w.s.TT.Store(key, depth, ply, bestMove, bestScore, rawEval, ttFlag)
		// Correction history learns from quiet, settled outcomes.
		if !inCheck &&
			(bestMove == xqmg.MoveNone || pos.PieceOn(bestMove.To()) == xqmg.NoPiece) &&
			!(ttFlag == BetaFlag && bestScore <= staticEval) &&
			!(ttFlag == AlphaFlag && bestScore >= staticEval) {
			w.hist.updateCorrection(pos, staticEval, bestScore, depth)
		}
	}

	return bestScore
}

// quiescence resolves tactics: captures everywhere, plus quiet checks
// on the first quiescence ply, plus full evasions while in check.
func (w *worker) quiescence(alpha, beta int32, qdepth, ply int) int32 {
	pos := w.pos

	w.nodes++
	if w.nodes&1023 == 0 {
		w.checkLimits()
	}
	if w.s.stopped() {
		return 0
	}
	if ply > w.seldepth {
		w.seldepth = ply
	}
	w.pvLen[ply] = 0

	if ply >= MaxPly {
		return w.hist.correctedEval(pos, w.s.Eval.Evaluate(pos))
	}
	if score, over := pos.RuleJudge(ply); over {
		return score
	}

	inCheck := pos.InCheck()
	key := pos.Key()

	ttEntry, ttHit := w.s.TT.Probe(key, ply)
	ttMove := xqmg.MoveNone
	if ttHit && ttEntry.Move != xqmg.MoveNone && pos.IsPseudoLegal(ttEntry.Move) {
		ttMove = ttEntry.Move
	}
	if ttHit && pos.Rule60() < 110 {
		if score, ok := Usable(ttEntry, 0, alpha, beta); ok {
			return score
		}
	}

	rawEval := UnusableScore
	bestScore := -xqmg.ValueInfinite
	staticEval := -xqmg.ValueInfinite
	if !inCheck {
		if ttHit && int32(ttEntry.Eval) != UnusableScore {
			rawEval = int32(ttEntry.Eval)
		} else {
			rawEval = w.s.Eval.Evaluate(pos)
		}
		staticEval = w.hist.correctedEval(pos, rawEval)
		bestScore = staticEval
		// Stand pat.
		if bestScore >= beta {
			return bestScore
		}
		if bestScore > alpha {
			alpha = bestScore
		}
	}

	prevMove := xqmg.MoveNone
	if ply > 0 {
		prevMove = w.stack[ply-1].currentMove
	}

	var list moveList
	if inCheck {
		list = w.scoreMoves(w.scoredBuf(ply, 0), pos.GenerateMoves(xqmg.Evasions, w.moveBuf(ply)), ttMove, min(ply, MaxPly), prevMove)
	} else {
		buf := pos.GenerateMoves(xqmg.Captures, w.moveBuf(ply))
		if qdepth == 0 {
			// Quiet checks right at the boundary; filtered below.
			buf = pos.GenerateMoves(xqmg.Quiets, buf)
		}
		list = w.scoreCaptures(w.scoredBuf(ply, 0), buf, ttMove)
	}

	bestMove := xqmg.MoveNone
	ttFlag := AlphaFlag
	moveCount := 0

	for i := range list.moves {
		m := orderNextMove(i, &list)
		isCapture := pos.PieceOn(m.To()) != xqmg.NoPiece
		if !inCheck && !isCapture && !pos.GivesCheck(m) {
			continue
		}
		if !pos.Legal(m) {
			continue
		}
		moveCount++

		if !inCheck && isCapture {
			// Delta pruning: even the full victim plus a margin
			// cannot reach alpha.
			gain := xqmg.SeeValue(pos.PieceOn(m.To()).Type())
			if staticEval+gain+200 < alpha {
				continue
			}
			if !pos.SeeGE(m, -90) {
				continue
			}
		}

		w.stack[ply].currentMove = m
		pos.DoMove(m)
		score := -w.quiescence(-beta, -alpha, qdepth-1, ply+1)
		pos.UndoMove()

		if w.s.stopped() {
			return 0
		}
		if score > bestScore {
			bestScore = score
			bestMove = m
		}
		if score >= beta {
			ttFlag = BetaFlag
			break
		}
		if score > alpha {
			alpha = score
			ttFlag = ExactFlag
			w.updatePV(ply, m)
		}
	}

	if inCheck && moveCount == 0 {
		return xqmg.MatedIn(ply)
	}

	if !w.s.stopped() {
		w.s.TT.Store(key, 0, ply, bestMove, bestScore, rawEval, ttFlag)
	}
	return bestScore
}

func (w *worker) reportInfo(depth, multiPV int) {
	if w.s.infoFn == nil {
		return
	}
	w.checkLimits()
	nodes := w.s.nodes.Load()
	elapsed := w.s.tm.elapsed()
	for i := 0; i < multiPV; i++ {
		rm := w.rootMoves[i]
		pv := rm.pv
		if len(pv) == 0 {
			pv = []xqmg.Move{rm.move}
		}
		w.s.infoFn(Info{
			Depth:    depth,
			SelDepth: w.seldepth,
			MultiPV:  i + 1,
			Score:    rm.score,
			Nodes:    nodes,
			Time:     elapsed,
			Hashfull: w.s.TT.Hashfull(),
			PV:       pv,
		})
	}
}
