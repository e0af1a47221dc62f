package main

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/official-pikafish/Pikafish-sub000/engine"
	"github.com/official-pikafish/Pikafish-sub000/xqmg"
)

const (
	engineName   = "Pikafish-sub000 0.1"
	engineAuthor = "the Pikafish-sub000 developers"
)

func main() {
	ucciLoop()
}

// ucciLoop reads one command per line from stdin and writes replies to
// stdout. Searches run on their own goroutine so stop stays responsive.
type session struct {
	pos      *xqmg.Position
	searcher *engine.Searcher
	done     chan struct{} // closed when the running search finishes
}

func ucciLoop() {
	scanner := bufio.NewScanner(os.Stdin)
	scanner.Buffer(make([]byte, 0, 1<<16), 1<<20)

	s := &session{searcher: engine.NewSearcher()}
	s.pos, _ = xqmg.ParseFEN(xqmg.StartPos)

	for scanner.Scan() {
		line := scanner.Text()
		tokens := strings.Fields(line)
		if len(tokens) == 0 {
			continue
		}
		switch strings.ToLower(tokens[0]) {
		case "ucci":
			fmt.Println("id name", engineName)
			fmt.Println("id author", engineAuthor)
			printOptions()
			fmt.Println("ucciok")
		case "uci":
			fmt.Println("id name", engineName)
			fmt.Println("id author", engineAuthor)
			printOptions()
			fmt.Println("uciok")
		case "isready":
			fmt.Println("readyok")
		case "ucinewgame", "uccinewgame", "newgame":
			s.waitSearch()
			s.searcher.NewGame()
			s.pos, _ = xqmg.ParseFEN(xqmg.StartPos)
		case "setoption":
			s.waitSearch()
			s.setOption(tokens[1:])
		case "position":
			s.waitSearch()
			s.setPosition(tokens[1:])
		case "go":
			s.waitSearch()
			s.startSearch(tokens[1:])
		case "stop":
			s.searcher.Stop()
		case "d":
			fmt.Print(s.pos.String())
			fmt.Printf("key: %016X\n", s.pos.Key())
		case "perft":
			s.waitSearch()
			depth := 1
			if len(tokens) > 1 {
				if d, err := strconv.Atoi(tokens[1]); err == nil && d > 0 {
					depth = d
				}
			}
			runPerft(s.pos, depth)
		case "eval":
			fmt.Println("info string eval", s.searcher.Eval.Evaluate(s.pos))
		case "quit":
			s.searcher.Stop()
			s.waitSearch()
			return
		default:
			fmt.Println("info string Unknown command:", line)
		}
	}
}

func printOptions() {
	fmt.Println("option name Threads type spin default 1 min 1 max 64")
	fmt.Println("option name Hash type spin default", engine.DefaultTTSize, "min 1 max 4096")
	fmt.Println("option name MultiPV type spin default 1 min 1 max 64")
}

func (s *session) waitSearch() {
	if s.done != nil {
		<-s.done
		s.done = nil
	}
}

// setOption handles "setoption name <Name> value <V>".
func (s *session) setOption(tokens []string) {
	name, value := "", ""
	for i := 0; i < len(tokens); i++ {
		switch strings.ToLower(tokens[i]) {
		case "name":
			if i+1 < len(tokens) {
				name = strings.ToLower(tokens[i+1])
				i++
			}
		case "value":
			if i+1 < len(tokens) {
				value = tokens[i+1]
				i++
			}
		}
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		fmt.Println("info string Bad option value:", value)
		return
	}
	switch name {
	case "threads":
		if n >= 1 && n <= 64 {
			s.searcher.Threads = n
		}
	case "hash":
		if n >= 1 && n <= 4096 {
			s.searcher.TT.Resize(n)
		}
	case "multipv":
		if n >= 1 && n <= 64 {
			s.searcher.MultiPV = n
		}
	default:
		fmt.Println("info string Unknown option:", name)
	}
}

// setPosition handles "position startpos|fen <fen> [moves m1 m2 ...]".
func (s *session) setPosition(tokens []string) {
	if len(tokens) == 0 {
		fmt.Println("info string Malformed position command")
		return
	}
	i := 0
	var pos *xqmg.Position
	var err error
	switch strings.ToLower(tokens[0]) {
	case "startpos":
		pos, _ = xqmg.ParseFEN(xqmg.StartPos)
		i = 1
	case "fen":
		j := 1
		for j < len(tokens) && strings.ToLower(tokens[j]) != "moves" {
			j++
		}
		pos, err = xqmg.ParseFEN(strings.Join(tokens[1:j], " "))
		if err != nil {
			fmt.Println("info string Invalid fen:", err)
			return
		}
		i = j
	default:
		fmt.Println("info string Invalid position subcommand")
		return
	}

	if i < len(tokens) && strings.ToLower(tokens[i]) == "moves" {
		for _, moveStr := range tokens[i+1:] {
			m, err := xqmg.ParseMove(moveStr)
			if err != nil {
				fmt.Println("info string Bad move:", moveStr)
				return
			}
			found := false
			for _, legal := range pos.GenerateMoves(xqmg.LegalMoves, nil) {
				if legal == m {
					found = true
					break
				}
			}
			if !found {
				fmt.Println("info string Illegal move", moveStr, "in position", pos.FEN())
				return
			}
			pos.DoMove(m)
		}
	}
	s.pos = pos
}

// startSearch parses go limits and kicks the search off asynchronously.
// Both "wtime"-style and "time/opptime" clock tokens are accepted; the
// first mover's clock maps to the w side.
func (s *session) startSearch(tokens []string) {
	var limits engine.Limits
	for i := 0; i < len(tokens); i++ {
		tok := strings.ToLower(tokens[i])
		if tok == "infinite" {
			limits.Infinite = true
			continue
		}
		if i+1 >= len(tokens) {
			fmt.Println("info string Missing value for go option", tok)
			break
		}
		n, err := strconv.Atoi(tokens[i+1])
		if err != nil {
			fmt.Println("info string Bad value for go option", tok)
			break
		}
		i++
		switch tok {
		case "depth":
			limits.Depth = n
		case "nodes":
			limits.Nodes = uint64(n)
		case "movetime":
			limits.MoveTime = time.Duration(n) * time.Millisecond
		case "wtime":
			limits.RedTime = time.Duration(n) * time.Millisecond
		case "btime":
			limits.BlackTime = time.Duration(n) * time.Millisecond
		case "winc":
			limits.RedInc = time.Duration(n) * time.Millisecond
		case "binc":
			limits.BlackInc = time.Duration(n) * time.Millisecond
		case "movestogo":
			limits.MovesToGo = n
		case "time":
			if s.pos.SideToMove() == xqmg.Red {
				limits.RedTime = time.Duration(n) * time.Millisecond
			} else {
				limits.BlackTime = time.Duration(n) * time.Millisecond
			}
		case "opptime":
			// opponent clock, unused
		case "increment":
			if s.pos.SideToMove() == xqmg.Red {
				limits.RedInc = time.Duration(n) * time.Millisecond
			} else {
				limits.BlackInc = time.Duration(n) * time.Millisecond
			}
		default:
			fmt.Println("info string Unknown go option", tok)
		}
	}

	done := make(chan struct{})
	s.done = done
	pos := s.pos.Clone()
	searcher := s.searcher
	go func() {
		defer close(done)
		result := searcher.Search(pos, limits, printInfo)
		fmt.Println("bestmove", result.BestMove)
	}()
}

func printInfo(info engine.Info) {
	ms := info.Time.Milliseconds()
	nps := int64(0)
	if ms > 0 {
		nps = int64(info.Nodes) * 1000 / ms
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "info depth %d seldepth %d", info.Depth, info.SelDepth)
	if info.MultiPV > 1 {
		fmt.Fprintf(&sb, " multipv %d", info.MultiPV)
	}
	if d := engine.MateDistance(info.Score); d != 0 {
		fmt.Fprintf(&sb, " score mate %d", d)
	} else {
		fmt.Fprintf(&sb, " score cp %d", info.Score)
	}
	fmt.Fprintf(&sb, " nodes %d nps %d hashfull %d time %d",
		info.Nodes, nps, info.Hashfull, ms)
	if len(info.PV) > 0 {
		sb.WriteString(" pv")
		for _, m := range info.PV {
			sb.WriteByte(' ')
			sb.WriteString(m.String())
		}
	}
	fmt.Println(sb.String())
}

func runPerft(pos *xqmg.Position, depth int) {
	start := time.Now()
	var total uint64
	for m, n := range xqmg.PerftDivide(pos.Clone(), depth) {
		fmt.Printf("%s: %d\n", m, n)
		total += n
	}
	elapsed := time.Since(start)
	fmt.Printf("nodes %d time %dms\n", total, elapsed.Milliseconds())
}
