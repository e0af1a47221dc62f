package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"runtime"
	"runtime/pprof"
	"time"

	"github.com/official-pikafish/Pikafish-sub000/engine"
	"github.com/official-pikafish/Pikafish-sub000/xqmg"
)

func main() {
	depthFlag := flag.Int("depth", 10, "search depth in plies")
	repeatFlag := flag.Int("repeat", 1, "number of searches to run")
	fenFlag := flag.String("fen", "", "FEN to search (empty = startpos)")
	threadsFlag := flag.Int("threads", 1, "search threads")
	hashFlag := flag.Int("hash", engine.DefaultTTSize, "hash size in MB")
	cpuProfile := flag.String("cpuprofile", "", "write CPU profile to file")
	memProfile := flag.String("memprofile", "", "write memory profile (heap) to file")
	flag.Parse()

	if *depthFlag <= 0 {
		log.Fatalf("depth must be positive, got %d", *depthFlag)
	}

	var cpuFile *os.File
	var err error
	if *cpuProfile != "" {
		cpuFile, err = os.Create(*cpuProfile)
		if err != nil {
			log.Fatalf("could not create CPU profile: %v", err)
		}
		if err := pprof.StartCPUProfile(cpuFile); err != nil {
			log.Fatalf("could not start CPU profile: %v", err)
		}
		defer func() {
			pprof.StopCPUProfile()
			cpuFile.Close()
		}()
	}

	fen := xqmg.StartPos
	if *fenFlag != "" {
		fen = *fenFlag
	}

	searcher := engine.NewSearcher()
	searcher.Threads = *threadsFlag
	searcher.TT.Resize(*hashFlag)

	fmt.Printf("searchbench: fen=%q depth=%d repeat=%d threads=%d\n",
		fen, *depthFlag, *repeatFlag, *threadsFlag)

	startAll := time.Now()
	var totalNodes uint64
	for i := 0; i < *repeatFlag; i++ {
		pos, err := xqmg.ParseFEN(fen)
		if err != nil {
			log.Fatalf("ParseFEN: %v", err)
		}
		searcher.NewGame()

		iterStart := time.Now()
		result := searcher.Search(pos, engine.Limits{Depth: *depthFlag}, nil)
		iterElapsed := time.Since(iterStart)
		totalNodes += result.Nodes

		nps := float64(result.Nodes) / iterElapsed.Seconds()
		fmt.Printf("iteration %d: bestmove %v depth=%d nodes=%d time=%v nps=%.0f\n",
			i+1, result.BestMove, result.Depth, result.Nodes, iterElapsed, nps)
	}
	totalElapsed := time.Since(startAll)
	fmt.Printf("total: nodes=%d time=%v nps=%.0f\n",
		totalNodes, totalElapsed, float64(totalNodes)/totalElapsed.Seconds())

	if *memProfile != "" {
		f, err := os.Create(*memProfile)
		if err != nil {
			log.Fatalf("could not create memory profile: %v", err)
		}
		defer f.Close()

		runtime.GC() // get up-to-date heap info
		if err := pprof.WriteHeapProfile(f); err != nil {
			log.Fatalf("could not write memory profile: %v", err)
		}
	}
}
