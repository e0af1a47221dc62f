package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/exec"
	"time"

	badger "github.com/dgraph-io/badger/v4"

	"github.com/official-pikafish/Pikafish-sub000/xqmg"
)

// benchrun measures move generation throughput over a fixed position
// suite and tracks results across runs in a local badger store, so a
// generator change shows up as a node-per-second delta against the
// saved baseline.

type suiteEntry struct {
	Label string
	FEN   string
	Depth int
}

var suite = []suiteEntry{
	{"initial-d4", xqmg.StartPos, 4},
	{"initial-d5", xqmg.StartPos, 5},
	{"midgame-d4", "r1bakabnr/9/1cn4c1/p1p1p1p1p/9/2P6/P3P1P1P/1CN4C1/9/R1BAKABNR b - - 4 3", 4},
	{"cannons-d4", "2baka3/9/c3b3c/p3p3p/9/9/P3P3P/C3B3C/9/2BAKA3 w - - 0 1", 4},
}

type baseline struct {
	Nodes   uint64    `json:"nodes"`
	NPS     float64   `json:"nps"`
	Elapsed int64     `json:"elapsed_ns"`
	Date    time.Time `json:"date"`
}

func baselineKey(e suiteEntry) []byte {
	return []byte(fmt.Sprintf("perft/%s/%d", e.Label, e.Depth))
}

func loadBaseline(db *badger.DB, key []byte) (*baseline, error) {
	var b *baseline
	err := db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		if err == badger.ErrKeyNotFound {
			return nil
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			b = &baseline{}
			return json.Unmarshal(val, b)
		})
	})
	return b, err
}

func saveBaseline(db *badger.DB, key []byte, b baseline) error {
	return db.Update(func(txn *badger.Txn) error {
		data, err := json.Marshal(b)
		if err != nil {
			return err
		}
		return txn.Set(key, data)
	})
}

// runMicro shells out to the package benchmarks; results print as-is.
func runMicro() int {
	fmt.Println("Columns: BENCHMARK  N  ns/op  B/op  allocs/op")
	cmd := exec.Command("go", "test", "./bench", "-run", "^$", "-bench", ".", "-benchmem", "-benchtime=1s")
	cmd.Env = os.Environ()
	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out
	err := cmd.Run()
	fmt.Print(out.String())
	if err == nil {
		return 0
	}
	if ee, ok := err.(*exec.ExitError); ok {
		return ee.ExitCode()
	}
	fmt.Fprintf(os.Stderr, "error running go test: %v\n", err)
	return 1
}

func main() {
	dbPath := flag.String("db", ".benchdb", "badger directory holding saved baselines")
	save := flag.Bool("save", false, "overwrite stored baselines with this run")
	micro := flag.Bool("micro", false, "also run the bench/ package benchmarks first")
	flag.Parse()

	if *micro {
		if code := runMicro(); code != 0 {
			os.Exit(code)
		}
		fmt.Println()
	}

	opts := badger.DefaultOptions(*dbPath).WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "opening baseline store: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	fmt.Println("LABEL \t\tDEPTH \tNODES \t\tTIME \t\tNPS \tvs-baseline")
	for _, e := range suite {
		pos, err := xqmg.ParseFEN(e.FEN)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s: bad fen: %v\n", e.Label, err)
			os.Exit(1)
		}

		start := time.Now()
		nodes := xqmg.Perft(pos, e.Depth)
		elapsed := time.Since(start)
		nps := float64(nodes) / elapsed.Seconds()

		key := baselineKey(e)
		prev, err := loadBaseline(db, key)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s: reading baseline: %v\n", e.Label, err)
			os.Exit(1)
		}

		delta := "(no baseline)"
		if prev != nil {
			if prev.Nodes != nodes {
				delta = fmt.Sprintf("NODE MISMATCH: had %d", prev.Nodes)
			} else {
				delta = fmt.Sprintf("%+.1f%%", (nps-prev.NPS)/prev.NPS*100)
			}
		}
		fmt.Printf("%s \t%d \t%d \t%v \t%.0f \t%s\n",
			e.Label, e.Depth, nodes, elapsed.Round(time.Millisecond), nps, delta)

		if *save || prev == nil {
			b := baseline{Nodes: nodes, NPS: nps, Elapsed: elapsed.Nanoseconds(), Date: time.Now()}
			if err := saveBaseline(db, key, b); err != nil {
				fmt.Fprintf(os.Stderr, "%s: saving baseline: %v\n", e.Label, err)
				os.Exit(1)
			}
		}
	}
}
