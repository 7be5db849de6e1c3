// Command othello-cli is a minimal direct driver over internal/engine: it
// loads a position and a skill level, runs one search, and prints the
// result. It is not a protocol server — no GTP/UCI framing, just a plain
// CLI over the engine package.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"runtime/pprof"
	"time"

	"github.com/edge64/othello/internal/board"
	"github.com/edge64/othello/internal/book"
	"github.com/edge64/othello/internal/engine"
	"github.com/edge64/othello/internal/evaluator"
	"github.com/edge64/othello/internal/storage"
)

var (
	cpuprofile = flag.String("cpuprofile", "", "write cpu profile to file")
	boardFlag  = flag.String("board", "", "65-char board text (64 squares + side to move); default is the standard start position")
	levelFlag  = flag.Int("level", 30, "skill level, 0-60")
	timeFlag   = flag.Duration("time", 2*time.Second, "search time budget")
	hashFlag   = flag.Int("hash", 64, "transposition table size in MB")
	bookFlag   = flag.String("book", "", "opening book file (native record format)")
	hintFlag   = flag.Int("hint", 0, "print the top-n moves instead of searching for a single best move")
)

func main() {
	flag.Parse()

	if *cpuprofile != "" {
		f, err := os.Create(*cpuprofile)
		if err != nil {
			log.Fatal("could not create CPU profile: ", err)
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			log.Fatal("could not start CPU profile: ", err)
		}
		defer pprof.StopCPUProfile()
		log.Printf("CPU profiling enabled, writing to %s", *cpuprofile)
	}

	pos := board.StartPosition()
	if *boardFlag != "" {
		p, err := board.ParsePosition(*boardFlag)
		if err != nil {
			log.Fatalf("othello: invalid -board: %v", err)
		}
		pos = p
	}

	weights := loadWeights()

	eng := engine.NewEngine(engine.Config{
		HashMB:   *hashFlag,
		NumTasks: runtime.GOMAXPROCS(0),
		Weights:  weights,
	})
	eng.SetBoard(pos)
	eng.SetLevel(*levelFlag, pos.EmptyCount())

	if *bookFlag != "" {
		b, err := book.Load(*bookFlag)
		if err != nil {
			log.Printf("othello: book not loaded: %v", err)
		} else {
			eng.SetBook(b)
			log.Printf("othello: loaded book with %d positions", b.Size())
		}
	}

	eng.OnInfo = func(info engine.SearchInfo) {
		log.Printf("depth=%d score=%d nodes=%d elapsed=%s hashfull=%d",
			info.Depth, info.Score, info.Nodes, info.Elapsed, info.HashFull)
	}

	if *hintFlag > 0 {
		for _, m := range eng.Hint(*hintFlag, *timeFlag) {
			fmt.Printf("%s %d\n", m.Square, m.Score)
		}
		return
	}

	result := eng.Search(*timeFlag)
	fmt.Printf("bestmove %s score %d depth %d nodes %d\n",
		result.Move, result.Score, result.Depth, result.Nodes)
	if len(result.PV) > 0 {
		fmt.Print("pv")
		for _, sq := range result.PV {
			fmt.Printf(" %s", sq)
		}
		fmt.Println()
	}
}

// loadWeights auto-loads a learned evaluator weight file from the
// platform data directory, falling back to the hand-tuned default set.
func loadWeights() evaluator.Weights {
	dir, err := storage.GetWeightsDir()
	if err != nil {
		return evaluator.DefaultWeights()
	}

	path := filepath.Join(dir, "default.weights")
	w, err := evaluator.LoadWeightsFile(path)
	if err != nil {
		return evaluator.DefaultWeights()
	}

	log.Printf("othello: loaded evaluator weights from %s", path)
	return w
}
