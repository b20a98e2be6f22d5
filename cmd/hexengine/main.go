// Command hexengine is the process entry point: it parses flags (no
// environment variables are read), loads the pattern file and opening
// book, opens the preferences/stats database, and runs the text
// protocol loop over stdin/stdout.
package main

import (
	"context"
	"flag"
	"os"
	"path/filepath"
	"time"

	"github.com/hailam/hexengine/internal/book"
	"github.com/hailam/hexengine/internal/hexlog"
	"github.com/hailam/hexengine/internal/ice"
	"github.com/hailam/hexengine/internal/mcts"
	"github.com/hailam/hexengine/internal/patternload"
	"github.com/hailam/hexengine/internal/protocol"
	"github.com/hailam/hexengine/internal/storage"
	"github.com/hailam/hexengine/internal/vc"
)

var (
	patternFile   = flag.String("patterns", "", "path to the pattern file (defaults to <pattern-dir>/patterns.txt; resource/consistency errors loading it are fatal)")
	bookFile      = flag.String("book", "", "path to a compressed opening book (optional; defaults to <pattern-dir>/book.zst if present)")
	width         = flag.Int("width", 0, "board width (0: use stored preferences, default 11)")
	height        = flag.Int("height", 0, "board height (0: use stored preferences, default 11)")
	searchWorkers = flag.Int("search-workers", 0, "MCTS worker threads (0: 4 workers)")
	preWorkers    = flag.Int("presearch-workers", 0, "pre-search worker threads (0: half of search-workers)")
	timePerMove   = flag.Duration("move-time", 5*time.Second, "per-move search time budget")
	maxSims       = flag.Int64("max-simulations", 0, "per-move simulation cap (0: unlimited, time-bounded only)")
	autoResign    = flag.Bool("auto-resign", true, "resign genmove in a provably lost position instead of playing on")
	resignOnClock = flag.Bool("resign-on-clock", true, "resign when a color's clock reaches zero")
)

func main() {
	flag.Parse()

	logger := hexlog.Default()

	store, err := storage.NewStorage()
	if err != nil {
		logger.Fatalf("opening preferences database: %v", err)
	}
	defer store.Close()

	prefs, err := store.LoadPreferences()
	if err != nil {
		logger.Fatalf("loading preferences: %v", err)
	}

	w, h := resolveBoardSize(prefs)

	patterns, err := loadPatterns(logger)
	if err != nil {
		logger.Fatalf("%v", err)
	}

	ob := loadBook(logger)

	workers := *searchWorkers
	if workers <= 0 {
		workers = 4
	}
	preSearch := *preWorkers
	if preSearch <= 0 {
		preSearch = workers / 2
		if preSearch < 1 {
			preSearch = 1
		}
	}

	cfg := protocol.Config{
		Width: w, Height: h,
		Patterns:         patterns,
		ICEOptions:       ice.DefaultOptions(),
		VCOptions:        vc.DefaultOptions(),
		MCTSOptions:      mcts.DefaultOptions(),
		SearchWorkers:    workers,
		PreSearchWorkers: preSearch,
		TimePerMove:      *timePerMove,
		MaxSimulations:   *maxSims,
		AutoResign:       *autoResign,
		ResignOnClock:    *resignOnClock,
		Book:             ob,
		Logger:           logger,
	}
	session := protocol.NewSession(cfg)

	if err := protocol.Run(context.Background(), os.Stdin, os.Stdout, session); err != nil {
		logger.Fatalf("protocol loop: %v", err)
	}
}

func resolveBoardSize(prefs *storage.UserPreferences) (int, int) {
	w, h := prefs.BoardWidth, prefs.BoardHeight
	if *width > 0 {
		w = *width
	}
	if *height > 0 {
		h = *height
	}
	if w <= 0 {
		w = 11
	}
	if h <= 0 {
		h = 11
	}
	return w, h
}

// loadPatterns loads the pattern file from -patterns, or from the
// default pattern directory (internal/storage.GetPatternDir) if the
// flag was not given and a file happens to be there. A pattern file
// that was explicitly requested but fails to load is a resource error
// (spec §7) wrapped in hexlog.FatalError; a missing default file is not
// an error (the engine still runs, with ICE and the playout policy
// falling back to doing nothing/picking at random).
func loadPatterns(logger hexlog.Logger) (*patternload.Set, error) {
	path := *patternFile
	explicit := path != ""
	if path == "" {
		dir, err := storage.GetPatternDir()
		if err == nil {
			path = filepath.Join(dir, "patterns.txt")
		}
	}
	if path == "" {
		return patternload.Empty(), nil
	}
	if _, err := os.Stat(path); err != nil {
		if explicit {
			return nil, &hexlog.FatalError{Msg: "pattern file not found", Err: err}
		}
		logger.Warnf("no pattern file at %s, running with ICE/policy patterns disabled", path)
		return patternload.Empty(), nil
	}
	set, err := patternload.Load(path)
	if err != nil {
		return nil, &hexlog.FatalError{Msg: "loading pattern file", Err: err}
	}
	logger.Infof("loaded patterns from %s", path)
	return set, nil
}

// loadBook loads a compressed opening book if one is configured or
// found at the default location. A missing or unreadable book is never
// fatal (spec §6 describes the book as an optimization, not a required
// resource) — genmove simply falls through to the pre-search/MCTS path.
func loadBook(logger hexlog.Logger) *book.Book {
	path := *bookFile
	if path == "" {
		dir, err := storage.GetPatternDir()
		if err != nil {
			return nil
		}
		path = filepath.Join(dir, "book.zst")
	}
	if _, err := os.Stat(path); err != nil {
		return nil
	}
	b, err := book.LoadCompressed(path)
	if err != nil {
		logger.Warnf("failed to load opening book at %s: %v", path, err)
		return nil
	}
	logger.Infof("loaded opening book from %s (%d entries)", path, b.Size())
	return b
}
