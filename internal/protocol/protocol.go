// Package protocol is the line-oriented text front end described in
// spec §6: a command loop reading boardsize/play/genmove/undo/showboard/
// all_legal_moves/final_score/time_left/loadsgf requests from a reader
// and writing one reply per command, each terminated by a blank line.
//
// Grounded on the teacher's internal/uci/uci.go Run(): a bufio.Scanner
// loop over stdin dispatching on the first whitespace-separated token,
// with per-command handlers and a Stop/Quit path. The command set and
// reply shape are this engine's own (spec §6 is not a UCI protocol), but
// the scan-dispatch-reply skeleton, including treating most handler
// errors as "tell the client, keep the loop alive" rather than crashing,
// is carried over directly (spec §7's "protocol errors ... the engine
// stays up").
package protocol

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/hailam/hexengine/internal/book"
	"github.com/hailam/hexengine/internal/hex"
	"github.com/hailam/hexengine/internal/hexboard"
	"github.com/hailam/hexengine/internal/hexlog"
	"github.com/hailam/hexengine/internal/ice"
	"github.com/hailam/hexengine/internal/mcts"
	"github.com/hailam/hexengine/internal/oracle"
	"github.com/hailam/hexengine/internal/patternload"
	"github.com/hailam/hexengine/internal/presearch"
	"github.com/hailam/hexengine/internal/vc"
)

// Config bundles everything a Session needs that isn't per-position
// state: the shared (immutable) engines, worker counts, search limits
// and resign policy (spec §5 "immutable, process-wide" pattern/engine
// sharing; §6/§7's resign-on-loss and resign-on-clock-expiry behavior).
type Config struct {
	Width, Height    int
	Patterns         *patternload.Set
	ICEOptions       ice.Options
	VCOptions        vc.Options
	MCTSOptions      mcts.Options
	SearchWorkers    int
	PreSearchWorkers int
	TimePerMove      time.Duration
	MaxSimulations   int64
	AutoResign       bool // resign genmove in a provably lost position instead of playing on
	ResignOnClock    bool // resign when a color's clock reaches zero
	Book             *book.Book
	Logger           hexlog.Logger
}

// Session is one running game: the façade plus the engines and clocks
// driving genmove, scoped to a single connection/process instance.
type Session struct {
	cfg Config

	board     *hex.Board
	iceEngine *ice.Engine
	vcOpts    vc.Options
	hbd       *hexboard.HexBoard
	toMove    hex.Color
	policy    *mcts.Policy

	clocks   [2]time.Duration
	resigned *hex.Color // set once a color has resigned; nil otherwise
}

// NewSession builds a fresh cfg.Width x cfg.Height game, Black to move.
func NewSession(cfg Config) *Session {
	if cfg.Logger == nil {
		cfg.Logger = hexlog.Default()
	}
	if cfg.Patterns == nil {
		cfg.Patterns = patternload.Empty()
	}
	s := &Session{cfg: cfg}
	s.reset(cfg.Width, cfg.Height)
	return s
}

func (s *Session) reset(w, h int) {
	s.board = hex.NewBoard(w, h)
	s.iceEngine = ice.NewEngine(
		s.cfg.Patterns.Dead, s.cfg.Patterns.CapturedBlack, s.cfg.Patterns.CapturedWhite,
		s.cfg.Patterns.PermInfBlack, s.cfg.Patterns.PermInfWhite,
		s.cfg.Patterns.Vulnerable, s.cfg.Patterns.Dominated, s.cfg.ICEOptions)
	s.vcOpts = s.cfg.VCOptions
	s.hbd = hexboard.New(s.board, s.iceEngine, s.vcOpts)
	s.toMove = hex.Black
	s.policy = &mcts.Policy{Patterns: s.cfg.Patterns.Playout}
	s.clocks = [2]time.Duration{0, 0}
	s.resigned = nil
}

func colorIdx(c hex.Color) int {
	if c == hex.White {
		return 1
	}
	return 0
}

// Run drives the command loop until r reaches EOF or a "quit"-equivalent
// exit. It never returns an error for protocol/rules failures — those
// are written to w as a reply, per spec §7.
func Run(ctx context.Context, r io.Reader, w io.Writer, s *Session) error {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		cmd := strings.ToLower(fields[0])
		args := fields[1:]

		if cmd == "quit" || cmd == "exit" {
			fmt.Fprintln(w, "= bye")
			fmt.Fprintln(w)
			return nil
		}

		reply, err := s.dispatch(ctx, cmd, args)
		if err != nil {
			var fatal *hexlog.FatalError
			if errors.As(err, &fatal) {
				s.cfg.Logger.Fatalf("%v\nposition:\n%s", fatal, s.hbd.String())
			}
			fmt.Fprintf(w, "? %v\n\n", err)
			continue
		}
		fmt.Fprintf(w, "= %s\n\n", reply)
	}
	return scanner.Err()
}

func (s *Session) dispatch(ctx context.Context, cmd string, args []string) (string, error) {
	switch cmd {
	case "boardsize":
		return s.handleBoardsize(args)
	case "play":
		return s.handlePlay(args)
	case "genmove":
		return s.handleGenmove(ctx, args)
	case "undo":
		return s.handleUndo(args)
	case "showboard":
		return s.handleShowboard(args)
	case "all_legal_moves":
		return s.handleAllLegalMoves(args)
	case "final_score":
		return s.handleFinalScore(args)
	case "time_left":
		return s.handleTimeLeft(args)
	case "loadsgf":
		return s.handleLoadSGF(args)
	default:
		return "", fmt.Errorf("unknown command %q", cmd)
	}
}

func (s *Session) handleBoardsize(args []string) (string, error) {
	if len(args) != 2 {
		return "", fmt.Errorf("boardsize requires width and height")
	}
	w, err1 := strconv.Atoi(args[0])
	h, err2 := strconv.Atoi(args[1])
	if err1 != nil || err2 != nil || w <= 0 || h <= 0 {
		return "", fmt.Errorf("boardsize: invalid dimensions %q %q", args[0], args[1])
	}
	s.reset(w, h)
	return "", nil
}

// handlePlay applies a move, including the two special tokens
// "swap-pieces" and "resign" (spec §6, glossary entry "Swap").
func (s *Session) handlePlay(args []string) (string, error) {
	if len(args) != 2 {
		return "", fmt.Errorf("play requires color and cell")
	}
	col, ok := hex.ParseColor(args[0])
	if !ok {
		return "", fmt.Errorf("play: invalid color %q", args[0])
	}

	switch args[1] {
	case "resign":
		s.resigned = &col
		return "", nil
	case "swap-pieces", "swap":
		return "", s.applySwap(col)
	}

	c, err := s.board.ParseCell(args[1])
	if err != nil {
		return "", fmt.Errorf("play: %w", err)
	}
	if !s.board.IsInterior(c) {
		return "", fmt.Errorf("play: %s is not a playable cell", args[1])
	}
	if !s.hbd.Stones.IsEmpty(c) {
		return "", fmt.Errorf("play: cell %s is occupied", args[1])
	}
	if err := s.hbd.PlayMove(col, c); err != nil {
		return "", fmt.Errorf("play: %w", err)
	}
	s.toMove = col.Other()
	return "", nil
}

// applySwap implements the pie rule's minimal form: exactly one stone
// must be on the board, placed by the other color, and col takes it
// over by recoloring that single cell to its own color. Anything else
// is a rules error (spec §7 "swap-not-allowed" failure mode).
func (s *Session) applySwap(col hex.Color) error {
	move, mover, ok := s.hbd.LastMove()
	if !ok || mover == col || s.hbd.Stones.Played().Count() != 1 {
		return fmt.Errorf("swap-pieces is only legal as a reply to the opponent's first move")
	}
	board, iceEngine, vcOpts := s.board, s.iceEngine, s.vcOpts
	fresh := hexboard.New(board, iceEngine, vcOpts)
	if err := fresh.PlayMove(col, move); err != nil {
		return fmt.Errorf("swap-pieces: %w", err)
	}
	s.hbd = fresh
	s.toMove = col.Other()
	return nil
}

// handleGenmove implements spec §2's control flow: if the game is
// already determined, resign (if configured) or play the delaying move
// from MovesToConsiderInLosingState/any winning move; otherwise restrict
// to oracle.MovesToConsider, run the pre-search, and either play an
// immediate win outright (boundary scenario 6) or hand its Consider set
// and seed data to MCTS.
func (s *Session) handleGenmove(ctx context.Context, args []string) (string, error) {
	if len(args) != 1 {
		return "", fmt.Errorf("genmove requires a color")
	}
	col, ok := hex.ParseColor(args[0])
	if !ok {
		return "", fmt.Errorf("genmove: invalid color %q", args[0])
	}

	if s.cfg.Book != nil {
		if m, found := s.cfg.Book.Probe(s.hbd, col); found {
			return s.playGenerated(col, m)
		}
	}

	if oracle.IsDeterminedState(s.hbd) {
		if oracle.IsLostGame(s.hbd, col) {
			if s.cfg.AutoResign {
				s.resigned = &col
				return "resign", nil
			}
			delaying := oracle.MovesToConsiderInLosingState(s.hbd, col)
			m := firstSetCell(delaying)
			if m == hex.NullCell {
				m = firstSetCell(s.hbd.Stones.Empty())
			}
			return s.playGenerated(col, m)
		}
		// Already won: any empty cell finishes the game.
		m := firstSetCell(s.hbd.Stones.Empty())
		return s.playGenerated(col, m)
	}

	consider := oracle.MovesToConsider(s.hbd, col)
	if consider.Empty() {
		s.cfg.Logger.Warnf("genmove: empty consider set, falling back to a random empty cell")
		m := firstSetCell(s.hbd.Stones.Empty())
		if m == hex.NullCell {
			return "", fmt.Errorf("genmove: board is full")
		}
		return s.playGenerated(col, m)
	}

	preWorkers := s.cfg.PreSearchWorkers
	if preWorkers < 1 {
		preWorkers = 1
	}
	result, err := presearch.Run(ctx, s.hbd, col, consider, preWorkers)
	if err != nil {
		return "", fmt.Errorf("genmove: pre-search: %w", err)
	}
	if result.ImmediateWin != hex.NullCell {
		return s.playGenerated(col, result.ImmediateWin)
	}

	limits := mcts.Limits{MaxSimulations: s.cfg.MaxSimulations, MaxTime: s.cfg.TimePerMove}
	workers := s.cfg.SearchWorkers
	if workers < 1 {
		workers = 1
	}
	engine := mcts.NewEngine(workers, s.cfg.MCTSOptions)
	root := engine.Search(s.board, s.hbd.Stones, col, result.Consider, s.policy, limits)
	move := mcts.BestMove(root)
	if move == hex.NullCell {
		s.cfg.Logger.Warnf("genmove: zero playouts completed, falling back to a random empty cell")
		move = firstSetCell(s.hbd.Stones.Empty())
	}
	if move == hex.NullCell {
		return "", fmt.Errorf("genmove: board is full")
	}
	return s.playGenerated(col, move)
}

func (s *Session) playGenerated(col hex.Color, m hex.Cell) (string, error) {
	start := time.Now()
	if err := s.hbd.PlayMove(col, m); err != nil {
		return "", fmt.Errorf("genmove: %w", err)
	}
	s.toMove = col.Other()
	elapsed := time.Since(start)
	if s.clocks[colorIdx(col)] > 0 {
		s.clocks[colorIdx(col)] -= elapsed
		if s.clocks[colorIdx(col)] <= 0 {
			s.clocks[colorIdx(col)] = 0
			if s.cfg.ResignOnClock {
				s.resigned = &col
			}
		}
	}
	return s.board.String(m), nil
}

func firstSetCell(bs hex.Bitset) hex.Cell {
	cells := bs.Cells(nil)
	if len(cells) == 0 {
		return hex.NullCell
	}
	return cells[0]
}

func (s *Session) handleUndo(args []string) (string, error) {
	if err := s.hbd.UndoMove(); err != nil {
		return "", fmt.Errorf("undo: %w", err)
	}
	_, mover, ok := s.hbd.LastMove()
	if ok {
		s.toMove = mover.Other()
	} else {
		s.toMove = hex.Black
	}
	s.resigned = nil
	return "", nil
}

func (s *Session) handleShowboard(args []string) (string, error) {
	return "\n" + s.hbd.String(), nil
}

func (s *Session) handleAllLegalMoves(args []string) (string, error) {
	cells := s.hbd.Stones.Empty().Cells(nil)
	names := make([]string, len(cells))
	for i, c := range cells {
		names[i] = s.board.String(c)
	}
	return strings.Join(names, " "), nil
}

func (s *Session) handleFinalScore(args []string) (string, error) {
	if s.resigned != nil {
		if *s.resigned == hex.Black {
			return "W+", nil
		}
		return "B+", nil
	}
	if s.hbd.VC.HasFullConnection(s.board, s.hbd.Groups, hex.Black) {
		return "B+", nil
	}
	if s.hbd.VC.HasFullConnection(s.board, s.hbd.Groups, hex.White) {
		return "W+", nil
	}
	return "cannot score", nil
}

// handleTimeLeft queries or sets a color's remaining clock (spec §6).
// With no arguments it reports both clocks; zero or a negative seconds
// value disables that clock (treated as untimed, never auto-resigns).
func (s *Session) handleTimeLeft(args []string) (string, error) {
	if len(args) == 0 {
		return fmt.Sprintf("black %.0f white %.0f",
			s.clocks[colorIdx(hex.Black)].Seconds(), s.clocks[colorIdx(hex.White)].Seconds()), nil
	}
	col, ok := hex.ParseColor(args[0])
	if !ok {
		return "", fmt.Errorf("time_left: invalid color %q", args[0])
	}
	if len(args) == 1 {
		return fmt.Sprintf("%.0f", s.clocks[colorIdx(col)].Seconds()), nil
	}
	secs, err := strconv.Atoi(args[1])
	if err != nil {
		return "", fmt.Errorf("time_left: invalid seconds %q", args[1])
	}
	s.clocks[colorIdx(col)] = time.Duration(secs) * time.Second
	return "", nil
}

func (s *Session) handleLoadSGF(args []string) (string, error) {
	if len(args) < 1 {
		return "", fmt.Errorf("loadsgf requires a file path")
	}
	maxPly := -1
	if len(args) >= 2 {
		n, err := strconv.Atoi(args[1])
		if err != nil {
			return "", fmt.Errorf("loadsgf: invalid move number %q", args[1])
		}
		maxPly = n
	}
	moves, err := loadSGFMoves(args[0])
	if err != nil {
		return "", fmt.Errorf("loadsgf: %w", err)
	}
	s.reset(s.board.Width, s.board.Height)
	for i, mv := range moves {
		if maxPly >= 0 && i >= maxPly {
			break
		}
		c, err := s.board.ParseCell(mv.cell)
		if err != nil {
			return "", fmt.Errorf("loadsgf: move %d: %w", i+1, err)
		}
		if err := s.hbd.PlayMove(mv.color, c); err != nil {
			return "", fmt.Errorf("loadsgf: move %d: %w", i+1, err)
		}
		s.toMove = mv.color.Other()
	}
	return fmt.Sprintf("loaded %d moves", len(moves)), nil
}
