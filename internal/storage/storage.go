// Package storage provides persistent storage for engine preferences and
// game statistics, kept and adapted directly from the teacher's
// internal/storage/storage.go: same BadgerDB-backed namespaced-key/JSON-
// value shape, re-keyed for this engine's own preference and stats
// structs (board size, search mode, difficulty, resign threshold; clocks
// are not stored —
// SPEC_FULL.md §10 "Configuration" — rather than chess's NNUE/castling
// concerns). Hex games are always decisive (no stalemate, no draws by
// rule), so GameStats here has no Draws field.
package storage

import (
	"encoding/json"
	"time"

	"github.com/dgraph-io/badger/v4"
)

// Storage keys
const (
	keyPreferences = "preferences"
	keyStats       = "stats"
	keyFirstLaunch = "first_launch"
)

// SearchMode selects which search agent genmove delegates to.
type SearchMode int

const (
	SearchMCTS SearchMode = iota
	SearchAlphaBeta
)

// Difficulty scales the per-move simulation/time budget handed to the
// search engine.
type Difficulty int

const (
	DifficultyEasy Difficulty = iota
	DifficultyMedium
	DifficultyHard
)

// PlayerColor records which color the human plays against the engine.
type PlayerColor int

const (
	ColorBlack PlayerColor = iota
	ColorWhite
)

// UserPreferences stores engine and player settings.
type UserPreferences struct {
	Username         string     `json:"username"`
	Difficulty       Difficulty `json:"difficulty"`
	SearchMode       SearchMode `json:"search_mode"`
	PlayerColor      PlayerColor `json:"player_color"`
	BoardWidth       int        `json:"board_width"`
	BoardHeight      int        `json:"board_height"`
	ResignThreshold  int        `json:"resign_threshold"` // percent confidence of loss before auto-resigning, 0 disables
	SoundEnabled     bool       `json:"sound_enabled"`
	LastPlayed       time.Time  `json:"last_played"`
}

// DefaultPreferences returns default user preferences.
func DefaultPreferences() *UserPreferences {
	return &UserPreferences{
		Username:        "Player",
		Difficulty:      DifficultyMedium,
		SearchMode:      SearchMCTS,
		PlayerColor:     ColorBlack,
		BoardWidth:      11,
		BoardHeight:     11,
		ResignThreshold: 0,
		SoundEnabled:    true,
		LastPlayed:      time.Now(),
	}
}

// GameStats stores game statistics.
type GameStats struct {
	GamesPlayed     int            `json:"games_played"`
	Wins            int            `json:"wins"`
	Losses          int            `json:"losses"`
	WinsBySearch    map[string]int `json:"wins_by_search_mode"`
	WinsByDiff      map[string]int `json:"wins_by_difficulty"`
	TotalPlayTime   time.Duration  `json:"total_play_time"`
	LongestWinStrk  int            `json:"longest_win_streak"`
	CurrentStreak   int            `json:"current_streak"`
}

// NewGameStats returns empty game statistics.
func NewGameStats() *GameStats {
	return &GameStats{
		WinsBySearch: make(map[string]int),
		WinsByDiff:   make(map[string]int),
	}
}

// GameResult represents the result of a completed game.
type GameResult struct {
	Won        bool
	SearchMode SearchMode
	Difficulty Difficulty
	Duration   time.Duration
}

// Storage wraps BadgerDB for persistent storage.
type Storage struct {
	db *badger.DB
}

// NewStorage creates a new storage instance.
func NewStorage() (*Storage, error) {
	dbDir, err := GetDatabaseDir()
	if err != nil {
		return nil, err
	}

	opts := badger.DefaultOptions(dbDir)
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}

	return &Storage{db: db}, nil
}

// Close closes the database.
func (s *Storage) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// IsFirstLaunch returns true if this is the first launch.
func (s *Storage) IsFirstLaunch() (bool, error) {
	firstLaunch := true

	err := s.db.View(func(txn *badger.Txn) error {
		_, err := txn.Get([]byte(keyFirstLaunch))
		if err == badger.ErrKeyNotFound {
			firstLaunch = true
			return nil
		}
		if err != nil {
			return err
		}
		firstLaunch = false
		return nil
	})

	return firstLaunch, err
}

// MarkFirstLaunchComplete marks that first launch setup is complete.
func (s *Storage) MarkFirstLaunchComplete() error {
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(keyFirstLaunch), []byte("done"))
	})
}

// SavePreferences saves user preferences.
func (s *Storage) SavePreferences(prefs *UserPreferences) error {
	prefs.LastPlayed = time.Now()

	data, err := json.Marshal(prefs)
	if err != nil {
		return err
	}

	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(keyPreferences), data)
	})
}

// LoadPreferences loads user preferences, returning defaults if not found.
func (s *Storage) LoadPreferences() (*UserPreferences, error) {
	prefs := DefaultPreferences()

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(keyPreferences))
		if err == badger.ErrKeyNotFound {
			return nil
		}
		if err != nil {
			return err
		}

		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, prefs)
		})
	})

	return prefs, err
}

// SaveStats saves game statistics.
func (s *Storage) SaveStats(stats *GameStats) error {
	data, err := json.Marshal(stats)
	if err != nil {
		return err
	}

	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(keyStats), data)
	})
}

// LoadStats loads game statistics, returning empty stats if not found.
func (s *Storage) LoadStats() (*GameStats, error) {
	stats := NewGameStats()

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(keyStats))
		if err == badger.ErrKeyNotFound {
			return nil
		}
		if err != nil {
			return err
		}

		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, stats)
		})
	})

	return stats, err
}

// RecordGame records a completed game and updates statistics. Hex has no
// draws, so every game is either a win or a loss for the human player.
func (s *Storage) RecordGame(result GameResult) error {
	stats, err := s.LoadStats()
	if err != nil {
		return err
	}

	stats.GamesPlayed++
	stats.TotalPlayTime += result.Duration

	searchKey := "mcts"
	if result.SearchMode == SearchAlphaBeta {
		searchKey = "alphabeta"
	}

	diffKey := "easy"
	switch result.Difficulty {
	case DifficultyMedium:
		diffKey = "medium"
	case DifficultyHard:
		diffKey = "hard"
	}

	if result.Won {
		stats.Wins++
		stats.CurrentStreak++
		if stats.CurrentStreak > stats.LongestWinStrk {
			stats.LongestWinStrk = stats.CurrentStreak
		}
		stats.WinsBySearch[searchKey]++
		stats.WinsByDiff[diffKey]++
	} else {
		stats.Losses++
		stats.CurrentStreak = 0
	}

	return s.SaveStats(stats)
}

// GetWinRate returns the win rate as a percentage (0-100).
func (s *GameStats) GetWinRate() float64 {
	if s.GamesPlayed == 0 {
		return 0
	}
	return float64(s.Wins) / float64(s.GamesPlayed) * 100
}
