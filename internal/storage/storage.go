package storage

import (
	"encoding/json"
	"time"

	"github.com/dgraph-io/badger/v4"
)

// Storage keys.
const (
	keyConfig      = "config"
	keyStats       = "stats"
	keyFirstLaunch = "first_launch"
	gameLogPrefix  = "game/"
)

// EngineConfig stores the engine's persisted configuration: hash table
// size, task pool width, skill level, and the weight-file path the
// evaluator should load on startup.
type EngineConfig struct {
	HashMB      int       `json:"hash_mb"`
	NumTasks    int       `json:"num_tasks"`
	Level       int       `json:"level"`
	WeightsPath string    `json:"weights_path"`
	LastUsed    time.Time `json:"last_used"`
}

// DefaultEngineConfig returns a reasonable starting configuration.
func DefaultEngineConfig() *EngineConfig {
	return &EngineConfig{
		HashMB:   64,
		NumTasks: 1,
		Level:    30,
		LastUsed: time.Now(),
	}
}

// GameRecord is one completed game's result, logged under its own key so
// a full game history can be scanned without deserialising the running
// aggregate stats.
type GameRecord struct {
	FinalPosition string        `json:"final_position"` // 65-char board text
	Score         int           `json:"score"`           // disc difference, recording side's perspective: >0 win, <0 loss, 0 draw
	MoveCount     int           `json:"move_count"`
	Level         int           `json:"level"`
	Duration      time.Duration `json:"duration"`
	PlayedAt      time.Time     `json:"played_at"`
}

// Stats is the running aggregate over all recorded games.
type Stats struct {
	GamesPlayed    int            `json:"games_played"`
	Wins           int            `json:"wins"`
	Losses         int            `json:"losses"`
	Draws          int            `json:"draws"`
	WinsByLevel    map[string]int `json:"wins_by_level"`
	LongestWinStrk int            `json:"longest_win_streak"`
	CurrentStreak  int            `json:"current_streak"`
}

// NewStats returns empty aggregate statistics.
func NewStats() *Stats {
	return &Stats{WinsByLevel: make(map[string]int)}
}

// GetWinRate returns the win rate as a percentage (0-100).
func (s *Stats) GetWinRate() float64 {
	if s.GamesPlayed == 0 {
		return 0
	}
	return float64(s.Wins) / float64(s.GamesPlayed) * 100
}

// Storage wraps BadgerDB for the engine's persistent state: configuration,
// aggregate stats, and a per-game result log.
type Storage struct {
	db *badger.DB
}

// NewStorage opens (creating if absent) the database under the platform
// data directory.
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

// MarkFirstLaunchComplete marks that first-launch setup is complete.
func (s *Storage) MarkFirstLaunchComplete() error {
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(keyFirstLaunch), []byte("done"))
	})
}

// SaveConfig persists the engine configuration.
func (s *Storage) SaveConfig(cfg *EngineConfig) error {
	cfg.LastUsed = time.Now()

	data, err := json.Marshal(cfg)
	if err != nil {
		return err
	}

	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(keyConfig), data)
	})
}

// LoadConfig loads the engine configuration, returning defaults if none
// has been saved yet.
func (s *Storage) LoadConfig() (*EngineConfig, error) {
	cfg := DefaultEngineConfig()

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(keyConfig))
		if err == badger.ErrKeyNotFound {
			return nil
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, cfg)
		})
	})

	return cfg, err
}

// SaveStats persists the aggregate statistics.
func (s *Storage) SaveStats(stats *Stats) error {
	data, err := json.Marshal(stats)
	if err != nil {
		return err
	}

	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(keyStats), data)
	})
}

// LoadStats loads the aggregate statistics, returning empty stats if none
// has been saved yet.
func (s *Storage) LoadStats() (*Stats, error) {
	stats := NewStats()

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

// RecordGame appends rec to the game log and updates the aggregate
// statistics.
func (s *Storage) RecordGame(rec GameRecord) error {
	key := gameLogPrefix + rec.PlayedAt.Format(time.RFC3339Nano)
	data, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	if err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), data)
	}); err != nil {
		return err
	}

	stats, err := s.LoadStats()
	if err != nil {
		return err
	}

	stats.GamesPlayed++
	levelKey := levelBucket(rec.Level)

	switch {
	case rec.Score == 0:
		stats.Draws++
		stats.CurrentStreak = 0
	case rec.Score > 0:
		stats.Wins++
		stats.CurrentStreak++
		if stats.CurrentStreak > stats.LongestWinStrk {
			stats.LongestWinStrk = stats.CurrentStreak
		}
		stats.WinsByLevel[levelKey]++
	default:
		stats.Losses++
		stats.CurrentStreak = 0
	}

	return s.SaveStats(stats)
}

// Games returns every recorded game, oldest first (the log key prefix is
// a timestamp, so badger's natural key order is chronological).
func (s *Storage) Games() ([]GameRecord, error) {
	var out []GameRecord
	err := s.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()
		prefix := []byte(gameLogPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			item := it.Item()
			if err := item.Value(func(val []byte) error {
				var rec GameRecord
				if err := json.Unmarshal(val, &rec); err != nil {
					return err
				}
				out = append(out, rec)
				return nil
			}); err != nil {
				return err
			}
		}
		return nil
	})
	return out, err
}

func levelBucket(level int) string {
	switch {
	case level < 20:
		return "low"
	case level < 40:
		return "mid"
	default:
		return "high"
	}
}
