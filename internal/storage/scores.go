package storage

import (
	"strconv"
	"sync"

	"github.com/rs/zerolog/log"
)

// BestScoreKey is the kv key holding the 2048 best score.
const BestScoreKey = "bestScore"

// BestScore keeps the 2048 best score in the kv table. Storage failures
// are logged and the in-memory value is kept.
type BestScore struct {
	store *Store

	mu   sync.Mutex
	best int
}

// NewBestScore loads the stored best score.
func NewBestScore(store *Store) *BestScore {
	best, err := store.GetInt(BestScoreKey)
	if err != nil {
		log.Error().Err(err).Msg("load best score")
	}
	return &BestScore{store: store, best: best}
}

func (b *BestScore) Best() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.best
}

// Record stores score when it beats the current best.
func (b *BestScore) Record(score int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if score <= b.best {
		return
	}
	b.best = score
	if err := b.store.Set(BestScoreKey, strconv.Itoa(score)); err != nil {
		log.Error().Err(err).Int("score", score).Msg("save best score")
	}
}
