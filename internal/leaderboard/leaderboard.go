// Package leaderboard persists and ranks final scores.
package leaderboard

import (
	"context"
	"errors"
	"time"
)

// ErrPersistence wraps every failure of the backing store.
var ErrPersistence = errors.New("leaderboard persistence failed")

type Entry struct {
	Name      string    `json:"name"`
	Score     int       `json:"score"`
	CreatedAt time.Time `json:"-"`
}

// Gateway is the external score store. Implementations must be safe for
// concurrent use; callers bound calls with a context timeout and never
// hold session or limiter locks while a call is in flight.
type Gateway interface {
	Insert(ctx context.Context, name string, score int) error
	TopN(ctx context.Context, n int) ([]Entry, error)
	Close() error
}
