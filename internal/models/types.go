package models

import (
	"sync"
	"time"

	"golang.org/x/time/rate"

	"gridword/internal/dictionary"
	"gridword/internal/leaderboard"
	"gridword/internal/ratelimit"
	"gridword/internal/session"
)

type StartRequest struct {
	Grid [][]string `json:"grid"`
}

type WordRequest struct {
	SessionID string `json:"sessionId" binding:"required"`
	Word      string `json:"word" binding:"required"`
}

type ScoreRequest struct {
	SessionID string `json:"sessionId" binding:"required"`
	Name      string `json:"name" binding:"required"`
}

// RateLimiterEntry tracks a per-IP token bucket for the request
// throttling middleware.
type RateLimiterEntry struct {
	Limiter    *rate.Limiter
	LastAccess time.Time
}

type App struct {
	Dict         *dictionary.Dictionary
	Sessions     *session.Store
	ScoreLimiter *ratelimit.FixedWindow
	Leaderboard  leaderboard.Gateway

	LimiterMap   map[string]*RateLimiterEntry
	LimiterMutex sync.RWMutex

	GridSide     int
	IsProduction bool
	StartTime    time.Time

	HighscoreCacheAge time.Duration
	GatewayTimeout    time.Duration
	RateLimitRPS      int
	RateLimitBurst    int
	RateLimiterTTL    time.Duration
}
