package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	cachecontrol "go.eigsys.de/gin-cachecontrol/v2"

	ginGzip "github.com/gin-contrib/gzip"

	"github.com/gin-gonic/gin"

	"gridword/internal/constants"
	"gridword/internal/dictionary"
	"gridword/internal/handlers"
	"gridword/internal/leaderboard"
	"gridword/internal/models"
	"gridword/internal/ratelimit"
	"gridword/internal/session"
	"gridword/internal/util"
)

func main() {
	_ = godotenv.Load()

	isProduction := os.Getenv("GIN_MODE") == "release" || os.Getenv("ENV") == "production"
	util.LogInfo("Starting Gridword in %s mode", map[bool]string{true: "production", false: "development"}[isProduction])

	minLen := getEnvInt("WORD_MIN_LEN", constants.DefaultMinWordLen)
	maxLen := getEnvInt("WORD_MAX_LEN", constants.DefaultMaxWordLen)

	// Dictionary warm-up happens before the server accepts traffic.
	dict, err := dictionary.Shared(getEnvString("WORDS_FILE", "data/words.txt"), minLen, maxLen)
	if err != nil {
		util.LogFatal("Failed to load dictionary: %v", err)
	}

	store, err := leaderboard.OpenSQLite(getEnvString("HIGHSCORES_DB", "data/highscores.db"))
	if err != nil {
		util.LogFatal("Failed to open high score store: %v", err)
	}

	sessionTTL := getEnvDuration("SESSION_TTL", 1*time.Hour)
	minDuration := getEnvDuration("MIN_SESSION_DURATION", 10*time.Second)

	app := &models.App{
		Dict:     dict,
		Sessions: session.NewStore(dict, sessionTTL, minDuration),
		ScoreLimiter: ratelimit.NewFixedWindow(
			getEnvDuration("SCORE_WINDOW", 60*time.Second),
			getEnvInt("SCORE_MAX_PER_WINDOW", 3)),
		Leaderboard:       store,
		LimiterMap:        make(map[string]*models.RateLimiterEntry),
		GridSide:          getEnvInt("GRID_SIZE", constants.DefaultGridSide),
		IsProduction:      isProduction,
		StartTime:         time.Now(),
		HighscoreCacheAge: getEnvDuration("HIGHSCORE_CACHE_AGE", 30*time.Second),
		GatewayTimeout:    getEnvDuration("GATEWAY_TIMEOUT", 5*time.Second),
		RateLimitRPS:      getEnvInt("RATE_LIMIT_RPS", 5),
		RateLimitBurst:    getEnvInt("RATE_LIMIT_BURST", 10),
		RateLimiterTTL:    getEnvDuration("RATE_LIMITER_TTL", 1*time.Hour),
	}

	router := gin.Default()

	router.Use(requestIDMiddleware())
	router.Use(securityHeadersMiddleware())

	router.Use(ginGzip.Gzip(ginGzip.DefaultCompression))

	if err := router.SetTrustedProxies([]string{"127.0.0.1"}); err != nil {
		util.LogWarn("Failed to set trusted proxies: %v", err)
	}

	router.Use(func(c *gin.Context) {
		applyCacheHeaders(app, c)
	})

	router.GET(RouteHealthz, func(c *gin.Context) { handlers.HealthzHandler(app, c) })
	router.GET(RouteHighScores, func(c *gin.Context) { handlers.HighScoresHandler(app, c) })
	router.POST(RouteStartGame, rateLimitMiddleware(app), func(c *gin.Context) { handlers.StartGameHandler(app, c) })
	router.POST(RouteSubmitWord, rateLimitMiddleware(app), func(c *gin.Context) { handlers.SubmitWordHandler(app, c) })
	router.POST(RouteSubmitScore, rateLimitMiddleware(app), func(c *gin.Context) { handlers.SubmitScoreHandler(app, c) })

	startCleanupRoutines(app)

	startServer(app, router)
}

func startServer(app *models.App, router *gin.Engine) {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	idleConnsClosed := make(chan struct{})
	go func() {
		sigint := make(chan os.Signal, 1)
		signal.Notify(sigint, syscall.SIGINT, syscall.SIGTERM)
		<-sigint
		util.LogInfo("Shutdown signal received, shutting down server gracefully...")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			util.LogWarn("HTTP server Shutdown: %v", err)
		}
		close(idleConnsClosed)
	}()

	util.LogInfo("Server starting on http://localhost:%s", port)
	if err := srv.ListenAndServe(); err != http.ErrServerClosed {
		util.LogFatal("Server failed to start: %v", err)
	}
	<-idleConnsClosed

	if err := app.Leaderboard.Close(); err != nil {
		util.LogWarn("Failed to close high score store: %v", err)
	}
	util.LogInfo("Server shutdown complete")
}

func applyCacheHeaders(app *models.App, c *gin.Context) {
	if app.IsProduction && c.Request.URL.Path == RouteHighScores {
		cachecontrol.New(cachecontrol.Config{
			Public: true,
			MaxAge: cachecontrol.Duration(app.HighscoreCacheAge),
		})(c)
		c.Header("Vary", "Accept-Encoding")
		return
	}
	cachecontrol.New(cachecontrol.Config{
		NoStore:        true,
		NoCache:        true,
		MustRevalidate: true,
	})(c)
}

func startCleanupRoutines(app *models.App) {
	go func() {
		ticker := time.NewTicker(10 * time.Minute)
		defer ticker.Stop()

		for range ticker.C {
			app.Sessions.Sweep()
		}
	}()

	go func() {
		ticker := time.NewTicker(5 * time.Minute)
		defer ticker.Stop()

		for range ticker.C {
			if removed := app.ScoreLimiter.Sweep(); removed > 0 {
				util.LogInfo("Cleaned up %d elapsed rate limit windows", removed)
			}
		}
	}()

	go func() {
		ticker := time.NewTicker(30 * time.Minute)
		defer ticker.Stop()

		for range ticker.C {
			cleanupStaleRateLimiters(app)
		}
	}()

	util.LogInfo("Started cleanup routines for sessions and rate limiters")
}

func cleanupStaleRateLimiters(app *models.App) {
	app.LimiterMutex.Lock()
	defer app.LimiterMutex.Unlock()

	cutoffTime := time.Now().Add(-app.RateLimiterTTL)
	removedCount := 0

	for key, entry := range app.LimiterMap {
		if entry.LastAccess.Before(cutoffTime) {
			delete(app.LimiterMap, key)
			removedCount++
		}
	}

	if removedCount > 0 {
		util.LogInfo("Cleaned up %d stale rate limiters", removedCount)
	}
}
