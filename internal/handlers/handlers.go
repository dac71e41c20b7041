package handlers

import (
	"context"
	"errors"
	"net/http"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"

	"gridword/internal/constants"
	"gridword/internal/grid"
	"gridword/internal/models"
	"gridword/internal/session"
	"gridword/internal/util"
)

// StartGameHandler creates a session, snapshotting the grid when one is
// supplied. Grid-less sessions skip the grid check on every submission.
func StartGameHandler(app *models.App, c *gin.Context) {
	var req models.StartRequest
	if err := c.ShouldBindJSON(&req); err != nil && c.Request.ContentLength > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": constants.ErrorCodeInvalidRequest})
		return
	}

	var g *grid.Grid
	if len(req.Grid) > 0 {
		parsed, err := grid.Parse(req.Grid, app.GridSide)
		if err != nil {
			util.LogWarn("Rejected grid from %s: %v", c.ClientIP(), err)
			c.JSON(http.StatusBadRequest, gin.H{"error": constants.ErrorCodeInvalidGrid})
			return
		}
		g = parsed
	}

	sessionID := app.Sessions.Create(g)
	c.JSON(http.StatusOK, gin.H{"sessionId": sessionID})
}

func SubmitWordHandler(app *models.App, c *gin.Context) {
	var req models.WordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": constants.ErrorCodeInvalidRequest})
		return
	}

	result, err := app.Sessions.SubmitWord(req.SessionID, req.Word)
	if err != nil {
		if errors.Is(err, session.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": constants.ErrorCodeSessionNotFound})
			return
		}
		// Domain rejections echo the unchanged session state.
		c.JSON(http.StatusBadRequest, gin.H{
			"error":      submitErrorCode(err),
			"foundWords": result.FoundWords,
			"score":      result.Score,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"foundWords": result.FoundWords,
		"score":      result.Score,
		"streak":     result.Streak,
	})
}

func submitErrorCode(err error) string {
	switch {
	case errors.Is(err, session.ErrAlreadyFound):
		return constants.ErrorCodeAlreadyFound
	case errors.Is(err, session.ErrNotInDictionary):
		return constants.ErrorCodeNotInDictionary
	case errors.Is(err, session.ErrNotInGrid):
		return constants.ErrorCodeNotInGrid
	default:
		return constants.ErrorCodeInvalidRequest
	}
}

// SubmitScoreHandler finalizes a session and hands its score to the
// leaderboard gateway. The gateway call runs with a deadline and outside
// any store lock; a write failure is surfaced, not retried.
func SubmitScoreHandler(app *models.App, c *gin.Context) {
	if !app.ScoreLimiter.Allow(c.ClientIP()) {
		c.JSON(http.StatusTooManyRequests, gin.H{"error": constants.ErrorCodeRateLimited})
		return
	}

	var req models.ScoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": constants.ErrorCodeInvalidRequest})
		return
	}

	name, score, err := app.Sessions.Finalize(req.SessionID, req.Name)
	if err != nil {
		switch {
		case errors.Is(err, session.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": constants.ErrorCodeSessionNotFound})
		case errors.Is(err, session.ErrTooShort):
			c.JSON(http.StatusBadRequest, gin.H{"error": constants.ErrorCodeSessionTooShort})
		case errors.Is(err, session.ErrInvalidName):
			c.JSON(http.StatusBadRequest, gin.H{"error": constants.ErrorCodeInvalidName})
		default:
			c.JSON(http.StatusBadRequest, gin.H{"error": constants.ErrorCodeInvalidRequest})
		}
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), app.GatewayTimeout)
	defer cancel()
	if err := app.Leaderboard.Insert(ctx, name, score); err != nil {
		util.LogWarn("Failed to persist score for %s: %v", name, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": constants.ErrorCodePersistence})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "name": name, "score": score})
}

// HighScoresHandler returns the top scores, degrading to an empty list
// when the store read fails.
func HighScoresHandler(app *models.App, c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), app.GatewayTimeout)
	defer cancel()

	entries, err := app.Leaderboard.TopN(ctx, constants.LeaderboardSize)
	if err != nil {
		util.LogWarn("Failed to fetch high scores: %v", err)
		c.JSON(http.StatusOK, []any{})
		return
	}
	c.JSON(http.StatusOK, entries)
}

func HealthzHandler(app *models.App, c *gin.Context) {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	uptime := time.Since(app.StartTime)

	app.LimiterMutex.RLock()
	limiterCount := len(app.LimiterMap)
	app.LimiterMutex.RUnlock()

	c.JSON(http.StatusOK, gin.H{
		"status":          "ok",
		"env":             map[bool]string{true: "production", false: "development"}[app.IsProduction],
		"words_loaded":    app.Dict.Len(),
		"active_sessions": app.Sessions.Len(),
		"active_limiters": limiterCount,
		"score_limiters":  app.ScoreLimiter.Len(),
		"memory_alloc_mb": m.Alloc / 1024 / 1024,
		"memory_sys_mb":   m.Sys / 1024 / 1024,
		"memory_gc_count": m.NumGC,
		"uptime":          util.FormatUptime(uptime),
		"timestamp":       time.Now().UTC().Format(time.RFC3339),
	})
}
