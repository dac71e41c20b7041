package main

const (
	RouteHealthz     = "/healthz"
	RouteHighScores  = "/api/highscores"
	RouteStartGame   = "/api/game"
	RouteSubmitWord  = "/api/game/word"
	RouteSubmitScore = "/api/game/score"
)
