// Package scoring computes per-word score deltas and streak progression.
// Every function is pure; callers own all state.
package scoring

import (
	"time"
	"unicode/utf8"
)

const (
	// StreakWindow is the maximum gap between submissions that keeps a
	// streak alive.
	StreakWindow = 10 * time.Second
	MaxStreak    = 10

	bonusPerStreak = 15
	minBonusStreak = 2
)

// WordScore is the base score for a word: rune length squared.
func WordScore(word string) int {
	n := utf8.RuneCountInString(word)
	return n * n
}

// StreakBonus awards 15 points per streak level once a streak of at
// least 2 is running.
func StreakBonus(streak int) int {
	if streak >= minBonusStreak {
		return streak * bonusPerStreak
	}
	return 0
}

// NextStreak advances the streak: submissions within StreakWindow of the
// previous one increment it (capped at MaxStreak), anything else resets
// to 1. A zero lastSubmission means no prior submission.
func NextStreak(now, lastSubmission time.Time, previousStreak int) int {
	if !lastSubmission.IsZero() && now.Sub(lastSubmission) < StreakWindow {
		return min(previousStreak+1, MaxStreak)
	}
	return 1
}

// Update returns the score delta for the word and the new streak value.
func Update(word string, now, lastSubmission time.Time, previousStreak int) (int, int) {
	streak := NextStreak(now, lastSubmission, previousStreak)
	return WordScore(word) + StreakBonus(streak), streak
}
