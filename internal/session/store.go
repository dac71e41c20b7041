// Package session owns the registry of in-progress game sessions:
// creation, word submission, finalization and TTL expiry.
package session

import (
	"errors"
	"regexp"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"gridword/internal/dictionary"
	"gridword/internal/grid"
	"gridword/internal/scoring"
	"gridword/internal/util"
)

var (
	ErrNotFound        = errors.New("session not found")
	ErrAlreadyFound    = errors.New("word already found")
	ErrNotInDictionary = errors.New("word not in dictionary")
	ErrNotInGrid       = errors.New("word not in grid")
	ErrTooShort        = errors.New("session shorter than minimum duration")
	ErrInvalidName     = errors.New("name must be exactly 3 letters")
)

var nameRe = regexp.MustCompile(`^[A-Z]{3}$`)

type gameSession struct {
	id             string
	createdAt      time.Time
	grid           *grid.Grid
	foundWords     []string
	score          int
	streak         int
	lastSubmission time.Time
}

// Snapshot is a read-only copy of session state, safe to hand out.
type Snapshot struct {
	ID         string
	CreatedAt  time.Time
	FoundWords []string
	Score      int
	Streak     int
	HasGrid    bool
}

// SubmitResult echoes session state after a submission attempt. On a
// rejected submission it carries the unchanged score and word list.
type SubmitResult struct {
	Word       string
	Score      int
	Streak     int
	FoundWords []string
}

// Store is the concurrency-safe session registry. All operations on a
// session are linearized under a store-wide lock; contention is light.
type Store struct {
	mu          sync.Mutex
	sessions    map[string]*gameSession
	dict        *dictionary.Dictionary
	ttl         time.Duration
	minDuration time.Duration
	clock       func() time.Time
}

// NewStore builds a session store. Sessions older than ttl are treated as
// expired on access and reclaimed by Sweep. minDuration is the anti-cheat
// floor on session age at finalization; zero disables the check.
func NewStore(dict *dictionary.Dictionary, ttl, minDuration time.Duration) *Store {
	return &Store{
		sessions:    make(map[string]*gameSession),
		dict:        dict,
		ttl:         ttl,
		minDuration: minDuration,
		clock:       time.Now,
	}
}

// Create registers a fresh session and returns its opaque id. The grid,
// if non-nil, is snapshotted for the session's lifetime.
func (s *Store) Create(g *grid.Grid) string {
	id := uuid.NewString()
	now := s.clock()

	s.mu.Lock()
	s.sessions[id] = &gameSession{
		id:         id,
		createdAt:  now,
		grid:       g,
		foundWords: []string{},
	}
	s.mu.Unlock()

	util.LogInfo("Created session %s (grid: %v)", id, g != nil)
	return id
}

// lookup returns the live session for id, lazily expiring it first.
// Caller must hold s.mu.
func (s *Store) lookup(id string, now time.Time) (*gameSession, error) {
	sess, ok := s.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	if s.ttl > 0 && now.Sub(sess.createdAt) > s.ttl {
		delete(s.sessions, id)
		util.LogInfo("Session %s expired on access", id)
		return nil, ErrNotFound
	}
	return sess, nil
}

func (s *Store) Get(id string) (Snapshot, error) {
	now := s.clock()

	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.lookup(id, now)
	if err != nil {
		return Snapshot{}, err
	}
	return snapshotOf(sess), nil
}

// SubmitWord validates rawWord against the session and, if accepted,
// applies the score delta and streak update. Rejections leave the
// session untouched and still echo its current state.
func (s *Store) SubmitWord(id, rawWord string) (SubmitResult, error) {
	word := dictionary.Normalize(rawWord)
	now := s.clock()

	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.lookup(id, now)
	if err != nil {
		return SubmitResult{}, err
	}

	if slices.Contains(sess.foundWords, word) {
		return resultOf(sess, word), ErrAlreadyFound
	}
	if !s.dict.Contains(word) {
		return resultOf(sess, word), ErrNotInDictionary
	}
	if sess.grid != nil && !sess.grid.Exists(word) {
		return resultOf(sess, word), ErrNotInGrid
	}

	delta, streak := scoring.Update(word, now, sess.lastSubmission, sess.streak)
	sess.foundWords = append(sess.foundWords, word)
	sess.score += delta
	sess.streak = streak
	sess.lastSubmission = now

	util.LogInfo("Session %s found %q (+%d, score %d, streak %d)", id, word, delta, sess.score, sess.streak)
	return resultOf(sess, word), nil
}

// CleanName uppercases, trims and truncates a claimed name to 3 runes.
func CleanName(raw string) string {
	name := strings.ToUpper(strings.TrimSpace(raw))
	runes := []rune(name)
	if len(runes) > 3 {
		runes = runes[:3]
	}
	return string(runes)
}

// Finalize validates the claimed name and minimum session duration, then
// removes the session and returns the cleaned name with the final score.
// Checks and removal happen under one critical section; no other
// operation can observe a half-finalized session.
func (s *Store) Finalize(id, claimedName string) (string, int, error) {
	now := s.clock()

	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.lookup(id, now)
	if err != nil {
		return "", 0, err
	}

	if s.minDuration > 0 && now.Sub(sess.createdAt) < s.minDuration {
		util.LogWarn("Session %s finalized after %v, minimum is %v", id, now.Sub(sess.createdAt), s.minDuration)
		return "", 0, ErrTooShort
	}

	name := CleanName(claimedName)
	if !nameRe.MatchString(name) {
		return "", 0, ErrInvalidName
	}

	delete(s.sessions, id)
	util.LogInfo("Finalized session %s as %s with score %d", id, name, sess.score)
	return name, sess.score, nil
}

// Sweep removes expired sessions and returns how many were reclaimed.
// Uses the same cutoff as the lazy check so the expiry policy is uniform.
func (s *Store) Sweep() int {
	if s.ttl <= 0 {
		return 0
	}
	now := s.clock()

	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, sess := range s.sessions {
		if now.Sub(sess.createdAt) > s.ttl {
			delete(s.sessions, id)
			removed++
		}
	}
	if removed > 0 {
		util.LogInfo("Cleaned up %d expired sessions", removed)
	}
	return removed
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

func snapshotOf(sess *gameSession) Snapshot {
	return Snapshot{
		ID:         sess.id,
		CreatedAt:  sess.createdAt,
		FoundWords: slices.Clone(sess.foundWords),
		Score:      sess.score,
		Streak:     sess.streak,
		HasGrid:    sess.grid != nil,
	}
}

func resultOf(sess *gameSession, word string) SubmitResult {
	return SubmitResult{
		Word:       word,
		Score:      sess.score,
		Streak:     sess.streak,
		FoundWords: slices.Clone(sess.foundWords),
	}
}
