package session

import (
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"gridword/internal/dictionary"
	"gridword/internal/grid"
)

func testDict() *dictionary.Dictionary {
	return dictionary.New([]string{"cat", "chat", "crane", "tree", "stone", "river"}, 3, 8)
}

func testStore(t *testing.T, ttl, minDuration time.Duration) (*Store, *time.Time) {
	t.Helper()
	s := NewStore(testDict(), ttl, minDuration)
	now := time.Now()
	s.clock = func() time.Time { return now }
	return s, &now
}

func testGrid(t *testing.T) *grid.Grid {
	t.Helper()
	g, err := grid.Parse([][]string{
		{"C", "H", "A", "T"},
		{"R", "A", "X", "R"},
		{"A", "X", "T", "E"},
		{"T", "X", "X", "E"},
	}, 4)
	if err != nil {
		t.Fatal(err)
	}
	return g
}

func TestCreateAndGet(t *testing.T) {
	s, _ := testStore(t, time.Hour, 0)

	id := s.Create(nil)
	if len(id) < 10 {
		t.Fatalf("session id looks too short: %q", id)
	}

	snap, err := s.Get(id)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if snap.Score != 0 || snap.Streak != 0 || len(snap.FoundWords) != 0 {
		t.Errorf("fresh session should be empty, got %+v", snap)
	}
	if snap.HasGrid {
		t.Error("grid-less session should report no grid")
	}

	if _, err := s.Get("nope"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestSubmitWordAccumulates(t *testing.T) {
	s, now := testStore(t, time.Hour, 0)
	id := s.Create(nil)

	res, err := s.SubmitWord(id, "chat")
	if err != nil {
		t.Fatalf("SubmitWord failed: %v", err)
	}
	if res.Score != 16 || res.Streak != 1 {
		t.Errorf("expected score 16 streak 1, got %d/%d", res.Score, res.Streak)
	}

	// Second word inside the streak window: 9 + 2*15 bonus.
	*now = now.Add(3 * time.Second)
	res, err = s.SubmitWord(id, "cat")
	if err != nil {
		t.Fatalf("SubmitWord failed: %v", err)
	}
	if res.Streak != 2 {
		t.Errorf("expected streak 2, got %d", res.Streak)
	}
	if res.Score != 16+9+30 {
		t.Errorf("expected score 55, got %d", res.Score)
	}
	if len(res.FoundWords) != 2 || res.FoundWords[0] != "CHAT" || res.FoundWords[1] != "CAT" {
		t.Errorf("foundWords should preserve insertion order, got %v", res.FoundWords)
	}
}

func TestSubmitWordStreakReset(t *testing.T) {
	s, now := testStore(t, time.Hour, 0)
	id := s.Create(nil)

	s.SubmitWord(id, "chat")
	*now = now.Add(30 * time.Second)
	res, err := s.SubmitWord(id, "cat")
	if err != nil {
		t.Fatal(err)
	}
	if res.Streak != 1 {
		t.Errorf("gap over the window should reset streak, got %d", res.Streak)
	}
}

func TestSubmitWordRejections(t *testing.T) {
	s, _ := testStore(t, time.Hour, 0)
	id := s.Create(testGrid(t))

	if _, err := s.SubmitWord(id, "chat"); err != nil {
		t.Fatalf("CHAT should be accepted: %v", err)
	}

	res, err := s.SubmitWord(id, "chat")
	if !errors.Is(err, ErrAlreadyFound) {
		t.Errorf("duplicate should fail with ErrAlreadyFound, got %v", err)
	}
	if res.Score != 16 {
		t.Errorf("rejected submission must not change score, got %d", res.Score)
	}

	if _, err := s.SubmitWord(id, "zzzzz"); !errors.Is(err, ErrNotInDictionary) {
		t.Errorf("expected ErrNotInDictionary, got %v", err)
	}

	// STONE is in the dictionary but nowhere in the grid.
	res, err = s.SubmitWord(id, "stone")
	if !errors.Is(err, ErrNotInGrid) {
		t.Errorf("expected ErrNotInGrid, got %v", err)
	}
	if res.Score != 16 || len(res.FoundWords) != 1 {
		t.Errorf("rejected submission must leave session unchanged, got %+v", res)
	}

	if _, err := s.SubmitWord("nope", "chat"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestSubmitWordNormalizesInput(t *testing.T) {
	s, _ := testStore(t, time.Hour, 0)
	id := s.Create(nil)

	if _, err := s.SubmitWord(id, "  ChAt "); err != nil {
		t.Fatalf("raw input should be normalized: %v", err)
	}
	if _, err := s.SubmitWord(id, "chat"); !errors.Is(err, ErrAlreadyFound) {
		t.Errorf("normalized duplicate should be rejected, got %v", err)
	}
}

func TestCleanName(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"abc", "ABC"},
		{"  xyz ", "XYZ"},
		{"ABCD", "ABC"},
		{"ab", "AB"},
	}
	for _, tc := range cases {
		if got := CleanName(tc.in); got != tc.want {
			t.Errorf("CleanName(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestFinalize(t *testing.T) {
	s, now := testStore(t, time.Hour, 10*time.Second)
	id := s.Create(nil)
	s.SubmitWord(id, "chat")

	// Too early.
	if _, _, err := s.Finalize(id, "abc"); !errors.Is(err, ErrTooShort) {
		t.Errorf("expected ErrTooShort, got %v", err)
	}

	*now = now.Add(time.Minute)

	for _, bad := range []string{"ab", "A1C", "1", ""} {
		if _, _, err := s.Finalize(id, bad); !errors.Is(err, ErrInvalidName) {
			t.Errorf("Finalize(%q) should fail with ErrInvalidName, got %v", bad, err)
		}
	}
	// A rejected finalize leaves the session intact.
	if _, err := s.Get(id); err != nil {
		t.Fatalf("session should survive rejected finalize: %v", err)
	}

	name, score, err := s.Finalize(id, "abcd")
	if err != nil {
		t.Fatalf("Finalize failed: %v", err)
	}
	if name != "ABC" || score != 16 {
		t.Errorf("expected (ABC, 16), got (%s, %d)", name, score)
	}

	// Session is gone once finalized.
	if _, _, err := s.Finalize(id, "abc"); !errors.Is(err, ErrNotFound) {
		t.Errorf("second finalize should fail with ErrNotFound, got %v", err)
	}
	if _, err := s.Get(id); !errors.Is(err, ErrNotFound) {
		t.Errorf("finalized session should be unreachable, got %v", err)
	}
}

func TestLazyExpiry(t *testing.T) {
	s, now := testStore(t, time.Hour, 0)
	id := s.Create(nil)

	*now = now.Add(2 * time.Hour)
	if _, err := s.Get(id); !errors.Is(err, ErrNotFound) {
		t.Errorf("expired session should read as not found, got %v", err)
	}
	if s.Len() != 0 {
		t.Errorf("lazy expiry should delete the session, %d left", s.Len())
	}
}

func TestSweep(t *testing.T) {
	s, now := testStore(t, time.Hour, 0)
	s.Create(nil)
	s.Create(nil)

	*now = now.Add(30 * time.Minute)
	fresh := s.Create(nil)

	*now = now.Add(45 * time.Minute)
	if removed := s.Sweep(); removed != 2 {
		t.Errorf("expected 2 sessions swept, got %d", removed)
	}
	if _, err := s.Get(fresh); err != nil {
		t.Errorf("fresh session should survive the sweep: %v", err)
	}
}

func TestConcurrentSubmissions(t *testing.T) {
	words := make([]string, 50)
	for i := range words {
		words[i] = fmt.Sprintf("word%c%c", 'a'+rune(i/26), 'a'+rune(i%26))
	}
	s := NewStore(dictionary.New(words, 3, 8), time.Hour, 0)
	id := s.Create(nil)

	var wg sync.WaitGroup
	for _, w := range words {
		wg.Add(1)
		go func(w string) {
			defer wg.Done()
			if _, err := s.SubmitWord(id, w); err != nil {
				t.Errorf("SubmitWord(%q) failed: %v", w, err)
			}
		}(w)
	}
	wg.Wait()

	snap, err := s.Get(id)
	if err != nil {
		t.Fatal(err)
	}
	if len(snap.FoundWords) != len(words) {
		t.Errorf("expected %d found words, got %d", len(words), len(snap.FoundWords))
	}
}
