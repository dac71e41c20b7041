// Package dictionary holds the normalized word set the game accepts.
// The set is built once at warm-up and never mutated afterwards.
package dictionary

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
	"unicode"

	"github.com/samber/lo"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"gridword/internal/util"
)

// ErrSourceUnavailable is returned when the word-list source cannot be read.
var ErrSourceUnavailable = errors.New("word list source unavailable")

type Dictionary struct {
	words  map[string]struct{}
	minLen int
	maxLen int
}

var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Normalize strips diacritics via Unicode decomposition, drops every
// non-letter rune and uppercases the rest. Idempotent.
func Normalize(raw string) string {
	decomposed, _, err := transform.String(stripMarks, raw)
	if err != nil {
		decomposed = raw
	}
	var b strings.Builder
	b.Grow(len(decomposed))
	for _, r := range decomposed {
		if unicode.IsLetter(r) {
			b.WriteRune(unicode.ToUpper(r))
		}
	}
	return b.String()
}

// New builds a dictionary from raw entries, normalizing and dropping
// words outside the [minLen, maxLen] rune-length bounds.
func New(entries []string, minLen, maxLen int) *Dictionary {
	normalized := lo.FilterMap(entries, func(raw string, _ int) (string, bool) {
		w := Normalize(raw)
		n := len([]rune(w))
		return w, n >= minLen && n <= maxLen
	})
	words := make(map[string]struct{}, len(normalized))
	for _, w := range normalized {
		words[w] = struct{}{}
	}
	return &Dictionary{words: words, minLen: minLen, maxLen: maxLen}
}

// Load reads a newline-delimited word list from path.
func Load(path string, minLen, maxLen int) (*Dictionary, error) {
	util.LogInfo("Loading words from %s", path)

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSourceUnavailable, err)
	}

	lines := lo.Filter(strings.Split(string(data), "\n"), func(line string, _ int) bool {
		return strings.TrimSpace(line) != ""
	})

	d := New(lines, minLen, maxLen)
	util.LogInfo("Loaded %d words (length bounds %d-%d, %d raw lines)", d.Len(), minLen, maxLen, len(lines))
	return d, nil
}

// Contains reports whether the already-normalized word is in the set.
func (d *Dictionary) Contains(word string) bool {
	_, ok := d.words[word]
	return ok
}

func (d *Dictionary) Len() int {
	return len(d.words)
}

// Bounds returns the configured [min, max] word-length bounds.
func (d *Dictionary) Bounds() (int, int) {
	return d.minLen, d.maxLen
}

var (
	sharedOnce sync.Once
	shared     *Dictionary
	sharedErr  error
)

// Shared loads the process-wide dictionary exactly once; concurrent first
// callers are coalesced into a single build.
func Shared(path string, minLen, maxLen int) (*Dictionary, error) {
	sharedOnce.Do(func() {
		shared, sharedErr = Load(path, minLen, maxLen)
	})
	return shared, sharedErr
}
