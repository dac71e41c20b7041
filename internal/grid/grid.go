// Package grid implements the letter grid and the straight-line
// 8-direction word search.
package grid

import (
	"errors"
	"strings"
	"unicode"
)

var ErrInvalidGrid = errors.New("grid must be square with single-letter cells")

// Grid is an immutable square letter matrix. Cells are uppercased on parse.
type Grid struct {
	side  int
	cells [][]rune
}

var directions = [8][2]int{
	{-1, 0}, {1, 0}, {0, -1}, {0, 1},
	{-1, -1}, {-1, 1}, {1, -1}, {1, 1},
}

// Parse validates that cells form a side x side matrix of single letters.
func Parse(cells [][]string, side int) (*Grid, error) {
	if len(cells) != side {
		return nil, ErrInvalidGrid
	}
	parsed := make([][]rune, side)
	for r, row := range cells {
		if len(row) != side {
			return nil, ErrInvalidGrid
		}
		parsed[r] = make([]rune, side)
		for c, cell := range row {
			runes := []rune(strings.TrimSpace(cell))
			if len(runes) != 1 || !unicode.IsLetter(runes[0]) {
				return nil, ErrInvalidGrid
			}
			parsed[r][c] = unicode.ToUpper(runes[0])
		}
	}
	return &Grid{side: side, cells: parsed}, nil
}

func (g *Grid) Side() int {
	return g.side
}

// Exists reports whether word appears in the grid along a straight path in
// any of the 8 directions. Word is expected in normalized (uppercase) form.
func (g *Grid) Exists(word string) bool {
	letters := []rune(word)
	if len(letters) == 0 {
		return false
	}
	for r := 0; r < g.side; r++ {
		for c := 0; c < g.side; c++ {
			if g.cells[r][c] != letters[0] {
				continue
			}
			for _, d := range directions {
				if g.walk(r, c, d[0], d[1], letters) {
					return true
				}
			}
		}
	}
	return false
}

func (g *Grid) walk(row, col, dr, dc int, letters []rune) bool {
	r, c := row, col
	for i := 1; i < len(letters); i++ {
		r += dr
		c += dc
		if r < 0 || r >= g.side || c < 0 || c >= g.side || g.cells[r][c] != letters[i] {
			return false
		}
	}
	return true
}
