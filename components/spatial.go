package components

import "fmt"

// Position is a grid cell.
type Position struct {
	X, Y int
}

// Key renders the position as "x,y", the form used for per-cell counters.
func (p Position) Key() string {
	return fmt.Sprintf("%d,%d", p.X, p.Y)
}

// Adjacent reports whether q is one of p's eight neighbors.
func (p Position) Adjacent(q Position) bool {
	if p == q {
		return false
	}
	return abs(p.X-q.X) <= 1 && abs(p.Y-q.Y) <= 1
}

// Near reports whether q is within one cell of p, p itself included.
func (p Position) Near(q Position) bool {
	return abs(p.X-q.X) <= 1 && abs(p.Y-q.Y) <= 1
}

// Offsets8 lists neighbor offsets, dx outer and dy inner.
var Offsets8 = [8]Position{
	{-1, -1}, {-1, 0}, {-1, 1},
	{0, -1}, {0, 1},
	{1, -1}, {1, 0}, {1, 1},
}

// Offsets4 lists the orthogonal neighbor offsets.
var Offsets4 = [4]Position{{-1, 0}, {1, 0}, {0, -1}, {0, 1}}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
