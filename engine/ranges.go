package engine

import (
	"math"

	"github.com/lixenwraith/hitgrid/core"
)

// ChunkKey identifies one chunk by column and row
type ChunkKey struct {
	Col, Row int
}

// ChunkRange is an inclusive rectangle of chunk coordinates
type ChunkRange struct {
	MinCol, MaxCol int
	MinRow, MaxRow int
}

// Contains reports whether the key lies within the range
func (r ChunkRange) Contains(k ChunkKey) bool {
	return k.Col >= r.MinCol && k.Col <= r.MaxCol && k.Row >= r.MinRow && k.Row <= r.MaxRow
}

// Cells returns the number of chunks covered
func (r ChunkRange) Cells() int {
	if r.MaxCol < r.MinCol || r.MaxRow < r.MinRow {
		return 0
	}
	return (r.MaxCol - r.MinCol + 1) * (r.MaxRow - r.MinRow + 1)
}

// Intersect clips r to o, ok is false when they do not meet
func (r ChunkRange) Intersect(o ChunkRange) (ChunkRange, bool) {
	out := ChunkRange{
		MinCol: max(r.MinCol, o.MinCol),
		MaxCol: min(r.MaxCol, o.MaxCol),
		MinRow: max(r.MinRow, o.MinRow),
		MaxRow: min(r.MaxRow, o.MaxRow),
	}
	return out, out.Cells() > 0
}

// Each visits every key row by row
func (r ChunkRange) Each(fn func(ChunkKey)) {
	for row := r.MinRow; row <= r.MaxRow; row++ {
		for col := r.MinCol; col <= r.MaxCol; col++ {
			fn(ChunkKey{Col: col, Row: row})
		}
	}
}

// InclusiveRange returns the chunks a box touches for membership purposes
// A box edge lying exactly on a chunk boundary counts in both adjoining chunks
// A fully degenerate box gets exactly the one chunk containing its point
func InclusiveRange(e core.Edges, w, h float64) ChunkRange {
	if e.Degenerate() {
		col := int(math.Floor(e.Left / w))
		row := int(math.Floor(e.Top / h))
		return ChunkRange{MinCol: col, MaxCol: col, MinRow: row, MaxRow: row}
	}
	return ChunkRange{
		MinCol: int(math.Ceil(e.Left/w)) - 1,
		MaxCol: int(math.Floor(e.Right / w)),
		MinRow: int(math.Ceil(e.Top/h)) - 1,
		MaxRow: int(math.Floor(e.Bottom / h)),
	}
}

// ExclusiveRange returns the chunks whose interior a box reaches, without
// boundary padding; never empty
func ExclusiveRange(e core.Edges, w, h float64) ChunkRange {
	r := ChunkRange{
		MinCol: int(math.Floor(e.Left / w)),
		MaxCol: int(math.Ceil(e.Right/w)) - 1,
		MinRow: int(math.Floor(e.Top / h)),
		MaxRow: int(math.Ceil(e.Bottom/h)) - 1,
	}
	r.MaxCol = max(r.MaxCol, r.MinCol)
	r.MaxRow = max(r.MaxRow, r.MinRow)
	return r
}
