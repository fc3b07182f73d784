package mines

import (
	"github.com/zyedidia/generic/mapset"
)

// Board stores the mine layout and the player's progress. It has no game
// rules of its own beyond keeping its sets consistent.
type Board struct {
	Params
	mines     mapset.Set[Cell]
	uncovered map[Cell]int
	flagged   mapset.Set[Cell]
	minesHit  mapset.Set[Cell]
}

func NewBoard(p Params, planter Planter) (*Board, error) {
	b := &Board{}
	if err := b.Reset(p, planter); err != nil {
		return nil, err
	}
	return b, nil
}

// Reset discards all progress and plants a new set of mines. On error the
// board is left unchanged.
func (b *Board) Reset(p Params, planter Planter) error {
	if err := p.Validate(); err != nil {
		return err
	}
	cells, err := planter.Plant(p)
	if err != nil {
		return err
	}
	mines := mapset.New[Cell]()
	for _, c := range cells {
		mines.Put(c)
	}
	if mines.Size() != p.MineCount {
		return ConfigurationError{p, "planter returned duplicate mines"}
	}

	b.Params = p
	b.mines = mines
	b.uncovered = make(map[Cell]int, p.SafeCount())
	b.flagged = mapset.New[Cell]()
	b.minesHit = mapset.New[Cell]()

	Log.WithField("params", p.Seed()).Debug("board reset")
	return nil
}

func (b *Board) IsMine(c Cell) bool {
	return b.mines.Has(c)
}

func (b *Board) IsUncovered(c Cell) bool {
	_, ok := b.uncovered[c]
	return ok
}

func (b *Board) IsFlagged(c Cell) bool {
	return b.flagged.Has(c)
}

func (b *Board) IsHitMine(c Cell) bool {
	return b.minesHit.Has(c)
}

// Count returns the adjacency count recorded when c was uncovered.
func (b *Board) Count(c Cell) (int, bool) {
	n, ok := b.uncovered[c]
	return n, ok
}

func (b *Board) AdjacentMineCount(c Cell) int {
	n := 0
	for _, nb := range b.Neighbors(c) {
		if b.mines.Has(nb) {
			n++
		}
	}
	return n
}

// CoveredUnflaggedNeighbors returns the neighbours of c that are neither
// uncovered nor flagged.
func (b *Board) CoveredUnflaggedNeighbors(c Cell) []Cell {
	ns := b.Neighbors(c)
	out := ns[:0]
	for _, nb := range ns {
		if !b.IsUncovered(nb) && !b.flagged.Has(nb) {
			out = append(out, nb)
		}
	}
	return out
}

// panics [AssertionError]
func (b *Board) MarkUncovered(c Cell, count int) {
	switch {
	case !b.InBounds(c):
		panic(AssertionError{"uncovering out of bounds cell " + c.String()})
	case b.flagged.Has(c):
		panic(AssertionError{"uncovering flagged cell " + c.String()})
	case b.mines.Has(c):
		panic(AssertionError{"uncovering mine " + c.String()})
	case count < 0 || count > 8:
		panic(AssertionError{"adjacency count out of range"})
	}
	b.uncovered[c] = count
}

// panics [AssertionError]
func (b *Board) MarkFlagged(c Cell) {
	if !b.InBounds(c) {
		panic(AssertionError{"flagging out of bounds cell " + c.String()})
	}
	if b.IsUncovered(c) {
		panic(AssertionError{"flagging uncovered cell " + c.String()})
	}
	b.flagged.Put(c)
}

func (b *Board) UnmarkFlagged(c Cell) {
	b.flagged.Remove(c)
}

// panics [AssertionError]
func (b *Board) MarkHit(c Cell) {
	if !b.mines.Has(c) {
		panic(AssertionError{"marking hit on safe cell " + c.String()})
	}
	b.minesHit.Put(c)
}

func (b *Board) UncoveredCount() int {
	return len(b.uncovered)
}

func (b *Board) FlaggedCount() int {
	return b.flagged.Size()
}

func (b *Board) HitCount() int {
	return b.minesHit.Size()
}

// Cleared reports whether every safe cell has been uncovered.
func (b *Board) Cleared() bool {
	return len(b.uncovered) == b.SafeCount()
}

// Mines returns the mine cells in row-major order.
func (b *Board) Mines() []Cell {
	cells := make([]Cell, 0, b.MineCount)
	for i := range b.CellCount() {
		if c := b.cellAt(i); b.mines.Has(c) {
			cells = append(cells, c)
		}
	}
	return cells
}
