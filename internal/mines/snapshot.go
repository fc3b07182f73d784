package mines

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// MaxElapsed is the largest number of seconds the timer shows.
const MaxElapsed = 999

type CellState int8

const (
	Covered CellState = iota
	Flagged
	Uncovered
	HitMine
)

var cellStateNames = [...]string{
	Covered:   "covered",
	Flagged:   "flagged",
	Uncovered: "uncovered",
	HitMine:   "hit_mine",
}

func (s CellState) String() string {
	if 0 <= s && int(s) < len(cellStateNames) {
		return cellStateNames[s]
	}
	return fmt.Sprintf("CellState(%d)", int8(s))
}

func (s CellState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

type CellView struct {
	State CellState `json:"state"`
	Count int       `json:"count"` /* only meaningful when Uncovered */
}

// CellView implements [fmt.Stringer]
func (v CellView) String() string {
	switch v.State {
	case Flagged:
		return "*"
	case Uncovered:
		return strconv.Itoa(v.Count)
	case HitMine:
		return "!"
	default:
		return " "
	}
}

type Face int8

const (
	FacePlaying Face = iota
	FaceLost
	FaceWonClean
	FaceWonAfterLoss
)

var faceNames = [...]string{
	FacePlaying:      "playing",
	FaceLost:         "lost",
	FaceWonClean:     "won_clean",
	FaceWonAfterLoss: "won_after_loss",
}

func (f Face) String() string {
	if 0 <= f && int(f) < len(faceNames) {
		return faceNames[f]
	}
	return fmt.Sprintf("Face(%d)", int8(f))
}

func (f Face) MarshalText() ([]byte, error) {
	return []byte(f.String()), nil
}

// Snapshot is everything a presentation needs to draw one frame.
type Snapshot struct {
	Width          int        `json:"width"`
	Height         int        `json:"height"`
	MineCount      int        `json:"mine_count"`
	Cells          []CellView `json:"cells"` /* row-major */
	Cursor         Cell       `json:"cursor"`
	FlagsRemaining int        `json:"flags_remaining"`
	Elapsed        int        `json:"elapsed"`
	Face           Face       `json:"face"`
	Phase          Phase      `json:"-"`
}

func (s Snapshot) At(c Cell) CellView {
	return s.Cells[c.Y*s.Width+c.X]
}

// Equal reports whether s and o would draw the same frame.
func (s Snapshot) Equal(o Snapshot) bool {
	return s.Width == o.Width &&
		s.Height == o.Height &&
		s.MineCount == o.MineCount &&
		s.Cursor == o.Cursor &&
		s.FlagsRemaining == o.FlagsRemaining &&
		s.Elapsed == o.Elapsed &&
		s.Face == o.Face &&
		s.Phase == o.Phase &&
		slices.Equal(s.Cells, o.Cells)
}

func (s Snapshot) String() string {
	var b strings.Builder
	for y := range s.Height {
		for x := range s.Width {
			b.WriteString(s.At(Cell{x, y}).String())
			b.WriteByte(' ')
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func viewOf(b *Board, c Cell) CellView {
	switch {
	case b.IsHitMine(c):
		return CellView{State: HitMine}
	case b.IsFlagged(c):
		return CellView{State: Flagged}
	}
	if n, ok := b.Count(c); ok {
		return CellView{State: Uncovered, Count: n}
	}
	return CellView{State: Covered}
}
