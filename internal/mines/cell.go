package mines

import "fmt"

// Cell is a board coordinate. Cells have no identity beyond their
// coordinates, so Cell is used directly as a map and set key.
type Cell struct {
	X int `json:"x"`
	Y int `json:"y"`
}

func (c Cell) Add(dx, dy int) Cell {
	return Cell{X: c.X + dx, Y: c.Y + dy}
}

// Cell implements [fmt.Stringer]
func (c Cell) String() string {
	return fmt.Sprintf("%d:%d", c.X, c.Y)
}

type Axis int8

const (
	AxisX Axis = iota
	AxisY
)
