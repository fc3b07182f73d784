package mines

import "fmt"

type Params struct {
	Width     int `json:"width"`
	Height    int `json:"height"`
	MineCount int `json:"mine_count"`
}

// Beginner is the classic 9x9 board with 10 mines.
var Beginner = Params{Width: 9, Height: 9, MineCount: 10}

func (p Params) Seed() string {
	return fmt.Sprintf("%d:%d:%d", p.Width, p.Height, p.MineCount)
}

func (p Params) Validate() error {
	switch {
	case p.Width <= 0 || p.Height <= 0:
		return ConfigurationError{p, "board dimensions must be positive"}
	case p.MineCount <= 0:
		return ConfigurationError{p, "mine count must be positive"}
	case p.MineCount >= p.Width*p.Height:
		return ConfigurationError{p, "mine count must be less than cell count"}
	}
	return nil
}

func (p Params) InBounds(c Cell) bool {
	return 0 <= c.X && c.X < p.Width && 0 <= c.Y && c.Y < p.Height
}

func (p Params) Center() Cell {
	return Cell{X: p.Width / 2, Y: p.Height / 2}
}

func (p Params) CellCount() int {
	return p.Width * p.Height
}

func (p Params) SafeCount() int {
	return p.Width*p.Height - p.MineCount
}

// Neighbors returns the in-bounds cells among the 8 surrounding c.
func (p Params) Neighbors(c Cell) []Cell {
	ns := make([]Cell, 0, 8)
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			if dx == 0 && dy == 0 {
				continue
			}
			if n := c.Add(dx, dy); p.InBounds(n) {
				ns = append(ns, n)
			}
		}
	}
	return ns
}

func (p Params) index(c Cell) int {
	return c.Y*p.Width + c.X
}

func (p Params) cellAt(i int) Cell {
	return Cell{X: i % p.Width, Y: i / p.Width}
}
