// Package layout loads hand-made mine layouts so a board can be replayed
// with the same mines every game.
package layout

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v2"

	"github.com/vancomm/minesweeper-remote/internal/mines"
)

const (
	mineRune = '*'
	safeRune = '.'
)

// Layout is stored as YAML:
//
//	name: wall
//	rows:
//	  - "*...*...."
//	  - "....*...."
type Layout struct {
	Name string   `yaml:"name,omitempty"`
	Rows []string `yaml:"rows"`
}

func Load(path string) (*Layout, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("unable to read layout: %w", err)
	}
	return Parse(b)
}

func Parse(b []byte) (*Layout, error) {
	var l Layout
	if err := yaml.UnmarshalStrict(b, &l); err != nil {
		return nil, fmt.Errorf("unable to parse layout: %w", err)
	}
	if len(l.Rows) == 0 {
		return nil, fmt.Errorf("layout has no rows")
	}
	width := len(l.Rows[0])
	for y, row := range l.Rows {
		if len(row) != width {
			return nil, fmt.Errorf("row %d has %d cells, want %d", y, len(row), width)
		}
		if i := strings.IndexFunc(row, func(r rune) bool {
			return r != mineRune && r != safeRune
		}); i >= 0 {
			return nil, fmt.Errorf("row %d: unexpected %q at column %d", y, row[i], i)
		}
	}
	if err := l.Params().Validate(); err != nil {
		return nil, err
	}
	return &l, nil
}

// FromBoard captures the mines of b.
func FromBoard(name string, b *mines.Board) *Layout {
	rows := make([][]byte, b.Height)
	for y := range rows {
		rows[y] = []byte(strings.Repeat(string(safeRune), b.Width))
	}
	for _, c := range b.Mines() {
		rows[c.Y][c.X] = mineRune
	}
	l := &Layout{Name: name, Rows: make([]string, len(rows))}
	for y, row := range rows {
		l.Rows[y] = string(row)
	}
	return l
}

func (l Layout) Params() mines.Params {
	p := mines.Params{Height: len(l.Rows)}
	if len(l.Rows) > 0 {
		p.Width = len(l.Rows[0])
	}
	for _, row := range l.Rows {
		p.MineCount += strings.Count(row, string(mineRune))
	}
	return p
}

func (l Layout) Planter() mines.FixedPlanter {
	var cells mines.FixedPlanter
	for y, row := range l.Rows {
		for x, r := range row {
			if r == mineRune {
				cells = append(cells, mines.Cell{X: x, Y: y})
			}
		}
	}
	return cells
}

func (l Layout) Marshal() ([]byte, error) {
	return yaml.Marshal(l)
}
