package mines

import (
	"fmt"
	"math/rand/v2"
)

// A Planter chooses the mine cells for a new game. Implementations may
// assume p has already been validated.
type Planter interface {
	Plant(p Params) ([]Cell, error)
}

// RandomPlanter samples mines uniformly from all cells without
// replacement.
type RandomPlanter struct {
	Rand *rand.Rand
}

func NewRandomPlanter(r *rand.Rand) RandomPlanter {
	return RandomPlanter{Rand: r}
}

func (rp RandomPlanter) Plant(p Params) ([]Cell, error) {
	perm := rp.Rand.Perm(p.CellCount())
	cells := make([]Cell, p.MineCount)
	for i := range cells {
		cells[i] = p.cellAt(perm[i])
	}
	return cells, nil
}

// FixedPlanter plants the same mines every game.
type FixedPlanter []Cell

func (fp FixedPlanter) Plant(p Params) ([]Cell, error) {
	if len(fp) != p.MineCount {
		return nil, ConfigurationError{p, fmt.Sprintf(
			"layout has %d mines, want %d", len(fp), p.MineCount,
		)}
	}
	seen := make(map[Cell]struct{}, len(fp))
	for _, c := range fp {
		if !p.InBounds(c) {
			return nil, ConfigurationError{p, fmt.Sprintf("mine %s out of bounds", c)}
		}
		if _, ok := seen[c]; ok {
			return nil, ConfigurationError{p, fmt.Sprintf("mine %s listed twice", c)}
		}
		seen[c] = struct{}{}
	}
	return append([]Cell(nil), fp...), nil
}
