package mines

type DigKind int8

const (
	// DigIgnored means the cell was already uncovered, flagged or hit.
	DigIgnored DigKind = iota
	DigHitMine
	DigRevealed
)

func (k DigKind) String() string {
	switch k {
	case DigHitMine:
		return "hit_mine"
	case DigRevealed:
		return "revealed"
	default:
		return "ignored"
	}
}

type DigResult struct {
	Kind     DigKind
	Revealed []Cell
}

// RevealEngine applies the dig rules to a board.
type RevealEngine struct {
	board *Board
}

func NewRevealEngine(b *Board) RevealEngine {
	return RevealEngine{board: b}
}

func (e RevealEngine) DigAt(c Cell) DigResult {
	b := e.board
	if !b.InBounds(c) || b.IsUncovered(c) || b.IsFlagged(c) || b.IsHitMine(c) {
		return DigResult{Kind: DigIgnored}
	}

	if b.IsMine(c) {
		/*
		 * The hit mine stays out of the uncovered set so the count of
		 * uncovered cells keeps meaning "safe cells found" and the
		 * player can go on clearing the board.
		 */
		b.MarkHit(c)
		return DigResult{Kind: DigHitMine}
	}

	return DigResult{Kind: DigRevealed, Revealed: e.uncoverBlob(c)}
}

// uncoverBlob uncovers start and, while the uncovered cells have no
// neighbouring mines, every covered unflagged cell around them.
func (e RevealEngine) uncoverBlob(start Cell) []Cell {
	b := e.board
	var revealed []Cell
	todo := []Cell{start}
	for len(todo) > 0 {
		c := todo[len(todo)-1]
		todo = todo[:len(todo)-1]
		if b.IsUncovered(c) {
			continue
		}
		n := b.AdjacentMineCount(c)
		b.MarkUncovered(c, n)
		revealed = append(revealed, c)
		if n == 0 {
			todo = append(todo, b.CoveredUnflaggedNeighbors(c)...)
		}
	}
	return revealed
}

func (e RevealEngine) Outcome() Outcome {
	b := e.board
	switch {
	case b.Cleared() && b.HitCount() == 0:
		return WonClean
	case b.Cleared():
		return WonAfterLoss
	case b.HitCount() > 0:
		return Lost
	default:
		return InProgress
	}
}
