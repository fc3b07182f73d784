package mines

import (
	"time"

	"github.com/sirupsen/logrus"
)

var Log = logrus.New()

type Option func(*Session)

func WithPlanter(p Planter) Option {
	return func(s *Session) {
		s.planter = p
	}
}

// WithClock replaces time.Now, mostly for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Session) {
		s.now = now
	}
}

// Session drives one board through repeated games. It is not safe for
// concurrent use; a single loop should own it and call Apply and Tick.
type Session struct {
	params  Params
	planter Planter
	now     func() time.Time

	board  *Board
	engine RevealEngine

	cursor    Cell
	phase     Phase
	startedAt time.Time
	elapsed   time.Duration
}

func NewSession(p Params, opts ...Option) (*Session, error) {
	s := &Session{
		params: p,
		now:    time.Now,
		board:  &Board{},
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.planter == nil {
		s.planter = NewRandomPlanter(newRand())
	}
	if err := s.Reset(); err != nil {
		return nil, err
	}
	return s, nil
}

// Reset abandons the current game and starts a fresh one with new mines.
func (s *Session) Reset() error {
	if err := s.board.Reset(s.params, s.planter); err != nil {
		return err
	}
	s.engine = NewRevealEngine(s.board)
	s.cursor = s.params.Center()
	s.phase = NotStarted
	s.startedAt = time.Time{}
	s.elapsed = 0
	return nil
}

// Apply performs a single action. Only Restart can fail, and only when
// the mine planter rejects the board parameters.
func (s *Session) Apply(a Action) error {
	switch a {
	case Up:
		s.MoveCursor(AxisY, -1)
	case Down:
		s.MoveCursor(AxisY, 1)
	case Left:
		s.MoveCursor(AxisX, -1)
	case Right:
		s.MoveCursor(AxisX, 1)
	case Dig:
		s.Dig()
	case Flag:
		s.Flag()
	case Restart:
		return s.Reset()
	}
	return nil
}

func (s *Session) Dig() DigResult {
	if s.board.Cleared() {
		return DigResult{Kind: DigIgnored}
	}
	res := s.engine.DigAt(s.cursor)
	if res.Kind == DigIgnored {
		return res
	}
	s.start()

	fields := logrus.Fields{"cell": s.cursor.String(), "result": res.Kind.String()}
	switch res.Kind {
	case DigHitMine:
		s.stop()
		Log.WithFields(fields).Debug("mine hit")
	case DigRevealed:
		if s.board.Cleared() {
			s.stop()
		}
		fields["revealed"] = len(res.Revealed)
		Log.WithFields(fields).Debug("dig")
	}
	return res
}

// Flag toggles the flag under the cursor. Cells already uncovered or
// exploded cannot be flagged.
func (s *Session) Flag() {
	c := s.cursor
	if s.board.Cleared() || s.board.IsUncovered(c) || s.board.IsHitMine(c) {
		return
	}
	if s.board.IsFlagged(c) {
		s.board.UnmarkFlagged(c)
	} else {
		s.board.MarkFlagged(c)
	}
	s.start()
}

func (s *Session) MoveCursor(axis Axis, delta int) {
	switch axis {
	case AxisX:
		s.cursor.X = clamp(s.cursor.X+delta, 0, s.params.Width-1)
	case AxisY:
		s.cursor.Y = clamp(s.cursor.Y+delta, 0, s.params.Height-1)
	}
}

// Tick advances the timer while the game is running.
func (s *Session) Tick() {
	if s.phase == Running {
		s.elapsed = s.now().Sub(s.startedAt)
	}
}

func (s *Session) start() {
	if s.phase == NotStarted {
		s.startedAt = s.now()
		s.phase = Running
	}
}

func (s *Session) stop() {
	if s.phase == Running {
		s.elapsed = s.now().Sub(s.startedAt)
		s.phase = Ended
	}
}

func (s *Session) Params() Params         { return s.params }
func (s *Session) Board() *Board          { return s.board }
func (s *Session) Cursor() Cell           { return s.cursor }
func (s *Session) Phase() Phase           { return s.phase }
func (s *Session) Elapsed() time.Duration { return s.elapsed }
func (s *Session) Outcome() Outcome       { return s.engine.Outcome() }

func (s *Session) Snapshot() Snapshot {
	b := s.board
	cells := make([]CellView, b.CellCount())
	for i := range cells {
		cells[i] = viewOf(b, b.cellAt(i))
	}
	return Snapshot{
		Width:          b.Width,
		Height:         b.Height,
		MineCount:      b.MineCount,
		Cells:          cells,
		Cursor:         s.cursor,
		FlagsRemaining: max(0, b.MineCount-b.FlaggedCount()),
		Elapsed:        min(MaxElapsed, int(s.elapsed/time.Second)),
		Face:           s.engine.Outcome().Face(),
		Phase:          s.phase,
	}
}

func clamp(v, lo, hi int) int {
	return max(lo, min(v, hi))
}
