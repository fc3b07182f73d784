package mines

import (
	"math/rand/v2"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func newWallSession(t *testing.T) (*Session, *fakeClock) {
	t.Helper()
	clock := newFakeClock()
	s, err := NewSession(Beginner, WithPlanter(wallLayout), WithClock(clock.Now))
	require.NoError(t, err)
	return s, clock
}

func TestNewSessionRejectsInvalidParams(t *testing.T) {
	_, err := NewSession(Params{Width: 3, Height: 3, MineCount: 9})
	var ce ConfigurationError
	require.ErrorAs(t, err, &ce)
}

func TestNewSessionInitialState(t *testing.T) {
	s, _ := newWallSession(t)
	require.Equal(t, Cell{4, 4}, s.Cursor())
	require.Equal(t, NotStarted, s.Phase())

	snap := s.Snapshot()
	require.Equal(t, 10, snap.FlagsRemaining)
	require.Zero(t, snap.Elapsed)
	require.Equal(t, FacePlaying, snap.Face)
	require.Len(t, snap.Cells, 81)
	for _, v := range snap.Cells {
		require.Equal(t, Covered, v.State)
	}
}

func TestCursorClampsAtBounds(t *testing.T) {
	s, _ := newWallSession(t)

	moveTo(s, Cell{0, 0})
	require.NoError(t, s.Apply(Left))
	require.NoError(t, s.Apply(Up))
	require.Equal(t, Cell{0, 0}, s.Cursor())

	moveTo(s, Cell{8, 8})
	s.Apply(Right)
	s.Apply(Down)
	require.Equal(t, Cell{8, 8}, s.Cursor())

	s.MoveCursor(AxisX, -100)
	require.Equal(t, Cell{0, 8}, s.Cursor())
	s.Apply(Up)
	require.Equal(t, Cell{0, 7}, s.Cursor())
	require.Equal(t, NotStarted, s.Phase())
}

func TestFlagCounterNeverNegative(t *testing.T) {
	s, _ := newWallSession(t)
	flagged := 0
	for y := range 9 {
		for x := 5; x < 9 && flagged < 12; x++ {
			moveTo(s, Cell{x, y})
			s.Apply(Flag)
			flagged++
		}
	}
	require.Equal(t, 12, s.Board().FlaggedCount())
	require.Equal(t, 0, s.Snapshot().FlagsRemaining)
}

func TestFlagToggles(t *testing.T) {
	s, _ := newWallSession(t)
	s.Apply(Flag)
	require.Equal(t, Flagged, s.Snapshot().At(Cell{4, 4}).State)
	require.Equal(t, 9, s.Snapshot().FlagsRemaining)
	s.Apply(Flag)
	require.Equal(t, Covered, s.Snapshot().At(Cell{4, 4}).State)
	require.Equal(t, 10, s.Snapshot().FlagsRemaining)
}

func TestFlagIgnoresUncoveredAndHitCells(t *testing.T) {
	s, _ := newWallSession(t)

	digAt(s, Cell{5, 4})
	s.Apply(Flag)
	require.False(t, s.Board().IsFlagged(Cell{5, 4}))

	digAt(s, Cell{4, 4})
	s.Apply(Flag)
	require.False(t, s.Board().IsFlagged(Cell{4, 4}))
	require.Equal(t, HitMine, s.Snapshot().At(Cell{4, 4}).State)
}

func TestDigFlaggedCellIsNoop(t *testing.T) {
	s, _ := newWallSession(t)
	moveTo(s, Cell{8, 8})
	s.Apply(Flag)
	res := s.Dig()
	require.Equal(t, DigIgnored, res.Kind)
	require.Zero(t, s.Board().UncoveredCount())
	require.True(t, s.Board().IsFlagged(Cell{8, 8}))
}

func TestTimer(t *testing.T) {
	t.Run("moves do not start it", func(t *testing.T) {
		s, clock := newWallSession(t)
		s.Apply(Left)
		clock.Advance(5 * time.Second)
		s.Tick()
		require.Equal(t, NotStarted, s.Phase())
		require.Zero(t, s.Snapshot().Elapsed)
	})

	t.Run("flag starts it", func(t *testing.T) {
		s, clock := newWallSession(t)
		s.Apply(Flag)
		require.Equal(t, Running, s.Phase())
		clock.Advance(3500 * time.Millisecond)
		s.Tick()
		require.Equal(t, 3, s.Snapshot().Elapsed)
	})

	t.Run("safe dig starts it", func(t *testing.T) {
		s, clock := newWallSession(t)
		digAt(s, Cell{8, 8})
		clock.Advance(7 * time.Second)
		s.Tick()
		require.Equal(t, 7, s.Snapshot().Elapsed)
	})

	t.Run("mine hit freezes it", func(t *testing.T) {
		s, clock := newWallSession(t)
		digAt(s, Cell{8, 8})
		clock.Advance(4 * time.Second)
		digAt(s, Cell{4, 0})
		require.Equal(t, Ended, s.Phase())
		clock.Advance(time.Minute)
		s.Tick()
		require.Equal(t, 4, s.Snapshot().Elapsed)
		require.Equal(t, FaceLost, s.Snapshot().Face)
	})

	t.Run("first dig on a mine freezes it at zero", func(t *testing.T) {
		s, clock := newWallSession(t)
		s.Dig() // cursor starts on (4,4), a mine
		require.Equal(t, Ended, s.Phase())
		clock.Advance(time.Minute)
		digAt(s, Cell{8, 8})
		s.Tick()
		require.Zero(t, s.Snapshot().Elapsed)
	})

	t.Run("clamped to 999", func(t *testing.T) {
		s, clock := newWallSession(t)
		s.Apply(Flag)
		clock.Advance(2 * time.Hour)
		s.Tick()
		require.Equal(t, MaxElapsed, s.Snapshot().Elapsed)
	})
}

func TestCleanWin(t *testing.T) {
	s, clock := newWallSession(t)
	digAt(s, Cell{8, 8})
	clock.Advance(10 * time.Second)
	digAt(s, Cell{2, 5})
	require.Equal(t, WonClean, s.Outcome())
	require.Equal(t, Ended, s.Phase())

	clock.Advance(time.Minute)
	s.Tick()
	snap := s.Snapshot()
	require.Equal(t, FaceWonClean, snap.Face)
	require.Equal(t, 10, snap.Elapsed)

	// the board is finished; nothing more can change it
	require.Equal(t, DigIgnored, digAt(s, Cell{4, 4}).Kind)
	s.Apply(Flag)
	require.Zero(t, s.Board().HitCount())
	require.Zero(t, s.Board().FlaggedCount())
	require.Equal(t, WonClean, s.Outcome())
}

func TestWinAfterDiggingEveryMine(t *testing.T) {
	s, clock := newWallSession(t)
	for _, c := range s.Board().Mines() {
		require.Equal(t, DigHitMine, digAt(s, c).Kind)
		clock.Advance(time.Second)
	}
	require.Equal(t, FaceLost, s.Snapshot().Face)
	require.Equal(t, 10, s.Board().HitCount())

	for _, c := range safeCells(s.Board()) {
		digAt(s, c)
	}
	require.True(t, s.Board().Cleared())
	require.Equal(t, WonAfterLoss, s.Outcome())
	require.Equal(t, FaceWonAfterLoss, s.Snapshot().Face)
}

func TestRandomBoardWinAfterLoss(t *testing.T) {
	clock := newFakeClock()
	planter := NewRandomPlanter(rand.New(rand.NewPCG(1, 2)))
	s, err := NewSession(Beginner, WithPlanter(planter), WithClock(clock.Now))
	require.NoError(t, err)

	for range 5 {
		require.NoError(t, s.Apply(Restart))
		mines := s.Board().Mines()
		require.Len(t, mines, 10)
		digAt(s, mines[0])
		for _, c := range safeCells(s.Board()) {
			digAt(s, c)
		}
		require.Equal(t, WonAfterLoss, s.Outcome())
	}
}

func TestRandomBoardCleanWin(t *testing.T) {
	planter := NewRandomPlanter(rand.New(rand.NewPCG(3, 4)))
	s, err := NewSession(Beginner, WithPlanter(planter))
	require.NoError(t, err)
	for _, c := range safeCells(s.Board()) {
		digAt(s, c)
	}
	require.Equal(t, WonClean, s.Outcome())
	require.Equal(t, 71, s.Board().UncoveredCount())
}

func TestRestartDiscardsState(t *testing.T) {
	s, clock := newWallSession(t)
	digAt(s, Cell{8, 8})
	digAt(s, Cell{4, 2})
	moveTo(s, Cell{0, 8})
	s.Apply(Flag)
	clock.Advance(time.Minute)

	require.NoError(t, s.Apply(Restart))
	require.Equal(t, NotStarted, s.Phase())
	require.Equal(t, Cell{4, 4}, s.Cursor())
	require.Zero(t, s.Elapsed())
	require.Zero(t, s.Board().UncoveredCount())
	require.Zero(t, s.Board().FlaggedCount())
	require.Zero(t, s.Board().HitCount())
	require.Equal(t, FacePlaying, s.Snapshot().Face)
}

func TestApplyNoAction(t *testing.T) {
	s, _ := newWallSession(t)
	before := s.Snapshot()
	require.NoError(t, s.Apply(NoAction))
	require.Equal(t, before, s.Snapshot())
}

func TestParseAction(t *testing.T) {
	for a := NoAction; a <= Restart; a++ {
		parsed, err := ParseAction(a.String())
		require.NoError(t, err)
		require.Equal(t, a, parsed)
	}
	got, err := ParseAction(" DIG\n")
	require.NoError(t, err)
	require.Equal(t, Dig, got)

	_, err = ParseAction("chord")
	require.Error(t, err)
}

func TestSnapshotString(t *testing.T) {
	p := Params{Width: 3, Height: 2, MineCount: 1}
	s, err := NewSession(p, WithPlanter(FixedPlanter{{0, 0}}))
	require.NoError(t, err)
	digAt(s, Cell{2, 1})
	moveTo(s, Cell{0, 0})
	s.Apply(Flag)
	require.Equal(t, "* 1 0 \n  1 0 \n", s.Snapshot().String())
}

func TestSnapshotEqual(t *testing.T) {
	s, _ := newWallSession(t)

	a := s.Snapshot()
	require.True(t, a.Equal(s.Snapshot()))

	require.NoError(t, s.Apply(Left))
	require.False(t, a.Equal(s.Snapshot()))
}

func TestParseOutcome(t *testing.T) {
	for _, o := range []Outcome{InProgress, Lost, WonClean, WonAfterLoss} {
		parsed, err := ParseOutcome(o.String())
		require.NoError(t, err)
		require.Equal(t, o, parsed)
	}
	_, err := ParseOutcome("draw")
	require.Error(t, err)
}
