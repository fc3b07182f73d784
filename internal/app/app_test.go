package app

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/vancomm/minesweeper-remote/internal/mines"
	"github.com/vancomm/minesweeper-remote/internal/repository"
)

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

type frames struct {
	snaps []mines.Snapshot
}

func (f *frames) Render(snap mines.Snapshot) {
	f.snaps = append(f.snaps, snap)
}

type sink struct {
	records []repository.CreateRecordParams
}

func (s *sink) Record(params repository.CreateRecordParams) {
	s.records = append(s.records, params)
}

type clock struct{ t time.Time }

func (c *clock) Now() time.Time { return c.t }

// newStripLoop returns a loop over a 3x1 board with a mine at the left
// end and the cursor in the middle.
func newStripLoop(t *testing.T) (*Loop, *frames, *sink, *clock) {
	t.Helper()
	c := &clock{t: time.Date(2025, 12, 3, 12, 0, 0, 0, time.UTC)}
	session, err := mines.NewSession(
		mines.Params{Width: 3, Height: 1, MineCount: 1},
		mines.WithPlanter(mines.FixedPlanter{{X: 0, Y: 0}}),
		mines.WithClock(c.Now),
	)
	require.NoError(t, err)
	f, s := &frames{}, &sink{}
	l := NewLoop(quietLogger(), session, time.Millisecond, WithRenderers(f), WithRecords(s))
	return l, f, s, c
}

func play(l *Loop, actions ...mines.Action) {
	for _, a := range actions {
		l.Actions() <- a
		l.Step()
	}
}

func TestStepRendersChangedFrames(t *testing.T) {
	l, f, _, c := newStripLoop(t)

	l.Step()
	l.Step()
	require.Len(t, f.snaps, 1)

	play(l, mines.Flag)
	require.Len(t, f.snaps, 2)
	require.Equal(t, 0, f.snaps[1].FlagsRemaining)

	c.t = c.t.Add(1500 * time.Millisecond)
	l.Step()
	require.Len(t, f.snaps, 3)
	require.Equal(t, 1, f.snaps[2].Elapsed)
}

func TestStepAppliesOneActionPerTick(t *testing.T) {
	l, _, _, _ := newStripLoop(t)

	l.Actions() <- mines.Left
	l.Actions() <- mines.Right
	l.Step()
	require.Equal(t, mines.Cell{X: 0, Y: 0}, l.session.Cursor())
	l.Step()
	require.Equal(t, mines.Cell{X: 1, Y: 0}, l.session.Cursor())
}

func TestLoopRecordsOutcomes(t *testing.T) {
	l, _, s, c := newStripLoop(t)
	first := l.GameId()

	play(l, mines.Dig)
	c.t = c.t.Add(3 * time.Second)
	play(l, mines.Right, mines.Dig)
	require.Equal(t, mines.WonClean, l.session.Outcome())
	require.Len(t, s.records, 1)
	require.Equal(t, repository.CreateRecordParams{
		GameId:         first,
		Params:         mines.Params{Width: 3, Height: 1, MineCount: 1},
		Outcome:        mines.WonClean,
		ElapsedSeconds: 3,
	}, s.records[0])

	play(l, mines.Restart)
	second := l.GameId()
	require.NotEqual(t, first, second)

	play(l, mines.Left, mines.Dig)
	require.Len(t, s.records, 2)
	require.Equal(t, mines.Lost, s.records[1].Outcome)
	require.Equal(t, second, s.records[1].GameId)
	require.Equal(t, 1, s.records[1].MinesHit)

	play(l, mines.Right, mines.Dig, mines.Right, mines.Dig)
	require.Len(t, s.records, 3)
	require.Equal(t, mines.WonAfterLoss, s.records[2].Outcome)
	require.Equal(t, second, s.records[2].GameId)

	play(l, mines.Dig, mines.Flag)
	require.Len(t, s.records, 3)
}

func TestRunStopsOnCancel(t *testing.T) {
	l, f, _, _ := newStripLoop(t)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error)
	go func() { done <- l.Run(ctx) }()

	l.Actions() <- mines.Flag
	require.Eventually(t, func() bool {
		return len(l.Actions()) == 0
	}, time.Second, time.Millisecond)

	cancel()
	require.NoError(t, <-done)
	require.NotEmpty(t, f.snaps)
}

type fakeCreator struct {
	mu    sync.Mutex
	calls []repository.CreateRecordParams
	err   error
}

func (f *fakeCreator) CreateRecord(ctx context.Context, params repository.CreateRecordParams) (*repository.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, params)
	if f.err != nil {
		return nil, f.err
	}
	return &repository.Record{RecordId: int64(len(f.calls)), GameId: params.GameId}, nil
}

func (f *fakeCreator) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func TestRecorder(t *testing.T) {
	for _, err := range []error{nil, repository.ErrDuplicateRecord, errors.New("boom")} {
		repo := &fakeCreator{err: err}
		r := NewRecorder(quietLogger(), repo, 2)

		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan error)
		go func() { done <- r.Run(ctx) }()

		r.Record(repository.CreateRecordParams{GameId: uuid.New(), Outcome: mines.Lost})
		r.Record(repository.CreateRecordParams{GameId: uuid.New(), Outcome: mines.WonClean})
		require.Eventually(t, func() bool { return repo.count() == 2 }, time.Second, time.Millisecond)

		cancel()
		require.NoError(t, <-done)
	}
}

func TestRecorderDropsWhenFull(t *testing.T) {
	repo := &fakeCreator{}
	r := NewRecorder(quietLogger(), repo, 1)

	r.Record(repository.CreateRecordParams{Outcome: mines.Lost})
	r.Record(repository.CreateRecordParams{Outcome: mines.WonAfterLoss})
	require.Len(t, r.queue, 1)
}

func TestRecorderDrainsOnShutdown(t *testing.T) {
	repo := &fakeCreator{}
	r := NewRecorder(quietLogger(), repo, 4)
	r.Record(repository.CreateRecordParams{GameId: uuid.New(), Outcome: mines.Lost})
	r.Record(repository.CreateRecordParams{GameId: uuid.New(), Outcome: mines.WonAfterLoss})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.NoError(t, r.Run(ctx))
	require.Equal(t, 2, repo.count())
	require.Empty(t, r.queue)
}

type stuckCreator struct {
	fakeCreator
}

func (s *stuckCreator) CreateRecord(ctx context.Context, params repository.CreateRecordParams) (*repository.Record, error) {
	s.fakeCreator.CreateRecord(ctx, params)
	<-ctx.Done()
	return nil, ctx.Err()
}

func TestRecorderDrainGivesUp(t *testing.T) {
	repo := &stuckCreator{}
	r := NewRecorder(quietLogger(), repo, 4)
	r.drainTimeout = 10 * time.Millisecond
	for range 3 {
		r.Record(repository.CreateRecordParams{GameId: uuid.New(), Outcome: mines.Lost})
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.NoError(t, r.Run(ctx))
	require.Equal(t, 1, repo.count())
}
