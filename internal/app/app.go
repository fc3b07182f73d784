// Package app runs the game loop that owns the session.
package app

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/vancomm/minesweeper-remote/internal/mines"
	"github.com/vancomm/minesweeper-remote/internal/repository"
)

const DefaultQueueSize = 16

type Renderer interface {
	Render(snap mines.Snapshot)
}

// RecordSink receives every terminal transition of a game.
type RecordSink interface {
	Record(params repository.CreateRecordParams)
}

type Loop struct {
	log       *logrus.Logger
	session   *mines.Session
	interval  time.Duration
	actions   chan mines.Action
	renderers []Renderer
	records   RecordSink

	gameId  uuid.UUID
	outcome mines.Outcome
	last    mines.Snapshot
	drawn   bool
}

type LoopOption func(*Loop)

func WithRenderers(rs ...Renderer) LoopOption {
	return func(l *Loop) {
		l.renderers = append(l.renderers, rs...)
	}
}

func WithRecords(sink RecordSink) LoopOption {
	return func(l *Loop) {
		l.records = sink
	}
}

func WithQueueSize(n int) LoopOption {
	return func(l *Loop) {
		l.actions = make(chan mines.Action, n)
	}
}

func NewLoop(
	log *logrus.Logger,
	session *mines.Session,
	interval time.Duration,
	opts ...LoopOption,
) *Loop {
	l := &Loop{
		log:      log,
		session:  session,
		interval: interval,
		actions:  make(chan mines.Action, DefaultQueueSize),
		gameId:   uuid.New(),
		outcome:  session.Outcome(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Actions is where input adapters deliver their actions.
func (l *Loop) Actions() chan<- mines.Action {
	return l.actions
}

func (l *Loop) GameId() uuid.UUID {
	return l.gameId
}

// Run steps the game once per interval until ctx is done.
func (l *Loop) Run(ctx context.Context) error {
	ticker := time.NewTicker(l.interval)
	defer ticker.Stop()

	l.log.WithFields(logrus.Fields{
		"game_id":  l.gameId,
		"interval": l.interval,
	}).Info("game loop started")

	l.Step()
	for {
		select {
		case <-ctx.Done():
			l.log.Info("game loop stopped")
			return nil
		case <-ticker.C:
			l.Step()
		}
	}
}

// Step applies at most one pending action, advances the clock and
// renders the frame if it changed.
func (l *Loop) Step() {
	select {
	case a := <-l.actions:
		l.apply(a)
	default:
	}

	l.session.Tick()

	snap := l.session.Snapshot()
	if l.drawn && snap.Equal(l.last) {
		return
	}
	l.last, l.drawn = snap, true
	for _, r := range l.renderers {
		r.Render(snap)
	}
}

func (l *Loop) apply(a mines.Action) {
	if err := l.session.Apply(a); err != nil {
		l.log.WithError(err).WithField("action", a).Error("unable to apply action")
		return
	}

	if a == mines.Restart {
		l.gameId = uuid.New()
		l.outcome = l.session.Outcome()
		l.log.WithField("game_id", l.gameId).Info("game restarted")
		return
	}

	outcome := l.session.Outcome()
	if outcome == l.outcome {
		return
	}
	l.outcome = outcome

	board := l.session.Board()
	params := repository.CreateRecordParams{
		GameId:         l.gameId,
		Params:         l.session.Params(),
		Outcome:        outcome,
		ElapsedSeconds: l.session.Snapshot().Elapsed,
		MinesHit:       board.HitCount(),
	}
	l.log.WithFields(logrus.Fields{
		"game_id":   params.GameId,
		"outcome":   outcome,
		"elapsed":   params.ElapsedSeconds,
		"mines_hit": params.MinesHit,
	}).Info("game outcome changed")

	if outcome.Terminal() && l.records != nil {
		l.records.Record(params)
	}
}
