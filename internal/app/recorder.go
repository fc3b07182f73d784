package app

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/vancomm/minesweeper-remote/internal/repository"
)

type RecordCreator interface {
	CreateRecord(ctx context.Context, params repository.CreateRecordParams) (*repository.Record, error)
}

// DrainTimeout bounds how long Run keeps writing queued records after its
// context is done.
const DrainTimeout = 2 * time.Second

// Recorder writes game records off the game loop.
type Recorder struct {
	log          *logrus.Logger
	repo         RecordCreator
	queue        chan repository.CreateRecordParams
	drainTimeout time.Duration
}

func NewRecorder(log *logrus.Logger, repo RecordCreator, size int) *Recorder {
	return &Recorder{
		log:          log,
		repo:         repo,
		queue:        make(chan repository.CreateRecordParams, size),
		drainTimeout: DrainTimeout,
	}
}

// Record queues params without blocking; it drops them when the queue is
// full.
func (r *Recorder) Record(params repository.CreateRecordParams) {
	select {
	case r.queue <- params:
	default:
		r.log.WithField("game_id", params.GameId).Warn("record queue full, dropping record")
	}
}

func (r *Recorder) Run(ctx context.Context) error {
	for {
		if ctx.Err() != nil {
			r.drain()
			return nil
		}
		select {
		case <-ctx.Done():
			r.drain()
			return nil
		case params := <-r.queue:
			r.write(ctx, params)
		}
	}
}

// drain writes whatever is still queued, giving up after drainTimeout.
func (r *Recorder) drain() {
	ctx, cancel := context.WithTimeout(context.Background(), r.drainTimeout)
	defer cancel()
	for {
		select {
		case params := <-r.queue:
			r.write(ctx, params)
		default:
			return
		}
		if ctx.Err() != nil {
			if n := len(r.queue); n > 0 {
				r.log.WithField("dropped", n).Warn("shutting down with unsaved records")
			}
			return
		}
	}
}

func (r *Recorder) write(ctx context.Context, params repository.CreateRecordParams) {
	log := r.log.WithFields(logrus.Fields{
		"game_id": params.GameId,
		"outcome": params.Outcome,
	})
	record, err := r.repo.CreateRecord(ctx, params)
	if errors.Is(err, repository.ErrDuplicateRecord) {
		log.Debug("record already exists")
		return
	}
	if err != nil {
		log.WithError(err).Error("unable to save record")
		return
	}
	log.WithField("record_id", record.RecordId).Info("record saved")
}
