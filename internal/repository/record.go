package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/vancomm/minesweeper-remote/internal/mines"
)

// ErrDuplicateRecord is returned when a game already has a record for
// the same outcome.
var ErrDuplicateRecord = errors.New("game outcome already recorded")

const DefaultRecordLimit = 20

type Record struct {
	RecordId       int64     `db:"record_id" json:"record_id"`
	GameId         uuid.UUID `db:"game_id" json:"game_id"`
	Width          int       `db:"width" json:"width"`
	Height         int       `db:"height" json:"height"`
	MineCount      int       `db:"mine_count" json:"mine_count"`
	Outcome        string    `db:"outcome" json:"outcome"`
	ElapsedSeconds int       `db:"elapsed_seconds" json:"elapsed_seconds"`
	MinesHit       int       `db:"mines_hit" json:"mines_hit"`
	RecordedAt     time.Time `db:"recorded_at" json:"recorded_at"`
}

type CreateRecordParams struct {
	GameId         uuid.UUID
	Params         mines.Params
	Outcome        mines.Outcome
	ElapsedSeconds int
	MinesHit       int
}

func (q Queries) CreateRecord(ctx context.Context, params CreateRecordParams) (*Record, error) {
	rows, _ := q.db.Query(
		ctx,
		`INSERT INTO game_record (
			game_id, width, height, mine_count, outcome, elapsed_seconds, mines_hit
		)
		VALUES (
			@game_id, @width, @height, @mine_count, @outcome, @elapsed_seconds, @mines_hit
		)
		RETURNING *;`,
		pgx.NamedArgs{
			"game_id":         params.GameId,
			"width":           params.Params.Width,
			"height":          params.Params.Height,
			"mine_count":      params.Params.MineCount,
			"outcome":         params.Outcome.String(),
			"elapsed_seconds": params.ElapsedSeconds,
			"mines_hit":       params.MinesHit,
		},
	)
	record, err := pgx.CollectExactlyOneRow(rows, pgx.RowToAddrOfStructByName[Record])
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
		return nil, ErrDuplicateRecord
	}
	return record, err
}

type RecordFilter struct {
	Params  *mines.Params
	Outcome *mines.Outcome
	Limit   int
}

func (f RecordFilter) WhereClause() (string, pgx.NamedArgs) {
	clauses := make([]string, 0)
	args := pgx.NamedArgs{}
	if f.Params != nil {
		clauses = append(
			clauses,
			"width = @width",
			"height = @height",
			"mine_count = @mine_count",
		)
		args["width"] = f.Params.Width
		args["height"] = f.Params.Height
		args["mine_count"] = f.Params.MineCount
	}
	if f.Outcome != nil {
		clauses = append(clauses, "outcome = @outcome")
		args["outcome"] = f.Outcome.String()
	}
	return strings.Join(clauses, " AND "), args
}

// ListRecords returns the fastest records matching filter.
func (q Queries) ListRecords(ctx context.Context, filter RecordFilter) ([]Record, error) {
	query := "SELECT * FROM game_record"

	whereClause, args := filter.WhereClause()
	if whereClause != "" {
		query += " WHERE " + whereClause
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = DefaultRecordLimit
	}
	args["limit"] = limit
	query += " ORDER BY elapsed_seconds, recorded_at LIMIT @limit;"

	rows, err := q.db.Query(ctx, query, args)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowToStructByName[Record])
}
