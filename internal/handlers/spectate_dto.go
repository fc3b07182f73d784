package handlers

import (
	"errors"
	"net/url"

	"github.com/gorilla/schema"

	"github.com/vancomm/minesweeper-remote/internal/mines"
	"github.com/vancomm/minesweeper-remote/internal/repository"
)

var decoder = newDecoder()

func newDecoder() *schema.Decoder {
	dec := schema.NewDecoder()
	dec.IgnoreUnknownKeys(true)
	return dec
}

type ActionDTO struct {
	Action string `schema:"action,required"`
}

func ParseActionDTO(query url.Values) (mines.Action, error) {
	var dto ActionDTO
	if err := decoder.Decode(&dto, query); err != nil {
		return mines.NoAction, err
	}
	action, err := mines.ParseAction(dto.Action)
	if err != nil {
		return mines.NoAction, err
	}
	if action == mines.NoAction {
		return mines.NoAction, errors.New("action is required")
	}
	return action, nil
}

type RecordFilterDTO struct {
	Width     int           `schema:"width"`
	Height    int           `schema:"height"`
	MineCount int           `schema:"mine_count"`
	Outcome   mines.Outcome `schema:"outcome"`
	Limit     int           `schema:"limit"`
}

// ParseRecordFilter reads a record filter from query. Board params only
// apply when all three are given.
func ParseRecordFilter(query url.Values) (repository.RecordFilter, error) {
	var dto RecordFilterDTO
	if err := decoder.Decode(&dto, query); err != nil {
		return repository.RecordFilter{}, err
	}

	filter := repository.RecordFilter{Limit: dto.Limit}
	if query.Has("width") || query.Has("height") || query.Has("mine_count") {
		params := mines.Params{
			Width:     dto.Width,
			Height:    dto.Height,
			MineCount: dto.MineCount,
		}
		if err := params.Validate(); err != nil {
			return repository.RecordFilter{}, err
		}
		filter.Params = &params
	}
	if query.Has("outcome") {
		filter.Outcome = &dto.Outcome
	}
	if filter.Limit < 0 || filter.Limit > 100 {
		return repository.RecordFilter{}, errors.New("limit must be between 0 and 100")
	}
	return filter, nil
}
