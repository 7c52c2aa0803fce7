package config

import (
	"fmt"
	"time"

	"github.com/vancomm/mine-stalker/internal/mines"
)

type Search struct {
	// Timeout bounds a single search triggered over HTTP.
	Timeout time.Duration
	// Field is used for whatever a new-run request leaves out.
	Field mines.Params
}

func NewSearch() (*Search, error) {
	timeout, err := lookupDuration("SEARCH_TIMEOUT", 5*time.Second)
	if err != nil {
		return nil, err
	}

	field := mines.Default()
	if field.Rows, err = lookupInt("STALKER_ROWS", field.Rows); err != nil {
		return nil, err
	}
	if field.Cols, err = lookupInt("STALKER_COLS", field.Cols); err != nil {
		return nil, err
	}
	if field.MineCount, err = lookupInt("STALKER_MINES", field.MineCount); err != nil {
		return nil, err
	}
	if err := field.Validate(); err != nil {
		return nil, fmt.Errorf("invalid default field: %w", err)
	}
	if free := field.FreeCells(field.DefaultStart(), field.DefaultGoal()); field.MineCount > free {
		return nil, fmt.Errorf(
			"invalid default field: %w: %d mines, %d free cells",
			mines.ErrTooManyMines, field.MineCount, free,
		)
	}

	search := &Search{
		Timeout: timeout,
		Field:   field,
	}

	return search, nil
}
