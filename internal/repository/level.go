package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/vancomm/mine-stalker/internal/level"
	"github.com/vancomm/mine-stalker/internal/stalker"
)

type Level struct {
	Name      string             `db:"name"`
	Rows      int                `db:"grid_rows"`
	Cols      int                `db:"grid_cols"`
	Start     *stalker.Position  `db:"start"`
	Goal      *stalker.Position  `db:"goal"`
	Hazards   []stalker.Position `db:"hazards"`
	Mines     int                `db:"mines"`
	Seed      int64              `db:"seed"`
	CreatedAt pgtype.Timestamptz `db:"created_at"`
}

func (l Level) Level() level.Level {
	return level.Level{
		Name:    l.Name,
		Rows:    l.Rows,
		Cols:    l.Cols,
		Start:   l.Start,
		Goal:    l.Goal,
		Hazards: l.Hazards,
		Mines:   l.Mines,
		Seed:    uint64(l.Seed),
	}
}

func (q Queries) CreateLevel(ctx context.Context, lv level.Level) (*Level, error) {
	hazards := lv.Hazards
	if hazards == nil {
		hazards = []stalker.Position{}
	}

	rows, _ := q.db.Query(
		ctx,
		`INSERT INTO level (
			name, grid_rows, grid_cols, start, goal, hazards, mines, seed
		)
		VALUES (
			@name, @grid_rows, @grid_cols, @start, @goal, @hazards, @mines, @seed
		)
		RETURNING *;`,
		pgx.NamedArgs{
			"name":      lv.Name,
			"grid_rows": lv.Rows,
			"grid_cols": lv.Cols,
			"start":     lv.Start,
			"goal":      lv.Goal,
			"hazards":   hazards,
			"mines":     lv.Mines,
			"seed":      int64(lv.Seed),
		},
	)
	created, err := pgx.CollectExactlyOneRow(rows, pgx.RowToAddrOfStructByName[Level])
	return created, translate(err)
}

func (q Queries) FetchLevel(ctx context.Context, name string) (*Level, error) {
	rows, _ := q.db.Query(ctx, "SELECT * FROM level WHERE name = $1", name)
	lv, err := pgx.CollectExactlyOneRow(rows, pgx.RowToAddrOfStructByName[Level])
	return lv, translate(err)
}

// CreateLevels stores every level or none of them. A name that is already
// taken fails the whole batch with ErrConflict.
func (q Queries) CreateLevels(ctx context.Context, levels []level.Level) ([]*Level, error) {
	created := make([]*Level, 0, len(levels))
	err := pgx.BeginFunc(ctx, q.db, func(tx pgx.Tx) error {
		qtx := New(tx)
		for _, lv := range levels {
			row, err := qtx.CreateLevel(ctx, lv)
			if errors.Is(err, ErrConflict) {
				return fmt.Errorf("level %q: %w", lv.Name, ErrConflict)
			}
			if err != nil {
				return fmt.Errorf("level %q: %w", lv.Name, err)
			}
			created = append(created, row)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}
